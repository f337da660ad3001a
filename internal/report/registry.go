package report

import (
	"errors"
	"strings"
)

// OtherCategory is the fallback bucket for events that match no
// configured keyword but that the owner is attending.
const OtherCategory = "Other"

// ErrNoCategories is returned when the project configuration contains no
// usable keywords. A run must abort on it before fetching any events.
var ErrNoCategories = errors.New("no categories configured")

// Registry is the ordered list of project keywords. Order defines match
// precedence: the first keyword found in an event's text wins. It is
// loaded once per run and immutable afterwards.
type Registry struct {
	keywords []string
	folded   []string // lowercased keywords, same order
}

// NewRegistry builds a registry from raw configuration values. Values are
// trimmed and blank entries dropped; duplicates are kept (matching stops
// at the first hit, so a duplicate is simply never reached).
func NewRegistry(values []string) (*Registry, error) {
	r := &Registry{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		r.keywords = append(r.keywords, v)
		r.folded = append(r.folded, strings.ToLower(v))
	}

	if len(r.keywords) == 0 {
		return nil, ErrNoCategories
	}
	return r, nil
}

// Keywords returns the configured keywords in precedence order.
func (r *Registry) Keywords() []string {
	out := make([]string, len(r.keywords))
	copy(out, r.keywords)
	return out
}

func (r *Registry) Len() int {
	return len(r.keywords)
}

// Match scans the registry in order and returns the first keyword whose
// lowercased form appears as a substring of searchText. searchText must
// already be case-folded. Substring containment is intentional: partial
// matches inside other words count.
func (r *Registry) Match(searchText string) (string, bool) {
	for i, folded := range r.folded {
		if strings.Contains(searchText, folded) {
			return r.keywords[i], true
		}
	}
	return "", false
}
