package report

import (
	"strings"

	"timereport/internal/calendar"
)

// Classification is the single outcome of classifying one event: either
// excluded, or included under exactly one category with a task label.
type Classification struct {
	Excluded  bool
	Category  string
	TaskLabel string
}

func excluded() Classification {
	return Classification{Excluded: true}
}

// Classify decides whether an event contributes to the report and, if so,
// which category it belongs to.
//
// Cancelled events and events the owner declined are dropped before any
// text or duration work. Zero-length events are dropped next. The
// remaining events are matched against the registry over a case-folded
// concatenation of title, description, creators and guests; the first
// keyword hit wins. Unmatched events land in Other only when the owner is
// actually attending.
func Classify(ev *calendar.Event, registry *Registry) Classification {
	if ev.Cancelled || ev.Response == calendar.StatusNo {
		return excluded()
	}

	if ev.Duration() == 0 {
		return excluded()
	}

	searchText := buildSearchText(ev)

	if keyword, ok := registry.Match(searchText); ok {
		return Classification{
			Category:  keyword,
			TaskLabel: ExtractTaskLabel(ev.Title, keyword),
		}
	}

	if ev.Response.Attending() {
		return Classification{
			Category:  OtherCategory,
			TaskLabel: ev.Title,
		}
	}

	return excluded()
}

// buildSearchText concatenates every text field an event carries into one
// lowercased string. Matching against creator and guest identifiers is
// intentional: it maximizes recall, accepting the occasional false
// positive from, say, a keyword inside an email domain.
func buildSearchText(ev *calendar.Event) string {
	parts := make([]string, 0, 2+len(ev.Creators)+len(ev.Guests))
	parts = append(parts, ev.Title, ev.Description)
	parts = append(parts, ev.Creators...)
	parts = append(parts, ev.Guests...)
	return strings.ToLower(strings.Join(parts, " "))
}
