package report

import "time"

// CategoryTotal is the accumulated state of one category over a window.
type CategoryTotal struct {
	Duration time.Duration
	Tasks    []string // task labels in event order, duplicates kept
}

// Aggregate accumulates per-category duration and task labels for one
// report window. Every configured category plus Other exists from the
// start, even if no event ever matches it, so the writer always sees a
// stable, predictable key set.
type Aggregate struct {
	order  []string
	totals map[string]*CategoryTotal
}

// NewAggregate seeds an aggregate with the registry's categories in
// precedence order, followed by Other.
func NewAggregate(registry *Registry) *Aggregate {
	a := &Aggregate{
		totals: make(map[string]*CategoryTotal),
	}
	for _, keyword := range registry.Keywords() {
		if _, ok := a.totals[keyword]; ok {
			// Duplicate keyword in configuration: one bucket is enough,
			// matching always resolves to the first occurrence anyway.
			continue
		}
		a.order = append(a.order, keyword)
		a.totals[keyword] = &CategoryTotal{}
	}
	a.order = append(a.order, OtherCategory)
	a.totals[OtherCategory] = &CategoryTotal{}
	return a
}

// Add records one included classification result.
func (a *Aggregate) Add(c Classification, duration time.Duration) {
	if c.Excluded {
		return
	}
	total := a.totals[c.Category]
	if total == nil {
		return
	}
	total.Duration += duration
	total.Tasks = append(total.Tasks, c.TaskLabel)
}

// Categories returns the category names in output order: configured
// keywords first, in registry order, then Other last.
func (a *Aggregate) Categories() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// Total returns the accumulated state for one category.
func (a *Aggregate) Total(category string) CategoryTotal {
	if t := a.totals[category]; t != nil {
		return *t
	}
	return CategoryTotal{}
}
