package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"timereport/internal/calendar"
	"timereport/internal/logger"
)

// Clock supplies the current time. Injecting it keeps window selection
// deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// KeywordSource provides the ordered project keyword list from the
// persistent configuration table.
type KeywordSource interface {
	ProjectKeywords() ([]string, error)
}

// Row is one materialized report row for a week and category.
type Row struct {
	WeekStart time.Time
	WeekEnd   time.Time
	Category  string
	Hours     float64 // rounded to two decimal places
	Tasks     string  // task labels joined with newlines
}

// RowStore persists report rows. ReplaceWeek atomically replaces every
// row whose week start equals weekStart with the given rows.
type RowStore interface {
	ReplaceWeek(weekStart time.Time, rows []Row) error
}

// Generator runs the report pipeline: select the week window, load the
// keyword registry, fetch events, classify and aggregate them, and
// replace the week's rows in the store. One run is fully synchronous.
type Generator struct {
	clock    Clock
	keywords KeywordSource
	events   calendar.Source
	store    RowStore
	location *time.Location
	log      *logrus.Logger
}

func NewGenerator(clock Clock, keywords KeywordSource, events calendar.Source, store RowStore, location *time.Location) *Generator {
	if location == nil {
		location = time.Local
	}
	return &Generator{
		clock:    clock,
		keywords: keywords,
		events:   events,
		store:    store,
		location: location,
		log:      logger.GetLogger(),
	}
}

// Summary describes one completed run, for the invocation surface's
// completion message.
type Summary struct {
	Window         Window
	EventsFetched  int
	EventsIncluded int
	RowsWritten    int
}

// Run generates the report for the week selected by mode. The keyword
// registry is validated before any event fetch, and no destructive write
// happens unless event retrieval succeeded.
func (g *Generator) Run(mode WeekMode) (*Summary, error) {
	values, err := g.keywords.ProjectKeywords()
	if err != nil {
		return nil, fmt.Errorf("failed to load project keywords: %w", err)
	}

	registry, err := NewRegistry(values)
	if err != nil {
		return nil, err
	}

	window := ComputeWindow(g.clock.Now().In(g.location), mode)
	g.log.Infof("Generating report for week %s (%d categories)", window, registry.Len())

	events, err := g.events.Events(window.Start, window.FetchEnd())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar events: %w", err)
	}

	aggregate := NewAggregate(registry)
	included := 0
	for i := range events {
		c := Classify(&events[i], registry)
		if c.Excluded {
			continue
		}
		aggregate.Add(c, events[i].Duration())
		included++
	}

	rows := buildRows(aggregate, window)
	if err := g.store.ReplaceWeek(window.Start, rows); err != nil {
		return nil, fmt.Errorf("failed to write report rows: %w", err)
	}

	g.log.Infof("Report complete for week %s: %d/%d events counted, %d rows written",
		window, included, len(events), len(rows))

	return &Summary{
		Window:         window,
		EventsFetched:  len(events),
		EventsIncluded: included,
		RowsWritten:    len(rows),
	}, nil
}

// buildRows projects an aggregate into report rows, one per category with
// positive total duration, in aggregate order.
func buildRows(aggregate *Aggregate, window Window) []Row {
	var rows []Row
	for _, category := range aggregate.Categories() {
		total := aggregate.Total(category)
		if total.Duration <= 0 {
			continue
		}
		rows = append(rows, Row{
			WeekStart: window.Start,
			WeekEnd:   window.End,
			Category:  category,
			Hours:     roundHours(total.Duration),
			Tasks:     strings.Join(total.Tasks, "\n"),
		})
	}
	return rows
}

func roundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}
