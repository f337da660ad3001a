package report

import (
	"testing"
	"time"

	"timereport/internal/calendar"
)

func testEvent(mutate func(*calendar.Event)) *calendar.Event {
	ev := &calendar.Event{
		Title:    "Team lunch",
		Start:    time.Date(2024, time.January, 2, 12, 0, 0, 0, time.UTC),
		End:      time.Date(2024, time.January, 2, 13, 0, 0, 0, time.UTC),
		Response: calendar.StatusYes,
	}
	if mutate != nil {
		mutate(ev)
	}
	return ev
}

func TestClassify(t *testing.T) {
	registry, err := NewRegistry([]string{"Alpha", "AlphaBeta", "ProjectX"})
	if err != nil {
		t.Fatalf("NewRegistry() unexpected error: %v", err)
	}

	tests := []struct {
		name         string
		event        *calendar.Event
		wantExcluded bool
		wantCategory string
		wantLabel    string
	}{
		{
			name: "cancelled event is excluded despite keyword match",
			event: testEvent(func(ev *calendar.Event) {
				ev.Title = "ProjectX kickoff"
				ev.Cancelled = true
			}),
			wantExcluded: true,
		},
		{
			name: "declined event is excluded despite keyword match",
			event: testEvent(func(ev *calendar.Event) {
				ev.Title = "ProjectX kickoff"
				ev.Response = calendar.StatusNo
			}),
			wantExcluded: true,
		},
		{
			name: "zero-duration event is excluded",
			event: testEvent(func(ev *calendar.Event) {
				ev.Title = "ProjectX reminder"
				ev.End = ev.Start
			}),
			wantExcluded: true,
		},
		{
			name: "negative duration is treated as zero and excluded",
			event: testEvent(func(ev *calendar.Event) {
				ev.Title = "ProjectX reminder"
				ev.End = ev.Start.Add(-time.Hour)
			}),
			wantExcluded: true,
		},
		{
			name: "keyword in title",
			event: testEvent(func(ev *calendar.Event) {
				ev.Title = "ProjectX: write spec"
			}),
			wantCategory: "ProjectX",
			wantLabel:    "write spec",
		},
		{
			name: "keyword in description",
			event: testEvent(func(ev *calendar.Event) {
				ev.Title = "Unrelated meeting"
				ev.Description = "Discussing projectx milestones"
			}),
			wantCategory: "ProjectX",
			wantLabel:    "Unrelated meeting",
		},
		{
			name: "keyword in guest email",
			event: testEvent(func(ev *calendar.Event) {
				ev.Title = "Weekly sync"
				ev.Guests = []string{"pm@projectx.example.com"}
			}),
			wantCategory: "ProjectX",
			wantLabel:    "Weekly sync",
		},
		{
			name: "keyword in creator identifier",
			event: testEvent(func(ev *calendar.Event) {
				ev.Title = "Planning"
				ev.Creators = []string{"lead@alpha.example.com"}
			}),
			wantCategory: "Alpha",
			wantLabel:    "Planning",
		},
		{
			name: "first keyword in registry order wins",
			event: testEvent(func(ev *calendar.Event) {
				ev.Title = "AlphaBeta review"
			}),
			wantCategory: "Alpha",
			wantLabel:    "AlphaBeta review",
		},
		{
			name: "declined check happens before keyword matching",
			event: testEvent(func(ev *calendar.Event) {
				ev.Title = "AlphaBeta review"
				ev.Response = calendar.StatusNo
			}),
			wantExcluded: true,
		},
		{
			name: "unmatched event with yes lands in Other with raw title",
			event: testEvent(func(ev *calendar.Event) {
				ev.Title = "Team lunch"
				ev.Response = calendar.StatusYes
			}),
			wantCategory: OtherCategory,
			wantLabel:    "Team lunch",
		},
		{
			name: "unmatched event with maybe lands in Other",
			event: testEvent(func(ev *calendar.Event) {
				ev.Response = calendar.StatusMaybe
			}),
			wantCategory: OtherCategory,
			wantLabel:    "Team lunch",
		},
		{
			name: "unmatched event owned by the viewer lands in Other",
			event: testEvent(func(ev *calendar.Event) {
				ev.Response = calendar.StatusOwner
			}),
			wantCategory: OtherCategory,
			wantLabel:    "Team lunch",
		},
		{
			name: "unmatched event with unknown status is excluded",
			event: testEvent(func(ev *calendar.Event) {
				ev.Response = calendar.StatusUnknown
			}),
			wantExcluded: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.event, registry)
			if got.Excluded != tt.wantExcluded {
				t.Fatalf("Classify() excluded = %v, want %v", got.Excluded, tt.wantExcluded)
			}
			if tt.wantExcluded {
				if got.Category != "" || got.TaskLabel != "" {
					t.Errorf("excluded classification carries category/label: %+v", got)
				}
				return
			}
			if got.Category != tt.wantCategory {
				t.Errorf("Classify() category = %q, want %q", got.Category, tt.wantCategory)
			}
			if got.TaskLabel != tt.wantLabel {
				t.Errorf("Classify() label = %q, want %q", got.TaskLabel, tt.wantLabel)
			}
		})
	}
}
