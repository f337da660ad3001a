package storage

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"timereport/internal/report"
)

func newTestStore(t *testing.T) *ReportStore {
	t.Helper()
	st, err := NewReportStore(filepath.Join(t.TempDir(), "timereport.db"))
	if err != nil {
		t.Fatalf("NewReportStore() unexpected error: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestProjectKeywordsOrder(t *testing.T) {
	st := newTestStore(t)

	keywords, err := st.ProjectKeywords()
	if err != nil {
		t.Fatalf("ProjectKeywords() unexpected error: %v", err)
	}
	if len(keywords) != 0 {
		t.Fatalf("fresh store has keywords: %v", keywords)
	}

	for _, keyword := range []string{"ProjectX", "Alpha", "Beta"} {
		if err := st.AddProject(keyword); err != nil {
			t.Fatalf("AddProject(%q) unexpected error: %v", keyword, err)
		}
	}

	keywords, err = st.ProjectKeywords()
	if err != nil {
		t.Fatalf("ProjectKeywords() unexpected error: %v", err)
	}
	want := []string{"ProjectX", "Alpha", "Beta"}
	if !reflect.DeepEqual(keywords, want) {
		t.Errorf("ProjectKeywords() = %v, want %v", keywords, want)
	}
}

func TestRemoveProject(t *testing.T) {
	st := newTestStore(t)

	if err := st.AddProject("ProjectX"); err != nil {
		t.Fatalf("AddProject() unexpected error: %v", err)
	}
	if err := st.AddProject("ProjectX"); err != nil {
		t.Fatalf("AddProject() unexpected error: %v", err)
	}

	removed, err := st.RemoveProject("ProjectX")
	if err != nil {
		t.Fatalf("RemoveProject() unexpected error: %v", err)
	}
	if removed != 2 {
		t.Errorf("RemoveProject() removed = %d, want 2", removed)
	}

	removed, err = st.RemoveProject("ProjectX")
	if err != nil {
		t.Fatalf("RemoveProject() unexpected error: %v", err)
	}
	if removed != 0 {
		t.Errorf("RemoveProject() on empty removed = %d, want 0", removed)
	}
}

func weekRows(weekStart time.Time) []report.Row {
	weekEnd := weekStart.AddDate(0, 0, 6)
	return []report.Row{
		{WeekStart: weekStart, WeekEnd: weekEnd, Category: "ProjectX", Hours: 2.5, Tasks: "write spec\nreview"},
		{WeekStart: weekStart, WeekEnd: weekEnd, Category: "Other", Hours: 1.0, Tasks: "Team lunch"},
	}
}

func TestReplaceWeekRoundTrip(t *testing.T) {
	st := newTestStore(t)
	weekStart := time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)

	if err := st.ReplaceWeek(weekStart, weekRows(weekStart)); err != nil {
		t.Fatalf("ReplaceWeek() unexpected error: %v", err)
	}

	rows, err := st.RowsForWeek(weekStart)
	if err != nil {
		t.Fatalf("RowsForWeek() unexpected error: %v", err)
	}
	if !reflect.DeepEqual(rows, weekRows(weekStart)) {
		t.Errorf("RowsForWeek() = %+v, want %+v", rows, weekRows(weekStart))
	}
}

func TestReplaceWeekIsIdempotent(t *testing.T) {
	st := newTestStore(t)
	weekStart := time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)

	if err := st.ReplaceWeek(weekStart, weekRows(weekStart)); err != nil {
		t.Fatalf("first ReplaceWeek() unexpected error: %v", err)
	}
	if err := st.ReplaceWeek(weekStart, weekRows(weekStart)); err != nil {
		t.Fatalf("second ReplaceWeek() unexpected error: %v", err)
	}

	rows, err := st.RowsForWeek(weekStart)
	if err != nil {
		t.Fatalf("RowsForWeek() unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("rows after re-run = %d, want 2 (no duplication)", len(rows))
	}
}

func TestReplaceWeekLeavesOtherWeeksAlone(t *testing.T) {
	st := newTestStore(t)
	week1 := time.Date(2023, time.December, 24, 0, 0, 0, 0, time.UTC)
	week2 := time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)

	if err := st.ReplaceWeek(week1, weekRows(week1)); err != nil {
		t.Fatalf("ReplaceWeek(week1) unexpected error: %v", err)
	}
	if err := st.ReplaceWeek(week2, weekRows(week2)); err != nil {
		t.Fatalf("ReplaceWeek(week2) unexpected error: %v", err)
	}

	// Replace week2 with a smaller row set; week1 must be untouched.
	if err := st.ReplaceWeek(week2, weekRows(week2)[:1]); err != nil {
		t.Fatalf("ReplaceWeek(week2 again) unexpected error: %v", err)
	}

	rows1, err := st.RowsForWeek(week1)
	if err != nil {
		t.Fatalf("RowsForWeek(week1) unexpected error: %v", err)
	}
	if len(rows1) != 2 {
		t.Errorf("week1 rows = %d, want 2", len(rows1))
	}

	rows2, err := st.RowsForWeek(week2)
	if err != nil {
		t.Fatalf("RowsForWeek(week2) unexpected error: %v", err)
	}
	if len(rows2) != 1 {
		t.Errorf("week2 rows = %d, want 1", len(rows2))
	}
}

func TestReplaceWeekWithNoRowsClearsWeek(t *testing.T) {
	st := newTestStore(t)
	weekStart := time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)

	if err := st.ReplaceWeek(weekStart, weekRows(weekStart)); err != nil {
		t.Fatalf("ReplaceWeek() unexpected error: %v", err)
	}
	if err := st.ReplaceWeek(weekStart, nil); err != nil {
		t.Fatalf("ReplaceWeek(nil) unexpected error: %v", err)
	}

	rows, err := st.RowsForWeek(weekStart)
	if err != nil {
		t.Fatalf("RowsForWeek() unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows after clearing = %d, want 0", len(rows))
	}
}

func TestWeeks(t *testing.T) {
	st := newTestStore(t)
	week1 := time.Date(2023, time.December, 24, 0, 0, 0, 0, time.UTC)
	week2 := time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)

	if err := st.ReplaceWeek(week1, weekRows(week1)); err != nil {
		t.Fatalf("ReplaceWeek(week1) unexpected error: %v", err)
	}
	if err := st.ReplaceWeek(week2, weekRows(week2)); err != nil {
		t.Fatalf("ReplaceWeek(week2) unexpected error: %v", err)
	}

	weeks, err := st.Weeks()
	if err != nil {
		t.Fatalf("Weeks() unexpected error: %v", err)
	}
	if len(weeks) != 2 {
		t.Fatalf("Weeks() = %v, want 2 entries", weeks)
	}
	if !weeks[0].Equal(week2) || !weeks[1].Equal(week1) {
		t.Errorf("Weeks() = %v, want newest first [%v %v]", weeks, week2, week1)
	}
}
