package report

import (
	"reflect"
	"testing"
	"time"
)

func TestAggregateSeedsAllCategories(t *testing.T) {
	registry, err := NewRegistry([]string{"Alpha", "Beta"})
	if err != nil {
		t.Fatalf("NewRegistry() unexpected error: %v", err)
	}

	a := NewAggregate(registry)

	want := []string{"Alpha", "Beta", OtherCategory}
	if got := a.Categories(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Categories() = %v, want %v", got, want)
	}

	for _, category := range want {
		total := a.Total(category)
		if total.Duration != 0 {
			t.Errorf("category %q starts with duration %v, want 0", category, total.Duration)
		}
		if len(total.Tasks) != 0 {
			t.Errorf("category %q starts with tasks %v, want none", category, total.Tasks)
		}
	}
}

func TestAggregateDuplicateKeywordSharesBucket(t *testing.T) {
	registry, err := NewRegistry([]string{"Alpha", "Alpha"})
	if err != nil {
		t.Fatalf("NewRegistry() unexpected error: %v", err)
	}

	a := NewAggregate(registry)
	want := []string{"Alpha", OtherCategory}
	if got := a.Categories(); !reflect.DeepEqual(got, want) {
		t.Errorf("Categories() = %v, want %v", got, want)
	}
}

func TestAggregateAdd(t *testing.T) {
	registry, err := NewRegistry([]string{"Alpha"})
	if err != nil {
		t.Fatalf("NewRegistry() unexpected error: %v", err)
	}

	a := NewAggregate(registry)
	a.Add(Classification{Category: "Alpha", TaskLabel: "write spec"}, time.Hour)
	a.Add(Classification{Category: OtherCategory, TaskLabel: "lunch"}, 30*time.Minute)
	a.Add(Classification{Category: "Alpha", TaskLabel: "review"}, 45*time.Minute)
	// Same label twice: kept, in order
	a.Add(Classification{Category: "Alpha", TaskLabel: "review"}, 15*time.Minute)
	// Excluded results are ignored
	a.Add(Classification{Excluded: true}, time.Hour)

	alpha := a.Total("Alpha")
	if alpha.Duration != 2*time.Hour {
		t.Errorf("Alpha duration = %v, want 2h", alpha.Duration)
	}
	wantTasks := []string{"write spec", "review", "review"}
	if !reflect.DeepEqual(alpha.Tasks, wantTasks) {
		t.Errorf("Alpha tasks = %v, want %v", alpha.Tasks, wantTasks)
	}

	other := a.Total(OtherCategory)
	if other.Duration != 30*time.Minute {
		t.Errorf("Other duration = %v, want 30m", other.Duration)
	}
}
