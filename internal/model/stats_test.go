package model

import "testing"

func TestComputeStats(t *testing.T) {
	tasks := []Task{
		{ID: "1", Status: StatusCompleted},
		{ID: "2", Status: StatusPending},
		{ID: "3", Status: StatusCompleted},
	}
	got := ComputeStats(tasks)
	want := Stats{Total: 3, Completed: 2, InProgress: 0, Pending: 1}
	if got != want {
		t.Fatalf("stats = %+v, want %+v", got, want)
	}
	if r := got.CompletionRatio(); r < 0.66 || r > 0.67 {
		t.Fatalf("unexpected completion ratio: %v", r)
	}
}

func TestComputeStatsUnknownStatusCountsOnlyInTotal(t *testing.T) {
	got := ComputeStats([]Task{{ID: "1", Status: Status("Blocked")}, {ID: "2", Status: StatusInProgress}})
	if got.Total != 2 || got.InProgress != 1 || got.Completed != 0 || got.Pending != 0 {
		t.Fatalf("unexpected stats: %+v", got)
	}
	if (Stats{}).CompletionRatio() != 0 {
		t.Fatal("expected zero ratio for empty stats")
	}
}
