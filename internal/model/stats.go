package model

type Stats struct {
	Total      int
	Completed  int
	InProgress int
	Pending    int
}

// CompletionRatio is Completed/Total, zero for an empty list.
func (s Stats) CompletionRatio() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total)
}

func ComputeStats(tasks []Task) Stats {
	out := Stats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case StatusCompleted:
			out.Completed++
		case StatusInProgress:
			out.InProgress++
		case StatusPending:
			out.Pending++
		}
	}
	return out
}
