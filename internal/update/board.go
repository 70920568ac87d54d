package update

import (
	"github.com/sandeepkv93/taskdash/internal/api"
	"github.com/sandeepkv93/taskdash/internal/model"
)

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseLoaded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Board is the dashboard's task state. It is only changed through its
// methods: a failed fetch never leaves a stale list behind, and a failed
// create never touches the list.
type Board struct {
	phase  Phase
	tasks  []model.Task
	errMsg string
}

// NewBoard starts in Loading; the dashboard fetches as soon as it starts.
func NewBoard() Board {
	return Board{phase: PhaseLoading}
}

func (b Board) Phase() Phase       { return b.phase }
func (b Board) Loading() bool      { return b.phase == PhaseLoading }
func (b Board) Err() string        { return b.errMsg }
func (b Board) Len() int           { return len(b.tasks) }
func (b Board) Stats() model.Stats { return model.ComputeStats(b.tasks) }

// Tasks returns a copy in server order.
func (b Board) Tasks() []model.Task {
	out := make([]model.Task, len(b.tasks))
	copy(out, b.tasks)
	return out
}

func (b *Board) BeginLoad() {
	b.phase = PhaseLoading
}

// ApplyFetch replaces the list on success and clears it on failure. Either
// way the board leaves Loading.
func (b *Board) ApplyFetch(res api.Result[[]model.Task]) {
	if res.Success {
		tasks := make([]model.Task, len(res.Data))
		copy(tasks, res.Data)
		b.tasks = tasks
		b.errMsg = ""
		b.phase = PhaseLoaded
		return
	}
	b.errMsg = res.Error
	b.tasks = nil
	b.phase = PhaseFailed
}

// CreateOutcome is reported back to whoever submitted the task.
type CreateOutcome struct {
	Success bool
	Error   string
}

// ApplyCreate appends the backend's copy of the new task on success.
func (b *Board) ApplyCreate(res api.Result[model.Task]) CreateOutcome {
	if !res.Success {
		b.errMsg = res.Error
		return CreateOutcome{Success: false, Error: res.Error}
	}
	next := make([]model.Task, len(b.tasks), len(b.tasks)+1)
	copy(next, b.tasks)
	b.tasks = append(next, res.Data)
	b.errMsg = ""
	if b.phase == PhaseFailed {
		b.phase = PhaseLoaded
	}
	return CreateOutcome{Success: true}
}
