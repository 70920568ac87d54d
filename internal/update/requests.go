package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskdash/internal/api"
	"github.com/sandeepkv93/taskdash/internal/model"
)

// Backend calls run inside tea.Cmds so the program loop never blocks on the
// network. Each closure copies what it needs off the model first.

func (m Model) fetchCmd() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		return TasksLoadedMsg{Result: svc.GetAllTasks(ctx)}
	}
}

func (m Model) createCmd(in model.NewTask, fromForm bool) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		return TaskCreatedMsg{Result: svc.CreateTask(ctx, in), FromForm: fromForm}
	}
}

func (m Model) loginCmd(in api.Credentials) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		return LoginDoneMsg{Result: svc.Login(ctx, in)}
	}
}

func (m Model) registerCmd(in api.RegisterRequest) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		return RegisterDoneMsg{Mail: in.Mail, Result: svc.Register(ctx, in)}
	}
}

func (m Model) logoutCmd(quit bool) tea.Cmd {
	svc, profile, ctx := m.svc, m.profile, m.ctx
	return func() tea.Msg {
		err := svc.Logout(ctx)
		if err == nil && profile != nil {
			err = profile.Clear(ctx)
		}
		return LogoutDoneMsg{Err: err, Quit: quit}
	}
}

func (m Model) dueCheckCmd() tea.Cmd {
	return tea.Tick(m.refreshEvery, func(t time.Time) tea.Msg {
		return DueCheckMsg{At: t}
	})
}

// reload enters Loading and starts a fetch with the spinner running.
func (m *Model) reload() tea.Cmd {
	m.Board.BeginLoad()
	return tea.Batch(m.fetchCmd(), m.spinner.Tick)
}
