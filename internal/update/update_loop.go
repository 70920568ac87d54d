package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sandeepkv93/taskdash/internal/model"
	"github.com/sandeepkv93/taskdash/internal/views"
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCmd(), m.dueCheckCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.sync()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.viewport.Width = typed.Width
		if h := typed.Height - 16; h > 4 {
			m.viewport.Height = h
		}
		m.progress.Width = max(min(typed.Width-8, 60), 10)
		m.helpModel.Width = typed.Width
		return m, nil
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		if m.Form.Active {
			return m.handleFormKey(typed)
		}
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		return m.handleKey(typed)
	case spinner.TickMsg:
		if !m.Board.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(typed)
		return m, cmd
	case TasksLoadedMsg:
		m.Board.ApplyFetch(typed.Result)
		m.clampCursor()
		if typed.Result.Success {
			m.Status = StatusBar{Text: fmt.Sprintf("loaded %d tasks", m.Board.Len())}
			m.checkDueSoon()
		} else {
			m.logger.Warn("fetch tasks failed", "reason", typed.Result.Error)
			m.setStatus(typed.Result.Error, true)
		}
		return m, nil
	case TaskCreatedMsg:
		out := m.Board.ApplyCreate(typed.Result)
		if typed.FromForm {
			m.Form.HandleOutcome(out)
		}
		if out.Success {
			m.Cursor = m.Board.Len() - 1
			m.setStatus(fmt.Sprintf("created task: %s", typed.Result.Data.Title), false)
			m.checkDueSoon()
		} else {
			m.logger.Warn("create task failed", "reason", out.Error)
			m.setStatus(out.Error, true)
		}
		return m, nil
	case LoginDoneMsg:
		if !typed.Result.Success {
			m.setStatus(typed.Result.Error, true)
			return m, nil
		}
		m.User = typed.Result.Data.User
		if m.profile != nil {
			if err := m.profile.SaveUser(m.ctx, m.User); err != nil {
				m.logger.Warn("save user failed", "err", err)
			}
		}
		m.setStatus(fmt.Sprintf("signed in as %s", m.User.Mail), false)
		return m, m.reload()
	case RegisterDoneMsg:
		if !typed.Result.Success {
			m.setStatus(typed.Result.Error, true)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("registered %s, sign in with /login", typed.Mail), false)
		return m, nil
	case LogoutDoneMsg:
		if typed.Err != nil {
			m.LastError = typed.Err
			m.setStatus(typed.Err.Error(), true)
			return m, nil
		}
		m.User = model.User{}
		if typed.Quit {
			m.Quitting = true
			return m, tea.Quit
		}
		m.setStatus("signed out", false)
		return m, m.reload()
	case DueCheckMsg:
		m.checkDueSoon()
		return m, m.dueCheckCmd()
	case SetStatusMsg:
		m.setStatus(typed.Text, typed.IsError)
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		m.Status = StatusBar{Text: "refreshing tasks"}
		return m, m.reload()
	case key.Matches(msg, m.keys.New):
		m.Form.Open()
		m.Status = StatusBar{Text: "new task"}
		return m, nil
	case key.Matches(msg, m.keys.Palette):
		return m.openPalette(), nil
	case key.Matches(msg, m.keys.Down):
		if m.Cursor < m.Board.Len()-1 {
			m.Cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height)
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height)
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.HelpVisible = !m.HelpVisible
		if m.HelpVisible {
			m.Status = StatusBar{Text: "help shown"}
		} else {
			m.Status = StatusBar{Text: "help hidden"}
		}
		return m, nil
	case key.Matches(msg, m.keys.Logout):
		m.Status = StatusBar{Text: "signing out"}
		return m, m.logoutCmd(true)
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Form.Close()
		m.Status = StatusBar{Text: "new task cancelled"}
		return m, nil
	case "tab":
		m.Form.Next()
		return m, nil
	case "shift+tab":
		m.Form.Prev()
		return m, nil
	case "ctrl+s":
		return m.submitForm()
	case "enter":
		if m.Form.OnLastField() {
			return m.submitForm()
		}
	}
	var cmd tea.Cmd
	m.Form, cmd = m.Form.Update(msg)
	return m, cmd
}

func (m Model) submitForm() (Model, tea.Cmd) {
	if m.Form.Submitting {
		return m, nil
	}
	in, err := m.Form.Value()
	if err != nil {
		m.Form.Err = err.Error()
		return m, nil
	}
	m.Form.Err = ""
	m.Form.Submitting = true
	m.Status = StatusBar{Text: fmt.Sprintf("creating task: %s", in.Title)}
	return m, m.createCmd(in, true)
}

func (m *Model) clampCursor() {
	if m.Cursor >= m.Board.Len() {
		m.Cursor = m.Board.Len() - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

// taskListData is rebuilt from the board on every render so stats and due
// flags always follow the current list and clock.
func (m Model) taskListData() views.TaskListData {
	now := m.now()
	tasks := m.Board.Tasks()
	cards := make([]views.TaskCardData, 0, len(tasks))
	for i, t := range tasks {
		cards = append(cards, views.TaskCardData{
			ID:          string(t.ID),
			Title:       t.Title,
			Status:      string(t.Status),
			Description: m.renderDescription(t.Description),
			Category:    t.Category,
			DueDate:     t.DueDate,
			DueTime:     t.DueTime.String(),
			DueSoon:     t.DueSoon(now),
			Selected:    i == m.Cursor,
		})
	}
	return views.TaskListData{
		Loading: m.Board.Loading(),
		Spinner: m.spinner.View(),
		Error:   m.Board.Err(),
		Cards:   cards,
		Width:   max(m.width-4, 20),
	}
}

// sync refreshes the viewport content and keeps the selected card on screen.
func (m *Model) sync() {
	data := m.taskListData()
	m.viewport.SetContent(views.RenderTaskList(data))
	if data.Loading || len(data.Cards) == 0 {
		m.viewport.GotoTop()
		return
	}

	top := views.CardOffset(data, m.Cursor)
	bottom := top + lipgloss.Height(views.RenderTaskCard(data.Cards[m.Cursor], data.Width))
	switch {
	case top < m.viewport.YOffset:
		m.viewport.SetYOffset(top)
	case bottom > m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(bottom - m.viewport.Height)
	}
}

// renderDescription memoizes glamour output; descriptions never change once
// a task is fetched.
func (m Model) renderDescription(md string) string {
	if out, ok := m.markdown[md]; ok {
		return out
	}
	out := views.RenderMarkdown(md)
	m.markdown[md] = out
	return out
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	welcome := ""
	if name := m.User.DisplayName(); name != "" {
		welcome = fmt.Sprintf("Welcome back, %s!", name)
	}

	stats := m.Board.Stats()
	statsView := views.RenderStats(views.StatsData{
		Total:       stats.Total,
		Completed:   stats.Completed,
		InProgress:  stats.InProgress,
		Pending:     stats.Pending,
		ProgressBar: m.progress.ViewAs(stats.CompletionRatio()),
	})

	side := strings.TrimSpace(strings.Join([]string{
		m.Form.View(),
		m.renderCommandPalette(),
		m.renderHelpIfVisible(),
	}, "\n"))

	return views.RenderApp(views.AppData{
		Header:       dashboardTitle,
		Welcome:      welcome,
		Stats:        statsView,
		Body:         m.viewport.View(),
		SidePane:     side,
		StatusLine:   status,
		Notification: m.renderNotificationsView(),
		Footer:       m.renderFooter(),
	})
}
