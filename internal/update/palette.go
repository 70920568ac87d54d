package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskdash/internal/api"
	"github.com/sandeepkv93/taskdash/internal/commands"
	"github.com/sandeepkv93/taskdash/internal/views"
)

func (m Model) openPalette() Model {
	m.Palette.Active = true
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Focus()
	m.Status = StatusBar{Text: "command palette active", IsError: false}
	return m
}

func (m Model) closePalette() Model {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m = m.closePalette()

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}

	var next tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			if err := validateNewTask(a.Task); err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			next = m.createCmd(a.Task, false)
			return commands.Result{Message: fmt.Sprintf("creating task: %s", a.Task.Title)}, nil
		},
		Refresh: func() (commands.Result, error) {
			next = m.reload()
			return commands.Result{Message: "refreshing tasks"}, nil
		},
		Login: func(a commands.LoginArgs) (commands.Result, error) {
			next = m.loginCmd(api.Credentials{Mail: a.Mail, Password: a.Password})
			return commands.Result{Message: fmt.Sprintf("signing in as %s", a.Mail)}, nil
		},
		Register: func(a commands.RegisterArgs) (commands.Result, error) {
			next = m.registerCmd(api.RegisterRequest{
				FirstName: a.FirstName,
				LastName:  a.LastName,
				Mail:      a.Mail,
				Password:  a.Password,
			})
			return commands.Result{Message: fmt.Sprintf("registering %s", a.Mail)}, nil
		},
		Logout: func() (commands.Result, error) {
			next = m.logoutCmd(false)
			return commands.Result{Message: "signing out"}, nil
		},
	})
	if err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}
	m.setStatus(res.Message, false)
	return m, next
}

func (m Model) renderCommandPalette() string {
	if !m.Palette.Active {
		return ""
	}
	return views.RenderCommandPalette(true, m.commandInput.View())
}
