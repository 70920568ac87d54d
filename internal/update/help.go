package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/taskdash/internal/commands"
	"github.com/sandeepkv93/taskdash/internal/views"
)

type keyMap struct {
	Refresh  key.Binding
	New      key.Binding
	Palette  key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Help     key.Binding
	Logout   key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh tasks")),
		New:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		Palette:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "command palette")),
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "previous task")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "next task")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdown", "scroll down")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Logout:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "log out and quit")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.New, k.Palette, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Refresh, k.New, k.Palette},
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Help, k.Logout, k.Quit},
	}
}

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	plain := make([]string, 0, len(commands.Names()))
	for _, name := range commands.Names() {
		plain = append(plain, fmt.Sprintf("- /%s: %s", name, paletteUsage(name)))
	}
	full := m.helpModel
	full.ShowAll = true
	return views.RenderHelpPanel(views.HelpPanelData{
		Bindings: plain,
		HelpView: full.View(m.keys),
	})
}

func (m Model) renderFooter() string {
	return m.helpModel.ShortHelpView(m.keys.ShortHelp())
}

func paletteUsage(t commands.Type) string {
	switch t {
	case commands.TypeAdd:
		return "add <title> [due:YYYY-MM-DD] [at:HH:MM] [cat:name] [status:pending] [desc:words_here]"
	case commands.TypeRefresh:
		return "reload the task list"
	case commands.TypeLogin:
		return "login <mail> <password>"
	case commands.TypeRegister:
		return "register <first> <last> <mail> <password>"
	case commands.TypeLogout:
		return "forget the stored credentials"
	default:
		return string(t)
	}
}
