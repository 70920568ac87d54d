package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	LoadingText  = "Loading tasks..."
	DueSoonAlert = "⚠️ Due soon!"
	EmptyText    = "No tasks yet. Press [n] to create one."
)

type StatsData struct {
	Total       int
	Completed   int
	InProgress  int
	Pending     int
	ProgressBar string
}

type TaskCardData struct {
	ID          string
	Title       string
	Status      string
	Description string
	Category    string
	DueDate     string
	DueTime     string
	DueSoon     bool
	Selected    bool
}

type TaskListData struct {
	Loading bool
	Spinner string
	Error   string
	Cards   []TaskCardData
	Width   int
}

type FormData struct {
	Title  string
	Fields []string
	Error  string
	Hint   string
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
}

var (
	statCardStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2).Width(16).Align(lipgloss.Center)
	statNumber    = lipgloss.NewStyle().Bold(true)
	completedFg   = lipgloss.Color("10")
	progressFg    = lipgloss.Color("11")
	pendingFg     = lipgloss.Color("8")

	cardStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	dueSoonCardStyle = cardStyle.BorderForeground(lipgloss.Color("214"))
	selectedBorder   = lipgloss.Color("12")
	titleStyle       = lipgloss.NewStyle().Bold(true)
	categoryStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	alertStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	errorAlertStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("9")).Foreground(lipgloss.Color("9")).Padding(0, 1)
)

// StatusStyle maps a task status to its badge colour. Unknown statuses get
// an unstyled badge.
func StatusStyle(status string) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1)
	switch status {
	case "Completed":
		return base.Foreground(completedFg)
	case "In Progress":
		return base.Foreground(progressFg)
	case "Pending":
		return base.Foreground(pendingFg)
	default:
		return base
	}
}

func RenderStats(data StatsData) string {
	card := func(label string, n int, fg lipgloss.TerminalColor) string {
		num := statNumber
		if fg != nil {
			num = num.Foreground(fg)
		}
		return statCardStyle.Render(label + "\n" + num.Render(fmt.Sprintf("%d", n)))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total Tasks", data.Total, nil),
		card("Completed", data.Completed, completedFg),
		card("In Progress", data.InProgress, progressFg),
		card("Pending", data.Pending, pendingFg),
	)
	if data.ProgressBar == "" {
		return row
	}
	return row + "\n" + data.ProgressBar
}

func RenderTaskCard(data TaskCardData, width int) string {
	style := cardStyle
	if data.DueSoon {
		style = dueSoonCardStyle
	}
	if data.Selected {
		style = style.BorderForeground(selectedBorder)
	}
	if width > 0 {
		style = style.Width(width)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(data.Title))
	b.WriteString("  ")
	b.WriteString(StatusStyle(data.Status).Render("[" + data.Status + "]"))
	if data.Description != "" {
		b.WriteString("\n" + data.Description)
	}
	b.WriteString("\n")
	if data.Category != "" {
		b.WriteString(categoryStyle.Render("#"+data.Category) + "  ")
	}
	b.WriteString(fmt.Sprintf("📅 %s at %s", data.DueDate, data.DueTime))
	if data.DueSoon {
		b.WriteString("\n" + alertStyle.Render(DueSoonAlert))
	}
	return style.Render(b.String())
}

// RenderTaskList draws the error alert (if any) above either the loading
// placeholder or the cards.
func RenderTaskList(data TaskListData) string {
	parts := make([]string, 0, len(data.Cards)+2)
	parts = append(parts, headerStyle.Render("Your Tasks"))
	if data.Error != "" {
		parts = append(parts, errorAlertStyle.Render(data.Error))
	}
	switch {
	case data.Loading:
		text := LoadingText
		if data.Spinner != "" {
			text = data.Spinner + " " + text
		}
		parts = append(parts, cardStyle.Render(text))
	case len(data.Cards) == 0:
		parts = append(parts, footerStyle.Render(EmptyText))
	default:
		for _, c := range data.Cards {
			parts = append(parts, RenderTaskCard(c, data.Width))
		}
	}
	return strings.Join(parts, "\n")
}

// CardOffset returns the line on which card i starts in RenderTaskList's
// output. Callers use it to keep the selected card inside a viewport.
func CardOffset(data TaskListData, i int) int {
	top := lipgloss.Height(headerStyle.Render("Your Tasks"))
	if data.Error != "" {
		top += lipgloss.Height(errorAlertStyle.Render(data.Error))
	}
	for j := 0; j < i && j < len(data.Cards); j++ {
		top += lipgloss.Height(RenderTaskCard(data.Cards[j], data.Width))
	}
	return top
}

func RenderForm(data FormData) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(data.Title) + "\n")
	for _, f := range data.Fields {
		b.WriteString(f + "\n")
	}
	if data.Error != "" {
		b.WriteString(errorStyle.Render("error: "+data.Error) + "\n")
	}
	if data.Hint != "" {
		b.WriteString(footerStyle.Render(data.Hint))
	}
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s\n%s", strings.Join(data.Bindings, "\n"), data.HelpView)
}
