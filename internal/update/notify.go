package update

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/sandeepkv93/taskdash/internal/model"
	"github.com/sandeepkv93/taskdash/internal/views"
)

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}

// notify records a notification and forwards it to the desktop when enabled.
func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.now().UTC(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
	if m.DesktopEnabled && m.notifier != nil {
		if err := m.notifier.Send(n); err != nil {
			m.logger.Warn("desktop notification failed", "title", title, "err", err)
		}
	}
}

// setStatus updates the status bar and mirrors it into the notification log.
func (m *Model) setStatus(text string, isErr bool) {
	m.Status = StatusBar{Text: text, IsError: isErr}
	m.notify("Status", text, levelFromError(isErr))
}

// checkDueSoon raises one notification per task the first time it is seen
// inside the due-soon window.
func (m *Model) checkDueSoon() {
	now := m.now()
	for _, t := range m.Board.Tasks() {
		if t.Status == model.StatusCompleted || !t.DueSoon(now) {
			continue
		}
		k := dueKey(t)
		if m.dueNotified[k] {
			continue
		}
		m.dueNotified[k] = true
		m.notify("Due soon", fmt.Sprintf("%s is due %s at %s", t.Title, t.DueDate, t.DueTime.String()), "warn")
	}
}

func dueKey(t model.Task) string {
	if t.ID != "" {
		return string(t.ID)
	}
	return fallbackTaskKeyPrefix + t.Title
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}
