// Package ui holds small presentation helpers shared by the terminal screens.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/quietstream/quietstream/style"
)

// NotificationLifetime is how long a notification stays on screen.
const NotificationLifetime = 3 * time.Second

// NotificationMsg shows text next to the last line of the current screen.
type NotificationMsg struct {
	Text    string
	IsError bool
}

// ClearNotificationMsg removes the notification it was scheduled for.
type ClearNotificationMsg struct {
	id int
}

// Model tracks the single notification currently displayed.
type Model struct {
	notification NotificationMsg
	id           int
}

// Notify returns a command that displays a transient message.
func Notify(format string, args ...any) tea.Cmd {
	text := fmt.Sprintf(format, args...)
	return func() tea.Msg {
		return NotificationMsg{Text: text}
	}
}

// NotifyError is Notify for failures that do not warrant leaving the screen.
func NotifyError(err error) tea.Cmd {
	return func() tea.Msg {
		return NotificationMsg{Text: err.Error(), IsError: true}
	}
}

func clearAfter(id int) tea.Cmd {
	return tea.Tick(NotificationLifetime, func(time.Time) tea.Msg {
		return ClearNotificationMsg{id: id}
	})
}

// Text returns the visible notification, if any.
func (m *Model) Text() string {
	return m.notification.Text
}

// Update consumes notification messages and ignores everything else.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotificationMsg:
		m.id++
		m.notification = msg
		return clearAfter(m.id)
	case ClearNotificationMsg:
		// a newer notification owns the screen
		if msg.id == m.id {
			m.notification = NotificationMsg{}
		}
	}
	return nil
}

// View appends the notification to the last line of mainContent.
func (m *Model) View(mainContent string) string {
	if m.notification.Text == "" {
		return mainContent
	}

	render := style.Faint
	if m.notification.IsError {
		render = style.Fg(style.Red)
	}

	lines := strings.Split(mainContent, "\n")
	lines[len(lines)-1] += "  " + render(m.notification.Text)
	return strings.Join(lines, "\n")
}
