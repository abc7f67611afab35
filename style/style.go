// Package style composes lipgloss styles into small render functions.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/quietstream/quietstream/color"
)

func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Colored is a style with both colors set. An empty color leaves that side untouched.
func Colored(fg, bg lipgloss.Color) lipgloss.Style {
	return New().Foreground(fg).Background(bg)
}

// Fg returns a function painting its argument with c.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return Colored(c, "").Render(s) }
}

// Truncate returns a function rendering its argument in a block max cells wide.
func Truncate(max int) func(string) string {
	return func(s string) string { return New().Width(max).Render(s) }
}

var (
	Faint = func(s string) string { return New().Faint(true).Render(s) }
	Bold  = func(s string) string { return New().Bold(true).Render(s) }
)

// Title is the padded banner heading every screen.
var Title = func(s string) string {
	return Colored(color.New("230"), color.New("62")).Padding(0, 1).Render(s)
}

// ErrorTitle is Title on a red background.
var ErrorTitle = func(s string) string {
	return Colored(color.New("230"), color.Red).Padding(0, 1).Render(s)
}
