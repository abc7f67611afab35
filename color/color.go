// Package color names the terminal colors used by command output.
package color

import "github.com/charmbracelet/lipgloss"

func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

// ANSI colors follow the user's terminal theme.
var (
	Red    = New("1")
	Green  = New("2")
	Yellow = New("3")
	Blue   = New("4")
	Purple = New("5")
	Cyan   = New("6")

	HiRed    = New("9")
	HiPurple = New("13")
)

// Orange highlights the active choice in forms and help.
var Orange = New("#ffb703")
