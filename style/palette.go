package style

import "github.com/charmbracelet/lipgloss"

var (
	Base     = lipgloss.Color("#1e1e2e")
	Text     = lipgloss.Color("#cdd6f4")
	Overlay  = lipgloss.Color("#6c7086")
	Mauve    = lipgloss.Color("#cba6f7")
	Red      = lipgloss.Color("#f38ba8")
	Peach    = lipgloss.Color("#fab387")
	Green    = lipgloss.Color("#a6e3a1")
	Sapphire = lipgloss.Color("#74c7ec")
	Lavender = lipgloss.Color("#b4befe")
)

// Roles the interface paints with.
var (
	AccentColor  = Mauve
	ErrorColor   = Red
	HiRed        = Red
	FaintColor   = Overlay
	PlayingColor = Green
	TagColor     = Lavender
	StreamColor  = Sapphire
	VideoColor   = Peach
)
