package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/quietstream/quietstream/color"
	"github.com/quietstream/quietstream/icon"
	"github.com/quietstream/quietstream/playback"
	"github.com/quietstream/quietstream/style"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case menuState:
		output = b.viewMenu()
	case catalogState:
		output = b.viewCatalog()
	case formState:
		output = b.viewForm()
	case pathState:
		output = b.viewPath()
	case validateState:
		output = b.viewValidate()
	case confirmState:
		output = b.viewConfirm()
	case playerState:
		output = b.viewPlayer()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewMenu() string {
	return listExtraPaddingStyle.Render(b.menuC.View())
}

// searchLine renders the query of a list screen, or the live input while searching.
func (b *statefulBubble) searchLine(current string) string {
	if b.searching {
		line := b.searchC.View()
		if suggestion, ok := b.searchSuggestion.Get(); ok {
			line += style.Faint("  tab: " + suggestion)
		}
		return line
	}
	if current == "" {
		return style.Faint("/ to search")
	}
	return style.Faint(icon.Get(icon.Search) + " " + current + "  (esc to clear)")
}

func (b *statefulBubble) viewCatalog() string {
	return listExtraPaddingStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		b.catalogC.View(),
		"  "+b.searchLine(b.catalogQuery),
	))
}

func (b *statefulBubble) viewForm() string {
	lines := append([]string{
		style.Title(b.form.title()),
		"",
	}, b.form.view(b.width)...)

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewPath() string {
	title := "Import streams"
	if b.pathMode == exportPath {
		title = "Export streams"
	}

	lines := []string{
		style.Title(title),
		"",
		b.pathC.View(),
	}
	if b.busy {
		lines = append(lines, "", b.spinnerC.View()+" "+b.progressStatus)
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewValidate() string {
	return b.renderLines(
		true,
		[]string{
			style.Title("Link validation"),
			"",
			style.Truncate(b.width)(b.spinnerC.View() + " " + b.progressStatus),
			"",
			b.progressC.ViewAs(b.progressRatio),
		},
	)
}

func (b *statefulBubble) viewConfirm() string {
	body := wrap.String(b.confirmBody, b.width)
	return b.renderLines(
		true,
		[]string{
			style.Title(b.confirmTitle),
			"",
			body,
			"",
			style.Faint("y / n"),
		},
	)
}

func (b *statefulBubble) viewPlayer() string {
	status := b.playerStatus
	switch {
	case b.session.State() == playback.Loading:
		status = b.spinnerC.View() + " " + status
	case status != "":
		status = style.Fg(color.Purple)(status)
	default:
		status = style.Faint(fmt.Sprintf("%s %s", icon.Get(icon.Stop), b.session.State()))
	}

	return listExtraPaddingStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		b.playerC.View(),
		"  "+b.searchLine(b.playerQuery),
		"  "+style.Truncate(b.width)(status),
	))
}

func (b *statefulBubble) viewError() string {
	var text string
	if b.lastError != nil {
		text = b.lastError.Error()
	}

	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	errorMsg := wrap.String(errorStyle.Render(text), b.width)
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " Something went wrong:",
			"",
			errorMsg,
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	l := strings.Join(lines, "\n")
	if addHelp {
		if h := lipgloss.Height(l); b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
