package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/quietstream/quietstream/color"
	"github.com/quietstream/quietstream/style"
)

// statefulKeymap holds every binding; help() picks the ones relevant to the current state.
type statefulKeymap struct {
	state state

	quit, forceQuit,
	confirm, back,
	up, down, left, right,
	top, bottom,
	add, edit, remove,
	filter, acceptSearchSuggestion,
	importFile, exportFile, validate,
	openURL,
	play, prev, next, stop, volume,
	nextField, prevField, toggleKind,
	yes, no,
	showHelp key.Binding
}

func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "back"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "down"),
		),
		left: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "prev page"),
		),
		right: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "next page"),
		),
		top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit"),
		),
		remove: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		acceptSearchSuggestion: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "accept suggestion"),
		),
		importFile: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "import"),
		),
		exportFile: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "export"),
		),
		validate: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "validate links"),
		),
		openURL: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open link"),
		),
		play: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp(style.Fg(color.Orange)("enter"), style.Fg(color.Orange)("play")),
		),
		prev: key.NewBinding(
			key.WithKeys("a", "left"),
			key.WithHelp("a/←", "previous"),
		),
		next: key.NewBinding(
			key.WithKeys("d", "right"),
			key.WithHelp("d/→", "next"),
		),
		stop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop"),
		),
		volume: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "volume"),
		),
		nextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		prevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "prev field"),
		),
		toggleKind: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "toggle kind"),
		),
		yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes"),
		),
		no: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "no"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	to2 := func(a []key.Binding) ([]key.Binding, []key.Binding) {
		return a, a
	}

	switch k.state {
	case menuState:
		return to2(h(k.confirm, k.forceQuit))
	case catalogState:
		return h(k.add, k.edit, k.remove, k.filter, k.quit),
			h(k.add, k.edit, k.remove, k.filter, k.importFile, k.exportFile, k.validate, k.openURL, k.quit)
	case formState:
		return to2(h(k.nextField, k.prevField, k.toggleKind, k.confirm, k.back))
	case pathState:
		return to2(h(k.confirm, k.back))
	case validateState:
		return to2(h(withDescription(k.back, "cancel")))
	case confirmState:
		return to2(h(k.yes, k.no))
	case playerState:
		return h(k.play, k.prev, k.next, k.stop, k.volume),
			h(k.play, k.prev, k.next, k.stop, k.volume, k.filter, k.openURL, k.quit)
	case errorState:
		return to2(h(k.back, k.forceQuit))
	default:
		return to2(h())
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}

func (k *statefulKeymap) forList() list.KeyMap {
	return list.KeyMap{
		CursorUp:      k.up,
		CursorDown:    k.down,
		NextPage:      k.right,
		PrevPage:      k.left,
		GoToStart:     k.top,
		GoToEnd:       k.bottom,
		ShowFullHelp:  k.showHelp,
		CloseFullHelp: k.showHelp,
		ForceQuit:     k.forceQuit,
	}
}

func withDescription(k key.Binding, description string) key.Binding {
	return key.NewBinding(
		key.WithKeys(k.Keys()...),
		key.WithHelp(k.Help().Key, description),
	)
}
