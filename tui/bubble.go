package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/quietstream/quietstream/catalog"
	"github.com/quietstream/quietstream/constant"
	"github.com/quietstream/quietstream/exchange"
	"github.com/quietstream/quietstream/internal/ui"
	"github.com/quietstream/quietstream/key"
	"github.com/quietstream/quietstream/playback"
	"github.com/quietstream/quietstream/stream"
	"github.com/quietstream/quietstream/style"
	"github.com/quietstream/quietstream/util"
	"github.com/quietstream/quietstream/validator"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// statefulBubble is the whole application model.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]

	keymap *statefulKeymap

	ctx       context.Context
	catalog   *catalog.Catalog
	exchanger *exchange.Exchanger
	validator *validator.Validator
	session   *playback.Session

	// components
	spinnerC  spinner.Model
	menuC     list.Model
	catalogC  list.Model
	playerC   list.Model
	searchC   textinput.Model
	pathC     textinput.Model
	progressC progress.Model
	helpC     help.Model
	form      *recordForm

	// searching is set while searchC has focus on the catalog or player screen
	searching        bool
	catalogQuery     string
	playerQuery      string
	searchSuggestion mo.Option[string]

	// playerView is the filtered view navigation runs over
	playerView []stream.Record

	pathMode pathMode

	run            *validator.Run
	progressStatus string
	progressRatio  float64

	confirmTitle string
	confirmBody  string
	onConfirm    func() tea.Cmd

	playerStatus string
	busy         bool

	lastError error

	width, height int
	notifier      *ui.Model

	options *Options
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState moves to s, remembering where we came from unless that screen is transient.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	if !lo.Contains([]state{
		formState,
		pathState,
		validateState,
		confirmState,
		errorState,
	}, b.state) {
		b.statesHistory.Push(b.state)
	}

	b.setState(s)
}

func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		b.setState(b.statesHistory.Pop())
		return
	}
	b.setState(menuState)
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	listWidth := width - xx
	listHeight := height - yy

	b.menuC.SetSize(listWidth, listHeight)
	b.menuC.Help.Width = listWidth

	// room for the search line and the status line
	b.catalogC.SetSize(listWidth, listHeight-2)
	b.catalogC.Help.Width = listWidth

	b.playerC.SetSize(listWidth, listHeight-2)
	b.playerC.Help.Width = listWidth

	b.progressC.Width = listWidth
	b.pathC.Width = listWidth
	b.searchC.Width = listWidth

	b.width = width - x
	b.height = height - y
	b.helpC.Width = listWidth
}

func newBubble(ctx context.Context, options *Options) *statefulBubble {
	if options.Validator == nil {
		options.Validator = validator.FromConfig()
	}

	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		statesHistory: util.Stack[state]{},
		keymap:        keymap,

		ctx:       ctx,
		catalog:   catalog.New(options.Store),
		exchanger: exchange.New(options.Store),
		validator: options.Validator,
		session:   playback.New(options.Playback),

		searchSuggestion: mo.None[string](),
		notifier:         &ui.Model{},
		options:          options,
		form:             newRecordForm(),
	}

	makeList := func(title string, background lipgloss.Color) list.Model {
		delegate := list.NewDefaultDelegate()
		delegate.SetSpacing(viper.GetInt(key.TUIItemSpacing))
		delegate.Styles.SelectedTitle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(style.AccentColor).
			Foreground(style.AccentColor).
			Padding(0, 0, 0, 1)
		delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
		delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

		listC := list.New([]list.Item{}, delegate, 0, 0)
		listC.KeyMap = bubble.keymap.forList()
		listC.AdditionalShortHelpKeys = bubble.keymap.ShortHelp
		listC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
			return bubble.keymap.FullHelp()[0]
		}
		listC.Title = title
		listC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(background).Padding(0, 1)
		listC.Styles.NoItems = paddingStyle
		listC.StatusMessageLifetime = time.Hour * 999
		listC.SetFilteringEnabled(false)
		listC.SetShowPagination(false)
		listC.SetShowStatusBar(false)

		return listC
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bubble.menuC = makeList(fmt.Sprintf("%s v%s", constant.Title, constant.Version), style.AccentColor)
	bubble.menuC.SetItems([]list.Item{
		&listItem{internal: menuCatalog},
		&listItem{internal: menuPlayer},
		&listItem{internal: menuQuit},
	})

	bubble.catalogC = makeList("Catalog", style.Lavender)
	bubble.catalogC.SetStatusBarItemName("stream", "streams")

	bubble.playerC = makeList("Player", style.Peach)
	bubble.playerC.SetStatusBarItemName("stream", "streams")

	bubble.searchC = textinput.New()
	bubble.searchC.Placeholder = "Search by name, category or kind"
	bubble.searchC.CharLimit = 80
	bubble.searchC.Prompt = viper.GetString(key.TUISearchPromptString)

	bubble.pathC = textinput.New()
	bubble.pathC.CharLimit = 4096

	bubble.progressC = progress.New(progress.WithDefaultGradient())

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	bubble.setState(menuState)
	return &bubble
}
