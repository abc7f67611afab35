package tui

import (
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/quietstream/quietstream/internal/ui"
	"github.com/quietstream/quietstream/key"
	"github.com/quietstream/quietstream/playback"
	"github.com/quietstream/quietstream/query"
	"github.com/quietstream/quietstream/stream"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, b.loadCatalog(), b.waitForPlayback())
}

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if cmd := b.notifier.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case error:
		b.raiseError(msg)
		return b, tea.Batch(cmds...)
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, tea.Batch(cmds...)
	case spinner.TickMsg:
		// keep ticking only while something is in flight
		if b.busy || b.run != nil || b.session.State() == playback.Loading {
			var cmd tea.Cmd
			b.spinnerC, cmd = b.spinnerC.Update(msg)
			cmds = append(cmds, cmd)
		}
		return b, tea.Batch(cmds...)
	case catalogLoadedMsg:
		cmds = append(cmds, b.refreshLists())
		if b.options.Continue {
			b.options.Continue = false
			cmds = append(cmds, b.resumeLast())
		}
		return b, tea.Batch(cmds...)
	case playbackEventMsg:
		cmds = append(cmds, b.onPlaybackEvent(playback.Event(msg)), b.waitForPlayback())
		return b, tea.Batch(cmds...)
	case validationProgressMsg:
		if msg.run != b.run {
			return b, tea.Batch(cmds...)
		}
		p := msg.progress
		b.progressStatus = "Validating: " + p.Record.Name
		b.progressRatio = float64(p.Index) / float64(p.Total)
		cmds = append(cmds, waitForValidation(msg.run))
		return b, tea.Batch(cmds...)
	case validationDoneMsg:
		if msg.run == b.run {
			cmds = append(cmds, b.finishValidation(msg.result))
		}
		return b, tea.Batch(cmds...)
	case importDoneMsg:
		cmds = append(cmds, b.onImportDone(msg))
		return b, tea.Batch(cmds...)
	case exportDoneMsg:
		cmds = append(cmds, b.onExportDone(msg))
		return b, tea.Batch(cmds...)
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
	}

	var (
		model tea.Model
		cmd   tea.Cmd
	)

	switch b.state {
	case menuState:
		model, cmd = b.updateMenu(msg)
	case catalogState:
		model, cmd = b.updateCatalog(msg)
	case formState:
		model, cmd = b.updateForm(msg)
	case pathState:
		model, cmd = b.updatePath(msg)
	case validateState:
		model, cmd = b.updateValidate(msg)
	case confirmState:
		model, cmd = b.updateConfirm(msg)
	case playerState:
		model, cmd = b.updatePlayer(msg)
	case errorState:
		model, cmd = b.updateError(msg)
	default:
		model = b
	}

	return model, tea.Batch(append(cmds, cmd)...)
}

// wrapCursor implements wrap-around on the first and last rows.
func wrapCursor(l *list.Model, msg tea.KeyMsg, keymap *statefulKeymap) bool {
	n := len(l.Items())
	if n == 0 {
		return false
	}

	switch {
	case bubblesKey.Matches(msg, keymap.up) && l.Index() == 0:
		l.Select(n - 1)
		return true
	case bubblesKey.Matches(msg, keymap.down) && l.Index() == n-1:
		l.Select(0)
		return true
	}
	return false
}

func (b *statefulBubble) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		if wrapCursor(&b.menuC, msg, b.keymap) {
			return b, nil
		}

		switch {
		case bubblesKey.Matches(msg, b.keymap.quit, b.keymap.back):
			return b, tea.Quit
		case bubblesKey.Matches(msg, b.keymap.confirm):
			item, ok := b.menuC.SelectedItem().(*listItem)
			if !ok {
				return b, nil
			}

			switch item.internal.(menuEntry) {
			case menuCatalog:
				b.newState(catalogState)
				return b, b.refreshCatalogList()
			case menuPlayer:
				b.newState(playerState)
				return b, b.refreshPlayerList()
			case menuQuit:
				return b, tea.Quit
			}
		}
	}

	b.menuC, cmd = b.menuC.Update(msg)
	return b, cmd
}

// startSearch focuses the search input with the screen's current query.
func (b *statefulBubble) startSearch(current string) tea.Cmd {
	b.searching = true
	b.searchSuggestion = mo.None[string]()
	b.searchC.SetValue(current)
	b.searchC.CursorEnd()
	return b.searchC.Focus()
}

// updateSearch edits the query of the active screen and re-filters on every keystroke.
func (b *statefulBubble) updateSearch(msg tea.Msg, target *string, refresh func() tea.Cmd) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		b.searchC, cmd = b.searchC.Update(msg)
		return cmd
	}

	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.back):
		b.searching = false
		b.searchC.Blur()
		*target = ""
		return refresh()
	case bubblesKey.Matches(keyMsg, b.keymap.confirm):
		b.searching = false
		b.searchC.Blur()
		if err := query.Remember(*target, 1); err != nil {
			return ui.NotifyError(err)
		}
		return nil
	case bubblesKey.Matches(keyMsg, b.keymap.acceptSearchSuggestion):
		if suggestion, ok := b.searchSuggestion.Get(); ok {
			b.searchC.SetValue(suggestion)
			b.searchC.CursorEnd()
			*target = suggestion
			b.searchSuggestion = mo.None[string]()
			return refresh()
		}
		return nil
	}

	var cmd tea.Cmd
	b.searchC, cmd = b.searchC.Update(msg)

	if value := b.searchC.Value(); value != *target {
		*target = value
		b.searchSuggestion = mo.None[string]()
		if s, ok := query.Suggest(value).Get(); ok && value != "" && s != value {
			b.searchSuggestion = mo.Some(s)
		}
		cmd = tea.Batch(cmd, refresh())
	}

	return cmd
}

func (b *statefulBubble) updateCatalog(msg tea.Msg) (tea.Model, tea.Cmd) {
	if b.searching {
		return b, b.updateSearch(msg, &b.catalogQuery, b.refreshCatalogList)
	}

	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		if wrapCursor(&b.catalogC, msg, b.keymap) {
			return b, nil
		}

		switch {
		case bubblesKey.Matches(msg, b.keymap.add):
			b.form.reset(mo.None[stream.Record]())
			b.newState(formState)
			return b, textinput.Blink
		case bubblesKey.Matches(msg, b.keymap.edit):
			if r, ok := selectedRecord(&b.catalogC).Get(); ok {
				b.form.reset(mo.Some(r))
				b.newState(formState)
				return b, textinput.Blink
			}
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.remove):
			if r, ok := selectedRecord(&b.catalogC).Get(); ok {
				b.confirmDelete(r)
			}
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.filter):
			return b, b.startSearch(b.catalogQuery)
		case bubblesKey.Matches(msg, b.keymap.importFile):
			b.pathMode = importPath
			b.pathC.Prompt = "Import from: "
			b.pathC.Placeholder = "streams.json"
			b.pathC.SetValue("")
			b.newState(pathState)
			return b, b.pathC.Focus()
		case bubblesKey.Matches(msg, b.keymap.exportFile):
			b.pathMode = exportPath
			b.pathC.Prompt = "Export to: "
			b.pathC.Placeholder = viper.GetString(key.ExportDefaultFile)
			b.pathC.SetValue(viper.GetString(key.ExportDefaultFile))
			b.pathC.CursorEnd()
			b.newState(pathState)
			return b, b.pathC.Focus()
		case bubblesKey.Matches(msg, b.keymap.validate):
			return b, b.startValidation()
		case bubblesKey.Matches(msg, b.keymap.openURL):
			return b, b.openLink(selectedRecord(&b.catalogC))
		case bubblesKey.Matches(msg, b.keymap.back) && b.catalogQuery != "":
			b.catalogQuery = ""
			return b, b.refreshCatalogList()
		case bubblesKey.Matches(msg, b.keymap.quit, b.keymap.back):
			b.previousState()
			return b, nil
		}
	}

	b.catalogC, cmd = b.catalogC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.confirm):
			return b, b.submitForm()
		case bubblesKey.Matches(msg, b.keymap.nextField):
			b.form.move(1)
			return b, textinput.Blink
		case bubblesKey.Matches(msg, b.keymap.prevField):
			b.form.move(-1)
			return b, textinput.Blink
		case bubblesKey.Matches(msg, b.keymap.toggleKind):
			b.form.toggleKind()
			return b, nil
		}
	}

	return b, b.form.update(msg)
}

func (b *statefulBubble) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if b.busy {
		return b, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.pathC.Blur()
			b.previousState()
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.confirm):
			return b, b.submitPath()
		}
	}

	var cmd tea.Cmd
	b.pathC, cmd = b.pathC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateValidate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && b.run != nil {
		if bubblesKey.Matches(msg, b.keymap.back, b.keymap.quit) {
			b.run.Cancel()
			b.progressStatus = "Cancelling…"
		}
	}
	return b, nil
}

func (b *statefulBubble) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	msgKey, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, nil
	}

	switch {
	case bubblesKey.Matches(msgKey, b.keymap.yes):
		onConfirm := b.onConfirm
		b.onConfirm = nil
		b.previousState()
		if onConfirm != nil {
			return b, onConfirm()
		}
	case bubblesKey.Matches(msgKey, b.keymap.no):
		b.onConfirm = nil
		b.previousState()
	}
	return b, nil
}

func (b *statefulBubble) updatePlayer(msg tea.Msg) (tea.Model, tea.Cmd) {
	if b.searching {
		return b, b.updateSearch(msg, &b.playerQuery, b.refreshPlayerList)
	}

	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		if wrapCursor(&b.playerC, msg, b.keymap) {
			return b, nil
		}

		switch {
		case bubblesKey.Matches(msg, b.keymap.play):
			if len(b.playerView) == 0 {
				return b, nil
			}
			return b, b.playIndex(b.playerC.Index())
		case bubblesKey.Matches(msg, b.keymap.prev):
			return b, b.navigate(func() (stream.Record, error) {
				return b.session.Prev(b.ctx, b.playerView)
			})
		case bubblesKey.Matches(msg, b.keymap.next):
			return b, b.navigate(func() (stream.Record, error) {
				return b.session.Next(b.ctx, b.playerView)
			})
		case bubblesKey.Matches(msg, b.keymap.stop):
			if err := b.session.Stop(); err != nil {
				return b, ui.NotifyError(err)
			}
			b.playerStatus = ""
			return b, b.refreshPlayerList()
		case bubblesKey.Matches(msg, b.keymap.volume):
			v, err := b.session.ToggleVolume()
			if err != nil {
				return b, ui.NotifyError(err)
			}
			return b, ui.Notify("Volume %.0f%%", v)
		case bubblesKey.Matches(msg, b.keymap.filter):
			return b, b.startSearch(b.playerQuery)
		case bubblesKey.Matches(msg, b.keymap.openURL):
			return b, b.openLink(selectedRecord(&b.playerC))
		case bubblesKey.Matches(msg, b.keymap.back) && b.playerQuery != "":
			b.playerQuery = ""
			return b, b.refreshPlayerList()
		case bubblesKey.Matches(msg, b.keymap.quit, b.keymap.back):
			b.previousState()
			return b, nil
		}
	}

	b.playerC, cmd = b.playerC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back, b.keymap.quit):
			b.lastError = nil
			b.previousState()
		}
	}
	return b, nil
}
