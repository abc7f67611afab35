package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/quietstream/quietstream/catalog"
	"github.com/quietstream/quietstream/exchange"
	"github.com/quietstream/quietstream/filesystem"
	"github.com/quietstream/quietstream/history"
	"github.com/quietstream/quietstream/internal/ui"
	"github.com/quietstream/quietstream/key"
	"github.com/quietstream/quietstream/log"
	"github.com/quietstream/quietstream/open"
	"github.com/quietstream/quietstream/playback"
	"github.com/quietstream/quietstream/stream"
	"github.com/quietstream/quietstream/util"
	"github.com/quietstream/quietstream/validator"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// brokenListLimit is how many broken names the delete confirmation lists.
const brokenListLimit = 10

type (
	catalogLoadedMsg struct {
		snapshot catalog.Snapshot
	}

	playbackEventMsg playback.Event

	validationProgressMsg struct {
		run      *validator.Run
		progress validator.Progress
	}

	validationDoneMsg struct {
		run    *validator.Run
		result validator.Result
	}

	importDoneMsg struct {
		path   string
		report exchange.Report
		err    error
	}

	exportDoneMsg struct {
		path  string
		count int
		err   error
	}
)

func (b *statefulBubble) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		snapshot, err := b.catalog.Load(b.ctx)
		if err != nil {
			return err
		}
		return catalogLoadedMsg{snapshot: snapshot}
	}
}

// waitForPlayback delivers the next session event. Exactly one is kept pending at a time.
func (b *statefulBubble) waitForPlayback() tea.Cmd {
	events := b.session.Events()
	return func() tea.Msg {
		return playbackEventMsg(<-events)
	}
}

func waitForValidation(run *validator.Run) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-run.Progress()
		if !ok {
			return validationDoneMsg{run: run, result: run.Wait()}
		}
		return validationProgressMsg{run: run, progress: p}
	}
}

func (b *statefulBubble) importFile(path string) tea.Cmd {
	return func() tea.Msg {
		report, err := b.exchanger.Import(b.ctx, path)
		return importDoneMsg{path: path, report: report, err: err}
	}
}

func (b *statefulBubble) exportFile(path string) tea.Cmd {
	return func() tea.Msg {
		count, err := b.exchanger.Export(b.ctx, path)
		return exportDoneMsg{path: path, count: count, err: err}
	}
}

// refreshLists rebuilds both record lists from the current snapshot.
func (b *statefulBubble) refreshLists() tea.Cmd {
	return tea.Batch(b.refreshCatalogList(), b.refreshPlayerList())
}

func (b *statefulBubble) refreshCatalogList() tea.Cmd {
	records := b.catalog.Filter(b.catalogQuery)
	items := lo.Map(records, func(r stream.Record, _ int) list.Item {
		return &listItem{internal: r}
	})
	return b.catalogC.SetItems(items)
}

func (b *statefulBubble) refreshPlayerList() tea.Cmd {
	b.playerView = b.catalog.Filter(b.playerQuery)

	current, playing := b.session.Current().Get()
	items := lo.Map(b.playerView, func(r stream.Record, _ int) list.Item {
		return &listItem{internal: r, playing: playing && r.ID == current}
	})
	return b.playerC.SetItems(items)
}

func selectedRecord(l *list.Model) mo.Option[stream.Record] {
	item, ok := l.SelectedItem().(*listItem)
	if !ok {
		return mo.None[stream.Record]()
	}
	if r, ok := item.record(); ok {
		return mo.Some(r)
	}
	return mo.None[stream.Record]()
}

// afterMutation shows the result of a catalog write. The snapshot is already reloaded.
func (b *statefulBubble) afterMutation(err error, format string, args ...any) tea.Cmd {
	if err != nil {
		log.Error(err)
		return tea.Batch(b.refreshLists(), ui.NotifyError(err))
	}
	return tea.Batch(b.refreshLists(), ui.Notify(format, args...))
}

func (b *statefulBubble) submitForm() tea.Cmd {
	r := b.form.record()
	if err := r.Validate(); err != nil {
		b.form.err = err
		return nil
	}

	if b.form.editing.IsPresent() {
		if _, err := b.catalog.Update(b.ctx, r); err != nil {
			b.form.err = err
			return nil
		}
		b.previousState()
		return b.afterMutation(nil, "Updated %s", r.Name)
	}

	created, _, err := b.catalog.Add(b.ctx, r)
	if err != nil {
		b.form.err = err
		return nil
	}
	b.previousState()
	return b.afterMutation(nil, "Added %s", created.Name)
}

func (b *statefulBubble) askConfirmation(title, body string, onConfirm func() tea.Cmd) {
	b.confirmTitle = title
	b.confirmBody = body
	b.onConfirm = onConfirm
	b.newState(confirmState)
}

func (b *statefulBubble) confirmDelete(r stream.Record) {
	b.askConfirmation(
		"Delete stream",
		fmt.Sprintf("Delete %q?", r.Name),
		func() tea.Cmd {
			_, err := b.catalog.Remove(b.ctx, r.ID)
			if id, ok := b.session.Current().Get(); err == nil && ok && id == r.ID {
				_ = b.session.Stop()
				b.playerStatus = ""
			}
			return b.afterMutation(err, "Deleted %s", r.Name)
		},
	)
}

func (b *statefulBubble) startValidation() tea.Cmd {
	records := b.catalog.Snapshot().Records()
	if len(records) == 0 {
		return ui.Notify("Nothing to validate")
	}

	b.run = b.validator.Start(b.ctx, records)
	b.progressStatus = fmt.Sprintf("Validating %s", util.Quantify(len(records), "link", "links"))
	b.progressRatio = 0
	b.newState(validateState)
	return tea.Batch(waitForValidation(b.run), b.spinnerC.Tick)
}

func (b *statefulBubble) finishValidation(result validator.Result) tea.Cmd {
	b.run = nil
	b.previousState()

	healthy := util.Quantify(len(result.Healthy), "link", "links")
	if len(result.Broken) == 0 {
		if result.Cancelled {
			return ui.Notify("Validation cancelled, %s healthy so far", healthy)
		}
		return ui.Notify("All %s are healthy", healthy)
	}

	names := lo.Map(result.Broken, func(r stream.Record, _ int) string {
		return r.Name
	})

	title := "Broken links"
	if result.Cancelled {
		title = "Broken links (validation cancelled)"
	}

	broken := result.Broken
	b.askConfirmation(
		title,
		fmt.Sprintf(
			"%s did not respond:\n\n%s\n\nDelete %s?",
			util.Quantify(len(broken), "link", "links"),
			util.Enumerate(names, brokenListLimit),
			lo.Ternary(len(broken) == 1, "it", "them"),
		),
		func() tea.Cmd {
			ids := lo.Map(broken, func(r stream.Record, _ int) int64 {
				return r.ID
			})
			n, _, err := b.catalog.RemoveMany(b.ctx, ids)
			return b.afterMutation(err, "Deleted %s", util.Quantify(n, "broken link", "broken links"))
		},
	)
	return nil
}

func (b *statefulBubble) submitPath() tea.Cmd {
	path := strings.TrimSpace(b.pathC.Value())

	switch b.pathMode {
	case importPath:
		if err := exchange.CheckImportPath(path); err != nil {
			return ui.NotifyError(err)
		}
		b.busy = true
		b.progressStatus = "Importing " + path
		return tea.Batch(b.importFile(path), b.spinnerC.Tick)
	case exportPath:
		if path == "" {
			path = viper.GetString(key.ExportDefaultFile)
		}
		path = exchange.ExportPath(path)
		b.busy = true
		b.progressStatus = "Exporting to " + path
		return tea.Batch(b.exportFile(path), b.spinnerC.Tick)
	}
	return nil
}

func (b *statefulBubble) onImportDone(msg importDoneMsg) tea.Cmd {
	b.busy = false
	if msg.err != nil {
		log.Error(msg.err)
		return ui.NotifyError(msg.err)
	}

	b.previousState()
	if _, err := b.catalog.Load(b.ctx); err != nil {
		log.Error(err)
		return tea.Batch(b.refreshLists(), ui.NotifyError(err))
	}

	r := msg.report
	text := fmt.Sprintf("Imported %d of %d, skipped %d", r.Imported, r.Total, r.Skipped)
	if r.Duplicates > 0 {
		text += fmt.Sprintf(" (%d already present)", r.Duplicates)
	}
	return b.afterMutation(nil, "%s", text)
}

func (b *statefulBubble) onExportDone(msg exportDoneMsg) tea.Cmd {
	b.busy = false
	if msg.err != nil {
		log.Error(msg.err)
		return ui.NotifyError(msg.err)
	}

	b.previousState()

	size := ""
	if info, err := filesystem.API().Stat(msg.path); err == nil {
		size = fmt.Sprintf(" (%s)", humanize.Bytes(uint64(info.Size())))
	}
	return ui.Notify("Exported %s to %s%s", util.Quantify(msg.count, "stream", "streams"), msg.path, size)
}

func (b *statefulBubble) openLink(r mo.Option[stream.Record]) tea.Cmd {
	record, ok := r.Get()
	if !ok {
		return nil
	}
	if err := open.Link(record.Link); err != nil {
		return ui.NotifyError(err)
	}
	return ui.Notify("Opened %s", record.Name)
}

// navigate runs a session selection and mirrors it in the player list.
func (b *statefulBubble) navigate(selectFn func() (stream.Record, error)) tea.Cmd {
	r, err := selectFn()
	if err != nil {
		return ui.NotifyError(err)
	}

	b.playerStatus = fmt.Sprintf("Loading: %s…", r.Name)
	cmd := b.refreshPlayerList()
	b.playerC.Select(b.session.Index())
	return tea.Batch(cmd, b.spinnerC.Tick)
}

func (b *statefulBubble) playIndex(index int) tea.Cmd {
	return b.navigate(func() (stream.Record, error) {
		return b.session.Select(b.ctx, b.playerView, index)
	})
}

func (b *statefulBubble) onPlaybackEvent(ev playback.Event) tea.Cmd {
	if !b.session.Apply(ev) {
		return nil
	}

	switch ev.Kind {
	case playback.EventStarted:
		b.playerStatus = fmt.Sprintf("%s Playing: %s", playingMarker, ev.Record.Name)
		if viper.GetBool(key.HistorySaveOnPlay) {
			if err := history.Save(ev.Record); err != nil {
				log.Warnf("save history: %v", err)
			}
		}
	case playback.EventFailed:
		b.playerStatus = ""
		return ui.NotifyError(fmt.Errorf("could not play %s: %w", ev.Record.Name, ev.Err))
	case playback.EventEnd:
		if viper.GetBool(key.PlayerLoopOnEnd) {
			b.playerStatus = fmt.Sprintf("%s Restarting: %s", playingMarker, ev.Record.Name)
		}
	case playback.EventExited:
		b.playerStatus = ""
		return tea.Batch(b.refreshPlayerList(), ui.Notify("Player closed"))
	}

	return nil
}

// resumeLast selects the most recently played stream that is still in the catalog.
func (b *statefulBubble) resumeLast() tea.Cmd {
	last, ok := history.Last().Get()
	if !ok {
		return ui.Notify("Nothing played yet")
	}

	index := lo.IndexOf(lo.Map(b.playerView, func(r stream.Record, _ int) int64 {
		return r.ID
	}), last.ID)
	if index < 0 {
		return ui.Notify("%s is no longer in the catalog", last.Name)
	}

	b.newState(playerState)
	return b.playIndex(index)
}

func (b *statefulBubble) close() error {
	if b.run != nil {
		b.run.Cancel()
		b.run.Wait()
	}
	return b.session.Close()
}
