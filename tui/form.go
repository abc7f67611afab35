package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/quietstream/quietstream/color"
	"github.com/quietstream/quietstream/icon"
	"github.com/quietstream/quietstream/stream"
	"github.com/quietstream/quietstream/style"
	"github.com/samber/mo"
)

const (
	nameField = iota
	linkField
	categoriesField
	kindField
	fieldCount
)

// recordForm edits one record. The kind row has no text input; it is toggled.
type recordForm struct {
	inputs  [kindField]textinput.Model
	kind    stream.Kind
	focus   int
	editing mo.Option[stream.Record]
	err     error
}

func newRecordForm() *recordForm {
	f := &recordForm{}

	placeholders := [kindField]string{"Name", "https://…", "music, news"}
	limits := [kindField]int{120, 2048, 240}
	prompts := [kindField]string{"Name:       ", "Link:       ", "Categories: "}

	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = limits[i]
		in.Prompt = prompts[i]
		f.inputs[i] = in
	}

	f.reset(mo.None[stream.Record]())
	return f
}

// reset clears the form, or fills it with the record being edited.
func (f *recordForm) reset(record mo.Option[stream.Record]) {
	f.editing = record
	f.err = nil
	f.focus = nameField

	r, ok := record.Get()
	if !ok {
		r = stream.Record{Kind: stream.KindStream}
	}

	f.inputs[nameField].SetValue(r.Name)
	f.inputs[linkField].SetValue(r.Link)
	f.inputs[categoriesField].SetValue(r.Categories)
	for i := range f.inputs {
		f.inputs[i].CursorEnd()
	}
	f.kind = r.Kind
	f.refocus()
}

func (f *recordForm) title() string {
	if f.editing.IsPresent() {
		return "Edit stream"
	}
	return "Add stream"
}

func (f *recordForm) refocus() {
	for i := range f.inputs {
		if i == f.focus {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

func (f *recordForm) move(delta int) {
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	f.refocus()
}

func (f *recordForm) toggleKind() {
	f.kind = f.kind.Toggle()
}

// record returns the normalized record as entered, keeping the id when editing.
func (f *recordForm) record() stream.Record {
	r := stream.Record{
		Name:       f.inputs[nameField].Value(),
		Link:       f.inputs[linkField].Value(),
		Categories: f.inputs[categoriesField].Value(),
		Kind:       f.kind,
	}
	if editing, ok := f.editing.Get(); ok {
		r.ID = editing.ID
	}
	return r.Normalize()
}

func (f *recordForm) update(msg tea.Msg) tea.Cmd {
	if f.focus == kindField {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == " " {
			f.toggleKind()
		}
		return nil
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *recordForm) view(width int) []string {
	lines := make([]string, 0, fieldCount+2)
	for i := range f.inputs {
		f.inputs[i].Width = width - len(f.inputs[i].Prompt) - 1
		lines = append(lines, f.inputs[i].View())
	}

	kinds := make([]string, 0, 2)
	for _, k := range stream.Kinds() {
		label := fmt.Sprintf("%s %s", kindIcon(k), k)
		if k == f.kind {
			label = style.Fg(color.Orange)("(•) " + strings.TrimSpace(label))
		} else {
			label = style.Faint("( ) " + strings.TrimSpace(label))
		}
		kinds = append(kinds, label)
	}

	kindPrompt := "Kind:       "
	if f.focus == kindField {
		kindPrompt = style.Fg(color.Orange)(kindPrompt)
	}
	lines = append(lines, kindPrompt+strings.Join(kinds, "  "))

	if f.err != nil {
		lines = append(lines, "", style.Fg(style.Red)(icon.Get(icon.Fail)+" "+f.err.Error()))
	}
	return lines
}
