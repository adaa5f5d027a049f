package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"pokehub/internal/catalog"
	"pokehub/internal/ui"
)

type formField int

const (
	fieldName formField = iota
	fieldTypes
	fieldRegion
	fieldImage
	fieldHP
	fieldAttack
	fieldDefense
	fieldSpeed
	fieldSubmit
	fieldCount
)

var statFields = []struct {
	field formField
	label string
	key   string
}{
	{fieldHP, "HP", "hp"},
	{fieldAttack, "Attack", "attack"},
	{fieldDefense, "Defense", "defense"},
	{fieldSpeed, "Speed", "speed"},
}

// addForm collects a catalog.NewEntry.
type addForm struct {
	focus  formField
	inputs map[formField]*textinput.Model

	typeCursor int
	types      []catalog.Type
	region     int

	errs       catalog.ValidationErrors
	submitting bool
}

func newAddForm() *addForm {
	f := &addForm{inputs: map[formField]*textinput.Model{}}
	mk := func(field formField, placeholder string, limit int) {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholder
		in.CharLimit = limit
		f.inputs[field] = &in
	}
	mk(fieldName, "e.g. Pikachu", 40)
	mk(fieldImage, "https://…/sprite.png", 200)
	for _, sf := range statFields {
		mk(sf.field, fmt.Sprintf("%d-%d", catalog.MinStat, catalog.MaxStat), 3)
	}
	f.setFocus(fieldName)
	return f
}

func (f *addForm) setFocus(field formField) {
	for k, in := range f.inputs {
		if k == field {
			in.Focus()
		} else {
			in.Blur()
		}
	}
	f.focus = field
}

func (f *addForm) move(delta int) {
	next := (int(f.focus) + delta + int(fieldCount)) % int(fieldCount)
	f.setFocus(formField(next))
}

func (f *addForm) stat(field formField) int {
	n, err := strconv.Atoi(strings.TrimSpace(f.inputs[field].Value()))
	if err != nil {
		return 0
	}
	return n
}

// Total is the live sum of the four stat inputs.
func (f *addForm) Total() int {
	return f.Entry().Total()
}

// Entry is the form content as a NewEntry; it is not validated.
func (f *addForm) Entry() catalog.NewEntry {
	types := append([]catalog.Type(nil), f.types...)
	return catalog.NewEntry{
		Name:    f.inputs[fieldName].Value(),
		Types:   types,
		Region:  catalog.SelectableRegions()[f.region],
		Image:   f.inputs[fieldImage].Value(),
		HP:      f.stat(fieldHP),
		Attack:  f.stat(fieldAttack),
		Defense: f.stat(fieldDefense),
		Speed:   f.stat(fieldSpeed),
	}
}

// toggleType selects or clears the type under the cursor. At most
// catalog.MaxTypes can be selected.
func (f *addForm) toggleType() {
	t := catalog.Types()[f.typeCursor]
	for i, have := range f.types {
		if have == t {
			f.types = append(f.types[:i], f.types[i+1:]...)
			return
		}
	}
	if len(f.types) >= catalog.MaxTypes {
		return
	}
	f.types = append(f.types, t)
}

func (f *addForm) hasType(t catalog.Type) bool {
	for _, have := range f.types {
		if have == t {
			return true
		}
	}
	return false
}

// submitMsg asks the board to add the validated entry.
type submitMsg struct {
	entry catalog.NewEntry
}

// closeFormMsg discards the form.
type closeFormMsg struct{}

func (f *addForm) Update(msg tea.KeyMsg) tea.Cmd {
	if f.submitting {
		return nil
	}
	switch msg.String() {
	case "esc":
		return func() tea.Msg { return closeFormMsg{} }
	case "tab", "down":
		f.move(1)
		return nil
	case "shift+tab", "up":
		f.move(-1)
		return nil
	case "ctrl+s":
		return f.submit()
	}

	switch f.focus {
	case fieldTypes:
		switch msg.String() {
		case "left", "h":
			if f.typeCursor > 0 {
				f.typeCursor--
			}
		case "right", "l":
			if f.typeCursor < len(catalog.Types())-1 {
				f.typeCursor++
			}
		case " ", "enter":
			f.toggleType()
		}
		return nil
	case fieldRegion:
		n := len(catalog.SelectableRegions())
		switch msg.String() {
		case "left", "h":
			f.region = (f.region - 1 + n) % n
		case "right", "l":
			f.region = (f.region + 1) % n
		}
		return nil
	case fieldSubmit:
		if msg.String() == "enter" {
			return f.submit()
		}
		return nil
	}

	if msg.String() == "enter" {
		f.move(1)
		return nil
	}
	in := f.inputs[f.focus]
	updated, cmd := in.Update(msg)
	*in = updated
	return cmd
}

func (f *addForm) submit() tea.Cmd {
	entry := f.Entry()
	if err := entry.Validate(); err != nil {
		if verrs, ok := err.(catalog.ValidationErrors); ok {
			f.errs = verrs
		}
		return nil
	}
	f.errs = nil
	f.submitting = true
	return func() tea.Msg { return submitMsg{entry: entry} }
}

func (f *addForm) View() string {
	var b strings.Builder
	b.WriteString(ui.Heading(ui.IconPlus, "Add New Pokemon") + "\n\n")

	label := func(field formField, text string) string {
		if f.focus == field {
			return ui.Key.Render("> " + text)
		}
		return "  " + text
	}
	errLine := func(key string) {
		if msg, ok := f.errs[key]; ok {
			b.WriteString("    " + ui.Bad.Render(msg) + "\n")
		}
	}

	b.WriteString(label(fieldName, "Name") + "  " + f.inputs[fieldName].View() + "\n")
	errLine("name")

	var types []string
	for i, t := range catalog.Types() {
		s := t.Label()
		if f.hasType(t) {
			s = ui.TypeBadge(t)
		} else {
			s = ui.Muted.Render(s)
		}
		if f.focus == fieldTypes && i == f.typeCursor {
			s = "[" + s + "]"
		}
		types = append(types, s)
	}
	b.WriteString(label(fieldTypes, fmt.Sprintf("Types (%d/%d)", len(f.types), catalog.MaxTypes)) + "  " + strings.Join(types, " ") + "\n")
	errLine("types")

	b.WriteString(label(fieldRegion, "Region") + "  ‹ " + string(catalog.SelectableRegions()[f.region]) + " ›\n")
	errLine("region")

	b.WriteString(label(fieldImage, "Image URL") + "  " + f.inputs[fieldImage].View() + "\n")
	errLine("image")

	b.WriteString("\n" + ui.H2.Render("Base Stats") + "\n")
	for _, sf := range statFields {
		b.WriteString(label(sf.field, fmt.Sprintf("%-8s", sf.label)) + "  " + f.inputs[sf.field].View() + "\n")
		errLine(sf.key)
	}
	total := f.Total()
	b.WriteString(fmt.Sprintf("\n  Total Stats %s %s\n", ui.StatStyle(total).Render(strconv.Itoa(total)), ui.StatBar(total, 20)))

	submit := "Add Pokemon"
	if f.submitting {
		submit = "Adding…"
	}
	b.WriteString("\n" + label(fieldSubmit, "["+submit+"]") + "\n")

	if len(f.errs) > 0 {
		keys := make([]string, 0, len(f.errs))
		for k := range f.errs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("\n" + ui.Warn.Render(fmt.Sprintf("%d field(s) need attention: %s", len(keys), strings.Join(keys, ", "))) + "\n")
	}
	b.WriteString("\n" + ui.Muted.Render("tab/↑↓ move • ←/→ choose • space toggle type • ctrl+s submit • esc cancel") + "\n")
	return b.String()
}
