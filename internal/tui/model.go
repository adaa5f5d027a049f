package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"pokehub/internal/catalog"
	"pokehub/internal/engine"
	"pokehub/internal/ui"
)

type boardModel struct {
	ctx context.Context
	svc *engine.Service

	snaps  <-chan engine.Snapshot
	cancel func()
	snap   engine.Snapshot

	width  int
	height int

	region   catalog.Region
	favOnly  bool
	search   textinput.Model
	selected int

	spinner spinner.Model
	form    *addForm

	toast    string
	toastBad bool
}

// snapshotMsg carries a published snapshot; ok is false once the
// subscription is closed.
type snapshotMsg struct {
	snap engine.Snapshot
	ok   bool
}

type loadedMsg struct {
	err error
}

type toggledMsg struct {
	id  int64
	fav bool
	err error
}

type addedMsg struct {
	entry catalog.Entry
	err   error
}

func newBoardModel(ctx context.Context, svc *engine.Service) boardModel {
	snaps, cancel := svc.Subscribe()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = ui.Key

	search := textinput.New()
	search.Prompt = ui.IconSearch + " "
	search.Placeholder = "Search Pokemon by name or type…"
	search.CharLimit = 40

	return boardModel{
		ctx:     ctx,
		svc:     svc,
		snaps:   snaps,
		cancel:  cancel,
		snap:    svc.Snapshot(),
		region:  catalog.RegionAll,
		search:  search,
		spinner: s,
	}
}

func (m boardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitCmd(), m.loadCmd())
}

func (m boardModel) waitCmd() tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-m.snaps
		return snapshotMsg{snap: snap, ok: ok}
	}
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: m.svc.Load(m.ctx)}
	}
}

func (m boardModel) toggleCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		fav, err := m.svc.ToggleFavorite(m.ctx, id)
		return toggledMsg{id: id, fav: fav, err: err}
	}
}

func (m boardModel) addCmd(in catalog.NewEntry) tea.Cmd {
	return func() tea.Msg {
		e, err := m.svc.AddEntry(m.ctx, in)
		return addedMsg{entry: e, err: err}
	}
}

func (m boardModel) filter() engine.Filter {
	return engine.Filter{Region: m.region, Search: m.search.Value(), FavoritesOnly: m.favOnly}
}

func (m boardModel) visible() []catalog.Entry {
	return m.snap.Apply(m.filter())
}

func (m *boardModel) clampSelection() {
	n := len(m.visible())
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// stepRegion moves the region selection, skipping regions without entries.
func (m *boardModel) stepRegion(delta int) {
	regions := catalog.Regions()
	counts := m.snap.CountsByRegion()
	idx := 0
	for i, r := range regions {
		if r == m.region {
			idx = i
		}
	}
	for i := 0; i < len(regions); i++ {
		idx = (idx + delta + len(regions)) % len(regions)
		r := regions[idx]
		if r == catalog.RegionAll || counts[r] > 0 {
			m.region = r
			m.selected = 0
			return
		}
	}
}

func (m *boardModel) notify(msg string, bad bool) {
	m.toast = msg
	m.toastBad = bad
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case snapshotMsg:
		if !msg.ok {
			return m, nil
		}
		m.snap = msg.snap
		m.clampSelection()
		return m, m.waitCmd()
	case loadedMsg:
		if msg.err != nil {
			m.notify("Load failed: "+msg.err.Error(), true)
		}
		return m, nil
	case toggledMsg:
		if msg.err != nil {
			m.notify("Could not update favorites: "+msg.err.Error(), true)
			return m, nil
		}
		name := fmt.Sprintf("#%d", msg.id)
		if e, ok := m.snap.Entry(msg.id); ok {
			name = e.Name
		}
		if msg.fav {
			m.notify(ui.IconHeart+" "+name+" added to favorites", false)
		} else {
			m.notify(name+" removed from favorites", false)
		}
		m.clampSelection()
		return m, nil
	case submitMsg:
		return m, m.addCmd(msg.entry)
	case closeFormMsg:
		m.form = nil
		return m, nil
	case addedMsg:
		if msg.err != nil {
			var perr *engine.PersistError
			if errors.As(msg.err, &perr) {
				m.notify("Failed to add Pokemon: "+perr.Err.Error(), true)
			} else {
				m.notify("Failed to add Pokemon: "+msg.err.Error(), true)
			}
			if m.form != nil {
				m.form.submitting = false
			}
			return m, nil
		}
		m.form = nil
		m.notify(fmt.Sprintf("%s Pokemon Added! %s has been added to the collection.", ui.IconDone, msg.entry.Name), false)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			return m, tea.Quit
		}
		if m.form != nil {
			return m, m.form.Update(msg)
		}
		if m.search.Focused() {
			return m.updateSearch(msg)
		}
		return m.updateBoard(msg)
	}
	return m, nil
}

func (m boardModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.search.Blur()
		return m, nil
	case "esc":
		m.search.SetValue("")
		m.search.Blur()
		m.selected = 0
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.selected = 0
	return m, cmd
}

func (m boardModel) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.cancel()
		return m, tea.Quit
	case "r":
		m.notify("Reloading…", false)
		return m, tea.Batch(m.spinner.Tick, m.loadCmd())
	}
	if m.snap.Err != nil {
		return m, nil
	}

	switch msg.String() {
	case "/":
		return m, m.search.Focus()
	case "esc":
		m.search.SetValue("")
		m.selected = 0
		return m, nil
	case "left", "h":
		m.stepRegion(-1)
		return m, nil
	case "right", "l":
		m.stepRegion(1)
		return m, nil
	case "f":
		m.favOnly = !m.favOnly
		m.selected = 0
		return m, nil
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case "down", "j":
		if m.selected < len(m.visible())-1 {
			m.selected++
		}
		return m, nil
	case " ":
		list := m.visible()
		if m.selected < 0 || m.selected >= len(list) {
			return m, nil
		}
		return m, m.toggleCmd(list[m.selected].ID)
	case "a":
		m.form = newAddForm()
		return m, nil
	}
	return m, nil
}

func (m boardModel) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader() + "\n\n")

	switch {
	case m.form != nil:
		b.WriteString(m.form.View())
	case m.snap.Loading && m.snap.Len() == 0 && m.snap.Err == nil:
		b.WriteString(m.spinner.View() + " Loading Pokemon data…\n")
	case m.snap.Err != nil:
		b.WriteString(m.renderError())
	default:
		b.WriteString(m.renderMain())
	}

	b.WriteString(m.renderFooter())
	return b.String()
}

func (m boardModel) renderHeader() string {
	title := ui.Heading(ui.IconSparkle, "PokeHub")
	favs := fmt.Sprintf("%s %d", ui.Heart(true), m.snap.FavoriteCount())
	if m.snap.Loading && m.snap.Len() > 0 {
		favs += "  " + m.spinner.View()
	}
	return title + "  " + favs
}

func (m boardModel) renderError() string {
	var b strings.Builder
	b.WriteString(ui.Bad.Render(ui.IconError+" Oops! Something went wrong") + "\n")
	b.WriteString(m.snap.Err.Error() + "\n\n")
	b.WriteString(ui.Muted.Render("Press r to try again.") + "\n")
	return b.String()
}

func (m boardModel) listRows() int {
	if m.height <= 0 {
		return 0
	}
	rows := m.height - 20
	if rows < 3 {
		rows = 3
	}
	return rows
}

func (m boardModel) renderMain() string {
	var b strings.Builder
	b.WriteString(ui.RegionStrip(m.snap.CountsByRegion(), m.region) + "\n")
	if m.search.Focused() || m.search.Value() != "" {
		b.WriteString(m.search.View() + "\n")
	}

	f := m.filter()
	list := m.visible()
	b.WriteString(ui.Muted.Render(ui.Summary(len(list), f)) + "\n\n")

	if len(list) == 0 {
		title, hint := ui.EmptyState(f)
		b.WriteString(ui.H2.Render(title) + "\n" + ui.Muted.Render(hint) + "\n")
		return b.String()
	}

	start, end := 0, len(list)
	if rows := m.listRows(); rows > 0 && len(list) > rows {
		start = m.selected - rows/2
		if start < 0 {
			start = 0
		}
		end = start + rows
		if end > len(list) {
			end = len(list)
			start = end - rows
		}
	}
	for i := start; i < end; i++ {
		cursor := "  "
		if i == m.selected {
			cursor = ui.Key.Render("> ")
		}
		b.WriteString(cursor + ui.CardLine(list[i], m.snap.IsFavorite(list[i].ID)) + "\n")
	}

	if m.selected >= 0 && m.selected < len(list) {
		e := list[m.selected]
		b.WriteString("\n" + ui.Card(e, m.snap.IsFavorite(e.ID)) + "\n")
	}
	return b.String()
}

func (m boardModel) renderFooter() string {
	var b strings.Builder
	b.WriteString("\n")
	if m.toast != "" {
		if m.toastBad {
			b.WriteString(ui.Bad.Render(m.toast) + "\n")
		} else {
			b.WriteString(ui.Good.Render(m.toast) + "\n")
		}
	}
	if m.form == nil {
		b.WriteString(ui.Muted.Render("←/→ region • / search • f favorites • space ♥ • a add • r reload • q quit") + "\n")
	}
	return b.String()
}
