// Package tui is the interactive browser: category tabs, live search and
// an add/edit form. Every change goes through app.App, so it is on disk
// as soon as the key is handled.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/mythings/internal/app"
	"github.com/idilsaglam/mythings/internal/form"
	"github.com/idilsaglam/mythings/internal/images"
	"github.com/idilsaglam/mythings/internal/model"
	"github.com/idilsaglam/mythings/internal/ui"
	"github.com/idilsaglam/mythings/internal/view"
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeForm
	modeBrand
)

// listItem adapts model.Item to bubbles/list.Item.
type listItem struct {
	item  model.Item
	color model.Color
}

func (i listItem) Title() string       { return i.item.Name }
func (i listItem) Description() string { return i.item.Brand }
func (i listItem) FilterValue() string { return i.item.Name }

// itemDelegate renders one row: category dot, name, brand and price.
type itemDelegate struct {
	width *int
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	width := 80
	if d.width != nil && *d.width > 0 {
		width = *d.width
	}
	nameW := width / 3
	brandW := width / 4
	line := fmt.Sprintf("%s %s %s %s",
		categoryStyle(it.color).Render(bullet),
		ui.Pad(ui.Truncate(it.item.Name, nameW), nameW),
		mutedStyle.Render(ui.Pad(ui.Truncate(it.item.Brand, brandW), brandW)),
		it.item.Price.Display(),
	)
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, ui.Truncate(prefix+line, width))
}

var (
	addBind    = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind   = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	deleteBind = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	brandBind  = key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "brand"))
	searchBind = key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search"))
	tabBind    = key.NewBinding(key.WithKeys("left", "right", "h", "l"), key.WithHelp("←/→", "category"))
)

// Model is the bubbletea model of the browser.
type Model struct {
	app   *app.App
	cache *images.Cache

	tabs []string
	tab  int
	sel  view.Selection

	list   list.Model
	search textinput.Model
	brand  textinput.Model
	form   *itemForm
	mode   mode

	status    string
	statusErr bool
	width     *int
	height    int
}

// New builds the browser positioned on the default category tab.
func New(a *app.App) Model {
	width := 80
	m := Model{
		app:    a,
		cache:  a.NewImageCache(),
		sel:    view.NewSelection(),
		width:  &width,
		height: 24,
	}
	m.sel.Category = a.DefaultCategory()

	l := list.New(nil, itemDelegate{width: m.width}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowTitle(false)
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	extra := func() []key.Binding {
		return []key.Binding{tabBind, searchBind, addBind, editBind, deleteBind, brandBind}
	}
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra
	m.list = l

	m.search = textinput.New()
	m.search.Prompt = "/ "
	m.search.Placeholder = "name or brand"
	m.search.CharLimit = 100

	m.brand = textinput.New()
	m.brand.Prompt = "brand> "
	m.brand.CharLimit = 100

	m.refresh()
	return m
}

// Run opens the browser in the alternate screen until the user quits.
func Run(a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// refresh reloads tabs and the visible projection from the app.
func (m *Model) refresh() {
	m.tabs = m.app.CategoryNames()
	m.tab = view.IndexOf(m.tabs, m.sel.Category)
	if m.tab < 0 {
		m.tab = 0
		m.sel.Category = view.All
	}
	visible := m.app.Visible(m.sel)
	rows := make([]list.Item, 0, len(visible))
	for _, it := range visible {
		rows = append(rows, listItem{item: it, color: m.app.Categories.ColorFor(m.categoryColor(it.Category))})
	}
	idx := m.list.Index()
	m.list.SetItems(rows)
	if idx >= len(rows) {
		idx = len(rows) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
}

// categoryColor finds the color name of a category label; orphans get "".
func (m *Model) categoryColor(name string) string {
	for _, c := range m.app.Categories.All() {
		if c.Name == name {
			return c.Color
		}
	}
	return ""
}

func (m *Model) selected() (model.Item, bool) {
	li, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Item{}, false
	}
	return li.item, true
}

func (m *Model) setStatus(msg string, err error) {
	if err != nil {
		m.status = err.Error()
		m.statusErr = true
		return
	}
	m.status = msg
	m.statusErr = false
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if sz, ok := msg.(tea.WindowSizeMsg); ok {
		*m.width = sz.Width - 4
		m.height = sz.Height
		m.list.SetSize(sz.Width-4, m.listHeight())
		return m, nil
	}

	switch m.mode {
	case modeSearch:
		return m.updateSearch(msg)
	case modeForm:
		return m.updateForm(msg)
	case modeBrand:
		return m.updateBrand(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	switch km.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		m.cycle(-1)
		return m, nil
	case "right", "l":
		m.cycle(1)
		return m, nil
	case "/":
		m.mode = modeSearch
		m.search.SetValue(m.sel.Query)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case "a":
		def := m.sel.Category
		if def == view.All {
			def = ""
		}
		m.form = newItemForm(nil, def)
		m.mode = modeForm
		return m, textinput.Blink
	case "e":
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.form = newItemForm(&it, "")
		m.mode = modeForm
		return m, textinput.Blink
	case "d":
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		err := m.app.DeleteItem(it.ID)
		m.setStatus("deleted "+it.Name, err)
		m.refresh()
		return m, nil
	case "b":
		m.mode = modeBrand
		m.brand.SetValue("")
		return m, m.brand.Focus()
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) cycle(delta int) {
	m.tab = view.Cycle(m.tab, delta, len(m.tabs))
	m.sel.Category = m.tabs[m.tab]
	m.list.Select(0)
	m.refresh()
}

// updateSearch narrows the projection on every keystroke.
func (m Model) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			m.mode = modeBrowse
			m.search.Blur()
			return m, nil
		case "esc":
			m.mode = modeBrowse
			m.search.Blur()
			m.search.SetValue("")
			m.sel.Query = ""
			m.refresh()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != m.sel.Query {
		m.sel.Query = q
		m.list.Select(0)
		m.refresh()
	}
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, m.form.update(msg)
	}
	switch km.String() {
	case "esc":
		m.form = nil
		m.mode = modeBrowse
		return m, nil
	case "tab", "down":
		m.form.move(1)
		return m, nil
	case "shift+tab", "up":
		m.form.move(-1)
		return m, nil
	case "ctrl+b":
		added, err := m.app.Brands.Add(m.form.brand())
		switch {
		case err != nil:
			m.form.err = err.Error()
		case added:
			m.setStatus("saved brand "+m.form.brand(), nil)
		}
		return m, nil
	case "enter":
		m.submit()
		return m, nil
	}
	return m, m.form.update(msg)
}

// submit saves the form; on validation failure the form stays open with
// the offending fields marked.
func (m *Model) submit() {
	f := m.form.value()
	it, err := m.app.SaveItem(f, m.form.existing)
	var ve *form.ValidationError
	switch {
	case errors.As(err, &ve):
		m.form.invalid = map[string]bool{}
		for _, name := range ve.Fields {
			m.form.invalid[name] = true
		}
		m.form.err = "Please fill in all fields"
		return
	case errors.Is(err, app.ErrNoImage):
		m.form.invalid = map[string]bool{"imagepath": true}
		m.form.err = err.Error()
		return
	case err != nil && it.ID == "":
		m.form.err = err.Error()
		return
	}
	// Saved in memory; a persistence error still closes the form.
	m.setStatus("saved "+it.Name, err)
	m.form = nil
	m.mode = modeBrowse
	m.refresh()
	for i, li := range m.list.Items() {
		if li.(listItem).item.ID == it.ID {
			m.list.Select(i)
			break
		}
	}
}

func (m Model) updateBrand(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			v := strings.TrimSpace(m.brand.Value())
			added, err := m.app.Brands.Add(v)
			switch {
			case err != nil:
				m.setStatus("", err)
			case added:
				m.setStatus("saved brand "+v, nil)
			default:
				m.setStatus("brand already saved", nil)
			}
			m.mode = modeBrowse
			m.brand.Blur()
			return m, nil
		case "esc":
			m.mode = modeBrowse
			m.brand.Blur()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.brand, cmd = m.brand.Update(msg)
	return m, cmd
}

func (m Model) listHeight() int {
	h := m.height - 8
	if h < 3 {
		h = 3
	}
	return h
}

func (m Model) View() string {
	if m.mode == modeForm && m.form != nil {
		return m.form.view()
	}
	m.list.SetSize(*m.width, m.listHeight())

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.tabBar())
	b.WriteString("\n\n")
	if len(m.list.Items()) == 0 {
		b.WriteString(mutedStyle.Render("  nothing here yet, press a to add a thing"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.list.View())
		b.WriteString("\n")
	}
	b.WriteString(m.detail())
	switch m.mode {
	case modeSearch:
		b.WriteString("\n" + m.search.View())
	case modeBrand:
		b.WriteString("\n" + m.brand.View())
	}
	if line := m.statusLine(); line != "" {
		b.WriteString("\n" + line)
	}
	return panelString(b.String())
}

func (m Model) header() string {
	items := m.app.Items.All()
	visible := m.app.Visible(m.sel)
	st := view.Summary(visible)
	h := fmt.Sprintf("%s   %s %d  %s %s",
		titleStyle.Render("My Things"),
		accentStyle.Render("Shown"), st.Count,
		accentStyle.Render("Value"), successStyle.Render("$"+st.Total.StringFixed(2)),
	)
	if m.sel.Query != "" && m.mode != modeSearch {
		h += mutedStyle.Render("  /" + m.sel.Query)
	}
	return h + "  " + mutedStyle.Render(ui.ShareBar(len(visible), len(items), 12))
}

func (m Model) tabBar() string {
	parts := make([]string, len(m.tabs))
	for i, name := range m.tabs {
		style := tabStyle
		if i == m.tab {
			style = activeTab
		}
		if name != view.All {
			style = style.Inherit(categoryStyle(m.app.Categories.ColorFor(m.categoryColor(name))))
		}
		parts[i] = style.Render(name)
	}
	return ui.Truncate(strings.Join(parts, mutedStyle.Render("│")), *m.width)
}

// detail describes the selected item and its image.
func (m Model) detail() string {
	it, ok := m.selected()
	if !ok {
		return ""
	}
	img := errorStyle.Render("image missing")
	if info, ok := m.cache.Info(it.ImageName); ok {
		img = fmt.Sprintf("%dx%d px, %d KB", info.Width, info.Height, (info.Size+1023)/1024)
	}
	cat := it.Category
	if !m.app.Categories.Has(cat) {
		cat += " (no such category)"
	}
	return ui.Truncate(mutedStyle.Render(fmt.Sprintf("%s · %s · %s · %s", it.Brand, cat, it.Price.Display(), img)), *m.width)
}

func (m Model) statusLine() string {
	if m.status != "" {
		if m.statusErr {
			return errorStyle.Render("✖ " + m.status)
		}
		return successStyle.Render("✔ " + m.status)
	}
	if err := m.app.Status(); err != nil {
		return errorStyle.Render("✖ " + err.Error())
	}
	return ""
}
