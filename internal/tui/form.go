package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/mythings/internal/form"
	"github.com/idilsaglam/mythings/internal/model"
)

// Field order of the add/edit form.
const (
	fieldName = iota
	fieldBrand
	fieldCategory
	fieldPrice
	fieldImage
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Brand", "Category", "Price", "Image"}

// fieldKeys match the names reported by form.ValidationError.
var fieldKeys = [fieldCount]string{"name", "brand", "category", "price", "imagepath"}

// itemForm is the transient edit state of one item.
type itemForm struct {
	inputs   [fieldCount]textinput.Model
	focus    int
	existing *model.Item
	invalid  map[string]bool
	err      string
}

func newItemForm(existing *model.Item, defaultCategory string) *itemForm {
	f := &itemForm{existing: existing, invalid: map[string]bool{}}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 200
		f.inputs[i] = ti
	}
	f.inputs[fieldPrice].Placeholder = "59.99"
	f.inputs[fieldImage].Placeholder = "path/to/photo.png"
	if existing != nil {
		v := form.FromItem(*existing)
		f.inputs[fieldName].SetValue(v.Name)
		f.inputs[fieldBrand].SetValue(v.Brand)
		f.inputs[fieldCategory].SetValue(v.Category)
		f.inputs[fieldPrice].SetValue(v.Price)
		f.inputs[fieldImage].Placeholder = "keep " + existing.ImageName
	} else {
		f.inputs[fieldCategory].SetValue(defaultCategory)
	}
	f.inputs[fieldName].Focus()
	return f
}

func (f *itemForm) value() form.Item {
	return form.Item{
		Name:      f.inputs[fieldName].Value(),
		Brand:     f.inputs[fieldBrand].Value(),
		Category:  f.inputs[fieldCategory].Value(),
		Price:     f.inputs[fieldPrice].Value(),
		ImagePath: f.inputs[fieldImage].Value(),
	}
}

func (f *itemForm) brand() string { return strings.TrimSpace(f.inputs[fieldBrand].Value()) }

func (f *itemForm) move(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	f.inputs[f.focus].Focus()
}

func (f *itemForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *itemForm) view() string {
	title := "Add thing"
	if f.existing != nil {
		title = "Edit thing"
	}
	lines := []string{titleStyle.Render(title)}
	for i, ti := range f.inputs {
		label := f.label(i)
		lines = append(lines, label+" "+ti.View())
	}
	if f.err != "" {
		lines = append(lines, errorStyle.Render(f.err))
	}
	lines = append(lines, helpStyle.Render("tab/shift+tab move • enter save • ctrl+b save brand • esc cancel"))
	return panelString(strings.Join(lines, "\n"))
}

func (f *itemForm) label(i int) string {
	s := fieldLabels[i] + ":"
	for len(s) < 10 {
		s += " "
	}
	switch {
	case f.invalid[fieldKeys[i]]:
		return errorStyle.Render(s)
	case i == f.focus:
		return accentStyle.Render(s)
	}
	return mutedStyle.Render(s)
}
