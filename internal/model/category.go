package model

// Category is a user-editable label with a palette color.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Color is a resolved palette entry.
type Color struct {
	Name string
	ANSI string // 256-color code, usable with lipgloss.Color
	Hex  string
}

const DefaultColor = "blue"

var palette = []Color{
	{Name: "blue", ANSI: "33", Hex: "#007AFF"},
	{Name: "green", ANSI: "35", Hex: "#34C759"},
	{Name: "red", ANSI: "196", Hex: "#FF3B30"},
	{Name: "purple", ANSI: "135", Hex: "#AF52DE"},
	{Name: "indigo", ANSI: "63", Hex: "#5856D6"},
	{Name: "orange", ANSI: "208", Hex: "#FF9500"},
	{Name: "pink", ANSI: "205", Hex: "#FF2D55"},
	{Name: "yellow", ANSI: "220", Hex: "#FFCC00"},
	{Name: "teal", ANSI: "37", Hex: "#30B0C7"},
}

// ColorFor never fails; unknown names resolve to blue.
func ColorFor(name string) Color {
	for _, c := range palette {
		if c.Name == name {
			return c
		}
	}
	return palette[0]
}

func IsPaletteColor(name string) bool {
	for _, c := range palette {
		if c.Name == name {
			return true
		}
	}
	return false
}

func PaletteNames() []string {
	out := make([]string, len(palette))
	for i, c := range palette {
		out[i] = c.Name
	}
	return out
}
