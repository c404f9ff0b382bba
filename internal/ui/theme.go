package ui

import "strings"

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name                                   string
	Title, Muted, Accent, Success, Error   string
	Warn                                   string
	Bullet, Selected                       string
	CornerTL, CornerTR, CornerBL, CornerBR string
	H, V                                   string
}

var current = classic()

var Themes = []string{"classic", "neon", "mono"}

func IsTheme(name string) bool {
	for _, t := range Themes {
		if t == strings.ToLower(name) {
			return true
		}
	}
	return false
}

func classic() Theme {
	return Theme{
		Name:  "classic",
		Title: bold, Muted: fgGray, Accent: fgBlue,
		Success: fgGreen, Error: fgRed, Warn: fgYellow,
		Bullet: "•", Selected: "▸",
		CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
		H: "─", V: "│",
	}
}

func SetTheme(name string) {
	disableColor = false
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Name:  "neon",
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed, Warn: "\033[93m",
			Bullet: "◆", Selected: "➤",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
		}
	case "mono":
		disableColor = true
		current = Theme{
			Name:  "mono",
			Title: "", Muted: "", Accent: "", Success: "", Error: "", Warn: "",
			Bullet: "-", Selected: ">",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
		}
	default:
		current = classic()
	}
}

// Expose what renderers need
func Current() Theme { return current }

// Dim is the faint style used for secondary text.
func Dim(s string) string { return C(dim, s) }
