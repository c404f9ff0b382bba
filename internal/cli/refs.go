package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/idilsaglam/mythings/internal/app"
	"github.com/idilsaglam/mythings/internal/auth"
	"github.com/idilsaglam/mythings/internal/config"
	"github.com/idilsaglam/mythings/internal/form"
	"github.com/idilsaglam/mythings/internal/model"
	"github.com/idilsaglam/mythings/internal/ui"
	"github.com/idilsaglam/mythings/internal/view"
)

const catUsage = "usage: mythings cat ls | add <name> [color] | rm <index> | edit <index> <name> [color]"

func doCategory(ap *app.App, args []string) int {
	if len(args) == 0 {
		args = []string{"ls"}
	}
	sub, a := args[0], args[1:]
	switch sub {
	case "ls":
		return listCategories(ap)

	case "add":
		if len(a) == 0 {
			ui.Fail("usage: mythings cat add <name> [color]")
			return 2
		}
		name, color := splitNameColor(a)
		f := form.Category{Name: name, Color: color}
		if err := f.Validate(); err != nil {
			return failCategory(err)
		}
		c, err := ap.Categories.Add(f.Name, f.Color)
		if err != nil {
			return failCategory(err)
		}
		return exitFor(ap, "added category "+c.Name)

	case "rm":
		if len(a) != 1 {
			ui.Fail("usage: mythings cat rm <index>")
			return 2
		}
		idx, code := categoryIndex(ap, a[0])
		if code != 0 {
			return code
		}
		name := ap.Categories.All()[idx].Name
		if err := ap.Categories.Delete(idx); err != nil {
			return failCategory(err)
		}
		if n := len(view.Filter(ap.Items.All(), name, "")); n > 0 {
			ui.Warn(fmt.Sprintf("%d thing(s) still carry the label %q", n, name))
		}
		return exitFor(ap, "removed category "+name)

	case "edit":
		if len(a) < 2 {
			ui.Fail("usage: mythings cat edit <index> <name> [color]")
			return 2
		}
		idx, code := categoryIndex(ap, a[0])
		if code != 0 {
			return code
		}
		c := ap.Categories.All()[idx]
		name, color := splitNameColor(a[1:])
		if color == "" {
			color = c.Color
		}
		f := form.Category{Name: name, Color: color}
		if err := f.Validate(); err != nil {
			return failCategory(err)
		}
		c.Name, c.Color = f.Name, f.Color
		if _, err := ap.Categories.Update(c); err != nil {
			return failCategory(err)
		}
		return exitFor(ap, "updated category "+c.Name)
	}
	ui.Fail(catUsage)
	return 2
}

// splitNameColor treats a trailing palette name as the color, so
// `cat add Home Office teal` works without quoting.
func splitNameColor(a []string) (string, string) {
	if len(a) > 1 && model.IsPaletteColor(strings.ToLower(a[len(a)-1])) {
		return strings.Join(a[:len(a)-1], " "), a[len(a)-1]
	}
	return strings.Join(a, " "), ""
}

func categoryIndex(ap *app.App, s string) (int, int) {
	n, err := strconv.Atoi(s)
	count := len(ap.Categories.All())
	if err != nil {
		ui.Fail("not a number: " + s)
		return 0, 2
	}
	if n < 1 || n > count {
		ui.Fail(fmt.Sprintf("index out of range: have %d, got %d", count, n))
		return 0, 2
	}
	return n - 1, 0
}

func failCategory(err error) int {
	var ve *form.ValidationError
	if errors.As(err, &ve) {
		msg := "invalid category " + strings.Join(ve.Fields, ", ")
		if ve.Has("color") {
			msg += " (colors: " + strings.Join(model.PaletteNames(), ", ") + ")"
		}
		ui.Fail(msg)
		return 2
	}
	ui.Fail("category: " + err.Error())
	return 1
}

func listCategories(ap *app.App) int {
	t := ui.Current()
	counts := map[string]int{}
	for _, it := range ap.Items.All() {
		counts[it.Category]++
	}
	lines := []string{ui.C(t.Title, "Categories"), ""}
	for i, c := range ap.Categories.All() {
		col := ap.Categories.ColorFor(c.Color)
		lines = append(lines, fmt.Sprintf("%s %s %s %s",
			ui.Dim(fmt.Sprintf("%2d.", i+1)),
			ui.C(ui.Fg256(col.ANSI), "●"),
			ui.Pad(ui.Truncate(c.Name, 20), 20),
			ui.C(t.Muted, fmt.Sprintf("%-7s %d thing(s)", c.Color, counts[c.Name])),
		))
	}
	if orphans := view.OrphanLabels(ap.Items.All(), ap.Categories.All()); len(orphans) > 0 {
		lines = append(lines, "", ui.C(t.Warn, "labels without a category: "+strings.Join(orphans, ", ")))
	}
	ui.Panel(lines)
	return 0
}

func doBrand(ap *app.App, args []string) int {
	if len(args) == 0 {
		args = []string{"ls"}
	}
	sub, a := args[0], args[1:]
	switch sub {
	case "ls":
		t := ui.Current()
		lines := []string{ui.C(t.Title, "Brands"), ""}
		list := ap.Brands.All()
		if len(list) == 0 {
			lines = append(lines, ui.C(t.Muted, "no brands yet"))
		}
		for _, b := range list {
			lines = append(lines, t.Bullet+" "+b)
		}
		ui.Panel(lines)
		return 0
	case "add":
		value := strings.Join(a, " ")
		changed, err := ap.Brands.Add(value)
		if err != nil {
			ui.Fail("brand: " + err.Error())
			return 1
		}
		if !changed {
			ui.OK("nothing to add")
			return 0
		}
		return exitFor(ap, "added brand "+strings.TrimSpace(value))
	case "rm":
		value := strings.Join(a, " ")
		changed, err := ap.Brands.Remove(value)
		if err != nil {
			ui.Fail("brand: " + err.Error())
			return 1
		}
		if !changed {
			ui.Fail("no brand named " + value)
			return 2
		}
		return exitFor(ap, "removed brand "+value)
	}
	ui.Fail("usage: mythings brand ls | add <name> | rm <name>")
	return 2
}

func doTheme(ap *app.App, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(ui.Stdout, ap.Theme())
		return 0
	}
	name := strings.ToLower(args[0])
	if !ui.IsTheme(name) {
		ui.Fail("unknown theme " + args[0] + " (" + strings.Join(ui.Themes, ", ") + ")")
		return 2
	}
	if err := ap.SetTheme(name); err != nil {
		ui.Fail("theme: " + err.Error())
		return 1
	}
	ui.SetTheme(name)
	ui.OK("theme set to " + name)
	return 0
}

func doDefault(ap *app.App, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(ui.Stdout, ap.DefaultCategory())
		return 0
	}
	name := strings.Join(args, " ")
	match, ok := view.MatchCategory(ap.CategoryNames(), name)
	if !ok {
		ui.Fail("no category named " + name)
		return 2
	}
	if err := ap.SetDefaultCategory(match); err != nil {
		ui.Fail("default: " + err.Error())
		return 1
	}
	ui.OK("browser opens on " + match)
	return 0
}

func doToken(cfg *config.Config, args []string) int {
	store := auth.Store{Path: cfg.CredentialsPath()}
	sub := "status"
	if len(args) > 0 {
		sub = args[0]
	}
	switch sub {
	case "status":
		ti, err := store.Get()
		if err != nil {
			ui.Fail("token: " + err.Error())
			return 1
		}
		if ti == nil {
			fmt.Fprintln(ui.Stdout, ui.Dim("no token: the API accepts every request"))
			fmt.Fprintln(ui.Stdout, "Run: mythings token set")
			return 0
		}
		fmt.Fprintf(ui.Stdout, "source: %s\n", ti.Source)
		fmt.Fprintln(ui.Stdout, "env override: " + auth.EnvToken)
		return 0
	case "set":
		value := ""
		if len(args) > 1 {
			value = args[1]
		}
		ti, err := store.Set(value)
		if err != nil {
			ui.Fail("token: " + err.Error())
			return 1
		}
		ui.OK("token saved")
		if value == "" {
			fmt.Fprintln(ui.Stdout, ti.Token)
		}
		return 0
	case "clear":
		if err := store.Clear(); err != nil {
			ui.Fail("token: " + err.Error())
			return 1
		}
		ui.OK("token cleared")
		return 0
	}
	ui.Fail("usage: mythings token status | set [value] | clear")
	return 2
}
