package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/idilsaglam/mythings/internal/app"
	"github.com/idilsaglam/mythings/internal/form"
	"github.com/idilsaglam/mythings/internal/label"
	"github.com/idilsaglam/mythings/internal/model"
	"github.com/idilsaglam/mythings/internal/ui"
	"github.com/idilsaglam/mythings/internal/view"
)

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(ui.Stderr)
	return fs
}

// splitRef takes a leading positional reference off args so flags may
// follow it: `edit 3 -price 10`.
func splitRef(args []string) (string, []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", args
	}
	return args[0], args[1:]
}

func doList(ap *app.App, args []string) int {
	fs := newFlags("ls")
	cat := fs.String("c", ap.DefaultCategory(), "category to show (All for everything)")
	query := fs.String("q", "", "search text matched against name and brand")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	category := *cat
	if match, ok := view.MatchCategory(ap.CategoryNames(), category); ok {
		category = match
	}
	all := ap.Items.All()
	shown := view.Filter(all, category, *query)
	ui.Panel(listLines(ap, all, shown, category, *query))
	return 0
}

func listLines(ap *app.App, all, shown []model.Item, category, query string) []string {
	t := ui.Current()
	st := view.Summary(shown)
	header := fmt.Sprintf("%s  %s  %s %d  %s %s",
		ui.C(t.Title, "My Things"),
		ui.C(t.Accent, "["+category+"]"),
		ui.C(t.Muted, "shown"), st.Count,
		ui.C(t.Muted, "value"), ui.C(t.Success, "$"+st.Total.StringFixed(2)),
	)
	lines := []string{header}
	if query != "" {
		lines = append(lines, ui.C(t.Muted, "search: "+query))
	}
	lines = append(lines, ui.C(t.Muted, ui.ShareBar(len(shown), len(all), 28)), "")

	if len(shown) == 0 {
		lines = append(lines, ui.C(t.Muted, "no things"))
		return lines
	}
	pos := make(map[string]int, len(all))
	for i, it := range all {
		pos[it.ID] = i + 1
	}
	known := map[string]string{}
	for _, c := range ap.Categories.All() {
		if _, seen := known[c.Name]; !seen {
			known[c.Name] = c.Color
		}
	}
	for _, it := range shown {
		color, ok := known[it.Category]
		label := ui.Pad(ui.Truncate(it.Category, 12), 12)
		label = ui.C(ui.Fg256(model.ColorFor(color).ANSI), label)
		if !ok {
			label = ui.C(t.Muted, ui.Pad(ui.Truncate(it.Category+" ?", 12), 12))
		}
		lines = append(lines, fmt.Sprintf("%s %s %s %s %s %s",
			ui.Dim(fmt.Sprintf("%3d.", pos[it.ID])),
			t.Bullet,
			ui.Pad(ui.Truncate(it.Name, 24), 24),
			ui.Pad(ui.Truncate(it.Brand, 14), 14),
			label,
			it.Price.Display(),
		))
	}
	if unpriced := st.Unpriced; unpriced > 0 {
		lines = append(lines, "", ui.C(t.Warn, fmt.Sprintf("%d thing(s) have a non-numeric price", unpriced)))
	}
	return lines
}

type itemFlags struct {
	name, brand, category, price, image *string
}

func bindItemFlags(fs *flag.FlagSet) itemFlags {
	return itemFlags{
		name:     fs.String("name", "", "name"),
		brand:    fs.String("brand", "", "brand"),
		category: fs.String("category", "", "category label"),
		price:    fs.String("price", "", "price, e.g. 59.99"),
		image:    fs.String("image", "", "path to an image file"),
	}
}

func doAdd(ap *app.App, args []string) int {
	fs := newFlags("add")
	f := bindItemFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	in := form.Item{
		Name: *f.name, Brand: *f.brand, Category: *f.category,
		Price: *f.price, ImagePath: expandHome(*f.image),
	}
	it, err := ap.SaveItem(in, nil)
	if code := reportSaveError(err); code != 0 {
		return code
	}
	if !ap.Categories.Has(it.Category) {
		ui.Warn(fmt.Sprintf("category %q is not in your category list", it.Category))
	}
	return exitFor(ap, "added "+it.Name+" ("+it.ID+")")
}

func doEdit(ap *app.App, args []string) int {
	ref, rest := splitRef(args)
	if ref == "" {
		ui.Fail("usage: mythings edit <id|index> [-name ...] [-image file]")
		return 2
	}
	existing, ok := ap.Resolve(ref)
	if !ok {
		ui.Fail("no thing matches " + ref)
		fmt.Fprintln(ui.Stderr, ui.Dim("Hint: run `mythings ls` to see valid indexes"))
		return 2
	}
	fs := newFlags("edit")
	f := bindItemFlags(fs)
	if err := fs.Parse(rest); err != nil {
		return 2
	}
	in := form.FromItem(existing)
	set := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	if set["name"] {
		in.Name = *f.name
	}
	if set["brand"] {
		in.Brand = *f.brand
	}
	if set["category"] {
		in.Category = *f.category
	}
	if set["price"] {
		in.Price = *f.price
	}
	if set["image"] {
		in.ImagePath = expandHome(*f.image)
	}
	it, err := ap.SaveItem(in, &existing)
	if code := reportSaveError(err); code != 0 {
		return code
	}
	return exitFor(ap, "updated "+it.Name)
}

func reportSaveError(err error) int {
	if err == nil {
		return 0
	}
	var ve *form.ValidationError
	switch {
	case errors.As(err, &ve):
		ui.Fail("please fill in: " + strings.Join(ve.Fields, ", "))
		return 2
	case errors.Is(err, app.ErrNoImage):
		ui.Fail(err.Error() + " (use -image <file>)")
		return 2
	default:
		ui.Fail("save: " + err.Error())
		return 1
	}
}

func doRemove(ap *app.App, args []string) int {
	if len(args) != 1 {
		ui.Fail("usage: mythings rm <id|index>")
		return 2
	}
	it, ok := ap.Resolve(args[0])
	if !ok {
		ui.Fail("no thing matches " + args[0])
		fmt.Fprintln(ui.Stderr, ui.Dim("Hint: run `mythings ls` to see valid indexes"))
		return 2
	}
	if err := ap.DeleteItem(it.ID); err != nil {
		ui.Fail("remove: " + err.Error())
		return 1
	}
	return exitFor(ap, "removed "+it.Name)
}

func doShow(ap *app.App, args []string) int {
	if len(args) != 1 {
		ui.Fail("usage: mythings show <id|index>")
		return 2
	}
	it, ok := ap.Resolve(args[0])
	if !ok {
		ui.Fail("no thing matches " + args[0])
		return 2
	}
	writeDetail(ui.Stdout, ap, it)
	return 0
}

func writeDetail(w io.Writer, ap *app.App, it model.Item) {
	t := ui.Current()
	image := ui.C(t.Muted, "(no image)")
	if info, ok := ap.NewImageCache().Info(it.ImageName); ok {
		image = fmt.Sprintf("%s  %dx%d  %d bytes", it.ImageName, info.Width, info.Height, info.Size)
	}
	ui.FPanel(w, []string{
		ui.C(t.Title, it.Name),
		"",
		"brand     " + it.Brand,
		"category  " + ui.C(ui.Fg256(categoryColor(ap, it.Category).ANSI), it.Category),
		"price     " + it.Price.Display(),
		"image     " + image,
		ui.C(t.Muted, "id        "+it.ID),
	})
}

func categoryColor(ap *app.App, name string) model.Color {
	for _, c := range ap.Categories.All() {
		if c.Name == name {
			return ap.Categories.ColorFor(c.Color)
		}
	}
	return model.ColorFor("")
}

func doLabel(ap *app.App, args []string) int {
	ref, rest := splitRef(args)
	if ref == "" {
		ui.Fail("usage: mythings label <id|index> [-o file] [-size px]")
		return 2
	}
	it, ok := ap.Resolve(ref)
	if !ok {
		ui.Fail("no thing matches " + ref)
		return 2
	}
	fs := newFlags("label")
	out := fs.String("o", "", "output file (default <id>-label.png)")
	size := fs.Int("size", label.DefaultSize, "width and height in pixels")
	if err := fs.Parse(rest); err != nil {
		return 2
	}
	b, err := label.PNG(it, *size)
	if errors.Is(err, label.ErrSize) {
		ui.Fail(err.Error())
		return 2
	}
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	path := *out
	if path == "" {
		path = it.ID + "-label.png"
	}
	if err := os.WriteFile(expandHome(path), b, 0o644); err != nil {
		ui.Fail("write label: " + err.Error())
		return 1
	}
	ui.OK("label for " + it.Name + " written to " + path)
	return 0
}

func doWipe(ap *app.App, args []string) int {
	fs := newFlags("wipe")
	yes := fs.Bool("yes", false, "confirm deleting every thing")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !*yes {
		ui.Fail("wipe deletes all things and their images; re-run with -yes")
		return 2
	}
	n := ap.Items.Len()
	if err := ap.DeleteAll(); err != nil {
		ui.Fail("wipe: " + err.Error())
		return 1
	}
	ui.OK(fmt.Sprintf("deleted %d thing(s)", n))
	return 0
}

func doGC(ap *app.App) int {
	removed, err := ap.SweepImages()
	if err != nil {
		ui.Fail("gc: " + err.Error())
		return 1
	}
	ui.OK(fmt.Sprintf("removed %d unused image(s)", len(removed)))
	return 0
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + p[1:]
		}
	}
	return p
}
