package cli

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/idilsaglam/mythings/internal/app"
	"github.com/idilsaglam/mythings/internal/auth"
	"github.com/idilsaglam/mythings/internal/config"
	"github.com/idilsaglam/mythings/internal/ui"
)

func run(t *testing.T, dir string, args ...string) int {
	t.Helper()
	code, _, _ := runOut(t, dir, args...)
	return code
}

// runOut runs the CLI and returns its exit code, stdout and stderr.
func runOut(t *testing.T, dir string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	restore := ui.SetOutput(&out, &errOut)
	defer restore()
	code := Run(args, Options{Dir: dir, Color: "never"})
	return code, out.String(), errOut.String()
}

func reopen(t *testing.T, dir string) *app.App {
	t.Helper()
	a, err := app.Open(config.FromEnv().WithDir(dir))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func writePNG(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	p := filepath.Join(t.TempDir(), "pick.png")
	if err := os.WriteFile(p, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func addJacket(t *testing.T, dir string) {
	t.Helper()
	code := run(t, dir, "add", "-name", "Jacket", "-brand", "Uniqlo", "-category", "Clothes",
		"-price", "$59.99", "-image", writePNG(t))
	if code != 0 {
		t.Fatalf("add exit %d", code)
	}
}

func TestUsageExitCodes(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		args []string
		want int
	}{
		{nil, 2},
		{[]string{"help"}, 0},
		{[]string{"frobnicate"}, 2},
		{[]string{"ls"}, 0},
		{[]string{"ls", "-bogus"}, 2},
		{[]string{"rm"}, 2},
		{[]string{"rm", "1"}, 2},
		{[]string{"show", "nope"}, 2},
		{[]string{"edit"}, 2},
		{[]string{"cat", "rm", "x"}, 2},
		{[]string{"cat", "rm", "99"}, 2},
		{[]string{"cat", "frob"}, 2},
		{[]string{"brand", "rm", "Nike"}, 2},
		{[]string{"theme", "sparkly"}, 2},
		{[]string{"default", "Nowhere"}, 2},
		{[]string{"wipe"}, 2},
		{[]string{"token", "frob"}, 2},
	}
	for _, tt := range tests {
		if got := run(t, dir, tt.args...); got != tt.want {
			t.Errorf("%v: exit %d, want %d", tt.args, got, tt.want)
		}
	}
}

func TestAddValidation(t *testing.T) {
	dir := t.TempDir()
	if code := run(t, dir, "add", "-name", "Jacket"); code != 2 {
		t.Fatalf("missing fields: exit %d", code)
	}
	if code := run(t, dir, "add", "-name", "Jacket", "-brand", "Uniqlo", "-category", "Clothes", "-price", "10"); code != 2 {
		t.Fatalf("missing image: exit %d", code)
	}
	if code := run(t, dir, "add", "-name", "Jacket", "-brand", "Uniqlo", "-category", "Clothes", "-price", "cheap", "-image", writePNG(t)); code != 2 {
		t.Fatalf("bad price: exit %d", code)
	}
	if n := reopen(t, dir).Items.Len(); n != 0 {
		t.Fatalf("items = %d", n)
	}
}

func TestAddEditRemove(t *testing.T) {
	dir := t.TempDir()
	addJacket(t, dir)

	a := reopen(t, dir)
	orig := a.Items.All()[0]
	if orig.Price.String() != "59.99" {
		t.Fatalf("price %q", orig.Price.String())
	}
	a.Close()

	if code := run(t, dir, "edit", "1", "-price", "45", "-brand", "GU"); code != 0 {
		t.Fatalf("edit exit %d", code)
	}
	a = reopen(t, dir)
	got, ok := a.Items.Get(orig.ID)
	if !ok || got.Brand != "GU" || got.Price.String() != "45" || got.Name != "Jacket" || got.ImageName != orig.ImageName {
		t.Fatalf("edited %+v", got)
	}
	a.Close()

	if code := run(t, dir, "show", orig.ID); code != 0 {
		t.Fatalf("show exit %d", code)
	}
	if code := run(t, dir, "ls", "-c", "clothes", "-q", "jack"); code != 0 {
		t.Fatalf("ls exit %d", code)
	}
	labelPath := filepath.Join(t.TempDir(), "jacket.png")
	if code := run(t, dir, "label", "1", "-o", labelPath, "-size", "128"); code != 0 {
		t.Fatalf("label exit %d", code)
	}
	if _, err := os.Stat(labelPath); err != nil {
		t.Fatalf("label not written: %v", err)
	}
	if code := run(t, dir, "label", "1", "-size", "1"); code != 2 {
		t.Fatalf("tiny label exit %d", code)
	}
	if code := run(t, dir, "rm", orig.ID); code != 0 {
		t.Fatalf("rm exit %d", code)
	}
	a = reopen(t, dir)
	if a.Items.Len() != 0 {
		t.Fatal("item survived rm")
	}
	if _, ok := a.Images.Load(orig.ImageName); ok {
		t.Fatal("unreferenced image kept")
	}
}

func TestWipeAndGC(t *testing.T) {
	dir := t.TempDir()
	addJacket(t, dir)
	addJacket(t, dir)
	if code := run(t, dir, "wipe", "-yes"); code != 0 {
		t.Fatalf("wipe exit %d", code)
	}
	if code := run(t, dir, "gc"); code != 0 {
		t.Fatalf("gc exit %d", code)
	}
	if n := reopen(t, dir).Items.Len(); n != 0 {
		t.Fatalf("items = %d", n)
	}
}

func TestCategoriesAndBrands(t *testing.T) {
	dir := t.TempDir()
	steps := [][]string{
		{"cat", "add", "Home", "Office", "teal"},
		{"cat", "edit", "1", "Gadgets"},
		{"cat", "rm", "2"},
		{"cat", "ls"},
		{"brand", "add", "Nike"},
		{"brand", "add", "Nike"},
		{"brand", "ls"},
		{"theme", "neon"},
		{"default", "shoes"},
	}
	for _, args := range steps {
		if code := run(t, dir, args...); code != 0 {
			t.Fatalf("%v: exit %d", args, code)
		}
	}

	a := reopen(t, dir)
	cats := a.Categories.All()
	if cats[0].Name != "Gadgets" || cats[0].Color != "blue" {
		t.Fatalf("first category %+v", cats[0])
	}
	if a.Categories.Has("Furniture") {
		t.Fatal("Furniture not removed")
	}
	last := cats[len(cats)-1]
	if last.Name != "Home Office" || last.Color != "teal" {
		t.Fatalf("added category %+v", last)
	}
	if got := a.Brands.All(); len(got) != 1 || got[0] != "Nike" {
		t.Fatalf("brands %v", got)
	}
	if a.Theme() != "neon" {
		t.Fatalf("theme %q", a.Theme())
	}
	if a.DefaultCategory() != "Shoes" {
		t.Fatalf("default %q", a.DefaultCategory())
	}
}

func TestTokenCommands(t *testing.T) {
	t.Setenv(auth.EnvToken, "")
	dir := t.TempDir()
	if code := run(t, dir, "token", "set", "s3cret"); code != 0 {
		t.Fatalf("set exit %d", code)
	}
	ti, err := auth.Store{Path: config.FromEnv().WithDir(dir).CredentialsPath()}.Get()
	if err != nil || ti == nil || ti.Token != "s3cret" {
		t.Fatalf("stored %+v, %v", ti, err)
	}
	if code := run(t, dir, "token", "clear"); code != 0 {
		t.Fatalf("clear exit %d", code)
	}
	if code := run(t, dir, "token"); code != 0 {
		t.Fatalf("status exit %d", code)
	}
}

func TestListOutput(t *testing.T) {
	dir := t.TempDir()
	addJacket(t, dir)
	code := run(t, dir, "add", "-name", "Parka", "-brand", "GU", "-category", "Outer",
		"-price", "20", "-image", writePNG(t))
	if code != 0 {
		t.Fatalf("add exit %d", code)
	}

	code, out, _ := runOut(t, dir, "ls", "-q", "uniq")
	if code != 0 {
		t.Fatalf("ls exit %d", code)
	}
	if !strings.Contains(out, "Jacket") || strings.Contains(out, "Parka") {
		t.Fatalf("ls output:\n%s", out)
	}
	if !strings.Contains(out, "$59.99") {
		t.Fatalf("summary missing:\n%s", out)
	}

	_, out, _ = runOut(t, dir, "cat", "ls")
	if !strings.Contains(out, "labels without a category: Outer") {
		t.Fatalf("orphan label not reported:\n%s", out)
	}

	_, _, errOut := runOut(t, dir, "rm", "7")
	if !strings.Contains(errOut, "no thing matches 7") {
		t.Fatalf("stderr: %q", errOut)
	}
}
