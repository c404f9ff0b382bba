package app

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/idilsaglam/mythings/internal/config"
	"github.com/idilsaglam/mythings/internal/form"
	"github.com/idilsaglam/mythings/internal/view"
)

func openApp(t *testing.T, dir string) *App {
	t.Helper()
	a, err := Open(config.FromEnv().WithDir(dir))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	p := filepath.Join(dir, "pick.png")
	if err := os.WriteFile(p, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func jacket(imagePath string) form.Item {
	return form.Item{Name: "Jacket", Brand: "Uniqlo", Category: "Outer", Price: "59.99", ImagePath: imagePath}
}

func TestJacketScenario(t *testing.T) {
	dir := t.TempDir()
	pick := writePNG(t, t.TempDir(), 12, 6)

	a := openApp(t, dir)
	before := a.Items.Len()
	tok := a.Signal.Token()
	it, err := a.SaveItem(jacket(pick), nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.Items.Len() != before+1 {
		t.Fatalf("len = %d", a.Items.Len())
	}
	if a.Signal.Token() == tok {
		t.Fatal("signal not bumped on save")
	}
	if _, ok := a.Images.Load(it.ImageName); !ok {
		t.Fatal("image blob missing")
	}
	a.Close()

	// simulated restart
	b := openApp(t, dir)
	got, ok := b.Items.Get(it.ID)
	if !ok || !got.Equal(it) {
		t.Fatalf("reloaded %+v, want %+v", got, it)
	}
	if v := b.Visible(view.Selection{Category: "Outer"}); len(v) != 1 || v[0].ID != it.ID {
		t.Fatalf("Outer view = %+v", v)
	}
	if v := b.Visible(view.Selection{Category: "Pants"}); len(v) != 0 {
		t.Fatalf("Pants view = %+v", v)
	}
}

func TestSaveRequiresImageForNewItem(t *testing.T) {
	a := openApp(t, t.TempDir())
	if _, err := a.SaveItem(jacket(""), nil); !errors.Is(err, ErrNoImage) {
		t.Fatalf("want ErrNoImage, got %v", err)
	}
	if a.Items.Len() != 0 {
		t.Fatal("partial record created")
	}
}

func TestValidationFailureCreatesNothing(t *testing.T) {
	a := openApp(t, t.TempDir())
	pick := writePNG(t, t.TempDir(), 2, 2)
	f := jacket(pick)
	f.Price = "cheap"
	var ve *form.ValidationError
	if _, err := a.SaveItem(f, nil); !errors.As(err, &ve) || !ve.Has("price") {
		t.Fatalf("want price validation error, got %v", err)
	}
	entries, _ := os.ReadDir(a.Config.ImagesDir())
	if a.Items.Len() != 0 || len(entries) != 0 {
		t.Fatalf("side effects: items=%d images=%d", a.Items.Len(), len(entries))
	}
}

func TestEditReusesImageName(t *testing.T) {
	a := openApp(t, t.TempDir())
	pick := writePNG(t, t.TempDir(), 4, 4)
	it, err := a.SaveItem(jacket(pick), nil)
	if err != nil {
		t.Fatal(err)
	}

	// Edit without a new image keeps the old one.
	f := form.FromItem(it)
	f.Name = "Parka"
	edited, err := a.SaveItem(f, &it)
	if err != nil || edited.ImageName != it.ImageName || edited.ID != it.ID {
		t.Fatalf("edit: %+v %v", edited, err)
	}

	// Edit with a new image overwrites the same file.
	f.ImagePath = writePNG(t, t.TempDir(), 9, 3)
	cache := a.NewImageCache()
	if info, _ := cache.Info(it.ImageName); info.Width != 4 {
		t.Fatalf("pre-edit width %d", info.Width)
	}
	edited, err = a.SaveItem(f, &edited)
	if err != nil || edited.ImageName != it.ImageName {
		t.Fatalf("edit image: %+v %v", edited, err)
	}
	if info, _ := cache.Info(it.ImageName); info.Width != 9 {
		t.Fatalf("cache not refreshed, width %d", info.Width)
	}
	if a.Items.Len() != 1 {
		t.Fatalf("edit inserted: len %d", a.Items.Len())
	}
}

func TestEditUnknownItem(t *testing.T) {
	a := openApp(t, t.TempDir())
	pick := writePNG(t, t.TempDir(), 2, 2)
	it, _ := a.SaveItem(jacket(pick), nil)
	ghost := it
	ghost.ID = "ghost"
	if _, err := a.SaveItem(form.FromItem(it), &ghost); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if a.Items.Len() != 1 {
		t.Fatal("unknown edit inserted")
	}
}

func TestDeleteRemovesImage(t *testing.T) {
	a := openApp(t, t.TempDir())
	pick := writePNG(t, t.TempDir(), 2, 2)
	it, _ := a.SaveItem(jacket(pick), nil)
	if err := a.DeleteItem(it.ID); err != nil {
		t.Fatal(err)
	}
	if _, ok := a.Images.Load(it.ImageName); ok {
		t.Fatal("image left behind")
	}
	if err := a.DeleteItem(it.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestDeleteAllAndSweep(t *testing.T) {
	a := openApp(t, t.TempDir())
	pick := writePNG(t, t.TempDir(), 2, 2)
	a.SaveItem(jacket(pick), nil)
	a.SaveItem(jacket(pick), nil)
	orphan, err := a.Images.SaveFile(pick, "")
	if err != nil {
		t.Fatal(err)
	}
	removed, err := a.SweepImages()
	if err != nil || len(removed) != 1 || removed[0] != orphan {
		t.Fatalf("sweep: %v %v", removed, err)
	}
	if err := a.DeleteAll(); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(a.Config.ImagesDir())
	if a.Items.Len() != 0 || len(entries) != 0 {
		t.Fatalf("items=%d images=%d", a.Items.Len(), len(entries))
	}
}

func TestResolve(t *testing.T) {
	a := openApp(t, t.TempDir())
	pick := writePNG(t, t.TempDir(), 2, 2)
	first, _ := a.SaveItem(jacket(pick), nil)
	second, _ := a.SaveItem(jacket(pick), nil)
	if it, ok := a.Resolve("2"); !ok || it.ID != second.ID {
		t.Fatal("resolve by index")
	}
	if it, ok := a.Resolve(first.ID); !ok || it.ID != first.ID {
		t.Fatal("resolve by id")
	}
	for _, bad := range []string{"0", "3", "nope"} {
		if _, ok := a.Resolve(bad); ok {
			t.Errorf("resolved %q", bad)
		}
	}
}

func TestPreferences(t *testing.T) {
	a := openApp(t, t.TempDir())
	if a.Theme() != "classic" || a.DefaultCategory() != view.All {
		t.Fatal("defaults")
	}
	a.SetTheme("neon")
	a.SetDefaultCategory("Shoes")
	if a.Theme() != "neon" || a.DefaultCategory() != "Shoes" {
		t.Fatal("stored prefs")
	}
	a.SetDefaultCategory("Deleted Long Ago")
	if a.DefaultCategory() != view.All {
		t.Fatal("stale default category not reset")
	}
	a.Config.Theme = "mono"
	if a.Theme() != "mono" {
		t.Fatal("config override")
	}
	if a.Status() != nil {
		t.Fatalf("status = %v", a.Status())
	}
}
