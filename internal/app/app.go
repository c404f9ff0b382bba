// Package app is the process-wide context: it owns every store, the image
// store and the cache-invalidation signal, and is the only entry point the
// CLI, TUI and HTTP layers use to mutate state.
//
// Lifecycle: Open once at startup, Close on exit. The signal lives exactly
// as long as the App.
package app

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"

	"github.com/idilsaglam/mythings/internal/config"
	"github.com/idilsaglam/mythings/internal/form"
	"github.com/idilsaglam/mythings/internal/images"
	"github.com/idilsaglam/mythings/internal/logging"
	"github.com/idilsaglam/mythings/internal/model"
	"github.com/idilsaglam/mythings/internal/signal"
	"github.com/idilsaglam/mythings/internal/store/brands"
	"github.com/idilsaglam/mythings/internal/store/categories"
	"github.com/idilsaglam/mythings/internal/store/items"
	"github.com/idilsaglam/mythings/internal/store/prefs"
	"github.com/idilsaglam/mythings/internal/view"
)

var (
	ErrNoImage  = errors.New("an image is required for a new item")
	ErrNotFound = errors.New("item not found")
)

type App struct {
	Config     *config.Config
	Log        *log.Logger
	Items      *items.Store
	Categories *categories.Store
	Brands     *brands.Store
	Prefs      *prefs.Store
	Images     *images.Store
	Signal     *signal.Signal

	logOut io.WriteCloser
	logLvl log.Lvl
}

// Open creates the data directory and loads every store. Load failures of
// individual documents are logged and start empty; only an unusable data
// directory or preference database fails Open.
func Open(cfg *config.Config) (*App, error) {
	if err := cfg.EnsureDir(); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	out, logErr := logging.OpenFile(cfg.LogPath())
	lvl := logging.ParseLevel(cfg.LogLevel)
	a := &App{
		Config: cfg,
		Log:    logging.New("app", out, lvl),
		logOut: out,
		logLvl: lvl,
	}
	if logErr != nil {
		a.Log.Warnf("log file unavailable, using stderr: %v", logErr)
	}

	ps, err := prefs.Open(cfg.PrefsPath())
	if err != nil {
		out.Close()
		return nil, err
	}
	imgs, err := images.New(cfg.ImagesDir(), a.Logger("images"))
	if err != nil {
		ps.Close()
		out.Close()
		return nil, err
	}
	a.Prefs = ps
	a.Images = imgs
	a.Items = items.Open(cfg.ItemsPath(), a.Logger("items"))
	a.Categories = categories.Open(cfg.CategoriesPath(), a.Logger("categories"))
	a.Brands = brands.Open(ps, a.Logger("brands"))
	a.Signal = signal.New()
	a.Log.Infof("opened %s: %d items, %d categories", cfg.Dir, a.Items.Len(), len(a.Categories.All()))
	return a, nil
}

// Close releases the signal subscribers, the preference database and the
// log file.
func (a *App) Close() error {
	a.Signal.Close()
	err := a.Prefs.Close()
	if a.logOut != nil {
		a.logOut.Close()
	}
	return err
}

// Logger returns a component logger sharing the app's output and level.
func (a *App) Logger(prefix string) *log.Logger {
	return logging.New(prefix, a.logOut, a.logLvl)
}

// NewImageCache returns a cache bound to this app's signal.
func (a *App) NewImageCache() *images.Cache {
	return images.NewCache(a.Images, a.Signal)
}

// Visible is the filtered view for a selection.
func (a *App) Visible(sel view.Selection) []model.Item {
	return sel.Apply(a.Items.All())
}

// CategoryNames is the tab strip including the synthetic "All".
func (a *App) CategoryNames() []string {
	return view.CategoryNames(a.Categories.All())
}

// SaveItem adds (existing == nil) or updates an item from a form. The
// image comes from f.ImagePath when set.
func (a *App) SaveItem(f form.Item, existing *model.Item) (model.Item, error) {
	var save func(reuse string) (string, error)
	if f.ImagePath != "" {
		path := strings.TrimSpace(f.ImagePath)
		save = func(reuse string) (string, error) { return a.Images.SaveFile(path, reuse) }
	}
	return a.saveItem(f, existing, save)
}

// SaveItemFrom is SaveItem with image bytes from r, used by uploads.
// A nil r keeps the existing image.
func (a *App) SaveItemFrom(f form.Item, existing *model.Item, r io.Reader) (model.Item, error) {
	var save func(reuse string) (string, error)
	if r != nil {
		save = func(reuse string) (string, error) { return a.Images.Save(r, reuse) }
	}
	return a.saveItem(f, existing, save)
}

func (a *App) saveItem(f form.Item, existing *model.Item, saveImage func(string) (string, error)) (model.Item, error) {
	if err := f.Validate(); err != nil {
		return model.Item{}, err
	}
	if existing == nil && saveImage == nil {
		return model.Item{}, ErrNoImage
	}
	if existing != nil {
		if _, ok := a.Items.Get(existing.ID); !ok {
			return model.Item{}, ErrNotFound
		}
	}

	id := uuid.NewString()
	imageName := ""
	reuse := ""
	if existing != nil {
		id = existing.ID
		imageName = existing.ImageName
		reuse = existing.ImageName
	}
	if saveImage != nil {
		name, err := saveImage(reuse)
		if err != nil {
			return model.Item{}, fmt.Errorf("save image: %w", err)
		}
		imageName = name
	}

	it, err := f.Build(id, imageName)
	if err != nil {
		return model.Item{}, err
	}

	if existing == nil {
		err = a.Items.Add(it)
	} else {
		_, err = a.Items.Update(it)
	}
	a.Signal.Bump()
	if err != nil {
		return it, err
	}
	a.Log.Infof("saved item %s (%s)", it.ID, it.Name)
	return it, nil
}

// DeleteItem removes the item and its image unless another item still
// references that image.
func (a *App) DeleteItem(id string) error {
	it, ok := a.Items.Get(id)
	if !ok {
		return ErrNotFound
	}
	_, err := a.Items.Delete(id)
	if it.ImageName != "" {
		if _, still := a.Items.ReferencedImages()[it.ImageName]; !still {
			if rmErr := a.Images.Remove(it.ImageName); rmErr != nil {
				a.Log.Warnf("remove image %s: %v", it.ImageName, rmErr)
			}
		}
	}
	a.Signal.Bump()
	return err
}

// DeleteAll removes every item and then every stored image.
func (a *App) DeleteAll() error {
	err := a.Items.DeleteAll()
	if err == nil {
		if _, swErr := a.Images.Sweep(a.Items.ReferencedImages()); swErr != nil {
			a.Log.Warnf("sweep after delete all: %v", swErr)
		}
	}
	a.Signal.Bump()
	return err
}

// SweepImages removes image files no item references.
func (a *App) SweepImages() ([]string, error) {
	removed, err := a.Images.Sweep(a.Items.ReferencedImages())
	if len(removed) > 0 {
		a.Signal.Bump()
	}
	return removed, err
}

// Resolve finds an item by ID or by 1-based position in the full list.
func (a *App) Resolve(ref string) (model.Item, bool) {
	ref = strings.TrimSpace(ref)
	if it, ok := a.Items.Get(ref); ok {
		return it, true
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return model.Item{}, false
	}
	all := a.Items.All()
	if n < 1 || n > len(all) {
		return model.Item{}, false
	}
	return all[n-1], true
}

// Status is the most recent persistence failure across stores, or nil.
func (a *App) Status() error {
	for _, err := range []error{a.Items.LastError(), a.Categories.LastError(), a.Brands.LastError()} {
		if err != nil {
			return err
		}
	}
	return nil
}

// Theme is the stored theme preference, overridden by the config.
func (a *App) Theme() string {
	if a.Config.Theme != "" {
		return a.Config.Theme
	}
	v, err := a.Prefs.String(prefs.KeyTheme, "classic")
	if err != nil {
		a.Log.Warnf("read theme: %v", err)
	}
	return v
}

func (a *App) SetTheme(name string) error {
	return a.Prefs.SetString(prefs.KeyTheme, name)
}

// DefaultCategory is the tab a browser opens on. It falls back to All when
// the stored name no longer exists.
func (a *App) DefaultCategory() string {
	v, err := a.Prefs.String(prefs.KeyDefaultCategory, view.All)
	if err != nil {
		a.Log.Warnf("read default category: %v", err)
	}
	if v != view.All && !a.Categories.Has(v) {
		return view.All
	}
	return v
}

func (a *App) SetDefaultCategory(name string) error {
	return a.Prefs.SetString(prefs.KeyDefaultCategory, name)
}
