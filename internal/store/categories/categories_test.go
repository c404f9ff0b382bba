package categories

import (
	"errors"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/idilsaglam/mythings/internal/model"
	"github.com/idilsaglam/mythings/internal/store/jsonstore"
)

func defaultNames() []string {
	out := make([]string, len(Defaults))
	for i, d := range Defaults {
		out[i] = d.Name
	}
	return out
}

func TestSeedOnceWhenEmpty(t *testing.T) {
	p := filepath.Join(t.TempDir(), FileName)
	s := Open(p, nil)
	if got := s.Names(); !reflect.DeepEqual(got, defaultNames()) {
		t.Fatalf("seeded names = %v", got)
	}
	first := s.All()

	// Reopening a non-empty list never re-seeds.
	again := Open(p, nil)
	if got := again.All(); !reflect.DeepEqual(got, first) {
		t.Fatalf("reseeded:\n got %+v\nwant %+v", got, first)
	}
}

func TestNonEmptyListIsNotSeeded(t *testing.T) {
	p := filepath.Join(t.TempDir(), FileName)
	mine := []model.Category{{ID: "1", Name: "Tops", Color: "pink"}}
	if err := jsonstore.Save(p, mine); err != nil {
		t.Fatal(err)
	}
	if got := Open(p, nil).All(); !reflect.DeepEqual(got, mine) {
		t.Fatalf("got %+v", got)
	}
}

func TestEmptyPersistedListSeeds(t *testing.T) {
	p := filepath.Join(t.TempDir(), FileName)
	if err := jsonstore.Save(p, []model.Category{}); err != nil {
		t.Fatal(err)
	}
	if got := Open(p, nil).Names(); !reflect.DeepEqual(got, defaultNames()) {
		t.Fatalf("got %v", got)
	}
}

func TestAddValidatesAndNormalizes(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), FileName), nil)
	n := len(s.All())
	if _, err := s.Add("   ", "red"); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("want ErrEmptyName, got %v", err)
	}
	c, err := s.Add("  Books ", "chartreuse")
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != "Books" || c.Color != model.DefaultColor || c.ID == "" {
		t.Fatalf("added %+v", c)
	}
	// duplicate names are permitted
	if _, err := s.Add("Books", "teal"); err != nil {
		t.Fatal(err)
	}
	if got := len(s.All()); got != n+2 {
		t.Fatalf("len = %d, want %d", got, n+2)
	}
}

func TestDeleteByPosition(t *testing.T) {
	p := filepath.Join(t.TempDir(), FileName)
	s := Open(p, nil)
	if err := s.Delete(0); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(99); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("want ErrOutOfRange, got %v", err)
	}
	want := defaultNames()[1:]
	if got := Open(p, nil).Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestUpdateByIdentity(t *testing.T) {
	p := filepath.Join(t.TempDir(), FileName)
	s := Open(p, nil)
	c := s.All()[2]
	c.Name = "Cooking"
	c.Color = "teal"
	if ok, err := s.Update(c); !ok || err != nil {
		t.Fatalf("update: ok=%v err=%v", ok, err)
	}
	if ok, _ := s.Update(model.Category{ID: "nope", Name: "X"}); ok {
		t.Fatal("unknown id updated")
	}
	if _, err := s.Update(model.Category{ID: c.ID, Name: " "}); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("want ErrEmptyName, got %v", err)
	}
	got := Open(p, nil).All()[2]
	if got.Name != "Cooking" || got.Color != "teal" {
		t.Fatalf("got %+v", got)
	}
}

func TestDeleteByID(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), FileName), nil)
	id := s.All()[0].ID
	if err := s.DeleteByID(id); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteByID(id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestConcurrentDeleteByIDRemovesExactlyThoseIDs(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), FileName), nil)
	all := s.All()
	keep := all[len(all)-1]
	var wg sync.WaitGroup
	errs := make(chan error, len(all)-1)
	for _, c := range all[:len(all)-1] {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			errs <- s.DeleteByID(id)
		}(c.ID)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("delete: %v", err)
		}
	}
	if got := s.All(); len(got) != 1 || got[0].ID != keep.ID {
		t.Fatalf("left %+v, want only %q", got, keep.Name)
	}
}

func TestColorForIsTotal(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), FileName), nil)
	if got := s.ColorFor("purple"); got.Name != "purple" {
		t.Fatalf("purple -> %+v", got)
	}
	for _, name := range []string{"", "mauve", "BLUE"} {
		if got := s.ColorFor(name); got.Name != "blue" {
			t.Errorf("%q -> %+v, want blue", name, got)
		}
	}
}
