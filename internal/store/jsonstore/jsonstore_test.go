package jsonstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type doc struct {
	Title string `json:"title"`
	N     int    `json:"n"`
}

func TestLoadMissingIsNotFound(t *testing.T) {
	var out []doc
	err := Load(filepath.Join(t.TempDir(), "nope.json"), &out)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "sub", "docs.json")
	in := []doc{{"a", 1}, {"b", 2}}
	if err := Save(p, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	var out []doc
	if err := Load(p, &out); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 2 || out[0] != in[0] || out[1] != in[1] {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "docs.json")
	for i := 0; i < 3; i++ {
		if err := Save(p, []doc{{"x", i}}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "docs.json" {
		names := []string{}
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("unexpected dir contents: %v", names)
	}
}

func TestLoadCorruptDocument(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(p, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	var out []doc
	err := Load(p, &out)
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("want decode error, got %v", err)
	}
}
