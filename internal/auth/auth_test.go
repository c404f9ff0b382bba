package auth

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetNoToken(t *testing.T) {
	t.Setenv(EnvToken, "")
	s := Store{Path: filepath.Join(t.TempDir(), "credentials.json")}
	ti, err := s.Get()
	if err != nil || ti != nil {
		t.Fatalf("got %+v, %v", ti, err)
	}
}

func TestEnvWinsOverFile(t *testing.T) {
	s := Store{Path: filepath.Join(t.TempDir(), "credentials.json")}
	if _, err := s.Set("file-token"); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvToken, "Bearer env-token")
	ti, err := s.Get()
	if err != nil || ti.Token != "env-token" || ti.Source != "env" {
		t.Fatalf("got %+v, %v", ti, err)
	}
}

func TestSetGeneratesAndPersists(t *testing.T) {
	t.Setenv(EnvToken, "")
	s := Store{Path: filepath.Join(t.TempDir(), "sub", "credentials.json")}
	set, err := s.Set("")
	if err != nil || set.Token == "" {
		t.Fatalf("set: %+v %v", set, err)
	}
	fi, err := os.Stat(s.Path)
	if err != nil || fi.Mode().Perm() != 0o600 {
		t.Fatalf("perm: %v %v", fi.Mode(), err)
	}
	got, _ := s.Get()
	if got == nil || got.Token != set.Token || got.Source != "file" {
		t.Fatalf("got %+v", got)
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Get(); got != nil {
		t.Fatal("token survived clear")
	}
}

func TestCheck(t *testing.T) {
	if !Check("abc", "Bearer abc") || !Check("abc", "abc") {
		t.Fatal("valid token rejected")
	}
	if Check("abc", "abd") || Check("", "") {
		t.Fatal("invalid token accepted")
	}
}
