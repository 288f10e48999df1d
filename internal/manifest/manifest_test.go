package manifest

import (
	"path/filepath"
	"testing"
)

func TestWriteThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	want := &Manifest{Package: "geometry", Entry: "main.ivy"}

	if err := Write(path, want); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestLoadWithoutEntryOmitsIt(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := Write(path, &Manifest{Package: "geometry"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Entry != "" {
		t.Errorf("expected empty Entry, got %q", got.Entry)
	}
}

func TestLoadRejectsMissingPackage(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := Write(path, &Manifest{Entry: "main.ivy"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a manifest with no package name")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), FileName)); err == nil {
		t.Fatal("expected an error for a missing manifest")
	}
}
