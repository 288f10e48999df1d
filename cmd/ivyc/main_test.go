package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ivylang/ivy/internal/manifest"
)

func TestEntryFileSingleNeedsNoManifest(t *testing.T) {
	got, err := entryFile([]string{"main.ivy"})
	if err != nil {
		t.Fatalf("entryFile: %v", err)
	}
	if got != "main.ivy" {
		t.Errorf("entryFile = %q, want %q", got, "main.ivy")
	}
}

func TestEntryFileRejectsNoFiles(t *testing.T) {
	if _, err := entryFile(nil); err == nil {
		t.Fatal("expected an error for no source files given")
	}
}

func TestEntryFileResolvesFromManifest(t *testing.T) {
	dir := t.TempDir()
	if err := manifest.Write(filepath.Join(dir, manifest.FileName), &manifest.Manifest{Package: "geometry", Entry: "main.ivy"}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	defer os.Chdir(old)

	got, err := entryFile([]string{"lib.ivy", "main.ivy"})
	if err != nil {
		t.Fatalf("entryFile: %v", err)
	}
	if got != "main.ivy" {
		t.Errorf("entryFile = %q, want %q", got, "main.ivy")
	}
}

func TestEntryFileRejectsAmbiguousWithoutManifest(t *testing.T) {
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	defer os.Chdir(old)

	if _, err := entryFile([]string{"lib.ivy", "main.ivy"}); err == nil {
		t.Fatal("expected an error when multiple files are given with no ivy.yaml present")
	}
}
