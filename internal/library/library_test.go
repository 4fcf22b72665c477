package library

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestOpenListsSupportedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b-standup.vtt", "WEBVTT\n")
	writeFile(t, dir, "a-retro.txt", "notes")
	writeFile(t, dir, "skipped.zip", "zip")
	writeFile(t, dir, ".hidden.vtt", "WEBVTT\n")
	if err := os.Mkdir(filepath.Join(dir, "subdir.vtt"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	lib, err := Open(dir, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer lib.Close()

	files := lib.List()
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d: %+v", len(files), files)
	}
	if files[0].Name != "a-retro.txt" || files[1].Name != "b-standup.vtt" {
		t.Fatalf("expected name-sorted listing, got %+v", files)
	}
	if files[0].Format != "txt" || files[1].Format != "vtt" {
		t.Fatalf("unexpected formats: %+v", files)
	}
	if files[1].Size != int64(len("WEBVTT\n")) {
		t.Fatalf("unexpected size: %d", files[1].Size)
	}
}

func TestOpenMissingDirectoryIsEmpty(t *testing.T) {
	lib, err := Open(filepath.Join(t.TempDir(), "nope"), testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer lib.Close()
	if files := lib.List(); len(files) != 0 {
		t.Fatalf("expected empty library, got %+v", files)
	}
}

func TestReadReturnsFileBytes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "standup.vtt", "WEBVTT\n\nHi.\n")

	lib, err := Open(dir, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer lib.Close()

	data, err := lib.Read("standup.vtt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "WEBVTT\n\nHi.\n" {
		t.Fatalf("unexpected content: %q", data)
	}
}

func TestReadRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok.vtt", "WEBVTT\n")

	lib, err := Open(dir, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer lib.Close()

	for _, name := range []string{
		"",
		"../escape.vtt",
		"sub/dir.vtt",
		".hidden.vtt",
		"binary.zip",
	} {
		if _, err := lib.Read(name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Read(%q): expected ErrInvalidName, got %v", name, err)
		}
	}

	if _, err := lib.Read("missing.vtt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing file, got %v", err)
	}
}

func TestWatcherPicksUpNewFiles(t *testing.T) {
	dir := t.TempDir()
	lib, err := Open(dir, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer lib.Close()

	writeFile(t, dir, "late.vtt", "WEBVTT\n")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(lib.List()) == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("watcher never picked up new file, listing: %+v", lib.List())
}
