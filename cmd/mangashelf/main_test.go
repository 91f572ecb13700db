package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	synchub "mangashelf/internal/sync"
)

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	cfg := "paths:\n" +
		"  library: " + filepath.Join(dir, "my_library.txt") + "\n" +
		"  reference: " + filepath.Join(dir, "reference.csv") + "\n" +
		"  report: " + filepath.Join(dir, "matching_titles.txt") + "\n" +
		"database:\n" +
		"  enabled: true\n" +
		"  path: " + filepath.Join(dir, "history.db") + "\n" +
		"log:\n" +
		"  level: error\n"
	p := filepath.Join(dir, "mangashelf.yaml")
	if err := os.WriteFile(p, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCompareCommandWritesReport(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	lib := "Manga #1:\nMain Title: Naruto\n\nManga #2:\nMain Title: Unknown Title\n"
	if err := os.WriteFile(filepath.Join(dir, "my_library.txt"), []byte(lib), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "reference.csv"), []byte("Title\nNARUTO\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "--config", cfgPath, "compare")
	if err != nil {
		t.Fatalf("compare: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Found 1 matching titles") {
		t.Fatalf("output = %s", out)
	}

	data, err := os.ReadFile(filepath.Join(dir, "matching_titles.txt"))
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "Matching Titles Found: 1") {
		t.Fatalf("report = %s", data)
	}

	out, err = run(t, "--config", cfgPath, "history", "list")
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	if !strings.Contains(strings.ToLower(out), "total") {
		t.Fatalf("history list output = %s", out)
	}
}

func TestCompareCommandMissingLibrary(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	if err := os.WriteFile(filepath.Join(dir, "reference.csv"), []byte("Title\nNARUTO\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "--config", cfgPath, "compare"); err == nil {
		t.Fatal("expected error for missing library")
	}
	if _, err := os.Stat(filepath.Join(dir, "matching_titles.txt")); !os.IsNotExist(err) {
		t.Fatal("no report expected when a source is missing")
	}
}

func TestLookupCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	lib := "Main Title: The Promised Neverland\n  • Yakusoku no Neverland\n"
	if err := os.WriteFile(filepath.Join(dir, "my_library.txt"), []byte(lib), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "reference.csv"), []byte("Title\nPromised Neverland\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "--config", cfgPath, "lookup", "THE Promised Neverland")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	for _, want := range []string{`key: "promised neverland"`, "- The Promised Neverland (Yakusoku no Neverland)", "- Promised Neverland"} {
		if !strings.Contains(out, want) {
			t.Errorf("lookup output missing %q:\n%s", want, out)
		}
	}
}

func TestHashPassword(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	out, err := run(t, "--config", cfgPath, "token", "hash-password", "hunter22")
	if err != nil {
		t.Fatalf("hash-password: %v", err)
	}
	hash := strings.TrimSpace(out)
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter22")); err != nil {
		t.Fatalf("hash does not verify: %v", err)
	}
}

func TestDescribeEvent(t *testing.T) {
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)
	msg := []byte(`{"type":"` + synchub.EventCompareCompleted + `","run_id":"r1","match_count":4,"library_source":"lib","reference_source":"ref","at":"` + at.Format(time.RFC3339) + `"}`)
	got := describeEvent(msg)
	if !strings.Contains(got, "compare r1: 4 matches (lib vs ref)") {
		t.Fatalf("describeEvent = %q", got)
	}
	if got := describeEvent([]byte("not json")); got != "not json" {
		t.Fatalf("raw passthrough = %q", got)
	}
}

func TestWebsocketURL(t *testing.T) {
	got, err := websocketURL("https://example.com:8443/api", "/ws")
	if err != nil || got != "wss://example.com:8443/ws" {
		t.Fatalf("websocketURL = %q, %v", got, err)
	}
}
