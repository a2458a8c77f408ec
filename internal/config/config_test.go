// ABOUTME: Tests for settings merge precedence and file loading
// ABOUTME: Project values override global; env maps merge key-wise

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMerge_ProjectOverridesGlobal(t *testing.T) {
	t.Parallel()

	global := &Settings{
		Model:    "gpt-4o-mini",
		TokenMax: 3000,
		Length:   "tokens",
		Env:      map[string]string{"OPENAI_API_KEY": "global"},
	}
	project := &Settings{
		Model:    "gpt-4o",
		TokenMax: 1500,
		Env:      map[string]string{"OPENAI_BASE_URL": "http://localhost:8080"},
	}

	got := merge(global, project)

	if got.Model != "gpt-4o" {
		t.Errorf("Model = %q, want project value", got.Model)
	}
	if got.TokenMax != 1500 {
		t.Errorf("TokenMax = %d, want 1500", got.TokenMax)
	}
	if got.Length != "tokens" {
		t.Errorf("Length = %q, want inherited global value", got.Length)
	}
	if got.Env["OPENAI_API_KEY"] != "global" || got.Env["OPENAI_BASE_URL"] != "http://localhost:8080" {
		t.Errorf("Env = %v, want merged maps", got.Env)
	}
}

func TestMerge_NilInputs(t *testing.T) {
	t.Parallel()

	if got := merge(nil, nil); got == nil {
		t.Fatal("merge(nil, nil) returned nil")
	}
	project := &Settings{Model: "m"}
	if got := merge(nil, project); got.Model != "m" {
		t.Errorf("Model = %q", got.Model)
	}
}

func TestLoadFile_MissingReturnsZero(t *testing.T) {
	t.Parallel()

	s, err := loadFile(filepath.Join(t.TempDir(), "absent.json"))
	if !os.IsNotExist(err) {
		t.Fatalf("err = %v, want not-exist", err)
	}
	if s == nil || s.Model != "" {
		t.Errorf("settings = %+v, want zero value", s)
	}
}

func TestLoadFile_InvalidJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_ProjectFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	dir := filepath.Join(root, ".docreduce")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := `{"model":"gpt-4o-mini","token_max":2000,"separator":"\n---\n"}`
	if err := os.WriteFile(filepath.Join(dir, "settings.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Model != "gpt-4o-mini" || s.TokenMax != 2000 {
		t.Errorf("settings = %+v", s)
	}
}
