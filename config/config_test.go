package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigMatchesCompiledConstants(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Recording.MaxNotes != 150 {
		t.Errorf("MaxNotes: got %d, want 150", cfg.Recording.MaxNotes)
	}
	if cfg.Recording.BasePitch != 60 {
		t.Errorf("BasePitch: got %d, want 60", cfg.Recording.BasePitch)
	}
	if cfg.Recording.TickStep != 240 {
		t.Errorf("TickStep: got %d, want 240", cfg.Recording.TickStep)
	}
	if cfg.Recording.MiddleOffset != 12 {
		t.Errorf("MiddleOffset: got %d, want 12", cfg.Recording.MiddleOffset)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Recording.MaxNotes != DefaultMaxNotes {
		t.Errorf("MaxNotes: got %d, want %d", cfg.Recording.MaxNotes, DefaultMaxNotes)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := `recording:
  max_notes: 20
output:
  program: 0
`
	if err := os.WriteFile(path, []byte(partial), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Recording.MaxNotes != 20 {
		t.Errorf("MaxNotes: got %d, want 20", cfg.Recording.MaxNotes)
	}
	if cfg.Recording.TickStep != DefaultTickStep {
		t.Errorf("TickStep: got %d, want default %d", cfg.Recording.TickStep, DefaultTickStep)
	}
	if cfg.Output.Program != 0 {
		t.Errorf("Program: got %d, want 0", cfg.Output.Program)
	}
	if cfg.Output.File != DefaultOutputFile {
		t.Errorf("File: got %q, want %q", cfg.Output.File, DefaultOutputFile)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Recording.Seed = 42
	cfg.Monitor.Port = "IAC Driver Bus 1"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Recording.Seed != 42 {
		t.Errorf("Seed: got %d, want 42", loaded.Recording.Seed)
	}
	if loaded.Monitor.Port != "IAC Driver Bus 1" {
		t.Errorf("Port: got %q", loaded.Monitor.Port)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero max notes", "recording:\n  max_notes: 0\n"},
		{"negative tick step", "recording:\n  tick_step: -1\n"},
		{"program too high", "output:\n  program: 128\n"},
		{"volume negative", "output:\n  volume: -5\n"},
		{"channel too high", "output:\n  channel: 16\n"},
		{"malformed", "recording: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	cfg := DefaultConfig()
	got := cfg.OutputPath("/work")
	want := filepath.Join("/work", "fdwer578", "output_melody.mid")
	if got != want {
		t.Errorf("OutputPath: got %q, want %q", got, want)
	}

	cfg.Output.Dir = "/abs/out"
	if got := cfg.OutputPath("/work"); got != filepath.Join("/abs/out", "output_melody.mid") {
		t.Errorf("absolute dir ignored base incorrectly: %q", got)
	}
}
