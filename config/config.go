package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Compiled-in recording defaults
const (
	DefaultMaxNotes        = 150
	DefaultBasePitch       = 60
	DefaultTickStep        = 240
	DefaultIndexOffset     = 0
	DefaultMiddleOffset    = 12
	DefaultTicksPerQuarter = 480
	DefaultProgram         = 12 // marimba
	DefaultVolume          = 100
	DefaultOutputDir       = "fdwer578"
	DefaultOutputFile      = "output_melody.mid"
)

// RecordingConfig controls how gestures turn into notes
type RecordingConfig struct {
	MaxNotes     int    `yaml:"max_notes"`
	BasePitch    int    `yaml:"base_pitch"`
	TickStep     int    `yaml:"tick_step"`
	IndexOffset  int    `yaml:"index_offset"`
	MiddleOffset int    `yaml:"middle_offset"`
	Seed         uint64 `yaml:"seed,omitempty"` // 0 = seed from clock
}

// OutputConfig controls the rendered MIDI file
type OutputConfig struct {
	Dir               string `yaml:"output_dir"`
	File              string `yaml:"output_file"`
	TicksPerQuarter   int    `yaml:"ticks_per_quarter"`
	Program           int    `yaml:"program"`
	Volume            int    `yaml:"volume"`
	Channel           int    `yaml:"channel"`
	CumulativeOffsets bool   `yaml:"cumulative_offsets,omitempty"`
}

// MonitorConfig names an optional live MIDI output port
type MonitorConfig struct {
	Port string `yaml:"port,omitempty"`
	BPM  int    `yaml:"bpm,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Recording RecordingConfig `yaml:"recording"`
	Output    OutputConfig    `yaml:"output"`
	Monitor   MonitorConfig   `yaml:"monitor,omitempty"`
}

// DefaultConfig returns the compiled-in settings
func DefaultConfig() *Config {
	return &Config{
		Recording: RecordingConfig{
			MaxNotes:     DefaultMaxNotes,
			BasePitch:    DefaultBasePitch,
			TickStep:     DefaultTickStep,
			IndexOffset:  DefaultIndexOffset,
			MiddleOffset: DefaultMiddleOffset,
		},
		Output: OutputConfig{
			Dir:             DefaultOutputDir,
			File:            DefaultOutputFile,
			TicksPerQuarter: DefaultTicksPerQuarter,
			Program:         DefaultProgram,
			Volume:          DefaultVolume,
		},
		Monitor: MonitorConfig{
			BPM: 120,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-marimba"), nil
}

// ConfigPath returns the full path to config.yaml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config from path (ConfigPath when empty), or returns
// defaults if the file does not exist. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the config to path, creating the directory if needed
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate rejects settings that cannot produce a playable file
func (c *Config) Validate() error {
	switch {
	case c.Recording.MaxNotes <= 0:
		return fmt.Errorf("invalid config: max_notes must be positive, got %d", c.Recording.MaxNotes)
	case c.Recording.TickStep <= 0:
		return fmt.Errorf("invalid config: tick_step must be positive, got %d", c.Recording.TickStep)
	case c.Output.TicksPerQuarter <= 0 || c.Output.TicksPerQuarter > 0x7fff:
		return fmt.Errorf("invalid config: ticks_per_quarter out of range: %d", c.Output.TicksPerQuarter)
	case c.Output.Program < 0 || c.Output.Program > 127:
		return fmt.Errorf("invalid config: program out of range: %d", c.Output.Program)
	case c.Output.Volume < 0 || c.Output.Volume > 127:
		return fmt.Errorf("invalid config: volume out of range: %d", c.Output.Volume)
	case c.Output.Channel < 0 || c.Output.Channel > 15:
		return fmt.Errorf("invalid config: channel out of range: %d", c.Output.Channel)
	case c.Output.File == "":
		return errors.New("invalid config: output_file is empty")
	}
	return nil
}

// OutputPath joins the output directory onto base (usually the working directory)
func (c *Config) OutputPath(base string) string {
	dir := c.Output.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(base, dir)
	}
	return filepath.Join(dir, c.Output.File)
}
