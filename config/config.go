package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"liveroll/sequencer"
)

// SessionConfig holds the musical parameters for a capture session.
type SessionConfig struct {
	BPM         float64 `json:"bpm"`
	PPQ         int     `json:"ppq"`
	Bars        int     `json:"bars"`
	BeatsPerBar int     `json:"beatsPerBar"`
	EndSeqNote  uint8   `json:"endSeqNote"`

	// RestartOnSilence starts a recording over when it ends without
	// a single note.
	RestartOnSilence bool `json:"restartOnSilence,omitempty"`
}

// PortConfig selects the MIDI ports by name (substring match). Empty
// means first input / autodetected synth output.
type PortConfig struct {
	Input       string `json:"input,omitempty"`
	Output      string `json:"output,omitempty"`
	VirtualName string `json:"virtualName,omitempty"`
	Channel     uint8  `json:"channel,omitempty"`
}

// Config is the main configuration structure.
type Config struct {
	Session SessionConfig `json:"session"`
	Ports   PortConfig    `json:"ports,omitempty"`
	Debug   bool          `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	s := sequencer.DefaultConfig()
	return &Config{
		Session: SessionConfig{
			BPM:         s.BPM,
			PPQ:         s.PPQ,
			Bars:        s.Bars,
			BeatsPerBar: s.BeatsPerBar,
			EndSeqNote:  s.EndSeqNote,
		},
	}
}

// SequencerConfig converts the session section into the core's config.
func (c *Config) SequencerConfig() sequencer.Config {
	return sequencer.Config{
		BPM:         c.Session.BPM,
		PPQ:         c.Session.PPQ,
		Bars:        c.Session.Bars,
		BeatsPerBar: c.Session.BeatsPerBar,
		EndSeqNote:  c.Session.EndSeqNote,
	}
}

// ConfigDir returns the config directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "liveroll"), nil
}

// ConfigPath returns the full path to config.json.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a config from the given path, or returns defaults if
// the file does not exist.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
