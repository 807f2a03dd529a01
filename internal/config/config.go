package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config carries defaults for the pipeline commands. Every value can be
// overridden per invocation by flags.
type Config struct {
	Record     RecordConfig     `yaml:"record"`
	Transcribe TranscribeConfig `yaml:"transcribe"`
	Diarize    DiarizeConfig    `yaml:"diarize"`
	Summarize  SummarizeConfig  `yaml:"summarize"`
}

type RecordConfig struct {
	Device     string `yaml:"device"`
	SampleRate int    `yaml:"sample_rate"`
	Channels   int    `yaml:"channels"`
}

type TranscribeConfig struct {
	Provider    string `yaml:"provider"`
	Model       string `yaml:"model"`
	Language    string `yaml:"language"`
	Device      string `yaml:"device"`
	ComputeType string `yaml:"compute_type"`
	Python      string `yaml:"python"`
}

type DiarizeConfig struct {
	Model       string `yaml:"model"`
	MinSpeakers int    `yaml:"min_speakers"`
	MaxSpeakers int    `yaml:"max_speakers"`
	Python      string `yaml:"python"`
}

type SummarizeConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	OllamaURL string `yaml:"ollama_url"`
}

// DefaultPath returns the per-user config location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".hushnote.yaml")
}

// Load reads a YAML config file and applies defaults. An empty path loads
// the per-user config when present and plain defaults otherwise.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = DefaultPath()
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks provider names and fills defaults for unset values.
func (c *Config) Validate() error {
	switch c.Transcribe.Provider {
	case "", "whisper", "openai":
	default:
		return fmt.Errorf(
			"transcribe.provider %q is not supported (use whisper or openai)",
			c.Transcribe.Provider,
		)
	}

	switch c.Summarize.Provider {
	case "", "ollama", "openai", "anthropic", "gemini":
	default:
		return fmt.Errorf(
			"summarize.provider %q is not supported (use ollama, openai, anthropic, or gemini)",
			c.Summarize.Provider,
		)
	}

	if c.Diarize.MinSpeakers < 0 || c.Diarize.MaxSpeakers < 0 {
		return fmt.Errorf("diarize speaker bounds must be non-negative")
	}
	if c.Diarize.MinSpeakers > 0 && c.Diarize.MaxSpeakers > 0 &&
		c.Diarize.MinSpeakers > c.Diarize.MaxSpeakers {
		return fmt.Errorf(
			"diarize.min_speakers %d exceeds diarize.max_speakers %d",
			c.Diarize.MinSpeakers, c.Diarize.MaxSpeakers,
		)
	}

	c.applyDefaults()
	return nil
}

func (c *Config) applyDefaults() {
	if c.Record.SampleRate == 0 {
		c.Record.SampleRate = 16000
	}
	if c.Record.Channels == 0 {
		c.Record.Channels = 1
	}
	if c.Transcribe.Provider == "" {
		c.Transcribe.Provider = "whisper"
	}
	if c.Transcribe.Model == "" {
		c.Transcribe.Model = "base"
	}
	if c.Transcribe.Device == "" {
		c.Transcribe.Device = "auto"
	}
	if c.Transcribe.ComputeType == "" {
		c.Transcribe.ComputeType = "int8"
	}
	if c.Diarize.Model == "" {
		c.Diarize.Model = "pyannote/speaker-diarization-3.1"
	}
	if c.Summarize.Provider == "" {
		c.Summarize.Provider = "ollama"
	}
	if c.Summarize.Model == "" && c.Summarize.Provider == "ollama" {
		c.Summarize.Model = "llama3.1:8b"
	}
	if c.Summarize.OllamaURL == "" {
		c.Summarize.OllamaURL = "http://localhost:11434"
	}
}
