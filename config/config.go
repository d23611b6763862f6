// Package config loads session files: the YAML documents that bind named
// mini-notation/DSL patterns, a tempo, a sound bank, and an output sink
// together into something scheduler.Scheduler and midi.Sink can run.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PatternSource is mini-notation or DSL source text. It unmarshals from
// either a single YAML string or a list of strings joined by spaces, the
// same leniency the original BTML chord-progression field offered for
// multi-line patterns.
type PatternSource string

// UnmarshalYAML accepts a scalar string or a sequence of strings.
func (s *PatternSource) UnmarshalYAML(node *yaml.Node) error {
	var str string
	if err := node.Decode(&str); err == nil {
		*s = PatternSource(str)
		return nil
	}
	var list []string
	if err := node.Decode(&list); err == nil {
		*s = PatternSource(strings.Join(list, " "))
		return nil
	}
	return fmt.Errorf("config: pattern field must be a string or list of strings")
}

// SinkConfig selects and configures the output sink.
type SinkConfig struct {
	Kind      string `yaml:"kind"`                // "render" or "live"
	SoundFont string `yaml:"soundfont,omitempty"` // path to a .sf2, required for live
	Out       string `yaml:"out,omitempty"`       // output SMF path, used by render
	Bars      int    `yaml:"bars,omitempty"`      // render duration, in bars
}

// SessionConfig is a complete live-coding session: tempo, the named
// patterns available to it, registered sound names, and where output
// goes.
type SessionConfig struct {
	Title       string                   `yaml:"title"`
	Cps         float64                  `yaml:"cps"`
	LookAheadMs int                      `yaml:"look_ahead_ms,omitempty"`
	IntervalMs  int                      `yaml:"interval_ms,omitempty"`
	Sounds      []string                 `yaml:"sounds,omitempty"`
	Patterns    map[string]PatternSource `yaml:"patterns"`
	Main        string                   `yaml:"main,omitempty"` // name of the pattern to play; defaults to "main"
	Sink        SinkConfig               `yaml:"sink,omitempty"`
}

// Load reads and parses a session file, filling in spec.md §4.4's default
// look-ahead/interval and a default cps of 0.5 (120 BPM in 4/4) when the
// file leaves them unset.
func Load(filename string) (*SessionConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	var cfg SessionConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Cps == 0 {
		cfg.Cps = 0.5
	}
	if cfg.LookAheadMs == 0 {
		cfg.LookAheadMs = 100
	}
	if cfg.IntervalMs == 0 {
		cfg.IntervalMs = 50
	}
	if cfg.Main == "" {
		cfg.Main = "main"
	}
	if cfg.Sink.Kind == "" {
		cfg.Sink.Kind = "render"
	}
	return &cfg, nil
}

// MainSource returns the source text of the session's main pattern, or an
// error naming what's missing.
func (c *SessionConfig) MainSource() (string, error) {
	src, ok := c.Patterns[c.Main]
	if !ok {
		return "", fmt.Errorf("config: no pattern named %q", c.Main)
	}
	return string(src), nil
}
