package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"toruslife/src/universe"
)

// Config holds the values a simulation config file may provide.
// Fields left at their zero value (LogLevel: zerolog.NoLevel) were not
// present in the file.
type Config struct {
	Width    int
	Height   int
	Interval time.Duration
	MaxSteps int
	Pattern  string
	LogLevel zerolog.Level
	Patterns []universe.Template
}

type fileConfig struct {
	Width    int           `toml:"width"`
	Height   int           `toml:"height"`
	Interval string        `toml:"interval"`
	MaxSteps int           `toml:"max_steps"`
	Pattern  string        `toml:"pattern"`
	LogLevel string        `toml:"log_level"`
	Patterns []filePattern `toml:"patterns"`
}

type filePattern struct {
	Name  string  `toml:"name"`
	Descr string  `toml:"descr"`
	Cells [][]int `toml:"cells"`
}

// Load reads a simulation config from a TOML file.
func Load(path string) (Config, error) {
	cfg := Config{LogLevel: zerolog.NoLevel}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("width") {
		if raw.Width < 1 {
			return Config{}, fmt.Errorf("load config: width must be positive, got %d", raw.Width)
		}
		cfg.Width = raw.Width
	}

	if meta.IsDefined("height") {
		if raw.Height < 1 {
			return Config{}, fmt.Errorf("load config: height must be positive, got %d", raw.Height)
		}
		cfg.Height = raw.Height
	}

	if meta.IsDefined("interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Interval))
		if err != nil {
			return Config{}, fmt.Errorf("parse interval: %w", err)
		}
		cfg.Interval = d
	}

	if meta.IsDefined("max_steps") {
		if raw.MaxSteps < 0 {
			return Config{}, fmt.Errorf("load config: max_steps must not be negative, got %d", raw.MaxSteps)
		}
		cfg.MaxSteps = raw.MaxSteps
	}

	if meta.IsDefined("pattern") {
		cfg.Pattern = strings.TrimSpace(raw.Pattern)
	}

	if meta.IsDefined("log_level") {
		lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(raw.LogLevel)))
		if err != nil {
			return Config{}, fmt.Errorf("parse log_level: %w", err)
		}
		cfg.LogLevel = lvl
	}

	for _, p := range raw.Patterns {
		tmpl, err := toTemplate(p)
		if err != nil {
			return Config{}, err
		}
		cfg.Patterns = append(cfg.Patterns, tmpl)
	}

	return cfg, nil
}

func toTemplate(p filePattern) (universe.Template, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return universe.Template{}, fmt.Errorf("load config: pattern without a name")
	}
	for i, c := range p.Cells {
		if len(c) != 2 {
			return universe.Template{}, fmt.Errorf("load config: pattern %q cell %d: want an [x, y] pair, got %v", name, i, c)
		}
	}
	return universe.Template{
		Name:        name,
		Descr:       p.Descr,
		Coordinates: p.Cells,
	}, nil
}
