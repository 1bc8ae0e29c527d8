package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

// progress-bridge tail config.toml key mapping.
type fileConfig struct {
	Input               string `toml:"input"`
	LogLevel            string `toml:"log_level"`
	Pretty              bool   `toml:"pretty"`
	StopOnProtocolError bool   `toml:"stop_on_protocol_error"`
}

type tailConfig struct {
	Input               string
	LogLevel            zerolog.Level
	Pretty              bool
	StopOnProtocolError bool
}

func defaultTailConfig() tailConfig {
	return tailConfig{
		Input:               "-",
		LogLevel:            zerolog.InfoLevel,
		Pretty:              false,
		StopOnProtocolError: true,
	}
}

// loadTailConfig overlays config.toml values on the defaults; only keys
// present in the file override.
func loadTailConfig(path string) (tailConfig, error) {
	cfg := defaultTailConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return tailConfig{}, fmt.Errorf("load tail config: %w", err)
	}

	if meta.IsDefined("input") {
		cfg.Input = strings.TrimSpace(raw.Input)
		if cfg.Input == "" {
			return tailConfig{}, fmt.Errorf("load tail config: input must not be blank")
		}
	}
	if meta.IsDefined("log_level") {
		level, err := zerolog.ParseLevel(strings.TrimSpace(raw.LogLevel))
		if err != nil {
			return tailConfig{}, fmt.Errorf("load tail config: parse log_level: %w", err)
		}
		cfg.LogLevel = level
	}
	if meta.IsDefined("pretty") {
		cfg.Pretty = raw.Pretty
	}
	if meta.IsDefined("stop_on_protocol_error") {
		cfg.StopOnProtocolError = raw.StopOnProtocolError
	}
	return cfg, nil
}
