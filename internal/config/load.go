//go:build !tinygo

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads, validates and normalizes a YAML configuration file.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML configuration. Unknown fields are rejected.
func Parse(b []byte) (Config, error) {
	cfg := Config{Virtual: VirtualConfig{RemoteConnected: true}}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	Normalize(&cfg)
	return cfg, nil
}
