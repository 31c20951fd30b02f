package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML section names.
const (
	keyGrid    = "grid"
	keyCache   = "cache"
	keyHTTP    = "http"
	keyServer  = "server"
	keyLogging = "logging"
)

// ShallowMergeYAML overlays the sections present in the YAML file at
// overlayPath onto target. A section present in the overlay replaces the whole
// section, starting from its default values; absent sections are untouched.
// Unknown top-level keys are ignored.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}
	return mergeYAML(target, data, overlayPath)
}

func mergeYAML(target *Config, data []byte, name string) error {
	var overlay map[string]yaml.Node
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", name, err)
	}

	for key, node := range overlay {
		if err := mergeSection(target, key, &node); err != nil {
			return fmt.Errorf("applying overlay section %q from %s: %w", key, name, err)
		}
	}
	return nil
}

// mergeSection decodes node over a fresh default copy of the named section so
// fields missing from the overlay keep their default rather than the value
// from an earlier layer.
func mergeSection(target *Config, key string, node *yaml.Node) error {
	defaults := New()
	switch key {
	case keyGrid:
		v := defaults.Grid
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Grid = v
	case keyCache:
		v := defaults.Cache
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Cache = v
	case keyHTTP:
		v := defaults.HTTP
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.HTTP = v
	case keyServer:
		v := defaults.Server
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Server = v
	case keyLogging:
		v := defaults.Logging
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Logging = v
	}
	return nil
}
