package config

import (
	"fmt"
	"strconv"
)

// EnvUseLongestPathGraph selects the longest-path backend when true.
const EnvUseLongestPathGraph = "CRITPATH_USE_LONGEST_PATH_GRAPH"

// KeyUseLongestPathGraph is the config file key for the same switch.
const KeyUseLongestPathGraph = "use_longest_path_graph"

// Settings is the build-wide listener configuration.
type Settings struct {
	// UseLongestPathGraph selects the exact longest-path backend instead
	// of the streaming one.
	UseLongestPathGraph bool
}

// DefaultSettings returns settings selecting the streaming backend.
func DefaultSettings() Settings {
	return Settings{}
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// FromEnv reads settings through lookup. Unset or empty variables keep
// their defaults; values that strconv.ParseBool rejects are an error.
func FromEnv(lookup LookupFunc) (Settings, error) {
	s := DefaultSettings()
	if lookup == nil {
		return s, nil
	}

	raw, ok := lookup(EnvUseLongestPathGraph)
	if !ok || raw == "" {
		return s, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return s, fmt.Errorf("parse %s=%q: %w", EnvUseLongestPathGraph, raw, err)
	}
	s.UseLongestPathGraph = v
	return s, nil
}

// SettingsFromConfig reads settings from a loaded Config.
func SettingsFromConfig(c Config) Settings {
	s := DefaultSettings()
	s.UseLongestPathGraph = c.Bool(KeyUseLongestPathGraph, s.UseLongestPathGraph)
	return s
}

// OverlayFile applies the settings keys present in the config file at path
// on top of base. Keys missing from the file keep base's values.
func OverlayFile(base Settings, path string) (Settings, error) {
	c, err := FromFile(path)
	if err != nil {
		return base, err
	}
	s := base
	s.UseLongestPathGraph = c.Bool(KeyUseLongestPathGraph, base.UseLongestPathGraph)
	return s, nil
}
