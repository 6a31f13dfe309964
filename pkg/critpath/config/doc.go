// Package config loads critical-path listener settings.
//
// Settings are read once, before a build starts, and threaded into
// critpath.Scope as a value. Two sources are supported:
//
//   - the environment, via FromEnv:
//
//     settings, err := config.FromEnv(os.LookupEnv)
//
//   - a YAML or JSON file, via FromFile and SettingsFromConfig:
//
//     cfg, err := config.FromFile("critpath.yaml")
//     settings := config.SettingsFromConfig(cfg)
//
// Config is a thin map wrapper with typed accessors that fall back to a
// default when a key is missing or has the wrong type.
package config
