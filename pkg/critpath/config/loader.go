package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned by FromFile for an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported config format")

type format struct {
	name      string
	unmarshal func([]byte, any) error
}

var (
	yamlFormat = format{name: "yaml", unmarshal: yaml.Unmarshal}
	jsonFormat = format{name: "json", unmarshal: json.Unmarshal}

	formatsByExt = map[string]format{
		".yaml": yamlFormat,
		".yml":  yamlFormat,
		".json": jsonFormat,
	}
)

func (f format) decode(data []byte) (Config, error) {
	var m map[string]any
	if err := f.unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("decode %s config: %w", f.name, err)
	}
	return New(m), nil
}

// FromFile reads a .yaml, .yml or .json config file.
func FromFile(path string) (Config, error) {
	f, ok := formatsByExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return Config{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return f.decode(data)
}

// FromYAML decodes a YAML document.
func FromYAML(data []byte) (Config, error) {
	return yamlFormat.decode(data)
}

// FromJSON decodes a JSON object.
func FromJSON(data []byte) (Config, error) {
	return jsonFormat.decode(data)
}
