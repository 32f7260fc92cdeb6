package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/mergerun-td/internal/engine"
)

// FileName is the configuration document searched for on disk.
const FileName = "mergerun.yaml"

// Load loads the run tables.
// Search order: customPath -> ~/.mergerun/configs/mergerun.yaml -> ./configs/mergerun.yaml -> embedded default
func Load(customPath string) (engine.Tables, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return engine.Tables{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		t, err := Parse(data)
		if err != nil {
			return engine.Tables{}, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return t, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(FileName); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if t, err := Parse(data); err == nil {
				return t, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", FileName)); err == nil {
		if t, err := Parse(data); err == nil {
			return t, nil
		}
	}

	// Use embedded default YAML
	t, err := Parse(defaultYAML)
	if err != nil {
		return DefaultTables(), nil // Fallback to hardcoded if embed fails
	}
	return t, nil
}

// Parse decodes and validates a mergerun.yaml document.
func Parse(data []byte) (engine.Tables, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return engine.Tables{}, fmt.Errorf("failed to parse tables: %w", err)
	}
	t := f.Tables()
	if err := Validate(t); err != nil {
		return engine.Tables{}, err
	}
	return t, nil
}

// Marshal encodes tables as a mergerun.yaml document.
func Marshal(t engine.Tables) ([]byte, error) {
	data, err := yaml.Marshal(FromTables(t))
	if err != nil {
		return nil, fmt.Errorf("config: failed to encode tables: %w", err)
	}
	return data, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mergerun", "configs", filename)
}
