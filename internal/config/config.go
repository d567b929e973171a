// Package config loads the server fixture file, the only on-disk state in
// the repository, grounded on tonylturner-cipdip's
// LoadServerConfig/CreateDefaultServerConfig pair.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/compico/mirlib/fixture"
)

// Load reads a YAML fixture file from path.
func Load(path string) (*fixture.ServerFixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("fixture file not found: %s\n\n"+
				"To fix this:\n"+
				"  1. Generate one: mirlibctl server print-default-config > %s\n"+
				"  2. Edit it with your sample meter readings\n"+
				"  3. Or pass --fixtures <path> to point at a different file", path, path)
		}
		return nil, fmt.Errorf("read fixture file %s: %w", path, err)
	}

	cfg := fixture.Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return cfg, nil
}

// Default returns the built-in sample fixtures, used when no fixture file
// is configured.
func Default() *fixture.ServerFixtures {
	return fixture.Default()
}

// Marshal serializes fixtures back to YAML, used by the
// print-default-config subcommand.
func Marshal(f *fixture.ServerFixtures) ([]byte, error) {
	return yaml.Marshal(f)
}

// Validate checks that a fixture file can be read and parsed as YAML, used
// by the validate-config subcommand. Field values are not range-checked.
func Validate(path string) error {
	_, err := Load(path)
	return err
}
