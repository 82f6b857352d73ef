package sources

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// sourcesFile is the on-disk shape of the sources configuration.
type sourcesFile struct {
	Sources []map[string]any `yaml:"sources"`
}

// LoadFromFile reads and validates the source registry from a YAML file.
func LoadFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}
	return loadFromBytes(data)
}

func loadFromBytes(data []byte) (*Registry, error) {
	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}
	if len(file.Sources) == 0 {
		return nil, ErrNoSources
	}

	configs := make([]*Config, 0, len(file.Sources))
	for i, raw := range file.Sources {
		cfg := &Config{
			// Defaults applied before decoding so the file may omit them.
			Enabled: true,
		}
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create decoder: %w", err)
		}
		if err := decoder.Decode(raw); err != nil {
			return nil, fmt.Errorf("failed to decode source %d: %w", i, err)
		}
		configs = append(configs, cfg)
	}

	return NewRegistry(configs)
}
