package tree

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DecodeNode converts a nested record (as produced by JSON or YAML decoding into
// map[string]any) into a NodeConfig. Unknown keys are rejected.
func DecodeNode(raw map[string]any) (NodeConfig, error) {
	var cfg NodeConfig
	if err := decode(raw, &cfg); err != nil {
		return NodeConfig{}, configErrorf("root", "%v", err)
	}
	return cfg, nil
}

// DecodeTrees converts a list of nested tree records into TreeConfigs.
func DecodeTrees(raw []any) ([]TreeConfig, error) {
	configs := make([]TreeConfig, 0, len(raw))
	for i, item := range raw {
		var cfg TreeConfig
		if err := decode(item, &cfg); err != nil {
			return nil, configErrorf(fmt.Sprintf("trees[%d]", i), "%v", err)
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

func decode(input any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	return decoder.Decode(input)
}
