package settings

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// FromYAML parses a YAML document into Data suitable for
// [Definition.New]. Nested mappings are normalized to map[string]any so
// schema fields see the shapes they expect; non-string mapping keys are
// rejected.
func FromYAML(raw []byte) (Data, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("settings: parsing YAML: %w", err)
	}
	if doc == nil {
		return Data{}, nil
	}
	normalized, err := normalizeYAML(doc)
	if err != nil {
		return nil, err
	}
	m, ok := normalized.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("settings: YAML document is not a mapping")
	}
	return Data(m), nil
}

func normalizeYAML(v any) (any, error) {
	switch v := v.(type) {
	case map[string]any:
		normalized := make(map[string]any, len(v))
		for key, item := range v {
			n, err := normalizeYAML(item)
			if err != nil {
				return nil, err
			}
			normalized[key] = n
		}
		return normalized, nil
	case map[any]any:
		normalized := make(map[string]any, len(v))
		for key, item := range v {
			s, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("settings: non-string YAML key %v", key)
			}
			n, err := normalizeYAML(item)
			if err != nil {
				return nil, err
			}
			normalized[s] = n
		}
		return normalized, nil
	case []any:
		normalized := make([]any, len(v))
		for i, item := range v {
			n, err := normalizeYAML(item)
			if err != nil {
				return nil, err
			}
			normalized[i] = n
		}
		return normalized, nil
	default:
		return v, nil
	}
}
