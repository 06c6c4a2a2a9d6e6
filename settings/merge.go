package settings

import "github.com/eventbrite/conformity"

// Schema maps top-level setting names to their validators.
type Schema map[string]conformity.Field

// Data holds setting values keyed by name.
type Data map[string]any

// MergeSchemas combines schema layers, later layers replacing earlier
// ones key by key. Field definitions never merge structurally; a layer
// that redefines a key owns it outright.
func MergeSchemas(layers ...Schema) Schema {
	merged := Schema{}
	for _, layer := range layers {
		for key, field := range layer {
			merged[key] = field
		}
	}
	return merged
}

// MergeDefaults combines default layers, later layers winning. Maps
// merge recursively; any other value, including a list, replaces the
// earlier one wholesale. The result shares no structure with the inputs.
func MergeDefaults(layers ...Data) Data {
	merged := Data{}
	for _, layer := range layers {
		for key, value := range layer {
			merged[key] = mergeValue(merged[key], value)
		}
	}
	return merged
}

func mergeValue(base, override any) any {
	baseMap, baseOK := asStringMap(base)
	overrideMap, overrideOK := asStringMap(override)
	if baseOK && overrideOK {
		merged := make(map[string]any, len(baseMap)+len(overrideMap))
		for k, v := range baseMap {
			merged[k] = deepCopyValue(v)
		}
		for k, v := range overrideMap {
			merged[k] = mergeValue(merged[k], v)
		}
		return merged
	}
	return deepCopyValue(override)
}

func asStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Data:
		return m, true
	}
	return nil, false
}

func deepCopyValue(v any) any {
	if m, ok := asStringMap(v); ok {
		copied := make(map[string]any, len(m))
		for k, item := range m {
			copied[k] = deepCopyValue(item)
		}
		return copied
	}
	if items, ok := v.([]any); ok {
		copied := make([]any, len(items))
		for i, item := range items {
			copied[i] = deepCopyValue(item)
		}
		return copied
	}
	return v
}
