package section

import "strings"

// NestMap turns a map of dotted keys into nested maps.
// A key that is both a value and a prefix of other keys keeps the nested map.
func NestMap(flat map[string]any) map[string]any {
	nested := make(map[string]any)

	for key, value := range flat {
		parts := strings.Split(key, ".")
		current := nested

		for _, part := range parts[:len(parts)-1] {
			next, ok := current[part].(map[string]any)
			if !ok {
				next = make(map[string]any)
				current[part] = next
			}

			current = next
		}

		last := parts[len(parts)-1]
		if _, isMap := current[last].(map[string]any); isMap {
			continue
		}

		current[last] = value
	}

	return nested
}

// FlattenMap turns nested maps into a map of dotted keys.
// Unlike Schema.FlattenMap, every nested map is descended into.
func FlattenMap(nested map[string]any) map[string]any {
	flat := make(map[string]any)
	flattenAll(flat, nested, "")

	return flat
}

func flattenAll(flat, nested map[string]any, prefix string) {
	for key, value := range nested {
		if inner, ok := value.(map[string]any); ok && len(inner) > 0 {
			flattenAll(flat, inner, prefix+key+".")

			continue
		}

		flat[prefix+key] = value
	}
}
