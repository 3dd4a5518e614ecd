package docutil

// DefaultProtectedFields are stripped from update payloads before
// persistence so callers cannot overwrite system-owned fields.
var DefaultProtectedFields = []string{"id", "_id", "role", "created_at", "updated_at"}

// PrepareSafeUpdate returns a shallow copy of payload with the default
// protected fields removed. The input map is never mutated.
func PrepareSafeUpdate(payload map[string]any) map[string]any {
	return PrepareSafeUpdateWith(payload, DefaultProtectedFields...)
}

// PrepareSafeUpdateWith strips the given protected fields from a shallow
// copy of payload.
func PrepareSafeUpdateWith(payload map[string]any, protected ...string) map[string]any {
	safe := make(map[string]any, len(payload))
	for key, value := range payload {
		safe[key] = value
	}
	for _, key := range protected {
		delete(safe, key)
	}
	return safe
}

// Flatten converts a nested payload into a dot-path keyed flat map suitable
// for $set partial updates: {"a": {"b": 1}} becomes {"a.b": 1}. A value
// that is a nil or empty map is kept as a leaf, not recursed into.
func Flatten(payload map[string]any) map[string]any {
	flat := make(map[string]any, len(payload))
	flattenInto(flat, "", payload)
	return flat
}

func flattenInto(flat map[string]any, prefix string, payload map[string]any) {
	for key, value := range payload {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok && len(nested) > 0 {
			flattenInto(flat, path, nested)
			continue
		}
		flat[path] = value
	}
}
