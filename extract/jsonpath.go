package extract

import "sort"

// jget walks a decoded JSON value by a sequence of string keys and int
// indexes. It returns nil the moment a key is missing or the shape does
// not match; callers treat nil as "absent", never as an error.
func jget(v any, path ...any) any {
	cur := v
	for _, key := range path {
		switch k := key.(type) {
		case string:
			m, ok := cur.(map[string]any)
			if !ok {
				return nil
			}
			cur = m[k]
		case int:
			arr, ok := cur.([]any)
			if !ok || k < 0 || k >= len(arr) {
				return nil
			}
			cur = arr[k]
		default:
			return nil
		}
	}
	return cur
}

// jstring is jget flattened to a trimmed string, "" when absent or blank.
func jstring(v any, path ...any) string {
	val := jget(v, path...)
	if isBlank(val) {
		return ""
	}
	return normalizeSpace(anyToString(val))
}

// walkJSON visits every node of a decoded JSON value depth-first. Map
// keys are visited in sorted order so candidate discovery order, and with
// it arbitration tie-breaking, is stable across runs. The visitor
// receives the map key (or "" for array elements) and the value;
// returning false stops the walk early.
func walkJSON(v any, visit func(key string, val any) bool) bool {
	switch node := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(node))
		for k := range node {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			val := node[k]
			if !visit(k, val) {
				return false
			}
			if !walkJSON(val, visit) {
				return false
			}
		}
	case []any:
		for _, val := range node {
			if !visit("", val) {
				return false
			}
			if !walkJSON(val, visit) {
				return false
			}
		}
	}
	return true
}
