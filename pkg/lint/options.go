package lint

import "math"

// Rule options come from YAML, JSON or flags, so numbers and lists arrive
// in whichever concrete types the decoder chose. The Opt helpers normalize
// them and fall back to def for missing or mistyped keys.

// OptString returns the string option key.
func OptString(opts map[string]any, key, def string) string {
	return opt(opts, key, def)
}

// OptBool returns the bool option key.
func OptBool(opts map[string]any, key string, def bool) bool {
	return opt(opts, key, def)
}

// OptInt returns the integer option key. Floats are truncated.
func OptInt(opts map[string]any, key string, def int) int {
	switch n := opts[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		if n <= math.MaxInt {
			return int(n)
		}
	case float64:
		return int(n)
	}
	return def
}

// OptStrings returns the list option key. A single string is a one-element
// list and non-string list items are skipped.
func OptStrings(opts map[string]any, key string, def []string) []string {
	switch v := opts[key].(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return def
}

func opt[T any](opts map[string]any, key string, def T) T {
	if v, ok := opts[key].(T); ok {
		return v
	}
	return def
}
