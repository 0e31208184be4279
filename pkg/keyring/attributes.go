package keyring

import "strings"

// ParseAttributes validates an optional key-value map against a list of
// allowed keys, returning a copy containing only the supplied pairs.
//
// A key prefixed with `*` in the allowed list is required to have a boolean
// value; the `*` is stripped from the key name when matching and in the
// returned map. ParseAttributes returns an InvalidError if a supplied key is
// not allowed, or if a boolean key has a value other than "true" or "false".
//
// Store implementations use this to validate build-time modifiers and
// attribute updates.
func ParseAttributes(allowed []string, attrs map[string]string) (map[string]string, error) {
	result := make(map[string]string, len(attrs))
	if len(attrs) == 0 {
		return result, nil
	}
	boolKeys := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		if stripped, isBool := strings.CutPrefix(k, "*"); isBool {
			boolKeys[stripped] = true
		} else {
			boolKeys[k] = false
		}
	}
	for key, value := range attrs {
		isBool, ok := boolKeys[key]
		if !ok {
			return nil, &InvalidError{Field: key, Reason: "unknown key"}
		}
		if isBool && value != "true" && value != "false" {
			return nil, &InvalidError{Field: key, Reason: "must be `true` or `false`"}
		}
		result[key] = value
	}
	return result, nil
}
