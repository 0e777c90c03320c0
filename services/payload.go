package services

import "strings"

// lookupPath resolves a dot-path against a trigger payload. Any missing
// segment yields an absent value; it never panics on unexpected shapes.
func lookupPath(payload map[string]interface{}, path string) (interface{}, bool) {
	if payload == nil || path == "" {
		return nil, false
	}

	segments := strings.Split(path, ".")
	var current interface{} = payload

	for _, segment := range segments {
		node, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		value, exists := node[segment]
		if !exists {
			return nil, false
		}
		current = value
	}

	return current, true
}
