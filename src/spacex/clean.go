package spacex

import "strings"

// High-cardinality list fields that add little value to an answer but cost
// a lot of context tokens.
var droppedFields = map[string]struct{}{
	"ships":    {},
	"capsules": {},
	"payloads": {},
}

// Clean recursively strips null values, identifier-suffixed keys, and known
// large list fields from an API response to bound its size before it enters
// the conversation log. Clean is idempotent.
func Clean(data any) any {
	switch v := data.(type) {
	case []any:
		cleaned := make([]any, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			cleaned = append(cleaned, Clean(item))
		}
		return cleaned
	case map[string]any:
		cleaned := make(map[string]any, len(v))
		for key, value := range v {
			if value == nil {
				continue
			}
			if strings.HasSuffix(key, "_id") {
				continue
			}
			if _, drop := droppedFields[key]; drop {
				continue
			}
			cleaned[key] = Clean(value)
		}
		return cleaned
	default:
		return data
	}
}
