package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// parseArgs decodes a raw argument payload into a typed input struct. An
// empty payload is treated as an empty object, since no-argument tools are
// frequently called with "" or "{}". Unknown fields are ignored; a wrongly
// typed field fails with an error that names it.
func parseArgs(raw []byte, v any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// objectSchema builds the JSON Schema object for a tool's parameters.
func objectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
