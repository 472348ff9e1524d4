package services

import (
	"encoding/json"

	"gorm.io/datatypes"
)

func jsonRaw(v any) datatypes.JSON {
	b, _ := json.Marshal(v)
	return datatypes.JSON(b)
}

// mergeMetadata overlays extra keys onto an existing jsonb document,
// preserving whatever was recorded earlier (package info, checkout snapshot).
func mergeMetadata(existing datatypes.JSON, extra map[string]any) datatypes.JSON {
	merged := map[string]any{}
	if len(existing) > 0 {
		_ = json.Unmarshal(existing, &merged)
	}
	for k, v := range extra {
		merged[k] = v
	}
	return jsonRaw(merged)
}

// truncatePrompt shortens a prompt to max runes for ledger descriptions.
// Cutting on runes, not bytes, keeps Vietnamese text valid UTF-8.
func truncatePrompt(prompt string, max int) string {
	runes := []rune(prompt)
	if len(runes) <= max {
		return prompt
	}
	return string(runes[:max]) + "..."
}
