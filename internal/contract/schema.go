package contract

// BuildMetadataJSONSchema returns the published contract for a serialized
// metadata record as a JSON-Schema (draft 2020-12 subset) in map form. The
// same shape is what the HTTP API returns and what gets persisted.
func BuildMetadataJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"dates":           map[string]any{"type": "array", "items": timestampProp()},
			"expiration_date": timestampProp(),
			"renewal_date":    timestampProp(),
			"policy_number":   map[string]any{"type": "string", "minLength": 1},
			"account_number":  map[string]any{"type": "string", "minLength": 1},
			"amount":          map[string]any{"type": "number", "minimum": 0.0},
			"currency":        map[string]any{"type": "string", "minLength": 3, "maxLength": 3},
			"email":           map[string]any{"type": "string", "minLength": 3},
			"phone":           map[string]any{"type": "string", "minLength": 7},
		},
		"required": []string{"dates"},
	}
}

func timestampProp() map[string]any {
	// time.Time marshals as RFC 3339
	return map[string]any{
		"type":    "string",
		"pattern": `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`,
	}
}
