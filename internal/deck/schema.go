package deck

// FileSchema is the JSON schema a deck file must satisfy before import.
// Scheduling fields are optional: freshly authored decks carry only content,
// exported decks carry progress too.
var FileSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"subjects": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":   map[string]any{"type": "string"},
					"name": map[string]any{"type": "string", "minLength": 1},
					"sets": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"id":   map[string]any{"type": "string"},
								"name": map[string]any{"type": "string", "minLength": 1},
								"tasks": map[string]any{
									"type": "array",
									"items": map[string]any{
										"type": "object",
										"properties": map[string]any{
											"id":       map[string]any{"type": "string"},
											"name":     map[string]any{"type": "string"},
											"question": map[string]any{"type": "string", "minLength": 1},
											"answer":   map[string]any{"type": "string"},
											"tags": map[string]any{
												"type":  "array",
												"items": map[string]any{"type": "string"},
											},
											"history": map[string]any{
												"type": "array",
												"items": map[string]any{
													"type": "object",
													"properties": map[string]any{
														"timestamp": map[string]any{"type": "string"},
														"quality": map[string]any{
															"type": "string",
															"enum": []any{"bad", "ok", "good", "perfect"},
														},
													},
													"required":             []any{"timestamp", "quality"},
													"additionalProperties": false,
												},
											},
											"sm_data": map[string]any{
												"type": "object",
												"properties": map[string]any{
													"status": map[string]any{
														"type": "string",
														"enum": []any{"new", "bad", "ok", "good", "mastered", "perfect"},
													},
													"next_review_at":   map[string]any{"type": "string"},
													"consecutive_good": map[string]any{"type": "integer", "minimum": 0},
												},
												"required":             []any{"status", "next_review_at"},
												"additionalProperties": false,
											},
										},
										"required":             []any{"question", "answer"},
										"additionalProperties": false,
									},
								},
							},
							"required":             []any{"name", "tasks"},
							"additionalProperties": false,
						},
					},
				},
				"required":             []any{"name", "sets"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []any{"subjects"},
	"additionalProperties": false,
}
