// internal/workers/scoring/compute-esg-scores/models.go
package computeesgscores

import (
	"esg-retrofit-workers/internal/common/validation"
	"esg-retrofit-workers/internal/esg"
)

// Input scores either the inline metrics or, when they are absent, the stored property.
type Input struct {
	PropertyID string       `json:"propertyId,omitempty"`
	Metrics    *esg.Metrics `json:"metrics,omitempty"`
}

type Output struct {
	PropertyID string `json:"propertyId,omitempty"`
	esg.Scores
	Cached bool `json:"cached"`
}

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"properties": {
		"propertyId": {"type": "string", "minLength": 1},
		"metrics": {
			"type": "object",
			"properties": {
				"energyScore":          {"type": ["number", "null"]},
				"carbonFootprint":      {"type": ["number", "null"]},
				"wasteRecycling":       {"type": ["number", "null"]},
				"tenantSatisfaction":   {"type": ["number", "null"]},
				"communityImpact":      {"type": ["number", "null"]},
				"governanceCompliance": {"type": ["number", "null"]}
			}
		}
	},
	"anyOf": [
		{"required": ["propertyId"]},
		{"required": ["metrics"]}
	]
}`)
