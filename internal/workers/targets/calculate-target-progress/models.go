// internal/workers/targets/calculate-target-progress/models.go
package calculatetargetprogress

import (
	"esg-retrofit-workers/internal/common/validation"
	"esg-retrofit-workers/internal/models"
	"esg-retrofit-workers/internal/reporting"
)

// Input evaluates the given targets, or the target catalog when none are given.
type Input struct {
	Targets  []models.Target `json:"targets,omitempty"`
	Category string          `json:"category,omitempty"`
	Priority string          `json:"priority,omitempty"`
}

func (i *Input) filter() reporting.TargetFilter {
	return reporting.TargetFilter{Category: i.Category, Priority: i.Priority}
}

type Output struct {
	Targets          []models.TargetProgress `json:"targets"`
	CategoryProgress map[string]float64      `json:"categoryProgress"`
	Source           string                  `json:"source"`
}

const (
	sourceInput   = "input"
	sourceCatalog = "catalog"
)

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"properties": {
		"category": {"type": "string", "enum": ["Environmental", "Social", "Governance"]},
		"priority": {"type": "string", "enum": ["High", "Medium", "Low"]},
		"targets": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name", "category", "currentValue", "targetValue"],
				"properties": {
					"name":         {"type": "string"},
					"category":     {"type": "string"},
					"currentValue": {"type": "number"},
					"targetValue":  {"type": "number"},
					"targetYear":   {"type": "integer"},
					"priority":     {"type": "string"}
				}
			}
		}
	}
}`)
