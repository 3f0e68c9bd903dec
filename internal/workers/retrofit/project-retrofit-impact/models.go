// internal/workers/retrofit/project-retrofit-impact/models.go
package projectretrofitimpact

import (
	"esg-retrofit-workers/internal/common/validation"
	"esg-retrofit-workers/internal/esg"
)

type Input struct {
	PropertyID        string   `json:"propertyId"`
	SelectedActionIDs []string `json:"selectedActionIds"`
	Budget            *float64 `json:"budget,omitempty"`
}

type Output struct {
	PlanID            string             `json:"planId"`
	PropertyID        string             `json:"propertyId"`
	SelectedActionIDs []string           `json:"selectedActionIds"`
	Projection        esg.ProjectedState `json:"projection"`
	ActionCosts       []esg.ActionCost   `json:"actionCosts"`
	Budget            float64            `json:"budget"`
	TotalCost         float64            `json:"totalCost"`
	RemainingBudget   float64            `json:"remainingBudget"`
	OverBudget        bool               `json:"overBudget"`
}

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["propertyId", "selectedActionIds"],
	"properties": {
		"propertyId":        {"type": "string", "minLength": 1},
		"selectedActionIds": {"type": "array", "items": {"type": "string"}},
		"budget":            {"type": "number"}
	}
}`)
