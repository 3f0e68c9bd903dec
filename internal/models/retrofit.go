// internal/models/retrofit.go
package models

import "esg-retrofit-workers/internal/esg"

// RetrofitAction is a read-only catalog entry.
type RetrofitAction struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	Category             string  `json:"category"`
	CostPerSqm           float64 `json:"costPerSqm"`
	ROIYears             float64 `json:"roiYears"`
	CarbonReduction      float64 `json:"carbonReduction"`
	EnergySaving         float64 `json:"energySaving"`
	ImplementationMonths int     `json:"implementationMonths"`
	Complexity           string  `json:"complexity"`
}

func (a RetrofitAction) Impact() esg.ImpactAction {
	return esg.ImpactAction{
		CarbonReduction: a.CarbonReduction,
		EnergySaving:    a.EnergySaving,
	}
}

func (a RetrofitAction) Costed() esg.CostedAction {
	return esg.CostedAction{ID: a.ID, CostPerArea: a.CostPerSqm}
}

// RetrofitPlan is a set of selected actions evaluated against a budget.
type RetrofitPlan struct {
	ID                string   `json:"planId"`
	PropertyID        string   `json:"propertyId"`
	Budget            float64  `json:"budget"`
	SelectedActionIDs []string `json:"selectedActionIds"`
}

// PlanEvaluation is the projection and cost accounting of a plan.
type PlanEvaluation struct {
	Plan       RetrofitPlan       `json:"plan"`
	Actions    []RetrofitAction   `json:"actions"`
	Projection esg.ProjectedState `json:"projection"`
	Cost       esg.PlanCost       `json:"cost"`
}
