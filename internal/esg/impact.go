// internal/esg/impact.go
package esg

import "math"

// CurrentState is the part of a property the projector reads.
type CurrentState struct {
	CarbonFootprint    float64 `json:"carbonFootprint"`
	EnergyScore        float64 `json:"energyScore"`
	EnvironmentalScore float64 `json:"environmentalScore"`
	OverallScore       float64 `json:"overallScore"`
}

// ImpactAction carries the stated impact percentages of one selected retrofit.
type ImpactAction struct {
	CarbonReduction float64 `json:"carbonReduction"`
	EnergySaving    float64 `json:"energySaving"`
}

// ProjectedState is a preview of a property after the selected retrofits.
type ProjectedState struct {
	TotalCarbonReduction  float64 `json:"totalCarbonReduction"`
	TotalEnergySaving     float64 `json:"totalEnergySaving"`
	NewCarbonFootprint    float64 `json:"newCarbonFootprint"`
	NewEnergyScore        float64 `json:"newEnergyScore"`
	EnvImprovement        float64 `json:"envImprovement"`
	NewEnvironmentalScore float64 `json:"newEnvironmentalScore"`
	NewOverallScore       float64 `json:"newOverallScore"`
}

const maxPercent = 100.0

// ProjectImpact projects carbon, energy, environmental and overall values after the
// given actions. Reductions and savings are summed and each capped at 100%.
// An empty selection yields a zero-impact projection.
func ProjectImpact(current CurrentState, actions []ImpactAction) ProjectedState {
	var carbon, energy float64
	for _, a := range actions {
		carbon += a.CarbonReduction
		energy += a.EnergySaving
	}
	carbon = math.Min(maxPercent, carbon)
	energy = math.Min(maxPercent, energy)

	envImprovement := (carbon + energy) / 4
	// savings count at half weight as energy score points
	energyScore := math.Min(maxPercent, current.EnergyScore+energy/2)

	return ProjectedState{
		TotalCarbonReduction:  carbon,
		TotalEnergySaving:     energy,
		NewCarbonFootprint:    math.Max(0, current.CarbonFootprint*(1-carbon/100)),
		NewEnergyScore:        energyScore,
		EnvImprovement:        envImprovement,
		NewEnvironmentalScore: math.Min(maxPercent, current.EnvironmentalScore+envImprovement),
		NewOverallScore:       math.Min(maxPercent, current.OverallScore+envImprovement*EnvironmentalWeight),
	}
}

// CostedAction is a selected retrofit priced per unit area.
type CostedAction struct {
	ID          string  `json:"id"`
	CostPerArea float64 `json:"costPerArea"`
}

// ActionCost is the cost of one action for a given property area.
type ActionCost struct {
	ID                        string  `json:"id"`
	TotalCost                 float64 `json:"totalCost"`
	Affordable                bool    `json:"affordable"`
	AffordableWithinRemaining bool    `json:"affordableWithinRemaining"`
}

// PlanCost is the advisory cost accounting of a plan. OverBudget never blocks a projection.
type PlanCost struct {
	Actions         []ActionCost `json:"actions"`
	Budget          float64      `json:"budget"`
	TotalCost       float64      `json:"totalCost"`
	RemainingBudget float64      `json:"remainingBudget"`
	OverBudget      bool         `json:"overBudget"`
}

// PlanCosts prices the selected actions for a property of area sqm against budget.
func PlanCosts(area, budget float64, actions []CostedAction) PlanCost {
	costs := make([]ActionCost, 0, len(actions))
	var total float64
	for _, a := range actions {
		c := a.CostPerArea * area
		total += c
		costs = append(costs, ActionCost{ID: a.ID, TotalCost: c, Affordable: c <= budget})
	}

	for i := range costs {
		others := total - costs[i].TotalCost
		costs[i].AffordableWithinRemaining = costs[i].TotalCost <= budget-others
	}

	return PlanCost{
		Actions:         costs,
		Budget:          budget,
		TotalCost:       total,
		RemainingBudget: budget - total,
		OverBudget:      total > budget,
	}
}
