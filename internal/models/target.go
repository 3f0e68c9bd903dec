// internal/models/target.go
package models

import "esg-retrofit-workers/internal/esg"

const (
	CategoryEnvironmental = "Environmental"
	CategorySocial        = "Social"
	CategoryGovernance    = "Governance"
)

const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Target is an ESG goal tracked against a regulation or internal policy.
type Target struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	CurrentValue float64 `json:"currentValue"`
	TargetValue  float64 `json:"targetValue"`
	TargetYear   int     `json:"targetYear"`
	Regulation   string  `json:"regulation,omitempty"`
	Priority     string  `json:"priority,omitempty"`
}

func (t Target) Value() esg.TargetValue {
	return esg.TargetValue{Current: t.CurrentValue, Target: t.TargetValue}
}

// TargetProgress is the completion of one target. YearsLeft is negative once the target
// year has passed and zero when no year is set.
type TargetProgress struct {
	Target    Target  `json:"target"`
	Progress  float64 `json:"progress"`
	YearsLeft int     `json:"yearsLeft"`
}
