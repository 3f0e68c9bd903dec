// internal/models/property.go
package models

import "esg-retrofit-workers/internal/esg"

const CertificationNone = "None"

// Property is one real-estate asset with its raw ESG metrics.
// Scores are derived from the raw metrics and refreshed with RefreshScores.
type Property struct {
	ID                 string  `json:"propertyId"`
	Name               string  `json:"name"`
	Type               string  `json:"type"`
	City               string  `json:"city"`
	SizeSqm            float64 `json:"sizeSqm"`
	YearBuilt          int     `json:"yearBuilt"`
	Certification      string  `json:"certification"`
	CertificationLevel string  `json:"certificationLevel"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`

	EnergyScore          float64 `json:"energyScore"`
	CarbonFootprint      float64 `json:"carbonFootprint"`
	WaterUsage           float64 `json:"waterUsage"`
	WasteRecycling       float64 `json:"wasteRecycling"`
	TenantSatisfaction   float64 `json:"tenantSatisfaction"`
	CommunityImpact      float64 `json:"communityImpact"`
	GovernanceCompliance float64 `json:"governanceCompliance"`

	Scores esg.Scores `json:"scores"`
}

// Metrics returns the raw score inputs of the property.
func (p *Property) Metrics() esg.Metrics {
	return esg.NewMetrics(
		p.EnergyScore,
		p.CarbonFootprint,
		p.WasteRecycling,
		p.TenantSatisfaction,
		p.CommunityImpact,
		p.GovernanceCompliance,
	)
}

// RefreshScores recomputes Scores from the raw metrics.
func (p *Property) RefreshScores() error {
	scores, err := esg.ComputeScores(p.Metrics())
	if err != nil {
		return err
	}
	p.Scores = scores
	return nil
}

// CurrentState is the projector view of the property.
func (p *Property) CurrentState() esg.CurrentState {
	return esg.CurrentState{
		CarbonFootprint:    p.CarbonFootprint,
		EnergyScore:        p.EnergyScore,
		EnvironmentalScore: p.Scores.Environmental,
		OverallScore:       p.Scores.Overall,
	}
}

// IsCertified reports whether the property holds any green building certification.
func (p *Property) IsCertified() bool {
	return p.Certification != "" && p.Certification != CertificationNone
}
