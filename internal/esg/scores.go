// internal/esg/scores.go

// Package esg holds the scoring and retrofit-impact model. Every function is pure:
// no I/O, no shared state, safe to call from any number of goroutines.
package esg

// Metrics are the raw per-property inputs of the score calculator.
// A nil field means the metric was not supplied.
type Metrics struct {
	EnergyScore          *float64 `json:"energyScore,omitempty"`
	CarbonFootprint      *float64 `json:"carbonFootprint,omitempty"`
	WasteRecycling       *float64 `json:"wasteRecycling,omitempty"`
	TenantSatisfaction   *float64 `json:"tenantSatisfaction,omitempty"`
	CommunityImpact      *float64 `json:"communityImpact,omitempty"`
	GovernanceCompliance *float64 `json:"governanceCompliance,omitempty"`
}

// Scores are the composite pillar scores. They are not clamped to [0,100].
type Scores struct {
	Environmental float64 `json:"environmentalScore"`
	Social        float64 `json:"socialScore"`
	Governance    float64 `json:"governanceScore"`
	Overall       float64 `json:"overallScore"`
}

// Pillar weights of the overall score.
const (
	EnvironmentalWeight = 0.5
	SocialWeight        = 0.3
	GovernanceWeight    = 0.2
)

// NewMetrics builds a fully populated Metrics value.
func NewMetrics(energy, carbon, recycling, tenant, community, governance float64) Metrics {
	return Metrics{
		EnergyScore:          Value(energy),
		CarbonFootprint:      Value(carbon),
		WasteRecycling:       Value(recycling),
		TenantSatisfaction:   Value(tenant),
		CommunityImpact:      Value(community),
		GovernanceCompliance: Value(governance),
	}
}

// Value returns a pointer to v.
func Value(v float64) *float64 {
	return &v
}

// ComputeScores derives the environmental, social, governance and overall scores.
func ComputeScores(m Metrics) (Scores, error) {
	fields := []struct {
		name  string
		value *float64
	}{
		{"energyScore", m.EnergyScore},
		{"carbonFootprint", m.CarbonFootprint},
		{"wasteRecycling", m.WasteRecycling},
		{"tenantSatisfaction", m.TenantSatisfaction},
		{"communityImpact", m.CommunityImpact},
		{"governanceCompliance", m.GovernanceCompliance},
	}
	for _, f := range fields {
		if f.value == nil {
			return Scores{}, &MissingMetricError{Field: f.name}
		}
	}

	environmental := *m.EnergyScore*0.4 + (100-*m.CarbonFootprint/2.5)*0.4 + *m.WasteRecycling*0.2
	social := *m.TenantSatisfaction*0.6 + *m.CommunityImpact*0.4
	governance := *m.GovernanceCompliance

	return Scores{
		Environmental: environmental,
		Social:        social,
		Governance:    governance,
		Overall:       Overall(environmental, social, governance),
	}, nil
}

// Overall combines pillar scores with the fixed 50/30/20 weighting.
func Overall(environmental, social, governance float64) float64 {
	return environmental*EnvironmentalWeight + social*SocialWeight + governance*GovernanceWeight
}
