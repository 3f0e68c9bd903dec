// internal/esg/esg_test.go
package esg

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

// ==========================
// Score Calculator
// ==========================

func TestComputeScores_ReferenceProperty(t *testing.T) {
	scores, err := ComputeScores(NewMetrics(80, 100, 60, 90, 70, 85))

	require.NoError(t, err)
	assert.InDelta(t, 68.0, scores.Environmental, tolerance)
	assert.InDelta(t, 82.0, scores.Social, tolerance)
	assert.InDelta(t, 85.0, scores.Governance, tolerance)
	assert.InDelta(t, 75.6, scores.Overall, tolerance)
}

func TestComputeScores_OverallIsWeightedSum(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		m := NewMetrics(
			rng.Float64()*100,
			rng.Float64()*400,
			rng.Float64()*100,
			rng.Float64()*100,
			rng.Float64()*100,
			rng.Float64()*100,
		)

		scores, err := ComputeScores(m)
		require.NoError(t, err)

		expected := scores.Environmental*0.5 + scores.Social*0.3 + scores.Governance*0.2
		assert.InDelta(t, expected, scores.Overall, tolerance)
		assert.Equal(t, *m.GovernanceCompliance, scores.Governance)
	}
}

func TestComputeScores_Deterministic(t *testing.T) {
	m := NewMetrics(55, 180, 40, 72, 64, 91)

	first, err := ComputeScores(m)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := ComputeScores(m)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestComputeScores_Unclamped(t *testing.T) {
	tests := []struct {
		name     string
		metrics  Metrics
		expected float64
	}{
		{
			name:     "very high carbon drives environmental below zero",
			metrics:  NewMetrics(0, 1000, 0, 50, 50, 50),
			expected: (100 - 400) * 0.4,
		},
		{
			name:     "zero carbon with perfect inputs reaches the ceiling",
			metrics:  NewMetrics(100, 0, 100, 100, 100, 100),
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores, err := ComputeScores(tt.metrics)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, scores.Environmental, tolerance)
		})
	}
}

func TestComputeScores_MissingMetric(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *Metrics)
		missing string
	}{
		{"energy", func(m *Metrics) { m.EnergyScore = nil }, "energyScore"},
		{"carbon", func(m *Metrics) { m.CarbonFootprint = nil }, "carbonFootprint"},
		{"recycling", func(m *Metrics) { m.WasteRecycling = nil }, "wasteRecycling"},
		{"tenant", func(m *Metrics) { m.TenantSatisfaction = nil }, "tenantSatisfaction"},
		{"community", func(m *Metrics) { m.CommunityImpact = nil }, "communityImpact"},
		{"governance", func(m *Metrics) { m.GovernanceCompliance = nil }, "governanceCompliance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMetrics(80, 100, 60, 90, 70, 85)
			tt.mutate(&m)

			_, err := ComputeScores(m)

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingMetric))

			var missing *MissingMetricError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, tt.missing, missing.Field)
		})
	}
}

// ==========================
// Retrofit Impact Projector
// ==========================

func referenceState() CurrentState {
	return CurrentState{
		CarbonFootprint:    100,
		EnergyScore:        50,
		EnvironmentalScore: 68,
		OverallScore:       75.6,
	}
}

func TestProjectImpact_TwoActions(t *testing.T) {
	projected := ProjectImpact(referenceState(), []ImpactAction{
		{CarbonReduction: 20, EnergySaving: 25},
		{CarbonReduction: 15, EnergySaving: 10},
	})

	assert.InDelta(t, 35.0, projected.TotalCarbonReduction, tolerance)
	assert.InDelta(t, 35.0, projected.TotalEnergySaving, tolerance)
	assert.InDelta(t, 65.0, projected.NewCarbonFootprint, tolerance)
	assert.InDelta(t, 67.5, projected.NewEnergyScore, tolerance)
	assert.InDelta(t, 17.5, projected.EnvImprovement, tolerance)
	assert.InDelta(t, 85.5, projected.NewEnvironmentalScore, tolerance)
	assert.InDelta(t, 84.35, projected.NewOverallScore, tolerance)
}

func TestProjectImpact_EmptySelectionIsIdentity(t *testing.T) {
	current := referenceState()

	for _, actions := range [][]ImpactAction{nil, {}} {
		projected := ProjectImpact(current, actions)

		assert.Zero(t, projected.TotalCarbonReduction)
		assert.Zero(t, projected.TotalEnergySaving)
		assert.Zero(t, projected.EnvImprovement)
		assert.InDelta(t, current.CarbonFootprint, projected.NewCarbonFootprint, tolerance)
		assert.InDelta(t, current.EnergyScore, projected.NewEnergyScore, tolerance)
		assert.InDelta(t, current.EnvironmentalScore, projected.NewEnvironmentalScore, tolerance)
		assert.InDelta(t, current.OverallScore, projected.NewOverallScore, tolerance)
	}
}

func TestProjectImpact_AggregatesCapAtHundred(t *testing.T) {
	actions := make([]ImpactAction, 5)
	for i := range actions {
		actions[i] = ImpactAction{CarbonReduction: 30, EnergySaving: 30}
	}

	projected := ProjectImpact(referenceState(), actions)

	assert.Equal(t, 100.0, projected.TotalCarbonReduction)
	assert.Equal(t, 100.0, projected.TotalEnergySaving)
	assert.Equal(t, 0.0, projected.NewCarbonFootprint)
	assert.Equal(t, 100.0, projected.NewEnergyScore)
	assert.Equal(t, 50.0, projected.EnvImprovement)
	assert.Equal(t, 100.0, projected.NewEnvironmentalScore)
	assert.Equal(t, 100.0, projected.NewOverallScore)
}

func TestProjectImpact_DoesNotMutateInput(t *testing.T) {
	current := referenceState()
	actions := []ImpactAction{{CarbonReduction: 20, EnergySaving: 25}}

	_ = ProjectImpact(current, actions)

	assert.Equal(t, referenceState(), current)
	assert.Equal(t, []ImpactAction{{CarbonReduction: 20, EnergySaving: 25}}, actions)
}

func TestPlanCosts(t *testing.T) {
	tests := []struct {
		name              string
		area              float64
		budget            float64
		actions           []CostedAction
		expectedTotal     float64
		expectedRemaining float64
		expectedOver      bool
		validate          func(t *testing.T, cost PlanCost)
	}{
		{
			name:              "empty plan keeps the whole budget",
			area:              1000,
			budget:            100000,
			expectedTotal:     0,
			expectedRemaining: 100000,
		},
		{
			name:   "within budget",
			area:   2000,
			budget: 100000,
			actions: []CostedAction{
				{ID: "retrofit_3", CostPerArea: 15},
				{ID: "retrofit_7", CostPerArea: 10},
			},
			expectedTotal:     50000,
			expectedRemaining: 50000,
			validate: func(t *testing.T, cost PlanCost) {
				require.Len(t, cost.Actions, 2)
				assert.Equal(t, 30000.0, cost.Actions[0].TotalCost)
				assert.True(t, cost.Actions[0].Affordable)
				assert.True(t, cost.Actions[0].AffordableWithinRemaining)
			},
		},
		{
			name:   "over budget is reported, not rejected",
			area:   1000,
			budget: 100000,
			actions: []CostedAction{
				{ID: "retrofit_0", CostPerArea: 120},
				{ID: "retrofit_1", CostPerArea: 80},
			},
			expectedTotal:     200000,
			expectedRemaining: -100000,
			expectedOver:      true,
			validate: func(t *testing.T, cost PlanCost) {
				assert.False(t, cost.Actions[0].Affordable)
				assert.True(t, cost.Actions[1].Affordable)
				assert.False(t, cost.Actions[1].AffordableWithinRemaining)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost := PlanCosts(tt.area, tt.budget, tt.actions)

			assert.InDelta(t, tt.expectedTotal, cost.TotalCost, tolerance)
			assert.InDelta(t, tt.expectedRemaining, cost.RemainingBudget, tolerance)
			assert.Equal(t, tt.expectedOver, cost.OverBudget)
			assert.Equal(t, tt.budget, cost.Budget)
			if tt.validate != nil {
				tt.validate(t, cost)
			}
		})
	}
}

// ==========================
// Target Progress
// ==========================

func TestTargetProgress(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		target   float64
		expected float64
	}{
		{"partial", 60, 100, 60},
		{"complete", 90, 90, 100},
		{"exceeded stays above hundred", 150, 100, 150},
		{"zero current", 0, 80, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			progress, err := TargetProgress(tt.current, tt.target)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, progress, tolerance)
		})
	}
}

func TestTargetProgress_ZeroTarget(t *testing.T) {
	progress, err := TargetProgress(50, 0)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDivisionUndefined))
	assert.False(t, math.IsInf(progress, 0))
	assert.False(t, math.IsNaN(progress))
}

func TestCategoryProgress_SumRatio(t *testing.T) {
	targets := []TargetValue{
		{Current: 60, Target: 100},
		{Current: 40, Target: 80},
	}

	progress, err := CategoryProgress(targets)

	require.NoError(t, err)
	assert.InDelta(t, 100.0/180.0*100, progress, tolerance)
	assert.InDelta(t, 55.56, progress, 0.005)

	var meanOfPercentages float64
	for _, tv := range targets {
		p, err := TargetProgress(tv.Current, tv.Target)
		require.NoError(t, err)
		meanOfPercentages += p / float64(len(targets))
	}
	assert.InDelta(t, 55.0, meanOfPercentages, tolerance)
	assert.NotEqual(t, meanOfPercentages, progress)
}

func TestCategoryProgress_ZeroDenominator(t *testing.T) {
	tests := []struct {
		name    string
		targets []TargetValue
	}{
		{"empty category", nil},
		{"all zero targets", []TargetValue{{Current: 10, Target: 0}, {Current: 5, Target: 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CategoryProgress(tt.targets)
			assert.True(t, errors.Is(err, ErrDivisionUndefined))
		})
	}
}

// ==========================
// Benchmarks
// ==========================

func BenchmarkComputeScores(b *testing.B) {
	m := NewMetrics(80, 100, 60, 90, 70, 85)
	for i := 0; i < b.N; i++ {
		_, _ = ComputeScores(m)
	}
}

func BenchmarkProjectImpact(b *testing.B) {
	current := referenceState()
	actions := []ImpactAction{
		{CarbonReduction: 30, EnergySaving: 25},
		{CarbonReduction: 20, EnergySaving: 30},
		{CarbonReduction: 5, EnergySaving: 10},
	}
	for i := 0; i < b.N; i++ {
		_ = ProjectImpact(current, actions)
	}
}
