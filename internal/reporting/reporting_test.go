package reporting

import (
	"context"
	"fmt"
	"testing"
	"time"

	apperrors "esg-retrofit-workers/internal/common/errors"
	"esg-retrofit-workers/internal/common/logger"
	"esg-retrofit-workers/internal/esg"
	"esg-retrofit-workers/internal/models"
	"esg-retrofit-workers/internal/repository"
	"esg-retrofit-workers/internal/repository/synthetic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

type fakePortfolio struct {
	properties []models.Property
	targets    []models.Target
	actions    []models.RetrofitAction
}

func (f *fakePortfolio) ListProperties(ctx context.Context) ([]models.Property, error) {
	return f.properties, nil
}

func (f *fakePortfolio) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	for _, p := range f.properties {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", repository.ErrPropertyNotFound, id)
}

func (f *fakePortfolio) ListTargets(ctx context.Context) ([]models.Target, error) {
	return f.targets, nil
}

func (f *fakePortfolio) ListActions(ctx context.Context) ([]models.RetrofitAction, error) {
	return f.actions, nil
}

func property(t *testing.T, p models.Property) models.Property {
	t.Helper()
	require.NoError(t, p.RefreshScores())
	return p
}

func newService(t *testing.T) *Service {
	t.Helper()
	portfolio := &fakePortfolio{
		properties: []models.Property{
			// scores 68 / 82 / 85 / 75.6
			property(t, models.Property{
				ID: "PROP-001", SizeSqm: 1000, Certification: "BREEAM", CertificationLevel: "Excellent",
				EnergyScore: 80, CarbonFootprint: 100, WaterUsage: 900, WasteRecycling: 60,
				TenantSatisfaction: 90, CommunityImpact: 70, GovernanceCompliance: 85,
			}),
			// scores 28 / 52 / 50 / 39.6
			property(t, models.Property{
				ID: "PROP-002", SizeSqm: 2000, Certification: models.CertificationNone, CertificationLevel: models.CertificationNone,
				EnergyScore: 40, CarbonFootprint: 200, WaterUsage: 1500, WasteRecycling: 20,
				TenantSatisfaction: 60, CommunityImpact: 40, GovernanceCompliance: 50,
			}),
		},
		targets: []models.Target{
			{Name: "Carbon Neutrality", Category: models.CategoryEnvironmental, CurrentValue: 60, TargetValue: 100,
				TargetYear: 2030, Priority: models.PriorityHigh},
			{Name: "Energy Efficiency", Category: models.CategoryEnvironmental, CurrentValue: 40, TargetValue: 80,
				TargetYear: 2027, Priority: models.PriorityMedium},
			{Name: "Tenant Wellbeing", Category: models.CategorySocial, CurrentValue: 57, TargetValue: 95,
				TargetYear: 2026, Priority: models.PriorityHigh},
		},
		actions: synthetic.RetrofitCatalog(),
	}
	svc := NewService(portfolio, BudgetLimits{Default: 100000, Min: 10000, Max: 1000000}, logger.NewTestLogger(t))
	svc.now = func() time.Time { return time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC) }
	return svc
}

// ==========================
// GenerateReport
// ==========================

func TestGenerateReport(t *testing.T) {
	report, err := newService(t).GenerateReport(context.Background(), "GRESB")
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "GRESB", report.Framework)
	assert.Equal(t, models.ReportFrameworks["GRESB"], report.Description)
	assert.Equal(t, 2, report.PropertyCount)
	assert.Equal(t, 1, report.CertifiedCount)
	assert.InDelta(t, 50.0, report.CertificationPercentage, tolerance)

	assert.InDelta(t, 60.0, report.AvgEnergyScore, tolerance)
	assert.InDelta(t, 150.0, report.AvgCarbonFootprint, tolerance)
	assert.InDelta(t, 1200.0, report.AvgWaterUsage, tolerance)
	assert.InDelta(t, 40.0, report.AvgWasteRecycling, tolerance)
	assert.InDelta(t, 48.0, report.AvgEnvironmentalScore, tolerance)
	assert.InDelta(t, 67.0, report.AvgSocialScore, tolerance)
	assert.InDelta(t, 67.5, report.AvgGovernanceScore, tolerance)
	assert.InDelta(t, 57.6, report.AvgOverallScore, tolerance)

	assert.InDelta(t, 100.0/180.0*100, report.CategoryProgress[models.CategoryEnvironmental], tolerance)
	assert.InDelta(t, 60.0, report.CategoryProgress[models.CategorySocial], tolerance)
	assert.NotContains(t, report.CategoryProgress, models.CategoryGovernance)

	summary := Summary(report)
	assert.Contains(t, summary, "GRESB portfolio report")
	assert.Contains(t, summary, "Properties: 2 (1 certified, 50.0%)")
	assert.Contains(t, summary, "Environmental targets: 55.6%")
}

func TestGenerateReport_UnknownFramework(t *testing.T) {
	_, err := newService(t).GenerateReport(context.Background(), "ISO14001")

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeUnknownFramework, stdErr.Code)
}

func TestGenerateReport_EmptyPortfolio(t *testing.T) {
	svc := NewService(&fakePortfolio{}, BudgetLimits{}, nil)

	report, err := svc.GenerateReport(context.Background(), "TCFD")
	require.NoError(t, err)
	assert.Zero(t, report.PropertyCount)
	assert.Zero(t, report.CertificationPercentage)
	assert.Zero(t, report.AvgOverallScore)
	assert.Empty(t, report.CategoryProgress)
}

// ==========================
// TargetProgress
// ==========================

func TestTargetProgress(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	targets := []models.Target{
		{Name: "A", Category: models.CategoryEnvironmental, CurrentValue: 60, TargetValue: 100,
			TargetYear: 2030, Priority: models.PriorityHigh},
		{Name: "B", Category: models.CategoryEnvironmental, CurrentValue: 40, TargetValue: 80,
			TargetYear: 2025, Priority: models.PriorityLow},
		{Name: "C", Category: models.CategoryGovernance, CurrentValue: 120, TargetValue: 100,
			TargetYear: 2023, Priority: models.PriorityHigh},
	}

	t.Run("all categories", func(t *testing.T) {
		summary, err := TargetProgress(targets, TargetFilter{}, now)
		require.NoError(t, err)

		require.Len(t, summary.Targets, 3)
		assert.InDelta(t, 60.0, summary.Targets[0].Progress, tolerance)
		assert.InDelta(t, 50.0, summary.Targets[1].Progress, tolerance)
		assert.InDelta(t, 120.0, summary.Targets[2].Progress, tolerance)
		assert.InDelta(t, 55.5555555556, summary.Categories[models.CategoryEnvironmental], 1e-6)
		assert.InDelta(t, 120.0, summary.Categories[models.CategoryGovernance], tolerance)
	})

	t.Run("zero target value is undefined", func(t *testing.T) {
		_, err := TargetProgress([]models.Target{{Name: "Z", Category: "Social", CurrentValue: 10}}, TargetFilter{}, now)
		require.ErrorIs(t, err, esg.ErrDivisionUndefined)
		assert.Contains(t, err.Error(), `"Z"`)
	})
}

func TestTargetProgress_Filters(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	targets := []models.Target{
		{Name: "A", Category: models.CategoryEnvironmental, CurrentValue: 60, TargetValue: 100, Priority: models.PriorityHigh},
		{Name: "B", Category: models.CategoryEnvironmental, CurrentValue: 40, TargetValue: 80, Priority: models.PriorityLow},
		{Name: "C", Category: models.CategoryGovernance, CurrentValue: 120, TargetValue: 100, Priority: models.PriorityHigh},
	}

	tests := []struct {
		name       string
		filter     TargetFilter
		names      []string
		categories map[string]float64
		undefined  bool
	}{
		{
			name:       "category only",
			filter:     TargetFilter{Category: models.CategoryGovernance},
			names:      []string{"C"},
			categories: map[string]float64{models.CategoryGovernance: 120},
		},
		{
			name:   "priority only",
			filter: TargetFilter{Priority: models.PriorityHigh},
			names:  []string{"A", "C"},
			categories: map[string]float64{
				models.CategoryEnvironmental: 60,
				models.CategoryGovernance:    120,
			},
		},
		{
			name:       "category and priority",
			filter:     TargetFilter{Category: models.CategoryEnvironmental, Priority: models.PriorityLow},
			names:      []string{"B"},
			categories: map[string]float64{models.CategoryEnvironmental: 50},
		},
		{
			name:       "priority with no match",
			filter:     TargetFilter{Priority: models.PriorityMedium},
			names:      []string{},
			categories: map[string]float64{},
		},
		{
			name:      "empty category is undefined",
			filter:    TargetFilter{Category: models.CategorySocial},
			undefined: true,
		},
		{
			name:      "category emptied by priority is undefined",
			filter:    TargetFilter{Category: models.CategoryGovernance, Priority: models.PriorityLow},
			undefined: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := TargetProgress(targets, tt.filter, now)
			if tt.undefined {
				assert.ErrorIs(t, err, esg.ErrDivisionUndefined)
				return
			}
			require.NoError(t, err)

			names := make([]string, 0, len(summary.Targets))
			for _, tp := range summary.Targets {
				names = append(names, tp.Target.Name)
			}
			assert.Equal(t, tt.names, names)
			require.Len(t, summary.Categories, len(tt.categories))
			for c, want := range tt.categories {
				assert.InDelta(t, want, summary.Categories[c], tolerance, c)
			}
		})
	}
}

func TestTargetProgress_YearsLeft(t *testing.T) {
	now := time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		year      int
		yearsLeft int
	}{
		{"future year", 2030, 5},
		{"current year", 2025, 0},
		{"past year", 2022, -3},
		{"no year set", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := TargetProgress([]models.Target{{
				Name: "T", Category: models.CategorySocial, CurrentValue: 1, TargetValue: 2, TargetYear: tt.year,
			}}, TargetFilter{}, now)
			require.NoError(t, err)
			require.Len(t, summary.Targets, 1)
			assert.Equal(t, tt.yearsLeft, summary.Targets[0].YearsLeft)
		})
	}
}

func TestService_Progress_UsesServiceClock(t *testing.T) {
	svc := newService(t)
	targets, err := svc.CatalogTargets(context.Background(), TargetFilter{Priority: models.PriorityHigh})
	require.NoError(t, err)

	summary, err := svc.Progress(targets, TargetFilter{Priority: models.PriorityHigh})
	require.NoError(t, err)

	require.Len(t, summary.Targets, 2)
	assert.Equal(t, "Carbon Neutrality", summary.Targets[0].Target.Name)
	assert.Equal(t, 5, summary.Targets[0].YearsLeft)
	assert.Equal(t, "Tenant Wellbeing", summary.Targets[1].Target.Name)
	assert.Equal(t, 1, summary.Targets[1].YearsLeft)
}

func TestCatalogTargets(t *testing.T) {
	tests := []struct {
		name   string
		filter TargetFilter
		count  int
	}{
		{"no filter", TargetFilter{}, 3},
		{"category", TargetFilter{Category: models.CategoryEnvironmental}, 2},
		{"priority", TargetFilter{Priority: models.PriorityHigh}, 2},
		{"category and priority", TargetFilter{Category: models.CategoryEnvironmental, Priority: models.PriorityMedium}, 1},
		{"no match", TargetFilter{Priority: models.PriorityLow}, 0},
	}

	svc := newService(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			targets, err := svc.CatalogTargets(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Len(t, targets, tt.count)
		})
	}
}

// ==========================
// EvaluatePlan
// ==========================

func TestEvaluatePlan(t *testing.T) {
	svc := newService(t)

	evaluation, err := svc.EvaluatePlan(context.Background(), PlanRequest{
		PropertyID: "PROP-001",
		ActionIDs:  []string{"retrofit_3", "retrofit_1"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, evaluation.Plan.ID)
	assert.Equal(t, 100000.0, evaluation.Plan.Budget)
	assert.Equal(t, []string{"retrofit_1", "retrofit_3"}, evaluation.Plan.SelectedActionIDs)

	// HVAC 20/30 + LED 5/10
	assert.InDelta(t, 25.0, evaluation.Projection.TotalCarbonReduction, tolerance)
	assert.InDelta(t, 40.0, evaluation.Projection.TotalEnergySaving, tolerance)
	assert.InDelta(t, 75.0, evaluation.Projection.NewCarbonFootprint, tolerance)
	assert.InDelta(t, 100.0, evaluation.Projection.NewEnergyScore, tolerance)
	assert.InDelta(t, 16.25, evaluation.Projection.EnvImprovement, tolerance)
	assert.InDelta(t, 84.25, evaluation.Projection.NewEnvironmentalScore, tolerance)
	assert.InDelta(t, 83.725, evaluation.Projection.NewOverallScore, tolerance)

	// 80 + 15 EUR/sqm over 1000 sqm
	assert.InDelta(t, 95000.0, evaluation.Cost.TotalCost, tolerance)
	assert.InDelta(t, 5000.0, evaluation.Cost.RemainingBudget, tolerance)
	assert.False(t, evaluation.Cost.OverBudget)
}

func TestEvaluatePlan_OverBudgetStillProjects(t *testing.T) {
	budget := 10000.0
	evaluation, err := newService(t).EvaluatePlan(context.Background(), PlanRequest{
		PropertyID: "PROP-002",
		ActionIDs:  []string{"retrofit_0"},
		Budget:     &budget,
	})
	require.NoError(t, err)

	assert.True(t, evaluation.Cost.OverBudget)
	assert.InDelta(t, 240000.0, evaluation.Cost.TotalCost, tolerance)
	assert.InDelta(t, -230000.0, evaluation.Cost.RemainingBudget, tolerance)
	assert.InDelta(t, 30.0, evaluation.Projection.TotalCarbonReduction, tolerance)
	assert.False(t, evaluation.Cost.Actions[0].Affordable)
}

func TestEvaluatePlan_Errors(t *testing.T) {
	tooHigh := 5000000.0

	tests := []struct {
		name         string
		req          PlanRequest
		expectedCode apperrors.ErrorCode
	}{
		{"budget out of range", PlanRequest{PropertyID: "PROP-001", Budget: &tooHigh}, apperrors.ErrCodeBudgetOutOfRange},
		{"unknown property", PlanRequest{PropertyID: "PROP-404"}, apperrors.ErrCodePropertyNotFound},
		{"unknown action", PlanRequest{PropertyID: "PROP-001", ActionIDs: []string{"retrofit_99"}}, apperrors.ErrCodeUnknownRetrofit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newService(t).EvaluatePlan(context.Background(), tt.req)

			var stdErr *apperrors.StandardError
			require.ErrorAs(t, err, &stdErr)
			assert.Equal(t, tt.expectedCode, stdErr.Code)
		})
	}
}
