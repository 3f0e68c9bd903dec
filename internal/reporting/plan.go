// internal/reporting/plan.go
package reporting

import (
	"context"
	"fmt"

	apperrors "esg-retrofit-workers/internal/common/errors"
	"esg-retrofit-workers/internal/common/metrics"
	"esg-retrofit-workers/internal/esg"
	"esg-retrofit-workers/internal/models"
	"esg-retrofit-workers/internal/repository"

	"github.com/google/uuid"
)

type PlanRequest struct {
	PropertyID string
	ActionIDs  []string
	Budget     *float64 // nil selects the default budget
}

// EvaluatePlan projects the selected retrofit actions onto a property and accounts for their
// cost. The budget is advisory: the projection is computed even when the plan exceeds it.
func (s *Service) EvaluatePlan(ctx context.Context, req PlanRequest) (*models.PlanEvaluation, error) {
	budget := s.budget.Default
	if req.Budget != nil {
		budget = *req.Budget
	}
	if budget < s.budget.Min || budget > s.budget.Max {
		return nil, apperrors.NewBudgetOutOfRangeError(budget, s.budget.Min, s.budget.Max)
	}

	property, err := s.portfolio.GetProperty(ctx, req.PropertyID)
	if err != nil {
		return nil, mapLookupError(err, req.PropertyID)
	}
	catalog, err := s.portfolio.ListActions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load retrofit catalog: %w", err)
	}
	actions, err := repository.SelectActions(catalog, req.ActionIDs)
	if err != nil {
		return nil, mapLookupError(err, req.PropertyID)
	}

	impacts := make([]esg.ImpactAction, 0, len(actions))
	costed := make([]esg.CostedAction, 0, len(actions))
	selected := make([]string, 0, len(actions))
	for _, a := range actions {
		impacts = append(impacts, a.Impact())
		costed = append(costed, a.Costed())
		selected = append(selected, a.ID)
	}

	evaluation := &models.PlanEvaluation{
		Plan: models.RetrofitPlan{
			ID:                uuid.New().String(),
			PropertyID:        property.ID,
			Budget:            budget,
			SelectedActionIDs: selected,
		},
		Actions:    actions,
		Projection: esg.ProjectImpact(property.CurrentState(), impacts),
		Cost:       esg.PlanCosts(property.SizeSqm, budget, costed),
	}
	if evaluation.Cost.OverBudget {
		metrics.ESGProjectionsOverBudget.Inc()
		s.logger.Info("retrofit plan exceeds budget", map[string]interface{}{
			"propertyId": property.ID,
			"budget":     budget,
			"totalCost":  evaluation.Cost.TotalCost,
		})
	}
	return evaluation, nil
}
