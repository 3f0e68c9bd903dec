// Package reporting aggregates the portfolio: framework reports, target progress and
// retrofit plan evaluation on top of the engine.
package reporting

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	apperrors "esg-retrofit-workers/internal/common/errors"
	"esg-retrofit-workers/internal/common/logger"
	"esg-retrofit-workers/internal/esg"
	"esg-retrofit-workers/internal/models"
	"esg-retrofit-workers/internal/repository"

	"github.com/google/uuid"
)

// BudgetLimits bounds retrofit plan budgets.
type BudgetLimits struct {
	Default float64
	Min     float64
	Max     float64
}

type Service struct {
	portfolio repository.Portfolio
	budget    BudgetLimits
	logger    logger.Logger
	now       func() time.Time
}

func NewService(portfolio repository.Portfolio, budget BudgetLimits, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Service{
		portfolio: portfolio,
		budget:    budget,
		logger:    log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// GenerateReport aggregates every property of the portfolio for one reporting framework.
// An empty portfolio yields zero averages.
func (s *Service) GenerateReport(ctx context.Context, framework string) (*models.PortfolioReport, error) {
	description, ok := models.ReportFrameworks[framework]
	if !ok {
		return nil, apperrors.NewUnknownFrameworkError(framework)
	}

	properties, err := s.portfolio.ListProperties(ctx)
	if err != nil {
		return nil, fmt.Errorf("load properties: %w", err)
	}
	targets, err := s.portfolio.ListTargets(ctx)
	if err != nil {
		return nil, fmt.Errorf("load targets: %w", err)
	}

	report := &models.PortfolioReport{
		ID:               uuid.New().String(),
		Framework:        framework,
		Description:      description,
		PropertyCount:    len(properties),
		CategoryProgress: map[string]float64{},
		GeneratedAt:      s.now(),
	}

	var sum models.PortfolioReport
	for _, p := range properties {
		if p.IsCertified() {
			report.CertifiedCount++
		}
		sum.AvgEnergyScore += p.EnergyScore
		sum.AvgCarbonFootprint += p.CarbonFootprint
		sum.AvgWaterUsage += p.WaterUsage
		sum.AvgWasteRecycling += p.WasteRecycling
		sum.AvgEnvironmentalScore += p.Scores.Environmental
		sum.AvgSocialScore += p.Scores.Social
		sum.AvgGovernanceScore += p.Scores.Governance
		sum.AvgOverallScore += p.Scores.Overall
	}
	if n := float64(len(properties)); n > 0 {
		report.CertificationPercentage = float64(report.CertifiedCount) / n * 100
		report.AvgEnergyScore = sum.AvgEnergyScore / n
		report.AvgCarbonFootprint = sum.AvgCarbonFootprint / n
		report.AvgWaterUsage = sum.AvgWaterUsage / n
		report.AvgWasteRecycling = sum.AvgWasteRecycling / n
		report.AvgEnvironmentalScore = sum.AvgEnvironmentalScore / n
		report.AvgSocialScore = sum.AvgSocialScore / n
		report.AvgGovernanceScore = sum.AvgGovernanceScore / n
		report.AvgOverallScore = sum.AvgOverallScore / n
	}

	for category, values := range groupByCategory(targets) {
		progress, err := esg.CategoryProgress(values)
		if err != nil {
			s.logger.Warn("category progress skipped", map[string]interface{}{
				"category": category,
				"error":    err.Error(),
			})
			continue
		}
		report.CategoryProgress[category] = progress
	}

	return report, nil
}

// Summary renders a report as plain text for notifications.
func Summary(r *models.PortfolioReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s portfolio report %s\n", r.Framework, r.ID)
	fmt.Fprintf(&b, "%s\n\n", r.Description)
	fmt.Fprintf(&b, "Properties: %d (%d certified, %.1f%%)\n", r.PropertyCount, r.CertifiedCount, r.CertificationPercentage)
	fmt.Fprintf(&b, "Average ESG score: %.1f (E %.1f / S %.1f / G %.1f)\n",
		r.AvgOverallScore, r.AvgEnvironmentalScore, r.AvgSocialScore, r.AvgGovernanceScore)
	fmt.Fprintf(&b, "Energy score %.1f, carbon %.1f kgCO2e/sqm/yr, water %.0f L/sqm/yr, recycling %.1f%%\n",
		r.AvgEnergyScore, r.AvgCarbonFootprint, r.AvgWaterUsage, r.AvgWasteRecycling)

	categories := make([]string, 0, len(r.CategoryProgress))
	for c := range r.CategoryProgress {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		fmt.Fprintf(&b, "%s targets: %.1f%%\n", c, r.CategoryProgress[c])
	}
	fmt.Fprintf(&b, "Generated at %s\n", r.GeneratedAt.Format(time.RFC3339))
	return b.String()
}

// mapLookupError turns repository lookup failures into StandardErrors.
func mapLookupError(err error, propertyID string) error {
	var unknown *repository.UnknownActionError
	switch {
	case errors.Is(err, repository.ErrPropertyNotFound):
		return apperrors.NewPropertyNotFoundError(propertyID)
	case errors.As(err, &unknown):
		return apperrors.NewUnknownRetrofitError(unknown.ID)
	default:
		return err
	}
}
