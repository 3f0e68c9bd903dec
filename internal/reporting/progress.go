// internal/reporting/progress.go
package reporting

import (
	"context"
	"fmt"
	"time"

	"esg-retrofit-workers/internal/esg"
	"esg-retrofit-workers/internal/models"
)

// ProgressSummary is per-target progress plus the sum-ratio progress of each category.
type ProgressSummary struct {
	Targets    []models.TargetProgress `json:"targets"`
	Categories map[string]float64      `json:"categoryProgress"`
}

// TargetFilter restricts targets by category and priority. Empty fields match everything.
type TargetFilter struct {
	Category string
	Priority string
}

func (f TargetFilter) matches(t models.Target) bool {
	return (f.Category == "" || t.Category == f.Category) &&
		(f.Priority == "" || t.Priority == f.Priority)
}

func (f TargetFilter) apply(targets []models.Target) []models.Target {
	if f.Category == "" && f.Priority == "" {
		return targets
	}
	out := make([]models.Target, 0, len(targets))
	for _, t := range targets {
		if f.matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// CatalogTargets returns the repository targets matching the filter.
func (s *Service) CatalogTargets(ctx context.Context, filter TargetFilter) ([]models.Target, error) {
	targets, err := s.portfolio.ListTargets(ctx)
	if err != nil {
		return nil, fmt.Errorf("load targets: %w", err)
	}
	return filter.apply(targets), nil
}

// Progress is TargetProgress evaluated against the service clock.
func (s *Service) Progress(targets []models.Target, filter TargetFilter) (*ProgressSummary, error) {
	return TargetProgress(targets, filter, s.now())
}

// TargetProgress computes progress for the targets matching filter. YearsLeft counts from
// now's year. Any zero target value, or a requested category with no matching targets,
// fails with esg.ErrDivisionUndefined.
func TargetProgress(targets []models.Target, filter TargetFilter, now time.Time) (*ProgressSummary, error) {
	targets = filter.apply(targets)

	summary := &ProgressSummary{
		Targets:    make([]models.TargetProgress, 0, len(targets)),
		Categories: map[string]float64{},
	}
	for _, t := range targets {
		progress, err := esg.TargetProgress(t.CurrentValue, t.TargetValue)
		if err != nil {
			return nil, fmt.Errorf("target %q: %w", t.Name, err)
		}
		tp := models.TargetProgress{Target: t, Progress: progress}
		if t.TargetYear > 0 {
			tp.YearsLeft = t.TargetYear - now.Year()
		}
		summary.Targets = append(summary.Targets, tp)
	}

	groups := groupByCategory(targets)
	if filter.Category != "" {
		if _, ok := groups[filter.Category]; !ok {
			groups[filter.Category] = nil
		}
	}
	for c, values := range groups {
		progress, err := esg.CategoryProgress(values)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", c, err)
		}
		summary.Categories[c] = progress
	}
	return summary, nil
}

func groupByCategory(targets []models.Target) map[string][]esg.TargetValue {
	groups := make(map[string][]esg.TargetValue)
	for _, t := range targets {
		groups[t.Category] = append(groups[t.Category], t.Value())
	}
	return groups
}
