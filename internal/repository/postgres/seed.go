// internal/repository/postgres/seed.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	apperrors "esg-retrofit-workers/internal/common/errors"
	"esg-retrofit-workers/internal/models"
)

const upsertProperty = `
	INSERT INTO properties (` + propertyColumns + `, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, now())
	ON CONFLICT (property_id) DO UPDATE SET
		name = EXCLUDED.name,
		property_type = EXCLUDED.property_type,
		city = EXCLUDED.city,
		size_sqm = EXCLUDED.size_sqm,
		year_built = EXCLUDED.year_built,
		certification = EXCLUDED.certification,
		certification_level = EXCLUDED.certification_level,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		energy_score = EXCLUDED.energy_score,
		carbon_footprint = EXCLUDED.carbon_footprint,
		water_usage = EXCLUDED.water_usage,
		waste_recycling = EXCLUDED.waste_recycling,
		tenant_satisfaction = EXCLUDED.tenant_satisfaction,
		community_impact = EXCLUDED.community_impact,
		governance_compliance = EXCLUDED.governance_compliance,
		updated_at = now()`

const upsertTarget = `
	INSERT INTO esg_targets (name, category, current_value, target_value, target_year, regulation, priority)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (name) DO UPDATE SET
		category = EXCLUDED.category,
		current_value = EXCLUDED.current_value,
		target_value = EXCLUDED.target_value,
		target_year = EXCLUDED.target_year,
		regulation = EXCLUDED.regulation,
		priority = EXCLUDED.priority`

const upsertAction = `
	INSERT INTO retrofit_actions (action_id, name, category, cost_per_sqm, roi_years,
		carbon_reduction, energy_saving, implementation_months, complexity)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (action_id) DO UPDATE SET
		name = EXCLUDED.name,
		category = EXCLUDED.category,
		cost_per_sqm = EXCLUDED.cost_per_sqm,
		roi_years = EXCLUDED.roi_years,
		carbon_reduction = EXCLUDED.carbon_reduction,
		energy_saving = EXCLUDED.energy_saving,
		implementation_months = EXCLUDED.implementation_months,
		complexity = EXCLUDED.complexity`

// SaveProperties upserts properties in one transaction.
func (s *Store) SaveProperties(ctx context.Context, properties []models.Property) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, p := range properties {
			if _, err := tx.ExecContext(ctx, upsertProperty,
				p.ID, p.Name, p.Type, p.City, p.SizeSqm, p.YearBuilt,
				p.Certification, p.CertificationLevel, p.Latitude, p.Longitude,
				p.EnergyScore, p.CarbonFootprint, p.WaterUsage, p.WasteRecycling,
				p.TenantSatisfaction, p.CommunityImpact, p.GovernanceCompliance,
			); err != nil {
				return fmt.Errorf("upsert property %s: %w", p.ID, err)
			}
		}
		return nil
	})
}

func (s *Store) SaveTargets(ctx context.Context, targets []models.Target) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, t := range targets {
			if _, err := tx.ExecContext(ctx, upsertTarget,
				t.Name, t.Category, t.CurrentValue, t.TargetValue, t.TargetYear, t.Regulation, t.Priority,
			); err != nil {
				return fmt.Errorf("upsert target %s: %w", t.Name, err)
			}
		}
		return nil
	})
}

func (s *Store) SaveActions(ctx context.Context, actions []models.RetrofitAction) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, a := range actions {
			if _, err := tx.ExecContext(ctx, upsertAction,
				a.ID, a.Name, a.Category, a.CostPerSqm, a.ROIYears,
				a.CarbonReduction, a.EnergySaving, a.ImplementationMonths, a.Complexity,
			); err != nil {
				return fmt.Errorf("upsert action %s: %w", a.ID, err)
			}
		}
		return nil
	})
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewDatabaseQueryFailedError(err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return apperrors.NewDatabaseQueryFailedError(err)
	}
	if err := tx.Commit(); err != nil {
		return apperrors.NewDatabaseQueryFailedError(err)
	}
	return nil
}
