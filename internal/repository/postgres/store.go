// Package postgres stores the portfolio in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "esg-retrofit-workers/internal/common/errors"
	"esg-retrofit-workers/internal/models"
	"esg-retrofit-workers/internal/repository"
)

// Store reads and writes properties, targets and retrofit actions. Scores are never stored;
// they are recomputed from the raw metrics on every read.
type Store struct {
	db *sql.DB
}

var _ repository.Portfolio = (*Store)(nil)

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS properties (
		property_id           TEXT PRIMARY KEY,
		name                  TEXT NOT NULL,
		property_type         TEXT NOT NULL,
		city                  TEXT NOT NULL,
		size_sqm              DOUBLE PRECISION NOT NULL,
		year_built            INTEGER NOT NULL,
		certification         TEXT NOT NULL DEFAULT 'None',
		certification_level   TEXT NOT NULL DEFAULT 'None',
		latitude              DOUBLE PRECISION NOT NULL,
		longitude             DOUBLE PRECISION NOT NULL,
		energy_score          DOUBLE PRECISION NOT NULL,
		carbon_footprint      DOUBLE PRECISION NOT NULL CHECK (carbon_footprint >= 0),
		water_usage           DOUBLE PRECISION NOT NULL,
		waste_recycling       DOUBLE PRECISION NOT NULL,
		tenant_satisfaction   DOUBLE PRECISION NOT NULL,
		community_impact      DOUBLE PRECISION NOT NULL,
		governance_compliance DOUBLE PRECISION NOT NULL,
		updated_at            TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS esg_targets (
		name          TEXT PRIMARY KEY,
		category      TEXT NOT NULL,
		current_value DOUBLE PRECISION NOT NULL,
		target_value  DOUBLE PRECISION NOT NULL,
		target_year   INTEGER NOT NULL,
		regulation    TEXT NOT NULL DEFAULT '',
		priority      TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS retrofit_actions (
		action_id             TEXT PRIMARY KEY,
		name                  TEXT NOT NULL,
		category              TEXT NOT NULL,
		cost_per_sqm          DOUBLE PRECISION NOT NULL,
		roi_years             DOUBLE PRECISION NOT NULL,
		carbon_reduction      DOUBLE PRECISION NOT NULL,
		energy_saving         DOUBLE PRECISION NOT NULL,
		implementation_months INTEGER NOT NULL,
		complexity            TEXT NOT NULL
	)`,
}

// Migrate creates the tables when missing.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return apperrors.NewDatabaseQueryFailedError(fmt.Errorf("migrate: %w", err))
		}
	}
	return nil
}

const propertyColumns = `property_id, name, property_type, city, size_sqm, year_built,
	certification, certification_level, latitude, longitude,
	energy_score, carbon_footprint, water_usage, waste_recycling,
	tenant_satisfaction, community_impact, governance_compliance`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProperty(row scanner) (models.Property, error) {
	var p models.Property
	err := row.Scan(
		&p.ID, &p.Name, &p.Type, &p.City, &p.SizeSqm, &p.YearBuilt,
		&p.Certification, &p.CertificationLevel, &p.Latitude, &p.Longitude,
		&p.EnergyScore, &p.CarbonFootprint, &p.WaterUsage, &p.WasteRecycling,
		&p.TenantSatisfaction, &p.CommunityImpact, &p.GovernanceCompliance,
	)
	if err != nil {
		return p, err
	}
	return p, p.RefreshScores()
}

func (s *Store) ListProperties(ctx context.Context) ([]models.Property, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+propertyColumns+` FROM properties ORDER BY property_id`)
	if err != nil {
		return nil, apperrors.NewDatabaseQueryFailedError(err)
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, apperrors.NewDatabaseQueryFailedError(err)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseQueryFailedError(err)
	}
	return properties, nil
}

func (s *Store) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+propertyColumns+` FROM properties WHERE property_id = $1`, id)

	p, err := scanProperty(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", repository.ErrPropertyNotFound, id)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseQueryFailedError(err)
	}
	return &p, nil
}

func (s *Store) ListTargets(ctx context.Context) ([]models.Target, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, category, current_value, target_value, target_year, regulation, priority
		FROM esg_targets
		ORDER BY category, name`)
	if err != nil {
		return nil, apperrors.NewDatabaseQueryFailedError(err)
	}
	defer rows.Close()

	var targets []models.Target
	for rows.Next() {
		var t models.Target
		if err := rows.Scan(&t.Name, &t.Category, &t.CurrentValue, &t.TargetValue,
			&t.TargetYear, &t.Regulation, &t.Priority); err != nil {
			return nil, apperrors.NewDatabaseQueryFailedError(err)
		}
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseQueryFailedError(err)
	}
	return targets, nil
}

func (s *Store) ListActions(ctx context.Context) ([]models.RetrofitAction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT action_id, name, category, cost_per_sqm, roi_years, carbon_reduction,
		       energy_saving, implementation_months, complexity
		FROM retrofit_actions
		ORDER BY action_id`)
	if err != nil {
		return nil, apperrors.NewDatabaseQueryFailedError(err)
	}
	defer rows.Close()

	var actions []models.RetrofitAction
	for rows.Next() {
		var a models.RetrofitAction
		if err := rows.Scan(&a.ID, &a.Name, &a.Category, &a.CostPerSqm, &a.ROIYears,
			&a.CarbonReduction, &a.EnergySaving, &a.ImplementationMonths, &a.Complexity); err != nil {
			return nil, apperrors.NewDatabaseQueryFailedError(err)
		}
		actions = append(actions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseQueryFailedError(err)
	}
	return actions, nil
}
