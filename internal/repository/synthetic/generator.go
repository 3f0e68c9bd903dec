// Package synthetic generates a reproducible demo portfolio in memory.
package synthetic

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"esg-retrofit-workers/internal/models"
	"esg-retrofit-workers/internal/repository"
)

const DefaultPropertyCount = 15

// Generator holds a portfolio drawn once from a seeded source. The same seed, count and
// reference time always yield the same portfolio.
type Generator struct {
	properties []models.Property
	byID       map[string]int
	targets    []models.Target
	actions    []models.RetrofitAction
}

var _ repository.Portfolio = (*Generator)(nil)

// New draws count properties (DefaultPropertyCount when count <= 0) and the target catalog.
// Target years are relative to now.
func New(seed int64, count int, now time.Time) (*Generator, error) {
	if count <= 0 {
		count = DefaultPropertyCount
	}
	rng := rand.New(rand.NewSource(seed))

	g := &Generator{
		properties: make([]models.Property, 0, count),
		byID:       make(map[string]int, count),
		actions:    RetrofitCatalog(),
	}
	for i := 1; i <= count; i++ {
		p, err := drawProperty(rng, i)
		if err != nil {
			return nil, err
		}
		g.byID[p.ID] = len(g.properties)
		g.properties = append(g.properties, p)
	}
	for _, tpl := range targetTemplates {
		g.targets = append(g.targets, models.Target{
			Name:         tpl.name,
			Category:     tpl.category,
			CurrentValue: float64(between(rng, tpl.current)),
			TargetValue:  tpl.target,
			TargetYear:   now.Year() + tpl.yearOffset,
			Regulation:   tpl.regulation,
			Priority:     tpl.priority,
		})
	}
	return g, nil
}

func drawProperty(rng *rand.Rand, i int) (models.Property, error) {
	propertyType := pick(rng, propertyTypes)
	city := pick(rng, cities)
	certification := pick(rng, certifications)
	level := models.CertificationNone
	if certification != models.CertificationNone {
		level = pick(rng, certificationLevels)
	}

	p := models.Property{
		ID:                   fmt.Sprintf("PROP-%03d", i),
		Name:                 fmt.Sprintf("%s %s %d", city, propertyType, i),
		Type:                 propertyType,
		City:                 city,
		Certification:        certification,
		CertificationLevel:   level,
		EnergyScore:          float64(between(rng, energyRange)),
		CarbonFootprint:      float64(between(rng, carbonRange)),
		WaterUsage:           float64(between(rng, waterRange)),
		WasteRecycling:       float64(between(rng, recyclingRange)),
		TenantSatisfaction:   float64(between(rng, tenantRange)),
		CommunityImpact:      float64(between(rng, communityRange)),
		GovernanceCompliance: float64(between(rng, governanceRange)),
		Latitude:             latMin + rng.Float64()*(latMax-latMin),
		Longitude:            lonMin + rng.Float64()*(lonMax-lonMin),
		SizeSqm:              float64(between(rng, sizeRange)),
		YearBuilt:            between(rng, yearBuiltRange),
	}
	if err := p.RefreshScores(); err != nil {
		return models.Property{}, fmt.Errorf("score %s: %w", p.ID, err)
	}
	return p, nil
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}

func between(rng *rand.Rand, r intRange) int {
	return r.min + rng.Intn(r.max-r.min+1)
}

func (g *Generator) ListProperties(ctx context.Context) ([]models.Property, error) {
	out := make([]models.Property, len(g.properties))
	copy(out, g.properties)
	return out, nil
}

func (g *Generator) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	i, ok := g.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrPropertyNotFound, id)
	}
	p := g.properties[i]
	return &p, nil
}

func (g *Generator) ListTargets(ctx context.Context) ([]models.Target, error) {
	out := make([]models.Target, len(g.targets))
	copy(out, g.targets)
	return out, nil
}

func (g *Generator) ListActions(ctx context.Context) ([]models.RetrofitAction, error) {
	out := make([]models.RetrofitAction, len(g.actions))
	copy(out, g.actions)
	return out, nil
}
