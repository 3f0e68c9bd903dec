// internal/repository/synthetic/catalog.go
package synthetic

import (
	"fmt"

	"esg-retrofit-workers/internal/models"
)

var (
	propertyTypes       = []string{"Office", "Retail", "Residential", "Industrial", "Mixed-Use"}
	cities              = []string{"Paris", "London", "Berlin", "Madrid", "Amsterdam", "Milan", "Brussels"}
	certifications      = []string{"BREEAM", "HQE", "LEED", models.CertificationNone}
	certificationLevels = []string{"Outstanding", "Excellent", "Very Good", "Good", "Pass"}
)

// intRange is an inclusive integer range.
type intRange struct{ min, max int }

var (
	energyRange     = intRange{20, 100}
	carbonRange     = intRange{50, 250}
	waterRange      = intRange{500, 2000}
	recyclingRange  = intRange{10, 95}
	tenantRange     = intRange{50, 100}
	communityRange  = intRange{30, 100}
	governanceRange = intRange{40, 100}
	sizeRange       = intRange{1000, 50000}
	yearBuiltRange  = intRange{1970, 2023}
)

const (
	latMin, latMax = 36.0, 60.0
	lonMin, lonMax = -5.0, 30.0
)

type targetTemplate struct {
	name       string
	category   string
	current    intRange
	target     float64
	yearOffset int
	regulation string
	priority   string
}

var targetTemplates = []targetTemplate{
	{"Carbon Neutrality", models.CategoryEnvironmental, intRange{50, 80}, 100, 5, "EU Climate Law", models.PriorityHigh},
	{"Energy Efficiency", models.CategoryEnvironmental, intRange{30, 70}, 90, 3, "EPBD", models.PriorityHigh},
	{"Water Conservation", models.CategoryEnvironmental, intRange{40, 60}, 80, 4, "EU Water Framework", models.PriorityMedium},
	{"Waste Reduction", models.CategoryEnvironmental, intRange{30, 50}, 90, 3, "EU Circular Economy Package", models.PriorityMedium},
	{"Certification Coverage", models.CategoryEnvironmental, intRange{20, 40}, 100, 5, "Market Standards", models.PriorityHigh},
	{"Tenant Wellbeing", models.CategorySocial, intRange{50, 70}, 95, 2, "Internal Policy", models.PriorityMedium},
	{"Community Engagement", models.CategorySocial, intRange{30, 60}, 85, 4, "CSR Framework", models.PriorityLow},
	{"ESG Reporting", models.CategoryGovernance, intRange{50, 70}, 100, 2, "SFDR", models.PriorityHigh},
	{"ESG Risk Management", models.CategoryGovernance, intRange{40, 70}, 90, 3, "TCFD", models.PriorityHigh},
}

// RetrofitCatalog returns the fixed retrofit action catalog. Ids are retrofit_<index>.
func RetrofitCatalog() []models.RetrofitAction {
	entries := []models.RetrofitAction{
		{Name: "Solar Panel Installation", Category: "Energy Generation", CostPerSqm: 120, ROIYears: 7, CarbonReduction: 30, EnergySaving: 25, ImplementationMonths: 3, Complexity: "Medium"},
		{Name: "HVAC Upgrade", Category: "Energy Efficiency", CostPerSqm: 80, ROIYears: 5, CarbonReduction: 20, EnergySaving: 30, ImplementationMonths: 4, Complexity: "Medium"},
		{Name: "Building Envelope Insulation", Category: "Energy Efficiency", CostPerSqm: 95, ROIYears: 8, CarbonReduction: 25, EnergySaving: 35, ImplementationMonths: 5, Complexity: "High"},
		{Name: "LED Lighting Upgrade", Category: "Energy Efficiency", CostPerSqm: 15, ROIYears: 2, CarbonReduction: 5, EnergySaving: 10, ImplementationMonths: 1, Complexity: "Low"},
		{Name: "Smart Building Management System", Category: "Energy Management", CostPerSqm: 50, ROIYears: 4, CarbonReduction: 15, EnergySaving: 20, ImplementationMonths: 3, Complexity: "High"},
		{Name: "Water Efficiency Measures", Category: "Water Conservation", CostPerSqm: 25, ROIYears: 3, CarbonReduction: 2, EnergySaving: 5, ImplementationMonths: 2, Complexity: "Low"},
		{Name: "Green Roof Installation", Category: "Biodiversity", CostPerSqm: 110, ROIYears: 12, CarbonReduction: 5, EnergySaving: 8, ImplementationMonths: 4, Complexity: "High"},
		{Name: "Waste Management Systems", Category: "Waste Reduction", CostPerSqm: 10, ROIYears: 2, CarbonReduction: 3, EnergySaving: 0, ImplementationMonths: 2, Complexity: "Low"},
	}
	for i := range entries {
		entries[i].ID = fmt.Sprintf("retrofit_%d", i)
	}
	return entries
}
