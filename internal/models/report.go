// internal/models/report.go
package models

import "time"

// Reporting frameworks a portfolio report can be framed for.
var ReportFrameworks = map[string]string{
	"GRESB": "Global Real Estate Sustainability Benchmark - Comprehensive assessment focused on real estate",
	"SFDR":  "Sustainable Finance Disclosure Regulation - EU regulation for financial market transparency",
	"GRI":   "Global Reporting Initiative - International standards for sustainability reporting",
	"TCFD":  "Task Force on Climate-related Financial Disclosures - Framework for climate-related financial risk",
}

// PortfolioReport aggregates the portfolio's metrics and target progress.
type PortfolioReport struct {
	ID                      string             `json:"reportId"`
	Framework               string             `json:"framework"`
	Description             string             `json:"description"`
	PropertyCount           int                `json:"propertyCount"`
	CertifiedCount          int                `json:"certifiedCount"`
	CertificationPercentage float64            `json:"certificationPercentage"`
	AvgEnergyScore          float64            `json:"avgEnergyScore"`
	AvgCarbonFootprint      float64            `json:"avgCarbonFootprint"`
	AvgWaterUsage           float64            `json:"avgWaterUsage"`
	AvgWasteRecycling       float64            `json:"avgWasteRecycling"`
	AvgEnvironmentalScore   float64            `json:"avgEnvironmentalScore"`
	AvgSocialScore          float64            `json:"avgSocialScore"`
	AvgGovernanceScore      float64            `json:"avgGovernanceScore"`
	AvgOverallScore         float64            `json:"avgOverallScore"`
	CategoryProgress        map[string]float64 `json:"categoryProgress"`
	GeneratedAt             time.Time          `json:"generatedAt"`
}
