// internal/workers/portfolio/search-properties/models.go
package searchproperties

import (
	"esg-retrofit-workers/internal/common/validation"
	"esg-retrofit-workers/internal/models"
)

type Input struct {
	Keywords        string   `json:"keywords,omitempty"`
	City            string   `json:"city,omitempty"`
	Type            string   `json:"type,omitempty"`
	Certification   string   `json:"certification,omitempty"`
	MinOverallScore *float64 `json:"minOverallScore,omitempty"`
	From            int      `json:"from,omitempty"`
	Size            int      `json:"size,omitempty"`
}

type Output struct {
	Properties []models.Property `json:"properties"`
	TotalHits  int64             `json:"totalHits"`
	Took       int               `json:"took"`
}

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"properties": {
		"keywords":        {"type": "string", "maxLength": 200},
		"city":            {"type": "string"},
		"type":            {"type": "string", "enum": ["Office", "Retail", "Residential", "Industrial", "Mixed-Use"]},
		"certification":   {"type": "string"},
		"minOverallScore": {"type": "number", "minimum": 0, "maximum": 100},
		"from":            {"type": "integer", "minimum": 0},
		"size":            {"type": "integer", "minimum": 1, "maximum": 100}
	}
}`)
