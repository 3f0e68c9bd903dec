// internal/workers/portfolio/generate-portfolio-report/models.go
package generateportfolioreport

import (
	"esg-retrofit-workers/internal/common/aws"
	"esg-retrofit-workers/internal/common/validation"
	"esg-retrofit-workers/internal/models"
)

type Input struct {
	Framework string `json:"framework"`
	Notify    bool   `json:"notify,omitempty"`
}

// Notification statuses.
const (
	NotificationSkipped = "skipped"
	NotificationSent    = "sent"
	NotificationPartial = "partial"
	NotificationFailed  = "failed"
)

type Output struct {
	Report             *models.PortfolioReport `json:"report"`
	NotificationStatus string                  `json:"notificationStatus"`
	Deliveries         []aws.Delivery          `json:"deliveries,omitempty"`
}

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["framework"],
	"properties": {
		"framework": {"type": "string", "enum": ["GRESB", "SFDR", "GRI", "TCFD"]},
		"notify":    {"type": "boolean"}
	}
}`)
