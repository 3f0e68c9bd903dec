// internal/workers/gamification/track-session-event/models.go
package tracksessionevent

import "esg-retrofit-workers/internal/common/validation"

type Input struct {
	SessionID  string   `json:"sessionId,omitempty"`
	UserID     string   `json:"userId,omitempty"`
	EventType  string   `json:"eventType"`
	Section    string   `json:"section,omitempty"`
	PropertyID string   `json:"propertyId,omitempty"`
	ActionID   string   `json:"actionId,omitempty"`
	Budget     *float64 `json:"budget,omitempty"`
}

// Output flattens the session state into process variables.
type Output struct {
	SessionID         string   `json:"sessionId"`
	Score             int      `json:"score"`
	Level             int      `json:"level"`
	LeveledUp         bool     `json:"leveledUp"`
	PointsAwarded     int      `json:"pointsAwarded"`
	Accepted          bool     `json:"accepted"`
	Reason            string   `json:"reason,omitempty"`
	Budget            float64  `json:"budget"`
	SelectedRetrofits []string `json:"selectedRetrofits"`
}

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["eventType"],
	"properties": {
		"sessionId":  {"type": "string"},
		"userId":     {"type": "string"},
		"eventType":  {"type": "string", "minLength": 1},
		"section":    {"type": "string"},
		"propertyId": {"type": "string"},
		"actionId":   {"type": "string"},
		"budget":     {"type": "number"}
	},
	"allOf": [
		{
			"if": {"properties": {"eventType": {"enum": ["action_selected", "action_deselected"]}}},
			"then": {"required": ["actionId"]}
		}
	]
}`)
