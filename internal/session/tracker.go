// internal/session/tracker.go
package session

import (
	"context"
	"errors"
	"time"

	apperrors "esg-retrofit-workers/internal/common/errors"
	"esg-retrofit-workers/internal/common/logger"
	"esg-retrofit-workers/internal/common/metrics"
	"esg-retrofit-workers/internal/models"
	"esg-retrofit-workers/internal/repository"

	"github.com/google/uuid"
)

// Event types.
const (
	EventSectionChange         = "section_change"
	EventPropertyAdded         = "property_added"
	EventMapAnalyzed           = "map_analyzed"
	EventBuildingImproved      = "building_improved"
	EventReportGenerated       = "report_generated"
	EventReportShared          = "report_shared"
	EventCertificationUpgraded = "certification_upgraded"
	EventTargetAdded           = "target_added"
	EventProgressUpdated       = "progress_updated"
	EventRegulatoryScan        = "regulatory_scan"
	EventPlanReset             = "plan_reset"
	EventPlanImplemented       = "plan_implemented"
	EventActionSelected        = "action_selected"
	EventActionDeselected      = "action_deselected"
	EventBudgetSet             = "budget_set"
)

// Refusal reasons.
const (
	ReasonInsufficientFunds = "INSUFFICIENT_FUNDS"
	ReasonSameSection       = "SAME_SECTION"
	ReasonEmptyPlan         = "EMPTY_PLAN"
	ReasonNotSelected       = "NOT_SELECTED"
	ReasonAlreadySelected   = "ALREADY_SELECTED"
)

// DefaultPoints is the points table per event. Events absent from it award nothing.
var DefaultPoints = map[string]int{
	EventSectionChange:         100,
	EventPropertyAdded:         50,
	EventMapAnalyzed:           30,
	EventBuildingImproved:      150,
	EventReportGenerated:       100,
	EventReportShared:          150,
	EventCertificationUpgraded: 200,
	EventTargetAdded:           100,
	EventProgressUpdated:       75,
	EventRegulatoryScan:        150,
	EventPlanReset:             20,
	EventPlanImplemented:       300,
}

var knownEvents = map[string]bool{
	EventActionSelected:   true,
	EventActionDeselected: true,
	EventBudgetSet:        true,
}

func init() {
	for event := range DefaultPoints {
		knownEvents[event] = true
	}
}

type Event struct {
	SessionID  string   `json:"sessionId,omitempty"`
	UserID     string   `json:"userId,omitempty"`
	Type       string   `json:"eventType"`
	Section    string   `json:"section,omitempty"`
	PropertyID string   `json:"propertyId,omitempty"`
	ActionID   string   `json:"actionId,omitempty"`
	Budget     *float64 `json:"budget,omitempty"`
}

type Outcome struct {
	Session       *models.PlanningSession `json:"session"`
	PointsAwarded int                     `json:"pointsAwarded"`
	Accepted      bool                    `json:"accepted"`
	Reason        string                  `json:"reason,omitempty"`
	LeveledUp     bool                    `json:"leveledUp"`
}

type TrackerConfig struct {
	TTL           time.Duration
	DefaultBudget float64
	MinBudget     float64
	MaxBudget     float64
	Points        map[string]int // overrides DefaultPoints per event
}

// Tracker applies events to sessions: points, levels, section tracking and the retrofit
// selection with its affordability check.
type Tracker struct {
	store      models.SessionStore
	properties repository.PropertyRepository
	catalog    repository.RetrofitCatalog
	config     TrackerConfig
	points     map[string]int
	logger     logger.Logger
}

func NewTracker(store models.SessionStore, properties repository.PropertyRepository,
	catalog repository.RetrofitCatalog, cfg TrackerConfig, log logger.Logger) *Tracker {
	points := make(map[string]int, len(DefaultPoints))
	for event, p := range DefaultPoints {
		points[event] = p
	}
	for event, p := range cfg.Points {
		points[event] = p
	}
	return &Tracker{
		store:      store,
		properties: properties,
		catalog:    catalog,
		config:     cfg,
		points:     points,
		logger:     log,
	}
}

// Track loads (or starts) the session, applies the event and saves the result.
func (t *Tracker) Track(ctx context.Context, event Event) (*Outcome, error) {
	if !knownEvents[event.Type] {
		return nil, apperrors.NewInvalidSessionEventError(event.Type)
	}

	session, err := t.load(ctx, event)
	if err != nil {
		return nil, err
	}

	levelBefore := session.Level
	outcome := &Outcome{Session: session, Accepted: true}

	if err := t.apply(ctx, session, event, outcome); err != nil {
		return nil, err
	}
	if outcome.PointsAwarded > 0 {
		session.AddPoints(outcome.PointsAwarded)
		metrics.ESGSessionPointsAwarded.WithLabelValues(event.Type).Add(float64(outcome.PointsAwarded))
	}
	outcome.LeveledUp = session.Level > levelBefore

	session.UpdateActivity(t.config.TTL)
	if err := t.store.Save(ctx, session); err != nil {
		return nil, err
	}

	t.logger.Debug("session event applied", map[string]interface{}{
		"sessionId": session.ID,
		"eventType": event.Type,
		"accepted":  outcome.Accepted,
		"points":    outcome.PointsAwarded,
		"score":     session.Score,
		"level":     session.Level,
	})
	return outcome, nil
}

func (t *Tracker) load(ctx context.Context, event Event) (*models.PlanningSession, error) {
	if event.SessionID != "" {
		session, err := t.store.Get(ctx, event.SessionID)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
	}

	id := event.SessionID
	if id == "" {
		id = uuid.New().String()
	}
	return models.NewPlanningSession(id, event.UserID, t.config.DefaultBudget, t.config.TTL), nil
}

func (t *Tracker) apply(ctx context.Context, s *models.PlanningSession, event Event, out *Outcome) error {
	switch event.Type {
	case EventSectionChange:
		previous := s.LastSection
		s.LastSection = event.Section
		switch {
		case previous == "":
			// first visit only sets the baseline
		case previous == event.Section:
			out.Accepted, out.Reason = false, ReasonSameSection
		default:
			out.PointsAwarded = t.points[event.Type]
		}

	case EventBudgetSet:
		if event.Budget == nil {
			return apperrors.NewInvalidInputError("budget_set requires budget")
		}
		if *event.Budget < t.config.MinBudget || *event.Budget > t.config.MaxBudget {
			return apperrors.NewBudgetOutOfRangeError(*event.Budget, t.config.MinBudget, t.config.MaxBudget)
		}
		s.Budget = *event.Budget

	case EventActionSelected:
		return t.selectAction(ctx, s, event, out)

	case EventActionDeselected:
		if !s.Deselect(event.ActionID) {
			out.Accepted, out.Reason = false, ReasonNotSelected
		}

	case EventPlanReset:
		s.ResetSelection()
		out.PointsAwarded = t.points[event.Type]

	case EventPlanImplemented:
		if len(s.SelectedRetrofits) == 0 {
			out.Accepted, out.Reason = false, ReasonEmptyPlan
			return nil
		}
		out.PointsAwarded = t.points[event.Type]

	default:
		out.PointsAwarded = t.points[event.Type]
	}
	return nil
}

// selectAction refuses an action whose total cost for the planned property exceeds the budget.
func (t *Tracker) selectAction(ctx context.Context, s *models.PlanningSession, event Event, out *Outcome) error {
	if event.PropertyID != "" && event.PropertyID != s.PropertyID {
		s.PropertyID = event.PropertyID
		s.ResetSelection()
	}
	if s.PropertyID == "" {
		return apperrors.NewInvalidInputError("action_selected requires propertyId")
	}
	if s.IsSelected(event.ActionID) {
		out.Accepted, out.Reason = false, ReasonAlreadySelected
		return nil
	}

	property, err := t.properties.GetProperty(ctx, s.PropertyID)
	if err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return apperrors.NewPropertyNotFoundError(s.PropertyID)
		}
		return err
	}
	actions, err := t.catalog.ListActions(ctx)
	if err != nil {
		return err
	}
	action, err := repository.FindAction(actions, event.ActionID)
	if err != nil {
		return apperrors.NewUnknownRetrofitError(event.ActionID)
	}

	if cost := action.CostPerSqm * property.SizeSqm; cost > s.Budget {
		out.Accepted, out.Reason = false, ReasonInsufficientFunds
		return nil
	}
	s.Select(action.ID)
	return nil
}
