// internal/models/session.go
package models

import (
	"context"
	"time"
)

const PointsPerLevel = 1000

// PlanningSession is the per-user dashboard context: game score, level and the
// retrofit selection of the property being planned. It lives outside the scoring engine.
type PlanningSession struct {
	ID                string    `json:"sessionId"`
	UserID            string    `json:"userId,omitempty"`
	Score             int       `json:"score"`
	Level             int       `json:"level"`
	LastSection       string    `json:"lastSection,omitempty"`
	PropertyID        string    `json:"propertyId,omitempty"`
	Budget            float64   `json:"budget"`
	SelectedRetrofits []string  `json:"selectedRetrofits"`
	CreatedAt         time.Time `json:"createdAt"`
	LastActivity      time.Time `json:"lastActivity"`
	ExpiresAt         time.Time `json:"expiresAt"`
}

// NewPlanningSession starts a session at level 1 with an empty selection.
func NewPlanningSession(id, userID string, budget float64, ttl time.Duration) *PlanningSession {
	now := time.Now().UTC()
	return &PlanningSession{
		ID:                id,
		UserID:            userID,
		Level:             1,
		Budget:            budget,
		SelectedRetrofits: []string{},
		CreatedAt:         now,
		LastActivity:      now,
		ExpiresAt:         now.Add(ttl),
	}
}

// LevelFor returns the level reached with score points.
func LevelFor(score int) int {
	return score/PointsPerLevel + 1
}

// AddPoints adds points and recomputes the level.
func (s *PlanningSession) AddPoints(points int) {
	s.Score += points
	s.Level = LevelFor(s.Score)
}

// IsExpired checks if session has expired
func (s *PlanningSession) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// UpdateActivity updates the last activity timestamp and slides the expiry window.
func (s *PlanningSession) UpdateActivity(ttl time.Duration) {
	s.LastActivity = time.Now().UTC()
	s.ExpiresAt = s.LastActivity.Add(ttl)
}

func (s *PlanningSession) IsSelected(actionID string) bool {
	for _, id := range s.SelectedRetrofits {
		if id == actionID {
			return true
		}
	}
	return false
}

// Select adds actionID to the selection. It returns false if it was already selected.
func (s *PlanningSession) Select(actionID string) bool {
	if s.IsSelected(actionID) {
		return false
	}
	s.SelectedRetrofits = append(s.SelectedRetrofits, actionID)
	return true
}

// Deselect removes actionID from the selection. It returns false if it was not selected.
func (s *PlanningSession) Deselect(actionID string) bool {
	for i, id := range s.SelectedRetrofits {
		if id == actionID {
			s.SelectedRetrofits = append(s.SelectedRetrofits[:i], s.SelectedRetrofits[i+1:]...)
			return true
		}
	}
	return false
}

func (s *PlanningSession) ResetSelection() {
	s.SelectedRetrofits = []string{}
}

// SessionStore defines planning session data access
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*PlanningSession, error)
	Save(ctx context.Context, session *PlanningSession) error
	Delete(ctx context.Context, sessionID string) error
}
