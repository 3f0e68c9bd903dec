// internal/workers/gamification/track-session-event/handler.go
package tracksessionevent

import (
	"context"
	"encoding/json"
	"fmt"

	"esg-retrofit-workers/internal/common/errors"
	"esg-retrofit-workers/internal/common/logger"
	"esg-retrofit-workers/internal/session"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "track-session-event"

type Tracker interface {
	Track(ctx context.Context, event session.Event) (*session.Outcome, error)
}

type Handler struct {
	config  *Config
	tracker Tracker
	errors  *errors.ErrorHandler
	logger  logger.Logger
}

func NewHandler(config *Config, tracker Tracker, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		tracker: tracker,
		errors:  errors.NewErrorHandler(log),
		logger:  log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	logger.ForJob(h.logger, job.Key, job.ProcessInstanceKey).Debug("processing job", nil)

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := parseInput(job)
	if err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
		return err
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
		return err
	}

	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err})
		return err
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err})
		return err
	}
	return nil
}

func parseInput(job entities.Job) (*Input, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(job.Variables), &doc); err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("parse variables: %v", err))
	}
	result, err := inputSchema.Validate(doc)
	if err != nil {
		return nil, errors.NewInvalidInputError(err.Error())
	}
	if !result.Valid {
		return nil, errors.NewInvalidInputError(result.Summary())
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("decode input: %v", err))
	}
	return &input, nil
}

// Execute applies one dashboard event. A refused event (e.g. an unaffordable action)
// completes normally with accepted=false and a reason.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	outcome, err := h.tracker.Track(ctx, session.Event{
		SessionID:  input.SessionID,
		UserID:     input.UserID,
		Type:       input.EventType,
		Section:    input.Section,
		PropertyID: input.PropertyID,
		ActionID:   input.ActionID,
		Budget:     input.Budget,
	})
	if err != nil {
		return nil, err
	}

	s := outcome.Session
	if outcome.LeveledUp {
		h.logger.Info("session leveled up", map[string]interface{}{
			"sessionId": s.ID,
			"level":     s.Level,
			"score":     s.Score,
		})
	}
	return &Output{
		SessionID:         s.ID,
		Score:             s.Score,
		Level:             s.Level,
		LeveledUp:         outcome.LeveledUp,
		PointsAwarded:     outcome.PointsAwarded,
		Accepted:          outcome.Accepted,
		Reason:            outcome.Reason,
		Budget:            s.Budget,
		SelectedRetrofits: s.SelectedRetrofits,
	}, nil
}
