// internal/workers/scoring/compute-esg-scores/handler.go
package computeesgscores

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"esg-retrofit-workers/internal/common/errors"
	"esg-retrofit-workers/internal/common/logger"
	"esg-retrofit-workers/internal/common/metrics"
	"esg-retrofit-workers/internal/esg"
	"esg-retrofit-workers/internal/repository"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "compute-esg-scores"

const (
	sourceInput      = "input"
	sourceRepository = "repository"
	sourceCache      = "cache"
)

type ScoreCache interface {
	Get(ctx context.Context, propertyID string) (*esg.Scores, bool, error)
	Set(ctx context.Context, propertyID string, scores esg.Scores) error
}

type Handler struct {
	config     *Config
	properties repository.PropertyRepository
	cache      ScoreCache
	errors     *errors.ErrorHandler
	logger     logger.Logger
}

// NewHandler wires the worker. cache may be nil, which disables score caching.
func NewHandler(config *Config, properties repository.PropertyRepository, cache ScoreCache, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		properties: properties,
		cache:      cache,
		errors:     errors.NewErrorHandler(log),
		logger:     log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	log := logger.ForJob(h.logger, job.Key, job.ProcessInstanceKey)
	log.Info("processing job", nil)

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

	return h.completeJob(ctx, client, job, output)
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

// Execute scores the inline metrics when present, otherwise the stored property.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Metrics != nil {
		scores, err := esg.ComputeScores(*input.Metrics)
		if err != nil {
			return nil, err
		}
		metrics.ESGScoresComputed.WithLabelValues(sourceInput).Inc()
		return &Output{PropertyID: input.PropertyID, Scores: scores}, nil
	}

	if input.PropertyID == "" {
		return nil, errors.NewInvalidInputError("propertyId or metrics is required")
	}

	if scores, ok := h.cached(ctx, input.PropertyID); ok {
		metrics.ESGScoresComputed.WithLabelValues(sourceCache).Inc()
		return &Output{PropertyID: input.PropertyID, Scores: *scores, Cached: true}, nil
	}

	property, err := h.properties.GetProperty(ctx, input.PropertyID)
	if err != nil {
		if stderrors.Is(err, repository.ErrPropertyNotFound) {
			return nil, errors.NewPropertyNotFoundError(input.PropertyID)
		}
		return nil, errors.FromError(err)
	}
	metrics.ESGScoresComputed.WithLabelValues(sourceRepository).Inc()

	if h.cache != nil {
		if err := h.cache.Set(ctx, property.ID, property.Scores); err != nil {
			h.logger.Warn("failed to cache scores", map[string]interface{}{
				"propertyId": property.ID,
				"error":      err,
			})
		}
	}

	h.logger.Info("scores computed", map[string]interface{}{
		"propertyId": property.ID,
		"overall":    property.Scores.Overall,
	})
	return &Output{PropertyID: property.ID, Scores: property.Scores}, nil
}

// cached treats cache failures as misses.
func (h *Handler) cached(ctx context.Context, propertyID string) (*esg.Scores, bool) {
	if h.cache == nil {
		return nil, false
	}
	scores, ok, err := h.cache.Get(ctx, propertyID)
	if err != nil {
		h.logger.Warn("score cache lookup failed", map[string]interface{}{
			"propertyId": propertyID,
			"error":      err,
		})
		return nil, false
	}
	return scores, ok
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
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
