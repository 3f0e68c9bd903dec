// internal/workers/retrofit/project-retrofit-impact/handler.go
package projectretrofitimpact

import (
	"context"
	"encoding/json"
	"fmt"

	"esg-retrofit-workers/internal/common/errors"
	"esg-retrofit-workers/internal/common/logger"
	"esg-retrofit-workers/internal/reporting"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "project-retrofit-impact"

type Handler struct {
	config  *Config
	service *reporting.Service
	errors  *errors.ErrorHandler
	logger  logger.Logger
}

func NewHandler(config *Config, service *reporting.Service, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		service: service,
		errors:  errors.NewErrorHandler(log),
		logger:  log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	logger.ForJob(h.logger, job.Key, job.ProcessInstanceKey).Info("processing job", nil)

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := parseInput(job)
	if err == nil {
		var output *Output
		if output, err = h.Execute(ctx, input); err == nil {
			return h.completeJob(ctx, client, job, output)
		}
	}

	h.errors.HandleJobError(ctx, client, job, err)
	return err
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

// Execute projects the plan. An over-budget plan still completes, flagged in the output.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	evaluation, err := h.service.EvaluatePlan(ctx, reporting.PlanRequest{
		PropertyID: input.PropertyID,
		ActionIDs:  input.SelectedActionIDs,
		Budget:     input.Budget,
	})
	if err != nil {
		return nil, err
	}

	output := &Output{
		PlanID:            evaluation.Plan.ID,
		PropertyID:        evaluation.Plan.PropertyID,
		SelectedActionIDs: evaluation.Plan.SelectedActionIDs,
		Projection:        evaluation.Projection,
		ActionCosts:       evaluation.Cost.Actions,
		Budget:            evaluation.Cost.Budget,
		TotalCost:         evaluation.Cost.TotalCost,
		RemainingBudget:   evaluation.Cost.RemainingBudget,
		OverBudget:        evaluation.Cost.OverBudget,
	}

	h.logger.Info("retrofit impact projected", map[string]interface{}{
		"planId":          output.PlanID,
		"propertyId":      output.PropertyID,
		"actions":         len(output.SelectedActionIDs),
		"newOverallScore": output.Projection.NewOverallScore,
		"overBudget":      output.OverBudget,
	})
	return output, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err})
		return err
	}
	_, err = cmd.Send(ctx)
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err})
	}
	return err
}
