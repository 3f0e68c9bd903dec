// internal/workers/targets/calculate-target-progress/handler.go
package calculatetargetprogress

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

const TaskType = "calculate-target-progress"

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

// Execute fails with DIVISION_UNDEFINED as soon as one target, or one category, has a
// zero target value.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	targets, source := input.Targets, sourceInput
	if len(targets) == 0 {
		var err error
		if targets, err = h.service.CatalogTargets(ctx, input.filter()); err != nil {
			return nil, errors.NewDatabaseQueryFailedError(err)
		}
		source = sourceCatalog
	}

	summary, err := h.service.Progress(targets, input.filter())
	if err != nil {
		return nil, err
	}

	h.logger.Info("target progress calculated", map[string]interface{}{
		"source":     source,
		"targets":    len(summary.Targets),
		"categories": len(summary.Categories),
	})
	return &Output{
		Targets:          summary.Targets,
		CategoryProgress: summary.Categories,
		Source:           source,
	}, nil
}
