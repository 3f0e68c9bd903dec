// internal/workers/portfolio/search-properties/handler.go
package searchproperties

import (
	"context"
	"encoding/json"
	"fmt"

	"esg-retrofit-workers/internal/common/errors"
	"esg-retrofit-workers/internal/common/logger"
	"esg-retrofit-workers/internal/repository/search"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "search-properties"

type Searcher interface {
	Search(ctx context.Context, q search.Query) (*search.Result, error)
}

type Handler struct {
	config   *Config
	searcher Searcher
	errors   *errors.ErrorHandler
	logger   logger.Logger
}

func NewHandler(config *Config, searcher Searcher, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType, "index": config.Index})
	return &Handler{
		config:   config,
		searcher: searcher,
		errors:   errors.NewErrorHandler(log),
		logger:   log,
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	result, err := h.searcher.Search(ctx, search.Query{
		Keywords:        input.Keywords,
		City:            input.City,
		Type:            input.Type,
		Certification:   input.Certification,
		MinOverallScore: input.MinOverallScore,
		From:            input.From,
		Size:            input.Size,
	})
	if err != nil {
		return nil, err
	}

	h.logger.Debug("properties searched", map[string]interface{}{
		"keywords":  input.Keywords,
		"totalHits": result.TotalHits,
		"took":      result.Took,
	})
	return &Output{
		Properties: result.Properties,
		TotalHits:  result.TotalHits,
		Took:       result.Took,
	}, nil
}
