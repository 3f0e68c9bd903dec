// internal/workers/portfolio/generate-portfolio-report/handler.go
package generateportfolioreport

import (
	"context"
	"encoding/json"
	"fmt"

	"esg-retrofit-workers/internal/common/aws"
	"esg-retrofit-workers/internal/common/errors"
	"esg-retrofit-workers/internal/common/logger"
	"esg-retrofit-workers/internal/models"
	"esg-retrofit-workers/internal/reporting"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "generate-portfolio-report"

type Notifier interface {
	Notify(ctx context.Context, subject, body string) ([]aws.Delivery, error)
}

type Handler struct {
	config   *Config
	service  *reporting.Service
	notifier Notifier
	errors   *errors.ErrorHandler
	logger   logger.Logger
}

// NewHandler wires the worker. A nil notifier turns every notification into a skip.
func NewHandler(config *Config, service *reporting.Service, notifier Notifier, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		service:  service,
		notifier: notifier,
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

// Execute builds the report and, when asked, sends its summary. Delivery failures are
// reported in the output and never fail the job.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	report, err := h.service.GenerateReport(ctx, input.Framework)
	if err != nil {
		return nil, err
	}

	output := &Output{Report: report, NotificationStatus: NotificationSkipped}
	if input.Notify && h.config.NotificationEnabled && h.notifier != nil {
		output.Deliveries, output.NotificationStatus = h.notify(ctx, report)
	}

	h.logger.Info("portfolio report generated", map[string]interface{}{
		"reportId":           report.ID,
		"framework":          report.Framework,
		"properties":         report.PropertyCount,
		"avgOverallScore":    report.AvgOverallScore,
		"notificationStatus": output.NotificationStatus,
	})
	return output, nil
}

func (h *Handler) notify(ctx context.Context, report *models.PortfolioReport) ([]aws.Delivery, string) {
	subject := fmt.Sprintf("%s ESG portfolio report", report.Framework)
	deliveries, err := h.notifier.Notify(ctx, subject, reporting.Summary(report))
	if err == nil {
		return deliveries, NotificationSent
	}

	h.logger.Warn("report notification failed", map[string]interface{}{
		"reportId": report.ID,
		"error":    err,
	})
	for _, d := range deliveries {
		if d.Error == "" {
			return deliveries, NotificationPartial
		}
	}
	return deliveries, NotificationFailed
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
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
