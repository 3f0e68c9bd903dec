package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	apperrors "esg-retrofit-workers/internal/common/errors"
	"esg-retrofit-workers/internal/models"
	"esg-retrofit-workers/internal/reporting"
	"esg-retrofit-workers/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PortfolioHandler serves read-only views of the portfolio and plan projections.
type PortfolioHandler struct {
	portfolio repository.Portfolio
	reports   *reporting.Service
	logger    *zap.Logger
}

func NewPortfolioHandler(portfolio repository.Portfolio, reports *reporting.Service, logger *zap.Logger) *PortfolioHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PortfolioHandler{portfolio: portfolio, reports: reports, logger: logger}
}

type projectionRequest struct {
	SelectedActionIDs []string `json:"selectedActionIds"`
	Budget            *float64 `json:"budget"`
}

// ListProperties returns the portfolio, optionally filtered by ?city= and ?type=.
func (h *PortfolioHandler) ListProperties(c *gin.Context) {
	properties, err := h.portfolio.ListProperties(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	city, kind := c.Query("city"), c.Query("type")
	filtered := make([]models.Property, 0, len(properties))
	for _, p := range properties {
		if (city == "" || p.City == city) && (kind == "" || p.Type == kind) {
			filtered = append(filtered, p)
		}
	}

	c.JSON(http.StatusOK, gin.H{"properties": filtered, "total": len(filtered)})
}

func (h *PortfolioHandler) GetScores(c *gin.Context) {
	id := c.Param("id")
	property, err := h.portfolio.GetProperty(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"propertyId":         property.ID,
		"environmentalScore": property.Scores.Environmental,
		"socialScore":        property.Scores.Social,
		"governanceScore":    property.Scores.Governance,
		"overallScore":       property.Scores.Overall,
	})
}

func (h *PortfolioHandler) ProjectRetrofit(c *gin.Context) {
	// An empty body is an empty selection at the default budget.
	var req projectionRequest
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			h.logger.Warn("invalid projection payload", zap.Error(err))
			h.fail(c, apperrors.NewInvalidInputError(fmt.Sprintf("request body: %v", err)))
			return
		}
	}

	evaluation, err := h.reports.EvaluatePlan(c.Request.Context(), reporting.PlanRequest{
		PropertyID: c.Param("id"),
		ActionIDs:  req.SelectedActionIDs,
		Budget:     req.Budget,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, evaluation)
}

// TargetProgress reports progress of the catalog targets, optionally for ?category= and
// ?priority=.
func (h *PortfolioHandler) TargetProgress(c *gin.Context) {
	filter := reporting.TargetFilter{Category: c.Query("category"), Priority: c.Query("priority")}
	targets, err := h.reports.CatalogTargets(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	summary, err := h.reports.Progress(targets, filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *PortfolioHandler) ListRetrofits(c *gin.Context) {
	actions, err := h.portfolio.ListActions(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actions": actions})
}

func (h *PortfolioHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrPropertyNotFound) {
		err = apperrors.NewPropertyNotFoundError(c.Param("id"))
	}
	stdErr := apperrors.FromError(err)
	status := StatusFor(stdErr.Code)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}

	c.JSON(status, gin.H{
		"error":   string(stdErr.Code),
		"message": stdErr.Message,
		"details": stdErr.Details,
	})
}

// StatusFor maps an error code to its HTTP status.
func StatusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeBudgetOutOfRange, apperrors.ErrCodeUnknownFramework:
		return http.StatusBadRequest
	case apperrors.ErrCodeMissingMetric, apperrors.ErrCodeDivisionUndefined, apperrors.ErrCodeUnknownRetrofit:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodePropertyNotFound, apperrors.ErrCodeResourceNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeTimeout, apperrors.ErrCodeSearchTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
