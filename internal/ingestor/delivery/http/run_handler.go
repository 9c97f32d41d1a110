package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"equity-ingestor/internal/ingestor/repository"
	"equity-ingestor/internal/report"
	"equity-ingestor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RunHandler exposes ingestion run history and the aggregate report.
type RunHandler struct {
	runRepo   repository.IngestionRunRepository
	generator *report.Generator
	logger    *logger.Logger
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(runRepo repository.IngestionRunRepository, generator *report.Generator, logger *logger.Logger) *RunHandler {
	return &RunHandler{runRepo: runRepo, generator: generator, logger: logger}
}

// RegisterRoutes registers the handler's routes on the Echo instance.
func (h *RunHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.GET("/runs/latest", h.GetLatestRun)
	e.GET("/runs", h.GetRecentRuns)
	e.GET("/report", h.GetReport)
}

// Health reports process liveness.
func (h *RunHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// GetLatestRun returns the most recent ingestion run summary.
func (h *RunHandler) GetLatestRun(c echo.Context) error {
	run, err := h.runRepo.FindLatest(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to load latest run", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	if run == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no ingestion runs recorded"})
	}

	// Summary is stored as serialized JSON; re-embed it instead of
	// double-encoding.
	return c.JSON(http.StatusOK, echo.Map{
		"id":          run.ID,
		"status":      run.Status,
		"started_at":  run.StartedAt,
		"finished_at": run.FinishedAt,
		"summary":     json.RawMessage(run.Summary),
	})
}

// GetRecentRuns returns up to ?limit= recent runs (default 10).
func (h *RunHandler) GetRecentRuns(c echo.Context) error {
	limit := 10
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
		}
		limit = parsed
	}

	runs, err := h.runRepo.FindRecent(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Failed to load recent runs", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, runs)
}

// GetReport returns the aggregate report over the persisted tables.
func (h *RunHandler) GetReport(c echo.Context) error {
	summary, err := h.generator.Generate(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to generate report", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, summary)
}
