package sync

import (
	"context"
	"errors"

	"autosync/core/logger"
	"autosync/core/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for sync runs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/health", h.HandleHealth)
	if h.service.metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(h.service.metrics.Handler()))
	}

	group := app.Group("/sync")
	group.Post("/run", h.HandleRun)
	group.Get("/plan", h.HandlePlan)
	group.Get("/runs", h.HandleRuns)
	group.Get("/reports", h.HandleReports)
	group.Get("/reports/:run_id", h.HandleReport)
	group.Get("/vehicles/:sku", h.HandleVehicle)
}

// HandleHealth reports liveness and the journal schema state.
// @Summary Health
// @Description Reports liveness and whether the run journal schema is complete.
// @Tags sync
// @Produce json
// @Success 200 {object} map[string]interface{} "Health"
// @Router /health [get]
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(h.service.Health(c.UserContext()))
}

// HandleRun triggers a sync run. By default the run continues in the
// background and 202 is returned; ?wait=true blocks and returns the report.
// @Summary Trigger Sync Run
// @Description Starts a sync run in the background. With wait=true the request blocks until the run finishes.
// @Tags sync
// @Produce json
// @Param wait query boolean false "Block until the run finishes"
// @Success 200 {object} map[string]interface{} "Run Report"
// @Success 202 {object} map[string]string "Run ID"
// @Failure 409 {object} map[string]string "Run In Progress"
// @Failure 500 {object} map[string]interface{} "Failed Run Report"
// @Router /sync/run [post]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if c.QueryBool("wait") {
		report, err := h.service.Run(c.UserContext())
		if errors.Is(err, ErrRunInProgress) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		if err != nil {
			l.Error("Sync run failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(report)
		}
		return c.JSON(report)
	}

	runID, err := h.service.Start(context.Background())
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	l.Info("Sync run started", zap.String("run_id", runID))
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"run_id": runID})
}

// HandlePlan returns the plan a run would execute, purges included.
// @Summary Preview Plan
// @Description Computes the actions a run would apply without mutating the catalog.
// @Tags sync
// @Produce json
// @Success 200 {object} map[string]interface{} "Plan"
// @Failure 502 {object} map[string]string "Upstream Error"
// @Router /sync/plan [get]
func (h *Handler) HandlePlan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	plan, err := h.service.Plan(c.UserContext())
	if err != nil {
		l.Error("Plan failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(plan)
}

// HandleRuns lists recent runs from the journal.
// @Summary List Runs
// @Tags sync
// @Produce json
// @Param limit query int false "Maximum runs returned"
// @Success 200 {array} map[string]interface{} "Runs"
// @Failure 404 {object} map[string]string "Journal Disabled"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/runs [get]
func (h *Handler) HandleRuns(c *fiber.Ctx) error {
	runs, err := h.service.Runs(c.UserContext(), c.QueryInt("limit", 20))
	if errors.Is(err, ErrJournalDisabled) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Listing runs failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(runs)
}

// HandleReports lists archived report ids.
// @Summary List Reports
// @Tags sync
// @Produce json
// @Success 200 {array} string "Report IDs"
// @Failure 404 {object} map[string]string "Archive Disabled"
// @Router /sync/reports [get]
func (h *Handler) HandleReports(c *fiber.Ctx) error {
	ids, err := h.service.Reports(c.UserContext())
	if errors.Is(err, ErrArchiveDisabled) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(ids)
}

// HandleReport returns one archived report.
// @Summary Get Report
// @Tags sync
// @Produce json
// @Param run_id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run Report"
// @Failure 404 {object} map[string]string "Report Not Found"
// @Router /sync/reports/{run_id} [get]
func (h *Handler) HandleReport(c *fiber.Ctx) error {
	report, err := h.service.Report(c.UserContext(), c.Params("run_id"))
	switch {
	case errors.Is(err, ErrArchiveDisabled), errors.Is(err, storage.ErrReportNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// HandleVehicle reconciles a single SKU and returns its result.
// @Summary Inspect Vehicle
// @Description Compares one feed vehicle against its catalog products.
// @Tags sync
// @Produce json
// @Param sku path string true "Vehicle SKU"
// @Success 200 {object} map[string]interface{} "Inspection"
// @Failure 502 {object} map[string]string "Upstream Error"
// @Router /sync/vehicles/{sku} [get]
func (h *Handler) HandleVehicle(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	result, err := h.service.Inspect(c.UserContext(), c.Params("sku"))
	if err != nil {
		l.Error("Vehicle inspection failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}
