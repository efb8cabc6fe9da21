package coursesync

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"class-sync/core/logger"
	"class-sync/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for sync runs.
type Handler struct {
	service    *Service
	background bool
	started    time.Time
}

// NewHandler creates a new HTTP handler. With background set, triggers
// respond before the run finishes.
func NewHandler(service *Service, background bool) *Handler {
	return &Handler{service: service, background: background, started: time.Now()}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/", h.HandleWelcome)
	app.Get("/sync", h.HandleSync)
	app.Get("/sync-resources", h.HandleSyncResources)
	app.Get("/sync-due-check", h.HandleSyncDueCheck)
	app.Get("/sync/status", h.HandleStatus)
	app.Get("/sync/runs", h.HandleRuns)
	app.Get("/sync/runs/report", h.HandleReport)
}

// HandleSync triggers an assignment sync.
// @Summary Sync Assignments
// @Description Creates and updates assignment records from every configured LMS account. Responds immediately when background sync is enabled.
// @Tags sync
// @Produce plain
// @Param dry_run query boolean false "Plan without writing"
// @Success 200 {string} string "Sync started or run result"
// @Router /sync [get]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	return h.trigger(reconcile.KindAssignments)(c)
}

// HandleSyncResources triggers a module item sync.
// @Summary Sync Resources
// @Description Creates and updates module item records, including content summaries.
// @Tags sync
// @Produce plain
// @Param dry_run query boolean false "Plan without writing"
// @Success 200 {string} string "Sync started or run result"
// @Router /sync-resources [get]
func (h *Handler) HandleSyncResources(c *fiber.Ctx) error {
	return h.trigger(reconcile.KindResources)(c)
}

// HandleSyncDueCheck triggers an update-only assignment pass.
// @Summary Due Date Check
// @Description Updates due date, grade and status of existing assignment records. Never creates records.
// @Tags sync
// @Produce plain
// @Param dry_run query boolean false "Plan without writing"
// @Success 200 {string} string "Sync started or run result"
// @Router /sync-due-check [get]
func (h *Handler) HandleSyncDueCheck(c *fiber.Ctx) error {
	return h.trigger(reconcile.KindDueCheck)(c)
}

func (h *Handler) trigger(kind reconcile.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		l := logger.WithRayID(h.service.logger, c)
		dryRun := c.QueryBool("dry_run", false)
		l.Info("Sync triggered", zap.String("kind", string(kind)), zap.Bool("dry_run", dryRun), zap.Bool("background", h.background))

		if h.background {
			h.service.Start(kind, dryRun)
			return c.SendString("✅ Sync started. Running in background...")
		}

		summary, err := h.service.Run(c.UserContext(), kind, dryRun)
		if err != nil {
			l.Error("Sync failed", zap.String("kind", string(kind)), zap.Error(err))
		}
		return c.SendString(ResultMessage(summary))
	}
}

// ResultMessage renders the plain-text response of a finished run.
func ResultMessage(s reconcile.Summary) string {
	return fmt.Sprintf("✅ Synced %d new + %d updated %s", s.Created, s.Updated, noun(s.Kind))
}

func noun(kind reconcile.Kind) string {
	switch kind {
	case reconcile.KindResources:
		return "course resource items"
	case reconcile.KindDueCheck:
		return "assignments (due check)"
	}
	return "assignments"
}

// HandleStatus returns the last summary per run kind.
// @Summary Sync Status
// @Description Returns the last finished run of each kind since startup.
// @Tags sync
// @Produce json
// @Success 200 {object} map[string]reconcile.Summary "Last summary per kind"
// @Router /sync/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.Status())
}

// HandleRuns lists recorded runs.
// @Summary Run History
// @Description Lists runs from the database ledger and the report archive, newest first.
// @Tags sync
// @Produce json
// @Param kind query string false "Run kind (assignments, resources, due-check)"
// @Param limit query int false "Maximum entries per source" default(20)
// @Success 200 {object} History "Run history"
// @Failure 400 {object} map[string]string "Unknown kind"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/runs [get]
func (h *Handler) HandleRuns(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	kind := c.Query("kind")
	if kind != "" {
		if _, ok := reconcile.ParseKind(kind); !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown kind " + kind})
		}
	}

	history, err := h.service.History(c.UserContext(), kind, c.QueryInt("limit", 20))
	if err != nil {
		l.Error("Failed to list runs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(history)
}

// HandleReport returns one archived run report.
// @Summary Run Report
// @Description Returns an archived run report by object key.
// @Tags sync
// @Produce json
// @Param key query string true "Report key from /sync/runs"
// @Success 200 {object} reconcile.Summary "Run report"
// @Failure 400 {object} map[string]string "Invalid key"
// @Failure 404 {object} map[string]string "Archive disabled"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/runs/report [get]
func (h *Handler) HandleReport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.Report(c.UserContext(), c.Query("key"))
	if errors.Is(err, ErrArchiveDisabled) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if errors.Is(err, ErrInvalidKey) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Failed to read run report", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(report)
}

// HandleWelcome reports liveness with memory use and uptime.
// @Summary Welcome
// @Description Liveness check with memory use and uptime.
// @Tags system
// @Produce plain
// @Success 200 {string} string "Alive"
// @Router / [get]
func (h *Handler) HandleWelcome(c *fiber.Ctx) error {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	return c.SendString(fmt.Sprintf("✅ Alive!\n💾 RAM: %.1f MB in use of %.1f MB reserved\n⏱️ Uptime: %s",
		float64(mem.HeapAlloc)/(1<<20),
		float64(mem.Sys)/(1<<20),
		time.Since(h.started).Round(time.Second),
	))
}
