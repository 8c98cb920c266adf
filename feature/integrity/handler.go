package integrity

import (
	"errors"

	"audio-loader/core/logger"
	"audio-loader/core/reconcile"
	"audio-loader/feature/integrity/checks"
	"audio-loader/feature/integrity/files"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	// Force import for Swagger
	var _ = checks.SchemaReport{}
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/structure", h.HandleStructureCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/files/:family", h.HandleFilesCheck)
	group.Get("/files/:family/find", h.HandleFileLookup)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs structure, schema and file checks. File checks never purge from this endpoint.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	report := make(map[string]interface{})

	if missing, err := h.service.CheckStructure(ctx); err != nil {
		report["structure"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["structure"] = map[string]interface{}{"status": "ok", "missing": missing}
	}

	if schema, err := h.service.CheckSchema(); err != nil {
		report["schema"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = schema
	}

	for _, family := range files.Families {
		if plan, err := h.service.CheckFiles(ctx, family, reconcile.ReconcileOptions{}); err != nil {
			report[family.Name] = map[string]interface{}{"status": "error", "error": err.Error()}
		} else {
			report[family.Name] = plan.Summary
		}
	}

	return c.JSON(report)
}

// HandleStructureCheck checks and optionally fixes structure.
// @Summary Check Structure
// @Description Checks that the platform folder exists under the base path. Optionally creates it.
// @Tags integrity
// @Accept json
// @Produce json
// @Param fix query boolean false "Fix missing folders"
// @Success 200 {object} map[string]interface{} "Structure Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/structure [get]
func (h *Handler) HandleStructureCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	missing, err := h.service.CheckStructure(c.Context())
	if err != nil {
		l.Error("Structure check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(missing) > 0 {
		l.Warn("Missing folders detected", zap.Strings("missing", missing))

		if fix {
			l.Info("Attempting to fix missing folders")
			if err := h.service.FixStructure(c.Context(), missing); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix structure",
					"details": err.Error(),
					"missing": missing,
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"fixed":  missing,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"missing": missing,
	})
}

// HandleSchemaCheck checks the catalog schema.
// @Summary Check Catalog Schema
// @Description Checks that the catalog database tables match the catalog models.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// HandleFilesCheck reconciles catalog files against storage.
// @Summary Check Cooked Files
// @Description Lists catalog files missing from storage and storage objects the catalog does not declare. With purge and confirm, orphans are deleted.
// @Tags integrity
// @Accept json
// @Produce json
// @Param family path string true "File family (soundbanks, media)"
// @Param purge query boolean false "Plan deletion of orphan objects"
// @Param confirm query boolean false "Execute the planned deletions"
// @Success 200 {object} map[string]interface{} "Reconcile Plan"
// @Failure 400 {object} map[string]string "Unknown family"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/files/{family} [get]
func (h *Handler) HandleFilesCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	family, err := files.FamilyByName(c.Params("family"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	opts := reconcile.ReconcileOptions{
		DoPurge:   c.Query("purge") == "true",
		Confirmed: c.Query("confirm") == "true",
	}
	opts.DryRun = !opts.Confirmed

	plan, executed, err := h.service.Reconcile(c.Context(), family, opts)
	if err != nil {
		l.Error("File check failed", zap.String("family", family.Name), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"family":   family.Name,
		"summary":  plan.Summary,
		"results":  plan.Results,
		"actions":  plan.Actions,
		"executed": executed,
	})
}

// HandleFileLookup reconciles a single file.
// @Summary Find Cooked File
// @Description Reports catalog and storage presence of one file, by path or name.
// @Tags integrity
// @Accept json
// @Produce json
// @Param family path string true "File family (soundbanks, media)"
// @Param path query string false "File path relative to the platform folder"
// @Param name query string false "File name without extension"
// @Success 200 {object} reconcile.ReconcileResult
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/files/{family}/find [get]
func (h *Handler) HandleFileLookup(c *fiber.Ctx) error {
	family, err := files.FamilyByName(c.Params("family"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	query := reconcile.Query{ID: c.Query("path"), Name: c.Query("name")}
	if query.ID == "" && query.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "path or name is required"})
	}

	result, err := h.service.FindFile(c.Context(), family, query)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("File lookup failed", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

func statusFor(err error) int {
	if errors.Is(err, ErrNoCatalog) {
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}
