package catalog

import (
	"errors"
	"strconv"

	"audio-loader/core/cooked"
	"audio-loader/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves read-only catalog lookups.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/catalog")
	group.Get("/languages", h.HandleLanguages)
	group.Get("/:kind", h.HandleList)
	group.Get("/:kind/:id", h.HandleGet)
}

// HandleList lists the records of one kind.
// @Summary List Catalog Records
// @Description Lists id, name and languages of every cooked record of a kind.
// @Tags catalog
// @Produce json
// @Param kind path string true "Record kind (event, soundbank, media, ...)"
// @Success 200 {array} catalog.Summary
// @Failure 400 {object} map[string]string "Unknown kind"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /catalog/{kind} [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	kind, err := cooked.ParseKind(c.Params("kind"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	summaries, err := h.repo.ListSummaries(c.Context(), kind)
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Catalog listing failed", zap.String("kind", kind.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if summaries == nil {
		summaries = []Summary{}
	}
	return c.JSON(summaries)
}

// HandleGet returns one cooked record.
// @Summary Get Catalog Record
// @Description Returns the full cooked description of a record.
// @Tags catalog
// @Produce json
// @Param kind path string true "Record kind"
// @Param id path integer true "Short id"
// @Success 200 {object} map[string]interface{} "Cooked record"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /catalog/{kind}/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	kind, err := cooked.ParseKind(c.Params("kind"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	rec, err := h.repo.Record(c.Context(), kind, cooked.ShortID(id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		logger.WithRayID(h.logger, c).Error("Catalog lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rec)
}

// HandleLanguages lists the cooked languages.
// @Summary List Languages
// @Description Lists the languages the init bank was cooked for.
// @Tags catalog
// @Produce json
// @Success 200 {array} cooked.Language
// @Failure 404 {object} map[string]string "No init bank imported"
// @Router /catalog/languages [get]
func (h *Handler) HandleLanguages(c *fiber.Ctx) error {
	languages, err := h.repo.Languages(c.Context())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(languages)
}
