package resources

import (
	"errors"
	"strconv"

	"audio-loader/core/cooked"
	"audio-loader/core/logger"
	"audio-loader/core/resource"
	"audio-loader/feature/catalog"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for loading and unloading resources.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the resource routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/resources")
	group.Get("/", h.HandleList)
	group.Post("/:kind/:id/load", h.HandleLoad)
	group.Delete("/:kind/:id", h.HandleUnload)

	app.Put("/language", h.HandleSetLanguage)
	app.Get("/stats", h.HandleStats)
}

// LanguageRequest is the body of PUT /language.
type LanguageRequest struct {
	Language string `json:"language"`
	Policy   string `json:"policy,omitempty"`
}

func parseTarget(c *fiber.Ctx) (cooked.Kind, cooked.ShortID, error) {
	kind, err := cooked.ParseKind(c.Params("kind"))
	if err != nil {
		return kind, 0, err
	}
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return kind, 0, errors.New("invalid id")
	}
	return kind, cooked.ShortID(id), nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, ErrNotLoaded):
		return fiber.StatusNotFound
	case errors.Is(err, ErrUnknownLanguage):
		return fiber.StatusBadRequest
	case errors.Is(err, resource.ErrLoadFailed):
		return fiber.StatusBadGateway
	case errors.Is(err, resource.ErrShutdown):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// HandleLoad loads a record.
// @Summary Load Resource
// @Description Loads a cooked record and every file it needs. Loading a held record replaces its handle.
// @Tags resources
// @Produce json
// @Param kind path string true "Record kind (event, soundbank, media, ...)"
// @Param id path integer true "Short id"
// @Param language query string false "Pin the load to a language"
// @Success 200 {object} map[string]interface{} "Loaded"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Unknown record"
// @Failure 502 {object} map[string]string "A file could not be loaded"
// @Router /resources/{kind}/{id}/load [post]
func (h *Handler) HandleLoad(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	kind, id, err := parseTarget(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	handle, err := h.service.Load(c.UserContext(), kind, id, c.Query("language"))
	if err != nil {
		l.Warn("Load failed", zap.String("kind", kind.String()), zap.Uint32("id", uint32(id)), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"status": "loaded",
		"kind":   kind.String(),
		"id":     uint32(handle.Record().ShortID()),
		"name":   handle.Record().Name(),
		"slot":   handle.Slot().String(),
	})
}

// HandleUnload unloads a held record.
// @Summary Unload Resource
// @Description Releases the handle held for a record. Files shared with other records stay loaded.
// @Tags resources
// @Produce json
// @Param kind path string true "Record kind"
// @Param id path integer true "Short id"
// @Success 200 {object} map[string]string "Unloaded"
// @Failure 404 {object} map[string]string "Not loaded"
// @Router /resources/{kind}/{id} [delete]
func (h *Handler) HandleUnload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	kind, id, err := parseTarget(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.service.Unload(c.UserContext(), kind, id); err != nil {
		l.Warn("Unload failed", zap.String("kind", kind.String()), zap.Uint32("id", uint32(id)), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "unloaded"})
}

// HandleList lists the loaded objects.
// @Summary List Loaded Resources
// @Description Lists every object attached to the resource manager with its binding and dependency count.
// @Tags resources
// @Produce json
// @Success 200 {array} resource.NodeInfo
// @Router /resources [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	nodes, err := h.service.Snapshot(c.UserContext())
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	if nodes == nil {
		nodes = []resource.NodeInfo{}
	}
	return c.JSON(nodes)
}

// HandleSetLanguage switches the current language.
// @Summary Set Language
// @Description Switches the current language and reloads localized objects according to the policy (manual, immediate, safe).
// @Tags resources
// @Accept json
// @Produce json
// @Param request body LanguageRequest true "Language and optional policy"
// @Success 200 {object} map[string]string "Switched"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /language [put]
func (h *Handler) HandleSetLanguage(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req LanguageRequest
	if err := c.BodyParser(&req); err != nil || req.Language == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "language is required"})
	}

	if req.Policy != "" {
		if _, err := resource.ParseLanguagePolicy(req.Policy); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	if err := h.service.SetLanguage(c.UserContext(), req.Language, req.Policy); err != nil {
		l.Warn("Language switch failed", zap.String("language", req.Language), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Language switched", zap.String("language", req.Language))
	return c.JSON(fiber.Map{"status": "switched", "language": req.Language})
}

// HandleStats returns loader statistics.
// @Summary Loader Statistics
// @Description Returns registry sizes, physical file reference counts, leaf state and engine counters.
// @Tags resources
// @Produce json
// @Success 200 {object} resources.Stats
// @Router /stats [get]
func (h *Handler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(stats)
}
