package registry

import (
	"errors"

	"simples-mirror/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for registry lookups.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the registry routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/registry")
	group.Get("/", h.HandleSummary)
	group.Get("/:identifier", h.HandleLookup)
}

// HandleLookup returns the Simples Nacional record for an identifier.
// @Summary Look up a CNPJ
// @Description Get the Simples Nacional enrollment record for a CNPJ. The identifier is normalized to its 8-digit base before lookup.
// @Tags registry
// @Produce json
// @Param identifier path string true "CNPJ (formatted or digits only)"
// @Success 200 {object} models.Record "Registry record"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /registry/{identifier} [get]
func (h *Handler) HandleLookup(c *fiber.Ctx) error {
	identifier := c.Params("identifier")
	l := logger.WithRayID(h.service.logger, c)

	rec, err := h.service.Lookup(c.Context(), identifier)
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "CNPJ not found in the local registry",
		})
	}
	if err != nil {
		l.Error("Lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(rec)
}

// HandleSummary returns the current dataset release date and row count.
// @Summary Dataset summary
// @Description Get the release date and row count of the locally loaded dataset.
// @Tags registry
// @Produce json
// @Success 200 {object} registry.Summary "Dataset summary"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /registry [get]
func (h *Handler) HandleSummary(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	summary, err := h.service.Summarize(c.Context())
	if err != nil {
		l.Error("Summary failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if summary.ReleaseDate == "" {
		summary.ReleaseDate = "unknown"
	}
	return c.JSON(summary)
}
