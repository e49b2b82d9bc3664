package registry

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature bundles the registry service for the HTTP server.
type Feature struct {
	service *Service
}

// NewFeature creates the registry feature over an open database handle.
func NewFeature(db *gorm.DB, logger *zap.Logger) *Feature {
	return &Feature{service: NewService(NewStore(db), logger)}
}

// Name identifies the feature.
func (f *Feature) Name() string {
	return "registry"
}

// Register mounts the registry routes.
func (f *Feature) Register(app fiber.Router) error {
	NewHandler(f.service).RegisterRoutes(app)
	return nil
}
