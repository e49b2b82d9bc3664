package loader

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Feature is a self-contained unit that registers its HTTP routes.
type Feature interface {
	// Name identifies the feature in logs and errors.
	Name() string
	// Register mounts the feature's routes on the application.
	Register(app fiber.Router) error
}

// Manager collects features and mounts them on a Fiber application.
type Manager struct {
	features []Feature
}

// NewManager creates an empty feature manager.
func NewManager() *Manager {
	return &Manager{}
}

// Register adds a feature to the manager.
func (m *Manager) Register(f Feature) {
	m.features = append(m.features, f)
}

// LoadAll registers every feature's routes, stopping at the first failure.
func (m *Manager) LoadAll(app *fiber.App) error {
	for _, f := range m.features {
		if err := f.Register(app); err != nil {
			return fmt.Errorf("failed to load feature %s: %w", f.Name(), err)
		}
	}
	return nil
}
