package coursesync

import (
	"class-sync/core/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
	metrics *metrics.Metrics
}

// NewFeature creates the sync feature. m may be nil, which disables /metrics.
func NewFeature(service *Service, m *metrics.Metrics, background bool) *Feature {
	return &Feature{service: service, handler: NewHandler(service, background), metrics: m}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "sync"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.service != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	if f.metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(f.metrics.Handler()))
	}
	f.handler.RegisterRoutes(app)
	return nil
}

// Service returns the feature's service.
func (f *Feature) Service() *Service {
	return f.service
}
