package resources

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service  *Service
	handler  *Handler
	gatherer prometheus.Gatherer
}

// NewFeature creates the resources feature. A nil gatherer leaves /metrics
// unregistered.
func NewFeature(service *Service, gatherer prometheus.Gatherer) *Feature {
	return &Feature{service: service, handler: NewHandler(service), gatherer: gatherer}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "resources"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.service != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	if f.gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(f.gatherer, promhttp.HandlerOpts{})))
	}
	return nil
}
