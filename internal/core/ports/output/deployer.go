package ports

import (
	"context"

	"license-plate-service/internal/core/domain"
)

// Endpoint describes a deployed serving endpoint for a registered model.
type Endpoint struct {
	Name string
	URL  string
}

// EndpointDeployer provisions and tears down serving endpoints. The model's
// framework tag picks the runtime; callers never branch on it.
type EndpointDeployer interface {
	IsAvailable() bool
	Deploy(ctx context.Context, model *domain.Model, version string) (*Endpoint, error)
	Undeploy(ctx context.Context, name string) error
}
