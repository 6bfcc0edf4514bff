package registry

import (
	"log/slog"

	"easel/internal/registry/handler"
	registrymetrics "easel/internal/registry/metrics"
	"easel/internal/registry/service"
)

// Service exposes registry mutation and read operations.
type Service = service.Service

// Handler wires HTTP endpoints to the registry service.
type Handler = handler.Handler

// NewService constructs the registry service with required dependencies.
func NewService(store service.Store, tx service.StoreTx, authz service.Authorizer, limits service.Limits, opts ...service.Option) (*Service, error) {
	return service.New(store, tx, authz, limits, opts...)
}

// NewHandler constructs an HTTP handler for registry routes.
func NewHandler(s *Service, logger *slog.Logger, metrics *registrymetrics.Metrics) *Handler {
	return handler.New(s, logger, metrics)
}
