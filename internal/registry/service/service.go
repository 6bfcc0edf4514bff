package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"easel/internal/audit"
	registrymetrics "easel/internal/registry/metrics"
	"easel/internal/registry/models"
	dErrors "easel/pkg/domain-errors"
	"easel/pkg/platform/sentinel"
)

// Store is the single storage backend shared by the attribute store, trait
// store, and CID ledger. Implementations: store/memory, store/postgres.
type Store interface {
	AttributeCount(ctx context.Context) (int, error)
	AppendAttribute(ctx context.Context, attribute *models.Attribute) error
	FindAttribute(ctx context.Context, attributeID int) (*models.Attribute, error)
	ListAttributes(ctx context.Context) ([]*models.Attribute, error)

	TraitCount(ctx context.Context, attributeID int) (int, error)
	AppendTrait(ctx context.Context, trait *models.Trait) error
	ListTraits(ctx context.Context, attributeID int) ([]*models.Trait, error)

	AppendCID(ctx context.Context, attributeID int, cid string) error
	CIDHistory(ctx context.Context, attributeID int) ([]string, error)
	CurrentCID(ctx context.Context, attributeID int) (string, error)

	AppendScript(ctx context.Context, script string) error
	ListScripts(ctx context.Context) ([]string, error)
}

// StoreTx provides the all-or-nothing boundary for multi-step mutations.
// Implementations may wrap a database transaction or, in-memory, a coarse
// lock with snapshot rollback.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// AuditPublisher receives one event per successful logical mutation.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// CIDCache is an optional read cache for each attribute's current CID. It is
// advisory: cache failures never fail a mutation.
type CIDCache interface {
	Get(ctx context.Context, attributeID int) (string, bool, error)
	Set(ctx context.Context, attributeID int, cid string) error
}

// Limits are the fixed configuration constants the core consumes but does
// not own.
type Limits struct {
	// MaxTraitsPerCall caps a single trait batch, protecting against
	// unbounded-cost operations.
	MaxTraitsPerCall int

	// CIDLength is the exact required byte length of a CID string.
	CIDLength int
}

// Service is the metadata registry core. Every mutating operation runs
// authorize → validate → mutate inside a transaction → emit events.
type Service struct {
	store   Store
	tx      StoreTx
	authz   Authorizer
	emitter *auditEmitter
	metrics *registrymetrics.Metrics
	cache   CIDCache
	limits  Limits
	logger  *slog.Logger
	tracer  trace.Tracer
}

type serviceConfig struct {
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *registrymetrics.Metrics
	cache          CIDCache
}

type Option func(cfg *serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *serviceConfig) {
		cfg.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(cfg *serviceConfig) {
		cfg.auditPublisher = publisher
	}
}

func WithMetrics(m *registrymetrics.Metrics) Option {
	return func(cfg *serviceConfig) {
		cfg.metrics = m
	}
}

func WithCIDCache(cache CIDCache) Option {
	return func(cfg *serviceConfig) {
		cfg.cache = cache
	}
}

// New constructs the registry service. Store, tx, and authorizer are
// required; everything else is optional.
func New(store Store, tx StoreTx, authz Authorizer, limits Limits, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("registry store is required")
	}
	if tx == nil {
		return nil, errors.New("store transaction boundary is required")
	}
	if authz == nil {
		return nil, errors.New("authorizer is required")
	}
	if limits.MaxTraitsPerCall < 1 {
		return nil, errors.New("max traits per call must be positive")
	}
	if limits.CIDLength < 1 {
		return nil, errors.New("cid length must be positive")
	}

	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	return &Service{
		store:   store,
		tx:      tx,
		authz:   authz,
		emitter: newAuditEmitter(cfg.logger, cfg.auditPublisher),
		metrics: cfg.metrics,
		cache:   cfg.cache,
		limits:  limits,
		logger:  cfg.logger,
		tracer:  otel.Tracer("easel/registry"),
	}, nil
}

// requireAttribute translates store existence facts into the domain error
// the caller sees for an out-of-range attribute ID.
func (s *Service) requireAttribute(ctx context.Context, attributeID int) error {
	if attributeID < 0 {
		return dErrors.New(dErrors.CodeNotFound, "attribute does not exist")
	}
	if _, err := s.store.FindAttribute(ctx, attributeID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "attribute does not exist")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load attribute")
	}
	return nil
}

// cacheCurrentCID writes through to the CID cache after a committed update.
// Failures are logged, never surfaced: the store remains authoritative.
func (s *Service) cacheCurrentCID(ctx context.Context, attributeID int, cid string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, attributeID, cid); err != nil {
		s.logger.WarnContext(ctx, "cid cache write failed",
			"attribute_id", attributeID,
			"error", err,
		)
	}
}
