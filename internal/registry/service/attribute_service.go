package service

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"easel/internal/registry/models"
	dErrors "easel/pkg/domain-errors"
	"easel/pkg/requestcontext"
)

// CreateAttributeRequest carries everything needed to register a new visual
// layer: its display name, the initial trait set, the initial asset-bundle
// CID, and the generation script version able to compose the collection that
// now includes this attribute.
type CreateAttributeRequest struct {
	Name   string
	Traits []models.TraitSpec
	CID    string
	Script string
}

// CreateAttribute allocates the next sequential attribute ID and atomically
// stores the attribute, seeds its traits, records the initial CID, and
// appends the generation script. Either all five effects persist or none do.
func (s *Service) CreateAttribute(ctx context.Context, req CreateAttributeRequest) (*models.Attribute, error) {
	ctx, span := s.tracer.Start(ctx, "registry.CreateAttribute",
		trace.WithAttributes(attribute.String("attribute.name", req.Name)))
	defer span.End()

	if err := s.authz.Authorize(ctx); err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Script = strings.TrimSpace(req.Script)
	if req.Name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "attribute name is required")
	}
	if req.Script == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "generation script is required")
	}
	if err := models.ValidateCID(req.CID, s.limits.CIDLength); err != nil {
		return nil, err
	}
	specs, err := s.validateTraitSpecs(req.Traits)
	if err != nil {
		return nil, err
	}

	var (
		created *models.Attribute
		staged  eventBuffer
	)
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		count, err := s.store.AttributeCount(txCtx)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read attribute count")
		}

		a, err := models.NewAttribute(count, req.Name, requestcontext.Now(txCtx))
		if err != nil {
			return err
		}
		if err := s.store.AppendAttribute(txCtx, a); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store attribute")
		}
		staged.stageAttributeCreated(models.AttributeCreated{
			AttributeID: a.ID,
			Name:        a.Name,
			Script:      req.Script,
		})

		if err := s.appendTraitBatch(txCtx, a.ID, specs, &staged); err != nil {
			return err
		}

		if err := s.store.AppendCID(txCtx, a.ID, req.CID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record cid")
		}
		staged.stageCIDUpdated(models.CIDUpdated{
			AttributeID: a.ID,
			CID:         req.CID,
		})

		if err := s.store.AppendScript(txCtx, req.Script); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record generation script")
		}

		created = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.emitter.flush(ctx, &staged); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementAttributesCreated()
		s.metrics.AddTraitsAdded(len(specs))
		s.metrics.IncrementCIDUpdates()
	}
	s.cacheCurrentCID(ctx, created.ID, req.CID)
	s.logger.InfoContext(ctx, "attribute created",
		"attribute_id", created.ID,
		"name", created.Name,
		"traits", len(specs),
	)
	return created, nil
}
