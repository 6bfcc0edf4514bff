package service

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"easel/internal/registry/models"
	dErrors "easel/pkg/domain-errors"
)

// validateTraitSpecs normalizes and validates a whole batch before anything
// is persisted. Validation is whole-batch-upfront: a bad element anywhere in
// the batch rejects the call before the first append, so a late failure can
// never leave earlier elements behind.
func (s *Service) validateTraitSpecs(specs []models.TraitSpec) ([]models.TraitSpec, error) {
	if len(specs) > s.limits.MaxTraitsPerCall {
		return nil, dErrors.Newf(dErrors.CodeValidation,
			"at most %d traits may be added per call, got %d", s.limits.MaxTraitsPerCall, len(specs))
	}
	normalized := make([]models.TraitSpec, len(specs))
	for i, spec := range specs {
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			return nil, dErrors.Newf(dErrors.CodeValidation, "trait %d: name is required", i)
		}
		rarity, err := models.ParseRarity(string(spec.Rarity))
		if err != nil {
			return nil, dErrors.Newf(dErrors.CodeValidation, "trait %d: %s", i, err.Error())
		}
		normalized[i] = models.TraitSpec{Name: name, Rarity: rarity}
	}
	return normalized, nil
}

// appendTraitBatch runs inside a transaction. Trait IDs are computed from the
// attribute's current count, never supplied by the caller, so the dense
// 1-based sequence holds by construction.
func (s *Service) appendTraitBatch(ctx context.Context, attributeID int, specs []models.TraitSpec, staged *eventBuffer) error {
	count, err := s.store.TraitCount(ctx, attributeID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read trait count")
	}
	for i, spec := range specs {
		trait, err := models.NewTrait(attributeID, count+i+1, spec.Name, spec.Rarity)
		if err != nil {
			return err
		}
		if err := s.store.AppendTrait(ctx, trait); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store trait")
		}
		staged.stageTraitAdded(models.TraitAdded{
			AttributeID: trait.AttributeID,
			TraitID:     trait.ID,
			Name:        trait.Name,
			Rarity:      trait.Rarity,
		})
	}
	return nil
}

// AddTraits appends a batch of traits to an existing attribute. The whole
// batch persists or none of it does.
func (s *Service) AddTraits(ctx context.Context, attributeID int, specs []models.TraitSpec) error {
	ctx, span := s.tracer.Start(ctx, "registry.AddTraits",
		trace.WithAttributes(
			attribute.Int("attribute.id", attributeID),
			attribute.Int("traits.count", len(specs)),
		))
	defer span.End()

	if err := s.authz.Authorize(ctx); err != nil {
		return err
	}
	if err := s.requireAttribute(ctx, attributeID); err != nil {
		return err
	}
	normalized, err := s.validateTraitSpecs(specs)
	if err != nil {
		return err
	}

	var staged eventBuffer
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.appendTraitBatch(txCtx, attributeID, normalized, &staged)
	})
	if err != nil {
		return err
	}
	if err := s.emitter.flush(ctx, &staged); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.AddTraitsAdded(len(normalized))
	}
	s.logger.InfoContext(ctx, "traits added",
		"attribute_id", attributeID,
		"count", len(normalized),
	)
	return nil
}

// AddSingleTrait appends one trait with a caller-supplied ID. Where the batch
// path constructs sequential IDs, this path checks them: the supplied ID must
// be exactly the attribute's current trait count plus one. The explicit-ID
// contract exists so callers retrying with a known ID stay idempotent: a
// duplicate retry fails cleanly instead of inserting twice.
func (s *Service) AddSingleTrait(ctx context.Context, attributeID, traitID int, name string, rarity models.Rarity) error {
	ctx, span := s.tracer.Start(ctx, "registry.AddSingleTrait",
		trace.WithAttributes(
			attribute.Int("attribute.id", attributeID),
			attribute.Int("trait.id", traitID),
		))
	defer span.End()

	if err := s.authz.Authorize(ctx); err != nil {
		return err
	}
	if err := s.requireAttribute(ctx, attributeID); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return dErrors.New(dErrors.CodeValidation, "trait name is required")
	}
	parsed, err := models.ParseRarity(string(rarity))
	if err != nil {
		return err
	}

	var staged eventBuffer
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		count, err := s.store.TraitCount(txCtx, attributeID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read trait count")
		}
		if traitID != count+1 {
			return dErrors.Newf(dErrors.CodeInvariantViolation,
				"trait id must be %d, got %d", count+1, traitID)
		}
		trait, err := models.NewTrait(attributeID, traitID, name, parsed)
		if err != nil {
			return err
		}
		if err := s.store.AppendTrait(txCtx, trait); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store trait")
		}
		staged.stageTraitAdded(models.TraitAdded{
			AttributeID: attributeID,
			TraitID:     traitID,
			Name:        name,
			Rarity:      parsed,
		})
		return nil
	})
	if err != nil {
		return err
	}
	if err := s.emitter.flush(ctx, &staged); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.AddTraitsAdded(1)
	}
	s.logger.InfoContext(ctx, "trait added",
		"attribute_id", attributeID,
		"trait_id", traitID,
	)
	return nil
}
