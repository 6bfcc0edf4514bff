package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"easel/internal/registry/models"
	dErrors "easel/pkg/domain-errors"
)

// UpdateCID appends a new content identifier to an attribute's history. The
// previous entries are retained for audit; the appended entry becomes the
// attribute's current CID.
func (s *Service) UpdateCID(ctx context.Context, attributeID int, cid string) error {
	ctx, span := s.tracer.Start(ctx, "registry.UpdateCID",
		trace.WithAttributes(attribute.Int("attribute.id", attributeID)))
	defer span.End()

	if err := s.authz.Authorize(ctx); err != nil {
		return err
	}
	if err := models.ValidateCID(cid, s.limits.CIDLength); err != nil {
		return err
	}
	if err := s.requireAttribute(ctx, attributeID); err != nil {
		return err
	}

	var staged eventBuffer
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.appendCID(txCtx, attributeID, cid, &staged)
	})
	if err != nil {
		return err
	}
	if err := s.emitter.flush(ctx, &staged); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.IncrementCIDUpdates()
	}
	s.cacheCurrentCID(ctx, attributeID, cid)
	s.logger.InfoContext(ctx, "cid updated", "attribute_id", attributeID)
	return nil
}

// appendCID is the shared single-CID update path; both UpdateCID and the bulk
// path go through it so length and existence rules apply uniformly.
func (s *Service) appendCID(ctx context.Context, attributeID int, cid string, staged *eventBuffer) error {
	if err := s.store.AppendCID(ctx, attributeID, cid); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record cid")
	}
	staged.stageCIDUpdated(models.CIDUpdated{
		AttributeID: attributeID,
		CID:         cid,
	})
	return nil
}

// UpdateCIDs applies a positional bulk update: the list must have exactly one
// slot per existing attribute (index == attribute ID). An empty string means
// "skip this attribute"; every non-empty entry is validated upfront and then
// applied through the single-update path. Any invalid non-empty entry rejects
// the whole call with zero updates.
func (s *Service) UpdateCIDs(ctx context.Context, cids []string) error {
	ctx, span := s.tracer.Start(ctx, "registry.UpdateCIDs",
		trace.WithAttributes(attribute.Int("cids.count", len(cids))))
	defer span.End()

	if err := s.authz.Authorize(ctx); err != nil {
		return err
	}

	count, err := s.store.AttributeCount(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read attribute count")
	}
	if len(cids) != count {
		return dErrors.Newf(dErrors.CodeValidation,
			"cid list must have exactly one entry per attribute: want %d, got %d", count, len(cids))
	}
	updates := 0
	for i, cid := range cids {
		if cid == "" {
			continue
		}
		if err := models.ValidateCID(cid, s.limits.CIDLength); err != nil {
			return dErrors.Newf(dErrors.CodeValidation, "cid %d: %v", i, err)
		}
		updates++
	}

	var staged eventBuffer
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		for attributeID, cid := range cids {
			if cid == "" {
				continue
			}
			if err := s.appendCID(txCtx, attributeID, cid, &staged); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := s.emitter.flush(ctx, &staged); err != nil {
		return err
	}

	for attributeID, cid := range cids {
		if cid == "" {
			continue
		}
		if s.metrics != nil {
			s.metrics.IncrementCIDUpdates()
		}
		s.cacheCurrentCID(ctx, attributeID, cid)
	}
	s.logger.InfoContext(ctx, "bulk cid update applied",
		"attributes", count,
		"updated", updates,
	)
	return nil
}
