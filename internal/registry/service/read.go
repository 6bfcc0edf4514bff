package service

import (
	"context"
	"errors"

	"easel/internal/registry/models"
	dErrors "easel/pkg/domain-errors"
	"easel/pkg/platform/sentinel"
)

// Read operations carry no capability requirement: the registry's contents
// are public collection metadata.

func (s *Service) AttributeCount(ctx context.Context) (int, error) {
	count, err := s.store.AttributeCount(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read attribute count")
	}
	return count, nil
}

func (s *Service) GetAttribute(ctx context.Context, attributeID int) (*models.Attribute, error) {
	attribute, err := s.store.FindAttribute(ctx, attributeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "attribute does not exist")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load attribute")
	}
	return attribute, nil
}

func (s *Service) ListAttributes(ctx context.Context) ([]*models.Attribute, error) {
	attributes, err := s.store.ListAttributes(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list attributes")
	}
	return attributes, nil
}

func (s *Service) ListTraits(ctx context.Context, attributeID int) ([]*models.Trait, error) {
	traits, err := s.store.ListTraits(ctx, attributeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "attribute does not exist")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list traits")
	}
	return traits, nil
}

// CurrentCID returns the attribute's authoritative CID, consulting the cache
// first when one is configured. Cache misses and cache errors fall through to
// the store; a hit is backfilled on the way out.
func (s *Service) CurrentCID(ctx context.Context, attributeID int) (string, error) {
	if s.cache != nil {
		cid, ok, err := s.cache.Get(ctx, attributeID)
		if err != nil {
			s.logger.WarnContext(ctx, "cid cache read failed",
				"attribute_id", attributeID,
				"error", err,
			)
		} else if ok {
			return cid, nil
		}
	}

	cid, err := s.store.CurrentCID(ctx, attributeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.New(dErrors.CodeNotFound, "attribute does not exist or has no cid")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load current cid")
	}
	s.cacheCurrentCID(ctx, attributeID, cid)
	return cid, nil
}

func (s *Service) CIDHistory(ctx context.Context, attributeID int) ([]string, error) {
	history, err := s.store.CIDHistory(ctx, attributeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "attribute does not exist")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load cid history")
	}
	return history, nil
}

func (s *Service) Scripts(ctx context.Context) ([]string, error) {
	scripts, err := s.store.ListScripts(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list generation scripts")
	}
	return scripts, nil
}
