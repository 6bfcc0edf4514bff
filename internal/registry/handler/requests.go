package handler

import (
	"easel/internal/registry/models"
	dErrors "easel/pkg/domain-errors"
)

// Request types do shape validation only (required fields, element counts).
// Domain rules (rarity tiers, CID length, sequential IDs) belong to the
// service so they hold for every caller, not just HTTP.

// TraitSpecRequest is one trait in a creation or batch-add payload.
type TraitSpecRequest struct {
	Name   string `json:"name"`
	Rarity string `json:"rarity"`
}

func (t TraitSpecRequest) spec() models.TraitSpec {
	return models.TraitSpec{Name: t.Name, Rarity: models.Rarity(t.Rarity)}
}

func specs(reqs []TraitSpecRequest) []models.TraitSpec {
	out := make([]models.TraitSpec, len(reqs))
	for i, r := range reqs {
		out[i] = r.spec()
	}
	return out
}

// CreateAttributeRequest is the body for POST /admin/attributes.
type CreateAttributeRequest struct {
	Name   string             `json:"name"`
	Traits []TraitSpecRequest `json:"traits"`
	CID    string             `json:"cid"`
	Script string             `json:"script"`
}

func (r *CreateAttributeRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if r.Script == "" {
		return dErrors.New(dErrors.CodeValidation, "script is required")
	}
	if r.CID == "" {
		return dErrors.New(dErrors.CodeValidation, "cid is required")
	}
	return nil
}

// AddTraitsRequest is the body for POST /admin/attributes/{attributeID}/traits.
type AddTraitsRequest struct {
	Traits []TraitSpecRequest `json:"traits"`
}

func (r *AddTraitsRequest) Validate() error {
	if len(r.Traits) == 0 {
		return dErrors.New(dErrors.CodeValidation, "at least one trait is required")
	}
	return nil
}

// AddSingleTraitRequest is the body for
// PUT /admin/attributes/{attributeID}/traits/{traitID}. The trait ID comes
// from the URL, keeping retries of the same ID idempotent at the route level.
type AddSingleTraitRequest struct {
	Name   string `json:"name"`
	Rarity string `json:"rarity"`
}

func (r *AddSingleTraitRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if r.Rarity == "" {
		return dErrors.New(dErrors.CodeValidation, "rarity is required")
	}
	return nil
}

// UpdateCIDRequest is the body for PUT /admin/attributes/{attributeID}/cid.
type UpdateCIDRequest struct {
	CID string `json:"cid"`
}

func (r *UpdateCIDRequest) Validate() error {
	if r.CID == "" {
		return dErrors.New(dErrors.CodeValidation, "cid is required")
	}
	return nil
}

// UpdateCIDsRequest is the body for PUT /admin/attributes/cids. Empty strings
// are skip sentinels, so the list itself is the only required shape.
type UpdateCIDsRequest struct {
	CIDs []string `json:"cids"`
}

func (r *UpdateCIDsRequest) Validate() error {
	if r.CIDs == nil {
		return dErrors.New(dErrors.CodeValidation, "cids is required")
	}
	return nil
}
