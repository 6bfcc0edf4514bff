package handler

import (
	"time"

	"easel/internal/registry/models"
)

// CreateAttributeResponse is returned from POST /admin/attributes.
type CreateAttributeResponse struct {
	AttributeID int `json:"attribute_id"`
}

// AttributeResponse is the public view of an attribute.
type AttributeResponse struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func fromAttribute(a *models.Attribute) AttributeResponse {
	return AttributeResponse{ID: a.ID, Name: a.Name, CreatedAt: a.CreatedAt}
}

// AttributeListResponse is returned from GET /attributes.
type AttributeListResponse struct {
	Attributes []AttributeResponse `json:"attributes"`
	TotalCount int                 `json:"total_count"`
}

func fromAttributes(attributes []*models.Attribute) AttributeListResponse {
	out := AttributeListResponse{Attributes: make([]AttributeResponse, len(attributes))}
	for i, a := range attributes {
		out.Attributes[i] = fromAttribute(a)
	}
	out.TotalCount = len(attributes)
	return out
}

// TraitResponse is the public view of a trait.
type TraitResponse struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Rarity string `json:"rarity"`
}

// TraitListResponse is returned from GET /attributes/{attributeID}/traits.
type TraitListResponse struct {
	AttributeID int             `json:"attribute_id"`
	Traits      []TraitResponse `json:"traits"`
}

func fromTraits(attributeID int, traits []*models.Trait) TraitListResponse {
	out := TraitListResponse{AttributeID: attributeID, Traits: make([]TraitResponse, len(traits))}
	for i, t := range traits {
		out.Traits[i] = TraitResponse{ID: t.ID, Name: t.Name, Rarity: string(t.Rarity)}
	}
	return out
}

// CurrentCIDResponse is returned from GET /attributes/{attributeID}/cid.
type CurrentCIDResponse struct {
	AttributeID int    `json:"attribute_id"`
	CID         string `json:"cid"`
}

// CIDHistoryResponse is returned from GET /attributes/{attributeID}/cid/history.
// Order is oldest first; the last entry is the current CID.
type CIDHistoryResponse struct {
	AttributeID int      `json:"attribute_id"`
	History     []string `json:"history"`
}

// ScriptListResponse is returned from GET /generation-scripts, oldest first.
type ScriptListResponse struct {
	Scripts []string `json:"scripts"`
}
