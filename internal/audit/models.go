package audit

import (
	"context"
	"time"
)

// Action names a registry mutation. One event per successful logical
// mutation, emitted in mutation order.
type Action string

const (
	ActionAttributeCreated Action = "attribute_created"
	ActionTraitAdded       Action = "trait_added"
	ActionCIDUpdated       Action = "cid_updated"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`

	AttributeID int `json:"attribute_id"`

	// TraitID is set for trait_added events only.
	TraitID int `json:"trait_id,omitempty"`

	// Name carries the attribute name for attribute_created and the trait
	// name for trait_added.
	Name   string `json:"name,omitempty"`
	Rarity string `json:"rarity,omitempty"`
	Script string `json:"script,omitempty"`
	CID    string `json:"cid,omitempty"`

	// ActorID is the resolved caller identity, RequestID the correlation ID
	// from the request context.
	ActorID   string `json:"actor_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Store is an append-only audit sink. History is never truncated or edited.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByAttribute(ctx context.Context, attributeID int) ([]Event, error)
	ListAll(ctx context.Context) ([]Event, error)
}
