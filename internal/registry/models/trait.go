package models

import (
	"strings"

	dErrors "easel/pkg/domain-errors"
)

// Rarity is the categorical scarcity tier of a trait. The set is closed; no
// numeric probability is encoded here; rarity distributions are chosen by
// the generation tooling, not the registry.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// ParseRarity normalizes and validates a rarity tier.
func ParseRarity(s string) (Rarity, error) {
	switch r := Rarity(strings.ToLower(strings.TrimSpace(s))); r {
	case RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary:
		return r, nil
	default:
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown rarity %q", s)
	}
}

// Trait is one concrete option within an attribute (for example
// "Background: Forest").
//
// Invariants:
//   - IDs are scoped per attribute and start at 1, not 0
//   - within an attribute the trait ID set is exactly {1..count}: no gaps,
//     no reuse, no out-of-order insertion
//   - Name is non-empty, Rarity is one of the closed tier set
//   - Traits are never deleted
type Trait struct {
	AttributeID int    `json:"attribute_id"`
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Rarity      Rarity `json:"rarity"`
}

// NewTrait validates invariants and constructs a trait. Sequentiality of the
// ID against the attribute's current trait count is the service's concern;
// the model only enforces local shape.
func NewTrait(attributeID, id int, name string, rarity Rarity) (*Trait, error) {
	if attributeID < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "trait attribute id cannot be negative")
	}
	if id < 1 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "trait ids start at 1")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "trait name cannot be empty")
	}
	if _, err := ParseRarity(string(rarity)); err != nil {
		return nil, err
	}
	return &Trait{AttributeID: attributeID, ID: id, Name: name, Rarity: rarity}, nil
}

// TraitSpec is the caller-facing shape for seeding or batch-adding traits.
// IDs are deliberately absent: the batch path computes them.
type TraitSpec struct {
	Name   string `json:"name"`
	Rarity Rarity `json:"rarity"`
}
