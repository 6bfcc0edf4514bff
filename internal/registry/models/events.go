package models

// Domain event payloads. The service emits exactly one of these per logical
// mutation, in mutation order; the audit package carries them to the
// configured sink. Off-chain consumers (indexers, pinning services) rely on
// exactly-once emission.

// AttributeCreated records a new attribute and the generation script version
// registered with it.
type AttributeCreated struct {
	AttributeID int    `json:"attribute_id"`
	Name        string `json:"name"`
	Script      string `json:"script"`
}

// TraitAdded records a single trait insertion, batch or explicit-ID.
type TraitAdded struct {
	AttributeID int    `json:"attribute_id"`
	TraitID     int    `json:"trait_id"`
	Name        string `json:"name"`
	Rarity      Rarity `json:"rarity"`
}

// CIDUpdated records an append to an attribute's CID history.
type CIDUpdated struct {
	AttributeID int    `json:"attribute_id"`
	CID         string `json:"cid"`
}
