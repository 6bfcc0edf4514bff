package models

import (
	dErrors "easel/pkg/domain-errors"
)

// ValidateCID checks a content identifier against the fixed byte length the
// deployment expects. The registry never verifies that content actually
// exists at the referenced location; pinning is an external concern.
func ValidateCID(cid string, wantLen int) error {
	if len(cid) != wantLen {
		return dErrors.Newf(dErrors.CodeValidation, "cid must be exactly %d bytes, got %d", wantLen, len(cid))
	}
	return nil
}
