// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sir

import (
	"strings"

	"github.com/mcadwell/sir-engine/pkg/types"
)

// DeriveViolation maps a conclusion's text to the violation tri-state. No
// "established" token means Unknown; "not" anywhere before the token means
// the violation was not established. The containment check is deliberately
// blunt and misreads phrasing like "could not be established either way";
// it is kept because the corpus ground truth was produced with it.
func DeriveViolation(conclusion string) types.Violation {
	lc := strings.ToLower(conclusion)
	idx := strings.Index(lc, "established")
	if idx < 0 {
		return types.ViolationUnknown
	}
	if strings.Contains(lc[:idx], "not") {
		return types.ViolationNotEstablished
	}
	return types.ViolationEstablished
}
