package domain

import (
	"strconv"
	"strings"
)

// ParseTargetReps expands a prescription's reps string into one numeric
// target per set.
//
// The reps field either holds a single target applied to every set, or a
// "|"-delimited per-set sequence. A sequence shorter than the set count is
// padded by carrying the last token forward. An empty token counts as 0.
// A position whose own token is not numeric falls back to the last token;
// if that is not numeric either, the position gets 0. A range like "10-12"
// is a single non-numeric token and therefore yields zeros.
//
// Returns nil when reps is empty or sets is not positive.
func ParseTargetReps(reps string, sets int) []int {
	if reps == "" || sets <= 0 {
		return nil
	}

	rawParts := strings.Split(reps, "|")
	parts := make([]*int, len(rawParts))
	for i, raw := range rawParts {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			zero := 0
			parts[i] = &zero
			continue
		}
		if v, err := strconv.Atoi(trimmed); err == nil {
			parts[i] = &v
		}
	}
	last := parts[len(parts)-1]

	result := make([]int, sets)
	for i := 0; i < sets; i++ {
		switch {
		case i < len(parts) && parts[i] != nil:
			result[i] = *parts[i]
		case last != nil:
			result[i] = *last
		default:
			result[i] = 0
		}
	}
	return result
}
