package trim

import (
	"github.com/tidwall/gjson"

	"github.com/lazypower/cmv/internal/transcript"
)

// findBoundary returns the index of the last compaction marker in lines:
// a "summary" record or a "system" record with subtype "compact_boundary".
// Everything strictly before that line is dead history. Returns -1 when no
// marker exists. Malformed lines are treated as non-boundaries.
func findBoundary(lines [][]byte) int {
	boundary := -1
	for i, line := range lines {
		if !gjson.ValidBytes(line) {
			continue
		}
		switch gjson.GetBytes(line, "type").Str {
		case transcript.TypeSummary:
			boundary = i
		case transcript.TypeSystem:
			if gjson.GetBytes(line, "subtype").Str == transcript.SubtypeCompactBoundary {
				boundary = i
			}
		}
	}
	return boundary
}
