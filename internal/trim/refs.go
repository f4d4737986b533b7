package trim

import (
	"github.com/tidwall/gjson"

	"github.com/lazypower/cmv/internal/transcript"
)

// collectToolUseIDs walks every line from the boundary (inclusive) to the
// end of the stream and records the id of every tool_use block. The
// rewriter uses the set to recognize tool results whose matching request
// was discarded with pre-compaction history. A result can appear in the
// same or a later line than its request, so the whole region is scanned
// before any rewriting starts.
func collectToolUseIDs(lines [][]byte, boundary int) map[string]struct{} {
	ids := make(map[string]struct{})
	start := boundary
	if start < 0 {
		start = 0
	}
	for _, line := range lines[start:] {
		content := contentValue(line)
		if !content.IsArray() {
			continue
		}
		content.ForEach(func(_, block gjson.Result) bool {
			if block.Get("type").Str == transcript.BlockToolUse {
				if id := block.Get("id").Str; id != "" {
					ids[id] = struct{}{}
				}
			}
			return true
		})
	}
	return ids
}

// contentValue locates a record's content array: nested under "message"
// for user/assistant records, or at the top level.
func contentValue(line []byte) gjson.Result {
	if v := gjson.GetBytes(line, "message.content"); v.Exists() {
		return v
	}
	return gjson.GetBytes(line, "content")
}
