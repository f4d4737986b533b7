package trim

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/lazypower/cmv/internal/transcript"
)

// StubMarker prefixes every stub string written in place of oversized
// content, so downstream consumers can detect trimming without
// re-computing sizes.
const StubMarker = "[trimmed"

func stubText(n int) string {
	return fmt.Sprintf("%s %d chars]", StubMarker, n)
}

// largeFields maps a tool name to the input fields that carry oversized
// payloads. For a known tool only those fields are ever stubbed; its
// identification fields (file_path and friends) survive untouched. Tools
// not listed fall back to stubbing any oversized string field except
// those in defaultPreserve.
var largeFields = map[string][]string{
	"Write":        {"content"},
	"Edit":         {"old_string", "new_string"},
	"NotebookEdit": {"new_source"},
}

// defaultPreserve lists identification and short-description fields that
// the fallback policy never stubs, regardless of length.
var defaultPreserve = map[string]bool{
	"file_path":   true,
	"description": true,
}

// rewrite is the final pass: it drops pre-boundary history, applies the
// per-record and per-block rules to everything at or after the boundary,
// and writes surviving lines to w in original order.
func rewrite(lines [][]byte, boundary int, ids map[string]struct{}, w *bufio.Writer, threshold int, m *Metrics) error {
	for i, line := range lines {
		if i < boundary {
			m.PreCompactionLinesSkipped++
			continue
		}
		out, keep := rewriteLine(line, ids, threshold, m)
		if !keep {
			continue
		}
		if _, err := w.Write(out); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
		m.TrimmedBytes += int64(len(out)) + 1
	}
	return nil
}

// rewriteLine applies the record-level rules to one line. It returns the
// possibly rewritten line and whether the line survives. Lines that are
// not valid JSON pass through untouched; one bad line must not abort the
// run.
func rewriteLine(line []byte, ids map[string]struct{}, threshold int, m *Metrics) ([]byte, bool) {
	if !gjson.ValidBytes(line) {
		return line, true
	}

	switch gjson.GetBytes(line, "type").Str {
	case transcript.TypeFileHistorySnapshot:
		m.FileHistoryRemoved++
		return nil, false
	case transcript.TypeQueueOperation:
		m.QueueOperationsRemoved++
		return nil, false
	case transcript.TypeUser:
		m.UserMessages++
	case transcript.TypeAssistant:
		m.AssistantResponses++
	}

	// Token accounting is not part of the portable conversation.
	out := deleteField(line, "usage")
	out = deleteField(out, "message.usage")

	if path := contentPath(out); path != "" {
		out = rewriteContent(out, path, ids, threshold, m)
	}
	return out, true
}

func deleteField(line []byte, path string) []byte {
	if !gjson.GetBytes(line, path).Exists() {
		return line
	}
	out, err := sjson.DeleteBytes(line, path)
	if err != nil {
		return line
	}
	return out
}

func contentPath(line []byte) string {
	if gjson.GetBytes(line, "message.content").IsArray() {
		return "message.content"
	}
	if gjson.GetBytes(line, "content").IsArray() {
		return "content"
	}
	return ""
}

// rewriteContent applies the block-level rules to the content array at
// path. Untouched blocks keep their original bytes; the array is only
// re-spliced when at least one block changed or was removed.
func rewriteContent(line []byte, path string, ids map[string]struct{}, threshold int, m *Metrics) []byte {
	blocks := gjson.GetBytes(line, path).Array()
	parts := make([]string, 0, len(blocks))
	changed := false
	inputStubbed := false

	for _, block := range blocks {
		raw, keep := rewriteBlock(block, ids, threshold, m, &inputStubbed)
		if !keep {
			changed = true
			continue
		}
		if raw != block.Raw {
			changed = true
		}
		parts = append(parts, raw)
	}

	// One increment per record, however many fields were stubbed.
	if inputStubbed {
		m.ToolUseInputsStubbed++
	}

	if !changed {
		return line
	}
	out, err := sjson.SetRawBytes(line, path, []byte("["+strings.Join(parts, ",")+"]"))
	if err != nil {
		return line
	}
	return out
}

func rewriteBlock(block gjson.Result, ids map[string]struct{}, threshold int, m *Metrics, inputStubbed *bool) (string, bool) {
	switch block.Get("type").Str {
	case transcript.BlockThinking:
		// The signature is non-portable and bulky; the whole block goes.
		m.SignaturesStripped++
		return "", false
	case transcript.BlockImage:
		m.ImagesStripped++
		return "", false
	case transcript.BlockToolResult:
		return rewriteToolResult(block, ids, threshold, m)
	case transcript.BlockToolUse:
		m.ToolUseRequests++
		return rewriteToolUse(block, threshold, inputStubbed), true
	}
	return block.Raw, true
}

// rewriteToolResult strips orphaned results, removes images nested in
// array-valued content, and stubs content whose effective text length
// exceeds the threshold.
func rewriteToolResult(block gjson.Result, ids map[string]struct{}, threshold int, m *Metrics) (string, bool) {
	if _, ok := ids[block.Get("tool_use_id").Str]; !ok {
		// The matching request was discarded with pre-compaction history;
		// a result without its request is not replayable.
		m.OrphanResultsRemoved++
		return "", false
	}

	raw := block.Raw
	content := block.Get("content")

	if content.IsArray() {
		inner := content.Array()
		parts := make([]string, 0, len(inner))
		stripped := false
		for _, b := range inner {
			if b.Get("type").Str == transcript.BlockImage {
				m.ImagesStripped++
				stripped = true
				continue
			}
			parts = append(parts, b.Raw)
		}
		if stripped {
			if out, err := sjson.SetRaw(raw, "content", "["+strings.Join(parts, ",")+"]"); err == nil {
				raw = out
				content = gjson.Get(raw, "content")
			}
		}
	}

	if n := resultLength(content); n > threshold {
		out, err := sjson.Set(raw, "content", stubText(n))
		if err != nil {
			return raw, true
		}
		m.ToolResultsStubbed++
		return out, true
	}
	return raw, true
}

// resultLength is the effective text length of a tool_result content
// value: the string length, or the summed length of nested text blocks.
func resultLength(content gjson.Result) int {
	if content.Type == gjson.String {
		return len(content.Str)
	}
	n := 0
	if content.IsArray() {
		for _, b := range content.Array() {
			if b.Get("type").Str == transcript.BlockText {
				n += len(b.Get("text").Str)
			}
		}
	}
	return n
}

// rewriteToolUse stubs oversized fields in a tool_use input according to
// the tool table, falling back to the default policy for unknown tools.
// Identification fields are preserved verbatim either way.
func rewriteToolUse(block gjson.Result, threshold int, inputStubbed *bool) string {
	input := block.Get("input")
	if !input.IsObject() {
		return block.Raw
	}

	raw := block.Raw
	stub := func(field string, n int) {
		if out, err := sjson.Set(raw, "input."+field, stubText(n)); err == nil {
			raw = out
			*inputStubbed = true
		}
	}

	if fields, ok := largeFields[block.Get("name").Str]; ok {
		for _, field := range fields {
			if v := input.Get(field); v.Type == gjson.String && len(v.Str) > threshold {
				stub(field, len(v.Str))
			}
		}
		return raw
	}

	input.ForEach(func(key, v gjson.Result) bool {
		if v.Type != gjson.String || defaultPreserve[key.Str] {
			return true
		}
		if len(v.Str) > threshold {
			stub(key.Str, len(v.Str))
		}
		return true
	})
	return raw
}
