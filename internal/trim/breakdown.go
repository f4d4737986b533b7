package trim

import (
	"io"

	"github.com/tidwall/gjson"

	"github.com/lazypower/cmv/internal/transcript"
)

// Category is a byte tally for one class of transcript content.
type Category struct {
	Bytes int64 `json:"bytes"`
	Count int   `json:"count,omitempty"`
}

// Breakdown attributes a transcript's bytes to the classes of content a
// trim acts on. Only the live region counts: everything before the last
// compaction boundary would be skipped wholesale, so it is excluded here
// too. Bytes that belong to no removable class land in Conversation for
// dialogue records and Other for the rest.
type Breakdown struct {
	ToolResults        Category `json:"toolResults"`
	ThinkingSignatures Category `json:"thinkingSignatures"`
	FileHistory        Category `json:"fileHistory"`
	Conversation       Category `json:"conversation"`
	ToolUseRequests    Category `json:"toolUseRequests"`
	Other              Category `json:"other"`

	// TotalBytes covers the live region in newline-terminated form.
	TotalBytes int64 `json:"totalBytes"`
}

// Measure reads a JSONL transcript and returns its byte breakdown. The
// input is not modified; Measure is the read-only companion to Trim.
func Measure(r io.Reader) (*Breakdown, error) {
	lines, _, err := readLines(r)
	if err != nil {
		return nil, err
	}

	b := &Breakdown{}
	boundary := findBoundary(lines)
	start := boundary
	if start < 0 {
		start = 0
	}
	for i, line := range lines[start:] {
		lineBytes := int64(len(line)) + 1
		b.TotalBytes += lineBytes
		if boundary >= 0 && i == 0 {
			// The boundary record itself is the summary the dialogue
			// continues from.
			b.Conversation.Bytes += lineBytes
			continue
		}
		b.measureLine(line, lineBytes)
	}
	return b, nil
}

func (b *Breakdown) measureLine(line []byte, lineBytes int64) {
	if !gjson.ValidBytes(line) {
		b.Other.Bytes += lineBytes
		return
	}

	typ := gjson.GetBytes(line, "type").Str
	switch typ {
	case transcript.TypeFileHistorySnapshot:
		b.FileHistory.Bytes += lineBytes
		b.FileHistory.Count++
		return
	case transcript.TypeQueueOperation:
		b.Other.Bytes += lineBytes
		return
	}

	var accounted int64
	content := contentValue(line)
	if content.IsArray() {
		content.ForEach(func(_, block gjson.Result) bool {
			blockBytes := int64(len(block.Raw))
			switch block.Get("type").Str {
			case transcript.BlockToolResult:
				b.ToolResults.Bytes += blockBytes
				b.ToolResults.Count++
				accounted += blockBytes
			case transcript.BlockThinking:
				if sig := block.Get("signature"); sig.Exists() {
					b.ThinkingSignatures.Bytes += int64(len(sig.Raw))
					b.ThinkingSignatures.Count++
					accounted += int64(len(sig.Raw))
				}
			case transcript.BlockToolUse:
				b.ToolUseRequests.Bytes += blockBytes
				b.ToolUseRequests.Count++
				accounted += blockBytes
			}
			return true
		})
	}
	rest := lineBytes - accounted
	if rest < 0 {
		rest = 0
	}
	if typ == transcript.TypeUser || typ == transcript.TypeAssistant {
		b.Conversation.Bytes += rest
	} else {
		b.Other.Bytes += rest
	}
}
