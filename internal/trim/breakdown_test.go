package trim

import (
	"strings"
	"testing"
)

func runMeasure(t *testing.T, input string) *Breakdown {
	t.Helper()
	b, err := Measure(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	return b
}

func TestMeasureCategories(t *testing.T) {
	fileHistory := `{"type":"file-history-snapshot","messageId":"fh-1","snapshot":{"trackedFiles":["main.go"]}}`
	input := join(
		userLine("run the tests"),
		toolUseLine("tu_1", "Bash", `{"command":"go test ./..."}`),
		toolResultLine("tu_1", "ok\t0.02s"),
		fileHistory,
		assistantLine("All green."),
	)

	b := runMeasure(t, input)

	if b.ToolResults.Count != 1 || b.ToolResults.Bytes == 0 {
		t.Errorf("ToolResults = %+v, want one counted block", b.ToolResults)
	}
	if b.ToolUseRequests.Count != 1 || b.ToolUseRequests.Bytes == 0 {
		t.Errorf("ToolUseRequests = %+v, want one counted block", b.ToolUseRequests)
	}
	if b.FileHistory.Count != 1 || b.FileHistory.Bytes != int64(len(fileHistory))+1 {
		t.Errorf("FileHistory = %+v, want the whole record counted", b.FileHistory)
	}
	if b.Conversation.Bytes == 0 {
		t.Error("dialogue bytes not attributed to Conversation")
	}
	if b.TotalBytes != int64(len(join(
		userLine("run the tests"),
		toolUseLine("tu_1", "Bash", `{"command":"go test ./..."}`),
		toolResultLine("tu_1", "ok\t0.02s"),
		fileHistory,
		assistantLine("All green."),
	))) {
		t.Errorf("TotalBytes = %d does not match input size", b.TotalBytes)
	}
}

func TestMeasureCategoriesSumToTotal(t *testing.T) {
	input := join(
		userLine("hello"),
		toolUseLine("tu_1", "Read", `{"file_path":"a.go"}`),
		toolResultLine("tu_1", strings.Repeat("z", 800)),
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"thinking","thinking":"hmm","signature":"c2lnbmF0dXJl"}]}}`,
		`{"type":"queue-operation","operation":"enqueue"}`,
		"not json at all",
	)

	b := runMeasure(t, input)

	sum := b.ToolResults.Bytes + b.ThinkingSignatures.Bytes + b.FileHistory.Bytes +
		b.Conversation.Bytes + b.ToolUseRequests.Bytes + b.Other.Bytes
	if sum != b.TotalBytes {
		t.Errorf("categories sum to %d, total is %d", sum, b.TotalBytes)
	}
	if b.ThinkingSignatures.Count != 1 {
		t.Errorf("ThinkingSignatures.Count = %d, want 1", b.ThinkingSignatures.Count)
	}
	if b.Other.Bytes == 0 {
		t.Error("queue record and malformed line should land in Other")
	}
}

func TestMeasureSkipsPreBoundaryRegion(t *testing.T) {
	input := join(
		toolResultLine("tu_old", strings.Repeat("x", 900)),
		`{"type":"summary","summary":"Earlier conversation summarized"}`,
		userLine("fresh start"),
	)

	b := runMeasure(t, input)

	if b.ToolResults.Count != 0 {
		t.Errorf("ToolResults.Count = %d, want 0 (request is pre-boundary)", b.ToolResults.Count)
	}
	wantTotal := int64(len(join(
		`{"type":"summary","summary":"Earlier conversation summarized"}`,
		userLine("fresh start"),
	)))
	if b.TotalBytes != wantTotal {
		t.Errorf("TotalBytes = %d, want %d (live region only)", b.TotalBytes, wantTotal)
	}
	if b.Conversation.Bytes != wantTotal {
		t.Errorf("Conversation.Bytes = %d, want %d", b.Conversation.Bytes, wantTotal)
	}
}
