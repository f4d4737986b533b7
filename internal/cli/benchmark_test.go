package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func writeSession(t *testing.T, name string, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func dialogueLines(turns int) []string {
	var lines []string
	for i := 0; i < turns; i++ {
		lines = append(lines,
			fmt.Sprintf(`{"type":"user","message":{"role":"user","content":"question %d"}}`, i),
			fmt.Sprintf(`{"type":"assistant","message":{"role":"assistant","content":[{"type":"text","text":"answer %d"}]}}`, i),
		)
	}
	return lines
}

func TestBenchmarkSession(t *testing.T) {
	big := strings.Repeat("x", 2000)
	lines := append(dialogueLines(6),
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","id":"tu_1","name":"Bash","input":{"command":"cat big.log"}}]}}`,
		fmt.Sprintf(`{"type":"user","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"tu_1","content":%q}]}}`, big),
	)
	path := writeSession(t, "11112222-3333-4444-5555-666677778888.jsonl", lines)

	s, err := benchmarkSession(path)
	if err != nil {
		t.Fatalf("benchmarkSession: %v", err)
	}
	if s == nil {
		t.Fatal("session unexpectedly filtered out")
	}

	if s.SessionID != "11112222-3333-4444-5555-666677778888" {
		t.Errorf("SessionID = %q", s.SessionID)
	}
	if s.MessageCount != 14 {
		t.Errorf("MessageCount = %d, want 14", s.MessageCount)
	}
	if s.EstimatedTokens <= 0 || s.PostTrimTokens <= 0 {
		t.Errorf("token estimates = %d/%d, want > 0", s.EstimatedTokens, s.PostTrimTokens)
	}
	if s.PostTrimTokens >= s.EstimatedTokens {
		t.Errorf("PostTrimTokens %d not below EstimatedTokens %d", s.PostTrimTokens, s.EstimatedTokens)
	}
	if s.ReductionPercent <= 0 {
		t.Errorf("ReductionPercent = %f, want > 0", s.ReductionPercent)
	}
	if s.ToolResultBytePct <= 0 {
		t.Errorf("ToolResultBytePct = %d, want > 0", s.ToolResultBytePct)
	}
	if s.Breakdown == nil || s.Breakdown.ToolResults.Count != 1 {
		t.Fatalf("Breakdown = %+v, want one tool_result", s.Breakdown)
	}
	if s.TotalBytes != s.Breakdown.TotalBytes {
		t.Errorf("TotalBytes %d != Breakdown.TotalBytes %d", s.TotalBytes, s.Breakdown.TotalBytes)
	}
}

// External tooling parses the report, so the JSON key names are a
// contract, not an implementation detail.
func TestBenchmarkSessionWireFormat(t *testing.T) {
	path := writeSession(t, "abc.jsonl", dialogueLines(6))
	s, err := benchmarkSession(path)
	if err != nil {
		t.Fatalf("benchmarkSession: %v", err)
	}

	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	for _, key := range []string{
		"sessionId", "project", "estimatedTokens", "postTrimTokens",
		"reductionPercent", "messageCount", "cacheMissPenalty",
		"savingsPerTurn", "toolResultBytePct", "totalBytes",
		"breakdown.toolResults.bytes", "breakdown.thinkingSignatures.bytes",
		"breakdown.fileHistory.bytes", "breakdown.conversation.bytes",
		"breakdown.toolUseRequests.bytes", "breakdown.other.bytes",
	} {
		if !gjson.GetBytes(raw, key).Exists() {
			t.Errorf("report missing key %s", key)
		}
	}
}

func TestBenchmarkSessionFiltersShortSessions(t *testing.T) {
	path := writeSession(t, "tiny.jsonl", dialogueLines(2))
	s, err := benchmarkSession(path)
	if err != nil {
		t.Fatalf("benchmarkSession: %v", err)
	}
	if s != nil {
		t.Errorf("4-message session should be filtered, got %+v", s)
	}
}
