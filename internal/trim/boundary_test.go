package trim

import "testing"

func toLines(ss ...string) [][]byte {
	lines := make([][]byte, len(ss))
	for i, s := range ss {
		lines[i] = []byte(s)
	}
	return lines
}

func TestFindBoundaryNone(t *testing.T) {
	lines := toLines(
		`{"type":"user","message":{"role":"user","content":"hi"}}`,
		`{"type":"assistant","message":{"role":"assistant","content":"hello"}}`,
	)
	if got := findBoundary(lines); got != -1 {
		t.Errorf("findBoundary = %d, want -1", got)
	}
}

func TestFindBoundarySummary(t *testing.T) {
	lines := toLines(
		`{"type":"user","message":{"role":"user","content":"hi"}}`,
		`{"type":"summary","summary":"earlier"}`,
		`{"type":"user","message":{"role":"user","content":"more"}}`,
	)
	if got := findBoundary(lines); got != 1 {
		t.Errorf("findBoundary = %d, want 1", got)
	}
}

func TestFindBoundaryLastWins(t *testing.T) {
	lines := toLines(
		`{"type":"summary","summary":"first"}`,
		`{"type":"user","message":{"role":"user","content":"hi"}}`,
		`{"type":"system","subtype":"compact_boundary"}`,
		`{"type":"user","message":{"role":"user","content":"more"}}`,
	)
	if got := findBoundary(lines); got != 2 {
		t.Errorf("findBoundary = %d, want 2", got)
	}
}

func TestFindBoundaryTolerant(t *testing.T) {
	lines := toLines(
		`not json`,
		`{"type":"summary"`,
		`{"type":"summary","summary":"real"}`,
	)
	if got := findBoundary(lines); got != 2 {
		t.Errorf("findBoundary = %d, want 2", got)
	}
}

func TestFindBoundarySystemWithoutSubtype(t *testing.T) {
	lines := toLines(
		`{"type":"system","subtype":"turn_duration","durationMs":1200}`,
	)
	if got := findBoundary(lines); got != -1 {
		t.Errorf("findBoundary = %d, want -1 (wrong subtype)", got)
	}
}

func TestCollectToolUseIDsFromBoundary(t *testing.T) {
	lines := toLines(
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","id":"tu_old","name":"Bash","input":{}}]}}`,
		`{"type":"summary","summary":"compacted"}`,
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","id":"tu_new","name":"Bash","input":{}}]}}`,
	)

	ids := collectToolUseIDs(lines, 1)

	if _, ok := ids["tu_new"]; !ok {
		t.Error("tu_new missing from id set")
	}
	if _, ok := ids["tu_old"]; ok {
		t.Error("tu_old collected from before the boundary")
	}
}

func TestCollectToolUseIDsNoBoundary(t *testing.T) {
	lines := toLines(
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","id":"tu_1","name":"Bash","input":{}}]}}`,
	)

	ids := collectToolUseIDs(lines, -1)

	if len(ids) != 1 {
		t.Fatalf("id set size = %d, want 1", len(ids))
	}
}
