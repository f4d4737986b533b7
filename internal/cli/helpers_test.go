package cli

import (
	"strings"
	"testing"
)

func TestFilterEnvStripsClaudeVars(t *testing.T) {
	env := []string{
		"PATH=/usr/local/bin:/usr/bin",
		"CLAUDE_CONFIG_DIR=/tmp/claude",
		"HOME=/home/dev",
		"CLAUDE_CODE_ENTRYPOINT=cli",
		"CMV_DB=/tmp/cmv.db",
	}
	filtered := filterEnv(env)
	if len(filtered) != 3 {
		t.Fatalf("expected 3 vars, got %d: %v", len(filtered), filtered)
	}
	for _, e := range filtered {
		if strings.HasPrefix(e, "CLAUDE_") {
			t.Errorf("CLAUDE_ var survived filtering: %s", e)
		}
	}
}

func TestFilterEnvKeepsOrder(t *testing.T) {
	env := []string{"A=1", "CLAUDE_X=y", "B=2"}
	filtered := filterEnv(env)
	if len(filtered) != 2 || filtered[0] != "A=1" || filtered[1] != "B=2" {
		t.Errorf("unexpected result: %v", filtered)
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Errorf("shortID = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("short input should pass through, got %q", got)
	}
}

func TestHumanBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 << 20, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := humanBytes(tt.n); got != tt.want {
			t.Errorf("humanBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
