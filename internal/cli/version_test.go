package cli

import "testing"

func TestVersionString(t *testing.T) {
	defer func(v, c string) { version, commit = v, c }(version, commit)

	version, commit = "1.2.0", "abcdef1234567890"
	if got := VersionString(); got != "1.2.0+abcdef12" {
		t.Errorf("VersionString = %q, want 1.2.0+abcdef12", got)
	}

	commit = ""
	if got := VersionString(); got != "1.2.0" {
		t.Errorf("dev builds should report the bare version, got %q", got)
	}
}
