// Package paths knows the on-disk layout Claude Code uses for saved
// session transcripts: ~/.claude/projects/<encoded-cwd>/<session-id>.jsonl
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ConfigDir returns the Claude Code config directory, honoring the
// CLAUDE_CONFIG_DIR override.
func ConfigDir() (string, error) {
	if dir := os.Getenv("CLAUDE_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".claude"), nil
}

// ProjectsDir returns the directory holding per-project transcript dirs.
func ProjectsDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "projects"), nil
}

// EncodeProjectPath converts an absolute working directory into the
// directory name Claude Code uses under projects/: every character
// outside [A-Za-z0-9] becomes a dash, so /work/my.app → -work-my-app.
func EncodeProjectPath(cwd string) string {
	var b strings.Builder
	b.Grow(len(cwd))
	for _, r := range cwd {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

// SessionFile returns the transcript path for a session of the project
// rooted at cwd.
func SessionFile(projectsDir, cwd, sessionID string) string {
	return filepath.Join(projectsDir, EncodeProjectPath(cwd), sessionID+".jsonl")
}

// LatestSession returns the path of the most recently modified transcript
// for the project rooted at cwd.
func LatestSession(projectsDir, cwd string) (string, error) {
	dir := filepath.Join(projectsDir, EncodeProjectPath(cwd))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read project dir: %w", err)
	}

	type candidate struct {
		path string
		mod  int64
	}
	var found []candidate
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		found = append(found, candidate{filepath.Join(dir, e.Name()), info.ModTime().UnixNano()})
	}
	if len(found) == 0 {
		return "", fmt.Errorf("no transcripts in %s", dir)
	}
	sort.Slice(found, func(i, j int) bool { return found[i].mod > found[j].mod })
	return found[0].path, nil
}

// SessionID extracts the session id from a transcript path.
func SessionID(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".jsonl")
}
