package transcript

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ParsedEntry holds the conversational text of one transcript line.
type ParsedEntry struct {
	Type string // "user", "assistant", "system"
	Role string
	Text string // extracted plain text
}

// Stats summarizes a transcript file without retaining its content.
type Stats struct {
	Lines      int
	Bytes      int64
	Users      int
	Assistants int
}

var systemReminderRe = regexp.MustCompile(`<system-reminder>[\s\S]*?</system-reminder>`)

// ParseFile reads a JSONL transcript file and returns the dialogue entries.
func ParseFile(path string) ([]ParsedEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	var entries []ParsedEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		entry, err := parseLine(line)
		if err != nil {
			continue // skip malformed lines
		}
		if entry != nil {
			entries = append(entries, *entry)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan transcript: %w", err)
	}

	return entries, nil
}

// ParseLines parses transcript content from a string (for testing).
func ParseLines(content string) ([]ParsedEntry, error) {
	var entries []ParsedEntry
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		entry, err := parseLine([]byte(line))
		if err != nil {
			continue
		}
		if entry != nil {
			entries = append(entries, *entry)
		}
	}
	return entries, nil
}

func parseLine(line []byte) (*ParsedEntry, error) {
	var l Line
	if err := json.Unmarshal(line, &l); err != nil {
		return nil, err
	}

	if l.Type == "" || l.Message == nil {
		return nil, nil
	}

	var msg Message
	if err := json.Unmarshal(l.Message, &msg); err != nil {
		return nil, err
	}

	text := ExtractText(msg.Content)
	text = systemReminderRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	if text == "" {
		return nil, nil
	}

	return &ParsedEntry{
		Type: l.Type,
		Role: msg.Role,
		Text: text,
	}, nil
}

// ExtractText handles the polymorphic content field.
// It may be a plain string or an array of ContentBlock.
func ExtractText(raw json.RawMessage) string {
	// Try as string first
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	// Try as array of content blocks
	var blocks []ContentBlock
	if err := json.Unmarshal(raw, &blocks); err == nil {
		var texts []string
		for _, b := range blocks {
			if b.Type == BlockText && b.Text != "" {
				texts = append(texts, b.Text)
			}
		}
		return strings.Join(texts, "\n")
	}

	return ""
}

// FileStats scans a transcript file and tallies its lines and messages.
func FileStats(path string) (*Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	st := &Stats{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		st.Bytes += int64(len(line)) + 1
		if len(line) == 0 {
			continue
		}
		st.Lines++

		var l Line
		if err := json.Unmarshal(line, &l); err != nil {
			continue
		}
		switch l.Type {
		case TypeUser:
			st.Users++
		case TypeAssistant:
			st.Assistants++
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan transcript: %w", err)
	}
	return st, nil
}
