package transcript

import (
	"strings"
)

// ExportMarkdown renders the dialogue entries as a markdown document.
// Only user and assistant turns appear; tool traffic and system records
// were already filtered out during parsing.
func ExportMarkdown(entries []ParsedEntry) string {
	if len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	for _, e := range entries {
		switch e.Type {
		case TypeUser:
			b.WriteString("## User\n\n")
		case TypeAssistant:
			b.WriteString("## Assistant\n\n")
		default:
			continue
		}
		b.WriteString(e.Text)
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String()) + "\n"
}
