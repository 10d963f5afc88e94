package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/faraday-ai/faraday-dashboard/internal"
)

// MarkdownExporter exports snapshots in Markdown format
type MarkdownExporter struct{}

// Export exports a snapshot to Markdown format
func (e *MarkdownExporter) Export(snapshot *internal.Snapshot, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Faraday Dashboard\n\n")

	if snapshot.Guest {
		_, _ = fmt.Fprintf(w, "**User:** %s (guest)  \n", snapshot.User.Name)
	} else {
		_, _ = fmt.Fprintf(w, "**User:** %s  \n", snapshot.User.Name)
	}
	_, _ = fmt.Fprintf(w, "**Widgets:** %d  \n", len(snapshot.Widgets))
	_, _ = fmt.Fprintf(w, "**Exported:** %s\n\n", snapshot.ExportedAt.Format("2006-01-02 15:04:05 UTC"))

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Widgets\n\n")

	if len(snapshot.Widgets) == 0 {
		_, _ = fmt.Fprintf(w, "_No widgets on the dashboard._\n\n")
	}
	for _, widget := range snapshot.Widgets {
		_, _ = fmt.Fprintf(w, "### %s\n\n", widget.Name)
		_, _ = fmt.Fprintf(w, "- **Type:** %s\n", widget.Type)
		_, _ = fmt.Fprintf(w, "- **Size:** %s\n", widget.Size)
		_, _ = fmt.Fprintf(w, "- **ID:** `%s`\n", widget.ID)

		switch widget.Payload.Kind {
		case internal.PayloadText:
			_, _ = fmt.Fprintf(w, "\n%s\n\n", escapeMarkdown(widget.Payload.Text))
		case internal.PayloadStructured:
			data, err := json.MarshalIndent(widget.Payload.Fields, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode widget data: %w", err)
			}
			_, _ = fmt.Fprintf(w, "\n```json\n%s\n```\n\n", data)
		default:
			_, _ = fmt.Fprintf(w, "\n_No data yet._\n\n")
		}
	}

	if len(snapshot.Transcript) > 0 {
		_, _ = fmt.Fprintf(w, "---\n\n")
		_, _ = fmt.Fprintf(w, "## Conversation\n\n")

		for i, msg := range snapshot.Transcript {
			timestamp := ""
			if !msg.Timestamp.IsZero() {
				timestamp = fmt.Sprintf(" (%s)", msg.Timestamp.Format("15:04:05"))
			}
			_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", msg.Role, timestamp, escapeMarkdown(msg.Content))

			if i < len(snapshot.Transcript)-1 {
				_, _ = fmt.Fprintf(w, "---\n\n")
			}
		}
	}

	return nil
}

// escapeMarkdown escapes markdown special characters
func escapeMarkdown(text string) string {
	// Basic escaping - preserve code blocks
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			// Escape markdown syntax outside code blocks
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
