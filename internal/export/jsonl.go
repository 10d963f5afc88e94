package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/faraday-ai/faraday-dashboard/internal"
)

// JSONLExporter exports snapshots in JSONL format (one record per line,
// widgets first, then transcript messages, each tagged with a kind field)
type JSONLExporter struct{}

// Export exports a snapshot to JSONL format
func (e *JSONLExporter) Export(snapshot *internal.Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, widget := range snapshot.Widgets {
		obj := map[string]interface{}{
			"kind":   "widget",
			"id":     widget.ID,
			"type":   widget.Type,
			"name":   widget.Name,
			"size":   widget.Size,
			"origin": widget.Origin,
		}
		if !widget.Payload.IsEmpty() {
			obj["data"] = widget.Payload
		}
		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode widget: %w", err)
		}
	}

	for _, msg := range snapshot.Transcript {
		obj := map[string]interface{}{
			"kind":    "message",
			"role":    msg.Role,
			"content": msg.Content,
		}
		if !msg.Timestamp.IsZero() {
			obj["timestamp"] = msg.Timestamp
		}
		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
