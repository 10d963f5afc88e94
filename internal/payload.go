package internal

import (
	"bytes"
	"encoding/json"
)

// PayloadKind discriminates the widget payload variants
type PayloadKind int

const (
	PayloadEmpty PayloadKind = iota
	PayloadText
	PayloadStructured
)

// WidgetPayload is a tagged variant for widget data: empty, free text, or a
// structured JSON object. The variant is decided once when the payload is
// ingested at the API boundary, never re-inferred downstream.
type WidgetPayload struct {
	Kind   PayloadKind
	Text   string
	Fields map[string]interface{}
}

// EmptyPayload returns the absent-data payload; widgets carrying it render
// their static instructional content instead.
func EmptyPayload() WidgetPayload {
	return WidgetPayload{Kind: PayloadEmpty}
}

// TextPayload wraps a plain text value
func TextPayload(text string) WidgetPayload {
	if text == "" {
		return EmptyPayload()
	}
	return WidgetPayload{Kind: PayloadText, Text: text}
}

// StructuredPayload wraps a structured JSON object
func StructuredPayload(fields map[string]interface{}) WidgetPayload {
	if len(fields) == 0 {
		return EmptyPayload()
	}
	return WidgetPayload{Kind: PayloadStructured, Fields: fields}
}

// IngestPayload classifies an arbitrary decoded JSON value into a payload
// variant. Strings become text, objects become structured data, null and
// empty values become the empty payload. Anything else (numbers, arrays)
// is wrapped as a structured object under a "value" field so nothing the
// assistant sends is silently dropped.
func IngestPayload(value interface{}) WidgetPayload {
	switch v := value.(type) {
	case nil:
		return EmptyPayload()
	case string:
		return TextPayload(v)
	case map[string]interface{}:
		return StructuredPayload(v)
	default:
		return StructuredPayload(map[string]interface{}{"value": v})
	}
}

// IsEmpty reports whether the payload carries no data
func (p WidgetPayload) IsEmpty() bool {
	return p.Kind == PayloadEmpty
}

// MarshalJSON encodes the payload in the wire shape the dashboard API uses:
// absent data as null, text as a JSON string, structured data as an object.
func (p WidgetPayload) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case PayloadText:
		return json.Marshal(p.Text)
	case PayloadStructured:
		return json.Marshal(p.Fields)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON classifies incoming JSON into the variant once at decode time
func (p *WidgetPayload) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = EmptyPayload()
		return nil
	}
	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*p = IngestPayload(value)
	return nil
}

// MarshalYAML mirrors the JSON wire shape for YAML exports
func (p WidgetPayload) MarshalYAML() (interface{}, error) {
	switch p.Kind {
	case PayloadText:
		return p.Text, nil
	case PayloadStructured:
		return p.Fields, nil
	default:
		return nil, nil
	}
}

// UnmarshalYAML classifies incoming YAML the same way UnmarshalJSON does
func (p *WidgetPayload) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var value interface{}
	if err := unmarshal(&value); err != nil {
		return err
	}
	if m, ok := value.(map[interface{}]interface{}); ok {
		fields := make(map[string]interface{}, len(m))
		for k, v := range m {
			if ks, ok := k.(string); ok {
				fields[ks] = v
			}
		}
		value = fields
	}
	*p = IngestPayload(value)
	return nil
}
