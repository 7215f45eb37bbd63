package twitter

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Payload is a successfully parsed response body.
type Payload struct {
	value any
}

// Attributes returns the payload as a single object.
func (p Payload) Attributes() (Attributes, error) {
	m, ok := p.value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("payload is %T, want object", p.value)
	}
	return Attributes(m), nil
}

// List returns the payload as an array of objects.
func (p Payload) List() ([]Attributes, error) {
	items, ok := p.value.([]any)
	if !ok {
		return nil, fmt.Errorf("payload is %T, want array", p.value)
	}
	out := make([]Attributes, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("payload item %d is %T, want object", i, item)
		}
		out = append(out, Attributes(m))
	}
	return out, nil
}

// parseBody decodes a JSON body keeping numbers as json.Number.
func parseBody(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return v, nil
}

// ParseAttributes decodes a JSON object into Attributes.
func ParseAttributes(body []byte) (Attributes, error) {
	v, err := parseBody(body)
	if err != nil {
		return nil, err
	}
	return Payload{value: v}.Attributes()
}

// errorMessage builds the message of a failed response: "error" (+ " (request)"),
// else one "{message} [#{code}]" line per entry of "errors", else the raw body.
func errorMessage(parsed any, body []byte) string {
	attrs, ok := parsed.(map[string]any)
	if !ok {
		return string(body)
	}
	if e, ok := attrs["error"]; ok {
		msg := fmt.Sprint(e)
		if r, ok := attrs["request"]; ok {
			msg += fmt.Sprintf(" (%v)", r)
		}
		return msg
	}
	if list, ok := attrs["errors"].([]any); ok {
		var buf bytes.Buffer
		for i, item := range list {
			if i > 0 {
				buf.WriteByte('\n')
			}
			entry, _ := item.(map[string]any)
			fmt.Fprintf(&buf, "%v [#%v]", entry["message"], entry["code"])
		}
		return buf.String()
	}
	return string(body)
}
