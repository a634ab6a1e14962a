package json

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
)

// Decoder decodes JSON schema documents. Comments and trailing commas are
// stripped before parsing.
type Decoder struct{}

// NewDecoder creates a new JSON decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode parses content into a JSON object.
func (d *Decoder) Decode(content []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(trimmed)))
	dec.UseNumber()

	var doc map[string]interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON schema: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("schema document must be an object")
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected content after schema document")
	}
	return doc, nil
}
