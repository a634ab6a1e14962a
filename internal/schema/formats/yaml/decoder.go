package yaml

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Decoder decodes YAML schema documents.
type Decoder struct{}

// NewDecoder creates a new YAML decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode parses content into a mapping.
func (d *Decoder) Decode(content []byte) (map[string]interface{}, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML schema: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("schema document must be a mapping")
	}
	return doc, nil
}
