package schema

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Format names the structured-data encoding of a schema file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYaml Format = "yaml"
)

// Decoder turns raw file content into a schema document.
// Each schema format implements this interface.
type Decoder interface {
	// Decode parses content. Returns error if the document is malformed
	// or its top level is not an object.
	Decode(content []byte) (map[string]interface{}, error)
}

// FormatRegistry maps file extensions to decoders.
// It acts as a central registry for pluggable format support.
type FormatRegistry struct {
	mu       sync.RWMutex
	decoders map[Format]Decoder
	exts     map[string]Format
}

// NewFormatRegistry creates a new format registry.
func NewFormatRegistry() *FormatRegistry {
	return &FormatRegistry{
		decoders: make(map[Format]Decoder),
		exts:     make(map[string]Format),
	}
}

// RegisterFormat registers a decoder for a format and the file extensions it claims.
// This should be called during initialization to enable format support.
func (r *FormatRegistry) RegisterFormat(format Format, decoder Decoder, exts ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.decoders[format] = decoder
	for _, ext := range exts {
		r.exts[strings.ToLower(ext)] = format
	}
}

// FormatFor returns the format claiming ext.
func (r *FormatRegistry) FormatFor(ext string) (Format, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.exts[strings.ToLower(ext)]
	return f, ok
}

// GetDecoder retrieves the decoder for a given format.
// Returns error if the format is not registered.
func (r *FormatRegistry) GetDecoder(format Format) (Decoder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	decoder, exists := r.decoders[format]
	if !exists {
		return nil, fmt.Errorf("unsupported schema format: %s", format)
	}
	return decoder, nil
}

// Extensions returns the registered extensions in sorted order.
func (r *FormatRegistry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.exts))
	for ext := range r.exts {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
