package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"

	"github.com/aevon-lab/routekit/internal/discovery"
)

// IDField is the document field holding the schema identifier.
const IDField = "$id"

// Document is a decoded schema document.
type Document map[string]interface{}

// ID returns the document identifier, or "" when absent or not a string.
func (d Document) ID() string {
	id, _ := d[IDField].(string)
	return id
}

// Clone returns a shallow copy of the document.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Descriptor records one registered schema document.
type Descriptor struct {
	// Name is the source file name.
	Name string `json:"name"`

	// ID is the identifier the document is registered under.
	ID string `json:"id"`

	// Path is the origin file.
	Path string `json:"-"`

	// Version is the version token of the subtree the file was found in.
	Version discovery.Version `json:"-"`

	// Format is the decoder the document went through.
	Format Format `json:"-"`

	// Fingerprint is the SHA-256 of the raw file content.
	Fingerprint string `json:"-"`
}

// ComputeFingerprint calculates SHA-256 hash of raw document content.
func ComputeFingerprint(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// ResolveID applies the identifier rules: synthesize from the file name when the
// document has none, then place it in the version namespace.
func ResolveID(doc Document, fileName string, v discovery.Version) string {
	id := doc.ID()
	if id == "" {
		id = strings.TrimSuffix(fileName, filepath.Ext(fileName))
	}
	if v.IsSet() && !strings.HasPrefix(id, v.Token()) {
		id = v.Token() + "-" + id
	}
	return id
}
