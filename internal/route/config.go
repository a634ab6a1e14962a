package route

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var methodPattern = regexp.MustCompile(`^[A-Z]+$`)

// Methods is one or more HTTP method tokens. In YAML it may be a scalar or a list.
type Methods []string

// UnmarshalYAML accepts `method: GET` as well as `method: [GET, POST]`.
func (m *Methods) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*m = Methods{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*m = list
		return nil
	default:
		return fmt.Errorf("line %d: method must be a string or a list of strings", node.Line)
	}
}

// MarshalJSON renders a single method as a string and several as a list.
func (m Methods) MarshalJSON() ([]byte, error) {
	if len(m) == 1 {
		return json.Marshal(m[0])
	}
	return json.Marshal([]string(m))
}

func (m Methods) String() string {
	return strings.Join(m, ",")
}

// normalize upper-cases every token and rejects empty or malformed ones.
func (m Methods) normalize() (Methods, error) {
	out := make(Methods, 0, len(m))
	for _, method := range m {
		method = strings.ToUpper(strings.TrimSpace(method))
		if !methodPattern.MatchString(method) {
			return nil, fmt.Errorf("invalid method %q", method)
		}
		out = append(out, method)
	}
	return out, nil
}

// Config describes how a definition is exposed.
type Config struct {
	Method Methods
	URL    string

	// Schema is free-form validation metadata; "$ref" values name registered schema ids.
	Schema map[string]interface{}

	// Alias is a path, a list of paths, or nil.
	Alias interface{}

	Description string
	Summary     string
	Tags        []string

	// BodyLimit caps the request body in bytes when positive.
	BodyLimit int64
}

func (c Config) documentation() Documentation {
	return Documentation{
		Description: c.Description,
		Summary:     c.Summary,
		Tags:        c.Tags,
		Schema:      c.Schema,
	}
}

// Manifest is the on-disk YAML shape of a route file. Handler names the catalog
// entry; when empty the file's relative path without extension is used. Every other
// set field overrides the definition's own config.
type Manifest struct {
	Handler     string      `yaml:"handler"`
	Method      Methods     `yaml:"method"`
	URL         string      `yaml:"url"`
	Alias       interface{} `yaml:"alias"`
	Description string      `yaml:"description"`
	Summary     string      `yaml:"summary"`
	Tags        []string    `yaml:"tags"`
	BodyLimit   int64       `yaml:"body_limit"`
}

// ParseManifest decodes manifest content. An empty file is a valid, empty manifest.
func ParseManifest(content []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(content, &m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// apply overlays the manifest onto cfg.
func (m Manifest) apply(cfg Config) Config {
	if len(m.Method) > 0 {
		cfg.Method = m.Method
	}
	if m.URL != "" {
		cfg.URL = m.URL
	}
	if m.Alias != nil {
		cfg.Alias = m.Alias
	}
	if m.Description != "" {
		cfg.Description = m.Description
	}
	if m.Summary != "" {
		cfg.Summary = m.Summary
	}
	if len(m.Tags) > 0 {
		cfg.Tags = m.Tags
	}
	if m.BodyLimit > 0 {
		cfg.BodyLimit = m.BodyLimit
	}
	return cfg
}

// normalizeURL guarantees a leading slash.
func normalizeURL(url string) string {
	url = strings.TrimSpace(url)
	if url != "" && !strings.HasPrefix(url, "/") {
		return "/" + url
	}
	return url
}
