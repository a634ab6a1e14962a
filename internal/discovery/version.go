package discovery

import (
	"regexp"
	"strings"
)

// DefaultVersionLabel is reported for descriptors that carry no version.
const DefaultVersionLabel = "default"

// apiSegment is the literal first segment under which route versions are recognised.
const apiSegment = "api"

var versionPattern = regexp.MustCompile(`(?i)^v\d+$`)

// Version is either unversioned (zero value) or versioned with a normalized token such as "v2".
type Version struct {
	token string
}

// Unversioned is the absence of a version.
var Unversioned = Version{}

// Versioned returns a version carrying token. The token is lower-cased.
func Versioned(token string) Version {
	return Version{token: strings.ToLower(token)}
}

// IsSet reports whether a version token is present.
func (v Version) IsSet() bool {
	return v.token != ""
}

// Token returns the normalized token, or "" when unversioned.
func (v Version) Token() string {
	return v.token
}

// Label returns the token, or DefaultVersionLabel when unversioned.
func (v Version) Label() string {
	if v.token == "" {
		return DefaultVersionLabel
	}
	return v.token
}

func (v Version) String() string {
	return v.Label()
}

// ParseVersionSegment classifies a single path segment.
func ParseVersionSegment(segment string) Version {
	if versionPattern.MatchString(segment) {
		return Versioned(segment)
	}
	return Unversioned
}

// RouteVersion derives the version of a route file from its path relative to the routes root.
// Only "api/v<digits>/..." is versioned.
func RouteVersion(rel string) Version {
	parts := Segments(rel)
	if len(parts) < 2 || parts[0] != apiSegment {
		return Unversioned
	}
	return ParseVersionSegment(parts[1])
}

// SchemaVersion returns the version that applies below dirName given the version
// inherited from its parent. The first versioned directory met while descending wins.
func SchemaVersion(inherited Version, dirName string) Version {
	if inherited.IsSet() {
		return inherited
	}
	return ParseVersionSegment(dirName)
}

// PrefixURL places url under "/<token>" unless its first segment already is the token.
func PrefixURL(url string, v Version) string {
	if !v.IsSet() {
		return url
	}
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	prefix := "/" + v.token
	if url == prefix || strings.HasPrefix(url, prefix+"/") {
		return url
	}
	return prefix + url
}

// Segments splits a slash separated relative path, dropping empty parts.
func Segments(rel string) []string {
	raw := strings.Split(rel, "/")
	out := raw[:0]
	for _, p := range raw {
		if p != "" && p != "." {
			out = append(out, p)
		}
	}
	return out
}
