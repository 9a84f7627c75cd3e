package topic

import "strings"

// Topic represents a hierarchical notification type using dot notation.
// Examples: "import.parse.start", "views.changed", "saveXML.done"
type Topic string

// Wildcard constants for pattern matching.
const (
	// Wildcard matches any remaining segments when used as the final
	// segment of a pattern: "import.*" matches "import.done" and
	// "import.parse.start".
	Wildcard = "*"

	// Separator is the character used to separate topic segments.
	Separator = "."
)

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// Segments returns the topic split by the separator.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// Parent returns the parent topic by removing the last segment.
// Returns an empty topic if there is no parent.
//
// Example: "import.parse.start" -> "import.parse"
func (t Topic) Parent() Topic {
	s := string(t)
	idx := strings.LastIndex(s, Separator)
	if idx < 0 {
		return ""
	}
	return Topic(s[:idx])
}

// Child returns a child topic by appending a segment.
//
// Example: "import".Child("done") -> "import.done"
func (t Topic) Child(segment string) Topic {
	if t == "" {
		return Topic(segment)
	}
	return Topic(string(t) + Separator + segment)
}

// Base returns the last segment of the topic.
func (t Topic) Base() string {
	s := string(t)
	idx := strings.LastIndex(s, Separator)
	if idx < 0 {
		return s
	}
	return s[idx+1:]
}

// IsPattern returns true if the topic contains a wildcard segment.
func (t Topic) IsPattern() bool {
	return strings.HasSuffix(string(t), Separator+Wildcard) || t == Wildcard
}

// IsValid returns true if the topic is well formed: non-empty, no empty
// segments, and a wildcard only as the final segment.
func (t Topic) IsValid() bool {
	if t == "" {
		return false
	}
	segs := t.Segments()
	for i, s := range segs {
		if s == "" {
			return false
		}
		if s == Wildcard && i != len(segs)-1 {
			return false
		}
	}
	return true
}

// Match reports whether pattern matches t. An exact pattern matches only
// itself. A pattern ending in ".*" matches any topic sharing the prefix,
// with at least one further segment. The bare pattern "*" matches all
// topics.
func Match(pattern, t Topic) bool {
	if pattern == t {
		return true
	}
	if pattern == Wildcard {
		return t != ""
	}
	p := string(pattern)
	if !strings.HasSuffix(p, Separator+Wildcard) {
		return false
	}
	prefix := p[:len(p)-len(Wildcard)] // keep trailing separator
	return strings.HasPrefix(string(t), prefix) && len(t) > len(prefix)
}
