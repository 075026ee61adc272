package platnosci

import (
	"regexp"
	"strings"
)

// Fields is a parsed response. A nil value means the key was present with
// an empty value.
type Fields map[string]*string

// lineRe splits on the first colon that directly follows a leading word.
// Later colons belong to the value.
var lineRe = regexp.MustCompile(`^(\w+):(.*)$`)

// ParseBody parses the gateway's "key: value" text answer. It is not YAML:
// values like `NumberFormatException For input string: "pos1"` break YAML
// parsers, so matching is done line by line with a pattern.
//
// When allowed is nil every parsed key is kept, otherwise only listed keys.
// A repeated key keeps its last value.
func ParseBody(body string, allowed []string) Fields {
	result := Fields{}
	if strings.TrimSpace(body) == "" {
		return result
	}

	var keep map[string]bool
	if allowed != nil {
		keep = make(map[string]bool, len(allowed))
		for _, k := range allowed {
			keep[k] = true
		}
	}

	// No line length limit: a long error_message must not hide later keys.
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := lineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key := m[1]
		if keep != nil && !keep[key] {
			continue
		}
		value := strings.TrimSpace(m[2])
		if value == "" {
			result[key] = nil
			continue
		}
		result[key] = &value
	}
	return result
}
