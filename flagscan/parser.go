package flagscan

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"flagbot/models"
)

// linePattern accepts `key: value` and `key=value`, each side optionally
// quoted, with surrounding whitespace ignored.
var linePattern = regexp.MustCompile(`^\s*"?([^"=:]+)"?\s*[:=]\s*"?([^"]+)"?\s*$`)

// Parse turns raw flag text into a FlagMap. A valid JSON object wins
// outright, with non-string values coerced to their serialized form.
// Anything else goes through the line-oriented fallback; lines that do not
// match the pattern contribute nothing. An empty result is not an error,
// just "nothing to scan".
func (sc *Scanner) Parse(text string) models.FlagMap {
	text = strings.TrimSpace(text)

	if ff, ok := parseJSONObject(text); ok {
		return ff
	}

	ff := make(models.FlagMap)
	for _, line := range strings.Split(text, "\n") {
		if len(line) > sc.maxLineBytes {
			continue
		}
		m := linePattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		// Last occurrence of a duplicate key wins.
		ff[strings.TrimSpace(m[1])] = strings.TrimSpace(m[2])
	}
	return ff
}

// parseJSONObject attempts the strict parse. A JSON value that is not an
// object (array, scalar) is reported as a failure so the caller falls back.
func parseJSONObject(text string) (models.FlagMap, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, false
	}
	// Literal null unmarshals into a nil map; that is not an object.
	if raw == nil {
		return nil, false
	}

	ff := make(models.FlagMap, len(raw))
	for k, v := range raw {
		ff[k] = coerceValue(v)
	}
	return ff, true
}

func coerceValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
