package normalize

import (
	"encoding/json"
	"fmt"
)

// createFields lists the field names the shorten endpoint has used for its result,
// in precedence order
var createFields = []string{"short_url", "ShortURL", "url"}

// ShortURL extracts the created short URL from a shorten response. The first
// non-empty string field wins; an empty result means none was present.
func ShortURL(body []byte) (string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", fmt.Errorf("failed to decode shorten response: %w", err)
	}

	for _, name := range createFields {
		if value := stringField(fields, name); value != "" {
			return value, nil
		}
	}
	return "", nil
}
