package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSONObject is returned by ExtractJSON when text holds no decodable object.
var ErrNoJSONObject = errors.New("no JSON object found in response")

// ExtractJSON decodes the first well-formed JSON object embedded in text into
// out. Anything after that object, including further braces, is ignored.
// Spans that start with '{' but are not valid JSON are skipped.
func ExtractJSON(text string, out any) error {
	offset := 0
	for {
		idx := strings.IndexByte(text[offset:], '{')
		if idx < 0 {
			return ErrNoJSONObject
		}
		start := offset + idx

		var raw json.RawMessage
		dec := json.NewDecoder(strings.NewReader(text[start:]))
		if err := dec.Decode(&raw); err == nil {
			if err := json.Unmarshal(raw, out); err != nil {
				return fmt.Errorf("decoding JSON object: %w", err)
			}
			return nil
		}

		offset = start + 1
	}
}
