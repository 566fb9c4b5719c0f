package schema

import (
	"errors"
	"strings"
)

// ErrNoJSONFound indicates a model reply carried no brace-delimited JSON object.
var ErrNoJSONFound = errors.New("no JSON object found in model reply")

// ExtractJSONObject returns the widest {...} span of text, from the first '{'
// to the last '}'. Model replies routinely wrap the requested JSON object in
// prose or markdown fences, so everything outside the span is discarded.
func ExtractJSONObject(text string) ([]byte, error) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return nil, ErrNoJSONFound
	}
	return []byte(text[start : end+1]), nil
}
