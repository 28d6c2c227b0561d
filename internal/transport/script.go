package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ParseScript splits a script response of the form `name(payload);` into the
// callback name and its JSON argument. A leading `/**/` guard and the
// trailing semicolon are optional.
func ParseScript(body []byte) (string, json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	body = bytes.TrimSpace(bytes.TrimPrefix(body, []byte("/**/")))
	body = bytes.TrimSpace(bytes.TrimSuffix(body, []byte(";")))

	open := bytes.IndexByte(body, '(')
	if open <= 0 || body[len(body)-1] != ')' {
		return "", nil, fmt.Errorf("%w: expected callback(payload)", ErrMalformedScript)
	}

	name := string(bytes.TrimSpace(body[:open]))
	if !isCallbackName(name) {
		return "", nil, fmt.Errorf("%w: invalid callback name %q", ErrMalformedScript, name)
	}

	payload := bytes.TrimSpace(body[open+1 : len(body)-1])
	if !json.Valid(payload) {
		return "", nil, fmt.Errorf("%w: callback argument is not JSON", ErrMalformedScript)
	}

	return name, json.RawMessage(payload), nil
}

func isCallbackName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || r == '.':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
