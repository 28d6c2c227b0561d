package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrUnexpected is returned when a request fails without a structured
	// error body to explain why.
	ErrUnexpected = errors.New("unexpected error")

	// ErrUnknownCallback is returned when a script response invokes a
	// callback other than the one allocated for its request.
	ErrUnknownCallback = errors.New("unknown script callback")

	// ErrMalformedScript is returned when a script response is not a single
	// callback invocation.
	ErrMalformedScript = errors.New("malformed script response")
)

// StatusError is a failed request whose body carried a status code and a
// message.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// errorBody covers both the token service shape ({"statusCode","message"})
// and the Cognitive Services shape ({"error":{"code","message"}}).
type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Error      *struct {
		Code    any    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// responseError converts a non-2xx response into a *StatusError when the body
// explains the failure, and into ErrUnexpected otherwise.
func responseError(httpStatus int, body []byte) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return fmt.Errorf("%w: HTTP %d with empty body", ErrUnexpected, httpStatus)
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return fmt.Errorf("%w: HTTP %d: %s", ErrUnexpected, httpStatus, truncate(string(body), 200))
	}

	code, message := eb.StatusCode, eb.Message
	if eb.Error != nil && message == "" {
		message = eb.Error.Message
		if n, ok := eb.Error.Code.(float64); ok && code == 0 {
			code = int(n)
		}
	}
	if message == "" {
		return fmt.Errorf("%w: HTTP %d", ErrUnexpected, httpStatus)
	}
	if code == 0 {
		code = httpStatus
	}

	return &StatusError{StatusCode: code, Message: message}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
