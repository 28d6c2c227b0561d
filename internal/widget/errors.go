package widget

import (
	"errors"
	"fmt"

	"github.com/valpere/mstranslate/internal/translator"
	"github.com/valpere/mstranslate/internal/transport"
)

// Kind classifies the failures the widget surfaces.
type Kind int

const (
	AuthFailure Kind = iota + 1
	LanguageFetchFailure
	TranslateFailure
	CacheUnavailable
)

func (k Kind) String() string {
	switch k {
	case AuthFailure:
		return "auth failure"
	case LanguageFetchFailure:
		return "language fetch failure"
	case TranslateFailure:
		return "translate failure"
	case CacheUnavailable:
		return "cache unavailable"
	default:
		return "unknown failure"
	}
}

// ErrUnsupportedLanguage is returned when a language code is not among those
// fetched at bootstrap.
var ErrUnsupportedLanguage = errors.New("language not offered by the service")

const unexpectedMessage = "Unexpected error occurred. Could not execute request."

// Error is a failure surfaced in the error panel.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message is the text shown in the error panel.
func (e *Error) Message() string {
	var statusErr *transport.StatusError
	if errors.As(e.Err, &statusErr) {
		return fmt.Sprintf("Could not execute request. %d: %s", statusErr.StatusCode, statusErr.Message)
	}

	var exc *translator.ExceptionError
	if errors.As(e.Err, &exc) {
		return "Could not execute request. " + exc.Message
	}

	return unexpectedMessage
}

// IsStructured reports whether the failure carried a status and message from
// the service, as opposed to an unexplained failure.
func (e *Error) IsStructured() bool {
	var statusErr *transport.StatusError
	var exc *translator.ExceptionError
	return errors.As(e.Err, &statusErr) || errors.As(e.Err, &exc)
}
