package widget

import "unicode/utf8"

// State is the session state of one widget. The controller replaces it on
// every UI event; nothing else writes it and it is never persisted.
type State struct {
	Text           string
	SourceLanguage string
	TargetLanguage string
	AuthToken      string
}

// Options are the recognised widget settings.
type Options struct {
	// MinTextLength is the shortest text, in characters, that may be
	// translated.
	MinTextLength int
	// DefaultLanguage is preselected as the source language when the service
	// offers it.
	DefaultLanguage string
}

const DefaultMinTextLength = 2

// CanTranslate reports whether the translate control should be enabled for s.
func CanTranslate(s State, opts Options) bool {
	return s.Text != "" &&
		utf8.RuneCountInString(s.Text) >= opts.MinTextLength &&
		s.SourceLanguage != "" &&
		s.TargetLanguage != ""
}

// CacheKey is the local cache key for the translation s would request. The
// source language is not part of it.
func CacheKey(s State) string {
	return s.Text + "-" + s.TargetLanguage
}

// Phase is the controller's position in its lifecycle.
type Phase int

const (
	Uninitialized Phase = iota
	BootstrappingToken
	BootstrappingLanguages
	Ready
	Translating
	Failed
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case BootstrappingToken:
		return "bootstrapping(token)"
	case BootstrappingLanguages:
		return "bootstrapping(languages)"
	case Ready:
		return "ready"
	case Translating:
		return "translating"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
