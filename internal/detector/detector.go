// Package detector guesses the source language of a text for `--source auto`.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// Auto is the source language value that asks for detection.
const Auto = "auto"

type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector limited to the given ISO 639-1 codes. Unknown codes
// are skipped; with fewer than two known codes the detector considers every
// language.
func New(codes ...string) *Detector {
	var builder lingua.LanguageDetectorBuilder

	langs := languagesFor(codes)
	if len(langs) >= 2 {
		builder = lingua.NewLanguageDetectorBuilder().FromLanguages(langs...)
	} else {
		builder = lingua.NewLanguageDetectorBuilder().FromAllLanguages()
	}

	return &Detector{detector: builder.Build()}
}

func languagesFor(codes []string) []lingua.Language {
	var langs []lingua.Language
	for _, lang := range lingua.AllLanguages() {
		iso := lang.IsoCode639_1().String()
		for _, code := range codes {
			if strings.EqualFold(iso, code) {
				langs = append(langs, lang)
				break
			}
		}
	}
	return langs
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if strings.TrimSpace(text) == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the lower-case ISO 639-1 code of the detected language,
// the form the translation service uses.
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

// SourceFor returns the detected language of text when it is one of
// supported, and fallback otherwise.
func (d *Detector) SourceFor(text, fallback string, supported []string) string {
	code, ok := d.DetectISO(text)
	if !ok {
		return fallback
	}
	for _, s := range supported {
		if s == code {
			return code
		}
	}
	return fallback
}
