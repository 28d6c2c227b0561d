// Package widget is the translation widget controller. It owns the session
// state, turns UI events into state transitions and orchestrates the
// bootstrap and translate flows against the remote service and the local
// cache.
package widget

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/valpere/mstranslate/internal/logging"
	"github.com/valpere/mstranslate/internal/translator"
)

// Cache is the local translation cache.
type Cache interface {
	Get(ctx context.Context, cacheKey string) (string, bool)
	Put(ctx context.Context, cacheKey, value string)
}

type noCache struct{}

func (noCache) Get(context.Context, string) (string, bool) { return "", false }
func (noCache) Put(context.Context, string, string)        {}

// Controller drives one widget: it owns the State, the bootstrap phase and
// the language list. It is not safe for concurrent use. Drive it from one
// goroutine, either directly or through Run.
type Controller struct {
	service translator.TranslationService
	cache   Cache
	view    View
	opts    Options
	logger  *logrus.Logger

	state     State
	phase     Phase
	languages []string
	lastErr   *Error
}

// New returns an uninitialised controller. A nil cache disables caching and
// a nil logger discards log output.
func New(service translator.TranslationService, cache Cache, view View, opts Options, logger *logrus.Logger) *Controller {
	if cache == nil {
		cache = noCache{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	if opts.MinTextLength < 0 {
		opts.MinTextLength = 0
	}

	return &Controller{
		service: service,
		cache:   cache,
		view:    view,
		opts:    opts,
		logger:  logger,
	}
}

// State returns a copy of the current session state.
func (c *Controller) State() State {
	return c.state
}

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Languages returns the sorted language codes bound at bootstrap.
func (c *Controller) Languages() []string {
	return append([]string(nil), c.languages...)
}

// Err returns the last failure shown to the user, or nil.
func (c *Controller) Err() *Error {
	return c.lastErr
}

// CanTranslate reports whether the translate control is currently enabled.
func (c *Controller) CanTranslate() bool {
	return c.phase == Ready && CanTranslate(c.state, c.opts)
}

// Init runs the bootstrap: token, then languages, then selector population.
// A failed step stops the bootstrap for good.
func (c *Controller) Init(ctx context.Context) {
	if c.phase != Uninitialized {
		c.logger.WithField("phase", c.phase).Debug("Init ignored")
		return
	}

	c.view.Hide(ErrorPanel)
	c.refresh()

	c.phase = BootstrappingToken
	token, err := c.service.IssueToken(ctx)
	if err != nil {
		c.phase = Failed
		c.fail(AuthFailure, err)
		return
	}
	c.state.AuthToken = token

	c.phase = BootstrappingLanguages
	codes, err := c.service.Languages(ctx, token)
	if err != nil {
		c.phase = Failed
		c.fail(LanguageFetchFailure, err)
		return
	}

	c.bindLanguages(codes)
	c.phase = Ready

	if def := c.opts.DefaultLanguage; def != "" && c.Supports(def) && c.state.SourceLanguage == "" {
		c.view.Select(SourceLanguageSelect, def)
		c.state.SourceLanguage = def
	}

	c.logger.WithFields(logrus.Fields{
		"service":   c.service.Name(),
		"languages": len(c.languages),
	}).Info("Translator ready")
	c.refresh()
}

func (c *Controller) bindLanguages(codes []string) {
	sorted := append([]string(nil), codes...)
	sort.Strings(sorted)

	for _, code := range sorted {
		c.view.AppendOption(TargetLanguageSelect, code, code)
		c.view.AppendOption(SourceLanguageSelect, code, code)
	}
	c.languages = sorted
}

// Supports reports whether the service offered code at bootstrap.
func (c *Controller) Supports(code string) bool {
	i := sort.SearchStrings(c.languages, code)
	return i < len(c.languages) && c.languages[i] == code
}

// SetText replaces the text to translate.
func (c *Controller) SetText(text string) {
	next := c.state
	next.Text = text
	c.state = next
	c.refresh()
}

// SetSourceLanguage selects the source language. Codes the service did not
// offer are rejected and leave the state unchanged; "" clears the selection.
func (c *Controller) SetSourceLanguage(code string) error {
	if err := c.checkLanguage(code); err != nil {
		return err
	}
	next := c.state
	next.SourceLanguage = code
	c.state = next
	c.refresh()
	return nil
}

// SetTargetLanguage selects the target language, with the same rules as
// SetSourceLanguage.
func (c *Controller) SetTargetLanguage(code string) error {
	if err := c.checkLanguage(code); err != nil {
		return err
	}
	next := c.state
	next.TargetLanguage = code
	c.state = next
	c.refresh()
	return nil
}

func (c *Controller) checkLanguage(code string) error {
	if code == "" || c.Supports(code) {
		return nil
	}
	c.logger.WithField("language", code).Warn("Language not offered by the service")
	return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
}

// Translate shows the translation of the current text, from the local cache
// when possible and from the service otherwise.
func (c *Controller) Translate(ctx context.Context) {
	if !c.CanTranslate() {
		c.logger.WithField("phase", c.phase).Debug("Translate ignored")
		return
	}

	s := c.state
	key := CacheKey(s)
	log := c.logger.WithFields(logrus.Fields{
		"source": s.SourceLanguage,
		"target": s.TargetLanguage,
		"length": len(s.Text),
	})

	if text, ok := c.cache.Get(ctx, key); ok {
		log.Debug("Serving translation from cache")
		c.display(text)
		return
	}

	c.phase = Translating
	c.refresh()

	text, err := c.service.Translate(ctx, s.AuthToken, translator.TranslateRequest{
		Text:       s.Text,
		SourceLang: s.SourceLanguage,
		TargetLang: s.TargetLanguage,
	})
	c.phase = Ready
	if err != nil {
		c.fail(TranslateFailure, err)
		c.refresh()
		return
	}

	log.Debug("Translated")
	c.cache.Put(ctx, key, text)
	c.display(text)
	c.refresh()
}

func (c *Controller) display(text string) {
	c.lastErr = nil
	c.view.Hide(ErrorPanel)
	c.view.SetText(TranslatedText, text)
}

func (c *Controller) fail(kind Kind, err error) {
	werr := &Error{Kind: kind, Err: err}
	c.lastErr = werr

	c.logger.WithError(err).WithField("kind", kind.String()).Error("Request failed")

	c.view.SetText(ErrorPanel, werr.Message())
	c.view.Show(ErrorPanel)
	c.view.Hide(LoadingIndicator)
}

func (c *Controller) refresh() {
	c.view.SetEnabled(TranslateButton, c.CanTranslate())
}
