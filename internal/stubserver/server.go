// Package stubserver is a local stand-in for the Microsoft Translator token
// and Ajax endpoints. It backs the integration tests and `mstranslate stub`.
package stubserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/valpere/mstranslate/internal/logging"
	"github.com/valpere/mstranslate/internal/metrics"
	"github.com/valpere/mstranslate/internal/translator"
)

// Endpoint names used for hit counting and metrics.
const (
	EndpointToken     = "token"
	EndpointLanguages = "languages"
	EndpointTranslate = "translate"
)

const (
	TokenPath     = "/sts/v1.0/issueToken"
	LanguagesPath = "/V2/Ajax.svc/GetLanguagesForTranslate"
	TranslatePath = "/V2/Ajax.svc/Translate"
)

type Options struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration

	// SubscriptionKey is the key token requests must present. Empty accepts
	// any key.
	SubscriptionKey string
	// Token is handed out by the token endpoint.
	Token string
	// Languages is returned by the languages endpoint.
	Languages []string
	// Translations maps "<to>:<text>" to a canned translation. Pairs without
	// an entry are answered with "[<to>] <text>".
	Translations map[string]string
}

type Server struct {
	opts   Options
	logger *logrus.Logger
	echo   *echo.Echo

	mu   sync.Mutex
	hits map[string]int
}

func New(opts Options, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	if strings.TrimSpace(opts.Host) == "" {
		opts.Host = "127.0.0.1"
	}
	if opts.Port <= 0 {
		opts.Port = 8089
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	if opts.Token == "" {
		opts.Token = "stub-token"
	}
	if len(opts.Languages) == 0 {
		opts.Languages = []string{"fr", "en", "de", "es", "it", "uk"}
	}

	s := &Server{
		opts:   opts,
		logger: logger,
		hits:   make(map[string]int),
	}
	s.echo = s.routes()
	return s
}

func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     redactURI(v.URI),
				"status":  v.Status,
				"latency": v.Latency,
			}).Debug("stub request")
			return nil
		},
	}))

	e.POST(TokenPath, s.handleToken)
	e.GET(LanguagesPath, s.handleLanguages)
	e.GET(TranslatePath, s.handleTranslate)
	e.GET(metrics.Path, echo.WrapHandler(metrics.Handler()))

	return e
}

// Handler exposes the routes, for httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Endpoints returns URL templates pointing at a stub served from baseURL.
func Endpoints(baseURL string) translator.Endpoints {
	baseURL = strings.TrimRight(baseURL, "/")
	return translator.Endpoints{
		TokenURL:     baseURL + TokenPath,
		LanguagesURL: baseURL + LanguagesPath + "?appId={{token}}&oncomplete={{callback}}",
		TranslateURL: baseURL + TranslatePath + "?appId={{token}}&text={{text}}&from={{from}}&to={{to}}&oncomplete={{callback}}",
	}
}

// Hits reports how many requests an endpoint has served.
func (s *Server) Hits(endpoint string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[endpoint]
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			s.logger.WithError(err).Error("stub shutdown failed")
		}
	}()

	s.logger.WithField("addr", addr).Info("Translator stub started")
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("stub server: %w", err)
	}
	return nil
}

func (s *Server) hit(endpoint string, status int) {
	s.mu.Lock()
	s.hits[endpoint]++
	s.mu.Unlock()
	metrics.RecordStubRequest(endpoint, status)
}

func (s *Server) handleToken(c echo.Context) error {
	key := c.Request().Header.Get(translator.SubscriptionKeyHeader)
	if key == "" || (s.opts.SubscriptionKey != "" && key != s.opts.SubscriptionKey) {
		s.hit(EndpointToken, http.StatusUnauthorized)
		return c.JSON(http.StatusUnauthorized, map[string]any{
			"statusCode": http.StatusUnauthorized,
			"message":    "Access denied due to invalid subscription key. Make sure to provide a valid key for an active subscription.",
		})
	}

	s.hit(EndpointToken, http.StatusOK)
	return c.String(http.StatusOK, s.opts.Token)
}

func (s *Server) handleLanguages(c echo.Context) error {
	callback := c.QueryParam("oncomplete")
	if callback == "" {
		s.hit(EndpointLanguages, http.StatusBadRequest)
		return c.JSON(http.StatusBadRequest, map[string]any{"statusCode": http.StatusBadRequest, "message": "oncomplete is required"})
	}

	s.hit(EndpointLanguages, http.StatusOK)
	if !s.authorized(c) {
		return c.JSONP(http.StatusOK, callback, "ArgumentException: Invalid appId\r\nParameter name: appId")
	}
	return c.JSONP(http.StatusOK, callback, s.opts.Languages)
}

func (s *Server) handleTranslate(c echo.Context) error {
	callback := c.QueryParam("oncomplete")
	if callback == "" {
		s.hit(EndpointTranslate, http.StatusBadRequest)
		return c.JSON(http.StatusBadRequest, map[string]any{"statusCode": http.StatusBadRequest, "message": "oncomplete is required"})
	}

	s.hit(EndpointTranslate, http.StatusOK)
	if !s.authorized(c) {
		return c.JSONP(http.StatusOK, callback, "ArgumentException: Invalid appId\r\nParameter name: appId")
	}

	text, to := c.QueryParam("text"), c.QueryParam("to")
	if to == "" || !s.supports(to) {
		return c.JSONP(http.StatusOK, callback, "ArgumentOutOfRangeException: 'to' must be a valid language\r\nParameter name: to")
	}

	if translated, ok := s.opts.Translations[to+":"+text]; ok {
		return c.JSONP(http.StatusOK, callback, translated)
	}
	return c.JSONP(http.StatusOK, callback, fmt.Sprintf("[%s] %s", to, text))
}

func (s *Server) authorized(c echo.Context) bool {
	return c.QueryParam("appId") == "Bearer "+s.opts.Token
}

func (s *Server) supports(code string) bool {
	for _, l := range s.opts.Languages {
		if l == code {
			return true
		}
	}
	return false
}

func redactURI(uri string) string {
	i := strings.Index(uri, "appId=")
	if i < 0 {
		return uri
	}
	end := strings.IndexByte(uri[i:], '&')
	if end < 0 {
		return uri[:i] + "appId=REDACTED"
	}
	return uri[:i] + "appId=REDACTED" + uri[i+end:]
}
