package translator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/valpere/mstranslate/internal/transport"
)

// SubscriptionKeyHeader carries the Azure subscription key on token requests.
const SubscriptionKeyHeader = "Ocp-Apim-Subscription-Key"

// ErrServiceException matches every *ExceptionError.
var ErrServiceException = errors.New("translation service exception")

// ExceptionError is returned when the service answers a script request with
// an exception message instead of data.
type ExceptionError struct {
	Message string
}

func (e *ExceptionError) Error() string {
	return "translation service exception: " + e.Message
}

func (e *ExceptionError) Is(target error) bool {
	return target == ErrServiceException
}

// The Ajax endpoints report failures as a string payload such as
// "ArgumentException: Invalid appId ...".
var exceptionRe = regexp.MustCompile(`^[A-Za-z.]+Exception:`)

// Requester is the part of transport.Client the service needs.
type Requester interface {
	Do(ctx context.Context, method, url string, headers map[string]string) ([]byte, error)
	Script(ctx context.Context, urlTemplate string) (json.RawMessage, error)
}

type MicrosoftService struct {
	subscriptionKey string
	endpoints       Endpoints
	client          Requester
}

func NewMicrosoftService(subscriptionKey string, endpoints Endpoints, client Requester) *MicrosoftService {
	return &MicrosoftService{
		subscriptionKey: subscriptionKey,
		endpoints:       endpoints,
		client:          client,
	}
}

func (s *MicrosoftService) Name() string {
	return "microsoft"
}

// IssueToken exchanges the subscription key for a bearer token. The returned
// value already carries the "Bearer " prefix.
func (s *MicrosoftService) IssueToken(ctx context.Context) (string, error) {
	body, err := s.client.Do(ctx, http.MethodPost, s.endpoints.TokenURL, map[string]string{
		SubscriptionKeyHeader: s.subscriptionKey,
	})
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}

	token := strings.TrimSpace(string(body))
	if token == "" {
		return "", fmt.Errorf("token request failed: %w: empty token", transport.ErrUnexpected)
	}
	return "Bearer " + token, nil
}

// Languages returns the language codes the service can translate between, in
// the order the service sent them.
func (s *MicrosoftService) Languages(ctx context.Context, token string) ([]string, error) {
	u := strings.ReplaceAll(s.endpoints.LanguagesURL, TokenSlot, escape(token))

	payload, err := s.client.Script(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("languages request failed: %w", err)
	}
	if err := exceptionPayload(payload); err != nil {
		return nil, fmt.Errorf("languages request failed: %w", err)
	}

	var codes []string
	if err := json.Unmarshal(payload, &codes); err != nil {
		return nil, fmt.Errorf("failed to decode languages: %w", err)
	}
	return codes, nil
}

func (s *MicrosoftService) Translate(ctx context.Context, token string, req TranslateRequest) (string, error) {
	u := strings.NewReplacer(
		TokenSlot, escape(token),
		TextSlot, escape(req.Text),
		FromSlot, escape(req.SourceLang),
		ToSlot, escape(req.TargetLang),
	).Replace(s.endpoints.TranslateURL)

	payload, err := s.client.Script(ctx, u)
	if err != nil {
		return "", fmt.Errorf("translate request failed: %w", err)
	}
	if err := exceptionPayload(payload); err != nil {
		return "", fmt.Errorf("translate request failed: %w", err)
	}

	var text string
	if err := json.Unmarshal(payload, &text); err != nil {
		return "", fmt.Errorf("failed to decode translation: %w", err)
	}
	return text, nil
}

func exceptionPayload(payload json.RawMessage) error {
	var s string
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil
	}
	if exceptionRe.MatchString(s) {
		return &ExceptionError{Message: firstLine(s)}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}

// escape encodes s the way encodeURIComponent does: spaces become %20, not +.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
