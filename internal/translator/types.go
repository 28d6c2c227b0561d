package translator

import (
	"context"
)

// URL template slots.
const (
	TokenSlot    = "{{token}}"
	TextSlot     = "{{text}}"
	FromSlot     = "{{from}}"
	ToSlot       = "{{to}}"
	CallbackSlot = "{{callback}}"
)

const (
	DefaultTokenURL     = "https://api.cognitive.microsoft.com/sts/v1.0/issueToken"
	DefaultLanguagesURL = "https://api.microsofttranslator.com/V2/Ajax.svc/GetLanguagesForTranslate?appId={{token}}&oncomplete={{callback}}"
	DefaultTranslateURL = "https://api.microsofttranslator.com/V2/Ajax.svc/Translate?appId={{token}}&text={{text}}&from={{from}}&to={{to}}&oncomplete={{callback}}"
)

// Endpoints holds the per-endpoint URL templates.
type Endpoints struct {
	TokenURL     string `mapstructure:"token_url" json:"token_url"`
	LanguagesURL string `mapstructure:"languages_url" json:"languages_url"`
	TranslateURL string `mapstructure:"translate_url" json:"translate_url"`
}

// DefaultEndpoints returns the public Microsoft Translator endpoints.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		TokenURL:     DefaultTokenURL,
		LanguagesURL: DefaultLanguagesURL,
		TranslateURL: DefaultTranslateURL,
	}
}

type TranslateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

// TranslationService is the remote service as seen by the widget: a token
// endpoint followed by token-authorised language and translate endpoints.
type TranslationService interface {
	Name() string
	IssueToken(ctx context.Context) (string, error)
	Languages(ctx context.Context, token string) ([]string, error)
	Translate(ctx context.Context, token string, req TranslateRequest) (string, error)
}
