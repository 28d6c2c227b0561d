package widget

// Element identifiers inside the widget container.
const (
	SourceLanguageSelect = "source-language"
	TargetLanguageSelect = "target-language"
	TextInput            = "text-to-translate"
	TranslateButton      = "translate-btn"
	TranslatedText       = "translated-text"
	ErrorPanel           = "error-panel"
	LoadingIndicator     = "loading-canvas"
)

// View is the rendering surface the controller drives. Values typed by the
// user reach the controller through events, so the view is write-only.
type View interface {
	AppendOption(selectID, id, label string)
	Select(selectID, id string)
	SetText(elementID, text string)
	SetEnabled(controlID string, enabled bool)
	Show(elementID string)
	Hide(elementID string)
}

// Indicator toggles the view's loading indicator. It satisfies
// transport.Indicator.
type Indicator struct {
	View View
}

func (i Indicator) Show() {
	i.View.Show(LoadingIndicator)
}

func (i Indicator) Hide() {
	i.View.Hide(LoadingIndicator)
}
