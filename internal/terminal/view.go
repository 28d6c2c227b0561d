// Package terminal renders the translation widget on a terminal.
package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/valpere/mstranslate/internal/widget"
)

type Options struct {
	// Out receives translations.
	Out io.Writer
	// Err receives error messages and the loading indicator.
	Err io.Writer
	// Quiet hides the loading indicator.
	Quiet   bool
	NoColor bool
}

// View implements widget.View. Element state is kept so that commands like
// `:langs` can read it back.
type View struct {
	out   io.Writer
	err   io.Writer
	quiet bool

	result  *color.Color
	failure *color.Color
	status  *color.Color
	label   *color.Color

	mu       sync.Mutex
	options  map[string][]string
	selected map[string]string
	texts    map[string]string
	enabled  map[string]bool
	visible  map[string]bool
}

func New(opts Options) *View {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Err == nil {
		opts.Err = io.Discard
	}

	v := &View{
		out:      opts.Out,
		err:      opts.Err,
		quiet:    opts.Quiet,
		result:   color.New(color.FgGreen),
		failure:  color.New(color.Bold, color.FgRed),
		status:   color.New(color.FgYellow),
		label:    color.New(color.Bold, color.FgCyan),
		options:  make(map[string][]string),
		selected: make(map[string]string),
		texts:    make(map[string]string),
		enabled:  make(map[string]bool),
		visible:  make(map[string]bool),
	}
	if opts.NoColor {
		for _, c := range []*color.Color{v.result, v.failure, v.status, v.label} {
			c.DisableColor()
		}
	}
	return v
}

func (v *View) AppendOption(selectID, id, _ string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.options[selectID] = append(v.options[selectID], id)
}

func (v *View) Select(selectID, id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selected[selectID] = id
}

func (v *View) SetText(elementID, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.texts[elementID] = text
	if elementID == widget.TranslatedText {
		v.result.Fprintln(v.out, text)
	}
}

func (v *View) SetEnabled(controlID string, enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.enabled[controlID] = enabled
}

func (v *View) Show(elementID string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.visible[elementID] = true
	switch elementID {
	case widget.ErrorPanel:
		v.failure.Fprintln(v.err, v.texts[widget.ErrorPanel])
	case widget.LoadingIndicator:
		if !v.quiet {
			v.status.Fprintln(v.err, "…")
		}
	}
}

func (v *View) Hide(elementID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.visible[elementID] = false
}

// Options returns the option ids appended to a selector.
func (v *View) Options(selectID string) []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.options[selectID]...)
}

func (v *View) Selected(selectID string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selected[selectID]
}

func (v *View) Text(elementID string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.texts[elementID]
}

func (v *View) Enabled(controlID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.enabled[controlID]
}

func (v *View) Visible(elementID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.visible[elementID]
}

// Status prints a labelled line to the error stream.
func (v *View) Status(label, format string, args ...any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.err, "%s %s\n", v.label.Sprint(label), fmt.Sprintf(format, args...))
}

// PrintLanguages writes the options of a selector in columns.
func (v *View) PrintLanguages(selectID string, perLine int) {
	codes := v.Options(selectID)
	if perLine <= 0 {
		perLine = 10
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	for i := 0; i < len(codes); i += perLine {
		end := min(i+perLine, len(codes))
		fmt.Fprintln(v.out, strings.Join(codes[i:end], " "))
	}
}
