package widget

import "context"

// EventType identifies a UI event.
type EventType int

const (
	EventInit EventType = iota
	EventTextChanged
	EventSourceLanguageChanged
	EventTargetLanguageChanged
	EventTranslate
)

// Event is one UI event. Done, when set, is closed once the event has been
// handled.
type Event struct {
	Type  EventType
	Value string
	Done  chan struct{}
}

// Dispatch handles a single event.
func (c *Controller) Dispatch(ctx context.Context, ev Event) {
	switch ev.Type {
	case EventInit:
		c.Init(ctx)
	case EventTextChanged:
		c.SetText(ev.Value)
	case EventSourceLanguageChanged:
		_ = c.SetSourceLanguage(ev.Value)
	case EventTargetLanguageChanged:
		_ = c.SetTargetLanguage(ev.Value)
	case EventTranslate:
		c.Translate(ctx)
	default:
		c.logger.WithField("type", ev.Type).Warn("Unknown event")
	}
}

// Run handles events one at a time until events is closed or ctx is done.
// Every request the controller makes happens on this goroutine, so handlers
// never overlap.
func (c *Controller) Run(ctx context.Context, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			c.Dispatch(ctx, ev)
			if ev.Done != nil {
				close(ev.Done)
			}
		}
	}
}
