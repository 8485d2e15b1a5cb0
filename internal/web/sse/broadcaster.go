package sse

import (
	"context"
	"log/slog"

	"github.com/mcoot/chessclub/internal/model"
)

// Broadcaster pushes wizard events to the session's SSE clients
type Broadcaster struct {
	hubManager *HubManager
	renderer   *Renderer
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		renderer:   NewRenderer(),
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// NotifyWizard broadcasts a wizard event. Sessions without connected clients are skipped.
func (b *Broadcaster) NotifyWizard(ctx context.Context, event model.WizardEvent, w *model.Wizard) {
	hub := b.hubManager.GetHub(w.ID)
	if hub == nil {
		return
	}

	events, err := b.renderer.RenderWizardEvent(ctx, event, w)
	if err != nil {
		b.logger.Error("sse failed to render wizard event",
			slog.String("session_id", string(w.ID)),
			slog.String("event", string(event.Type)),
			slog.Any("error", err))
		return
	}
	for _, e := range events {
		hub.BroadcastEvent(e.EventName, e.HTML)
	}
}
