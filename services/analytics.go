package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cppla/eduquest/metrics"
	"github.com/cppla/eduquest/models"
	"github.com/cppla/eduquest/store"
)

const trackTimeout = 2 * time.Second

// EventPublisher mirrors recorded events to an external broker.
type EventPublisher interface {
	PublishEvent(ctx context.Context, e *models.AnalyticsEvent) error
}

// Recorder appends analytics events. Failures are logged and never returned.
type Recorder struct {
	events    store.AnalyticsStore
	publisher EventPublisher
	log       *zap.Logger
	now       func() time.Time
}

// NewRecorder builds a recorder; publisher may be nil.
func NewRecorder(events store.AnalyticsStore, publisher EventPublisher, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{events: events, publisher: publisher, log: log, now: time.Now}
}

// Track records one event for userID. It runs on a context detached from the
// caller's cancellation and bounded by its own timeout.
func (r *Recorder) Track(ctx context.Context, userID, action string, details map[string]any) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), trackTimeout)
	defer cancel()

	if details == nil {
		details = map[string]any{}
	}
	e := &models.AnalyticsEvent{
		User:      userID,
		Action:    action,
		Details:   details,
		Timestamp: r.now(),
	}
	if err := r.events.AppendEvent(ctx, e); err != nil {
		metrics.AnalyticsEventsTotal.WithLabelValues(action, "error").Inc()
		r.log.Warn("analytics append failed",
			zap.String("action", action),
			zap.String("user_id", userID),
			zap.Error(err))
		return
	}
	metrics.AnalyticsEventsTotal.WithLabelValues(action, "ok").Inc()

	if r.publisher == nil {
		return
	}
	if err := r.publisher.PublishEvent(ctx, e); err != nil {
		r.log.Warn("analytics publish failed",
			zap.String("action", action),
			zap.String("event_id", e.ID),
			zap.Error(err))
	}
}
