// Package notificationcenter implements the bulletin feed: fetching campus
// notices from the assistant service and overlaying per-student read markers
// from the persistence store.
package notificationcenter

import (
	"context"
	"errors"
	"log/slog"

	"github.com/campus-hub/campus-student-hub/internal/domain/notification"
	"github.com/campus-hub/campus-student-hub/internal/domain/session"
	"github.com/campus-hub/campus-student-hub/internal/domain/shared"
	"github.com/campus-hub/campus-student-hub/internal/infrastructure/external/assistant"
)

// Feed is the slice of the assistant client the center depends on.
type Feed interface {
	Notifications(ctx context.Context) ([]assistant.BulletinDTO, error)
}

// EventBus is the publish side of the change-notification bus.
type EventBus interface {
	Publish(event shared.Event) error
}

// Config wires the center's collaborators.
type Config struct {
	Feed   Feed
	Store  session.Store
	Bus    EventBus
	Logger *slog.Logger
}

// Center merges the upstream bulletin feed with locally persisted read
// markers. The feed itself is never cached; markers are the only local state.
type Center struct {
	feed   Feed
	store  session.Store
	bus    EventBus
	logger *slog.Logger
}

// New creates a Center.
func New(cfg Config) *Center {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Center{
		feed:   cfg.Feed,
		store:  cfg.Store,
		bus:    cfg.Bus,
		logger: cfg.Logger,
	}
}

// markerKey builds the read-marker key for one bulletin. The date-title pair
// is the bulletin's identity.
func markerKey(date, title string) string {
	return session.PrefixNotification + date + "_" + title
}

// Fetch returns the current bulletin list in feed order, each entry flagged
// read when its marker exists in the store. A marker lookup failure is
// treated as unread rather than failing the whole fetch.
func (c *Center) Fetch(ctx context.Context) ([]notification.Bulletin, error) {
	items, err := c.feed.Notifications(ctx)
	if err != nil {
		return nil, shared.WrapError("notification", "Fetch", shared.ErrExternalService, "bulletin feed call", err)
	}

	bulletins := make([]notification.Bulletin, 0, len(items))
	for _, item := range items {
		read := false
		if _, err := c.store.Get(ctx, markerKey(item.Date, item.Title)); err == nil {
			read = true
		} else if !errors.Is(err, session.ErrStoreMiss) {
			c.logger.Warn("read marker lookup failed", "title", item.Title, "error", err)
		}
		bulletins = append(bulletins, notification.Bulletin{
			Date:  item.Date,
			Title: item.Title,
			Read:  read,
		})
	}

	c.publish(notification.NewFetchedEvent(len(bulletins), notification.UnreadCount(bulletins)))
	return bulletins, nil
}

// MarkAllRead writes a read marker for every given bulletin in one batch.
// Marking an already-read bulletin is a no-op by construction: the marker
// key is simply overwritten.
func (c *Center) MarkAllRead(ctx context.Context, bulletins []notification.Bulletin) error {
	if len(bulletins) == 0 {
		return nil
	}

	pairs := make(map[string][]byte, len(bulletins))
	for _, b := range bulletins {
		pairs[markerKey(b.Date, b.Title)] = []byte(notification.ReadMarkerValue)
	}
	if err := c.store.SetMulti(ctx, pairs); err != nil {
		return shared.WrapError("notification", "MarkAllRead", shared.ErrServiceUnavailable, "persist read markers", err)
	}

	c.publish(notification.NewMarkedReadEvent(len(pairs)))
	return nil
}

func (c *Center) publish(event shared.Event) {
	if c.bus == nil {
		return
	}
	if err := c.bus.Publish(event); err != nil {
		c.logger.Warn("event not published", "event_type", event.EventType(), "error", err)
	}
}
