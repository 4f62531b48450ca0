// Package notification contains the bulletin model: campus-wide notices
// identified by their date and title, with per-student read markers.
package notification

import (
	"github.com/campus-hub/campus-student-hub/internal/domain/shared"
)

// ReadMarkerValue is the value a read marker key carries in the store. Only
// key presence matters; the value is fixed.
const ReadMarkerValue = "read"

// Bulletin is one campus notice. The date-title pair is the identity: the
// upstream feed carries no IDs, so read markers key on both fields.
type Bulletin struct {
	Date  string `json:"date"`
	Title string `json:"title"`
	Read  bool   `json:"read"`
}

// UnreadCount counts the bulletins without a read marker.
func UnreadCount(bulletins []Bulletin) int {
	n := 0
	for _, b := range bulletins {
		if !b.Read {
			n++
		}
	}
	return n
}

// NewFetchedEvent signals a refreshed bulletin list.
func NewFetchedEvent(total, unread int) shared.Event {
	return shared.NewBaseEvent(shared.EventBulletinsFetched, "").
		WithData(map[string]interface{}{
			"total":  total,
			"unread": unread,
		})
}

// NewMarkedReadEvent signals read markers being written.
func NewMarkedReadEvent(count int) shared.Event {
	return shared.NewBaseEvent(shared.EventBulletinsRead, "").
		WithData(map[string]interface{}{
			"count": count,
		})
}
