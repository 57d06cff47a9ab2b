package external

import (
	"github.com/stellovault/backend/internal/domain/entity"
)

// Notifier is the notification sink for committed state changes. Publish is
// fire-and-forget: it must not block and must not fail the operation that
// produced the event. Services call it only after their transaction commits.
type Notifier interface {
	Publish(event entity.Event)
}
