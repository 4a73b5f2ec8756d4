// internal/audit/audit.go
package audit

import (
	"time"

	"github.com/tamzrod/fobgate/internal/frame"
)

// Event names are the legacy vocabulary and MUST NOT be extended
// without updating every log consumer.
const (
	EventBoot      = "boot"
	EventBootRun   = "bootrun"
	EventBootAdmin = "bootadmin"
	EventStart     = "start"
	EventStop      = "stop"
	EventRestart   = "restart"
	EventLogout    = "logout"
	EventTimeout   = "timeout"
	EventDenied    = "denied"
	EventAdmin     = "admin"
	EventDeleted   = "deleted"
	EventAdded     = "added"
	EventLogin     = "login"
)

// Record is one state-changing event. Best effort only: records are
// not persisted and are lost on power loss.
type Record struct {
	Event     string
	TagID     frame.TagID
	Elapsed   time.Duration
	Message   string
	SessionID string
	At        time.Time
}

// Sink receives audit records. Implementations must not block the
// control loop beyond a bounded write.
type Sink interface {
	Write(rec Record)
}
