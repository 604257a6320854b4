// Package sessions provides the session-scoped snapshot registry for taskdeck.
package sessions

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Session holds metadata about one browser session.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	TaskCount int       `json:"task_count"`
}

func generateSessionID() string {
	u := uuid.New().String()
	return "sess_" + strings.ReplaceAll(u[:8], "-", "")
}

// ValidID reports whether id looks like an id this package issued. Cookie
// values are caller-supplied, so the registry refuses anything else.
func ValidID(id string) bool {
	return strings.HasPrefix(id, "sess_") && len(id) == len("sess_")+8
}
