package session

import (
	"time"

	"github.com/fundwit/go-commons/types"
)

// Identity is the owner identity every record, template and event type is
// scoped to. Name is the display name entered at login.
type Identity struct {
	ID   types.ID `json:"id"`
	Name string   `json:"name"`
}

type Session struct {
	Token    string   `json:"token"`
	Identity Identity `json:"identity"`

	SigningTime time.Time `json:"-"`
}

type LoginRequest struct {
	Name string `json:"name" binding:"required,lte=50"`
}
