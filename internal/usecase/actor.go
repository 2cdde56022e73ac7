package usecase

import (
	"github.com/google/uuid"
)

// Actor is the authenticated caller as supplied by the identity provider.
// Services trust it and never look up credentials themselves.
type Actor struct {
	UserID uuid.UUID
	Role   string
}
