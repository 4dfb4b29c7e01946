package identity

import "github.com/google/uuid"

// Actor identifies the authenticated staff member performing an
// operation. Handlers build it from the verified token claims; a zero
// ID means the request carried no usable identity.
type Actor struct {
	ID   uuid.UUID
	Name string
	Role StaffRole
}

// IsAuthenticated reports whether the actor carries a staff identity.
func (a Actor) IsAuthenticated() bool {
	return a.ID != uuid.Nil
}
