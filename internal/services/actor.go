// Package services holds the dispatch core: course lifecycle, acceptance,
// driver approval and vehicle management. Every operation takes the acting
// account explicitly; nothing reads ambient request state, which keeps the
// core testable without an HTTP pipeline.
package services

import "github.com/MEMOUE/ApiLanayaGo/internal/models"

// Actor identifies the authenticated account performing an operation, as
// resolved by the transport layer from the JWT claims.
type Actor struct {
	ID   uint
	Role string
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// canActOnCourse reports whether the actor is the course's client or its
// assigned driver. Administrator capability is checked separately; it is a
// role, not course ownership.
func canActOnCourse(actor Actor, course *models.Course) bool {
	if course.ClientID == actor.ID {
		return true
	}
	return course.Driver != nil && course.Driver.UserID == actor.ID
}
