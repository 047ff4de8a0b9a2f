// Package guard decides whether a request may enter the admin console.
package guard

import (
	"alcyxob/fitness-admin/internal/domain"
)

// State is the access decision for one request.
type State int

const (
	StateChecking State = iota
	StateDenied
	StateGranted
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateDenied:
		return "denied"
	case StateGranted:
		return "granted"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen from s.
func (s State) Terminal() bool {
	return s == StateDenied || s == StateGranted
}

// Input is everything the guard learned about the caller.
type Input struct {
	HasSession   bool
	ProfileErr   error
	ProfileFound bool
	Role         domain.Role
	Banned       bool
}

// Next is the transition function. Denied and granted are terminal.
func Next(s State, in Input) State {
	if s.Terminal() {
		return s
	}
	if Reason(in) != "" {
		return StateDenied
	}
	return StateGranted
}

// Reason explains a denial, or returns "" when in is admissible.
// It is for logs only and never shown to the caller.
func Reason(in Input) string {
	switch {
	case !in.HasSession:
		return "no session"
	case in.ProfileErr != nil:
		return "profile lookup failed"
	case !in.ProfileFound:
		return "no profile"
	case in.Banned:
		return "banned"
	case in.Role != domain.RoleAdmin:
		return "not an admin"
	default:
		return ""
	}
}
