package guard

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/observability"
	"alcyxob/fitness-admin/internal/repository"
	"alcyxob/fitness-admin/internal/session"
	"context"
	"errors"
	"log/slog"
)

// ErrCancelled is returned when the request went away while the check was running.
// The partial decision must be discarded.
var ErrCancelled = errors.New("access check cancelled")

// SessionLookup resolves a raw token into a session.
type SessionLookup interface {
	Lookup(ctx context.Context, token string) (*session.Session, error)
}

// Decision is the outcome of one Check.
type Decision struct {
	State   State
	Session *session.Session
	Profile *domain.Profile
}

// Granted reports whether the caller may proceed.
func (d Decision) Granted() bool {
	return d.State == StateGranted
}

// Guard runs the session and profile checks. It keeps no state between requests.
type Guard struct {
	sessions SessionLookup
	profiles repository.ProfileRepository
}

// New creates a Guard.
func New(sessions SessionLookup, profiles repository.ProfileRepository) *Guard {
	return &Guard{sessions: sessions, profiles: profiles}
}

// Check decides access for token. Each step runs once; any failure ends in StateDenied.
func (g *Guard) Check(ctx context.Context, token string) (Decision, error) {
	var in Input
	decision := Decision{State: StateChecking}

	sess, err := g.sessions.Lookup(ctx, token)
	if ctx.Err() != nil {
		return Decision{}, ErrCancelled
	}
	if err != nil && !errors.Is(err, session.ErrNoSession) {
		slog.WarnContext(ctx, "session lookup failed", "error", err)
	}
	in.HasSession = err == nil && sess != nil

	if in.HasSession {
		decision.Session = sess
		profile, err := g.profiles.GetByID(ctx, sess.UserID)
		if ctx.Err() != nil {
			return Decision{}, ErrCancelled
		}
		switch {
		case errors.Is(err, repository.ErrNotFound):
		case err != nil:
			in.ProfileErr = err
			slog.WarnContext(ctx, "profile lookup failed", "userID", sess.UserID.Hex(), "error", err)
		case profile != nil:
			in.ProfileFound = true
			in.Role = profile.Role
			in.Banned = profile.IsBanned
			decision.Profile = profile
		}
	}

	decision.State = Next(decision.State, in)
	observability.RecordGuardDecision(decision.Granted())
	if !decision.Granted() {
		slog.DebugContext(ctx, "access denied", "reason", Reason(in))
	}
	return decision, nil
}
