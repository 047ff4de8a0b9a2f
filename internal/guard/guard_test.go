package guard

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/repository"
	"alcyxob/fitness-admin/internal/repository/memory"
	"alcyxob/fitness-admin/internal/session"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNext(t *testing.T) {
	admin := Input{HasSession: true, ProfileFound: true, Role: domain.RoleAdmin}

	require.Equal(t, StateGranted, Next(StateChecking, admin))
	require.Equal(t, StateDenied, Next(StateChecking, Input{}))
	require.Equal(t, StateDenied, Next(StateChecking, Input{HasSession: true}))
	require.Equal(t, StateDenied, Next(StateChecking, Input{HasSession: true, ProfileErr: errors.New("timeout"), ProfileFound: true, Role: domain.RoleAdmin}))
	require.Equal(t, StateDenied, Next(StateChecking, Input{HasSession: true, ProfileFound: true, Role: domain.RoleUser}))
	require.Equal(t, StateDenied, Next(StateChecking, Input{HasSession: true, ProfileFound: true, Role: domain.RoleAdmin, Banned: true}))

	// Terminal states never move.
	require.Equal(t, StateDenied, Next(StateDenied, admin))
	require.Equal(t, StateGranted, Next(StateGranted, Input{}))
}

func TestReason(t *testing.T) {
	require.Equal(t, "no session", Reason(Input{}))
	require.Equal(t, "banned", Reason(Input{HasSession: true, ProfileFound: true, Role: domain.RoleAdmin, Banned: true}))
	require.Equal(t, "not an admin", Reason(Input{HasSession: true, ProfileFound: true, Role: domain.RoleUser}))
	require.Empty(t, Reason(Input{HasSession: true, ProfileFound: true, Role: domain.RoleAdmin}))
}

type fixture struct {
	guard    *Guard
	sessions *session.Manager
	profiles repository.ProfileRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	sessions := session.NewManager("test-secret", time.Hour, nil)
	return fixture{guard: New(sessions, store.Profiles), sessions: sessions, profiles: store.Profiles}
}

func (f fixture) tokenFor(t *testing.T, role domain.Role, banned bool) string {
	t.Helper()
	id := primitive.NewObjectID()
	require.NoError(t, f.profiles.Create(context.Background(), &domain.Profile{ID: id, Role: role, IsBanned: banned}))
	token, _, err := f.sessions.Issue(id)
	require.NoError(t, err)
	return token
}

func TestCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.guard.Check(ctx, "")
	require.NoError(t, err)
	require.Equal(t, StateDenied, d.State)
	require.Nil(t, d.Session)

	d, err = f.guard.Check(ctx, f.tokenFor(t, domain.RoleUser, false))
	require.NoError(t, err)
	require.Equal(t, StateDenied, d.State)

	d, err = f.guard.Check(ctx, f.tokenFor(t, domain.RoleAdmin, true))
	require.NoError(t, err)
	require.Equal(t, StateDenied, d.State)

	d, err = f.guard.Check(ctx, f.tokenFor(t, domain.RoleAdmin, false))
	require.NoError(t, err)
	require.True(t, d.Granted())
	require.Equal(t, domain.RoleAdmin, d.Profile.Role)
}

func TestCheckSessionWithoutProfile(t *testing.T) {
	f := newFixture(t)
	token, _, err := f.sessions.Issue(primitive.NewObjectID())
	require.NoError(t, err)

	d, err := f.guard.Check(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, StateDenied, d.State)
	require.NotNil(t, d.Session)
	require.Nil(t, d.Profile)
}

func TestCheckSeesDemotionOnNextRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := primitive.NewObjectID()
	require.NoError(t, f.profiles.Create(ctx, &domain.Profile{ID: id, Role: domain.RoleAdmin}))
	token, _, err := f.sessions.Issue(id)
	require.NoError(t, err)

	d, err := f.guard.Check(ctx, token)
	require.NoError(t, err)
	require.True(t, d.Granted())

	require.NoError(t, f.profiles.SetRole(ctx, id, domain.RoleUser))
	d, err = f.guard.Check(ctx, token)
	require.NoError(t, err)
	require.False(t, d.Granted())
}

func TestCheckCancelled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d, err := f.guard.Check(ctx, f.tokenFor(t, domain.RoleAdmin, false))
	require.ErrorIs(t, err, ErrCancelled)
	require.Equal(t, StateChecking, d.State)
}
