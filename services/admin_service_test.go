// file: services/admin_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-club-hub/models"
)

func TestAdmin_StatsAndListings(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	pres := e.newUser(t, "pres")
	member := e.newUser(t, "member")
	club := e.newClub(t, pres, "Chess Club")
	e.addMember(t, club, member, models.RoleMember)
	_, err := e.clubs.SubmitClubRequest(ctx, member.ID, ClubRequestInput{ClubName: "Go Club"})
	require.NoError(t, err)

	stats, err := e.admin.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalUsers)
	assert.Equal(t, 1, stats.TotalClubs)
	assert.Equal(t, 1, stats.PendingRequests)
	assert.Equal(t, 2, stats.TotalMembers)

	clubs, err := e.admin.Clubs(ctx)
	require.NoError(t, err)
	require.Len(t, clubs, 1)
	assert.Equal(t, 2, clubs[0].MemberCount)
	assert.Equal(t, "pres Tester", clubs[0].PresidentName)

	users, err := e.admin.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestAdmin_DeactivateUser(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	u := e.newUser(t, "target")
	sid, err := e.auth.StartSession(ctx, u.ID, "10.4.0.1", "go-test")
	require.NoError(t, err)

	err = e.admin.DeactivateUser(ctx, e.owner.ID, e.owner.ID)
	assert.Equal(t, "Cannot deactivate system owner", MessageOf(err, ""))

	require.NoError(t, e.admin.DeactivateUser(ctx, e.owner.ID, u.ID))
	assert.ErrorIs(t, e.auth.ValidateSession(ctx, sid, u.ID), ErrAuthenticationRequired, "sessions are dropped")
	_, err = e.auth.Login(ctx, u.Email, "password123", "10.4.0.1")
	assert.ErrorIs(t, err, ErrAccountDeactivated)

	require.NoError(t, e.admin.ActivateUser(ctx, e.owner.ID, u.ID))
	_, err = e.auth.Login(ctx, u.Email, "password123", "10.4.0.1")
	assert.NoError(t, err)

	assert.Equal(t, "User not found", MessageOf(e.admin.DeactivateUser(ctx, e.owner.ID, 9999), ""))
	assert.Equal(t, "User ID required", MessageOf(e.admin.ActivateUser(ctx, e.owner.ID, 0), ""))
}

func TestAdmin_DeactivateClub(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	pres := e.newUser(t, "pres")
	club := e.newClub(t, pres, "Chess Club")

	require.NoError(t, e.admin.DeactivateClub(ctx, e.owner.ID, club.ID))

	_, _, err := e.clubs.RequestJoin(ctx, e.newUser(t, "late").ID, club.AccessCode)
	assert.Equal(t, "Invalid access code", MessageOf(err, ""))

	mine, err := e.clubs.MyClubs(ctx, pres.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	assert.Equal(t, "Club not found", MessageOf(e.admin.DeactivateClub(ctx, e.owner.ID, 9999), ""))
}
