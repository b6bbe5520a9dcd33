// file: services/club_service_test.go
package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-club-hub/models"
)

func TestAccessCodePrefix(t *testing.T) {
	assert.Equal(t, "CHE", accessCodePrefix("Chess Club"))
	assert.Equal(t, "GOX", accessCodePrefix("42 Go"))
	assert.Equal(t, "XXX", accessCodePrefix(""))
	assert.Equal(t, "ABX", accessCodePrefix("é-Ab"))
}

// Given: a pending club request
// When: the system owner approves it
// Then: the club, its three system roles with full matrices, the president
// membership, the general room and the notification all exist
func TestApproveClubRequest_CreatesEverything(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	requester := e.newUser(t, "founder")

	req, err := e.clubs.SubmitClubRequest(ctx, requester.ID, ClubRequestInput{ClubName: "  Chess Club ", StaffAdvisor: "Dr. Knight"})
	require.NoError(t, err)
	assert.Equal(t, "Chess Club", req.ClubName)

	club, err := e.clubs.ApproveClubRequest(ctx, e.owner.ID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "CHE101", club.AccessCode)
	require.NotNil(t, club.CurrentPresidentID)
	assert.Equal(t, requester.ID, *club.CurrentPresidentID)
	require.NotNil(t, club.CreatedFromRequestID)
	assert.Equal(t, req.ID, *club.CreatedFromRequestID)

	roles, err := e.roles.List(ctx, requester.ID, club.ID)
	require.NoError(t, err)
	require.Len(t, roles, 3)
	for _, r := range roles {
		assert.True(t, r.IsSystemRole, r.Name)
		perms, err := e.store.ListPermissions(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, models.DefaultPermissions(r.Name), perms, r.Name)
	}

	m, err := e.rbac.ResolveMembership(ctx, requester.ID, club.ID)
	require.NoError(t, err)
	assert.True(t, m.IsPresident)
	assert.Equal(t, models.RolePresident, m.RoleName)

	rooms, err := e.chat.Rooms(ctx, requester.ID, club.ID)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "General", rooms[0].Name)
	assert.True(t, rooms[0].IsGeneral)

	stored, err := e.store.GetClubRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, stored.Status)

	notes, err := e.notifications.List(ctx, requester.ID, 10, true)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Club Approved!", notes[0].Title)
	assert.Equal(t, `Your club "Chess Club" has been approved! Access code: CHE101`, notes[0].Message)

	_, err = e.clubs.ApproveClubRequest(ctx, e.owner.ID, req.ID)
	assert.Equal(t, "Request not found or already processed", MessageOf(err, ""))
}

func TestApproveClubRequest_SkipsTakenAccessCode(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, e.store.CreateClub(ctx, &models.Club{Name: "Old Chess", AccessCode: "CHE101", IsActive: true}))

	club := e.newClub(t, e.newUser(t, "founder"), "Chess Club")
	assert.Equal(t, "CHE102", club.AccessCode)
}

func TestRejectClubRequest(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	requester := e.newUser(t, "hopeful")

	req, err := e.clubs.SubmitClubRequest(ctx, requester.ID, ClubRequestInput{ClubName: "Skydiving"})
	require.NoError(t, err)

	require.NoError(t, e.clubs.RejectClubRequest(ctx, e.owner.ID, req.ID, "  no insurance "))
	stored, err := e.store.GetClubRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestRejected, stored.Status)
	assert.Equal(t, "no insurance", stored.RejectionReason)

	notes, err := e.notifications.List(ctx, requester.ID, 10, false)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Club Request Declined", notes[0].Title)
	assert.Equal(t, models.NotificationWarning, notes[0].Type)

	err = e.clubs.RejectClubRequest(ctx, e.owner.ID, req.ID, "")
	assert.Equal(t, "Request not found or already processed", MessageOf(err, ""))
	err = e.clubs.RejectClubRequest(ctx, e.owner.ID, 9999, "")
	assert.ErrorIs(t, err, NotFound(""))

	pending, err := e.clubs.PendingClubRequests(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSubmitClubRequest_Validation(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.clubs.SubmitClubRequest(context.Background(), e.newUser(t, "u").ID, ClubRequestInput{ClubName: "   "})
	assert.Equal(t, "Club name is required", MessageOf(err, ""))

	_, err = e.clubs.SubmitClubRequest(context.Background(), e.newUser(t, "u").ID, ClubRequestInput{ClubName: strings.Repeat("x", 201)})
	assert.Equal(t, KindValidationFailed, KindOf(err))
}

// Given: a club and a prospective member with its access code
// When: they request to join and the president approves
// Then: they become an active Member, and repeats are rejected
func TestJoinFlow(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	pres := e.newUser(t, "pres")
	joiner := e.newUser(t, "joiner")
	club := e.newClub(t, pres, "Chess Club")

	_, _, err := e.clubs.RequestJoin(ctx, joiner.ID, "NOPE999")
	assert.Equal(t, "Invalid access code", MessageOf(err, ""))

	req, got, err := e.clubs.RequestJoin(ctx, joiner.ID, " "+strings.ToLower(club.AccessCode)+" ")
	require.NoError(t, err)
	assert.Equal(t, club.ID, got.ID)

	_, _, err = e.clubs.RequestJoin(ctx, joiner.ID, club.AccessCode)
	assert.Equal(t, KindConflict, KindOf(err))

	_, err = e.clubs.ListJoinRequests(ctx, joiner.ID, club.ID)
	assert.ErrorIs(t, err, ErrNotMember)

	list, err := e.clubs.ListJoinRequests(ctx, pres.ID, club.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, joiner.ID, list[0].UserID)

	require.NoError(t, e.clubs.ApproveJoinRequest(ctx, pres.ID, req.ID))

	m, err := e.rbac.ResolveMembership(ctx, joiner.ID, club.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, m.RoleName)
	assert.False(t, m.IsPresident)

	clubs, err := e.clubs.MyClubs(ctx, joiner.ID)
	require.NoError(t, err)
	require.Len(t, clubs, 1)
	assert.Equal(t, club.ID, clubs[0].ClubID)

	_, _, err = e.clubs.RequestJoin(ctx, joiner.ID, club.AccessCode)
	assert.Equal(t, "You are already a member of this club", MessageOf(err, ""))

	err = e.clubs.ApproveJoinRequest(ctx, pres.ID, req.ID)
	assert.Equal(t, "Request not found or already processed", MessageOf(err, ""))

	// a plain member cannot review requests
	other := e.newUser(t, "other")
	req2, _, err := e.clubs.RequestJoin(ctx, other.ID, club.AccessCode)
	require.NoError(t, err)
	assert.ErrorIs(t, e.clubs.RejectJoinRequest(ctx, joiner.ID, req2.ID), ErrPermissionDenied)

	require.NoError(t, e.clubs.RejectJoinRequest(ctx, pres.ID, req2.ID))
	_, err = e.rbac.ResolveMembership(ctx, other.ID, club.ID)
	assert.ErrorIs(t, err, ErrNotMember)

	notes, err := e.notifications.List(ctx, other.ID, 10, false)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Join Request Declined", notes[0].Title)
}

func TestSwitchClub(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	pres := e.newUser(t, "pres")
	outsider := e.newUser(t, "outsider")
	club := e.newClub(t, pres, "Chess Club")

	m, err := e.clubs.SwitchClub(ctx, pres.ID, club.ID)
	require.NoError(t, err)
	assert.Equal(t, club.ID, m.ClubID)

	_, err = e.clubs.SwitchClub(ctx, outsider.ID, club.ID)
	assert.ErrorIs(t, err, ErrNotMember)

	_, err = e.clubs.GetClub(ctx, outsider.ID, club.ID)
	assert.ErrorIs(t, err, ErrNotMember)
	got, err := e.clubs.GetClub(ctx, pres.ID, club.ID)
	require.NoError(t, err)
	assert.Equal(t, club.AccessCode, got.AccessCode)
}
