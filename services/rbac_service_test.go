// file: services/rbac_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-club-hub/models"
)

func TestResolveMembership_NonMember(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	pres := e.newUser(t, "pres")
	outsider := e.newUser(t, "outsider")
	club := e.newClub(t, pres, "Chess Club")

	_, err := e.rbac.ResolveMembership(ctx, outsider.ID, club.ID)
	assert.ErrorIs(t, err, ErrNotMember)
	assert.Equal(t, "You are not an active member of this club", MessageOf(err, ""))

	_, err = e.rbac.CheckPermission(ctx, outsider.ID, club.ID, models.PermViewMembers)
	assert.ErrorIs(t, err, ErrNotMember)

	m, err := e.rbac.ResolveMembership(ctx, pres.ID, club.ID)
	require.NoError(t, err)
	assert.True(t, m.IsPresident)
	assert.Equal(t, models.RolePresident, m.RoleName)
}

// Given: a custom "Member" role with no permission rows at all
// When: its holder asks for create_announcements
// Then: the unset permission denies exactly like an explicit false
func TestCheckPermission_ZeroPermissionRole(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	club := &models.Club{Name: "Bare Club", AccessCode: "BAR100", IsActive: true}
	require.NoError(t, e.store.CreateClub(ctx, club))
	role := &models.Role{ClubID: club.ID, Name: "Member"}
	require.NoError(t, e.store.CreateRole(ctx, role))
	u := e.newUser(t, "plain")
	require.NoError(t, e.store.UpsertMembership(ctx, &models.Membership{ClubID: club.ID, UserID: u.ID, RoleID: role.ID}))

	_, err := e.rbac.CheckPermission(ctx, u.ID, club.ID, models.PermCreateAnnouncements)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, "You do not have permission to perform this action", MessageOf(err, ""))

	require.NoError(t, e.store.SetPermission(ctx, role.ID, models.PermCreateAnnouncements, false))
	ok, err := e.rbac.HasPermission(ctx, u.ID, club.ID, models.PermCreateAnnouncements)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, e.store.SetPermission(ctx, role.ID, models.PermCreateAnnouncements, true))
	ok, err = e.rbac.HasPermission(ctx, u.ID, club.ID, models.PermCreateAnnouncements)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckPermission_UnknownKey(t *testing.T) {
	e := newTestEnv(t)
	pres := e.newUser(t, "pres")
	club := e.newClub(t, pres, "Drama Club")

	_, err := e.rbac.CheckPermission(context.Background(), pres.ID, club.ID, "launch_rockets")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestCheckPermission_DefaultMatrices(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	pres := e.newUser(t, "pres")
	vp := e.newUser(t, "vp")
	member := e.newUser(t, "member")
	club := e.newClub(t, pres, "Robotics")
	e.addMember(t, club, vp, models.RoleVicePresident)
	e.addMember(t, club, member, models.RoleMember)

	for _, key := range models.PermissionKeys {
		ok, err := e.rbac.HasPermission(ctx, pres.ID, club.ID, key)
		require.NoError(t, err)
		assert.True(t, ok, key)
	}

	ok, _ := e.rbac.HasPermission(ctx, vp.ID, club.ID, models.PermManageMembers)
	assert.True(t, ok)
	ok, _ = e.rbac.HasPermission(ctx, vp.ID, club.ID, models.PermEditMemberRoles)
	assert.False(t, ok)

	ok, _ = e.rbac.HasPermission(ctx, member.ID, club.ID, models.PermAccessChat)
	assert.True(t, ok)
	ok, _ = e.rbac.HasPermission(ctx, member.ID, club.ID, models.PermCreateAnnouncements)
	assert.False(t, ok)
}

func TestCanManageRoles(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	pres := e.newUser(t, "pres")
	vp := e.newUser(t, "vp")
	member := e.newUser(t, "member")
	club := e.newClub(t, pres, "Debate")
	e.addMember(t, club, vp, models.RoleVicePresident)
	e.addMember(t, club, member, models.RoleMember)

	_, err := e.rbac.CanManageRoles(ctx, pres.ID, club.ID)
	assert.NoError(t, err)
	_, err = e.rbac.CanManageRoles(ctx, vp.ID, club.ID)
	assert.NoError(t, err)

	_, err = e.rbac.CanManageRoles(ctx, member.ID, club.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, "Only club presidents and vice presidents can manage roles", MessageOf(err, ""))

	require.NoError(t, e.store.SetPermission(ctx, e.role(t, club, models.RoleMember).ID, models.PermManageRoles, true))
	_, err = e.rbac.CanManageRoles(ctx, member.ID, club.ID)
	assert.NoError(t, err)
}
