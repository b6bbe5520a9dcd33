// file: services/helpers_test.go
package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-club-hub/models"
	"go-club-hub/store"
)

type testEnv struct {
	store         *store.Store
	clock         *testClock
	rbac          *RBAC
	limiter       *RateLimiter
	notifications *NotificationService
	auth          *AuthService
	clubs         *ClubService
	members       *MemberService
	roles         *RoleService
	announcements *AnnouncementService
	chat          *ChatService
	admin         *AdminService
	owner         *models.User

	seq int
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestEnv(t *testing.T, opts ...RateLimiterOption) *testEnv {
	t.Helper()
	st, err := store.Open(context.Background(), store.DriverSQLite, filepath.Join(t.TempDir(), "services_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	clock := &testClock{now: time.Unix(1_750_000_000, 0)}
	st.SetClock(clock.Now)

	// never roll the cleanup dice unless a test asks for it
	opts = append([]RateLimiterOption{WithRandom(func() float64 { return 1 })}, opts...)

	e := &testEnv{store: st, clock: clock}
	e.rbac = NewRBAC(st)
	e.limiter = NewRateLimiter(st, opts...)
	e.notifications = NewNotificationService(st)
	e.auth = NewAuthService(st, e.limiter, e.notifications).WithBcryptCost(bcrypt.MinCost)
	e.clubs = NewClubService(st, e.rbac, e.notifications)
	n := 0
	e.clubs.intn = func(k int) int { n++; return n % k }
	e.members = NewMemberService(st, e.rbac)
	e.roles = NewRoleService(st, e.rbac)
	e.announcements = NewAnnouncementService(st, e.rbac)
	e.chat = NewChatService(st, e.rbac, e.limiter)
	e.admin = NewAdminService(st)

	e.owner = &models.User{Email: "owner@clubhub.test", PasswordHash: "x", FirstName: "System", LastName: "Owner",
		IsActive: true, IsSystemOwner: true}
	require.NoError(t, st.CreateUser(context.Background(), e.owner))
	return e
}

// newUser inserts an active account directly, bypassing registration limits.
func (e *testEnv) newUser(t *testing.T, first string) *models.User {
	t.Helper()
	e.seq++
	hash, err := HashPassword("password123", bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{
		Email:        fmt.Sprintf("%s%d@example.com", first, e.seq),
		PasswordHash: hash,
		FirstName:    first,
		LastName:     "Tester",
		IsActive:     true,
	}
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return u
}

// newClub runs the full request and approval flow with president as requester.
func (e *testEnv) newClub(t *testing.T, president *models.User, name string) *models.Club {
	t.Helper()
	ctx := context.Background()
	req, err := e.clubs.SubmitClubRequest(ctx, president.ID, ClubRequestInput{ClubName: name, Description: "A club"})
	require.NoError(t, err)
	club, err := e.clubs.ApproveClubRequest(ctx, e.owner.ID, req.ID)
	require.NoError(t, err)
	return club
}

// addMember gives user an active membership under the named role.
func (e *testEnv) addMember(t *testing.T, club *models.Club, user *models.User, roleName string) {
	t.Helper()
	ctx := context.Background()
	role, err := e.store.GetClubRoleByName(ctx, club.ID, roleName)
	require.NoError(t, err)
	require.NoError(t, e.store.UpsertMembership(ctx, &models.Membership{ClubID: club.ID, UserID: user.ID, RoleID: role.ID}))
}

func (e *testEnv) role(t *testing.T, club *models.Club, name string) *models.Role {
	t.Helper()
	r, err := e.store.GetClubRoleByName(context.Background(), club.ID, name)
	require.NoError(t, err)
	return r
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
