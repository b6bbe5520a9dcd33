// file: controllers/helpers_test.go
package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-club-hub/middleware"
	"go-club-hub/services"
	"go-club-hub/store"
)

const (
	testPassword  = "password123"
	ownerEmail    = "owner@clubhub.test"
	ownerPassword = "ownerpass123"
	testAppURL    = "https://clubs.example.com"
)

type testApp struct {
	router *gin.Engine
	svc    *Services
	ips    int
}

// newTestApp wires the real services over a throwaway SQLite file and mounts
// every route behind a cookie session store, the way main does.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.Open(context.Background(), store.DriverSQLite, filepath.Join(t.TempDir(), "controllers_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	limiter := services.NewRateLimiter(st, services.WithRandom(func() float64 { return 1 }))
	svc := NewServices(st, limiter)
	svc.Auth.WithBcryptCost(bcrypt.MinCost)

	router := gin.New()
	router.Use(sessions.Sessions("testsession", cookie.NewStore([]byte("test-secret"))))

	tmpDir := t.TempDir()
	require.NoError(t, createDummyTemplates(tmpDir))
	router.LoadHTMLGlob(filepath.Join(tmpDir, "*.html"))

	RegisterRoutes(router, svc, RouteOptions{ApplicationURL: testAppURL})
	return &testApp{router: router, svc: svc}
}

// createDummyTemplates writes minimal templates that echo the fields the
// tests look for.
func createDummyTemplates(dir string) error {
	templates := map[string]string{
		"login.html":        `<html><body>{{.CSRFToken}}</body></html>`,
		"register.html":     `<html><body>register {{.CSRFToken}}</body></html>`,
		"index.html":        `<html><body>hub {{.ActiveClub.Name}} roles={{.CanManageRoles}}</body></html>`,
		"no_clubs.html":     `<html><body>no clubs for {{.User.FirstName}}</body></html>`,
		"manage_roles.html": `<html><body>roles of {{.Club.Name}}</body></html>`,
		"super_owner.html":  `<html><body>dashboard</body></html>`,
		"join.html":         `<html><body>join {{.AccessCode}}</body></html>`,
	}
	for name, content := range templates {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

// client is a browser stand-in: it keeps the session cookie and the latest
// CSRF token handed out by the server.
type client struct {
	t      *testing.T
	app    *testApp
	ip     string
	cookie *http.Cookie
	csrf   string
}

// newClient gives every client its own address so per-IP limits do not
// bleed between actors.
func (a *testApp) newClient(t *testing.T) *client {
	a.ips++
	return &client{t: t, app: a, ip: fmt.Sprintf("10.20.0.%d", a.ips)}
}

func (c *client) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.RemoteAddr = c.ip + ":40000"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	if c.csrf != "" {
		req.Header.Set(middleware.CSRFHeader, c.csrf)
	}

	w := httptest.NewRecorder()
	c.app.router.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.Name != "testsession" {
			continue
		}
		if ck.MaxAge < 0 {
			c.cookie = nil
		} else {
			c.cookie = ck
		}
	}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		var env middleware.Envelope
		if json.Unmarshal(w.Body.Bytes(), &env) == nil && env.CSRFToken != "" {
			c.csrf = env.CSRFToken
		}
	}
	return w
}

// api performs a JSON call and decodes the envelope.
func (c *client) api(method, path string, body interface{}) middleware.Envelope {
	c.t.Helper()
	w := c.do(method, path, body)
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())
	var env middleware.Envelope
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// must is api for calls that are expected to succeed.
func (c *client) must(method, path string, body interface{}) middleware.Envelope {
	c.t.Helper()
	env := c.api(method, path, body)
	require.True(c.t, env.Success, "%s %s: %s", method, path, env.Message)
	return env
}

// prime loads the login page to obtain a session and CSRF token.
func (c *client) prime() {
	c.t.Helper()
	w := c.do(http.MethodGet, "/login", nil)
	require.Equal(c.t, http.StatusOK, w.Code)
	c.csrf = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(w.Body.String(), "<html><body>"), "</body></html>"))
	require.Len(c.t, c.csrf, 64)
}

func (c *client) register(first string) int64 {
	c.t.Helper()
	c.prime()
	env := c.must(http.MethodPost, "/api/auth/register", gin.H{
		"email":      first + "@example.com",
		"password":   testPassword,
		"first_name": first,
		"last_name":  "Tester",
	})
	return idOf(dataMap(c.t, env)["user_id"])
}

func (c *client) login(email, password string) middleware.Envelope {
	c.t.Helper()
	c.prime()
	return c.api(http.MethodPost, "/api/auth/login", gin.H{"email": email, "password": password})
}

// owner bootstraps the system owner account and returns a logged-in client.
func (a *testApp) owner(t *testing.T) *client {
	t.Helper()
	_, _, err := a.svc.Auth.EnsureSystemOwner(context.Background(), ownerEmail, ownerPassword)
	require.NoError(t, err)
	c := a.newClient(t)
	env := c.login(ownerEmail, ownerPassword)
	require.True(t, env.Success, env.Message)
	return c
}

type clubFixture struct {
	app       *testApp
	owner     *client
	president *client
	member    *client
	presID    int64
	memberID  int64
	clubID    int64
	code      string
}

// newClubFixture drives the whole onboarding flow through the API: a user
// requests a club, the system owner approves it, and a second user joins
// with the access code and is approved by the president.
func newClubFixture(t *testing.T) *clubFixture {
	t.Helper()
	a := newTestApp(t)
	f := &clubFixture{app: a, owner: a.owner(t), president: a.newClient(t), member: a.newClient(t)}

	f.presID = f.president.register("pres")
	req := f.president.must(http.MethodPost, "/api/clubs/requests", gin.H{"club_name": "Chess Club", "description": "Weekly games"})
	requestID := idOf(dataMap(t, req)["request_id"])

	approved := f.owner.must(http.MethodPost, "/api/super-owner/approve-club", gin.H{"request_id": requestID})
	data := dataMap(t, approved)
	f.clubID = idOf(data["club_id"])
	f.code = data["access_code"].(string)

	f.memberID = f.member.register("member")
	join := f.member.must(http.MethodPost, "/api/clubs/join", gin.H{"access_code": f.code})
	f.president.must(http.MethodPost, "/api/clubs/join-requests/approve", gin.H{"request_id": idOf(dataMap(t, join)["request_id"])})
	return f
}

func (f *clubFixture) path(p string) string {
	sep := "?"
	if strings.Contains(p, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%sclub_id=%d", p, sep, f.clubID)
}

// roleID finds a role of the club by name.
func (f *clubFixture) roleID(t *testing.T, name string) int64 {
	t.Helper()
	env := f.president.must(http.MethodGet, f.path("/api/roles"), nil)
	for _, r := range dataList(t, env) {
		role := r.(map[string]interface{})
		if role["role_name"] == name {
			return idOf(role["id"])
		}
	}
	t.Fatalf("role %q not found", name)
	return 0
}

func dataMap(t *testing.T, env middleware.Envelope) map[string]interface{} {
	t.Helper()
	m, found := env.Data.(map[string]interface{})
	require.True(t, found, "data is %T", env.Data)
	return m
}

func dataList(t *testing.T, env middleware.Envelope) []interface{} {
	t.Helper()
	if env.Data == nil {
		return nil
	}
	l, found := env.Data.([]interface{})
	require.True(t, found, "data is %T", env.Data)
	return l
}

func idOf(v interface{}) int64 {
	f, _ := v.(float64)
	return int64(f)
}
