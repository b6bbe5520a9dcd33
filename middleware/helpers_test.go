// file: middleware/helpers_test.go
package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"go-club-hub/services"
)

const testSessionName = "testsession"

// fakeValidator accepts the listed session ids.
type fakeValidator struct {
	valid map[string]int64
	err   error
}

func (f *fakeValidator) ValidateSession(_ context.Context, sessionID string, userID int64) error {
	if f.err != nil {
		return f.err
	}
	if uid, ok := f.valid[sessionID]; ok && uid == userID {
		return nil
	}
	return services.ErrAuthenticationRequired
}

// setupTestRouter builds a router with a cookie session store and a helper
// route that seeds the session.
func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions(testSessionName, store))
	return router
}

// client replays the session cookie between requests.
type client struct {
	t      *testing.T
	router *gin.Engine
	cookie *http.Cookie
}

func newClient(t *testing.T, router *gin.Engine) *client {
	return &client{t: t, router: router}
}

func (cl *client) do(method, path string, body io.Reader, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	if cl.cookie != nil {
		req.AddCookie(cl.cookie)
	}
	w := httptest.NewRecorder()
	cl.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == testSessionName {
			cl.cookie = c
		}
	}
	return w
}

// login seeds an authenticated session through a helper route.
func (cl *client) login(userID int64, sessionID string, owner bool) {
	cl.router.GET("/_seed", func(c *gin.Context) {
		StartUserSession(sessions.Default(c), userID, owner, sessionID, 0)
		require.NoError(cl.t, sessions.Default(c).Save())
		c.Status(http.StatusNoContent)
	})
	cl.do(http.MethodGet, "/_seed", nil, nil)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}
