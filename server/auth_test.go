package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/cinestream/session"
)

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestAuth_RegisterLoginLogout(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodPost, "/api/register", `{"username":"alice","password":"hunter2"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Registration successful", body["message"])
	assert.Equal(t, "alice", body["user"].(map[string]any)["username"])
	registered := sessionCookie(t, rec.Result())

	rec = env.do(http.MethodGet, "/api/user", "", registered)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", decodeBody(t, rec)["username"])
	assert.NotContains(t, rec.Body.String(), "hunter2")
	assert.NotContains(t, rec.Body.String(), "password")

	rec = env.do(http.MethodPost, "/api/register", `{"username":"alice","password":"other"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Username already exists"}`, rec.Body.String())

	rec = env.do(http.MethodPost, "/api/login", `{"username":"alice","password":"wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodPost, "/api/login", `{"username":"nobody","password":"hunter2"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodPost, "/api/login", `{"username":"alice","password":"hunter2"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	loggedIn := sessionCookie(t, rec.Result())

	rec = env.do(http.MethodPost, "/api/watchlist/550", "", loggedIn)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodPost, "/logout", "", loggedIn)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, -1, sessionCookie(t, rec.Result()).MaxAge)
}

func TestAuth_RegisterValidation(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, body := range []string{`{}`, `{"username":"  ","password":"x"}`, `{"username":"a"}`, `not json`} {
		rec := env.do(http.MethodPost, "/api/register", body, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.JSONEq(t, `{"message":"Username and password are required"}`, rec.Body.String())
	}
}

func TestAuth_UserWithoutSession(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Not logged in"}`, rec.Body.String())

	rec = env.do(http.MethodGet, "/api/user", "", &http.Cookie{Name: session.CookieName, Value: "forged"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
