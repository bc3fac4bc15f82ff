package handlers_test

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/audioryx/backend/internal/auth"
	"github.com/audioryx/backend/internal/config"
	"github.com/audioryx/backend/internal/models/dto"
)

func TestRegisterIssuesUsableToken(t *testing.T) {
	e := newEnv(t)

	out := e.register("a@x.com", "pw123")
	require.NotZero(t, out.User.ID)
	require.Equal(t, "a@x.com", out.User.Email)
	require.Equal(t, "a@x.com", out.User.DisplayName, "display name defaults to email")
	require.NotEmpty(t, out.Token)

	claims, err := e.tokens.Verify(out.Token)
	require.NoError(t, err)
	require.Equal(t, out.User.ID, claims.IdentityID)
	require.Equal(t, auth.RoleUser, claims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	e := newEnv(t)
	e.register("a@x.com", "pw123")

	resp := e.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "a@x.com",
		"password": "different",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "duplicate_email", errorTag(t, resp))

	// The original registration still works.
	e.login("a@x.com", "pw123")
}

func TestRegisterMissingFields(t *testing.T) {
	e := newEnv(t)

	for _, body := range []map[string]string{
		{"password": "pw123"},
		{"email": "a@x.com"},
		{},
	} {
		resp := e.do(http.MethodPost, "/api/auth/register", "", body)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "invalid_input", errorTag(t, resp))
	}
}

func TestRegisterResponseNeverLeaksHash(t *testing.T) {
	e := newEnv(t)

	resp := e.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "a@x.com",
		"password": "pw123",
	})
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NotContains(t, string(body), "password_hash")
	require.NotContains(t, string(body), "pw123")
}

// Unknown email and wrong password must be indistinguishable to the caller.
func TestLoginFailuresShareOneTag(t *testing.T) {
	e := newEnv(t)
	e.register("a@x.com", "pw123")

	wrongPw := e.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "nope",
	})
	unknown := e.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ghost@x.com",
		"password": "pw123",
	})

	require.Equal(t, http.StatusBadRequest, wrongPw.StatusCode)
	require.Equal(t, wrongPw.StatusCode, unknown.StatusCode)
	require.Equal(t, "invalid_credentials", errorTag(t, wrongPw))
	require.Equal(t, "invalid_credentials", errorTag(t, unknown))
}

func TestLoginReturnsFreshToken(t *testing.T) {
	e := newEnv(t)
	registered := e.register("a@x.com", "pw123")
	loggedIn := e.login("a@x.com", "pw123")

	require.Equal(t, registered.User.ID, loggedIn.User.ID)
	require.NotEqual(t, registered.Token, loggedIn.Token)

	c1, err := e.tokens.Verify(registered.Token)
	require.NoError(t, err)
	c2, err := e.tokens.Verify(loggedIn.Token)
	require.NoError(t, err)
	require.Equal(t, c1.IdentityID, c2.IdentityID)
}

func TestEmployeeLoginNotConfigured(t *testing.T) {
	e := newEnvWithConfig(t, config.Config{
		JWTSecret:   "test-secret",
		JWTIssuer:   "audioryx-test",
		CORSOrigins: []string{"*"},
	})

	resp := e.do(http.MethodPost, "/api/employee-login", "", map[string]string{
		"email":    testEmployeeEmail,
		"password": testEmployeePassword,
	})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Equal(t, "not_configured", errorTag(t, resp))
}

func TestEmployeeLoginRequiresMatchingCredentials(t *testing.T) {
	e := newEnv(t)

	badPw := e.do(http.MethodPost, "/api/employee-login", "", map[string]string{
		"email":    testEmployeeEmail,
		"password": "wrong",
	})
	require.Equal(t, http.StatusBadRequest, badPw.StatusCode)
	require.Equal(t, "invalid_credentials", errorTag(t, badPw))

	badEmail := e.do(http.MethodPost, "/api/employee-login", "", map[string]string{
		"email":    "intruder@x.com",
		"password": testEmployeePassword,
	})
	require.Equal(t, http.StatusBadRequest, badEmail.StatusCode)
	require.Equal(t, "invalid_credentials", errorTag(t, badEmail))

	empty := e.do(http.MethodPost, "/api/employee-login", "", map[string]string{})
	require.Equal(t, http.StatusBadRequest, empty.StatusCode)
	require.Equal(t, "invalid_input", errorTag(t, empty))
}

func TestEmployeeLoginMintsEmployeeToken(t *testing.T) {
	e := newEnv(t)

	resp := e.do(http.MethodPost, "/api/employee-login", "", map[string]string{
		"email":    testEmployeeEmail,
		"password": testEmployeePassword,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.AuthResponse
	decodeBody(t, resp, &out)
	require.Equal(t, int64(0), out.User.ID)
	require.Equal(t, "Employee", out.User.DisplayName)

	claims, err := e.tokens.Verify(out.Token)
	require.NoError(t, err)
	require.Equal(t, auth.RoleEmployee, claims.Role)
	require.Equal(t, int64(0), claims.IdentityID)
	require.True(t, strings.EqualFold(testEmployeeEmail, claims.Email))
}
