package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, svc jwt.Service, guards ...func(http.Handler) http.Handler) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(svc.JWTAuth()))
	r.Use(AuthRequired)
	r.Use(guards...)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		actor, err := jwt.ActorFromContext(r.Context())
		require.NoError(t, err)
		_, _ = w.Write([]byte(actor.Role))
	})
	return r
}

func doRequest(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func tokenFor(t *testing.T, svc jwt.Service, actor user.Actor) string {
	t.Helper()
	token, _, err := svc.GenerateAccessToken(actor)
	require.NoError(t, err)
	return token
}

func TestAuthRequired(t *testing.T) {
	svc, err := jwt.NewJWTService("middleware-secret", "1h")
	require.NoError(t, err)
	h := newTestRouter(t, svc)

	assert.Equal(t, http.StatusUnauthorized, doRequest(h, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(h, "not-a-token").Code)

	other, err := jwt.NewJWTService("other-secret", "1h")
	require.NoError(t, err)
	forged := tokenFor(t, other, user.Actor{UserID: "u1", Role: user.RoleHRAdmin})
	assert.Equal(t, http.StatusUnauthorized, doRequest(h, forged).Code)

	rec := doRequest(h, tokenFor(t, svc, user.Actor{UserID: "u1", Role: user.RoleHRAdmin}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(user.RoleHRAdmin), rec.Body.String())
}

func TestRequireRoles(t *testing.T) {
	svc, err := jwt.NewJWTService("middleware-secret", "1h")
	require.NoError(t, err)
	h := newTestRouter(t, svc, RequireRoles(user.RolePayrollManager, user.RoleSystemAdmin))

	assert.Equal(t, http.StatusOK, doRequest(h, tokenFor(t, svc, user.Actor{UserID: "u1", Role: user.RolePayrollManager})).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(h, tokenFor(t, svc, user.Actor{UserID: "u2", Role: user.RolePayrollSpecialist})).Code)
}

func TestRequirePermission(t *testing.T) {
	svc, err := jwt.NewJWTService("middleware-secret", "1h")
	require.NoError(t, err)
	h := newTestRouter(t, svc, RequirePermission(user.PermissionTimeExceptionReview))

	assert.Equal(t, http.StatusOK, doRequest(h, tokenFor(t, svc, user.Actor{UserID: "u1", Role: user.RoleDepartmentHead})).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(h, tokenFor(t, svc, user.Actor{UserID: "u2", Role: user.RoleEmployee})).Code)
}

func TestRequireEmployeeProfile(t *testing.T) {
	svc, err := jwt.NewJWTService("middleware-secret", "1h")
	require.NoError(t, err)
	h := newTestRouter(t, svc, RequireEmployeeProfile)

	employeeID := "0190a5b2-7c3e-7a10-8000-000000000001"
	assert.Equal(t, http.StatusOK, doRequest(h, tokenFor(t, svc, user.Actor{UserID: "u1", EmployeeID: &employeeID, Role: user.RoleEmployee})).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(h, tokenFor(t, svc, user.Actor{UserID: "u2", Role: user.RoleSystemAdmin})).Code)
}
