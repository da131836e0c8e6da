package jwt

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextFromToken(t *testing.T, svc Service, tokenString string) context.Context {
	t.Helper()
	token, err := svc.JWTAuth().Decode(tokenString)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func TestNewJWTService_InvalidExpiration(t *testing.T) {
	_, err := NewJWTService("secret", "forever")
	assert.Error(t, err)
}

func TestGenerateAccessToken_RoundTripsActor(t *testing.T) {
	svc, err := NewJWTService("secret", "1h")
	require.NoError(t, err)

	empID := "0192a0b0-0000-7000-8000-000000000001"
	tokenString, expiresAt, err := svc.GenerateAccessToken(user.Actor{UserID: "u-1", EmployeeID: &empID, Role: user.RoleHRAdmin})
	require.NoError(t, err)
	assert.NotZero(t, expiresAt)

	actor, err := ActorFromContext(contextFromToken(t, svc, tokenString))
	require.NoError(t, err)
	assert.Equal(t, "u-1", actor.UserID)
	assert.Equal(t, user.RoleHRAdmin, actor.Role)
	require.NotNil(t, actor.EmployeeID)
	assert.Equal(t, empID, *actor.EmployeeID)
}

func TestActorFromContext_NoEmployeeProfile(t *testing.T) {
	svc, err := NewJWTService("secret", "1h")
	require.NoError(t, err)

	tokenString, _, err := svc.GenerateAccessToken(user.Actor{UserID: "u-2", Role: user.RolePayrollManager})
	require.NoError(t, err)

	actor, err := ActorFromContext(contextFromToken(t, svc, tokenString))
	require.NoError(t, err)
	assert.Nil(t, actor.EmployeeID)
}

func TestActorFromContext_UnknownRole(t *testing.T) {
	svc, err := NewJWTService("secret", "1h")
	require.NoError(t, err)

	tokenString, _, err := svc.GenerateAccessToken(user.Actor{UserID: "u-3", Role: user.Role("owner")})
	require.NoError(t, err)

	_, err = ActorFromContext(contextFromToken(t, svc, tokenString))
	assert.ErrorIs(t, err, user.ErrInvalidRole)
}

func TestActorFromContext_Unauthenticated(t *testing.T) {
	_, err := ActorFromContext(context.Background())
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestWithActor(t *testing.T) {
	ctx := WithActor(context.Background(), user.SystemActor)
	actor, err := ActorFromContext(ctx)
	require.NoError(t, err)
	assert.True(t, actor.IsSystem())
}
