package jwt

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const TokenTypeAccess = "access"

type Service interface {
	// GenerateAccessToken issues a token for tests and operator tooling.
	// Login lives in the identity provider, not here.
	GenerateAccessToken(actor user.Actor) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) (Service, error) {
	expiration, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration: %w", err)
	}
	return &JWTService{
		accessTokenExpiration: expiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}, nil
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(actor user.Actor) (string, int64, error) {
	expiresAt := time.Now().Add(j.accessTokenExpiration).Unix()

	claims := map[string]interface{}{
		"user_id":     actor.UserID,
		"employee_id": nil,
		"role":        string(actor.Role),
		"type":        TokenTypeAccess,
		"exp":         expiresAt,
	}
	if actor.EmployeeID != nil {
		claims["employee_id"] = *actor.EmployeeID
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

type actorKey struct{}

// WithActor stores an already-resolved actor in ctx. Background jobs use it
// to act as user.SystemActor.
func WithActor(ctx context.Context, actor user.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the caller, either set by WithActor or read from
// the verified token claims.
func ActorFromContext(ctx context.Context) (user.Actor, error) {
	if actor, ok := ctx.Value(actorKey{}).(user.Actor); ok {
		return actor, nil
	}

	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return user.Actor{}, auth.ErrUnauthenticated
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return user.Actor{}, auth.ErrMissingClaims
	}
	roleStr, ok := claims["role"].(string)
	if !ok {
		return user.Actor{}, auth.ErrMissingClaims
	}
	role := user.Role(roleStr)
	if !role.IsValid() {
		return user.Actor{}, user.ErrInvalidRole
	}

	actor := user.Actor{UserID: userID, Role: role}
	if employeeID, ok := claims["employee_id"].(string); ok && employeeID != "" {
		actor.EmployeeID = &employeeID
	}
	return actor, nil
}
