package middleware

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired accepts only verified access tokens and stores the resolved
// actor in the request context. It runs after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		token, _, err := jwtauth.FromContext(r.Context())

		if err != nil {
			response.HandleError(w, tokenError(err))
			return
		}

		if token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		claims, err := token.AsMap(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}
		tokenType, ok := claims["type"].(string)
		if tokenType != jwt.TokenTypeAccess || !ok {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		actor, err := jwt.ActorFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(jwt.WithActor(r.Context(), actor)))
	}
	return http.HandlerFunc(hfn)
}

func tokenError(err error) error {
	switch {
	case errors.Is(err, jwtauth.ErrNoTokenFound):
		return auth.ErrUnauthenticated
	case errors.Is(err, jwtauth.ErrExpired):
		return auth.ErrTokenExpired
	default:
		return auth.ErrInvalidToken
	}
}
