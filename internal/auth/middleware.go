package auth

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/saulo-duarte/classroom-lms/internal/access"
	"github.com/saulo-duarte/classroom-lms/internal/apperror"
	"github.com/saulo-duarte/classroom-lms/internal/config"
)

type contextKey string

const claimsKey contextKey = "user_claims"

var ErrNoClaims = errors.New("no user claims in context")

// extractToken reads the bearer token, tolerating clients that send the
// prefix twice, and falls back to the jwt cookie.
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		token := strings.TrimSpace(header)
		for strings.HasPrefix(token, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
		}
		return token
	}
	if c, err := r.Cookie("jwt"); err == nil {
		return c.Value
	}
	return ""
}

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := config.WithContext(r.Context())

		tokenStr := extractToken(r)
		if tokenStr == "" {
			config.WriteError(r.Context(), w, apperror.Unauthorized("missing bearer token"))
			return
		}

		claims, err := ValidateJWT(tokenStr)
		if err != nil {
			log.WithError(err).Warn("Invalid JWT")
			config.WriteError(r.Context(), w, apperror.Unauthorized("invalid or expired token"))
			return
		}
		if _, ok := access.ParseRole(claims.Role); !ok {
			log.Warnf("JWT carries unknown role %q", claims.Role)
			config.WriteError(r.Context(), w, apperror.Unauthorized("user role missing or invalid"))
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		ctx = config.ContextWithUserID(ctx, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func GetUserClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	if !ok || claims == nil {
		return nil, ErrNoClaims
	}
	return claims, nil
}

// ActorFromContext converts the request claims into the explicit actor that
// service calls receive.
func ActorFromContext(ctx context.Context) (access.Actor, error) {
	claims, err := GetUserClaimsFromContext(ctx)
	if err != nil {
		return access.Actor{}, apperror.Unauthorized("user not authenticated")
	}
	id, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil || id == 0 {
		return access.Actor{}, apperror.Unauthorized("invalid user id in token")
	}
	role, ok := access.ParseRole(claims.Role)
	if !ok {
		return access.Actor{}, apperror.Unauthorized("user role missing or invalid")
	}
	return access.Actor{ID: uint(id), Role: role}, nil
}
