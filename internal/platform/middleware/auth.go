package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	id "alphaseek/pkg/domain"
	"alphaseek/pkg/requestcontext"
)

// JWTValidator validates session tokens minted at login.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims carries the identity attributes a valid session token proves.
type JWTClaims struct {
	UserID    string
	SessionID string
	Email     string
}

// SessionCookieName is the cookie the auth callback handler sets and this
// middleware reads.
const SessionCookieName = "alphaseek_session"

// RequireAuth validates the session token and injects the caller's identity
// into the request context. Bearer header takes precedence over the cookie so
// API clients and the browser surface share one middleware.
//
// Handlers behind this middleware may assume requestcontext.UserID and
// requestcontext.SessionID are set; an unauthenticated caller never reaches
// them.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				if c, err := r.Cookie(SessionCookieName); err == nil {
					token = c.Value
				}
			}
			if token == "" {
				unauthorized(w, r, logger, "missing session token")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				unauthorized(w, r, logger, "invalid session token")
				return
			}

			userID, err := id.ParseUserID(claims.UserID)
			if err != nil {
				unauthorized(w, r, logger, "malformed user id claim")
				return
			}
			sessionID, err := id.ParseSessionID(claims.SessionID)
			if err != nil {
				unauthorized(w, r, logger, "malformed session id claim")
				return
			}

			ctx := r.Context()
			ctx = requestcontext.WithUserID(ctx, userID)
			ctx = requestcontext.WithSessionID(ctx, sessionID)
			ctx = requestcontext.WithEmail(ctx, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), prefix); ok {
		return after
	}
	return ""
}

func unauthorized(w http.ResponseWriter, r *http.Request, logger *slog.Logger, reason string) {
	logger.WarnContext(r.Context(), "unauthorized access",
		"reason", reason,
		"request_id", GetRequestID(r.Context()),
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}
