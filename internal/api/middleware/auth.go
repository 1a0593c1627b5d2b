package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/ivanquesadapalmero/planazo-backend/internal/api/dto"
	"github.com/ivanquesadapalmero/planazo-backend/internal/apperr"
	"github.com/ivanquesadapalmero/planazo-backend/internal/auth"
	"github.com/ivanquesadapalmero/planazo-backend/internal/database/models"
	"github.com/ivanquesadapalmero/planazo-backend/pkg/util"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID uuid.UUID
	Email  string
}

// AccountLookup loads the account behind a token.
type AccountLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Auth resolves the bearer token once per request and rejects tokens whose
// account no longer exists or has been deactivated.
func Auth(tokens auth.TokenService, accounts AccountLookup, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w, "missing bearer token")
				return
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				if errors.Is(err, auth.ErrExpiredToken) {
					unauthorized(w, "token expired")
					return
				}
				unauthorized(w, "invalid token")
				return
			}

			user, err := accounts.Get(r.Context(), claims.UserID)
			if err != nil {
				if apperr.Is(err, apperr.KindNotFound) {
					unauthorized(w, "invalid token")
					return
				}
				logger.Error("loading principal", "user_id", claims.UserID, util.Err(err))
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			if !user.IsActive() {
				unauthorized(w, "account is deactivated")
				return
			}

			ctx := WithPrincipal(r.Context(), Principal{UserID: user.ID, Email: user.Email})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="planazo"`)
	writeJSONError(w, http.StatusUnauthorized, msg)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: msg})
}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipal returns the principal set by Auth.
func GetPrincipal(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// GetUserID returns the authenticated user id, or uuid.Nil outside Auth.
func GetUserID(ctx context.Context) uuid.UUID {
	if p, ok := GetPrincipal(ctx); ok {
		return p.UserID
	}
	return uuid.Nil
}
