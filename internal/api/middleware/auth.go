package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/teamspace/internal/api/response"
	"github.com/Rrens/teamspace/internal/domain"
	"github.com/Rrens/teamspace/internal/security"
)

type contextKey string

const (
	UserIDKey      contextKey = "userID"
	WorkspaceIDKey contextKey = "workspaceID"
	IdentityKey    contextKey = "identity"
)

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	jwtManager *security.JWTManager
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *security.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

// Authenticate validates the JWT token
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(w, "invalid authorization header format")
			return
		}

		claims, err := m.jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID gets the user ID from context
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetWorkspaceID gets the workspace ID taken from the URL
func GetWorkspaceID(ctx context.Context) (uuid.UUID, bool) {
	workspaceID, ok := ctx.Value(WorkspaceIDKey).(uuid.UUID)
	return workspaceID, ok
}

// WorkspaceContext extracts workspace ID from URL and adds to context
func WorkspaceContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		workspaceIDStr := chi.URLParam(r, "workspaceID")
		if workspaceIDStr == "" {
			response.BadRequest(w, "missing workspace ID")
			return
		}

		workspaceID, err := uuid.Parse(workspaceIDStr)
		if err != nil {
			response.BadRequest(w, "invalid workspace ID")
			return
		}

		ctx := context.WithValue(r.Context(), WorkspaceIDKey, workspaceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActiveWorkspaceResolver returns the workspace a user is currently acting in
type ActiveWorkspaceResolver interface {
	ResolveActive(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

// IdentityMiddleware binds the authenticated user to their active workspace
type IdentityMiddleware struct {
	resolver ActiveWorkspaceResolver
}

// NewIdentityMiddleware creates a new identity middleware
func NewIdentityMiddleware(resolver ActiveWorkspaceResolver) *IdentityMiddleware {
	return &IdentityMiddleware{resolver: resolver}
}

// Resolve stores a domain.Identity in the request context.
// The workspace always comes from server-side state, never from the client.
func (m *IdentityMiddleware) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserID(r.Context())
		if !ok {
			response.Unauthorized(w, "unauthorized")
			return
		}

		workspaceID, err := m.resolver.ResolveActive(r.Context(), userID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to resolve active workspace")
			response.ServiceError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), IdentityKey, domain.Identity{
			UserID:      userID,
			WorkspaceID: workspaceID,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetIdentity gets the acting user and active workspace from context
func GetIdentity(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(domain.Identity)
	return id, ok
}
