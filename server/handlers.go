package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"teamtune/config"
	"teamtune/core/auth"
	"teamtune/core/spotify"
	"teamtune/core/tunes"
	"teamtune/logger"
	"teamtune/model"
	"teamtune/repository"

	"golang.org/x/oauth2"
)

// APIHandler handles all API requests.
type APIHandler struct {
	userRepo  repository.UserRepository
	tunes     *tunes.Service
	tokens    *tunes.Manager
	oauth     *oauth2.Config
	newClient spotify.Factory
	cfg       *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	userRepo repository.UserRepository,
	svc *tunes.Service,
	tokens *tunes.Manager,
	oauth *oauth2.Config,
	newClient spotify.Factory,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		userRepo:  userRepo,
		tunes:     svc,
		tokens:    tokens,
		oauth:     oauth,
		newClient: newClient,
		cfg:       cfg,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// errorStatus maps core errors onto HTTP status codes. Remote API failures
// stay internal, the upstream status is not forwarded to clients.
func errorStatus(err error) int {
	var apiErr *spotify.APIError
	switch {
	case errors.Is(err, model.ErrNoCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrNotLinked):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrDurationLimitReached),
		errors.Is(err, model.ErrNoSeedTracks):
		return http.StatusConflict
	case errors.As(err, &apiErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func (h *APIHandler) serviceError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", logger.ErrorField(err))
		writeError(w, status, "Internal server error")
		return
	}
	writeError(w, status, err.Error())
}

// AuthMiddleware is a middleware function that checks for a valid JWT token.
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := auth.ParseToken(parts[1])
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), "userID", claims.UserID)
		ctx = context.WithValue(ctx, "username", claims.Username)
		ctx = context.WithValue(ctx, "role", claims.Role)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// GetUserIDFromContext extracts the user ID from the request context.
func GetUserIDFromContext(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value("userID").(int64)
	if !ok {
		return 0, fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// GetRoleFromContext extracts the user role from the request context.
func GetRoleFromContext(ctx context.Context) (string, error) {
	role, ok := ctx.Value("role").(string)
	if !ok {
		return "", fmt.Errorf("role not found in context")
	}
	return role, nil
}

// currentUser loads the authenticated user behind the request.
func (h *APIHandler) currentUser(r *http.Request) (*model.User, error) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		return nil, err
	}
	user, err := h.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %d not found", userID)
	}
	return user, nil
}
