package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"teamtune/core/auth"
	"teamtune/core/tunes"
	"teamtune/logger"
	"teamtune/model"

	"github.com/gorilla/mux"
)

// RegisterRequest represents the registration request body. Code is the
// Spotify authorization code obtained by the frontend OAuth redirect.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterHandler creates a new account. When an authorization code is
// supplied the Spotify account is linked in the same step.
func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, false)
}

// RegisterInviteHandler creates a new account and immediately redeems every
// invitation pending for the chosen username.
func (h *APIHandler) RegisterInviteHandler(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, true)
}

func (h *APIHandler) register(w http.ResponseWriter, r *http.Request, redeemInvites bool) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	existing, err := h.userRepo.FindByUsername(req.Username)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "Username is already taken")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	user := model.User{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         model.RoleMember,
	}

	if req.Code != "" {
		token, err := h.oauth.Exchange(r.Context(), req.Code)
		if err != nil {
			logger.Warn("authorization code exchange failed",
				logger.String("username", req.Username),
				logger.ErrorField(err))
			writeError(w, http.StatusBadRequest, "Invalid authorization code")
			return
		}

		me, err := h.newClient(token.AccessToken).CurrentUser(r.Context())
		if err != nil {
			h.serviceError(w, err)
			return
		}

		user.SpotifyID = me.ID
		user.AccessToken = token.AccessToken
		user.RefreshToken = token.RefreshToken
		user.TokenRefreshDate = time.Now().Add(tunes.TokenLifetime)
	}

	if err := h.userRepo.Create(&user); err != nil {
		h.serviceError(w, err)
		return
	}

	var joined []model.Playlist
	if redeemInvites && user.HasSpotifyCredentials() {
		joined, err = h.tunes.AttachInvites(r.Context(), &user)
		if err != nil {
			h.serviceError(w, err)
			return
		}
	}

	jwt, err := auth.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	logger.Info("user registered",
		logger.Int64("user_id", user.ID),
		logger.String("username", user.Username),
		logger.Bool("spotify_linked", user.SpotifyID != ""))

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"token":            jwt,
		"user":             user,
		"joined_playlists": joined,
	})
}

// LoginHandler handles user login requests. A successful login refreshes a
// stale Spotify credential as a side effect.
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := h.userRepo.FindByUsername(req.Username)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	if user == nil || !auth.VerifyPassword(req.Password, user.PasswordHash) {
		logger.Warn("login rejected", logger.String("username", req.Username))
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	if user.HasSpotifyCredentials() {
		if fresh, err := h.tokens.Fresh(r.Context(), user); err == nil {
			user = fresh
		}
	}

	jwt, err := auth.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	logger.Info("login succeeded", logger.String("username", user.Username))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": jwt,
		"user":  user,
	})
}

// MeHandler returns the authenticated user's own record.
func (h *APIHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// LogoutHandler ends the session. Tokens are stateless, the client simply
// drops its copy.
func (h *APIHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// DeleteAccountHandler removes an account. Users may delete themselves,
// admins may delete anyone.
func (h *APIHandler) DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	targetID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	if targetID != userID {
		role, err := GetRoleFromContext(r.Context())
		if err != nil || role != model.RoleAdmin {
			writeError(w, http.StatusForbidden, "Admin role required")
			return
		}
	}

	if err := h.userRepo.Delete(targetID); err != nil {
		h.serviceError(w, err)
		return
	}

	logger.Info("account deleted",
		logger.Int64("user_id", targetID),
		logger.Int64("deleted_by", userID))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Account deleted"})
}
