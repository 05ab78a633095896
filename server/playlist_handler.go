package server

import (
	"encoding/json"
	"net/http"

	"teamtune/core/tunes"

	"github.com/gorilla/mux"
)

// ListPlaylistsHandler reconciles the user's remote playlist collection and
// returns the resulting local records.
func (h *APIHandler) ListPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	playlists, err := h.tunes.SyncPlaylists(r.Context(), user)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playlists)
}

// CreatePlaylistHandler creates a playlist remotely and locally.
func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var in tunes.PlaylistInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	p, err := h.tunes.CreatePlaylist(r.Context(), user, in)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// GetPlaylistHandler returns one playlist with its live remote track list.
func (h *APIHandler) GetPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	p, err := h.tunes.GetPlaylist(r.Context(), user, mux.Vars(r)["id"])
	if err != nil {
		h.serviceError(w, err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "Playlist not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdatePlaylistHandler changes a playlist's editable fields.
func (h *APIHandler) UpdatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var in tunes.PlaylistInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	p, err := h.tunes.UpdatePlaylist(r.Context(), user, mux.Vars(r)["id"], in)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeletePlaylistHandler drops the playlist locally and remotely.
func (h *APIHandler) DeletePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.tunes.DeletePlaylist(r.Context(), user, mux.Vars(r)["id"]); err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Playlist deleted"})
}

// CopyPlaylistHandler duplicates a playlist into the user's account.
func (h *APIHandler) CopyPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	p, err := h.tunes.CopyPlaylist(r.Context(), user, mux.Vars(r)["id"])
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// FollowPlaylistHandler adds the playlist to the user's Spotify library.
func (h *APIHandler) FollowPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.tunes.FollowPlaylist(r.Context(), user, mux.Vars(r)["id"]); err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Playlist followed"})
}

// UnfollowPlaylistHandler removes the playlist from the user's library.
func (h *APIHandler) UnfollowPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.tunes.UnfollowPlaylist(r.Context(), user, mux.Vars(r)["id"]); err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Playlist unfollowed"})
}

// AddTrackHandler appends a track to the playlist.
func (h *APIHandler) AddTrackHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		TrackID string `json:"track_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TrackID == "" {
		writeError(w, http.StatusBadRequest, "track_id is required")
		return
	}

	if err := h.tunes.AddTrack(r.Context(), user, mux.Vars(r)["id"], req.TrackID); err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Track added"})
}

// RemoveTrackHandler removes a track from the playlist.
func (h *APIHandler) RemoveTrackHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	vars := mux.Vars(r)
	if err := h.tunes.RemoveTrack(r.Context(), user, vars["id"], vars["trackID"]); err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Track removed"})
}

// FillPlaylistHandler grows the playlist toward its duration target with
// recommended tracks.
func (h *APIHandler) FillPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	report, err := h.tunes.FillPlaylist(r.Context(), user, mux.Vars(r)["id"])
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// InviteHandler records an invitation of a username to the playlist.
func (h *APIHandler) InviteHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	inv, err := h.tunes.InviteUser(r.Context(), user, mux.Vars(r)["id"], req.Username)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

// PublicPlaylistHandler serves a shared playlist by its public identifier.
// No authentication, the owner's credential drives the remote lookup.
func (h *APIHandler) PublicPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	p, err := h.tunes.PublicPlaylist(r.Context(), mux.Vars(r)["publicID"])
	if err != nil {
		h.serviceError(w, err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "Playlist not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PlayPlaylistHandler starts playback of the playlist on the user's active
// device.
func (h *APIHandler) PlayPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.tunes.StartPlayback(r.Context(), user, mux.Vars(r)["id"]); err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Playback started"})
}
