package server

import (
	"net/http"
	"strings"
)

// SearchTracksHandler runs a catalog track search, enriched with audio
// features where the catalog has them.
func (h *APIHandler) SearchTracksHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}

	songs, err := h.tunes.SearchTracks(r.Context(), user, query)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}
