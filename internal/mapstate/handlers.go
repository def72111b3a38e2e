package mapstate

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/broconnector/gmw-map/internal/utils"
)

type Handler struct {
	Store Store
}

// SaveState stores the posted {ids, lon, lat, zoom, checkboxes} for the
// logged-in user.
func (h *Handler) SaveState(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var state ViewState
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		http.Error(w, "Invalid view state", http.StatusBadRequest)
		return
	}

	if err := h.Store.Save(r.Context(), userID, &state); err != nil {
		log.Printf("[mapstate] %v", err)
		http.Error(w, "Failed to save view state: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	state, err := h.Store.Find(r.Context(), userID)
	if errors.Is(err, ErrNoState) {
		http.Error(w, "No saved view state", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to load view state: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(state)
}
