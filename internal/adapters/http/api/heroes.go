package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/okian/herofan/internal/domain/catalog"
)

// HeroesHandler serves the battle roster.
type HeroesHandler struct {
	deps HeroDependencies
}

// NewHeroesHandler creates a new heroes handler.
func NewHeroesHandler(deps HeroDependencies) *HeroesHandler {
	return &HeroesHandler{deps: deps}
}

// HandleList handles GET /api/heroes.
func (h *HeroesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	roster, err := h.deps.Roster(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

// HandleGet handles GET /api/heroes/{id}.
func (h *HeroesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_hero"
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	hero, err := h.deps.Hero(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, hero)
}
