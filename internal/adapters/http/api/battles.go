package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/herofan/internal/domain/battle"
	"github.com/okian/herofan/internal/domain/catalog"
	"github.com/okian/herofan/internal/domain/model"
)

// battleRequest mirrors the OpenAPI schema for POST /api/battles.
type battleRequest struct {
	ChallengerID int `json:"challenger_id"`
	OpponentID   int `json:"opponent_id"`
}

func (b battleRequest) validate() error {
	switch {
	case b.ChallengerID <= 0:
		return errors.New("missing challenger_id")
	case b.OpponentID <= 0:
		return errors.New("missing opponent_id")
	case b.ChallengerID == b.OpponentID:
		return errors.New("challenger and opponent must differ")
	}
	return nil
}

type battleResponse struct {
	BattleID      string              `json:"battle_id"`
	Outcome       model.BattleOutcome `json:"outcome"`
	RevealAfterMS int64               `json:"reveal_after_ms"`
}

// BattlesHandler resolves one-shot battles.
type BattlesHandler struct {
	deps BattleDependencies
}

// NewBattlesHandler creates a new battles handler.
func NewBattlesHandler(deps BattleDependencies) *BattlesHandler {
	return &BattlesHandler{deps: deps}
}

// HandlePostBattle handles POST /api/battles. The outcome is returned at once
// with the delay the client should wait before revealing it.
func (h *BattlesHandler) HandlePostBattle(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_battle"
	var req battleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	id, out, err := h.deps.Battle(r.Context(), req.ChallengerID, req.OpponentID)
	switch {
	case err == nil:
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
		return
	case errors.Is(err, battle.ErrInvalidProfile):
		writeError(w, http.StatusUnprocessableEntity, "invalid_profile", WrapKind(op, ErrUnprocessable, err))
		return
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, battleResponse{
		BattleID:      id,
		Outcome:       out,
		RevealAfterMS: h.deps.RevealDelay().Milliseconds(),
	})
}
