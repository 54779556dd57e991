package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mystere-theatre/internal/game"
	"github.com/robalobadob/mystere-theatre/internal/ledger"
	"github.com/robalobadob/mystere-theatre/internal/store"
)

// errBadRequest marks malformed or invalid request payloads.
var errBadRequest = errors.New("invalid request")

func badRequest(err error) error {
	return fmt.Errorf("%w: %v", errBadRequest, err)
}

// httpStatus maps an error to a status code and a stable error code for clients.
func httpStatus(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, game.ErrUnknownStation):
		return http.StatusNotFound, "unknown_station"
	case errors.Is(err, game.ErrPartOutOfRange):
		return http.StatusBadRequest, "part_out_of_range"
	case errors.Is(err, game.ErrSlotOutOfRange):
		return http.StatusBadRequest, "slot_out_of_range"
	case errors.Is(err, game.ErrNotAnswerPart):
		return http.StatusBadRequest, "not_an_answer_part"
	case errors.Is(err, game.ErrSlotLocked):
		return http.StatusConflict, "slot_locked"
	case errors.Is(err, ledger.ErrUnknownClaim):
		return http.StatusNotFound, "unknown_claim"
	case errors.Is(err, ledger.ErrAlreadyRedeemed):
		return http.StatusConflict, "already_redeemed"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, code := httpStatus(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"error": code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
