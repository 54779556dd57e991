// internal/httpserver/routes_desk.go
//
// HTTP routes for the reception desk. Winners show their banner and claim
// code; staff redeem the code once per win (one wheel spin).
//   - POST /desk/redeem → mark a claim code as used
//   - GET  /desk/wins   → wins of today (or ?date=YYYY-MM-DD)
//
// All routes require the staff password. They are not mounted when no ledger
// or no password hash is configured.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mystere-theatre/internal/ledger"
)

// deskServer wraps dependencies for /desk endpoints.
type deskServer struct {
	wins *ledger.Store
	now  func() time.Time
}

// mountDesk registers all /desk routes.
func (s *Server) mountDesk(r chi.Router) {
	if s.wins == nil || s.cfg.StaffPasswordHash == "" {
		log.Warn().Msg("desk routes disabled: no ledger or staff password")
		return
	}
	d := &deskServer{wins: s.wins, now: time.Now}
	r.Route("/desk", func(r chi.Router) {
		r.Use(s.requireStaff)
		r.Post("/redeem", d.handleRedeem)
		r.Get("/wins", d.handleWins)
	})
}

// redeemReq is the body of POST /desk/redeem.
type redeemReq struct {
	ClaimCode string `json:"claimCode" validate:"required,min=4,max=16,alphanum"`
}

// handleRedeem marks a claim as used. A second redeem answers 409 with the
// first redemption so staff can see when the wheel was already spun.
func (d *deskServer) handleRedeem(w http.ResponseWriter, r *http.Request) {
	var req redeemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, badRequest(err))
		return
	}
	req.ClaimCode = ledger.NormalizeCode(req.ClaimCode)
	if err := validate.Struct(req); err != nil {
		writeError(w, badRequest(err))
		return
	}

	win, err := d.wins.Redeem(r.Context(), req.ClaimCode, d.now())
	if errors.Is(err, ledger.ErrAlreadyRedeemed) {
		writeJSON(w, http.StatusConflict, map[string]any{"error": "already_redeemed", "win": win})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	log.Info().Str("claim", win.ClaimCode).Str("session", win.SessionID).Msg("claim redeemed")
	writeJSON(w, http.StatusOK, win)
}

// winsRes is returned by /desk/wins.
type winsRes struct {
	Date string       `json:"date"`
	Wins []ledger.Win `json:"wins"`
}

// handleWins lists the wins for the given date (default today, UTC).
func (d *deskServer) handleWins(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = ledger.DateKey(d.now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, badRequest(err))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	wins, err := d.wins.Wins(r.Context(), date, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, winsRes{Date: date, Wins: wins})
}
