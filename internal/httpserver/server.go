// internal/httpserver/server.go
//
// HTTP server wiring for the scavenger-hunt backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/catalog".
//   - Session endpoints (signed session cookie): /session/*.
//   - Live channel: GET /session/ws (see ws.go).
//   - Reception desk endpoints (staff password): mounted under /desk (see routes_desk.go).
//
// Notes:
//   - Every gameplay event goes through applyEvent, which runs it to completion
//     inside store.Update. HTTP and websocket share that path.
//   - A session token is an HS256 JWT carrying the session ID. It is set as an
//     HttpOnly cookie and also returned in the body for non-browser clients.
//   - Wins are written to the ledger best effort: a ledger failure never
//     blocks the win banner.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mystere-theatre/internal/catalog"
	"github.com/robalobadob/mystere-theatre/internal/game"
	"github.com/robalobadob/mystere-theatre/internal/ledger"
	"github.com/robalobadob/mystere-theatre/internal/store"
)

const sessionCookieName = "theatre_session"

// Config carries the settings the HTTP layer needs. main fills it from env/flags.
type Config struct {
	SessionSecret     string
	SessionTTL        time.Duration
	ClaimSalt         string
	StaffPasswordHash string // bcrypt; empty disables /desk
	ClientOrigin      string
	Production        bool
}

// Server bundles router, venue, session store and win ledger.
type Server struct {
	r     *chi.Mux
	cfg   Config
	venue *catalog.Venue
	store store.Store
	wins  *ledger.Store // nil disables win recording and /desk
}

var validate = validator.New()

// New constructs a Server, installs middleware, and registers routes.
func New(cfg Config, venue *catalog.Venue, st store.Store, wins *ledger.Store) *Server {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 12 * time.Hour
	}
	s := &Server{r: chi.NewRouter(), cfg: cfg, venue: venue, store: st, wins: wins}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(accessLog)
	s.r.Use(chimw.Recoverer)
	s.r.Use(jsonContentType)
	s.r.Use(cors(cfg.ClientOrigin))
	s.r.Use(limitBody(maxBodyBytes))

	// The websocket outlives any request timeout, so it sits outside the group.
	s.r.With(s.requireSession()).Get("/session/ws", s.handleWS)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"service":   "mystere-theatre",
				"endpoints": []string{"/health", "/catalog", "POST /session/new", "/session/*", "/desk/*"},
			})
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})
		r.Get("/catalog", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, s.venue)
		})

		r.Post("/session/new", s.handleNewSession)
		r.Group(func(r chi.Router) {
			r.Use(s.requireSession())
			r.Get("/session", s.handleSnapshot)
			r.Post("/session/stations/{stationID}/input", s.handleInput)
			r.Post("/session/stations/{stationID}/submit", s.handleSubmit)
			r.Post("/session/final-word", s.handleFinalWord)
		})

		s.mountDesk(r)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Run serves HTTP on addr until ctx is cancelled, sweeping expired sessions
// in the background.
func (s *Server) Run(ctx context.Context, addr string) error {
	hs := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}

	go s.sweepLoop(ctx, 10*time.Minute)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = hs.Shutdown(shutdownCtx)
	}()

	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) sweepLoop(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.store.Sweep(ctx, now.Add(-s.cfg.SessionTTL)); n > 0 {
				log.Info().Int("swept", n).Int("live", s.store.Len()).Msg("expired sessions removed")
			}
		}
	}
}

// ------------------------------ SESSION ------------------------------------

// newSessionRes is returned by POST /session/new.
type newSessionRes struct {
	Token   string        `json:"token"`
	Session game.Snapshot `json:"session"`
}

// handleNewSession starts a play-through and issues its session cookie.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	g := game.New(s.venue)
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, err)
		return
	}
	tok, exp, err := s.signSession(g.ID)
	if err != nil {
		log.Error().Err(err).Msg("sign session")
		writeError(w, err)
		return
	}
	s.setSessionCookie(w, tok, exp)
	log.Info().Str("session", g.ID).Msg("session started")
	writeJSON(w, http.StatusCreated, newSessionRes{Token: tok, Session: g.Snapshot()})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s.serveEvent(w, r, event{Action: actionSnapshot})
}

// inputReq is the body of POST /session/stations/{stationID}/input.
type inputReq struct {
	Part  int    `json:"part"`
	Slot  int    `json:"slot"`
	Value string `json:"value"`
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	var req inputReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, badRequest(err))
		return
	}
	value := req.Value
	s.serveEvent(w, r, event{
		Action:  actionInput,
		Station: chi.URLParam(r, "stationID"),
		Part:    req.Part,
		Slot:    req.Slot,
		Value:   &value,
	})
}

// submitReq is the body of POST /session/stations/{stationID}/submit.
// Value, when present, is typed into the part before checking it.
type submitReq struct {
	Part  int     `json:"part"`
	Value *string `json:"value"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitReq
	// An empty body submits part 0 with its current input.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, badRequest(err))
		return
	}
	s.serveEvent(w, r, event{
		Action:  actionSubmit,
		Station: chi.URLParam(r, "stationID"),
		Part:    req.Part,
		Value:   req.Value,
	})
}

// finalWordReq is the body of POST /session/final-word.
type finalWordReq struct {
	Value string `json:"value"`
}

func (s *Server) handleFinalWord(w http.ResponseWriter, r *http.Request) {
	var req finalWordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, badRequest(err))
		return
	}
	value := req.Value
	s.serveEvent(w, r, event{Action: actionFinalWord, Value: &value})
}

func (s *Server) serveEvent(w http.ResponseWriter, r *http.Request, ev event) {
	sid, _ := r.Context().Value(ctxSessionKey{}).(string)
	res, err := s.applyEvent(r.Context(), sid, ev)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ------------------------------- EVENTS ------------------------------------

const (
	actionSnapshot  = "snapshot"
	actionInput     = "input"
	actionSubmit    = "submit"
	actionFinalWord = "final_word"
)

// event is one discrete user action, from HTTP or the websocket.
type event struct {
	Action  string  `json:"action" validate:"required,oneof=snapshot input submit final_word"`
	Station string  `json:"station"`
	Part    int     `json:"part" validate:"gte=0"`
	Slot    int     `json:"slot" validate:"gte=0"`
	Value   *string `json:"value"`
}

// eventRes is the reply to every event.
type eventRes struct {
	Result    *game.SubmitResult `json:"result,omitempty"`
	Celebrate bool               `json:"celebrate"` // true only for the winning keystroke
	Session   game.Snapshot      `json:"session"`
}

// applyEvent validates ev and runs it against session sid as one event turn.
func (s *Server) applyEvent(ctx context.Context, sid string, ev event) (eventRes, error) {
	if err := validate.Struct(ev); err != nil {
		return eventRes{}, badRequest(err)
	}
	if (ev.Action == actionInput || ev.Action == actionSubmit) && ev.Station == "" {
		return eventRes{}, badRequest(errors.New("station is required"))
	}

	var (
		res eventRes
		won *ledger.Win
	)
	err := s.store.Update(ctx, sid, func(g *game.Session) error {
		switch ev.Action {
		case actionInput:
			if err := g.Input(ev.Station, ev.Part, ev.Slot, deref(ev.Value)); err != nil {
				return err
			}
		case actionSubmit:
			var (
				r   game.SubmitResult
				err error
			)
			if ev.Value != nil {
				r, err = g.SubmitAnswer(ev.Station, ev.Part, *ev.Value)
			} else {
				r, err = g.Submit(ev.Station, ev.Part)
			}
			if err != nil {
				return err
			}
			logSubmit(g.ID, ev, r)
			res.Result = &r
		case actionFinalWord:
			if g.TypeFinalWord(deref(ev.Value)) {
				g.ClaimCode = ledger.ClaimCode(s.cfg.ClaimSalt, g.ID)
				won = &ledger.Win{SessionID: g.ID, ClaimCode: g.ClaimCode, Letters: g.Letters(), WonAt: g.WonAt}
				res.Celebrate = true
			}
		}
		res.Session = g.Snapshot()
		return nil
	})
	if err != nil {
		return eventRes{}, err
	}

	if won != nil {
		log.Info().Str("session", won.SessionID).Str("claim", won.ClaimCode).
			Strs("letters", won.Letters).Msg("final word found")
		s.recordWin(ctx, *won)
	}
	return res, nil
}

func logSubmit(sid string, ev event, r game.SubmitResult) {
	switch {
	case len(r.Awarded) > 0:
		log.Info().Str("session", sid).Str("station", ev.Station).Int("part", ev.Part).
			Strs("letters", r.Awarded).Msg("letters awarded")
	case r.Mismatch:
		log.Debug().Str("session", sid).Str("station", ev.Station).Int("part", ev.Part).Msg("wrong answer")
	}
}

// recordWin writes the win to the ledger; failures are logged, not returned.
func (s *Server) recordWin(ctx context.Context, w ledger.Win) {
	if s.wins == nil {
		return
	}
	// The websocket path has no request deadline; bound the write here.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.wins.RecordWin(ctx, w); err != nil {
		log.Warn().Err(err).Str("session", w.SessionID).Msg("record win")
	}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// ------------------------------ JWT & cookies ------------------------------

// signSession creates an HS256 JWT carrying the session ID.
func (s *Server) signSession(id string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.cfg.SessionTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": id,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.SessionSecret))
	return ss, exp, err
}

// parseSession verifies a session token and returns its session ID.
func (s *Server) parseSession(tok string) (string, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.SessionSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return "", fmt.Errorf("invalid session token: %w", err)
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", errors.New("invalid session token: no sid")
	}
	return sid, nil
}

// setSessionCookie writes the session cookie with appropriate security attributes.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.cfg.Production {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// sessionToken extracts a token from the Authorization header, the session
// cookie, or the "token" query parameter (browsers cannot set headers on a
// websocket handshake).
func sessionToken(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return r.URL.Query().Get("token")
}

// ctxSessionKey is the context key for the session ID.
type ctxSessionKey struct{}

// requireSession enforces a valid session token and injects the session ID.
func (s *Server) requireSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := sessionToken(r)
			if tok == "" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no_session"})
				return
			}
			sid, err := s.parseSession(tok)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_session"})
				return
			}
			ctx := context.WithValue(r.Context(), ctxSessionKey{}, sid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
