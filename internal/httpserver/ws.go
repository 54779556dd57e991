package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mystere-theatre/internal/store"
)

// wsReply is every message the server sends on /session/ws.
type wsReply struct {
	Type  string    `json:"type"` // "state" | "error"
	Error string    `json:"error,omitempty"`
	Event *eventRes `json:"event,omitempty"`
}

// handleWS upgrades to a websocket carrying one event per message, in the
// same shape as the HTTP endpoints: {"action":"input","station":"loges",
// "slot":1,"value":"i"}. Each event gets exactly one reply, in order.
// The final-word field is meant to stream here keystroke by keystroke.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sid, _ := r.Context().Value(ctxSessionKey{}).(string)

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("session", sid).Msg("websocket upgrade")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxBodyBytes)

	// Events on a live socket are not bound to the handshake request.
	ctx := context.WithoutCancel(r.Context())

	if !s.wsApply(ctx, conn, sid, event{Action: actionSnapshot}) {
		return
	}
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("session", sid).Msg("websocket read")
			}
			return
		}
		var ev event
		if err := json.Unmarshal(data, &ev); err != nil {
			if !wsWrite(conn, wsReply{Type: "error", Error: "invalid_request"}) {
				return
			}
			continue
		}
		if !s.wsApply(ctx, conn, sid, ev) {
			return
		}
	}
}

// wsApply runs one event and writes its reply. It returns false when the
// connection should close.
func (s *Server) wsApply(ctx context.Context, conn *websocket.Conn, sid string, ev event) bool {
	res, err := s.applyEvent(ctx, sid, ev)
	if err != nil {
		_, code := httpStatus(err)
		if !wsWrite(conn, wsReply{Type: "error", Error: code}) {
			return false
		}
		return !errors.Is(err, store.ErrNotFound)
	}
	return wsWrite(conn, wsReply{Type: "state", Event: &res})
}

func wsWrite(conn *websocket.Conn, msg wsReply) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteJSON(msg); err != nil {
		log.Warn().Err(err).Msg("websocket write")
		return false
	}
	return true
}

// checkOrigin accepts same-host origins and the configured client origin.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if s.cfg.ClientOrigin != "" && origin == s.cfg.ClientOrigin {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}
