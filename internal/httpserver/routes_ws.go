// internal/httpserver/routes_ws.go
//
// WebSocket push channel for one session.
//
//   client → server  {"key":"A"} | {"key":"enter"} | {"key":"backspace"} | {"key":"new"}
//   server → client  {"type":"state","view":{...}}
//                    {"type":"outcome","outcome":{...}}
//                    {"type":"error","error":"not_enough_letters"}
//
// A state frame is sent on connect and after every engine change, driven by
// an engine observer. Several connections may watch the same session.
// Each connection has a single writer goroutine; the reader loop is the
// request goroutine.

package httpserver

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-clone/internal/game"
)

// wsFrame is the format for all server → client messages.
type wsFrame struct {
	Type    string        `json:"type"`
	View    *game.View    `json:"view,omitempty"`
	Outcome *game.Outcome `json:"outcome,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// wsInput is the format for client → server messages.
type wsInput struct {
	Key string `json:"key"`
}

const wsBuffer = 32

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{CheckOrigin: s.checkOrigin}
}

// checkOrigin allows same-host requests, the configured client origin,
// and non-browser clients that send no Origin header.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || origin == s.cfg.ClientOrigin {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && strings.EqualFold(u.Host, r.Host)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	out := make(chan wsFrame, wsBuffer)
	send := func(f wsFrame) {
		select {
		case out <- f:
		default:
			log.Warn().Str("session", sess.ID).Str("type", f.Type).Msg("websocket buffer full, dropping frame")
		}
	}

	var cancel func()
	sess.Do(func(e *game.Engine) {
		cancel = e.Observe(func(v game.View) { send(wsFrame{Type: "state", View: &v}) })
		v := e.View()
		send(wsFrame{Type: "state", View: &v})
	})

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for f := range out {
			if err := conn.WriteJSON(f); err != nil {
				log.Debug().Err(err).Msg("websocket write")
				// Unblock the reader so the connection is torn down.
				_ = conn.Close()
				for range out {
				}
				return
			}
		}
	}()

	log.Info().Str("session", sess.ID).Msg("websocket connected")
	s.readWS(conn, sess.ID, func(in wsInput) {
		if strings.EqualFold(in.Key, "new") {
			sess.Do(func(e *game.Engine) { e.Initialize() })
			return
		}
		key, ok := game.ParseKey(in.Key)
		if !ok {
			send(wsFrame{Type: "error", Error: "invalid_key"})
			return
		}
		var (
			outc game.Outcome
			err  error
		)
		sess.Do(func(e *game.Engine) { outc, err = e.HandleInput(key) })
		switch {
		case errors.Is(err, game.ErrIncompleteGuess):
			send(wsFrame{Type: "error", Error: "not_enough_letters"})
		case err != nil:
			send(wsFrame{Type: "error", Error: "input_failed"})
		case outc.Kind != game.OutcomeNone:
			send(wsFrame{Type: "outcome", Outcome: &outc})
		}
	})

	// No more sends after the observer is removed under the session lock.
	sess.Do(func(*game.Engine) { cancel() })
	close(out)
	<-writerDone
	log.Info().Str("session", sess.ID).Msg("websocket closed")
}

// readWS decodes client frames until the connection fails or closes.
func (s *Server) readWS(conn *websocket.Conn, sessionID string, handle func(wsInput)) {
	for {
		var in wsInput
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Str("session", sessionID).Msg("websocket read")
			}
			return
		}
		handle(in)
	}
}
