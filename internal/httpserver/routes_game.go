// internal/httpserver/routes_game.go
//
// Game endpoints:
//   - POST /game/new   → start a game, or restart the caller's ("play again")
//   - GET  /game       → current view
//   - POST /game/input → one key: a letter, "enter" or "backspace"
//   - POST /game/guess → same as the enter key
//
// Every response carries the engine's read-only View. The answer only
// appears in it once the game is over.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-clone/internal/game"
	"github.com/robalobadob/wordle-clone/internal/store"
)

func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.With(s.withSession).Post("/new", s.handleNewGame)
		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Get("/", s.handleGetGame)
			r.Post("/input", s.handleInput)
			r.Post("/guess", s.handleGuess)
		})
	})
}

// newGameRes is returned by /game/new, /daily/new and /admin/game/new.
type newGameRes struct {
	Token     string    `json:"token"`
	SessionID string    `json:"sessionId"`
	View      game.View `json:"view"`
	Answer    string    `json:"answer,omitempty"` // operator games only
	Date      string    `json:"date,omitempty"`   // daily games only
}

// inputReq is the payload of /game/input.
type inputReq struct {
	Key string `json:"key"`
}

// inputRes is returned by /game/input and /game/guess.
type inputRes struct {
	View    game.View    `json:"view"`
	Outcome game.Outcome `json:"outcome"`
	Error   string       `json:"error,omitempty"`
}

// handleNewGame re-initializes the caller's session when one exists,
// otherwise creates a session with a fresh engine.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if sess != nil {
		sess.Do(func(e *game.Engine) { e.Initialize() })
		log.Debug().Str("session", sess.ID).Msg("play again")
	} else {
		sess = store.NewSession(game.New(s.words))
		if err := s.store.Save(r.Context(), sess); err != nil {
			log.Error().Err(err).Msg("save session")
			writeError(w, http.StatusInternalServerError, "save_failed")
			return
		}
		log.Info().Str("session", sess.ID).Msg("new game")
	}
	s.respondSession(w, sess, newGameRes{})
}

// respondSession signs a token for sess and writes res with the token,
// session id and current view filled in.
func (s *Server) respondSession(w http.ResponseWriter, sess *store.Session, res newGameRes) {
	tok, exp, err := s.signToken(sess.ID)
	if err != nil {
		log.Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setSessionCookie(w, tok, exp)

	res.Token, res.SessionID = tok, sess.ID
	sess.Do(func(e *game.Engine) { res.View = e.View() })
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	var v game.View
	sessionFrom(r).Do(func(e *game.Engine) { v = e.View() })
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	var req inputReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	in, ok := game.ParseKey(req.Key)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_key")
		return
	}
	s.apply(w, sessionFrom(r), in)
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	s.apply(w, sessionFrom(r), game.EnterInput)
}

// apply runs one input against the session and writes the result.
// An incomplete guess is reported as 422 with the unchanged view.
func (s *Server) apply(w http.ResponseWriter, sess *store.Session, in game.Input) {
	var (
		res inputRes
		err error
	)
	sess.Do(func(e *game.Engine) {
		res.Outcome, err = e.HandleInput(in)
		res.View = e.View()
	})
	if errors.Is(err, game.ErrIncompleteGuess) {
		res.Error = "not_enough_letters"
		writeJSON(w, http.StatusUnprocessableEntity, res)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("session", sess.ID).Msg("apply input")
		writeError(w, http.StatusInternalServerError, "input_failed")
		return
	}
	if res.Outcome.Kind == game.OutcomeWon || res.Outcome.Kind == game.OutcomeLost {
		log.Info().Str("session", sess.ID).Str("outcome", string(res.Outcome.Kind)).Int("attempts", res.Outcome.Attempts).Msg("game over")
	}
	writeJSON(w, http.StatusOK, res)
}
