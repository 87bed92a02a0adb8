// internal/httpserver/routes_admin.go
//
// Operator endpoints, used for manual testing against a known answer:
//   - POST /admin/game/new  {answer} → new session whose answer is fixed
//   - GET  /admin/sessions           → live session count
//
// Requests must carry X-Operator-Key; it is checked with bcrypt against
// the configured OperatorKeyHash. With no hash configured the routes 404.

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/wordle-clone/internal/game"
	"github.com/robalobadob/wordle-clone/internal/store"
	"github.com/robalobadob/wordle-clone/internal/words"
)

type adminNewReq struct {
	Answer string `json:"answer"`
}

func (s *Server) mountAdmin(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireOperator)
		r.Post("/game/new", s.handleAdminNewGame)
		r.Get("/sessions", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]int{"sessions": s.store.Len()})
		})
	})
}

// requireOperator enforces a valid X-Operator-Key.
func (s *Server) requireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.OperatorKeyHash == "" {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		key := r.Header.Get("X-Operator-Key")
		if key == "" || bcrypt.CompareHashAndPassword([]byte(s.cfg.OperatorKeyHash), []byte(key)) != nil {
			log.Warn().Str("remote", r.RemoteAddr).Msg("rejected operator key")
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleAdminNewGame starts a session that always plays req.Answer,
// including after "play again".
func (s *Server) handleAdminNewGame(w http.ResponseWriter, r *http.Request) {
	var req adminNewReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	answer, ok := words.Normalize(req.Answer)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_answer")
		return
	}
	sess := store.NewSession(game.New([]string{answer}))
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	log.Info().Str("session", sess.ID).Msg("operator game")
	s.respondSession(w, sess, newGameRes{Answer: answer})
}
