// internal/httpserver/routes_daily.go
//
// Daily puzzle endpoints:
//   - GET  /daily     → today's date key and puzzle number
//   - POST /daily/new → new session playing today's word
//
// Everyone gets the same word on the same UTC date; it is chosen by
// daily.WordIndex from the answer list and DAILY_SALT. Nothing about the
// result is stored. Playing again on a daily session replays the same
// word, like any fixed-answer session.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-clone/internal/daily"
	"github.com/robalobadob/wordle-clone/internal/game"
	"github.com/robalobadob/wordle-clone/internal/store"
)

type dailyInfo struct {
	Date   string `json:"date"`
	Puzzle int    `json:"puzzle"` // days since daily.Epoch, from 1
}

func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", s.handleDailyInfo)
		r.Post("/new", s.handleDailyNew)
	})
}

// today returns the date key, puzzle number and word of the current puzzle.
func (s *Server) today() (string, int, string) {
	now := s.now()
	return daily.DateKey(now), daily.Number(now), daily.Answer(now, s.cfg.DailySalt, s.words)
}

func (s *Server) handleDailyInfo(w http.ResponseWriter, r *http.Request) {
	date, num, _ := s.today()
	writeJSON(w, http.StatusOK, dailyInfo{Date: date, Puzzle: num})
}

func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	date, num, answer := s.today()
	sess := store.NewSession(game.New([]string{answer}))
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	log.Info().Str("session", sess.ID).Str("date", date).Int("puzzle", num).Msg("daily game")
	s.respondSession(w, sess, newGameRes{Date: date})
}
