// internal/httpserver/session.go
//
// Session tokens.
// A session token is an HS256 JWT carrying the store session ID ("sid").
// It is returned in the JSON body and set as an HttpOnly cookie; requests
// may present it as "Authorization: Bearer <token>", the cookie, or a
// "token" query parameter (for WebSocket clients that cannot set headers).

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/robalobadob/wordle-clone/internal/store"
)

// sessionClaims is the JWT payload.
type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// ctxSessionKey is the context key type for storing *store.Session.
type ctxSessionKey struct{}

var errNoSession = errors.New("no session")

// signToken creates a token for session id valid for TokenTTL.
func (s *Server) signToken(id string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.cfg.TokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		SessionID: id,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

// parseToken verifies a token and returns its session ID.
func (s *Server) parseToken(tok string) (string, error) {
	var claims sessionClaims
	t, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !t.Valid || claims.SessionID == "" {
		return "", errors.New("invalid token")
	}
	return claims.SessionID, nil
}

// lookupSession resolves the request's token to a live session.
func (s *Server) lookupSession(r *http.Request) (*store.Session, error) {
	tok := tokenFrom(r, s.cfg.CookieName)
	if tok == "" {
		return nil, errNoSession
	}
	id, err := s.parseToken(tok)
	if err != nil {
		return nil, err
	}
	return s.store.Get(r.Context(), id)
}

// withSession decorates requests with the caller's session when a valid
// token is present. It never rejects a request.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sess, err := s.lookupSession(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), ctxSessionKey{}, sess))
		}
		next.ServeHTTP(w, r)
	})
}

// requireSession rejects requests without a valid, live session.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.lookupSession(r)
		switch {
		case errors.Is(err, errNoSession):
			writeError(w, http.StatusUnauthorized, "no_session")
			return
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "session_expired")
			return
		case err != nil:
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxSessionKey{}, sess)))
	})
}

// sessionFrom returns the session placed in the context by the middleware.
func sessionFrom(r *http.Request) *store.Session {
	sess, _ := r.Context().Value(ctxSessionKey{}).(*store.Session)
	return sess
}

// setSessionCookie writes the token cookie with appropriate security attributes.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string, exp time.Time) {
	secure := s.cfg.Production()
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// tokenFrom extracts a token from the Authorization header, the cookie,
// or the "token" query parameter, in that order.
func tokenFrom(r *http.Request, cookie string) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(cookie); err == nil && c.Value != "" {
		return c.Value
	}
	return r.URL.Query().Get("token")
}
