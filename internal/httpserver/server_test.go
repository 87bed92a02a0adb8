package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/wordle-clone/internal/config"
	"github.com/robalobadob/wordle-clone/internal/daily"
	"github.com/robalobadob/wordle-clone/internal/store"
)

const operatorKey = "let-me-in"

// viewJSON mirrors the wire shape of game.View.
type viewJSON struct {
	Board [][]struct {
		Letter string `json:"letter"`
		Status string `json:"status"`
	} `json:"board"`
	Cursor struct {
		Row int `json:"row"`
		Col int `json:"col"`
	} `json:"cursor"`
	Keyboard map[string]string `json:"keyboard"`
	State    string            `json:"state"`
	Attempts int               `json:"attempts"`
	Answer   string            `json:"answer"`
}

type newGameJSON struct {
	Token     string   `json:"token"`
	SessionID string   `json:"sessionId"`
	View      viewJSON `json:"view"`
	Answer    string   `json:"answer"`
	Date      string   `json:"date"`
}

type inputJSON struct {
	View    viewJSON `json:"view"`
	Outcome struct {
		Kind     string   `json:"kind"`
		Attempts int      `json:"attempts"`
		Answer   string   `json:"answer"`
		Marks    []string `json:"marks"`
	} `json:"outcome"`
	Error string `json:"error"`
}

type testServer struct {
	*Server
	store store.Store
}

func newTestServer(t *testing.T, answers ...string) *testServer {
	t.Helper()
	if len(answers) == 0 {
		answers = []string{"REACT"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(operatorKey), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.OperatorKeyHash = string(hash)
	st := store.NewMemoryStore()
	return &testServer{Server: New(cfg, st, answers), store: st}
}

func (ts *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.Router().ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) newGame(t *testing.T) newGameJSON {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/game/new", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res newGameJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func (ts *testServer) press(t *testing.T, token, key string) (int, inputJSON) {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/game/input", token, `{"key":"`+key+`"}`)
	var res inputJSON
	_ = json.Unmarshal(rec.Body.Bytes(), &res)
	return rec.Code, res
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestNotFoundIsJSON(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not_found"}`, rec.Body.String())
}

func TestNewGame(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/game/new", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res newGameJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.Token)
	assert.NotEmpty(t, res.SessionID)
	assert.Equal(t, "playing", res.View.State)
	assert.Empty(t, res.View.Answer, "answer hidden while playing")
	assert.Empty(t, res.Answer)
	require.Len(t, res.View.Board, 6)
	for _, row := range res.View.Board {
		require.Len(t, row, 5)
		for _, cell := range row {
			assert.Equal(t, "", cell.Letter)
			assert.Equal(t, "empty", cell.Status)
		}
	}
	assert.Len(t, res.View.Keyboard, 26)
	assert.Equal(t, "unused", res.View.Keyboard["Q"])

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "wordle_session", cookies[0].Name)
	assert.Equal(t, res.Token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 1, ts.store.Len())
}

func TestGame_RequiresSession(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/game", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/game/input", "garbage", `{"key":"A"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGame_ExpiredSession(t *testing.T) {
	ts := newTestServer(t)
	g := ts.newGame(t)
	require.NoError(t, ts.store.Delete(context.Background(), g.SessionID))

	rec := ts.do(t, http.MethodGet, "/game", g.Token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGame_TokenSignedWithOtherSecret(t *testing.T) {
	ts := newTestServer(t)
	g := ts.newGame(t)

	cfg := config.Default()
	cfg.JWTSecret = "another-secret"
	other := New(cfg, ts.store, []string{"REACT"})

	req := httptest.NewRequest(http.MethodGet, "/game", nil)
	req.Header.Set("Authorization", "Bearer "+g.Token)
	rec := httptest.NewRecorder()
	other.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGame_CookieAuth(t *testing.T) {
	ts := newTestServer(t)
	g := ts.newGame(t)

	req := httptest.NewRequest(http.MethodGet, "/game", nil)
	req.AddCookie(&http.Cookie{Name: "wordle_session", Value: g.Token})
	rec := httptest.NewRecorder()
	ts.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGame_PlayToWin(t *testing.T) {
	ts := newTestServer(t, "REACT")
	g := ts.newGame(t)

	for _, k := range []string{"r", "e", "a", "c", "t"} {
		code, res := ts.press(t, g.Token, k)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "none", res.Outcome.Kind)
	}

	code, res := ts.press(t, g.Token, "enter")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "won", res.Outcome.Kind)
	assert.Equal(t, 1, res.Outcome.Attempts)
	assert.Equal(t, []string{"correct", "correct", "correct", "correct", "correct"}, res.Outcome.Marks)
	assert.Equal(t, "won", res.View.State)
	assert.Equal(t, "REACT", res.View.Answer)
	assert.Equal(t, "correct", res.View.Keyboard["R"])

	// Terminal: further input is ignored.
	code, res = ts.press(t, g.Token, "a")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "won", res.View.State)
	assert.Equal(t, 5, res.View.Cursor.Col)
}

func TestGame_IncompleteGuess(t *testing.T) {
	ts := newTestServer(t)
	g := ts.newGame(t)
	ts.press(t, g.Token, "R")

	rec := ts.do(t, http.MethodPost, "/game/guess", g.Token, "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var res inputJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "not_enough_letters", res.Error)
	assert.Equal(t, 0, res.View.Cursor.Row)
	assert.Equal(t, 1, res.View.Cursor.Col)
	assert.Equal(t, "playing", res.View.State)
}

func TestGame_BadInput(t *testing.T) {
	ts := newTestServer(t)
	g := ts.newGame(t)

	code, _ := ts.press(t, g.Token, "1")
	assert.Equal(t, http.StatusBadRequest, code)

	rec := ts.do(t, http.MethodPost, "/game/input", g.Token, `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGame_Lose(t *testing.T) {
	ts := newTestServer(t, "HOUSE")
	g := ts.newGame(t)

	var res inputJSON
	for i := 0; i < 6; i++ {
		for _, k := range "WRONG" {
			ts.press(t, g.Token, string(k))
		}
		var code int
		code, res = ts.press(t, g.Token, "enter")
		require.Equal(t, http.StatusOK, code)
	}
	assert.Equal(t, "lost", res.Outcome.Kind)
	assert.Equal(t, "HOUSE", res.Outcome.Answer)
	assert.Equal(t, "lost", res.View.State)
}

func TestGame_PlayAgainKeepsSession(t *testing.T) {
	ts := newTestServer(t)
	g := ts.newGame(t)
	ts.press(t, g.Token, "A")

	rec := ts.do(t, http.MethodPost, "/game/new", g.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var again newGameJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &again))

	assert.Equal(t, g.SessionID, again.SessionID)
	assert.Equal(t, 0, again.View.Cursor.Col)
	assert.Equal(t, 1, ts.store.Len())
}

func TestAdmin_DisabledWithoutHash(t *testing.T) {
	cfg := config.Default()
	s := New(cfg, store.NewMemoryStore(), []string{"REACT"})

	req := httptest.NewRequest(http.MethodPost, "/admin/game/new", strings.NewReader(`{"answer":"HOUSE"}`))
	req.Header.Set("X-Operator-Key", operatorKey)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdmin_NewGameWithFixedAnswer(t *testing.T) {
	ts := newTestServer(t)

	post := func(key, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/admin/game/new", strings.NewReader(body))
		if key != "" {
			req.Header.Set("X-Operator-Key", key)
		}
		rec := httptest.NewRecorder()
		ts.Router().ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, post("", `{"answer":"house"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, post("wrong", `{"answer":"house"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(operatorKey, `{"answer":"houses"}`).Code)

	rec := post(operatorKey, `{"answer":"house"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var g newGameJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
	assert.Equal(t, "HOUSE", g.Answer)

	for _, k := range "HOUSE" {
		ts.press(t, g.Token, string(k))
	}
	_, res := ts.press(t, g.Token, "enter")
	assert.Equal(t, "won", res.Outcome.Kind)

	req := httptest.NewRequest(http.MethodGet, "/admin/sessions", nil)
	req.Header.Set("X-Operator-Key", operatorKey)
	rec = httptest.NewRecorder()
	ts.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sessions":1}`, rec.Body.String())
}

func TestDaily_SameWordForEveryone(t *testing.T) {
	list := []string{"REACT", "CRANE", "WORLD", "HOUSE", "PLANT"}
	ts := newTestServer(t, list...)
	day := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ts.now = func() time.Time { return day }
	want := daily.Answer(day, ts.cfg.DailySalt, list)

	rec := ts.do(t, http.MethodGet, "/daily", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var info struct {
		Date   string `json:"date"`
		Puzzle int    `json:"puzzle"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "2025-06-01", info.Date)
	assert.Equal(t, 152, info.Puzzle)
	assert.NotContains(t, rec.Body.String(), want)

	for i := 0; i < 2; i++ {
		rec := ts.do(t, http.MethodPost, "/daily/new", "", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var g newGameJSON
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
		assert.Equal(t, "2025-06-01", g.Date)
		assert.Empty(t, g.Answer, "daily answer is not revealed")
		assert.Equal(t, "playing", g.View.State)

		for _, k := range want {
			ts.press(t, g.Token, string(k))
		}
		_, res := ts.press(t, g.Token, "enter")
		assert.Equal(t, "won", res.Outcome.Kind)
		assert.Equal(t, 1, res.Outcome.Attempts)
	}
	assert.Equal(t, 2, ts.store.Len())
}

func TestDaily_PuzzleNumberIndependentOfWordList(t *testing.T) {
	day := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	lists := [][]string{
		{"REACT", "CRANE", "WORLD", "HOUSE", "PLANT"},
		{"PLANT", "HOUSE", "WORLD", "CRANE", "REACT"},
		{"WORLD"},
	}
	var numbers []int
	for _, list := range lists {
		ts := newTestServer(t, list...)
		ts.now = func() time.Time { return day }
		rec := ts.do(t, http.MethodGet, "/daily", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var info struct {
			Puzzle int `json:"puzzle"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
		numbers = append(numbers, info.Puzzle)
	}
	// Same number whatever the list order or answer, so it cannot be used
	// to look the word up.
	assert.Equal(t, []int{152, 152, 152}, numbers)
}

func TestSweepRemovesIdleSessions(t *testing.T) {
	ts := newTestServer(t)
	ts.cfg.SessionTTL = time.Millisecond
	ts.newGame(t)
	require.Equal(t, 1, ts.store.Len())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.Sleep(5 * time.Millisecond)
	go ts.sweep(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool { return ts.store.Len() == 0 }, time.Second, 5*time.Millisecond)
}

// ---------------------------------------------------------------- websocket

func dialWS(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/game/ws?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

type wsFrameJSON struct {
	Type    string    `json:"type"`
	View    *viewJSON `json:"view"`
	Outcome *struct {
		Kind     string `json:"kind"`
		Attempts int    `json:"attempts"`
	} `json:"outcome"`
	Error string `json:"error"`
}

func readFrame(t *testing.T, conn *websocket.Conn) wsFrameJSON {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f wsFrameJSON
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestWS_RequiresSession(t *testing.T) {
	ts := newTestServer(t)
	srv := httptest.NewServer(ts.Router())
	defer srv.Close()

	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/game/ws"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWS_PushesStateAfterEveryChange(t *testing.T) {
	ts := newTestServer(t, "REACT")
	srv := httptest.NewServer(ts.Router())
	defer srv.Close()
	g := ts.newGame(t)
	conn := dialWS(t, srv, g.Token)

	f := readFrame(t, conn)
	require.Equal(t, "state", f.Type)
	assert.Equal(t, 0, f.View.Cursor.Col)

	require.NoError(t, conn.WriteJSON(map[string]string{"key": "R"}))
	f = readFrame(t, conn)
	require.Equal(t, "state", f.Type)
	assert.Equal(t, 1, f.View.Cursor.Col)
	assert.Equal(t, "R", f.View.Board[0][0].Letter)

	require.NoError(t, conn.WriteJSON(map[string]string{"key": "enter"}))
	f = readFrame(t, conn)
	assert.Equal(t, "error", f.Type)
	assert.Equal(t, "not_enough_letters", f.Error)

	require.NoError(t, conn.WriteJSON(map[string]string{"key": "?"}))
	f = readFrame(t, conn)
	assert.Equal(t, "error", f.Type)
	assert.Equal(t, "invalid_key", f.Error)

	for _, k := range "EACT" {
		require.NoError(t, conn.WriteJSON(map[string]string{"key": string(k)}))
		readFrame(t, conn)
	}
	require.NoError(t, conn.WriteJSON(map[string]string{"key": "enter"}))
	f = readFrame(t, conn)
	require.Equal(t, "state", f.Type)
	assert.Equal(t, "won", f.View.State)
	f = readFrame(t, conn)
	require.Equal(t, "outcome", f.Type)
	assert.Equal(t, "won", f.Outcome.Kind)
	assert.Equal(t, 1, f.Outcome.Attempts)

	require.NoError(t, conn.WriteJSON(map[string]string{"key": "new"}))
	f = readFrame(t, conn)
	require.Equal(t, "state", f.Type)
	assert.Equal(t, "playing", f.View.State)
}

func TestWS_SeesChangesFromHTTP(t *testing.T) {
	ts := newTestServer(t)
	srv := httptest.NewServer(ts.Router())
	defer srv.Close()
	g := ts.newGame(t)
	conn := dialWS(t, srv, g.Token)
	readFrame(t, conn)

	code, _ := ts.press(t, g.Token, "Q")
	require.Equal(t, http.StatusOK, code)

	f := readFrame(t, conn)
	require.Equal(t, "state", f.Type)
	assert.Equal(t, "Q", f.View.Board[0][0].Letter)
}
