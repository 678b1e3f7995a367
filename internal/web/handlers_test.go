package web

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jaminalder/codex-othello/internal/app"
	"github.com/jaminalder/codex-othello/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*app.Service, http.Handler) {
	t.Helper()
	s := app.NewService()
	h := NewServer(s, zerolog.Nop(), time.Second)
	return s, h
}

func postForm(h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestPing(t *testing.T) {
	_, h := newTestServer(t)
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pong", rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("Request-Id"))
}

func TestIndexPage(t *testing.T) {
	_, h := newTestServer(t)
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "<!doctype html>")
	assert.Contains(t, body, "<form")
	assert.Contains(t, body, `action="/game"`)
}

func TestCreateRedirectsToGame(t *testing.T) {
	_, h := newTestServer(t)
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/game", nil))

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Result().Header.Get("Location"), "/game/"))
}

func TestGamePageRendersOpeningBoard(t *testing.T) {
	svc, h := newTestServer(t)
	gs, _ := svc.CreateGame()
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/game/"+url.PathEscape(gs.ID), nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	// SSE wiring present
	assert.Contains(t, body, `hx-ext="sse"`)
	assert.Contains(t, body, "/game/"+gs.ID+"/events")
	// One play form per legal opening move
	assert.Equal(t, 4, strings.Count(body, `name="r"`))
	assert.Contains(t, body, "Player 1 (Black): 2")
	assert.Contains(t, body, "To move: Player 1 (Black)")
}

func TestGamePageUnknownGame(t *testing.T) {
	_, h := newTestServer(t)
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/game/missing", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPlayEndpointUpdatesStateAndReturnsFragment(t *testing.T) {
	// Given: a fresh match
	svc, h := newTestServer(t)
	gs, _ := svc.CreateGame()

	// When: Black clicks (2,3)
	rr := postForm(h, "/game/"+gs.ID+"/play", url.Values{"r": {"2"}, "c": {"3"}})

	// Then: the move is applied and the fragment shows White to move
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `id="board"`)
	assert.NotContains(t, body, "<!doctype html>")
	assert.Contains(t, body, "Player 1 (Black): 4")
	assert.Contains(t, body, "To move: Player 2 (White)")
	assert.Equal(t, 3, strings.Count(body, `name="r"`))

	latest, _ := svc.Get(gs.ID)
	assert.Equal(t, 1, latest.Game.Moves)
}

func TestPlayEndpointRejections(t *testing.T) {
	svc, h := newTestServer(t)
	gs, _ := svc.CreateGame()

	cases := []struct {
		name string
		r, c string
		msg  string
	}{
		{"illegal", "0", "0", "Illegal move"},
		{"occupied", "3", "3", "Cell is occupied"},
		{"out of bounds", "8", "1", "Out of bounds"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := postForm(h, "/game/"+gs.ID+"/play", url.Values{"r": {tc.r}, "c": {tc.c}})

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.msg)
			latest, _ := svc.Get(gs.ID)
			assert.Equal(t, 0, latest.Game.Moves)
		})
	}
}

func TestPlayEndpointBadInput(t *testing.T) {
	svc, h := newTestServer(t)
	gs, _ := svc.CreateGame()

	rr := postForm(h, "/game/"+gs.ID+"/play", url.Values{"r": {"x"}, "c": {"3"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = postForm(h, "/game/missing/play", url.Values{"r": {"2"}, "c": {"3"}})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestBoardViewGameOver(t *testing.T) {
	b, err := domain.ParseBoard(
		"BB......",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		".......W",
	)
	require.NoError(t, err)
	gs := app.GameState{ID: "x", Game: domain.FromBoard(b, domain.White)}

	v := newBoardView(gs, "")

	assert.True(t, v.Over)
	assert.Equal(t, "Player 1 (Black) Wins!", v.Winner)
	for _, row := range v.Rows {
		for _, c := range row {
			assert.False(t, c.Legal)
		}
	}
	assert.Equal(t, "●", v.Rows[0][0].Symbol)
	assert.Equal(t, "○", v.Rows[7][7].Symbol)
}

func TestEventsEndpointSSEHeaders(t *testing.T) {
	_, h := newTestServer(t)
	rrCreate := httptest.NewRecorder()
	h.ServeHTTP(rrCreate, httptest.NewRequest(http.MethodPost, "/game", nil))
	loc := rrCreate.Result().Header.Get("Location")
	require.NotEmpty(t, loc)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, loc+"/events", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Result().Header.Get("Content-Type"), "text/event-stream"))
}

func TestEventsStreamBoardAfterMove(t *testing.T) {
	// Given: a client connected to the event stream
	svc, h := newTestServer(t)
	srv := httptest.NewServer(h)
	defer srv.Close()
	gs, _ := svc.CreateGame()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/game/"+gs.ID+"/events", nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "text/event-stream")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// When: a move is played
	_, err = svc.Play(gs.ID, domain.Position{Row: 2, Col: 3})
	require.NoError(t, err)

	// Then: a board event carrying the new fragment arrives
	sc := bufio.NewScanner(resp.Body)
	var sawEvent, sawCounts bool
	for sc.Scan() {
		line := sc.Text()
		if line == "event: board" {
			sawEvent = true
		}
		if sawEvent && strings.Contains(line, "Player 1 (Black): 4") {
			sawCounts = true
			break
		}
	}
	assert.True(t, sawEvent, "no board event: %v", sc.Err())
	assert.True(t, sawCounts)
}
