package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/jaminalder/codex-othello/internal/domain"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

const wsWriteWait = 10 * time.Second

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// stream sends the current snapshot, then one snapshot per transition.
// Clients may also submit moves as {"row":r,"col":c}; a rejected move is
// answered to that client alone with the unchanged snapshot and an error code.
func (h *handlers) stream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Subscribe before reading the state so no transition falls in between.
	ch, unsub, err := h.svc.Subscribe(ctx, id)
	if err != nil {
		writeJSON(w, r, http.StatusNotFound, errorJSON{Error: codeNotFound})
		return
	}
	defer unsub()
	gs, ok := h.svc.Get(id)
	if !ok {
		writeJSON(w, r, http.StatusNotFound, errorJSON{Error: codeNotFound})
		return
	}

	log := hlog.FromRequest(r).With().Str("game", id).Logger()
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	replies := make(chan Snapshot, 1)
	go h.readMoves(ctx, cancel, conn, id, replies, log)

	if err := h.writeSnapshot(conn, newSnapshot(*gs)); err != nil {
		return
	}
	ping := time.NewTicker(h.heartbeat)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-ch:
			if !ok {
				log.Debug().Msg("stream subscriber dropped")
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "too slow"),
					time.Now().Add(wsWriteWait))
				return
			}
			if err := h.writeSnapshot(conn, newSnapshot(st)); err != nil {
				return
			}
		case snap := <-replies:
			if err := h.writeSnapshot(conn, snap); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}

func (h *handlers) writeSnapshot(conn *websocket.Conn, s Snapshot) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(s)
}

// readMoves applies moves received on conn until the connection fails.
// Successful moves reach every subscriber through the broadcast.
func (h *handlers) readMoves(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, id string, replies chan<- Snapshot, log zerolog.Logger) {
	defer cancel()
	for {
		var m MoveJSON
		if err := conn.ReadJSON(&m); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("websocket read")
			}
			return
		}
		gs, err := h.svc.Play(id, domain.Position{Row: m.Row, Col: m.Col})
		if err == nil {
			continue
		}
		if gs == nil {
			return
		}
		snap := newSnapshot(*gs)
		_, snap.Error = moveErrorStatus(err)
		select {
		case replies <- snap:
		case <-ctx.Done():
			return
		}
	}
}
