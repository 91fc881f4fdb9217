package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/okian/herofan/internal/domain/arena"
	"github.com/okian/herofan/internal/domain/battle"
	"github.com/okian/herofan/internal/domain/catalog"
	"github.com/okian/herofan/pkg/logger"
)

const wsWriteTimeout = 5 * time.Second

// arenaCommand is a client frame on /ws/arena.
type arenaCommand struct {
	Type   string `json:"type"`
	HeroID int    `json:"hero_id,omitempty"`
	Slot   int    `json:"slot,omitempty"`
}

// arenaFrame is a server frame on /ws/arena.
type arenaFrame struct {
	Type          string         `json:"type"`
	Session       *arena.Session `json:"session,omitempty"`
	RevealAfterMS int64          `json:"reveal_after_ms,omitempty"`
	Code          string         `json:"code,omitempty"`
	Message       string         `json:"message,omitempty"`
}

// ArenaHandler runs one arena per websocket connection.
type ArenaHandler struct {
	deps     ArenaDependencies
	upgrader websocket.Upgrader
}

// NewArenaHandler creates a new arena handler.
func NewArenaHandler(deps ArenaDependencies) *ArenaHandler {
	return &ArenaHandler{
		deps: deps,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// wsConn serializes writes; gorilla connections allow one concurrent writer.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) send(f arenaFrame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return c.conn.WriteJSON(f)
}

// HandleArena handles GET /ws/arena. Every committed transition, including
// the delayed reveal, is pushed to the client as a "session" frame.
func (h *ArenaHandler) HandleArena(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx := r.Context()
	name := uuid.NewString()
	log := logger.Get().Named("ws").With(logger.String("session", name))
	c := &wsConn{conn: conn}
	delay := h.deps.RevealDelay().Milliseconds()

	a, err := h.deps.NewArena(
		arena.WithName(name),
		arena.WithListener(func(s arena.Session) {
			if err := c.send(arenaFrame{Type: "session", Session: &s, RevealAfterMS: delay}); err != nil {
				log.Debug(ctx, "session frame not delivered", logger.Error(err))
			}
		}),
	)
	if err != nil {
		_ = c.send(arenaFrame{Type: "error", Code: "unavailable", Message: err.Error()})
		return
	}
	defer a.Close()

	s := a.Session()
	if err := c.send(arenaFrame{Type: "session", Session: &s, RevealAfterMS: delay}); err != nil {
		return
	}
	log.Debug(ctx, "arena connected")

	for {
		var cmd arenaCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			log.Debug(ctx, "arena disconnected", logger.Error(err))
			return
		}
		if err := h.apply(ctx, a, cmd); err != nil {
			code, msg := arenaErrorCode(err), err.Error()
			if err := c.send(arenaFrame{Type: "error", Code: code, Message: msg}); err != nil {
				return
			}
		}
	}
}

func (h *ArenaHandler) apply(ctx context.Context, a *arena.Arena, cmd arenaCommand) error {
	var err error
	switch cmd.Type {
	case "pick", "select":
		hero, herr := h.deps.Hero(ctx, cmd.HeroID)
		if herr != nil {
			return herr
		}
		if cmd.Type == "pick" {
			_, err = a.Pick(ctx, hero)
		} else {
			_, err = a.Select(ctx, arena.Slot(cmd.Slot), hero)
		}
	case "clear":
		_, err = a.Clear(ctx, arena.Slot(cmd.Slot))
	case "start":
		_, err = a.Start(ctx)
	case "reset":
		_, err = a.Reset(ctx)
	default:
		err = WrapKind("api.arena", ErrBadRequest, errors.New("unknown command "+cmd.Type))
	}
	return err
}

func arenaErrorCode(err error) string {
	switch {
	case errors.Is(err, arena.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, arena.ErrUnknownSlot), errors.Is(err, ErrBadRequest):
		return "bad_request"
	case errors.Is(err, catalog.ErrNotFound):
		return "not_found"
	case errors.Is(err, battle.ErrInvalidProfile):
		return "invalid_profile"
	default:
		return "internal_error"
	}
}
