package assistant

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Krimson/babybloom/predictor/internal/advice"
	"github.com/Krimson/babybloom/predictor/internal/metrics"
)

// Client message types.
const (
	TypeShow          = "show"
	TypeHide          = "hide"
	TypeInputsChanged = "inputs_changed"
)

// Server message types.
const (
	TypeLoading = "loading"
	TypeMessage = "message"
	TypeCleared = "cleared"
	TypeError   = "error"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 16
	maxMessageSize = 512
)

// ClientMessage is sent by the results panel.
type ClientMessage struct {
	Type      string `json:"type"`
	IsPreterm bool   `json:"isPreterm"`
}

// ServerMessage is pushed to the results panel.
type ServerMessage struct {
	Type   string         `json:"type"`
	Advice *advice.Advice `json:"advice,omitempty"`
	Text   string         `json:"text,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// Handler serves the assistant panel over WebSocket. Each connection shows
// "loading" immediately and the advice after the scheduler delay; any newer
// client message cancels a pending delivery.
type Handler struct {
	scheduler *advice.Scheduler
	upgrader  websocket.Upgrader
	logger    *slog.Logger
}

func NewHandler(scheduler *advice.Scheduler, allowedOrigin string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		scheduler: scheduler,
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "*" || origin == "" || origin == allowedOrigin
			},
		},
	}
}

// panel is the state of one connection.
type panel struct {
	conn   *websocket.Conn
	send   chan ServerMessage
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger

	pending *advice.Pending
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed to upgrade assistant connection", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &panel{
		conn:   conn,
		send:   make(chan ServerMessage, sendBufferSize),
		ctx:    ctx,
		cancel: cancel,
		logger: h.logger,
	}

	go p.writePump()
	p.readPump(h.scheduler)
}

func (p *panel) readPump(scheduler *advice.Scheduler) {
	defer func() {
		p.cancelPending()
		p.cancel()
		p.conn.Close()
	}()

	p.conn.SetReadLimit(maxMessageSize)

	for {
		var msg ClientMessage
		if err := p.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				p.logger.Warn("assistant connection closed", "error", err)
			}
			return
		}

		p.cancelPending()

		switch msg.Type {
		case TypeShow:
			p.enqueue(ServerMessage{Type: TypeLoading})
			a := advice.For(msg.IsPreterm)
			p.pending = scheduler.After(p.ctx, func() {
				p.enqueue(ServerMessage{Type: TypeMessage, Advice: &a, Text: a.Text()})
				metrics.RecordAssistantMessage(true)
			})
		case TypeHide, TypeInputsChanged:
			p.enqueue(ServerMessage{Type: TypeCleared})
		default:
			p.enqueue(ServerMessage{Type: TypeError, Error: "unknown message type: " + msg.Type})
		}
	}
}

func (p *panel) cancelPending() {
	if p.pending == nil {
		return
	}
	if p.pending.Cancel() {
		metrics.RecordAssistantMessage(false)
	}
	p.pending = nil
}

func (p *panel) enqueue(msg ServerMessage) {
	select {
	case p.send <- msg:
	case <-p.ctx.Done():
	}
}

func (p *panel) writePump() {
	for {
		select {
		case msg := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteJSON(msg); err != nil {
				p.logger.Warn("failed to write assistant message", "error", err)
				p.cancel()
				return
			}
		case <-p.ctx.Done():
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			p.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
