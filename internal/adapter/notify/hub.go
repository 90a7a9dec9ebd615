package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"loanledger/internal/domain/event"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	sendBuffer = 32
	writeWait  = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type subscriber struct {
	loanID uint64 // 0 = every loan
	send   chan []byte
}

// Hub pushes committed notifications to websocket subscribers. A subscriber
// that cannot keep up is disconnected rather than blocking the ledger.
type Hub struct {
	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

func NewHub() *Hub { return &Hub{subs: make(map[*subscriber]struct{})} }

func (h *Hub) Publish(_ context.Context, e event.Event) error {
	msg, err := json.Marshal(e)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		if s.loanID != 0 && s.loanID != e.LoanID {
			continue
		}
		select {
		case s.send <- msg:
		default:
			slog.Warn("ws: dropping slow subscriber", "loan_id", s.loanID)
			h.removeLocked(s)
		}
	}
	return nil
}

// Subscribers is the number of connected clients.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// ServeWS upgrades the request; ?loan_id= narrows the feed to one loan.
func (h *Hub) ServeWS(c echo.Context) error {
	var loanID uint64
	if raw := c.QueryParam("loan_id"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || n == 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid loan_id"})
		}
		loanID = n
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return nil // upgrader already replied
	}
	s := &subscriber{loanID: loanID, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(conn, s)

	// drain client frames until it goes away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.mu.Lock()
	h.removeLocked(s)
	h.mu.Unlock()
	return nil
}

func (h *Hub) writeLoop(conn *websocket.Conn, s *subscriber) {
	defer conn.Close()
	for msg := range s.send {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

func (h *Hub) removeLocked(s *subscriber) {
	if _, ok := h.subs[s]; ok {
		delete(h.subs, s)
		close(s.send)
	}
}
