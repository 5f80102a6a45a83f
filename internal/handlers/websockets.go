package handlers

import (
	"net/http"
	"sync"
	"time"

	"solarmon/internal/models"
	"solarmon/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB

	// heartbeat cadence for the latest-window push
	pushInterval = 2 * time.Second

	// per-client queue of write-triggered pushes; a slow client drops
	// intermediate samples instead of blocking the ingest path
	notifyBuffer = 16
)

// updateEvent is the push-channel event name clients subscribe to.
const updateEvent = "updateData"

// wsEnvelope frames every WebSocket message.
type wsEnvelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // dashboards connect cross-origin
}

// hub tracks connected push listeners. Registration and broadcast are
// called from different request goroutines, so the set is mutex-guarded.
type hub struct {
	mu      sync.Mutex
	clients map[chan []models.Reading]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[chan []models.Reading]struct{})}
}

func (h *hub) register() chan []models.Reading {
	ch := make(chan []models.Reading, notifyBuffer)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *hub) unregister(ch chan []models.Reading) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
}

// broadcast queues the fresh sample for every connected listener without
// blocking the caller. Full queues are skipped; those clients still catch
// up on their next heartbeat tick.
func (h *hub) broadcast(readings ...models.Reading) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- readings:
		default:
		}
	}
}

// @Summary      Live readings stream
// @Description  WebSocket upgrade. Pushes the latest readings window on connect, on every ingest, and every 2s while a device is active.
// @Tags         data
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// reader goroutine handles control frames and detects disconnects
	done := make(chan struct{})
	go h.startReader(conn, done)

	notify := h.hub.register()
	defer h.hub.unregister(notify)

	ticker := time.NewTicker(pushInterval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	// initial snapshot is unconditional, even for a silent device
	if err := h.sendLatest(c, conn); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case readings := <-notify:
			// write-triggered push: the device just reported, no gate
			if err := h.writeUpdate(conn, readings); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			// heartbeat push only while some device is actually live, so a
			// stale window is never presented as current
			if !h.services.Liveness.AnyActive(service.DefaultLivenessThreshold) {
				continue
			}
			readings, err := h.services.History.Latest(c.Request.Context(), "")
			if err != nil {
				// store hiccup: skip this tick, keep the connection
				if h.log != nil {
					h.log.Errorw("ws_latest_failed", "err", err)
				}
				continue
			}
			if err := h.writeUpdate(conn, readings); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// startReader drains incoming messages to handle control frames and detect
// closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// sendLatest fetches the current latest window and writes it out.
func (h *Handler) sendLatest(c *gin.Context, conn *websocket.Conn) error {
	readings, err := h.services.History.Latest(c.Request.Context(), "")
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_latest_failed", "err", err)
		}
		return err
	}
	return h.writeUpdate(conn, readings)
}

func (h *Handler) writeUpdate(conn *websocket.Conn, readings []models.Reading) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(wsEnvelope{Event: updateEvent, Data: readings})
}
