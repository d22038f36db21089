package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/unidrl/campus-connect/internal/domain"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = livePongWait * 9 / 10
	liveSendBuffer = 64

	liveSubscribed = "subscribed"
)

type liveClient struct {
	conn    *websocket.Conn
	send    chan []byte
	eventID string
}

type liveMessage struct {
	Type    string `json:"type"`
	EventID string `json:"event_id"`
}

// LiveHandler pushes registration updates of an event to the admin
// dashboards watching it. All client bookkeeping happens in Run.
type LiveHandler struct {
	upgrader   websocket.Upgrader
	clients    map[*liveClient]struct{}
	broadcast  chan domain.RegistrationUpdate
	register   chan *liveClient
	unregister chan *liveClient
	done       chan struct{}
}

func NewLiveHandler(allowedOrigins []string) *LiveHandler {
	return &LiveHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, origin)
			},
		},
		clients:    make(map[*liveClient]struct{}),
		broadcast:  make(chan domain.RegistrationUpdate, 256),
		register:   make(chan *liveClient),
		unregister: make(chan *liveClient),
		done:       make(chan struct{}),
	}
}

func (h *LiveHandler) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return
		case client := <-h.register:
			h.clients[client] = struct{}{}
			msg, _ := json.Marshal(liveMessage{Type: liveSubscribed, EventID: client.eventID})
			client.send <- msg
		case client := <-h.unregister:
			h.drop(client)
		case update := <-h.broadcast:
			msg, err := json.Marshal(update)
			if err != nil {
				zap.L().Error("failed to encode live update", zap.Error(err))
				continue
			}
			for client := range h.clients {
				if client.eventID != update.EventID {
					continue
				}
				select {
				case client.send <- msg:
				default:
					h.drop(client)
				}
			}
		}
	}
}

// Publish queues update for delivery. It never blocks; updates are dropped
// when the queue is full.
func (h *LiveHandler) Publish(update domain.RegistrationUpdate) {
	select {
	case h.broadcast <- update:
	default:
		zap.L().Warn("live update queue full, dropping update",
			zap.String("event_id", update.EventID), zap.String("type", update.Type))
	}
}

func (h *LiveHandler) drop(client *liveClient) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

// HandleLiveFeed godoc
// @Summary      Live registration feed of an event
// @Description  Admins only. Upgrades to a WebSocket that receives every registration change of the event. The token may be passed as ?token= since browsers cannot set headers on WebSockets.
// @Tags         live
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Success      101  {object}  domain.RegistrationUpdate
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /events/{eventID}/live [get]
// @Security     BearerAuth
func (h *LiveHandler) HandleLiveFeed(ctx *gin.Context) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		zap.L().Info("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &liveClient{
		conn:    conn,
		send:    make(chan []byte, liveSendBuffer),
		eventID: ctx.Param("eventID"),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	case <-ctx.Request.Context().Done():
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(h)
}

func (c *liveClient) writePump() {
	ticker := time.NewTicker(livePingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only watches for the client going away; dashboards never send.
func (c *liveClient) readPump(h *LiveHandler) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(livePongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Info("live feed client closed", zap.Error(err))
			}
			return
		}
	}
}
