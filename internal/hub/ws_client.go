package hub

import (
	"encoding/json"
	"sync"
	"time"

	"battlegogo/backend/internal/config"
	"battlegogo/backend/internal/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WebSocketClient implements Client over a gorilla websocket.
type WebSocketClient struct {
	ConnectionID string
	PrincipalID  string
	Conn         *websocket.Conn
	Hub          *Hub
	Send         chan models.Envelope

	log       *zap.Logger
	closeOnce sync.Once
}

func NewWebSocketClient(h *Hub, conn *websocket.Conn, principalID string, sendBuffer int, log *zap.Logger) *WebSocketClient {
	id := NewConnectionID()
	return &WebSocketClient{
		ConnectionID: id,
		PrincipalID:  principalID,
		Conn:         conn,
		Hub:          h,
		Send:         make(chan models.Envelope, sendBuffer),
		log:          log.With(zap.String("conn_id", id)),
	}
}

func (c *WebSocketClient) GetConnectionID() string                { return c.ConnectionID }
func (c *WebSocketClient) GetPrincipalID() string                 { return c.PrincipalID }
func (c *WebSocketClient) GetSendChannel() chan<- models.Envelope { return c.Send }

// Run starts the write pump and then reads until the socket closes, so it
// blocks for the lifetime of the connection.
func (c *WebSocketClient) Run() {
	go c.writePump()
	c.readPump()
}

// Close ends the write pump, which then closes the socket.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() { close(c.Send) })
}

func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(config.PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(config.PongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Info("websocket closed unexpectedly", zap.Error(err))
			}
			return
		}

		var env models.Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			c.log.Warn("undecodable frame dropped", zap.Error(err))
			continue
		}
		if env.Type == "" {
			c.log.Warn("frame without type dropped")
			continue
		}

		if !c.Hub.Submit(Inbound{ConnectionID: c.ConnectionID, Envelope: env}) {
			return
		}
	}
}

// writePump writes one frame per event and keeps the connection alive with
// pings.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case env, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if !ok {
				// Hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.Conn.WriteJSON(env); err != nil {
				c.log.Info("websocket write failed", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
