package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer; clients only send small join
	// messages
	maxMessageSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The realtime channel carries no sensitive data and room membership is
	// explicit, so cross-origin upgrades are allowed
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is a middleman between a websocket connection and the hub
type Client struct {
	hub *Hub

	conn *websocket.Conn

	// Buffered channel of outbound event payloads
	send chan []byte

	// Remote address, kept for logging
	addr string

	logger zerolog.Logger
}

// joinMessage is the shape of client->server room join messages:
// {"event":"join-admin-room"} or
// {"event":"join-student-room","data":{"residence":"...","block":"..."}}
type joinMessage struct {
	Event string `json:"event"`
	Data  struct {
		Residence string `json:"residence"`
		Block     string `json:"block"`
	} `json:"data"`
}

// Client->server event names
const (
	eventJoinAdminRoom   = "join-admin-room"
	eventJoinStudentRoom = "join-student-room"
)

// readPump reads join messages from the websocket connection and turns them
// into topic subscriptions on the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debug().Str("addr", c.addr).Msg("WebSocket closed normally")
			} else if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Str("addr", c.addr).Msg("Unexpected WebSocket close")
			} else {
				c.logger.Debug().Err(err).Str("addr", c.addr).Msg("WebSocket read error")
			}
			break
		}

		var msg joinMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.logger.Warn().Err(err).Str("addr", c.addr).Str("message", string(message)).
				Msg("Failed to unmarshal client message")
			continue
		}

		switch msg.Event {
		case eventJoinAdminRoom:
			c.hub.subscribe <- subscription{client: c, topic: TopicAdmin}
		case eventJoinStudentRoom:
			if msg.Data.Residence == "" || msg.Data.Block == "" {
				c.logger.Warn().Str("addr", c.addr).Msg("Join message missing residence or block")
				continue
			}
			c.hub.subscribe <- subscription{client: c, topic: BlockTopic(msg.Data.Residence, msg.Data.Block)}
		default:
			c.logger.Debug().Str("addr", c.addr).Str("event", msg.Event).Msg("Ignoring unknown client event")
		}
	}
}

// writePump pumps events from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
