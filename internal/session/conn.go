package session

import (
	"time"

	"github.com/gorilla/websocket"

	"holdemroom/internal/room"
)

// Connection is one player's live WebSocket endpoint, bound to whichever
// room they quick-started into for the lifetime of the socket.
type Connection struct {
	userID uint64
	room   *room.Room
	conn   *websocket.Conn
	send   chan []byte
	mgr    *Manager
}

func (c *Connection) readPump() {
	defer func() {
		c.mgr.unregister(c)
		_ = c.room.SubmitEvent(room.Event{Type: room.EventConnLost, UserID: c.userID})
		c.conn.Close()
		close(c.send)
	}()

	c.conn.SetReadLimit(65536)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}
		c.handleMessage(data)
	}
}

func (c *Connection) handleMessage(data []byte) {
	msg, err := parseClientMessage(data)
	if err != nil {
		c.sendError(1, err.Error())
		return
	}

	var ev room.Event
	switch msg.Action {
	case "start_game":
		ev = room.Event{Type: room.EventStartGame, UserID: c.userID}
	case "chat":
		ev = room.Event{Type: room.EventChat, UserID: c.userID, Content: msg.Content}
	case "leave":
		ev = room.Event{Type: room.EventLeave, UserID: c.userID}
	default:
		action, ok := actionFromWire(msg.Action)
		if !ok {
			c.sendError(2, "unknown action")
			return
		}
		ev = room.Event{Type: room.EventAction, UserID: c.userID, Action: action, Amount: msg.Amount}
	}

	if err := c.room.SubmitEvent(ev); err != nil {
		c.sendError(3, err.Error())
	}
}

func (c *Connection) sendError(code int, msg string) {
	c.enqueue(ErrorMessage{
		Type: "error",
		Data: ErrorResponse{Code: code, Message: msg},
	})
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
