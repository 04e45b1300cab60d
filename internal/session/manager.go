package session

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"holdemroom/internal/registry"
	"holdemroom/internal/room"
)

// Manager is the Session Manager: it holds the live transport endpoint per
// connected player and implements room.Broadcaster so a room's actor can
// push personalised state without knowing anything about WebSockets.
type Manager struct {
	mu    sync.RWMutex
	conns map[uint64]*Connection

	registry *registry.Registry
	logger   *log.Logger

	nextID uint64
}

// New creates a session manager bound to a room registry.
func New(reg *registry.Registry, logger *log.Logger) *Manager {
	return &Manager{
		conns:    make(map[uint64]*Connection),
		registry: reg,
		logger:   logger,
	}
}

// Send implements room.Broadcaster.
func (m *Manager) Send(userID uint64, msg any) {
	m.mu.RLock()
	c := m.conns[userID]
	m.mu.RUnlock()
	if c == nil {
		return
	}
	c.enqueue(msg)
}

// Broadcast implements room.Broadcaster: it builds and sends each
// recipient's personalised payload concurrently via errgroup. enqueue drops
// a message when a connection's buffer is full, so one slow connection
// can't stall the others.
func (m *Manager) Broadcast(roomID string, userIDs []uint64, build func(userID uint64) any) {
	m.mu.RLock()
	targets := make([]*Connection, 0, len(userIDs))
	for _, id := range userIDs {
		if c := m.conns[id]; c != nil {
			targets = append(targets, c)
		}
	}
	m.mu.RUnlock()

	g, _ := errgroup.WithContext(context.Background())
	for _, c := range targets {
		c := c
		g.Go(func() error {
			c.enqueue(build(c.userID))
			return nil
		})
	}
	_ = g.Wait()
}

func (m *Manager) register(c *Connection) {
	m.mu.Lock()
	m.conns[c.userID] = c
	m.mu.Unlock()
}

func (m *Manager) unregister(c *Connection) {
	m.mu.Lock()
	if m.conns[c.userID] == c {
		delete(m.conns, c.userID)
	}
	m.mu.Unlock()
}

// nextUserID hands out a demo identity per connection; a real deployment
// would resolve this from an authenticated session instead.
func (m *Manager) nextUserID() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	return m.nextID
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades the request and runs the connection until it
// closes, joining it to a quick-started room.
func (m *Manager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.logger.Error("websocket upgrade failed", "err", err)
		return
	}

	userID := m.nextUserID()
	rm, err := m.registry.QuickStart(userID)
	if err != nil {
		m.logger.Error("quick start failed", "user", userID, "err", err)
		wsConn.Close()
		return
	}

	c := &Connection{
		userID: userID,
		room:   rm,
		conn:   wsConn,
		send:   make(chan []byte, 64),
		mgr:    m,
	}
	m.register(c)

	if err := rm.SubmitEvent(room.Event{Type: room.EventJoin, UserID: userID}); err != nil {
		m.logger.Error("join room failed", "user", userID, "err", err)
	}

	go c.writePump()
	c.readPump()
}

func (c *Connection) enqueue(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
		// Drop on a full buffer rather than block the room actor.
	}
}

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	writeWait  = 10 * time.Second
)
