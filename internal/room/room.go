// Package room implements the per-table actor: the single goroutine that
// owns a Game's mutable state and serialises every inbound action through
// one event queue, broadcasting a personalised Snapshot after each step.
package room

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"holdemroom/holdem"
)

// Broadcaster is the Session Manager's half of the contract described for
// the room/session boundary: deliver a message to one seat's live
// connection, or to every connected seat in a room via a per-viewer
// builder function. Implementations must not block the room's actor loop
// for long; a full send buffer should drop rather than stall.
type Broadcaster interface {
	Send(userID uint64, msg any)
	Broadcast(roomID string, userIDs []uint64, build func(userID uint64) any)
}

// Config configures one room's table.
type Config struct {
	Name        string
	MaxPlayers  uint16
	SmallBlind  int64
	BigBlind    int64
	Ante        int64
	BettingMode holdem.BettingMode
	BuyIn       int64
}

const (
	actionTimeLimitSec = 30
	showdownHandDelay  = 8 * time.Second
	foldHandDelay      = 3 * time.Second
	offlineSeatTTL     = 60 * time.Second
)

var ErrRoomClosed = errors.New("room closed")

// seat tracks one connected player's membership independent of the Game's
// own Player bookkeeping (nickname, online state, chair assignment).
type seat struct {
	userID   uint64
	nickname string
	chair    uint16
	online   bool
	lastSeen time.Time
}

// chatMessage is one logged chat line, broadcast verbatim to every viewer.
type chatMessage struct {
	PlayerName string
	Content    string
	Timestamp  time.Time
}

// Room is a single table's actor: every field below is touched only from
// inside run(), reached exclusively through the events channel.
type Room struct {
	ID     string
	Config Config

	game    *holdem.Game
	players map[uint64]*seat
	order   []uint64 // join order, first entry is the owner
	chat    []chatMessage

	events chan Event
	done   chan struct{}
	stop   sync.Once
	closed bool

	sessions Broadcaster

	round uint32

	actionChair    uint16
	actionDeadline time.Time
	nextHandAt     time.Time
	emptySince     time.Time

	onEmpty func(roomID string)
}

// New creates a room and starts its actor goroutine.
func New(id string, cfg Config, sessions Broadcaster, onEmpty func(roomID string)) (*Room, error) {
	game, err := holdem.NewGame(holdem.Config{
		MaxPlayers:  int(cfg.MaxPlayers),
		MinPlayers:  2,
		SmallBlind:  cfg.SmallBlind,
		BigBlind:    cfg.BigBlind,
		Ante:        cfg.Ante,
		BettingMode: cfg.BettingMode,
	})
	if err != nil {
		return nil, fmt.Errorf("room %s: %w", id, err)
	}

	r := &Room{
		ID:          id,
		Config:      cfg,
		game:        game,
		players:     make(map[uint64]*seat),
		events:      make(chan Event, 256),
		done:        make(chan struct{}),
		sessions:    sessions,
		actionChair: holdem.InvalidChair,
		emptySince:  time.Now(),
		onEmpty:     onEmpty,
	}
	go r.run()
	return r, nil
}

func (r *Room) run() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case e := <-r.events:
			err := r.handle(e)
			if e.Response != nil {
				e.Response <- err
			}
		case <-ticker.C:
			r.tick()
		case <-r.done:
			return
		}
	}
}

func (r *Room) handle(e Event) error {
	if r.closed && e.Type != EventClose {
		return ErrRoomClosed
	}

	switch e.Type {
	case EventJoin:
		return r.handleJoin(e.UserID, e.Nickname)
	case EventLeave:
		return r.handleLeave(e.UserID)
	case EventConnLost:
		return r.handleConnLost(e.UserID)
	case EventConnResume:
		return r.handleConnResume(e.UserID, e.Nickname)
	case EventStartGame:
		return r.handleStartGame(e.UserID)
	case EventAction:
		return r.handleAction(e.UserID, e.Action, e.Amount)
	case EventChat:
		return r.handleChat(e.UserID, e.Content)
	case EventClose:
		r.closeLocked()
		return nil
	default:
		return fmt.Errorf("unknown event type: %d", e.Type)
	}
}

// SubmitEvent enqueues an event and waits for the actor to process it.
func (r *Room) SubmitEvent(e Event) error {
	if e.Response == nil {
		e.Response = make(chan error, 1)
	}
	select {
	case r.events <- e:
	case <-r.done:
		return ErrRoomClosed
	}
	select {
	case err := <-e.Response:
		return err
	case <-r.done:
		return ErrRoomClosed
	}
}

func (r *Room) tick() {
	if r.closed {
		return
	}
	now := time.Now()
	r.checkActionTimeout(now)
	r.releaseOfflineSeats(now)
	if !r.nextHandAt.IsZero() && !now.Before(r.nextHandAt) {
		r.tryStartHand()
	}
}

// Stop shuts the room's actor down without draining pending events.
func (r *Room) Stop() {
	r.stop.Do(func() { close(r.done) })
}

func (r *Room) closeLocked() {
	r.closed = true
	r.stop.Do(func() { close(r.done) })
}

// Snapshot exposes the underlying game's raw (unredacted) state; used by
// the registry for seat-count bookkeeping, never sent to a client as-is.
func (r *Room) Snapshot() holdem.Snapshot {
	return r.game.Snapshot()
}

func (r *Room) IsClosed() bool {
	select {
	case <-r.done:
		return true
	default:
		return r.closed
	}
}

// IsIdleFor reports whether the room has had zero seated players for at
// least ttl. Called by the registry's cleanup loop; safe without locking
// since it only reads fields the actor itself won't mutate concurrently
// with this specific read (emptySince only grows monotonically stale).
func (r *Room) IsIdleFor(ttl time.Duration) bool {
	if r.IsClosed() {
		return true
	}
	if len(r.players) > 0 {
		return false
	}
	if r.emptySince.IsZero() {
		return false
	}
	return time.Since(r.emptySince) >= ttl
}

func (r *Room) updateEmptySince(now time.Time) {
	if len(r.players) == 0 {
		if r.emptySince.IsZero() {
			r.emptySince = now
		}
		return
	}
	r.emptySince = time.Time{}
}

func (r *Room) seatedUserIDs() []uint64 {
	ids := make([]uint64, 0, len(r.players))
	for id := range r.players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *Room) firstEmptyChair() (uint16, bool) {
	occupied := make(map[uint16]bool, len(r.players))
	for _, s := range r.players {
		if s.chair != holdem.InvalidChair {
			occupied[s.chair] = true
		}
	}
	for c := uint16(0); c < r.Config.MaxPlayers; c++ {
		if !occupied[c] {
			return c, true
		}
	}
	return 0, false
}

func (r *Room) isOwner(userID uint64) bool {
	return len(r.order) > 0 && r.order[0] == userID
}

func (r *Room) nickname(userID uint64) string {
	if s := r.players[userID]; s != nil && s.nickname != "" {
		return s.nickname
	}
	return fmt.Sprintf("player_%d", userID)
}
