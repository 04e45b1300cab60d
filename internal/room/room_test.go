package room

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"holdemroom/holdem"
)

// fakeBroadcaster records every message a room actor sends, so tests can
// assert on what would have gone out over the wire without a real
// transport.
type fakeBroadcaster struct {
	mu   sync.Mutex
	sent map[uint64][]any
}

func newFakeBroadcaster() *fakeBroadcaster {
	return &fakeBroadcaster{sent: make(map[uint64][]any)}
}

func (f *fakeBroadcaster) Send(userID uint64, msg any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent[userID] = append(f.sent[userID], msg)
}

func (f *fakeBroadcaster) Broadcast(roomID string, userIDs []uint64, build func(uint64) any) {
	for _, id := range userIDs {
		f.Send(id, build(id))
	}
}

func (f *fakeBroadcaster) last(userID uint64) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.sent[userID]
	if len(msgs) == 0 {
		return nil
	}
	return msgs[len(msgs)-1]
}

func newTestRoom(t *testing.T) (*Room, *fakeBroadcaster) {
	t.Helper()
	fb := newFakeBroadcaster()
	r, err := New("test-room", Config{
		Name:        "test",
		MaxPlayers:  6,
		SmallBlind:  50,
		BigBlind:    100,
		BettingMode: holdem.BettingModeNoLimit,
		BuyIn:       10000,
	}, fb, nil)
	require.NoError(t, err)
	t.Cleanup(r.Stop)
	return r, fb
}

func TestJoinSeatsFirstEmptyChair(t *testing.T) {
	r, _ := newTestRoom(t)

	require.NoError(t, r.SubmitEvent(Event{Type: EventJoin, UserID: 1, Nickname: "alice"}))
	require.NoError(t, r.SubmitEvent(Event{Type: EventJoin, UserID: 2, Nickname: "bob"}))

	snap := r.Snapshot()
	require.Len(t, snap.Players, 2)
}

func TestOwnerCanStartGameWithTwoPlayers(t *testing.T) {
	r, _ := newTestRoom(t)

	require.NoError(t, r.SubmitEvent(Event{Type: EventJoin, UserID: 1, Nickname: "alice"}))
	require.NoError(t, r.SubmitEvent(Event{Type: EventJoin, UserID: 2, Nickname: "bob"}))
	require.NoError(t, r.SubmitEvent(Event{Type: EventStartGame, UserID: 1}))

	snap := r.Snapshot()
	require.Greater(t, int(snap.Round), 0)
	require.NotEqual(t, holdem.InvalidChair, snap.ActionChair)
}

func TestNonOwnerCannotStartGame(t *testing.T) {
	r, _ := newTestRoom(t)

	require.NoError(t, r.SubmitEvent(Event{Type: EventJoin, UserID: 1, Nickname: "alice"}))
	require.NoError(t, r.SubmitEvent(Event{Type: EventJoin, UserID: 2, Nickname: "bob"}))

	err := r.SubmitEvent(Event{Type: EventStartGame, UserID: 2})
	require.Error(t, err)

	snap := r.Snapshot()
	require.Equal(t, uint16(0), snap.Round)
}

func TestActionOutOfTurnIsRejected(t *testing.T) {
	r, _ := newTestRoom(t)

	require.NoError(t, r.SubmitEvent(Event{Type: EventJoin, UserID: 1, Nickname: "alice"}))
	require.NoError(t, r.SubmitEvent(Event{Type: EventJoin, UserID: 2, Nickname: "bob"}))
	require.NoError(t, r.SubmitEvent(Event{Type: EventStartGame, UserID: 1}))

	snap := r.Snapshot()
	var actingUser, otherUser uint64
	// Whichever chair is NOT the acting chair belongs to the user who must
	// be rejected for acting out of turn.
	for _, p := range snap.Players {
		if p.Chair == snap.ActionChair {
			actingUser = p.ID
		} else {
			otherUser = p.ID
		}
	}
	require.NotZero(t, actingUser)
	require.NotZero(t, otherUser)

	err := r.SubmitEvent(Event{Type: EventAction, UserID: otherUser, Action: holdem.PlayerActionTypeFold})
	require.Error(t, err)
}

func TestLeaveDuringActionFoldsSeat(t *testing.T) {
	r, _ := newTestRoom(t)

	require.NoError(t, r.SubmitEvent(Event{Type: EventJoin, UserID: 1, Nickname: "alice"}))
	require.NoError(t, r.SubmitEvent(Event{Type: EventJoin, UserID: 2, Nickname: "bob"}))
	require.NoError(t, r.SubmitEvent(Event{Type: EventStartGame, UserID: 1}))

	snap := r.Snapshot()
	var actingUser uint64
	for _, p := range snap.Players {
		if p.Chair == snap.ActionChair {
			actingUser = p.ID
		}
	}
	require.NotZero(t, actingUser)

	require.NoError(t, r.SubmitEvent(Event{Type: EventLeave, UserID: actingUser}))

	snap = r.Snapshot()
	require.Len(t, snap.Players, 1)
}

func TestRoomBecomesEmptyAfterLastLeave(t *testing.T) {
	fb := newFakeBroadcaster()
	var emptied string
	r, err := New("test-room-2", Config{
		Name:        "test",
		MaxPlayers:  6,
		SmallBlind:  50,
		BigBlind:    100,
		BettingMode: holdem.BettingModeNoLimit,
		BuyIn:       10000,
	}, fb, func(roomID string) { emptied = roomID })
	require.NoError(t, err)
	t.Cleanup(r.Stop)

	require.NoError(t, r.SubmitEvent(Event{Type: EventJoin, UserID: 1, Nickname: "alice"}))
	require.NoError(t, r.SubmitEvent(Event{Type: EventLeave, UserID: 1}))

	require.Equal(t, "test-room-2", emptied)
}

func TestChatIsBroadcast(t *testing.T) {
	r, fb := newTestRoom(t)

	require.NoError(t, r.SubmitEvent(Event{Type: EventJoin, UserID: 1, Nickname: "alice"}))
	require.NoError(t, r.SubmitEvent(Event{Type: EventChat, UserID: 1, Content: "hi"}))

	msg, ok := fb.last(1).(ChatMessage)
	require.True(t, ok)
	require.Equal(t, "chat", msg.Type)
	require.Equal(t, "hi", msg.Data.Content)
}

func TestChatTooLongIsRejected(t *testing.T) {
	r, _ := newTestRoom(t)
	require.NoError(t, r.SubmitEvent(Event{Type: EventJoin, UserID: 1, Nickname: "alice"}))

	longContent := make([]byte, 201)
	for i := range longContent {
		longContent[i] = 'a'
	}
	err := r.SubmitEvent(Event{Type: EventChat, UserID: 1, Content: string(longContent)})
	require.Error(t, err)
}
