package room

import (
	"fmt"
	"time"

	"holdemroom/holdem"
)

func (r *Room) handleJoin(userID uint64, nickname string) error {
	now := time.Now()
	if s, ok := r.players[userID]; ok {
		s.online = true
		s.lastSeen = now
		if nickname != "" {
			s.nickname = nickname
		}
		r.broadcastState()
		return nil
	}

	s := &seat{
		userID:   userID,
		nickname: nickname,
		chair:    holdem.InvalidChair,
		online:   true,
		lastSeen: now,
	}
	r.players[userID] = s
	r.order = append(r.order, userID)

	if chair, ok := r.firstEmptyChair(); ok {
		if err := r.game.SitDown(chair, userID, r.Config.BuyIn, false); err == nil {
			s.chair = chair
		}
	}
	r.updateEmptySince(now)
	r.tryStartHand()
	r.broadcastState()
	return nil
}

func (r *Room) handleLeave(userID uint64) error {
	s := r.players[userID]
	if s == nil {
		return nil
	}

	snap := r.game.Snapshot()
	if s.chair != holdem.InvalidChair && snap.ActionChair == s.chair && !snap.Ended {
		// Treat a leaving acting seat as a fold before removing them.
		_, _ = r.game.Act(s.chair, holdem.PlayerActionTypeFold, 0)
	}

	if s.chair != holdem.InvalidChair {
		_ = r.game.StandUp(s.chair)
	}
	delete(r.players, userID)
	for i, id := range r.order {
		if id == userID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	now := time.Now()
	r.updateEmptySince(now)
	if len(r.players) == 0 {
		r.nextHandAt = time.Time{}
		if r.onEmpty != nil {
			r.onEmpty(r.ID)
		}
		return nil
	}
	r.broadcastState()
	return nil
}

func (r *Room) handleConnLost(userID uint64) error {
	s := r.players[userID]
	if s == nil {
		return nil
	}
	s.online = false
	s.lastSeen = time.Now()
	return nil
}

func (r *Room) handleConnResume(userID uint64, nickname string) error {
	s := r.players[userID]
	if s == nil {
		return fmt.Errorf("not a member of this room")
	}
	s.online = true
	s.lastSeen = time.Now()
	if nickname != "" {
		s.nickname = nickname
	}
	r.sessions.Send(userID, r.viewFor(userID))
	return nil
}

func (r *Room) handleStartGame(userID uint64) error {
	if !r.isOwner(userID) {
		return fmt.Errorf("only the room owner can start the game")
	}
	snap := r.game.Snapshot()
	if snap.Round > 0 && !snap.Ended {
		return fmt.Errorf("a hand is already in progress")
	}
	eligible := 0
	for _, p := range snap.Players {
		if p.Stack > 0 {
			eligible++
		}
	}
	if eligible < 2 {
		return fmt.Errorf("need at least 2 players with chips to start")
	}
	r.nextHandAt = time.Time{}
	return r.doStartHand()
}

func (r *Room) tryStartHand() {
	if r.nextHandAt.IsZero() || time.Now().Before(r.nextHandAt) {
		return
	}
	snap := r.game.Snapshot()
	if snap.Round != 0 && !snap.Ended && snap.Phase != holdem.PhaseTypeRoundEnd {
		return // hand already running
	}
	eligible := 0
	for _, p := range snap.Players {
		if p.Stack > 0 {
			eligible++
		}
	}
	if eligible < 2 {
		return
	}
	r.nextHandAt = time.Time{}
	_ = r.doStartHand()
}

func (r *Room) doStartHand() error {
	if err := r.game.StartHand(); err != nil {
		return err
	}
	r.round++
	r.actionDeadline = time.Time{}
	snap := r.game.Snapshot()
	if snap.ActionChair != holdem.InvalidChair {
		r.armActionTimer(snap.ActionChair)
	}
	r.broadcastState()
	return nil
}

func (r *Room) handleAction(userID uint64, action holdem.ActionType, amount int64) error {
	s := r.players[userID]
	if s == nil || s.chair == holdem.InvalidChair {
		return fmt.Errorf("not seated")
	}
	snap := r.game.Snapshot()
	if snap.ActionChair != s.chair {
		return fmt.Errorf("%w", holdem.ErrOutOfTurn)
	}
	switch action {
	case holdem.PlayerActionTypeCall:
		amount = snap.CurBet
	case holdem.PlayerActionTypeBet, holdem.PlayerActionTypeRaise:
		// Wire amount is the additive raise-by size; the engine's Act takes
		// the player's total bet-this-street (raise-to), matching the
		// convention the engine already uses internally for Call.
		amount = snap.CurBet + amount
	case holdem.PlayerActionTypeAllin:
		for _, ps := range snap.Players {
			if ps.Chair == s.chair {
				amount = ps.Stack + ps.Bet
				break
			}
		}
	}

	result, err := r.game.Act(s.chair, action, amount)
	if err != nil {
		return err
	}
	r.actionChair = holdem.InvalidChair
	r.actionDeadline = time.Time{}

	if result != nil {
		r.onHandEnd(result)
	} else {
		after := r.game.Snapshot()
		if after.ActionChair != holdem.InvalidChair {
			r.armActionTimer(after.ActionChair)
		}
	}
	r.broadcastState()
	return nil
}

func (r *Room) onHandEnd(result *holdem.SettlementResult) {
	if len(r.players) >= 2 {
		delay := foldHandDelay
		if len(result.PlayerResults) > 1 {
			delay = showdownHandDelay
		}
		r.nextHandAt = time.Now().Add(delay)
	}
}

func (r *Room) handleChat(userID uint64, content string) error {
	if len(content) > 200 {
		return fmt.Errorf("chat message too long")
	}
	r.chat = append(r.chat, chatMessage{
		PlayerName: r.nickname(userID),
		Content:    content,
		Timestamp:  time.Now(),
	})
	r.sessions.Broadcast(r.ID, r.seatedUserIDs(), func(uint64) any {
		return ChatMessage{
			Type: "chat",
			Data: ChatPayload{
				PlayerName: r.nickname(userID),
				Content:    content,
				MsgType:    "chat",
				Timestamp:  time.Now().UnixMilli(),
			},
		}
	})
	return nil
}

func (r *Room) armActionTimer(chair uint16) {
	r.actionChair = chair
	r.actionDeadline = time.Now().Add(actionTimeLimitSec * time.Second)
}

func (r *Room) checkActionTimeout(now time.Time) {
	if r.actionChair == holdem.InvalidChair || r.actionDeadline.IsZero() {
		return
	}
	if now.Before(r.actionDeadline) {
		return
	}
	chair := r.actionChair
	r.actionChair = holdem.InvalidChair
	r.actionDeadline = time.Time{}

	snap := r.game.Snapshot()
	if snap.ActionChair != chair {
		return
	}
	var userID uint64
	for id, s := range r.players {
		if s.chair == chair {
			userID = id
			break
		}
	}
	if userID == 0 {
		return
	}
	action, amount, err := r.pickTimeoutAction(chair, snap)
	if err != nil {
		return
	}
	_ = r.handleAction(userID, action, amount)
}

func (r *Room) pickTimeoutAction(chair uint16, snap holdem.Snapshot) (holdem.ActionType, int64, error) {
	legal, _, _, err := r.game.LegalActions(chair)
	if err != nil {
		return 0, 0, err
	}
	if hasAction(legal, holdem.PlayerActionTypeCheck) {
		return holdem.PlayerActionTypeCheck, 0, nil
	}
	if hasAction(legal, holdem.PlayerActionTypeFold) {
		return holdem.PlayerActionTypeFold, 0, nil
	}
	return 0, 0, fmt.Errorf("no disconnected-safe action available")
}

func hasAction(acts []holdem.ActionType, want holdem.ActionType) bool {
	for _, a := range acts {
		if a == want {
			return true
		}
	}
	return false
}

// releaseOfflineSeats stands up any seat that has been disconnected past
// offlineSeatTTL, but only between hands: mid-hand the action timer's
// auto-fold is the only mechanism that touches a disconnected seat, per
// the design decision against mid-hand sit-out seats.
func (r *Room) releaseOfflineSeats(now time.Time) {
	snap := r.game.Snapshot()
	if snap.Round != 0 && !snap.Ended {
		return
	}
	for _, s := range r.players {
		if s.online || s.chair == holdem.InvalidChair {
			continue
		}
		if now.Sub(s.lastSeen) < offlineSeatTTL {
			continue
		}
		_ = r.game.StandUp(s.chair)
		s.chair = holdem.InvalidChair
	}
}
