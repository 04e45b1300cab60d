package room

import (
	"time"

	"holdemroom/card"
	"holdemroom/holdem"
)

// CardView is one card as sent over the wire: either a face-up rank/suit
// pair or a hidden marker for an opponent's unrevealed hole card.
type CardView struct {
	Hidden bool   `json:"hidden,omitempty"`
	Rank   string `json:"rank,omitempty"`
	Suit   string `json:"suit,omitempty"`
	Color  string `json:"color,omitempty"`
}

func cardView(c card.Card) CardView {
	return CardView{Rank: rankString(c.Rank()), Suit: suitString(c.Suit()), Color: suitColor(c.Suit())}
}

func hiddenCardView() CardView { return CardView{Hidden: true} }

func rankString(r byte) string {
	switch r {
	case 1:
		return "A"
	case 10:
		return "T"
	case 11:
		return "J"
	case 12:
		return "Q"
	case 13:
		return "K"
	default:
		return string(rune('0' + r))
	}
}

func suitString(s card.Suit) string {
	switch s {
	case card.Spade:
		return "s"
	case card.Heart:
		return "h"
	case card.Club:
		return "c"
	case card.Diamond:
		return "d"
	default:
		return "?"
	}
}

func suitColor(s card.Suit) string {
	if s == card.Heart || s == card.Diamond {
		return "red"
	}
	return "black"
}

// PlayerView is one seat's public state from a specific viewer's angle.
type PlayerView struct {
	Name       string     `json:"name"`
	Chips      int64      `json:"chips"`
	CurrentBet int64      `json:"current_bet"`
	IsDealer   bool       `json:"is_dealer"`
	IsSB       bool       `json:"is_sb"`
	IsBB       bool       `json:"is_bb"`
	IsSelf     bool       `json:"is_self"`
	IsCurrent  bool       `json:"is_current"`
	Folded     bool       `json:"folded"`
	AllIn      bool       `json:"all_in"`
	Hand       []CardView `json:"hand"`
}

// ActionHistoryEntry is one committed betting action, for the action log.
type ActionHistoryEntry struct {
	Seat   uint16 `json:"seat"`
	Kind   string `json:"kind"`
	Amount int64  `json:"amount"`
	Stage  string `json:"stage"`
}

// WinnerView names a pot's recipient, for the showdown summary.
type WinnerView struct {
	Name     string `json:"name"`
	Amount   int64  `json:"amount"`
	HandName string `json:"hand_name"`
}

// StateView is the full, viewer-personalised room snapshot sent after
// every accepted action or stage change.
type StateView struct {
	Stage           string               `json:"stage"`
	CommunityCards  []CardView           `json:"community_cards"`
	MainPot         int64                `json:"main_pot"`
	SidePots        []int64              `json:"side_pots"`
	SmallBlind      int64                `json:"small_blind"`
	BigBlind        int64                `json:"big_blind"`
	Ante            int64                `json:"ante"`
	BettingMode     string               `json:"betting_mode"`
	Players         []PlayerView         `json:"players"`
	IsMyTurn        bool                 `json:"is_my_turn"`
	ToCall          int64                `json:"to_call"`
	MinRaise        int64                `json:"min_raise"`
	MaxRaise        int64                `json:"max_raise"`
	CanRaise        bool                 `json:"can_raise"`
	HasBetThisRound bool                 `json:"has_bet_this_round"`
	RemainingTime   int                  `json:"remaining_time"`
	ActionHistory   []ActionHistoryEntry `json:"action_history"`
	Winners         []WinnerView         `json:"winners,omitempty"`
	IsRoomOwner     bool                 `json:"is_room_owner"`
	CanStart        bool                 `json:"can_start"`
}

// GameStateMessage is the outer server->client envelope for a StateView.
type GameStateMessage struct {
	Type string    `json:"type"`
	Data StateView `json:"data"`
}

// ChatPayload is the data carried by a "chat" server message.
type ChatPayload struct {
	PlayerName string `json:"player_name"`
	Content    string `json:"content"`
	MsgType    string `json:"msg_type"`
	Timestamp  int64  `json:"timestamp"`
}

// ChatMessage is the outer server->client envelope for a ChatPayload.
type ChatMessage struct {
	Type string      `json:"type"`
	Data ChatPayload `json:"data"`
}

// viewFor derives one viewer's personalised snapshot from the game's
// unredacted state: every other seat's hole cards are replaced with a
// hidden marker unless the hand is at showdown and that seat didn't fold.
func (r *Room) viewFor(viewerID uint64) GameStateMessage {
	snap := r.game.Snapshot()
	viewerSeat := r.players[viewerID]
	var viewerChair uint16 = holdem.InvalidChair
	if viewerSeat != nil {
		viewerChair = viewerSeat.chair
	}

	showdown := snap.Phase == holdem.PhaseTypeShowdown || snap.Phase == holdem.PhaseTypeRoundEnd
	if settle := r.game.LastSettlement(); snap.Phase == holdem.PhaseTypeRoundEnd && settle != nil && len(settle.PlayerResults) < 2 {
		// An uncontested hand never reached showdown.
		showdown = false
	}

	view := StateView{
		Stage:           holdem.PhaseTypeDictionary[snap.Phase],
		SmallBlind:      r.Config.SmallBlind,
		BigBlind:        r.Config.BigBlind,
		Ante:            r.Config.Ante,
		BettingMode:     holdem.BettingModeDictionary[snap.BettingMode],
		IsRoomOwner:     r.isOwner(viewerID),
		HasBetThisRound: snap.CurBet > 0,
	}

	for _, c := range snap.CommunityCards {
		view.CommunityCards = append(view.CommunityCards, cardView(c))
	}

	for i, pot := range snap.Pots {
		if i == 0 {
			view.MainPot = pot.Amount
		} else {
			view.SidePots = append(view.SidePots, pot.Amount)
		}
	}

	for _, ps := range snap.Players {
		pv := PlayerView{
			Name:       r.nameForChair(ps.Chair),
			Chips:      ps.Stack,
			CurrentBet: ps.Bet,
			IsDealer:   ps.Chair == snap.DealerChair,
			IsSB:       ps.Chair == snap.SmallBlindChair,
			IsBB:       ps.Chair == snap.BigBlindChair,
			IsSelf:     ps.Chair == viewerChair,
			IsCurrent:  ps.Chair == snap.ActionChair,
			Folded:     ps.Folded,
			AllIn:      ps.AllIn,
		}
		reveal := pv.IsSelf || (showdown && !ps.Folded)
		for _, c := range ps.HandCards {
			if reveal {
				pv.Hand = append(pv.Hand, cardView(c))
			} else {
				pv.Hand = append(pv.Hand, hiddenCardView())
			}
		}
		view.Players = append(view.Players, pv)
	}
	// snap.Players is already chair-ordered by Game.Snapshot, so view.Players
	// inherits that order without a separate sort.

	for _, a := range snap.ActionHistory {
		view.ActionHistory = append(view.ActionHistory, ActionHistoryEntry{
			Seat:   a.Chair,
			Kind:   holdem.PlayerActionTypeDictionary[a.Kind],
			Amount: a.Amount,
			Stage:  holdem.PhaseTypeDictionary[a.Stage],
		})
	}

	if viewerChair != holdem.InvalidChair {
		view.IsMyTurn = snap.ActionChair == viewerChair
		if view.IsMyTurn {
			legal, minRaise, maxRaise, err := r.game.LegalActions(viewerChair)
			if err == nil {
				view.MinRaise = minRaise
				view.MaxRaise = maxRaise
				view.CanRaise = hasAction(legal, holdem.PlayerActionTypeRaise) || hasAction(legal, holdem.PlayerActionTypeBet)
				for _, ps := range snap.Players {
					if ps.Chair == viewerChair {
						view.ToCall = snap.CurBet - ps.Bet
						if view.ToCall < 0 {
							view.ToCall = 0
						}
					}
				}
			}
			if !r.actionDeadline.IsZero() {
				remaining := int(time.Until(r.actionDeadline).Seconds())
				if remaining < 0 {
					remaining = 0
				}
				view.RemainingTime = remaining
			}
		}
	}

	snapAfterEnd := snap.Ended
	eligible := 0
	for _, p := range snap.Players {
		if p.Stack > 0 {
			eligible++
		}
	}
	view.CanStart = view.IsRoomOwner && eligible >= 2 && (snap.Round == 0 || snapAfterEnd)

	if snapAfterEnd {
		if settle := r.game.LastSettlement(); settle != nil {
			for _, pr := range settle.PlayerResults {
				if pr.WinAmount <= 0 {
					continue
				}
				handName := holdem.HandTypeDictionary[pr.HandType]
				if handName == "" {
					handName = "uncontested"
				}
				view.Winners = append(view.Winners, WinnerView{
					Name:     r.nameForChair(pr.Chair),
					Amount:   pr.WinAmount,
					HandName: handName,
				})
			}
		}
	}

	return GameStateMessage{Type: "game_state", Data: view}
}

func (r *Room) nameForChair(chair uint16) string {
	for id, s := range r.players {
		if s.chair == chair {
			return r.nickname(id)
		}
	}
	return "empty"
}

func (r *Room) broadcastState() {
	r.sessions.Broadcast(r.ID, r.seatedUserIDs(), func(userID uint64) any {
		return r.viewFor(userID)
	})
}
