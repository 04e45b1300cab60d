package holdem

import "holdemroom/card"

// Player is one seated participant's hand-scoped state: stack, current bet,
// hole cards, and the flags the engine needs to settle a hand.
type Player struct {
	ID    uint64
	Chair uint16
	Robot bool

	stack int64
	bet   int64

	allIn      bool
	folded     bool
	lastAction ActionType

	handCards card.CardList
}

func (p *Player) ChairID() uint16 { return p.Chair }
func (p *Player) IsRobot() bool   { return p.Robot }

func (p *Player) Stack() int64 { return p.stack }
func (p *Player) Bet() int64   { return p.bet }
func (p *Player) AllIn() bool  { return p.allIn }
func (p *Player) Folded() bool { return p.folded }
func (p *Player) Hand() []card.Card {
	return p.handCards
}

// ResetForNewHand clears every piece of state that does not survive across
// hands: bet, flags, hole cards. Stack and seating carry over untouched.
func (p *Player) ResetForNewHand() {
	p.bet = 0
	p.allIn = false
	p.folded = false
	p.lastAction = PlayerActionTypeNone
	p.handCards = make([]card.Card, 0, 2)
}

func (p *Player) AddHandCard(cards ...card.Card) {
	p.handCards = append(p.handCards, cards...)
}

func (p *Player) SetHandCard(cards card.CardList) {
	p.handCards = cards
}

func (p *Player) HandCards() card.CardList { return p.handCards }

func (p *Player) setLastAction(a ActionType) { p.lastAction = a }

// placeBet moves amount from stack to bet, clamping to the player's stack
// and marking all-in on a short push.
func (p *Player) placeBet(amount int64) {
	if amount <= 0 {
		return
	}
	if p.stack <= amount {
		p.allIn = true
		amount = p.stack
	}
	p.stack -= amount
	p.bet += amount
}

func (p *Player) addBet(amount int64) {
	p.bet += amount
}

func (p *Player) resetBet() {
	p.bet = 0
}

func (p *Player) addStack(amount int64) {
	p.stack += amount
}

func (p *Player) setFolded(v bool) { p.folded = v }

// PlayerNode is one seat in the table's circular seating ring. The ring
// links every occupied chair clockwise; Next wraps from the last seat back
// to the first.
type PlayerNode struct {
	Player  *Player
	ChairID uint16
	Next    *PlayerNode
}

// WalkOnce walks the ring starting at n for at most one full lap, stopping
// early when fn returns true. Returns the node fn stopped at, or nil if it
// never did.
func (n *PlayerNode) WalkOnce(fn func(*PlayerNode) bool) *PlayerNode {
	if n == nil {
		return nil
	}
	cur := n
	for {
		if fn(cur) {
			return cur
		}
		cur = cur.Next
		if cur == nil || cur == n {
			break
		}
	}
	return nil
}

// WalkAll walks the ring once, unconditionally visiting every node.
func (n *PlayerNode) WalkAll(fn func(cur *PlayerNode)) {
	n.WalkOnce(func(cur *PlayerNode) bool {
		fn(cur)
		return false
	})
}
