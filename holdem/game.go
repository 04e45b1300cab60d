package holdem

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"holdemroom/card"
)

// Game is a single table's hand engine: seating, deck, betting rounds, and
// showdown. All mutation happens under mu; callers interact through
// SitDown/StandUp/StartHand/Act/LegalActions/Snapshot.
//
// Turn-order and phase-transition bookkeeping lives in turn.go; deck,
// dealer-button and forced-bet mechanics live in dealing.go. This file
// holds the seat lifecycle and the one entry point through which a client
// action reaches the engine.
type Game struct {
	cfg Config
	rng *rand.Rand

	mu sync.Mutex

	// seats
	playersByChair map[uint16]*Player
	chairIDNodes   map[uint16]*PlayerNode

	// hand state
	round          uint16
	phase          Phase
	communityCards card.CardList
	stockCards     card.CardList

	dealerNode     *PlayerNode
	smallBlindNode *PlayerNode
	bigBlindNode   *PlayerNode
	curNode        *PlayerNode

	activeCount int
	allinCount  int

	// Explicit betting-round state.
	NeedActionCount int    // players still required to act this street
	MinRaise        int64  // minimum legal raise size (delta over curBet)
	CurrentRaiser   uint16 // chair whose bet/raise last reopened the action

	curBet           int64
	lastPlayerAction ActionType
	validActions     []ActionType
	streetRaiseCount int // aggressive actions counted toward the Limit raise cap
	actionHistory    []ActionRecord

	noShowDown bool
	ended      bool

	potManager potManager

	lastSettlement *SettlementResult
}

func NewGame(cfg Config) (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Game{
		cfg:            cfg,
		rng:            rand.New(rand.NewSource(seed)),
		playersByChair: make(map[uint16]*Player, cfg.MaxPlayers),
		chairIDNodes:   make(map[uint16]*PlayerNode, cfg.MaxPlayers),
		phase:          PhaseTypeAnte,
		CurrentRaiser:  InvalidChair,
	}
	g.potManager.resetPots()
	return g, nil
}

// SitDown seats a player with initial stack.
func (g *Game) SitDown(chair uint16, playerID uint64, stack int64, robot bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if chair >= uint16(g.cfg.MaxPlayers) {
		return fmt.Errorf("invalid chair %d", chair)
	}
	if stack < 0 {
		return fmt.Errorf("stack must be >= 0")
	}
	if g.playersByChair[chair] != nil {
		return fmt.Errorf("chair %d already occupied", chair)
	}
	g.playersByChair[chair] = &Player{
		ID:    playerID,
		Chair: chair,
		Robot: robot,
		stack: stack,
	}
	return nil
}

// StandUp removes a player from a chair between hands.
func (g *Game) StandUp(chair uint16) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if chair >= uint16(g.cfg.MaxPlayers) {
		return fmt.Errorf("invalid chair %d", chair)
	}
	if g.playersByChair[chair] == nil {
		return fmt.Errorf("chair %d is empty", chair)
	}
	// Keep gameplay state deterministic: no seat mutation during an active hand.
	if g.round > 0 && !g.ended {
		return ErrHandInProgress
	}

	delete(g.playersByChair, chair)
	delete(g.chairIDNodes, chair)

	for _, node := range []**PlayerNode{&g.dealerNode, &g.smallBlindNode, &g.bigBlindNode, &g.curNode} {
		if *node != nil && (*node).ChairID == chair {
			*node = nil
		}
	}

	return nil
}

func (g *Game) Player(chair uint16) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.playersByChair[chair]
}

// StartHand deals a new hand at this table: resets per-hand state, builds
// the seating ring from every chair with a live stack, shuffles, moves the
// button, posts antes and blinds, and leaves the engine ready for the
// first voluntary action (or immediately settles an all-in-before-flop
// hand straight to showdown).
func (g *Game) StartHand() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	active, err := g.resetHandStateLocked()
	if err != nil {
		return err
	}
	g.buildSeatingRingLocked(active)

	g.shuffle()
	g.selectDealer()
	g.selectBlindsByDealer(g.dealerNode)
	g.dealHoleCards()

	g.phase = PhaseTypeAnte
	if g.autoBetAntes() {
		return g.settleStraightToShowdownLocked()
	}

	bbAllCovered := g.autoBetBlinds()
	if bbAllCovered {
		return g.settleStraightToShowdownLocked()
	}

	// Skip past any seat that shoved its whole stack posting blinds/antes.
	g.curNode = g.curNode.WalkOnce(func(cur *PlayerNode) bool {
		return cur.Player.stack > 0 && !cur.Player.folded
	})

	g.phase = PhaseTypePreflop
	g.onPhaseStartLocked()
	return nil
}

// resetHandStateLocked clears every field that doesn't survive between
// hands and returns the chairs eligible to play this one.
func (g *Game) resetHandStateLocked() ([]*Player, error) {
	g.ended = false
	g.lastSettlement = nil
	g.noShowDown = false
	g.communityCards = nil

	active := make([]*Player, 0, g.cfg.MaxPlayers)
	for chair := uint16(0); chair < uint16(g.cfg.MaxPlayers); chair++ {
		p := g.playersByChair[chair]
		if p == nil {
			continue
		}
		// Busted seats sit the hand out but still drop last hand's cards.
		p.ResetForNewHand()
		if p.stack <= 0 {
			continue
		}
		active = append(active, p)
	}
	if len(active) < g.cfg.MinPlayers {
		return nil, fmt.Errorf("not enough players: %d < %d", len(active), g.cfg.MinPlayers)
	}

	g.round++
	g.potManager.resetPots()
	g.activeCount = len(active)
	g.allinCount = 0
	g.curBet = 0
	g.MinRaise = 0
	g.NeedActionCount = 0
	g.CurrentRaiser = InvalidChair
	g.lastPlayerAction = PlayerActionTypeNone
	g.streetRaiseCount = 0
	g.actionHistory = nil
	return active, nil
}

// buildSeatingRingLocked rebuilds the circular turn-order ring from the
// chairs in active, in ascending chair order.
func (g *Game) buildSeatingRingLocked(active []*Player) {
	g.chairIDNodes = make(map[uint16]*PlayerNode, len(active))
	var first, last *PlayerNode
	for chair := uint16(0); chair < uint16(g.cfg.MaxPlayers); chair++ {
		p := g.playersByChair[chair]
		if p == nil || p.stack <= 0 {
			continue
		}
		node := &PlayerNode{ChairID: chair, Player: p}
		g.chairIDNodes[chair] = node
		if first == nil {
			first = node
		}
		if last != nil {
			last.Next = node
		}
		last = node
	}
	if first != nil && last != nil {
		last.Next = first
	}
}

// settleStraightToShowdownLocked is the path taken when antes or blinds
// alone cover every remaining stack: no betting round is possible, so the
// hand runs the board out and settles immediately.
func (g *Game) settleStraightToShowdownLocked() error {
	if err := g.advanceToShowdownLocked(); err != nil {
		return err
	}
	_, err := g.endHandLocked()
	return err
}

// LegalActions is a pure projection of current state: the actions chair may
// take right now, and the legal raise-to window under the table's betting
// mode.
func (g *Game) LegalActions(chair uint16) (acts []ActionType, minRaiseTo int64, maxRaiseTo int64, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ended {
		return nil, 0, 0, ErrHandEnded
	}
	p := g.playersByChair[chair]
	if p == nil {
		return nil, 0, 0, fmt.Errorf("player not found")
	}
	acts = g.calcNextValidActions(p)
	bounds := g.raiseBounds(p)
	minRaiseTo = bounds.minRaiseTo
	if !bounds.fixedSize && (g.lastPlayerAction == PlayerActionTypeNone || g.lastPlayerAction == PlayerActionTypeCheck) {
		// min bet is big blind when no bet yet (Limit keeps its fixed size)
		minRaiseTo = g.cfg.BigBlind
	}
	return acts, minRaiseTo, bounds.maxRaiseTo, nil
}

// Act applies an action for the current player.
// amount is the player's total bet-this-street target, matching the
// convention used by legal-action reporting.
// A non-nil return means the hand ended and was settled.
func (g *Game) Act(chair uint16, action ActionType, amount int64) (handEnd *SettlementResult, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ended {
		return nil, ErrHandEnded
	}
	if g.curNode == nil || g.curNode.Player == nil {
		return nil, ErrInvalidState("no current player")
	}
	if chair != g.curNode.ChairID {
		return nil, ErrOutOfTurn
	}

	player := g.curNode.Player
	if !actionIsLegal(g.calcNextValidActions(player), action) {
		return nil, fmt.Errorf("invalid action %s", PlayerActionTypeDictionary[action])
	}

	action, amount, err = g.normalizeActionLocked(player, action, amount)
	if err != nil {
		return nil, err
	}

	if amount > g.curBet {
		if err := g.applyAggressiveActionLocked(chair, player, action, amount); err != nil {
			return nil, err
		}
	}

	if err := g.settleChipsLocked(chair, player, action, amount); err != nil {
		return nil, err
	}
	if g.activeCount <= 1 && action == PlayerActionTypeFold {
		g.noShowDown = true
		return g.endHandLocked()
	}

	if action != PlayerActionTypeFold {
		g.lastPlayerAction = action
	}
	g.actionHistory = append(g.actionHistory, ActionRecord{
		Chair:  chair,
		Kind:   action,
		Amount: player.bet,
		Stage:  g.phase,
	})

	g.NeedActionCount--
	nextNode, bettingEnd := g.calcNextActionPosAndBettingEndLocked()
	g.curNode = nextNode

	if !bettingEnd {
		if g.curNode == nil || g.curNode.Player == nil {
			return nil, ErrInvalidState("next player not found")
		}
		g.validActions = g.calcNextValidActions(g.curNode.Player)
		return nil, nil
	}

	g.validActions = nil
	g.collectBetsLocked()

	if g.checkDirectShowdownLocked() || g.phase == PhaseTypeRiver {
		if err := g.advanceToShowdownLocked(); err != nil {
			return nil, err
		}
		return g.endHandLocked()
	}

	g.phase++
	g.dealCommunityCardsLocked()
	g.onPhaseStartLocked()
	return nil, nil
}

func actionIsLegal(legal []ActionType, action ActionType) bool {
	for _, a := range legal {
		if a == action {
			return true
		}
	}
	return false
}

// normalizeActionLocked clamps a client-supplied amount to what the rules
// actually allow: a check always reports the player's already-committed
// bet, and any amount that would exceed the player's stack converts the
// action to an all-in for the stack's true size.
func (g *Game) normalizeActionLocked(player *Player, action ActionType, amount int64) (ActionType, int64, error) {
	if action == PlayerActionTypeCheck {
		amount = player.bet
	} else if amount < player.bet && action != PlayerActionTypeFold {
		return action, amount, fmt.Errorf("invalid amount %d < current bet %d", amount, player.bet)
	}
	if amount-player.bet > player.stack {
		amount = player.stack + player.bet
		action = PlayerActionTypeAllin
	}
	return action, amount, nil
}

// applyAggressiveActionLocked handles the bookkeeping for an amount that
// raises the street's current bet: bound-checking against the table's
// betting mode, and — when the raise actually reopens the action — moving
// MinRaise/CurrentRaiser and counting it toward the Limit raise cap.
func (g *Game) applyAggressiveActionLocked(chair uint16, player *Player, action ActionType, amount int64) error {
	bounds := g.raiseBounds(player)
	reopensAction := true

	if bounds.fixedSize && (action == PlayerActionTypeBet || action == PlayerActionTypeRaise) && amount != bounds.maxRaiseTo {
		return fmt.Errorf("%w: limit bet/raise must be to exactly %d", ErrIllegalAction, bounds.maxRaiseTo)
	}

	switch action {
	case PlayerActionTypeAllin:
		// A short all-in still closes the action but doesn't reopen it.
		if amount-g.curBet < g.MinRaise {
			reopensAction = false
		}
	case PlayerActionTypeBet:
		if amount-g.curBet < g.cfg.BigBlind {
			return fmt.Errorf("%w: bet below minimum", ErrIllegalAction)
		}
		if amount > bounds.maxRaiseTo {
			return fmt.Errorf("%w: bet exceeds table limit", ErrIllegalAction)
		}
	case PlayerActionTypeRaise:
		if amount-g.curBet < g.MinRaise {
			return fmt.Errorf("%w: raise below minimum", ErrIllegalAction)
		}
		if amount > bounds.maxRaiseTo {
			return fmt.Errorf("%w: raise exceeds table limit", ErrIllegalAction)
		}
	}

	if reopensAction {
		g.MinRaise = amount - g.curBet
		g.CurrentRaiser = chair
		if action == PlayerActionTypeBet || action == PlayerActionTypeRaise || action == PlayerActionTypeAllin {
			g.streetRaiseCount++
		}
	}
	g.curBet = amount
	g.setNeedActionCountLocked()
	return nil
}

// settleChipsLocked moves chips per the action's kind once sizing and
// bound-checks already passed.
func (g *Game) settleChipsLocked(chair uint16, player *Player, action ActionType, amount int64) error {
	player.setLastAction(action)
	switch action {
	case PlayerActionTypeBet, PlayerActionTypeRaise:
		player.placeBet(amount - player.bet)
	case PlayerActionTypeCall:
		if amount != g.curBet {
			available := player.stack + player.bet
			if available <= g.curBet {
				return fmt.Errorf("invalid call amount")
			}
			amount = g.curBet
		}
		player.placeBet(amount - player.bet)
	case PlayerActionTypeCheck:
		// no-op
	case PlayerActionTypeFold:
		player.setFolded(true)
		g.activeCount--
		for i := range g.potManager.pots {
			delete(g.potManager.pots[i].eligiblePlayers, chair)
		}
	case PlayerActionTypeAllin:
		player.placeBet(player.stack)
		g.allinCount++
	}
	return nil
}

// LastSettlement returns the most recent hand's settlement result, or nil
// if no hand has ended yet.
func (g *Game) LastSettlement() *SettlementResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastSettlement
}
