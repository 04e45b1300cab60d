package holdem

import (
	"sort"

	"holdemroom/card"
)

// shuffle refills stockCards with a freshly shuffled 52-card deck, or with
// Config.DeckOverride verbatim when a test has pinned the deck order.
func (g *Game) shuffle() {
	if len(g.cfg.DeckOverride) > 0 {
		cards := make([]card.Card, len(g.cfg.DeckOverride))
		copy(cards, g.cfg.DeckOverride)
		g.stockCards.Init(cards)
		return
	}
	cards := make([]card.Card, len(HoldemCards))
	copy(cards, HoldemCards)
	g.rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	g.stockCards.Init(cards)
}

// selectDealer moves the button. On the table's first hand it seats the
// button at Config.ForcedDealerChair when set (so tests get a
// deterministic seating order), otherwise at a random occupied chair;
// every later hand it walks to the next occupied seat clockwise. If the
// previous button's player stood up between hands, the button is placed as
// on the first hand.
func (g *Game) selectDealer() {
	if len(g.chairIDNodes) == 0 {
		g.dealerNode = nil
		return
	}

	if g.round == 1 || g.dealerNode == nil {
		g.dealerNode = g.firstDealerSeat()
		return
	}

	// Walk clockwise from the previous button's chair, skipping chairs that
	// are not in this hand's ring (empty or busted).
	prev := int(g.dealerNode.ChairID)
	for step := 1; step <= g.cfg.MaxPlayers; step++ {
		if n, ok := g.chairIDNodes[uint16((prev+step)%g.cfg.MaxPlayers)]; ok {
			g.dealerNode = n
			return
		}
	}
	g.dealerNode = g.randomOccupiedSeat()
}

func (g *Game) firstDealerSeat() *PlayerNode {
	if g.cfg.ForcedDealerChair != nil {
		if n, ok := g.chairIDNodes[*g.cfg.ForcedDealerChair]; ok {
			return n
		}
	}
	return g.randomOccupiedSeat()
}

func (g *Game) randomOccupiedSeat() *PlayerNode {
	nodes := make([]*PlayerNode, 0, len(g.chairIDNodes))
	for _, n := range g.chairIDNodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ChairID < nodes[j].ChairID })
	return nodes[g.rng.Intn(len(nodes))]
}

// selectBlindsByDealer assigns SB/BB and the first-to-act seat relative to
// dealer. Heads-up poker reverses the usual roles: the button also posts
// the small blind and acts first preflop.
func (g *Game) selectBlindsByDealer(dealer *PlayerNode) {
	if dealer == nil {
		return
	}
	g.dealerNode = dealer
	if g.activeCount == 2 {
		g.smallBlindNode = dealer
		g.bigBlindNode = dealer.Next
		g.curNode = dealer
		return
	}
	g.smallBlindNode = dealer.Next
	g.bigBlindNode = g.smallBlindNode.Next
	g.curNode = g.bigBlindNode.Next
}

// dealHoleCards deals two cards to every player in this hand's seating
// ring, one card per player per pass starting from the small blind (left
// of the button, or the button itself heads-up), matching how cards are
// actually dealt around a table.
func (g *Game) dealHoleCards() {
	if g.smallBlindNode == nil {
		return
	}
	for pass := 0; pass < 2; pass++ {
		g.smallBlindNode.WalkAll(func(cur *PlayerNode) {
			cards, ok := g.stockCards.PopCards(1)
			if !ok {
				panic("deck underflow")
			}
			cur.Player.AddHandCard(cards...)
		})
	}
}

// dealCommunityCardsLocked deals however many board cards the current
// phase calls for: three on the flop, one each on the turn and river, and
// whatever's still missing when a hand runs straight to showdown without
// seeing every street.
func (g *Game) dealCommunityCardsLocked() {
	var want int
	switch g.phase {
	case PhaseTypeFlop:
		want = 3
	case PhaseTypeTurn, PhaseTypeRiver:
		want = 1
	case PhaseTypeShowdown:
		want = 5 - len(g.communityCards)
	}
	if want <= 0 {
		return
	}
	if cards, ok := g.stockCards.PopCards(want); ok {
		g.communityCards = append(g.communityCards, cards...)
	}
}

// autoBetAntes collects the configured ante from every player with a
// stack, and reports whether at most one player still has chips behind
// afterwards, so no betting round is possible.
func (g *Game) autoBetAntes() bool {
	if g.cfg.Ante == 0 {
		return false
	}
	covered := 0
	for _, p := range g.playersByChair {
		if p == nil || p.stack <= 0 {
			continue
		}
		p.placeBet(g.cfg.Ante)
		if p.stack > 0 {
			covered++
		}
	}
	g.allinCount = g.activeCount - covered
	g.collectBetsLocked()
	return covered <= 1
}

// autoBetBlinds posts SB and BB, seeds curBet/MinRaise for the preflop
// round, and reports whether the blinds alone put every active player
// all-in (no betting round is possible).
func (g *Game) autoBetBlinds() bool {
	if g.smallBlindNode != nil && g.smallBlindNode.Player.stack > 0 && g.cfg.SmallBlind > 0 {
		g.smallBlindNode.Player.placeBet(g.cfg.SmallBlind)
		if g.smallBlindNode.Player.stack <= 0 {
			g.allinCount++
		}
	}
	if g.bigBlindNode != nil && g.bigBlindNode.Player.stack > 0 {
		g.bigBlindNode.Player.placeBet(g.cfg.BigBlind)
		if g.bigBlindNode.Player.stack <= 0 {
			g.allinCount++
		}
	}

	if g.activeCount == g.allinCount {
		return true
	}

	g.lastPlayerAction = PlayerActionTypeBet
	g.MinRaise = g.cfg.BigBlind
	g.curBet = g.cfg.BigBlind
	return false
}
