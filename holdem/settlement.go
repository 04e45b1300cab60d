package holdem

import (
	"holdemroom/card"
	"sort"
)

// ShowdownPlayerResult is one player's evaluated hand and winnings.
type ShowdownPlayerResult struct {
	Chair             uint16
	HandType          byte
	HandScore         uint32
	HandCards         []card.Card // the 2 hole cards
	BestFiveCards     []card.Card // best 5-card hand
	AllCards          []card.Card // 7 cards (hole + board)
	IsWinner          bool
	WinAmount         int64
	BestFiveCardIndex [5]int
}

type PotResult struct {
	Amount     int64
	Winners    []uint16
	WinAmounts []int64
}

type SettlementResult struct {
	PlayerResults []ShowdownPlayerResult
	PotResults    []PotResult
	ExcessChair   uint16
	ExcessAmount  int64
}

// SettleShowdown distributes the pots. Callers must have the board dealt
// out to 5 cards first.
func (g *Game) SettleShowdown() (*SettlementResult, error) {
	if g.noShowDown {
		return g.settleNoShowdown()
	}
	return g.settleByEval()
}

func (g *Game) settleByEval() (*SettlementResult, error) {
	results, err := g.evaluateShowdownHands()
	if err != nil {
		return nil, err
	}

	out := &SettlementResult{
		PotResults:   make([]PotResult, 0, len(g.potManager.pots)),
		ExcessChair:  g.potManager.excessChair,
		ExcessAmount: g.potManager.excessAmount,
	}
	for _, pot := range g.potManager.pots {
		winners := bestHandHolders(pot.eligiblePlayers, results)
		out.PotResults = append(out.PotResults, g.distributePotLocked(pot, winners, results))
	}

	out.PlayerResults = make([]ShowdownPlayerResult, 0, len(results))
	for _, r := range results {
		out.PlayerResults = append(out.PlayerResults, *r)
	}
	sort.Slice(out.PlayerResults, func(i, j int) bool { return out.PlayerResults[i].Chair < out.PlayerResults[j].Chair })
	return out, nil
}

// evaluateShowdownHands scores every player who saw the river without
// folding. A player who never got dealt in is silently excluded rather
// than erroring, since they hold no claim on any pot.
func (g *Game) evaluateShowdownHands() (map[uint16]*ShowdownPlayerResult, error) {
	results := make(map[uint16]*ShowdownPlayerResult, len(g.playersByChair))
	for chair, p := range g.playersByChair {
		if p == nil || p.folded || len(p.HandCards()) != 2 {
			continue
		}
		all := make(card.CardList, 0, 7)
		all = append(all, p.HandCards()...)
		all = append(all, g.communityCards...)
		if len(all) != 7 {
			return nil, ErrInvalidState("need 7 cards to evaluate")
		}
		eval := EvalBestOf7(all)
		if eval == nil {
			return nil, ErrInvalidState("eval failed")
		}
		bestFive := make([]card.Card, 0, 5)
		for _, i := range eval.BestIndex {
			bestFive = append(bestFive, all[i])
		}
		results[chair] = &ShowdownPlayerResult{
			Chair:             chair,
			HandType:          eval.HandType,
			HandScore:         eval.Score,
			HandCards:         append([]card.Card{}, p.HandCards()...),
			BestFiveCards:     bestFive,
			AllCards:          append([]card.Card{}, all...),
			BestFiveCardIndex: eval.BestIndex,
		}
	}
	return results, nil
}

// bestHandHolders returns, in ascending chair order, every chair in
// eligible whose evaluated hand ties for best among eligible hands.
func bestHandHolders(eligible map[uint16]bool, results map[uint16]*ShowdownPlayerResult) []uint16 {
	chairs := getMapKeys(eligible)
	if len(chairs) == 0 {
		return nil
	}
	sort.Slice(chairs, func(i, j int) bool { return chairs[i] < chairs[j] })

	var bestScore uint32
	haveBest := false
	for _, ch := range chairs {
		r := results[ch]
		if r == nil {
			continue
		}
		if !haveBest || r.HandScore > bestScore {
			bestScore = r.HandScore
			haveBest = true
		}
	}
	if !haveBest {
		return nil
	}

	holders := make([]uint16, 0, len(chairs))
	for _, ch := range chairs {
		if r := results[ch]; r != nil && r.HandScore == bestScore {
			holders = append(holders, ch)
		}
	}
	return holders
}

// distributePotLocked splits one pot evenly across winners and hands any
// odd remainder chip to the winner seated nearest clockwise from the
// dealer button, per the table's tie-break rule.
func (g *Game) distributePotLocked(pot pot, winners []uint16, results map[uint16]*ShowdownPlayerResult) PotResult {
	if len(winners) == 0 || pot.amount <= 0 {
		return PotResult{Amount: pot.amount}
	}

	share := pot.amount / int64(len(winners))
	remainder := pot.amount % int64(len(winners))
	oddChipIdx := clockwiseFromButton(winners, g.buttonChairLocked(), g.cfg.MaxPlayers)

	pr := PotResult{Amount: pot.amount, Winners: append([]uint16{}, winners...)}
	for i, w := range winners {
		amt := share
		if i == oddChipIdx {
			amt += remainder
		}
		pr.WinAmounts = append(pr.WinAmounts, amt)

		if p := g.playersByChair[w]; p != nil {
			p.addStack(amt)
		}
		if r := results[w]; r != nil {
			r.IsWinner = true
			r.WinAmount += amt
		}
	}
	return pr
}

func (g *Game) buttonChairLocked() uint16 {
	if g.dealerNode == nil {
		return 0
	}
	return g.dealerNode.ChairID
}

// clockwiseFromButton returns the index into winners (assumed chair-
// ascending) of the chair reached first walking clockwise from button+1.
// The button's own seat is treated as a full lap away, so a tied button
// only takes the remainder when no other winner sits closer.
func clockwiseFromButton(winners []uint16, button uint16, seats int) int {
	best, bestDist := 0, seats+1
	for i, w := range winners {
		dist := int(w) - int(button)
		if dist <= 0 {
			dist += seats
		}
		if dist < bestDist {
			bestDist, best = dist, i
		}
	}
	return best
}

func (g *Game) settleNoShowdown() (*SettlementResult, error) {
	winner := g.soleRemainingPlayerLocked()
	if winner == nil {
		return nil, ErrInvalidState("no winner in no-showdown state")
	}

	excess := g.refundUnmatchedBetLocked(winner)

	total := int64(0)
	for _, p := range g.playersByChair {
		if p != nil {
			total += p.Bet()
		}
	}
	for _, pot := range g.potManager.pots {
		total += pot.amount
	}

	winner.addStack(total)
	for _, p := range g.playersByChair {
		if p != nil {
			p.resetBet()
		}
	}

	return &SettlementResult{
		PlayerResults: []ShowdownPlayerResult{
			{Chair: winner.ChairID(), IsWinner: true, WinAmount: total},
		},
		PotResults: []PotResult{
			{Amount: total, Winners: []uint16{winner.ChairID()}, WinAmounts: []int64{total}},
		},
		ExcessChair:  winner.ChairID(),
		ExcessAmount: excess,
	}, nil
}

func (g *Game) soleRemainingPlayerLocked() *Player {
	for _, p := range g.playersByChair {
		if p != nil && !p.folded {
			return p
		}
	}
	return nil
}

// refundUnmatchedBetLocked hands back the portion of the last aggressor's
// bet nobody else called, when everyone else folded in response to it.
func (g *Game) refundUnmatchedBetLocked(winner *Player) int64 {
	var maxBet, secondMax int64
	for _, p := range g.playersByChair {
		if p == nil {
			continue
		}
		b := p.Bet()
		if b > maxBet {
			secondMax = maxBet
			maxBet = b
		} else if b > secondMax || b == maxBet {
			secondMax = b
		}
	}

	if winner.Bet() != maxBet || maxBet <= secondMax {
		return 0
	}
	excess := maxBet - secondMax
	winner.addStack(excess)
	winner.addBet(-excess)
	return excess
}
