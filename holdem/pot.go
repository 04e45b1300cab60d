package holdem

import "sort"

// pot is one layer of the side-pot ladder: an amount and the chairs still
// live enough to contest it.
type pot struct {
	amount          int64
	eligiblePlayers map[uint16]bool
}

// potManager owns every pot built so far this hand, plus the bookkeeping
// for the most recent uncalled-bet refund.
type potManager struct {
	pots         []pot
	excessChair  uint16
	excessAmount int64
}

func (pm *potManager) resetPots() {
	pm.pots = make([]pot, 0)
	pm.excessChair = 0
	pm.excessAmount = 0
}

// totalPotAmount sums every pot already collected this hand; used by the
// pot-limit raise-bound calculation.
func (pm *potManager) totalPotAmount() int64 {
	var total int64
	for _, p := range pm.pots {
		total += p.amount
	}
	return total
}

// calcPotsByPlayerBets folds one street's committed bets into the pot
// ladder and refunds whatever the street's biggest bet went uncalled.
func (pm *potManager) calcPotsByPlayerBets(playersWithBets []*Player) {
	byAscendingBet(playersWithBets)
	pm.layerBetsIntoPots(playersWithBets)
	pm.refundUncalledTopBet(playersWithBets)
}

func byAscendingBet(players []*Player) {
	sort.Slice(players, func(i, j int) bool { return players[i].Bet() < players[j].Bet() })
}

// layerBetsIntoPots walks the sorted contribution levels from smallest to
// largest: each level spans every player whose bet reached it, contributes
// the gap since the previous level, and is eligible to everyone in that
// span who hasn't folded. Adjacent levels sharing the same eligible set
// collapse into one pot.
func (pm *potManager) layerBetsIntoPots(playersWithBets []*Player) {
	var floor int64
	for i, p := range playersWithBets {
		step := p.Bet() - floor
		if step <= 0 {
			continue
		}
		layer := buildPotLayer(playersWithBets[i:], floor, step)
		pm.appendOrMergeLayer(layer)
		floor += step
	}
}

// buildPotLayer sums the contribution every player in span makes to one
// betting level (capped at that player's own remaining bet above floor)
// and collects which of them are still live to win it.
func buildPotLayer(span []*Player, floor, step int64) pot {
	layer := pot{eligiblePlayers: make(map[uint16]bool)}
	for _, p := range span {
		contribution := step
		if remaining := p.Bet() - floor; contribution > remaining {
			contribution = remaining
		}
		layer.amount += contribution
		if !p.Folded() {
			layer.eligiblePlayers[p.ChairID()] = true
		}
	}
	return layer
}

// appendOrMergeLayer folds layer into the last pot when their eligible
// sets match exactly, otherwise appends it as a new side pot. A layer with
// at most one eligible player is uncontested and carries no pot of its
// own.
func (pm *potManager) appendOrMergeLayer(layer pot) {
	if last := pm.lastPot(); last != nil && sameEligibility(last.eligiblePlayers, layer.eligiblePlayers) {
		last.amount += layer.amount
		return
	}
	if len(layer.eligiblePlayers) > 1 {
		pm.pots = append(pm.pots, layer)
	}
}

func (pm *potManager) lastPot() *pot {
	if len(pm.pots) == 0 {
		return nil
	}
	return &pm.pots[len(pm.pots)-1]
}

func sameEligibility(a, b map[uint16]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for chair := range b {
		if !a[chair] {
			return false
		}
	}
	return true
}

// refundUncalledTopBet hands back the part of the largest bet that
// nobody else matched: the difference between the top two bets, returned
// to the top bettor's stack rather than potted.
func (pm *potManager) refundUncalledTopBet(playersWithBets []*Player) {
	pm.excessChair = 0
	pm.excessAmount = 0
	if len(playersWithBets) == 0 {
		return
	}

	top := playersWithBets[len(playersWithBets)-1]
	var runnerUp int64
	if len(playersWithBets) > 1 {
		runnerUp = playersWithBets[len(playersWithBets)-2].Bet()
	}

	excess := top.Bet() - runnerUp
	if excess <= 0 {
		return
	}
	top.addStack(excess)
	top.addBet(-excess)
	pm.excessChair = top.ChairID()
	pm.excessAmount = excess
}
