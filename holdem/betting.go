package holdem

// This file isolates the bet/raise sizing rules for the three betting
// structures from the turn-order and showdown logic in game.go.

// bettingBounds describes the legal raise-to window for the player
// currently acting, expressed as total-bet-this-street amounts (the same
// convention Game.Act uses for its amount argument).
type bettingBounds struct {
	minRaiseTo int64
	maxRaiseTo int64
	fixedSize  bool // Limit mode: minRaiseTo == maxRaiseTo, no free choice.
}

// fixedLimitBetSize returns the single legal bet/raise increment for Limit
// betting: one big blind pre-flop and flop, two big blinds turn and river.
func (g *Game) fixedLimitBetSize() int64 {
	switch g.phase {
	case PhaseTypeTurn, PhaseTypeRiver:
		return g.cfg.BigBlind * 2
	default:
		return g.cfg.BigBlind
	}
}

// raiseBounds computes the legal raise-to window for p under the table's
// configured betting mode. available is the most p could ever put in
// (remaining stack plus what's already committed this street).
func (g *Game) raiseBounds(p *Player) bettingBounds {
	available := p.stack + p.bet
	minRaiseTo := g.curBet + g.MinRaise
	if minRaiseTo > available {
		minRaiseTo = available
	}

	switch g.cfg.BettingMode {
	case BettingModeLimit:
		step := g.fixedLimitBetSize()
		fixedTo := g.curBet + step
		if fixedTo > available {
			fixedTo = available
		}
		return bettingBounds{minRaiseTo: fixedTo, maxRaiseTo: fixedTo, fixedSize: true}

	case BettingModePotLimit:
		callAmount := g.curBet - p.bet
		if callAmount < 0 {
			callAmount = 0
		}
		potAfterCall := g.potManager.totalPotAmount() + g.streetBetsTotal() + callAmount
		maxRaiseTo := g.curBet + potAfterCall
		if maxRaiseTo > available {
			maxRaiseTo = available
		}
		if minRaiseTo > maxRaiseTo {
			minRaiseTo = maxRaiseTo
		}
		return bettingBounds{minRaiseTo: minRaiseTo, maxRaiseTo: maxRaiseTo}

	default: // BettingModeNoLimit
		return bettingBounds{minRaiseTo: minRaiseTo, maxRaiseTo: available}
	}
}

// streetBetsTotal sums every seated player's current-street bet, i.e. the
// chips not yet folded into potManager.pots.
func (g *Game) streetBetsTotal() int64 {
	var total int64
	for _, p := range g.playersByChair {
		if p != nil {
			total += p.bet
		}
	}
	return total
}

// raiseCapReached reports whether Limit betting's four-aggressive-actions
// cap (bet plus three raises) has been hit for the current street.
func (g *Game) raiseCapReached() bool {
	return g.cfg.BettingMode == BettingModeLimit && g.streetRaiseCount >= limitRaiseCap
}
