package holdem

// This file owns the betting round's turn order: who acts next, when a
// street's betting is complete, and what resets when a new street (or a
// fresh hand) starts.

// onPhaseStartLocked resets per-street betting state and figures the legal
// actions for whoever acts first on the new street.
func (g *Game) onPhaseStartLocked() {
	g.setNeedActionCountLocked()
	g.CurrentRaiser = InvalidChair
	for _, p := range g.playersByChair {
		if p != nil {
			p.setLastAction(PlayerActionTypeNone)
		}
	}

	switch g.phase {
	case PhaseTypePreflop:
		// The big blind is a forced bet, so it both opens the street's
		// betting (MinRaise already holds the BB size) and counts as the
		// first of Limit betting's four aggressive actions.
		g.lastPlayerAction = PlayerActionTypeBet
		g.streetRaiseCount = 1
	default:
		g.lastPlayerAction = PlayerActionTypeNone
		g.MinRaise = g.cfg.BigBlind
		g.streetRaiseCount = 0
	}

	if g.curNode != nil && g.curNode.Player != nil {
		g.validActions = g.calcNextValidActions(g.curNode.Player)
	}
}

// collectBetsLocked folds this street's bets into the pot ladder and
// clears every player's per-street bet counter.
func (g *Game) collectBetsLocked() {
	playersWithBets := make([]*Player, 0, g.activeCount)
	for chair := uint16(0); chair < uint16(g.cfg.MaxPlayers); chair++ {
		p := g.playersByChair[chair]
		if p != nil && p.bet > 0 {
			playersWithBets = append(playersWithBets, p)
		}
	}
	g.potManager.calcPotsByPlayerBets(playersWithBets)
	for _, p := range playersWithBets {
		p.resetBet()
	}
	g.curBet = 0
}

func (g *Game) setNeedActionCountLocked() {
	g.NeedActionCount = g.activeCount - g.allinCount
}

// calcNextValidActions is a pure projection of the current state: it must
// not mutate anything, since LegalActions calls it outside of Act too.
func (g *Game) calcNextValidActions(nextPlayer *Player) []ActionType {
	nextValid := []ActionType{PlayerActionTypeAllin, PlayerActionTypeFold}

	switch g.lastPlayerAction {
	case PlayerActionTypeCheck, PlayerActionTypeNone:
		nextValid = append(nextValid, PlayerActionTypeCheck)
		if nextPlayer.stack > g.cfg.BigBlind {
			nextValid = append(nextValid, PlayerActionTypeBet)
		}

	case PlayerActionTypeBet, PlayerActionTypeRaise, PlayerActionTypeAllin, PlayerActionTypeCall:
		available := nextPlayer.stack + nextPlayer.bet
		canCall := false

		if nextPlayer.bet == g.curBet {
			nextValid = append(nextValid, PlayerActionTypeCheck)
		} else if available > g.curBet {
			nextValid = append(nextValid, PlayerActionTypeCall)
			canCall = true
		}

		canRaise := available > g.curBet+g.MinRaise
		isReopen := g.CurrentRaiser != nextPlayer.ChairID()
		if canRaise && isReopen && g.activeCount-g.allinCount > 1 {
			nextValid = append(nextValid, PlayerActionTypeRaise)
		}

		// An all-in that can't reopen a closed action is just a call; drop
		// the leading Allin entry so it isn't offered twice.
		if (canCall && g.activeCount-g.allinCount <= 1) || (canRaise && !isReopen) {
			if len(nextValid) > 0 {
				nextValid = nextValid[1:]
			}
		}
	}

	if g.raiseCapReached() {
		nextValid = withoutAggressiveActions(nextValid)
	}
	return nextValid
}

func withoutAggressiveActions(actions []ActionType) []ActionType {
	filtered := actions[:0:0]
	for _, a := range actions {
		if a != PlayerActionTypeBet && a != PlayerActionTypeRaise {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

// calcNextActionPosAndBettingEndLocked finds the next player to act and
// whether the betting round is over.
func (g *Game) calcNextActionPosAndBettingEndLocked() (*PlayerNode, bool) {
	if g.NeedActionCount == 0 {
		return g.firstActorOfNextStreetLocked()
	}

	nextNode := g.curNode.Next.WalkOnce(func(n *PlayerNode) bool {
		return n.Player != nil && !n.Player.folded && n.Player.stack > 0
	})
	if nextNode == nil {
		return nil, true
	}
	if nextNode.Player.bet >= g.curBet && g.NeedActionCount == 1 && g.activeCount-g.allinCount == 1 {
		return nextNode, true
	}
	return nextNode, false
}

// firstActorOfNextStreetLocked reports who would act first if a new
// street were to open. The river has no next street, so it always ends
// betting outright.
func (g *Game) firstActorOfNextStreetLocked() (*PlayerNode, bool) {
	if g.phase == PhaseTypeRiver {
		return nil, true
	}
	// Heads-up first-to-act depends on the hand's starting seat count, not
	// activeCount (which shrinks as players fold).
	first := g.smallBlindNode
	if len(g.chairIDNodes) == 2 {
		first = g.bigBlindNode
	}
	node := first.WalkOnce(func(n *PlayerNode) bool {
		return n.Player != nil && !n.Player.folded && n.Player.stack > 0
	})
	return node, true
}

func (g *Game) checkDirectShowdownLocked() bool {
	return g.allinCount >= g.activeCount-1
}

func (g *Game) advanceToShowdownLocked() error {
	g.phase = PhaseTypeShowdown
	g.dealCommunityCardsLocked()
	return nil
}

func (g *Game) endHandLocked() (*SettlementResult, error) {
	g.phase = PhaseTypeRoundEnd
	settle, err := g.SettleShowdown()
	if err != nil {
		return nil, err
	}
	g.lastSettlement = settle
	g.ended = true
	return settle, nil
}
