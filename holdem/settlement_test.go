package holdem

import (
	"testing"

	"holdemroom/card"
)

// riggedDeckFor3Way pins the first 11 cards dealt: six hole cards (two
// harmless low hearts per seat, dealt in seating order starting left of
// the button) followed by a board of quad aces plus a king kicker, so
// whichever two seats reach showdown tie exactly regardless of their hole
// cards. The remaining 41 cards trail in their natural order; nothing
// after the river is ever drawn in these tests.
func riggedDeckFor3Way() []card.Card {
	fixed := []card.Card{
		card.CardHeart2, card.CardHeart4, card.CardHeart6, // hole card 1 per seat
		card.CardHeart3, card.CardHeart5, card.CardHeart7, // hole card 2 per seat
		card.CardSpadeA, card.CardHeartA, card.CardClubA, // flop
		card.CardDiamondA, // turn
		card.CardSpadeK,   // river
	}
	used := make(map[card.Card]bool, len(fixed))
	for _, c := range fixed {
		used[c] = true
	}
	deck := append([]card.Card{}, fixed...)
	for _, c := range HoldemCards {
		if !used[c] {
			deck = append(deck, c)
		}
	}
	return deck
}

// TestSettleByEval_OddChipGoesClockwiseFromButton pits chair 0 and chair 2
// against each other on a board that ties them on quad aces. The pot's
// odd chip must go to whichever of the two sits nearest clockwise from
// the button (chair 1), not to the lower-numbered chair.
func TestSettleByEval_OddChipGoesClockwiseFromButton(t *testing.T) {
	g, err := NewGame(Config{
		MaxPlayers:        3,
		MinPlayers:        3,
		SmallBlind:        50,
		BigBlind:          100,
		Ante:              1,
		BettingMode:       BettingModeNoLimit,
		ForcedDealerChair: uint16ptr(1),
		DeckOverride:      riggedDeckFor3Way(),
	})
	if err != nil {
		t.Fatalf("NewGame err: %v", err)
	}
	for chair := uint16(0); chair < 3; chair++ {
		if err := g.SitDown(chair, uint64(chair)+1, 100000, false); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}

	snap := g.Snapshot()
	if snap.DealerChair != 1 || snap.SmallBlindChair != 2 || snap.BigBlindChair != 0 {
		t.Fatalf("unexpected seating: dealer=%d sb=%d bb=%d", snap.DealerChair, snap.SmallBlindChair, snap.BigBlindChair)
	}

	// Dealer (chair 1) folds preflop; SB calls up to the BB; BB checks.
	if _, err := g.Act(1, PlayerActionTypeFold, 0); err != nil {
		t.Fatalf("chair1 fold err: %v", err)
	}
	if _, err := g.Act(2, PlayerActionTypeCall, 100); err != nil {
		t.Fatalf("chair2 call err: %v", err)
	}
	if _, err := g.Act(0, PlayerActionTypeCheck, 100); err != nil {
		t.Fatalf("chair0 check err: %v", err)
	}

	// Flop, turn and river: chair2 acts first each street (smallBlindNode),
	// both check every street through to showdown.
	var settle *SettlementResult
	for street := 0; street < 3; street++ {
		res, err := g.Act(2, PlayerActionTypeCheck, 0)
		if err != nil {
			t.Fatalf("chair2 check err (street %d): %v", street, err)
		}
		if res != nil {
			settle = res
			break
		}
		res, err = g.Act(0, PlayerActionTypeCheck, 0)
		if err != nil {
			t.Fatalf("chair0 check err (street %d): %v", street, err)
		}
		if res != nil {
			settle = res
			break
		}
	}
	if settle == nil {
		t.Fatalf("expected the hand to settle by the river, got snapshot %+v", g.Snapshot())
	}

	if len(settle.PotResults) != 1 {
		t.Fatalf("expected exactly one pot, got %d", len(settle.PotResults))
	}
	pot := settle.PotResults[0]
	if pot.Amount != 203 {
		t.Fatalf("expected pot of 203 (200 blinds/calls + 3 antes), got %d", pot.Amount)
	}
	if len(pot.Winners) != 2 {
		t.Fatalf("expected a 2-way tie, got winners %v", pot.Winners)
	}

	amountFor := func(chair uint16) int64 {
		for i, w := range pot.Winners {
			if w == chair {
				return pot.WinAmounts[i]
			}
		}
		t.Fatalf("chair %d did not win a share of the pot", chair)
		return 0
	}

	// Clockwise from the button (chair 1): chair 2 is one seat away, chair
	// 0 is two seats away, so chair 2 takes the odd chip.
	if got := amountFor(2); got != 102 {
		t.Fatalf("expected chair 2 (nearest clockwise from the button) to get the odd chip: 102, got %d", got)
	}
	if got := amountFor(0); got != 101 {
		t.Fatalf("expected chair 0 to get the even share: 101, got %d", got)
	}
}
