package holdem

import "testing"

func uint16ptr(v uint16) *uint16 { return &v }

func containsAction(acts []ActionType, want ActionType) bool {
	for _, a := range acts {
		if a == want {
			return true
		}
	}
	return false
}

func TestRaiseBounds_NoLimit_MinIsCurBetPlusMinRaise(t *testing.T) {
	g, err := NewGame(Config{
		MaxPlayers:        2,
		MinPlayers:        2,
		SmallBlind:        50,
		BigBlind:          100,
		BettingMode:       BettingModeNoLimit,
		ForcedDealerChair: uint16ptr(0),
	})
	if err != nil {
		t.Fatalf("NewGame err: %v", err)
	}
	if err := g.SitDown(0, 1, 100000, false); err != nil {
		t.Fatal(err)
	}
	if err := g.SitDown(1, 2, 100000, false); err != nil {
		t.Fatal(err)
	}
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}

	snap := g.Snapshot()
	acts, minTo, maxTo, err := g.LegalActions(snap.ActionChair)
	if err != nil {
		t.Fatalf("LegalActions err: %v", err)
	}
	if !containsAction(acts, PlayerActionTypeRaise) {
		t.Fatalf("expected raise to be legal, got %v", acts)
	}
	if minTo != 200 {
		t.Fatalf("expected min raise-to 200 (100 bb + 100 min raise), got %d", minTo)
	}
	if maxTo != 100000 {
		t.Fatalf("expected max raise-to to be the acting player's full stack, got %d", maxTo)
	}

	if _, err := g.Act(snap.ActionChair, PlayerActionTypeRaise, 150); err == nil {
		t.Fatalf("expected raise below minimum to be rejected")
	}
	if _, err := g.Act(snap.ActionChair, PlayerActionTypeRaise, 200); err != nil {
		t.Fatalf("expected minimum raise to be accepted: %v", err)
	}
}

func TestRaiseBounds_PotLimit_MaxRaiseIsPotAfterCall(t *testing.T) {
	g, err := NewGame(Config{
		MaxPlayers:        2,
		MinPlayers:        2,
		SmallBlind:        50,
		BigBlind:          100,
		BettingMode:       BettingModePotLimit,
		ForcedDealerChair: uint16ptr(0),
	})
	if err != nil {
		t.Fatalf("NewGame err: %v", err)
	}
	if err := g.SitDown(0, 1, 100000, false); err != nil {
		t.Fatal(err)
	}
	if err := g.SitDown(1, 2, 100000, false); err != nil {
		t.Fatal(err)
	}
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}

	// Heads-up: dealer is also the small blind and acts first preflop.
	// Pot before acting = SB(50) + BB(100) = 150. Call amount = 50.
	// Pot after call = 150 + 50 = 200, so max raise-to = curBet(100) + 200 = 300.
	snap := g.Snapshot()
	_, _, maxTo, err := g.LegalActions(snap.ActionChair)
	if err != nil {
		t.Fatalf("LegalActions err: %v", err)
	}
	if maxTo != 300 {
		t.Fatalf("expected pot-limit max raise-to 300, got %d", maxTo)
	}

	if _, err := g.Act(snap.ActionChair, PlayerActionTypeRaise, 301); err == nil {
		t.Fatalf("expected raise above the pot-limit max to be rejected")
	}
	if _, err := g.Act(snap.ActionChair, PlayerActionTypeRaise, 300); err != nil {
		t.Fatalf("expected raise at the pot-limit max to be accepted: %v", err)
	}
}

func TestLimitBetting_RaiseCapEnforced(t *testing.T) {
	g, err := NewGame(Config{
		MaxPlayers:        3,
		MinPlayers:        3,
		SmallBlind:        50,
		BigBlind:          100,
		BettingMode:       BettingModeLimit,
		ForcedDealerChair: uint16ptr(0),
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

	// The big blind's forced bet already counts as the first of Limit's
	// 4 aggressive actions per street, so only 3 further voluntary
	// raises are legal preflop.
	voluntaryRaises := limitRaiseCap - 1
	for i := 0; i < voluntaryRaises; i++ {
		snap := g.Snapshot()
		acts, minTo, _, err := g.LegalActions(snap.ActionChair)
		if err != nil {
			t.Fatalf("LegalActions err: %v", err)
		}
		if !containsAction(acts, PlayerActionTypeRaise) && !containsAction(acts, PlayerActionTypeBet) {
			t.Fatalf("expected a bet/raise option still open before raise #%d, got %v", i+1, acts)
		}
		action := PlayerActionTypeRaise
		if containsAction(acts, PlayerActionTypeBet) {
			action = PlayerActionTypeBet
		}
		if _, err := g.Act(snap.ActionChair, action, minTo); err != nil {
			t.Fatalf("raise #%d failed: %v", i+1, err)
		}
	}

	snap := g.Snapshot()
	acts, _, _, err := g.LegalActions(snap.ActionChair)
	if err != nil {
		t.Fatalf("LegalActions err: %v", err)
	}
	if containsAction(acts, PlayerActionTypeRaise) || containsAction(acts, PlayerActionTypeBet) {
		t.Fatalf("expected bet/raise blocked once the 4-bet cap (BB + 3 raises) is reached, got %v", acts)
	}
}

// TestLimitBetting_BBCountsTowardCap locks in the cap accounting itself:
// immediately after blinds post preflop, only 3 more raises should be
// legal, not 4 — the BB's forced bet is the cap's first aggressive action.
func TestLimitBetting_BBCountsTowardCap(t *testing.T) {
	g, err := NewGame(Config{
		MaxPlayers:        2,
		MinPlayers:        2,
		SmallBlind:        50,
		BigBlind:          100,
		BettingMode:       BettingModeLimit,
		ForcedDealerChair: uint16ptr(0),
	})
	if err != nil {
		t.Fatalf("NewGame err: %v", err)
	}
	if err := g.SitDown(0, 1, 100000, false); err != nil {
		t.Fatal(err)
	}
	if err := g.SitDown(1, 2, 100000, false); err != nil {
		t.Fatal(err)
	}
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}

	for i := 0; i < limitRaiseCap-1; i++ {
		snap := g.Snapshot()
		_, minTo, _, err := g.LegalActions(snap.ActionChair)
		if err != nil {
			t.Fatalf("LegalActions err: %v", err)
		}
		if _, err := g.Act(snap.ActionChair, PlayerActionTypeRaise, minTo); err != nil {
			t.Fatalf("raise #%d failed: %v", i+1, err)
		}
	}

	snap := g.Snapshot()
	acts, _, _, err := g.LegalActions(snap.ActionChair)
	if err != nil {
		t.Fatalf("LegalActions err: %v", err)
	}
	if containsAction(acts, PlayerActionTypeRaise) {
		t.Fatalf("expected the 4th raise to be illegal once BB + 3 raises reach the cap, got %v", acts)
	}
}

func TestAllIn_ShortRaiseDoesNotReopenAction(t *testing.T) {
	g, err := NewGame(Config{
		MaxPlayers:        3,
		MinPlayers:        3,
		SmallBlind:        50,
		BigBlind:          100,
		BettingMode:       BettingModeNoLimit,
		ForcedDealerChair: uint16ptr(0),
	})
	if err != nil {
		t.Fatalf("NewGame err: %v", err)
	}
	if err := g.SitDown(0, 1, 100000, false); err != nil { // dealer
		t.Fatal(err)
	}
	if err := g.SitDown(1, 2, 550, false); err != nil { // small blind, short stack
		t.Fatal(err)
	}
	if err := g.SitDown(2, 3, 100000, false); err != nil { // big blind
		t.Fatal(err)
	}
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}

	snap := g.Snapshot()
	if snap.DealerChair != 0 || snap.SmallBlindChair != 1 || snap.BigBlindChair != 2 {
		t.Fatalf("unexpected seating: dealer=%d sb=%d bb=%d", snap.DealerChair, snap.SmallBlindChair, snap.BigBlindChair)
	}

	// Dealer opens with a full raise to 500.
	if _, err := g.Act(0, PlayerActionTypeRaise, 500); err != nil {
		t.Fatalf("dealer raise err: %v", err)
	}

	// Small blind shoves for only 50 over the raise: a non-reopening all-in.
	if _, err := g.Act(1, PlayerActionTypeAllin, 550); err != nil {
		t.Fatalf("short all-in err: %v", err)
	}

	// The big blind has not yet faced a raise at all, so it still has a full
	// raise option.
	acts, _, _, err := g.LegalActions(2)
	if err != nil {
		t.Fatalf("LegalActions(bb) err: %v", err)
	}
	if !containsAction(acts, PlayerActionTypeRaise) {
		t.Fatalf("expected big blind to still have a raise option, got %v", acts)
	}
	if _, err := g.Act(2, PlayerActionTypeFold, 0); err != nil {
		t.Fatalf("bb fold err: %v", err)
	}

	// The dealer already made the table's last full raise; the short
	// all-in must not reopen the action for them.
	acts, _, _, err = g.LegalActions(0)
	if err != nil {
		t.Fatalf("LegalActions(dealer) err: %v", err)
	}
	if containsAction(acts, PlayerActionTypeRaise) {
		t.Fatalf("expected dealer's raise option to stay closed after a short all-in, got %v", acts)
	}
}
