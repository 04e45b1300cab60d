package holdem

import (
	"fmt"
	"time"

	"holdemroom/card"
)

// Config parameterizes one table's hand engine: seating limits, blind
// structure, betting mode, and the knobs needed for deterministic tests.
type Config struct {
	// Table
	MaxPlayers int
	MinPlayers int

	// Blinds / Ante
	SmallBlind int64
	BigBlind   int64
	Ante       int64

	// BettingMode selects Limit / No-Limit / Pot-Limit raise bounds.
	BettingMode BettingMode

	// ActionTimeout is validated (must be >= 0) but the engine runs no timer
	// of its own; internal/room enforces the per-turn deadline.
	ActionTimeout time.Duration

	// RNG seed (0 => time-based)
	Seed int64

	// ForcedDealerChair pins the button seat; used by tests that need a
	// deterministic first hand.
	ForcedDealerChair *uint16
	// DeckOverride pins full deck order (52 cards), consumed from index 0
	// upward instead of a shuffled deck; used by tests.
	DeckOverride []card.Card
}

// validate checks a Config for internal consistency before a table is
// built from it. Each concern gets its own check so a failure points
// straight at the offending group of fields.
func (c Config) validate() error {
	validators := []func() error{
		c.validateSeating,
		c.validateBlinds,
		c.validateTimeout,
		c.validateBettingMode,
		c.validateForcedDealerChair,
		func() error { return validateDeckOverride(c.DeckOverride) },
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) validateSeating() error {
	if c.MaxPlayers <= 0 {
		return fmt.Errorf("MaxPlayers must be > 0")
	}
	if c.MinPlayers <= 0 {
		return fmt.Errorf("MinPlayers must be > 0")
	}
	if c.MinPlayers > c.MaxPlayers {
		return fmt.Errorf("MinPlayers must be <= MaxPlayers")
	}
	return nil
}

func (c Config) validateBlinds() error {
	if c.SmallBlind < 0 || c.BigBlind <= 0 || c.SmallBlind > c.BigBlind {
		return fmt.Errorf("invalid blinds: sb=%d bb=%d", c.SmallBlind, c.BigBlind)
	}
	if c.Ante < 0 {
		return fmt.Errorf("Ante must be >= 0")
	}
	return nil
}

func (c Config) validateTimeout() error {
	if c.ActionTimeout < 0 {
		return fmt.Errorf("ActionTimeout must be >= 0")
	}
	return nil
}

func (c Config) validateBettingMode() error {
	switch c.BettingMode {
	case BettingModeLimit, BettingModeNoLimit, BettingModePotLimit:
		return nil
	default:
		return fmt.Errorf("invalid betting mode: %d", c.BettingMode)
	}
}

func (c Config) validateForcedDealerChair() error {
	if c.ForcedDealerChair != nil && int(*c.ForcedDealerChair) >= c.MaxPlayers {
		return fmt.Errorf("forced dealer chair out of range: %d", *c.ForcedDealerChair)
	}
	return nil
}

func validateDeckOverride(deck []card.Card) error {
	if len(deck) == 0 {
		return nil
	}
	if len(deck) != len(HoldemCards) {
		return fmt.Errorf("deck override must contain %d cards, got %d", len(HoldemCards), len(deck))
	}

	valid := make(map[card.Card]struct{}, len(HoldemCards))
	for _, c := range HoldemCards {
		valid[c] = struct{}{}
	}
	seen := make(map[card.Card]struct{}, len(deck))
	for i, c := range deck {
		if _, ok := valid[c]; !ok {
			return fmt.Errorf("deck override contains invalid card at index %d: %v", i, c)
		}
		if _, ok := seen[c]; ok {
			return fmt.Errorf("deck override contains duplicate card at index %d: %v", i, c)
		}
		seen[c] = struct{}{}
	}
	return nil
}
