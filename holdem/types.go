package holdem

import (
	"time"

	"holdemroom/card"
)

const InvalidChair uint16 = 65535

// Phase is one stage of a hand's lifecycle.
type Phase byte

const (
	PhaseTypeAnte     Phase = 0
	PhaseTypePreflop  Phase = 1
	PhaseTypeFlop     Phase = 2
	PhaseTypeTurn     Phase = 3
	PhaseTypeRiver    Phase = 4
	PhaseTypeShowdown Phase = 5
	PhaseTypeRoundEnd Phase = 6
)

var PhaseTypeDictionary = map[Phase]string{
	PhaseTypeAnte:     "ante",
	PhaseTypePreflop:  "preflop",
	PhaseTypeFlop:     "flop",
	PhaseTypeTurn:     "turn",
	PhaseTypeRiver:    "river",
	PhaseTypeShowdown: "showdown",
	PhaseTypeRoundEnd: "roundend",
}

// ActionType enumerates the player actions the betting engine accepts.
type ActionType byte

const (
	PlayerActionTypeNone  ActionType = 0
	PlayerActionTypeCheck ActionType = 1
	PlayerActionTypeBet   ActionType = 2
	PlayerActionTypeCall  ActionType = 3
	PlayerActionTypeRaise ActionType = 4
	PlayerActionTypeFold  ActionType = 5
	PlayerActionTypeAllin ActionType = 6
)

var PlayerActionTypeDictionary = map[ActionType]string{
	PlayerActionTypeNone:  "NONE",
	PlayerActionTypeCheck: "CHECK",
	PlayerActionTypeBet:   "BET",
	PlayerActionTypeCall:  "CALL",
	PlayerActionTypeRaise: "RAISE",
	PlayerActionTypeFold:  "FOLD",
	PlayerActionTypeAllin: "ALLIN",
}

// BettingMode selects how bet/raise bounds are computed.
type BettingMode byte

const (
	BettingModeLimit BettingMode = iota
	BettingModeNoLimit
	BettingModePotLimit
)

var BettingModeDictionary = map[BettingMode]string{
	BettingModeLimit:    "limit",
	BettingModeNoLimit:  "no_limit",
	BettingModePotLimit: "pot_limit",
}

// Hand value categories, lowest to highest.
const (
	HandHighCard byte = iota + 1
	HandOnePair
	HandTwoPair
	HandThreeOfKind
	HandStraight
	HandFlush
	HandFullHouse
	HandFourOfKind
	HandStraightFlush
	HandRoyalFlush
)

var HandTypeDictionary = map[byte]string{
	HandHighCard:      "High Card",
	HandOnePair:       "One Pair",
	HandTwoPair:       "Two Pair",
	HandThreeOfKind:   "Three of a Kind",
	HandStraight:      "Straight",
	HandFlush:         "Flush",
	HandFullHouse:     "Full House",
	HandFourOfKind:    "Four of a Kind",
	HandStraightFlush: "Straight Flush",
	HandRoyalFlush:    "Royal Flush",
}

// limitRaiseCap is the maximum number of aggressive actions (the opening
// bet plus raises) allowed on one street under Limit betting.
const limitRaiseCap = 4

// ActionRecord is one committed action in the current hand's history, in
// the order they were accepted.
type ActionRecord struct {
	Chair  uint16
	Kind   ActionType
	Amount int64
	Stage  Phase
}

const defaultActionTimeout = 30 * time.Second

var HoldemCards = []card.Card{
	card.CardSpadeA, card.CardSpade2, card.CardSpade3, card.CardSpade4, card.CardSpade5, card.CardSpade6,
	card.CardSpade7, card.CardSpade8, card.CardSpade9, card.CardSpadeT, card.CardSpadeJ, card.CardSpadeQ, card.CardSpadeK,
	card.CardHeartA, card.CardHeart2, card.CardHeart3, card.CardHeart4, card.CardHeart5, card.CardHeart6,
	card.CardHeart7, card.CardHeart8, card.CardHeart9, card.CardHeartT, card.CardHeartJ, card.CardHeartQ, card.CardHeartK,
	card.CardClubA, card.CardClub2, card.CardClub3, card.CardClub4, card.CardClub5, card.CardClub6,
	card.CardClub7, card.CardClub8, card.CardClub9, card.CardClubT, card.CardClubJ, card.CardClubQ, card.CardClubK,
	card.CardDiamondA, card.CardDiamond2, card.CardDiamond3, card.CardDiamond4, card.CardDiamond5, card.CardDiamond6,
	card.CardDiamond7, card.CardDiamond8, card.CardDiamond9, card.CardDiamondT, card.CardDiamondJ, card.CardDiamondQ, card.CardDiamondK,
}
