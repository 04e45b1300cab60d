package holdem

import (
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
	"holdemroom/card"
)

// bestHandResult is the outcome of evaluating one 7-card hand: the best
// 5-card subset, its category, and a comparable score (larger wins).
type bestHandResult struct {
	Score     uint32
	HandType  byte
	BestIndex [5]int // Indices into the original 7 cards.
}

// evalCache memoizes EvalBestOf7 by card set, since the same 7-card
// combination recurs often across a table's hands (shared community cards).
var evalCache *lru.Cache[string, *bestHandResult]

func init() {
	c, err := lru.New[string, *bestHandResult](4096)
	if err != nil {
		panic(err)
	}
	evalCache = c
}

// EvalBestOf7 evaluates the best 5-card hand out of 7 cards by brute-forcing
// all C(7,5)=21 combinations.
func EvalBestOf7(cards card.CardList) *bestHandResult {
	if len(cards) != 7 {
		return nil
	}

	key := cacheKey(cards)
	if cached, ok := evalCache.Get(key); ok {
		return cached
	}

	var best *bestHandResult
	idx := [5]int{}

	for a := 0; a < 3; a++ {
		for b := a + 1; b < 4; b++ {
			for c := b + 1; c < 5; c++ {
				for d := c + 1; d < 6; d++ {
					for e := d + 1; e < 7; e++ {
						idx[0], idx[1], idx[2], idx[3], idx[4] = a, b, c, d, e
						score, handType := eval5(cards[a], cards[b], cards[c], cards[d], cards[e])
						if best == nil || score > best.Score {
							best = &bestHandResult{
								Score:     score,
								HandType:  handType,
								BestIndex: idx,
							}
						}
					}
				}
			}
		}
	}

	evalCache.Add(key, best)
	return best
}

func cacheKey(cards card.CardList) string {
	sorted := make(card.CardList, len(cards))
	copy(sorted, cards)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	buf := make([]byte, len(sorted))
	for i, c := range sorted {
		buf[i] = byte(c)
	}
	return string(buf)
}

// eval5 scores one 5-card hand via rank/suit histograms rather than a
// precomputed lookup table: count ranks for pairs/trips/quads, count suits
// for flush, and walk the distinct ranks for a straight (wheel included).
func eval5(a, b, c, d, e card.Card) (score uint32, handType byte) {
	cards := [5]card.Card{a, b, c, d, e}

	ranks := make([]int, 5)
	rankCount := make(map[int]int, 5)
	suitCount := make(map[card.Suit]int, 4)
	for i, cc := range cards {
		r := cc.HandRealVal()
		ranks[i] = r
		rankCount[r]++
		suitCount[cc.Suit()]++
	}

	isFlush := false
	for _, n := range suitCount {
		if n == 5 {
			isFlush = true
			break
		}
	}

	descRanks := append([]int{}, ranks...)
	sort.Sort(sort.Reverse(sort.IntSlice(descRanks)))
	straightHigh, isStraight := straightHighCard(descRanks)

	type rankGroup struct{ rank, count int }
	groups := make([]rankGroup, 0, len(rankCount))
	for r, n := range rankCount {
		groups = append(groups, rankGroup{r, n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})

	var tiebreak []int
	switch {
	case isStraight && isFlush:
		if straightHigh == 14 {
			handType = HandRoyalFlush
		} else {
			handType = HandStraightFlush
		}
		tiebreak = []int{straightHigh}
	case groups[0].count == 4:
		handType = HandFourOfKind
		tiebreak = []int{groups[0].rank, groups[1].rank}
	case groups[0].count == 3 && groups[1].count == 2:
		handType = HandFullHouse
		tiebreak = []int{groups[0].rank, groups[1].rank}
	case isFlush:
		handType = HandFlush
		tiebreak = descRanks
	case isStraight:
		handType = HandStraight
		tiebreak = []int{straightHigh}
	case groups[0].count == 3:
		handType = HandThreeOfKind
		tiebreak = []int{groups[0].rank, groups[1].rank, groups[2].rank}
	case groups[0].count == 2 && groups[1].count == 2:
		handType = HandTwoPair
		hi, lo := groups[0].rank, groups[1].rank
		if lo > hi {
			hi, lo = lo, hi
		}
		tiebreak = []int{hi, lo, groups[2].rank}
	case groups[0].count == 2:
		handType = HandOnePair
		tiebreak = []int{groups[0].rank, groups[1].rank, groups[2].rank, groups[3].rank}
	default:
		handType = HandHighCard
		tiebreak = descRanks
	}

	return encodeScore(handType, tiebreak), handType
}

// straightHighCard reports the high card of a straight among 5 descending,
// possibly-duplicate ranks, treating A-2-3-4-5 as a 5-high wheel.
func straightHighCard(descRanks []int) (high int, ok bool) {
	uniq := make([]int, 0, 5)
	seen := make(map[int]bool, 5)
	for _, r := range descRanks {
		if !seen[r] {
			seen[r] = true
			uniq = append(uniq, r)
		}
	}
	if len(uniq) != 5 {
		return 0, false
	}
	if uniq[0]-uniq[4] == 4 {
		return uniq[0], true
	}
	if uniq[0] == 14 && uniq[1] == 5 && uniq[2] == 4 && uniq[3] == 3 && uniq[4] == 2 {
		return 5, true
	}
	return 0, false
}

// encodeScore packs a hand category and up to 5 tiebreak ranks (4 bits
// each, ranks are at most 14) into a single comparable uint32.
func encodeScore(handType byte, tiebreak []int) uint32 {
	score := uint32(handType) << 20
	shift := 16
	for _, r := range tiebreak {
		score |= uint32(r) << uint(shift)
		shift -= 4
	}
	return score
}
