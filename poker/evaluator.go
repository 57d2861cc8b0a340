package poker

import (
	"fmt"
)

var table *lookupTable

func init() {
	table = newLookupTable()
}

// RankClass buckets a score into one of the ten hand categories. Scores
// are in 1..7462 and lower is stronger.
func RankClass(rank int32) int32 {
	targets := [...]int32{
		MaxRoyalFlush,
		MaxStraightFlush,
		MaxFourOfAKind,
		MaxFullHouse,
		MaxFlush,
		MaxStraight,
		MaxThreeOfAKind,
		MaxTwoPair,
		MaxPair,
		MaxHighCard,
	}

	if rank <= 0 {
		panic(fmt.Sprintf("rank %d is not positive", rank))
	}

	for _, target := range targets {
		if rank <= target {
			return maxToRankClass[target]
		}
	}

	panic(fmt.Sprintf("rank %d is unknown", rank))
}

func RankString(rank int32) string {
	return rankClassToString[RankClass(rank)]
}

func Evaluate(cards []Card) (int32, []Card) {
	switch len(cards) {
	case 5:
		return five(cards...)
	case 6:
		return six(cards...)
	case 7:
		return seven(cards...)
	default:
		panic("Only support 5, 6 and 7 cards.")
	}
}

// EvaluateIDs scores a 5-card hand given by dense identities.
func EvaluateIDs(ids []CardID) int32 {
	cards := make([]Card, len(ids))
	for i, id := range ids {
		cards[i] = NewCardFromID(id)
	}
	score, _ := Evaluate(cards)
	return score
}

func five(cards ...Card) (int32, []Card) {
	if cards[0]&cards[1]&cards[2]&cards[3]&cards[4]&0xF000 != 0 {
		handOR := (cards[0] | cards[1] | cards[2] | cards[3] | cards[4]) >> 16
		prime := primeProductFromRankBits(int32(handOR))
		return table.flushLookup[prime], cards
	}

	prime := primeProductFromHand(cards)
	return table.unsuitedLookup[prime], cards
}

func six(cards ...Card) (int32, []Card) {
	var minimum int32 = MaxHighCard
	targets := make([]Card, len(cards))
	var bestCards []Card = make([]Card, 5)
	for i := 0; i < len(cards); i++ {
		copy(targets, cards)
		targets := append(targets[:i], targets[i+1:]...)

		score, evaluatedCards := five(targets...)
		if score < minimum {
			minimum = score
			copy(bestCards, evaluatedCards)
		}
	}
	return minimum, bestCards
}

func seven(cards ...Card) (int32, []Card) {
	var minimum int32 = MaxHighCard
	targets := make([]Card, len(cards))
	var bestCards []Card = make([]Card, 5)
	for i := 0; i < len(cards); i++ {
		copy(targets, cards)
		targets := append(targets[:i], targets[i+1:]...)

		score, evaluatedCards := six(targets...)
		if score < minimum {
			minimum = score
			copy(bestCards, evaluatedCards)
		}
	}

	return minimum, bestCards
}
