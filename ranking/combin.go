package ranking

import (
	"fmt"
	"sort"

	"github.com/HarryR/sapphire-hodlem/poker"
)

// The combinatorial number system gives every unordered k-card hand a
// dense index in [0, C(52,k)): for ascending identities c0<c1<...,
// index = sum C(c_i, i+1). The index is the only addressing scheme into
// the ranking database; hands are never looked up by value.

const (
	// HandSize is the number of cards in a ranked hand.
	HandSize = 5
	// HoleSize is the number of private cards dealt to a seat.
	HoleSize = 2
	// KnownSize is hole plus community cards at the river.
	KnownSize = 7
)

var binomial [poker.NumCards + 1][KnownSize + 1]uint64

func init() {
	for n := 0; n <= poker.NumCards; n++ {
		binomial[n][0] = 1
		for k := 1; k <= KnownSize; k++ {
			if k > n {
				binomial[n][k] = 0
				continue
			}
			binomial[n][k] = binomial[n-1][k-1] + binomial[n-1][k]
		}
	}
}

// Choose returns C(n, k) for n <= 52, k <= 7.
func Choose(n, k int) uint64 {
	if n < 0 || k < 0 || n > poker.NumCards || k > KnownSize {
		panic(fmt.Sprintf("Choose(%d, %d) out of range", n, k))
	}
	return binomial[n][k]
}

// HandsCount returns the number of distinct k-card hands.
func HandsCount(k int) uint64 {
	return Choose(poker.NumCards, k)
}

// SortHand returns the hand in canonical ascending identity order
// without mutating the input.
func SortHand(cards []poker.CardID) []poker.CardID {
	sorted := make([]poker.CardID, len(cards))
	copy(sorted, cards)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted
}

func checkHand(cards []poker.CardID) error {
	k := len(cards)
	if k != HoleSize && k != HandSize && k != KnownSize {
		return fmt.Errorf("%w: %d cards", ErrBadHandSize, k)
	}
	for i, c := range cards {
		if c >= poker.NumCards {
			return fmt.Errorf("%w: card %d", ErrCardOutOfRange, c)
		}
		if i > 0 && cards[i-1] == c {
			return fmt.Errorf("%w: %s", ErrDuplicateCard, poker.IDString(c))
		}
	}
	return nil
}

// HandToIndex maps an unordered k-card hand (k in {2,5,7}) to its
// combinatorial index.
func HandToIndex(cards []poker.CardID) (uint64, error) {
	sorted := SortHand(cards)
	if err := checkHand(sorted); err != nil {
		return 0, err
	}
	var index uint64
	for i, c := range sorted {
		index += Choose(int(c), i+1)
	}
	return index, nil
}

// IndexToHand is the inverse of HandToIndex; the returned hand is in
// canonical ascending order. Round-tripping either way is the identity.
func IndexToHand(index uint64, k int) ([]poker.CardID, error) {
	if k != HoleSize && k != HandSize && k != KnownSize {
		return nil, fmt.Errorf("%w: %d cards", ErrBadHandSize, k)
	}
	if index >= HandsCount(k) {
		return nil, fmt.Errorf("%w: index %d", ErrIndexOutOfRange, index)
	}
	cards := make([]poker.CardID, k)
	c := poker.NumCards - 1
	for i := k; i >= 1; i-- {
		for Choose(c, i) > index {
			c--
		}
		cards[i-1] = poker.CardID(c)
		index -= Choose(c, i)
		c--
	}
	return cards, nil
}
