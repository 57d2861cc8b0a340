package ranking

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HarryR/sapphire-hodlem/poker"
)

func TestHandsCount(t *testing.T) {
	assert.Equal(t, uint64(2598960), HandsCount(5))
	assert.Equal(t, uint64(1326), HandsCount(2))
	assert.Equal(t, uint64(133784560), HandsCount(7))
}

func TestIndexOfExtremeHands(t *testing.T) {
	index, err := HandToIndex([]poker.CardID{0, 1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), index)

	index, err = HandToIndex([]poker.CardID{47, 48, 49, 50, 51})
	require.NoError(t, err)
	assert.Equal(t, HandsCount(5)-1, index)

	// The smallest hand containing card 5 follows every hand drawn
	// from cards 0..4.
	index, err = HandToIndex([]poker.CardID{0, 1, 2, 3, 5})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), index)
}

func TestIndexIgnoresInputOrder(t *testing.T) {
	a, err := HandToIndex([]poker.CardID{51, 8, 17, 30, 42})
	require.NoError(t, err)
	b, err := HandToIndex([]poker.CardID{8, 17, 30, 42, 51})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestIndexRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for _, k := range []int{2, 5, 7} {
		count := HandsCount(k)
		for trial := 0; trial < 2000; trial++ {
			index := uint64(rnd.Int63n(int64(count)))
			hand, err := IndexToHand(index, k)
			require.NoError(t, err)
			back, err := HandToIndex(hand)
			require.NoError(t, err)
			require.Equal(t, index, back, "k=%d hand=%s", k, poker.IDsToString(hand))
		}
		// Boundaries.
		for _, index := range []uint64{0, 1, count / 2, count - 2, count - 1} {
			hand, err := IndexToHand(index, k)
			require.NoError(t, err)
			back, err := HandToIndex(hand)
			require.NoError(t, err)
			require.Equal(t, index, back)
		}
	}
}

func TestSequentialIndexesAreDense(t *testing.T) {
	// Walking the first indexes yields distinct sorted hands and the
	// mapping has no gaps.
	seen := make(map[string]bool)
	for index := uint64(0); index < 5000; index++ {
		hand, err := IndexToHand(index, 5)
		require.NoError(t, err)
		for i := 1; i < len(hand); i++ {
			require.Less(t, hand[i-1], hand[i], "hand must be strictly ascending")
		}
		key := poker.IDsToString(hand)
		require.False(t, seen[key], "hand %s repeated", key)
		seen[key] = true
	}
}

func TestHandValidation(t *testing.T) {
	_, err := HandToIndex([]poker.CardID{1, 2, 3})
	assert.ErrorIs(t, err, ErrBadHandSize)

	_, err = HandToIndex([]poker.CardID{1, 2, 3, 4, 52})
	assert.ErrorIs(t, err, ErrCardOutOfRange)

	_, err = HandToIndex([]poker.CardID{1, 2, 3, 4, 4})
	assert.ErrorIs(t, err, ErrDuplicateCard)

	_, err = IndexToHand(HandsCount(5), 5)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}
