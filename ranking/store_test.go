package ranking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HarryR/sapphire-hodlem/poker"
	"github.com/HarryR/sapphire-hodlem/ranking"
	"github.com/HarryR/sapphire-hodlem/ranking/rankingtest"
)

func mustIDs(t *testing.T, cards ...string) []poker.CardID {
	t.Helper()
	ids := make([]poker.CardID, len(cards))
	for i, c := range cards {
		id, err := poker.ParseID(c)
		require.NoError(t, err)
		ids[i] = id
	}
	return ids
}

func TestLookupIndexZero(t *testing.T) {
	store := rankingtest.Open(t)

	leaf, err := store.LookupIndex(0)
	require.NoError(t, err)
	assert.Equal(t, [5]poker.CardID{0, 1, 2, 3, 4}, leaf.Cards)
	// 2c 2d 2h 2s 3c is quad deuces with a three kicker.
	assert.Equal(t, int32(poker.FourOfAKind), poker.RankClass(int32(leaf.Score)))
}

func TestLookupHandRegressionFixture(t *testing.T) {
	store := rankingtest.Open(t)

	leaf, err := store.LookupHand(mustIDs(t, "As", "4c", "6d", "9h", "Qh"))
	require.NoError(t, err)
	assert.Equal(t, uint16(6426), leaf.Score)
}

func TestLookupHandMatchesEvaluator(t *testing.T) {
	store := rankingtest.Open(t)

	// A deterministic stride over the index space; every leaf must
	// round-trip through the indexer and agree with the evaluator.
	count := ranking.HandsCount(ranking.HandSize)
	for index := uint64(0); index < count; index += 997 {
		leaf, err := store.LookupIndex(index)
		require.NoError(t, err)
		require.Equal(t, index, leaf.Index)

		hand, err := ranking.IndexToHand(index, ranking.HandSize)
		require.NoError(t, err)
		require.Equal(t, hand, leaf.Cards[:])

		require.Equal(t, uint16(poker.EvaluateIDs(hand)), leaf.Score)
	}
}

func TestProveAndVerify(t *testing.T) {
	store := rankingtest.Open(t)

	hands := [][]poker.CardID{
		mustIDs(t, "As", "Ks", "Qs", "Js", "Ts"),
		mustIDs(t, "As", "4c", "6d", "9h", "Qh"),
		{0, 1, 2, 3, 4},
		{47, 48, 49, 50, 51},
	}
	for _, hand := range hands {
		proof, err := store.Prove(hand)
		require.NoError(t, err)
		require.NoError(t, store.VerifyProof(proof))
		require.NoError(t, proof.Verify(store.Root()))
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	store := rankingtest.Open(t)

	proof, err := store.Prove(mustIDs(t, "As", "Ks", "Qs", "Js", "Ts"))
	require.NoError(t, err)

	// Flip a single bit in each sibling in turn.
	for step := 0; step < ranking.PairingSteps; step++ {
		tampered := *proof
		tampered.Siblings[step][7] ^= 0x01
		assert.ErrorIs(t, tampered.Verify(store.Root()), ranking.ErrRootMismatch, "sibling %d", step)
	}

	// Tamper with the claimed score.
	tampered := *proof
	tampered.Leaf.Score ^= 0x0100
	assert.ErrorIs(t, tampered.Verify(store.Root()), ranking.ErrRootMismatch)

	// Swap in a different (valid) hand without rebuilding the path.
	tampered = *proof
	copy(tampered.Leaf.Cards[:], mustIDs(t, "2c", "3c", "4c", "5c", "7c"))
	tampered.Leaf.Index, err = ranking.HandToIndex(tampered.Leaf.Cards[:])
	require.NoError(t, err)
	assert.ErrorIs(t, tampered.Verify(store.Root()), ranking.ErrRootMismatch)

	// A leaf index that disagrees with the claimed cards is malformed.
	tampered = *proof
	tampered.Leaf.Index++
	assert.ErrorIs(t, tampered.Verify(store.Root()), ranking.ErrBadProofShape)
}

func TestBestOfSeven(t *testing.T) {
	store := rankingtest.Open(t)

	// Royal flush hidden in seven cards.
	best, err := store.BestOfSeven(mustIDs(t, "As", "Ks", "Qs", "Js", "Ts", "2c", "7d"))
	require.NoError(t, err)
	assert.Equal(t, uint16(1), best.Score)

	// The best five of a seven-card rag hand must match the
	// evaluator's own seven-card result.
	seven := mustIDs(t, "2c", "9d", "Kh", "4s", "7c", "Jd", "Ah")
	best, err = store.BestOfSeven(seven)
	require.NoError(t, err)

	cards := make([]poker.Card, len(seven))
	for i, id := range seven {
		cards[i] = poker.NewCardFromID(id)
	}
	expected, _ := poker.Evaluate(cards)
	assert.Equal(t, uint16(expected), best.Score)
}

func TestLookupHandRejectsBadInput(t *testing.T) {
	store := rankingtest.Open(t)

	_, err := store.LookupHand([]poker.CardID{1, 2, 3, 4})
	assert.ErrorIs(t, err, ranking.ErrBadHandSize)

	_, err = store.LookupHand([]poker.CardID{1, 2, 3, 4, 99})
	assert.ErrorIs(t, err, ranking.ErrCardOutOfRange)

	_, err = store.LookupIndex(ranking.HandsCount(ranking.HandSize))
	assert.ErrorIs(t, err, ranking.ErrIndexOutOfRange)
}
