package game

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitPot(t *testing.T) {
	testCases := []struct {
		pot      int64
		winners  int
		expected []int64
	}{
		{
			pot:      0,
			winners:  1,
			expected: []int64{0},
		},
		{
			pot:      10,
			winners:  1,
			expected: []int64{10},
		},
		{
			pot:      10,
			winners:  2,
			expected: []int64{5, 5},
		},
		{
			pot:      11,
			winners:  2,
			expected: []int64{6, 5},
		},
		{
			pot:      13,
			winners:  3,
			expected: []int64{5, 4, 4},
		},
		{
			pot:      2,
			winners:  3,
			expected: []int64{2, 0, 0},
		},
	}

	for _, tc := range testCases {
		result := SplitPot(tc.pot, tc.winners)
		if !cmp.Equal(result, tc.expected) {
			t.Errorf("SplitPot(%d, %d) = %v, want %v", tc.pot, tc.winners, result, tc.expected)
		}
		var sum int64
		for _, p := range result {
			sum += p
		}
		if sum != tc.pot {
			t.Errorf("SplitPot(%d, %d) sums to %d", tc.pot, tc.winners, sum)
		}
	}

	if SplitPot(10, 0) != nil {
		t.Error("SplitPot with no winners must return nil")
	}
}
