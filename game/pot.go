package game

// SplitPot divides a pot equally among n winners. The integer
// remainder ("dust") goes to the first winner rather than being lost,
// so the returned amounts always sum exactly to the pot.
func SplitPot(pot int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	amounts := make([]int64, n)
	share := pot / int64(n)
	dust := pot - share*int64(n)
	for i := range amounts {
		amounts[i] = share
	}
	amounts[0] += dust
	return amounts
}
