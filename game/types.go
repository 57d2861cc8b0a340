package game

import (
	"time"

	"github.com/HarryR/sapphire-hodlem/poker"
)

type HandStatus int

const (
	HandStatus_ACTIVE HandStatus = iota
	HandStatus_SETTLED_BY_FOLD
	HandStatus_SETTLED_BY_SHOWDOWN
)

func (s HandStatus) String() string {
	switch s {
	case HandStatus_ACTIVE:
		return "ACTIVE"
	case HandStatus_SETTLED_BY_FOLD:
		return "SETTLED_BY_FOLD"
	case HandStatus_SETTLED_BY_SHOWDOWN:
		return "SETTLED_BY_SHOWDOWN"
	}
	return "UNKNOWN"
}

const (
	RoundPreflop = 0
	RoundFlop    = 1
	RoundTurn    = 2
	RoundRiver   = 3
	NumRounds    = 4
)

// MaxSeats is the largest table one deck can deal: two hole cards per
// seat plus five community cards from 52.
const MaxSeats = (poker.NumCards - 5) / 2

// revealedByRound is the cumulative community card count per round.
var revealedByRound = [NumRounds]int{0, 3, 4, 5}

// Player is a prospective participant handed to Begin by the
// matchmaking boundary. The balance is the buy-in the ledger has
// already locked for this hand; custody stays external.
type Player struct {
	Address string `json:"address"`
	Balance int64  `json:"balance"`
}

// SeatScore is a seat's committed showdown result. The zero value
// means "has not proven a hand" and compares worse than any proven
// score; keeping the flag explicit avoids sentinel comparison bugs.
type SeatScore struct {
	Proven bool   `json:"proven"`
	Score  uint16 `json:"score"`
}

// effective maps the optional score onto a comparable value where the
// unproven state is strictly worse than every real score.
func (s SeatScore) effective() uint32 {
	if !s.Proven {
		return 1 << 16
	}
	return uint32(s.Score)
}

// Seat is one chair at a table for the duration of a hand.
type Seat struct {
	Address string          `json:"address"`
	Balance int64           `json:"balance"`
	Cards   [2]poker.CardID `json:"cards"`
	Folded  bool            `json:"folded"`

	// BetMultiple is this round's accumulated bet in bet units.
	BetMultiple uint32 `json:"betMultiple"`
	// Contributed is the total paid into the pot over the whole hand.
	Contributed int64  `json:"contributed"`
	// Acted records whether the seat has acted since the last raise.
	Acted       bool   `json:"acted"`

	Result SeatScore `json:"result"`
}

// HandState is the authoritative state of one table playing one hand.
// It is mutated only by Begin/Act on a single goroutine; distinct
// tables share nothing.
type HandState struct {
	TableID       string          `json:"tableId"`
	BetUnit       int64           `json:"betUnit"`
	MaxRaise      uint32          `json:"maxRaise"`
	Seats         []*Seat         `json:"seats"`
	Community     [5]poker.CardID `json:"community"`
	Revealed      int             `json:"revealed"`
	Pot           int64           `json:"pot"`
	Round         int             `json:"round"`
	NextToAct     int             `json:"nextToAct"`
	CurrentMin    uint32          `json:"currentMin"`
	Status        HandStatus      `json:"status"`
	LastActionAt  time.Time       `json:"lastActionAt"`
	ActionTimeout time.Duration   `json:"actionTimeout"`

	verifier ProofVerifier
	nowFunc  func() time.Time
}

func (h *HandState) now() time.Time {
	if h.nowFunc == nil {
		return time.Now()
	}
	return h.nowFunc()
}

// SetVerifier attaches the showdown proof verifier. It must be called
// after loading a persisted state, since the verifier is not part of
// the serialized form.
func (h *HandState) SetVerifier(v ProofVerifier) {
	h.verifier = v
}

// activeSeats returns the number of seats that have not folded.
func (h *HandState) activeSeats() int {
	n := 0
	for _, s := range h.Seats {
		if !s.Folded {
			n++
		}
	}
	return n
}

// ContributionsTotal is the sum of all seats' paid-in amounts; it must
// equal the pot at all times.
func (h *HandState) ContributionsTotal() int64 {
	var total int64
	for _, s := range h.Seats {
		total += s.Contributed
	}
	return total
}

// CommunityRevealed returns the currently visible community cards.
func (h *HandState) CommunityRevealed() []poker.CardID {
	return h.Community[:h.Revealed]
}
