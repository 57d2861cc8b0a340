package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/HarryR/sapphire-hodlem/logging"
	"github.com/HarryR/sapphire-hodlem/poker"
	"github.com/HarryR/sapphire-hodlem/ranking"
)

var handLogger = logging.GetZeroLogger("game::hand", nil)

// ProofVerifier checks a showdown proof against the canonical ranking
// database root. *ranking.Store satisfies it.
type ProofVerifier interface {
	VerifyProof(proof *ranking.Proof) error
}

const (
	smallBlindMultiple = 1
	bigBlindMultiple   = 2
)

// BeginConfig carries everything Begin needs. Seed comes from an
// external randomness source, is used for exactly one shuffle, and
// must never be reused across tables.
type BeginConfig struct {
	TableID       string
	Players       []Player
	BetUnit       int64
	MaxRaise      uint32
	ActionTimeout time.Duration
	Seed          int64

	// ScriptedDeck overrides the shuffled deck; tests only.
	ScriptedDeck *poker.Deck
}

// Begin seats the players in shuffled order, deals two private cards
// per seat and five face-down community cards, posts the blinds and
// hands the action to the seat after the big blind. It returns the
// creation and per-seat deal events; the deal events are private to
// their addressed seats.
func Begin(cfg BeginConfig, verifier ProofVerifier) (*HandState, []Event, error) {
	if len(cfg.Players) < 2 {
		return nil, nil, TooFewPlayersError{Count: len(cfg.Players)}
	}
	if len(cfg.Players) > MaxSeats {
		return nil, nil, TooManyPlayersError{Count: len(cfg.Players)}
	}
	if cfg.BetUnit <= 0 || cfg.MaxRaise < 1 {
		return nil, nil, fmt.Errorf("invalid table config: unit %d max raise %d", cfg.BetUnit, cfg.MaxRaise)
	}
	for _, p := range cfg.Players {
		if p.Balance < int64(bigBlindMultiple)*cfg.BetUnit {
			return nil, nil, fmt.Errorf("player %s cannot cover the big blind", p.Address)
		}
	}

	rnd := rand.New(rand.NewSource(cfg.Seed))

	seated := make([]Player, len(cfg.Players))
	copy(seated, cfg.Players)
	rnd.Shuffle(len(seated), func(i, j int) {
		seated[i], seated[j] = seated[j], seated[i]
	})

	deck := cfg.ScriptedDeck
	if deck == nil {
		deck = poker.NewShuffledDeck(rnd)
	}

	h := &HandState{
		TableID:       cfg.TableID,
		BetUnit:       cfg.BetUnit,
		MaxRaise:      cfg.MaxRaise,
		Round:         RoundPreflop,
		CurrentMin:    1,
		Status:        HandStatus_ACTIVE,
		ActionTimeout: cfg.ActionTimeout,
		verifier:      verifier,
	}
	for i := range h.Community {
		h.Community[i] = poker.NoCard
	}

	for _, p := range seated {
		seat := &Seat{Address: p.Address, Balance: p.Balance}
		holes := deck.DrawIDs(2)
		seat.Cards[0] = holes[0]
		seat.Cards[1] = holes[1]
		h.Seats = append(h.Seats, seat)
	}
	community := deck.DrawIDs(5)
	copy(h.Community[:], community)

	// Blinds come out of the first two seats before anyone acts.
	h.postBlind(0, smallBlindMultiple)
	h.postBlind(1, bigBlindMultiple)
	h.NextToAct = 2 % len(h.Seats)
	h.LastActionAt = h.now()

	addresses := make([]string, len(h.Seats))
	for i, s := range h.Seats {
		addresses[i] = s.Address
	}
	events := []Event{Created{
		TableID:       h.TableID,
		Seats:         addresses,
		BetUnit:       h.BetUnit,
		MaxRaise:      h.MaxRaise,
		StartingActor: int32(h.NextToAct),
		StartingPot:   h.Pot,
	}}
	for i, s := range h.Seats {
		events = append(events, HandDealt{
			TableID: h.TableID,
			Seat:    int32(i),
			Address: s.Address,
			Cards:   s.Cards,
		})
	}

	handLogger.Info().
		Str(logging.TableIDKey, h.TableID).
		Int("seats", len(h.Seats)).
		Int64("pot", h.Pot).
		Msg("Hand started")
	return h, events, nil
}

func (h *HandState) postBlind(seatNo int, multiple uint32) {
	seat := h.Seats[seatNo]
	amount := int64(multiple) * h.BetUnit
	seat.Balance -= amount
	seat.Contributed += amount
	seat.BetMultiple = multiple
	h.Pot += amount
}

// Act applies one player action. On success it returns the emitted
// events; on any error the state is untouched. A wrong-turn attempt is
// a terminal rejection for that attempt, never queued.
func (h *HandState) Act(seatNo int, multiple uint32, proof *ranking.Proof) ([]Event, error) {
	if h.Status != HandStatus_ACTIVE {
		return nil, TableSettledError{Status: h.Status}
	}
	if seatNo < 0 || seatNo >= len(h.Seats) {
		return nil, InvalidSeatError{Seat: seatNo}
	}
	if seatNo != h.NextToAct {
		return nil, WrongActorError{Seat: seatNo, Expected: h.NextToAct}
	}
	seat := h.Seats[seatNo]

	if multiple != 0 && (multiple < h.CurrentMin || multiple > h.MaxRaise) {
		return nil, InvalidBetError{Multiple: multiple, Min: h.CurrentMin, Max: h.MaxRaise}
	}

	// Validate the proof fully before mutating anything, so a bad
	// proof cannot leave a partial state update behind.
	var proven *SeatScore
	if proof != nil {
		if h.Round != RoundRiver {
			return nil, ProofRoundError{Round: h.Round}
		}
		if err := h.verifier.VerifyProof(proof); err != nil {
			return nil, err
		}
		if err := h.checkProofCards(seat, proof); err != nil {
			return nil, err
		}
		proven = &SeatScore{Proven: true, Score: proof.Leaf.Score}
	}

	// An unaffordable bet downgrades to a fold rather than being
	// rejected, so a stalled balance can never stall the hand.
	needed := int64(0)
	if multiple > seat.BetMultiple {
		needed = int64(multiple-seat.BetMultiple) * h.BetUnit
	}
	if multiple != 0 && seat.Balance < needed {
		handLogger.Warn().
			Str(logging.TableIDKey, h.TableID).
			Int(logging.SeatNumKey, seatNo).
			Uint32("multiple", multiple).
			Int64("balance", seat.Balance).
			Msg("Seat cannot cover bet, downgrading to fold")
		multiple = 0
		needed = 0
	}

	if proven != nil {
		if !seat.Result.Proven || proven.Score < seat.Result.Score {
			seat.Result = *proven
		}
	}

	var events []Event
	if multiple == 0 {
		seat.Folded = true
		seat.Acted = true
	} else {
		seat.Balance -= needed
		seat.Contributed += needed
		h.Pot += needed
		if multiple > seat.BetMultiple {
			seat.BetMultiple = multiple
		}
		if multiple > h.CurrentMin {
			// A raise reopens the action for everyone else.
			h.CurrentMin = multiple
			for i, other := range h.Seats {
				if i != seatNo {
					other.Acted = false
				}
			}
		}
		seat.Acted = true
	}
	h.LastActionAt = h.now()

	if h.activeSeats() == 1 {
		events = append(events, ActionTaken{
			TableID:   h.TableID,
			Seat:      int32(seatNo),
			Multiple:  multiple,
			NewPot:    h.Pot,
			NextActor: NoActor,
		})
		events = append(events, h.settleDefaultWin()...)
		return events, nil
	}

	if h.roundComplete() {
		events = append(events, ActionTaken{
			TableID:   h.TableID,
			Seat:      int32(seatNo),
			Multiple:  multiple,
			NewPot:    h.Pot,
			NextActor: NoActor,
		})
		more, err := h.advanceRound()
		if err != nil {
			return nil, err
		}
		return append(events, more...), nil
	}

	h.NextToAct = h.nextActiveSeat(seatNo)
	events = append(events, ActionTaken{
		TableID:   h.TableID,
		Seat:      int32(seatNo),
		Multiple:  multiple,
		NewPot:    h.Pot,
		NextActor: int32(h.NextToAct),
	})
	return events, nil
}

// checkProofCards enforces that the proven hand is drawn strictly from
// the seat's hole cards plus the revealed community cards. Root
// validity alone is not sufficient; all five claimed cards must match
// by multiset membership.
func (h *HandState) checkProofCards(seat *Seat, proof *ranking.Proof) error {
	available := make(map[poker.CardID]int)
	for _, c := range seat.Cards {
		available[c]++
	}
	for _, c := range h.CommunityRevealed() {
		available[c]++
	}
	matched := 0
	for _, c := range proof.Leaf.Cards {
		if available[c] > 0 {
			available[c]--
			matched++
		}
	}
	if matched != ranking.HandSize {
		return ProofCardsError{Msg: fmt.Sprintf(
			"proof hand %s uses cards the seat does not hold (%d of %d matched)",
			poker.IDsToString(proof.Leaf.Cards[:]), matched, ranking.HandSize)}
	}
	return nil
}

// roundComplete reports whether every active seat has acted since the
// last raise and matched the round minimum.
func (h *HandState) roundComplete() bool {
	for _, seat := range h.Seats {
		if seat.Folded {
			continue
		}
		if !seat.Acted || seat.BetMultiple < h.CurrentMin {
			return false
		}
	}
	return true
}

func (h *HandState) nextActiveSeat(from int) int {
	for i := 1; i <= len(h.Seats); i++ {
		n := (from + i) % len(h.Seats)
		if !h.Seats[n].Folded {
			return n
		}
	}
	// Callers only ask while at least one seat is active.
	panic("no active seats")
}

func (h *HandState) firstActiveSeat() int {
	for i, seat := range h.Seats {
		if !seat.Folded {
			return i
		}
	}
	panic("no active seats")
}

// advanceRound reveals the next community tranche and resets the
// per-round betting state, or settles by showdown after the river.
func (h *HandState) advanceRound() ([]Event, error) {
	if h.Round == RoundRiver {
		return h.settleShowdown()
	}

	h.Round++
	h.Revealed = revealedByRound[h.Round]
	h.CurrentMin = 1
	for _, seat := range h.Seats {
		seat.BetMultiple = 0
		seat.Acted = false
	}
	h.NextToAct = h.firstActiveSeat()
	h.LastActionAt = h.now()

	var window [5]poker.CardID
	for i := range window {
		if i < h.Revealed {
			window[i] = h.Community[i]
		} else {
			window[i] = poker.NoCard
		}
	}
	handLogger.Info().
		Str(logging.TableIDKey, h.TableID).
		Int(logging.RoundKey, h.Round).
		Str("community", poker.IDsToString(h.CommunityRevealed())).
		Msg("Round advanced")
	return []Event{CommunityRevealed{
		TableID:   h.TableID,
		Round:     int32(h.Round),
		Cards:     window,
		NextActor: int32(h.NextToAct),
	}}, nil
}

// settleDefaultWin awards the whole pot to the sole remaining seat; no
// showdown proof is required.
func (h *HandState) settleDefaultWin() []Event {
	winner := h.firstActiveSeat()
	payout := h.Pot
	h.Seats[winner].Balance += payout
	h.Status = HandStatus_SETTLED_BY_FOLD
	h.NextToAct = -1

	handLogger.Info().
		Str(logging.TableIDKey, h.TableID).
		Int(logging.SeatNumKey, winner).
		Int64("payout", payout).
		Msg("Default win, all other seats folded")
	return []Event{
		Settled{TableID: h.TableID, Seat: int32(winner), Payout: payout},
		Ended{TableID: h.TableID},
	}
}

// settleShowdown splits the pot among the active seats tied at the
// lowest committed score. Seats that never proved a hand hold the
// explicit unproven state, which loses to any proven score; if nobody
// proved, every active seat ties and the pot still pays out.
func (h *HandState) settleShowdown() ([]Event, error) {
	best := uint32(1<<16) + 1
	for _, seat := range h.Seats {
		if seat.Folded {
			continue
		}
		if e := seat.Result.effective(); e < best {
			best = e
		}
	}
	var winners []int
	for i, seat := range h.Seats {
		if seat.Folded {
			continue
		}
		if seat.Result.effective() == best {
			winners = append(winners, i)
		}
	}

	payouts := SplitPot(h.Pot, len(winners))
	events := make([]Event, 0, len(winners)+1)
	for i, w := range winners {
		h.Seats[w].Balance += payouts[i]
		events = append(events, Settled{TableID: h.TableID, Seat: int32(w), Payout: payouts[i]})
	}
	events = append(events, Ended{TableID: h.TableID})

	h.Status = HandStatus_SETTLED_BY_SHOWDOWN
	h.NextToAct = -1
	handLogger.Info().
		Str(logging.TableIDKey, h.TableID).
		Ints("winners", winners).
		Int64("pot", h.Pot).
		Msg("Showdown settled")
	return events, nil
}

// ForceFoldOnTimeout lets any external caller fold the stalled seat to
// act once the action timeout has elapsed. Each accepted action resets
// the clock, so invoking this twice for the same stall is rejected the
// second time.
func (h *HandState) ForceFoldOnTimeout() ([]Event, error) {
	if h.Status != HandStatus_ACTIVE {
		return nil, TableSettledError{Status: h.Status}
	}
	elapsed := h.now().Sub(h.LastActionAt)
	if elapsed <= h.ActionTimeout {
		return nil, NotTimedOutError{Remaining: (h.ActionTimeout - elapsed).String()}
	}
	handLogger.Warn().
		Str(logging.TableIDKey, h.TableID).
		Int(logging.SeatNumKey, h.NextToAct).
		Msg("Force-folding stalled seat")
	return h.Act(h.NextToAct, 0, nil)
}
