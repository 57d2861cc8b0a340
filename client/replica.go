package client

import (
	"fmt"

	"github.com/HarryR/sapphire-hodlem/game"
	"github.com/HarryR/sapphire-hodlem/logging"
	"github.com/HarryR/sapphire-hodlem/poker"
	"github.com/HarryR/sapphire-hodlem/ranking"
)

var replicaLogger = logging.GetZeroLogger("client::replica", nil)

// DesyncError reports an event stream inconsistency to the owning
// player. The replica never guesses or repairs silently.
type DesyncError struct {
	TableID string
	Reason  string
}

func (e DesyncError) Error() string {
	return fmt.Sprintf("replica desync on table %s: %s", e.TableID, e.Reason)
}

// SeatView mirrors another seat's public state.
type SeatView struct {
	Address   string
	Folded    bool
	RoundBet  uint32
	Payout    int64
	SettledUp bool
}

// PlayerLocalState is one player's private projection of one table,
// rebuilt purely by folding the public event stream plus the privately
// delivered hole cards. It never aliases table state.
type PlayerLocalState struct {
	TableID   string
	MySeat    int
	HoleCards []poker.CardID
	Community []poker.CardID
	Seats     []SeatView
	Pot       int64
	Round     int
	NextToAct int
	Resolved  bool

	// Candidates are all 5-card subsets of the known cards resolved
	// against the ranking database; Best is the strongest. They are
	// recomputed on every reveal, which is what lets the player pick
	// the proof to submit instead of trusting any server.
	Candidates []ranking.Leaf
	Best       *ranking.Leaf
}

// Replica maintains the owning player's local state for every table
// they have joined. Event application is a pure fold with no
// suspension points.
type Replica struct {
	address string
	store   *ranking.Store
	tables  map[string]*PlayerLocalState
}

func NewReplica(address string, store *ranking.Store) *Replica {
	return &Replica{
		address: address,
		store:   store,
		tables:  make(map[string]*PlayerLocalState),
	}
}

// Table returns the local state for a table, or nil if unknown.
func (r *Replica) Table(tableID string) *PlayerLocalState {
	return r.tables[tableID]
}

// Apply folds one event into the local state. Events for unknown
// tables (other than Created) surface a DesyncError: the replica must
// have seen the creation event first.
func (r *Replica) Apply(ev game.Event) error {
	switch ev := ev.(type) {
	case game.Created:
		return r.onCreated(ev)
	case game.HandDealt:
		return r.onHandDealt(ev)
	case game.CommunityRevealed:
		return r.onCommunityRevealed(ev)
	case game.ActionTaken:
		return r.onActionTaken(ev)
	case game.Settled:
		return r.onSettled(ev)
	case game.Ended:
		return r.onEnded(ev)
	}
	return DesyncError{TableID: ev.Table(), Reason: fmt.Sprintf("unhandled event type %s", ev.EventType())}
}

func (r *Replica) lookup(tableID string) (*PlayerLocalState, error) {
	state, ok := r.tables[tableID]
	if !ok {
		return nil, DesyncError{TableID: tableID, Reason: "event for a table whose creation was never seen"}
	}
	return state, nil
}

func (r *Replica) onCreated(ev game.Created) error {
	if _, ok := r.tables[ev.TableID]; ok {
		return DesyncError{TableID: ev.TableID, Reason: "duplicate creation event"}
	}
	state := &PlayerLocalState{
		TableID:   ev.TableID,
		MySeat:    -1,
		Pot:       ev.StartingPot,
		Round:     game.RoundPreflop,
		NextToAct: int(ev.StartingActor),
	}
	for i, addr := range ev.Seats {
		state.Seats = append(state.Seats, SeatView{Address: addr})
		if addr == r.address {
			state.MySeat = i
		}
	}
	r.tables[ev.TableID] = state
	return nil
}

func (r *Replica) onHandDealt(ev game.HandDealt) error {
	state, err := r.lookup(ev.TableID)
	if err != nil {
		return err
	}
	if ev.Address != r.address {
		// Not addressed to this player; we should never even have
		// received it.
		return DesyncError{TableID: ev.TableID, Reason: "received another seat's private deal"}
	}
	if int(ev.Seat) != state.MySeat {
		return DesyncError{TableID: ev.TableID, Reason: "private deal names an unexpected seat"}
	}
	state.HoleCards = append([]poker.CardID{}, ev.Cards[:]...)
	return nil
}

func (r *Replica) onCommunityRevealed(ev game.CommunityRevealed) error {
	state, err := r.lookup(ev.TableID)
	if err != nil {
		return err
	}
	if int(ev.Round) != state.Round+1 {
		return DesyncError{TableID: ev.TableID, Reason: fmt.Sprintf(
			"out-of-order reveal: round %d after round %d", ev.Round, state.Round)}
	}

	// Revealed cards fill the window left to right; a card appearing
	// after an empty slot means the stream is corrupt.
	revealed := make([]poker.CardID, 0, 5)
	sealed := false
	for _, c := range ev.Cards {
		if c == poker.NoCard {
			sealed = true
			continue
		}
		if sealed {
			return DesyncError{TableID: ev.TableID, Reason: "revealed card after an empty slot"}
		}
		revealed = append(revealed, c)
	}
	if len(revealed) < len(state.Community) {
		return DesyncError{TableID: ev.TableID, Reason: "community card count went backwards"}
	}

	state.Community = revealed
	state.Round = int(ev.Round)
	state.NextToAct = int(ev.NextActor)
	for i := range state.Seats {
		state.Seats[i].RoundBet = 0
	}
	return r.recomputeCandidates(state)
}

func (r *Replica) onActionTaken(ev game.ActionTaken) error {
	state, err := r.lookup(ev.TableID)
	if err != nil {
		return err
	}
	seat := int(ev.Seat)
	if seat < 0 || seat >= len(state.Seats) {
		return DesyncError{TableID: ev.TableID, Reason: fmt.Sprintf("action by unknown seat %d", seat)}
	}
	if ev.Multiple == 0 {
		state.Seats[seat].Folded = true
	} else if ev.Multiple > state.Seats[seat].RoundBet {
		state.Seats[seat].RoundBet = ev.Multiple
	}
	state.Pot = ev.NewPot
	state.NextToAct = int(ev.NextActor)
	return nil
}

func (r *Replica) onSettled(ev game.Settled) error {
	state, err := r.lookup(ev.TableID)
	if err != nil {
		return err
	}
	seat := int(ev.Seat)
	if seat < 0 || seat >= len(state.Seats) {
		return DesyncError{TableID: ev.TableID, Reason: fmt.Sprintf("settlement for unknown seat %d", seat)}
	}
	state.Seats[seat].Payout = ev.Payout
	state.Seats[seat].SettledUp = true
	return nil
}

func (r *Replica) onEnded(ev game.Ended) error {
	state, err := r.lookup(ev.TableID)
	if err != nil {
		return err
	}
	state.Resolved = true
	state.NextToAct = int(game.NoActor)
	return nil
}

// recomputeCandidates resolves every 5-card subset of the player's
// known cards against the ranking database.
func (r *Replica) recomputeCandidates(state *PlayerLocalState) error {
	state.Candidates = nil
	state.Best = nil
	if state.MySeat < 0 || len(state.HoleCards) != 2 {
		// Observers have no hole cards and no candidates.
		return nil
	}
	known := append(append([]poker.CardID{}, state.HoleCards...), state.Community...)
	if len(known) < ranking.HandSize {
		return nil
	}

	hand := make([]poker.CardID, ranking.HandSize)
	idx := make([]int, ranking.HandSize)
	for i := range idx {
		idx[i] = i
	}
	for {
		for i, j := range idx {
			hand[i] = known[j]
		}
		leaf, err := r.store.LookupHand(hand)
		if err != nil {
			return err
		}
		state.Candidates = append(state.Candidates, leaf)

		i := ranking.HandSize - 1
		for i >= 0 && idx[i] == i+len(known)-ranking.HandSize {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < ranking.HandSize; j++ {
			idx[j] = idx[j-1] + 1
		}
	}

	best := 0
	for i, leaf := range state.Candidates {
		if leaf.Score < state.Candidates[best].Score {
			best = i
		}
	}
	state.Best = &state.Candidates[best]
	replicaLogger.Debug().
		Str(logging.TableIDKey, state.TableID).
		Int("candidates", len(state.Candidates)).
		Uint16("bestScore", state.Best.Score).
		Msg("Recomputed best-hand candidates")
	return nil
}
