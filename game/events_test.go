package game

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/HarryR/sapphire-hodlem/poker"
)

func TestEventRoundTrip(t *testing.T) {
	events := []Event{
		Created{
			TableID:       "t1",
			Seats:         []string{"alice", "bob"},
			BetUnit:       10,
			MaxRaise:      8,
			StartingActor: 0,
			StartingPot:   30,
		},
		HandDealt{TableID: "t1", Seat: 1, Address: "bob", Cards: [2]poker.CardID{8, 51}},
		CommunityRevealed{
			TableID:   "t1",
			Round:     1,
			Cards:     [5]poker.CardID{0, 17, 42, poker.NoCard, poker.NoCard},
			NextActor: 0,
		},
		ActionTaken{TableID: "t1", Seat: 0, Multiple: 2, NewPot: 50, NextActor: 1},
		Settled{TableID: "t1", Seat: 1, Payout: 50},
		Ended{TableID: "t1"},
	}

	for _, ev := range events {
		data, err := MarshalEvent(ev)
		if err != nil {
			t.Fatalf("MarshalEvent(%s): %v", ev.EventType(), err)
		}
		back, err := UnmarshalEvent(data)
		if err != nil {
			t.Fatalf("UnmarshalEvent(%s): %v", ev.EventType(), err)
		}
		if !cmp.Equal(ev, back) {
			t.Errorf("%s round trip mismatch: %s", ev.EventType(), cmp.Diff(ev, back))
		}
	}
}

func TestDecodeRejectsOutOfRangeCards(t *testing.T) {
	// The no-card sentinel is only legal in fixed-width reveal slots;
	// any other byte at or past the deck size is an integrity error.
	bad := CommunityRevealed{
		TableID: "t1",
		Round:   1,
		Cards:   [5]poker.CardID{0, 17, 60, poker.NoCard, poker.NoCard},
	}
	data, err := MarshalEvent(bad)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := UnmarshalEvent(data); err == nil {
		t.Error("expected out-of-range community card to be rejected")
	}

	dealt := HandDealt{TableID: "t1", Seat: 0, Address: "alice", Cards: [2]poker.CardID{poker.NoCard, 3}}
	data, err = MarshalEvent(dealt)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := UnmarshalEvent(data); err == nil {
		t.Error("expected sentinel hole card to be rejected")
	}
}

func TestDecodeRejectsUnknownType(t *testing.T) {
	if _, err := UnmarshalEvent([]byte(`{"type":"BOGUS","payload":{}}`)); err == nil {
		t.Error("expected unknown event type to be rejected")
	}
}
