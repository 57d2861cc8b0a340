package game

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/HarryR/sapphire-hodlem/poker"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Event is one typed delta emitted by the betting state machine.
// Clients never receive full-state snapshots; the replica reconstructs
// everything from these.
type Event interface {
	Table() string
	EventType() string
}

const (
	EventCreated           = "CREATED"
	EventHandDealt         = "HAND_DEALT"
	EventCommunityRevealed = "COMMUNITY_REVEALED"
	EventActionTaken       = "ACTION_TAKEN"
	EventSettled           = "SETTLED"
	EventEnded             = "ENDED"
)

// NoActor marks "nobody to act" in events carrying a next actor.
const NoActor int32 = -1

type Created struct {
	TableID       string   `json:"tableId"`
	Seats         []string `json:"seats"`
	BetUnit       int64    `json:"betUnit"`
	MaxRaise      uint32   `json:"maxRaise"`
	StartingActor int32    `json:"startingActor"`
	StartingPot   int64    `json:"startingPot"`
}

func (e Created) Table() string     { return e.TableID }
func (e Created) EventType() string { return EventCreated }

// HandDealt carries a seat's private hole cards. Its visibility is
// restricted to the addressed seat's owner; the transport layer must
// deliver it on the owner's private subject only.
type HandDealt struct {
	TableID string          `json:"tableId"`
	Seat    int32           `json:"seat"`
	Address string          `json:"address"`
	Cards   [2]poker.CardID `json:"cards"`
}

func (e HandDealt) Table() string     { return e.TableID }
func (e HandDealt) EventType() string { return EventHandDealt }

// CommunityRevealed announces a round boundary. Cards is a fixed-width
// window over all five community slots with poker.NoCard marking the
// still-hidden ones.
type CommunityRevealed struct {
	TableID   string          `json:"tableId"`
	Round     int32           `json:"round"`
	Cards     [5]poker.CardID `json:"cards"`
	NextActor int32           `json:"nextActor"`
}

func (e CommunityRevealed) Table() string     { return e.TableID }
func (e CommunityRevealed) EventType() string { return EventCommunityRevealed }

type ActionTaken struct {
	TableID   string `json:"tableId"`
	Seat      int32  `json:"seat"`
	Multiple  uint32 `json:"multiple"`
	NewPot    int64  `json:"newPot"`
	NextActor int32  `json:"nextActor"`
}

func (e ActionTaken) Table() string     { return e.TableID }
func (e ActionTaken) EventType() string { return EventActionTaken }

type Settled struct {
	TableID string `json:"tableId"`
	Seat    int32  `json:"seat"`
	Payout  int64  `json:"payout"`
}

func (e Settled) Table() string     { return e.TableID }
func (e Settled) EventType() string { return EventSettled }

type Ended struct {
	TableID string `json:"tableId"`
}

func (e Ended) Table() string     { return e.TableID }
func (e Ended) EventType() string { return EventEnded }

type eventEnvelope struct {
	Type    string              `json:"type"`
	Payload jsoniter.RawMessage `json:"payload"`
}

// MarshalEvent encodes an event with its type tag for transport.
func MarshalEvent(ev Event) ([]byte, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling event payload")
	}
	return json.Marshal(eventEnvelope{Type: ev.EventType(), Payload: payload})
}

// UnmarshalEvent decodes a transported event and validates every card
// byte: the explicit no-card sentinel is allowed in fixed-width slots,
// any other value at or beyond the deck size is a data-integrity
// error, never silently dropped.
func UnmarshalEvent(data []byte) (Event, error) {
	var env eventEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(err, "unmarshalling event envelope")
	}

	switch env.Type {
	case EventCreated:
		var ev Created
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	case EventHandDealt:
		var ev HandDealt
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			return nil, err
		}
		for _, c := range ev.Cards {
			if err := checkCardByte(c, false); err != nil {
				return nil, err
			}
		}
		return ev, nil
	case EventCommunityRevealed:
		var ev CommunityRevealed
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			return nil, err
		}
		for _, c := range ev.Cards {
			if err := checkCardByte(c, true); err != nil {
				return nil, err
			}
		}
		return ev, nil
	case EventActionTaken:
		var ev ActionTaken
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	case EventSettled:
		var ev Settled
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	case EventEnded:
		var ev Ended
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	}
	return nil, fmt.Errorf("unknown event type %q", env.Type)
}

func checkCardByte(c poker.CardID, sentinelOK bool) error {
	if c < poker.NumCards {
		return nil
	}
	if sentinelOK && c == poker.NoCard {
		return nil
	}
	return fmt.Errorf("card byte %d out of range", c)
}
