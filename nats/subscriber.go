package nats

import (
	natsgo "github.com/nats-io/nats.go"
	"github.com/pkg/errors"

	"github.com/HarryR/sapphire-hodlem/game"
	"github.com/HarryR/sapphire-hodlem/logging"
)

var subLogger = logging.GetZeroLogger("nats::subscriber", nil)

// Subscriber feeds a table's event stream into an event handler,
// typically a client replica's Apply. It listens on the table's public
// subject and on the owning player's private subject.
type Subscriber struct {
	nc      *natsgo.Conn
	address string
	handler func(game.Event) error
	subs    []*natsgo.Subscription
}

func NewSubscriber(nc *natsgo.Conn, address string, handler func(game.Event) error) *Subscriber {
	return &Subscriber{nc: nc, address: address, handler: handler}
}

// Join subscribes to one table's streams.
func (s *Subscriber) Join(tableID string) error {
	for _, subject := range []string{
		GetTableEventsSubject(tableID),
		GetPlayerSubject(tableID, s.address),
	} {
		sub, err := s.nc.Subscribe(subject, s.onMessage)
		if err != nil {
			return errors.Wrapf(err, "subscribing to %s", subject)
		}
		s.subs = append(s.subs, sub)
	}
	return nil
}

// Close drains all table subscriptions.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		sub.Unsubscribe()
	}
	s.subs = nil
}

func (s *Subscriber) onMessage(msg *natsgo.Msg) {
	ev, err := game.UnmarshalEvent(msg.Data)
	if err != nil {
		subLogger.Error().Err(err).Str("subject", msg.Subject).Msg("Dropping undecodable event")
		return
	}
	if err := s.handler(ev); err != nil {
		subLogger.Error().Err(err).
			Str(logging.TableIDKey, ev.Table()).
			Str(logging.MsgTypeKey, ev.EventType()).
			Msg("Event handler reported an inconsistency")
	}
}
