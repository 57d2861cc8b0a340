package nats

import (
	natsgo "github.com/nats-io/nats.go"
	"github.com/pkg/errors"

	"github.com/HarryR/sapphire-hodlem/game"
	"github.com/HarryR/sapphire-hodlem/logging"
)

var natsLogger = logging.GetZeroLogger("nats::publisher", nil)

// Publisher fans the state machine's events out over NATS. Everything
// except HandDealt goes to the table's public subject; HandDealt is
// delivered only on the addressed player's private subject.
type Publisher struct {
	nc *natsgo.Conn
}

func NewPublisher(nc *natsgo.Conn) *Publisher {
	return &Publisher{nc: nc}
}

func (p *Publisher) Publish(events []game.Event) error {
	for _, ev := range events {
		data, err := game.MarshalEvent(ev)
		if err != nil {
			return err
		}
		subject := GetTableEventsSubject(ev.Table())
		if dealt, ok := ev.(game.HandDealt); ok {
			subject = GetPlayerSubject(dealt.TableID, dealt.Address)
		}
		if err := p.nc.Publish(subject, data); err != nil {
			return errors.Wrapf(err, "publishing %s to %s", ev.EventType(), subject)
		}
		natsLogger.Debug().
			Str(logging.TableIDKey, ev.Table()).
			Str(logging.MsgTypeKey, ev.EventType()).
			Str("subject", subject).
			Msg("Published event")
	}
	return nil
}
