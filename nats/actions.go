package nats

import (
	jsoniter "github.com/json-iterator/go"
	natsgo "github.com/nats-io/nats.go"
	"github.com/pkg/errors"

	"github.com/HarryR/sapphire-hodlem/game"
	"github.com/HarryR/sapphire-hodlem/logging"
	"github.com/HarryR/sapphire-hodlem/ranking"
)

var actionLogger = logging.GetZeroLogger("nats::actions", nil)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ActionMessage is a player's submitted action. The proof is optional
// and only meaningful in the final round.
type ActionMessage struct {
	TableID  string         `json:"tableId"`
	Seat     int            `json:"seat"`
	Multiple uint32         `json:"multiple"`
	Proof    *ranking.Proof `json:"proof,omitempty"`
}

// GetActionsSubject is where players submit actions for a table.
func GetActionsSubject() string {
	return "table.actions"
}

// ServeActions forwards submitted player actions to the table manager.
// Rejections are logged and dropped; the state machine has already
// guaranteed they caused no state change.
func ServeActions(nc *natsgo.Conn, manager *game.Manager) error {
	_, err := nc.Subscribe(GetActionsSubject(), func(msg *natsgo.Msg) {
		var action ActionMessage
		if err := json.Unmarshal(msg.Data, &action); err != nil {
			actionLogger.Error().Err(err).Msg("Dropping undecodable action")
			return
		}
		if err := manager.Act(action.TableID, action.Seat, action.Multiple, action.Proof); err != nil {
			actionLogger.Warn().Err(err).
				Str(logging.TableIDKey, action.TableID).
				Int(logging.SeatNumKey, action.Seat).
				Msg("Action rejected")
		}
	})
	return errors.Wrap(err, "subscribing for player actions")
}
