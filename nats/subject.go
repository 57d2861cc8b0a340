package nats

import "fmt"

// Public events for a table are broadcast on one subject; private
// hand-dealt events go to one subject per player address so that only
// the addressed seat's owner can see its hole cards.

func GetTableEventsSubject(tableID string) string {
	return fmt.Sprintf("table.%s.events", tableID)
}

func GetPlayerSubject(tableID string, address string) string {
	return fmt.Sprintf("table.%s.player.%s", tableID, address)
}
