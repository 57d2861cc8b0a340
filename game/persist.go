package game

// PersistHandState stores the authoritative table state between
// actions. Every accepted transition is saved before the next one is
// evaluated, so a committed action is never rolled back by a later
// rejection.
type PersistHandState interface {
	Save(handState *HandState) error
	Load(tableID string) (*HandState, error)
	Remove(tableID string) error
}
