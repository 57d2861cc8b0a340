package game

import "fmt"

type WrongActorError struct {
	Seat     int
	Expected int
}

func (e WrongActorError) Error() string {
	return fmt.Sprintf("seat %d acted out of turn, seat %d is to act", e.Seat, e.Expected)
}

type InvalidBetError struct {
	Multiple uint32
	Min      uint32
	Max      uint32
}

func (e InvalidBetError) Error() string {
	return fmt.Sprintf("bet multiple %d outside [%d, %d]", e.Multiple, e.Min, e.Max)
}

type ProofRoundError struct {
	Round int
}

func (e ProofRoundError) Error() string {
	return fmt.Sprintf("showdown proof submitted in round %d, only allowed in the final round", e.Round)
}

type ProofCardsError struct {
	Msg string
}

func (e ProofCardsError) Error() string {
	return e.Msg
}

type TableSettledError struct {
	Status HandStatus
}

func (e TableSettledError) Error() string {
	return fmt.Sprintf("table already settled: %s", e.Status)
}

type NotTimedOutError struct {
	Remaining string
}

func (e NotTimedOutError) Error() string {
	return fmt.Sprintf("action timeout has not elapsed, %s remaining", e.Remaining)
}

type InvalidSeatError struct {
	Seat int
}

func (e InvalidSeatError) Error() string {
	return fmt.Sprintf("no such seat %d", e.Seat)
}

type TooFewPlayersError struct {
	Count int
}

func (e TooFewPlayersError) Error() string {
	return fmt.Sprintf("cannot start a table with %d players", e.Count)
}

type TooManyPlayersError struct {
	Count int
}

func (e TooManyPlayersError) Error() string {
	return fmt.Sprintf("cannot seat %d players, the table capacity is %d", e.Count, MaxSeats)
}

type UnknownTableError struct {
	TableID string
}

func (e UnknownTableError) Error() string {
	return fmt.Sprintf("unknown table %s", e.TableID)
}
