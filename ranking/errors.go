package ranking

import "errors"

var (
	ErrBadHandSize     = errors.New("unsupported hand size")
	ErrCardOutOfRange  = errors.New("card identity out of range")
	ErrDuplicateCard   = errors.New("duplicate card")
	ErrIndexOutOfRange = errors.New("hand index out of range")

	// ErrHandMismatch is raised when the leaf stored at a hand's index
	// does not hold that hand. It means the evaluator and the indexer
	// disagree and must never be ignored.
	ErrHandMismatch = errors.New("stored hand does not match lookup hand")

	// ErrRootMismatch is raised when a recomputed merkle root differs
	// from the persisted root.
	ErrRootMismatch = errors.New("merkle root mismatch")

	ErrBadProofShape = errors.New("malformed proof")
	ErrTruncatedFile = errors.New("ranking database file truncated")
)
