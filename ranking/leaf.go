package ranking

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/HarryR/sapphire-hodlem/poker"
)

const (
	// LeafSize is the raw leaf record width: 5 card identity bytes
	// followed by a little-endian 16-bit score.
	LeafSize = HandSize + 2
	// HashSize is the width of every tree node.
	HashSize = sha256.Size

	// PairingSteps is the fixed tree depth: the number of pairwise
	// hashing steps from the leaf level up to the single root.
	PairingSteps = 22
	// LevelFiles is the number of persisted internal levels; the final
	// pairing step's single output is the root file.
	LevelFiles = PairingSteps - 1
)

// Leaf is one ranking database record: a canonical 5-card hand, its
// score and its index. Lower scores are stronger.
type Leaf struct {
	Index uint64
	Cards [HandSize]poker.CardID
	Score uint16
}

// Encode returns the raw 7-byte record that is stored and hashed.
func (l Leaf) Encode() [LeafSize]byte {
	var buf [LeafSize]byte
	copy(buf[:HandSize], l.Cards[:])
	binary.LittleEndian.PutUint16(buf[HandSize:], l.Score)
	return buf
}

// Hash returns the SHA-256 digest of the raw record.
func (l Leaf) Hash() [HashSize]byte {
	buf := l.Encode()
	return sha256.Sum256(buf[:])
}

func (l Leaf) String() string {
	return fmt.Sprintf("%s score=%d (%s)", poker.IDsToString(l.Cards[:]), l.Score, poker.RankString(int32(l.Score)))
}

// DecodeLeaf parses a raw record. Card bytes at or beyond the deck size
// are an integrity error, never silently dropped.
func DecodeLeaf(index uint64, buf []byte) (Leaf, error) {
	if len(buf) != LeafSize {
		return Leaf{}, fmt.Errorf("%w: leaf record is %d bytes", ErrBadProofShape, len(buf))
	}
	leaf := Leaf{Index: index}
	for i := 0; i < HandSize; i++ {
		if buf[i] >= poker.NumCards {
			return Leaf{}, fmt.Errorf("%w: leaf byte %d is %d", ErrCardOutOfRange, i, buf[i])
		}
		leaf.Cards[i] = buf[i]
	}
	leaf.Score = binary.LittleEndian.Uint16(buf[HandSize:])
	return leaf, nil
}

// levelWidth returns the node count of persisted level L, which holds
// the outputs of pairing step L.
func levelWidth(level int) uint64 {
	width := HandsCount(HandSize)
	for i := 0; i <= level; i++ {
		width = (width + 1) / 2
	}
	return width
}

// fillNode is the deterministic sentinel used in place of a missing
// sibling when a level has an odd node count: the byte value is the
// pairing step number, repeated across the node width.
func fillNode(step int) [HashSize]byte {
	var node [HashSize]byte
	for i := range node {
		node[i] = byte(step)
	}
	return node
}

func hashPair(left, right [HashSize]byte) [HashSize]byte {
	h := sha256.New()
	h.Write(left[:])
	h.Write(right[:])
	var out [HashSize]byte
	copy(out[:], h.Sum(nil))
	return out
}
