package ranking

import (
	"crypto/subtle"

	"github.com/pkg/errors"

	"github.com/HarryR/sapphire-hodlem/poker"
)

// Proof shows that a specific hand/score pair is present in the
// canonical ranking database: the leaf plus the ordered sibling hashes
// from the leaf level up to the root.
type Proof struct {
	Leaf     Leaf
	Siblings [PairingSteps][HashSize]byte
}

// Prove builds an inclusion proof for the given 5-card hand. The proof
// is verified against the persisted root before it is returned, so the
// caller can trust it without re-deriving it.
func (s *Store) Prove(cards []poker.CardID) (*Proof, error) {
	leaf, err := s.LookupHand(cards)
	if err != nil {
		return nil, err
	}
	proof := &Proof{Leaf: leaf}
	for step := 0; step < PairingSteps; step++ {
		sibling := (leaf.Index >> uint(step)) ^ 1
		node, err := s.node(step, sibling)
		if err != nil {
			return nil, err
		}
		proof.Siblings[step] = node
	}
	if err := proof.Verify(s.root); err != nil {
		return nil, errors.Wrap(err, "self-check of freshly built proof")
	}
	return proof, nil
}

// VerifyProof checks a proof against this store's root.
func (s *Store) VerifyProof(proof *Proof) error {
	return proof.Verify(s.root)
}

// Verify recomputes the root from the leaf and the sibling path and
// compares it against the expected root. The node parity at each step
// decides hashing order: an even index hashes itself first, an odd one
// hashes the sibling first. The leaf index is recomputed from the
// claimed cards, so a proof cannot smuggle in a leaf under a foreign
// index.
func (p *Proof) Verify(root [HashSize]byte) error {
	index, err := HandToIndex(p.Leaf.Cards[:])
	if err != nil {
		return errors.Wrap(ErrBadProofShape, err.Error())
	}
	if index != p.Leaf.Index {
		return errors.Wrapf(ErrBadProofShape, "leaf index %d does not match hand index %d", p.Leaf.Index, index)
	}

	node := p.Leaf.Hash()
	for step := 0; step < PairingSteps; step++ {
		if (index>>uint(step))&1 == 0 {
			node = hashPair(node, p.Siblings[step])
		} else {
			node = hashPair(p.Siblings[step], node)
		}
	}
	if subtle.ConstantTimeCompare(node[:], root[:]) != 1 {
		return ErrRootMismatch
	}
	return nil
}
