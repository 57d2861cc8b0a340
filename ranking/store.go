package ranking

import (
	"fmt"
	"os"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/HarryR/sapphire-hodlem/logging"
	"github.com/HarryR/sapphire-hodlem/poker"
)

var storeLogger = logging.GetZeroLogger("ranking::store", nil)

const leafCacheSize = 4096

// Store is a read-only view over a built ranking database. It is
// immutable and safe for concurrent use by any number of tables and
// replicas; every lookup is a single seek into a demand-paged file.
type Store struct {
	dir    string
	leaves *os.File
	levels [LevelFiles]*os.File
	root   [HashSize]byte
	cache  *lru.Cache
}

// OpenStore opens the database files under dir.
func OpenStore(dir string) (*Store, error) {
	s := &Store{dir: dir}

	rootBytes, err := os.ReadFile(RootFile(dir))
	if err != nil {
		return nil, errors.Wrap(err, "reading root file")
	}
	if len(rootBytes) != HashSize {
		return nil, errors.Wrapf(ErrTruncatedFile, "root file is %d bytes", len(rootBytes))
	}
	copy(s.root[:], rootBytes)

	s.leaves, err = os.Open(LeafFile(dir))
	if err != nil {
		return nil, errors.Wrap(err, "opening leaf file")
	}
	if err := s.checkSize(s.leaves, HandsCount(HandSize)*LeafSize); err != nil {
		s.Close()
		return nil, err
	}
	for level := 0; level < LevelFiles; level++ {
		s.levels[level], err = os.Open(LevelFile(dir, level))
		if err != nil {
			s.Close()
			return nil, errors.Wrapf(err, "opening level file %d", level)
		}
		if err := s.checkSize(s.levels[level], levelWidth(level)*HashSize); err != nil {
			s.Close()
			return nil, err
		}
	}

	s.cache, err = lru.New(leafCacheSize)
	if err != nil {
		s.Close()
		return nil, err
	}
	storeLogger.Info().Str("dir", dir).Hex("root", s.root[:]).Msg("Opened ranking database")
	return s, nil
}

func (s *Store) checkSize(f *os.File, want uint64) error {
	info, err := f.Stat()
	if err != nil {
		return errors.Wrap(err, "stat")
	}
	if uint64(info.Size()) != want {
		return errors.Wrapf(ErrTruncatedFile, "%s is %d bytes, want %d", f.Name(), info.Size(), want)
	}
	return nil
}

// Close releases the underlying files.
func (s *Store) Close() {
	if s.leaves != nil {
		s.leaves.Close()
	}
	for _, f := range s.levels {
		if f != nil {
			f.Close()
		}
	}
}

// Root returns the persisted tree root.
func (s *Store) Root() [HashSize]byte {
	return s.root
}

// LookupIndex reads the leaf stored at index.
func (s *Store) LookupIndex(index uint64) (Leaf, error) {
	if index >= HandsCount(HandSize) {
		return Leaf{}, errors.Wrapf(ErrIndexOutOfRange, "index %d", index)
	}
	if cached, ok := s.cache.Get(index); ok {
		return cached.(Leaf), nil
	}
	var buf [LeafSize]byte
	if _, err := s.leaves.ReadAt(buf[:], int64(index*LeafSize)); err != nil {
		return Leaf{}, errors.Wrapf(err, "reading leaf %d", index)
	}
	leaf, err := DecodeLeaf(index, buf[:])
	if err != nil {
		return Leaf{}, err
	}
	s.cache.Add(index, leaf)
	return leaf, nil
}

// LookupHand resolves a 5-card hand to its leaf. The stored hand must
// equal the sorted input; a mismatch means the evaluator and the
// indexer disagree and is returned as ErrHandMismatch rather than a
// silently wrong leaf.
func (s *Store) LookupHand(cards []poker.CardID) (Leaf, error) {
	if len(cards) != HandSize {
		return Leaf{}, errors.Wrapf(ErrBadHandSize, "%d cards", len(cards))
	}
	index, err := HandToIndex(cards)
	if err != nil {
		return Leaf{}, err
	}
	leaf, err := s.LookupIndex(index)
	if err != nil {
		return Leaf{}, err
	}
	sorted := SortHand(cards)
	for i := range sorted {
		if leaf.Cards[i] != sorted[i] {
			return Leaf{}, errors.Wrapf(ErrHandMismatch,
				"index %d holds %s, looked up %s",
				index, poker.IDsToString(leaf.Cards[:]), poker.IDsToString(sorted))
		}
	}
	return leaf, nil
}

// BestOfSeven resolves all 21 five-card subsets of the seven known
// cards and returns the leaf with the lowest (strongest) score. Ties
// keep the first subset found.
func (s *Store) BestOfSeven(cards []poker.CardID) (Leaf, error) {
	if len(cards) != KnownSize {
		return Leaf{}, errors.Wrapf(ErrBadHandSize, "%d cards", len(cards))
	}
	var best Leaf
	found := false
	hand := make([]poker.CardID, HandSize)
	// Choose the two cards to drop.
	for drop1 := 0; drop1 < KnownSize-1; drop1++ {
		for drop2 := drop1 + 1; drop2 < KnownSize; drop2++ {
			n := 0
			for i, c := range cards {
				if i == drop1 || i == drop2 {
					continue
				}
				hand[n] = c
				n++
			}
			leaf, err := s.LookupHand(hand)
			if err != nil {
				return Leaf{}, err
			}
			if !found || leaf.Score < best.Score {
				best = leaf
				found = true
			}
		}
	}
	return best, nil
}

// node returns the input node of pairing step at the given index,
// substituting the deterministic fill sentinel past the populated
// region. Step 0 reads from the leaf array, step s>0 from level s-1.
func (s *Store) node(step int, index uint64) ([HashSize]byte, error) {
	if step == 0 {
		if index >= HandsCount(HandSize) {
			return fillNode(0), nil
		}
		leaf, err := s.LookupIndex(index)
		if err != nil {
			return [HashSize]byte{}, err
		}
		return leaf.Hash(), nil
	}
	if index >= levelWidth(step-1) {
		return fillNode(step), nil
	}
	var node [HashSize]byte
	if _, err := s.levels[step-1].ReadAt(node[:], int64(index*HashSize)); err != nil {
		return node, errors.Wrapf(err, "reading level %d node %d", step-1, index)
	}
	return node, nil
}

func (s *Store) String() string {
	return fmt.Sprintf("ranking.Store(%s root=%x)", s.dir, s.root[:4])
}
