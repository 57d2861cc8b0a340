package ranking

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/HarryR/sapphire-hodlem/logging"
	"github.com/HarryR/sapphire-hodlem/poker"
)

var builderLogger = logging.GetZeroLogger("ranking::builder", nil)

const (
	leafFileName = "scores.leaf"
	rootFileName = "scores.root"
)

// LeafFile returns the path of the leaf array file.
func LeafFile(dir string) string {
	return filepath.Join(dir, leafFileName)
}

// LevelFile returns the path of the persisted level file for pairing
// step level (0..20).
func LevelFile(dir string, level int) string {
	return filepath.Join(dir, fmt.Sprintf("scores.%02d", level))
}

// RootFile returns the path of the 32-byte root file.
func RootFile(dir string) string {
	return filepath.Join(dir, rootFileName)
}

// Build enumerates every 5-card hand in combinatorial index order,
// scores it, and writes the leaf array, the 21 level files and the
// root file into dir. The build is done once offline; everything it
// produces is immutable afterwards.
func Build(dir string) ([HashSize]byte, error) {
	var root [HashSize]byte
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return root, errors.Wrap(err, "creating ranking database dir")
	}

	count := HandsCount(HandSize)
	hashes := make([][HashSize]byte, 0, count)

	leafFile, err := os.Create(LeafFile(dir))
	if err != nil {
		return root, errors.Wrap(err, "creating leaf file")
	}
	defer leafFile.Close()
	w := bufio.NewWriterSize(leafFile, 1<<20)

	builderLogger.Info().Uint64("hands", count).Msg("Evaluating all hands")

	// Nested ascending loops with the smallest identity innermost walk
	// the hands in exactly combinatorial index order.
	var index uint64
	ids := make([]poker.CardID, HandSize)
	for c4 := 4; c4 < poker.NumCards; c4++ {
		for c3 := 3; c3 < c4; c3++ {
			for c2 := 2; c2 < c3; c2++ {
				for c1 := 1; c1 < c2; c1++ {
					for c0 := 0; c0 < c1; c0++ {
						ids[0] = poker.CardID(c0)
						ids[1] = poker.CardID(c1)
						ids[2] = poker.CardID(c2)
						ids[3] = poker.CardID(c3)
						ids[4] = poker.CardID(c4)
						leaf := Leaf{Index: index, Score: uint16(poker.EvaluateIDs(ids))}
						copy(leaf.Cards[:], ids)
						buf := leaf.Encode()
						if _, err := w.Write(buf[:]); err != nil {
							return root, errors.Wrap(err, "writing leaf file")
						}
						hashes = append(hashes, leaf.Hash())
						index++
					}
				}
			}
		}
	}
	if err := w.Flush(); err != nil {
		return root, errors.Wrap(err, "flushing leaf file")
	}
	if index != count {
		// The enumeration must cover the full index space.
		builderLogger.Panic().Uint64("index", index).Uint64("count", count).Msg("hand enumeration is incomplete")
	}

	builderLogger.Info().Msg("Hashing tree levels")
	for step := 0; step < PairingSteps; step++ {
		next := make([][HashSize]byte, 0, (len(hashes)+1)/2)
		for i := 0; i < len(hashes); i += 2 {
			var right [HashSize]byte
			if i+1 >= len(hashes) {
				right = fillNode(step)
			} else {
				right = hashes[i+1]
			}
			next = append(next, hashPair(hashes[i], right))
		}

		if step < PairingSteps-1 {
			if err := writeNodes(LevelFile(dir, step), next); err != nil {
				return root, err
			}
		}
		builderLogger.Info().Int("treeLevel", step).Int("nodes", len(hashes)).Msg("Hashed level")
		hashes = next
	}

	if len(hashes) != 1 {
		builderLogger.Panic().Int("nodes", len(hashes)).Msg("tree did not reduce to a single root")
	}
	root = hashes[0]
	if err := os.WriteFile(RootFile(dir), root[:], 0o644); err != nil {
		return root, errors.Wrap(err, "writing root file")
	}
	return root, nil
}

func writeNodes(path string, nodes [][HashSize]byte) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating level file %s", path)
	}
	defer f.Close()
	w := bufio.NewWriterSize(f, 1<<20)
	for _, n := range nodes {
		if _, err := w.Write(n[:]); err != nil {
			return errors.Wrapf(err, "writing level file %s", path)
		}
	}
	return w.Flush()
}
