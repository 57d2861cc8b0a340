// Package rankingtest provides the shared build-once ranking database
// fixture for tests. The full database build enumerates all 2,598,960
// hands, so it is built a single time under the system temp directory
// and reused by every test package and run.
package rankingtest

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/HarryR/sapphire-hodlem/ranking"
)

var (
	mu     sync.Mutex
	shared *ranking.Store
)

func fixtureDir() string {
	return filepath.Join(os.TempDir(), "sapphire-hodlem-scores")
}

// Open returns a read-only store over the shared fixture database,
// building it first if this machine has never built one. Tests running
// with -short skip instead of building.
func Open(t testing.TB) *ranking.Store {
	t.Helper()
	mu.Lock()
	defer mu.Unlock()

	if shared != nil {
		return shared
	}

	dir := fixtureDir()
	store, err := ranking.OpenStore(dir)
	if err == nil {
		shared = store
		return shared
	}

	if testing.Short() {
		t.Skipf("no prebuilt ranking database at %s; skipping in -short mode", dir)
	}

	// Build into a private directory first so that concurrently
	// running test processes cannot observe a half-written database.
	tmp := fmt.Sprintf("%s-build-%d", dir, os.Getpid())
	if _, err := ranking.Build(tmp); err != nil {
		t.Fatalf("building ranking database fixture: %v", err)
	}
	if err := os.Rename(tmp, dir); err != nil {
		// Another process won the race; use its copy.
		os.RemoveAll(tmp)
	}

	store, err = ranking.OpenStore(dir)
	if err != nil {
		t.Fatalf("opening ranking database fixture: %v", err)
	}
	shared = store
	return shared
}
