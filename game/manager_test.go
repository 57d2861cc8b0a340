package game

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPublisher collects published events; the sweeper tests read
// it from another goroutine, hence the lock.
type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(events []Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) byType(eventType string) []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []Event
	for _, ev := range p.events {
		if ev.EventType() == eventType {
			out = append(out, ev)
		}
	}
	return out
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func testManager() (*Manager, *recordingPublisher, *MemoryHandStateTracker) {
	presets := []Preset{{
		ID:               "micro",
		BetUnit:          10,
		MaxRaiseMultiple: 8,
		MinPlayers:       2,
		MaxPlayers:       4,
		ActionTimeoutSec: 60,
	}}
	publisher := &recordingPublisher{}
	tracker := NewMemoryHandStateTracker()
	mgr := NewManager(presets, tracker, nil, publisher, func() int64 { return 7 })
	return mgr, publisher, tracker
}

func TestManagerWaitlistStartsTable(t *testing.T) {
	mgr, publisher, tracker := testManager()

	tableID, err := mgr.Join("micro", Player{Address: "alice", Balance: 1000}, 1)
	require.NoError(t, err)
	assert.Empty(t, tableID, "one player is not enough to start")
	assert.Zero(t, publisher.count())

	tableID, err = mgr.Join("micro", Player{Address: "bob", Balance: 1000}, 1)
	require.NoError(t, err)
	require.NotEmpty(t, tableID)

	created := publisher.byType(EventCreated)
	require.Len(t, created, 1)
	assert.ElementsMatch(t, []string{"alice", "bob"}, created[0].(Created).Seats)
	assert.Len(t, publisher.byType(EventHandDealt), 2)

	// The new table was persisted before anything was published.
	loaded, err := tracker.Load(tableID)
	require.NoError(t, err)
	assert.Equal(t, int64(30), loaded.Pot)
}

func TestManagerRejectsDuplicateWaiter(t *testing.T) {
	mgr, _, _ := testManager()
	_, err := mgr.Join("micro", Player{Address: "alice", Balance: 1000}, 3)
	require.NoError(t, err)
	_, err = mgr.Join("micro", Player{Address: "alice", Balance: 1000}, 3)
	assert.Error(t, err)
}

func TestManagerUnknownPreset(t *testing.T) {
	mgr, _, _ := testManager()
	_, err := mgr.Join("whale", Player{Address: "alice", Balance: 1000}, 1)
	assert.Error(t, err)
}

func TestManagerMinAcceptHoldsTheTable(t *testing.T) {
	mgr, _, _ := testManager()

	// Alice insists on three opponents; bob alone cannot trigger a start
	// even though the preset minimum is met.
	_, err := mgr.Join("micro", Player{Address: "alice", Balance: 1000}, 3)
	require.NoError(t, err)
	tableID, err := mgr.Join("micro", Player{Address: "bob", Balance: 1000}, 1)
	require.NoError(t, err)
	assert.Empty(t, tableID)

	_, err = mgr.Join("micro", Player{Address: "carol", Balance: 1000}, 1)
	require.NoError(t, err)
	tableID, err = mgr.Join("micro", Player{Address: "dave", Balance: 1000}, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, tableID)
}

func TestManagerLeaveBeforeStart(t *testing.T) {
	mgr, publisher, _ := testManager()

	_, err := mgr.Join("micro", Player{Address: "alice", Balance: 1000}, 1)
	require.NoError(t, err)
	require.NoError(t, mgr.Leave("micro", "alice"))

	tableID, err := mgr.Join("micro", Player{Address: "bob", Balance: 1000}, 1)
	require.NoError(t, err)
	assert.Empty(t, tableID, "alice left, bob waits alone")
	assert.Zero(t, publisher.count())

	assert.Error(t, mgr.Leave("micro", "alice"), "leaving twice fails")
}

func TestManagerActPersistsAndSettles(t *testing.T) {
	mgr, publisher, tracker := testManager()

	_, err := mgr.Join("micro", Player{Address: "alice", Balance: 1000}, 1)
	require.NoError(t, err)
	tableID, err := mgr.Join("micro", Player{Address: "bob", Balance: 1000}, 1)
	require.NoError(t, err)
	require.NotEmpty(t, tableID)

	require.NoError(t, mgr.Act(tableID, 0, 0, nil))

	settled := publisher.byType(EventSettled)
	require.Len(t, settled, 1)
	assert.Equal(t, int64(30), settled[0].(Settled).Payout)
	assert.Len(t, publisher.byType(EventEnded), 1)

	// The settled table is gone from both the manager and the store.
	assert.IsType(t, UnknownTableError{}, mgr.Act(tableID, 1, 1, nil))
	_, err = tracker.Load(tableID)
	assert.IsType(t, UnknownTableError{}, err)
}

func startHeadsUpTable(t *testing.T, mgr *Manager) string {
	t.Helper()
	_, err := mgr.Join("micro", Player{Address: "alice", Balance: 1000}, 1)
	require.NoError(t, err)
	tableID, err := mgr.Join("micro", Player{Address: "bob", Balance: 1000}, 1)
	require.NoError(t, err)
	require.NotEmpty(t, tableID)
	return tableID
}

func TestManagerSweepsStalledTable(t *testing.T) {
	mgr, publisher, tracker := testManager()
	tableID := startHeadsUpTable(t, mgr)

	// The action clock is fresh, so there is nothing to sweep.
	mgr.SweepTimeouts()
	assert.Empty(t, publisher.byType(EventActionTaken))

	mgr.tables[tableID].LastActionAt = time.Now().Add(-2 * time.Minute)
	mgr.SweepTimeouts()

	// Heads up, the forced fold settles the hand as a default win; the
	// settled table must be gone from both the store and the registry.
	actions := publisher.byType(EventActionTaken)
	require.Len(t, actions, 1)
	assert.Equal(t, uint32(0), actions[0].(ActionTaken).Multiple)
	settled := publisher.byType(EventSettled)
	require.Len(t, settled, 1)
	assert.Equal(t, int64(30), settled[0].(Settled).Payout)
	assert.Len(t, publisher.byType(EventEnded), 1)

	_, err := tracker.Load(tableID)
	assert.IsType(t, UnknownTableError{}, err)

	// Sweeping again is a no-op.
	mgr.SweepTimeouts()
	assert.Len(t, publisher.byType(EventEnded), 1)
}

func TestTimeoutSweeperFoldsStalledSeat(t *testing.T) {
	mgr, publisher, _ := testManager()
	tableID := startHeadsUpTable(t, mgr)
	mgr.tables[tableID].LastActionAt = time.Now().Add(-2 * time.Minute)

	sweeper := NewTimeoutSweeper(mgr, 5*time.Millisecond)
	sweeper.Run()
	defer sweeper.Destroy()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(publisher.byType(EventEnded)) == 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("sweeper never force-folded the stalled table")
}

func TestManagerActWrongTurnSurfacesError(t *testing.T) {
	mgr, _, _ := testManager()

	_, err := mgr.Join("micro", Player{Address: "alice", Balance: 1000}, 1)
	require.NoError(t, err)
	tableID, err := mgr.Join("micro", Player{Address: "bob", Balance: 1000}, 1)
	require.NoError(t, err)

	err = mgr.Act(tableID, 1, 1, nil)
	assert.IsType(t, WrongActorError{}, err)
}
