package game

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/HarryR/sapphire-hodlem/logging"
	"github.com/HarryR/sapphire-hodlem/ranking"
)

var managerLogger = logging.GetZeroLogger("game::manager", nil)

// EventPublisher delivers emitted events to the outside world. The
// NATS adapter implements it; tests use an in-process recorder.
type EventPublisher interface {
	Publish(events []Event) error
}

// SeedSource supplies one fresh unpredictable seed per shuffle. It is
// the randomness boundary; the manager never reuses a seed across
// tables.
type SeedSource func() int64

type waitingPlayer struct {
	player    Player
	minAccept int
}

// Manager owns the active tables of this process. Tables are fully
// independent; the manager serializes actions per table and persists
// every accepted transition before acknowledging it.
type Manager struct {
	mu       sync.Mutex
	presets  map[string]Preset
	waiting  map[string][]waitingPlayer
	tables   map[string]*HandState
	persist  PersistHandState
	verifier ProofVerifier
	publish  EventPublisher
	seeds    SeedSource
}

func NewManager(presets []Preset, persist PersistHandState, verifier ProofVerifier, publish EventPublisher, seeds SeedSource) *Manager {
	m := &Manager{
		presets:  make(map[string]Preset),
		waiting:  make(map[string][]waitingPlayer),
		tables:   make(map[string]*HandState),
		persist:  persist,
		verifier: verifier,
		publish:  publish,
		seeds:    seeds,
	}
	for _, p := range presets {
		m.presets[p.ID] = p
	}
	return m
}

// Join adds a player to a preset's waitlist. When every waiting player
// has at least minAccept opponents available the table starts; the
// started table's id is returned, or "" while still waiting.
func (m *Manager) Join(presetID string, player Player, minAccept int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	preset, ok := m.presets[presetID]
	if !ok {
		return "", errors.Errorf("unknown preset %s", presetID)
	}
	for _, w := range m.waiting[presetID] {
		if w.player.Address == player.Address {
			return "", errors.Errorf("player %s is already waiting on preset %s", player.Address, presetID)
		}
	}
	m.waiting[presetID] = append(m.waiting[presetID], waitingPlayer{player: player, minAccept: minAccept})

	queue := m.waiting[presetID]
	if len(queue) < preset.MinPlayers {
		return "", nil
	}
	count := len(queue)
	if count > preset.MaxPlayers {
		count = preset.MaxPlayers
		queue = queue[:count]
	}
	for _, w := range queue {
		if count < w.minAccept+1 {
			return "", nil
		}
	}

	players := make([]Player, count)
	for i, w := range queue {
		players[i] = w.player
	}
	m.waiting[presetID] = m.waiting[presetID][count:]

	return m.beginLocked(preset, players)
}

// Leave removes a waiting player. Players already dealt in can only
// leave by folding.
func (m *Manager) Leave(presetID string, address string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	queue := m.waiting[presetID]
	for i, w := range queue {
		if w.player.Address == address {
			m.waiting[presetID] = append(queue[:i], queue[i+1:]...)
			return nil
		}
	}
	return errors.Errorf("player %s is not waiting on preset %s", address, presetID)
}

func (m *Manager) beginLocked(preset Preset, players []Player) (string, error) {
	tableID := uuid.New().String()
	handState, events, err := Begin(BeginConfig{
		TableID:       tableID,
		Players:       players,
		BetUnit:       preset.BetUnit,
		MaxRaise:      preset.MaxRaiseMultiple,
		ActionTimeout: preset.ActionTimeout(),
		Seed:          m.seeds(),
	}, m.verifier)
	if err != nil {
		return "", err
	}
	if err := m.persist.Save(handState); err != nil {
		return "", errors.Wrap(err, "persisting new table")
	}
	m.tables[tableID] = handState
	if err := m.publish.Publish(events); err != nil {
		return "", errors.Wrap(err, "publishing table creation")
	}
	managerLogger.Info().
		Str(logging.TableIDKey, tableID).
		Str(logging.PresetIDKey, preset.ID).
		Int("players", len(players)).
		Msg("Table started")
	return tableID, nil
}

func (m *Manager) table(tableID string) (*HandState, error) {
	handState, ok := m.tables[tableID]
	if !ok {
		return nil, UnknownTableError{TableID: tableID}
	}
	return handState, nil
}

// Act forwards a player action to the owning table, persists the
// accepted transition, then publishes the emitted events.
func (m *Manager) Act(tableID string, seatNo int, multiple uint32, proof *ranking.Proof) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	handState, err := m.table(tableID)
	if err != nil {
		return err
	}
	events, err := handState.Act(seatNo, multiple, proof)
	if err != nil {
		return err
	}
	return m.afterTransition(handState, events)
}

// SweepTimeouts force-folds every stalled seat whose action timeout
// has elapsed. It is safe to call from a timer loop at any frequency.
func (m *Manager) SweepTimeouts() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for tableID, handState := range m.tables {
		events, err := handState.ForceFoldOnTimeout()
		if err != nil {
			// Not yet timed out, or already settled; both are normal.
			continue
		}
		if err := m.afterTransition(handState, events); err != nil {
			managerLogger.Error().Err(err).
				Str(logging.TableIDKey, tableID).
				Msg("Could not commit force-fold")
		}
	}
}

func (m *Manager) afterTransition(handState *HandState, events []Event) error {
	if handState.Status == HandStatus_ACTIVE {
		if err := m.persist.Save(handState); err != nil {
			return errors.Wrap(err, "persisting table state")
		}
	} else {
		// The table is logically deleted on settlement.
		if err := m.persist.Remove(handState.TableID); err != nil {
			return errors.Wrap(err, "removing settled table state")
		}
		delete(m.tables, handState.TableID)
	}
	return m.publish.Publish(events)
}
