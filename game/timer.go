package game

import (
	"runtime/debug"
	"time"

	"github.com/HarryR/sapphire-hodlem/logging"
)

var timerLogger = logging.GetZeroLogger("game::timer", nil)

// TimeoutSweeper periodically force-folds stalled seats across every
// table owned by a manager. The timeout transition itself lives in the
// state machine; this loop is just the external caller invoking it.
type TimeoutSweeper struct {
	manager  *Manager
	interval time.Duration
	chEnd    chan bool
}

func NewTimeoutSweeper(manager *Manager, interval time.Duration) *TimeoutSweeper {
	return &TimeoutSweeper{
		manager:  manager,
		interval: interval,
		chEnd:    make(chan bool, 1),
	}
}

func (t *TimeoutSweeper) Run() {
	go t.loop()
}

func (t *TimeoutSweeper) Destroy() {
	t.chEnd <- true
}

func (t *TimeoutSweeper) loop() {
	defer func() {
		if err := recover(); err != nil {
			timerLogger.Error().
				Msgf("Timeout sweeper returning due to panic: %s\nStack Trace:\n%s", err, string(debug.Stack()))
		}
	}()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-t.chEnd:
			return
		case <-ticker.C:
			t.manager.SweepTimeouts()
		}
	}
}
