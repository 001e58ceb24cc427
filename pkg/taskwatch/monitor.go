package taskwatch

import (
	"context"
	"sync"
	"time"

	"github.com/minimind-ai/minimind/pkg/log"
)

// DefaultInterval is the fixed poll cadence. There is no retry backoff; the
// cadence itself is the retry interval for failed polls.
const DefaultInterval = 2 * time.Second

// Config configures a Monitor.
type Config struct {
	// Gateway reaches the authoritative server. Required.
	Gateway Gateway

	// Interval is the poll period. Defaults to DefaultInterval.
	Interval time.Duration

	// OnUpdate, when set, is called after every applied snapshot, including
	// terminal ones. Called outside the monitor's lock.
	OnUpdate func(*TaskSnapshot)

	// OnError, when set, is called for errors swallowed by the poll loop.
	// Errors from explicit calls (Select, RefreshNow) are returned to the
	// caller instead and do not reach OnError.
	OnError func(error)
}

// CompletedConfig is a validated Config.
type CompletedConfig struct {
	*Config
}

// Complete fills defaults.
func (c *Config) Complete() CompletedConfig {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	return CompletedConfig{c}
}

// New creates a Monitor from a completed config.
func (c CompletedConfig) New() (*Monitor, error) {
	if c.Gateway == nil {
		return nil, ErrNoGateway
	}
	return &Monitor{
		gw:       c.Gateway,
		interval: c.Interval,
		onUpdate: c.OnUpdate,
		onError:  c.OnError,
	}, nil
}

// pollToken is the cancellation handle for one armed interval. Arming returns
// a fresh token; disarming closes its stop channel so no further tick fires.
type pollToken struct {
	stop chan struct{}
}

// Monitor owns the polling session for at most one selected task. All state
// transitions go through its mutex; fetches themselves run unlocked, and a
// response is applied only if it is still for the currently selected task and
// no newer response has been applied (monotonic sequence guard).
type Monitor struct {
	gw       Gateway
	interval time.Duration
	onUpdate func(*TaskSnapshot)
	onError  func(error)

	mu         sync.Mutex
	selected   bool
	taskID     int64
	snap       *TaskSnapshot
	auto       bool
	token      *pollToken
	fetchSeq   uint64
	appliedSeq uint64
}

// Select fetches a snapshot for the task immediately, replaces the current
// selection, and enables auto-refresh when the fetched status is running or
// executing. Any previous polling session is cancelled first.
func (m *Monitor) Select(ctx context.Context, taskID int64) (*TaskSnapshot, error) {
	m.mu.Lock()
	m.disarmLocked()
	m.selected = true
	m.taskID = taskID
	m.snap = nil
	m.auto = false
	m.mu.Unlock()

	snap, err := m.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if snap.Phase() == PhaseRunning {
		m.SetAutoRefresh(true)
	}
	return snap, nil
}

// SetAutoRefresh toggles the polling session. Enabling is a no-op when no task
// is selected or the selected snapshot is already terminal.
func (m *Monitor) SetAutoRefresh(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !enabled {
		m.auto = false
		m.disarmLocked()
		return
	}
	if !m.selected {
		return
	}
	if m.snap != nil && m.snap.Phase().Terminal() {
		return
	}
	if m.auto {
		return
	}
	m.auto = true
	m.armLocked()
}

// RefreshNow performs exactly one out-of-band fetch for the selected task,
// independent of the interval. Errors are surfaced to the caller.
func (m *Monitor) RefreshNow(ctx context.Context) (*TaskSnapshot, error) {
	return m.fetch(ctx)
}

// Deselect clears the selection and cancels any active polling session. An
// in-flight fetch is not interrupted; its response will be discarded by the
// selection check when it lands.
func (m *Monitor) Deselect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = false
	m.taskID = 0
	m.snap = nil
	m.auto = false
	m.disarmLocked()
}

// Close tears the monitor down. Equivalent to Deselect.
func (m *Monitor) Close() { m.Deselect() }

// Snapshot returns the currently displayed snapshot, or nil when none has been
// applied. Snapshots are immutable per fetch; callers must not mutate them.
func (m *Monitor) Snapshot() *TaskSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

// Selected returns the selected task id, if any.
func (m *Monitor) Selected() (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.taskID, m.selected
}

// AutoRefresh reports whether a polling session is active.
func (m *Monitor) AutoRefresh() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.auto
}

// fetch performs one gateway fetch for the selected task and applies the
// response through the staleness guard.
func (m *Monitor) fetch(ctx context.Context) (*TaskSnapshot, error) {
	m.mu.Lock()
	if !m.selected {
		m.mu.Unlock()
		return nil, ErrNoSelection
	}
	taskID := m.taskID
	m.fetchSeq++
	seq := m.fetchSeq
	m.mu.Unlock()

	snap, err := m.gw.TaskSnapshot(ctx, taskID)
	if err != nil {
		return nil, err
	}
	m.apply(taskID, seq, snap)
	return snap, nil
}

// apply installs a fetched snapshot unless the caller has moved on: the
// response must still be for the selected task, and no response fetched later
// may already have been applied. A terminal snapshot ends the polling session
// in the same step.
func (m *Monitor) apply(taskID int64, seq uint64, snap *TaskSnapshot) {
	m.mu.Lock()
	if !m.selected || m.taskID != taskID {
		m.mu.Unlock()
		return
	}
	if seq < m.appliedSeq {
		log.Debug("taskwatch: dropping stale response for task %d (seq %d < %d)", taskID, seq, m.appliedSeq)
		m.mu.Unlock()
		return
	}
	m.appliedSeq = seq
	m.snap = snap
	if snap.Phase().Terminal() && m.auto {
		m.auto = false
		m.disarmLocked()
	}
	update := m.onUpdate
	m.mu.Unlock()

	if update != nil {
		update(snap)
	}
}

// armLocked starts the interval loop. Caller holds the lock; at most one token
// is ever live, so a disarm can never race an arm for the same monitor.
func (m *Monitor) armLocked() {
	if m.token != nil {
		return
	}
	token := &pollToken{stop: make(chan struct{})}
	m.token = token
	go m.loop(token)
}

// disarmLocked cancels the pending interval, if any. Caller holds the lock.
func (m *Monitor) disarmLocked() {
	if m.token == nil {
		return
	}
	close(m.token.stop)
	m.token = nil
}

func (m *Monitor) loop(token *pollToken) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-token.stop:
			return
		case <-ticker.C:
			m.tick()
		}
	}
}

// tick runs one poll. A terminal snapshot skips the fetch outright (defensive;
// the primary termination path is apply disabling the session). A failed fetch
// is reported and swallowed so that a transient failure never abandons the
// monitoring of an in-progress task.
func (m *Monitor) tick() {
	m.mu.Lock()
	if !m.auto || !m.selected {
		m.mu.Unlock()
		return
	}
	if m.snap != nil && m.snap.Phase().Terminal() {
		m.mu.Unlock()
		return
	}
	taskID := m.taskID
	m.mu.Unlock()

	if _, err := m.fetch(context.Background()); err != nil {
		log.Warn("taskwatch: poll task %d: %v", taskID, err)
		if m.onError != nil {
			m.onError(err)
		}
	}
}
