package taskwatch

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeGateway serves canned snapshots and failure modes under test control.
type fakeGateway struct {
	mu    sync.Mutex
	snaps map[int64]*TaskSnapshot
	err   error
	calls int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{snaps: make(map[int64]*TaskSnapshot)}
}

func (g *fakeGateway) set(snap *TaskSnapshot) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.snaps[snap.TaskID] = snap
}

func (g *fakeGateway) fail(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = err
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func (g *fakeGateway) TaskSnapshot(_ context.Context, taskID int64) (*TaskSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	snap, ok := g.snaps[taskID]
	if !ok {
		return nil, fmt.Errorf("task %d: %w", taskID, ErrNotFound)
	}
	copied := *snap
	return &copied, nil
}

func (g *fakeGateway) UserTasks(context.Context, int64) ([]Task, error) { return nil, nil }

func (g *fakeGateway) CreateTask(context.Context, CreateTaskRequest) (*CreateTaskResult, error) {
	return nil, nil
}

func newTestMonitor(t *testing.T, gw Gateway, opts ...func(*Config)) *Monitor {
	t.Helper()
	cfg := &Config{Gateway: gw, Interval: 10 * time.Millisecond}
	for _, opt := range opts {
		opt(cfg)
	}
	m, err := cfg.Complete().New()
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m
}

func TestNewMonitorRequiresGateway(t *testing.T) {
	_, err := (&Config{}).Complete().New()
	require.ErrorIs(t, err, ErrNoGateway)
}

func TestSelectEnablesAutoRefreshOnlyWhenRunning(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{"running", true},
		{"executing", true},
		{"Running", true},
		{"pending", false},
		{"completed", false},
		{"error", false},
		{"some-new-status", false},
	}
	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			gw := newFakeGateway()
			gw.set(&TaskSnapshot{TaskID: 1, Status: tc.status})
			m := newTestMonitor(t, gw)

			snap, err := m.Select(context.Background(), 1)
			require.NoError(t, err)
			require.Equal(t, tc.status, snap.Status)
			require.Equal(t, tc.want, m.AutoRefresh())
		})
	}
}

func TestSelectRoundsProgressForDisplay(t *testing.T) {
	gw := newFakeGateway()
	gw.set(&TaskSnapshot{TaskID: 1, Status: "running", Progress: 42.7})
	m := newTestMonitor(t, gw)

	snap, err := m.Select(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 43, snap.ProgressPercent())
	require.True(t, m.AutoRefresh())
}

func TestPollStopsOnTerminalSnapshot(t *testing.T) {
	gw := newFakeGateway()
	gw.set(&TaskSnapshot{TaskID: 1, Status: "running", Progress: 50})
	m := newTestMonitor(t, gw)

	_, err := m.Select(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, m.AutoRefresh())

	gw.set(&TaskSnapshot{TaskID: 1, Status: "completed", Progress: 100})
	require.Eventually(t, func() bool {
		snap := m.Snapshot()
		return snap != nil && snap.Phase() == PhaseCompleted && !m.AutoRefresh()
	}, time.Second, 5*time.Millisecond)

	// No further tick may fire after the session ended.
	calls := gw.callCount()
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, calls, gw.callCount())
}

func TestPollErrorKeepsSessionAlive(t *testing.T) {
	gw := newFakeGateway()
	gw.set(&TaskSnapshot{TaskID: 1, Status: "running", Progress: 10})

	var pollErrs int
	var mu sync.Mutex
	m := newTestMonitor(t, gw, func(c *Config) {
		c.OnError = func(error) {
			mu.Lock()
			pollErrs++
			mu.Unlock()
		}
	})

	_, err := m.Select(context.Background(), 1)
	require.NoError(t, err)

	gw.fail(fmt.Errorf("boom: %w", ErrTransport))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return pollErrs >= 2
	}, time.Second, 5*time.Millisecond)

	// Session survives the failures with the last good snapshot intact.
	require.True(t, m.AutoRefresh())
	require.Equal(t, float64(10), m.Snapshot().Progress)

	// Recovery on the next successful poll.
	gw.set(&TaskSnapshot{TaskID: 1, Status: "running", Progress: 60})
	gw.fail(nil)
	require.Eventually(t, func() bool {
		return m.Snapshot().Progress == 60
	}, time.Second, 5*time.Millisecond)
}

func TestRefreshReplacesSnapshotWholesale(t *testing.T) {
	gw := newFakeGateway()
	gw.set(&TaskSnapshot{
		TaskID: 1, Status: "pending",
		Subtasks: []Subtask{{ID: 1}, {ID: 2}, {ID: 3}},
	})
	m := newTestMonitor(t, gw)

	snap, err := m.Select(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, snap.Subtasks, 3)

	// The server reordered and dropped a subtask: the displayed count must
	// become 2, never 3 nor a union of both.
	gw.set(&TaskSnapshot{
		TaskID: 1, Status: "pending",
		Subtasks: []Subtask{{ID: 9}, {ID: 2}},
	})
	snap, err = m.RefreshNow(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Subtasks, 2)
	require.Len(t, m.Snapshot().Subtasks, 2)
}

func TestRefreshNowWithoutSelection(t *testing.T) {
	m := newTestMonitor(t, newFakeGateway())
	_, err := m.RefreshNow(context.Background())
	require.ErrorIs(t, err, ErrNoSelection)
}

func TestSetAutoRefreshNoops(t *testing.T) {
	gw := newFakeGateway()
	gw.set(&TaskSnapshot{TaskID: 1, Status: "completed"})
	m := newTestMonitor(t, gw)

	// No selection: no-op.
	m.SetAutoRefresh(true)
	require.False(t, m.AutoRefresh())

	// Terminal selection: no-op, no interval is armed.
	_, err := m.Select(context.Background(), 1)
	require.NoError(t, err)
	m.SetAutoRefresh(true)
	require.False(t, m.AutoRefresh())
}

func TestDeselectCancelsSession(t *testing.T) {
	gw := newFakeGateway()
	gw.set(&TaskSnapshot{TaskID: 1, Status: "running"})
	m := newTestMonitor(t, gw)

	_, err := m.Select(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, m.AutoRefresh())

	m.Deselect()
	require.False(t, m.AutoRefresh())
	require.Nil(t, m.Snapshot())
	_, selected := m.Selected()
	require.False(t, selected)

	calls := gw.callCount()
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, calls, gw.callCount())
}

func TestStaleResponsesAreDiscarded(t *testing.T) {
	gw := newFakeGateway()
	gw.set(&TaskSnapshot{TaskID: 1, Status: "pending"})
	m := newTestMonitor(t, gw)

	_, err := m.Select(context.Background(), 1)
	require.NoError(t, err)

	// A response fetched later lands first; the earlier one must be dropped.
	m.apply(1, 5, &TaskSnapshot{TaskID: 1, Status: "running", Progress: 80})
	m.apply(1, 4, &TaskSnapshot{TaskID: 1, Status: "running", Progress: 40})
	require.Equal(t, float64(80), m.Snapshot().Progress)

	// A response for a task the user has moved away from is never applied.
	m.apply(2, 6, &TaskSnapshot{TaskID: 2, Status: "running", Progress: 99})
	require.Equal(t, float64(80), m.Snapshot().Progress)
}

func TestOnUpdateFiresPerAppliedSnapshot(t *testing.T) {
	gw := newFakeGateway()
	gw.set(&TaskSnapshot{TaskID: 1, Status: "pending"})

	var mu sync.Mutex
	var seen []string
	m := newTestMonitor(t, gw, func(c *Config) {
		c.OnUpdate = func(s *TaskSnapshot) {
			mu.Lock()
			seen = append(seen, s.Status)
			mu.Unlock()
		}
	})

	_, err := m.Select(context.Background(), 1)
	require.NoError(t, err)
	gw.set(&TaskSnapshot{TaskID: 1, Status: "completed"})
	_, err = m.RefreshNow(context.Background())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"pending", "completed"}, seen)
}
