// Package posixsignal provides a shutdown manager triggered by POSIX
// signals. By default it listens for SIGINT and SIGTERM and exits the
// process after all shutdown callbacks have run.
package posixsignal

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/minimind-ai/minimind/pkg/shutdown"
)

// Name is the manager name as passed to shutdown callbacks.
const Name = "PosixSignalManager"

// Manager implements shutdown.Manager.
type Manager struct {
	signals []os.Signal
}

// NewPosixSignalManager creates a Manager listening for the given signals,
// defaulting to SIGINT and SIGTERM.
func NewPosixSignalManager(sig ...os.Signal) *Manager {
	if len(sig) == 0 {
		sig = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	return &Manager{signals: sig}
}

// Name returns the manager name.
func (m *Manager) Name() string { return Name }

// Start begins listening for signals in a goroutine.
func (m *Manager) Start(gs *shutdown.GracefulShutdown) error {
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, m.signals...)
		<-c

		gs.StartShutdown(m)
		os.Exit(0)
	}()
	return nil
}
