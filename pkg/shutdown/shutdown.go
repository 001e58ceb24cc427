// Package shutdown coordinates graceful termination: managers trigger a
// shutdown (POSIX signals, typically) and registered callbacks release
// resources in order.
package shutdown

import "sync"

// Callback is invoked with the name of the manager that triggered shutdown.
type Callback interface {
	OnShutdown(manager string) error
}

// Func adapts an ordinary function to the Callback interface.
type Func func(manager string) error

func (f Func) OnShutdown(manager string) error { return f(manager) }

// Manager watches for a shutdown trigger and reports it back.
type Manager interface {
	Name() string
	Start(gs *GracefulShutdown) error
}

// ErrorHandler receives callback and manager errors during shutdown.
type ErrorHandler interface {
	OnError(err error)
}

// GracefulShutdown fans a shutdown trigger out to all registered callbacks.
type GracefulShutdown struct {
	callbacks    []Callback
	managers     []Manager
	errorHandler ErrorHandler
}

// New creates a GracefulShutdown with no managers or callbacks.
func New() *GracefulShutdown {
	return &GracefulShutdown{}
}

// Start starts all registered managers.
func (gs *GracefulShutdown) Start() error {
	for _, m := range gs.managers {
		if err := m.Start(gs); err != nil {
			return err
		}
	}
	return nil
}

// AddShutdownManager registers a trigger source.
func (gs *GracefulShutdown) AddShutdownManager(m Manager) {
	gs.managers = append(gs.managers, m)
}

// AddShutdownCallback registers a callback run on shutdown.
func (gs *GracefulShutdown) AddShutdownCallback(cb Callback) {
	gs.callbacks = append(gs.callbacks, cb)
}

// SetErrorHandler sets the handler invoked for callback errors.
func (gs *GracefulShutdown) SetErrorHandler(h ErrorHandler) {
	gs.errorHandler = h
}

// StartShutdown runs every callback concurrently and waits for all of them.
func (gs *GracefulShutdown) StartShutdown(m Manager) {
	var wg sync.WaitGroup
	for _, cb := range gs.callbacks {
		wg.Add(1)
		go func(cb Callback) {
			defer wg.Done()
			gs.reportError(cb.OnShutdown(m.Name()))
		}(cb)
	}
	wg.Wait()
}

func (gs *GracefulShutdown) reportError(err error) {
	if err != nil && gs.errorHandler != nil {
		gs.errorHandler.OnError(err)
	}
}
