package respool

import "context"

// Close shuts down the manager. The current pool and any still-draining pool
// stop accepting work, their queued tasks run to completion and their workers
// exit. Close blocks until both are done and is idempotent; submissions after
// Close fail with ErrClosed.
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}

	m.poolMu.Lock()
	current := m.current
	draining := m.draining
	m.draining = nil
	m.poolMu.Unlock()

	if draining != nil {
		draining.Close()
	}
	current.Close()

	m.logger.LogShutdown(context.Background(), m.active.len())

	return nil
}
