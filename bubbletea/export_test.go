package bubbletea

// SetRunning is a test helper that puts the model in a running state.
func SetRunning(m Model) Model {
	m.running = true
	return m
}

// SetRunningWithCancel is a test helper that puts the model in a running
// state with a cancel function.
func SetRunningWithCancel(m Model, cancel func()) Model {
	m.running = true
	m.cancel = cancel
	return m
}
