package state

// Mock is a test double for Manager. Saves are applied immediately.
type Mock struct {
	positions map[string]float64
	volume    *float64
	closed    bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{positions: make(map[string]float64)}
}

func (m *Mock) SavePosition(path string, seconds float64) {
	m.positions[path] = seconds
}

func (m *Mock) GetPosition(path string) (float64, bool, error) {
	seconds, ok := m.positions[path]
	return seconds, ok, nil
}

func (m *Mock) ClearPosition(path string) error {
	delete(m.positions, path)
	return nil
}

func (m *Mock) SaveVolume(level float64) error {
	m.volume = &level
	return nil
}

func (m *Mock) GetVolume() (float64, bool, error) {
	if m.volume == nil {
		return 0, false, nil
	}
	return *m.volume, true, nil
}

func (m *Mock) Close() error {
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) IsClosed() bool { return m.closed }

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
