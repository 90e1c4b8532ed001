package state

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	SavePosition(path string, seconds float64)
	GetPosition(path string) (float64, bool, error)
	ClearPosition(path string) error
	SaveVolume(level float64) error
	GetVolume() (float64, bool, error)
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
