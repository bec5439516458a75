package storage

import (
	"fmt"

	"github.com/desertthunder/cinelist/internal/shared"
)

// Backend is a persistent string key-value store.
type Backend interface {
	// Get returns the stored text for key and whether it was present.
	Get(key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	Close() error
}

var (
	_ Backend = (*BoltBackend)(nil)
	_ Backend = (*SQLBackend)(nil)
	_ Backend = (*MemoryBackend)(nil)
)

// Open creates the backend named by driver at path. The returned Backend is nil
// whenever err is non-nil.
func Open(driver, path string) (Backend, error) {
	switch driver {
	case shared.DriverBolt:
		b, err := NewBoltBackend(path)
		if err != nil {
			return nil, err
		}
		return b, nil
	case shared.DriverSQLite:
		b, err := OpenSQLBackend(path)
		if err != nil {
			return nil, err
		}
		return b, nil
	case shared.DriverMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownDriver, driver)
	}
}
