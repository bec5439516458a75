package storage

import (
	"encoding/json"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cinelist/internal/shared"
)

// Adapter reads and writes JSON values through a [Backend], logging instead of returning errors.
type Adapter struct {
	backend Backend
	logger  *log.Logger
}

// NewAdapter creates an [Adapter]. A nil backend behaves as permanently unavailable storage.
func NewAdapter(backend Backend, logger *log.Logger) *Adapter {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Adapter{backend: backend, logger: logger}
}

// Read decodes the JSON stored under key into a T.
//
// It returns false when the key is absent, holds empty text or JSON null, cannot be decoded,
// or the backend fails. Failures are logged.
func Read[T any](a *Adapter, key string) (T, bool) {
	var zero T

	raw, ok := a.Raw(key)
	if !ok {
		return zero, false
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return zero, false
	}

	var value T
	if err := json.Unmarshal([]byte(trimmed), &value); err != nil {
		a.logger.Error("failed to load from storage", "key", key, "err", err)
		return zero, false
	}

	return value, true
}

// Raw returns the stored text for key without decoding it.
func (a *Adapter) Raw(key string) (string, bool) {
	if a.backend == nil {
		a.logger.Error("failed to load from storage", "key", key, "err", shared.ErrStorageUnavailable)
		return "", false
	}

	raw, found, err := a.backend.Get(key)
	if err != nil {
		a.logger.Error("failed to load from storage", "key", key, "err", err)
		return "", false
	}
	return raw, found
}

// Write encodes value as JSON and stores it under key.
//
// On failure the error is logged and the previously stored value is left untouched.
func (a *Adapter) Write(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		a.logger.Error("failed to save to storage", "key", key, "err", err)
		return
	}

	if a.backend == nil {
		a.logger.Error("failed to save to storage", "key", key, "err", shared.ErrStorageUnavailable)
		return
	}

	if err := a.backend.Set(key, string(data)); err != nil {
		a.logger.Error("failed to save to storage", "key", key, "err", err)
		return
	}

	a.logger.Debug("saved to storage", "key", key, "bytes", len(data))
}

// Clear removes key from the store. Failures are logged.
func (a *Adapter) Clear(key string) {
	if a.backend == nil {
		a.logger.Error("failed to clear storage", "key", key, "err", shared.ErrStorageUnavailable)
		return
	}
	if err := a.backend.Delete(key); err != nil {
		a.logger.Error("failed to clear storage", "key", key, "err", err)
	}
}

// Close closes the underlying backend.
func (a *Adapter) Close() error {
	if a.backend == nil {
		return nil
	}
	return a.backend.Close()
}
