package storage

import "errors"

var (
	// ErrNotLoaded is returned by operations on a store that was never opened
	ErrNotLoaded = errors.New("storage not loaded")
	// ErrNotInitialized is returned by Load when there is nothing to load
	ErrNotInitialized = errors.New("storage not initialized, run 'rotipani init' first")
	// ErrAlreadyInitialized is returned by Init on an existing store
	ErrAlreadyInitialized = errors.New("storage already initialized")
)

// Provider is a string key-value store. Meal records and the display
// name are the only things kept in it.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Key-value access. Get reports absence with ok=false and a nil error.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
	// Keys returns every key in ascending order
	Keys() ([]string, error)
	Clear() error

	// Utils
	GetConfigPath() string
}
