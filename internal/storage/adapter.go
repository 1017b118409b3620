// Package storage provides the key-value persistence adapters the goal store writes through.
package storage

import "errors"

// Keys used by the goal store
const (
	KeyProfiles      = "bucketListProfiles"
	KeyImageSettings = "imageSettings"
)

var (
	// ErrNotFound is returned by Get for absent keys
	ErrNotFound = errors.New("key not found")
	// ErrQuotaExceeded is returned by Set when the backend is out of room
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrUnavailable is returned when the backend cannot be reached at all
	ErrUnavailable = errors.New("storage unavailable")
)

// Adapter is a small key-value store holding JSON documents.
type Adapter interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Remove(key string) error
}

// Closer is implemented by adapters holding resources
type Closer interface {
	Close() error
}

// Close releases a if it holds resources
func Close(a Adapter) error {
	if c, ok := a.(Closer); ok {
		return c.Close()
	}
	return nil
}
