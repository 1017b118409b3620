package storage

import (
	"errors"
	"fmt"

	"github.com/existflow/lifelist/internal/logger"
)

// FallbackAdapter writes to Primary and degrades to Fallback when Primary is full or down.
type FallbackAdapter struct {
	Primary  Adapter
	Fallback Adapter
	Log      *logger.Logger
}

// NewFallbackAdapter chains primary and fallback
func NewFallbackAdapter(primary, fallback Adapter, log *logger.Logger) *FallbackAdapter {
	return &FallbackAdapter{Primary: primary, Fallback: fallback, Log: log}
}

func degradable(err error) bool {
	return errors.Is(err, ErrQuotaExceeded) || errors.Is(err, ErrUnavailable)
}

// Get prefers the primary copy and consults the fallback when it is missing there
func (f *FallbackAdapter) Get(key string) ([]byte, error) {
	data, err := f.Primary.Get(key)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, ErrNotFound) {
		f.Log.Warn("Primary storage read failed, trying fallback", logger.F("key", key), logger.F("error", err))
	}
	if fbData, fbErr := f.Fallback.Get(key); fbErr == nil {
		return fbData, nil
	}
	return nil, err
}

// Set writes to the primary, or to the fallback when the primary is out of room.
// A successful primary write clears any stale fallback copy.
func (f *FallbackAdapter) Set(key string, value []byte) error {
	err := f.Primary.Set(key, value)
	if err == nil {
		_ = f.Fallback.Remove(key)
		return nil
	}
	if !degradable(err) {
		return err
	}

	f.Log.Warn("Primary storage full, writing to fallback", logger.F("key", key), logger.F("error", err))
	if fbErr := f.Fallback.Set(key, value); fbErr != nil {
		return fmt.Errorf("primary: %v; fallback: %w", err, fbErr)
	}
	// The primary may still hold an older copy that Get would prefer.
	_ = f.Primary.Remove(key)
	return nil
}

// Remove deletes from both stores
func (f *FallbackAdapter) Remove(key string) error {
	return errors.Join(f.Primary.Remove(key), f.Fallback.Remove(key))
}

// Close closes both stores
func (f *FallbackAdapter) Close() error {
	return errors.Join(Close(f.Primary), Close(f.Fallback))
}
