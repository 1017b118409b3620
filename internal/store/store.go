// Package store is the goal store: profiles, their goals, tasks and milestones,
// and the statistics derived from them. Every mutation is applied in memory and
// then written through the storage adapter.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/existflow/lifelist/internal/logger"
	"github.com/existflow/lifelist/internal/model"
	"github.com/existflow/lifelist/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrNoActiveProfile       = errors.New("no active profile")
	ErrProfileNotFound       = errors.New("profile not found")
	ErrGoalNotFound          = errors.New("goal not found")
	ErrTaskNotFound          = errors.New("task not found")
	ErrMilestoneNotFound     = errors.New("milestone not found")
	ErrNotRecurring          = errors.New("goal is not recurring")
	ErrRecurringInactive     = errors.New("recurring goal has been deactivated")
	ErrRecurringActive       = errors.New("goal is an active recurring goal")
	ErrAlreadyCompletedToday = errors.New("already completed today")
	ErrImportDeclined        = errors.New("import declined")
	ErrInvalidImport         = errors.New("invalid import data")
	ErrUnsupportedSchema     = errors.New("unsupported schema version")
)

// Options configures a Store. Zero values fall back to real time, random UUIDs and no logging.
type Options struct {
	Logger *logger.Logger
	Now    func() time.Time
	NewID  func() string
}

// Store owns all profile state. Methods are safe to call from several goroutines;
// each runs to completion under one lock.
type Store struct {
	mu       sync.Mutex
	adapter  storage.Adapter
	log      *logger.Logger
	now      func() time.Time
	newID    func() string
	profiles []*model.Profile
	current  *model.Profile
	images   model.ImageSettings
}

// New loads persisted profiles from adapter. Missing data starts an empty store;
// unreadable data is reported rather than overwritten.
func New(adapter storage.Adapter, opts Options) (*Store, error) {
	s := &Store{
		adapter:  adapter,
		log:      opts.Logger,
		now:      opts.Now,
		newID:    opts.NewID,
		profiles: []*model.Profile{},
		images:   model.DefaultImageSettings(),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}

	data, err := adapter.Get(storage.KeyProfiles)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	default:
		profiles, version, err := decodeProfiles(data)
		if err != nil {
			return nil, fmt.Errorf("failed to load profiles: %w", err)
		}
		for i := range profiles {
			s.profiles = append(s.profiles, &profiles[i])
		}
		if version < SchemaVersion {
			s.log.Info("Migrated stored profiles", logger.F("from", version), logger.F("to", SchemaVersion))
			s.save()
		}
	}

	if data, err := adapter.Get(storage.KeyImageSettings); err == nil {
		var img model.ImageSettings
		if json.Unmarshal(data, &img) == nil && model.ValidateStruct(img) == nil {
			s.images = img
		}
	}

	s.log.Debug("Goal store loaded", logger.F("profiles", len(s.profiles)))
	return s, nil
}

// save writes every non-guest profile. Failures are logged and swallowed: the
// in-memory change stands for the rest of the session.
func (s *Store) save() {
	persisted := make([]model.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		if !p.IsGuest {
			persisted = append(persisted, *p)
		}
	}

	data, err := encodeProfiles(persisted, s.now())
	if err != nil {
		s.log.Error("Failed to encode profiles", logger.F("error", err))
		return
	}
	if err := s.adapter.Set(storage.KeyProfiles, data); err != nil {
		s.log.Warn("Failed to persist profiles", logger.F("error", err), logger.F("bytes", len(data)))
	}
}

// commit stamps activity on p and persists unless p is a guest
func (s *Store) commit(p *model.Profile) {
	p.LastActive = s.now()
	if p.IsGuest {
		return
	}
	s.save()
}

func (s *Store) active() (*model.Profile, error) {
	if s.current == nil {
		return nil, ErrNoActiveProfile
	}
	return s.current, nil
}

func (s *Store) goal(id string) (*model.Profile, *model.Goal, error) {
	p, err := s.active()
	if err != nil {
		return nil, nil, err
	}
	i := p.GoalIndex(id)
	if i < 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrGoalNotFound, id)
	}
	return p, &p.BucketList[i], nil
}

// ImageDefaults returns the global image-processing defaults
func (s *Store) ImageDefaults() model.ImageSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.images
}

// SetImageDefaults validates and persists the global image defaults
func (s *Store) SetImageDefaults(img model.ImageSettings) error {
	if err := model.ValidateStruct(img); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.images = img

	data, _ := json.Marshal(img)
	if err := s.adapter.Set(storage.KeyImageSettings, data); err != nil {
		s.log.Warn("Failed to persist image settings", logger.F("error", err))
	}
	return nil
}

// Reset removes every persisted profile and the image defaults. A running
// guest session survives since it was never stored.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, key := range []string{storage.KeyProfiles, storage.KeyImageSettings} {
		if err := s.adapter.Remove(key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", key, err))
		}
	}

	s.profiles = []*model.Profile{}
	if s.current != nil && !s.current.IsGuest {
		s.current = nil
	}
	s.images = model.DefaultImageSettings()

	s.log.Info("All data cleared")
	return errors.Join(errs...)
}
