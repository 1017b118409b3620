package store

import (
	"fmt"

	"github.com/existflow/lifelist/internal/logger"
	"github.com/existflow/lifelist/internal/model"
)

// CreateProfile adds and persists a new empty profile
func (s *Store) CreateProfile(name string) (model.Profile, error) {
	name, err := model.RequireText("profile name", name)
	if err != nil {
		return model.Profile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := model.NewProfile(s.newID(), name, s.now())
	p.Settings = s.images
	s.profiles = append(s.profiles, &p)
	s.save()

	s.log.Info("Profile created", logger.F("profile", p.ID), logger.F("name", p.Name))
	return p.Clone(), nil
}

// Profiles returns copies of all persisted profiles in creation order
func (s *Store) Profiles() []model.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p.Clone())
	}
	return out
}

// Profile returns one profile by id
func (s *Store) Profile(id string) (model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, _ := s.find(id)
	if p == nil {
		return model.Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	return p.Clone(), nil
}

func (s *Store) find(id string) (*model.Profile, int) {
	for i, p := range s.profiles {
		if p.ID == id {
			return p, i
		}
	}
	return nil, -1
}

// SelectProfile makes id the active profile and stamps its activity
func (s *Store) SelectProfile(id string) (model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, _ := s.find(id)
	if p == nil {
		return model.Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	s.current = p
	s.commit(p)

	s.log.Debug("Profile selected", logger.F("profile", id))
	return p.Clone(), nil
}

// ClearCurrentProfile returns to the profile-selection state. A guest profile is discarded.
func (s *Store) ClearCurrentProfile() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// StartGuest makes a transient profile active. It is never written to storage.
func (s *Store) StartGuest(name string) model.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		name = "Guest"
	}
	p := model.NewProfile("guest-"+s.newID(), name, s.now())
	p.IsGuest = true
	p.Settings = s.images
	s.current = &p

	s.log.Info("Guest session started")
	return p.Clone()
}

// CurrentProfile returns the active profile, if any
func (s *Store) CurrentProfile() (model.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return model.Profile{}, false
	}
	return s.current.Clone(), true
}

// IsGuest reports whether the active profile is a guest
func (s *Store) IsGuest() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil && s.current.IsGuest
}

// DeleteProfile removes a profile, clearing the active pointer when it was active.
func (s *Store) DeleteProfile(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, i := s.find(id)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	s.profiles = append(s.profiles[:i], s.profiles[i+1:]...)
	if s.current == p {
		s.current = nil
	}
	s.save()

	s.log.Info("Profile deleted", logger.F("profile", id))
	return nil
}

// RenameProfile changes a profile's display name
func (s *Store) RenameProfile(id, name string) (model.Profile, error) {
	name, err := model.RequireText("profile name", name)
	if err != nil {
		return model.Profile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, _ := s.find(id)
	if p == nil && s.current != nil && s.current.ID == id {
		p = s.current
	}
	if p == nil {
		return model.Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	p.Name = name
	s.commit(p)
	return p.Clone(), nil
}

// UpdateProfileSettings replaces the active profile's image settings
func (s *Store) UpdateProfileSettings(settings model.ImageSettings) error {
	if err := model.ValidateStruct(settings); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.active()
	if err != nil {
		return err
	}
	p.Settings = settings
	s.commit(p)
	return nil
}
