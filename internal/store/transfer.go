package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/existflow/lifelist/internal/logger"
	"github.com/existflow/lifelist/internal/model"
)

// ImportAction names the destructive step an import is about to take
type ImportAction int

const (
	// ImportOverwrite replaces an existing profile with the same id
	ImportOverwrite ImportAction = iota
	// ImportReplaceAll replaces the whole profile collection
	ImportReplaceAll
)

func (a ImportAction) String() string {
	if a == ImportReplaceAll {
		return "replace-all"
	}
	return "overwrite"
}

// ConfirmFunc is asked before an import overwrites data. Returning false aborts it.
type ConfirmFunc func(action ImportAction, detail string) bool

// ImportResult reports what an import changed
type ImportResult struct {
	Profiles    int  `json:"profiles"`
	Replaced    bool `json:"replaced"`
	Overwritten bool `json:"overwritten"`
}

// Export returns pretty-printed JSON of one profile, or of every persisted
// profile when profileID is empty.
func (s *Store) Export(profileID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if profileID == "" {
		all := make([]model.Profile, 0, len(s.profiles))
		for _, p := range s.profiles {
			all = append(all, p.Clone())
		}
		return json.MarshalIndent(all, "", "  ")
	}

	p, _ := s.find(profileID)
	if p == nil && s.current != nil && s.current.ID == profileID {
		p = s.current
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, profileID)
	}
	out := p.Clone()
	out.IsGuest = false
	return json.MarshalIndent(out, "", "  ")
}

// Import loads exported data. A single profile overwrites the profile with the
// same id (after confirmation) or is appended; an array or schema envelope
// replaces the whole collection (after confirmation). Task progress is
// recomputed on the way in. Nothing changes unless the data is valid and confirmed.
func (s *Store) Import(data []byte, confirm ConfirmFunc) (ImportResult, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ImportResult{}, fmt.Errorf("%w: empty document", ErrInvalidImport)
	}

	single, err := decodeSingle(data)
	if err != nil {
		return ImportResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if single != nil {
		return s.importOne(single, confirm)
	}

	profiles, _, err := decodeProfiles(data)
	if err != nil {
		return ImportResult{}, err
	}
	if confirm != nil && !confirm(ImportReplaceAll, fmt.Sprintf("replace %d profile(s) with %d imported", len(s.profiles), len(profiles))) {
		return ImportResult{}, ErrImportDeclined
	}

	next := make([]*model.Profile, 0, len(profiles))
	for i := range profiles {
		next = append(next, &profiles[i])
	}
	s.profiles = next
	if s.current != nil && !s.current.IsGuest {
		if p, _ := s.find(s.current.ID); p != nil {
			s.current = p
		} else {
			s.current = nil
		}
	}
	s.save()

	s.log.Info("Profiles imported", logger.F("profiles", len(next)), logger.F("mode", ImportReplaceAll))
	return ImportResult{Profiles: len(next), Replaced: true}, nil
}

func (s *Store) importOne(p *model.Profile, confirm ConfirmFunc) (ImportResult, error) {
	existing, i := s.find(p.ID)
	if existing == nil {
		s.profiles = append(s.profiles, p)
		s.save()
		s.log.Info("Profile imported", logger.F("profile", p.ID))
		return ImportResult{Profiles: 1}, nil
	}

	if confirm != nil && !confirm(ImportOverwrite, fmt.Sprintf("overwrite profile %q", existing.Name)) {
		return ImportResult{}, ErrImportDeclined
	}
	s.profiles[i] = p
	if s.current == existing {
		s.current = p
	}
	s.save()

	s.log.Info("Profile overwritten by import", logger.F("profile", p.ID))
	return ImportResult{Profiles: 1, Overwritten: true}, nil
}

// decodeSingle returns the profile when data is one exported profile (an
// object carrying id and bucketList) and nil for any other layout.
func decodeSingle(data []byte) (*model.Profile, error) {
	if data[0] != '{' {
		return nil, nil
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	_, hasID := probe["id"]
	_, hasList := probe["bucketList"]
	if !hasID || !hasList {
		if _, ok := probe["profiles"]; ok {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: object is neither a profile nor a profile collection", ErrInvalidImport)
	}

	var p model.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if err := checkProfile(&p); err != nil {
		return nil, err
	}
	p.IsGuest = false
	p.Normalize()
	return &p, nil
}
