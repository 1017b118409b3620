package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/existflow/lifelist/internal/model"
)

// SchemaVersion of the persisted profile document.
//
//	1: bare JSON array of profiles (the original browser layout)
//	2: envelope with schemaVersion and savedAt
const SchemaVersion = 2

type document struct {
	SchemaVersion int             `json:"schemaVersion"`
	SavedAt       time.Time       `json:"savedAt"`
	Profiles      []model.Profile `json:"profiles"`
}

func encodeProfiles(profiles []model.Profile, now time.Time) ([]byte, error) {
	return json.Marshal(document{SchemaVersion: SchemaVersion, SavedAt: now, Profiles: profiles})
}

// decodeProfiles accepts every known layout and returns the normalized profiles
// plus the version they were stored with.
func decodeProfiles(data []byte) ([]model.Profile, int, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, 0, fmt.Errorf("%w: empty document", ErrInvalidImport)
	}

	var (
		profiles []model.Profile
		version  int
	)
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &profiles); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrInvalidImport, err)
		}
		version = 1
	case '{':
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrInvalidImport, err)
		}
		if doc.SchemaVersion > SchemaVersion {
			return nil, 0, fmt.Errorf("%w: %d (this build understands up to %d)",
				ErrUnsupportedSchema, doc.SchemaVersion, SchemaVersion)
		}
		profiles, version = doc.Profiles, doc.SchemaVersion
	default:
		return nil, 0, fmt.Errorf("%w: not a JSON object or array", ErrInvalidImport)
	}

	for i := range profiles {
		if err := checkProfile(&profiles[i]); err != nil {
			return nil, 0, err
		}
		profiles[i].IsGuest = false
		profiles[i].Normalize()
	}
	return profiles, version, nil
}

// checkProfile rejects unknown enum values and rewrites known ones to their
// canonical spelling, so loaded data holds only what the typed API accepts.
func checkProfile(p *model.Profile) error {
	if p.ID == "" {
		return fmt.Errorf("%w: profile without id", ErrInvalidImport)
	}
	for i := range p.BucketList {
		g := &p.BucketList[i]
		if g.ID == "" {
			return fmt.Errorf("%w: goal without id in profile %s", ErrInvalidImport, p.ID)
		}
		if err := checkGoal(g); err != nil {
			return fmt.Errorf("%w: goal %s: %v", ErrInvalidImport, g.ID, err)
		}
	}
	for i := range p.Achievements {
		e, err := model.ParseEmotion(string(p.Achievements[i].Emotion))
		if err != nil {
			return fmt.Errorf("%w: achievement for goal %s: %v", ErrInvalidImport, p.Achievements[i].GoalID, err)
		}
		p.Achievements[i].Emotion = e
	}
	return nil
}

func checkGoal(g *model.Goal) error {
	var err error
	if g.Category, err = model.ParseCategory(string(g.Category)); err != nil {
		return err
	}
	if g.Priority, err = model.ParsePriority(string(g.Priority)); err != nil {
		return err
	}
	if g.CompletionEmotion, err = model.ParseEmotion(string(g.CompletionEmotion)); err != nil {
		return err
	}
	if g.Recurring != nil {
		if g.Recurring.Type, err = model.ParseRecurrenceType(string(g.Recurring.Type)); err != nil {
			return err
		}
	}
	for i := range g.Tasks {
		t := &g.Tasks[i]
		if t.Priority, err = model.ParsePriority(string(t.Priority)); err != nil {
			return fmt.Errorf("task %s: %w", t.ID, err)
		}
	}
	for i := range g.EmotionalJourney {
		j := &g.EmotionalJourney[i]
		if j.Motivation < 1 || j.Motivation > 10 {
			return fmt.Errorf("%w: journey motivation %d outside 1-10", model.ErrValidation, j.Motivation)
		}
		if j.Emotion, err = model.ParseEmotion(string(j.Emotion)); err != nil {
			return err
		}
		if j.Energy, err = model.ParseEnergy(string(j.Energy)); err != nil {
			return err
		}
	}
	return nil
}
