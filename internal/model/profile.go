package model

import "time"

// ImageSettings are the defaults used when compressing photos and rendering cards
type ImageSettings struct {
	Quality  float64 `json:"quality" validate:"gt=0,lte=1"`
	MaxWidth int     `json:"maxWidth" validate:"gte=64,lte=4096"`
	Format   string  `json:"format" validate:"oneof=jpeg png"`
}

// DefaultImageSettings mirrors the shipped config defaults
func DefaultImageSettings() ImageSettings {
	return ImageSettings{Quality: 0.7, MaxWidth: 1200, Format: "jpeg"}
}

// Achievement is appended whenever a goal is completed
type Achievement struct {
	GoalID  string    `json:"goalId"`
	Date    time.Time `json:"date"`
	Emotion Emotion   `json:"emotion,omitempty"`
}

// Profile is an isolated workspace holding one bucket list
type Profile struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	CreatedAt    time.Time     `json:"createdAt"`
	LastActive   time.Time     `json:"lastActive"`
	BucketList   []Goal        `json:"bucketList"`
	Settings     ImageSettings `json:"settings"`
	Achievements []Achievement `json:"achievements"`
	IsGuest      bool          `json:"isGuest,omitempty"`
}

// NewProfile creates a profile with empty collections
func NewProfile(id, name string, now time.Time) Profile {
	return Profile{
		ID:           id,
		Name:         name,
		CreatedAt:    now,
		LastActive:   now,
		BucketList:   []Goal{},
		Settings:     DefaultImageSettings(),
		Achievements: []Achievement{},
	}
}

// GoalIndex returns the position of a goal or -1
func (p *Profile) GoalIndex(id string) int {
	for i := range p.BucketList {
		if p.BucketList[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy safe to hand outside the store
func (p Profile) Clone() Profile {
	out := p
	out.BucketList = make([]Goal, len(p.BucketList))
	for i, g := range p.BucketList {
		out.BucketList[i] = g.Clone()
	}
	out.Achievements = append([]Achievement{}, p.Achievements...)
	return out
}

// Normalize fills nil collections left by older payloads and recomputes derived fields
func (p *Profile) Normalize() {
	if p.BucketList == nil {
		p.BucketList = []Goal{}
	}
	if p.Achievements == nil {
		p.Achievements = []Achievement{}
	}
	if p.Settings == (ImageSettings{}) {
		p.Settings = DefaultImageSettings()
	}
	for i := range p.BucketList {
		p.BucketList[i].Normalize()
	}
}
