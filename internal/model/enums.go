package model

import (
	"fmt"
	"strings"
)

// Category is the closed set of goal categories
type Category string

const (
	CategoryTravel       Category = "travel"
	CategoryHobby        Category = "hobby"
	CategoryCareer       Category = "career"
	CategoryRelationship Category = "relationship"
	CategoryHealth       Category = "health"
	CategoryOther        Category = "other"
)

// Categories lists every category in display order
var Categories = []Category{
	CategoryTravel,
	CategoryHobby,
	CategoryCareer,
	CategoryRelationship,
	CategoryHealth,
	CategoryOther,
}

// ParseCategory rejects anything outside Categories
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrValidation, s)
}

// Emotion recorded on completion and in the journey log
type Emotion string

const (
	EmotionHappy        Emotion = "happy"
	EmotionExcited      Emotion = "excited"
	EmotionProud        Emotion = "proud"
	EmotionGrateful     Emotion = "grateful"
	EmotionRelieved     Emotion = "relieved"
	EmotionInspired     Emotion = "inspired"
	EmotionPeaceful     Emotion = "peaceful"
	EmotionAccomplished Emotion = "accomplished"
	EmotionNeutral      Emotion = "neutral"
	EmotionFrustrated   Emotion = "frustrated"
)

// Emotions lists every emotion
var Emotions = []Emotion{
	EmotionHappy, EmotionExcited, EmotionProud, EmotionGrateful, EmotionRelieved,
	EmotionInspired, EmotionPeaceful, EmotionAccomplished, EmotionNeutral, EmotionFrustrated,
}

// ParseEmotion rejects unknown emotions. Empty input is allowed and returns "".
func ParseEmotion(s string) (Emotion, error) {
	e := Emotion(strings.ToLower(strings.TrimSpace(s)))
	if e == "" {
		return "", nil
	}
	for _, known := range Emotions {
		if e == known {
			return e, nil
		}
	}
	return "", fmt.Errorf("%w: unknown emotion %q", ErrValidation, s)
}

// Priority for goals and tasks
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority defaults empty input to medium
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PriorityMedium, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown priority %q", ErrValidation, s)
	}
}

// Rank orders priorities high to low
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// RecurrenceType is the cadence of a recurring goal
type RecurrenceType string

const (
	RecurDaily   RecurrenceType = "daily"
	RecurWeekly  RecurrenceType = "weekly"
	RecurMonthly RecurrenceType = "monthly"
	RecurYearly  RecurrenceType = "yearly"
)

// ParseRecurrenceType rejects unknown cadences
func ParseRecurrenceType(s string) (RecurrenceType, error) {
	switch r := RecurrenceType(strings.ToLower(strings.TrimSpace(s))); r {
	case RecurDaily, RecurWeekly, RecurMonthly, RecurYearly:
		return r, nil
	default:
		return "", fmt.Errorf("%w: unknown recurrence %q", ErrValidation, s)
	}
}

// Energy level logged in the emotional journey
type Energy string

const (
	EnergyLow    Energy = "low"
	EnergyMedium Energy = "medium"
	EnergyHigh   Energy = "high"
)

// ParseEnergy defaults empty input to medium
func ParseEnergy(s string) (Energy, error) {
	switch e := Energy(strings.ToLower(strings.TrimSpace(s))); e {
	case "":
		return EnergyMedium, nil
	case EnergyLow, EnergyMedium, EnergyHigh:
		return e, nil
	default:
		return "", fmt.Errorf("%w: unknown energy %q", ErrValidation, s)
	}
}
