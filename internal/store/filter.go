package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/existflow/lifelist/internal/model"
)

// Filter selects goals: all, completed, active, or a category name
type Filter string

const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
	FilterActive    Filter = "active"
)

// ParseFilter accepts the fixed filters and any category; empty means all
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterCompleted, FilterActive:
		return f, nil
	default:
		c, err := model.ParseCategory(string(f))
		if err != nil {
			return "", fmt.Errorf("%w: unknown filter %q", model.ErrValidation, s)
		}
		return Filter(c), nil
	}
}

// SortOrder orders the filtered list
type SortOrder string

const (
	SortDateDesc  SortOrder = "date-desc"
	SortDateAsc   SortOrder = "date-asc"
	SortCategory  SortOrder = "category"
	SortCompleted SortOrder = "completed"
)

// SortOrders lists every order in UI cycling order
var SortOrders = []SortOrder{SortDateDesc, SortDateAsc, SortCategory, SortCompleted}

// ParseSortOrder accepts the fixed orders; empty means date-desc
func ParseSortOrder(s string) (SortOrder, error) {
	o := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	if o == "" {
		return SortDateDesc, nil
	}
	for _, known := range SortOrders {
		if o == known {
			return o, nil
		}
	}
	return "", fmt.Errorf("%w: unknown sort order %q", model.ErrValidation, s)
}

// FilteredGoals filters, searches and sorts the active profile's goals
func (s *Store) FilteredGoals(filter Filter, query string, order SortOrder) ([]model.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.active()
	if err != nil {
		return nil, err
	}
	return FilterGoals(cloneGoals(p.BucketList), filter, query, order), nil
}

// FilterGoals applies filter, then the case-insensitive search over text and
// completion note, then a stable sort. goals is reordered in place and reused.
func FilterGoals(goals []model.Goal, filter Filter, query string, order SortOrder) []model.Goal {
	query = strings.ToLower(strings.TrimSpace(query))

	out := goals[:0]
	for _, g := range goals {
		if !matchesFilter(g, filter) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(g.Text), query) &&
			!strings.Contains(strings.ToLower(g.CompletionNote), query) {
			continue
		}
		out = append(out, g)
	}

	switch order {
	case SortDateAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	case SortCategory:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	case SortCompleted:
		// completed goals first
		sort.SliceStable(out, func(i, j int) bool { return out[i].Completed && !out[j].Completed })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out
}

func matchesFilter(g model.Goal, f Filter) bool {
	switch f {
	case "", FilterAll:
		return true
	case FilterCompleted:
		return g.Completed
	case FilterActive:
		return !g.Completed
	default:
		return string(g.Category) == string(f)
	}
}
