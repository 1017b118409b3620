package store

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/existflow/lifelist/internal/model"
	"github.com/existflow/lifelist/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func sequence() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestStore(t *testing.T, adapter storage.Adapter) (*Store, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)}
	s, err := New(adapter, Options{Now: c.now, NewID: sequence()})
	require.NoError(t, err)
	return s, c
}

func withProfile(t *testing.T, name string) (*Store, *clock, *storage.MemoryAdapter) {
	t.Helper()
	mem := storage.NewMemoryAdapter()
	s, c := newTestStore(t, mem)
	p, err := s.CreateProfile(name)
	require.NoError(t, err)
	_, err = s.SelectProfile(p.ID)
	require.NoError(t, err)
	return s, c, mem
}

func TestNew_EmptyStorage(t *testing.T) {
	s, _ := newTestStore(t, storage.NewMemoryAdapter())
	assert.Empty(t, s.Profiles())

	_, ok := s.CurrentProfile()
	assert.False(t, ok)

	_, err := s.Goals()
	assert.ErrorIs(t, err, ErrNoActiveProfile)
}

func TestNew_CorruptDataIsReported(t *testing.T) {
	mem := storage.NewMemoryAdapter()
	require.NoError(t, mem.Set(storage.KeyProfiles, []byte("not json")))

	_, err := New(mem, Options{})
	assert.ErrorIs(t, err, ErrInvalidImport)

	raw, err := mem.Get(storage.KeyProfiles)
	require.NoError(t, err)
	assert.Equal(t, "not json", string(raw))
}

func TestNew_MigratesBareArray(t *testing.T) {
	mem := storage.NewMemoryAdapter()
	legacy := `[{"id":"p1","name":"Legacy","bucketList":[
		{"id":"g1","text":"See the aurora","category":"travel","taskProgress":99,
		 "tasks":[{"id":"t1","text":"Book","completed":true},{"id":"t2","text":"Fly"}]}]}]`
	require.NoError(t, mem.Set(storage.KeyProfiles, []byte(legacy)))

	s, _ := newTestStore(t, mem)
	profiles := s.Profiles()
	require.Len(t, profiles, 1)
	assert.Equal(t, 50, profiles[0].BucketList[0].TaskProgress)
	assert.Equal(t, model.DefaultImageSettings(), profiles[0].Settings)

	raw, err := mem.Get(storage.KeyProfiles)
	require.NoError(t, err)
	var doc document
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, SchemaVersion, doc.SchemaVersion)
}

func TestNew_RefusesNewerSchema(t *testing.T) {
	mem := storage.NewMemoryAdapter()
	require.NoError(t, mem.Set(storage.KeyProfiles, []byte(`{"schemaVersion":99,"profiles":[]}`)))

	_, err := New(mem, Options{})
	assert.ErrorIs(t, err, ErrUnsupportedSchema)
}

func TestProfiles_CreateSelectDelete(t *testing.T) {
	s, _ := newTestStore(t, storage.NewMemoryAdapter())

	_, err := s.CreateProfile("   ")
	assert.ErrorIs(t, err, model.ErrValidation)

	a, err := s.CreateProfile("Alex")
	require.NoError(t, err)
	b, err := s.CreateProfile("Sam")
	require.NoError(t, err)
	assert.Len(t, s.Profiles(), 2)

	_, err = s.SelectProfile("nope")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	_, err = s.SelectProfile(a.ID)
	require.NoError(t, err)
	cur, ok := s.CurrentProfile()
	require.True(t, ok)
	assert.Equal(t, "Alex", cur.Name)

	require.NoError(t, s.DeleteProfile(a.ID))
	_, ok = s.CurrentProfile()
	assert.False(t, ok, "deleting the active profile clears it")

	profiles := s.Profiles()
	require.Len(t, profiles, 1)
	assert.Equal(t, b.ID, profiles[0].ID)
}

func TestPersistence_ReloadSeesMutations(t *testing.T) {
	s, _, mem := withProfile(t, "Alex")
	g, err := s.AddGoal(GoalInput{Text: "Run a marathon", Category: model.CategoryHealth})
	require.NoError(t, err)
	_, err = s.AddTask(g.ID, TaskInput{Text: "Buy shoes"})
	require.NoError(t, err)

	reloaded, _ := newTestStore(t, mem)
	profiles := reloaded.Profiles()
	require.Len(t, profiles, 1)
	require.Len(t, profiles[0].BucketList, 1)
	assert.Equal(t, "Run a marathon", profiles[0].BucketList[0].Text)
	assert.Len(t, profiles[0].BucketList[0].Tasks, 1)
}

func TestGuest_NeverPersisted(t *testing.T) {
	mem := storage.NewMemoryAdapter()
	s, _ := newTestStore(t, mem)
	_, err := s.CreateProfile("Alex")
	require.NoError(t, err)
	before, err := mem.Get(storage.KeyProfiles)
	require.NoError(t, err)

	guest := s.StartGuest("")
	assert.True(t, guest.IsGuest)
	assert.True(t, s.IsGuest())
	_, err = s.AddGoal(GoalInput{Text: "Try skydiving", Category: model.CategoryHobby})
	require.NoError(t, err)

	after, err := mem.Get(storage.KeyProfiles)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Len(t, s.Profiles(), 1)

	s.ClearCurrentProfile()
	assert.False(t, s.IsGuest())
}

func TestPersistenceFailure_MutationStands(t *testing.T) {
	mem := storage.NewMemoryAdapter()
	s, _ := newTestStore(t, mem)
	p, err := s.CreateProfile("Alex")
	require.NoError(t, err)
	_, err = s.SelectProfile(p.ID)
	require.NoError(t, err)

	mem.Limit = 10
	g, err := s.AddGoal(GoalInput{Text: "Learn piano", Category: model.CategoryHobby})
	require.NoError(t, err)

	got, err := s.Goal(g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Learn piano", got.Text)
}

func TestAddGoal_Validation(t *testing.T) {
	s, _, _ := withProfile(t, "Alex")

	_, err := s.AddGoal(GoalInput{Text: "  ", Category: model.CategoryTravel})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = s.AddGoal(GoalInput{Text: "Fly", Category: "space"})
	assert.ErrorIs(t, err, model.ErrValidation)

	g, err := s.AddGoal(GoalInput{Text: "  Visit Japan ", Category: model.CategoryTravel})
	require.NoError(t, err)
	assert.Equal(t, "Visit Japan", g.Text)
	assert.Equal(t, model.PriorityMedium, g.Priority)
	assert.False(t, g.Completed)
	assert.Equal(t, 0, g.TaskProgress)

	assert.True(t, s.DuplicateGoalExists("visit japan"))
	assert.False(t, s.DuplicateGoalExists("visit japan soon"))
}

// Alex adds "Run a marathon", two tasks, and finishes one of them.
func TestScenario_MarathonHalfway(t *testing.T) {
	s, _, _ := withProfile(t, "Alex")

	g, err := s.AddGoal(GoalInput{Text: "Run a marathon", Category: model.CategoryHealth})
	require.NoError(t, err)
	t1, err := s.AddTask(g.ID, TaskInput{Text: "Run 10k"})
	require.NoError(t, err)
	_, err = s.AddTask(g.ID, TaskInput{Text: "Run half marathon"})
	require.NoError(t, err)

	done := true
	_, err = s.UpdateTask(g.ID, t1.ID, TaskUpdate{Completed: &done})
	require.NoError(t, err)

	got, err := s.Goal(g.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.TaskProgress)
	assert.False(t, got.Completed)

	st := s.Stats()
	assert.Equal(t, 1, st.Total)
	assert.Equal(t, 0, st.Completed)
	assert.Equal(t, 0, st.Percentage)
	assert.Equal(t, CategoryStats{Total: 1}, st.ByCategory[model.CategoryHealth])
	assert.Equal(t, 2, st.TasksTotal)
	assert.Equal(t, 1, st.TasksCompleted)
}

func TestTasks_ProgressAlwaysRecomputed(t *testing.T) {
	s, c, _ := withProfile(t, "Alex")
	g, err := s.AddGoal(GoalInput{Text: "Write a book", Category: model.CategoryCareer})
	require.NoError(t, err)

	ids := make([]string, 3)
	for i := range ids {
		task, err := s.AddTask(g.ID, TaskInput{Text: fmt.Sprintf("Chapter %d", i+1)})
		require.NoError(t, err)
		ids[i] = task.ID
	}

	done, undone := true, false
	c.advance(time.Hour)
	task, err := s.UpdateTask(g.ID, ids[0], TaskUpdate{Completed: &done})
	require.NoError(t, err)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, c.now(), *task.CompletedAt)

	got, _ := s.Goal(g.ID)
	assert.Equal(t, 33, got.TaskProgress)

	_, err = s.UpdateTask(g.ID, ids[1], TaskUpdate{Completed: &done})
	require.NoError(t, err)
	got, _ = s.Goal(g.ID)
	assert.Equal(t, 67, got.TaskProgress)

	task, err = s.UpdateTask(g.ID, ids[0], TaskUpdate{Completed: &undone})
	require.NoError(t, err)
	assert.Nil(t, task.CompletedAt)

	require.NoError(t, s.DeleteTask(g.ID, ids[2]))
	got, _ = s.Goal(g.ID)
	assert.Equal(t, 50, got.TaskProgress)

	err = s.DeleteTask(g.ID, ids[2])
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = s.AddTask("missing", TaskInput{Text: "x"})
	assert.ErrorIs(t, err, ErrGoalNotFound)
}

func TestTasks_Notes(t *testing.T) {
	s, _, _ := withProfile(t, "Alex")
	g, _ := s.AddGoal(GoalInput{Text: "Learn Spanish", Category: model.CategoryHobby})
	task, err := s.AddTask(g.ID, TaskInput{Text: "Buy a textbook", Notes: []string{"check library first", " "}})
	require.NoError(t, err)
	assert.Len(t, task.Notes, 1)

	_, err = s.AddTaskNote(g.ID, task.ID, "found one")
	require.NoError(t, err)

	got, _ := s.Goal(g.ID)
	assert.Len(t, got.Tasks[0].Notes, 2)
	assert.Len(t, task.Notes, 1, "returned copies are detached from the store")
}

func TestMilestones_DerivedAchievement(t *testing.T) {
	s, _, _ := withProfile(t, "Alex")
	g, _ := s.AddGoal(GoalInput{Text: "Climb Kilimanjaro", Category: model.CategoryTravel})
	a, _ := s.AddTask(g.ID, TaskInput{Text: "Get fit"})
	b, _ := s.AddTask(g.ID, TaskInput{Text: "Book flights"})

	_, err := s.AddMilestone(g.ID, MilestoneInput{Title: "Ready", TargetDate: "03/01/2025"})
	assert.ErrorIs(t, err, model.ErrValidation)

	m, err := s.AddMilestone(g.ID, MilestoneInput{Title: "Ready", TargetDate: "2025-03-01", TaskIDs: []string{a.ID, b.ID}})
	require.NoError(t, err)

	done := true
	_, err = s.UpdateTask(g.ID, a.ID, TaskUpdate{Completed: &done})
	require.NoError(t, err)

	got, _ := s.Goal(g.ID)
	st := got.MilestoneProgress(got.Milestones[0])
	assert.Equal(t, 50, st.Percent)
	assert.False(t, st.Achieved)

	// the pending task disappears; its stale id is ignored
	require.NoError(t, s.DeleteTask(g.ID, b.ID))
	got, _ = s.Goal(g.ID)
	st = got.MilestoneProgress(got.Milestones[0])
	assert.Equal(t, 1, st.Total)
	assert.True(t, st.Achieved)

	require.NoError(t, s.DeleteMilestone(g.ID, m.ID))
	assert.ErrorIs(t, s.DeleteMilestone(g.ID, m.ID), ErrMilestoneNotFound)
}

func TestCompleteGoal_RecordsAchievement(t *testing.T) {
	s, c, _ := withProfile(t, "Alex")
	g, _ := s.AddGoal(GoalInput{Text: "See the pyramids", Category: model.CategoryTravel})

	c.advance(24 * time.Hour)
	done, err := s.CompleteGoal(g.ID, Completion{Note: " Unreal ", Emotion: model.EmotionInspired})
	require.NoError(t, err)
	assert.True(t, done.Completed)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, c.now(), *done.CompletedAt)
	assert.Equal(t, "Unreal", done.CompletionNote)

	_, err = s.CompleteGoal(g.ID, Completion{})
	require.NoError(t, err)

	cur, _ := s.CurrentProfile()
	require.Len(t, cur.Achievements, 1)
	assert.Equal(t, g.ID, cur.Achievements[0].GoalID)
	assert.Equal(t, model.EmotionInspired, cur.Achievements[0].Emotion)

	_, err = s.CompleteGoal(g.ID, Completion{Emotion: "meh"})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestUpdateGoal_CompletionToggle(t *testing.T) {
	s, _, _ := withProfile(t, "Alex")
	g, _ := s.AddGoal(GoalInput{Text: "Plant a tree", Category: model.CategoryOther})

	done, undone := true, false
	got, err := s.UpdateGoal(g.ID, GoalUpdate{Completed: &done})
	require.NoError(t, err)
	assert.NotNil(t, got.CompletedAt)

	got, err = s.UpdateGoal(g.ID, GoalUpdate{Completed: &undone})
	require.NoError(t, err)
	assert.Nil(t, got.CompletedAt)

	cat := model.Category("nope")
	_, err = s.UpdateGoal(g.ID, GoalUpdate{Category: &cat})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestRecurring_SameDayGuard(t *testing.T) {
	s, c, _ := withProfile(t, "Alex")
	g, err := s.AddGoal(GoalInput{Text: "Meditate", Category: model.CategoryHealth, Recurring: model.RecurDaily})
	require.NoError(t, err)
	require.NotNil(t, g.Recurring)
	assert.True(t, g.Recurring.IsActive)
	assert.Equal(t, "2024-03-11", model.DateKey(g.Recurring.NextDue))

	ok, err := s.CanCompleteToday(g.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := s.CompleteRecurringGoal(g.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Recurring.TotalCompletions)
	assert.Equal(t, []string{"2024-03-10"}, got.Recurring.CompletedDates)
	assert.False(t, got.Completed)

	c.advance(3 * time.Hour)
	_, err = s.CompleteRecurringGoal(g.ID)
	assert.ErrorIs(t, err, ErrAlreadyCompletedToday)
	unchanged, _ := s.Goal(g.ID)
	assert.Equal(t, 1, unchanged.Recurring.TotalCompletions)

	ok, _ = s.CanCompleteToday(g.ID)
	assert.False(t, ok)

	c.advance(24 * time.Hour)
	got, err = s.CompleteRecurringGoal(g.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Recurring.TotalCompletions)
	assert.Equal(t, "2024-03-12", model.DateKey(got.Recurring.NextDue))

	_, err = s.CompleteGoal(g.ID, Completion{})
	assert.ErrorIs(t, err, ErrRecurringActive)
	done := true
	_, err = s.UpdateGoal(g.ID, GoalUpdate{Completed: &done})
	assert.ErrorIs(t, err, ErrRecurringActive)
}

func TestRecurring_DeactivationIsTerminal(t *testing.T) {
	s, c, _ := withProfile(t, "Alex")
	g, _ := s.AddGoal(GoalInput{Text: "Call grandma", Category: model.CategoryRelationship, Recurring: model.RecurWeekly})

	c.advance(time.Hour)
	got, err := s.DeactivateRecurringGoal(g.ID)
	require.NoError(t, err)
	assert.False(t, got.Recurring.IsActive)
	assert.True(t, got.Completed)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, c.now(), *got.CompletedAt)
	assert.Equal(t, model.DeactivatedRecurring, got.State())

	_, err = s.CompleteRecurringGoal(g.ID)
	assert.ErrorIs(t, err, ErrRecurringInactive)
	_, err = s.DeactivateRecurringGoal(g.ID)
	assert.ErrorIs(t, err, ErrRecurringInactive)

	undone := false
	_, err = s.UpdateGoal(g.ID, GoalUpdate{Completed: &undone})
	assert.ErrorIs(t, err, ErrRecurringInactive)

	plain, _ := s.AddGoal(GoalInput{Text: "Ski", Category: model.CategoryHobby})
	_, err = s.CompleteRecurringGoal(plain.ID)
	assert.ErrorIs(t, err, ErrNotRecurring)
}

func TestMoveGoal_Clamps(t *testing.T) {
	s, _, _ := withProfile(t, "Alex")
	var ids []string
	for _, text := range []string{"a", "b", "c"} {
		g, _ := s.AddGoal(GoalInput{Text: text, Category: model.CategoryOther})
		ids = append(ids, g.ID)
	}

	require.NoError(t, s.MoveGoal(ids[0], 99))
	require.NoError(t, s.MoveGoal(ids[1], -4))

	goals, _ := s.Goals()
	var order []string
	for _, g := range goals {
		order = append(order, g.Text)
	}
	assert.Equal(t, []string{"b", "c", "a"}, order)

	require.NoError(t, s.DeleteGoal(ids[2]))
	assert.ErrorIs(t, s.DeleteGoal(ids[2]), ErrGoalNotFound)
}

func TestStats_PercentageBounds(t *testing.T) {
	s, _, _ := withProfile(t, "Alex")

	st := s.Stats()
	assert.Equal(t, 0, st.Percentage)
	assert.Equal(t, DefaultMotivation, st.MotivationIndex)

	a, _ := s.AddGoal(GoalInput{Text: "a", Category: model.CategoryTravel})
	b, _ := s.AddGoal(GoalInput{Text: "b", Category: model.CategoryTravel})
	assert.Equal(t, 0, s.Stats().Percentage)

	_, err := s.CompleteGoal(a.ID, Completion{})
	require.NoError(t, err)
	_, err = s.CompleteGoal(b.ID, Completion{})
	require.NoError(t, err)

	st = s.Stats()
	assert.Equal(t, 100, st.Percentage)
	assert.Equal(t, 2, st.Achievements)
}

func TestStats_ByCategoryHasEveryCategory(t *testing.T) {
	st := ComputeStats([]model.Goal{model.NewGoal("g1", "Paris", model.CategoryTravel, time.Now())})

	require.Len(t, st.ByCategory, len(model.Categories))
	for _, c := range model.Categories {
		_, ok := st.ByCategory[c]
		assert.True(t, ok, "missing %s", c)
	}
	assert.Equal(t, CategoryStats{}, st.ByCategory[model.CategoryCareer])
	assert.Equal(t, CategoryStats{Total: 1}, st.ByCategory[model.CategoryTravel])
}

func TestMotivationIndex_LastThreePerGoal(t *testing.T) {
	s, _, _ := withProfile(t, "Alex")
	g, _ := s.AddGoal(GoalInput{Text: "Learn to surf", Category: model.CategoryHobby})

	for _, m := range []int{3, 5, 7, 9} {
		_, err := s.LogJourney(g.ID, JourneyInput{Emotion: model.EmotionExcited, Motivation: m})
		require.NoError(t, err)
	}
	assert.Equal(t, 7.0, s.Stats().MotivationIndex)

	_, err := s.LogJourney(g.ID, JourneyInput{Motivation: 11})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestMotivationIndex_PoolsGoals(t *testing.T) {
	a := model.Goal{EmotionalJourney: []model.JourneyEntry{{Motivation: 8}}}
	b := model.Goal{EmotionalJourney: []model.JourneyEntry{{Motivation: 1}, {Motivation: 2}, {Motivation: 3}, {Motivation: 4}}}
	// (8 + 2 + 3 + 4) / 4
	assert.Equal(t, 4.3, MotivationIndex([]model.Goal{a, b}))

	one := model.Goal{EmotionalJourney: []model.JourneyEntry{{Motivation: 10}}}
	three := model.Goal{EmotionalJourney: []model.JourneyEntry{{Motivation: 1}, {Motivation: 1}, {Motivation: 1}}}
	assert.Equal(t, 3.3, MotivationIndex([]model.Goal{one, three}), "ratings are pooled, not averaged per goal")
	assert.Equal(t, DefaultMotivation, MotivationIndex(nil))
}

func TestFilterGoals(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	goals := func() []model.Goal {
		return []model.Goal{
			{ID: "1", Text: "Visit Rome", Category: model.CategoryTravel, CreatedAt: base},
			{ID: "2", Text: "Learn guitar", Category: model.CategoryHobby, CreatedAt: base.Add(time.Hour), Completed: true},
			{ID: "3", Text: "Get promoted", Category: model.CategoryCareer, CreatedAt: base.Add(2 * time.Hour)},
			{ID: "4", Text: "Hike", Category: model.CategoryTravel, CreatedAt: base.Add(3 * time.Hour), Completed: true, CompletionNote: "Rome trail"},
		}
	}
	ids := func(gs []model.Goal) []string {
		out := make([]string, 0, len(gs))
		for _, g := range gs {
			out = append(out, g.ID)
		}
		return out
	}

	assert.Equal(t, []string{"4", "3", "2", "1"}, ids(FilterGoals(goals(), FilterAll, "", SortDateDesc)))
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(FilterGoals(goals(), FilterAll, "", SortDateAsc)))
	assert.Equal(t, []string{"2", "4", "1", "3"}, ids(FilterGoals(goals(), FilterAll, "", SortCompleted)))
	assert.Equal(t, []string{"3", "2", "1", "4"}, ids(FilterGoals(goals(), FilterAll, "", SortCategory)))
	assert.Equal(t, []string{"3", "1"}, ids(FilterGoals(goals(), FilterActive, "", SortDateDesc)))
	assert.Equal(t, []string{"4", "1"}, ids(FilterGoals(goals(), Filter(model.CategoryTravel), "", SortDateDesc)))
	assert.Equal(t, []string{"1", "4"}, ids(FilterGoals(goals(), FilterAll, "ROME", SortDateAsc)))
	assert.Equal(t, []string{"4"}, ids(FilterGoals(goals(), FilterCompleted, "rome", SortDateAsc)))
}

func TestParseFilterAndSort(t *testing.T) {
	f, err := ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	f, err = ParseFilter("Health")
	require.NoError(t, err)
	assert.Equal(t, Filter("health"), f)

	_, err = ParseFilter("bogus")
	assert.ErrorIs(t, err, model.ErrValidation)

	o, err := ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, SortDateDesc, o)

	_, err = ParseSortOrder("random")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestExportImport_RoundTrip(t *testing.T) {
	s, _, _ := withProfile(t, "Alex")
	g, _ := s.AddGoal(GoalInput{Text: "Run a marathon", Category: model.CategoryHealth})
	task, _ := s.AddTask(g.ID, TaskInput{Text: "Run 10k"})
	done := true
	_, _ = s.UpdateTask(g.ID, task.ID, TaskUpdate{Completed: &done})
	cur, _ := s.CurrentProfile()

	data, err := s.Export(cur.ID)
	require.NoError(t, err)

	other, _ := newTestStore(t, storage.NewMemoryAdapter())
	res, err := other.Import(data, nil)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Profiles: 1}, res)

	imported, err := other.Profile(cur.ID)
	require.NoError(t, err)
	assert.Equal(t, cur.Name, imported.Name)
	require.Len(t, imported.BucketList, 1)
	assert.Equal(t, cur.BucketList[0].Text, imported.BucketList[0].Text)
	assert.Equal(t, 100, imported.BucketList[0].TaskProgress)

	_, err = s.Export("missing")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestImport_OverwriteNeedsConfirmation(t *testing.T) {
	s, _, _ := withProfile(t, "Alex")
	cur, _ := s.CurrentProfile()
	data, err := s.Export(cur.ID)
	require.NoError(t, err)

	_, _ = s.AddGoal(GoalInput{Text: "Added after export", Category: model.CategoryOther})

	var asked ImportAction = -1
	_, err = s.Import(data, func(a ImportAction, _ string) bool { asked = a; return false })
	assert.ErrorIs(t, err, ErrImportDeclined)
	assert.Equal(t, ImportOverwrite, asked)
	goals, _ := s.Goals()
	assert.Len(t, goals, 1, "declined import leaves data alone")

	res, err := s.Import(data, func(ImportAction, string) bool { return true })
	require.NoError(t, err)
	assert.True(t, res.Overwritten)
	goals, err = s.Goals()
	require.NoError(t, err, "active profile follows the overwrite")
	assert.Empty(t, goals)
}

func TestImport_CollectionReplacesAll(t *testing.T) {
	s, _, _ := withProfile(t, "Alex")
	_, _ = s.CreateProfile("Sam")

	payload := `[{"id":"x1","name":"Imported","bucketList":[
		{"id":"g1","text":"Sail","category":"hobby","taskProgress":12,"tasks":[]}]}]`

	var asked ImportAction = -1
	res, err := s.Import([]byte(payload), func(a ImportAction, _ string) bool { asked = a; return true })
	require.NoError(t, err)
	assert.Equal(t, ImportReplaceAll, asked)
	assert.True(t, res.Replaced)

	profiles := s.Profiles()
	require.Len(t, profiles, 1)
	assert.Equal(t, "Imported", profiles[0].Name)
	assert.Equal(t, 0, profiles[0].BucketList[0].TaskProgress)

	_, ok := s.CurrentProfile()
	assert.False(t, ok, "active profile was replaced away")
}

func TestImport_InvalidLeavesStateUntouched(t *testing.T) {
	s, _, _ := withProfile(t, "Alex")
	before := s.Profiles()

	for _, payload := range []string{
		``,
		`nonsense`,
		`{"hello":"world"}`,
		`[{"id":"","name":"x"}]`,
		`[{"id":"p","bucketList":[{"id":"g","text":"t","category":"space"}]}]`,
		`{"schemaVersion":7,"profiles":[]}`,
		`[{"id":"p","bucketList":[{"id":"g","text":"t","category":"travel","priority":"urgent"}]}]`,
		`[{"id":"p","bucketList":[{"id":"g","text":"t","category":"travel","completionEmotion":"bogus"}]}]`,
		`[{"id":"p","bucketList":[{"id":"g","text":"t","category":"travel","recurring":{"type":"hourly"}}]}]`,
		`[{"id":"p","bucketList":[{"id":"g","text":"t","category":"travel","tasks":[{"id":"t","text":"x","priority":"asap"}]}]}]`,
		`[{"id":"p","bucketList":[{"id":"g","text":"t","category":"travel","emotionalJourney":[{"motivation":11}]}]}]`,
		`[{"id":"p","bucketList":[{"id":"g","text":"t","category":"travel","emotionalJourney":[{"motivation":5,"energy":"wired"}]}]}]`,
		`{"id":"p","bucketList":[{"id":"g","text":"t","category":"Travel","completionEmotion":"bogus"}]}`,
	} {
		_, err := s.Import([]byte(payload), nil)
		assert.Error(t, err, payload)
	}
	assert.Equal(t, before, s.Profiles())
}

func TestImageDefaults(t *testing.T) {
	mem := storage.NewMemoryAdapter()
	s, _ := newTestStore(t, mem)
	assert.Equal(t, model.DefaultImageSettings(), s.ImageDefaults())

	err := s.SetImageDefaults(model.ImageSettings{Quality: 2, MaxWidth: 800, Format: "jpeg"})
	assert.ErrorIs(t, err, model.ErrValidation)

	img := model.ImageSettings{Quality: 0.5, MaxWidth: 800, Format: "png"}
	require.NoError(t, s.SetImageDefaults(img))

	reloaded, _ := newTestStore(t, mem)
	assert.Equal(t, img, reloaded.ImageDefaults())
}

func TestReset_ClearsEverything(t *testing.T) {
	s, _, mem := withProfile(t, "Ana")
	_, err := s.AddGoal(GoalInput{Text: "Learn to sail", Category: model.CategoryHobby})
	require.NoError(t, err)
	require.NoError(t, s.SetImageDefaults(model.ImageSettings{Quality: 0.5, MaxWidth: 640, Format: "png"}))

	require.NoError(t, s.Reset())

	assert.Empty(t, s.Profiles())
	_, ok := s.CurrentProfile()
	assert.False(t, ok)
	assert.Equal(t, model.DefaultImageSettings(), s.ImageDefaults())
	assert.Empty(t, mem.Keys())

	reloaded, _ := newTestStore(t, mem)
	assert.Empty(t, reloaded.Profiles())
}

func TestRenameProfileAndSettings(t *testing.T) {
	s, _, mem := withProfile(t, "Alex")
	cur, _ := s.CurrentProfile()

	_, err := s.RenameProfile(cur.ID, "  ")
	assert.ErrorIs(t, err, model.ErrValidation)
	_, err = s.RenameProfile("nope", "Sam")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	renamed, err := s.RenameProfile(cur.ID, " Alexandra ")
	require.NoError(t, err)
	assert.Equal(t, "Alexandra", renamed.Name)

	assert.ErrorIs(t, s.UpdateProfileSettings(model.ImageSettings{Quality: 0.4, MaxWidth: 10, Format: "jpeg"}), model.ErrValidation)
	img := model.ImageSettings{Quality: 0.4, MaxWidth: 640, Format: "png"}
	require.NoError(t, s.UpdateProfileSettings(img))

	reloaded, _ := newTestStore(t, mem)
	p, err := reloaded.Profile(cur.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alexandra", p.Name)
	assert.Equal(t, img, p.Settings)
}

func TestFilteredGoals_ActiveProfile(t *testing.T) {
	s, _ := newTestStore(t, storage.NewMemoryAdapter())
	_, err := s.FilteredGoals(FilterAll, "", SortDateDesc)
	assert.ErrorIs(t, err, ErrNoActiveProfile)

	s, c, _ := withProfile(t, "Alex")
	sail, _ := s.AddGoal(GoalInput{Text: "Learn to sail", Category: model.CategoryHobby})
	c.advance(time.Hour)
	_, _ = s.AddGoal(GoalInput{Text: "Visit Kyoto", Category: model.CategoryTravel})
	c.advance(time.Hour)
	_, _ = s.AddGoal(GoalInput{Text: "Sail to Corsica", Category: model.CategoryTravel})
	_, err = s.CompleteGoal(sail.ID, Completion{Note: "first regatta"})
	require.NoError(t, err)

	got, err := s.FilteredGoals(FilterAll, "sail", SortDateAsc)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Learn to sail", got[0].Text)
	assert.Equal(t, "Sail to Corsica", got[1].Text)

	got, err = s.FilteredGoals(FilterAll, "REGATTA", SortDateDesc)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, sail.ID, got[0].ID)

	got, err = s.FilteredGoals(Filter(model.CategoryTravel), "", SortDateDesc)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Sail to Corsica", got[0].Text)

	all, _ := s.FilteredGoals(FilterAll, "", SortDateDesc)
	assert.Len(t, all, 3, "filtering returns copies and leaves the profile untouched")
}

func TestUpdateGoal_NormalizesEnums(t *testing.T) {
	s, _, _ := withProfile(t, "Alex")
	g, err := s.AddGoal(GoalInput{Text: "Visit Kyoto", Category: model.CategoryOther, Priority: model.PriorityHigh})
	require.NoError(t, err)

	category := model.Category(" TRAVEL ")
	priority := model.Priority("")
	emotion := model.Emotion("Proud")
	updated, err := s.UpdateGoal(g.ID, GoalUpdate{Category: &category, Priority: &priority, CompletionEmotion: &emotion})
	require.NoError(t, err)
	assert.Equal(t, model.CategoryTravel, updated.Category)
	assert.Equal(t, model.PriorityMedium, updated.Priority)
	assert.Equal(t, model.EmotionProud, updated.CompletionEmotion)

	st := s.Stats()
	assert.Len(t, st.ByCategory, len(model.Categories))
	assert.Equal(t, 1, st.ByCategory[model.CategoryTravel].Total)

	hits, err := s.FilteredGoals(Filter(model.CategoryTravel), "", SortDateDesc)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	task, err := s.AddTask(g.ID, TaskInput{Text: "Book flights"})
	require.NoError(t, err)
	high := model.Priority(" HIGH")
	task, err = s.UpdateTask(g.ID, task.ID, TaskUpdate{Priority: &high})
	require.NoError(t, err)
	assert.Equal(t, model.PriorityHigh, task.Priority)
}

func TestImport_NormalizesEnums(t *testing.T) {
	s, _, _ := withProfile(t, "Alex")
	payload := `{"id":"p9","name":"Imported","bucketList":[{"id":"g9","text":"See Petra","category":"Travel",
		"priority":" LOW","completionEmotion":"Happy","recurring":{"type":"Weekly","isActive":true},
		"tasks":[{"id":"t9","text":"Visa","priority":"HIGH"}],
		"emotionalJourney":[{"motivation":7,"emotion":"Excited","energy":"High"}]}]}`

	_, err := s.Import([]byte(payload), nil)
	require.NoError(t, err)

	p, err := s.Profile("p9")
	require.NoError(t, err)
	g := p.BucketList[0]
	assert.Equal(t, model.CategoryTravel, g.Category)
	assert.Equal(t, model.PriorityLow, g.Priority)
	assert.Equal(t, model.EmotionHappy, g.CompletionEmotion)
	assert.Equal(t, model.RecurWeekly, g.Recurring.Type)
	assert.Equal(t, model.PriorityHigh, g.Tasks[0].Priority)
	assert.Equal(t, model.EmotionExcited, g.EmotionalJourney[0].Emotion)
	assert.Equal(t, model.EnergyHigh, g.EmotionalJourney[0].Energy)
}
