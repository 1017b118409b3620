package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/lifelist/internal/model"
	"github.com/existflow/lifelist/internal/storage"
	"github.com/existflow/lifelist/internal/store"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(storage.NewMemoryAdapter(), store.Options{})
	require.NoError(t, err)
	return st
}

func TestResolveGoal(t *testing.T) {
	st := newStore(t)
	p, err := st.CreateProfile("Ana")
	require.NoError(t, err)
	_, err = st.SelectProfile(p.ID)
	require.NoError(t, err)

	first, err := st.AddGoal(store.GoalInput{Text: "Visit Kyoto", Category: model.CategoryTravel})
	require.NoError(t, err)
	second, err := st.AddGoal(store.GoalInput{Text: "Learn piano", Category: model.CategoryHobby})
	require.NoError(t, err)

	g, err := resolveGoal(st, "2")
	require.NoError(t, err)
	assert.Equal(t, second.ID, g.ID)

	g, err = resolveGoal(st, first.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, first.ID, g.ID)

	_, err = resolveGoal(st, "zzzz")
	assert.ErrorIs(t, err, store.ErrGoalNotFound)
}

func TestResolveGoal_NoProfile(t *testing.T) {
	_, err := resolveGoal(newStore(t), "1")
	assert.ErrorIs(t, err, store.ErrNoActiveProfile)
}

func TestResolveTaskAndMilestone(t *testing.T) {
	g := model.Goal{
		Tasks:      []model.Task{{ID: "aaa-1", Text: "one"}, {ID: "aab-2", Text: "two"}},
		Milestones: []model.Milestone{{ID: "m-1", Title: "half"}},
	}

	tk, err := resolveTask(g, "2")
	require.NoError(t, err)
	assert.Equal(t, "two", tk.Text)

	_, err = resolveTask(g, "aa")
	assert.ErrorContains(t, err, "ambiguous")

	tk, err = resolveTask(g, "aab")
	require.NoError(t, err)
	assert.Equal(t, "aab-2", tk.ID)

	_, err = resolveTask(g, "9")
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	m, err := resolveMilestone(g, "1")
	require.NoError(t, err)
	assert.Equal(t, "half", m.Title)

	_, err = resolveMilestone(g, "x")
	assert.ErrorIs(t, err, store.ErrMilestoneNotFound)
}

func TestFindProfile(t *testing.T) {
	st := newStore(t)
	ana, err := st.CreateProfile("Ana")
	require.NoError(t, err)
	_, err = st.CreateProfile("Ben")
	require.NoError(t, err)

	p, err := findProfile(st, "ana")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, p.ID)

	p, err = findProfile(st, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", p.Name)

	_, err = findProfile(st, "Cleo")
	assert.ErrorIs(t, err, store.ErrProfileNotFound)
}

func TestTruncateAndShortID(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "héllo w...", truncate("héllo wörld!", 10))

	assert.Equal(t, "12345678", shortID("1234567890"))
	assert.Equal(t, "abc", shortID("abc"))
}

func TestExportPath(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "ana.json", exportPath("", "ana.json"))
	assert.Equal(t, filepath.Join(dir, "ana.json"), exportPath(dir, "ana.json"))

	file := filepath.Join(dir, "custom.json")
	assert.Equal(t, file, exportPath(file, "ana.json"))

	require.NoError(t, os.WriteFile(file, []byte("{}"), 0600))
	assert.Equal(t, file, exportPath(file, "ana.json"))
}
