package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/lifelist/internal/model"
	"github.com/existflow/lifelist/internal/session"
	"github.com/existflow/lifelist/internal/storage"
	"github.com/existflow/lifelist/internal/store"
)

type harness struct {
	t     *testing.T
	srv   *Server
	store *store.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	st, err := store.New(storage.NewMemoryAdapter(), store.Options{})
	require.NoError(t, err)
	mon := session.NewMonitor(session.Config{Timeout: time.Hour, OnExpire: st.ClearCurrentProfile, IsGuest: st.IsGuest})
	srv, err := New(Options{Store: st, Monitor: mon})
	require.NoError(t, err)
	t.Cleanup(mon.Stop)
	return &harness{t: t, srv: srv, store: st}
}

func (h *harness) do(method, path string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(h.t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.srv.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (h *harness) activeProfile(name string) model.Profile {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/api/v1/profiles", map[string]string{"name": name})
	require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())
	p := decode[model.Profile](h.t, rec)

	rec = h.do(http.MethodPost, "/api/v1/profiles/"+p.ID+"/select", nil)
	require.Equal(h.t, http.StatusOK, rec.Code)
	return p
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]any](t, rec)["status"])
}

func TestMetrics(t *testing.T) {
	h := newHarness(t)
	h.activeProfile("Alex")
	h.do(http.MethodGet, "/api/v1/goals/missing", nil)

	rec := h.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "lifelist_profiles 1")
	assert.Contains(t, body, "lifelist_session_expired 0")
	assert.Contains(t, body, `lifelist_http_requests_total{method="POST",path="/api/v1/profiles",status="201"} 1`)
	assert.Contains(t, body, `lifelist_http_requests_total{method="GET",path="/api/v1/goals/:id",status="404"} 1`)
}

func TestProfilesAndSession(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/api/v1/profiles", map[string]string{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	p := h.activeProfile("Alex")

	rec = h.do(http.MethodGet, "/api/v1/profiles", nil)
	summaries := decode[[]profileSummary](t, rec)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Alex", summaries[0].Name)

	rec = h.do(http.MethodGet, "/api/v1/session", nil)
	sess := decode[sessionResponse](t, rec)
	assert.True(t, sess.Active)
	assert.Equal(t, p.ID, sess.Profile.ID)

	rec = h.do(http.MethodPatch, "/api/v1/profiles/"+p.ID, map[string]string{"name": "Alexandra"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodDelete, "/api/v1/session", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = h.do(http.MethodGet, "/api/v1/goals", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(http.MethodGet, "/api/v1/profiles/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGuest(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodPost, "/api/v1/guest", map[string]string{})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, decode[model.Profile](t, rec).IsGuest)

	rec = h.do(http.MethodPost, "/api/v1/goals", map[string]string{"text": "Swim with dolphins", "category": "travel"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, h.store.Profiles())
}

func TestGoalLifecycle(t *testing.T) {
	h := newHarness(t)
	h.activeProfile("Alex")

	rec := h.do(http.MethodPost, "/api/v1/goals", map[string]string{"text": "Run a marathon", "category": "health"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	g := decode[model.Goal](t, rec)

	rec = h.do(http.MethodPost, "/api/v1/goals", map[string]string{"text": "run a MARATHON", "category": "health"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(http.MethodPost, "/api/v1/goals", map[string]string{"text": "Fly", "category": "space"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodPost, "/api/v1/goals/"+g.ID+"/tasks", map[string]string{"text": "Run 10k"})
	require.Equal(t, http.StatusCreated, rec.Code)
	t1 := decode[model.Task](t, rec)
	rec = h.do(http.MethodPost, "/api/v1/goals/"+g.ID+"/tasks", map[string]string{"text": "Run half"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = h.do(http.MethodPatch, "/api/v1/goals/"+g.ID+"/tasks/"+t1.ID, map[string]bool{"completed": true})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodGet, "/api/v1/goals/"+g.ID, nil)
	assert.Equal(t, 50, decode[model.Goal](t, rec).TaskProgress)

	rec = h.do(http.MethodPost, "/api/v1/goals/"+g.ID+"/milestones",
		map[string]any{"title": "Warm up", "taskIds": []string{t1.ID}})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = h.do(http.MethodGet, "/api/v1/goals/"+g.ID+"/milestones", nil)
	ms := decode[[]milestoneView](t, rec)
	require.Len(t, ms, 1)
	assert.True(t, ms[0].Status.Achieved)

	rec = h.do(http.MethodPost, "/api/v1/goals/"+g.ID+"/journey", map[string]any{"emotion": "excited", "motivation": 12})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = h.do(http.MethodPost, "/api/v1/goals/"+g.ID+"/journey", map[string]any{"emotion": "excited", "motivation": 8})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = h.do(http.MethodPost, "/api/v1/goals/"+g.ID+"/complete", map[string]string{"note": "Finished in 4h", "emotion": "proud"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[model.Goal](t, rec).Completed)

	rec = h.do(http.MethodGet, "/api/v1/stats", nil)
	stats := decode[store.Stats](t, rec)
	assert.Equal(t, 100, stats.Percentage)
	assert.Equal(t, 8.0, stats.MotivationIndex)

	rec = h.do(http.MethodGet, "/api/v1/goals?filter=active", nil)
	assert.Empty(t, decode[[]model.Goal](t, rec))
	rec = h.do(http.MethodGet, "/api/v1/goals?q=marathon&sort=completed", nil)
	assert.Len(t, decode[[]model.Goal](t, rec), 1)
	rec = h.do(http.MethodGet, "/api/v1/goals?sort=sideways", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodDelete, "/api/v1/goals/"+g.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = h.do(http.MethodGet, "/api/v1/goals/"+g.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecurringEndpoints(t *testing.T) {
	h := newHarness(t)
	h.activeProfile("Alex")

	rec := h.do(http.MethodPost, "/api/v1/goals", map[string]string{"text": "Journal", "category": "other", "recurring": "daily"})
	require.Equal(t, http.StatusCreated, rec.Code)
	g := decode[model.Goal](t, rec)
	base := "/api/v1/goals/" + g.ID + "/recurring"

	rec = h.do(http.MethodPost, base+"/complete", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = h.do(http.MethodPost, base+"/complete", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(http.MethodGet, base, nil)
	status := decode[recurringStatus](t, rec)
	assert.Equal(t, "active-recurring", status.State)
	assert.False(t, status.CanCompleteToday)
	assert.Equal(t, 1, status.TotalCompletions)

	rec = h.do(http.MethodPost, "/api/v1/goals/"+g.ID+"/complete", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(http.MethodPost, base+"/deactivate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[model.Goal](t, rec).Completed)

	rec = h.do(http.MethodPost, base+"/complete", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestExportImport(t *testing.T) {
	h := newHarness(t)
	h.activeProfile("Alex")
	h.do(http.MethodPost, "/api/v1/goals", map[string]string{"text": "Visit Kyoto", "category": "travel"})

	rec := h.do(http.MethodGet, "/api/v1/export?all=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "bucket-list-all-profiles-")
	exported := rec.Body.String()

	rec = h.do(http.MethodGet, "/api/v1/export/document", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "[TODO] Visit Kyoto (travel)")

	other := newHarness(t)
	other.activeProfile("Sam")

	rec = other.do(http.MethodPost, "/api/v1/import", exported)
	assert.Equal(t, http.StatusConflict, rec.Code, "replace-all needs confirmation")
	assert.Len(t, other.store.Profiles(), 1)

	rec = other.do(http.MethodPost, "/api/v1/import?confirm=true", exported)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decode[store.ImportResult](t, rec).Replaced)
	profiles := other.store.Profiles()
	require.Len(t, profiles, 1)
	assert.Equal(t, "Alex", profiles[0].Name)

	rec = other.do(http.MethodPost, "/api/v1/import?confirm=true", "{broken")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAttachImageAndCard(t *testing.T) {
	h := newHarness(t)
	h.activeProfile("Alex")
	rec := h.do(http.MethodPost, "/api/v1/goals", map[string]string{"text": "Paint a mural", "category": "hobby"})
	g := decode[model.Goal](t, rec)

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 32, 32))))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", "mural.png")
	require.NoError(t, err)
	_, err = fw.Write(img.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/goals/"+g.ID+"/image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec = httptest.NewRecorder()
	h.srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, strings.HasPrefix(decode[model.Goal](t, rec).CompletionImage, "data:image/jpeg;base64,"))

	rec = h.do(http.MethodGet, "/api/v1/goals/"+g.ID+"/card", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
}

func TestImageSettings(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPut, "/api/v1/settings/images", map[string]any{"quality": 3, "maxWidth": 800, "format": "png"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodPut, "/api/v1/settings/images", map[string]any{"quality": 0.5, "maxWidth": 800, "format": "png"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodGet, "/api/v1/settings/images", nil)
	assert.Equal(t, "png", decode[model.ImageSettings](t, rec).Format)
}

func TestErrorStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, errorStatus(model.ErrValidation))
	assert.Equal(t, http.StatusNotFound, errorStatus(store.ErrTaskNotFound))
	assert.Equal(t, http.StatusConflict, errorStatus(store.ErrAlreadyCompletedToday))
	assert.Equal(t, http.StatusInternalServerError, errorStatus(io.ErrUnexpectedEOF))
}
