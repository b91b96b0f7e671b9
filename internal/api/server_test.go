package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/taskmate/internal/repository"
	"github.com/alexanderramin/taskmate/internal/service"
	"github.com/alexanderramin/taskmate/internal/testutil"
)

const testSecret = "s3cret"

var apiT0 = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

type apiEnv struct {
	handler http.Handler
	clock   *testutil.ManualClock
}

func newAPIEnv(t *testing.T, mutate ...func(*Options)) *apiEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	clock := testutil.NewManualClock(apiT0)

	reg := prometheus.NewRegistry()
	metrics := service.NewMetricsObserver(reg)

	svc := Services{
		Tasks:    service.NewTaskService(repository.NewSQLiteTaskRepo(database), uow, clock.Now, metrics),
		Notes:    service.NewNoteService(repository.NewSQLiteNoteRepo(database), uow, clock.Now, metrics),
		Progress: service.NewProgressService(repository.NewSQLiteProgressRepo(database)),
		Timer:    service.NewTimerService(repository.NewSQLiteTimerRepo(database), uow, clock.Now, metrics),
		Users:    service.NewUserService(repository.NewSQLiteUserRepo(database), clock.Now, nil, metrics),
	}
	opts := Options{
		WebhookSecret: testSecret,
		StudySeconds:  1500,
		BreakSeconds:  300,
		Metrics:       reg,
	}
	for _, m := range mutate {
		m(&opts)
	}
	return &apiEnv{handler: NewServer(svc, opts).Handler(), clock: clock}
}

// do sends a request as user (no identity header when user is empty).
func (e *apiEnv) do(t *testing.T, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if user != "" {
		req.Header.Set("X-Taskmate-User", user)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (e *apiEnv) addTask(t *testing.T, user, name string) taskJSON {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/tasks", user, map[string]any{
		"name":     name,
		"category": map[string]string{"name": "Work"},
		"priority": "high",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[taskJSON](t, w)
}

func TestHealth(t *testing.T) {
	env := newAPIEnv(t)

	w := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])
}

func TestMissingIdentityIsUnauthenticated(t *testing.T) {
	env := newAPIEnv(t)

	for _, path := range []string{"/api/tasks", "/api/notes", "/api/progress", "/api/timer", "/api/users/me"} {
		w := env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Equal(t, "unauthenticated", decode[errorBody](t, w).Code, path)
	}
}

func TestTasks_CompletionAwardsPoints(t *testing.T) {
	env := newAPIEnv(t)
	task := env.addTask(t, "alice", "Read a book")
	assert.False(t, task.IsCompleted)
	assert.Equal(t, "preset", task.Category.Kind)

	w := env.do(t, http.MethodPatch, "/api/tasks/"+task.ID, "alice", map[string]any{"isCompleted": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode[taskJSON](t, w).IsCompleted)

	w = env.do(t, http.MethodGet, "/api/progress", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, progressJSON{Points: 10, Level: 1, Progress: 10, RequiredPoints: 20}, decode[progressJSON](t, w))

	w = env.do(t, http.MethodGet, "/api/progress/logs", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	logs := decode[[]logJSON](t, w)
	require.Len(t, logs, 1)
	assert.Equal(t, "Completed task: Read a book", logs[0].Description)
	assert.Equal(t, 10, logs[0].Points)
}

func TestTasks_ListFilters(t *testing.T) {
	env := newAPIEnv(t)
	first := env.addTask(t, "alice", "First task")
	env.clock.Advance(time.Minute)
	second := env.addTask(t, "alice", "Second task")
	env.addTask(t, "bob", "Not yours")

	w := env.do(t, http.MethodPatch, "/api/tasks/"+first.ID, "alice", map[string]any{"isCompleted": true})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/tasks", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[[]taskJSON](t, w)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first by default")

	w = env.do(t, http.MethodGet, "/api/tasks?sort=oldest", "alice", nil)
	assert.Equal(t, first.ID, decode[[]taskJSON](t, w)[0].ID)

	w = env.do(t, http.MethodGet, "/api/tasks?completed=true", "alice", nil)
	done := decode[[]taskJSON](t, w)
	require.Len(t, done, 1)
	assert.Equal(t, first.ID, done[0].ID)

	w = env.do(t, http.MethodGet, "/api/tasks?sort=sideways", "alice", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "sort", decode[errorBody](t, w).Field)

	w = env.do(t, http.MethodGet, "/api/tasks?due=tomorrow", "alice", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTasks_DueDateSetAndClear(t *testing.T) {
	env := newAPIEnv(t)
	task := env.addTask(t, "alice", "Pay rent")

	w := env.do(t, http.MethodPatch, "/api/tasks/"+task.ID, "alice", map[string]any{"dueDate": "2025-07-01"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[taskJSON](t, w)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2025-07-01", *got.DueDate)

	w = env.do(t, http.MethodGet, "/api/tasks?due=2025-07-01", "alice", nil)
	assert.Len(t, decode[[]taskJSON](t, w), 1)

	w = env.do(t, http.MethodPatch, "/api/tasks/"+task.ID, "alice", `{"name":"Pay the rent"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, decode[taskJSON](t, w).DueDate, "absent dueDate is left alone")

	w = env.do(t, http.MethodPatch, "/api/tasks/"+task.ID, "alice", `{"dueDate":null}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[taskJSON](t, w).DueDate)
}

func TestTasks_ErrorMapping(t *testing.T) {
	env := newAPIEnv(t)
	task := env.addTask(t, "alice", "Private task")

	tests := []struct {
		name   string
		method string
		path   string
		user   string
		body   any
		status int
		code   string
	}{
		{"short name", http.MethodPost, "/api/tasks", "alice",
			map[string]any{"name": "ab", "category": map[string]string{"name": "Work"}}, http.StatusBadRequest, "invalid"},
		{"unknown field", http.MethodPost, "/api/tasks", "alice", `{"title":"nope"}`, http.StatusBadRequest, "invalid"},
		{"bad color", http.MethodPost, "/api/tasks", "alice",
			map[string]any{"name": "Garden", "category": map[string]string{"name": "Garden", "color": "green"}}, http.StatusBadRequest, "invalid"},
		{"other owner read", http.MethodGet, "/api/tasks/" + task.ID, "mallory", nil, http.StatusForbidden, "unauthorized"},
		{"other owner delete", http.MethodDelete, "/api/tasks/" + task.ID, "mallory", nil, http.StatusForbidden, "unauthorized"},
		{"missing task", http.MethodGet, "/api/tasks/nope", "alice", nil, http.StatusNotFound, "not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, tt.method, tt.path, tt.user, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decode[errorBody](t, w).Code)
		})
	}

	w := env.do(t, http.MethodGet, "/api/tasks/"+task.ID, "alice", nil)
	assert.Equal(t, http.StatusOK, w.Code, "forbidden delete must not remove the task")
}

func TestTasks_RemoveAndClear(t *testing.T) {
	env := newAPIEnv(t)
	a := env.addTask(t, "alice", "Task one")
	env.addTask(t, "alice", "Task two")
	env.addTask(t, "alice", "Task three")

	w := env.do(t, http.MethodDelete, "/api/tasks/"+a.ID, "alice", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodDelete, "/api/tasks", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[map[string]int](t, w)["deleted"])

	w = env.do(t, http.MethodGet, "/api/tasks", "alice", nil)
	assert.Empty(t, decode[[]taskJSON](t, w))
}

func TestNotes_AddReorderList(t *testing.T) {
	env := newAPIEnv(t)

	add := func(name string, order int) noteJSON {
		w := env.do(t, http.MethodPost, "/api/notes", "alice", map[string]any{
			"name":     name,
			"color":    "#fff59d",
			"columnId": "todo",
			"position": map[string]any{"x": 0, "y": 0, "order": order},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		return decode[noteJSON](t, w)
	}
	a := add("Groceries", 0)
	b := add("Call mom", 1)

	w := env.do(t, http.MethodPut, "/api/notes/order", "alice", []map[string]any{
		{"id": a.ID, "columnId": "done", "position": map[string]any{"order": 0}},
		{"id": b.ID, "position": map[string]any{"order": 5}},
	})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/notes", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	notes := decode[[]noteJSON](t, w)
	require.Len(t, notes, 2)
	assert.Equal(t, a.ID, notes[0].ID, "done sorts before todo")
	assert.Equal(t, "done", notes[0].ColumnID)
	assert.Equal(t, "todo", notes[1].ColumnID)
	assert.Equal(t, 5, notes[1].Position.Order)

	w = env.do(t, http.MethodPut, "/api/notes/order", "mallory", []map[string]any{{"id": a.ID}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPatch, "/api/notes/"+b.ID, "alice", map[string]any{"isPinned": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[noteJSON](t, w).IsPinned)

	w = env.do(t, http.MethodDelete, "/api/notes/"+b.ID, "alice", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodDelete, "/api/notes", "alice", nil)
	assert.Equal(t, 1, decode[map[string]int](t, w)["deleted"])
}

func TestTimer_Lifecycle(t *testing.T) {
	env := newAPIEnv(t)

	w := env.do(t, http.MethodGet, "/api/timer", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	idle := decode[timerJSON](t, w)
	assert.Nil(t, idle.Session)
	assert.False(t, idle.State.Running)

	w = env.do(t, http.MethodPost, "/api/timer/start", "alice", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	started := decode[timerJSON](t, w)
	require.NotNil(t, started.Session)
	assert.Equal(t, 1500, started.Session.StudySeconds, "server default study length")
	assert.Equal(t, 1500, started.State.RemainingSeconds)
	assert.True(t, started.State.Running)

	w = env.do(t, http.MethodPost, "/api/timer/start", "alice", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	env.clock.Advance(100 * time.Second)
	w = env.do(t, http.MethodPost, "/api/timer/pause", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	paused := decode[timerJSON](t, w)
	assert.True(t, paused.State.Paused)
	assert.Equal(t, 1400, paused.State.RemainingSeconds)

	env.clock.Advance(time.Hour)
	w = env.do(t, http.MethodPost, "/api/timer/resume", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1400, decode[timerJSON](t, w).State.RemainingSeconds)

	w = env.do(t, http.MethodPost, "/api/timer/stop", "alice", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodPost, "/api/timer/stop", "alice", nil)
	assert.Equal(t, http.StatusNoContent, w.Code, "stop is idempotent")

	w = env.do(t, http.MethodPost, "/api/timer/pause", "alice", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTimer_CompleteAwardsOnce(t *testing.T) {
	env := newAPIEnv(t)

	w := env.do(t, http.MethodPost, "/api/timer/start", "alice", map[string]any{"name": "Deep work", "studyTime": 60, "breakTime": 30})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/timer/complete", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[map[string]bool](t, w)["awarded"], "cycle still running")

	env.clock.Advance(90 * time.Second)
	w = env.do(t, http.MethodPost, "/api/timer/complete", "alice", nil)
	assert.True(t, decode[map[string]bool](t, w)["awarded"])
	w = env.do(t, http.MethodPost, "/api/timer/complete", "alice", nil)
	assert.False(t, decode[map[string]bool](t, w)["awarded"])

	w = env.do(t, http.MethodGet, "/api/progress", "alice", nil)
	assert.Equal(t, 10, decode[progressJSON](t, w).Points)

	w = env.do(t, http.MethodPost, "/api/timer/start", "alice", map[string]any{"studyTime": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeaderboard(t *testing.T) {
	env := newAPIEnv(t)
	for _, user := range []string{"alice", "bob"} {
		task := env.addTask(t, user, "Task for "+user)
		w := env.do(t, http.MethodPatch, "/api/tasks/"+task.ID, user, map[string]any{"isCompleted": true})
		require.Equal(t, http.StatusOK, w.Code)
	}
	bonus := env.addTask(t, "bob", "Bonus task")
	env.do(t, http.MethodPatch, "/api/tasks/"+bonus.ID, "bob", map[string]any{"isCompleted": true})

	w := env.do(t, http.MethodGet, "/api/leaderboard", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	lb := decode[leaderboardJSON](t, w)
	assert.Equal(t, 2, lb.TotalUsers)
	require.Len(t, lb.Entries, 2)
	assert.Equal(t, "bob", lb.Entries[0].UserID)
	assert.Equal(t, 1, lb.Entries[0].Rank)
	assert.Equal(t, 20, lb.Entries[0].Points)
	assert.Equal(t, 2, lb.Entries[0].Level)
	assert.Equal(t, "Anonymous", lb.Entries[1].FirstName)
	assert.Equal(t, "/avatar.png", lb.Entries[1].ImageURL)

	w = env.do(t, http.MethodGet, "/api/leaderboard?limit=1", "alice", nil)
	assert.Len(t, decode[leaderboardJSON](t, w).Entries, 1)
	w = env.do(t, http.MethodGet, "/api/leaderboard?limit=zero", "alice", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func webhookRequest(t *testing.T, secret, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/identity", strings.NewReader(body))
	if secret != "" {
		req.Header.Set("X-Taskmate-Webhook-Secret", secret)
	}
	return req
}

func TestIdentityWebhook(t *testing.T) {
	env := newAPIEnv(t)
	send := func(secret, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		env.handler.ServeHTTP(w, webhookRequest(t, secret, body))
		return w
	}

	created := `{"type":"user.created","data":{"id":"alice","email_addresses":[{"email_address":"alice@example.com"}],"first_name":"Alice","last_name":null,"image_url":"https://img/a.png","extra":1}}`

	assert.Equal(t, http.StatusUnauthorized, send("", created).Code)
	assert.Equal(t, http.StatusUnauthorized, send("wrong", created).Code)

	w := send(testSecret, created)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/users/me", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[userJSON](t, w)
	assert.Equal(t, "alice@example.com", me.Email)
	assert.Equal(t, "Alice User", me.DisplayName)

	w = send(testSecret, `{"type":"session.created","data":{}}`)
	assert.Equal(t, "ignored", decode[map[string]any](t, w)["status"])

	w = send(testSecret, `{"type":"user.deleted","data":{"id":"alice"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = send(testSecret, `{"type":"user.deleted","data":{"id":"alice"}}`)
	assert.Equal(t, http.StatusOK, w.Code, "deleting an unknown user only warns")

	w = env.do(t, http.MethodGet, "/api/users/me", "alice", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIdentityWebhook_DisabledWithoutSecret(t *testing.T) {
	env := newAPIEnv(t, func(o *Options) { o.WebhookSecret = "" })

	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, webhookRequest(t, "anything", `{"type":"user.created","data":{"id":"x"}}`))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newAPIEnv(t)
	env.addTask(t, "alice", "Measured task")

	w := env.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `taskmate_use_cases_total{outcome="ok",use_case="add-task"} 1`)

	env = newAPIEnv(t, func(o *Options) { o.Metrics = nil })
	w = env.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTimer_StartWithoutBodyUsesDefaults(t *testing.T) {
	for name, build := range map[string]func() *http.Request{
		"no body": func() *http.Request {
			return httptest.NewRequest(http.MethodPost, "/api/timer/start", nil)
		},
		"chunked empty body": func() *http.Request {
			req := httptest.NewRequest(http.MethodPost, "/api/timer/start", strings.NewReader(""))
			req.ContentLength = -1
			req.TransferEncoding = []string{"chunked"}
			return req
		},
	} {
		t.Run(name, func(t *testing.T) {
			env := newAPIEnv(t)
			req := build()
			req.Header.Set("X-Taskmate-User", "u1")
			w := httptest.NewRecorder()
			env.handler.ServeHTTP(w, req)

			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			got := decode[timerJSON](t, w)
			require.NotNil(t, got.Session)
			assert.Equal(t, 1500, got.Session.StudySeconds)
			assert.Equal(t, 300, got.Session.BreakSeconds)
		})
	}
}

func TestTimer_StartRejectsMalformedBody(t *testing.T) {
	env := newAPIEnv(t)

	w := env.do(t, http.MethodPost, "/api/timer/start", "u1", `{"studyTime":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
