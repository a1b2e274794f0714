package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/platform/ctxutil"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/services"
	"github.com/yungbote/classroom-backend/internal/session"
	"github.com/yungbote/classroom-backend/internal/store"
	"github.com/yungbote/classroom-backend/internal/tracking"
)

func init() { gin.SetMode(gin.TestMode) }

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

// asUser stands in for RequireAuth.
func asUser(id uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := &ctxutil.RequestData{UserID: id, Email: "u@example.com", Name: "U"}
		c.Request = c.Request.WithContext(ctxutil.WithRequestData(c.Request.Context(), rd))
		c.Next()
	}
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return env.Error.Code
}

type fakeClasses struct {
	services.ClassService
	calls []string
}

func (f *fakeClasses) List(ctx context.Context, status types.ClassStatus) ([]types.ClassView, error) {
	f.calls = append(f.calls, "list:"+string(status))
	return nil, nil
}

func (f *fakeClasses) ByStatus(ctx context.Context, status types.ClassStatus) ([]types.ClassView, error) {
	f.calls = append(f.calls, "status:"+string(status))
	return nil, nil
}

func (f *fakeClasses) ForProfessor(ctx context.Context, id uuid.UUID) ([]types.ClassView, error) {
	f.calls = append(f.calls, "professor")
	return []types.ClassView{{}}, nil
}

func (f *fakeClasses) ForStudent(ctx context.Context, id uuid.UUID) ([]types.ClassView, error) {
	f.calls = append(f.calls, "student")
	return nil, nil
}

func (f *fakeClasses) Get(ctx context.Context, id uuid.UUID) (*types.ClassView, error) {
	return nil, services.ErrNotFound
}

func TestClassListRoutesByQuery(t *testing.T) {
	fc := &fakeClasses{}
	h := NewClassHandler(newTestLogger(t), fc, nil, nil)
	r := gin.New()
	r.GET("/classes", h.List)
	r.GET("/classes/:id", h.Get)

	w := do(t, r, http.MethodGet, "/classes?status=active", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"classes":[]`) {
		t.Fatalf("empty list should encode as []: %s", w.Body.String())
	}
	do(t, r, http.MethodGet, "/classes", "")
	do(t, r, http.MethodGet, "/classes?professor_id="+uuid.NewString(), "")
	do(t, r, http.MethodGet, "/classes?student_id="+uuid.NewString(), "")
	want := []string{"status:active", "list:", "professor", "student"}
	if strings.Join(fc.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls: want=%v got=%v", want, fc.calls)
	}

	if w := do(t, r, http.MethodGet, "/classes?professor_id=nope", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id: want=400 got=%d", w.Code)
	}
	w = do(t, r, http.MethodGet, "/classes/"+uuid.NewString(), "")
	if w.Code != http.StatusNotFound || errorCode(t, w) != "not_found" {
		t.Fatalf("missing class: want=404 not_found got=%d %s", w.Code, w.Body.String())
	}
}

type fakeContents struct {
	services.ContentService
	moduleIDs []uuid.UUID
}

func (f *fakeContents) CountByType(ctx context.Context, moduleIDs []uuid.UUID) (map[types.ContentType]int, error) {
	f.moduleIDs = moduleIDs
	return map[types.ContentType]int{types.ContentVideo: 2}, nil
}

func TestModuleContentCounts(t *testing.T) {
	fc := &fakeContents{}
	h := NewModuleHandler(newTestLogger(t), nil, fc)
	r := gin.New()
	r.GET("/modules/:id/contents/counts", h.ContentCounts)

	id := uuid.New()
	w := do(t, r, http.MethodGet, "/modules/"+id.String()+"/contents/counts", "")
	if w.Code != http.StatusOK {
		t.Fatalf("counts: want=200 got=%d %s", w.Code, w.Body.String())
	}
	var body struct {
		Counts map[string]int `json:"counts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Counts[string(types.ContentVideo)] != 2 {
		t.Fatalf("counts: want video=2 got=%v", body.Counts)
	}
	if len(fc.moduleIDs) != 1 || fc.moduleIDs[0] != id {
		t.Fatalf("module ids: want=[%s] got=%v", id, fc.moduleIDs)
	}
	if w := do(t, r, http.MethodGet, "/modules/nope/contents/counts", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id: want=400 got=%d", w.Code)
	}
}

type fakeMeetings struct {
	services.MeetingService
}

func (fakeMeetings) TransitionStatus(ctx context.Context, id uuid.UUID, to types.MeetingStatus) (*types.Meeting, error) {
	if to == types.MeetingLive {
		return nil, services.ErrConflict
	}
	return nil, services.ErrInvalidArgument
}

func TestMeetingTransitionErrors(t *testing.T) {
	h := NewMeetingHandler(newTestLogger(t), fakeMeetings{})
	r := gin.New()
	r.POST("/meetings/:id/status", h.Transition)
	path := "/meetings/" + uuid.NewString() + "/status"

	if w := do(t, r, http.MethodPost, path, `{"status":"live"}`); w.Code != http.StatusConflict {
		t.Fatalf("raced transition: want=409 got=%d", w.Code)
	}
	if w := do(t, r, http.MethodPost, path, `{"status":"completed"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("illegal transition: want=400 got=%d", w.Code)
	}
	if w := do(t, r, http.MethodPost, path, `{`); w.Code != http.StatusBadRequest {
		t.Fatalf("bad json: want=400 got=%d", w.Code)
	}
}

type fakeUsers struct {
	services.UserService
	roles []types.Role
}

func (f fakeUsers) Me(ctx context.Context) (*services.UserView, error) {
	return &services.UserView{Roles: f.roles}, nil
}

type fakeQuizzes struct {
	services.QuizService
}

func (fakeQuizzes) QuestionsWithAnswers(ctx context.Context, quizID uuid.UUID, caller []types.Role) ([]types.QuizQuestion, error) {
	if !types.HasRole(caller, types.RoleAdmin, types.RoleProfessor) {
		return nil, services.ErrForbidden
	}
	return nil, nil
}

func TestQuizAnswersUsesCallerRoles(t *testing.T) {
	path := "/quizzes/" + uuid.NewString() + "/answers"

	student := NewQuizHandler(newTestLogger(t), fakeQuizzes{}, fakeUsers{roles: []types.Role{types.RoleStudent}})
	r := gin.New()
	r.GET("/quizzes/:id/answers", student.Answers)
	if w := do(t, r, http.MethodGet, path, ""); w.Code != http.StatusForbidden {
		t.Fatalf("student: want=403 got=%d", w.Code)
	}

	prof := NewQuizHandler(newTestLogger(t), fakeQuizzes{}, fakeUsers{roles: []types.Role{types.RoleProfessor}})
	r = gin.New()
	r.GET("/quizzes/:id/answers", prof.Answers)
	w := do(t, r, http.MethodGet, path, "")
	if w.Code != http.StatusOK {
		t.Fatalf("professor: want=200 got=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"questions":[]`) {
		t.Fatalf("body: %s", w.Body.String())
	}
}

type fakeProgress struct {
	services.ProgressService
	mu   sync.Mutex
	recs []tracking.Record
}

func (f *fakeProgress) Persist(ctx context.Context, rec tracking.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs = append(f.recs, rec)
	return nil
}

func (f *fakeProgress) ForUser(ctx context.Context, userID uuid.UUID, contentIDs []uuid.UUID) ([]*types.UserProgress, error) {
	return []*types.UserProgress{{UserID: userID, ContentID: contentIDs[0], Percentage: 100}}, nil
}

func TestPlaybackEndedPersistsCompletion(t *testing.T) {
	log := newTestLogger(t)
	fp := &fakeProgress{}
	reg := tracking.NewRegistry(tracking.RegistryOptions{Persister: fp, Logger: log})
	t.Cleanup(reg.Close)

	userID, contentID := uuid.New(), uuid.New()
	h := NewPlaybackHandler(log, reg, fp)
	r := gin.New()
	r.Use(asUser(userID))
	r.POST("/contents/:id/playback/start", h.Start)
	r.POST("/contents/:id/playback/ended", h.Ended)
	r.GET("/progress", h.Progress)

	base := "/contents/" + contentID.String() + "/playback/"
	if w := do(t, r, http.MethodPost, base+"start", `{"position_seconds":0,"duration_seconds":120}`); w.Code != http.StatusOK {
		t.Fatalf("start: want=200 got=%d %s", w.Code, w.Body.String())
	}
	w := do(t, r, http.MethodPost, base+"ended", `{"duration_seconds":120}`)
	if w.Code != http.StatusOK {
		t.Fatalf("ended: want=200 got=%d %s", w.Code, w.Body.String())
	}
	var body struct {
		Playback tracking.SessionState `json:"playback"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Playback.Percentage != 100 {
		t.Fatalf("percentage: want=100 got=%d", body.Playback.Percentage)
	}
	if reg.Active() != 0 {
		t.Fatalf("active: want=0 got=%d", reg.Active())
	}

	fp.mu.Lock()
	recs := append([]tracking.Record(nil), fp.recs...)
	fp.mu.Unlock()
	if len(recs) != 1 || !recs[0].Completed || recs[0].UserID != userID || recs[0].ContentID != contentID {
		t.Fatalf("records: unexpected %+v", recs)
	}

	if w := do(t, r, http.MethodGet, "/progress?content_ids="+contentID.String(), ""); w.Code != http.StatusOK {
		t.Fatalf("progress: want=200 got=%d", w.Code)
	}
	if w := do(t, r, http.MethodGet, "/progress?content_ids=x", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad progress ids: want=400 got=%d", w.Code)
	}
}

func TestDemoDispatch(t *testing.T) {
	log := newTestLogger(t)
	st, err := store.New(log, store.DefaultAuthority(true), store.State{})
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	h := NewDemoHandler(log, st, nil)
	r := gin.New()
	r.POST("/demo/commands", h.Dispatch)
	r.GET("/demo/classes/legacy", h.LegacyClasses)

	trailID := uuid.New()
	w := do(t, r, http.MethodPost, "/demo/commands", `{"name":"CreateTrail","payload":{"id":"`+trailID.String()+`","name":"Go"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("create trail: want=200 got=%d %s", w.Code, w.Body.String())
	}
	if got := len(st.Snapshot().Trails); got != 1 {
		t.Fatalf("trails: want=1 got=%d", got)
	}

	w = do(t, r, http.MethodPost, "/demo/commands", `{"name":"Bogus","payload":{}}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown command: want=400 got=%d", w.Code)
	}
	w = do(t, r, http.MethodPost, "/demo/commands", `{"name":"CreateTrail","payload":{"id":"`+uuid.NewString()+`","name":"  "}}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("blank name: want=400 got=%d", w.Code)
	}
	if got := len(st.Journal()); got != 1 {
		t.Fatalf("journal: want=1 got=%d", got)
	}

	if w := do(t, r, http.MethodGet, "/demo/classes/legacy", ""); w.Code != http.StatusOK {
		t.Fatalf("legacy: want=200 got=%d", w.Code)
	}
}

func TestDemoDispatchRejectsRemoteOwnedEntity(t *testing.T) {
	log := newTestLogger(t)
	st, err := store.New(log, store.DefaultAuthority(false), store.State{})
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	h := NewDemoHandler(log, st, nil)
	r := gin.New()
	r.POST("/demo/commands", h.Dispatch)

	w := do(t, r, http.MethodPost, "/demo/commands", `{"name":"CreateTrail","payload":{"id":"`+uuid.NewString()+`","name":"Go"}}`)
	if w.Code != http.StatusConflict || errorCode(t, w) != "not_authoritative" {
		t.Fatalf("remote trail: want=409 not_authoritative got=%d %s", w.Code, w.Body.String())
	}
}

type recordingBus struct {
	mu     sync.Mutex
	events []session.Event
}

func (b *recordingBus) Publish(ctx context.Context, ev session.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, ev)
	return nil
}

func (b *recordingBus) StartForwarder(ctx context.Context, onEvent func(ev session.Event)) error {
	return nil
}

func (b *recordingBus) Close() error { return nil }

func TestSessionPublishesEvents(t *testing.T) {
	bus := &recordingBus{}
	userID := uuid.New()
	h := NewSessionHandler(bus, nil, nil)
	r := gin.New()
	r.Use(asUser(userID))
	r.POST("/session", h.Establish)
	r.DELETE("/session", h.Clear)
	r.GET("/session/current", h.Current)

	if w := do(t, r, http.MethodPost, "/session", ""); w.Code != http.StatusAccepted {
		t.Fatalf("establish: want=202 got=%d", w.Code)
	}
	if w := do(t, r, http.MethodDelete, "/session", ""); w.Code != http.StatusAccepted {
		t.Fatalf("clear: want=202 got=%d", w.Code)
	}
	if len(bus.events) != 2 {
		t.Fatalf("events: want=2 got=%d", len(bus.events))
	}
	if bus.events[0].Kind != session.EventEstablished || bus.events[0].UserID != userID {
		t.Fatalf("first event: unexpected %+v", bus.events[0])
	}
	if bus.events[1].Kind != session.EventCleared {
		t.Fatalf("second event: unexpected %+v", bus.events[1])
	}
	if w := do(t, r, http.MethodGet, "/session/current", ""); w.Code != http.StatusOK {
		t.Fatalf("current: want=200 got=%d", w.Code)
	}
}

func TestSessionSlotIsPrivateToItsUser(t *testing.T) {
	log := newTestLogger(t)
	st, err := store.New(log, store.DefaultAuthority(false), store.State{})
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	ana := types.CurrentUser{ID: uuid.New(), Name: "Ana", Email: "ana@example.com", Role: types.RoleStudent}
	if err := st.ReplaceCurrentUser(context.Background(), ana); err != nil {
		t.Fatalf("ReplaceCurrentUser: %v", err)
	}
	bus := &recordingBus{}
	h := NewSessionHandler(bus, nil, st)

	route := func(caller uuid.UUID) *gin.Engine {
		r := gin.New()
		r.Use(asUser(caller))
		r.DELETE("/session", h.Clear)
		r.GET("/session/current", h.Current)
		return r
	}
	var body struct {
		CurrentUser *types.CurrentUser `json:"current_user"`
		Owner       string             `json:"owner"`
	}

	other := route(uuid.New())
	w := do(t, other, http.MethodGet, "/session/current", "")
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Code != http.StatusOK || body.CurrentUser != nil {
		t.Fatalf("other caller: want=200 without record got=%d %s", w.Code, w.Body.String())
	}
	if w := do(t, other, http.MethodDelete, "/session", ""); w.Code != http.StatusForbidden {
		t.Fatalf("other clear: want=403 got=%d", w.Code)
	}
	if len(bus.events) != 0 {
		t.Fatalf("events: want=0 got=%d", len(bus.events))
	}

	own := route(ana.ID)
	w = do(t, own, http.MethodGet, "/session/current", "")
	body.CurrentUser = nil
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.CurrentUser == nil || body.CurrentUser.Email != ana.Email {
		t.Fatalf("own caller: want record got %s", w.Body.String())
	}
	if w := do(t, own, http.MethodDelete, "/session", ""); w.Code != http.StatusAccepted {
		t.Fatalf("own clear: want=202 got=%d", w.Code)
	}
	if len(bus.events) != 1 || bus.events[0].Kind != session.EventCleared {
		t.Fatalf("events: unexpected %+v", bus.events)
	}
}

func TestHealthCheckWithoutDB(t *testing.T) {
	r := gin.New()
	r.GET("/healthcheck", NewHealthHandler(nil).HealthCheck)
	w := do(t, r, http.MethodGet, "/healthcheck", "")
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("health: want=200 ok got=%d %q", w.Code, w.Body.String())
	}
}
