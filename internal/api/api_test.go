package api

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/guard"
	"alcyxob/fitness-admin/internal/lock"
	"alcyxob/fitness-admin/internal/media"
	"alcyxob/fitness-admin/internal/repository"
	"alcyxob/fitness-admin/internal/repository/memory"
	"alcyxob/fitness-admin/internal/service"
	"alcyxob/fitness-admin/internal/session"
	"alcyxob/fitness-admin/internal/storage"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	router   *gin.Engine
	store    *repository.Store
	locks    *lock.Table
	sessions *session.Manager
	svc      Services
}

func newTestApp(t *testing.T, override func(*Services)) *testApp {
	t.Helper()
	store := memory.NewStore()
	locks := lock.NewTable()
	files := storage.NewMemoryStorage("/media")
	uploader := media.NewUploader(files, "")
	sessions := session.NewManager("api-test-secret", time.Hour, nil)

	svc := Services{
		Guard:      guard.New(sessions, store.Profiles),
		Auth:       service.NewAuthService(store.Accounts, store.Profiles, sessions, []string{"boss@example.com"}),
		Dashboard:  service.NewDashboardService(store),
		Categories: service.NewCategoryService(store.Categories, locks),
		Exercises:  service.NewExerciseService(store.Exercises, uploader, locks),
		Workouts:   service.NewWorkoutService(store.Workouts, store.WorkoutExercises, store.Exercises, locks),
		Videos:     service.NewVideoService(store.Videos, uploader, locks),
		Profiles:   service.NewProfileService(store.Profiles, locks),
		MediaFiles: files,
	}
	if override != nil {
		override(&svc)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testApp{
		router:   NewRouter(svc, logger),
		store:    store,
		locks:    locks,
		sessions: sessions,
		svc:      svc,
	}
}

// signIn creates a profile and returns a session cookie for it.
func (a *testApp) signIn(t *testing.T, role domain.Role, banned bool) (*http.Cookie, primitive.ObjectID) {
	t.Helper()
	id := primitive.NewObjectID()
	require.NoError(t, a.store.Profiles.Create(context.Background(), &domain.Profile{ID: id, Role: role, IsBanned: banned}))
	token, _, err := a.sessions.Issue(id)
	require.NoError(t, err)
	return &http.Cookie{Name: session.CookieName, Value: token}, id
}

func (a *testApp) do(t *testing.T, method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func TestGuardProtectsConsole(t *testing.T) {
	app := newTestApp(t, nil)

	rec := app.do(t, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	userCookie, _ := app.signIn(t, domain.RoleUser, false)
	rec = app.do(t, http.MethodGet, "/exercises", nil, userCookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	bannedCookie, _ := app.signIn(t, domain.RoleAdmin, true)
	rec = app.do(t, http.MethodGet, "/", nil, bannedCookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	adminCookie, _ := app.signIn(t, domain.RoleAdmin, false)
	rec = app.do(t, http.MethodGet, "/", nil, adminCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Admin Dashboard")
	assert.Contains(t, rec.Body.String(), `href="/" class="active"`)

	rec = app.do(t, http.MethodGet, "/api/v1/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"authentication required"}`, rec.Body.String())
}

func TestGuardSeesDemotionOnNextRequest(t *testing.T) {
	app := newTestApp(t, nil)
	cookie, id := app.signIn(t, domain.RoleAdmin, false)

	require.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/categories", nil, cookie).Code)

	require.NoError(t, app.store.Profiles.SetRole(context.Background(), id, domain.RoleUser))
	rec := app.do(t, http.MethodGet, "/categories", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestLoginPageHasNoNav(t *testing.T) {
	app := newTestApp(t, nil)
	rec := app.do(t, http.MethodGet, "/login", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<nav>")
}

func TestCategoryCRUD(t *testing.T) {
	app := newTestApp(t, nil)
	cookie, _ := app.signIn(t, domain.RoleAdmin, false)
	ctx := context.Background()

	rec := app.do(t, http.MethodPost, "/categories/new", url.Values{"name": {"  "}, "description": {"kept on error"}}, cookie)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "kept on error")

	rec = app.do(t, http.MethodPost, "/categories/new", url.Values{"name": {"Strength"}, "description": {"Heavy **lifting**"}}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/categories", rec.Header().Get("Location"))

	rec = app.do(t, http.MethodGet, "/categories", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Strength")
	assert.Contains(t, rec.Body.String(), "<strong>lifting</strong>")

	categories, err := app.store.Categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	id := categories[0].ID.Hex()

	rec = app.do(t, http.MethodGet, "/categories/"+id, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Strength"`)
	assert.Contains(t, rec.Body.String(), `name="from" value="edit"`)

	rec = app.do(t, http.MethodPost, "/categories/"+id, url.Values{"name": {"Power"}}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	stored, err := app.store.Categories.GetByID(ctx, categories[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Power", stored.Name)
	assert.Nil(t, stored.Description)

	rec = app.do(t, http.MethodPost, "/categories/"+id+"/delete", url.Values{}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/categories", rec.Header().Get("Location"))

	// Deleting something already gone still lands on the list.
	rec = app.do(t, http.MethodPost, "/categories/"+id+"/delete", url.Values{}, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/categories/"+id, nil, cookie).Code)
	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/categories/not-an-id", nil, cookie).Code)
}

func TestMutationOnBusyRecordIsRejected(t *testing.T) {
	app := newTestApp(t, nil)
	cookie, _ := app.signIn(t, domain.RoleAdmin, false)

	category, err := app.svc.Categories.CreateCategory(context.Background(), service.CategoryInput{Name: "Mobility"})
	require.NoError(t, err)

	release, err := app.locks.TryAcquire(lock.Key{Resource: "category", ID: category.ID.Hex()}, service.OpDelete)
	require.NoError(t, err)

	rec := app.do(t, http.MethodPost, "/categories/"+category.ID.Hex(), url.Values{"name": {"Renamed"}}, cookie)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Renamed"`)

	rec = app.do(t, http.MethodPost, "/categories/"+category.ID.Hex()+"/delete", url.Values{"from": {"edit"}}, cookie)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Edit category")

	release()
	rec = app.do(t, http.MethodPost, "/categories/"+category.ID.Hex(), url.Values{"name": {"Renamed"}}, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

type failingCategories struct {
	service.CategoryService
}

func (failingCategories) ListCategories(context.Context) ([]domain.Category, error) {
	return nil, errors.New("connection reset")
}

func TestListFailureRendersEmptyTable(t *testing.T) {
	app := newTestApp(t, func(s *Services) {
		s.Categories = failingCategories{s.Categories}
	})
	cookie, _ := app.signIn(t, domain.RoleAdmin, false)

	rec := app.do(t, http.MethodGet, "/categories", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Could not load categories")
	assert.Contains(t, body, "No categories yet.")
	assert.NotContains(t, body, "connection reset")
}

func TestWorkoutCheckboxAcceptsBrowserValue(t *testing.T) {
	app := newTestApp(t, nil)
	cookie, _ := app.signIn(t, domain.RoleAdmin, false)

	rec := app.do(t, http.MethodPost, "/workouts/new", url.Values{"name": {"Legs"}, "is_public": {"on"}}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	workouts, err := app.store.Workouts.List(context.Background())
	require.NoError(t, err)
	require.Len(t, workouts, 1)
	assert.Equal(t, "Legs", workouts[0].Name)
	assert.True(t, workouts[0].IsPublic)

	rec = app.do(t, http.MethodGet, "/workouts/"+workouts[0].ID.Hex(), nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="is_public" checked`)

	// Unticking posts nothing for the box.
	rec = app.do(t, http.MethodPost, "/workouts/"+workouts[0].ID.Hex(), url.Values{"name": {"Legs"}}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	stored, err := app.store.Workouts.GetByID(context.Background(), workouts[0].ID)
	require.NoError(t, err)
	assert.False(t, stored.IsPublic)
}

func TestFormsRejectMissingRequiredFields(t *testing.T) {
	app := newTestApp(t, nil)
	cookie, _ := app.signIn(t, domain.RoleAdmin, false)

	cases := []struct {
		path  string
		form  url.Values
		field string
		kept  string
	}{
		{"/categories/new", url.Values{"description": {"keep me"}}, "name is required", "keep me"},
		{"/exercises/new", url.Values{"recommended_sets": {"4"}}, "name is required", `value="4"`},
		{"/workouts/new", url.Values{"description": {"keep me too"}}, "name is required", "keep me too"},
		{"/videos/new", url.Values{"url": {"https://example.com/v.mp4"}}, "title is required", "https://example.com/v.mp4"},
	}
	for _, tc := range cases {
		rec := app.do(t, http.MethodPost, tc.path, tc.form, cookie)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.path)
		assert.Contains(t, rec.Body.String(), tc.field, tc.path)
		assert.Contains(t, rec.Body.String(), tc.kept, tc.path)
	}

	ctx := context.Background()
	n, err := app.store.Categories.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = app.store.Workouts.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	category, err := app.svc.Categories.CreateCategory(ctx, service.CategoryInput{Name: "Cardio"})
	require.NoError(t, err)
	rec := app.do(t, http.MethodPost, "/categories/"+category.ID.Hex(), url.Values{"description": {"x"}}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	stored, err := app.store.Categories.GetByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cardio", stored.Name)
}

func TestExerciseFormKeepsInvalidNumbers(t *testing.T) {
	app := newTestApp(t, nil)
	cookie, _ := app.signIn(t, domain.RoleAdmin, false)

	rec := app.do(t, http.MethodPost, "/exercises/new", url.Values{
		"name":             {"Bicep Curl"},
		"recommended_sets": {"three"},
	}, cookie)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="three"`)
	assert.Contains(t, rec.Body.String(), `value="Bicep Curl"`)

	rec = app.do(t, http.MethodPost, "/exercises/new", url.Values{
		"name":                     {"Bicep Curl"},
		"recommended_sets":         {"3"},
		"recommended_reps":         {"12"},
		"recommended_rest_seconds": {"60"},
	}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	exercises, err := app.store.Exercises.List(context.Background())
	require.NoError(t, err)
	require.Len(t, exercises, 1)
	require.NotNil(t, exercises[0].RecommendedReps)
	assert.Equal(t, 12, *exercises[0].RecommendedReps)
}

func TestWorkoutExerciseLinks(t *testing.T) {
	app := newTestApp(t, nil)
	cookie, _ := app.signIn(t, domain.RoleAdmin, false)
	ctx := context.Background()

	curl, err := app.svc.Exercises.CreateExercise(ctx, service.ExerciseInput{Name: "Bicep Curl"})
	require.NoError(t, err)

	rec := app.do(t, http.MethodPost, "/workouts/new", url.Values{"name": {"Arm Day"}, "is_public": {"true"}}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	detail := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(detail, "/workouts/"))

	rec = app.do(t, http.MethodGet, detail, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Add Exercise")
	assert.NotContains(t, rec.Body.String(), "Select exercise")

	rec = app.do(t, http.MethodGet, detail+"?adding=1", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Select exercise")
	assert.Contains(t, rec.Body.String(), `<option value="`+curl.ID.Hex()+`">Bicep Curl</option>`)

	rec = app.do(t, http.MethodPost, detail+"/exercises", url.Values{"exercise_id": {""}}, cookie)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = app.do(t, http.MethodPost, detail+"/exercises", url.Values{"exercise_id": {curl.ID.Hex()}}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, detail, rec.Header().Get("Location"))

	rec = app.do(t, http.MethodGet, detail, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1. Bicep Curl")

	workoutID, err := primitive.ObjectIDFromHex(strings.TrimPrefix(detail, "/workouts/"))
	require.NoError(t, err)
	links, err := app.store.WorkoutExercises.ListByWorkout(ctx, workoutID)
	require.NoError(t, err)
	require.Len(t, links, 1)

	rec = app.do(t, http.MethodPost, detail+"/exercises/"+links[0].ID.Hex()+"/delete", url.Values{}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	links, err = app.store.WorkoutExercises.ListByWorkout(ctx, workoutID)
	require.NoError(t, err)
	assert.Empty(t, links)

	rec = app.do(t, http.MethodPost, "/workouts/"+primitive.NewObjectID().Hex()+"/exercises", url.Values{"exercise_id": {curl.ID.Hex()}}, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVideoUploadIsServed(t *testing.T) {
	app := newTestApp(t, nil)
	cookie, _ := app.signIn(t, domain.RoleAdmin, false)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", "Warm-up"))
	fw, err := mw.CreateFormFile("video_file", "clip.mp4")
	require.NoError(t, err)
	_, err = fw.Write([]byte("not really an mp4"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/videos/new", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/videos/"))

	videos, err := app.store.Videos.List(context.Background())
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.True(t, strings.HasPrefix(videos[0].URL, "/media/media/"))
	assert.True(t, strings.HasSuffix(videos[0].URL, ".mp4"))

	rec = app.do(t, http.MethodGet, videos[0].URL, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "not really an mp4", rec.Body.String())
}

func TestVideoRequiresFileOrURL(t *testing.T) {
	app := newTestApp(t, nil)
	cookie, _ := app.signIn(t, domain.RoleAdmin, false)

	rec := app.do(t, http.MethodPost, "/videos/new", url.Values{"title": {"Cool-down"}}, cookie)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Cool-down"`)
}

func TestUserToggles(t *testing.T) {
	app := newTestApp(t, nil)
	cookie, adminID := app.signIn(t, domain.RoleAdmin, false)
	ctx := context.Background()

	memberID := primitive.NewObjectID()
	require.NoError(t, app.store.Profiles.Create(ctx, &domain.Profile{ID: memberID, Role: domain.RoleUser}))

	rec := app.do(t, http.MethodGet, "/users", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), adminID.Hex()+" (you)")

	rec = app.do(t, http.MethodPost, "/users/"+memberID.Hex()+"/role", url.Values{}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/users", rec.Header().Get("Location"))

	rec = app.do(t, http.MethodPost, "/users/"+memberID.Hex()+"/ban", url.Values{}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	profile, err := app.store.Profiles.GetByID(ctx, memberID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, profile.Role)
	assert.True(t, profile.IsBanned)

	rec = app.do(t, http.MethodPost, "/users/"+primitive.NewObjectID().Hex()+"/ban", url.Values{}, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestRegisterLoginLogout(t *testing.T) {
	app := newTestApp(t, nil)
	creds := url.Values{"email": {"Boss@Example.com"}, "password": {"correct horse"}}

	rec := app.do(t, http.MethodPost, "/register", creds, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/login?notice="))

	rec = app.do(t, http.MethodPost, "/register", creds, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(t, http.MethodPost, "/login", url.Values{"email": {"boss@example.com"}, "password": {"wrong password"}}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="boss@example.com"`)

	rec = app.do(t, http.MethodPost, "/login", creds, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	require.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/", nil, cookie).Code)

	rec = app.do(t, http.MethodPost, "/logout", url.Values{}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	cleared := sessionCookie(rec)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	// The old token was revoked, not just dropped from the browser.
	rec = app.do(t, http.MethodGet, "/", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestRegisteredUserWaitsForAdmin(t *testing.T) {
	app := newTestApp(t, nil)
	creds := url.Values{"email": {"member@example.com"}, "password": {"long enough"}}

	rec := app.do(t, http.MethodPost, "/register", creds, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "administrator")

	rec = app.do(t, http.MethodPost, "/login", creds, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)

	rec = app.do(t, http.MethodGet, "/", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestAPILoginAndMe(t *testing.T) {
	app := newTestApp(t, nil)
	_, _, err := app.svc.Auth.Register(context.Background(), "boss@example.com", "correct horse")
	require.NoError(t, err)

	post := func(payload string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		app.router.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusBadRequest, post(`{"email":"not-an-email"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, post(`{"email":"boss@example.com","password":"nope"}`).Code)

	rec := post(`{"email":"boss@example.com","password":"correct horse"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var login LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec = httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var me map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "admin", me["role"])
}

func TestCSRFProtectsForms(t *testing.T) {
	app := newTestApp(t, nil)
	handler := CSRF(bytes.Repeat([]byte("k"), 32), false, nil)(app.router)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="gorilla.csrf.Token"`)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("email=a%40b.c&password=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"a@b.c","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNavActive(t *testing.T) {
	cases := []struct {
		path, href string
		want       bool
	}{
		{"/", "/", true},
		{"/exercises", "/", false},
		{"/exercises", "/exercises", true},
		{"/exercises/new", "/exercises", true},
		{"/exercisesx", "/exercises", false},
		{"/users", "/workouts", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, navActive(tc.path, tc.href), "%s vs %s", tc.path, tc.href)
	}

	links := navFor("/workouts/abc")
	require.Len(t, links, len(navItems))
	for _, l := range links {
		assert.Equal(t, l.Href == "/workouts", l.Active, l.Href)
	}
}
