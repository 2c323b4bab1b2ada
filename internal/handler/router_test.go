package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/art-studio-api/internal/models"
	"github.com/noah-isme/art-studio-api/internal/service"
	"github.com/noah-isme/art-studio-api/pkg/config"
	"github.com/noah-isme/art-studio-api/pkg/response"
)

type fakeGroupRepo struct {
	rows  map[string]models.Group
	seq   int
	clock time.Time
}

func (f *fakeGroupRepo) List(ctx context.Context) ([]models.Group, error) {
	out := make([]models.Group, 0, len(f.rows))
	for _, g := range f.rows {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeGroupRepo) FindByID(ctx context.Context, id string) (*models.Group, error) {
	g, ok := f.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &g, nil
}

func (f *fakeGroupRepo) Create(ctx context.Context, group *models.Group) error {
	f.seq++
	f.clock = f.clock.Add(time.Second)
	group.ID = fmt.Sprintf("group-%d", f.seq)
	group.CreatedAt = f.clock
	group.UpdatedAt = f.clock
	f.rows[group.ID] = *group
	return nil
}

func (f *fakeGroupRepo) Update(ctx context.Context, id string, patch models.GroupPatch) (*models.Group, error) {
	g, ok := f.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	patch.Apply(&g)
	f.rows[id] = g
	return &g, nil
}

func (f *fakeGroupRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

type fakeUserRepo struct {
	users map[string]models.User
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &u, nil
}

func (f *fakeUserRepo) CreateIfAbsent(ctx context.Context, user *models.User) (bool, error) {
	if _, ok := f.users[user.Email]; ok {
		return false, nil
	}
	f.users[user.Email] = *user
	return true, nil
}

type testServer struct {
	router *gin.Engine
	admin  string
	user   string
}

const testPassword = "secret123"

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	users := &fakeUserRepo{users: map[string]models.User{
		"admin@studio.test":   {ID: "u-admin", Email: "admin@studio.test", PasswordHash: string(hash), Name: "Admin", Role: models.RoleAdmin},
		"teacher@studio.test": {ID: "u-user", Email: "teacher@studio.test", PasswordHash: string(hash), Name: "Teacher", Role: models.RoleUser},
	}}

	cfg := &config.Config{Env: config.EnvDevelopment, APIPrefix: "/api"}
	validate := service.NewValidator()
	auth := service.NewAuthService(users, validate, nil, service.AuthConfig{AccessTokenSecret: "test-secret", AccessTokenExpiry: time.Hour, Issuer: "test"})
	groups := service.NewGroupService(&fakeGroupRepo{rows: map[string]models.Group{}, clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}, nil, nil, validate, nil, service.GroupServiceConfig{AdminOnlyWrites: true})
	exports := service.NewExportService(groups, nil, nil, nil)

	srv := &testServer{router: NewRouter(RouterDeps{Config: cfg, Auth: auth, Groups: groups, Export: exports})}
	srv.admin = srv.login(t, "admin@studio.test")
	srv.user = srv.login(t, "teacher@studio.test")
	return srv
}

func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	w := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": testPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res.AccessToken
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) createGroup(t *testing.T, name string) models.Group {
	t.Helper()
	w := s.do(http.MethodPost, "/api/groups", s.admin, validGroupBody(name))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var group models.Group
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &group))
	return group
}

func validGroupBody(name string) map[string]string {
	return map[string]string{"name": name, "day1": "Tuesday", "day2": "Thursday", "startTime": "17:00", "endTime": "18:30"}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body
}

func TestGroupRoutesRequireSession(t *testing.T) {
	srv := newTestServer(t)

	requests := []struct{ method, path string }{
		{http.MethodGet, "/api/groups"},
		{http.MethodGet, "/api/groups/group-1"},
		{http.MethodPost, "/api/groups"},
		{http.MethodPut, "/api/groups/group-1"},
		{http.MethodDelete, "/api/groups/group-1"},
		{http.MethodGet, "/api/groups/export"},
		{http.MethodGet, "/api/groups/export?format=xml"},
		{http.MethodGet, "/api/groups/export?locale=fr"},
	}
	for _, r := range requests {
		w := srv.do(r.method, r.path, "", validGroupBody("x"))
		assert.Equal(t, http.StatusUnauthorized, w.Code, r.method+" "+r.path)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, w).Error.Code)
	}

	w := srv.do(http.MethodGet, "/api/groups", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateGroup(t *testing.T) {
	srv := newTestServer(t)

	group := srv.createGroup(t, "Oil painting")
	assert.NotEmpty(t, group.ID)
	assert.False(t, group.CreatedAt.IsZero())
	assert.Equal(t, "Oil painting", group.Name)
	assert.Equal(t, "Tuesday", group.Day1)
	assert.Equal(t, "Thursday", group.Day2)
	assert.Equal(t, "17:00", group.StartTime)
	assert.Equal(t, "18:30", group.EndTime)

	w := srv.do(http.MethodGet, "/api/groups/"+group.ID, srv.user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"startTime":"17:00"`)
}

func TestCreateGroupValidation(t *testing.T) {
	srv := newTestServer(t)

	body := validGroupBody("Ink")
	delete(body, "endTime")
	w := srv.do(http.MethodPost, "/api/groups", srv.admin, body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	errBody := decodeError(t, w)
	assert.Equal(t, "endTime", errBody.Error.Field)
	assert.Contains(t, errBody.Error.Message, "endTime")

	body = validGroupBody("Ink")
	body["day1"] = "Mon"
	w = srv.do(http.MethodPost, "/api/groups", srv.admin, body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "day1", decodeError(t, w).Error.Field)

	w = srv.do(http.MethodPost, "/api/groups", srv.admin, `{"name":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, w).Error.Code)

	w = srv.do(http.MethodPost, "/api/groups", srv.admin, `{"name":"Ink","day1":"Monday","day2":"Friday","startTime":930,"endTime":"10:30"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	errBody = decodeError(t, w)
	assert.Equal(t, "startTime", errBody.Error.Field)
	assert.Contains(t, errBody.Error.Message, "startTime")

	group := srv.createGroup(t, "Typed")
	w = srv.do(http.MethodPut, "/api/groups/"+group.ID, srv.admin, `{"day2":5}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "day2", decodeError(t, w).Error.Field)
	assert.Equal(t, http.StatusNoContent, srv.do(http.MethodDelete, "/api/groups/"+group.ID, srv.admin, nil).Code)

	w = srv.do(http.MethodGet, "/api/groups", srv.admin, nil)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestNonAdminCannotWrite(t *testing.T) {
	srv := newTestServer(t)
	group := srv.createGroup(t, "Charcoal")

	w := srv.do(http.MethodPost, "/api/groups", srv.user, validGroupBody("x"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = srv.do(http.MethodPut, "/api/groups/"+group.ID, srv.user, `{"name":`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = srv.do(http.MethodDelete, "/api/groups/"+group.ID, srv.user, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = srv.do(http.MethodGet, "/api/groups", srv.user, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListGroupsNewestFirst(t *testing.T) {
	srv := newTestServer(t)
	for _, name := range []string{"A", "B", "C"} {
		srv.createGroup(t, name)
	}

	w := srv.do(http.MethodGet, "/api/groups", srv.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var groups []models.Group
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &groups))
	require.Len(t, groups, 3)
	assert.Equal(t, "C", groups[0].Name)
	assert.Equal(t, "B", groups[1].Name)
	assert.Equal(t, "A", groups[2].Name)
}

func TestUpdateGroupPartial(t *testing.T) {
	srv := newTestServer(t)
	group := srv.createGroup(t, "Old name")

	w := srv.do(http.MethodPut, "/api/groups/"+group.ID, srv.admin, map[string]string{"name": "New name"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Group
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "New name", updated.Name)
	assert.Equal(t, group.Day1, updated.Day1)
	assert.Equal(t, group.Day2, updated.Day2)
	assert.Equal(t, group.StartTime, updated.StartTime)
	assert.Equal(t, group.EndTime, updated.EndTime)

	w = srv.do(http.MethodPut, "/api/groups/"+group.ID, srv.admin, map[string]string{"startTime": "24:00"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "startTime", decodeError(t, w).Error.Field)

	w = srv.do(http.MethodPut, "/api/groups/missing", srv.admin, map[string]string{"name": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteGroupTwice(t *testing.T) {
	srv := newTestServer(t)
	group := srv.createGroup(t, "Sculpture")

	w := srv.do(http.MethodDelete, "/api/groups/"+group.ID, srv.admin, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = srv.do(http.MethodDelete, "/api/groups/"+group.ID, srv.admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, w).Error.Code)

	w = srv.do(http.MethodGet, "/api/groups/"+group.ID, srv.admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportTimetable(t *testing.T) {
	srv := newTestServer(t)
	srv.createGroup(t, "Acrylic")

	w := srv.do(http.MethodGet, "/api/groups/export?locale=ru", srv.user, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
	assert.Contains(t, w.Body.String(), "Acrylic")
	assert.Contains(t, w.Body.String(), "Вторник")

	w = srv.do(http.MethodGet, "/api/groups/export?format=xlsx", srv.user, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "format", decodeError(t, w).Error.Field)
}

func TestWeekdays(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodGet, "/api/weekdays?locale=ru", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var res WeekdayResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "ru", res.Locale)
	require.Len(t, res.Options, 7)
	assert.Equal(t, "Monday", res.Options[0].Value)
	assert.Equal(t, "Понедельник", res.Options[0].Label)

	w = srv.do(http.MethodGet, "/api/weekdays?locale=xx", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthRoutes(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@studio.test", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, w).Error.Code)

	w = srv.do(http.MethodGet, "/api/auth/me", srv.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var session models.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, "u-admin", session.UserID)
	assert.Equal(t, models.RoleAdmin, session.Role)

	w = srv.do(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, w).Error.Code)
}

func TestHealthAndMetricsSummary(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusOK, srv.do(http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, srv.do(http.MethodGet, "/ready", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, srv.do(http.MethodGet, "/api/metrics/summary", srv.user, nil).Code)
	assert.Equal(t, http.StatusOK, srv.do(http.MethodGet, "/api/metrics/summary", srv.admin, nil).Code)
}
