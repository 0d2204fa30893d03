package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/projecttracker/internal/app/repositories"
	"github.com/yigit/projecttracker/internal/app/repositories/memory"
	"github.com/yigit/projecttracker/internal/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field"`
	} `json:"errors"`
}

type apiHarness struct {
	t      *testing.T
	router *gin.Engine
	repos  *repositories.Repositories
	deps   *Dependencies
}

func newHarness(t *testing.T) *apiHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.JWT.Secret = "router-secret"
	cfg.JWT.Expiration = "1h"
	cfg.Admin.Name = "Administrator"
	cfg.Admin.Email = "admin@uni.edu"
	cfg.Admin.Password = "adminpass1"

	repos := memory.NewRepositories()
	deps := BuildDependencies(cfg, repos, zerolog.Nop())
	SeedDefaults(context.Background(), cfg, deps)

	return &apiHarness{
		t:      t,
		router: SetupRouter(cfg, deps, zerolog.Nop()),
		repos:  repos,
		deps:   deps,
	}
}

func (h *apiHarness) do(method, path, token string, body interface{}) (int, envelope) {
	h.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(h.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func (h *apiHarness) data(env envelope, out interface{}) {
	h.t.Helper()
	require.NoError(h.t, json.Unmarshal(env.Data, out))
}

type session struct {
	Token string
	ID    string
}

func (h *apiHarness) auth(env envelope) session {
	h.t.Helper()
	var payload struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	h.data(env, &payload)
	require.NotEmpty(h.t, payload.Token)
	return session{Token: payload.Token, ID: payload.User.ID}
}

func (h *apiHarness) registerStudent(email string, number int64) session {
	h.t.Helper()
	status, env := h.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Student", "email": email, "password": "password1", "role": "student",
		"year": 3, "studentId": number,
	})
	require.Equal(h.t, http.StatusCreated, status, env.Message)
	return h.auth(env)
}

func (h *apiHarness) registerSupervisor(email string) session {
	h.t.Helper()
	status, env := h.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Supervisor", "email": email, "password": "password1", "role": "supervisor",
	})
	require.Equal(h.t, http.StatusCreated, status, env.Message)
	return h.auth(env)
}

func (h *apiHarness) loginAdmin() session {
	h.t.Helper()
	status, env := h.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "admin@uni.edu", "password": "adminpass1", "userType": "admin",
	})
	require.Equal(h.t, http.StatusOK, status, env.Message)
	return h.auth(env)
}

func (h *apiHarness) createProject(student, supervisor session) string {
	h.t.Helper()
	status, env := h.do(http.MethodPost, "/api/projects", student.Token, gin.H{
		"title": "Compiler", "description": "A toy compiler", "proposal": "Build it", "supervisorId": supervisor.ID,
	})
	require.Equal(h.t, http.StatusCreated, status, env.Message)
	var project struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	h.data(env, &project)
	require.Equal(h.t, "pending", project.Status)
	return project.ID
}

func TestAuthFlow(t *testing.T) {
	h := newHarness(t)

	student := h.registerStudent("ada@uni.edu", 1001)

	status, env := h.do(http.MethodGet, "/api/auth/me", student.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	assert.NotContains(t, string(env.Data), "password")
	var me map[string]interface{}
	h.data(env, &me)
	assert.Equal(t, "ada@uni.edu", me["email"])
	assert.EqualValues(t, 1001, me["studentId"])

	status, env = h.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "ADA@uni.edu", "password": "password1", "userType": "student",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, student.ID, h.auth(env).ID)

	for name, body := range map[string]gin.H{
		"wrong password": {"email": "ada@uni.edu", "password": "password2", "userType": "student"},
		"wrong type":     {"email": "ada@uni.edu", "password": "password1", "userType": "supervisor"},
		"unknown email":  {"email": "nobody@uni.edu", "password": "password1", "userType": "student"},
	} {
		t.Run(name, func(t *testing.T) {
			status, env := h.do(http.MethodPost, "/api/auth/login", "", body)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, "Invalid credentials", env.Message)
		})
	}

	status, _ = h.do(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRegisterRejections(t *testing.T) {
	h := newHarness(t)
	h.registerStudent("ada@uni.edu", 1001)

	before, err := h.repos.Users.List(context.Background(), "")
	require.NoError(t, err)

	status, env := h.do(http.MethodPost, "/api/auth/register", "", gin.H{"role": "admin"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Admin accounts can only be created by existing admins", env.Message)

	tests := []struct {
		name  string
		body  gin.H
		field string
	}{
		{"duplicate email", gin.H{"name": "Bob", "email": "ada@uni.edu", "password": "password1", "role": "supervisor"}, "email"},
		{"duplicate student number", gin.H{"name": "Bob", "email": "bob@uni.edu", "password": "password1", "role": "student", "year": 1, "studentId": 1001}, "studentId"},
		{"bad role", gin.H{"name": "Bob", "email": "bob@uni.edu", "password": "password1", "role": "dean"}, "role"},
		{"short password", gin.H{"name": "Bob", "email": "bob@uni.edu", "password": "short", "role": "supervisor"}, "password"},
		{"password over bcrypt limit", gin.H{"name": "Bob", "email": "bob@uni.edu", "password": strings.Repeat("p", 80), "role": "supervisor"}, "password"},
		{"bad contact", gin.H{"name": "Bob", "email": "bob@uni.edu", "password": "password1", "role": "supervisor", "contact": "12ab"}, "contact"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := h.do(http.MethodPost, "/api/auth/register", "", tt.body)
			require.Equal(t, http.StatusBadRequest, status)
			require.NotEmpty(t, env.Errors)
			assert.Equal(t, tt.field, env.Errors[0].Field)
		})
	}

	after, err := h.repos.Users.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestProjectOwnership(t *testing.T) {
	h := newHarness(t)
	owner := h.registerStudent("owner@uni.edu", 1)
	intruder := h.registerStudent("intruder@uni.edu", 2)
	supervisor := h.registerSupervisor("sup@uni.edu")
	otherSupervisor := h.registerSupervisor("other@uni.edu")
	admin := h.loginAdmin()

	projectID := h.createProject(owner, supervisor)
	path := "/api/projects/" + projectID

	status, env := h.do(http.MethodPut, path, intruder.Token, gin.H{"title": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Not authorized to update this project", env.Message)

	status, env = h.do(http.MethodGet, path, owner.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var project struct {
		Title      string `json:"title"`
		Status     string `json:"status"`
		Feedback   string `json:"feedback"`
		Student    struct{ Email string } `json:"student"`
		Supervisor struct{ Email string } `json:"supervisor"`
	}
	h.data(env, &project)
	assert.Equal(t, "Compiler", project.Title)
	assert.Equal(t, "owner@uni.edu", project.Student.Email)
	assert.Equal(t, "sup@uni.edu", project.Supervisor.Email)

	for _, who := range []session{owner, supervisor, admin} {
		status, _ = h.do(http.MethodPut, path, who.Token, gin.H{"description": "Edited by " + who.ID})
		assert.Equal(t, http.StatusOK, status)
	}

	// Existence is checked before ownership.
	status, _ = h.do(http.MethodPut, "/api/projects/missing", intruder.Token, gin.H{"title": "x y"})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = h.do(http.MethodPut, path+"/review", otherSupervisor.Token, gin.H{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = h.do(http.MethodPut, path+"/review", owner.Token, gin.H{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = h.do(http.MethodPut, path+"/review", supervisor.Token, gin.H{"status": "finished"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = h.do(http.MethodPut, path+"/review", supervisor.Token, gin.H{
		"status": "approved", "feedback": "Good scope", "dueDate": "2030-06-30",
	})
	require.Equal(t, http.StatusOK, status)
	h.data(env, &project)
	assert.Equal(t, "approved", project.Status)
	assert.Equal(t, "Good scope", project.Feedback)

	status, _ = h.do(http.MethodPut, path+"/documentation", intruder.Token, gin.H{"documentation": "mine"})
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = h.do(http.MethodPut, path+"/documentation", owner.Token, gin.H{"documentation": "report.pdf"})
	assert.Equal(t, http.StatusOK, status)

	status, _ = h.do(http.MethodDelete, path, intruder.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = h.do(http.MethodDelete, path, supervisor.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env = h.do(http.MethodGet, "/api/projects/students/me/projects", owner.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var mine []map[string]interface{}
	h.data(env, &mine)
	assert.Len(t, mine, 1)

	status, env = h.do(http.MethodGet, "/api/projects/supervisors/me/projects", otherSupervisor.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var supervised []map[string]interface{}
	h.data(env, &supervised)
	assert.Empty(t, supervised)

	status, _ = h.do(http.MethodDelete, path, owner.Token, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = h.do(http.MethodGet, path, owner.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAccessCheckedBeforeBody(t *testing.T) {
	h := newHarness(t)
	owner := h.registerStudent("owner@uni.edu", 1)
	intruder := h.registerStudent("intruder@uni.edu", 2)
	supervisor := h.registerSupervisor("sup@uni.edu")
	otherSupervisor := h.registerSupervisor("other@uni.edu")
	admin := h.loginAdmin()

	path := "/api/projects/" + h.createProject(owner, supervisor)
	missing := "/api/projects/000000000000000000000000"

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   gin.H
		want   int
	}{
		{"update by intruder", http.MethodPut, path, intruder.Token, gin.H{"title": "x"}, http.StatusForbidden},
		{"documentation by intruder", http.MethodPut, path + "/documentation", intruder.Token, gin.H{}, http.StatusForbidden},
		{"review by other supervisor", http.MethodPut, path + "/review", otherSupervisor.Token, gin.H{}, http.StatusForbidden},
		{"student profile by intruder", http.MethodPut, "/api/students/" + owner.ID, intruder.Token, gin.H{"name": "x"}, http.StatusForbidden},
		{"supervisor profile by other", http.MethodPut, "/api/supervisors/" + supervisor.ID, otherSupervisor.Token, gin.H{"email": "bad"}, http.StatusForbidden},
		{"update missing project", http.MethodPut, missing, owner.Token, gin.H{"title": "x"}, http.StatusNotFound},
		{"documentation missing project", http.MethodPut, missing + "/documentation", owner.Token, gin.H{}, http.StatusNotFound},
		{"review missing project", http.MethodPut, missing + "/review", supervisor.Token, gin.H{}, http.StatusNotFound},
		{"status override missing project", http.MethodPut, "/api/admin/projects/000000000000000000000000/status", admin.Token, gin.H{"status": "done"}, http.StatusNotFound},
		{"update by owner", http.MethodPut, path, owner.Token, gin.H{"title": "x"}, http.StatusBadRequest},
		{"documentation by owner", http.MethodPut, path + "/documentation", owner.Token, gin.H{}, http.StatusBadRequest},
		{"review by supervisor", http.MethodPut, path + "/review", supervisor.Token, gin.H{}, http.StatusBadRequest},
		{"student profile by owner", http.MethodPut, "/api/students/" + owner.ID, owner.Token, gin.H{"year": 9}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := h.do(tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.want, status, env.Message)
		})
	}

	status, env := h.do(http.MethodGet, path, owner.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var project struct {
		Title  string `json:"title"`
		Status string `json:"status"`
	}
	h.data(env, &project)
	assert.Equal(t, "Compiler", project.Title)
	assert.Equal(t, "pending", project.Status)
}

func TestProjectCreateAndFilters(t *testing.T) {
	h := newHarness(t)
	student := h.registerStudent("s@uni.edu", 1)
	supervisor := h.registerSupervisor("sup@uni.edu")

	status, env := h.do(http.MethodPost, "/api/projects", student.Token, gin.H{
		"title": "Compiler", "description": "d", "proposal": "p", "supervisorId": student.ID,
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Supervisor not found", env.Message)

	status, _ = h.do(http.MethodPost, "/api/projects", supervisor.Token, gin.H{
		"title": "Compiler", "description": "d", "proposal": "p", "supervisorId": supervisor.ID,
	})
	assert.Equal(t, http.StatusForbidden, status)

	h.createProject(student, supervisor)

	status, env = h.do(http.MethodGet, "/api/projects?status=pending&supervisorId="+supervisor.ID, supervisor.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var listed []map[string]interface{}
	h.data(env, &listed)
	assert.Len(t, listed, 1)

	status, env = h.do(http.MethodGet, "/api/projects?status=approved", student.Token, nil)
	require.Equal(t, http.StatusOK, status)
	h.data(env, &listed)
	assert.Empty(t, listed)

	status, _ = h.do(http.MethodGet, "/api/projects?status=done", student.Token, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = h.do(http.MethodGet, "/api/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestStudentAndSupervisorProfiles(t *testing.T) {
	h := newHarness(t)
	student := h.registerStudent("s@uni.edu", 1)
	other := h.registerStudent("o@uni.edu", 2)
	supervisor := h.registerSupervisor("sup@uni.edu")
	otherSupervisor := h.registerSupervisor("sup2@uni.edu")

	status, _ := h.do(http.MethodGet, "/api/students", student.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, env := h.do(http.MethodGet, "/api/students", supervisor.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var students []map[string]interface{}
	h.data(env, &students)
	assert.Len(t, students, 2)

	status, _ = h.do(http.MethodGet, "/api/students/"+supervisor.ID, student.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = h.do(http.MethodPut, "/api/students/"+other.ID, student.Token, gin.H{"name": "Renamed"})
	assert.Equal(t, http.StatusForbidden, status)
	status, env = h.do(http.MethodPut, "/api/students/"+student.ID, student.Token, gin.H{"name": "Renamed", "year": 4})
	require.Equal(t, http.StatusOK, status)
	var updated map[string]interface{}
	h.data(env, &updated)
	assert.Equal(t, "Renamed", updated["name"])
	assert.EqualValues(t, 4, updated["year"])

	status, _ = h.do(http.MethodPut, "/api/students/"+student.ID, student.Token, gin.H{"email": "o@uni.edu"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = h.do(http.MethodPut, "/api/supervisors/"+otherSupervisor.ID, supervisor.Token, gin.H{"bio": "x"})
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = h.do(http.MethodPut, "/api/supervisors/"+supervisor.ID, supervisor.Token, gin.H{"staffId": "S-9"})
	assert.Equal(t, http.StatusOK, status)

	status, env = h.do(http.MethodGet, "/api/supervisors", student.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var supervisors []map[string]interface{}
	h.data(env, &supervisors)
	assert.Len(t, supervisors, 2)

	projectID := h.createProject(student, supervisor)

	status, _ = h.do(http.MethodDelete, "/api/supervisors/"+otherSupervisor.ID, supervisor.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = h.do(http.MethodDelete, "/api/supervisors/"+supervisor.ID, supervisor.Token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = h.do(http.MethodGet, "/api/projects/"+projectID, student.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = h.do(http.MethodDelete, "/api/students/"+other.ID, student.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = h.do(http.MethodDelete, "/api/students/"+student.ID, student.Token, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = h.do(http.MethodGet, "/api/auth/me", student.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAdminEndpoints(t *testing.T) {
	h := newHarness(t)
	student := h.registerStudent("s@uni.edu", 1)
	supervisor := h.registerSupervisor("sup@uni.edu")
	admin := h.loginAdmin()

	status, env := h.do(http.MethodGet, "/api/admin/stats", student.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "User role student is not authorized to access this route", env.Message)

	assign := gin.H{"studentId": student.ID, "supervisorId": supervisor.ID}
	for i := 0; i < 2; i++ {
		status, env = h.do(http.MethodPost, "/api/admin/assign-student", admin.Token, assign)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Student assigned to supervisor successfully", env.Message)
		var result struct {
			Students []string `json:"students"`
		}
		h.data(env, &result)
		assert.Equal(t, []string{student.ID}, result.Students)
	}

	status, _ = h.do(http.MethodPost, "/api/admin/assign-student", admin.Token,
		gin.H{"studentId": supervisor.ID, "supervisorId": supervisor.ID})
	assert.Equal(t, http.StatusNotFound, status)

	projectID := h.createProject(student, supervisor)
	h.createProject(student, supervisor)

	status, env = h.do(http.MethodPut, "/api/admin/projects/"+projectID+"/status", admin.Token,
		gin.H{"status": "rejected", "feedback": "Out of scope"})
	require.Equal(t, http.StatusOK, status)
	status, _ = h.do(http.MethodPut, "/api/admin/projects/missing/status", admin.Token, gin.H{"status": "approved"})
	assert.Equal(t, http.StatusNotFound, status)

	status, env = h.do(http.MethodGet, "/api/admin/stats", admin.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var stats map[string]int64
	h.data(env, &stats)
	assert.Equal(t, map[string]int64{
		"students": 1, "supervisors": 1, "projects": 2,
		"pendingProjects": 1, "approvedProjects": 0, "rejectedProjects": 1,
	}, stats)

	status, env = h.do(http.MethodGet, "/api/admin/projects?status=rejected", admin.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var rejected []map[string]interface{}
	h.data(env, &rejected)
	assert.Len(t, rejected, 1)

	status, env = h.do(http.MethodPost, "/api/admin/create-admin", admin.Token,
		gin.H{"name": "Second", "email": "s@uni.edu", "password": "password1"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "User already exists", env.Message)
	status, _ = h.do(http.MethodPost, "/api/admin/create-admin", admin.Token,
		gin.H{"name": "Second", "email": "second@uni.edu", "password": "password1"})
	assert.Equal(t, http.StatusCreated, status)

	status, env = h.do(http.MethodGet, "/api/admin/users", admin.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, string(env.Data), "password")
	var users []map[string]interface{}
	h.data(env, &users)
	assert.Len(t, users, 4)

	status, _ = h.do(http.MethodDelete, "/api/admin/users/"+student.ID, admin.Token, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = h.do(http.MethodDelete, "/api/admin/users/"+student.ID, admin.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, env = h.do(http.MethodGet, "/api/admin/stats", admin.Token, nil)
	require.Equal(t, http.StatusOK, status)
	h.data(env, &stats)
	assert.Zero(t, stats["projects"])
	assert.Zero(t, stats["students"])

	status, env = h.do(http.MethodGet, "/api/supervisors/"+supervisor.ID, admin.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var sup map[string]interface{}
	h.data(env, &sup)
	assert.Empty(t, sup["students"])
}

func TestOperationalRoutes(t *testing.T) {
	h := newHarness(t)

	status, env := h.do(http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))

	status, env = h.do(http.MethodGet, "/api/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/projects/{id}/review")
}
