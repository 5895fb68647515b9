package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"task_tracker/internal/middleware"
	"task_tracker/internal/model"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockTaskService struct {
	mock.Mock
}

func (m *mockTaskService) ListTasks(ctx context.Context) ([]model.Task, error) {
	args := m.Called(ctx)
	if t := args.Get(0); t != nil {
		return t.([]model.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskService) GetTask(ctx context.Context, id int64) (*model.Task, error) {
	args := m.Called(ctx, id)
	if t := args.Get(0); t != nil {
		return t.(*model.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskService) CreateTask(ctx context.Context, userID int, req model.CreateTaskRequest) (*model.Task, error) {
	args := m.Called(ctx, userID, req)
	if t := args.Get(0); t != nil {
		return t.(*model.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskService) UpdateTask(ctx context.Context, id int64, req model.UpdateTaskRequest) (*model.Task, error) {
	args := m.Called(ctx, id, req)
	if t := args.Get(0); t != nil {
		return t.(*model.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskService) DeleteTask(ctx context.Context, id int64, callerID int, callerRole string) error {
	args := m.Called(ctx, id, callerID, callerRole)
	return args.Error(0)
}

// fakeAuthMW injects an authenticated caller without going through JWT parsing
func fakeAuthMW(userID int, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.AuthUserKey, userID)
		c.Set(middleware.AuthRoleKey, role)
		c.Next()
	}
}

func setupTaskHandlerRouter(svc service.TaskService, userID int, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api")
	NewTaskHandler(svc).RegisterTaskRoutes(api, fakeAuthMW(userID, role))
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestTaskHandler_ListTasks_EmptyIsArray(t *testing.T) {
	svc := new(mockTaskService)
	svc.On("ListTasks", mock.Anything).Return(nil, nil)

	router := setupTaskHandlerRouter(svc, 7, model.RoleUser)
	w := doJSON(router, http.MethodGet, "/api/tasks", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestTaskHandler_GetTaskByID(t *testing.T) {
	svc := new(mockTaskService)
	svc.On("GetTask", mock.Anything, int64(10)).Return(&model.Task{
		ID: 10, Title: "Write report", DueDate: model.NewDate(2026, time.September, 1),
		Status: model.StatusPending, Priority: model.PriorityMedium, UserID: 7,
	}, nil)

	router := setupTaskHandlerRouter(svc, 7, model.RoleUser)
	w := doJSON(router, http.MethodGet, "/api/tasks/10", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"dueDate":"2026-09-01"`)
	assert.Contains(t, w.Body.String(), `"userId":7`)
}

func TestTaskHandler_GetTaskByID_BadID(t *testing.T) {
	svc := new(mockTaskService)
	router := setupTaskHandlerRouter(svc, 7, model.RoleUser)

	w := doJSON(router, http.MethodGet, "/api/tasks/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandler_GetTaskByID_NotFound(t *testing.T) {
	svc := new(mockTaskService)
	svc.On("GetTask", mock.Anything, int64(99)).Return(nil, service.ErrTaskNotFound)

	router := setupTaskHandlerRouter(svc, 7, model.RoleUser)
	w := doJSON(router, http.MethodGet, "/api/tasks/99", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskHandler_CreateTask(t *testing.T) {
	svc := new(mockTaskService)
	svc.On("CreateTask", mock.Anything, 7, mock.AnythingOfType("model.CreateTaskRequest")).
		Return(&model.Task{ID: 10, Title: "Write report", UserID: 7, DueDate: model.NewDate(2026, time.September, 1), Status: model.StatusPending, Priority: model.PriorityMedium}, nil)

	router := setupTaskHandlerRouter(svc, 7, model.RoleUser)
	w := doJSON(router, http.MethodPost, "/api/tasks", `{"title":"Write report","dueDate":"2026-09-01"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":10`)
}

func TestTaskHandler_CreateTask_ValidationFailures(t *testing.T) {
	svc := new(mockTaskService)
	router := setupTaskHandlerRouter(svc, 7, model.RoleUser)

	cases := map[string]string{
		"missing title":   `{"dueDate":"2026-09-01"}`,
		"missing dueDate": `{"title":"Write report"}`,
		"bad dueDate":     `{"title":"Write report","dueDate":"09/01/2026"}`,
		"bad status":      `{"title":"Write report","dueDate":"2026-09-01","status":"Done"}`,
		"bad priority":    `{"title":"Write report","dueDate":"2026-09-01","priority":"Urgent"}`,
		"long title":      `{"title":"` + strings.Repeat("t", 101) + `","dueDate":"2026-09-01"}`,
	}
	for name, body := range cases {
		w := doJSON(router, http.MethodPost, "/api/tasks", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
	svc.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskHandler_CreateTask_SpacedEnumValue(t *testing.T) {
	svc := new(mockTaskService)
	svc.On("CreateTask", mock.Anything, 7, mock.AnythingOfType("model.CreateTaskRequest")).
		Return(&model.Task{ID: 11, Title: "Write report", UserID: 7, Status: model.StatusInProgress, Priority: model.PriorityMedium, DueDate: model.NewDate(2026, time.September, 1)}, nil)

	router := setupTaskHandlerRouter(svc, 7, model.RoleUser)
	w := doJSON(router, http.MethodPost, "/api/tasks", `{"title":"Write report","dueDate":"2026-09-01","status":"In Progress"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestTaskHandler_UpdateTask_NotFound(t *testing.T) {
	svc := new(mockTaskService)
	svc.On("UpdateTask", mock.Anything, int64(99), mock.AnythingOfType("model.UpdateTaskRequest")).
		Return(nil, service.ErrTaskNotFound)

	router := setupTaskHandlerRouter(svc, 7, model.RoleUser)
	w := doJSON(router, http.MethodPut, "/api/tasks/99", `{"status":"Completed"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskHandler_DeleteTask(t *testing.T) {
	svc := new(mockTaskService)
	svc.On("DeleteTask", mock.Anything, int64(10), 7, model.RoleUser).Return(nil)

	router := setupTaskHandlerRouter(svc, 7, model.RoleUser)
	w := doJSON(router, http.MethodDelete, "/api/tasks/10", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestTaskHandler_DeleteTask_StrangerSeesNotFound(t *testing.T) {
	svc := new(mockTaskService)
	svc.On("DeleteTask", mock.Anything, int64(10), 8, model.RoleUser).Return(service.ErrTaskNotFound)

	router := setupTaskHandlerRouter(svc, 8, model.RoleUser)
	w := doJSON(router, http.MethodDelete, "/api/tasks/10", "")

	// Denied deletion is indistinguishable from a missing task
	assert.Equal(t, http.StatusNotFound, w.Code)
}
