package handler

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"blogapi/internal/errors"
	"blogapi/internal/middleware"
	"blogapi/internal/model"
)

// MockPostService is a mock implementation of service.PostService.
type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) Create(ctx context.Context, authorID uint, title, content string) (*model.Post, error) {
	args := m.Called(ctx, authorID, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostService) List(ctx context.Context, page, size int) ([]model.Post, error) {
	args := m.Called(ctx, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockPostService) Get(ctx context.Context, id uint) (*model.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostService) Update(ctx context.Context, id uint, title, content string) (*model.Post, error) {
	args := m.Called(ctx, id, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostService) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostService) ToggleLike(ctx context.Context, postID, userID uint) (bool, int64, error) {
	args := m.Called(ctx, postID, userID)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostService) LikeCount(ctx context.Context, postID uint) (int64, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(int64), args.Error(1)
}

// asPrincipal injects a fixed principal the way Authenticate would.
func asPrincipal(p *middleware.Principal) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("principal", p)
			return next(c)
		}
	}
}

func TestPostHandler_ToggleLike(t *testing.T) {
	mockSvc := new(MockPostService)
	mockSvc.On("ToggleLike", mock.Anything, uint(1), uint(7)).Return(true, int64(3), nil)

	e := newTestEcho()
	h := NewPostHandler(mockSvc)
	e.POST("/api/posts/:id/like", h.ToggleLike, asPrincipal(&middleware.Principal{UserID: 7, Username: "bob", Role: model.RoleUser}))

	req := httptest.NewRequest(http.MethodPost, "/api/posts/1/like", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp LikeResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Liked)
	assert.Equal(t, int64(3), resp.LikeCount)
	mockSvc.AssertExpectations(t)
}

func TestPostHandler_ToggleLike_Conflict(t *testing.T) {
	mockSvc := new(MockPostService)
	mockSvc.On("ToggleLike", mock.Anything, uint(1), uint(7)).Return(false, int64(0), errors.ErrConflict)

	e := newTestEcho()
	h := NewPostHandler(mockSvc)
	e.POST("/api/posts/:id/like", h.ToggleLike, asPrincipal(&middleware.Principal{UserID: 7, Username: "bob", Role: model.RoleUser}))

	req := httptest.NewRequest(http.MethodPost, "/api/posts/1/like", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	mockSvc.AssertExpectations(t)
}

func TestPostHandler_Create(t *testing.T) {
	mockSvc := new(MockPostService)
	mockSvc.On("Create", mock.Anything, uint(7), "title", "content").
		Return(&model.Post{ID: 1, Title: "title", Content: "content", AuthorID: 7}, nil)

	e := newTestEcho()
	h := NewPostHandler(mockSvc)
	e.POST("/api/posts", h.Create, asPrincipal(&middleware.Principal{UserID: 7, Username: "bob", Role: model.RoleUser}))

	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(`{"title":"title","content":"content"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	mockSvc.AssertExpectations(t)
}

func TestPostHandler_Get_NotFound(t *testing.T) {
	mockSvc := new(MockPostService)
	mockSvc.On("Get", mock.Anything, uint(999)).Return(nil, errors.ErrPostNotFound)

	e := newTestEcho()
	h := NewPostHandler(mockSvc)
	e.GET("/api/posts/:id", h.Get)

	req := httptest.NewRequest(http.MethodGet, "/api/posts/999", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	mockSvc.AssertExpectations(t)
}

func TestPostHandler_UnexpectedErrorBodyIsGeneric(t *testing.T) {
	cause := stderrors.New("dial tcp 127.0.0.1:3306: connection refused")
	mockSvc := new(MockPostService)
	mockSvc.On("Get", mock.Anything, uint(1)).Return(nil, fmt.Errorf("find post: %w", cause))

	e := newTestEcho()
	h := NewPostHandler(mockSvc)
	e.GET("/api/posts/:id", h.Get)

	req := httptest.NewRequest(http.MethodGet, "/api/posts/1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp errors.ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "internal server error", resp.Error)
	assert.Equal(t, "INTERNAL_ERROR", resp.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
	mockSvc.AssertExpectations(t)
}

func TestHTTPErrorKeepsCauseForLogging(t *testing.T) {
	cause := stderrors.New("table is full")
	err := httpError(fmt.Errorf("create post: %w", cause))

	var he *echo.HTTPError
	assert.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusInternalServerError, he.Code)
	assert.ErrorIs(t, he.Internal, cause)
}

func TestPostHandler_Delete(t *testing.T) {
	mockSvc := new(MockPostService)
	mockSvc.On("Delete", mock.Anything, uint(1)).Return(nil)

	e := newTestEcho()
	h := NewPostHandler(mockSvc)
	e.DELETE("/api/posts/:id", h.Delete, asPrincipal(&middleware.Principal{UserID: 7, Username: "bob", Role: model.RoleUser}))

	req := httptest.NewRequest(http.MethodDelete, "/api/posts/1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	mockSvc.AssertExpectations(t)
}
