package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"blogapi/internal/errors"
	"blogapi/internal/model"
)

// withPrincipal attaches a fixed principal, standing in for Authenticate.
func withPrincipal(p *Principal) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if p != nil {
				c.Set(principalKey, p)
			}
			return next(c)
		}
	}
}

// postOwners is a fixed owner lookup: post 1 belongs to alice.
func postOwners(ctx context.Context, id uint) (string, error) {
	if id == 1 {
		return "alice", nil
	}
	return "", gorm.ErrRecordNotFound
}

func newPolicyTestServer(p *Principal) *echo.Echo {
	e := echo.New()
	policy := NewPolicy([]Rule{
		{Method: "GET", Path: "/posts/:id", Capability: Public},
		{Method: "POST", Path: "/posts", Capability: Authenticated},
		{Method: "PUT", Path: "/posts/:id", Capability: Owner, Lookup: postOwners, NotFound: errors.ErrPostNotFound},
		{Method: "DELETE", Path: "/posts/admin/:id", Capability: AdminOnly},
	})
	e.Use(withPrincipal(p))
	e.Use(policy.Enforce())

	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/posts/:id", ok)
	e.POST("/posts", ok)
	e.PUT("/posts/:id", ok)
	e.DELETE("/posts/admin/:id", ok)
	e.GET("/unlisted", ok)
	return e
}

func doRequest(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPolicy_Public(t *testing.T) {
	// Public routes serve anonymous and authenticated requests alike.
	rec := doRequest(newPolicyTestServer(nil), http.MethodGet, "/posts/1")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(newPolicyTestServer(&Principal{Username: "bob", Role: model.RoleUser}), http.MethodGet, "/posts/1")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPolicy_AuthenticatedRequired(t *testing.T) {
	rec := doRequest(newPolicyTestServer(nil), http.MethodPost, "/posts")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(newPolicyTestServer(&Principal{Username: "bob", Role: model.RoleUser}), http.MethodPost, "/posts")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPolicy_Owner(t *testing.T) {
	tests := []struct {
		name      string
		principal *Principal
		target    string
		expected  int
	}{
		{"anonymous is unauthenticated", nil, "/posts/1", http.StatusUnauthorized},
		{"non-owner is forbidden", &Principal{Username: "bob", Role: model.RoleUser}, "/posts/1", http.StatusForbidden},
		{"owner passes", &Principal{Username: "alice", Role: model.RoleUser}, "/posts/1", http.StatusOK},
		{"missing resource reported before ownership", &Principal{Username: "bob", Role: model.RoleUser}, "/posts/999", http.StatusNotFound},
		{"non-numeric id is not found", &Principal{Username: "bob", Role: model.RoleUser}, "/posts/abc", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(newPolicyTestServer(tt.principal), http.MethodPut, tt.target)
			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}

func TestPolicy_AdminOnly(t *testing.T) {
	rec := doRequest(newPolicyTestServer(&Principal{Username: "bob", Role: model.RoleUser}), http.MethodDelete, "/posts/admin/1")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(newPolicyTestServer(&Principal{Username: "root", Role: model.RoleAdmin}), http.MethodDelete, "/posts/admin/1")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(newPolicyTestServer(nil), http.MethodDelete, "/posts/admin/1")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPolicy_DefaultsToAuthenticated(t *testing.T) {
	// Routes without a matching rule require a principal.
	rec := doRequest(newPolicyTestServer(nil), http.MethodGet, "/unlisted")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(newPolicyTestServer(&Principal{Username: "bob", Role: model.RoleUser}), http.MethodGet, "/unlisted")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPolicy_FirstMatchWins(t *testing.T) {
	e := echo.New()
	policy := NewPolicy([]Rule{
		{Method: "GET", Path: "/things/:id", Capability: Public},
		{Method: "*", Path: "/things/:id", Capability: AdminOnly},
	})
	e.Use(policy.Enforce())
	e.GET("/things/:id", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	// The earlier Public rule shadows the later wildcard rule.
	rec := doRequest(e, http.MethodGet, "/things/1")
	assert.Equal(t, http.StatusOK, rec.Code)
}
