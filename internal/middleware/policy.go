package middleware

import (
	"context"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"blogapi/internal/errors"
	"blogapi/internal/model"
)

// Capability is the access level a route demands.
type Capability int

const (
	// Public routes are served with or without a principal.
	Public Capability = iota
	// Authenticated routes require any valid principal.
	Authenticated
	// Owner routes require the principal to own the target resource.
	Owner
	// AdminOnly routes require the admin role.
	AdminOnly
)

// OwnerLookup resolves the owning username of the resource identified by the
// route's id parameter. It returns gorm.ErrRecordNotFound when the resource
// does not exist.
type OwnerLookup func(ctx context.Context, id uint) (string, error)

// Rule maps (method, route path) to a required capability. Owner rules carry
// the lookup used to resolve the resource owner, plus the not-found error to
// surface when the resource is missing.
type Rule struct {
	Method     string // "*" matches any method
	Path       string // echo route path, e.g. "/api/posts/:id"
	Capability Capability
	Lookup     OwnerLookup
	NotFound   error
}

// Policy is a static ordered rule table: first match wins, and routes without
// a match default to Authenticated. It is evaluated strictly after
// Authenticate has run.
type Policy struct {
	rules []Rule
}

// NewPolicy builds a policy from an ordered rule list.
func NewPolicy(rules []Rule) *Policy {
	return &Policy{rules: rules}
}

// deny maps the rejection cause to the client-facing response and keeps the
// cause attached for the request logger.
func deny(cause error) error {
	he := errors.MapErrorToHTTP(cause)
	return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse()).SetInternal(cause)
}

func (p *Policy) match(method, path string) Rule {
	for _, r := range p.rules {
		if (r.Method == "*" || r.Method == method) && r.Path == path {
			return r
		}
	}
	return Rule{Method: method, Path: path, Capability: Authenticated}
}

// Enforce returns the middleware evaluating the rule table. A rejected request
// is terminated here, before any business operation runs, so an ultimately
// rejected request can have no partial side effects.
func (p *Policy) Enforce() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rule := p.match(c.Request().Method, c.Path())
			if rule.Capability == Public {
				return next(c)
			}

			principal := PrincipalFrom(c)
			if principal == nil {
				return deny(errors.ErrUnauthenticated)
			}

			switch rule.Capability {
			case Authenticated:
				return next(c)
			case AdminOnly:
				if principal.Role != model.RoleAdmin {
					return deny(errors.ErrForbidden)
				}
				return next(c)
			case Owner:
				return p.enforceOwner(c, rule, principal, next)
			default:
				return next(c)
			}
		}
	}
}

// enforceOwner loads the target resource's owner first: a missing resource is
// reported as not found before ownership is evaluated.
func (p *Policy) enforceOwner(c echo.Context, rule Rule, principal *Principal, next echo.HandlerFunc) error {
	notFound := rule.NotFound
	if notFound == nil {
		notFound = errors.ErrPostNotFound
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return deny(notFound)
	}

	owner, err := rule.Lookup(c.Request().Context(), uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return deny(notFound)
		}
		return deny(err)
	}

	if owner != principal.Username {
		return deny(errors.ErrForbidden)
	}
	return next(c)
}
