package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"blogapi/internal/auth"
	"blogapi/internal/errors"
	"blogapi/internal/handler"
	"blogapi/internal/middleware"
	"blogapi/internal/repository"
)

// Register wires routes, authentication and the authorization policy table.
func Register(
	e *echo.Echo,
	tokens *auth.TokenService,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	postHandler *handler.PostHandler,
	commentHandler *handler.CommentHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Every request runs authentication first; the policy table then decides
	// whether the (possibly absent) principal is acceptable for the route.
	policy := middleware.NewPolicy([]middleware.Rule{
		{Method: "GET", Path: "/healthz", Capability: middleware.Public},
		{Method: "GET", Path: "/swagger/*", Capability: middleware.Public},

		{Method: "POST", Path: "/api/auth/register", Capability: middleware.Public},
		{Method: "POST", Path: "/api/auth/login", Capability: middleware.Public},
		{Method: "POST", Path: "/api/auth/refresh", Capability: middleware.Public},

		{Method: "GET", Path: "/api/posts", Capability: middleware.Public},
		{Method: "GET", Path: "/api/posts/:id", Capability: middleware.Public},
		{Method: "GET", Path: "/api/posts/:id/likes", Capability: middleware.Public},
		{Method: "GET", Path: "/api/posts/:id/comments", Capability: middleware.Public},
		{Method: "GET", Path: "/api/posts/:id/comments/count", Capability: middleware.Public},
		{Method: "GET", Path: "/api/comments/:id", Capability: middleware.Public},

		{Method: "POST", Path: "/api/posts", Capability: middleware.Authenticated},
		{Method: "POST", Path: "/api/posts/:id/like", Capability: middleware.Authenticated},
		{Method: "POST", Path: "/api/posts/:id/comments", Capability: middleware.Authenticated},
		{Method: "GET", Path: "/api/me", Capability: middleware.Authenticated},

		{Method: "PUT", Path: "/api/posts/:id", Capability: middleware.Owner,
			Lookup: postRepo.OwnerUsername, NotFound: errors.ErrPostNotFound},
		{Method: "DELETE", Path: "/api/posts/:id", Capability: middleware.Owner,
			Lookup: postRepo.OwnerUsername, NotFound: errors.ErrPostNotFound},
		{Method: "PUT", Path: "/api/comments/:id", Capability: middleware.Owner,
			Lookup: commentRepo.OwnerUsername, NotFound: errors.ErrCommentNotFound},
		{Method: "DELETE", Path: "/api/comments/:id", Capability: middleware.Owner,
			Lookup: commentRepo.OwnerUsername, NotFound: errors.ErrCommentNotFound},

		{Method: "DELETE", Path: "/api/posts/admin/:id", Capability: middleware.AdminOnly},
	})

	e.Use(middleware.Authenticate(tokens, userRepo))
	e.Use(policy.Enforce())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Auth routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	api.GET("/me", userHandler.Me)

	// Post routes
	api.POST("/posts", postHandler.Create)
	api.GET("/posts", postHandler.List)
	api.GET("/posts/:id", postHandler.Get)
	api.PUT("/posts/:id", postHandler.Update)
	api.DELETE("/posts/:id", postHandler.Delete)
	api.DELETE("/posts/admin/:id", postHandler.AdminDelete)

	// Like routes
	api.POST("/posts/:id/like", postHandler.ToggleLike)
	api.GET("/posts/:id/likes", postHandler.LikeCount)

	// Comment routes
	api.POST("/posts/:id/comments", commentHandler.Add)
	api.GET("/posts/:id/comments", commentHandler.ListByPost)
	api.GET("/posts/:id/comments/count", commentHandler.CountByPost)
	api.GET("/comments/:id", commentHandler.Get)
	api.PUT("/comments/:id", commentHandler.Update)
	api.DELETE("/comments/:id", commentHandler.Delete)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
