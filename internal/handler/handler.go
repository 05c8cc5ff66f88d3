package handler

import (
	"github.com/labstack/echo/v4"

	"blogapi/internal/errors"
)

// httpError maps a domain error to the client-facing response. The original
// error rides along as the internal cause so the request logger records it
// while the body only carries the mapped message and code.
func httpError(err error) error {
	he := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse()).SetInternal(err)
}
