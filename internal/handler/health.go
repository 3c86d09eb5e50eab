package handler // handler contains HTTP handlers for incoming requests

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health responds to liveness probes. It performs no dependency
// checks; a 200 only means the process is up and serving.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
