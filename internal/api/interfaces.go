// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"io"

	"github.com/labstack/echo/v4"
	"github.com/volttools/urdfconv/internal/models"
	"github.com/volttools/urdfconv/internal/output"
)

// ConvertHandler handles one-shot conversions of request bodies
type ConvertHandler interface {
	HandleConvert(c echo.Context) error
}

// DocumentHandler handles stored robot description operations
type DocumentHandler interface {
	HandleUploadDocument(c echo.Context) error
	HandleGetRecentDocuments(c echo.Context) error
	HandleGetDocument(c echo.Context) error
	HandleDeleteDocument(c echo.Context) error
	HandleRenameDocument(c echo.Context) error
	HandleGetRobot(c echo.Context) error
	HandleGetKinematics(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// Converter defines the conversion operations the handlers need.
// This allows mocking in tests
type Converter interface {
	Convert(data []byte) (*models.Robot, error)
	Encode(w io.Writer, robot *models.Robot, f output.Format) error
}
