// handlers_convert.go - One-shot conversion handlers
package api

import (
	"bytes"
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/volttools/urdfconv/internal/models"
	"github.com/volttools/urdfconv/internal/output"
)

// ConvertHandlerImpl implements the ConvertHandler interface
type ConvertHandlerImpl struct {
	converter     Converter
	defaultFormat output.Format
}

// NewConvertHandler creates a new convert handler instance
func NewConvertHandler(converter Converter, defaultFormat output.Format) ConvertHandler {
	if defaultFormat == "" {
		defaultFormat = output.FormatJSON
	}
	return &ConvertHandlerImpl{
		converter:     converter,
		defaultFormat: defaultFormat,
	}
}

// HandleConvert converts the request body and responds with the result.
// The body is either the raw document or a JSON upload request.
func (h *ConvertHandlerImpl) HandleConvert(c echo.Context) error {
	format, err := requestFormat(c, h.defaultFormat)
	if err != nil {
		return err
	}

	data, err := readDocumentBody(c)
	if err != nil {
		return err
	}

	robot, err := h.converter.Convert(data)
	if err != nil {
		return convertError(err)
	}

	return respondRobot(c, h.converter, robot, format)
}

// requestFormat resolves the ?format= query parameter.
func requestFormat(c echo.Context, fallback output.Format) (output.Format, error) {
	raw := c.QueryParam("format")
	if raw == "" {
		return fallback, nil
	}
	f, err := output.ParseFormat(raw)
	if err != nil {
		return "", NewBadRequestError("invalid format", err)
	}
	return f, nil
}

// readDocumentBody returns the document bytes of a convert request.
func readDocumentBody(c echo.Context) ([]byte, error) {
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		var req uploadDocumentRequest
		if err := c.Bind(&req); err != nil {
			return nil, NewBadRequestError("invalid JSON body", err)
		}
		if req.Data == "" {
			return nil, NewValidationError("data")
		}
		return req.decode()
	}

	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, NewBadRequestError("failed to read request body", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, NewValidationError("body")
	}
	return data, nil
}

// respondRobot writes robot in format f.
func respondRobot(c echo.Context, conv Converter, robot *models.Robot, f output.Format) error {
	var buf bytes.Buffer
	if err := conv.Encode(&buf, robot, f); err != nil {
		return NewInternalError("failed to encode robot", err)
	}
	return c.Blob(http.StatusOK, f.ContentType(), buf.Bytes())
}

// Request/Response types

type uploadDocumentRequest struct {
	Name string `json:"name"`
	Data string `json:"data"` // Base64-encoded content
}

func (r *uploadDocumentRequest) validate() error {
	if r.Name == "" {
		return NewValidationError("name")
	}
	if r.Data == "" {
		return NewValidationError("data")
	}
	return nil
}

func (r *uploadDocumentRequest) decode() ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(r.Data)
	if err != nil {
		return nil, NewBadRequestError("invalid base64 data", err)
	}
	return decoded, nil
}

type renameDocumentRequest struct {
	Name string `json:"name"`
}
