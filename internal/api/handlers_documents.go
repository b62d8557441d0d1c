// handlers_documents.go - Stored robot description handlers
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/volttools/urdfconv/internal/kinematics"
	"github.com/volttools/urdfconv/internal/models"
	"github.com/volttools/urdfconv/internal/output"
	"github.com/volttools/urdfconv/internal/storage"
)

const (
	defaultRecentLimit = 50
	jointParamPrefix   = "joint."
)

// DocumentHandlerImpl implements the DocumentHandler interface
type DocumentHandlerImpl struct {
	store         storage.Store
	converter     Converter
	defaultFormat output.Format
}

// NewDocumentHandler creates a new document handler instance
func NewDocumentHandler(store storage.Store, converter Converter, defaultFormat output.Format) DocumentHandler {
	if defaultFormat == "" {
		defaultFormat = output.FormatJSON
	}
	return &DocumentHandlerImpl{
		store:         store,
		converter:     converter,
		defaultFormat: defaultFormat,
	}
}

// HandleUploadDocument accepts a document as base64 JSON and saves it to storage
func (h *DocumentHandlerImpl) HandleUploadDocument(c echo.Context) error {
	var req uploadDocumentRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	if err := req.validate(); err != nil {
		return err
	}

	decoded, err := req.decode()
	if err != nil {
		return err
	}

	info, err := h.store.SaveBytes(req.Name, decoded)
	if err != nil {
		return NewInternalError("failed to save document", err)
	}

	return c.JSON(http.StatusCreated, info)
}

// HandleGetRecentDocuments returns recently uploaded documents, newest first
func (h *DocumentHandlerImpl) HandleGetRecentDocuments(c echo.Context) error {
	limit := defaultRecentLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return NewValidationError("limit")
		}
		limit = n
	}

	docs, err := h.store.List(limit)
	if err != nil {
		return NewInternalError("failed to list documents", err)
	}
	if docs == nil {
		docs = []*models.DocumentInfo{}
	}

	return c.JSON(http.StatusOK, docs)
}

// HandleGetDocument returns metadata for a specific document
func (h *DocumentHandlerImpl) HandleGetDocument(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	info, err := h.store.Get(id)
	if err != nil {
		return storeError(err, id)
	}

	return c.JSON(http.StatusOK, info)
}

// HandleDeleteDocument deletes a document
func (h *DocumentHandlerImpl) HandleDeleteDocument(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	if err := h.store.Delete(id); err != nil {
		return storeError(err, id)
	}

	return c.NoContent(http.StatusNoContent)
}

// HandleRenameDocument updates the name of a document
func (h *DocumentHandlerImpl) HandleRenameDocument(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	var req renameDocumentRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	if req.Name == "" {
		return NewValidationError("name")
	}

	info, err := h.store.Rename(id, req.Name)
	if err != nil {
		return storeError(err, id)
	}

	return c.JSON(http.StatusOK, info)
}

// HandleGetRobot converts a stored document and responds with the result.
// The outcome is recorded on the document metadata.
func (h *DocumentHandlerImpl) HandleGetRobot(c echo.Context) error {
	format, err := requestFormat(c, h.defaultFormat)
	if err != nil {
		return err
	}

	robot, err := h.convertStored(c.Param("id"))
	if err != nil {
		return err
	}

	return respondRobot(c, h.converter, robot, format)
}

// HandleGetKinematics computes link poses of a stored document.
// Joint positions are given as joint.<name>=<radians or meters>.
func (h *DocumentHandlerImpl) HandleGetKinematics(c echo.Context) error {
	values := make(map[string]float64)
	for key, vals := range c.QueryParams() {
		name, ok := strings.CutPrefix(key, jointParamPrefix)
		if !ok || len(vals) == 0 {
			continue
		}
		if name == "" {
			return NewValidationError(key)
		}
		v, err := kinematics.ParseJointValue(vals[len(vals)-1])
		if err != nil {
			return NewBadRequestError(fmt.Sprintf("invalid value for %s", key), err)
		}
		values[name] = v
	}

	robot, err := h.convertStored(c.Param("id"))
	if err != nil {
		return err
	}

	base := c.QueryParam("base")
	if base == "" {
		roots := kinematics.RootLinks(robot)
		if len(roots) == 0 {
			return NewValidationError("base")
		}
		base = roots[0]
	}

	poses := kinematics.ComputeFK(robot, values, base)
	resp := kinematicsResponse{
		Robot: robot.Name,
		Base:  base,
		Links: make(map[string]linkPose, len(poses)),
	}
	for link, t := range poses {
		resp.Links[link] = linkPose{Position: t.Position(), Transform: t}
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *DocumentHandlerImpl) convertStored(id string) (*models.Robot, error) {
	if id == "" {
		return nil, NewValidationError("id")
	}

	data, err := h.store.ReadAll(id)
	if err != nil {
		return nil, storeError(err, id)
	}

	robot, err := h.converter.Convert(data)
	if err != nil {
		if _, markErr := h.store.MarkFailed(id, err); markErr != nil {
			return nil, storeError(markErr, id)
		}
		return nil, convertError(err)
	}

	if _, err := h.store.MarkConverted(id, robot); err != nil {
		return nil, storeError(err, id)
	}
	return robot, nil
}

type linkPose struct {
	Position  models.Vec3          `json:"position"`
	Transform kinematics.Transform `json:"transform"`
}

type kinematicsResponse struct {
	Robot string              `json:"robot"`
	Base  string              `json:"base"`
	Links map[string]linkPose `json:"links"`
}
