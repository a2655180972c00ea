/*
 * @Description: 업로드 세션 핸들러
 * @Author: memorymap
 * @Date: 2026-03-05 02:48:35
 * @LastEditTime: 2026-04-22 08:55:41
 * @LastEditors: memorymap
 */
package session_handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/memorymap/memorymap-app/pkg/constant"
	"github.com/memorymap/memorymap-app/pkg/domain/model"
	image_handler "github.com/memorymap/memorymap-app/pkg/handler/image"
	"github.com/memorymap/memorymap-app/pkg/response"
	"github.com/memorymap/memorymap-app/pkg/service/upload"
)

// SessionHandler exposes the upload state machine under /api/sessions.
type SessionHandler struct {
	manager *upload.Manager
}

func NewSessionHandler(manager *upload.Manager) *SessionHandler {
	return &SessionHandler{manager: manager}
}

// Create handles POST /api/sessions (multipart "file").
func (h *SessionHandler) Create(c *gin.Context) {
	file, err := image_handler.ReadFormFile(c)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	view, err := h.manager.Create(c.Request.Context(), file)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.SuccessWithStatus(c, http.StatusCreated, view, view.Status)
}

// Get handles GET /api/sessions/:id.
func (h *SessionHandler) Get(c *gin.Context) {
	view, err := h.manager.Get(c.Param("id"))
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, view, view.Status)
}

// ReplaceFile handles PUT /api/sessions/:id/file.
func (h *SessionHandler) ReplaceFile(c *gin.Context) {
	file, err := image_handler.ReadFormFile(c)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	view, err := h.manager.Select(c.Request.Context(), c.Param("id"), file)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, view, view.Status)
}

// Preview handles GET /api/sessions/:id/preview and streams the displayable image.
func (h *SessionHandler) Preview(c *gin.Context) {
	path, contentType, err := h.manager.Preview(c.Param("id"))
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	if contentType != "" {
		c.Header("Content-Type", contentType)
	}
	c.Header("Cache-Control", "no-store")
	c.File(path)
}

// Rename handles PUT /api/sessions/:id/name.
func (h *SessionHandler) Rename(c *gin.Context) {
	var req model.RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	view, err := h.manager.Rename(c.Param("id"), req.Name)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, view, view.Status)
}

// SearchPlaces handles GET /api/sessions/:id/places?q=.
func (h *SessionHandler) SearchPlaces(c *gin.Context) {
	places, err := h.manager.SearchPlaces(c.Request.Context(), c.Param("id"), c.Query("q"))
	if err != nil {
		if response.StatusFor(err) == http.StatusInternalServerError {
			log.Printf("[Session] place search failed: %v", err)
		}
		response.FailWithError(c, err)
		return
	}
	response.Success(c, places, "ok")
}

// SubmitMetadata handles PUT /api/sessions/:id/metadata {date, placeId}.
func (h *SessionHandler) SubmitMetadata(c *gin.Context) {
	var req model.ManualMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, constant.StatusManualRequired)
		return
	}
	view, err := h.manager.SubmitManualMetadata(c.Param("id"), req)
	if err != nil {
		if errors.Is(err, constant.ErrValidation) {
			response.Fail(c, http.StatusBadRequest, constant.StatusManualRequired)
			return
		}
		response.FailWithError(c, err)
		return
	}
	response.Success(c, view, view.Status)
}

// SkipMetadata handles POST /api/sessions/:id/metadata/skip.
func (h *SessionHandler) SkipMetadata(c *gin.Context) {
	view, err := h.manager.SkipManualMetadata(c.Param("id"))
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, view, view.Status)
}

// Submit handles POST /api/sessions/:id/submit.
func (h *SessionHandler) Submit(c *gin.Context) {
	view, err := h.manager.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		if view != nil {
			// Backend failure: the session is Failed and its status says why.
			c.JSON(http.StatusInternalServerError, response.Response{
				Code:    http.StatusInternalServerError,
				Message: view.UploadStatus,
				Data:    view,
			})
			return
		}
		response.FailWithError(c, err)
		return
	}
	response.Success(c, view, view.UploadStatus)
}

// Close handles DELETE /api/sessions/:id.
func (h *SessionHandler) Close(c *gin.Context) {
	if err := h.manager.Close(c.Param("id")); err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, nil, "closed")
}
