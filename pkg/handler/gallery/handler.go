/*
 * @Description: 지도 갤러리 핸들러
 * @Author: memorymap
 * @Date: 2026-03-10 13:24:27
 * @LastEditTime: 2026-04-17 06:40:08
 * @LastEditors: memorymap
 */
package gallery_handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/memorymap/memorymap-app/pkg/constant"
	"github.com/memorymap/memorymap-app/pkg/response"
	"github.com/memorymap/memorymap-app/pkg/service/gallery"
)

type GalleryHandler struct {
	gallerySvc gallery.GalleryService
}

func NewGalleryHandler(gallerySvc gallery.GalleryService) *GalleryHandler {
	return &GalleryHandler{gallerySvc: gallerySvc}
}

// View handles GET /api/gallery?zoom=.
func (h *GalleryHandler) View(c *gin.Context) {
	zoom, err := strconv.Atoi(c.DefaultQuery("zoom", strconv.Itoa(constant.DefaultZoom)))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "zoom must be an integer")
		return
	}
	view, err := h.gallerySvc.View(c.Request.Context(), zoom)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, view, "ok")
}

// Focus handles GET /api/gallery/focus/:id.
func (h *GalleryHandler) Focus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid image id")
		return
	}
	view, err := h.gallerySvc.Focus(c.Request.Context(), id)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, view, "ok")
}
