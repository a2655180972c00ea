/*
 * @Description:
 * @Author: memorymap
 * @Date: 2026-05-19 14:15:47
 * @LastEditTime: 2026-07-24 16:24:34
 * @LastEditors: memorymap
 */
package version_handler

import (
	"github.com/gin-gonic/gin"

	"github.com/memorymap/memorymap-app/internal/pkg/version"
	"github.com/memorymap/memorymap-app/pkg/response"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func noCache(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate, private, max-age=0")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
}

// GetVersion handles GET /api/version.
func (h *Handler) GetVersion(c *gin.Context) {
	noCache(c)
	response.Success(c, version.GetBuildInfo(), "ok")
}

// GetVersionString handles GET /api/version/string.
func (h *Handler) GetVersionString(c *gin.Context) {
	noCache(c)
	c.JSON(200, gin.H{"version": version.GetVersionString()})
}
