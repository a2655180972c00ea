/*
 * @Description:
 * @Author: memorymap
 * @Date: 2026-04-08 00:02:46
 * @LastEditTime: 2026-07-05 12:40:48
 * @LastEditors: memorymap
 */
package public_handler

import (
	"github.com/gin-gonic/gin"

	"github.com/memorymap/memorymap-app/pkg/config"
	"github.com/memorymap/memorymap-app/pkg/response"
	"github.com/memorymap/memorymap-app/pkg/service/gallery"
)

// PublicHandler serves settings the map client needs before its first request.
type PublicHandler struct {
	cfg *config.Config
}

func NewPublicHandler(cfg *config.Config) *PublicHandler {
	return &PublicHandler{cfg: cfg}
}

// ClientConfig is the body of GET /api/config.
type ClientConfig struct {
	MapAPIKey   string      `json:"mapApiKey"`
	APIBase     string      `json:"apiBase"`
	DefaultView interface{} `json:"defaultView"`
	MaxUploadMB int         `json:"maxUploadMB"`
}

// GetClientConfig handles GET /api/config.
func (h *PublicHandler) GetClientConfig(c *gin.Context) {
	response.Success(c, ClientConfig{
		MapAPIKey:   h.cfg.GetString(config.KeyMapAPIKey),
		APIBase:     h.cfg.GetString(config.KeyServerPublicAPIBase),
		DefaultView: gallery.DefaultView(),
		MaxUploadMB: h.cfg.GetInt(config.KeyUploadMaxSizeMB),
	}, "ok")
}
