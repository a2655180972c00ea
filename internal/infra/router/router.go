/*
 * @Description: API 라우트 등록
 * @Author: memorymap
 * @Date: 2026-04-11 06:23:54
 * @LastEditTime: 2026-07-10 12:58:42
 * @LastEditors: memorymap
 */
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/memorymap/memorymap-app/internal/app/middleware"
	gallery_handler "github.com/memorymap/memorymap-app/pkg/handler/gallery"
	image_handler "github.com/memorymap/memorymap-app/pkg/handler/image"
	place_handler "github.com/memorymap/memorymap-app/pkg/handler/place"
	public_handler "github.com/memorymap/memorymap-app/pkg/handler/public"
	session_handler "github.com/memorymap/memorymap-app/pkg/handler/session"
	version_handler "github.com/memorymap/memorymap-app/pkg/handler/version"
)

// Uploads are limited per client IP.
const (
	uploadRequestsPerMinute = 30
	uploadBurst             = 10
)

// NoCacheMiddleware keeps API responses out of browser and CDN caches.
func NoCacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate, private, max-age=0")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Next()
	}
}

// LocalStorage describes a filesystem storage root that must be served over HTTP.
type LocalStorage struct {
	Prefix string
	Root   string
}

// Router holds every handler the HTTP surface dispatches to.
type Router struct {
	imageHandler   *image_handler.ImageHandler
	sessionHandler *session_handler.SessionHandler
	placeHandler   *place_handler.PlaceHandler
	galleryHandler *gallery_handler.GalleryHandler
	publicHandler  *public_handler.PublicHandler
	versionHandler *version_handler.Handler
	localStorage   *LocalStorage
}

// NewRouter wires the handlers. localStorage may be nil when objects live in a remote bucket.
func NewRouter(
	imageHandler *image_handler.ImageHandler,
	sessionHandler *session_handler.SessionHandler,
	placeHandler *place_handler.PlaceHandler,
	galleryHandler *gallery_handler.GalleryHandler,
	publicHandler *public_handler.PublicHandler,
	versionHandler *version_handler.Handler,
	localStorage *LocalStorage,
) *Router {
	return &Router{
		imageHandler:   imageHandler,
		sessionHandler: sessionHandler,
		placeHandler:   placeHandler,
		galleryHandler: galleryHandler,
		publicHandler:  publicHandler,
		versionHandler: versionHandler,
		localStorage:   localStorage,
	}
}

// Setup registers all routes on the engine.
func (r *Router) Setup(engine *gin.Engine) {
	apiGroup := engine.Group("/api")
	apiGroup.Use(NoCacheMiddleware())

	r.registerImageRoutes(apiGroup)
	r.registerSessionRoutes(apiGroup)
	r.registerPlaceRoutes(apiGroup)
	r.registerGalleryRoutes(apiGroup)
	r.registerPublicRoutes(apiGroup)
	r.registerVersionRoutes(apiGroup)

	if r.localStorage != nil && r.localStorage.Prefix != "" {
		engine.Static(r.localStorage.Prefix, r.localStorage.Root)
	}
}

func (r *Router) registerImageRoutes(api *gin.RouterGroup) {
	api.POST("/upload", middleware.CustomRateLimit(uploadRequestsPerMinute, uploadBurst), r.imageHandler.Upload)
	api.GET("/images", r.imageHandler.List)
}

func (r *Router) registerSessionRoutes(api *gin.RouterGroup) {
	sessions := api.Group("/sessions")
	{
		sessions.POST("", middleware.CustomRateLimit(uploadRequestsPerMinute, uploadBurst), r.sessionHandler.Create)
		sessions.GET("/:id", r.sessionHandler.Get)
		sessions.PUT("/:id/file", r.sessionHandler.ReplaceFile)
		sessions.GET("/:id/preview", r.sessionHandler.Preview)
		sessions.PUT("/:id/name", r.sessionHandler.Rename)
		sessions.GET("/:id/places", r.sessionHandler.SearchPlaces)
		sessions.PUT("/:id/metadata", r.sessionHandler.SubmitMetadata)
		sessions.POST("/:id/metadata/skip", r.sessionHandler.SkipMetadata)
		sessions.POST("/:id/submit", r.sessionHandler.Submit)
		sessions.DELETE("/:id", r.sessionHandler.Close)
	}
}

func (r *Router) registerPlaceRoutes(api *gin.RouterGroup) {
	places := api.Group("/places")
	{
		places.GET("/search", r.placeHandler.Search)
		places.GET("/reverse", r.placeHandler.Reverse)
	}
}

func (r *Router) registerGalleryRoutes(api *gin.RouterGroup) {
	gallery := api.Group("/gallery")
	{
		gallery.GET("", r.galleryHandler.View)
		gallery.GET("/focus/:id", r.galleryHandler.Focus)
	}
}

func (r *Router) registerPublicRoutes(api *gin.RouterGroup) {
	api.GET("/config", r.publicHandler.GetClientConfig)
}

func (r *Router) registerVersionRoutes(api *gin.RouterGroup) {
	api.GET("/version", r.versionHandler.GetVersion)
	api.GET("/version/string", r.versionHandler.GetVersionString)
}
