/*
 * @Description: 내장 프론트엔드 정적 파일 및 SPA 라우팅
 * @Author: memorymap
 * @Date: 2026-03-21 05:41:08
 * @LastEditTime: 2026-04-09 02:28:18
 * @LastEditors: memorymap
 */
package router

import (
	"crypto/md5"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/memorymap/memorymap-app/pkg/response"
)

const distRoot = "assets/dist"

// generateFileETag derives an ETag from path, modification time and size without reading the file.
func generateFileETag(filePath string, modTime time.Time, size int64) string {
	hash := md5.Sum([]byte(fmt.Sprintf("%s-%d-%d", filePath, modTime.Unix(), size)))
	return fmt.Sprintf(`"static-%x"`, hash)
}

func isHTMLFile(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	return ext == ".html" || ext == ".htm"
}

func getContentType(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".js":
		return "application/javascript; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".html":
		return "text/html; charset=utf-8"
	case ".json":
		return "application/json; charset=utf-8"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".ico":
		return "image/x-icon"
	case ".woff":
		return "font/woff"
	case ".woff2":
		return "font/woff2"
	default:
		return "application/octet-stream"
	}
}

func setCacheHeaders(c *gin.Context, filePath, etag string) {
	c.Header("ETag", etag)
	if isHTMLFile(filePath) {
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		return
	}
	c.Header("Cache-Control", "public, max-age=31536000, must-revalidate")
}

// tryServeStaticFile serves filePath from distFS. It returns false when the file does not exist.
func tryServeStaticFile(c *gin.Context, distFS fs.FS, filePath string) bool {
	file, err := distFS.Open(filePath)
	if err != nil {
		return false
	}
	defer file.Close()
	stat, err := file.Stat()
	if err != nil || stat.IsDir() {
		return false
	}

	etag := generateFileETag(filePath, stat.ModTime(), stat.Size())
	setCacheHeaders(c, filePath, etag)
	if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
		c.Status(http.StatusNotModified)
		return true
	}
	c.Header("Content-Type", getContentType(filePath))
	http.ServeFileFS(c.Writer, c.Request, distFS, filePath)
	return true
}

// SetupFrontend serves the embedded single-page app. Unknown paths without a file extension get
// index.html so the client router can handle them; unknown paths with an extension get 404.
func SetupFrontend(engine *gin.Engine, assets fs.FS) {
	distFS, err := fs.Sub(assets, distRoot)
	if err != nil {
		log.Printf("[Frontend] ⚠️ embedded %s unavailable: %v", distRoot, err)
		distFS = nil
	}

	engine.NoRoute(func(c *gin.Context) {
		reqPath := c.Request.URL.Path
		if strings.HasPrefix(reqPath, "/api/") {
			response.Fail(c, http.StatusNotFound, "API route not found")
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.String(http.StatusNotFound, "Not found")
			return
		}
		if distFS == nil {
			c.String(http.StatusNotFound, "Not found")
			return
		}

		filePath := strings.TrimPrefix(path.Clean(reqPath), "/")
		if filePath != "" && tryServeStaticFile(c, distFS, filePath) {
			return
		}
		if strings.Contains(reqPath, ".") {
			c.String(http.StatusNotFound, "Not found")
			return
		}
		if !tryServeStaticFile(c, distFS, "index.html") {
			c.String(http.StatusNotFound, "Not found")
		}
	})
}
