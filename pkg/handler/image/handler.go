/*
 * @Description: 이미지 업로드 및 목록 핸들러
 * @Author: memorymap
 * @Date: 2026-05-30 12:21:59
 * @LastEditTime: 2026-06-09 23:38:19
 * @LastEditors: memorymap
 */
package image_handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/memorymap/memorymap-app/pkg/constant"
	"github.com/memorymap/memorymap-app/pkg/domain/model"
	"github.com/memorymap/memorymap-app/pkg/response"
	"github.com/memorymap/memorymap-app/pkg/service/image"
)

const (
	msgUploadFailed = "업로드에 실패했습니다."
	msgFetchFailed  = "이미지 정보를 불러오지 못했습니다."
)

// ImageHandler serves the direct upload and listing endpoints.
// Their bodies are flat ({success, ...} or {error, details}) rather than the envelope.
type ImageHandler struct {
	imageSvc image.ImageService
}

func NewImageHandler(imageSvc image.ImageService) *ImageHandler {
	return &ImageHandler{imageSvc: imageSvc}
}

// detail strips the sentinel prefix so only the underlying cause is reported.
func detail(err, sentinel error) string {
	return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
}

// ReadFormFile buffers the multipart "file" part. It returns constant.ErrNoFile when absent.
func ReadFormFile(c *gin.Context) (*model.UploadFile, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, constant.ErrNoFile
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return model.ReadUploadFile(fh.Filename, fh.Header.Get("Content-Type"), f)
}

// Upload handles POST /api/upload.
func (h *ImageHandler) Upload(c *gin.Context) {
	file, err := ReadFormFile(c)
	if err != nil {
		if errors.Is(err, constant.ErrNoFile) {
			response.Error(c, http.StatusBadRequest, constant.ErrNoFile.Error())
			return
		}
		log.Printf("[Image] reading upload failed: %v", err)
		response.ErrorWithMessage(c, http.StatusInternalServerError, "Upload failed", msgUploadFailed)
		return
	}

	draft := model.ImageDraft{
		Name:      c.PostForm("name"),
		Date:      c.PostForm("date"),
		Location:  c.PostForm("location"),
		Latitude:  c.PostForm("latitude"),
		Longitude: c.PostForm("longitude"),
	}

	result, err := h.imageSvc.Upload(c.Request.Context(), file, draft)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, result)
	case errors.Is(err, constant.ErrEmptyFile), errors.Is(err, constant.ErrNoFile):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, constant.ErrStorage):
		response.ErrorWithDetails(c, http.StatusInternalServerError, "Storage upload failed", detail(err, constant.ErrStorage))
	case errors.Is(err, constant.ErrPersistence):
		response.ErrorWithDetails(c, http.StatusInternalServerError, "DB insert failed", detail(err, constant.ErrPersistence))
	default:
		log.Printf("[Image] upload failed: %v", err)
		response.ErrorWithMessage(c, http.StatusInternalServerError, "Upload failed", msgUploadFailed)
	}
}

// List handles GET /api/images.
func (h *ImageHandler) List(c *gin.Context) {
	images, err := h.imageSvc.List(c.Request.Context())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, model.ImageListResult{Success: true, Images: images})
	case errors.Is(err, constant.ErrPersistence):
		response.ErrorWithDetails(c, http.StatusInternalServerError, "DB select failed", detail(err, constant.ErrPersistence))
	default:
		log.Printf("[Image] list failed: %v", err)
		response.ErrorWithMessage(c, http.StatusInternalServerError, "Fetch failed", msgFetchFailed)
	}
}
