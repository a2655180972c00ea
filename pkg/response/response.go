/*
 * @Description:
 * @Author: memorymap
 * @Date: 2026-03-29 20:27:54
 * @LastEditTime: 2026-04-18 05:28:49
 * @LastEditors: memorymap
 */

// Package response writes the JSON bodies returned by every API handler.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/memorymap/memorymap-app/pkg/constant"
)

// Response is the envelope used by the session, place and gallery APIs.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func Success(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: message,
		Data:    data,
	})
}

func Fail(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// SuccessWithStatus allows 201 Created and similar codes.
func SuccessWithStatus(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// The upload and listing endpoints keep the flat body shape the map client reads.

// ErrorBody is {error, details?, message?}.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Message string `json:"message,omitempty"`
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorBody{Error: message})
}

func ErrorWithDetails(c *gin.Context, code int, message, details string) {
	c.JSON(code, ErrorBody{Error: message, Details: details})
}

// ErrorWithMessage adds a user-facing message to the flat error body.
func ErrorWithMessage(c *gin.Context, code int, message, userMessage string) {
	c.JSON(code, ErrorBody{Error: message, Message: userMessage})
}

// StatusFor maps the business errors in pkg/constant to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, constant.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, constant.ErrNoFile),
		errors.Is(err, constant.ErrEmptyFile),
		errors.Is(err, constant.ErrValidation),
		errors.Is(err, constant.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, constant.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, constant.ErrTooManyRequests):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// FailWithError writes the envelope with the status StatusFor picks.
func FailWithError(c *gin.Context, err error) {
	Fail(c, StatusFor(err), err.Error())
}
