/*
 * @Description: 공통 에러 정의
 * @Author: memorymap
 * @Date: 2026-05-04 22:30:20
 * @LastEditTime: 2026-08-09 14:50:49
 * @LastEditors: memorymap
 */
package constant

import "errors"

// Business errors. Handlers translate them to HTTP status codes with errors.Is.
var (
	// ErrNotFound maps to 404.
	ErrNotFound = errors.New("resource not found")

	// ErrBadRequest maps to 400.
	ErrBadRequest = errors.New("bad request")

	// ErrNoFile is returned when an upload request carries no file part. Maps to 400.
	ErrNoFile = errors.New("No file uploaded")

	// ErrEmptyFile is returned for zero-byte uploads before any network call. Maps to 400.
	ErrEmptyFile = errors.New("empty file")

	// ErrValidation covers user-correctable input problems such as incomplete manual metadata. Maps to 400.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidState is returned when a session operation is not allowed in the current state. Maps to 409.
	ErrInvalidState = errors.New("operation not allowed in current state")

	// ErrTranscodeFailed means every conversion strategy failed. The original file is never submitted.
	ErrTranscodeFailed = errors.New("image conversion failed")

	// ErrStorage wraps object storage failures. Maps to 500.
	ErrStorage = errors.New("storage upload failed")

	// ErrPersistence wraps database failures. Maps to 500.
	ErrPersistence = errors.New("database operation failed")

	// ErrTooManyRequests maps to 429.
	ErrTooManyRequests = errors.New("too many requests")
)
