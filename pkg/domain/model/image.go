/*
 * @Description: image_info 레코드 모델
 * @Author: memorymap
 * @Date: 2026-03-22 03:48:09
 * @LastEditTime: 2026-05-17 05:13:47
 * @LastEditors: memorymap
 */
package model

import "time"

// ImageRecord is one row of the image_info table.
// Latitude and Longitude hold decimal degrees as text and are either both set or both nil.
type ImageRecord struct {
	ID               int64     `json:"id"`
	ImageName        string    `json:"image_name"`
	ImageURL         string    `json:"image_url"`
	OriginalFileName string    `json:"original_file_name"`
	DateTime         *string   `json:"date_time"`
	Location         *string   `json:"location"`
	Latitude         *string   `json:"latitude"`
	Longitude        *string   `json:"longitude"`
	FileSize         int64     `json:"file_size"`
	FileType         string    `json:"file_type"`
	CreatedAt        time.Time `json:"created_at"`
	ImageUploadedAt  time.Time `json:"image_uploaded_at"`
}

// ImageDraft carries the fields submitted alongside an upload. Empty strings are stored as NULL.
type ImageDraft struct {
	Name      string
	Date      string
	Location  string
	Latitude  string
	Longitude string
}

// UploadResult is the payload returned after a successful upload.
type UploadResult struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageURL"`
	Message  string `json:"message"`
}

// ImageListResult is the payload returned by the listing endpoint.
type ImageListResult struct {
	Success bool           `json:"success"`
	Images  []*ImageRecord `json:"images"`
}
