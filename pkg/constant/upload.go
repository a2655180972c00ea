/*
 * @Description: 업로드 상태 문구와 상수
 * @Author: memorymap
 * @Date: 2026-04-08 08:10:17
 * @LastEditTime: 2026-04-20 12:28:12
 * @LastEditors: memorymap
 */
package constant

import "time"

// Status text shown to the uploader at each phase.
const (
	StatusProcessing         = "파일 처리 중..."
	StatusMetadataExtracted  = "메타데이터 추출 완료"
	StatusMetadataMissing    = "메타데이터 정보 없음"
	StatusConverting         = "HEIC 파일 변환 중..."
	StatusConverted          = "HEIC 변환 완료"
	StatusConvertFailed      = "HEIC 파일 변환에 실패했습니다."
	StatusMetadataEdited     = "메타데이터 수정 완료"
	StatusProcessFailed      = "처리 실패"
	StatusErrorPrefix        = "오류: "
	StatusUploading          = "업로드 중..."
	StatusUploadDone         = "업로드 완료!"
	StatusUploadFailed       = "업로드 실패"
	StatusUploadFailedPrefix = "업로드 실패: "
	StatusManualRequired     = "날짜와 위치를 모두 입력해주세요."

	MessageUploadSuccess = "업로드가 완료되었습니다."
)

// Gallery panel placeholders.
const (
	PlaceholderNoLocation = "위치 정보 없음"
	PlaceholderNoDate     = "날짜 정보 없음"
)

// Map view defaults.
const (
	DefaultCenterLat = 37.5665
	DefaultCenterLng = 126.9780
	DefaultZoom      = 12
	FocusZoom        = 15
)

const (
	// DoneCloseDelay keeps the success status visible before the session closes.
	DoneCloseDelay = 1 * time.Second

	// JPEGQuality is used by every transcoding strategy.
	JPEGQuality = 92

	// PlaceSearchLimit bounds place search results.
	PlaceSearchLimit = 5

	// StorageKeyPrefix is the object key folder for uploaded images.
	StorageKeyPrefix = "images/"
)
