/*
 * @Description: 장소 검색 핸들러
 * @Author: memorymap
 * @Date: 2026-05-24 07:02:32
 * @LastEditTime: 2026-08-22 23:16:03
 * @LastEditors: memorymap
 */
package place_handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/memorymap/memorymap-app/pkg/response"
	"github.com/memorymap/memorymap-app/pkg/service/geocode"
)

type PlaceHandler struct {
	resolver geocode.LocationResolver
}

func NewPlaceHandler(resolver geocode.LocationResolver) *PlaceHandler {
	return &PlaceHandler{resolver: resolver}
}

// Search handles GET /api/places/search?q=.
func (h *PlaceHandler) Search(c *gin.Context) {
	places, err := h.resolver.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		log.Printf("[Place] search failed: %v", err)
		response.Fail(c, http.StatusBadGateway, "장소 검색에 실패했습니다.")
		return
	}
	response.Success(c, places, "ok")
}

// Reverse handles GET /api/places/reverse?lat=&lon=. It never fails on upstream errors.
func (h *PlaceHandler) Reverse(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		response.Fail(c, http.StatusBadRequest, "lat and lon must be valid decimal degrees")
		return
	}
	location := h.resolver.ReverseGeocode(c.Request.Context(), lat, lon)
	response.Success(c, gin.H{"location": location}, "ok")
}
