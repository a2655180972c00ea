/*
 * @Description:
 * @Author: memorymap
 * @Date: 2026-05-07 01:13:24
 * @LastEditTime: 2026-05-31 13:40:37
 * @LastEditors: memorymap
 */
package model

// LatLng is a decimal-degree coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GalleryPanelPage is one page of a marker's detail panel.
type GalleryPanelPage struct {
	ID        int64  `json:"id"`
	ImageURL  string `json:"image_url"`
	ImageName string `json:"image_name"`
	Location  string `json:"location"`
	DateTime  string `json:"date_time"`
}

// LocationGroup holds records sharing an identical "lat,lon" text key.
type LocationGroup struct {
	Key      string         `json:"key"`
	Position LatLng         `json:"position"`
	Records  []*ImageRecord `json:"-"`
}

// GalleryMarker is one marker per LocationGroup.
type GalleryMarker struct {
	Key      string             `json:"key"`
	Position LatLng             `json:"position"`
	Title    string             `json:"title"`
	IconURL  string             `json:"icon_url"`
	Count    int                `json:"count"`
	Pages    []GalleryPanelPage `json:"pages"`
}

// GalleryCluster aggregates nearby markers at a zoom level.
type GalleryCluster struct {
	Position   LatLng   `json:"position"`
	Count      int      `json:"count"`
	MarkerKeys []string `json:"marker_keys"`
}

// MapView is a map center and zoom level.
type MapView struct {
	Center LatLng `json:"center"`
	Zoom   int    `json:"zoom"`
}

// GalleryListItem is one row of the sorted side list.
type GalleryListItem struct {
	ID        int64  `json:"id"`
	ImageURL  string `json:"image_url"`
	ImageName string `json:"image_name"`
	Location  string `json:"location"`
	DateTime  string `json:"date_time"`
	Position  LatLng `json:"position"`
}

// GalleryView is everything the map client needs to render.
type GalleryView struct {
	View     MapView           `json:"view"`
	Markers  []GalleryMarker   `json:"markers"`
	Clusters []GalleryCluster  `json:"clusters"`
	List     []GalleryListItem `json:"list"`
}
