/*
 * @Description: 지도 마커 그룹화와 목록 정렬
 * @Author: memorymap
 * @Date: 2026-03-31 15:29:41
 * @LastEditTime: 2026-04-13 21:54:38
 * @LastEditors: memorymap
 */

// Package gallery turns the stored image records into map markers, clusters and a side list.
package gallery

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/memorymap/memorymap-app/pkg/constant"
	"github.com/memorymap/memorymap-app/pkg/domain/model"
)

// ClusterGridSize is the cluster cell edge in screen pixels.
const ClusterGridSize = 60

const (
	minZoom  = 0
	maxZoom  = 22
	tileSize = 256
)

// RecordSource is satisfied by image.ImageService.
type RecordSource interface {
	List(ctx context.Context) ([]*model.ImageRecord, error)
	Get(ctx context.Context, id int64) (*model.ImageRecord, error)
}

type GalleryService interface {
	// View builds markers, clusters for zoom and the sorted list from a fresh read of the records.
	View(ctx context.Context, zoom int) (*model.GalleryView, error)
	// Focus centers the map on one record.
	Focus(ctx context.Context, id int64) (*model.MapView, error)
}

type galleryService struct {
	source RecordSource
}

func NewGalleryService(source RecordSource) GalleryService {
	return &galleryService{source: source}
}

func (s *galleryService) View(ctx context.Context, zoom int) (*model.GalleryView, error) {
	records, err := s.source.List(ctx)
	if err != nil {
		return nil, err
	}
	return Build(records, zoom), nil
}

func (s *galleryService) Focus(ctx context.Context, id int64) (*model.MapView, error) {
	record, err := s.source.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	view, ok := FocusView(record)
	if !ok {
		return nil, fmt.Errorf("%w: image %d has no location", constant.ErrValidation, id)
	}
	return &view, nil
}

// Build assembles the full gallery view. It is a pure function of its input.
func Build(records []*model.ImageRecord, zoom int) *model.GalleryView {
	zoom = clampZoom(zoom)
	groups := GroupByLocation(records)
	markers := BuildMarkers(groups)
	return &model.GalleryView{
		View:     model.MapView{Center: DefaultView().Center, Zoom: zoom},
		Markers:  markers,
		Clusters: Cluster(markers, zoom),
		List:     SortedList(records),
	}
}

// DefaultView is the initial map position.
func DefaultView() model.MapView {
	return model.MapView{
		Center: model.LatLng{Lat: constant.DefaultCenterLat, Lng: constant.DefaultCenterLng},
		Zoom:   constant.DefaultZoom,
	}
}

func clampZoom(zoom int) int {
	if zoom < minZoom || zoom > maxZoom {
		return constant.DefaultZoom
	}
	return zoom
}

// position parses the record's coordinate pair. ok is false when either value is missing,
// unparseable or out of range.
func position(r *model.ImageRecord) (model.LatLng, bool) {
	if r == nil || r.Latitude == nil || r.Longitude == nil {
		return model.LatLng{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(*r.Latitude), 64)
	if err != nil {
		return model.LatLng{}, false
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(*r.Longitude), 64)
	if err != nil {
		return model.LatLng{}, false
	}
	if math.IsNaN(lat) || math.IsNaN(lng) || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return model.LatLng{}, false
	}
	return model.LatLng{Lat: lat, Lng: lng}, true
}

// LocationKey is "{lat},{lon}" on the stored text. "37.50" and "37.5" are different keys.
func LocationKey(r *model.ImageRecord) string {
	return strings.TrimSpace(*r.Latitude) + "," + strings.TrimSpace(*r.Longitude)
}

// GroupByLocation drops records without a valid position and groups the rest by LocationKey,
// in order of first appearance.
func GroupByLocation(records []*model.ImageRecord) []*model.LocationGroup {
	index := make(map[string]*model.LocationGroup)
	var groups []*model.LocationGroup
	for _, r := range records {
		pos, ok := position(r)
		if !ok {
			continue
		}
		key := LocationKey(r)
		g, exists := index[key]
		if !exists {
			g = &model.LocationGroup{Key: key, Position: pos}
			index[key] = g
			groups = append(groups, g)
		}
		g.Records = append(g.Records, r)
	}
	return groups
}

func panelPage(r *model.ImageRecord) model.GalleryPanelPage {
	return model.GalleryPanelPage{
		ID:        r.ID,
		ImageURL:  r.ImageURL,
		ImageName: r.ImageName,
		Location:  textOr(r.Location, constant.PlaceholderNoLocation),
		DateTime:  textOr(r.DateTime, constant.PlaceholderNoDate),
	}
}

func textOr(v *string, placeholder string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return placeholder
	}
	return *v
}

// BuildMarkers makes one marker per group. Title and icon come from the first record.
func BuildMarkers(groups []*model.LocationGroup) []model.GalleryMarker {
	markers := make([]model.GalleryMarker, 0, len(groups))
	for _, g := range groups {
		first := g.Records[0]
		pages := make([]model.GalleryPanelPage, 0, len(g.Records))
		for _, r := range g.Records {
			pages = append(pages, panelPage(r))
		}
		markers = append(markers, model.GalleryMarker{
			Key:      g.Key,
			Position: g.Position,
			Title:    first.ImageName,
			IconURL:  first.ImageURL,
			Count:    len(g.Records),
			Pages:    pages,
		})
	}
	return markers
}

// project returns Web Mercator world pixel coordinates at zoom.
func project(p model.LatLng, zoom int) (float64, float64) {
	scale := float64(tileSize) * math.Exp2(float64(zoom))
	// Clamp away from the poles where the projection diverges.
	lat := math.Max(-85.05112878, math.Min(85.05112878, p.Lat))
	sin := math.Sin(lat * math.Pi / 180)
	x := (p.Lng + 180) / 360 * scale
	y := (0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi)) * scale
	return x, y
}

// Cluster buckets markers into ClusterGridSize pixel cells at zoom. Every marker belongs to
// exactly one cluster; a cluster's position is the mean of its members.
func Cluster(markers []model.GalleryMarker, zoom int) []model.GalleryCluster {
	type cell struct{ x, y int64 }
	type acc struct {
		latSum, lngSum float64
		keys           []string
	}

	index := make(map[cell]*acc)
	var order []cell
	for _, m := range markers {
		px, py := project(m.Position, zoom)
		c := cell{int64(math.Floor(px / ClusterGridSize)), int64(math.Floor(py / ClusterGridSize))}
		a, ok := index[c]
		if !ok {
			a = &acc{}
			index[c] = a
			order = append(order, c)
		}
		a.latSum += m.Position.Lat
		a.lngSum += m.Position.Lng
		a.keys = append(a.keys, m.Key)
	}

	clusters := make([]model.GalleryCluster, 0, len(order))
	for _, c := range order {
		a := index[c]
		n := float64(len(a.keys))
		clusters = append(clusters, model.GalleryCluster{
			Position:   model.LatLng{Lat: a.latSum / n, Lng: a.lngSum / n},
			Count:      len(a.keys),
			MarkerKeys: a.keys,
		})
	}
	return clusters
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	model.CaptureDateLayout,
	"2006-01-02T15:04",
	model.ExifDateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// newerFirst orders two non-empty timestamps, newest first. Parseable timestamps rank
// ahead of unparseable text, which compares lexically among itself.
func newerFirst(a, b string) bool {
	ta, okA := parseTimestamp(a)
	tb, okB := parseTimestamp(b)
	switch {
	case okA && okB:
		return ta.After(tb)
	case okA != okB:
		return okA
	default:
		return a > b
	}
}

// SortedList returns every record with a valid position, newest timestamp first and
// records without a timestamp last.
func SortedList(records []*model.ImageRecord) []model.GalleryListItem {
	items := make([]model.GalleryListItem, 0, len(records))
	for _, r := range records {
		pos, ok := position(r)
		if !ok {
			continue
		}
		items = append(items, model.GalleryListItem{
			ID:        r.ID,
			ImageURL:  r.ImageURL,
			ImageName: r.ImageName,
			Location:  textOr(r.Location, constant.PlaceholderNoLocation),
			DateTime:  textOr(r.DateTime, ""),
			Position:  pos,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].DateTime, items[j].DateTime
		switch {
		case a == "":
			return false
		case b == "":
			return true
		default:
			return newerFirst(a, b)
		}
	})
	return items
}

// FocusView centers on the record at the focus zoom level.
func FocusView(r *model.ImageRecord) (model.MapView, bool) {
	pos, ok := position(r)
	if !ok {
		return model.MapView{}, false
	}
	return model.MapView{Center: pos, Zoom: constant.FocusZoom}, true
}
