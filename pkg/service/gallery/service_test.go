package gallery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorymap/memorymap-app/pkg/constant"
	"github.com/memorymap/memorymap-app/pkg/domain/model"
)

func str(s string) *string { return &s }

func record(id int64, name, lat, lon, date string) *model.ImageRecord {
	r := &model.ImageRecord{ID: id, ImageName: name, ImageURL: "https://cdn.test/" + name}
	if lat != "" {
		r.Latitude = str(lat)
	}
	if lon != "" {
		r.Longitude = str(lon)
	}
	if date != "" {
		r.DateTime = str(date)
	}
	return r
}

func TestGroupByLocation(t *testing.T) {
	records := []*model.ImageRecord{
		record(1, "a", "37.5665", "126.978", "2024-01-01T00:00:00"),
		record(2, "b", "35.68", "139.76", ""),
		record(3, "c", "37.5665", "126.978", ""),
		record(4, "d", "37.56650", "126.978", ""),
		record(5, "e", "", "126.978", ""),
		record(6, "f", "north", "east", ""),
		record(7, "g", "95", "10", ""),
	}

	groups := GroupByLocation(records)
	require.Len(t, groups, 3)

	assert.Equal(t, "37.5665,126.978", groups[0].Key)
	assert.Len(t, groups[0].Records, 2)
	assert.Equal(t, int64(3), groups[0].Records[1].ID)
	assert.Equal(t, "35.68,139.76", groups[1].Key)
	assert.Equal(t, "37.56650,126.978", groups[2].Key, "text keys are not merged numerically")
	assert.InDelta(t, 37.5665, groups[2].Position.Lat, 1e-9)
}

func TestBuildMarkers(t *testing.T) {
	first := record(1, "first", "10", "20", "2024-01-01T00:00:00")
	first.Location = str("서울")
	second := record(2, "second", "10", "20", "")

	markers := BuildMarkers(GroupByLocation([]*model.ImageRecord{first, second}))
	require.Len(t, markers, 1)

	m := markers[0]
	assert.Equal(t, "first", m.Title)
	assert.Equal(t, "https://cdn.test/first", m.IconURL)
	assert.Equal(t, 2, m.Count)
	require.Len(t, m.Pages, 2)
	assert.Equal(t, "서울", m.Pages[0].Location)
	assert.Equal(t, "2024-01-01T00:00:00", m.Pages[0].DateTime)
	assert.Equal(t, constant.PlaceholderNoLocation, m.Pages[1].Location)
	assert.Equal(t, constant.PlaceholderNoDate, m.Pages[1].DateTime)
	assert.Equal(t, "second", m.Pages[1].ImageName)
}

func TestCluster(t *testing.T) {
	markers := BuildMarkers(GroupByLocation([]*model.ImageRecord{
		record(1, "seoul", "37.5665", "126.978", ""),
		record(2, "tokyo", "35.68", "139.76", ""),
		record(3, "sydney", "-33.87", "151.21", ""),
	}))

	t.Run("world zoom merges nearby markers", func(t *testing.T) {
		clusters := Cluster(markers, 0)
		require.Len(t, clusters, 2)
		assert.Equal(t, 2, clusters[0].Count)
		assert.Equal(t, []string{"37.5665,126.978", "35.68,139.76"}, clusters[0].MarkerKeys)
		assert.InDelta(t, (37.5665+35.68)/2, clusters[0].Position.Lat, 1e-9)
		assert.InDelta(t, (126.978+139.76)/2, clusters[0].Position.Lng, 1e-9)
		assert.Equal(t, 1, clusters[1].Count)
	})

	t.Run("city zoom keeps them apart", func(t *testing.T) {
		clusters := Cluster(markers, 12)
		assert.Len(t, clusters, 3)
	})

	t.Run("no markers", func(t *testing.T) {
		assert.Empty(t, Cluster(nil, 5))
	})
}

func TestSortedList(t *testing.T) {
	records := []*model.ImageRecord{
		record(1, "undated", "1", "1", ""),
		record(2, "old", "1", "1", "2020-05-01T10:00:00"),
		record(3, "new", "1", "1", "2024-05-01T10:00:00"),
		record(4, "exif", "1", "1", "2022:01:01 00:00:00"),
		record(5, "nowhere", "", "", "2025-01-01T00:00:00"),
	}

	list := SortedList(records)
	require.Len(t, list, 4)

	names := make([]string, len(list))
	for i, it := range list {
		names[i] = it.ImageName
	}
	assert.Equal(t, []string{"new", "exif", "old", "undated"}, names)
	assert.Equal(t, "", list[3].DateTime)
}

func TestSortedList_UnparseableAfterParseable(t *testing.T) {
	records := []*model.ImageRecord{
		record(1, "summer", "1", "1", "summer 2023"),
		record(2, "a", "1", "1", "2021-01-01"),
		record(3, "undated", "1", "1", ""),
		record(4, "autumn", "1", "1", "autumn"),
		record(5, "b", "1", "1", "2024-02-02"),
		record(6, "zero", "1", "1", "0000"),
	}

	list := SortedList(records)
	names := make([]string, len(list))
	for i, it := range list {
		names[i] = it.ImageName
	}
	assert.Equal(t, []string{"b", "a", "summer", "autumn", "zero", "undated"}, names)

	assert.True(t, newerFirst("2021-01-01", "zzz"))
	assert.False(t, newerFirst("zzz", "2021-01-01"))
}

func TestFocusView(t *testing.T) {
	view, ok := FocusView(record(1, "a", "35.1", "129.04", ""))
	require.True(t, ok)
	assert.Equal(t, constant.FocusZoom, view.Zoom)
	assert.Equal(t, model.LatLng{Lat: 35.1, Lng: 129.04}, view.Center)

	_, ok = FocusView(record(2, "b", "", "", ""))
	assert.False(t, ok)
}

type stubSource struct {
	records []*model.ImageRecord
}

func (s *stubSource) List(context.Context) ([]*model.ImageRecord, error) { return s.records, nil }

func (s *stubSource) Get(_ context.Context, id int64) (*model.ImageRecord, error) {
	for _, r := range s.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, constant.ErrNotFound
}

func TestGalleryService(t *testing.T) {
	src := &stubSource{records: []*model.ImageRecord{
		record(1, "a", "37.5665", "126.978", "2024-01-01T00:00:00"),
		record(2, "b", "", "", ""),
	}}
	svc := NewGalleryService(src)
	ctx := context.Background()

	view, err := svc.View(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, DefaultView(), view.View, "out of range zoom falls back to the default")
	assert.Len(t, view.Markers, 1)
	assert.Len(t, view.Clusters, 1)
	assert.Len(t, view.List, 1)

	focus, err := svc.Focus(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, constant.FocusZoom, focus.Zoom)

	_, err = svc.Focus(ctx, 2)
	assert.ErrorIs(t, err, constant.ErrValidation)

	_, err = svc.Focus(ctx, 3)
	assert.ErrorIs(t, err, constant.ErrNotFound)
}

func TestBuild_Empty(t *testing.T) {
	view := Build(nil, constant.DefaultZoom)
	assert.Empty(t, view.Markers)
	assert.Empty(t, view.Clusters)
	assert.NotNil(t, view.List)
}
