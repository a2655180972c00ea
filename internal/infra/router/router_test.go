package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/gin-gonic/gin"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorymap/memorymap-app/internal/infra/persistence/database"
	"github.com/memorymap/memorymap-app/internal/infra/persistence/sqlstore"
	"github.com/memorymap/memorymap-app/internal/infra/storage"
	"github.com/memorymap/memorymap-app/internal/pkg/event"
	"github.com/memorymap/memorymap-app/internal/testutil"
	"github.com/memorymap/memorymap-app/pkg/config"
	"github.com/memorymap/memorymap-app/pkg/domain/model"
	gallery_handler "github.com/memorymap/memorymap-app/pkg/handler/gallery"
	image_handler "github.com/memorymap/memorymap-app/pkg/handler/image"
	place_handler "github.com/memorymap/memorymap-app/pkg/handler/place"
	public_handler "github.com/memorymap/memorymap-app/pkg/handler/public"
	session_handler "github.com/memorymap/memorymap-app/pkg/handler/session"
	version_handler "github.com/memorymap/memorymap-app/pkg/handler/version"
	"github.com/memorymap/memorymap-app/pkg/service/format"
	"github.com/memorymap/memorymap-app/pkg/service/gallery"
	"github.com/memorymap/memorymap-app/pkg/service/geocode"
	"github.com/memorymap/memorymap-app/pkg/service/image"
	"github.com/memorymap/memorymap-app/pkg/service/metadata"
	"github.com/memorymap/memorymap-app/pkg/service/upload"
	"github.com/memorymap/memorymap-app/pkg/service/utility"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// newTestEngine assembles the full HTTP surface over sqlite, local storage and a mocked geocoder.
func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	dir := t.TempDir()

	cfg, err := config.NewConfigFromFile(filepath.Join(dir, "conf.ini"))
	require.NoError(t, err)

	db, err := database.OpenSQLDB("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.NewMigrationService(db, database.DialectSQLite).RunMigrations(context.Background()))

	provider, err := storage.NewLocalProvider(storage.Options{LocalPath: filepath.Join(dir, "storage"), PublicURL: "/storage"})
	require.NoError(t, err)
	local := provider.(*storage.LocalProvider)

	cache := utility.NewMemoryCacheService()
	t.Cleanup(func() { utility.StopCache(cache) })
	bus := event.NewEventBus()
	t.Cleanup(bus.Shutdown)

	client := &http.Client{}
	httpmock.ActivateNonDefault(client)
	t.Cleanup(httpmock.DeactivateAndReset)
	resolver := geocode.NewResolver(geocode.Options{BaseURL: "https://nominatim.test/"}, cache, client)

	imageSvc := image.NewImageService(sqlstore.NewImageRepo(db, database.DialectSQLite), provider, cache, bus)
	opts := upload.OptionsFromConfig(cfg)
	opts.PreviewDir = filepath.Join(dir, "previews")
	manager, err := upload.NewManager(metadata.NewExtractor(), format.NewNormalizerFromConfig(cfg), resolver, imageSvc, opts)
	require.NoError(t, err)
	t.Cleanup(manager.Shutdown)

	r := NewRouter(
		image_handler.NewImageHandler(imageSvc),
		session_handler.NewSessionHandler(manager),
		place_handler.NewPlaceHandler(resolver),
		gallery_handler.NewGalleryHandler(gallery.NewGalleryService(imageSvc)),
		public_handler.NewPublicHandler(cfg),
		version_handler.NewHandler(),
		&LocalStorage{Prefix: local.PublicPrefix(), Root: local.Root()},
	)
	engine := gin.New()
	r.Setup(engine)
	SetupFrontend(engine, fstest.MapFS{
		"assets/dist/index.html":    {Data: []byte("<html>memory map</html>")},
		"assets/dist/assets/app.js": {Data: []byte("console.log(1)")},
	})
	return engine
}

func multipartBody(t *testing.T, fileName string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func do(engine *gin.Engine, method, target string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestUploadAndList(t *testing.T) {
	engine := newTestEngine(t)

	body, ct := multipartBody(t, "beach.jpg", testutil.PlainJPEG(8, 8), map[string]string{
		"name":      "해운대",
		"date":      "2024-05-01T10:00:00",
		"latitude":  "35.1587",
		"longitude": "129.1604",
	})
	w := do(engine, http.MethodPost, "/api/upload", body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result model.UploadResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Contains(t, result.ImageURL, "/storage/images/")
	assert.Contains(t, result.ImageURL, "_beach.jpg")
	assert.Equal(t, "no-cache, no-store, must-revalidate, private, max-age=0", w.Header().Get("Cache-Control"))

	stored := do(engine, http.MethodGet, result.ImageURL, nil, "")
	assert.Equal(t, http.StatusOK, stored.Code)

	w = do(engine, http.MethodGet, "/api/images", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list model.ImageListResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.True(t, list.Success)
	require.Len(t, list.Images, 1)
	assert.Equal(t, "해운대", list.Images[0].ImageName)
	require.NotNil(t, list.Images[0].Latitude)
	assert.Equal(t, "35.1587", *list.Images[0].Latitude)

	w = do(engine, http.MethodGet, "/api/gallery?zoom=10", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var view envelope[model.GalleryView]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Len(t, view.Data.Markers, 1)
	assert.Len(t, view.Data.List, 1)
}

func TestUpload_NoFile(t *testing.T) {
	engine := newTestEngine(t)

	body, ct := multipartBody(t, "", nil, map[string]string{"name": "x"})
	w := do(engine, http.MethodPost, "/api/upload", body, ct)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"No file uploaded"}`, w.Body.String())
}

func TestSessionManualFlow(t *testing.T) {
	engine := newTestEngine(t)
	httpmock.RegisterResponder("GET", `=~^https://nominatim\.test/search`,
		httpmock.NewStringResponder(200, `[{"display_name": "남산타워", "lat": "37.5512", "lon": "126.9882"}]`))

	body, ct := multipartBody(t, "walk.jpg", testutil.PlainJPEG(8, 8), nil)
	w := do(engine, http.MethodPost, "/api/sessions", body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created envelope[model.UploadSessionView]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, model.StateAwaitingManualMetadata, created.Data.State)
	id := created.Data.ID

	preview := do(engine, http.MethodGet, "/api/sessions/"+id+"/preview", nil, "")
	assert.Equal(t, http.StatusOK, preview.Code)

	w = do(engine, http.MethodGet, "/api/sessions/"+id+"/places?q=namsan", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var places envelope[[]model.Place]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &places))
	require.Len(t, places.Data, 1)

	reqBody, _ := json.Marshal(model.ManualMetadataRequest{Date: "2024-06-01T09:00:00", PlaceID: places.Data[0].ID})
	w = do(engine, http.MethodPut, "/api/sessions/"+id+"/metadata", bytes.NewBuffer(reqBody), "application/json")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(engine, http.MethodPost, "/api/sessions/"+id+"/submit", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var done envelope[model.UploadSessionView]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &done))
	assert.Equal(t, model.StateDone, done.Data.State)
	assert.NotEmpty(t, done.Data.ImageURL)

	w = do(engine, http.MethodGet, "/api/images", nil, "")
	var list model.ImageListResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Images, 1)
	require.NotNil(t, list.Images[0].Location)
	assert.Equal(t, "남산타워", *list.Images[0].Location)
}

func TestSession_MetadataRequired(t *testing.T) {
	engine := newTestEngine(t)

	body, ct := multipartBody(t, "walk.jpg", testutil.PlainJPEG(8, 8), nil)
	w := do(engine, http.MethodPost, "/api/sessions", body, ct)
	require.Equal(t, http.StatusCreated, w.Code)
	var created envelope[model.UploadSessionView]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = do(engine, http.MethodPut, "/api/sessions/"+created.Data.ID+"/metadata", bytes.NewBufferString(`{"date":""}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(engine, http.MethodPost, "/api/sessions/"+created.Data.ID+"/submit", nil, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(engine, http.MethodGet, "/api/sessions/unknown", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlaceReverse_Degrades(t *testing.T) {
	engine := newTestEngine(t)
	httpmock.RegisterResponder("GET", `=~^https://nominatim\.test/reverse`, httpmock.NewStringResponder(503, ``))

	w := do(engine, http.MethodGet, "/api/places/reverse?lat=37.5&lon=127", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got envelope[map[string]string]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "37.500000, 127.000000", got.Data["location"])

	w = do(engine, http.MethodGet, "/api/places/reverse?lat=91&lon=0", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFrontendFallback(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name     string
		method   string
		path     string
		wantCode int
		wantBody string
	}{
		{"index", http.MethodGet, "/", http.StatusOK, "memory map"},
		{"client route", http.MethodGet, "/gallery/seoul", http.StatusOK, "memory map"},
		{"static asset", http.MethodGet, "/assets/app.js", http.StatusOK, "console.log"},
		{"missing asset", http.MethodGet, "/assets/missing.js", http.StatusNotFound, "Not found"},
		{"unknown api", http.MethodGet, "/api/nothing", http.StatusNotFound, "API route not found"},
		{"post to page", http.MethodPost, "/gallery", http.StatusNotFound, "Not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(engine, tt.method, tt.path, nil, "")
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestClientConfigAndVersion(t *testing.T) {
	engine := newTestEngine(t)

	w := do(engine, http.MethodGet, "/api/config", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var cfg envelope[public_handler.ClientConfig]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	assert.Equal(t, 50, cfg.Data.MaxUploadMB)

	w = do(engine, http.MethodGet, "/api/version", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
