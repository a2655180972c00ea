/*
 * @Description: 애플리케이션 조립 및 실행
 * @Author: memorymap
 * @Date: 2026-04-12 15:29:32
 * @LastEditTime: 2026-06-05 15:11:31
 * @LastEditors: memorymap
 */
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/memorymap/memorymap-app/internal/app/listener"
	"github.com/memorymap/memorymap-app/internal/app/middleware"
	"github.com/memorymap/memorymap-app/internal/app/task"
	"github.com/memorymap/memorymap-app/internal/infra/persistence/database"
	"github.com/memorymap/memorymap-app/internal/infra/persistence/sqlstore"
	"github.com/memorymap/memorymap-app/internal/infra/router"
	"github.com/memorymap/memorymap-app/internal/infra/storage"
	"github.com/memorymap/memorymap-app/internal/pkg/event"
	"github.com/memorymap/memorymap-app/internal/pkg/version"
	"github.com/memorymap/memorymap-app/pkg/config"
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

// App holds the long-lived components of the server.
type App struct {
	cfg        *config.Config
	engine     *gin.Engine
	scheduler  *task.Scheduler
	sqlDB      *sql.DB
	appVersion string
	cacheSvc   utility.CacheService
	eventBus   *event.EventBus
	manager    *upload.Manager
	imageSvc   image.ImageService
}

func (a *App) PrintBanner() {
	banner := `
  __  __                                   __  __
 |  \/  | ___ _ __ ___   ___  _ __ _   _  |  \/  | __ _ _ __
 | |\/| |/ _ \ '_ ' _ \ / _ \| '__| | | | | |\/| |/ _' | '_ \
 | |  | |  __/ | | | | | (_) | |  | |_| | | |  | | (_| | |_) |
 |_|  |_|\___|_| |_| |_|\___/|_|   \__, | |_|  |_|\__,_| .__/
                                   |___/               |_|
`
	log.Println(banner)
	log.Println("--------------------------------------------------------")
	log.Printf(" Memory Map: %s", version.GetVersionString())
	log.Println("--------------------------------------------------------")
}

// NewApp loads configuration and wires every component. The returned cleanup closes
// connections and must run after Stop.
func NewApp(content fs.FS) (*App, func(), error) {
	appVersion := version.GetVersion()

	// --- Phase 1: configuration ---
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	// --- Phase 2: infrastructure ---
	dialect, err := database.Dialect(cfg)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := database.NewSQLDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.NewMigrationService(sqlDB, dialect).RunMigrations(context.Background()); err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}

	redisClient, err := database.NewRedisClient(context.Background(), cfg)
	if err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("redis init: %w", err)
	}
	cacheSvc := utility.NewCacheServiceWithFallback(redisClient)

	cleanup := func() {
		log.Println("Closing database connection...")
		sqlDB.Close()
		utility.StopCache(cacheSvc)
		if redisClient != nil {
			log.Println("Closing Redis connection...")
			redisClient.Close()
		}
	}

	provider, err := storage.NewProvider(context.Background(), cfg)
	if err != nil {
		return nil, cleanup, fmt.Errorf("storage init: %w", err)
	}
	eventBus := event.NewEventBus()

	// --- Phase 3: repositories and services ---
	imageRepo := sqlstore.NewImageRepo(sqlDB, dialect)
	imageSvc := image.NewImageService(imageRepo, provider, cacheSvc, eventBus)
	resolver := geocode.NewResolver(geocode.OptionsFromConfig(cfg), cacheSvc, nil)
	gallerySvc := gallery.NewGalleryService(imageSvc)

	uploadOpts := upload.OptionsFromConfig(cfg)
	manager, err := upload.NewManager(metadata.NewExtractor(), format.NewNormalizerFromConfig(cfg), resolver, imageSvc, uploadOpts)
	if err != nil {
		eventBus.Shutdown()
		return nil, cleanup, fmt.Errorf("upload manager init: %w", err)
	}

	// --- Phase 4: background work ---
	listener.NewImageUploadedListener(eventBus, imageSvc)
	scheduler := task.NewScheduler(manager, 2*uploadOpts.SessionTTL)

	// --- Phase 5: HTTP ---
	var localStorage *router.LocalStorage
	if local, ok := provider.(*storage.LocalProvider); ok {
		localStorage = &router.LocalStorage{Prefix: local.PublicPrefix(), Root: local.Root()}
	}
	appRouter := router.NewRouter(
		image_handler.NewImageHandler(imageSvc),
		session_handler.NewSessionHandler(manager),
		place_handler.NewPlaceHandler(resolver),
		gallery_handler.NewGalleryHandler(gallerySvc),
		public_handler.NewPublicHandler(cfg),
		version_handler.NewHandler(),
		localStorage,
	)

	if cfg.GetBool(config.KeyServerDebug) {
		gin.SetMode(gin.DebugMode)
		log.Println("Mode: Debug")
	} else {
		gin.SetMode(gin.ReleaseMode)
		log.Println("Mode: Release")
	}

	engine := gin.Default()
	if err := engine.SetTrustedProxies([]string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}); err != nil {
		return nil, cleanup, fmt.Errorf("set trusted proxies: %w", err)
	}
	engine.ForwardedByClientIP = true
	engine.MaxMultipartMemory = uploadOpts.MaxFileSize + 1<<20
	engine.Use(middleware.Cors())

	appRouter.Setup(engine)
	if _, err := fs.Stat(content, "assets/dist/index.html"); err != nil {
		log.Println("⏭️  assets/dist/index.html not embedded, serving the API only")
	} else {
		router.SetupFrontend(engine, content)
	}

	app := &App{
		cfg:        cfg,
		engine:     engine,
		scheduler:  scheduler,
		sqlDB:      sqlDB,
		appVersion: appVersion,
		cacheSvc:   cacheSvc,
		eventBus:   eventBus,
		manager:    manager,
		imageSvc:   imageSvc,
	}
	return app, cleanup, nil
}

func (a *App) Config() *config.Config {
	return a.cfg
}

func (a *App) Engine() *gin.Engine {
	return a.engine
}

func (a *App) DB() *sql.DB {
	return a.sqlDB
}

func (a *App) CacheService() utility.CacheService {
	return a.cacheSvc
}

func (a *App) Version() string {
	return a.appVersion
}

func (a *App) Run() error {
	if err := a.scheduler.RegisterJobs(); err != nil {
		return err
	}
	a.scheduler.Start()

	// Warm the list cache so the first map load does not hit the database.
	if _, err := a.imageSvc.List(context.Background()); err != nil {
		log.Printf("⚠️ initial image list load failed: %v", err)
	}

	port := a.cfg.GetString(config.KeyServerPort)
	if port == "" {
		port = "3000"
	}
	log.Printf("✅ Server listening on port %s", port)
	if err := a.engine.Run(":" + port); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop halts background work and discards open upload sessions.
func (a *App) Stop() {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.manager != nil {
		a.manager.Shutdown()
	}
	if a.eventBus != nil {
		a.eventBus.Shutdown()
	}
	log.Println("Background workers stopped.")
}
