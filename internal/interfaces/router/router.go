package router

import (
	"context"
	"net/http"
	"time"

	authsvc "wedding-backend/internal/application/auth"
	gallerysvc "wedding-backend/internal/application/gallery"
	invsvc "wedding-backend/internal/application/invitations"
	"wedding-backend/internal/config"
	"wedding-backend/internal/infrastructure/database"
	"wedding-backend/internal/infrastructure/objectstore"
	adminhandler "wedding-backend/internal/interfaces/handlers/admin"
	galleryhandler "wedding-backend/internal/interfaces/handlers/gallery"
	guesthandler "wedding-backend/internal/interfaces/handlers/guest"
	healthhandler "wedding-backend/internal/interfaces/handlers/health"
	"wedding-backend/internal/middleware"
	"wedding-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const limiterSweepInterval = time.Minute

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) PingContext(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Deps are the external handles the app is built on. Any of them may be nil;
// only the operations that need a missing one fail.
type Deps struct {
	DB      *gorm.DB
	Rdb     *redis.Client
	Bucket  gallerysvc.Bucket
	Limiter authsvc.LoginLimiter
}

// CreateApp opens the database, Redis and object storage named in cfg and
// builds the app on them.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	var deps Deps

	if cfg.DatabaseURL != "" {
		db, err := database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
		deps.DB = db
	} else {
		log.Warn().Msg("DATABASE_URL not set; invitation endpoints are disabled")
	}

	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		deps.Rdb = redis.NewClient(opt)
	} else {
		limiter := authsvc.NewMemoryLimiter()
		go limiter.RunSweeper(context.Background(), limiterSweepInterval)
		deps.Limiter = limiter
	}

	if cfg.StorageConfigured() {
		bucket, err := objectstore.NewS3Bucket(cfg.S3URI, cfg.S3AccessKeyID, cfg.S3SecretKey)
		if err != nil {
			log.Error().Err(err).Msg("object storage disabled")
		} else {
			deps.Bucket = bucket
		}
	}

	return NewApp(cfg, deps), deps.DB, deps.Rdb, nil
}

// NewApp wires middleware, services and routes.
func NewApp(cfg *config.Config, deps Deps) *fiber.App {
	if cfg.ProxyHeader != "" && len(cfg.TrustedProxies) == 0 {
		log.Warn().Str("header", cfg.ProxyHeader).Msg("PROXY_HEADER set without TRUSTED_PROXIES; the header is ignored")
	}
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		ProxyHeader:             cfg.ProxyHeader,
		EnableTrustedProxyCheck: cfg.ProxyHeader != "",
		TrustedProxies:          cfg.TrustedProxies,
		EnableIPValidation:      true,
	})

	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix:  cfg.FrontendURLEndsWith,
		DevPassword:    cfg.DevPassword,
		AllowLocalhost: !cfg.IsProduction(),
	}))
	if deps.Rdb != nil {
		app.Use(middleware.HealthMarker(deps.Rdb))
	}

	cookies := middleware.CookieConfig{IsProduction: cfg.IsProduction()}

	// Health
	hh := &healthhandler.Handlers{Rdb: deps.Rdb, HealthAdminKey: cfg.HealthAdminKey}
	if deps.DB != nil {
		hh.DB = &gormDBPinger{db: deps.DB}
	}
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)
	app.Get("/health/reset", hh.Reset)

	// Admin auth
	limiter := deps.Limiter
	if limiter == nil {
		if deps.Rdb != nil {
			limiter = authsvc.NewRedisLimiter(deps.Rdb)
		} else {
			limiter = authsvc.NewMemoryLimiter()
		}
	}
	auth := &authsvc.Service{Password: cfg.AdminPassword, Limiter: limiter}

	var invitations *invsvc.Service
	if deps.DB != nil {
		invitations = &invsvc.Service{Repo: &invsvc.GormRepository{DB: deps.DB}}
	}
	needsDB := requireDB(invitations != nil)

	ah := &adminhandler.Handlers{Auth: auth, Invitations: invitations, Cookies: cookies}
	adminGroup := app.Group("/api/v1/admin")
	adminGroup.Post("/login", ah.Login)
	adminGroup.Get("/me", ah.Me)
	adminGroup.Delete("/logout", ah.Logout)
	ig := adminGroup.Group("/invitations", middleware.RequireAdmin(auth), needsDB)
	ig.Get("/", ah.ListInvitations)
	ig.Post("/", ah.CreateInvitation)
	ig.Delete("/:id", ah.DeleteInvitation)

	// Guests
	gh := &guesthandler.Handlers{
		Invitations: invitations,
		Cookies:     cookies,
		Event:       cfg.Event,
		Registry:    cfg.Registry,
	}
	app.Get("/rsvp/:code", needsDB, gh.VisitCode)
	guestGroup := app.Group("/api/v1/guest", needsDB)
	guestGroup.Post("/code", gh.SubmitCode)
	guestGroup.Get("/invitation", gh.Invitation)
	guestGroup.Post("/rsvp", gh.RSVP)
	guestGroup.Delete("/session", gh.Forget)
	app.Get("/api/v1/site", gh.Site)

	// Gallery
	var cache gallerysvc.ListingCache = &gallerysvc.MemoryListingCache{}
	if deps.Rdb != nil {
		cache = gallerysvc.NewRedisListingCache(deps.Rdb, gallerysvc.ServerCacheTTL)
	}
	galleryHandlers := &galleryhandler.Handlers{
		Service: gallerysvc.NewService(deps.Bucket, cache),
		Local:   gallerysvc.DirectoryLister{Root: cfg.PublicDir},
	}
	gg := app.Group("/api/v1/gallery")
	gg.Get("/version", galleryHandlers.Version)
	gg.Get("/images", galleryHandlers.Images)
	gg.Get("/local", galleryHandlers.LocalImages)

	if cfg.PublicDir != "" {
		app.Static("/", cfg.PublicDir)
	}
	return app
}

func requireDB(available bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !available {
			return response.Internal(c, "Database not configured")
		}
		return c.Next()
	}
}

// Handler exposes app as a net/http handler for serverless runtimes.
func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
