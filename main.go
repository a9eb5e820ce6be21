package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/beauty-api/auth"
	"github.com/junaidrashid-git/beauty-api/cache"
	"github.com/junaidrashid-git/beauty-api/config"
	"github.com/junaidrashid-git/beauty-api/events"
	"github.com/junaidrashid-git/beauty-api/logger"
	"github.com/junaidrashid-git/beauty-api/middleware"
	"github.com/junaidrashid-git/beauty-api/payment"
	"github.com/junaidrashid-git/beauty-api/routes"
	"github.com/junaidrashid-git/beauty-api/services"
	"github.com/junaidrashid-git/beauty-api/store"
	"github.com/junaidrashid-git/beauty-api/store/docstore"
	"github.com/junaidrashid-git/beauty-api/store/gormstore"
	"github.com/junaidrashid-git/beauty-api/uploads"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	loader, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	cfg := loader.Config()
	logger.Init(cfg.LogLevel, cfg.LogPretty)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	loader.Watch(func(c *config.Config) {
		logger.SetLevel(c.LogLevel)
		log.Info().Str("level", c.LogLevel).Msg("config reloaded")
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	var fbApp *firebase.App
	if cfg.FirebaseProjectID != "" {
		app, err := auth.NewFirebaseApp(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsJSON)
		if err != nil {
			return err
		}
		fbApp = app
	}

	st, err := openStore(ctx, cfg, fbApp)
	if err != nil {
		return err
	}
	defer st.Close()

	// Catalog reads go through redis when it is configured.
	var products store.ProductStore = st
	var checkoutOpts []services.CheckoutOption
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, cache will fall through")
		}
		productCache := cache.NewProductCache(st, rdb, cfg.CacheTTL)
		products = productCache
		checkoutOpts = append(checkoutOpts, services.WithStockInvalidator(productCache))
	}

	hub := events.NewHub()
	publishers := events.Multi{hub}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		kafkaPub := events.NewKafkaPublisher(brokers, cfg.KafkaTopic)
		defer kafkaPub.Close()
		publishers = append(publishers, kafkaPub)
		log.Info().Strs("brokers", brokers).Str("topic", cfg.KafkaTopic).Msg("publishing order events to kafka")
	}

	var gateway payment.Gateway
	telrCfg := payment.TelrConfig{
		StoreID:    cfg.TelrStoreID,
		AuthKey:    cfg.TelrAuthKey,
		APIURL:     cfg.TelrAPIURL,
		Mode:       cfg.TelrMode,
		SuccessURL: cfg.TelrSuccessURL,
		FailureURL: cfg.TelrFailureURL,
		CancelURL:  cfg.TelrCancelURL,
	}
	if telrCfg.Valid() {
		gateway = payment.NewTelr(telrCfg, nil)
	} else {
		log.Warn().Msg("telr is not configured, card payments are disabled")
	}

	var provider auth.Provider
	if fbApp != nil {
		fb, err := auth.NewFirebase(ctx, fbApp, cfg.FirebaseProjectID)
		if err != nil {
			return err
		}
		provider = fb
	} else {
		log.Warn().Msg("FIREBASE_PROJECT_ID is empty, /auth endpoints are disabled")
	}

	uploadStore := uploads.NewStore(cfg.UploadDir, cfg.PublicBaseURL)
	deps := routes.Deps{
		Tokens:            auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL),
		Provider:          provider,
		Catalog:           services.NewCatalogService(products),
		Cart:              services.NewCartService(st, products),
		Favorites:         services.NewFavoriteService(st, products),
		Checkout:          services.NewCheckoutService(st, st, gateway, publishers, cfg.Currency, checkoutOpts...),
		Orders:            services.NewOrderTracker(st, publishers),
		Bookings:          services.NewBookingService(st),
		Users:             services.NewUserService(st),
		Uploads:           uploadStore,
		Hub:               hub,
		TelrWebhookSecret: cfg.TelrWebhookSecret,
		TelrMode:          cfg.TelrMode,
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.MaxMultipartMemory = 32 << 20
	r.Use(middleware.RequestLogger(), middleware.Recovery())
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins())))
	routes.SetupRoutes(r, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return uploads.StartDailyBackup(gctx, cfg.UploadDir, cfg.BackupDir, cfg.BackupRetention, cfg.BackupHour, 0)
	})
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("driver", cfg.StoreDriver).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openStore(ctx context.Context, cfg *config.Config, app *firebase.App) (store.Store, error) {
	gormLog := gormstore.WithLogger(logger.NewGorm(200 * time.Millisecond))
	switch cfg.StoreDriver {
	case config.DriverFirestore:
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, err
		}
		return docstore.New(client), nil
	case config.DriverSQLite:
		return gormstore.OpenSQLite(cfg.SQLitePath, gormLog)
	default:
		dsn := cfg.DatabaseURL
		if dsn == "" {
			dsn = gormstore.PostgresDSN(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
		}
		return gormstore.OpenPostgres(dsn, gormLog)
	}
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		// Credentials cannot be combined with a literal "*".
		c.AllowOriginFunc = func(string) bool { return true }
	} else {
		c.AllowOrigins = origins
	}
	return c
}
