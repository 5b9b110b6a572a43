package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"retail-transfers/app/cache"
	"retail-transfers/app/config"
	"retail-transfers/app/database"
	"retail-transfers/app/metrics"
	"retail-transfers/app/routes/auth"
	"retail-transfers/app/routes/branches"
	"retail-transfers/app/routes/fees"
	"retail-transfers/app/routes/records"
	"retail-transfers/app/routes/response"
	"retail-transfers/app/routes/totals"
	"retail-transfers/app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func setupApp(cfg *config.Config, log *zap.Logger, db *sql.DB, rdb *redis.Client) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "retail-transfers",
		ErrorHandler: response.ErrorHandler,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(metrics.Middleware())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	c := cache.New(rdb, log)
	authHandler := auth.NewHandler(auth.SQLUserStore{DB: db}, auth.NewSigner(cfg.JWTSecret), log, cfg.Env == "production")

	api := app.Group(cfg.APIPrefix)
	auth.SetupAuthRoutes(api, authHandler)

	protected := api.Group("", authHandler.AuthMiddleware)
	totals.SetupTotalsRoutes(protected, totals.NewHandler(totals.SQLStore{DB: db}, c, log))
	records.SetupRecordsRoutes(protected, records.NewHandler(records.SQLStore{DB: db}, c, log))
	fees.SetupFeesRoutes(protected, fees.NewHandler(fees.SQLStore{DB: db}, c, log))
	branches.SetupBranchesRoutes(protected, branches.NewHandler(branches.SQLStore{DB: db}, log))

	// Catch-all route for 404 errors (must be last)
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not found")
	})

	return app
}

func main() {
	cfg := config.Load()

	log, err := config.NewLogger(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	config.SetTimeZone(cfg.TimeZone, log)

	db, err := config.InitDB(cfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(db, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := config.InitRedis(cfg, log)
	if rdb != nil {
		defer rdb.Close()
		services.StartScheduler(ctx, services.WarmInterval,
			fees.SQLStore{DB: db}, totals.SQLStore{DB: db}, cache.New(rdb, log), log)
	}

	app := setupApp(cfg, log, db, rdb)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		cancel()
		_ = app.Shutdown()
	}()

	log.Info("server starting", zap.String("port", cfg.Port), zap.String("api_prefix", cfg.APIPrefix))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error("server stopped", zap.Error(err))
	}
}
