package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"motoparts-inventory/internal/handler"
	"motoparts-inventory/internal/middleware"
	"motoparts-inventory/internal/repository"
	"motoparts-inventory/internal/service"
	"motoparts-inventory/internal/ws"
	"motoparts-inventory/pkg/config"
	"motoparts-inventory/pkg/database"
	"motoparts-inventory/pkg/jwt"
	"motoparts-inventory/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		log.Debug().Msg(".env file not found, using process environment")
	}
	if cfg.UsesDefaultSecret() {
		log.Warn().Msg("JWT_SECRET is the development default, set it before going live")
	}

	// Prices render as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// 2. Setup Database
	db, err := database.Connect(cfg.DSN(), database.Options{
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer database.Close(db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		if err := repository.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("auto migrate")
		}
	}

	// 3. Setup WebSocket Hub
	hub := ws.NewHub(cfg.WSBuffer, log)
	go hub.Run(ctx)

	// 4. Dependency Injection (Wiring Layers)
	authService, handlers := wire(db, cfg, hub, log)

	// 5. Seed the shop operator
	seedOperator(ctx, authService, cfg, log)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ErrorHandler: handler.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))

	// 7. Routes
	handler.RegisterRoutes(app, handlers, middleware.RequireAuth(authService), hub, func(ctx context.Context) error {
		return database.Ping(ctx, db)
	})

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + strings.TrimPrefix(cfg.Port, ":")); err != nil {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}

func wire(db *gorm.DB, cfg *config.Config, hub *ws.Hub, log zerolog.Logger) (service.AuthService, handler.Handlers) {
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	brandRepo := repository.NewBrandRepo(db)
	motorcycleRepo := repository.NewMotorcycleRepo(db)
	compatRepo := repository.NewCompatibilityRepo(db)
	operatorRepo := repository.NewOperatorRepo(db)

	txService := service.NewTransactionService(repository.NewUnitOfWork(db), txRepo, hub, log)
	productService := service.NewProductService(productRepo, repository.NewUnitOfWork(db), categoryRepo, brandRepo, motorcycleRepo, compatRepo, hub, log)
	dashService := service.NewDashboardService(txRepo)
	authService := service.NewAuthService(operatorRepo, jwt.NewManager(cfg.JWTSecret, cfg.TokenTTL), log)

	return authService, handler.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Transactions: handler.NewTransactionHandler(txService),
		Products:     handler.NewProductHandler(productService),
		Categories:   handler.NewCatalogHandler(service.NewCategoryService(categoryRepo, hub, log), "Category"),
		Brands:       handler.NewCatalogHandler(service.NewBrandService(brandRepo, hub, log), "Brand"),
		Motorcycles:  handler.NewCatalogHandler(service.NewMotorcycleService(motorcycleRepo, hub, log), "Motorcycle"),
		Dashboard:    handler.NewDashboardHandler(dashService),
	}
}

// seedOperator creates the ADMIN_* operator on first start.
func seedOperator(ctx context.Context, auth service.AuthService, cfg *config.Config, log zerolog.Logger) {
	if cfg.AdminPassword == "" {
		log.Warn().Str("username", cfg.AdminUsername).Msg("ADMIN_PASSWORD not set, skipping operator seed")
		return
	}

	created, err := auth.EnsureOperator(ctx, &service.CreateOperatorRequest{
		Username: cfg.AdminUsername,
		Password: cfg.AdminPassword,
		FullName: cfg.AdminFullName,
	})
	if err != nil {
		log.Error().Err(err).Msg("seed operator")
		return
	}
	if created {
		log.Info().Str("username", cfg.AdminUsername).Msg("operator created")
	}
}
