package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/myshop-api/internal/application/auth"
	"github.com/jhoicas/myshop-api/internal/application/cart"
	"github.com/jhoicas/myshop-api/internal/application/productgroup"
	"github.com/jhoicas/myshop-api/internal/application/usecase"
	"github.com/jhoicas/myshop-api/internal/infrastructure/codestore"
	"github.com/jhoicas/myshop-api/internal/infrastructure/postgres"
	"github.com/jhoicas/myshop-api/internal/infrastructure/ratelimit"
	"github.com/jhoicas/myshop-api/internal/infrastructure/sms"
	httpRouter "github.com/jhoicas/myshop-api/internal/interfaces/http"
	"github.com/jhoicas/myshop-api/pkg/config"
	"github.com/jhoicas/myshop-api/pkg/jwt"
	"github.com/jhoicas/myshop-api/pkg/logger"
	"github.com/jhoicas/myshop-api/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	metrics.Init()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	groupRepo := postgres.NewProductGroupRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	uow := postgres.NewUnitOfWork(pool, log)

	tokens, err := jwt.NewIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.TTL())
	if err != nil {
		log.Fatal().Err(err).Msg("configuración JWT")
	}

	// Códigos de verificación: en memoria (una réplica) o Redis (compartido).
	var codes auth.CodeStore
	switch cfg.Auth.CodeStore {
	case "redis":
		client, err := codestore.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		codes = codestore.NewRedisStore(client)
	default:
		codes = codestore.NewMemoryStore()
	}

	// AUTH_LOGIN_RATE_PER_MINUTE=0 desactiva el límite de solicitudes de código.
	stop := make(chan struct{})
	var throttle auth.Throttle
	if cfg.Auth.LoginRatePerMinute > 0 {
		limiter := ratelimit.PerMinute(cfg.Auth.LoginRatePerMinute)
		go limiter.Run(stop)
		throttle = limiter
	}

	categoryUC := usecase.NewCategoryUseCase(categoryRepo, log)
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo, log)
	groupUC := productgroup.NewUseCase(groupRepo, productRepo, uow, log)
	userUC := usecase.NewUserUseCase(userRepo, cfg.Auth.RestoreWindow(), log)
	cartUC := cart.NewUseCase(productRepo, groupRepo, log)
	authUC := auth.NewUseCase(auth.Deps{
		Users:    userRepo,
		Restorer: userUC,
		Codes:    codes,
		Sender:   sms.NewLogSender(log),
		Tokens:   tokens,
		Throttle: throttle,
		UoW:      uow,
	}, auth.Config{CodeTTL: cfg.Auth.CodeTTL()}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: cfg.App.SwaggerFile,
		Path:     "docs",
		Title:    cfg.App.Name + " API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		CategoryUC:     categoryUC,
		ProductUC:      productUC,
		ProductGroupUC: groupUC,
		UserUC:         userUC,
		AuthUC:         authUC,
		CartUC:         cartUC,
		UoW:            uow,
		Tokens:         tokens,
		Log:            log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	close(stop)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
