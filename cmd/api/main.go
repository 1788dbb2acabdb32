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
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/application/reporting"
	"github.com/jhoicas/inventario-stock/internal/application/usecase"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/lock"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/inventario-stock/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/inventario-stock/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/inventario-stock/internal/interfaces/http"
	"github.com/jhoicas/inventario-stock/pkg/config"
	"github.com/jhoicas/inventario-stock/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// storage repositorios y runner de transacciones del driver configurado.
type storage struct {
	repos      repository.TxRepositories
	warehouses repository.WarehouseRepository
	tx         inventory.TxRunner
	ping       httpRouter.HealthCheck
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg, log.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	// Candado y notificaciones: Redis si está configurado, si no en proceso + log.
	var locker inventory.Locker = lock.NewKeyedMutex()
	notifiers := notify.Fanout{notify.NewLogNotifier(log.Zerolog())}
	checks := map[string]httpRouter.HealthCheck{"storage": store.ping}
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker = infraredis.NewDistributedLock(rdb, infraredis.DefaultLockOptions(), log.Component("lock"))
		notifiers = append(notifiers, infraredis.NewEventPublisher(rdb, cfg.Redis.EventsChannel))
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	deps := inventory.Deps{
		Tx:             store.tx,
		Products:       store.repos.Products,
		Lots:           store.repos.Lots,
		PurchaseOrders: store.repos.PurchaseOrders,
		Transfers:      store.repos.Transfers,
		Counts:         store.repos.Counts,
		Warehouses:     store.warehouses,
		Locker:         locker,
		Notifier:       notifiers,
		Logger:         log.Component("inventory"),
		Retries:        cfg.Engine.ConflictRetries,
	}

	lotUC := inventory.NewLotUseCase(deps, cfg.Engine.LotExpiryWindow())
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	reportUC := reporting.NewReportUseCase(
		store.repos.Products, store.repos.Lots, store.repos.Counts, pdfGenerator, cfg.Engine.LotExpiryWindow(),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Inventario Stock API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		WarehouseUC:      usecase.NewWarehouseUseCase(store.warehouses),
		ProductUC:        usecase.NewProductUseCase(store.repos.Products),
		RegisterMovement: inventory.NewRegisterMovementUseCase(deps),
		PurchaseOrders:   inventory.NewPurchaseOrderUseCase(deps),
		Transfers:        inventory.NewTransferUseCase(deps),
		Counts:           inventory.NewCountUseCase(deps),
		Lots:             lotUC,
		Replenishment:    inventory.NewReplenishmentUseCase(store.repos.Products),
		Reports:          reportUC,
		HealthChecks:     checks,
		JWTSecret:        cfg.JWT.Secret,
		JWTIssuer:        cfg.JWT.Issuer,
	})

	go watchExpiringLots(ctx, lotUC, log.Component("lots"))

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StoragePostgres {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(pool, log); err != nil {
			pool.Close()
			return nil, err
		}
		return &storage{
			repos:      postgres.NewRepositories(pool),
			warehouses: postgres.NewWarehouseRepository(pool),
			tx:         postgres.NewTxRunner(pool),
			ping:       pool.Ping,
			close:      pool.Close,
		}, nil
	}

	log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	s := memory.NewStore()
	return &storage{
		repos:      s.Repositories(),
		warehouses: s.Warehouses(),
		tx:         memory.NewTxRunner(s),
		ping:       func(context.Context) error { return nil },
		close:      func() {},
	}, nil
}

// watchExpiringLots revisa cada hora los lotes por vencer hasta que ctx termine.
func watchExpiringLots(ctx context.Context, uc *inventory.LotUseCase, log zerolog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		if lots, err := uc.CheckExpiring(ctx, 0); err != nil {
			log.Error().Err(err).Msg("revisión de lotes por vencer")
		} else if len(lots) > 0 {
			log.Info().Int("lots", len(lots)).Msg("lotes próximos a vencer")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
