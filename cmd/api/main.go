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

	_ "github.com/jhoicas/Manufactura-api/docs"
	"github.com/jhoicas/Manufactura-api/internal/application/auth"
	"github.com/jhoicas/Manufactura-api/internal/application/csvimport"
	"github.com/jhoicas/Manufactura-api/internal/application/displayconfig"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/application/production"
	"github.com/jhoicas/Manufactura-api/internal/application/usecase"
	infrakafka "github.com/jhoicas/Manufactura-api/internal/infrastructure/kafka"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Manufactura-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/redisqueue"
	httpRouter "github.com/jhoicas/Manufactura-api/internal/interfaces/http"
	"github.com/jhoicas/Manufactura-api/pkg/config"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// @title                      Manufactura API
// @version                    1.0
// @description                API de back office de manufactura: libro de inventario, asignación de materiales, recepción de pedidos, producción e importación CSV.
// @BasePath                   /
// @securityDefinitions.apikey Bearer
// @in                         header
// @name                       Authorization
// @description                Token JWT con el prefijo "Bearer ".
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
		Str("version", cfg.App.Version).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	migrator, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log.WithComponent("migrate"))
	if err != nil {
		log.Fatal().Err(err).Msg("preparar migraciones")
	}
	if err := migrator.Up(); err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}
	_ = migrator.Close()

	// Métricas: el recorder es opcional; los interfaces quedan nil si está deshabilitado.
	var (
		recorder   *metrics.Recorder
		invMetrics inventory.Metrics
		csvMetrics csvimport.Metrics
	)
	if cfg.Metrics.Enabled {
		recorder = metrics.NewRecorder(true)
		invMetrics, csvMetrics = recorder, recorder
	}

	var publisher inventory.MovementPublisher
	var kafkaPublisher *infrakafka.MovementPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err = infrakafka.NewMovementPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log.WithComponent("kafka"))
		if err != nil {
			log.Fatal().Err(err).Strs("brokers", cfg.Kafka.Brokers).Msg("conexión a Kafka")
		}
		publisher = kafkaPublisher
	}

	userRepo := postgres.NewUserRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	poRepo := postgres.NewPurchaseOrderRepository(pool)
	receiptRepo := postgres.NewReceiptRepository(pool)
	soRepo := postgres.NewSalesOrderRepository(pool)
	planRepo := postgres.NewProductionPlanRepository(pool)
	partsRepo := postgres.NewPartsUsedRepository(pool)
	allocRepo := postgres.NewMaterialAllocationRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	machineRepo := postgres.NewMachineRepository(pool)
	inspectionRepo := postgres.NewInspectionRepository(pool)
	taskRepo := postgres.NewAsyncTaskRepository(pool)
	mappingRepo := postgres.NewCsvMappingRepository(pool)
	qrRepo := postgres.NewQrActionRepository(pool)
	displayRepo := postgres.NewDisplaySettingRepository(pool)
	importRepo := postgres.NewImportRepository(pool)

	// Motor de inventario: toda variación de existencias pasa por el executor.
	txRunner := postgres.NewTxRunner(pool, cfg.DB.LockTimeout)
	executor := inventory.NewExecutor(txRunner, publisher, invMetrics, log.WithComponent("inventory"))
	allocationSvc := inventory.NewAllocationService(executor, log.WithComponent("allocation"))
	receiptSvc := inventory.NewReceiptService(executor, log.WithComponent("receipt"))
	relocationSvc := inventory.NewRelocationService(executor, log.WithComponent("relocation"))
	completionSvc := production.NewCompletionService(executor,
		cfg.Inventory.FinishedGoodsWarehouse, cfg.Inventory.FinishedGoodsLocation, log.WithComponent("production"))

	labels := infrapdf.NewShelfLabelGenerator()
	inventoryUC := inventory.NewInventoryUseCase(inventoryRepo, movementRepo, warehouseRepo, labels)
	planUC := production.NewPlanUseCase(planRepo, partsRepo, inventoryRepo, allocRepo)
	orderUC := usecase.NewOrderUseCase(poRepo, receiptRepo, soRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	itemUC := usecase.NewItemUseCase(itemRepo)
	masterUC := usecase.NewMasterDataUseCase(supplierRepo, machineRepo)
	qualityUC := usecase.NewQualityUseCase(inspectionRepo)
	qrUC := usecase.NewQrActionUseCase(qrRepo, log.WithComponent("qr"))
	userUC := usecase.NewUserUseCase(userRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	display, err := displayconfig.Load(ctx, displayRepo)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar configuración de presentación")
	}

	// Importación CSV: Redis si está configurado, si no cola en memoria del proceso.
	var queue csvimport.Queue
	var redisQueue *redisqueue.Queue
	if cfg.Redis.Addr != "" {
		redisQueue, err = redisqueue.New(cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		queue = redisQueue
	} else {
		queue = csvimport.NewMemoryQueue(64)
	}
	csvLog := log.WithComponent("csv-import")
	csvSvc := csvimport.NewService(taskRepo, mappingRepo, queue, cfg.CSVImport.MaxFileBytes, csvLog)
	runner := csvimport.NewRunner(taskRepo, mappingRepo, importRepo, csvMetrics, csvLog)
	workers := csvimport.NewPool(queue, runner, cfg.CSVImport.Workers, csvLog)
	workerCtx, stopWorkers := context.WithCancel(ctx)
	workers.Start(workerCtx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    cfg.CSVImport.MaxFileBytes + 1<<20,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))
	if recorder != nil {
		app.Use(recorder.Middleware())
	}

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Manufactura API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		UserUC:       userUC,
		InventoryUC:  inventoryUC,
		Relocation:   relocationSvc,
		Receipts:     receiptSvc,
		Allocation:   allocationSvc,
		Completion:   completionSvc,
		PlanUC:       planUC,
		OrderUC:      orderUC,
		WarehouseUC:  warehouseUC,
		ItemUC:       itemUC,
		MasterDataUC: masterUC,
		QualityUC:    qualityUC,
		QrActionUC:   qrUC,
		CSVImport:    csvSvc,
		Display:      display,
		Metrics:      recorder,
		MetricsPath:  cfg.Metrics.Path,
		Info: httpRouter.AppInfo{
			Name:    cfg.App.Name,
			Version: cfg.App.Version,
			Env:     cfg.App.Env,
		},
		JWTSecret: cfg.JWT.Secret,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	// Las tareas en curso terminan en FAILURE al cancelar el contexto de los workers.
	stopWorkers()
	workers.Wait()

	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar productor Kafka")
		}
	}
	if redisQueue != nil {
		if err := redisQueue.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar cola Redis")
		}
	}

	log.Info().Msg("aplicación detenida")
}
