package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/luthfiadilal/pos/internal/catalog"
	"github.com/luthfiadilal/pos/internal/checkout"
	"github.com/luthfiadilal/pos/internal/domain"
	"github.com/luthfiadilal/pos/internal/events"
	poshttp "github.com/luthfiadilal/pos/internal/http"
	"github.com/luthfiadilal/pos/internal/ordering"
	"github.com/luthfiadilal/pos/internal/session"
	"github.com/luthfiadilal/pos/pkg/logger"
)

type Config struct {
	HTTPPort        string
	CatalogAPIURL   string
	OrderAPIURL     string
	RedisAddr       string
	KafkaBrokers    []string
	PostgresHost    string
	PostgresPort    int
	PostgresUser    string
	PostgresPass    string
	PostgresDB      string
	MigrationsPath  string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	Outlet     domain.OutletRef
	User       domain.UserRef
	TellerCode string
	PointValue float64
}

func loadConfig() *Config {
	pgPort, err := strconv.Atoi(getEnv("POSTGRES_PORT", "5432"))
	if err != nil {
		pgPort = 5432
	}
	pointValue, err := strconv.ParseFloat(getEnv("POINT_VALUE", "1000"), 64)
	if err != nil {
		pointValue = 1000
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		CatalogAPIURL:   getEnv("CATALOG_API_URL", "http://localhost:9000"),
		OrderAPIURL:     getEnv("ORDER_API_URL", "http://localhost:9000"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:    brokers,
		PostgresHost:    os.Getenv("POSTGRES_HOST"),
		PostgresPort:    pgPort,
		PostgresUser:    getEnv("POSTGRES_USER", "pos"),
		PostgresPass:    getEnv("POSTGRES_PASSWORD", "pos"),
		PostgresDB:      getEnv("POSTGRES_DB", "pos"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "internal/session/migrations"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		Outlet: domain.OutletRef{
			UnitCode:    getEnv("UNIT_CD", "U001"),
			CompanyCode: getEnv("COMPANY_CD", "C01"),
			BranchCode:  getEnv("BRANCH_CD", "B01"),
		},
		User: domain.UserRef{
			UserID:   getEnv("CASHIER_ID", "cashier-1"),
			UserName: getEnv("CASHIER_NAME", "Kasir"),
		},
		TellerCode: getEnv("TELLER_CD", "T1"),
		PointValue: pointValue,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	appLog := logger.New("pos-terminal")

	// Table sessions: postgres when configured, in-memory otherwise.
	var store session.SessionStore
	if cfg.PostgresHost != "" {
		creds := &session.Credentials{
			Host:              cfg.PostgresHost,
			Port:              cfg.PostgresPort,
			User:              cfg.PostgresUser,
			Password:          cfg.PostgresPass,
			DBName:            cfg.PostgresDB,
			MigrationsDirPath: cfg.MigrationsPath,
		}
		pg, err := session.NewPostgresStore(creds)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		if err := pg.RunMigrations(creds); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		store = pg
	} else {
		appLog.Warn("memory_store", "POSTGRES_HOST not set, table sessions will not survive a restart")
		store = session.NewMemoryStore()
	}
	defer store.Close()

	bridge, err := session.NewBridge(context.Background(), store, appLog)
	if err != nil {
		log.Fatalf("failed to load table sessions: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	catalogSvc := catalog.NewService(
		catalog.NewHTTPClient(cfg.CatalogAPIURL, cfg.RequestTimeout),
		catalog.NewRedisCache(redisClient),
		appLog,
	)

	orderClient := ordering.NewClient(cfg.OrderAPIURL, cfg.RequestTimeout)

	orchestrator := checkout.NewOrchestrator(orderClient, bridge, checkout.Config{
		Outlet:       cfg.Outlet,
		User:         cfg.User,
		TellerCode:   cfg.TellerCode,
		PointValue:   cfg.PointValue,
		CounterTable: domain.TableRef{TableCode: "101", FloorCode: "101"},
	}, appLog)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(cfg.KafkaBrokers) > 0 {
		consumer := events.NewConsumer(orchestrator, appLog, cfg.KafkaBrokers...)
		defer consumer.Close()
		go consumer.Run(ctx)
	} else {
		appLog.Warn("no_kafka", "KAFKA_BROKERS not set, gateway settlement events will not be consumed")
	}

	server := poshttp.NewServer(catalogSvc, orchestrator, bridge, cfg.Outlet, cfg.RequestTimeout, appLog)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(server.Routes(), "pos-terminal"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLog.Info("server_start", "pos terminal listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	appLog.Info("server_stop", "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
}
