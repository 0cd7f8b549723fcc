package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contact_keeper/internal/config"
	"contact_keeper/internal/handler"
	"contact_keeper/internal/logging"
	"contact_keeper/internal/repository"
	"contact_keeper/internal/service"
	"contact_keeper/internal/utils"

	"github.com/gin-gonic/gin"
)

// stores is the persistence the services run on, whichever driver backs it
type stores struct {
	users    repository.UserRepository
	contacts repository.ContactRepository
	ping     func(ctx context.Context) error
	close    func()
}

func main() {
	boot := logging.New(os.Stderr, "info")
	ctx := context.Background()

	// Load .env file
	if err := config.LoadEnv(); err != nil {
		boot.Error(ctx, "failed to load .env", "error", err)
		os.Exit(1)
	}

	// --- Configuration ---
	cfg, err := config.LoadServerConfig()
	if err != nil {
		boot.Error(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	log := logging.New(os.Stderr, cfg.LogLevel)
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	// --- Database Connection ---
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to open store", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer st.close()

	// --- Initialize Services ---
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret, cfg.JWTExpiration)
	authService := service.NewAuthService(st.users, jwtUtil, log)
	contactService := service.NewContactService(st.contacts)

	// --- Setup Gin Router ---
	router := handler.NewRouter(handler.RouterOptions{
		AuthService:    authService,
		ContactService: contactService,
		JWT:            jwtUtil,
		Logger:         log,
		CORSOrigins:    cfg.CORSOrigins,
		Ping:           st.ping,
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info(ctx, "server starting", "port", cfg.Port, "driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info(ctx, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server forced to shutdown", "error", err)
	}

	log.Info(ctx, "server exiting")
}

func openStores(ctx context.Context, cfg *config.ServerConfig, log logging.Logger) (*stores, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		pool, err := config.ConnectDB(ctx, cfg.Postgres, log)
		if err != nil {
			return nil, err
		}
		if err := config.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &stores{
			users:    repository.NewUserRepository(pool),
			contacts: repository.NewContactRepository(pool),
			ping:     pool.Ping,
			close:    pool.Close,
		}, nil

	case config.DriverMongo:
		client, db, err := config.ConnectMongo(ctx, cfg.Mongo, log)
		if err != nil {
			return nil, err
		}
		if err := repository.EnsureMongoIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &stores{
			users:    repository.NewMongoUserRepository(db),
			contacts: repository.NewMongoContactRepository(db),
			ping:     func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := client.Disconnect(ctx); err != nil {
					log.Warn(ctx, "mongo disconnect", "error", err)
				}
			},
		}, nil

	default:
		log.Warn(ctx, "using in-memory store, data is lost on restart")
		return &stores{
			users:    repository.NewMemoryUserRepository(),
			contacts: repository.NewMemoryContactRepository(),
			close:    func() {},
		}, nil
	}
}
