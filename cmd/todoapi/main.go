package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kbukum/todoapi/auth/jwt"
	"github.com/kbukum/todoapi/auth/password"
	"github.com/kbukum/todoapi/config"
	"github.com/kbukum/todoapi/database"
	"github.com/kbukum/todoapi/logger"
	"github.com/kbukum/todoapi/mail"
	"github.com/kbukum/todoapi/recovery"
	"github.com/kbukum/todoapi/redis"
	"github.com/kbukum/todoapi/server"
	"github.com/kbukum/todoapi/server/middleware"
	"github.com/kbukum/todoapi/task"
	"github.com/kbukum/todoapi/user"
)

const serviceName = "todoapi"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	var cfg config.Config
	if err := config.Load(&cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log := logger.New(&cfg.Logging, serviceName)
	logger.SetGlobalLogger(log)

	tokens, err := jwt.NewService(&cfg.Auth.JWT)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, dialectorFor(cfg.Database), cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(&user.User{}, &task.Task{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	rdb, err := redis.New(cfg.Redis, log)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer rdb.Close()

	codes := recovery.NewStore(rdb, cfg.Recovery)
	mailer := mail.New(cfg.Mail, log)

	hasherOpts := []password.BcryptOption{}
	if cfg.Auth.BcryptCost > 0 {
		hasherOpts = append(hasherOpts, password.WithCost(cfg.Auth.BcryptCost))
	}
	hasher := password.NewBcryptHasher(hasherOpts...)

	users := user.NewService(user.NewRepository(db), hasher, tokens, codes, mailer, log)
	tasks := task.NewService(task.NewRepository(db), log)
	userHandler := user.NewHandler(users)
	taskHandler := task.NewHandler(tasks)

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()

	engine := srv.GinEngine()
	engine.GET("/health", func(c *gin.Context) {
		server.RespondMessage(c, "ok")
	})

	userHandler.RegisterPublicRoutes(engine)

	protected := engine.Group("/", middleware.Auth(tokens))
	userHandler.RegisterProtectedRoutes(protected)
	taskHandler.RegisterRoutes(protected)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	log.Info("Service started", map[string]interface{}{"addr": srv.Addr()})

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}

func dialectorFor(cfg database.Config) gorm.Dialector {
	if cfg.Driver == "sqlite" {
		return sqlite.Open(cfg.DSN)
	}
	return postgres.Open(cfg.DSN)
}
