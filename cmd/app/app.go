package app

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/eventpulse/eventpulse-api/internal/api"
	"github.com/eventpulse/eventpulse-api/internal/config"
	"github.com/eventpulse/eventpulse-api/internal/db"
	"github.com/eventpulse/eventpulse-api/internal/logger"
	"github.com/eventpulse/eventpulse-api/internal/repository/dao"
	"github.com/eventpulse/eventpulse-api/internal/worker"
)

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	if err = dao.InitTables(postgresDB); err != nil {
		return fmt.Errorf("failed to migrate tables -> %w", err)
	}

	var redisClient *redis.Client
	if conf.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     conf.Redis.Addr,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		})
		if err = redisClient.Ping(context.Background()).Err(); err != nil {
			zap.L().Warn("redis unreachable, continuing without cache", zap.Error(err))
			redisClient = nil
		}
	}

	s := api.NewServer(conf, postgresDB, redisClient)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper := worker.NewStatusSweeper(s.EventService(), conf.Worker.SweepInterval)
	go sweeper.Start(ctx)

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}
