package app

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/farmlog/farmlog-api/internal/api"
	"github.com/farmlog/farmlog-api/internal/config"
	"github.com/farmlog/farmlog-api/internal/db"
	"github.com/farmlog/farmlog-api/internal/logger"
	"github.com/farmlog/farmlog-api/internal/repository"
	"github.com/farmlog/farmlog-api/internal/repository/dao"
	"github.com/farmlog/farmlog-api/internal/service"
)

const defaultConfigPath = "./cmd/app/config.yml"

func bootstrap(configPath string) (*config.AppConfig, *gorm.DB, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger -> %w", err)
	}
	if err = logger.SetLevel(conf.API.LogLevel); err != nil {
		zap.L().Warn("keeping default log level", zap.Error(err))
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL, conf.API.Environment)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres, conf.API.Environment)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database -> %w", err)
	}

	return conf, postgresDB, nil
}

// Start migrates the schema and serves the API until the listener fails.
func Start(configPath string) error {
	conf, postgresDB, err := bootstrap(configPath)
	if err != nil {
		return err
	}

	if err = dao.InitTables(postgresDB); err != nil {
		return fmt.Errorf("failed to migrate tables -> %w", err)
	}

	err = config.Watch(configPath, func(level string) {
		if err := logger.SetLevel(level); err != nil {
			zap.L().Warn("ignoring log level from config", zap.Error(err))
		}
	})
	if err != nil {
		zap.L().Warn("config hot reload disabled", zap.Error(err))
	}

	s := api.NewServer(conf, postgresDB)

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}

// SetStaff grants or revokes the staff flag of username.
func SetStaff(configPath, username string, staff bool) error {
	_, postgresDB, err := bootstrap(configPath)
	if err != nil {
		return err
	}

	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(postgresDB)))
	if err = uSvc.SetStaff(context.Background(), username, staff); err != nil {
		return fmt.Errorf("failed to update %v -> %w", username, err)
	}
	zap.L().Info("staff flag updated", zap.String("username", username), zap.Bool("staff", staff))

	return nil
}

// Migrate creates or updates the schema. With reset every table is dropped first.
func Migrate(configPath string, reset bool) error {
	_, postgresDB, err := bootstrap(configPath)
	if err != nil {
		return err
	}

	if reset {
		zap.L().Warn("dropping every table")
		if err = dao.DropAllTables(postgresDB); err != nil {
			return fmt.Errorf("failed to drop tables -> %w", err)
		}
	}

	if err = dao.InitTables(postgresDB); err != nil {
		return fmt.Errorf("failed to migrate tables -> %w", err)
	}
	zap.L().Info("schema is up to date")

	return nil
}
