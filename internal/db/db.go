package db

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/webmediarec/backend/internal/config"
	"github.com/webmediarec/backend/internal/logger"
	"github.com/webmediarec/backend/internal/types"
)

type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

// New opens the store selected by cfg.DBDriver. sqlite is the default and
// needs no external process; postgres is driven by the usual POSTGRES_* env
// vars.
func New(cfg config.Config, log *logger.Logger) (*Service, error) {
	serviceLog := log.With("service", "DBService")

	var (
		dialector gorm.Dialector
		err       error
	)
	switch cfg.DBDriver {
	case "", "sqlite":
		dialector, err = sqliteDialector(cfg.SQLitePath, serviceLog)
	case "postgres":
		dialector = postgresDialector(log)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, err
	}

	serviceLog.Info("Connecting to database", "driver", cfg.DBDriver)
	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		serviceLog.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return &Service{db: gdb, log: serviceLog}, nil
}

func sqliteDialector(path string, log *logger.Logger) (gorm.Dialector, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	log.Debug("Using sqlite database", "path", path)
	return sqlite.Open(path + "?_foreign_keys=on"), nil
}

func postgresDialector(log *logger.Logger) gorm.Dialector {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "postgres")
	password := envOr("POSTGRES_PASSWORD", "")
	name := envOr("POSTGRES_NAME", "webmediarec")
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
	return postgres.Open(dsn)
}

func envOr(key, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultVal
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.Item{},
		&types.Interaction{},
		&types.Impression{},
		&types.Engagement{},
	)
	if err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	return nil
}

func (s *Service) DB() *gorm.DB {
	return s.db
}
