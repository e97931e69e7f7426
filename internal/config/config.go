package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/webmediarec/backend/internal/logger"
	"github.com/webmediarec/backend/internal/utils"
)

type Config struct {
	AppName     string   `yaml:"app_name"`
	AppEnv      string   `yaml:"app_env"`
	HTTPAddr    string   `yaml:"http_addr"`
	CORSOrigins []string `yaml:"cors_origins"`

	DBDriver   string `yaml:"db_driver"` // sqlite | postgres
	SQLitePath string `yaml:"sqlite_path"`

	ModelPath string `yaml:"model_path"`

	CandidatePoolLimit int `yaml:"candidate_pool_limit"`
}

func defaults() Config {
	return Config{
		AppName:            "WebMediaRecommender",
		AppEnv:             "dev",
		HTTPAddr:           ":8000",
		CORSOrigins:        []string{"http://localhost:3000", "http://localhost:5173"},
		DBDriver:           "sqlite",
		SQLitePath:         "data/app.db",
		ModelPath:          "",
		CandidatePoolLimit: 2000,
	}
}

// Load reads the optional yaml config file pointed at by CONFIG_PATH, then
// applies env var overrides on top. Missing file is not an error.
func Load(log *logger.Logger) (Config, error) {
	cfg := defaults()

	path := strings.TrimSpace(os.Getenv("CONFIG_PATH"))
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	}

	cfg.AppName = utils.GetEnv("APP_NAME", cfg.AppName, log)
	cfg.AppEnv = utils.GetEnv("APP_ENV", cfg.AppEnv, log)
	cfg.HTTPAddr = utils.GetEnv("HTTP_ADDR", cfg.HTTPAddr, log)
	cfg.DBDriver = utils.GetEnv("DB_DRIVER", cfg.DBDriver, log)
	cfg.SQLitePath = utils.GetEnv("SQLITE_PATH", cfg.SQLitePath, log)
	cfg.ModelPath = utils.GetEnv("MODEL_PATH", cfg.ModelPath, log)
	cfg.CandidatePoolLimit = utils.GetEnvAsInt("CANDIDATE_POOL_LIMIT", cfg.CandidatePoolLimit, log)
	if origins := utils.GetEnv("CORS_ORIGINS", "", log); origins != "" {
		parts := strings.Split(origins, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				out = append(out, s)
			}
		}
		cfg.CORSOrigins = out
	}
	return cfg, nil
}
