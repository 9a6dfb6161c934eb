package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// DriverMongo stores records in a hosted MongoDB document store.
	DriverMongo = "mongo"
	// DriverSQLite stores records in a local sqlite file.
	DriverSQLite = "sqlite"
)

// Config holds application level configuration aggregated from env/config files.
// It is loaded once at startup and read-only afterwards.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Driver            string
		URI               string
		Name              string
		UsersCollection   string
		HistoryCollection string
		Path              string
	}
	Inference struct {
		Token       string
		BaseURL     string
		Model       string
		MaxTokens   int
		Temperature float64
	}
	Auth struct {
		JWTSecret       string
		TokenTTLMinutes int
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("STUDYBUDDY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("database.driver", DriverMongo)
	v.SetDefault("database.uri", "")
	v.SetDefault("database.name", "")
	v.SetDefault("database.userscollection", "users")
	v.SetDefault("database.historycollection", "interactions")
	v.SetDefault("database.path", "data/studybuddy.db")
	v.SetDefault("inference.token", "")
	v.SetDefault("inference.baseurl", "https://router.huggingface.co/v1")
	v.SetDefault("inference.model", "meta-llama/Meta-Llama-3-8B-Instruct")
	v.SetDefault("inference.maxtokens", 2048)
	v.SetDefault("inference.temperature", 0.7)
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.tokenttlminutes", 1440)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Validate checks the required secrets. A missing one halts startup.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Inference.Token) == "" {
		return errors.New("inference token is required (STUDYBUDDY_INFERENCE_TOKEN)")
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("auth jwt secret is required (STUDYBUDDY_AUTH_JWTSECRET)")
	}

	switch c.Database.Driver {
	case DriverMongo:
		if strings.TrimSpace(c.Database.URI) == "" {
			return errors.New("database uri is required (STUDYBUDDY_DATABASE_URI)")
		}
		if strings.TrimSpace(c.Database.Name) == "" {
			return errors.New("database name is required (STUDYBUDDY_DATABASE_NAME)")
		}
		if strings.TrimSpace(c.Database.UsersCollection) == "" {
			return errors.New("users collection name is required (STUDYBUDDY_DATABASE_USERSCOLLECTION)")
		}
		if strings.TrimSpace(c.Database.HistoryCollection) == "" {
			return errors.New("history collection name is required (STUDYBUDDY_DATABASE_HISTORYCOLLECTION)")
		}
	case DriverSQLite:
		if strings.TrimSpace(c.Database.Path) == "" {
			return errors.New("database path is required (STUDYBUDDY_DATABASE_PATH)")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	return nil
}
