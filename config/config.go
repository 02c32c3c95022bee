package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Extract   ExtractConfig
	Scheduler SchedulerConfig
	S3        S3Config
	Postgres  PostgresConfig
	DBPath    string
	LogPath   string
	LogLevel  string
	Sources   map[string]*SourceConfig
}

type ExtractConfig struct {
	Workers int
	OutDir  string
}

type SchedulerConfig struct {
	Interval time.Duration
	Cron     string
}

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

type PostgresConfig struct {
	URL string
}

// SourceConfig describes one input corpus: where its page dumps live and
// how to label rows extracted from it.
type SourceConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Root     string `yaml:"root"`
	OutFile  string `yaml:"out_file"`
	Disabled bool   `yaml:"disabled"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Extract: ExtractConfig{
			Workers: getEnvInt("EXTRACT_WORKERS", 4),
			OutDir:  getEnv("EXTRACT_OUT_DIR", "."),
		},
		Scheduler: SchedulerConfig{
			Cron: os.Getenv("EXTRACT_CRON"),
		},
		S3: S3Config{
			Bucket:          os.Getenv("S3_BUCKET"),
			Region:          getEnv("S3_REGION", "ap-southeast-1"),
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		},
		Postgres: PostgresConfig{
			URL: os.Getenv("POSTGRES_URL"),
		},
		DBPath:   getEnv("DB_PATH", "extractor.db"),
		LogPath:  getEnv("LOG_PATH", "extractor.log"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Sources:  make(map[string]*SourceConfig),
	}

	if interval := os.Getenv("EXTRACT_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err == nil {
			cfg.Scheduler.Interval = d
		}
	}

	if err := cfg.loadSourceConfigs(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadSourceConfigs() error {
	configDir := "config/sources"
	entries, err := os.ReadDir(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}

		path := filepath.Join(configDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		var src SourceConfig
		if err := yaml.Unmarshal(data, &src); err != nil {
			return err
		}
		if src.Disabled {
			continue
		}

		c.Sources[src.ID] = &src
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
