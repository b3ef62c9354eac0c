package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	S3     S3Config
	App    AppConfig
}

type ServerConfig struct {
	Host string
	Port string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

type AppConfig struct {
	MaxUploadSize int64
	SignedURLTTL  time.Duration
}

// Load reads the configuration from the environment once at startup.
// The resulting struct is immutable and handed to each constructor.
func Load() (*Config, error) {
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "3306")
	viper.SetDefault("DB_USER", "root")
	viper.SetDefault("DB_PASSWORD", "")
	viper.SetDefault("DB_NAME", "images")
	viper.SetDefault("S3_ENDPOINT", "")
	viper.SetDefault("S3_REGION", "us-east-1")
	viper.SetDefault("S3_BUCKET", "images")
	viper.SetDefault("S3_ACCESS_KEY_ID", "minioadmin")
	viper.SetDefault("S3_SECRET_ACCESS_KEY", "minioadmin")
	viper.SetDefault("S3_USE_PATH_STYLE", true)
	viper.SetDefault("APP_MAX_UPLOAD_SIZE", 20*1024*1024) // 20MB
	viper.SetDefault("APP_SIGNED_URL_TTL_S", 3600)

	viper.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("SERVER_HOST"),
			Port: viper.GetString("SERVER_PORT"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		S3: S3Config{
			Endpoint:        viper.GetString("S3_ENDPOINT"),
			Region:          viper.GetString("S3_REGION"),
			Bucket:          viper.GetString("S3_BUCKET"),
			AccessKeyID:     viper.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: viper.GetString("S3_SECRET_ACCESS_KEY"),
			UsePathStyle:    viper.GetBool("S3_USE_PATH_STYLE"),
		},
		App: AppConfig{
			MaxUploadSize: viper.GetInt64("APP_MAX_UPLOAD_SIZE"),
			SignedURLTTL:  time.Duration(viper.GetInt("APP_SIGNED_URL_TTL_S")) * time.Second,
		},
	}

	if cfg.App.MaxUploadSize <= 0 {
		return nil, fmt.Errorf("APP_MAX_UPLOAD_SIZE must be positive, got %d", cfg.App.MaxUploadSize)
	}
	if cfg.App.SignedURLTTL <= 0 {
		return nil, fmt.Errorf("APP_SIGNED_URL_TTL_S must be positive")
	}

	return cfg, nil
}

// DSN renders the MySQL connection string.
func (c *DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Name)
}
