package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Etymology EtymologyConfig `mapstructure:"etymology"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host" validate:"required"`
	Port            int               `mapstructure:"port" validate:"required"`
	Username        string            `mapstructure:"username" validate:"required"`
	Password        string            `mapstructure:"password"`
	Database        string            `mapstructure:"database" validate:"required"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime"`
}

type ServerConfig struct {
	Address       string `mapstructure:"address" validate:"required"`
	AllowedOrigin string `mapstructure:"allowed_origin"`
	DueWordCap    int    `mapstructure:"due_word_cap" validate:"gt=0"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type EtymologyConfig struct {
	DatasetURL string `mapstructure:"dataset_url"`
}

func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/lexio")
	}

	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "lexio")
	v.SetDefault("database.database", "lexio")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.allowed_origin", "http://localhost:3000")
	v.SetDefault("server.due_word_cap", 10)
	v.SetDefault("openai.model", "gpt-4o-mini")

	// Bind secrets to environment variables only (not from config file)
	if err := v.BindEnv("database.password", "LEXIO_DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind LEXIO_DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("openai.api_key", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_API_KEY environment variable: %w", err)
	}
	if err := v.BindEnv("openai.model", "OPENAI_MODEL"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_MODEL environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
