package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Name string `mapstructure:"name"`
		Port string `mapstructure:"port"`
		Mode string `mapstructure:"mode"`
	} `mapstructure:"app"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Rates struct {
		BaseURL     string        `mapstructure:"base_url"`
		Timeout     time.Duration `mapstructure:"timeout"`
		CacheTTL    time.Duration `mapstructure:"cache_ttl"`
		WarmBases   []string      `mapstructure:"warm_bases"`
		RefreshSpec string        `mapstructure:"refresh_spec"`
	} `mapstructure:"rates"`

	HTTP struct {
		RateLimit    string   `mapstructure:"rate_limit"`
		AllowOrigins []string `mapstructure:"allow_origins"`
	} `mapstructure:"http"`

	Postgres struct {
		Enabled  bool   `mapstructure:"enabled"`
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		DBName   string `mapstructure:"dbname"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		SSLMode  string `mapstructure:"sslmode"`
	} `mapstructure:"postgres"`
}

var defaultPaths = []string{".", "./config", "../config", "../../config"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "currency-converter")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.mode", "release")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("rates.base_url", "https://api.exchangerate-api.com/v4/latest")
	v.SetDefault("rates.timeout", 10*time.Second)
	v.SetDefault("rates.cache_ttl", time.Hour)
	v.SetDefault("rates.warm_bases", []string{"USD"})
	v.SetDefault("rates.refresh_spec", "@every 1h")

	v.SetDefault("http.rate_limit", "120-M")
	v.SetDefault("http.allow_origins", []string{"*"})

	v.SetDefault("postgres.enabled", false)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.dbname", "currency")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.sslmode", "disable")
}

// LoadConfig reads config.yaml from paths (or the usual locations when none
// are given). A missing file is not an error: defaults and env still apply.
func LoadConfig(paths ...string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if len(paths) == 0 {
		paths = defaultPaths
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
