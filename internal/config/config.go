package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	FixPrice FixPriceConfig `mapstructure:"fixprice"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cities   CitiesConfig   `mapstructure:"cities"`
}

// FixPriceConfig holds Fix Price API configuration and crawl parameters
type FixPriceConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	SiteURL  string `mapstructure:"site_url"`
	APIKey   string `mapstructure:"api_key"`
	Language string `mapstructure:"language"`

	// CityID is sent as the x-city header on every catalog request.
	CityID int `mapstructure:"city_id"`

	// Categories is a comma-delimited list of category slug paths,
	// e.g. "igrushki,dlya-doma/posuda".
	Categories string `mapstructure:"categories"`

	Timeout              int `mapstructure:"timeout"`
	MaxRetries           int `mapstructure:"max_retries"`
	MaxWorkers           int `mapstructure:"max_workers"`
	MaxRequestsPerSecond int `mapstructure:"max_requests_per_second"`
}

// CategorySlugs splits the comma-delimited Categories value, dropping empty
// entries so trailing commas are harmless.
func (c FixPriceConfig) CategorySlugs() []string {
	slugs := make([]string, 0)
	for _, slug := range strings.Split(c.Categories, ",") {
		if slug = strings.TrimSpace(slug); slug != "" {
			slugs = append(slugs, slug)
		}
	}
	return slugs
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Password      string `mapstructure:"password"`
	Database      int    `mapstructure:"database"`
	ConsumerGroup string `mapstructure:"consumer_group"`
	MinIdleTime   int    `mapstructure:"min_idle_time"`
}

// CitiesConfig holds settings for the city list utility
type CitiesConfig struct {
	OutputFile string `mapstructure:"output_file"`
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config.yaml file not found in current directory")
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

// Validate rejects malformed crawl parameters. It is checked at container
// construction, before any network activity; the city list utility does not
// need crawl parameters and skips it.
func (c FixPriceConfig) Validate() error {
	if c.CityID <= 0 {
		return fmt.Errorf("fixprice.city_id should be a positive integer, got %d", c.CityID)
	}
	if len(c.CategorySlugs()) == 0 {
		return fmt.Errorf("fixprice.categories should contain at least one category slug")
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("fixprice.base_url", "https://api.fix-price.com/buyer/v1")
	viper.SetDefault("fixprice.site_url", "https://fix-price.com/catalog")
	viper.SetDefault("fixprice.api_key", "058446550cb5b9c60f4b480c1d90cd31")
	viper.SetDefault("fixprice.language", "ru")
	viper.SetDefault("fixprice.timeout", 30)
	viper.SetDefault("fixprice.max_retries", 3)
	viper.SetDefault("fixprice.max_workers", 10)
	viper.SetDefault("fixprice.max_requests_per_second", 5)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "fixprice")
	viper.SetDefault("database.user", "fixprice_user")
	viper.SetDefault("database.password", "fixprice_pass")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "redis_pass")
	viper.SetDefault("redis.database", 0)
	viper.SetDefault("redis.consumer_group", "fixprice_consumer")
	viper.SetDefault("redis.min_idle_time", 120)

	viper.SetDefault("cities.output_file", "available_cities.txt")
}
