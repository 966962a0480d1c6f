package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from an optional config file and environment
// variables. Environment variables use the LARDER_ prefix with underscores
// separating nested keys (e.g. LARDER_GROCY_API_KEY) and take precedence
// over values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional config file in the working directory or /etc/larder.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/larder")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; env vars and defaults apply.
	}

	v.SetEnvPrefix("LARDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("grocy.request_timeout_seconds", 15)
	v.SetDefault("grocy.shopping_list_id", 1)

	v.SetDefault("nutrition.base_url", "https://trackapi.nutritionix.com")

	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)

	v.SetDefault("scraper.python_bin", "python3")
	// Script paths have no defaults; scraping stays disabled until they are
	// configured.
	v.SetDefault("scraper.search_script", "")
	v.SetDefault("scraper.product_script", "")
	v.SetDefault("scraper.timeout_seconds", 120)
	v.SetDefault("scraper.walmart_store_id", "5879")
	v.SetDefault("scraper.max_search_results", 4)

	v.SetDefault("batch.concurrency", 5)

	// Viper only honors AutomaticEnv for keys it already knows about, so the
	// secret-bearing keys without defaults are registered explicitly.
	v.SetDefault("database.url", "")
	v.SetDefault("grocy.base_url", "")
	v.SetDefault("grocy.api_key", "")
	v.SetDefault("nutrition.app_id", "")
	v.SetDefault("nutrition.app_key", "")
	v.SetDefault("llm.gemini_api_key", "")
}
