package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Grocy     GrocyConfig     `mapstructure:"grocy" validate:"required"`
	Nutrition NutritionConfig `mapstructure:"nutrition"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Scraper   ScraperConfig   `mapstructure:"scraper"`
	Batch     BatchConfig     `mapstructure:"batch"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains settings for the macro-tracking Postgres store.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// GrocyConfig contains settings for the grocy catalog backend.
type GrocyConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	APIKey  string `mapstructure:"api_key" validate:"required"`
	// RequestTimeoutSeconds bounds each catalog HTTP call.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"gte=0"`
	// ShoppingListID selects the shopping list used by batch jobs.
	ShoppingListID int `mapstructure:"shopping_list_id" validate:"gte=0"`
}

// NutritionConfig contains settings for the Nutritionix UPC lookup service.
// An empty AppKey disables lookups; scans of unknown barcodes then fail.
type NutritionConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
	AppID   string `mapstructure:"app_id"`
	AppKey  string `mapstructure:"app_key"`
}

// LLMConfig contains all LLM integration related settings.
// An empty GeminiAPIKey disables the matcher and suggester; the scan
// pipeline then degrades to no-match / no-suggestion behavior.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key"`
	ModelName         string `mapstructure:"model_name"`
	MaxRetries        int    `mapstructure:"max_retries" validate:"gte=0"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}

// ScraperConfig locates the python scrape scripts invoked as subprocesses.
type ScraperConfig struct {
	PythonBin        string `mapstructure:"python_bin"`
	SearchScript     string `mapstructure:"search_script"`
	ProductScript    string `mapstructure:"product_script"`
	TimeoutSeconds   int    `mapstructure:"timeout_seconds" validate:"gte=0"`
	WalmartStoreID   string `mapstructure:"walmart_store_id"`
	MaxSearchResults int    `mapstructure:"max_search_results" validate:"gte=0"`
}

// BatchConfig tunes background batch jobs.
type BatchConfig struct {
	// Concurrency caps in-flight scrape tasks per batch job.
	Concurrency int `mapstructure:"concurrency" validate:"gte=0"`
}
