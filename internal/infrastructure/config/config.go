package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	OpenRouter  OpenRouterConfig  `mapstructure:"openrouter"`
	HuggingFace HuggingFaceConfig `mapstructure:"huggingface"`
	Store       StoreConfig       `mapstructure:"store"`
	LogLevel    string            `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// OpenRouterConfig OpenRouter 配置
type OpenRouterConfig struct {
	APIKey string `mapstructure:"api_key"`
	// AppURL 作為 HTTP-Referer 標頭送出，OpenRouter 用它識別應用
	AppURL           string        `mapstructure:"app_url"`
	RecipeModel      string        `mapstructure:"recipe_model"`
	PromptModel      string        `mapstructure:"prompt_model"`
	ImageModel       string        `mapstructure:"image_model"`
	IngredientsModel string        `mapstructure:"ingredients_model"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

// HuggingFaceConfig Hugging Face 二進位圖片後端配置。
// APIKey 為空時一律走 OpenRouter 的圖片端點。
type HuggingFaceConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// StoreConfig 已存食譜集合的配置
type StoreConfig struct {
	RedisAddr string `mapstructure:"redis_addr"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件（沒有也沒關係，環境變數可能已設定）
	_ = godotenv.Load()

	// 設定預設值
	setDefaults()

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量
	viper.BindEnv("openrouter.api_key", "OPENROUTER_API_KEY")
	viper.BindEnv("openrouter.app_url", "APP_URL")
	viper.BindEnv("openrouter.recipe_model", "RECIPE_MODEL")
	viper.BindEnv("openrouter.prompt_model", "PROMPT_MODEL")
	viper.BindEnv("openrouter.image_model", "IMAGE_MODEL")
	viper.BindEnv("openrouter.ingredients_model", "INGREDIENTS_MODEL")
	viper.BindEnv("openrouter.timeout", "OPENROUTER_TIMEOUT")
	viper.BindEnv("huggingface.api_key", "HUGGINGFACE_API_KEY")
	viper.BindEnv("huggingface.timeout", "HUGGINGFACE_TIMEOUT")
	viper.BindEnv("store.redis_addr", "REDIS_ADDR")
	viper.BindEnv("log_level", "LOG_LEVEL")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// logger 尚未初始化，改用 fmt.Println
	fmt.Println("Loading configuration",
		"openrouter_api_key:", maskAPIKey(viper.GetString("openrouter.api_key")),
		"recipe_model:", viper.GetString("openrouter.recipe_model"),
		"image_model:", viper.GetString("openrouter.image_model"),
		"has_huggingface_api_key:", viper.GetString("huggingface.api_key") != "")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 未設定的模型回退到食譜模型
	if config.OpenRouter.PromptModel == "" {
		config.OpenRouter.PromptModel = config.OpenRouter.RecipeModel
	}
	if config.OpenRouter.IngredientsModel == "" {
		config.OpenRouter.IngredientsModel = config.OpenRouter.RecipeModel
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// maskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "recipe-forge")

	// OpenRouter 設定
	viper.SetDefault("openrouter.app_url", "https://recipe-forge.local")
	viper.SetDefault("openrouter.recipe_model", "mistralai/mistral-small-3.1-24b-instruct:free")
	viper.SetDefault("openrouter.image_model", "black-forest-labs/FLUX.1-schnell")
	viper.SetDefault("openrouter.timeout", "60s")

	// Hugging Face 設定
	viper.SetDefault("huggingface.timeout", "120s")

	// 儲存設定
	viper.SetDefault("store.redis_addr", "localhost:6379")

	viper.SetDefault("log_level", "info")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.OpenRouter.APIKey == "" {
		return fmt.Errorf("openrouter api key is required")
	}
	if config.OpenRouter.RecipeModel == "" {
		return fmt.Errorf("recipe model is required")
	}
	if config.OpenRouter.ImageModel == "" {
		return fmt.Errorf("image model is required")
	}
	if config.OpenRouter.Timeout <= 0 {
		return fmt.Errorf("invalid openrouter timeout")
	}
	if config.HuggingFace.Timeout <= 0 {
		return fmt.Errorf("invalid huggingface timeout")
	}
	return nil
}
