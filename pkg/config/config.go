package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Emotion    EmotionConfig
	Generation GenerationConfig
	Company    CompanyConfig
	Storage    StorageConfig
	Redis      RedisConfig
	Logging    LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
	BodyLimit    int
}

// EmotionConfig selects the text-classification service: Endpoint is the
// inference API base, Model the classification model served under it.
type EmotionConfig struct {
	Endpoint   string
	Model      string
	APIToken   string
	TimeoutSec int
}

// InferenceURL joins the inference base endpoint with the model name.
func (c EmotionConfig) InferenceURL() string {
	return strings.TrimSuffix(c.Endpoint, "/") + "/" + c.Model
}

type GenerationConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	TimeoutSec  int
}

type CompanyConfig struct {
	Name      string
	Expertise []string
	Values    []string
}

// StorageConfig selects the interaction log backend: "jsonfile" keeps the
// pretty-printed JSON array document, "sqlite" uses a transactional store.
type StorageConfig struct {
	Backend    string
	LogFile    string
	SQLitePath string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	ScoreTTL int
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/paulson-ai")

	viper.SetEnvPrefix("PAULSON_AI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 30)
	viper.SetDefault("server.bodyLimit", 1048576)

	viper.SetDefault("emotion.endpoint", "https://api-inference.huggingface.co/models")
	viper.SetDefault("emotion.model", "j-hartmann/emotion-english-distilroberta-base")
	viper.SetDefault("emotion.timeoutSec", 15)

	viper.SetDefault("generation.baseURL", "https://openrouter.ai/api/v1")
	viper.SetDefault("generation.model", "meta-llama/llama-4-scout:free")
	viper.SetDefault("generation.temperature", 0.7)
	viper.SetDefault("generation.maxTokens", 1024)
	viper.SetDefault("generation.timeoutSec", 30)

	viper.SetDefault("company.name", "Paulson & Partners")
	viper.SetDefault("company.expertise", []string{"wealth management", "tax planning", "corporate solutions"})
	viper.SetDefault("company.values", []string{"integrity", "client success", "personalized service", "expertise"})

	viper.SetDefault("storage.backend", "jsonfile")
	viper.SetDefault("storage.logFile", "./data/conversation_logs.json")
	viper.SetDefault("storage.sqlitePath", "./data/interactions.db")

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.scoreTTL", 3600)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}
