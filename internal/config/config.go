package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DB       DBConfig
	Server   ServerConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	JWT      JWTConfig
	LLM      LLMConfig
	Speech   SpeechConfig
	YtDlp    YtDlpConfig
	Pipeline PipelineConfig
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Env   string
	Level string
}

type JWTConfig struct {
	SecretKey string
}

// LLMConfig selects the generative backend used for quiz generation.
// Provider is one of "googleai", "ollama" or "openai". An empty ServerURL means the
// provider's own default endpoint.
type LLMConfig struct {
	Provider          string
	Model             string
	APIKey            string
	ServerURL         string
	Temperature       float64
	RequestsPerMinute int
}

// SpeechConfig points at a Whisper-compatible transcription server.
type SpeechConfig struct {
	Endpoint string
	Model    string
	APIKey   string
}

type YtDlpConfig struct {
	Path string
}

type PipelineConfig struct {
	ScratchDir           string
	MaxConcurrentFetches int64
	FetchTimeout         time.Duration
	TranscribeTimeout    time.Duration
	GenerateTimeout      time.Duration
	DownloadRetries      int
	GenerationRetries    int
	RegenerateAttempts   int
	RetryInitialWait     time.Duration
	RetryMaxWait         time.Duration
	TranscriptCacheTTL   time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("db.port", 1521)
	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.level", "info")
	v.SetDefault("llm.provider", "googleai")
	v.SetDefault("llm.model", "gemini-2.0-flash")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.requests_per_minute", 30)
	v.SetDefault("speech.endpoint", "http://localhost:8178/inference")
	v.SetDefault("speech.model", "whisper-1")
	v.SetDefault("ytdlp.path", "yt-dlp")
	v.SetDefault("pipeline.scratch_dir", filepath.Join(os.TempDir(), "quiz-tube"))
	v.SetDefault("pipeline.max_concurrent_fetches", 2)
	v.SetDefault("pipeline.fetch_timeout", "5m")
	v.SetDefault("pipeline.transcribe_timeout", "15m")
	v.SetDefault("pipeline.generate_timeout", "2m")
	v.SetDefault("pipeline.download_retries", 2)
	v.SetDefault("pipeline.generation_retries", 2)
	v.SetDefault("pipeline.regenerate_attempts", 1)
	v.SetDefault("pipeline.retry_initial_wait", "1s")
	v.SetDefault("pipeline.retry_max_wait", "20s")
	v.SetDefault("pipeline.transcript_cache_ttl", "24h")
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	return load(v)
}

// LoadConfigFile reads configuration from an explicit YAML file.
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	cfg := &Config{
		DB: DBConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
		},
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  time.Duration(v.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("server.write_timeout")) * time.Second,
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Logger: LoggerConfig{
			Env:   v.GetString("logger.env"),
			Level: v.GetString("logger.level"),
		},
		JWT: JWTConfig{
			SecretKey: v.GetString("jwt.secret_key"),
		},
		LLM: LLMConfig{
			Provider:          strings.ToLower(v.GetString("llm.provider")),
			Model:             v.GetString("llm.model"),
			APIKey:            v.GetString("llm.api_key"),
			ServerURL:         v.GetString("llm.server_url"),
			Temperature:       v.GetFloat64("llm.temperature"),
			RequestsPerMinute: v.GetInt("llm.requests_per_minute"),
		},
		Speech: SpeechConfig{
			Endpoint: v.GetString("speech.endpoint"),
			Model:    v.GetString("speech.model"),
			APIKey:   v.GetString("speech.api_key"),
		},
		YtDlp: YtDlpConfig{
			Path: v.GetString("ytdlp.path"),
		},
		Pipeline: PipelineConfig{
			ScratchDir:           v.GetString("pipeline.scratch_dir"),
			MaxConcurrentFetches: v.GetInt64("pipeline.max_concurrent_fetches"),
			FetchTimeout:         v.GetDuration("pipeline.fetch_timeout"),
			TranscribeTimeout:    v.GetDuration("pipeline.transcribe_timeout"),
			GenerateTimeout:      v.GetDuration("pipeline.generate_timeout"),
			DownloadRetries:      v.GetInt("pipeline.download_retries"),
			GenerationRetries:    v.GetInt("pipeline.generation_retries"),
			RegenerateAttempts:   v.GetInt("pipeline.regenerate_attempts"),
			RetryInitialWait:     v.GetDuration("pipeline.retry_initial_wait"),
			RetryMaxWait:         v.GetDuration("pipeline.retry_max_wait"),
			TranscriptCacheTTL:   v.GetDuration("pipeline.transcript_cache_ttl"),
		},
	}

	// Google's SDKs read GEMINI_API_KEY; honour it as a fallback.
	if cfg.LLM.APIKey == "" {
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			cfg.LLM.APIKey = key
		}
	}

	if cfg.Pipeline.MaxConcurrentFetches <= 0 {
		cfg.Pipeline.MaxConcurrentFetches = 1
	}

	return cfg, nil
}

func (c *Config) GetDSN() string {
	// Oracle DSN format: user/password@host:port/service
	return fmt.Sprintf("oracle://%s:%s@%s:%d/%s",
		c.DB.User,
		c.DB.Password,
		c.DB.Host,
		c.DB.Port,
		c.DB.DBName,
	)
}
