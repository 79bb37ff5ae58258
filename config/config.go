package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	TranscriberOpenAI  = "openai"
	TranscriberCommand = "command"

	SummarizerHuggingFace = "huggingface"
	SummarizerOpenAI      = "openai"
	SummarizerCommand     = "command"
)

type Config struct {
	// Server settings
	ServerPort      string        `yaml:"server_port"      env:"SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"IDLE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout"  env:"REQUEST_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" env:"MAX_UPLOAD_BYTES"`
	Debug           bool          `yaml:"debug"            env:"DEBUG"`
	Version         string        `yaml:"version"          env:"VERSION"`

	TempDir string `yaml:"temp_dir" env:"TEMP_DIR"`

	Log         LogConfig         `yaml:"log"`
	CORS        CORSConfig        `yaml:"cors"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Scripts     ScriptsConfig     `yaml:"scripts"`
	Transcriber TranscriberConfig `yaml:"transcriber"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
}

type LogConfig struct {
	Dir    string `yaml:"dir"    env:"LOG_DIR"`
	Level  string `yaml:"level"  env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

type CORSConfig struct {
	Enabled        bool     `yaml:"enabled"         env:"CORS_ENABLED"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS"`
	AllowedMethods []string `yaml:"allowed_methods" env:"CORS_ALLOWED_METHODS"`
	AllowedHeaders []string `yaml:"allowed_headers" env:"CORS_ALLOWED_HEADERS"`
	MaxAge         int      `yaml:"max_age"         env:"CORS_MAX_AGE"`
}

type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"             env:"RATE_LIMIT_ENABLED"`
	RequestsPerMinute int  `yaml:"requests_per_minute" env:"RATE_LIMIT_RPM"`
	BurstSize         int  `yaml:"burst_size"          env:"RATE_LIMIT_BURST"`
}

// ScriptsConfig applies to every external program: ffmpeg, whisper.cpp and
// the summarizer command.
type ScriptsConfig struct {
	Dir         string   `yaml:"dir"         env:"SCRIPTS_DIR"`
	Environment []string `yaml:"environment" env:"SCRIPTS_ENV" envSeparator:","`
}

type TranscriberConfig struct {
	Backend       string `yaml:"backend"        env:"TRANSCRIBER"`
	OpenAIAPIKey  string `yaml:"openai_api_key" env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `yaml:"openai_base_url" env:"OPENAI_BASE_URL"`
	Model         string `yaml:"model"          env:"WHISPER_MODEL"`
	WhisperBinary string `yaml:"whisper_binary" env:"WHISPER_BINARY"`
	ModelPath     string `yaml:"model_path"     env:"WHISPER_MODEL_PATH"`
	FFmpegBinary  string `yaml:"ffmpeg_binary"  env:"FFMPEG_BINARY"`
}

type SummarizerConfig struct {
	Backend       string   `yaml:"backend"         env:"SUMMARIZER"`
	HFAPIToken    string   `yaml:"hf_api_token"    env:"HF_API_TOKEN"`
	HFModel       string   `yaml:"hf_model"        env:"HF_MODEL"`
	HFAPIURL      string   `yaml:"hf_api_url"      env:"HF_API_URL"`
	OpenAIAPIKey  string   `yaml:"openai_api_key"  env:"OPENAI_API_KEY"`
	OpenAIBaseURL string   `yaml:"openai_base_url" env:"OPENAI_BASE_URL"`
	OpenAIModel   string   `yaml:"openai_model"    env:"OPENAI_SUMMARY_MODEL"`
	Command       []string `yaml:"command"         env:"SUMMARIZER_COMMAND" envSeparator:" "`
	ChunkWords    int      `yaml:"chunk_words"     env:"SUMMARY_CHUNK_WORDS"`
}

func defaultConfig() *Config {
	return &Config{
		ServerPort:      "5000",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    15 * time.Minute,
		IdleTimeout:     60 * time.Second,
		RequestTimeout:  10 * time.Minute,
		ShutdownTimeout: 30 * time.Second,
		MaxUploadBytes:  25 * 1024 * 1024,
		Version:         "1.0.0",
		TempDir:         filepath.Join(os.TempDir(), "podcast-summarizer"),

		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},

		CORS: CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
			MaxAge:         86400,
		},

		RateLimit: RateLimitConfig{
			Enabled:           false,
			RequestsPerMinute: 60,
			BurstSize:         10,
		},

		Transcriber: TranscriberConfig{
			Backend:       TranscriberOpenAI,
			Model:         "whisper-1",
			WhisperBinary: "whisper-cli",
			FFmpegBinary:  "ffmpeg",
		},

		Summarizer: SummarizerConfig{
			Backend:     SummarizerHuggingFace,
			HFModel:     "sshleifer/distilbart-cnn-12-6",
			HFAPIURL:    "https://api-inference.huggingface.co/models",
			OpenAIModel: "gpt-4o-mini",
			ChunkWords:  600,
		},
	}
}

// Load builds the configuration from defaults, an optional .env file, an
// optional YAML file named by CONFIG_FILE and finally the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to load .env file")
	}

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrapf(err, "failed to parse config file %s", path)
	}
	logrus.WithField("path", path).Debug("Loaded config file")
	return nil
}

func (c *Config) Validate() error {
	if err := validateServer(c); err != nil {
		return err
	}

	if err := validateServices(c); err != nil {
		return err
	}

	if err := validatePaths(c); err != nil {
		return err
	}

	return nil
}

func validateServer(c *Config) error {
	if c.ServerPort == "" {
		return errors.New("server port is required")
	}
	if c.ReadTimeout <= 0 {
		return errors.New("read timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return errors.New("write timeout must be positive")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("max upload bytes must be positive")
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute <= 0 {
		return errors.New("rate limit requests per minute must be positive")
	}
	return nil
}

func validateServices(c *Config) error {
	t := c.Transcriber
	switch t.Backend {
	case TranscriberOpenAI:
		if t.OpenAIAPIKey == "" && t.OpenAIBaseURL == "" {
			return errors.New("OPENAI_API_KEY is required for the openai transcriber")
		}
	case TranscriberCommand:
		if t.WhisperBinary == "" || t.ModelPath == "" {
			return errors.New("whisper binary and model path are required for the command transcriber")
		}
	default:
		return fmt.Errorf("unknown transcriber backend %q", t.Backend)
	}
	if t.FFmpegBinary == "" {
		return errors.New("ffmpeg binary is required")
	}

	s := c.Summarizer
	switch s.Backend {
	case SummarizerHuggingFace:
		if s.HFAPIURL == "" || s.HFModel == "" {
			return errors.New("hugging face api url and model are required")
		}
	case SummarizerOpenAI:
		if s.OpenAIAPIKey == "" && s.OpenAIBaseURL == "" {
			return errors.New("OPENAI_API_KEY is required for the openai summarizer")
		}
	case SummarizerCommand:
		if len(s.Command) == 0 {
			return errors.New("SUMMARIZER_COMMAND is required for the command summarizer")
		}
	default:
		return fmt.Errorf("unknown summarizer backend %q", s.Backend)
	}
	if s.ChunkWords <= 0 {
		return errors.New("summary chunk words must be positive")
	}
	return nil
}

func validatePaths(c *Config) error {
	paths := []struct {
		path string
		name string
	}{
		{c.TempDir, "temp directory"},
		{c.Log.Dir, "log directory"},
	}

	for _, p := range paths {
		if p.path == "" {
			continue
		}
		if err := os.MkdirAll(p.path, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create %s", p.name)
		}
	}

	if c.TempDir == "" {
		return errors.New("temp directory is required")
	}
	return nil
}
