package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("TEMP_DIR", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != "5000" {
		t.Errorf("expected 5000, got %s", cfg.ServerPort)
	}
	if cfg.MaxUploadBytes != 25*1024*1024 {
		t.Errorf("expected 25MB, got %d", cfg.MaxUploadBytes)
	}
	if cfg.Transcriber.Backend != TranscriberOpenAI {
		t.Errorf("expected openai transcriber, got %s", cfg.Transcriber.Backend)
	}
	if cfg.Summarizer.Backend != SummarizerHuggingFace {
		t.Errorf("expected huggingface summarizer, got %s", cfg.Summarizer.Backend)
	}
	if cfg.Summarizer.HFModel != "sshleifer/distilbart-cnn-12-6" {
		t.Errorf("unexpected default model %s", cfg.Summarizer.HFModel)
	}
	if cfg.Transcriber.OpenAIAPIKey != "sk-test" || cfg.Summarizer.OpenAIAPIKey != "sk-test" {
		t.Error("expected OPENAI_API_KEY to populate both backends")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("TEMP_DIR", t.TempDir())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("READ_TIMEOUT", "10s")
	t.Setenv("REQUEST_TIMEOUT", "5m")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://example.com")
	t.Setenv("SUMMARIZER", "command")
	t.Setenv("SUMMARIZER_COMMAND", "python3 summarize.py")
	t.Setenv("SCRIPTS_DIR", "/opt/models")
	t.Setenv("SCRIPTS_ENV", "HF_HOME=/cache,OMP_NUM_THREADS=2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != "9090" {
		t.Errorf("expected 9090, got %s", cfg.ServerPort)
	}
	if cfg.ReadTimeout != 10*time.Second {
		t.Errorf("expected 10s, got %s", cfg.ReadTimeout)
	}
	if cfg.RequestTimeout != 5*time.Minute {
		t.Errorf("expected 5m, got %s", cfg.RequestTimeout)
	}
	if cfg.MaxUploadBytes != 1024 {
		t.Errorf("expected 1024, got %d", cfg.MaxUploadBytes)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Errorf("expected 2 origins, got %v", cfg.CORS.AllowedOrigins)
	}
	if len(cfg.Summarizer.Command) != 2 || cfg.Summarizer.Command[0] != "python3" {
		t.Errorf("unexpected summarizer command %v", cfg.Summarizer.Command)
	}
	if cfg.Scripts.Dir != "/opt/models" {
		t.Errorf("unexpected scripts dir %q", cfg.Scripts.Dir)
	}
	if len(cfg.Scripts.Environment) != 2 || cfg.Scripts.Environment[1] != "OMP_NUM_THREADS=2" {
		t.Errorf("unexpected scripts environment %v", cfg.Scripts.Environment)
	}
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server_port: "7000"
request_timeout: 2m
transcriber:
  backend: command
  whisper_binary: /usr/local/bin/whisper-cli
  model_path: /models/ggml-tiny.bin
summarizer:
  backend: huggingface
  chunk_words: 300
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("TEMP_DIR", filepath.Join(dir, "tmp"))
	t.Setenv("SERVER_PORT", "7100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != "7100" {
		t.Errorf("expected env to override file, got %s", cfg.ServerPort)
	}
	if cfg.RequestTimeout != 2*time.Minute {
		t.Errorf("expected 2m from file, got %s", cfg.RequestTimeout)
	}
	if cfg.Transcriber.Backend != TranscriberCommand {
		t.Errorf("expected command transcriber, got %s", cfg.Transcriber.Backend)
	}
	if cfg.Transcriber.FFmpegBinary != "ffmpeg" {
		t.Errorf("expected default ffmpeg binary to survive, got %s", cfg.Transcriber.FFmpegBinary)
	}
	if cfg.Summarizer.ChunkWords != 300 {
		t.Errorf("expected 300 chunk words, got %d", cfg.Summarizer.ChunkWords)
	}
	if _, err := os.Stat(cfg.TempDir); err != nil {
		t.Errorf("expected temp dir to be created: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing openai key",
			mutate:  func(c *Config) { c.Transcriber.OpenAIAPIKey = "" },
			wantErr: true,
		},
		{
			name: "self-hosted openai without key",
			mutate: func(c *Config) {
				c.Transcriber.OpenAIAPIKey = ""
				c.Transcriber.OpenAIBaseURL = "http://localhost:8000/v1"
			},
		},
		{
			name:    "unknown transcriber",
			mutate:  func(c *Config) { c.Transcriber.Backend = "carrier-pigeon" },
			wantErr: true,
		},
		{
			name:    "unknown summarizer",
			mutate:  func(c *Config) { c.Summarizer.Backend = "magic" },
			wantErr: true,
		},
		{
			name:    "command summarizer without command",
			mutate:  func(c *Config) { c.Summarizer.Backend = SummarizerCommand },
			wantErr: true,
		},
		{
			name:    "zero upload cap",
			mutate:  func(c *Config) { c.MaxUploadBytes = 0 },
			wantErr: true,
		},
		{
			name:    "zero chunk words",
			mutate:  func(c *Config) { c.Summarizer.ChunkWords = 0 },
			wantErr: true,
		},
		{
			name:    "empty port",
			mutate:  func(c *Config) { c.ServerPort = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.TempDir = t.TempDir()
			cfg.Transcriber.OpenAIAPIKey = "sk-test"
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
