package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrConfiguration is returned when the process cannot start with the
// current configuration, most commonly a missing API key.
var ErrConfiguration = errors.New("configuration error")

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	// Provider selects the remote service: "gemini" (default) or "openai".
	Provider    string            `yaml:"provider"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	OpenAI      OpenAIConfig      `yaml:"openai"`
	Server      ServerConfig      `yaml:"server"`
	Audio       AudioConfig       `yaml:"audio"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Instruction InstructionConfig `yaml:"instruction"`
}

type GeminiConfig struct {
	Model           string `yaml:"model"`
	APIKeyEnv       string `yaml:"api_key_env"`
	MaxOutputTokens int32  `yaml:"max_output_tokens"`
}

// OpenAIConfig covers OpenAI and compatible endpoints. Audio is transcribed
// first and the transcript is summarized by the chat model.
type OpenAIConfig struct {
	BaseURL            string `yaml:"base_url"`
	Model              string `yaml:"model"`
	TranscriptionModel string `yaml:"transcription_model"`
	APIKeyEnv          string `yaml:"api_key_env"`
	MaxOutputTokens    int32  `yaml:"max_output_tokens"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxUploadMB     int64         `yaml:"max_upload_mb"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
}

type AudioConfig struct {
	SampleRate      int    `yaml:"sample_rate"`
	Channels        int    `yaml:"channels"`
	FramesPerBuffer int    `yaml:"frames_per_buffer"`
	QueueSize       int    `yaml:"queue_size"`
	RecordingPath   string `yaml:"recording_path"`
}

type PathsConfig struct {
	Temp     string `yaml:"temp"`
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

type InstructionConfig struct {
	Default string `yaml:"default"`
}

// DefaultInstruction pre-fills the editable instruction field of the web UI.
const DefaultInstruction = `Create a concise summary that captures the main points and important details from the audio content. Follow these guidelines:

1. Identify the main topic or theme.
2. List key points, arguments, or findings.
3. Note any important data, statistics, or quotes.
4. Present the ideas in a logical order.
5. Use clear, simple language.
6. Ensure the summary is concise yet comprehensive, with a maximum of 200 words.
7. Format the summary using paragraphs, bullet points, or numbered lists as appropriate.
8. Review for clarity, coherence, and accuracy.

Present your final summary within <summary> tags.`

// Load reads the YAML file at path and validates it. An empty path yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Audio.Channels < 0 || c.Audio.Channels > 2 {
		return fmt.Errorf("audio.channels must be 1 or 2")
	}
	if c.Audio.SampleRate < 0 {
		return fmt.Errorf("audio.sample_rate must be positive")
	}
	if c.Server.MaxUploadMB < 0 {
		return fmt.Errorf("server.max_upload_mb must be positive")
	}
	switch strings.ToLower(c.Provider) {
	case "":
		c.Provider = ProviderGemini
	case ProviderGemini, ProviderOpenAI:
		c.Provider = strings.ToLower(c.Provider)
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrConfiguration, c.Provider)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json")
	}

	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Gemini.APIKeyEnv == "" {
		c.Gemini.APIKeyEnv = "GOOGLE_API_KEY"
	}
	if c.Gemini.MaxOutputTokens == 0 {
		c.Gemini.MaxOutputTokens = 8192
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.OpenAI.TranscriptionModel == "" {
		c.OpenAI.TranscriptionModel = "whisper-1"
	}
	if c.OpenAI.APIKeyEnv == "" {
		c.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
	}
	if c.OpenAI.MaxOutputTokens == 0 {
		c.OpenAI.MaxOutputTokens = 4096
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 50
	}
	if c.Server.SessionTTL == 0 {
		c.Server.SessionTTL = 30 * time.Minute
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 44100
	}
	if c.Audio.Channels == 0 {
		c.Audio.Channels = 1
	}
	if c.Audio.FramesPerBuffer == 0 {
		c.Audio.FramesPerBuffer = 1024
	}
	if c.Audio.QueueSize == 0 {
		c.Audio.QueueSize = 64
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = os.TempDir()
	}
	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if strings.TrimSpace(c.Instruction.Default) == "" {
		c.Instruction.Default = DefaultInstruction
	}

	return nil
}

// APIKey reads the selected provider's credential from the environment.
func (c *Config) APIKey() (string, error) {
	env := c.Gemini.APIKeyEnv
	if c.Provider == ProviderOpenAI {
		env = c.OpenAI.APIKeyEnv
	}
	key := strings.TrimSpace(os.Getenv(env))
	if key == "" {
		return "", fmt.Errorf("%w: %s is not set", ErrConfiguration, env)
	}
	return key, nil
}

// Model is the chat model of the selected provider.
func (c *Config) Model() string {
	if c.Provider == ProviderOpenAI {
		return c.OpenAI.Model
	}
	return c.Gemini.Model
}

// MaxOutputTokens is the reply token cap of the selected provider.
func (c *Config) MaxOutputTokens() int32 {
	if c.Provider == ProviderOpenAI {
		return c.OpenAI.MaxOutputTokens
	}
	return c.Gemini.MaxOutputTokens
}

// MaxUploadBytes is the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.Server.MaxUploadMB << 20
}
