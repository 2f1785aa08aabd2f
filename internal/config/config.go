package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mbarranco/clipmill/internal/constants"
)

// Config holds all application configuration
type Config struct {
	Port      string
	DBPath    string
	AssetsDir string
	LogLevel  string
	LogFormat string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	ChatModel     string
	ImageModel    string
	WhisperModel  string

	ElevenLabsAPIKey  string
	ElevenLabsVoiceID string
	DeepgramAPIKey    string
	DeepgramModel     string
	PexelsAPIKey      string

	// TTSProviderPriority is the ordered fallback list for voiceover synthesis.
	TTSProviderPriority []string

	ItemsPerRun   int
	TargetVisuals int
	ImageStyle    string
	ImageSize     string
}

// fileConfig mirrors the optional YAML config file. Environment variables
// override anything set here.
type fileConfig struct {
	Port          string   `yaml:"port"`
	DBPath        string   `yaml:"db_path"`
	AssetsDir     string   `yaml:"assets_dir"`
	LogLevel      string   `yaml:"log_level"`
	LogFormat     string   `yaml:"log_format"`
	OpenAIBaseURL string   `yaml:"openai_base_url"`
	ChatModel     string   `yaml:"chat_model"`
	ImageModel    string   `yaml:"image_model"`
	WhisperModel  string   `yaml:"whisper_model"`
	DeepgramModel string   `yaml:"deepgram_model"`
	TTSPriority   []string `yaml:"tts_priority"`
	ItemsPerRun   int      `yaml:"items_per_run"`
	TargetVisuals int      `yaml:"target_visuals"`
	ImageStyle    string   `yaml:"image_style"`
	ImageSize     string   `yaml:"image_size"`
}

// Load loads configuration from an optional YAML file and environment
// variables, with env taking precedence. A .env file is honored if present.
func Load() *Config {
	_ = godotenv.Load()

	var fc fileConfig
	path := os.Getenv("CLIPMILL_CONFIG")
	if path == "" {
		path = "clipmill.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		_ = yaml.Unmarshal(data, &fc)
	}

	cfg := &Config{
		Port:      getEnv("PORT", orDefault(fc.Port, constants.DefaultPort)),
		DBPath:    getEnv("DB_PATH", orDefault(fc.DBPath, constants.DefaultDBPath)),
		AssetsDir: getEnv("ASSETS_DIR", orDefault(fc.AssetsDir, constants.DefaultAssetsDir)),
		LogLevel:  getEnv("LOG_LEVEL", orDefault(fc.LogLevel, "info")),
		LogFormat: getEnv("LOG_FORMAT", orDefault(fc.LogFormat, "text")),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", orDefault(fc.OpenAIBaseURL, constants.DefaultOpenAIBaseURL)),
		ChatModel:     getEnv("OPENAI_GPT_MODEL", orDefault(fc.ChatModel, constants.DefaultChatModel)),
		ImageModel:    getEnv("OPENAI_IMAGE_MODEL", orDefault(fc.ImageModel, constants.DefaultImageModel)),
		WhisperModel:  getEnv("OPENAI_WHISPER_MODEL", orDefault(fc.WhisperModel, constants.DefaultWhisperModel)),

		ElevenLabsAPIKey:  getEnv("ELEVENLABS_API_KEY", ""),
		ElevenLabsVoiceID: getEnv("ELEVENLABS_VOICE_ID", ""),
		DeepgramAPIKey:    getEnv("DEEPGRAM_API_KEY", ""),
		DeepgramModel:     getEnv("DEEPGRAM_MODEL", orDefault(fc.DeepgramModel, constants.DefaultDeepgramModel)),
		PexelsAPIKey:      getEnv("PEXELS_API_KEY", ""),

		ItemsPerRun:   getEnvInt("ITEMS_PER_RUN", orDefaultInt(fc.ItemsPerRun, constants.DefaultItemsPerRun)),
		TargetVisuals: getEnvInt("TARGET_VISUALS", orDefaultInt(fc.TargetVisuals, constants.DefaultTargetVisuals)),
		ImageStyle:    getEnv("IMAGE_STYLE", orDefault(fc.ImageStyle, constants.DefaultImageStyle)),
		ImageSize:     getEnv("IMAGE_SIZE", orDefault(fc.ImageSize, constants.DefaultImageSize)),
	}

	priority := getEnv("TTS_PROVIDER_PRIORITY", "")
	switch {
	case priority != "":
		cfg.TTSProviderPriority = splitList(priority)
	case len(fc.TTSPriority) > 0:
		cfg.TTSProviderPriority = fc.TTSPriority
	default:
		cfg.TTSProviderPriority = splitList(constants.DefaultTTSPriority)
	}

	return cfg
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	if c.DBPath == "" {
		errors = append(errors, "DB_PATH cannot be empty")
	}

	if c.AssetsDir == "" {
		errors = append(errors, "ASSETS_DIR cannot be empty")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if c.ItemsPerRun < 1 {
		errors = append(errors, fmt.Sprintf("ITEMS_PER_RUN must be at least 1, got: %d", c.ItemsPerRun))
	}

	if c.TargetVisuals < 1 {
		errors = append(errors, fmt.Sprintf("TARGET_VISUALS must be at least 1, got: %d", c.TargetVisuals))
	}

	validProviders := map[string]bool{
		"elevenlabs": true,
		"deepgram":   true,
	}
	for _, p := range c.TTSProviderPriority {
		if !validProviders[p] {
			errors = append(errors, fmt.Sprintf("TTS_PROVIDER_PRIORITY contains unknown provider: %s", p))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func orDefaultInt(value, fallback int) int {
	if value != 0 {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
