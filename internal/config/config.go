package config

import "os"

type Config struct {
	ListenAddr     string
	ServerURL      string
	DBPath         string
	BlobPath       string
	CaptionBackend string
	OllamaHost     string
	OllamaModel    string
	ClaudeAPIKey   string
	ClaudeModel    string
	LogLevel       string
	LogFormat      string
	LogFile        string
}

func Load() *Config {
	return &Config{
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		ServerURL:      getEnv("SERVER_URL", "http://localhost:8080"),
		DBPath:         getEnv("DB_PATH", "/data/parishadmin.db"),
		BlobPath:       getEnv("BLOB_PATH", "/data/images"),
		CaptionBackend: getEnv("CAPTION_BACKEND", "none"),
		OllamaHost:     getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:    getEnv("OLLAMA_MODEL", "moondream"),
		ClaudeAPIKey:   getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:    getEnv("CLAUDE_MODEL", "claude-opus-4-6"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", ""),
		LogFile:        getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
