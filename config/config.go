package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTP   HTTPConfig   `mapstructure:"http"`
	Poll   PollConfig   `mapstructure:"poll"`
	Stream StreamConfig `mapstructure:"stream"`
	Log    LogConfig    `mapstructure:"log"`
}

type HTTPConfig struct {
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type PollConfig struct {
	// Wait is how long a long-poll request is held open before replying empty.
	Wait time.Duration `mapstructure:"wait"`
}

type StreamConfig struct {
	// InitHistory bounds the message backlog sent in the init snapshot.
	// Zero or negative means full history.
	InitHistory int `mapstructure:"init_history"`
	// SendBuffer is the per-session mailbox capacity; a session that lets it
	// fill up is dropped.
	SendBuffer int `mapstructure:"send_buffer"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// LoadConfig reads configuration from an optional YAML file, a local .env
// file and CHAT_* environment variables, in increasing precedence.
func LoadConfig(path string) (*Config, error) {
	// .env is a developer convenience; absence is not an error.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("http.address", ":3001")
	v.SetDefault("http.allowed_origins", []string{"*"})
	v.SetDefault("poll.wait", 25*time.Second)
	v.SetDefault("stream.init_history", 30)
	v.SetDefault("stream.send_buffer", 256)
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("CHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		v.OnConfigChange(func(e fsnotify.Event) {
			// Runtime state is rebuilt only on restart; the notification is
			// logged so operators know a restart is pending.
			slog.Info("config file changed, restart to apply", "file", e.Name)
		})
		v.WatchConfig()
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}

// ParseLogLevel maps the configured level string onto slog levels.
func (c *Config) ParseLogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
