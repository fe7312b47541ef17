package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	MySQL  MySQLConfig  `mapstructure:"mysql"`
	Redis  RedisConfig  `mapstructure:"redis"`
	JWT    JWTConfig    `mapstructure:"jwt"`
	Stream StreamConfig `mapstructure:"stream"`
	Sync   SyncConfig   `mapstructure:"sync"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	HTTPPort       int      `mapstructure:"http_port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MySQLConfig holds MySQL configuration
type MySQLConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	Charset      string `mapstructure:"charset"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// DSN returns the MySQL data source name
func (c *MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Database, c.Charset)
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// Addr returns the Redis address
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// StreamConfig holds change-stream websocket configuration
type StreamConfig struct {
	Port             int           `mapstructure:"port"`
	MaxConnNum       int64         `mapstructure:"max_conn_num"`
	MaxMessageSize   int64         `mapstructure:"max_message_size"`
	WriteWait        time.Duration `mapstructure:"write_wait"`
	PongWait         time.Duration `mapstructure:"pong_wait"`
	PingPeriod       time.Duration `mapstructure:"ping_period"`
	PushChannelSize  int           `mapstructure:"push_channel_size"`
	PushWorkerNum    int           `mapstructure:"push_worker_num"`
	WriteChannelSize int           `mapstructure:"write_channel_size"`
	InboundRate      float64       `mapstructure:"inbound_rate"`
	InboundBurst     int           `mapstructure:"inbound_burst"`
}

// SyncConfig holds client synchronization policy shared with the SDK
type SyncConfig struct {
	PageSize         int           `mapstructure:"page_size"`
	RefreshInterval  time.Duration `mapstructure:"refresh_interval"`
	TypingWindow     time.Duration `mapstructure:"typing_window"`
	MaxMessageLength int           `mapstructure:"max_message_length"`
}

// Global config instance
var GlobalConfig *Config

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Set defaults
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "debug"
	}
	if cfg.MySQL.Charset == "" {
		cfg.MySQL.Charset = "utf8mb4"
	}
	if cfg.MySQL.MaxOpenConns == 0 {
		cfg.MySQL.MaxOpenConns = 100
	}
	if cfg.MySQL.MaxIdleConns == 0 {
		cfg.MySQL.MaxIdleConns = 10
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "teamops:"
	}
	if cfg.JWT.ExpireHours == 0 {
		cfg.JWT.ExpireHours = 168 // 7 days
	}
	if cfg.Stream.Port == 0 {
		cfg.Stream.Port = 8081
	}
	if cfg.Stream.MaxConnNum == 0 {
		cfg.Stream.MaxConnNum = 10000
	}
	if cfg.Stream.MaxMessageSize == 0 {
		cfg.Stream.MaxMessageSize = 32 * 1024
	}
	if cfg.Stream.WriteWait == 0 {
		cfg.Stream.WriteWait = 10 * time.Second
	}
	if cfg.Stream.PongWait == 0 {
		cfg.Stream.PongWait = 60 * time.Second
	}
	if cfg.Stream.PingPeriod == 0 {
		cfg.Stream.PingPeriod = 54 * time.Second
	}
	if cfg.Stream.PushChannelSize == 0 {
		cfg.Stream.PushChannelSize = 1024
	}
	if cfg.Stream.PushWorkerNum == 0 {
		cfg.Stream.PushWorkerNum = 10
	}
	if cfg.Stream.WriteChannelSize == 0 {
		cfg.Stream.WriteChannelSize = 256
	}
	if cfg.Stream.InboundRate == 0 {
		cfg.Stream.InboundRate = 20
	}
	if cfg.Stream.InboundBurst == 0 {
		cfg.Stream.InboundBurst = 40
	}
	if cfg.Sync.PageSize == 0 {
		cfg.Sync.PageSize = 50
	}
	if cfg.Sync.RefreshInterval == 0 {
		cfg.Sync.RefreshInterval = 30 * time.Second
	}
	if cfg.Sync.TypingWindow == 0 {
		cfg.Sync.TypingWindow = 3 * time.Second
	}
	if cfg.Sync.MaxMessageLength == 0 {
		cfg.Sync.MaxMessageLength = 4000
	}

	GlobalConfig = &cfg
	return &cfg, nil
}
