package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 服务端配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Game     GameConfig     `yaml:"game"`
	Security SecurityConfig `yaml:"security"`
}

// ServerConfig WebSocket 服务器配置
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"` // 并发连接上限
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins"` // WebSocket 来源白名单，"*" 表示不限
	ConnLimit      ConnLimitConfig `yaml:"conn_limit"`
	MsgPerSecond   int             `yaml:"msg_per_second"` // 单客户端每秒消息上限
}

// ConnLimitConfig 连接级速率限制配置
type ConnLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"` // 单 IP 每秒连接上限
	MaxPerMinute int `yaml:"max_per_minute"` // 单 IP 每分钟连接上限
	BanMinutes   int `yaml:"ban_minutes"`    // 超限封禁时长（分钟）
}

// BanDuration 返回超限封禁时长
func (c *ConnLimitConfig) BanDuration() time.Duration {
	return time.Duration(c.BanMinutes) * time.Minute
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig 游戏配置
type GameConfig struct {
	DecisionTimeout int     `yaml:"decision_timeout"` // 跟注/弃牌超时（秒）
	IdleTimeout     int     `yaml:"idle_timeout"`     // 房间闲置回收（分钟）
	Ante            float64 `yaml:"ante"`             // 每轮底注（美元）
	DefaultBuyIn    float64 `yaml:"default_buy_in"`   // 默认买入（美元）
	MinBuyIn        float64 `yaml:"min_buy_in"`       // 最小买入（美元）
	MaxBuyIn        float64 `yaml:"max_buy_in"`       // 最大买入（美元）
	MaxPlayers      int     `yaml:"max_players"`      // 房间人数上限
	NothingRounds   int     `yaml:"nothing_rounds"`   // 前几轮只比单张
}

// DecisionTimeoutDuration 返回决策超时时长
func (c *GameConfig) DecisionTimeoutDuration() time.Duration {
	return time.Duration(c.DecisionTimeout) * time.Second
}

// IdleTimeoutDuration 返回房间闲置回收时长
func (c *GameConfig) IdleTimeoutDuration() time.Duration {
	return time.Duration(c.IdleTimeout) * time.Minute
}

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// 设置默认值
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 1780
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Game.DecisionTimeout == 0 {
		cfg.Game.DecisionTimeout = 30
	}
	if cfg.Game.IdleTimeout == 0 {
		cfg.Game.IdleTimeout = 5
	}
	if cfg.Game.Ante == 0 {
		cfg.Game.Ante = 0.50
	}
	if cfg.Game.DefaultBuyIn == 0 {
		cfg.Game.DefaultBuyIn = 20
	}
	if cfg.Game.MinBuyIn == 0 {
		cfg.Game.MinBuyIn = 5
	}
	if cfg.Game.MaxBuyIn == 0 {
		cfg.Game.MaxBuyIn = 100
	}
	if cfg.Game.MaxPlayers == 0 {
		cfg.Game.MaxPlayers = 8
	}
	if cfg.Game.NothingRounds == 0 {
		cfg.Game.NothingRounds = 3
	}
	if cfg.Server.MaxConnections == 0 {
		cfg.Server.MaxConnections = 1000
	}
	if len(cfg.Security.AllowedOrigins) == 0 {
		cfg.Security.AllowedOrigins = []string{"*"}
	}
	if cfg.Security.ConnLimit.MaxPerSecond == 0 {
		cfg.Security.ConnLimit.MaxPerSecond = 5
	}
	if cfg.Security.ConnLimit.MaxPerMinute == 0 {
		cfg.Security.ConnLimit.MaxPerMinute = 60
	}
	if cfg.Security.ConnLimit.BanMinutes == 0 {
		cfg.Security.ConnLimit.BanMinutes = 10
	}
	if cfg.Security.MsgPerSecond == 0 {
		cfg.Security.MsgPerSecond = 20
	}

	return &cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           1780,
			MaxConnections: 1000,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"*"},
			ConnLimit: ConnLimitConfig{
				MaxPerSecond: 5,
				MaxPerMinute: 60,
				BanMinutes:   10,
			},
			MsgPerSecond: 20,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Game: GameConfig{
			DecisionTimeout: 30,
			IdleTimeout:     5,
			Ante:            0.50,
			DefaultBuyIn:    20,
			MinBuyIn:        5,
			MaxBuyIn:        100,
			MaxPlayers:      8,
			NothingRounds:   3,
		},
	}
}
