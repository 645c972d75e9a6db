package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"db"`
	Tianditu TiandituConfig `mapstructure:"tianditu"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin 模式: debug / release / test
}

// Addr 监听地址
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type DBConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	Name       string `mapstructure:"name"`
	SSLMode    string `mapstructure:"sslmode"`
	MaxRetries int    `mapstructure:"max_retries"`
}

// DSN PostgreSQL 连接串
func (d DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=Asia/Shanghai",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

type TiandituConfig struct {
	Token string `mapstructure:"token"`
	// ExposeURLs 是否允许接口返回带令牌的原始瓦片地址
	ExposeURLs        bool          `mapstructure:"expose_urls"`
	Timeout           time.Duration `mapstructure:"timeout"`
	TileTTL           time.Duration `mapstructure:"tile_ttl"`
	AdministrativeTTL time.Duration `mapstructure:"administrative_ttl"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load 从配置文件及环境变量读取配置
// 环境变量: DB_HOST → db.host, TIANDITU_TOKEN → tianditu.token
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "chinamap")
	v.SetDefault("db.password", "chinamap")
	v.SetDefault("db.name", "chinamap")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_retries", 30)
	v.SetDefault("tianditu.token", "")
	v.SetDefault("tianditu.expose_urls", false)
	v.SetDefault("tianditu.timeout", 10*time.Second)
	v.SetDefault("tianditu.tile_ttl", 10*time.Minute)
	v.SetDefault("tianditu.administrative_ttl", time.Hour)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", 24*time.Hour)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// 配置文件可选
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验配置, 一次返回所有问题
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.DB.Host == "" {
		errs = append(errs, "db.host is required")
	}
	if c.DB.Port <= 0 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Sprintf("db.port must be 1-65535, got %d", c.DB.Port))
	}
	if c.DB.User == "" {
		errs = append(errs, "db.user is required")
	}
	if c.DB.Name == "" {
		errs = append(errs, "db.name is required")
	}
	if c.DB.MaxRetries <= 0 {
		errs = append(errs, "db.max_retries must be positive")
	}
	if c.Tianditu.Token == "" {
		errs = append(errs, "tianditu.token is required (TIANDITU_TOKEN)")
	}
	if c.JWT.Secret == "" {
		errs = append(errs, "jwt.secret is required (JWT_SECRET)")
	}
	if c.JWT.TTL <= 0 {
		errs = append(errs, "jwt.ttl must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
