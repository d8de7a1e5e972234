package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config 应用程序总配置
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Email      EmailConfig      `mapstructure:"email"`
	Candidates CandidatesConfig `mapstructure:"candidates"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

type DatabaseConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	// 开发模式下自动写入示例候选人
	SeedCandidates bool `mapstructure:"seed_candidates"`
}

type RedisConfig struct {
	// 为空表示不使用Redis，限流与分布式锁退化为进程内实现
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type EmailConfig struct {
	SMTPHost  string `mapstructure:"smtp_host"`
	SMTPPort  int    `mapstructure:"smtp_port"`
	SMTPUser  string `mapstructure:"smtp_user"`
	SMTPPass  string `mapstructure:"smtp_pass"`
	FromEmail string `mapstructure:"from_email"`
	// 投票链接的基础地址，如 https://wahl.example.org
	AppURL string `mapstructure:"app_url"`
}

type CandidatesConfig struct {
	// 候选人表为空或查询失败时是否返回占位数据。
	// 默认关闭：生产环境开启会掩盖空表问题，必须由运维显式启用。
	FallbackEnabled bool `mapstructure:"fallback_enabled"`
}

type RateLimitConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	GlobalRate  int  `mapstructure:"global_rate"`
	GlobalBurst int  `mapstructure:"global_burst"`
	IPRate      int  `mapstructure:"ip_rate"`
	IPBurst     int  `mapstructure:"ip_burst"`
}

// Load 加载配置：默认值 < 配置文件 < 环境变量
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	v.SetEnvPrefix("VOTE")
	v.AutomaticEnv()
	bindEnvAliases(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.dsn", "voteuser:votepassword@tcp(mysql:3306)/votingdb?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.seed_candidates", false)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.ttl", 7*24*time.Hour)
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.app_url", "http://localhost:3000")
	v.SetDefault("candidates.fallback_enabled", false)
	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.global_rate", 100)
	v.SetDefault("rate_limit.global_burst", 200)
	v.SetDefault("rate_limit.ip_rate", 10)
	v.SetDefault("rate_limit.ip_burst", 20)
}

// bindEnvAliases 绑定常用环境变量，如 VOTE_DATABASE_DSN、VOTE_JWT_SECRET
func bindEnvAliases(v *viper.Viper) {
	_ = v.BindEnv("server.port", "VOTE_SERVER_PORT", "SERVER_PORT")
	_ = v.BindEnv("database.dsn", "VOTE_DATABASE_DSN", "DATABASE_URL")
	_ = v.BindEnv("redis.addr", "VOTE_REDIS_ADDR", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "VOTE_REDIS_PASSWORD")
	_ = v.BindEnv("jwt.secret", "VOTE_JWT_SECRET", "JWT_SECRET")
	_ = v.BindEnv("email.smtp_host", "VOTE_SMTP_HOST")
	_ = v.BindEnv("email.smtp_port", "VOTE_SMTP_PORT")
	_ = v.BindEnv("email.smtp_user", "VOTE_SMTP_USER")
	_ = v.BindEnv("email.smtp_pass", "VOTE_SMTP_PASS")
	_ = v.BindEnv("email.from_email", "VOTE_FROM_EMAIL")
	_ = v.BindEnv("email.app_url", "VOTE_APP_URL", "APP_URL")
	_ = v.BindEnv("candidates.fallback_enabled", "VOTE_CANDIDATES_FALLBACK")
	_ = v.BindEnv("rate_limit.enabled", "ENABLE_RATE_LIMIT")
}
