package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultLogLevel          = "info"
	defaultLogFormat         = "json"
	defaultShiftStart        = "08:00"
	defaultShiftEnd          = "17:00"
	defaultSchedulerTimezone = "UTC"
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig は gRPC サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	SSLMode            string        `yaml:"ssl_mode"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
}

// LogConfig はロガーの出力設定です。
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig は Prometheus エンドポイントの設定です。ListenAddr が空の場合は無効になります。
type MetricsConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// SchedulerConfig は配置スケジューラの振る舞いに関する設定です。
type SchedulerConfig struct {
	EnforceRoleEligibility *bool          `yaml:"enforce_role_eligibility"`
	DefaultShiftStart      string         `yaml:"default_shift_start"`
	DefaultShiftEnd        string         `yaml:"default_shift_end"`
	Timezone               string         `yaml:"timezone"`
	Location               *time.Location `yaml:"-"`
}

// RoleEligibilityEnforced は職種チェックを行うかどうかを返します。未指定の場合は true です。
func (s SchedulerConfig) RoleEligibilityEnforced() bool {
	if s.EnforceRoleEligibility == nil {
		return true
	}
	return *s.EnforceRoleEligibility
}

// Load は指定されたパスから設定ファイルを読み込みます。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	db := &c.Database
	if err := db.validateAndNormalize(); err != nil {
		return err
	}

	c.Log.normalize()

	if err := c.Scheduler.validateAndNormalize(); err != nil {
		return err
	}

	return nil
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func (l *LogConfig) normalize() {
	l.Level = strings.ToLower(strings.TrimSpace(l.Level))
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	l.Format = strings.ToLower(strings.TrimSpace(l.Format))
	if l.Format == "" {
		l.Format = defaultLogFormat
	}
}

func (s *SchedulerConfig) validateAndNormalize() error {
	s.DefaultShiftStart = strings.TrimSpace(s.DefaultShiftStart)
	if s.DefaultShiftStart == "" {
		s.DefaultShiftStart = defaultShiftStart
	}
	s.DefaultShiftEnd = strings.TrimSpace(s.DefaultShiftEnd)
	if s.DefaultShiftEnd == "" {
		s.DefaultShiftEnd = defaultShiftEnd
	}
	if _, err := time.Parse("15:04", s.DefaultShiftStart); err != nil {
		return fmt.Errorf("config: scheduler.default_shift_start: %w", err)
	}
	if _, err := time.Parse("15:04", s.DefaultShiftEnd); err != nil {
		return fmt.Errorf("config: scheduler.default_shift_end: %w", err)
	}

	s.Timezone = strings.TrimSpace(s.Timezone)
	if s.Timezone == "" {
		s.Timezone = defaultSchedulerTimezone
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return fmt.Errorf("config: scheduler.timezone: %w", err)
	}
	s.Location = loc

	return nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN は pgx 用の接続文字列を返します。認証情報はエスケープされます。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + strconv.Itoa(d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}
