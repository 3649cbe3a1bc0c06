package config

import (
	"bytes"
	"fmt"
	"net"
	"os"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
)

type rawAppConfig struct {
	Port           int                `yaml:"port"`
	DSN            string             `yaml:"dsn"`
	DatabaseURL    string             `yaml:"database_url"`
	RedisURL       string             `yaml:"redis_url"`
	Database       rawDatabaseConfig  `yaml:"database"`
	Redis          rawRedisConfig     `yaml:"redis"`
	Env            string             `yaml:"env"`
	SiteURL        string             `yaml:"site_url"`
	Paths          RuntimePathsConfig `yaml:"paths"`
	LogDir         string             `yaml:"log_dir"`
	AllowedOrigins []string           `yaml:"allowed_origins"`
	TrustedProxies []string           `yaml:"trusted_proxies"`
	JWTSecret      string             `yaml:"jwt_secret"`
	Timezone       string             `yaml:"timezone"`
	TimeZone       string             `yaml:"time_zone"`
	Mail           rawMailConfig      `yaml:"mail"`
	Bark           BarkConfig         `yaml:"bark"`
	GeoIP          GeoIPConfig        `yaml:"geoip"`
	RateLimits     RateLimitConfig    `yaml:"rate_limits"`
	Cache          CacheConfig        `yaml:"cache"`
}

type rawDatabaseConfig struct {
	DSN       string            `yaml:"dsn"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	Charset   string            `yaml:"charset"`
	ParseTime *bool             `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
}

type rawRedisConfig struct {
	Enable   *bool             `yaml:"enable"`
	URL      string            `yaml:"url"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	Username string            `yaml:"username"`
	Password string            `yaml:"password"`
	DB       *int              `yaml:"db"`
	TLS      *bool             `yaml:"tls"`
	Params   map[string]string `yaml:"params"`
}

type rawMailConfig struct {
	Enable       *bool  `yaml:"enable"`
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Pass         string `yaml:"pass"`
	From         string `yaml:"from"`
	ContactEmail string `yaml:"contact_email"`
	SiteName     string `yaml:"site_name"`
	UseResend    *bool  `yaml:"use_resend"`
	ResendKey    string `yaml:"resend_key"`
}

// Load reads the YAML file at configPath, applies LANDER_* environment overrides and validates the result.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	cfg, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML content strictly; unknown keys are rejected.
func Parse(content []byte) (*AppConfig, error) {
	cfg := defaultAppConfig()
	raw := rawAppConfig{}
	if len(bytes.TrimSpace(content)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&raw); err != nil {
			return nil, err
		}
	}

	applyRawAppConfig(&cfg, raw)
	applyEnvOverrides(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *AppConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", cfg.Port)
	}
	if cfg.Database.Port < 1 || cfg.Database.Port > 65535 {
		return fmt.Errorf("invalid database.port %d, expected 1-65535", cfg.Database.Port)
	}
	if _, err := mysqldriver.ParseDSN(cfg.DSN); err != nil {
		return fmt.Errorf("invalid database dsn: %w", err)
	}
	if cfg.Redis.Enable {
		if cfg.Redis.Port < 1 || cfg.Redis.Port > 65535 {
			return fmt.Errorf("invalid redis.port %d, expected 1-65535", cfg.Redis.Port)
		}
		if cfg.Redis.DB < 0 {
			return fmt.Errorf("invalid redis.db %d, expected >= 0", cfg.Redis.DB)
		}
	}
	for _, proxy := range cfg.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				return fmt.Errorf("invalid trusted_proxies entry %q, expected an IP or CIDR", proxy)
			}
		}
	}
	if cfg.Mail.Enable && cfg.Mail.ContactEmail == "" {
		return fmt.Errorf("mail.contact_email is required when mail is enabled")
	}
	return nil
}

func defaultAppConfig() AppConfig {
	cfg := AppConfig{
		Port:     defaultPort,
		Env:      defaultEnv,
		SiteURL:  defaultSiteURL,
		Timezone: defaultTimezone,
		Database: DatabaseRuntimeConfig{
			Host:      defaultDBHost,
			Port:      defaultDBPort,
			User:      defaultDBUser,
			Password:  defaultDBPassword,
			Name:      defaultDBName,
			Charset:   defaultDBCharset,
			ParseTime: true,
			Loc:       defaultDBLoc,
		},
		Redis: RedisRuntimeConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
		Mail: MailConfig{Port: defaultSMTPPort},
		RateLimits: RateLimitConfig{
			LandingView:        defaultLandingViewLimit,
			LandingTrack:       defaultLandingTrackLimit,
			LandingInteraction: defaultInteractionLimit,
			LandingSubmit:      defaultSubmitLimit,
			SiteForms:          defaultFormLimit,
		},
		Cache: CacheConfig{UserAgentEntries: defaultUACacheMax},
	}
	cfg.Database = normalizeDatabaseConfig(cfg.Database)
	cfg.Redis = normalizeRedisConfig(cfg.Redis)
	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()
	return cfg
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	cfg.Database = applyRawDatabaseConfig(cfg.Database, raw)
	cfg.Redis = applyRawRedisConfig(cfg.Redis, raw)
	cfg.Mail = applyRawMailConfig(cfg.Mail, raw.Mail)

	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.SiteURL); v != "" {
		cfg.SiteURL = v
	}
	if v := strings.TrimSpace(raw.Paths.Logs); v != "" {
		cfg.Paths.Logs = v
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.Paths.Logs = v
	}
	if raw.AllowedOrigins != nil {
		cfg.AllowedOrigins = normalizeList(raw.AllowedOrigins)
	}
	if raw.TrustedProxies != nil {
		cfg.TrustedProxies = normalizeList(raw.TrustedProxies)
	}
	if v := strings.TrimSpace(raw.JWTSecret); v != "" {
		cfg.JWTSecret = v
	}
	if v := strings.TrimSpace(raw.Timezone); v != "" {
		cfg.Timezone = v
	}
	if v := strings.TrimSpace(raw.TimeZone); v != "" {
		cfg.Timezone = v
	}

	cfg.Bark = raw.Bark
	cfg.GeoIP.DatabasePath = strings.TrimSpace(raw.GeoIP.DatabasePath)
	cfg.RateLimits = mergeRateLimits(cfg.RateLimits, raw.RateLimits)
	if raw.Cache.UserAgentEntries > 0 {
		cfg.Cache.UserAgentEntries = raw.Cache.UserAgentEntries
	}

	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()
	cfg.SiteURL = normalizeSiteURL(cfg.SiteURL)
	cfg.Env = normalizeEnv(cfg.Env)
}

func applyRawDatabaseConfig(current DatabaseRuntimeConfig, raw rawAppConfig) DatabaseRuntimeConfig {
	cfg := current

	if v := strings.TrimSpace(raw.Database.DSN); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.DSN); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.DatabaseURL); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.Database.Host); v != "" {
		cfg.Host = v
	}
	if raw.Database.Port != 0 {
		cfg.Port = raw.Database.Port
	}
	if v := strings.TrimSpace(raw.Database.User); v != "" {
		cfg.User = v
	}
	if v := strings.TrimSpace(raw.Database.Password); v != "" {
		cfg.Password = v
	}
	if v := strings.TrimSpace(raw.Database.Name); v != "" {
		cfg.Name = v
	}
	if v := strings.TrimSpace(raw.Database.Charset); v != "" {
		cfg.Charset = v
	}
	if raw.Database.ParseTime != nil {
		cfg.ParseTime = *raw.Database.ParseTime
	}
	if v := strings.TrimSpace(raw.Database.Loc); v != "" {
		cfg.Loc = v
	}
	if raw.Database.Params != nil {
		cfg.Params = copyStringMap(raw.Database.Params)
	}

	return normalizeDatabaseConfig(cfg)
}

func applyRawRedisConfig(current RedisRuntimeConfig, raw rawAppConfig) RedisRuntimeConfig {
	cfg := current

	if raw.Redis.Enable != nil {
		cfg.Enable = *raw.Redis.Enable
	}
	if v := strings.TrimSpace(raw.Redis.URL); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(raw.RedisURL); v != "" {
		cfg.URL = v
		if raw.Redis.Enable == nil {
			cfg.Enable = true
		}
	}
	if v := strings.TrimSpace(raw.Redis.Host); v != "" {
		cfg.Host = v
	}
	if raw.Redis.Port != 0 {
		cfg.Port = raw.Redis.Port
	}
	if v := strings.TrimSpace(raw.Redis.Username); v != "" {
		cfg.Username = v
	}
	if v := strings.TrimSpace(raw.Redis.Password); v != "" {
		cfg.Password = v
	}
	if raw.Redis.DB != nil {
		cfg.DB = *raw.Redis.DB
	}
	if raw.Redis.TLS != nil {
		cfg.TLS = *raw.Redis.TLS
	}
	if raw.Redis.Params != nil {
		cfg.Params = copyStringMap(raw.Redis.Params)
	}

	return normalizeRedisConfig(cfg)
}

func applyRawMailConfig(current MailConfig, raw rawMailConfig) MailConfig {
	cfg := current
	if raw.Enable != nil {
		cfg.Enable = *raw.Enable
	}
	if v := strings.TrimSpace(raw.Host); v != "" {
		cfg.Host = v
	}
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.User); v != "" {
		cfg.User = v
	}
	if raw.Pass != "" {
		cfg.Pass = raw.Pass
	}
	if v := strings.TrimSpace(raw.From); v != "" {
		cfg.From = v
	}
	if v := strings.TrimSpace(raw.ContactEmail); v != "" {
		cfg.ContactEmail = v
	}
	if v := strings.TrimSpace(raw.SiteName); v != "" {
		cfg.SiteName = v
	}
	if raw.UseResend != nil {
		cfg.UseResend = *raw.UseResend
	}
	if v := strings.TrimSpace(raw.ResendKey); v != "" {
		cfg.ResendKey = v
	}
	return normalizeMailConfig(cfg)
}

func mergeRateLimits(current, raw RateLimitConfig) RateLimitConfig {
	pick := func(cur, next string) string {
		if v := strings.TrimSpace(next); v != "" {
			return v
		}
		return cur
	}
	return RateLimitConfig{
		LandingView:        pick(current.LandingView, raw.LandingView),
		LandingTrack:       pick(current.LandingTrack, raw.LandingTrack),
		LandingInteraction: pick(current.LandingInteraction, raw.LandingInteraction),
		LandingSubmit:      pick(current.LandingSubmit, raw.LandingSubmit),
		SiteForms:          pick(current.SiteForms, raw.SiteForms),
	}
}
