package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. LANDER_PORT.
const EnvPrefix = "LANDER"

var envKeys = []string{
	"port",
	"env",
	"site_url",
	"jwt_secret",
	"database_url",
	"redis_url",
	"allowed_origins",
	"trusted_proxies",
	"log_dir",
	"mail_pass",
	"resend_key",
	"bark_key",
	"geoip_db",
}

func newEnvViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// applyEnvOverrides lets deployment environments override secrets and endpoints without editing the YAML file.
func applyEnvOverrides(cfg *AppConfig) {
	v := newEnvViper()

	if v.IsSet("port") {
		if port := v.GetInt("port"); port != 0 {
			cfg.Port = port
		}
	}
	if v.IsSet("env") {
		cfg.Env = normalizeEnv(v.GetString("env"))
	}
	if v.IsSet("site_url") {
		cfg.SiteURL = normalizeSiteURL(v.GetString("site_url"))
	}
	if v.IsSet("jwt_secret") {
		cfg.JWTSecret = strings.TrimSpace(v.GetString("jwt_secret"))
	}
	if v.IsSet("database_url") {
		cfg.Database.DSN = strings.TrimSpace(v.GetString("database_url"))
		cfg.DSN = cfg.Database.DSNValue()
	}
	if v.IsSet("redis_url") {
		cfg.Redis.URL = normalizeRedisRawURL(v.GetString("redis_url"))
		cfg.Redis.Enable = cfg.Redis.URL != ""
		cfg.RedisURL = cfg.Redis.URLValue()
	}
	if v.IsSet("allowed_origins") {
		cfg.AllowedOrigins = normalizeList(strings.Split(v.GetString("allowed_origins"), ","))
	}
	if v.IsSet("trusted_proxies") {
		cfg.TrustedProxies = normalizeList(strings.Split(v.GetString("trusted_proxies"), ","))
	}
	if v.IsSet("log_dir") {
		cfg.Paths.Logs = strings.TrimSpace(v.GetString("log_dir"))
	}
	if v.IsSet("mail_pass") {
		cfg.Mail.Pass = v.GetString("mail_pass")
	}
	if v.IsSet("resend_key") {
		cfg.Mail.ResendKey = strings.TrimSpace(v.GetString("resend_key"))
	}
	if v.IsSet("bark_key") {
		cfg.Bark.Key = strings.TrimSpace(v.GetString("bark_key"))
	}
	if v.IsSet("geoip_db") {
		cfg.GeoIP.DatabasePath = strings.TrimSpace(v.GetString("geoip_db"))
	}
}
