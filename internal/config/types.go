package config

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                   `yaml:"port"`
	DSN            string                `yaml:"dsn"` // MySQL DSN
	RedisURL       string                `yaml:"redis_url"`
	Database       DatabaseRuntimeConfig `yaml:"database"`
	Redis          RedisRuntimeConfig    `yaml:"redis"`
	Env            string                `yaml:"env"` // "development" | "production"
	SiteURL        string                `yaml:"site_url"`
	Paths          RuntimePathsConfig    `yaml:"paths"`
	AllowedOrigins []string              `yaml:"allowed_origins"`
	TrustedProxies []string              `yaml:"trusted_proxies"` // IPs or CIDRs allowed to set X-Forwarded-For
	JWTSecret      string                `yaml:"jwt_secret"`
	Timezone       string                `yaml:"timezone"`
	Mail           MailConfig            `yaml:"mail"`
	Bark           BarkConfig            `yaml:"bark"`
	GeoIP          GeoIPConfig           `yaml:"geoip"`
	RateLimits     RateLimitConfig       `yaml:"rate_limits"`
	Cache          CacheConfig           `yaml:"cache"`
}

type DatabaseRuntimeConfig struct {
	DSN       string            `yaml:"dsn"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	Charset   string            `yaml:"charset"`
	ParseTime bool              `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
}

type RedisRuntimeConfig struct {
	Enable   bool              `yaml:"enable"`
	URL      string            `yaml:"url"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	Username string            `yaml:"username"`
	Password string            `yaml:"password"`
	DB       int               `yaml:"db"`
	TLS      bool              `yaml:"tls"`
	Params   map[string]string `yaml:"params"`
}

type RuntimePathsConfig struct {
	Logs string `yaml:"logs"`
}

// MailConfig drives lead notifications.
type MailConfig struct {
	Enable       bool   `yaml:"enable"`
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Pass         string `yaml:"pass"`
	From         string `yaml:"from"`
	ContactEmail string `yaml:"contact_email"`
	SiteName     string `yaml:"site_name"`
	UseResend    bool   `yaml:"use_resend"`
	ResendKey    string `yaml:"resend_key"`
}

type BarkConfig struct {
	Key       string `yaml:"key"`
	ServerURL string `yaml:"server_url"`
	Title     string `yaml:"title"`
}

type GeoIPConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// RateLimitConfig holds "<count>/<period>" specs per endpoint class.
type RateLimitConfig struct {
	LandingView        string `yaml:"landing_view"`
	LandingTrack       string `yaml:"landing_track"`
	LandingInteraction string `yaml:"landing_interaction"`
	LandingSubmit      string `yaml:"landing_submit"`
	SiteForms          string `yaml:"site_forms"`
}

type CacheConfig struct {
	UserAgentEntries int `yaml:"user_agent_entries"`
}

func (c *AppConfig) IsDev() bool { return c.Env == "development" }

func (c *AppConfig) LogDir() string {
	return ResolveRuntimePath(c.Paths.Logs, "logs")
}
