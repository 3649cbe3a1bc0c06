package config

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 8000
	defaultEnv        = "development"
	defaultSiteURL    = "http://localhost:8000"
	defaultTimezone   = "Europe/Kyiv"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "lander"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultRedisHost  = "localhost"
	defaultRedisPort  = 6379
	defaultRedisDB    = 0
	defaultSMTPPort   = 587
	defaultUACacheMax = 10000

	defaultLandingViewLimit  = "30/minute"
	defaultLandingTrackLimit = "60/minute"
	defaultInteractionLimit  = "120/minute"
	defaultSubmitLimit       = "5/minute"
	defaultFormLimit         = "5/minute"
)
