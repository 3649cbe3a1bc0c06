package config

import (
	"net"
	neturl "net/url"
	"strconv"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
)

// DSNValue returns the explicit DSN when set, otherwise one assembled from the discrete fields.
func (c DatabaseRuntimeConfig) DSNValue() string {
	if v := strings.TrimSpace(c.DSN); v != "" {
		return v
	}

	cfg := mysqldriver.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	cfg.DBName = c.Name
	cfg.ParseTime = c.ParseTime

	params := map[string]string{"charset": c.Charset}
	for key, value := range c.Params {
		params[key] = value
	}
	cfg.Params = params

	dsn := cfg.FormatDSN()
	if c.Loc != "" {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "loc=" + neturl.QueryEscape(c.Loc)
	}
	return dsn
}

// URLValue returns a redis:// (or rediss:// with TLS) URL for the configured instance.
func (c RedisRuntimeConfig) URLValue() string {
	if u := normalizeRedisRawURL(c.URL); u != "" {
		return u
	}

	scheme := "redis"
	if c.TLS {
		scheme = "rediss"
	}
	u := &neturl.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + strconv.Itoa(c.DB),
	}
	switch {
	case c.Username != "" && c.Password != "":
		u.User = neturl.UserPassword(c.Username, c.Password)
	case c.Username != "":
		u.User = neturl.User(c.Username)
	case c.Password != "":
		u.User = neturl.UserPassword("", c.Password)
	}

	if len(c.Params) > 0 {
		query := neturl.Values{}
		for key, value := range c.Params {
			query.Set(key, value)
		}
		u.RawQuery = query.Encode()
	}
	return u.String()
}
