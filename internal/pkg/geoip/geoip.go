package geoip

import (
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
)

// Locator resolves an IP address to an ISO country code.
type Locator interface {
	Country(ip string) string
}

// Reader looks addresses up in a MaxMind GeoLite2/GeoIP2 database.
// A nil *Reader is valid and resolves nothing.
type Reader struct {
	db *geoip2.Reader
}

// Open loads the database at path.
func Open(path string) (*Reader, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip database %q: %w", path, err)
	}
	return &Reader{db: db}, nil
}

// Country returns the ISO code for ip, or "" when unknown.
func (r *Reader) Country(ip string) string {
	if r == nil || r.db == nil {
		return ""
	}
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.IsLoopback() || parsed.IsPrivate() {
		return ""
	}
	record, err := r.db.Country(parsed)
	if err != nil {
		return ""
	}
	return record.Country.IsoCode
}

func (r *Reader) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}
