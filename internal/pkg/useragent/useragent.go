// Package useragent classifies User-Agent strings into browser, OS and device type.
package useragent

import (
	"strings"

	"github.com/dgraph-io/ristretto"
	uaparser "github.com/mssola/useragent"
)

const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceBot     = "bot"

	unknown = "Unknown"
)

// Info is the parsed form of a User-Agent header.
type Info struct {
	Browser string `json:"browser"`
	OS      string `json:"os"`
	Device  string `json:"device"`
}

func (i Info) IsBot() bool    { return i.Device == DeviceBot }
func (i Info) IsMobile() bool { return i.Device == DeviceMobile }

// Map is the shape stored in visit metadata.
func (i Info) Map() map[string]interface{} {
	return map[string]interface{}{
		"browser":   i.Browser,
		"os":        i.OS,
		"device":    i.Device,
		"is_mobile": i.Device == DeviceMobile,
		"is_tablet": i.Device == DeviceTablet,
		"is_bot":    i.Device == DeviceBot,
	}
}

// Parser memoizes Parse results; landing traffic repeats a small set of agents.
type Parser struct {
	cache *ristretto.Cache
}

// NewParser builds a parser caching up to maxEntries results. maxEntries <= 0 disables caching.
func NewParser(maxEntries int) (*Parser, error) {
	if maxEntries <= 0 {
		return &Parser{}, nil
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: int64(maxEntries) * 10,
		MaxCost:     int64(maxEntries),
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Parser{cache: cache}, nil
}

func (p *Parser) Parse(ua string) Info {
	if p == nil || p.cache == nil {
		return Parse(ua)
	}
	if cached, ok := p.cache.Get(ua); ok {
		if info, ok := cached.(Info); ok {
			return info
		}
	}
	info := Parse(ua)
	p.cache.Set(ua, info, 1)
	return info
}

func (p *Parser) Close() {
	if p != nil && p.cache != nil {
		p.cache.Close()
	}
}

// Parse classifies ua without caching.
func Parse(ua string) Info {
	info := Info{Browser: unknown, OS: unknown, Device: DeviceDesktop}
	if strings.TrimSpace(ua) == "" {
		return info
	}
	parsed := uaparser.New(ua)
	lower := strings.ToLower(ua)

	if name, _ := parsed.Browser(); name != "" {
		info.Browser = name
	}
	if parsed.Bot() || hasBotMarker(lower) {
		info.Device = DeviceBot
		return info
	}
	info.OS = osFamily(parsed)

	switch {
	case strings.Contains(lower, "ipad") || strings.Contains(lower, "tablet"):
		info.Device = DeviceTablet
	case info.OS == "Android" && !strings.Contains(lower, "mobile"):
		info.Device = DeviceTablet
	case parsed.Mobile():
		info.Device = DeviceMobile
	}
	return info
}

func hasBotMarker(lower string) bool {
	return strings.Contains(lower, "bot") || strings.Contains(lower, "crawler") || strings.Contains(lower, "spider")
}

// osFamily folds the library's versioned OS string into a family name.
func osFamily(parsed *uaparser.UserAgent) string {
	desc := strings.ToLower(parsed.OS() + " " + parsed.Platform())
	switch {
	case strings.Contains(desc, "windows"):
		return "Windows"
	case strings.Contains(desc, "iphone") || strings.Contains(desc, "ipad") || strings.Contains(desc, "ipod"):
		return "iOS"
	case strings.Contains(desc, "android"):
		return "Android"
	case strings.Contains(desc, "mac os"):
		return "macOS"
	case strings.Contains(desc, "cros"):
		return "ChromeOS"
	case strings.Contains(desc, "linux"):
		return "Linux"
	}
	if name := parsed.OSInfo().Name; name != "" {
		return name
	}
	return unknown
}
