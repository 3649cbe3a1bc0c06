package useragent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	chromeWindows = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	safariIPhone  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1"
	firefoxLinux  = "Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0"
	androidTablet = "Mozilla/5.0 (Linux; Android 13; SM-X710) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	googlebot     = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want Info
	}{
		{"chrome on windows", chromeWindows, Info{Browser: "Chrome", OS: "Windows", Device: DeviceDesktop}},
		{"safari on iphone", safariIPhone, Info{Browser: "Safari", OS: "iOS", Device: DeviceMobile}},
		{"firefox on linux", firefoxLinux, Info{Browser: "Firefox", OS: "Linux", Device: DeviceDesktop}},
		{"android tablet", androidTablet, Info{Browser: "Chrome", OS: "Android", Device: DeviceTablet}},
		{"empty", "", Info{Browser: "Unknown", OS: "Unknown", Device: DeviceDesktop}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.ua))
		})
	}
}

func TestParseBot(t *testing.T) {
	for _, ua := range []string{googlebot, "Mozilla/5.0 (compatible; SemrushBot/7~bl; +http://www.semrush.com/bot.html)", "site-crawler/1.0"} {
		info := Parse(ua)
		assert.True(t, info.IsBot(), ua)
		assert.Equal(t, "Unknown", info.OS, ua)
	}
}

func TestParseMacAndIPad(t *testing.T) {
	mac := Parse("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15")
	assert.Equal(t, "macOS", mac.OS)
	assert.Equal(t, DeviceDesktop, mac.Device)

	ipad := Parse("Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1")
	assert.Equal(t, "iOS", ipad.OS)
	assert.Equal(t, DeviceTablet, ipad.Device)
}

func TestParserCachesResults(t *testing.T) {
	p, err := NewParser(100)
	require.NoError(t, err)
	defer p.Close()

	first := p.Parse(safariIPhone)
	p.cache.Wait()
	second := p.Parse(safariIPhone)

	assert.Equal(t, first, second)
	assert.True(t, second.IsMobile())
}

func TestParserWithoutCache(t *testing.T) {
	p, err := NewParser(0)
	require.NoError(t, err)
	assert.True(t, p.Parse(googlebot).IsBot())

	var nilParser *Parser
	assert.Equal(t, "Chrome", nilParser.Parse(chromeWindows).Browser)
}

func TestInfoMap(t *testing.T) {
	m := Parse(safariIPhone).Map()
	assert.Equal(t, "Safari", m["browser"])
	assert.Equal(t, true, m["is_mobile"])
	assert.Equal(t, false, m["is_bot"])
}
