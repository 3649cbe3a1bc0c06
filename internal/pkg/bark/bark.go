package bark

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

const defaultServerURL = "https://api.day.app"

// Config holds the Bark device key and server.
type Config struct {
	Key       string
	ServerURL string
	SiteTitle string
}

// Service sends iOS push notifications via the Bark API.
type Service struct {
	cfg        Config
	httpClient *http.Client

	mu         sync.Mutex
	lastPushAt map[string]time.Time
	throttleD  time.Duration
	now        func() time.Time
}

// New creates a Bark service. A service without a key is valid and sends nothing.
func New(cfg Config) *Service {
	if cfg.ServerURL == "" {
		cfg.ServerURL = defaultServerURL
	}
	if cfg.SiteTitle == "" {
		cfg.SiteTitle = "Lander"
	}
	return &Service{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		lastPushAt: make(map[string]time.Time),
		throttleD:  10 * time.Minute,
		now:        time.Now,
	}
}

// Enabled reports whether a device key is configured.
func (s *Service) Enabled() bool { return s != nil && s.cfg.Key != "" }

type pushPayload struct {
	DeviceKey string `json:"device_key"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Group     string `json:"group,omitempty"`
	URL       string `json:"url,omitempty"`
}

// Push sends a notification immediately. url, when set, opens on tap.
func (s *Service) Push(ctx context.Context, title, body, url string) error {
	if !s.Enabled() {
		return nil
	}

	b, err := json.Marshal(pushPayload{
		DeviceKey: s.cfg.Key,
		Title:     fmt.Sprintf("[%s] %s", s.cfg.SiteTitle, title),
		Body:      body,
		Group:     s.cfg.SiteTitle,
		URL:       url,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.ServerURL+"/push", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("bark push failed with status %d", resp.StatusCode)
	}
	return nil
}

// ThrottlePush reports a rate-limited client at most once per throttle window per ip and path.
func (s *Service) ThrottlePush(ip, path string) {
	if !s.Enabled() {
		return
	}

	throttleKey := ip + "|" + path

	s.mu.Lock()
	last, ok := s.lastPushAt[throttleKey]
	if ok && s.now().Sub(last) < s.throttleD {
		s.mu.Unlock()
		return
	}
	s.lastPushAt[throttleKey] = s.now()
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.httpClient.Timeout)
	defer cancel()
	_ = s.Push(ctx, "Rate limit hit", fmt.Sprintf("IP: %s Path: %s", ip, path), "")
}
