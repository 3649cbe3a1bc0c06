package app

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/prometeylabs/lander/internal/config"
	"github.com/prometeylabs/lander/internal/modules/auth"
	"github.com/prometeylabs/lander/internal/modules/landing/page"
	"github.com/prometeylabs/lander/internal/modules/landing/pagetemplate"
	"github.com/prometeylabs/lander/internal/modules/landing/slughistory"
	"github.com/prometeylabs/lander/internal/modules/landing/tracking"
	"github.com/prometeylabs/lander/internal/modules/lead"
	"github.com/prometeylabs/lander/internal/pkg/bark"
	"github.com/prometeylabs/lander/internal/pkg/geoip"
	jwtpkg "github.com/prometeylabs/lander/internal/pkg/jwt"
	"github.com/prometeylabs/lander/internal/pkg/mail"
	"github.com/prometeylabs/lander/internal/pkg/useragent"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const minSecretLen = 16

// Services bundles the domain services shared by the HTTP server and the CLI.
type Services struct {
	History   *slughistory.Service
	Pages     *page.Service
	Templates *pagetemplate.Service
	Recorder  *tracking.Recorder
	Leads     *lead.Service
	Notifier  *lead.Notifier
	Auth      *auth.Service
	Tokens    *jwtpkg.Manager
	Bark      *bark.Service

	ua  *useragent.Parser
	geo *geoip.Reader
}

// NewServices wires every service onto db. GeoIP is optional; a missing database only disables
// country lookups.
func NewServices(db *gorm.DB, cfg *config.AppConfig, log *zap.Logger) (*Services, error) {
	secret := cfg.JWTSecret
	if len(secret) < minSecretLen && cfg.IsDev() {
		log.Warn("jwt_secret is unset or short, using an ephemeral development secret")
		secret = ephemeralSecret()
	}
	tokens, err := jwtpkg.NewManager(secret, jwtpkg.DefaultTTL)
	if err != nil {
		return nil, fmt.Errorf("jwt_secret: %w", err)
	}

	ua, err := useragent.NewParser(cfg.Cache.UserAgentEntries)
	if err != nil {
		return nil, err
	}

	var geo *geoip.Reader
	if path := strings.TrimSpace(cfg.GeoIP.DatabasePath); path != "" {
		if geo, err = geoip.Open(path); err != nil {
			log.Warn("geoip disabled", zap.Error(err))
			geo = nil
		}
	}

	history := slughistory.NewService(db)
	pages := page.NewService(db, history, log.Named("pages"))
	recorder := tracking.NewRecorder(db, ua, geo, log.Named("tracking"))
	push := bark.New(bark.Config{Key: cfg.Bark.Key, ServerURL: cfg.Bark.ServerURL, SiteTitle: cfg.Bark.Title})

	notifier := lead.NewNotifier(
		mail.New(mail.BuildMailConfig(cfg.Mail)),
		push,
		lead.NotifierConfig{
			StaffEmail: cfg.Mail.ContactEmail,
			SiteName:   cfg.Mail.SiteName,
			AdminURL:   strings.TrimRight(cfg.SiteURL, "/") + "/api/contact-requests/",
		},
		log.Named("leads"),
	)

	return &Services{
		History:   history,
		Pages:     pages,
		Templates: pagetemplate.NewService(db, pages, log.Named("templates")),
		Recorder:  recorder,
		Leads:     lead.NewService(db, recorder, log.Named("leads")),
		Notifier:  notifier,
		Auth:      auth.NewService(db, tokens, log.Named("auth")),
		Tokens:    tokens,
		Bark:      push,
		ua:        ua,
		geo:       geo,
	}, nil
}

// Close releases the UA cache and the GeoIP database.
func (s *Services) Close() {
	s.ua.Close()
	if s.geo != nil {
		_ = s.geo.Close()
	}
}

func ephemeralSecret() string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
