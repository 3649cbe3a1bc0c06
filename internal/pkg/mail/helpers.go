package mail

import "github.com/prometeylabs/lander/internal/config"

// BuildMailConfig maps the application mail section onto the sender settings.
func BuildMailConfig(cfg config.MailConfig) Config {
	return Config{
		Enable:    cfg.Enable,
		Host:      cfg.Host,
		Port:      cfg.Port,
		User:      cfg.User,
		Pass:      cfg.Pass,
		From:      cfg.From,
		UseResend: cfg.UseResend && cfg.ResendKey != "",
		ResendKey: cfg.ResendKey,
	}
}
