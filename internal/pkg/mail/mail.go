package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/smtp"
	"strings"
	"time"
)

const resendEndpoint = "https://api.resend.com/emails"

// Config holds mail provider settings.
type Config struct {
	Enable    bool
	Host      string
	Port      int
	User      string
	Pass      string
	From      string
	UseResend bool
	ResendKey string
}

// Message is a single email to send.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
}

// Sender sends emails via SMTP or Resend.
type Sender struct {
	cfg        Config
	httpClient *http.Client
	resendURL  string
}

func New(cfg Config) *Sender {
	return &Sender{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		resendURL:  resendEndpoint,
	}
}

// Enabled reports whether Send actually delivers anything.
func (s *Sender) Enabled() bool { return s != nil && s.cfg.Enable }

// Send dispatches an email. Uses Resend if configured, otherwise SMTP. Disabled senders drop
// the message and return nil.
func (s *Sender) Send(ctx context.Context, msg Message) error {
	if !s.Enabled() {
		return nil
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("mail: no recipients")
	}
	if s.cfg.UseResend && s.cfg.ResendKey != "" {
		return s.sendResend(ctx, msg)
	}
	return s.sendSMTP(msg)
}

func (s *Sender) from() string {
	if s.cfg.From != "" {
		return s.cfg.From
	}
	return s.cfg.User
}

func (s *Sender) sendSMTP(msg Message) error {
	port := s.cfg.Port
	if port == 0 {
		port = 587
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, port)

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	}
	return smtp.SendMail(addr, auth, envelopeAddress(s.from()), msg.To, buildMIME(s.from(), msg))
}

func buildMIME(from string, msg Message) []byte {
	var body bytes.Buffer
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString(fmt.Sprintf("From: %s\r\n", from))
	body.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	if msg.ReplyTo != "" {
		body.WriteString(fmt.Sprintf("Reply-To: %s\r\n", msg.ReplyTo))
	}
	body.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject)))
	body.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))
	body.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	body.WriteString("\r\n")
	body.WriteString(msg.HTML)
	return body.Bytes()
}

// envelopeAddress extracts "a@b" from `Name <a@b>`.
func envelopeAddress(from string) string {
	if start := strings.LastIndex(from, "<"); start >= 0 {
		if end := strings.LastIndex(from, ">"); end > start {
			return from[start+1 : end]
		}
	}
	return from
}

func (s *Sender) sendResend(ctx context.Context, msg Message) error {
	body := map[string]interface{}{
		"from":    s.from(),
		"to":      msg.To,
		"subject": msg.Subject,
		"html":    msg.HTML,
	}
	if msg.ReplyTo != "" {
		body["reply_to"] = msg.ReplyTo
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.resendURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.ResendKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return fmt.Errorf("resend error %d: %s", resp.StatusCode, errResp.Message)
	}
	return nil
}
