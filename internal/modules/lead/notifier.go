package lead

import (
	"context"
	"fmt"

	"github.com/prometeylabs/lander/internal/models"
	"github.com/prometeylabs/lander/internal/pkg/mail"
	"github.com/prometeylabs/lander/internal/pkg/validate"
	"go.uber.org/zap"
)

// MailSender is satisfied by *mail.Sender.
type MailSender interface {
	Enabled() bool
	Send(ctx context.Context, msg mail.Message) error
}

// Pusher is satisfied by *bark.Service.
type Pusher interface {
	Push(ctx context.Context, title, body, url string) error
}

type NotifierConfig struct {
	StaffEmail string
	SiteName   string
	// AdminURL opens from the push notification.
	AdminURL string
}

// Notifier tells staff about new leads and acknowledges them to the submitter.
type Notifier struct {
	mail MailSender
	push Pusher
	cfg  NotifierConfig
	log  *zap.Logger
}

func NewNotifier(sender MailSender, push Pusher, cfg NotifierConfig, log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{mail: sender, push: push, cfg: cfg, log: log}
}

// Notify sends the staff email, the submitter confirmation and a push. Only a failed staff email
// is reported; the other channels are logged and ignored.
func (n *Notifier) Notify(ctx context.Context, req *models.ContactRequest) error {
	data := mail.LeadData{
		RequestType:   req.RequestType,
		TypeLabel:     TypeLabel(req.RequestType),
		Name:          req.Name,
		ContactMethod: req.ContactMethod,
		Message:       req.Message,
		Fields:        leadFields(req),
		SiteName:      n.cfg.SiteName,
		CreatedAt:     req.CreatedAt,
	}

	n.pushLead(ctx, req)

	if n.mail == nil || !n.mail.Enabled() {
		return nil
	}

	err := n.notifyStaff(ctx, req, data)
	if err != nil {
		n.log.Error("lead staff email failed", zap.String("request_id", req.ID), zap.Error(err))
	}
	n.confirm(ctx, req, data)
	return err
}

func (n *Notifier) notifyStaff(ctx context.Context, req *models.ContactRequest, data mail.LeadData) error {
	if n.cfg.StaffEmail == "" {
		return fmt.Errorf("no staff email configured")
	}
	subject, html, err := mail.RenderLeadNotification(data)
	if err != nil {
		return fmt.Errorf("render lead notification: %w", err)
	}
	msg := mail.Message{To: []string{n.cfg.StaffEmail}, Subject: subject, HTML: html}
	if validate.IsEmail(req.ContactMethod) {
		msg.ReplyTo = req.ContactMethod
	}
	return n.mail.Send(ctx, msg)
}

// confirm mails the submitter when the contact method is an email address.
func (n *Notifier) confirm(ctx context.Context, req *models.ContactRequest, data mail.LeadData) {
	if !validate.IsEmail(req.ContactMethod) {
		n.log.Debug("skip lead confirmation", zap.String("request_id", req.ID))
		return
	}
	subject, html, err := mail.RenderLeadConfirmation(data)
	if err != nil {
		n.log.Warn("render lead confirmation", zap.String("request_id", req.ID), zap.Error(err))
		return
	}
	if err := n.mail.Send(ctx, mail.Message{To: []string{req.ContactMethod}, Subject: subject, HTML: html}); err != nil {
		n.log.Warn("lead confirmation email failed", zap.String("request_id", req.ID), zap.Error(err))
	}
}

func (n *Notifier) pushLead(ctx context.Context, req *models.ContactRequest) {
	if n.push == nil {
		return
	}
	body := fmt.Sprintf("%s (%s)", req.Name, req.ContactMethod)
	if err := n.push.Push(ctx, TypeLabel(req.RequestType), body, n.cfg.AdminURL); err != nil {
		n.log.Warn("lead push failed", zap.String("request_id", req.ID), zap.Error(err))
	}
}
