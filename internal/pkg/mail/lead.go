package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// LeadField is one labelled value shown in a lead email.
type LeadField struct {
	Label string
	Value string
}

// LeadData feeds the lead notification and confirmation emails.
type LeadData struct {
	RequestType   string
	TypeLabel     string
	Name          string
	ContactMethod string
	Message       string
	Fields        []LeadField
	SiteName      string
	CreatedAt     time.Time
}

type leadView struct {
	LeadData
	MessageHTML template.HTML
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Linkify),
	goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
)

var funcs = template.FuncMap{
	"year": func() int { return time.Now().Year() },
}

var (
	notificationTpl = template.Must(template.New("lead_notification").Funcs(funcs).Parse(leadNotificationTpl))
	confirmationTpl = template.Must(template.New("lead_confirmation").Funcs(funcs).Parse(leadConfirmationTpl))
)

var notificationSubjects = map[string]string{
	"contact": "New contact request from %s",
	"builder": "New site builder request from %s",
	"promin":  "New Promin project request from %s",
	"course":  "New course application from %s",
	"landing": "New landing page lead from %s",
}

var confirmationSubjects = map[string]string{
	"contact": "Thank you for reaching out - %s",
	"builder": "Your website request has been received - %s",
	"promin":  "Your Promin application has been received - %s",
	"course":  "Your course application has been received - %s",
}

// RenderMessage converts a visitor's free-text message to HTML. Raw HTML in the input is omitted.
func RenderMessage(text string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// RenderLeadNotification builds the staff email for a new lead.
func RenderLeadNotification(data LeadData) (subject, html string, err error) {
	format, ok := notificationSubjects[data.RequestType]
	if !ok {
		format = "New request from %s"
	}
	subject = fmt.Sprintf(format, data.Name)
	html, err = render(notificationTpl, data)
	return subject, html, err
}

// RenderLeadConfirmation builds the acknowledgement sent to the person who submitted the lead.
func RenderLeadConfirmation(data LeadData) (subject, html string, err error) {
	format, ok := confirmationSubjects[data.RequestType]
	if !ok {
		format = "Your request has been received - %s"
	}
	subject = fmt.Sprintf(format, siteName(data))
	html, err = render(confirmationTpl, data)
	return subject, html, err
}

func render(tpl *template.Template, data LeadData) (string, error) {
	data.SiteName = siteName(data)
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now()
	}
	messageHTML, err := RenderMessage(data.Message)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, leadView{LeadData: data, MessageHTML: messageHTML}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func siteName(data LeadData) string {
	if name := strings.TrimSpace(data.SiteName); name != "" {
		return name
	}
	return "Prometey Labs"
}

const leadNotificationTpl = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
</head>
<body style="background-color:#fff;margin:0 auto;font-family:ui-sans-serif,system-ui,-apple-system,Segoe UI,Roboto,Helvetica Neue,Arial,sans-serif;padding:.5rem">
  <table align="center" width="100%" role="presentation" cellspacing="0" cellpadding="0" border="0" style="max-width:100%;border:1px solid rgb(249,115,22);border-radius:.25rem;margin:40px auto;padding:20px;width:550px">
    <tbody><tr><td>
      <h1 style="color:#000;font-size:18px;font-weight:400;margin:16px 0">{{.TypeLabel}}: <strong>{{.Name}}</strong></h1>
      <p style="font-size:14px;line-height:24px;margin:8px 0">Contact: <strong>{{.ContactMethod}}</strong></p>
      <p style="font-size:12px;line-height:24px;margin:8px 0;color:rgb(107,114,128)">Received {{.CreatedAt.Format "02.01.2006 15:04"}}</p>
      {{if .Fields}}
      <table width="100%" role="presentation" border="0" cellpadding="4" cellspacing="0" style="font-size:13px;margin:16px 0">
        <tbody>
        {{range .Fields}}<tr><td style="color:rgb(107,114,128);width:40%">{{.Label}}</td><td>{{.Value}}</td></tr>
        {{end}}
        </tbody>
      </table>
      {{end}}
      {{if .Message}}
      <table align="center" width="100%" role="presentation" border="0" cellpadding="0" cellspacing="0" style="background-color:rgb(243,244,246);border-radius:.75rem;padding:0 1rem">
        <tbody><tr><td style="font-size:13px;line-height:22px;color:rgb(51,51,51)">{{.MessageHTML}}</td></tr></tbody>
      </table>
      {{end}}
      <hr style="width:100%;border:none;border-top:1px solid #eaeaea;margin:26px 0" />
      <p style="font-size:10px;line-height:24px;margin:16px 0;text-align:center;color:rgb(156,163,175)">Sent automatically by {{.SiteName}} &copy;{{year}}</p>
    </td></tr></tbody>
  </table>
</body>
</html>`

const leadConfirmationTpl = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
</head>
<body style="font-family:sans-serif;background:#f5f5f5;padding:20px">
<div style="max-width:600px;margin:0 auto;background:#fff;border-radius:8px;padding:24px">
  <h2 style="color:#333">Hello, {{.Name}}!</h2>
  <p>We have received your request ({{.TypeLabel}}) and will get back to you shortly.</p>
  {{if .Message}}
  <p style="color:#666;font-size:13px">Your message:</p>
  <div style="background:#f3f4f6;border-radius:6px;padding:4px 12px;font-size:13px">{{.MessageHTML}}</div>
  {{end}}
  <p style="color:#999;font-size:12px;margin-top:24px">{{.SiteName}} &copy;{{year}}. This is an automated message, please do not reply.</p>
</div>
</body>
</html>`
