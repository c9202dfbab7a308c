package service

import (
	"bytes"
	"fmt"
	"net/smtp"
	"text/template"

	"github.com/jordan-wright/email"
	"go.uber.org/zap"

	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/config"
)

var dispatchMailTmpl = template.Must(template.New("dispatch").Parse(
	`Order {{.OrderID}} item {{.ItemCode}} has been dispatched.

Serial no: {{.SerialNo}}
Warehouse: {{.Godown}}
Dispatched by: {{.DispatchedBy}}
{{if .Remarks}}Remarks: {{.Remarks}}
{{end}}`))

var requestMailTmpl = template.Must(template.New("request").Parse(
	`A new stock request has been raised.

Item: {{.ItemCode}} ({{.ItemKind}})
Quantity: {{.Quantity}}
Source: {{.SourceCompany}}
Deliver to: {{.DeliveryLocation}}
Requested by: {{.CreatedBy}}
`))

// Mailer sends operational notifications over SMTP. Sending is best effort:
// callers log failures and never roll back business writes because a mail
// did not go out.
type Mailer struct {
	cfg config.SMTPConfig
	log *zap.Logger
}

func NewMailer(cfg config.SMTPConfig, log *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

func (m *Mailer) enabled() bool {
	return m != nil && m.cfg.Host != ""
}

func (m *Mailer) send(to []string, subject string, tmpl *template.Template, data interface{}) {
	if !m.enabled() || len(to) == 0 {
		return
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		m.log.Warn("render mail template failed", zap.String("subject", subject), zap.Error(err))
		return
	}

	e := email.NewEmail()
	e.From = m.cfg.From
	e.To = to
	e.Subject = subject
	e.Text = body.Bytes()

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}
	if err := e.Send(addr, auth); err != nil {
		m.log.Warn("send mail failed",
			zap.String("subject", subject),
			zap.Strings("to", to),
			zap.Error(err))
		return
	}
	m.log.Info("mail sent", zap.String("subject", subject), zap.Strings("to", to))
}

type DispatchMail struct {
	OrderID      string
	ItemCode     string
	SerialNo     string
	Godown       string
	DispatchedBy string
	Remarks      string
}

func (m *Mailer) SendDispatchConfirmed(to []string, data DispatchMail) {
	m.send(to, fmt.Sprintf("Dispatch confirmed: order %s", data.OrderID), dispatchMailTmpl, data)
}

type RequestMail struct {
	ItemKind         string
	ItemCode         string
	Quantity         float64
	SourceCompany    string
	DeliveryLocation string
	CreatedBy        string
}

func (m *Mailer) SendRequestRaised(to []string, data RequestMail) {
	m.send(to, fmt.Sprintf("Stock request raised: %s", data.ItemCode), requestMailTmpl, data)
}
