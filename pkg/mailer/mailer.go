package mailer

import (
	"fmt"
	"net/smtp"

	"summit-guard/backend/config"
)

// Mailer SMTP 邮件发送封装
// 仅用于通知的尽力而为外发，调用方负责吞掉错误
type Mailer struct {
	cfg *config.MailConfig
}

// New 创建 Mailer，未启用时返回 nil
func New(cfg *config.MailConfig) *Mailer {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	return &Mailer{cfg: cfg}
}

// Send 发送纯文本邮件
func (m *Mailer) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		m.cfg.From, to, subject, body))

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.SMTPHost)
	}
	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg)
}
