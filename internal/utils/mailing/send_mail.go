package mailing

import (
	"FoodShare/internal/utils"
	"strconv"

	"gopkg.in/gomail.v2"
)

type MailConfig struct {
	AppURL       string
	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPEmail    string
	SMTPPassword string
}

func LoadMailConfig() MailConfig {
	return MailConfig{
		AppURL:       utils.GetConfig("APP_URL"),
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

// Enabled reports whether enough SMTP settings are present to send mail.
func (c MailConfig) Enabled() bool {
	return c.SMTPHost != "" && c.SMTPPort != "" && c.SMTPEmail != ""
}

func NewMessage(cfg MailConfig, toEmail string, subject string, body string) *gomail.Message {
	mailer := gomail.NewMessage()
	if cfg.SMTPSender != "" {
		mailer.SetAddressHeader("From", cfg.SMTPEmail, cfg.SMTPSender)
	} else {
		mailer.SetHeader("From", cfg.SMTPEmail)
	}
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)
	return mailer
}

func Send(cfg MailConfig, toEmail string, subject string, body string) error {
	port, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		cfg.SMTPHost,
		port,
		cfg.SMTPEmail,
		cfg.SMTPPassword,
	)

	return dialer.DialAndSend(NewMessage(cfg, toEmail, subject, body))
}
