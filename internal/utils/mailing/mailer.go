package mailing

import (
	"io"
	"strconv"

	"inventory-provision-api/internal/utils"

	"github.com/gofiber/fiber/v2/log"
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

type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

type Message struct {
	Subject    string
	Body       string
	To         []string
	CC         []string
	Attachment *Attachment
}

// Mailer queues a message for best-effort asynchronous delivery. Callers
// never wait on the result; a failed send is logged and dropped, it does
// not roll back the state transition that produced it.
type Mailer interface {
	Queue(m Message)
}

type smtpMailer struct {
	cfg   MailConfig
	queue chan Message
}

func NewSMTPMailer() Mailer {
	m := &smtpMailer{
		cfg:   LoadMailConfig(),
		queue: make(chan Message, 64),
	}
	go m.worker()
	return m
}

func (s *smtpMailer) Queue(m Message) {
	select {
	case s.queue <- m:
	default:
		log.Errorf("mail queue full, dropping %q", m.Subject)
	}
}

func (s *smtpMailer) worker() {
	for m := range s.queue {
		if err := s.send(m); err != nil {
			log.Errorf("send mail %q: %v", m.Subject, err)
		}
	}
}

func (s *smtpMailer) send(m Message) error {
	mailer := gomail.NewMessage()
	mailer.SetHeader("From", s.cfg.SMTPEmail)
	mailer.SetHeader("To", m.To...)
	if len(m.CC) > 0 {
		mailer.SetHeader("Cc", m.CC...)
	}
	mailer.SetHeader("Subject", m.Subject)
	mailer.SetBody("text/plain", m.Body)

	if m.Attachment != nil {
		data := m.Attachment.Data
		mailer.Attach(
			m.Attachment.Name,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{
				"Content-Type": {m.Attachment.ContentType},
			}),
		)
	}

	port, err := strconv.Atoi(s.cfg.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		s.cfg.SMTPHost,
		port,
		s.cfg.SMTPEmail,
		s.cfg.SMTPPassword,
	)

	return dialer.DialAndSend(mailer)
}
