package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional mail to listing owners.
type Mailer interface {
	SendListingCreatedEmail(toEmail, carTitle string) error
}

type SMTPMailer struct {
	Host     string
	Port     int
	From     string
	Password string
}

func NewSMTPMailer(host string, port int, from, password string) *SMTPMailer {
	return &SMTPMailer{Host: host, Port: port, From: from, Password: password}
}

func (s *SMTPMailer) SendListingCreatedEmail(toEmail, carTitle string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your car listing is live")
	m.SetBody("text/plain", fmt.Sprintf("Your listing '%s' has been published successfully.", carTitle))

	d := gomail.NewDialer(s.Host, s.Port, s.From, s.Password)
	return d.DialAndSend(m)
}
