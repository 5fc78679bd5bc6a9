package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendAlert(toEmail, alertType, message, priority string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendAlert(toEmail, alertType, message, priority string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("[%s] LifeOS Alert: %s", priority, alertType))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Proactive Alert</h2>
			<p><strong>Type:</strong> %s</p>
			<p><strong>Priority:</strong> %s</p>
			<p>%s</p>
		</div>
	`, alertType, priority, message)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send alert to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Alert sent to %s\n", toEmail)
	return nil
}
