package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// EmailService delivers the transactional mails of the activation and
// password-reset flows. Callers treat a returned error as "dispatch attempt
// failed"; there is no retry or delivery confirmation.
type EmailService interface {
	SendActivationEmail(email, name, code string) error
	SendPasswordResetEmail(email, name, resetURL string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendActivationEmail(email, name, code string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Account Verification")

	body := fmt.Sprintf(`
		<h2>Activation Account</h2>
		<p>Hello <strong>%s</strong>,</p>
		<p>Thank you for choosing to join OneAcademy!<br>
		Your account activation is almost complete. To finalize the activation
		process, please enter the OTP below:</p>
		<p style="letter-spacing: 5px; font-size: 25px"><strong>%s</strong></p>
		<p>If you did not initiate this action, please contact our support team.</p>
		<p>The OneAcademy Team</p>
	`, name, code)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send activation email: %w", err)
	}

	return nil
}

func (s *emailService) SendPasswordResetEmail(email, name, resetURL string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Reset Password")

	body := fmt.Sprintf(`
		<h2>Reset Password</h2>
		<p>Hello <strong>%s</strong>,</p>
		<p>We received a request to reset your account password. To proceed,
		please open the link below:</p>
		<p><a href="%s"><strong>Reset Password</strong></a></p>
		<p>If you did not initiate this password reset, you can ignore this email.</p>
		<p>The OneAcademy Team</p>
	`, name, resetURL)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	return nil
}
