// Package mail delivers one-time passcodes to the admin over SMTP.
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/chdeepakkumar/portfolio/internal/common"
)

// Sender delivers an OTP to a recipient. Implementations must not log the
// code.
type Sender interface {
	SendOTP(ctx context.Context, to, code string) error
}

// SMTPSender sends OTP mails through an authenticated STARTTLS session.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
}

// NewSMTPSender validates the SMTP settings and returns a sender. Missing
// credentials are a configuration error, not a silent no-op.
func NewSMTPSender(host string, port int, username, password string) (*SMTPSender, error) {
	if host == "" || username == "" || password == "" {
		return nil, fmt.Errorf("%w: SMTP host, user, and password are required", common.ErrConfig)
	}
	return &SMTPSender{host: host, port: port, username: username, password: password}, nil
}

func (s *SMTPSender) SendOTP(ctx context.Context, to, code string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.username); err != nil {
		return fmt.Errorf("setting mail sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting mail recipient: %w", err)
	}
	msg.Subject("Admin Login OTP - Portfolio")
	msg.SetBodyString(gomail.TypeTextHTML, otpBody(code))

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("creating smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending otp mail: %w", err)
	}
	return nil
}

func otpBody(code string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2>Admin Login One-Time Password</h2>
  <p>You requested an OTP to access the portfolio admin panel.</p>
  <div style="padding: 20px; border-radius: 8px; text-align: center; background-color: #0a0e27;">
    <p style="font-size: 32px; font-weight: bold; letter-spacing: 4px; color: #64ffda; font-family: monospace;">%s</p>
  </div>
  <p>The code expires in 5 minutes. If you did not request it, ignore this email.</p>
</div>`, code)
}
