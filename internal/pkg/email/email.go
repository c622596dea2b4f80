package email

import (
	"context"
	"fmt"
	"html"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	defaultHost = "https://api.sendgrid.com"
	endpoint    = "/v3/mail/send"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendEnrollmentApproved(ctx context.Context, toEmail, toName, courseName string) error
}

// Config holds the sender identity and the SendGrid key
type Config struct {
	APIKey    string
	FromName  string
	FromEmail string
	// Host overrides the SendGrid API host
	Host string
}

// NewEmailService returns a SendGrid sender, or a logging sender when no key is configured
func NewEmailService(cfg Config, logger zerolog.Logger) EmailService {
	logger = logger.With().Str("component", "email").Logger()
	if cfg.APIKey == "" {
		logger.Warn().Msg("SendGrid API key not configured - emails will only be logged")
		return &LogEmailService{logger: logger}
	}
	host := cfg.Host
	if host == "" {
		host = defaultHost
	}
	return &SendgridEmailService{
		key:        cfg.APIKey,
		host:       host,
		from:       sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
		subjPrefix: "[" + cfg.FromName + "] ",
		logger:     logger,
	}
}

type message struct {
	toEmail string
	toName  string
	subject string
	text    string
	html    string
}

func enrollmentApproved(toEmail, toName, courseName string) message {
	return message{
		toEmail: toEmail,
		toName:  toName,
		subject: "Enrollment approved: " + courseName,
		text: fmt.Sprintf("Hello %s,\n\nYour enrollment in %s has been approved. "+
			"Open the app to see the schedule and upcoming live classes.\n", toName, courseName),
		html: fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
	<h2 style="color: #333;">You're in!</h2>
	<p>Hello %s,</p>
	<p>Your enrollment in <strong>%s</strong> has been approved.</p>
	<p>Open the app to see the schedule and upcoming live classes.</p>
</div>`, html.EscapeString(toName), html.EscapeString(courseName)),
	}
}

// SendgridEmailService sends through the SendGrid v3 API
type SendgridEmailService struct {
	key        string
	host       string
	from       *sgmail.Email
	subjPrefix string
	logger     zerolog.Logger
}

// SendEnrollmentApproved notifies a student that an admin approved the enrollment
func (s *SendgridEmailService) SendEnrollmentApproved(_ context.Context, toEmail, toName, courseName string) error {
	return s.send(enrollmentApproved(toEmail, toName, courseName))
}

func (s *SendgridEmailService) send(msg message) error {
	p := sgmail.NewPersonalization()
	p.Subject = s.subjPrefix + msg.subject
	p.AddTos(sgmail.NewEmail(msg.toName, msg.toEmail))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(
		sgmail.NewContent("text/plain", msg.text),
		sgmail.NewContent("text/html", msg.html),
	)

	req := sendgrid.GetRequest(s.key, endpoint, s.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid rejected email with status %d: %s", res.StatusCode, res.Body)
	}

	s.logger.Info().Str("to", msg.toEmail).Str("subject", p.Subject).Msg("Email sent")
	return nil
}

// LogEmailService writes emails to the log instead of sending them
type LogEmailService struct {
	logger zerolog.Logger
}

// SendEnrollmentApproved logs the email
func (s *LogEmailService) SendEnrollmentApproved(_ context.Context, toEmail, toName, courseName string) error {
	msg := enrollmentApproved(toEmail, toName, courseName)
	s.logger.Info().
		Str("to", msg.toEmail).
		Str("subject", msg.subject).
		Str("body", msg.text).
		Msg("Email not sent (console mode)")
	return nil
}
