package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	mail "gopkg.in/mail.v2"

	"github.com/grdlib/feedback-api/internal/models"
	"github.com/grdlib/feedback-api/pkg/config"
)

// NotificationService sends transactional mail for feedback receipts and
// issue status changes. When disabled every send is a logged no-op so
// the submission flow never blocks on SMTP.
type NotificationService struct {
	dialer  *mail.Dialer
	from    string
	enabled bool
	logger  *zap.Logger
}

// NewNotificationService constructs the mail sender from configuration.
func NewNotificationService(cfg config.MailConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &NotificationService{from: cfg.From, enabled: cfg.Enabled, logger: logger}
	if cfg.Enabled {
		svc.dialer = mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return svc
}

// SendThankYou mails a feedback receipt.
func (s *NotificationService) SendThankYou(to, name string) error {
	subject := "Thank You for Your Feedback"
	body := mailBody("Library Feedback", name,
		"Thank you for your valuable feedback. We appreciate your effort in helping us improve our services and facilities.",
		"Our team has received your input and will look into it with care.")
	return s.send(to, subject, body)
}

// SendStatusUpdate mails the reporter when an issue changes status.
func (s *NotificationService) SendStatusUpdate(to, name string, status models.IssueStatus) error {
	var subject, line string
	switch status {
	case models.IssueResolved:
		subject = "Your Issue Has Been Resolved"
		line = "Your issue has been successfully resolved. Thank you for your patience."
	case models.IssueSuspended:
		subject = "Your Issue Has Been Suspended"
		line = "Your issue has been suspended. Please check back later for updates."
	case models.IssuePending:
		subject = "Your Issue Is Pending"
		line = "Your issue is currently pending. We will update you as soon as possible."
	case models.IssueResolving:
		subject = "Your Issue Is Being Resolved"
		line = "Our team is working on your issue. We will notify you once it is resolved."
	default:
		return fmt.Errorf("no mail template for status %s", status)
	}
	return s.send(to, subject, mailBody(subject, name, line))
}

func (s *NotificationService) send(to, subject, body string) error {
	if !s.enabled || s.dialer == nil {
		s.logger.Debug("mail disabled, skipping send", zap.String("to", to), zap.String("subject", subject))
		return nil
	}
	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

func mailBody(header, name string, lines ...string) string {
	content := ""
	for _, line := range lines {
		content += fmt.Sprintf("<p>%s</p>", line)
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; background-color: #f4f6f8; padding: 20px;">
  <div style="max-width: 600px; margin: auto; background: #fff; border-radius: 8px; padding: 24px;">
    <h2>%s</h2>
    <p>Dear %s,</p>
    %s
    <p style="color:#aaa; font-size: 13px;">&copy; %d GRD Library. All rights reserved.</p>
  </div>
</body>
</html>`, header, name, content, time.Now().Year())
}
