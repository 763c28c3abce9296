package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"libratrack-admin-backend/internal/domain"
	"libratrack-admin-backend/internal/logger"
)

// MailSender is the part of the SendGrid client the email service uses.
type MailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type emailService struct {
	client    MailSender
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return NewEmailServiceWithSender(sendgrid.NewSendClient(apiKey), fromEmail, fromName)
}

func NewEmailServiceWithSender(client MailSender, fromEmail, fromName string) EmailService {
	return &emailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// SendOverdueDigest mails the list of overdue lendings. Nothing is sent for
// an empty list.
func (s *emailService) SendOverdueDigest(ctx context.Context, to string, lines []domain.OverdueLending, asOf time.Time) error {
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("digest recipient is required: %w", domain.ErrInvalidInput)
	}
	if len(lines) == 0 {
		logger.Debug("No overdue lendings, digest skipped")
		return nil
	}

	day := asOf.Format(time.DateOnly)
	subject := fmt.Sprintf("Overdue lendings on %s (%d)", day, len(lines))
	plainText, htmlContent := renderOverdueDigest(day, lines)

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	started := time.Now()
	logger.ExternalServiceCall("sendgrid", "SendOverdueDigest", "to", to, "lines", len(lines))
	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		depErr := &domain.DependencyError{Op: "sendgrid send", Err: err}
		logger.ExternalServiceResult("sendgrid", "SendOverdueDigest", started, depErr)
		return depErr
	}
	if response.StatusCode >= 400 {
		depErr := &domain.DependencyError{Op: "sendgrid send", Status: response.StatusCode, Err: fmt.Errorf("%s", response.Body)}
		logger.ExternalServiceResult("sendgrid", "SendOverdueDigest", started, depErr)
		return depErr
	}

	logger.ExternalServiceResult("sendgrid", "SendOverdueDigest", started, nil, "status", response.StatusCode)
	return nil
}

func renderOverdueDigest(day string, lines []domain.OverdueLending) (string, string) {
	var text, body strings.Builder

	fmt.Fprintf(&text, "Overdue lendings as of %s:\n\n", day)
	fmt.Fprintf(&body, "<html><body><h2>Overdue lendings as of %s</h2><table>", day)
	body.WriteString("<tr><th>Lending</th><th>Member</th><th>Book</th><th>Due</th><th>Days late</th><th>Accrued fine</th></tr>")

	for _, l := range lines {
		due := l.DueDate.Format(time.DateOnly)
		fmt.Fprintf(&text, "#%d  %s  %q  due %s  %d days late  fine %s\n",
			l.LendingID, l.MemberName, l.BookTitle, due, l.DaysLate, l.AccruedFine.StringFixed(0))
		fmt.Fprintf(&body, "<tr><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%d</td><td>%s</td></tr>",
			l.LendingID, html.EscapeString(l.MemberName), html.EscapeString(l.BookTitle), due, l.DaysLate, l.AccruedFine.StringFixed(0))
	}

	body.WriteString("</table></body></html>")
	return text.String(), body.String()
}
