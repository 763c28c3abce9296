package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"libratrack-admin-backend/internal/domain"
	"libratrack-admin-backend/internal/service"
)

func TestEmailService_SendOverdueDigest(t *testing.T) {
	ctx := context.Background()
	asOf := time.Date(2024, 3, 11, 1, 0, 0, 0, time.UTC)
	lines := []domain.OverdueLending{{
		LendingID:   7,
		MemberName:  "Ani <Admin>",
		BookTitle:   "Laskar Pelangi",
		DueDate:     time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
		DaysLate:    3,
		AccruedFine: decimal.NewFromInt(3000),
	}}

	t.Run("Success", func(t *testing.T) {
		sender := new(MockMailSender)
		sender.On("SendWithContext", ctx, mock.MatchedBy(func(m *mail.SGMailV3) bool {
			if m.Subject != "Overdue lendings on 2024-03-11 (1)" || m.From.Address != "library@example.org" {
				return false
			}
			if len(m.Content) != 2 {
				return false
			}
			return m.Content[0].Type == "text/plain" &&
				containsAll(m.Content[0].Value, "#7", "Ani <Admin>", "3 days late", "fine 3000") &&
				containsAll(m.Content[1].Value, "Ani &lt;Admin&gt;")
		})).Return(&rest.Response{StatusCode: 202}, nil)

		svc := service.NewEmailServiceWithSender(sender, "library@example.org", "LibraTrack")
		assert.NoError(t, svc.SendOverdueDigest(ctx, "librarian@example.org", lines, asOf))
		sender.AssertExpectations(t)
	})

	t.Run("NothingOverdue", func(t *testing.T) {
		sender := new(MockMailSender)
		svc := service.NewEmailServiceWithSender(sender, "library@example.org", "LibraTrack")

		assert.NoError(t, svc.SendOverdueDigest(ctx, "librarian@example.org", nil, asOf))
		sender.AssertNotCalled(t, "SendWithContext", mock.Anything, mock.Anything)
	})

	t.Run("NoRecipient", func(t *testing.T) {
		svc := service.NewEmailServiceWithSender(new(MockMailSender), "library@example.org", "LibraTrack")
		assert.ErrorIs(t, svc.SendOverdueDigest(ctx, "", lines, asOf), domain.ErrInvalidInput)
	})

	t.Run("Rejected", func(t *testing.T) {
		sender := new(MockMailSender)
		sender.On("SendWithContext", ctx, mock.Anything).Return(&rest.Response{StatusCode: 401, Body: "bad key"}, nil)

		svc := service.NewEmailServiceWithSender(sender, "library@example.org", "LibraTrack")
		err := svc.SendOverdueDigest(ctx, "librarian@example.org", lines, asOf)

		var depErr *domain.DependencyError
		assert.True(t, errors.As(err, &depErr))
		assert.Equal(t, 401, depErr.Status)
	})

	t.Run("TransportError", func(t *testing.T) {
		sender := new(MockMailSender)
		sender.On("SendWithContext", ctx, mock.Anything).Return(nil, errors.New("dial tcp: refused"))

		svc := service.NewEmailServiceWithSender(sender, "library@example.org", "LibraTrack")
		assert.Error(t, svc.SendOverdueDigest(ctx, "librarian@example.org", lines, asOf))
	})
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
