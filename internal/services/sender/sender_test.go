package sender

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
)

type MailerMock struct {
	mock.Mock
}

func (m *MailerMock) Send(ctx context.Context, to, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
}

func mustJSON(t *testing.T, v any) []byte {
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestService_OrderPlaced(t *testing.T) {
	mailer := new(MailerMock)
	svc := NewService(mailer, sl.Discard())
	mailer.On("Send", mock.Anything, "buyer@shop.test", "Order #42 received", mock.MatchedBy(func(body string) bool {
		return strings.Contains(body, "25.00") && strings.Contains(body, "3 item(s)")
	})).Return(nil).Once()

	err := svc.OrderPlaced(context.Background(), mustJSON(t, models.OrderPlacedEvent{
		OrderID: 42, Email: "buyer@shop.test", TotalPrice: decimal.RequireFromString("25"), Items: 3,
	}))
	require.NoError(t, err)
	mailer.AssertExpectations(t)
}

func TestService_SubscriptionExpiring(t *testing.T) {
	mailer := new(MailerMock)
	svc := NewService(mailer, sl.Discard())
	end := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	mailer.On("Send", mock.Anything, "dave@shop.test", "Your subscription is ending soon", mock.MatchedBy(func(body string) bool {
		return strings.Contains(body, "Dave") && strings.Contains(body, "01 Apr 2025") && strings.Contains(body, "Premium")
	})).Return(nil).Once()

	handler := svc.Handlers(context.Background())[models.EventSubscriptionExpiring]
	require.NotNil(t, handler)
	require.NoError(t, handler(mustJSON(t, models.SubscriptionEvent{
		SubscriptionID: 1, Email: "dave@shop.test", Name: "Dave", PlanName: "Premium", EndDate: &end,
	})))
	mailer.AssertExpectations(t)
}

func TestService_Errors(t *testing.T) {
	mailer := new(MailerMock)
	svc := NewService(mailer, sl.Discard())

	assert.Error(t, svc.SubscriptionCreated(context.Background(), []byte("{broken")))

	mailer.On("Send", mock.Anything, "x@shop.test", "Subscription cancelled", mock.Anything).
		Return(errors.New("smtp down")).Once()
	err := svc.SubscriptionCancelled(context.Background(), mustJSON(t, models.SubscriptionEvent{Email: "x@shop.test"}))
	assert.ErrorContains(t, err, "smtp down")

	require.NoError(t, svc.SubscriptionCancelled(context.Background(), mustJSON(t, models.SubscriptionEvent{})))
	mailer.AssertNumberOfCalls(t, "Send", 1)
}

func TestService_HandlersCoverAllQueues(t *testing.T) {
	h := NewService(new(MailerMock), sl.Discard()).Handlers(context.Background())
	for _, key := range []string{
		models.EventOrderPlaced,
		models.EventSubscriptionCreated,
		models.EventSubscriptionCancelled,
		models.EventSubscriptionExpiring,
	} {
		assert.Contains(t, h, key)
	}
}
