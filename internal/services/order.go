package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/formaworks/uniform-cart-service/internal/errors"
	"github.com/formaworks/uniform-cart-service/internal/metrics"
	"github.com/formaworks/uniform-cart-service/internal/models"
	"github.com/formaworks/uniform-cart-service/pkg/orderapi"
	"github.com/formaworks/uniform-cart-service/pkg/sendgrid"
	"github.com/microcosm-cc/bluemonday"
)

// OrderService turns a session's cart into an order. One submission attempt
// per call: on success the cart is cleared, on any failure it is left
// exactly as it was so nothing is lost before a manual retry.
type OrderService struct {
	cartService *CartService
	client      orderapi.Client
	emailer     sendgrid.EmailService
	salesEmail  string
	sanitizer   *bluemonday.Policy
}

func NewOrderService(cartService *CartService, client orderapi.Client, emailer sendgrid.EmailService, salesEmail string) *OrderService {
	return &OrderService{
		cartService: cartService,
		client:      client,
		emailer:     emailer,
		salesEmail:  salesEmail,
		sanitizer:   bluemonday.StrictPolicy(),
	}
}

// Submit validates the contact fields and the cart before any network call,
// posts the assembled payload once, and clears the cart only on a 2xx
// response.
func (s *OrderService) Submit(ctx context.Context, sessionID string, contact models.ContactInfo) (*models.OrderConfirmation, error) {
	if err := validateContact(contact); err != nil {
		metrics.OrdersSubmitted.WithLabelValues("rejected").Inc()

		return nil, err
	}

	cart := s.cartService.Snapshot(ctx, sessionID)
	if cart.IsEmpty() {
		metrics.OrdersSubmitted.WithLabelValues("rejected").Inc()

		return nil, errors.ValidationError("Cart is empty")
	}

	// The comment is free text headed for the sales CRM; strip any markup.
	contact.Comment = s.sanitizer.Sanitize(contact.Comment)

	payload := models.NewOrderPayload(contact, cart)

	confirmation, err := s.client.SubmitOrder(ctx, payload)
	if err != nil {
		metrics.OrdersSubmitted.WithLabelValues("failed").Inc()

		return nil, errors.SubmissionError("Order submission failed").WithError(err)
	}

	metrics.OrdersSubmitted.WithLabelValues("accepted").Inc()

	s.cartService.ClearCart(ctx, sessionID)

	if s.emailer != nil && s.salesEmail != "" {
		if err := s.emailer.SendOrderNotification(ctx, s.salesEmail, payload, confirmation); err != nil {
			slog.Error("Failed to notify sales about order",
				slog.String("order_number", confirmation.OrderNumber),
				slog.String("error", err.Error()),
			)
		}
	}

	return confirmation, nil
}

func validateContact(contact models.ContactInfo) error {
	var missing []string

	if strings.TrimSpace(contact.Name) == "" {
		missing = append(missing, "name")
	}

	if strings.TrimSpace(contact.Phone) == "" {
		missing = append(missing, "phone")
	}

	if strings.TrimSpace(contact.Email) == "" {
		missing = append(missing, "email")
	}

	if len(missing) > 0 {
		return errors.ValidationError("Missing required contact fields").WithDetail(strings.Join(missing, ", "))
	}

	return nil
}
