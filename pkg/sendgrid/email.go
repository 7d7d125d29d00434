package sendgrid

import (
	"context"
	"fmt"
	"strings"

	"github.com/formaworks/uniform-cart-service/internal/models"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailService notifies the sales inbox about accepted orders. Delivery is
// best effort; the order is already accepted by the time this runs.
type EmailService interface {
	SendOrderNotification(ctx context.Context, to string, payload *models.OrderPayload, confirmation *models.OrderConfirmation) error
}

type emailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey string, fromEmail string, fromName string) EmailService {
	return &emailService{client: sendgrid.NewSendClient(apiKey), fromEmail: fromEmail, fromName: fromName}
}

// SendOrderNotification implements EmailService.
func (e *emailService) SendOrderNotification(ctx context.Context, to string, payload *models.OrderPayload, confirmation *models.OrderConfirmation) error {

	from := mail.NewEmail(e.fromName, e.fromEmail)

	message := mail.NewV3Mail()
	message.SetFrom(from)

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail("", to))
	personalization.Subject = fmt.Sprintf("New order %s from %s", confirmation.OrderNumber, payload.Name)
	message.AddPersonalizations(personalization)

	message.AddContent(mail.NewContent("text/plain", plainSummary(payload, confirmation)))

	response, err := e.client.Send(message)

	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	return nil
}

func plainSummary(payload *models.OrderPayload, confirmation *models.OrderConfirmation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Order %s\n", confirmation.OrderNumber)
	fmt.Fprintf(&b, "Customer: %s, %s, %s\n", payload.Name, payload.Phone, payload.Email)

	if payload.Comment != "" {
		fmt.Fprintf(&b, "Comment: %s\n", payload.Comment)
	}

	b.WriteString("\nItems:\n")

	for _, line := range payload.Items {
		fmt.Fprintf(&b, "- %s", line.Name)

		if line.Article != "" {
			fmt.Fprintf(&b, " (%s)", line.Article)
		}

		if line.Color != "" {
			fmt.Fprintf(&b, ", color %s", line.Color)
		}

		if line.Material != "" {
			fmt.Fprintf(&b, ", material %s", line.Material)
		}

		fmt.Fprintf(&b, " x%d at %.2f\n", line.Quantity, line.UnitPriceFrom)
	}

	fmt.Fprintf(&b, "\nTotal: %.2f\n", payload.TotalAmount)

	return b.String()
}
