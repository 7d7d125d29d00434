package models

import "time"

// ContactInfo is what the checkout form collects. The backend requires name,
// phone and email; the comment is a free-text lead field.
type ContactInfo struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Comment string `json:"comment,omitempty"`
}

// OrderLine is one line of the wire-format order. Size and branding details
// stay out of the payload; sales follows up on those from the quote.
type OrderLine struct {
	ProductID     string  `json:"product_id"`
	Name          string  `json:"name"`
	Article       string  `json:"article,omitempty"`
	Color         string  `json:"color,omitempty"`
	Material      string  `json:"material,omitempty"`
	Quantity      int     `json:"quantity"`
	UnitPriceFrom float64 `json:"unit_price_from"`
}

// OrderPayload is built from the cart at submission time and posted to the
// order-intake endpoint. It is a derived view and is never persisted.
type OrderPayload struct {
	Name        string      `json:"name"`
	Phone       string      `json:"phone"`
	Email       string      `json:"email"`
	Comment     string      `json:"comment,omitempty"`
	Items       []OrderLine `json:"items"`
	TotalAmount float64     `json:"total_amount"`
}

// NewOrderPayload snapshots the cart into the wire format. TotalAmount
// follows the cart total, so branding add-ons are not included.
func NewOrderPayload(contact ContactInfo, cart *Cart) *OrderPayload {
	lines := make([]OrderLine, 0, len(cart.Items))

	for _, item := range cart.Items {
		lines = append(lines, OrderLine{
			ProductID:     item.ProductID,
			Name:          item.Name,
			Article:       item.Article,
			Color:         item.SelectedColor,
			Material:      item.SelectedMaterial,
			Quantity:      item.Quantity,
			UnitPriceFrom: item.UnitPriceFrom,
		})
	}

	return &OrderPayload{
		Name:        contact.Name,
		Phone:       contact.Phone,
		Email:       contact.Email,
		Comment:     contact.Comment,
		Items:       lines,
		TotalAmount: cart.TotalPrice(),
	}
}

// OrderConfirmation acknowledges an accepted order.
type OrderConfirmation struct {
	OrderNumber string    `json:"order_number"`
	SubmittedAt time.Time `json:"submitted_at"`
}
