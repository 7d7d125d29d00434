package models

import (
	"encoding/json"
	"sort"
	"strings"
)

// PlaceholderImageURL is used for products that have no catalog photo yet.
const PlaceholderImageURL = "/images/product-placeholder.png"

// Product is the catalog snapshot handed to AddItem. The cart copies the
// fields it needs; a later catalog price change does not touch existing
// line items.
type Product struct {
	ID            string   `json:"id" validate:"required"`
	Name          string   `json:"name" validate:"required"`
	Article       string   `json:"article,omitempty"`
	UnitPriceFrom float64  `json:"unit_price_from" validate:"gte=0"`
	Images        []string `json:"images,omitempty"`
	CategoryName  string   `json:"category_name,omitempty"`
}

type BrandingLocation struct {
	Name  string  `json:"name"`
	Size  string  `json:"size"`
	Price float64 `json:"price"`
}

// BrandingSelection is one chosen logo/print add-on with its placement.
type BrandingSelection struct {
	Type     string           `json:"type"`
	Location BrandingLocation `json:"location"`
}

// LineItem is one row of the cart: a specific product configuration at a
// given quantity. Empty selection strings mean the option was not chosen.
type LineItem struct {
	ProductID         string              `json:"product_id"`
	Name              string              `json:"name"`
	Article           string              `json:"article,omitempty"`
	UnitPriceFrom     float64             `json:"unit_price_from"`
	ImageURL          string              `json:"image_url"`
	SelectedColor     string              `json:"selected_color,omitempty"`
	SelectedSize      string              `json:"selected_size,omitempty"`
	SelectedMaterial  string              `json:"selected_material,omitempty"`
	SelectedBranding  []BrandingSelection `json:"selected_branding,omitempty"`
	BrandingUnitPrice float64             `json:"branding_unit_price"`
	Quantity          int                 `json:"quantity"`
	CategoryName      string              `json:"category_name,omitempty"`
}

// VariantKey identifies the configuration this line item stands for. Two
// additions merge into one line exactly when their keys are equal. Branding
// selections are serialized individually and sorted, so the same set of
// add-ons picked in a different order still merges.
func (li *LineItem) VariantKey() string {
	return variantKey(li.ProductID, li.SelectedColor, li.SelectedSize, li.SelectedMaterial, li.SelectedBranding)
}

func variantKey(productID, color, size, material string, branding []BrandingSelection) string {
	parts := make([]string, 0, len(branding))

	for _, b := range branding {
		data, err := json.Marshal(b)
		if err != nil {
			// Marshal of a plain struct cannot fail; keep the key total anyway.
			data = []byte(b.Type + b.Location.Name)
		}

		parts = append(parts, string(data))
	}

	sort.Strings(parts)

	// The tuple is marshaled as a whole so that option strings containing
	// arbitrary characters can never run into each other.
	key, err := json.Marshal(struct {
		ProductID string   `json:"p"`
		Color     string   `json:"c"`
		Size      string   `json:"s"`
		Material  string   `json:"m"`
		Branding  []string `json:"b"`
	}{productID, color, size, material, parts})
	if err != nil {
		return strings.Join([]string{productID, color, size, material}, "\x00")
	}

	return string(key)
}

func brandingUnitPrice(branding []BrandingSelection) float64 {
	var total float64

	for _, b := range branding {
		total += b.Location.Price
	}

	return total
}

// Cart is an ordered sequence of line items; insertion order is display
// order. All operations are in-memory and total: invalid input is a
// defensive no-op, never an error.
type Cart struct {
	Items []LineItem `json:"items"`
}

// AddItem merges into an existing line item when the variant matches,
// otherwise appends a new one at the end. Quantities below 1 count as 1, so
// adding never decreases a quantity.
func (c *Cart) AddItem(product Product, color, size, material string, branding []BrandingSelection, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	key := variantKey(product.ID, color, size, material, branding)

	for i := range c.Items {
		if c.Items[i].VariantKey() == key {
			c.Items[i].Quantity += quantity
			return
		}
	}

	imageURL := PlaceholderImageURL
	if len(product.Images) > 0 {
		imageURL = product.Images[0]
	}

	c.Items = append(c.Items, LineItem{
		ProductID:         product.ID,
		Name:              product.Name,
		Article:           product.Article,
		UnitPriceFrom:     product.UnitPriceFrom,
		ImageURL:          imageURL,
		SelectedColor:     color,
		SelectedSize:      size,
		SelectedMaterial:  material,
		SelectedBranding:  branding,
		BrandingUnitPrice: brandingUnitPrice(branding),
		Quantity:          quantity,
		CategoryName:      product.CategoryName,
	})
}

// RemoveItem deletes the line item at the given position; out-of-range
// indices are ignored.
func (c *Cart) RemoveItem(index int) {
	if index < 0 || index >= len(c.Items) {
		return
	}

	c.Items = append(c.Items[:index], c.Items[index+1:]...)
}

// UpdateQuantity sets the quantity of the line item at the given position.
// A quantity below 1 removes the item, same as RemoveItem.
func (c *Cart) UpdateQuantity(index, quantity int) {
	if index < 0 || index >= len(c.Items) {
		return
	}

	if quantity < 1 {
		c.RemoveItem(index)
		return
	}

	c.Items[index].Quantity = quantity
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

// TotalPrice sums unit price times quantity over all line items. Branding
// add-ons are priced separately by sales and are deliberately not part of
// the cart total, even though BrandingUnitPrice is kept per line.
func (c *Cart) TotalPrice() float64 {
	var total float64

	for _, item := range c.Items {
		total += item.UnitPriceFrom * float64(item.Quantity)
	}

	return total
}

// TotalItems sums the quantities over all line items.
func (c *Cart) TotalItems() int {
	var total int

	for _, item := range c.Items {
		total += item.Quantity
	}

	return total
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

type AddItemRequest struct {
	Product          Product             `json:"product" validate:"required"`
	SelectedColor    string              `json:"selected_color"`
	SelectedSize     string              `json:"selected_size"`
	SelectedMaterial string              `json:"selected_material"`
	SelectedBranding []BrandingSelection `json:"selected_branding"`
	Quantity         int                 `json:"quantity" validate:"omitempty,min=1"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartView is what the cart endpoints return: the items plus the derived
// totals, so the storefront never recomputes them.
type CartView struct {
	Items      []LineItem `json:"items"`
	TotalPrice float64    `json:"total_price"`
	TotalItems int        `json:"total_items"`
}
