package models

// CheckoutItem is one SKU+quantity pair in a checkout request.
type CheckoutItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// LineItem is a priced checkout line. Amounts are integer cents.
type LineItem struct {
	ID         string       `json:"id"`
	Item       CheckoutItem `json:"item"`
	BaseAmount int          `json:"base_amount"`
	Subtotal   int          `json:"subtotal"`
	Tax        int          `json:"tax"`
	Total      int          `json:"total"`
}

// TotalEntry is one aggregate amount line (subtotal, tax, total).
type TotalEntry struct {
	Type   string `json:"type"`
	Amount int    `json:"amount"`
}

// Link is a typed URL attached to a checkout session.
type Link struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// PaymentProvider describes the (mocked) payment rail for a session.
type PaymentProvider struct {
	Provider                string   `json:"provider"`
	SupportedPaymentMethods []string `json:"supported_payment_methods"`
}

// CheckoutSession is ephemeral: it exists only in the request/response
// cycle and is never persisted.
type CheckoutSession struct {
	ID              string          `json:"id"`
	Status          string          `json:"status"`
	Currency        string          `json:"currency"`
	PaymentProvider PaymentProvider `json:"payment_provider"`
	LineItems       []LineItem      `json:"line_items"`
	Totals          []TotalEntry    `json:"totals"`
	Links           []Link          `json:"links"`
	UserID          string          `json:"user_id,omitempty"`
}
