package response_models

type CreateCheckoutResponse struct {
	OrderCode     int64  `json:"order_code"`
	AmountVND     int64  `json:"amount_vnd"`
	Credits       int64  `json:"credits"`
	CheckoutURL   string `json:"checkout_url"`
	TransactionID string `json:"transaction_id"`
}

type TransactionResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Credits     int64  `json:"credits"`
	AmountVND   *int64 `json:"amount_vnd,omitempty"`
	PaymentID   string `json:"payment_id,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   int64  `json:"created_at"`
	CompletedAt *int64 `json:"completed_at,omitempty"`
}

type CreditPackageResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	NameEn             string `json:"name_en"`
	Description        string `json:"description"`
	Credits            int64  `json:"credits"`
	PriceVND           int64  `json:"price_vnd"`
	DiscountPercentage int    `json:"discount_percentage"`
	IsPopular          bool   `json:"is_popular"`
	DisplayOrder       int    `json:"display_order"`
}
