package request_models

// CreateCheckoutRequest buys either a predefined credit package or a custom
// amount (1 VND = 1 credit). Exactly one of the two should be set.
type CreateCheckoutRequest struct {
	PackageID    string `json:"package_id"`
	CustomAmount int64  `json:"custom_amount"`
}
