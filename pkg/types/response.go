package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// CheckoutResult is the wire shape the checkout UI consumes. It is kept
// separate from the generic envelope because the storefront contract predates
// it: {success, orderId} on 200, {success:false, message} otherwise.
type CheckoutResult struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId,omitempty"`
	Message string `json:"message,omitempty"`
}
