package enums

// PaymentStatus tracks how an order's funds were (or will be) collected.
type PaymentStatus string

const (
	// PaymentStatusPaid means the gateway confirmed a completed capture.
	PaymentStatusPaid PaymentStatus = "paid"
	// PaymentStatusCODPending means funds are collected on delivery.
	PaymentStatusCODPending PaymentStatus = "cod_pending"
	// PaymentStatusCODCollected is set by an admin once cash was received.
	PaymentStatusCODCollected PaymentStatus = "cod_collected"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusCODPending, PaymentStatusCODCollected:
		return true
	}
	return false
}
