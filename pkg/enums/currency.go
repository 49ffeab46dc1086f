package enums

// Currency identifies the money unit an order was priced in.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyINR Currency = "INR"
)

func (c Currency) IsValid() bool {
	switch c {
	case CurrencyUSD, CurrencyINR:
		return true
	}
	return false
}
