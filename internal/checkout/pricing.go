package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/code-with-shadow/adhunik-art/pkg/db/models"
	"github.com/code-with-shadow/adhunik-art/pkg/enums"
	pkgerrors "github.com/code-with-shadow/adhunik-art/pkg/errors"
)

// CountryIndia is the only region served by the COD mode.
const CountryIndia = "India"

// shippingRates is the flat country→cost table; not derived from
// weight or distance. Unknown countries fall back to "Other".
var shippingRates = map[string]int64{
	"India":     0,
	"USA":       50,
	"Canada":    80,
	"UK":        100,
	"Germany":   110,
	"France":    120,
	"Australia": 150,
	"Other":     180,
}

var percentDivisor = decimal.NewFromInt(100)

// CurrencyForCountry maps the buyer's shipping country to the charge
// currency: domestic buyers pay in INR, everyone else in USD.
func CurrencyForCountry(country string) enums.Currency {
	if country == CountryIndia {
		return enums.CurrencyINR
	}
	return enums.CurrencyUSD
}

// ShippingCost returns the flat shipping cost for the country.
func ShippingCost(country string) decimal.Decimal {
	rate, ok := shippingRates[country]
	if !ok {
		rate = shippingRates["Other"]
	}
	return decimal.NewFromInt(rate)
}

// DiscountedPrice returns a painting's effective unit price in the given
// currency after applying its per-currency discount percentage.
func DiscountedPrice(p models.Painting, currency enums.Currency) decimal.Decimal {
	price := p.PriceUSD
	discountPct := p.DiscountUSDPct
	if currency == enums.CurrencyINR {
		price = p.PriceINR
		discountPct = p.DiscountINRPct
	}
	if discountPct <= 0 {
		return price
	}
	discount := price.Mul(decimal.NewFromInt(int64(discountPct))).Div(percentDivisor)
	return price.Sub(discount)
}

// ComputeTotal returns the authoritative charge for the given paintings
// shipped to the given country: sum of discounted prices plus the flat
// shipping cost, rounded to two decimal places.
func ComputeTotal(paintings []models.Painting, country string) (decimal.Decimal, enums.Currency, error) {
	if len(paintings) == 0 {
		return decimal.Zero, "", pkgerrors.New(pkgerrors.CodeValidation, "no items to price")
	}
	currency := CurrencyForCountry(country)
	total := ShippingCost(country)
	for _, painting := range paintings {
		total = total.Add(DiscountedPrice(painting, currency))
	}
	return total.Round(2), currency, nil
}
