package model

// CurrencyPair maps a display name to its base and quote currency codes.
type CurrencyPair struct {
	Name  string
	Base  string
	Quote string
}

// Reciprocal returns the pair with base and quote swapped.
func (p CurrencyPair) Reciprocal() CurrencyPair {
	return CurrencyPair{Name: p.Quote + "/" + p.Base, Base: p.Quote, Quote: p.Base}
}

var pairs = []CurrencyPair{
	{Name: "EUR/USD", Base: "EUR", Quote: "USD"},
	{Name: "GBP/USD", Base: "GBP", Quote: "USD"},
	{Name: "USD/JPY", Base: "USD", Quote: "JPY"},
	{Name: "AUD/USD", Base: "AUD", Quote: "USD"},
	{Name: "USD/CAD", Base: "USD", Quote: "CAD"},
	{Name: "NZD/USD", Base: "NZD", Quote: "USD"},
	{Name: "USD/CHF", Base: "USD", Quote: "CHF"},
}

// Pairs returns the supported pair catalog in display order.
func Pairs() []CurrencyPair {
	out := make([]CurrencyPair, len(pairs))
	copy(out, pairs)
	return out
}

// LookupPair finds a catalog entry by display name.
func LookupPair(name string) (CurrencyPair, bool) {
	for _, p := range pairs {
		if p.Name == name {
			return p, true
		}
	}
	return CurrencyPair{}, false
}
