package entity

import "github.com/shopspring/decimal"

func init() {
	// Persisted collections store amounts as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// PriceTable holds the per-page unit prices by print type
type PriceTable struct {
	Recto      decimal.Decimal `json:"recto"`
	RectoVerso decimal.Decimal `json:"rectoVerso"`
}
