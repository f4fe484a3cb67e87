package entity

import (
	"github.com/sangkips/printshop-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Settings is the singleton shop configuration. Saving replaces it wholesale.
type Settings struct {
	ShopName              string          `json:"shopName"`
	ShopAddress           string          `json:"shopAddress"`
	ShopPhone             string          `json:"shopPhone"`
	ShopEmail             string          `json:"shopEmail"`
	Currency              string          `json:"currency"`
	PriceRecto            decimal.Decimal `json:"priceRecto"`
	PriceRectoVerso       decimal.Decimal `json:"priceRectoVerso"`
	UnpaidThreshold       decimal.Decimal `json:"unpaidThreshold"`
	NotificationTemplate  string          `json:"notificationTemplate"`
	NotificationsEnabled  bool            `json:"notificationsEnabled"`
	DuplicateCheckEnabled bool            `json:"duplicateCheckEnabled"`
	ReceiptFooter         string          `json:"receiptFooter"`
}

// DefaultSettings returns the settings used before the shop saves its own
func DefaultSettings() *Settings {
	return &Settings{
		ShopName:              "Print Shop",
		Currency:              "MAD",
		PriceRecto:            decimal.RequireFromString("0.5"),
		PriceRectoVerso:       decimal.RequireFromString("0.8"),
		UnpaidThreshold:       decimal.NewFromInt(100),
		NotificationTemplate:  "Class {className} has an unpaid balance of {amount} {currency}.",
		NotificationsEnabled:  true,
		DuplicateCheckEnabled: true,
		ReceiptFooter:         "Thank you!",
	}
}

// PriceTable extracts the unit prices used by the pricing calculator
func (s *Settings) PriceTable() PriceTable {
	return PriceTable{
		Recto:      s.PriceRecto,
		RectoVerso: s.PriceRectoVerso,
	}
}

// PerPage returns the unit price for a single-type job. Unknown types cost nothing.
func (p PriceTable) PerPage(printType enum.PrintType) decimal.Decimal {
	switch printType {
	case enum.PrintTypeRecto:
		return p.Recto
	case enum.PrintTypeRectoVerso:
		return p.RectoVerso
	}
	return decimal.Zero
}
