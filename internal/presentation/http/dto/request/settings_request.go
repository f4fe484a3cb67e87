package request

import (
	"github.com/sangkips/printshop-api/internal/domain/entity"
	"github.com/sangkips/printshop-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// UpdateSettingsRequest replaces the shop settings
type UpdateSettingsRequest struct {
	ShopName              string          `json:"shopName" binding:"required,max=255"`
	ShopAddress           string          `json:"shopAddress" binding:"max=500"`
	ShopPhone             string          `json:"shopPhone" binding:"max=50"`
	ShopEmail             string          `json:"shopEmail" binding:"omitempty,email"`
	Currency              string          `json:"currency" binding:"required,max=10"`
	PriceRecto            decimal.Decimal `json:"priceRecto"`
	PriceRectoVerso       decimal.Decimal `json:"priceRectoVerso"`
	UnpaidThreshold       decimal.Decimal `json:"unpaidThreshold"`
	NotificationTemplate  string          `json:"notificationTemplate" binding:"max=1000"`
	NotificationsEnabled  bool            `json:"notificationsEnabled"`
	DuplicateCheckEnabled bool            `json:"duplicateCheckEnabled"`
	ReceiptFooter         string          `json:"receiptFooter" binding:"max=500"`
}

// Validate rejects negative prices and thresholds
func (r *UpdateSettingsRequest) Validate() []apperror.FieldError {
	var errs []apperror.FieldError
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"priceRecto", r.PriceRecto},
		{"priceRectoVerso", r.PriceRectoVerso},
		{"unpaidThreshold", r.UnpaidThreshold},
	}
	for _, f := range fields {
		if f.value.IsNegative() {
			errs = append(errs, apperror.FieldError{Field: f.name, Message: "must not be negative"})
		}
	}
	return errs
}

// ToEntity converts the request into the settings record
func (r *UpdateSettingsRequest) ToEntity() *entity.Settings {
	return &entity.Settings{
		ShopName:              r.ShopName,
		ShopAddress:           r.ShopAddress,
		ShopPhone:             r.ShopPhone,
		ShopEmail:             r.ShopEmail,
		Currency:              r.Currency,
		PriceRecto:            r.PriceRecto,
		PriceRectoVerso:       r.PriceRectoVerso,
		UnpaidThreshold:       r.UnpaidThreshold,
		NotificationTemplate:  r.NotificationTemplate,
		NotificationsEnabled:  r.NotificationsEnabled,
		DuplicateCheckEnabled: r.DuplicateCheckEnabled,
		ReceiptFooter:         r.ReceiptFooter,
	}
}
