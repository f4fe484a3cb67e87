package service

import (
	"github.com/sangkips/printshop-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ApplyDelta adds amount to the unpaid total of the class whose name matches
// className exactly, clamping the result at zero. It reports whether a class
// matched; an unknown name changes nothing.
func ApplyDelta(classes []entity.Class, className string, amount decimal.Decimal) bool {
	for i := range classes {
		if classes[i].Name != className {
			continue
		}
		next := classes[i].TotalUnpaid.Add(amount)
		if next.IsNegative() {
			next = decimal.Zero
		}
		classes[i].TotalUnpaid = next
		return true
	}
	return false
}

// paidDelta is the balance change caused by moving a job from wasPaid to isPaid
func paidDelta(wasPaid, isPaid bool, totalPrice decimal.Decimal) decimal.Decimal {
	switch {
	case wasPaid == isPaid:
		return decimal.Zero
	case isPaid:
		return totalPrice.Neg()
	default:
		return totalPrice
	}
}
