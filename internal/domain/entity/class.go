package entity

import "github.com/shopspring/decimal"

// Class is a customer group whose unpaid jobs accumulate into TotalUnpaid.
// Jobs reference a class by name, not by ID.
type Class struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	TotalUnpaid decimal.Decimal `json:"totalUnpaid"`
}

// HasOutstandingBalance reports whether the class still owes money
func (c *Class) HasOutstandingBalance() bool {
	return c.TotalUnpaid.IsPositive()
}
