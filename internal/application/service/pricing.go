package service

import (
	"github.com/sangkips/printshop-api/internal/domain/entity"
	"github.com/sangkips/printshop-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// CalculatePrice returns the total price of a job. For Both, pages is ignored
// and each side count is priced separately. Results are not rounded.
func CalculatePrice(printType enum.PrintType, pages, rectoPages, rectoVersoPages, copies int, prices entity.PriceTable) decimal.Decimal {
	n := decimal.NewFromInt(int64(copies))

	if printType == enum.PrintTypeBoth {
		recto := decimal.NewFromInt(int64(rectoPages)).Mul(prices.Recto)
		rectoVerso := decimal.NewFromInt(int64(rectoVersoPages)).Mul(prices.RectoVerso)
		return recto.Add(rectoVerso).Mul(n)
	}

	return decimal.NewFromInt(int64(pages)).Mul(prices.PerPage(printType)).Mul(n)
}

// TotalPages is the page count stored on a job
func TotalPages(printType enum.PrintType, pages, rectoPages, rectoVersoPages int) int {
	if printType == enum.PrintTypeBoth {
		return rectoPages + rectoVersoPages
	}
	return pages
}
