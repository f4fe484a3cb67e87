package entity

import (
	"time"

	"github.com/sangkips/printshop-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// PrintJob is one recorded job in the ledger.
// ID, SerialNumber, Timestamp and TotalPrice are fixed at creation.
type PrintJob struct {
	ID              string          `json:"id"`
	SerialNumber    string          `json:"serialNumber"`
	Timestamp       time.Time       `json:"timestamp"`
	ClassName       string          `json:"className"`
	TeacherName     string          `json:"teacherName"`
	DocumentType    string          `json:"documentType"`
	PrintType       enum.PrintType  `json:"printType"`
	Pages           int             `json:"pages"`
	RectoPages      int             `json:"rectoPages,omitempty"`
	RectoVersoPages int             `json:"rectoVersoPages,omitempty"`
	Copies          int             `json:"copies"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	Paid            bool            `json:"paid"`
	Notes           string          `json:"notes,omitempty"`
}

// SheetsPrinted returns pages times copies
func (j *PrintJob) SheetsPrinted() int {
	return j.Pages * j.Copies
}

// OutstandingAmount is the amount this job contributes to its class balance
func (j *PrintJob) OutstandingAmount() decimal.Decimal {
	if j.Paid {
		return decimal.Zero
	}
	return j.TotalPrice
}
