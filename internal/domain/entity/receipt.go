package entity

import "github.com/shopspring/decimal"

// ReceiptHeader holds the shop header printed at the top of a receipt.
type ReceiptHeader struct {
	ShopName string `json:"shopName"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
}

// ReceiptLine is a single priced line on a receipt.
type ReceiptLine struct {
	Description string          `json:"description"`
	Pages       int             `json:"pages"`
	Copies      int             `json:"copies"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

// Receipt is a value object composed from a print job at print time.
// It is not persisted.
type Receipt struct {
	Header       ReceiptHeader    `json:"header"`
	SerialNumber string           `json:"serialNumber"`
	Date         string           `json:"date"`
	ClassName    string           `json:"className,omitempty"`
	TeacherName  string           `json:"teacherName,omitempty"`
	DocumentType string           `json:"documentType,omitempty"`
	PrintType    string           `json:"printType"`
	Lines        []ReceiptLine    `json:"lines"`
	Total        decimal.Decimal  `json:"total"`
	Paid         bool             `json:"paid"`
	ClassBalance *decimal.Decimal `json:"classBalance,omitempty"`
	Currency     string           `json:"currency"`
	Notes        string           `json:"notes,omitempty"`
	Footer       string           `json:"footer,omitempty"`
}
