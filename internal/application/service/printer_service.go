package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sangkips/printshop-api/internal/domain/entity"
	"github.com/sangkips/printshop-api/internal/domain/enum"
	"github.com/sangkips/printshop-api/internal/domain/repository"
	"github.com/sangkips/printshop-api/pkg/apperror"
	"github.com/sangkips/printshop-api/pkg/printer"
	"github.com/shopspring/decimal"
)

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer     printer.Printer
	store       repository.LedgerStore
	printerType string
	width       int
	location    *time.Location
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	store repository.LedgerStore,
	printerType string,
	width int,
	loc *time.Location,
) *PrinterService {
	if loc == nil {
		loc = time.Local
	}
	return &PrinterService{
		printer:     p,
		store:       store,
		printerType: printerType,
		width:       width,
		location:    loc,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	Width      int    `json:"width"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != printer.TypeNone && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
		Width:      s.width,
	}
}

// TestPrint sends a sample receipt built from the current shop settings.
// The receipt is returned even when printing fails.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	settings, err := s.store.Settings(ctx)
	if err != nil {
		return nil, err
	}

	unit := settings.PriceRecto
	receipt := &entity.Receipt{
		Header:       receiptHeader(settings),
		SerialNumber: SerialPrefix + "-TEST-000",
		Date:         time.Now().In(s.location).Format("2006-01-02 15:04"),
		PrintType:    enum.PrintTypeRecto.Label(),
		Lines: []entity.ReceiptLine{
			{Description: "Test page", Pages: 1, Copies: 1, UnitPrice: unit, Total: unit},
		},
		Total:    unit,
		Paid:     true,
		Currency: settings.Currency,
		Footer:   settings.ReceiptFooter,
	}

	if err := s.printer.Print(FormatReceipt(receipt, s.width)); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}
	return receipt, nil
}

// BuildReceipt composes the receipt of a job with the current shop header
// and, for unpaid jobs, the class balance.
func (s *PrinterService) BuildReceipt(ctx context.Context, jobID string) (*entity.Receipt, error) {
	jobs, err := s.store.PrintJobs(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOfJob(jobs, jobID)
	if idx < 0 {
		return nil, apperror.NewNotFoundError("Print job")
	}
	job := jobs[idx]

	settings, err := s.store.Settings(ctx)
	if err != nil {
		return nil, err
	}

	receipt := &entity.Receipt{
		Header:       receiptHeader(settings),
		SerialNumber: job.SerialNumber,
		Date:         job.Timestamp.In(s.location).Format("2006-01-02 15:04"),
		ClassName:    job.ClassName,
		TeacherName:  job.TeacherName,
		DocumentType: job.DocumentType,
		PrintType:    job.PrintType.Label(),
		Lines:        receiptLines(&job, settings.PriceTable()),
		Total:        job.TotalPrice,
		Paid:         job.Paid,
		Currency:     settings.Currency,
		Notes:        job.Notes,
		Footer:       settings.ReceiptFooter,
	}

	if !job.Paid {
		classes, err := s.store.Classes(ctx)
		if err != nil {
			return nil, err
		}
		for _, c := range classes {
			if c.Name == job.ClassName {
				balance := c.TotalUnpaid
				receipt.ClassBalance = &balance
				break
			}
		}
	}

	return receipt, nil
}

// PrintJobReceipt builds and prints the receipt of a job.
func (s *PrinterService) PrintJobReceipt(ctx context.Context, jobID string) (*entity.Receipt, error) {
	receipt, err := s.BuildReceipt(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if err := s.printer.Print(FormatReceipt(receipt, s.width)); err != nil {
		log.Printf("Printer error (print job %s): %v", jobID, err)
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	return receipt, nil
}

func receiptHeader(settings *entity.Settings) entity.ReceiptHeader {
	return entity.ReceiptHeader{
		ShopName: settings.ShopName,
		Address:  settings.ShopAddress,
		Phone:    settings.ShopPhone,
		Email:    settings.ShopEmail,
	}
}

// receiptLines splits a job into priced lines. Unit prices are derived from
// the frozen total so the lines always add up to it, even after a price change.
func receiptLines(job *entity.PrintJob, prices entity.PriceTable) []entity.ReceiptLine {
	if job.PrintType != enum.PrintTypeBoth {
		return []entity.ReceiptLine{singleLine(job.PrintType.Label(), job.Pages, job.Copies, job.TotalPrice)}
	}

	rectoAt := CalculatePrice(enum.PrintTypeRecto, job.RectoPages, 0, 0, job.Copies, prices)
	rvAt := CalculatePrice(enum.PrintTypeRectoVerso, job.RectoVersoPages, 0, 0, job.Copies, prices)
	rectoTotal := job.TotalPrice
	if sum := rectoAt.Add(rvAt); sum.IsPositive() {
		rectoTotal = job.TotalPrice.Mul(rectoAt).Div(sum).Round(2)
	}
	return []entity.ReceiptLine{
		singleLine(enum.PrintTypeRecto.Label(), job.RectoPages, job.Copies, rectoTotal),
		singleLine(enum.PrintTypeRectoVerso.Label(), job.RectoVersoPages, job.Copies, job.TotalPrice.Sub(rectoTotal)),
	}
}

func singleLine(description string, pages, copies int, total decimal.Decimal) entity.ReceiptLine {
	unit := decimal.Zero
	if n := pages * copies; n > 0 {
		unit = total.Div(decimal.NewFromInt(int64(n)))
	}
	return entity.ReceiptLine{
		Description: description,
		Pages:       pages,
		Copies:      copies,
		UnitPrice:   unit,
		Total:       total,
	}
}

// FormatReceipt converts a Receipt into ESC/POS bytes for a paper width in characters.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)
	money := func(d decimal.Decimal) string {
		return fmt.Sprintf("%s %s", d.StringFixed(2), r.Currency)
	}

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.ShopName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Wrap(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.Email != "" {
		doc.Text(r.Header.Email)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Receipt:", r.SerialNumber).
		KeyValue("Date:", r.Date)
	if r.ClassName != "" {
		doc.KeyValue("Class:", r.ClassName)
	}
	if r.TeacherName != "" {
		doc.KeyValue("Teacher:", r.TeacherName)
	}
	if r.DocumentType != "" {
		doc.KeyValue("Document:", r.DocumentType)
	}

	doc.Separator('-')

	for _, line := range r.Lines {
		doc.KeyValue(line.Description, money(line.Total))
		doc.TextF("  %d p x %d @ %s", line.Pages, line.Copies, line.UnitPrice.StringFixed(2))
	}

	doc.Separator('-')

	doc.SetBold(true).
		KeyValue("TOTAL:", money(r.Total)).
		SetBold(false)
	if r.Paid {
		doc.KeyValue("Status:", "PAID")
	} else {
		doc.KeyValue("Status:", "UNPAID")
		if r.ClassBalance != nil {
			doc.KeyValue("Class balance:", money(*r.ClassBalance))
		}
	}

	if r.Notes != "" {
		doc.Separator('-').
			Wrap(r.Notes)
	}

	doc.Separator('-')

	if r.Footer != "" {
		doc.SetAlign(printer.AlignCenter).
			LineFeed().
			Wrap(r.Footer).
			LineFeed().
			SetAlign(printer.AlignLeft)
	}

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
