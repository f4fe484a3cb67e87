package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sangkips/printshop-api/internal/domain/entity"
	"github.com/sangkips/printshop-api/internal/domain/repository"
	"github.com/xuri/excelize/v2"
)

const (
	historySheet = "History"
	classesSheet = "Classes"
)

var historyHeader = []string{
	"Serial Number", "Date", "Class", "Teacher", "Document Type", "Print Type",
	"Pages", "Recto Pages", "Recto-verso Pages", "Copies", "Total Price", "Paid", "Notes",
}

// ExportService writes job history as CSV or XLSX
type ExportService struct {
	jobs     *PrintJobService
	store    repository.LedgerStore
	location *time.Location
}

// NewExportService creates a new export service
func NewExportService(jobs *PrintJobService, store repository.LedgerStore, loc *time.Location) *ExportService {
	if loc == nil {
		loc = time.Local
	}
	return &ExportService{jobs: jobs, store: store, location: loc}
}

func (s *ExportService) historyRow(j *entity.PrintJob) []string {
	return []string{
		j.SerialNumber,
		j.Timestamp.In(s.location).Format("2006-01-02 15:04"),
		csvText(j.ClassName),
		csvText(j.TeacherName),
		csvText(j.DocumentType),
		j.PrintType.Label(),
		strconv.Itoa(j.Pages),
		strconv.Itoa(j.RectoPages),
		strconv.Itoa(j.RectoVersoPages),
		strconv.Itoa(j.Copies),
		j.TotalPrice.StringFixed(2),
		yesNo(j.Paid),
		csvText(j.Notes),
	}
}

// csvText keeps spreadsheets from evaluating free text as a formula
func csvText(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

// WriteCSV writes the jobs matching filter, newest first
func (s *ExportService) WriteCSV(ctx context.Context, w io.Writer, filter *PrintJobFilter) error {
	jobs, err := s.jobs.Search(ctx, filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(historyHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for i := range jobs {
		if err := cw.Write(s.historyRow(&jobs[i])); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a workbook with the matching jobs on a History sheet and
// current class balances on a Classes sheet.
func (s *ExportService) WriteXLSX(ctx context.Context, w io.Writer, filter *PrintJobFilter) error {
	jobs, err := s.jobs.Search(ctx, filter)
	if err != nil {
		return err
	}
	classes, err := s.store.Classes(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", historySheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(classesSheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	header := make([]interface{}, len(historyHeader))
	for i, h := range historyHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(historySheet, "A1", &header); err != nil {
		return err
	}
	for i := range jobs {
		j := &jobs[i]
		row := []interface{}{
			j.SerialNumber,
			j.Timestamp.In(s.location).Format("2006-01-02 15:04"),
			j.ClassName,
			j.TeacherName,
			j.DocumentType,
			j.PrintType.Label(),
			j.Pages,
			j.RectoPages,
			j.RectoVersoPages,
			j.Copies,
			j.TotalPrice.InexactFloat64(),
			yesNo(j.Paid),
			j.Notes,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(historySheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(historySheet, 1, 1, bold); err != nil {
		return err
	}
	if err := f.SetColWidth(historySheet, "A", "F", 18); err != nil {
		return err
	}

	if err := f.SetSheetRow(classesSheet, "A1", &[]interface{}{"Class", "Total Unpaid"}); err != nil {
		return err
	}
	for i, c := range classes {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(classesSheet, cell, &[]interface{}{c.Name, c.TotalUnpaid.InexactFloat64()}); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(classesSheet, 1, 1, bold); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
