package service

import (
	"context"
	"sort"
	"time"

	"github.com/sangkips/printshop-api/internal/domain/entity"
	"github.com/sangkips/printshop-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ReportService builds read-only views over the ledger
type ReportService struct {
	store    repository.LedgerStore
	location *time.Location
}

// NewReportService creates a new report service. loc is the calendar used
// for per-day buckets.
func NewReportService(store repository.LedgerStore, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &ReportService{store: store, location: loc}
}

// ReportTotals aggregates a set of jobs. Pages counts printed sheets,
// that is pages times copies.
type ReportTotals struct {
	Jobs    int             `json:"jobs"`
	Pages   int             `json:"pages"`
	Revenue decimal.Decimal `json:"revenue"`
	Paid    decimal.Decimal `json:"paid"`
	Unpaid  decimal.Decimal `json:"unpaid"`
}

// ReportRow is one bucket of a breakdown
type ReportRow struct {
	Key string `json:"key"`
	ReportTotals
}

// Summary is the revenue report for a period
type Summary struct {
	From           *time.Time   `json:"from,omitempty"`
	To             *time.Time   `json:"to,omitempty"`
	Totals         ReportTotals `json:"totals"`
	ByClass        []ReportRow  `json:"byClass"`
	ByTeacher      []ReportRow  `json:"byTeacher"`
	ByDocumentType []ReportRow  `json:"byDocumentType"`
	ByDay          []ReportRow  `json:"byDay"`
}

// BalanceDrift compares a stored class balance with the one implied by its jobs
type BalanceDrift struct {
	ClassName string          `json:"className"`
	Stored    decimal.Decimal `json:"stored"`
	Expected  decimal.Decimal `json:"expected"`
	Drift     decimal.Decimal `json:"drift"`
}

// BalanceAudit lists classes whose stored balance differs from their unpaid
// jobs, and unpaid amounts recorded against names no class carries.
type BalanceAudit struct {
	CheckedClasses int             `json:"checkedClasses"`
	Drifts         []BalanceDrift  `json:"drifts"`
	Orphaned       []ReportRow     `json:"orphaned"`
	TotalDrift     decimal.Decimal `json:"totalDrift"`
}

func newTotals() ReportTotals {
	return ReportTotals{Revenue: decimal.Zero, Paid: decimal.Zero, Unpaid: decimal.Zero}
}

func (t *ReportTotals) add(j *entity.PrintJob) {
	t.Jobs++
	t.Pages += j.SheetsPrinted()
	t.Revenue = t.Revenue.Add(j.TotalPrice)
	if j.Paid {
		t.Paid = t.Paid.Add(j.TotalPrice)
	} else {
		t.Unpaid = t.Unpaid.Add(j.TotalPrice)
	}
}

type bucketer struct {
	order []string
	rows  map[string]*ReportRow
}

func newBucketer() *bucketer {
	return &bucketer{rows: map[string]*ReportRow{}}
}

func (b *bucketer) add(key string, j *entity.PrintJob) {
	row, ok := b.rows[key]
	if !ok {
		row = &ReportRow{Key: key, ReportTotals: newTotals()}
		b.rows[key] = row
		b.order = append(b.order, key)
	}
	row.add(j)
}

func (b *bucketer) byRevenue() []ReportRow {
	out := b.sorted()
	sort.SliceStable(out, func(i, k int) bool { return out[i].Revenue.GreaterThan(out[k].Revenue) })
	return out
}

func (b *bucketer) sorted() []ReportRow {
	keys := append([]string(nil), b.order...)
	sort.Strings(keys)
	out := make([]ReportRow, 0, len(keys))
	for _, k := range keys {
		out = append(out, *b.rows[k])
	}
	return out
}

// Summary aggregates the jobs with from <= timestamp < to. Nil bounds are open.
func (s *ReportService) Summary(ctx context.Context, from, to *time.Time) (*Summary, error) {
	jobs, err := s.store.PrintJobs(ctx)
	if err != nil {
		return nil, err
	}

	filter := &PrintJobFilter{From: from, To: to}
	totals := newTotals()
	byClass, byTeacher, byDocType, byDay := newBucketer(), newBucketer(), newBucketer(), newBucketer()

	for i := range jobs {
		j := &jobs[i]
		if !filter.matches(j) {
			continue
		}
		totals.add(j)
		byClass.add(j.ClassName, j)
		byTeacher.add(j.TeacherName, j)
		byDocType.add(j.DocumentType, j)
		byDay.add(j.Timestamp.In(s.location).Format("2006-01-02"), j)
	}

	return &Summary{
		From:           from,
		To:             to,
		Totals:         totals,
		ByClass:        byClass.byRevenue(),
		ByTeacher:      byTeacher.byRevenue(),
		ByDocumentType: byDocType.byRevenue(),
		ByDay:          byDay.sorted(),
	}, nil
}

// BalanceAudit recomputes every class balance from unpaid jobs and reports
// the differences. It never writes.
func (s *ReportService) BalanceAudit(ctx context.Context) (*BalanceAudit, error) {
	jobs, err := s.store.PrintJobs(ctx)
	if err != nil {
		return nil, err
	}
	classes, err := s.store.Classes(ctx)
	if err != nil {
		return nil, err
	}

	expected := map[string]decimal.Decimal{}
	orphans := newBucketer()
	known := map[string]bool{}
	for _, c := range classes {
		known[c.Name] = true
	}
	for i := range jobs {
		j := &jobs[i]
		if j.Paid {
			continue
		}
		if !known[j.ClassName] {
			orphans.add(j.ClassName, j)
			continue
		}
		expected[j.ClassName] = expected[j.ClassName].Add(j.OutstandingAmount())
	}

	audit := &BalanceAudit{
		CheckedClasses: len(classes),
		Drifts:         []BalanceDrift{},
		Orphaned:       orphans.sorted(),
		TotalDrift:     decimal.Zero,
	}
	seen := map[string]bool{}
	for _, c := range classes {
		// ApplyDelta only ever reaches the first class carrying a name.
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true

		want := expected[c.Name]
		if c.TotalUnpaid.Equal(want) {
			continue
		}
		drift := c.TotalUnpaid.Sub(want)
		audit.Drifts = append(audit.Drifts, BalanceDrift{
			ClassName: c.Name,
			Stored:    c.TotalUnpaid,
			Expected:  want,
			Drift:     drift,
		})
		audit.TotalDrift = audit.TotalDrift.Add(drift)
	}
	return audit, nil
}
