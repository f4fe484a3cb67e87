package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sangkips/printshop-api/internal/domain/entity"
	"github.com/sangkips/printshop-api/internal/domain/enum"
	"github.com/sangkips/printshop-api/internal/domain/repository"
	"github.com/sangkips/printshop-api/internal/domain/repository/mocks"
	"github.com/sangkips/printshop-api/pkg/apperror"
	"github.com/sangkips/printshop-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func rectoInput(class string, pages int, paid bool) *PrintJobInput {
	return &PrintJobInput{
		ClassName:    class,
		TeacherName:  "Mme Alaoui",
		DocumentType: "Exam",
		PrintType:    enum.PrintTypeRecto,
		Pages:        pages,
		Copies:       1,
		Paid:         paid,
	}
}

func TestPrintJobService_BiologyScenario(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seedSettings(t, store, func(s *entity.Settings) { s.PriceRecto = dec("0.10") })
	seedClasses(t, store, entity.Class{ID: "c1", Name: "Biology 101", TotalUnpaid: decimal.Zero})
	svc := newTestJobService(t, store)

	job, err := svc.Add(ctx, rectoInput("Biology 101", 10, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.TotalPrice.StringFixed(2) != "1.00" {
		t.Fatalf("expected totalPrice 1.00, got %s", job.TotalPrice)
	}
	if got := classBalance(t, store, "Biology 101"); got != "1.00" {
		t.Fatalf("expected balance 1.00, got %s", got)
	}

	if _, err := svc.SetPaid(ctx, job.ID, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := classBalance(t, store, "Biology 101"); got != "0.00" {
		t.Fatalf("expected balance 0.00, got %s", got)
	}
}

func TestPrintJobService_AddAssignsGeneratedFields(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := newTestJobService(t, store)

	first, err := svc.Add(ctx, rectoInput("Art", 2, true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Add(ctx, rectoInput("Art", 3, true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ID == "" || first.ID == second.ID {
		t.Fatalf("expected distinct ids, got %q and %q", first.ID, second.ID)
	}
	if first.SerialNumber != "PE-240603-001" || second.SerialNumber != "PE-240603-002" {
		t.Fatalf("unexpected serials %s, %s", first.SerialNumber, second.SerialNumber)
	}
	if !first.Timestamp.Equal(testNow) {
		t.Fatalf("expected timestamp %v, got %v", testNow, first.Timestamp)
	}

	jobs, err := svc.Search(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 stored jobs, got %d", len(jobs))
	}
}

func TestPrintJobService_AddBothStoresSideCounts(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := newTestJobService(t, store)

	job, err := svc.Add(ctx, &PrintJobInput{
		ClassName: "Art", PrintType: enum.PrintTypeBoth,
		Pages: 99, RectoPages: 5, RectoVersoPages: 5, Copies: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Pages != 10 || job.RectoPages != 5 || job.RectoVersoPages != 5 {
		t.Fatalf("unexpected page counts %+v", job)
	}
	if !job.TotalPrice.Equal(dec("6.5")) {
		t.Fatalf("expected 6.5, got %s", job.TotalPrice)
	}
}

func TestPrintJobService_AddDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seedClasses(t, store, entity.Class{ID: "c1", Name: "Physics", TotalUnpaid: dec("3.25")})
	svc := newTestJobService(t, store)

	job, err := svc.Add(ctx, rectoInput("Physics", 8, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := classBalance(t, store, "Physics"); got != "7.25" {
		t.Fatalf("expected 7.25 after add, got %s", got)
	}

	removed, err := svc.Delete(ctx, job.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed.ID != job.ID {
		t.Fatalf("expected removed job %s, got %s", job.ID, removed.ID)
	}
	if got := classBalance(t, store, "Physics"); got != "3.25" {
		t.Fatalf("expected 3.25 after delete, got %s", got)
	}

	if _, err := svc.Get(ctx, job.ID); !apperror.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPrintJobService_DeletePaidJobLeavesBalance(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seedClasses(t, store, entity.Class{ID: "c1", Name: "Physics", TotalUnpaid: dec("2")})
	svc := newTestJobService(t, store)

	job, err := svc.Add(ctx, rectoInput("Physics", 8, true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Delete(ctx, job.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := classBalance(t, store, "Physics"); got != "2.00" {
		t.Fatalf("expected balance untouched, got %s", got)
	}
}

func TestPrintJobService_ToggleTwiceRestoresBalance(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seedClasses(t, store, entity.Class{ID: "c1", Name: "History", TotalUnpaid: decimal.Zero})
	svc := newTestJobService(t, store)

	job, err := svc.Add(ctx, rectoInput("History", 6, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := classBalance(t, store, "History"); got != "3.00" {
		t.Fatalf("expected 3.00, got %s", got)
	}

	paid, err := svc.TogglePaid(ctx, job.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !paid.Paid {
		t.Fatalf("expected job to be paid")
	}
	if got := classBalance(t, store, "History"); got != "0.00" {
		t.Fatalf("expected 0.00 after first toggle, got %s", got)
	}

	unpaid, err := svc.TogglePaid(ctx, job.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unpaid.Paid {
		t.Fatalf("expected job to be unpaid")
	}
	if got := classBalance(t, store, "History"); got != "3.00" {
		t.Fatalf("expected 3.00 after second toggle, got %s", got)
	}
}

func TestPrintJobService_SetPaidSameValueIsNoop(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seedClasses(t, store, entity.Class{ID: "c1", Name: "History", TotalUnpaid: decimal.Zero})
	svc := newTestJobService(t, store)

	job, err := svc.Add(ctx, rectoInput("History", 4, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.SetPaid(ctx, job.ID, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := classBalance(t, store, "History"); got != "2.00" {
		t.Fatalf("expected 2.00, got %s", got)
	}
}

func TestPrintJobService_UpdateFreezesPriceAndAppliesPaidDelta(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seedClasses(t, store, entity.Class{ID: "c1", Name: "Maths", TotalUnpaid: decimal.Zero})
	svc := newTestJobService(t, store)

	job, err := svc.Add(ctx, rectoInput("Maths", 10, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// New prices must not reach recorded jobs.
	seedSettings(t, store, func(s *entity.Settings) { s.PriceRecto = dec("9") })

	input := rectoInput("Maths", 20, true)
	input.Notes = "reprinted"
	updated, err := svc.Update(ctx, job.ID, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !updated.TotalPrice.Equal(job.TotalPrice) {
		t.Fatalf("expected frozen price %s, got %s", job.TotalPrice, updated.TotalPrice)
	}
	if updated.ID != job.ID || updated.SerialNumber != job.SerialNumber || !updated.Timestamp.Equal(job.Timestamp) {
		t.Fatalf("expected generated fields kept, got %+v", updated)
	}
	if updated.Pages != 20 || updated.Notes != "reprinted" || !updated.Paid {
		t.Fatalf("expected mutable fields replaced, got %+v", updated)
	}
	if got := classBalance(t, store, "Maths"); got != "0.00" {
		t.Fatalf("expected 0.00, got %s", got)
	}
}

func TestPrintJobService_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := newTestJobService(t, newTestStore(t))

	if _, err := svc.Update(ctx, "missing", rectoInput("X", 1, false)); !apperror.IsNotFound(err) {
		t.Fatalf("expected not found on update, got %v", err)
	}
	if _, err := svc.TogglePaid(ctx, "missing"); !apperror.IsNotFound(err) {
		t.Fatalf("expected not found on toggle, got %v", err)
	}
	if _, err := svc.Delete(ctx, "missing"); !apperror.IsNotFound(err) {
		t.Fatalf("expected not found on delete, got %v", err)
	}
}

func TestPrintJobService_UnknownClassDoesNotFail(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seedClasses(t, store, entity.Class{ID: "c1", Name: "Maths", TotalUnpaid: decimal.Zero})
	svc := newTestJobService(t, store)

	if _, err := svc.Add(ctx, rectoInput("Ghost Class", 10, false)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := classBalance(t, store, "Maths"); got != "0.00" {
		t.Fatalf("expected other class untouched, got %s", got)
	}
}

func TestPrintJobService_SearchAndList(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := newTestJobService(t, store)

	for i, class := range []string{"Art", "Maths", "Art"} {
		svc.now = func() time.Time { return testNow.Add(time.Duration(i) * time.Hour) }
		if _, err := svc.Add(ctx, rectoInput(class, i+1, i == 1)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	art, err := svc.Search(ctx, &PrintJobFilter{ClassName: "Art"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(art) != 2 || !art[0].Timestamp.After(art[1].Timestamp) {
		t.Fatalf("expected 2 art jobs newest first, got %+v", art)
	}

	unpaid := false
	open, err := svc.Search(ctx, &PrintJobFilter{Paid: &unpaid})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(open) != 2 {
		t.Fatalf("expected 2 unpaid jobs, got %d", len(open))
	}

	from := testNow.Add(30 * time.Minute)
	to := testNow.Add(2 * time.Hour)
	window, err := svc.Search(ctx, &PrintJobFilter{From: &from, To: &to})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(window) != 1 || window[0].ClassName != "Maths" {
		t.Fatalf("expected only the maths job, got %+v", window)
	}

	bySerial, err := svc.Search(ctx, &PrintJobFilter{Search: "-002"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bySerial) != 1 || bySerial[0].ClassName != "Maths" {
		t.Fatalf("expected serial search to find the maths job, got %+v", bySerial)
	}

	page, err := svc.List(ctx, &PrintJobFilter{Pagination: &pagination.PaginationParams{Page: 2, PerPage: 2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 1 || page.Pagination.Total != 3 || page.Pagination.TotalPages != 2 {
		t.Fatalf("unexpected page %+v", page.Pagination)
	}
}

func TestPrintJobService_CheckDuplicate(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := newTestJobService(t, store)

	job, err := svc.Add(ctx, rectoInput("Art", 10, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	candidate := DuplicateCandidate{ClassName: "Art", Pages: 10, Copies: 1, PrintType: enum.PrintTypeRecto}

	svc.now = func() time.Time { return testNow.Add(2 * time.Minute) }
	dup, err := svc.CheckDuplicate(ctx, candidate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dup == nil || dup.ID != job.ID {
		t.Fatalf("expected duplicate %s, got %#v", job.ID, dup)
	}

	svc.now = func() time.Time { return testNow.Add(10 * time.Minute) }
	dup, err = svc.CheckDuplicate(ctx, candidate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dup != nil {
		t.Fatalf("expected no duplicate after the window, got %#v", dup)
	}
}

func TestPrintJobService_SettleClass(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seedClasses(t, store, entity.Class{ID: "c1", Name: "Art", TotalUnpaid: decimal.Zero})
	svc := newTestJobService(t, store)

	for _, pages := range []int{2, 4} {
		if _, err := svc.Add(ctx, rectoInput("Art", pages, false)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := svc.Add(ctx, rectoInput("Maths", 4, false)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.SettleClass(ctx, "Art")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.JobsSettled != 2 || !result.Amount.Equal(dec("3")) {
		t.Fatalf("unexpected result %+v", result)
	}
	if got := classBalance(t, store, "Art"); got != "0.00" {
		t.Fatalf("expected 0.00, got %s", got)
	}

	unpaid := false
	open, err := svc.Search(ctx, &PrintJobFilter{Paid: &unpaid})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(open) != 1 || open[0].ClassName != "Maths" {
		t.Fatalf("expected only the maths job left unpaid, got %+v", open)
	}
}

func TestPrintJobService_Quote(t *testing.T) {
	svc := newTestJobService(t, newTestStore(t))
	price, err := svc.Quote(context.Background(), &PrintJobInput{
		PrintType: enum.PrintTypeRectoVerso, Pages: 10, Copies: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !price.Equal(dec("16")) {
		t.Fatalf("expected 16, got %s", price)
	}
	jobs, _ := svc.Search(context.Background(), nil)
	if len(jobs) != 0 {
		t.Fatalf("expected quote not to persist, got %d jobs", len(jobs))
	}
}

func TestPrintJobService_StorageFailurePropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockLedgerStore(ctrl)
	boom := errors.New("quota exceeded")

	store.EXPECT().Mutate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fn func() (repository.ChangeSet, error)) error {
			if _, err := fn(); err != nil {
				return err
			}
			return boom
		})
	store.EXPECT().Settings(gomock.Any()).Return(entity.DefaultSettings(), nil)
	store.EXPECT().PrintJobs(gomock.Any()).Return([]entity.PrintJob{}, nil)
	store.EXPECT().Classes(gomock.Any()).Return([]entity.Class{}, nil)

	svc := newTestJobService(t, store)
	if _, err := svc.Add(context.Background(), rectoInput("Art", 1, false)); !errors.Is(err, boom) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestPrintJobService_AddCleansReferenceNames(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	classes := NewClassService(store)
	if _, err := classes.CreateClass(ctx, "Biology 101 "); err != nil {
		t.Fatalf("create class: %v", err)
	}
	svc := newTestJobService(t, store)

	job, err := svc.Add(ctx, &PrintJobInput{
		ClassName:   "Biology 101 ",
		TeacherName: "  Mrs   Smith",
		PrintType:   enum.PrintTypeRecto,
		Pages:       10,
		Copies:      1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.ClassName != "Biology 101" || job.TeacherName != "Mrs Smith" {
		t.Fatalf("expected cleaned names, got %q / %q", job.ClassName, job.TeacherName)
	}
	if got := classBalance(t, store, "Biology 101"); got != "5.00" {
		t.Fatalf("expected balance 5.00, got %s", got)
	}

	dup, err := svc.CheckDuplicate(ctx, DuplicateCandidate{
		ClassName: " Biology  101", Pages: 10, Copies: 1, PrintType: enum.PrintTypeRecto,
	})
	if err != nil || dup == nil || dup.ID != job.ID {
		t.Fatalf("expected the job as duplicate, got %v %v", dup, err)
	}

	if _, err := svc.Update(ctx, job.ID, &PrintJobInput{
		ClassName: "Biology 101\t", PrintType: enum.PrintTypeRecto, Pages: 10, Copies: 1, Paid: true,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := classBalance(t, store, "Biology 101"); got != "0.00" {
		t.Fatalf("expected balance 0.00 after paying, got %s", got)
	}
}
