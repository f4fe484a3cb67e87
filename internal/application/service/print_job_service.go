package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sangkips/printshop-api/internal/domain/entity"
	"github.com/sangkips/printshop-api/internal/domain/enum"
	"github.com/sangkips/printshop-api/internal/domain/repository"
	"github.com/sangkips/printshop-api/pkg/apperror"
	"github.com/sangkips/printshop-api/pkg/pagination"
	"github.com/sangkips/printshop-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// PrintJobService records print jobs and keeps class balances in step with them
type PrintJobService struct {
	store           repository.LedgerStore
	location        *time.Location
	duplicateWindow time.Duration
	now             func() time.Time
}

// NewPrintJobService creates a new print job service.
// loc is the calendar used for serial numbers.
func NewPrintJobService(store repository.LedgerStore, loc *time.Location, duplicateWindow time.Duration) *PrintJobService {
	if loc == nil {
		loc = time.Local
	}
	if duplicateWindow <= 0 {
		duplicateWindow = DefaultDuplicateWindow
	}
	return &PrintJobService{
		store:           store,
		location:        loc,
		duplicateWindow: duplicateWindow,
		now:             time.Now,
	}
}

// PrintJobInput holds the caller-supplied fields of a job
type PrintJobInput struct {
	ClassName       string
	TeacherName     string
	DocumentType    string
	PrintType       enum.PrintType
	Pages           int
	RectoPages      int
	RectoVersoPages int
	Copies          int
	Paid            bool
	Notes           string
}

// normalized returns a copy whose reference names are cleaned the same way
// class, teacher and document type names are when they are saved.
func (in *PrintJobInput) normalized() *PrintJobInput {
	out := *in
	out.ClassName = utils.CleanName(in.ClassName)
	out.TeacherName = utils.CleanName(in.TeacherName)
	out.DocumentType = utils.CleanName(in.DocumentType)
	return &out
}

// PrintJobFilter narrows a job listing
type PrintJobFilter struct {
	ClassName    string
	TeacherName  string
	DocumentType string
	Paid         *bool
	From         *time.Time
	To           *time.Time
	Search       string
	Pagination   *pagination.PaginationParams
}

// SettleResult summarizes a class settlement
type SettleResult struct {
	ClassName   string          `json:"className"`
	JobsSettled int             `json:"jobsSettled"`
	Amount      decimal.Decimal `json:"amount"`
}

func (s *PrintJobService) clock() time.Time {
	return s.now().In(s.location)
}

// Quote prices a job with the current settings without recording it
func (s *PrintJobService) Quote(ctx context.Context, input *PrintJobInput) (decimal.Decimal, error) {
	settings, err := s.store.Settings(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return CalculatePrice(input.PrintType, input.Pages, input.RectoPages, input.RectoVersoPages, input.Copies, settings.PriceTable()), nil
}

// Add records a new job. Its price is frozen from the current settings and,
// when unpaid, added to its class balance in the same commit.
func (s *PrintJobService) Add(ctx context.Context, input *PrintJobInput) (*entity.PrintJob, error) {
	var created entity.PrintJob
	input = input.normalized()

	err := s.store.Mutate(ctx, func() (repository.ChangeSet, error) {
		settings, err := s.store.Settings(ctx)
		if err != nil {
			return nil, err
		}
		jobs, err := s.store.PrintJobs(ctx)
		if err != nil {
			return nil, err
		}
		classes, err := s.store.Classes(ctx)
		if err != nil {
			return nil, err
		}

		now := s.clock()
		created = entity.PrintJob{
			ID:           utils.NewID(),
			SerialNumber: GenerateSerialNumber(jobs, now),
			Timestamp:    now,
			ClassName:    input.ClassName,
			TeacherName:  input.TeacherName,
			DocumentType: input.DocumentType,
			PrintType:    input.PrintType,
			Pages:        TotalPages(input.PrintType, input.Pages, input.RectoPages, input.RectoVersoPages),
			Copies:       input.Copies,
			TotalPrice:   CalculatePrice(input.PrintType, input.Pages, input.RectoPages, input.RectoVersoPages, input.Copies, settings.PriceTable()),
			Paid:         input.Paid,
			Notes:        input.Notes,
		}
		if input.PrintType == enum.PrintTypeBoth {
			created.RectoPages = input.RectoPages
			created.RectoVersoPages = input.RectoVersoPages
		}

		changes := repository.ChangeSet{
			repository.CollectionPrintJobs: append(jobs, created),
		}
		if !created.Paid && ApplyDelta(classes, created.ClassName, created.TotalPrice) {
			changes[repository.CollectionClasses] = classes
		}
		return changes, nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// Update replaces the mutable fields of the job with the given id.
// ID, serial number, timestamp and price are kept from the stored record.
// A change of paid status moves the price in or out of the class balance.
func (s *PrintJobService) Update(ctx context.Context, id string, input *PrintJobInput) (*entity.PrintJob, error) {
	var updated entity.PrintJob
	input = input.normalized()

	err := s.store.Mutate(ctx, func() (repository.ChangeSet, error) {
		jobs, err := s.store.PrintJobs(ctx)
		if err != nil {
			return nil, err
		}
		idx := indexOfJob(jobs, id)
		if idx < 0 {
			return nil, apperror.NewNotFoundError("Print job")
		}

		prior := jobs[idx]
		updated = prior
		updated.ClassName = input.ClassName
		updated.TeacherName = input.TeacherName
		updated.DocumentType = input.DocumentType
		updated.PrintType = input.PrintType
		updated.Pages = TotalPages(input.PrintType, input.Pages, input.RectoPages, input.RectoVersoPages)
		updated.RectoPages, updated.RectoVersoPages = 0, 0
		if input.PrintType == enum.PrintTypeBoth {
			updated.RectoPages = input.RectoPages
			updated.RectoVersoPages = input.RectoVersoPages
		}
		updated.Copies = input.Copies
		updated.Paid = input.Paid
		updated.Notes = input.Notes
		jobs[idx] = updated

		return s.withPaidDelta(ctx, jobs, prior.Paid, updated)
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// SetPaid changes only the paid flag of a job
func (s *PrintJobService) SetPaid(ctx context.Context, id string, paid bool) (*entity.PrintJob, error) {
	return s.changePaid(ctx, id, func(bool) bool { return paid })
}

// TogglePaid flips the paid flag of a job
func (s *PrintJobService) TogglePaid(ctx context.Context, id string) (*entity.PrintJob, error) {
	return s.changePaid(ctx, id, func(was bool) bool { return !was })
}

func (s *PrintJobService) changePaid(ctx context.Context, id string, next func(bool) bool) (*entity.PrintJob, error) {
	var updated entity.PrintJob

	err := s.store.Mutate(ctx, func() (repository.ChangeSet, error) {
		jobs, err := s.store.PrintJobs(ctx)
		if err != nil {
			return nil, err
		}
		idx := indexOfJob(jobs, id)
		if idx < 0 {
			return nil, apperror.NewNotFoundError("Print job")
		}

		wasPaid := jobs[idx].Paid
		jobs[idx].Paid = next(wasPaid)
		updated = jobs[idx]

		return s.withPaidDelta(ctx, jobs, wasPaid, updated)
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// Delete removes a job; an unpaid job's price leaves its class balance
func (s *PrintJobService) Delete(ctx context.Context, id string) (*entity.PrintJob, error) {
	var removed entity.PrintJob

	err := s.store.Mutate(ctx, func() (repository.ChangeSet, error) {
		jobs, err := s.store.PrintJobs(ctx)
		if err != nil {
			return nil, err
		}
		idx := indexOfJob(jobs, id)
		if idx < 0 {
			return nil, apperror.NewNotFoundError("Print job")
		}

		removed = jobs[idx]
		jobs = append(jobs[:idx], jobs[idx+1:]...)

		changes := repository.ChangeSet{repository.CollectionPrintJobs: jobs}
		if !removed.Paid {
			classes, err := s.store.Classes(ctx)
			if err != nil {
				return nil, err
			}
			if ApplyDelta(classes, removed.ClassName, removed.TotalPrice.Neg()) {
				changes[repository.CollectionClasses] = classes
			}
		}
		return changes, nil
	})
	if err != nil {
		return nil, err
	}

	return &removed, nil
}

// Get retrieves a job by ID
func (s *PrintJobService) Get(ctx context.Context, id string) (*entity.PrintJob, error) {
	jobs, err := s.store.PrintJobs(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOfJob(jobs, id)
	if idx < 0 {
		return nil, apperror.NewNotFoundError("Print job")
	}
	job := jobs[idx]
	return &job, nil
}

// List returns the jobs matching filter, newest first, one page at a time
func (s *PrintJobService) List(ctx context.Context, filter *PrintJobFilter) (*pagination.PaginatedResult[entity.PrintJob], error) {
	jobs, err := s.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	var params *pagination.PaginationParams
	if filter != nil {
		params = filter.Pagination
	}
	return pagination.Paginate(jobs, params), nil
}

// Search returns every job matching filter, newest first
func (s *PrintJobService) Search(ctx context.Context, filter *PrintJobFilter) ([]entity.PrintJob, error) {
	jobs, err := s.store.PrintJobs(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]entity.PrintJob, 0, len(jobs))
	for i := range jobs {
		if filter.matches(&jobs[i]) {
			matched = append(matched, jobs[i])
		}
	}
	SortNewestFirst(matched)
	return matched, nil
}

// CheckDuplicate returns a recent job that looks like the same submission, or nil
func (s *PrintJobService) CheckDuplicate(ctx context.Context, c DuplicateCandidate) (*entity.PrintJob, error) {
	jobs, err := s.store.PrintJobs(ctx)
	if err != nil {
		return nil, err
	}
	c.ClassName = utils.CleanName(c.ClassName)
	return FindLikelyDuplicate(jobs, c, s.clock(), s.duplicateWindow), nil
}

// SettleClass marks every unpaid job of className as paid, taking each
// price out of the class balance.
func (s *PrintJobService) SettleClass(ctx context.Context, className string) (*SettleResult, error) {
	result := &SettleResult{ClassName: className, Amount: decimal.Zero}

	err := s.store.Mutate(ctx, func() (repository.ChangeSet, error) {
		jobs, err := s.store.PrintJobs(ctx)
		if err != nil {
			return nil, err
		}
		classes, err := s.store.Classes(ctx)
		if err != nil {
			return nil, err
		}

		classChanged := false
		for i := range jobs {
			if jobs[i].Paid || jobs[i].ClassName != className {
				continue
			}
			jobs[i].Paid = true
			result.JobsSettled++
			result.Amount = result.Amount.Add(jobs[i].TotalPrice)
			if ApplyDelta(classes, className, jobs[i].TotalPrice.Neg()) {
				classChanged = true
			}
		}
		if result.JobsSettled == 0 {
			return nil, nil
		}

		changes := repository.ChangeSet{repository.CollectionPrintJobs: jobs}
		if classChanged {
			changes[repository.CollectionClasses] = classes
		}
		return changes, nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *PrintJobService) withPaidDelta(ctx context.Context, jobs []entity.PrintJob, wasPaid bool, job entity.PrintJob) (repository.ChangeSet, error) {
	changes := repository.ChangeSet{repository.CollectionPrintJobs: jobs}

	delta := paidDelta(wasPaid, job.Paid, job.TotalPrice)
	if delta.IsZero() {
		return changes, nil
	}
	classes, err := s.store.Classes(ctx)
	if err != nil {
		return nil, err
	}
	if ApplyDelta(classes, job.ClassName, delta) {
		changes[repository.CollectionClasses] = classes
	}
	return changes, nil
}

func (f *PrintJobFilter) matches(j *entity.PrintJob) bool {
	if f == nil {
		return true
	}
	if f.ClassName != "" && j.ClassName != f.ClassName {
		return false
	}
	if f.TeacherName != "" && j.TeacherName != f.TeacherName {
		return false
	}
	if f.DocumentType != "" && j.DocumentType != f.DocumentType {
		return false
	}
	if f.Paid != nil && j.Paid != *f.Paid {
		return false
	}
	if f.From != nil && j.Timestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && !j.Timestamp.Before(*f.To) {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(j.SerialNumber), q) &&
			!strings.Contains(strings.ToLower(j.Notes), q) &&
			!strings.Contains(strings.ToLower(j.ClassName), q) {
			return false
		}
	}
	return true
}

// SortNewestFirst orders jobs by timestamp, most recent first
func SortNewestFirst(jobs []entity.PrintJob) {
	sort.SliceStable(jobs, func(i, k int) bool {
		return jobs[i].Timestamp.After(jobs[k].Timestamp)
	})
}

func indexOfJob(jobs []entity.PrintJob, id string) int {
	for i := range jobs {
		if jobs[i].ID == id {
			return i
		}
	}
	return -1
}
