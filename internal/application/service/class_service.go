package service

import (
	"context"
	"sort"
	"strings"

	"github.com/sangkips/printshop-api/internal/domain/entity"
	"github.com/sangkips/printshop-api/internal/domain/repository"
	"github.com/sangkips/printshop-api/pkg/apperror"
	"github.com/sangkips/printshop-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// ClassService handles class reference data and class balances
type ClassService struct {
	store repository.LedgerStore
}

// NewClassService creates a new class service
func NewClassService(store repository.LedgerStore) *ClassService {
	return &ClassService{store: store}
}

// UnpaidAlert is a class whose balance reached the configured threshold
type UnpaidAlert struct {
	Class     entity.Class    `json:"class"`
	Threshold decimal.Decimal `json:"threshold"`
	Message   string          `json:"message"`
}

// CreateClass creates a class with a zero balance
func (s *ClassService) CreateClass(ctx context.Context, name string) (*entity.Class, error) {
	var created entity.Class

	err := s.store.Mutate(ctx, func() (repository.ChangeSet, error) {
		classes, err := s.store.Classes(ctx)
		if err != nil {
			return nil, err
		}
		name = utils.CleanName(name)
		if classNameTaken(classes, name, "") {
			return nil, apperror.NewConflictError("Class with this name already exists")
		}

		created = entity.Class{ID: utils.NewID(), Name: name, TotalUnpaid: decimal.Zero}
		return repository.ChangeSet{repository.CollectionClasses: append(classes, created)}, nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// GetClass retrieves a class by ID
func (s *ClassService) GetClass(ctx context.Context, id string) (*entity.Class, error) {
	classes, err := s.store.Classes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range classes {
		if classes[i].ID == id {
			class := classes[i]
			return &class, nil
		}
	}
	return nil, apperror.NewNotFoundError("Class")
}

// ListClasses lists classes by name, optionally filtered by search
func (s *ClassService) ListClasses(ctx context.Context, search string) ([]entity.Class, error) {
	classes, err := s.store.Classes(ctx)
	if err != nil {
		return nil, err
	}
	out := classes[:0]
	for _, c := range classes {
		if containsFold(c.Name, search) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, k int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[k].Name) })
	return out, nil
}

// RenameClass changes a class name. Jobs recorded under the old name keep it,
// so their future balance deltas no longer reach this class.
func (s *ClassService) RenameClass(ctx context.Context, id, name string) (*entity.Class, error) {
	var updated entity.Class

	err := s.store.Mutate(ctx, func() (repository.ChangeSet, error) {
		classes, err := s.store.Classes(ctx)
		if err != nil {
			return nil, err
		}
		idx := indexOfClass(classes, id)
		if idx < 0 {
			return nil, apperror.NewNotFoundError("Class")
		}
		name = utils.CleanName(name)
		if classNameTaken(classes, name, id) {
			return nil, apperror.NewConflictError("Class with this name already exists")
		}

		classes[idx].Name = name
		updated = classes[idx]
		return repository.ChangeSet{repository.CollectionClasses: classes}, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteClass removes a class. Jobs are not touched and keep the class name.
// The removed record is returned so callers can warn about a lost balance.
func (s *ClassService) DeleteClass(ctx context.Context, id string) (*entity.Class, error) {
	var removed entity.Class

	err := s.store.Mutate(ctx, func() (repository.ChangeSet, error) {
		classes, err := s.store.Classes(ctx)
		if err != nil {
			return nil, err
		}
		idx := indexOfClass(classes, id)
		if idx < 0 {
			return nil, apperror.NewNotFoundError("Class")
		}
		removed = classes[idx]
		return repository.ChangeSet{repository.CollectionClasses: append(classes[:idx], classes[idx+1:]...)}, nil
	})
	if err != nil {
		return nil, err
	}
	return &removed, nil
}

// UnpaidAlerts lists classes whose balance reached the unpaid threshold,
// largest balance first. Nothing is reported while notifications are off.
func (s *ClassService) UnpaidAlerts(ctx context.Context) ([]UnpaidAlert, error) {
	settings, err := s.store.Settings(ctx)
	if err != nil {
		return nil, err
	}
	alerts := []UnpaidAlert{}
	if !settings.NotificationsEnabled || !settings.UnpaidThreshold.IsPositive() {
		return alerts, nil
	}

	classes, err := s.store.Classes(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range classes {
		if c.TotalUnpaid.GreaterThanOrEqual(settings.UnpaidThreshold) {
			alerts = append(alerts, UnpaidAlert{
				Class:     c,
				Threshold: settings.UnpaidThreshold,
				Message:   RenderNotification(settings, c),
			})
		}
	}
	sort.SliceStable(alerts, func(i, k int) bool {
		return alerts[i].Class.TotalUnpaid.GreaterThan(alerts[k].Class.TotalUnpaid)
	})
	return alerts, nil
}

// RenderNotification fills the {className}, {amount} and {currency}
// placeholders of the settings notification template.
func RenderNotification(settings *entity.Settings, class entity.Class) string {
	return strings.NewReplacer(
		"{className}", class.Name,
		"{amount}", class.TotalUnpaid.StringFixed(2),
		"{currency}", settings.Currency,
	).Replace(settings.NotificationTemplate)
}

// ---- Teachers ----

// TeacherService handles teacher reference data
type TeacherService struct {
	store repository.LedgerStore
}

// NewTeacherService creates a new teacher service
func NewTeacherService(store repository.LedgerStore) *TeacherService {
	return &TeacherService{store: store}
}

// CreateTeacher creates a teacher
func (s *TeacherService) CreateTeacher(ctx context.Context, name string) (*entity.Teacher, error) {
	var created entity.Teacher

	err := s.store.Mutate(ctx, func() (repository.ChangeSet, error) {
		teachers, err := s.store.Teachers(ctx)
		if err != nil {
			return nil, err
		}
		name = utils.CleanName(name)
		for _, t := range teachers {
			if utils.SameName(t.Name, name) {
				return nil, apperror.NewConflictError("Teacher with this name already exists")
			}
		}
		created = entity.Teacher{ID: utils.NewID(), Name: name}
		return repository.ChangeSet{repository.CollectionTeachers: append(teachers, created)}, nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ListTeachers lists teachers by name
func (s *TeacherService) ListTeachers(ctx context.Context, search string) ([]entity.Teacher, error) {
	teachers, err := s.store.Teachers(ctx)
	if err != nil {
		return nil, err
	}
	out := teachers[:0]
	for _, t := range teachers {
		if containsFold(t.Name, search) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, k int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[k].Name) })
	return out, nil
}

// RenameTeacher changes a teacher name. Recorded jobs keep the old name.
func (s *TeacherService) RenameTeacher(ctx context.Context, id, name string) (*entity.Teacher, error) {
	var updated entity.Teacher

	err := s.store.Mutate(ctx, func() (repository.ChangeSet, error) {
		teachers, err := s.store.Teachers(ctx)
		if err != nil {
			return nil, err
		}
		name = utils.CleanName(name)
		idx := -1
		for i, t := range teachers {
			if t.ID == id {
				idx = i
			} else if utils.SameName(t.Name, name) {
				return nil, apperror.NewConflictError("Teacher with this name already exists")
			}
		}
		if idx < 0 {
			return nil, apperror.NewNotFoundError("Teacher")
		}
		teachers[idx].Name = name
		updated = teachers[idx]
		return repository.ChangeSet{repository.CollectionTeachers: teachers}, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTeacher removes a teacher
func (s *TeacherService) DeleteTeacher(ctx context.Context, id string) error {
	return s.store.Mutate(ctx, func() (repository.ChangeSet, error) {
		teachers, err := s.store.Teachers(ctx)
		if err != nil {
			return nil, err
		}
		for i, t := range teachers {
			if t.ID == id {
				return repository.ChangeSet{repository.CollectionTeachers: append(teachers[:i], teachers[i+1:]...)}, nil
			}
		}
		return nil, apperror.NewNotFoundError("Teacher")
	})
}

// ---- Document types ----

// DocumentTypeService handles document type reference data
type DocumentTypeService struct {
	store repository.LedgerStore
}

// NewDocumentTypeService creates a new document type service
func NewDocumentTypeService(store repository.LedgerStore) *DocumentTypeService {
	return &DocumentTypeService{store: store}
}

// CreateDocumentType creates a document type
func (s *DocumentTypeService) CreateDocumentType(ctx context.Context, name string) (*entity.DocumentType, error) {
	var created entity.DocumentType

	err := s.store.Mutate(ctx, func() (repository.ChangeSet, error) {
		docTypes, err := s.store.DocumentTypes(ctx)
		if err != nil {
			return nil, err
		}
		name = utils.CleanName(name)
		for _, d := range docTypes {
			if utils.SameName(d.Name, name) {
				return nil, apperror.NewConflictError("Document type with this name already exists")
			}
		}
		created = entity.DocumentType{ID: utils.NewID(), Name: name}
		return repository.ChangeSet{repository.CollectionDocumentTypes: append(docTypes, created)}, nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ListDocumentTypes lists document types by name
func (s *DocumentTypeService) ListDocumentTypes(ctx context.Context, search string) ([]entity.DocumentType, error) {
	docTypes, err := s.store.DocumentTypes(ctx)
	if err != nil {
		return nil, err
	}
	out := docTypes[:0]
	for _, d := range docTypes {
		if containsFold(d.Name, search) {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, k int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[k].Name) })
	return out, nil
}

// RenameDocumentType changes a document type name. Recorded jobs keep the old name.
func (s *DocumentTypeService) RenameDocumentType(ctx context.Context, id, name string) (*entity.DocumentType, error) {
	var updated entity.DocumentType

	err := s.store.Mutate(ctx, func() (repository.ChangeSet, error) {
		docTypes, err := s.store.DocumentTypes(ctx)
		if err != nil {
			return nil, err
		}
		name = utils.CleanName(name)
		idx := -1
		for i, d := range docTypes {
			if d.ID == id {
				idx = i
			} else if utils.SameName(d.Name, name) {
				return nil, apperror.NewConflictError("Document type with this name already exists")
			}
		}
		if idx < 0 {
			return nil, apperror.NewNotFoundError("Document type")
		}
		docTypes[idx].Name = name
		updated = docTypes[idx]
		return repository.ChangeSet{repository.CollectionDocumentTypes: docTypes}, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteDocumentType removes a document type
func (s *DocumentTypeService) DeleteDocumentType(ctx context.Context, id string) error {
	return s.store.Mutate(ctx, func() (repository.ChangeSet, error) {
		docTypes, err := s.store.DocumentTypes(ctx)
		if err != nil {
			return nil, err
		}
		for i, d := range docTypes {
			if d.ID == id {
				return repository.ChangeSet{repository.CollectionDocumentTypes: append(docTypes[:i], docTypes[i+1:]...)}, nil
			}
		}
		return nil, apperror.NewNotFoundError("Document type")
	})
}

func classNameTaken(classes []entity.Class, name, exceptID string) bool {
	for _, c := range classes {
		if c.ID != exceptID && utils.SameName(c.Name, name) {
			return true
		}
	}
	return false
}

func indexOfClass(classes []entity.Class, id string) int {
	for i := range classes {
		if classes[i].ID == id {
			return i
		}
	}
	return -1
}

func containsFold(s, substr string) bool {
	return substr == "" || strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
