package request

import (
	"github.com/sangkips/printshop-api/internal/domain/enum"
	"github.com/sangkips/printshop-api/pkg/apperror"
)

// PrintJobRequest is the body of a job create, update or duplicate check
type PrintJobRequest struct {
	ClassName        string `json:"className" binding:"required,max=255"`
	TeacherName      string `json:"teacherName" binding:"max=255"`
	DocumentType     string `json:"documentType" binding:"max=255"`
	PrintType        string `json:"printType" binding:"required"`
	Pages            int    `json:"pages" binding:"min=0,max=100000"`
	RectoPages       int    `json:"rectoPages" binding:"min=0,max=100000"`
	RectoVersoPages  int    `json:"rectoVersoPages" binding:"min=0,max=100000"`
	Copies           int    `json:"copies" binding:"required,min=1,max=100000"`
	Paid             bool   `json:"paid"`
	Notes            string `json:"notes" binding:"max=1000"`
	ConfirmDuplicate bool   `json:"confirmDuplicate"`
}

// Validate checks the rules binding tags cannot express and returns the parsed print type
func (r *PrintJobRequest) Validate() (enum.PrintType, []apperror.FieldError) {
	var errs []apperror.FieldError

	printType, ok := enum.ParsePrintType(r.PrintType)
	if !ok {
		errs = append(errs, apperror.FieldError{Field: "printType", Message: "must be one of Recto, Recto-verso, Both"})
		return printType, errs
	}

	if printType == enum.PrintTypeBoth {
		if r.RectoPages+r.RectoVersoPages < 1 {
			errs = append(errs, apperror.FieldError{Field: "rectoPages", Message: "rectoPages and rectoVersoPages must add up to at least 1"})
		}
	} else if r.Pages < 1 {
		errs = append(errs, apperror.FieldError{Field: "pages", Message: "must be at least 1"})
	}

	return printType, errs
}

// SetPaidRequest sets the paid flag; an absent value toggles it
type SetPaidRequest struct {
	Paid *bool `json:"paid"`
}

// PrintJobFilterRequest represents job listing filters
type PrintJobFilterRequest struct {
	ClassName    string `form:"className"`
	TeacherName  string `form:"teacherName"`
	DocumentType string `form:"documentType"`
	Paid         string `form:"paid" binding:"omitempty,oneof=true false"`
	From         string `form:"from"`
	To           string `form:"to"`
	Search       string `form:"search"`
	Page         int    `form:"page"`
	PerPage      int    `form:"per_page"`
}
