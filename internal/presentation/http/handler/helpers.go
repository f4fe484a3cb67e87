package handler

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/printshop-api/internal/presentation/http/dto/request"
)

const dateLayout = "2006-01-02"

// parseTime accepts RFC 3339 or a plain date, which means midnight in loc.
// An empty value yields nil.
func parseTime(value string, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, use YYYY-MM-DD or RFC 3339", value)
	}
	return &t, nil
}

// parseDateRange turns from/to query values into a half-open range.
// A plain date for "to" includes that whole day.
func parseDateRange(r request.DateRangeRequest, loc *time.Location) (from, to *time.Time, err error) {
	if from, err = parseTime(r.From, loc); err != nil {
		return nil, nil, err
	}
	if to, err = parseTime(r.To, loc); err != nil {
		return nil, nil, err
	}
	if to != nil && len(r.To) == len(dateLayout) {
		next := to.AddDate(0, 0, 1)
		to = &next
	}
	return from, to, nil
}

// bindOptionalJSON binds a JSON body if one was sent
func bindOptionalJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
