package service

import (
	"time"

	"github.com/sangkips/printshop-api/internal/domain/entity"
	"github.com/sangkips/printshop-api/internal/domain/enum"
)

// DefaultDuplicateWindow is how far back a matching job counts as a likely duplicate
const DefaultDuplicateWindow = 5 * time.Minute

// DuplicateCandidate is the part of a job draft compared by the duplicate check
type DuplicateCandidate struct {
	ClassName string
	Pages     int
	Copies    int
	PrintType enum.PrintType
}

// FindLikelyDuplicate returns the most recent job matching c recorded within
// window before now, or nil. The check is advisory.
func FindLikelyDuplicate(jobs []entity.PrintJob, c DuplicateCandidate, now time.Time, window time.Duration) *entity.PrintJob {
	var match *entity.PrintJob
	for i := range jobs {
		j := &jobs[i]
		if j.ClassName != c.ClassName || j.Pages != c.Pages || j.Copies != c.Copies || j.PrintType != c.PrintType {
			continue
		}
		if now.Sub(j.Timestamp) > window {
			continue
		}
		if match == nil || j.Timestamp.After(match.Timestamp) {
			match = j
		}
	}
	if match == nil {
		return nil
	}
	found := *match
	return &found
}
