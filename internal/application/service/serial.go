package service

import (
	"fmt"
	"time"

	"github.com/sangkips/printshop-api/internal/domain/entity"
)

// SerialPrefix starts every receipt serial number
const SerialPrefix = "PE"

// GenerateSerialNumber returns PE-YYMMDD-NNN where NNN is one more than the
// number of jobs recorded on now's calendar day, in now's location.
func GenerateSerialNumber(existing []entity.PrintJob, now time.Time) string {
	y, m, d := now.Date()

	count := 0
	for i := range existing {
		jy, jm, jd := existing[i].Timestamp.In(now.Location()).Date()
		if jy == y && jm == m && jd == d {
			count++
		}
	}

	return fmt.Sprintf("%s-%s-%03d", SerialPrefix, now.Format("060102"), count+1)
}
