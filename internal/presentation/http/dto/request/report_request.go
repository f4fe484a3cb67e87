package request

// DateRangeRequest bounds a report or export. Dates are YYYY-MM-DD or RFC 3339.
type DateRangeRequest struct {
	From string `form:"from"`
	To   string `form:"to"`
}
