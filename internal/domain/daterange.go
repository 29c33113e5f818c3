package domain

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// DateOf truncates t to midnight UTC of its calendar date
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays shifts a calendar date by n days
func AddDays(t time.Time, n int) time.Time {
	return DateOf(t).AddDate(0, 0, n)
}

// DateRange is a closed range of calendar dates [Start, End]
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewRentalRange builds a rental range, requiring End > Start
func NewRentalRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: DateOf(start), End: DateOf(end)}
	if !r.End.After(r.Start) {
		return DateRange{}, &ValidationError{Field: "endDate", Rule: "endDate must be after startDate"}
	}
	return r, nil
}

// Days returns the billable number of days: ceil((End - Start) / 24h)
func (r DateRange) Days() int {
	return int(math.Ceil(r.End.Sub(r.Start).Hours() / 24))
}

// OverlapPolicy controls how range boundaries are compared.
// With AllowSameDayTurnover a range ending on day D does not collide with one starting on D.
type OverlapPolicy struct {
	AllowSameDayTurnover bool
}

// InclusivePolicy treats adjacent same-day turnover as a conflict
var InclusivePolicy = OverlapPolicy{}

// Overlaps reports whether a and b intersect.
// Inclusive: aStart <= bEnd && bStart <= aEnd. Turnover: aStart < bEnd && bStart < aEnd.
func (p OverlapPolicy) Overlaps(a, b DateRange) bool {
	aStart, aEnd := DateOf(a.Start), DateOf(a.End)
	bStart, bEnd := DateOf(b.Start), DateOf(b.End)

	if p.AllowSameDayTurnover {
		return aStart.Before(bEnd) && bStart.Before(aEnd)
	}
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// Contains reports whether the date d falls inside r.
// Inclusive: [Start, End]. Turnover: [Start, End), the return day is free.
func (p OverlapPolicy) Contains(r DateRange, d time.Time) bool {
	d = DateOf(d)
	start, end := DateOf(r.Start), DateOf(r.End)
	if d.Before(start) {
		return false
	}
	if p.AllowSameDayTurnover {
		return d.Before(end)
	}
	return !d.After(end)
}

// ExtensionWindow returns the part of the calendar newly occupied when a rental's
// end moves from oldEnd to newEnd: (oldEnd, newEnd] inclusive, or [oldEnd, newEnd) with turnover.
func (p OverlapPolicy) ExtensionWindow(oldEnd, newEnd time.Time) DateRange {
	if p.AllowSameDayTurnover {
		return DateRange{Start: DateOf(oldEnd), End: DateOf(newEnd)}
	}
	return DateRange{Start: AddDays(oldEnd, 1), End: DateOf(newEnd)}
}

// Overlaps is the inclusive overlap test
func Overlaps(a, b DateRange) bool {
	return InclusivePolicy.Overlaps(a, b)
}

func (r DateRange) String() string {
	return r.Start.Format(DateFormat) + ".." + r.End.Format(DateFormat)
}
