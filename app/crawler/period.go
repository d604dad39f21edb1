package crawler

import (
	"time"
)

// Period scopes which archive/index pages a parser should enumerate: a date
// range, a page budget, or both. The zero value means "whatever the source's
// index currently shows".
type Period struct {
	Start    time.Time
	End      time.Time
	MaxPages int
}

// SingleDay returns a Period covering exactly one calendar day.
func SingleDay(day time.Time) Period {
	d := day.Truncate(24 * time.Hour)
	return Period{Start: d, End: d}
}

func (p Period) IsZero() bool {
	return p.Start.IsZero() && p.End.IsZero() && p.MaxPages == 0
}

// Days returns the inclusive sequence of calendar days the period covers.
// A period with no dates yields a single entry for today, so date-archive
// parsers default to the current day. A half-open range is treated as a
// single day, matching how callers typically pass one date.
func (p Period) Days() []time.Time {
	start, end := p.Start, p.End

	switch {
	case start.IsZero() && end.IsZero():
		now := time.Now().UTC().Truncate(24 * time.Hour)
		return []time.Time{now}
	case start.IsZero():
		start = end
	case end.IsZero():
		end = start
	}

	start = start.Truncate(24 * time.Hour)
	end = end.Truncate(24 * time.Hour)
	if end.Before(start) {
		start, end = end, start
	}

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
