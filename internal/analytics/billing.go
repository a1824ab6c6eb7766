package analytics

// RateFunc supplies the hourly billing rate for an entry. Rates are a
// business-policy input owned by the caller (settings, client contract),
// never hard-coded in the engine.
type RateFunc func(TimeEntry) float64

// FlatRate bills every entry at the same hourly rate.
func FlatRate(perHour float64) RateFunc {
	return func(TimeEntry) float64 { return perHour }
}

// BillableSummary totals billable work over a record set. Break time is
// not billable; everything else is.
type BillableSummary struct {
	Hours  float64
	Amount float64
}

func Billable(entries []TimeEntry, rate RateFunc) BillableSummary {
	var s BillableSummary
	for _, e := range entries {
		if e.WorkType == WorkTypeBreak {
			continue
		}
		s.Hours += e.Hours
		s.Amount += e.Hours * rate(e)
	}
	s.Hours = Round2(s.Hours)
	s.Amount = Round2(s.Amount)
	return s
}
