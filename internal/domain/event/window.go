package event

import "time"

// Window is an inclusive range of calendar months around "now".
type Window struct {
	MonthsBehind int
	MonthsAhead  int
}

var (
	DefaultWindow = Window{MonthsBehind: 1, MonthsAhead: 6}
	LegacyWindow  = Window{MonthsBehind: 3, MonthsAhead: 18}
)

// Bounds returns the first and last instants the window accepts.
func (w Window) Bounds(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	return now.AddDate(0, -w.MonthsBehind, 0), now.AddDate(0, w.MonthsAhead, 0)
}

// Contains reports whether t falls inside the window, boundaries included.
func (w Window) Contains(t, now time.Time) bool {
	if t.IsZero() {
		return false
	}
	from, to := w.Bounds(now)
	return !t.Before(from) && !t.After(to)
}

// DateRange renders the window as the provider query form yyyyMMdd-yyyyMMdd.
func (w Window) DateRange(now time.Time) string {
	from, to := w.Bounds(now)
	return from.Format("20060102") + "-" + to.Format("20060102")
}
