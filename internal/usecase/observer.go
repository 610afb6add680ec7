package usecase

import "time"

// Observer receives aggregation and cache measurements.
type Observer interface {
	ObserveSource(source string, outcome string, events int, elapsed time.Duration)
	ObserveCycle(elapsed time.Duration, degraded bool)
	ObserveCache(hit bool)
}

type nopObserver struct{}

func (nopObserver) ObserveSource(string, string, int, time.Duration) {}

func (nopObserver) ObserveCycle(time.Duration, bool) {}

func (nopObserver) ObserveCache(bool) {}
