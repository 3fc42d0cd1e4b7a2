// Package clock lets time-dependent code take its clock as a dependency
package clock

import "time"

//go:generate mockgen -destination=mock/mock_time_provider.go -package=mockclock -source=clock.go

// TimeProvider supplies the current time
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider reads the system clock
type RealTimeProvider struct{}

// Now returns the current time
func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

// NewRealTimeProvider creates a TimeProvider backed by the system clock
func NewRealTimeProvider() TimeProvider {
	return RealTimeProvider{}
}
