package scheduler

import "errors"

var (
	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrJobAlreadyRunning is returned when a job is triggered while a previous run is still in progress
	ErrJobAlreadyRunning = errors.New("job already running")
)
