package scheduler

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the status of a scheduled job run
type JobStatus string

const (
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Job names
const (
	JobAlertSweep   = "alert_sweep"
	JobAlertCleanup = "alert_cleanup"
)

// Job records one run of a scheduled job
type Job struct {
	ID          uuid.UUID
	Name        string
	Status      JobStatus
	Error       string
	StartedAt   time.Time
	CompletedAt *time.Time
}

func startJob(name string, now time.Time) *Job {
	return &Job{
		ID:        uuid.New(),
		Name:      name,
		Status:    JobStatusRunning,
		StartedAt: now,
	}
}

func (j *Job) finish(now time.Time, err error) {
	j.CompletedAt = &now
	if err != nil {
		j.Status = JobStatusFailed
		j.Error = err.Error()
		return
	}
	j.Status = JobStatusSuccess
}

// Duration returns how long the run took, or zero while it is running
func (j *Job) Duration() time.Duration {
	if j.CompletedAt == nil {
		return 0
	}
	return j.CompletedAt.Sub(j.StartedAt)
}
