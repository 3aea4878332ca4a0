package models

import "time"

type DashboardStats struct {
	TotalMessages int `json:"total_messages"`
	Scheduled     int `json:"scheduled"`
	Sent          int `json:"sent"`
	Failed        int `json:"failed"`
	Created       int `json:"created"`
	Pending       int `json:"pending"`
}

type QueueInfo struct {
	QueuedJobs int `json:"queued_jobs"`
	FailedJobs int `json:"failed_jobs"`
	Workers    int `json:"workers"`
}

type SystemStatus struct {
	RedisAvailable  bool      `json:"redis_available"`
	RedisConnected  bool      `json:"redis_connected"`
	Mode            string    `json:"mode"`
	QueueInfo       QueueInfo `json:"queue_info"`
	UserPendingJobs int       `json:"user_pending_jobs"`
	SystemTime      string    `json:"system_time"`
}

type JobState string

const (
	JobQueued   JobState = "queued"
	JobStarted  JobState = "started"
	JobDeferred JobState = "deferred"
	JobFinished JobState = "finished"
	JobFailed   JobState = "failed"
	JobUnknown  JobState = "unknown"
	JobError    JobState = "error"
)

// Terminal reports whether the job will not change state any more.
func (s JobState) Terminal() bool {
	switch s {
	case JobFinished, JobFailed, JobUnknown, JobError:
		return true
	}
	return false
}

type JobStatus struct {
	JobID      string     `json:"job_id"`
	Status     JobState   `json:"status"`
	EnqueuedAt *time.Time `json:"enqueued_at,omitempty"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
	Result     any        `json:"result,omitempty"`
	ExcInfo    string     `json:"exc_info,omitempty"`
	Message    string     `json:"message,omitempty"`
}
