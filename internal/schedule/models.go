package schedule

import "time"

// Schedule is the scheduler service's representation of the recurring job,
// as observed by this system. The service owns it; this is a read-mostly
// cached copy.
type Schedule struct {
	ID             string     `json:"id"`
	IsActive       bool       `json:"is_active"`
	CronExpression string     `json:"cron_expression"`
	NextRunTime    *time.Time `json:"next_run_time,omitempty"`
	LastRunAt      *time.Time `json:"last_run_at,omitempty"`
	Timezone       string     `json:"timezone,omitempty"`
	Message        string     `json:"message,omitempty"`
}

// ExecutionLog is one historical run record, immutable once produced.
type ExecutionLog struct {
	ID             string    `json:"id"`
	ScheduleID     string    `json:"schedule_id"`
	ExecutedAt     time.Time `json:"executed_at"`
	Attempt        int       `json:"attempt"`
	MaxAttempts    int       `json:"max_attempts"`
	Success        bool      `json:"success"`
	PayloadMessage string    `json:"payload_message,omitempty"`
	ResponseStatus string    `json:"response_status,omitempty"`
	ResponseOutput string    `json:"response_output,omitempty"`
	ErrorMessage   string    `json:"error_message,omitempty"`
}
