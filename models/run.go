package models

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

type ExtractRun struct {
	ID           int64      `json:"id" db:"id"`
	RunUID       string     `json:"run_uid" db:"run_uid"`
	SourceID     string     `json:"source_id" db:"source_id"`
	StartedAt    time.Time  `json:"started_at" db:"started_at"`
	FinishedAt   *time.Time `json:"finished_at" db:"finished_at"`
	Status       RunStatus  `json:"status" db:"status"`
	PagesFound   int        `json:"pages_found" db:"pages_found"`
	PagesParsed  int        `json:"pages_parsed" db:"pages_parsed"`
	PagesSkipped int        `json:"pages_skipped" db:"pages_skipped"`
	ErrorsCount  int        `json:"errors_count" db:"errors_count"`
	OutFile      string     `json:"out_file" db:"out_file"`
	ArtifactURL  string     `json:"artifact_url" db:"artifact_url"`
}

type SourceStats struct {
	SourceID          string     `json:"source_id" db:"source_id"`
	LastRunAt         *time.Time `json:"last_run_at" db:"last_run_at"`
	LastRunStatus     string     `json:"last_run_status" db:"last_run_status"`
	TotalListings     int        `json:"total_listings" db:"total_listings"`
	SuccessRate       float64    `json:"success_rate" db:"success_rate"`
	AvgRunDurationSec int        `json:"avg_run_duration_sec" db:"avg_run_duration_sec"`
}
