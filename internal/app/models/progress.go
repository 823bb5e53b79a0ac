package models

import "time"

// Performance is the qualitative performance category of a session
type Performance string

const (
	PerformanceExcellent        Performance = "EXCELLENT"
	PerformanceGood             Performance = "GOOD"
	PerformanceFair             Performance = "FAIR"
	PerformanceNeedsImprovement Performance = "NEEDS_IMPROVEMENT"
)

// ProgressRecord is the per-(student, date) attendance and performance entry
type ProgressRecord struct {
	ID          int64        `json:"id" db:"id"`
	StudentID   int64        `json:"studentId" db:"student_id"`
	VolunteerID int64        `json:"volunteerId" db:"volunteer_id"`
	RecordDate  time.Time    `json:"recordDate" db:"record_date"`
	Attended    bool         `json:"attended" db:"attended"`
	Performance *Performance `json:"performance,omitempty" db:"performance"`
	Activities  *string      `json:"activities,omitempty" db:"activities"`
	Notes       *string      `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" db:"updated_at"`
}
