package models

import (
	"time"
)

// Shift is a scheduled block of work at a location. Exactly one of
// EmpID or CrewID is set: a shift is assigned to a single employee or
// to a whole crew, never both.
type Shift struct {
	ID          string `json:"id"`
	CompanyCode string `json:"companyCode"`
	// Date is a calendar date in YYYY-MM-DD form.
	Date string `json:"date"`
	// Start and End are HH:MM wall-clock times; End compares strictly
	// greater than Start lexicographically.
	Start     string    `json:"start"`
	End       string    `json:"end"`
	LocID     string    `json:"locId"`
	EmpID     string    `json:"empId,omitempty"`
	CrewID    string    `json:"crewId,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Assignee returns the id of whichever of EmpID/CrewID is set.
func (s Shift) Assignee() string {
	if s.EmpID != "" {
		return s.EmpID
	}
	return s.CrewID
}

// ShiftPatch represents the fields that can be updated for a Shift.
// JobTypeIDs, when present, replaces the shift's job-type assignments
// wholesale; unknown ids are dropped without error.
type ShiftPatch struct {
	Date       *string
	Start      *string
	End        *string
	LocID      *string
	EmpID      *string
	CrewID     *string
	Notes      *string
	JobTypeIDs *[]string
}

// ShiftJob joins a Shift to a JobType. The (shift, jobType) pair is
// unique per company.
type ShiftJob struct {
	ID          string    `json:"id"`
	CompanyCode string    `json:"companyCode"`
	ShiftID     string    `json:"shiftId"`
	JobTypeID   string    `json:"jobTypeId"`
	CreatedAt   time.Time `json:"createdAt"`
}
