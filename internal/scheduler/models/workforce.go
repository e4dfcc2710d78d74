package models

import (
	"time"
)

// Employee is a worker that shifts can be assigned to.
type Employee struct {
	ID          string    `json:"id"`
	CompanyCode string    `json:"companyCode"`
	Name        string    `json:"name"`
	Contact     string    `json:"contact,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type EmployeePatch struct {
	Name    *string
	Contact *string
	Active  *bool
}

// Location is a work site.
type Location struct {
	ID          string    `json:"id"`
	CompanyCode string    `json:"companyCode"`
	Name        string    `json:"name"`
	Address     string    `json:"address,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type LocationPatch struct {
	Name    *string
	Address *string
	Active  *bool
}

// JobType labels the kind of work done on a shift.
type JobType struct {
	ID          string    `json:"id"`
	CompanyCode string    `json:"companyCode"`
	Name        string    `json:"name"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type JobTypePatch struct {
	Name   *string
	Active *bool
}

// Crew is a named group of employees that can be scheduled as a unit.
type Crew struct {
	ID          string    `json:"id"`
	CompanyCode string    `json:"companyCode"`
	Name        string    `json:"name"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CrewPatch struct {
	Name   *string
	Active *bool
}

// CrewMember joins an Employee to a Crew. The (crew, employee) pair is
// unique per company and both rows must belong to the same company.
type CrewMember struct {
	ID          string    `json:"id"`
	CompanyCode string    `json:"companyCode"`
	CrewID      string    `json:"crewId"`
	EmployeeID  string    `json:"employeeId"`
	CreatedAt   time.Time `json:"createdAt"`
}
