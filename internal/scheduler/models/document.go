// Package models defines the canonical relational document for the
// workforce scheduler: companies, users, employees, locations, job types,
// crews, shifts, their join rows, and credential-change requests.
//
// Every entity is a plain value type (no pointers, maps, or nested
// slices), so copying a slice of rows is a deep copy. Draft/saved
// isolation in the store relies on that property.
package models

import (
	"time"
)

// PlatformCompanyCode is the reserved super-tenant. It is never
// deletable or disableable, and its rows are exempt from tenant scoping.
const PlatformCompanyCode = "PLATFORM"

// Settings carries document-level metadata that survives normalization.
type Settings struct {
	// CompanyName is a display-name hint recorded by single-tenant
	// deployments; the normalizer uses it when synthesizing a missing
	// company record.
	CompanyName  string    `json:"companyName,omitempty"`
	LastEditedAt time.Time `json:"lastEditedAt,omitempty"`
}

// Document is the full canonical state: one value holds every table.
type Document struct {
	Companies   []Company                 `json:"companies"`
	Users       []User                    `json:"users"`
	Employees   []Employee                `json:"employees"`
	Locations   []Location                `json:"locations"`
	JobTypes    []JobType                 `json:"jobTypes"`
	Crews       []Crew                    `json:"crews"`
	CrewMembers []CrewMember              `json:"crewMembers"`
	Shifts      []Shift                   `json:"shifts"`
	ShiftJobs   []ShiftJob                `json:"shiftJobs"`
	Requests    []CredentialChangeRequest `json:"requests"`
	Settings    Settings                  `json:"settings"`
}

// Clone returns a deep copy of the document. Rows are value types, so
// copying each table slice is sufficient.
func (d Document) Clone() Document {
	c := d
	c.Companies = append([]Company(nil), d.Companies...)
	c.Users = append([]User(nil), d.Users...)
	c.Employees = append([]Employee(nil), d.Employees...)
	c.Locations = append([]Location(nil), d.Locations...)
	c.JobTypes = append([]JobType(nil), d.JobTypes...)
	c.Crews = append([]Crew(nil), d.Crews...)
	c.CrewMembers = append([]CrewMember(nil), d.CrewMembers...)
	c.Shifts = append([]Shift(nil), d.Shifts...)
	c.ShiftJobs = append([]ShiftJob(nil), d.ShiftJobs...)
	c.Requests = append([]CredentialChangeRequest(nil), d.Requests...)
	return c
}
