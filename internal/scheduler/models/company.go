package models

import (
	"time"
)

// Company is a tenant. CompanyCode is the partition key for every other
// table and is stored uppercase.
type Company struct {
	ID          string    `json:"id"`
	CompanyCode string    `json:"companyCode"`
	CompanyName string    `json:"companyName"`
	IsDisabled  bool      `json:"isDisabled"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CompanyPatch represents the fields that can be updated for a Company.
// Pointer types are used to allow partial updates.
type CompanyPatch struct {
	CompanyName *string
	IsDisabled  *bool
}
