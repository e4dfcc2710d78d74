package models

import (
	"time"
)

// Role is an account's privilege level.
type Role string

const (
	RolePlatformAdmin Role = "platform_admin"
	RoleManager       Role = "manager"
	RoleEmployee      Role = "employee"
)

// ValidRole reports whether r is one of the three known roles.
func ValidRole(r Role) bool {
	switch r {
	case RolePlatformAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// User is a login account. Username is stored lowercase and is unique
// within a company. PinHash is an opaque one-way digest; the plaintext
// PIN is never persisted.
type User struct {
	ID          string    `json:"id"`
	CompanyCode string    `json:"companyCode"`
	Username    string    `json:"username"`
	PinHash     string    `json:"pinHash"`
	Role        Role      `json:"role"`
	// EmployeeID links an employee-role account to its Employee row.
	// Empty for manager and platform accounts.
	EmployeeID  string    `json:"employeeId,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UserPatch represents the fields that can be updated for a User.
// A username change must carry a Pin as well, because the credential
// digest is derived from the final username.
type UserPatch struct {
	Username   *string
	Pin        *string
	EmployeeID *string
	Active     *bool
}
