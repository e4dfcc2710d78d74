package models

import (
	"time"
)

// RequestType identifies which role's credentials a change request
// rotates, which in turn implies who may approve it.
type RequestType string

const (
	EmployeeChangeCredentials RequestType = "employee_change_credentials"
	ManagerChangeCredentials  RequestType = "manager_change_credentials"
	AdminChangeCredentials    RequestType = "admin_change_credentials"
)

// ValidRequestType reports whether t is a known request type.
func ValidRequestType(t RequestType) bool {
	switch t {
	case EmployeeChangeCredentials, ManagerChangeCredentials, AdminChangeCredentials:
		return true
	}
	return false
}

// RequestStatus is the approval state. Approved and denied are terminal.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestDenied   RequestStatus = "denied"
)

// ValidRequestStatus reports whether s is a known status.
func ValidRequestStatus(s RequestStatus) bool {
	switch s {
	case RequestPending, RequestApproved, RequestDenied:
		return true
	}
	return false
}

// CredentialChangeRequest is a self-service username/PIN rotation
// request. Target always equals requester; there is no on-behalf-of
// creation.
type CredentialChangeRequest struct {
	ID               string        `json:"id"`
	CompanyCode      string        `json:"companyCode"`
	Type             RequestType   `json:"type"`
	Status           RequestStatus `json:"status"`
	RequesterUserID  string        `json:"requesterUserId"`
	TargetUserID     string        `json:"targetUserId"`
	ProposedUsername string        `json:"proposedUsername,omitempty"`
	ProposedPin      string        `json:"proposedPin,omitempty"`
	DecisionNote     string        `json:"decisionNote,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	HandledAt        time.Time     `json:"handledAt,omitempty"`
	HandledBy        string        `json:"handledBy,omitempty"`
}
