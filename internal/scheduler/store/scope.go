package store

import (
	"fmt"
	"strings"

	"github.com/gartstein/shiftstore/internal/scheduler/auth"
	e "github.com/gartstein/shiftstore/internal/scheduler/errors"
	"github.com/gartstein/shiftstore/internal/scheduler/models"
)

// scopeDocument returns a deep copy of doc filtered to the session's
// tenant. Platform admins see everything; an absent session sees
// nothing. The copies are real: rows are value types, so the filtered
// slices share no storage with the originals.
func scopeDocument(doc models.Document, sess auth.Session) models.Document {
	if !sess.Valid() {
		return models.Document{}
	}
	if sess.IsPlatformAdmin() {
		return doc.Clone()
	}

	code := sess.CompanyCode
	out := models.Document{Settings: doc.Settings}
	for _, row := range doc.Companies {
		if row.CompanyCode == code {
			out.Companies = append(out.Companies, row)
		}
	}
	for _, row := range doc.Users {
		if row.CompanyCode == code {
			out.Users = append(out.Users, row)
		}
	}
	for _, row := range doc.Employees {
		if row.CompanyCode == code {
			out.Employees = append(out.Employees, row)
		}
	}
	for _, row := range doc.Locations {
		if row.CompanyCode == code {
			out.Locations = append(out.Locations, row)
		}
	}
	for _, row := range doc.JobTypes {
		if row.CompanyCode == code {
			out.JobTypes = append(out.JobTypes, row)
		}
	}
	for _, row := range doc.Crews {
		if row.CompanyCode == code {
			out.Crews = append(out.Crews, row)
		}
	}
	for _, row := range doc.CrewMembers {
		if row.CompanyCode == code {
			out.CrewMembers = append(out.CrewMembers, row)
		}
	}
	for _, row := range doc.Shifts {
		if row.CompanyCode == code {
			out.Shifts = append(out.Shifts, row)
		}
	}
	for _, row := range doc.ShiftJobs {
		if row.CompanyCode == code {
			out.ShiftJobs = append(out.ShiftJobs, row)
		}
	}
	for _, row := range doc.Requests {
		if row.CompanyCode == code {
			out.Requests = append(out.Requests, row)
		}
	}
	return out
}

// requireRole fails unless the session is valid and its role is in the
// allowed set.
func requireRole(sess auth.Session, roles ...models.Role) error {
	if !sess.Valid() {
		return fmt.Errorf("%w: no session", e.ErrUnauthorized)
	}
	for _, role := range roles {
		if sess.Role == role {
			return nil
		}
	}
	return fmt.Errorf("%w: role %s not permitted", e.ErrUnauthorized, sess.Role)
}

// requireSameTenant fails unless the session may act on rows of the
// given company. Platform admins act anywhere.
func requireSameTenant(sess auth.Session, companyCode string) error {
	if sess.IsPlatformAdmin() || sess.CompanyCode == companyCode {
		return nil
	}
	return fmt.Errorf("%w: tenant mismatch", e.ErrUnauthorized)
}

// visible reports whether the session may observe a row of the given
// company at all. Lookups that fail this report not-found, never
// forbidden, so existence is not confirmed across tenants.
func visible(sess auth.Session, companyCode string) bool {
	return sess.IsPlatformAdmin() || sess.CompanyCode == companyCode
}

// tenantFor resolves the company a new row belongs to. Non-platform
// callers always write into their own tenant; a platform admin may name
// any tenant explicitly and defaults to the reserved one.
func tenantFor(sess auth.Session, explicit string) string {
	if !sess.IsPlatformAdmin() {
		return sess.CompanyCode
	}
	if code := strings.ToUpper(strings.TrimSpace(explicit)); code != "" {
		return code
	}
	return sess.CompanyCode
}
