package store

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gartstein/shiftstore/internal/scheduler/auth"
	e "github.com/gartstein/shiftstore/internal/scheduler/errors"
	"github.com/gartstein/shiftstore/internal/scheduler/events"
	"github.com/gartstein/shiftstore/internal/scheduler/models"
)

var companyCodePattern = regexp.MustCompile(`^[A-Z0-9]{3,10}$`)

// DeleteCompanyOptions controls the blast radius of a tenant deletion.
type DeleteCompanyOptions struct {
	// DeleteData purges the tenant's business rows (employees,
	// locations, job types, crews, shifts, joins, requests).
	DeleteData bool
	// DeleteUsers purges the tenant's login accounts.
	DeleteUsers bool
}

// AddCompany creates a tenant. Platform admins only.
func (s *Store) AddCompany(sess auth.Session, c models.Company) (models.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := requireRole(sess, models.RolePlatformAdmin); err != nil {
		return models.Company{}, err
	}

	c.CompanyCode = strings.ToUpper(strings.TrimSpace(c.CompanyCode))
	c.CompanyName = strings.TrimSpace(c.CompanyName)
	if c.CompanyCode == models.PlatformCompanyCode {
		return models.Company{}, fmt.Errorf("%w: company code %s is reserved", e.ErrValidation, models.PlatformCompanyCode)
	}
	if !companyCodePattern.MatchString(c.CompanyCode) {
		return models.Company{}, fmt.Errorf("%w: company code must be 3-10 letters or digits", e.ErrValidation)
	}
	if c.CompanyName == "" {
		return models.Company{}, fmt.Errorf("%w: company name is required", e.ErrValidation)
	}
	if s.companyIndexByCode(c.CompanyCode) >= 0 {
		return models.Company{}, fmt.Errorf("%w: company code %s already exists", e.ErrConflict, c.CompanyCode)
	}

	now := s.now()
	c.ID = s.newID()
	c.CreatedAt = now
	c.UpdatedAt = now
	s.draft.Companies = append(s.draft.Companies, c)
	s.markEdited()
	s.produce(events.CompanyCreated, c.CompanyCode, c.ID)
	return c, nil
}

// UpdateCompany applies a partial update. Platform admins only; the
// reserved tenant can never be disabled.
func (s *Store) UpdateCompany(sess auth.Session, id string, patch models.CompanyPatch) (models.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := requireRole(sess, models.RolePlatformAdmin); err != nil {
		return models.Company{}, err
	}
	idx := s.companyIndexByID(id)
	if idx < 0 {
		return models.Company{}, fmt.Errorf("%w: company %s", e.ErrNotFound, id)
	}

	c := &s.draft.Companies[idx]
	if patch.CompanyName != nil {
		name := strings.TrimSpace(*patch.CompanyName)
		if name == "" {
			return models.Company{}, fmt.Errorf("%w: company name is required", e.ErrValidation)
		}
		c.CompanyName = name
	}
	if patch.IsDisabled != nil {
		if *patch.IsDisabled && c.CompanyCode == models.PlatformCompanyCode {
			return models.Company{}, fmt.Errorf("%w: reserved tenant cannot be disabled", e.ErrValidation)
		}
		c.IsDisabled = *patch.IsDisabled
	}
	c.UpdatedAt = s.now()
	s.markEdited()
	s.produce(events.CompanyUpdated, c.CompanyCode, c.ID)
	return *c, nil
}

// SetCompanyStatus enables or disables a tenant.
func (s *Store) SetCompanyStatus(sess auth.Session, id string, disabled bool) (models.Company, error) {
	return s.UpdateCompany(sess, id, models.CompanyPatch{IsDisabled: &disabled})
}

// DeleteCompany removes a tenant record and, depending on opts, its
// business data and accounts. Platform admins only; the reserved tenant
// is never deletable.
func (s *Store) DeleteCompany(sess auth.Session, id string, opts DeleteCompanyOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := requireRole(sess, models.RolePlatformAdmin); err != nil {
		return err
	}
	idx := s.companyIndexByID(id)
	if idx < 0 {
		return fmt.Errorf("%w: company %s", e.ErrNotFound, id)
	}
	code := s.draft.Companies[idx].CompanyCode
	if code == models.PlatformCompanyCode {
		return fmt.Errorf("%w: reserved tenant cannot be deleted", e.ErrValidation)
	}

	s.draft.Companies = append(s.draft.Companies[:idx], s.draft.Companies[idx+1:]...)
	if opts.DeleteData {
		s.purgeCompanyData(code)
	}
	if opts.DeleteUsers {
		kept := s.draft.Users[:0]
		for _, u := range s.draft.Users {
			if u.CompanyCode != code {
				kept = append(kept, u)
			}
		}
		s.draft.Users = kept
	}
	s.markEdited()
	s.produce(events.CompanyDeleted, code, id)
	return nil
}

func (s *Store) purgeCompanyData(code string) {
	employees := s.draft.Employees[:0]
	for _, row := range s.draft.Employees {
		if row.CompanyCode != code {
			employees = append(employees, row)
		}
	}
	s.draft.Employees = employees

	locations := s.draft.Locations[:0]
	for _, row := range s.draft.Locations {
		if row.CompanyCode != code {
			locations = append(locations, row)
		}
	}
	s.draft.Locations = locations

	jobTypes := s.draft.JobTypes[:0]
	for _, row := range s.draft.JobTypes {
		if row.CompanyCode != code {
			jobTypes = append(jobTypes, row)
		}
	}
	s.draft.JobTypes = jobTypes

	crews := s.draft.Crews[:0]
	for _, row := range s.draft.Crews {
		if row.CompanyCode != code {
			crews = append(crews, row)
		}
	}
	s.draft.Crews = crews

	crewMembers := s.draft.CrewMembers[:0]
	for _, row := range s.draft.CrewMembers {
		if row.CompanyCode != code {
			crewMembers = append(crewMembers, row)
		}
	}
	s.draft.CrewMembers = crewMembers

	shifts := s.draft.Shifts[:0]
	for _, row := range s.draft.Shifts {
		if row.CompanyCode != code {
			shifts = append(shifts, row)
		}
	}
	s.draft.Shifts = shifts

	shiftJobs := s.draft.ShiftJobs[:0]
	for _, row := range s.draft.ShiftJobs {
		if row.CompanyCode != code {
			shiftJobs = append(shiftJobs, row)
		}
	}
	s.draft.ShiftJobs = shiftJobs

	requests := s.draft.Requests[:0]
	for _, row := range s.draft.Requests {
		if row.CompanyCode != code {
			requests = append(requests, row)
		}
	}
	s.draft.Requests = requests
}
