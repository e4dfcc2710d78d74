package store

import (
	"fmt"
	"strings"

	"github.com/gartstein/shiftstore/internal/scheduler/auth"
	e "github.com/gartstein/shiftstore/internal/scheduler/errors"
	"github.com/gartstein/shiftstore/internal/scheduler/models"
)

// AddEmployee creates a worker in the caller's tenant (or the named
// tenant for platform admins). New rows start active.
func (s *Store) AddEmployee(sess auth.Session, emp models.Employee) (models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := requireRole(sess, models.RoleManager, models.RolePlatformAdmin); err != nil {
		return models.Employee{}, err
	}

	emp.CompanyCode = tenantFor(sess, emp.CompanyCode)
	if !s.companyExists(emp.CompanyCode) {
		return models.Employee{}, fmt.Errorf("%w: company %s", e.ErrNotFound, emp.CompanyCode)
	}
	emp.Name = strings.TrimSpace(emp.Name)
	if emp.Name == "" {
		return models.Employee{}, fmt.Errorf("%w: name is required", e.ErrValidation)
	}

	now := s.now()
	emp.ID = s.newID()
	emp.Active = true
	emp.CreatedAt = now
	emp.UpdatedAt = now
	s.draft.Employees = append(s.draft.Employees, emp)
	s.markEdited()
	return emp, nil
}

// UpdateEmployee applies a partial update.
func (s *Store) UpdateEmployee(sess auth.Session, id string, patch models.EmployeePatch) (models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := requireRole(sess, models.RoleManager, models.RolePlatformAdmin); err != nil {
		return models.Employee{}, err
	}
	idx := s.employeeIndex(sess, id)
	if idx < 0 {
		return models.Employee{}, fmt.Errorf("%w: employee %s", e.ErrNotFound, id)
	}

	emp := &s.draft.Employees[idx]
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return models.Employee{}, fmt.Errorf("%w: name is required", e.ErrValidation)
		}
		emp.Name = name
	}
	if patch.Contact != nil {
		emp.Contact = strings.TrimSpace(*patch.Contact)
	}
	if patch.Active != nil {
		emp.Active = *patch.Active
	}
	emp.UpdatedAt = s.now()
	s.markEdited()
	return *emp, nil
}

// DeleteEmployee removes a worker. With cascade, crew memberships and
// shifts assigned to the worker (plus those shifts' job rows) go too.
// Accounts that pointed at the worker keep the login but lose the link.
func (s *Store) DeleteEmployee(sess auth.Session, id string, cascade bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := requireRole(sess, models.RoleManager, models.RolePlatformAdmin); err != nil {
		return err
	}
	idx := s.employeeIndex(sess, id)
	if idx < 0 {
		return fmt.Errorf("%w: employee %s", e.ErrNotFound, id)
	}

	s.draft.Employees = append(s.draft.Employees[:idx], s.draft.Employees[idx+1:]...)
	for i := range s.draft.Users {
		if s.draft.Users[i].EmployeeID == id {
			s.draft.Users[i].EmployeeID = ""
		}
	}
	if cascade {
		crewMembers := s.draft.CrewMembers[:0]
		for _, cm := range s.draft.CrewMembers {
			if cm.EmployeeID != id {
				crewMembers = append(crewMembers, cm)
			}
		}
		s.draft.CrewMembers = crewMembers

		removed := make(map[string]bool)
		shifts := s.draft.Shifts[:0]
		for _, sh := range s.draft.Shifts {
			if sh.EmpID == id {
				removed[sh.ID] = true
				continue
			}
			shifts = append(shifts, sh)
		}
		s.draft.Shifts = shifts
		s.dropShiftJobsFor(removed)
	}
	s.markEdited()
	return nil
}
