package store

import (
	"fmt"
	"strings"

	"github.com/gartstein/shiftstore/internal/scheduler/auth"
	e "github.com/gartstein/shiftstore/internal/scheduler/errors"
	"github.com/gartstein/shiftstore/internal/scheduler/models"
)

// AddCrew creates a schedulable group of employees.
func (s *Store) AddCrew(sess auth.Session, crew models.Crew) (models.Crew, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := requireRole(sess, models.RoleManager, models.RolePlatformAdmin); err != nil {
		return models.Crew{}, err
	}

	crew.CompanyCode = tenantFor(sess, crew.CompanyCode)
	if !s.companyExists(crew.CompanyCode) {
		return models.Crew{}, fmt.Errorf("%w: company %s", e.ErrNotFound, crew.CompanyCode)
	}
	crew.Name = strings.TrimSpace(crew.Name)
	if crew.Name == "" {
		return models.Crew{}, fmt.Errorf("%w: name is required", e.ErrValidation)
	}

	now := s.now()
	crew.ID = s.newID()
	crew.Active = true
	crew.CreatedAt = now
	crew.UpdatedAt = now
	s.draft.Crews = append(s.draft.Crews, crew)
	s.markEdited()
	return crew, nil
}

// UpdateCrew applies a partial update.
func (s *Store) UpdateCrew(sess auth.Session, id string, patch models.CrewPatch) (models.Crew, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := requireRole(sess, models.RoleManager, models.RolePlatformAdmin); err != nil {
		return models.Crew{}, err
	}
	idx := s.crewIndex(sess, id)
	if idx < 0 {
		return models.Crew{}, fmt.Errorf("%w: crew %s", e.ErrNotFound, id)
	}

	crew := &s.draft.Crews[idx]
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return models.Crew{}, fmt.Errorf("%w: name is required", e.ErrValidation)
		}
		crew.Name = name
	}
	if patch.Active != nil {
		crew.Active = *patch.Active
	}
	crew.UpdatedAt = s.now()
	s.markEdited()
	return *crew, nil
}

// DeleteCrew removes a crew. With cascade, its memberships and the
// shifts assigned to it (plus those shifts' job rows) go too.
func (s *Store) DeleteCrew(sess auth.Session, id string, cascade bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := requireRole(sess, models.RoleManager, models.RolePlatformAdmin); err != nil {
		return err
	}
	idx := s.crewIndex(sess, id)
	if idx < 0 {
		return fmt.Errorf("%w: crew %s", e.ErrNotFound, id)
	}

	s.draft.Crews = append(s.draft.Crews[:idx], s.draft.Crews[idx+1:]...)
	if cascade {
		crewMembers := s.draft.CrewMembers[:0]
		for _, cm := range s.draft.CrewMembers {
			if cm.CrewID != id {
				crewMembers = append(crewMembers, cm)
			}
		}
		s.draft.CrewMembers = crewMembers

		removed := make(map[string]bool)
		shifts := s.draft.Shifts[:0]
		for _, sh := range s.draft.Shifts {
			if sh.CrewID == id {
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

// AddCrewMember joins an employee to a crew. Both rows must exist in
// one company and the pair must not already be joined.
func (s *Store) AddCrewMember(sess auth.Session, cm models.CrewMember) (models.CrewMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := requireRole(sess, models.RoleManager, models.RolePlatformAdmin); err != nil {
		return models.CrewMember{}, err
	}
	crewIdx := s.crewIndex(sess, cm.CrewID)
	if crewIdx < 0 {
		return models.CrewMember{}, fmt.Errorf("%w: crew %s", e.ErrNotFound, cm.CrewID)
	}
	empIdx := s.employeeIndex(sess, cm.EmployeeID)
	if empIdx < 0 {
		return models.CrewMember{}, fmt.Errorf("%w: employee %s", e.ErrNotFound, cm.EmployeeID)
	}
	crew := s.draft.Crews[crewIdx]
	if crew.CompanyCode != s.draft.Employees[empIdx].CompanyCode {
		return models.CrewMember{}, fmt.Errorf("%w: crew and employee belong to different companies", e.ErrValidation)
	}
	for _, existing := range s.draft.CrewMembers {
		if existing.CrewID == cm.CrewID && existing.EmployeeID == cm.EmployeeID {
			return models.CrewMember{}, fmt.Errorf("%w: employee already in crew", e.ErrConflict)
		}
	}

	cm.ID = s.newID()
	cm.CompanyCode = crew.CompanyCode
	cm.CreatedAt = s.now()
	s.draft.CrewMembers = append(s.draft.CrewMembers, cm)
	s.markEdited()
	return cm, nil
}

// DeleteCrewMember removes a single membership row.
func (s *Store) DeleteCrewMember(sess auth.Session, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := requireRole(sess, models.RoleManager, models.RolePlatformAdmin); err != nil {
		return err
	}
	idx := s.crewMemberIndex(sess, id)
	if idx < 0 {
		return fmt.Errorf("%w: crew member %s", e.ErrNotFound, id)
	}
	s.draft.CrewMembers = append(s.draft.CrewMembers[:idx], s.draft.CrewMembers[idx+1:]...)
	s.markEdited()
	return nil
}
