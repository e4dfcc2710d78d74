package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/gartstein/shiftstore/internal/scheduler/auth"
	e "github.com/gartstein/shiftstore/internal/scheduler/errors"
	"github.com/gartstein/shiftstore/internal/scheduler/models"
)

// AddShift schedules a block of work. Exactly one of EmpID/CrewID must
// be set, the location must exist in the shift's company, and the time
// window must be valid. Inactive employees, crews and locations are
// still assignable; only existence is checked. Unknown jobTypeIDs are
// dropped without error.
func (s *Store) AddShift(sess auth.Session, sh models.Shift, jobTypeIDs []string) (models.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := requireRole(sess, models.RoleManager, models.RolePlatformAdmin); err != nil {
		return models.Shift{}, err
	}

	sh.Date = strings.TrimSpace(sh.Date)
	sh.Start = strings.TrimSpace(sh.Start)
	sh.End = strings.TrimSpace(sh.End)
	if err := validateShiftWindow(sh.Date, sh.Start, sh.End); err != nil {
		return models.Shift{}, err
	}
	if (sh.EmpID == "") == (sh.CrewID == "") {
		return models.Shift{}, fmt.Errorf("%w: exactly one of employee or crew must be assigned", e.ErrValidation)
	}

	locIdx := s.locationIndex(sess, sh.LocID)
	if locIdx < 0 {
		return models.Shift{}, fmt.Errorf("%w: location %s", e.ErrNotFound, sh.LocID)
	}
	sh.CompanyCode = s.draft.Locations[locIdx].CompanyCode
	if err := s.checkShiftAssignee(sh); err != nil {
		return models.Shift{}, err
	}

	now := s.now()
	sh.ID = s.newID()
	sh.Notes = strings.TrimSpace(sh.Notes)
	sh.CreatedAt = now
	sh.UpdatedAt = now
	s.draft.Shifts = append(s.draft.Shifts, sh)
	s.setShiftJobs(sh, jobTypeIDs)
	s.markEdited()
	return sh, nil
}

// UpdateShift applies a partial update and re-checks every invariant
// the patch can touch: window, assignee XOR, and in-company references.
// To move a shift from an employee to a crew (or back), the patch must
// clear the other field explicitly.
func (s *Store) UpdateShift(sess auth.Session, id string, patch models.ShiftPatch) (models.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := requireRole(sess, models.RoleManager, models.RolePlatformAdmin); err != nil {
		return models.Shift{}, err
	}
	idx := s.shiftIndex(sess, id)
	if idx < 0 {
		return models.Shift{}, fmt.Errorf("%w: shift %s", e.ErrNotFound, id)
	}

	sh := s.draft.Shifts[idx]
	if patch.Date != nil {
		sh.Date = strings.TrimSpace(*patch.Date)
	}
	if patch.Start != nil {
		sh.Start = strings.TrimSpace(*patch.Start)
	}
	if patch.End != nil {
		sh.End = strings.TrimSpace(*patch.End)
	}
	if patch.LocID != nil {
		sh.LocID = *patch.LocID
	}
	if patch.EmpID != nil {
		sh.EmpID = *patch.EmpID
	}
	if patch.CrewID != nil {
		sh.CrewID = *patch.CrewID
	}
	if patch.Notes != nil {
		sh.Notes = strings.TrimSpace(*patch.Notes)
	}

	if err := validateShiftWindow(sh.Date, sh.Start, sh.End); err != nil {
		return models.Shift{}, err
	}
	if (sh.EmpID == "") == (sh.CrewID == "") {
		return models.Shift{}, fmt.Errorf("%w: exactly one of employee or crew must be assigned", e.ErrValidation)
	}
	locIdx := s.locationIndex(sess, sh.LocID)
	if locIdx < 0 || s.draft.Locations[locIdx].CompanyCode != sh.CompanyCode {
		return models.Shift{}, fmt.Errorf("%w: location %s", e.ErrNotFound, sh.LocID)
	}
	if err := s.checkShiftAssignee(sh); err != nil {
		return models.Shift{}, err
	}

	sh.UpdatedAt = s.now()
	s.draft.Shifts[idx] = sh
	if patch.JobTypeIDs != nil {
		s.dropShiftJobsFor(map[string]bool{sh.ID: true})
		s.setShiftJobs(sh, *patch.JobTypeIDs)
	}
	s.markEdited()
	return sh, nil
}

// DeleteShift removes a shift. With cascade its job rows go too.
func (s *Store) DeleteShift(sess auth.Session, id string, cascade bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := requireRole(sess, models.RoleManager, models.RolePlatformAdmin); err != nil {
		return err
	}
	idx := s.shiftIndex(sess, id)
	if idx < 0 {
		return fmt.Errorf("%w: shift %s", e.ErrNotFound, id)
	}

	s.draft.Shifts = append(s.draft.Shifts[:idx], s.draft.Shifts[idx+1:]...)
	if cascade {
		s.dropShiftJobsFor(map[string]bool{id: true})
	}
	s.markEdited()
	return nil
}

// checkShiftAssignee verifies the assigned employee or crew exists in
// the shift's company.
func (s *Store) checkShiftAssignee(sh models.Shift) error {
	if sh.EmpID != "" && s.employeeIndexIn(sh.CompanyCode, sh.EmpID) < 0 {
		return fmt.Errorf("%w: employee %s", e.ErrNotFound, sh.EmpID)
	}
	if sh.CrewID != "" && s.crewIndexIn(sh.CompanyCode, sh.CrewID) < 0 {
		return fmt.Errorf("%w: crew %s", e.ErrNotFound, sh.CrewID)
	}
	return nil
}

// setShiftJobs creates join rows for the given job types, silently
// filtering out ids that do not resolve in the shift's company and
// collapsing duplicates.
func (s *Store) setShiftJobs(sh models.Shift, jobTypeIDs []string) {
	seen := make(map[string]bool)
	for _, jobTypeID := range jobTypeIDs {
		if jobTypeID == "" || seen[jobTypeID] {
			continue
		}
		seen[jobTypeID] = true
		if s.jobTypeIndexIn(sh.CompanyCode, jobTypeID) < 0 {
			continue
		}
		s.draft.ShiftJobs = append(s.draft.ShiftJobs, models.ShiftJob{
			ID:          s.newID(),
			CompanyCode: sh.CompanyCode,
			ShiftID:     sh.ID,
			JobTypeID:   jobTypeID,
			CreatedAt:   s.now(),
		})
	}
}

// validateShiftWindow checks the calendar date and the HH:MM window.
// End is compared lexicographically, not as a calendar-aware duration.
func validateShiftWindow(date, start, end string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", e.ErrValidation)
	}
	if start == "" || end == "" {
		return fmt.Errorf("%w: start and end are required", e.ErrValidation)
	}
	if end <= start {
		return fmt.Errorf("%w: end must be after start", e.ErrValidation)
	}
	return nil
}
