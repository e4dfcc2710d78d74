package store

import (
	"fmt"
	"strings"

	"github.com/gartstein/shiftstore/internal/scheduler/auth"
	e "github.com/gartstein/shiftstore/internal/scheduler/errors"
	"github.com/gartstein/shiftstore/internal/scheduler/models"
)

// AddLocation creates a work site.
func (s *Store) AddLocation(sess auth.Session, loc models.Location) (models.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := requireRole(sess, models.RoleManager, models.RolePlatformAdmin); err != nil {
		return models.Location{}, err
	}

	loc.CompanyCode = tenantFor(sess, loc.CompanyCode)
	if !s.companyExists(loc.CompanyCode) {
		return models.Location{}, fmt.Errorf("%w: company %s", e.ErrNotFound, loc.CompanyCode)
	}
	loc.Name = strings.TrimSpace(loc.Name)
	if loc.Name == "" {
		return models.Location{}, fmt.Errorf("%w: name is required", e.ErrValidation)
	}

	now := s.now()
	loc.ID = s.newID()
	loc.Active = true
	loc.CreatedAt = now
	loc.UpdatedAt = now
	s.draft.Locations = append(s.draft.Locations, loc)
	s.markEdited()
	return loc, nil
}

// UpdateLocation applies a partial update.
func (s *Store) UpdateLocation(sess auth.Session, id string, patch models.LocationPatch) (models.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := requireRole(sess, models.RoleManager, models.RolePlatformAdmin); err != nil {
		return models.Location{}, err
	}
	idx := s.locationIndex(sess, id)
	if idx < 0 {
		return models.Location{}, fmt.Errorf("%w: location %s", e.ErrNotFound, id)
	}

	loc := &s.draft.Locations[idx]
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return models.Location{}, fmt.Errorf("%w: name is required", e.ErrValidation)
		}
		loc.Name = name
	}
	if patch.Address != nil {
		loc.Address = strings.TrimSpace(*patch.Address)
	}
	if patch.Active != nil {
		loc.Active = *patch.Active
	}
	loc.UpdatedAt = s.now()
	s.markEdited()
	return *loc, nil
}

// DeleteLocation removes a work site. With cascade, shifts scheduled
// there and their job rows go too.
func (s *Store) DeleteLocation(sess auth.Session, id string, cascade bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := requireRole(sess, models.RoleManager, models.RolePlatformAdmin); err != nil {
		return err
	}
	idx := s.locationIndex(sess, id)
	if idx < 0 {
		return fmt.Errorf("%w: location %s", e.ErrNotFound, id)
	}

	s.draft.Locations = append(s.draft.Locations[:idx], s.draft.Locations[idx+1:]...)
	if cascade {
		removed := make(map[string]bool)
		shifts := s.draft.Shifts[:0]
		for _, sh := range s.draft.Shifts {
			if sh.LocID == id {
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
