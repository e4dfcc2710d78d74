package store

import (
	"fmt"
	"strings"

	"github.com/gartstein/shiftstore/internal/scheduler/auth"
	e "github.com/gartstein/shiftstore/internal/scheduler/errors"
	"github.com/gartstein/shiftstore/internal/scheduler/models"
)

// AddJobType creates a work category.
func (s *Store) AddJobType(sess auth.Session, jt models.JobType) (models.JobType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := requireRole(sess, models.RoleManager, models.RolePlatformAdmin); err != nil {
		return models.JobType{}, err
	}

	jt.CompanyCode = tenantFor(sess, jt.CompanyCode)
	if !s.companyExists(jt.CompanyCode) {
		return models.JobType{}, fmt.Errorf("%w: company %s", e.ErrNotFound, jt.CompanyCode)
	}
	jt.Name = strings.TrimSpace(jt.Name)
	if jt.Name == "" {
		return models.JobType{}, fmt.Errorf("%w: name is required", e.ErrValidation)
	}

	now := s.now()
	jt.ID = s.newID()
	jt.Active = true
	jt.CreatedAt = now
	jt.UpdatedAt = now
	s.draft.JobTypes = append(s.draft.JobTypes, jt)
	s.markEdited()
	return jt, nil
}

// UpdateJobType applies a partial update.
func (s *Store) UpdateJobType(sess auth.Session, id string, patch models.JobTypePatch) (models.JobType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := requireRole(sess, models.RoleManager, models.RolePlatformAdmin); err != nil {
		return models.JobType{}, err
	}
	idx := s.jobTypeIndex(sess, id)
	if idx < 0 {
		return models.JobType{}, fmt.Errorf("%w: job type %s", e.ErrNotFound, id)
	}

	jt := &s.draft.JobTypes[idx]
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return models.JobType{}, fmt.Errorf("%w: name is required", e.ErrValidation)
		}
		jt.Name = name
	}
	if patch.Active != nil {
		jt.Active = *patch.Active
	}
	jt.UpdatedAt = s.now()
	s.markEdited()
	return *jt, nil
}

// DeleteJobType removes a work category. With cascade, shift job rows
// referencing it go too.
func (s *Store) DeleteJobType(sess auth.Session, id string, cascade bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := requireRole(sess, models.RoleManager, models.RolePlatformAdmin); err != nil {
		return err
	}
	idx := s.jobTypeIndex(sess, id)
	if idx < 0 {
		return fmt.Errorf("%w: job type %s", e.ErrNotFound, id)
	}

	s.draft.JobTypes = append(s.draft.JobTypes[:idx], s.draft.JobTypes[idx+1:]...)
	if cascade {
		shiftJobs := s.draft.ShiftJobs[:0]
		for _, sj := range s.draft.ShiftJobs {
			if sj.JobTypeID != id {
				shiftJobs = append(shiftJobs, sj)
			}
		}
		s.draft.ShiftJobs = shiftJobs
	}
	s.markEdited()
	return nil
}
