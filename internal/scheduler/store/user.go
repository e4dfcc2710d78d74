package store

import (
	"fmt"
	"strings"

	"github.com/gartstein/shiftstore/internal/scheduler/auth"
	e "github.com/gartstein/shiftstore/internal/scheduler/errors"
	"github.com/gartstein/shiftstore/internal/scheduler/models"
	"github.com/gartstein/shiftstore/internal/scheduler/normalize"
)

// AddUser creates a login account. The plaintext PIN is digested
// through the injected hasher and never stored. Managers may only
// create employee-role accounts in their own tenant; platform admins
// may create any account anywhere.
func (s *Store) AddUser(sess auth.Session, u models.User, pin string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := requireRole(sess, models.RoleManager, models.RolePlatformAdmin); err != nil {
		return models.User{}, err
	}
	if sess.Role == models.RoleManager && u.Role != models.RoleEmployee {
		return models.User{}, fmt.Errorf("%w: managers may only create employee accounts", e.ErrUnauthorized)
	}

	u.CompanyCode = tenantFor(sess, u.CompanyCode)
	if !s.companyExists(u.CompanyCode) {
		return models.User{}, fmt.Errorf("%w: company %s", e.ErrNotFound, u.CompanyCode)
	}
	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	if u.Username == "" {
		return models.User{}, fmt.Errorf("%w: username is required", e.ErrValidation)
	}
	if !models.ValidRole(u.Role) {
		return models.User{}, fmt.Errorf("%w: unknown role %q", e.ErrValidation, u.Role)
	}
	if !normalize.ValidPin(pin) {
		return models.User{}, fmt.Errorf("%w: pin must be a 4-digit string", e.ErrValidation)
	}
	if u.Role == models.RoleEmployee {
		if u.EmployeeID == "" {
			return models.User{}, fmt.Errorf("%w: employee accounts require an employeeId", e.ErrValidation)
		}
		if s.employeeIndexIn(u.CompanyCode, u.EmployeeID) < 0 {
			return models.User{}, fmt.Errorf("%w: employee %s", e.ErrNotFound, u.EmployeeID)
		}
	} else {
		u.EmployeeID = ""
	}
	if s.usernameTaken(u.CompanyCode, u.Username, "") {
		return models.User{}, fmt.Errorf("%w: username %s already in use", e.ErrConflict, u.Username)
	}

	now := s.now()
	u.ID = s.newID()
	u.PinHash = s.hasher.HashPin(u.CompanyCode, u.Username, pin)
	u.Active = true
	u.CreatedAt = now
	u.UpdatedAt = now
	s.draft.Users = append(s.draft.Users, u)
	s.markEdited()
	return u, nil
}

// UpdateUser applies a partial update to an account. A username change
// must carry a new PIN because the stored digest is derived from the
// final username.
func (s *Store) UpdateUser(sess auth.Session, id string, patch models.UserPatch) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := requireRole(sess, models.RoleManager, models.RolePlatformAdmin); err != nil {
		return models.User{}, err
	}
	idx := s.userIndex(sess, id)
	if idx < 0 {
		return models.User{}, fmt.Errorf("%w: user %s", e.ErrNotFound, id)
	}
	u := &s.draft.Users[idx]
	if sess.Role == models.RoleManager && u.Role != models.RoleEmployee {
		return models.User{}, fmt.Errorf("%w: managers may only manage employee accounts", e.ErrUnauthorized)
	}

	newUsername := u.Username
	if patch.Username != nil {
		newUsername = strings.ToLower(strings.TrimSpace(*patch.Username))
		if newUsername == "" {
			return models.User{}, fmt.Errorf("%w: username is required", e.ErrValidation)
		}
	}
	if newUsername != u.Username {
		if patch.Pin == nil {
			return models.User{}, fmt.Errorf("%w: username change requires a new PIN", e.ErrValidation)
		}
		if s.usernameTaken(u.CompanyCode, newUsername, u.ID) {
			return models.User{}, fmt.Errorf("%w: username %s already in use", e.ErrConflict, newUsername)
		}
	}
	if patch.Pin != nil && !normalize.ValidPin(*patch.Pin) {
		return models.User{}, fmt.Errorf("%w: pin must be a 4-digit string", e.ErrValidation)
	}
	if patch.EmployeeID != nil {
		if u.Role != models.RoleEmployee {
			return models.User{}, fmt.Errorf("%w: only employee accounts link to an employee", e.ErrValidation)
		}
		if *patch.EmployeeID == "" {
			return models.User{}, fmt.Errorf("%w: employee accounts require an employeeId", e.ErrValidation)
		}
		if s.employeeIndexIn(u.CompanyCode, *patch.EmployeeID) < 0 {
			return models.User{}, fmt.Errorf("%w: employee %s", e.ErrNotFound, *patch.EmployeeID)
		}
		u.EmployeeID = *patch.EmployeeID
	}

	u.Username = newUsername
	if patch.Pin != nil {
		u.PinHash = s.hasher.HashPin(u.CompanyCode, u.Username, *patch.Pin)
	}
	if patch.Active != nil {
		u.Active = *patch.Active
	}
	u.UpdatedAt = s.now()
	s.markEdited()
	return *u, nil
}

// DeleteUser removes an account along with any credential-change
// requests it filed.
func (s *Store) DeleteUser(sess auth.Session, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := requireRole(sess, models.RoleManager, models.RolePlatformAdmin); err != nil {
		return err
	}
	idx := s.userIndex(sess, id)
	if idx < 0 {
		return fmt.Errorf("%w: user %s", e.ErrNotFound, id)
	}
	if sess.Role == models.RoleManager && s.draft.Users[idx].Role != models.RoleEmployee {
		return fmt.Errorf("%w: managers may only manage employee accounts", e.ErrUnauthorized)
	}

	s.draft.Users = append(s.draft.Users[:idx], s.draft.Users[idx+1:]...)
	requests := s.draft.Requests[:0]
	for _, r := range s.draft.Requests {
		if r.RequesterUserID != id {
			requests = append(requests, r)
		}
	}
	s.draft.Requests = requests
	s.markEdited()
	return nil
}
