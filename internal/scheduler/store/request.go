package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gartstein/shiftstore/internal/scheduler/auth"
	e "github.com/gartstein/shiftstore/internal/scheduler/errors"
	"github.com/gartstein/shiftstore/internal/scheduler/events"
	"github.com/gartstein/shiftstore/internal/scheduler/models"
	"github.com/gartstein/shiftstore/internal/scheduler/normalize"
)

// SubmitCredentialChange files a self-service username/PIN rotation for
// the acting user. The request type is implied by the caller's role.
// A username change must come with a new PIN in the same request,
// because the credential digest is derived from the final username.
// Platform-admin requests are applied and approved immediately; they
// exist as audit records, not queue items.
func (s *Store) SubmitCredentialChange(sess auth.Session, proposedUsername, proposedPin, note string) (models.CredentialChangeRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !sess.Valid() {
		return models.CredentialChangeRequest{}, fmt.Errorf("%w: no session", e.ErrUnauthorized)
	}
	userIdx := s.userIndexIn(sess.CompanyCode, sess.UserID)
	if userIdx < 0 {
		return models.CredentialChangeRequest{}, fmt.Errorf("%w: user %s", e.ErrNotFound, sess.UserID)
	}
	user := s.draft.Users[userIdx]

	username := strings.ToLower(strings.TrimSpace(proposedUsername))
	pin := strings.TrimSpace(proposedPin)
	if username == "" && pin == "" {
		return models.CredentialChangeRequest{}, fmt.Errorf("%w: proposedUsername or proposedPin is required", e.ErrValidation)
	}
	if username != "" && pin == "" {
		return models.CredentialChangeRequest{}, fmt.Errorf("%w: username change requires a new PIN", e.ErrValidation)
	}
	if pin != "" && !normalize.ValidPin(pin) {
		return models.CredentialChangeRequest{}, fmt.Errorf("%w: pin must be a 4-digit string", e.ErrValidation)
	}
	if username != "" && username != user.Username && s.usernameTaken(user.CompanyCode, username, user.ID) {
		return models.CredentialChangeRequest{}, fmt.Errorf("%w: username %s already in use", e.ErrConflict, username)
	}

	var requestType models.RequestType
	switch sess.Role {
	case models.RoleEmployee:
		requestType = models.EmployeeChangeCredentials
	case models.RoleManager:
		requestType = models.ManagerChangeCredentials
	case models.RolePlatformAdmin:
		requestType = models.AdminChangeCredentials
	}

	now := s.now()
	req := models.CredentialChangeRequest{
		ID:               s.newID(),
		CompanyCode:      user.CompanyCode,
		Type:             requestType,
		Status:           models.RequestPending,
		RequesterUserID:  user.ID,
		TargetUserID:     user.ID,
		ProposedUsername: username,
		ProposedPin:      pin,
		DecisionNote:     strings.TrimSpace(note),
		CreatedAt:        now,
	}

	if requestType == models.AdminChangeCredentials {
		s.applyCredentialChange(userIdx, username, pin)
		req.Status = models.RequestApproved
		req.HandledAt = now
		req.HandledBy = user.ID
	}

	s.draft.Requests = append(s.draft.Requests, req)
	s.markEdited()
	s.produce(events.RequestSubmitted, req.CompanyCode, req.ID)
	if req.Status == models.RequestApproved {
		s.produce(events.RequestApproved, req.CompanyCode, req.ID)
	}
	return req, nil
}

// PendingRequests lists the queue the caller is responsible for:
// platform admins see pending manager rotations across all tenants,
// managers see pending employee rotations in their own tenant. Ordered
// oldest first.
func (s *Store) PendingRequests(sess auth.Session) ([]models.CredentialChangeRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := requireRole(sess, models.RoleManager, models.RolePlatformAdmin); err != nil {
		return nil, err
	}

	var out []models.CredentialChangeRequest
	for _, r := range s.draft.Requests {
		if r.Status != models.RequestPending {
			continue
		}
		switch sess.Role {
		case models.RolePlatformAdmin:
			if r.Type == models.ManagerChangeCredentials {
				out = append(out, r)
			}
		case models.RoleManager:
			if r.Type == models.EmployeeChangeCredentials && r.CompanyCode == sess.CompanyCode {
				out = append(out, r)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// ApproveRequest applies a pending request and marks it approved.
// Username uniqueness and the PIN format are re-checked here, not just
// at submission, since intervening edits could invalidate either. The
// username is applied before the PIN digest is computed so the digest
// uses the final username. The target account is re-activated.
func (s *Store) ApproveRequest(sess auth.Session, id, note string) (models.CredentialChangeRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, err := s.requestForDecision(sess, id)
	if err != nil {
		return models.CredentialChangeRequest{}, err
	}
	req := s.draft.Requests[idx]

	userIdx := s.userIndexIn(req.CompanyCode, req.TargetUserID)
	if userIdx < 0 {
		return models.CredentialChangeRequest{}, fmt.Errorf("%w: user %s", e.ErrNotFound, req.TargetUserID)
	}
	user := s.draft.Users[userIdx]

	if req.ProposedPin != "" && !normalize.ValidPin(req.ProposedPin) {
		return models.CredentialChangeRequest{}, fmt.Errorf("%w: pin must be a 4-digit string", e.ErrValidation)
	}
	if req.ProposedUsername != "" && req.ProposedUsername != user.Username &&
		s.usernameTaken(user.CompanyCode, req.ProposedUsername, user.ID) {
		return models.CredentialChangeRequest{}, fmt.Errorf("%w: username %s already in use", e.ErrConflict, req.ProposedUsername)
	}

	s.applyCredentialChange(userIdx, req.ProposedUsername, req.ProposedPin)

	r := &s.draft.Requests[idx]
	r.Status = models.RequestApproved
	r.HandledAt = s.now()
	r.HandledBy = sess.UserID
	r.DecisionNote = appendDecisionNote(r.DecisionNote, note)
	s.markEdited()
	s.produce(events.RequestApproved, r.CompanyCode, r.ID)
	return *r, nil
}

// DenyRequest marks a pending request denied. No account data changes.
func (s *Store) DenyRequest(sess auth.Session, id, note string) (models.CredentialChangeRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, err := s.requestForDecision(sess, id)
	if err != nil {
		return models.CredentialChangeRequest{}, err
	}

	r := &s.draft.Requests[idx]
	r.Status = models.RequestDenied
	r.HandledAt = s.now()
	r.HandledBy = sess.UserID
	r.DecisionNote = appendDecisionNote(r.DecisionNote, note)
	s.markEdited()
	s.produce(events.RequestDenied, r.CompanyCode, r.ID)
	return *r, nil
}

// requestForDecision locates a request and checks the caller is its
// designated approver: managers decide employee rotations in their own
// tenant, platform admins decide manager (and admin) rotations. A
// request outside the caller's sight reports not found; a visible
// request with the wrong approver role reports unauthorized; a
// non-pending request reports invalid state.
func (s *Store) requestForDecision(sess auth.Session, id string) (int, error) {
	if err := requireRole(sess, models.RoleManager, models.RolePlatformAdmin); err != nil {
		return -1, err
	}
	idx := s.requestIndex(id)
	if idx < 0 || !visible(sess, s.draft.Requests[idx].CompanyCode) {
		return -1, fmt.Errorf("%w: request %s", e.ErrNotFound, id)
	}
	req := s.draft.Requests[idx]

	switch req.Type {
	case models.EmployeeChangeCredentials:
		if sess.Role != models.RoleManager {
			return -1, fmt.Errorf("%w: employee requests are decided by managers", e.ErrUnauthorized)
		}
		if err := requireSameTenant(sess, req.CompanyCode); err != nil {
			return -1, err
		}
	case models.ManagerChangeCredentials, models.AdminChangeCredentials:
		if sess.Role != models.RolePlatformAdmin {
			return -1, fmt.Errorf("%w: manager requests are decided by platform admins", e.ErrUnauthorized)
		}
	}
	if req.Status != models.RequestPending {
		return -1, fmt.Errorf("%w: request is %s", e.ErrInvalidState, req.Status)
	}
	return idx, nil
}

// applyCredentialChange mutates the target account: username first,
// then the PIN digest (derived from the final username), and always
// re-activates the account.
func (s *Store) applyCredentialChange(userIdx int, newUsername, pin string) {
	u := &s.draft.Users[userIdx]
	if newUsername != "" {
		u.Username = newUsername
	}
	if pin != "" {
		u.PinHash = s.hasher.HashPin(u.CompanyCode, u.Username, pin)
	}
	u.Active = true
	u.UpdatedAt = s.now()
}

// appendDecisionNote adds the handler's note on its own line below any
// note the requester attached.
func appendDecisionNote(existing, note string) string {
	line := "Decision: " + strings.TrimSpace(note)
	if strings.TrimSpace(existing) != "" {
		return existing + "\n" + line
	}
	return line
}
