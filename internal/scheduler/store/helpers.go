package store

import (
	"github.com/gartstein/shiftstore/internal/scheduler/auth"
	"github.com/gartstein/shiftstore/internal/scheduler/models"
)

// Draft lookup helpers. All of them return -1 for rows the session may
// not see, so callers report the same not-found error for missing and
// out-of-tenant rows.

func (s *Store) companyIndexByID(id string) int {
	for i, c := range s.draft.Companies {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) companyIndexByCode(code string) int {
	for i, c := range s.draft.Companies {
		if c.CompanyCode == code {
			return i
		}
	}
	return -1
}

// companyExists treats the reserved platform tenant as always present;
// it has no company row of its own.
func (s *Store) companyExists(code string) bool {
	return code == models.PlatformCompanyCode || s.companyIndexByCode(code) >= 0
}

func (s *Store) userIndex(sess auth.Session, id string) int {
	for i, u := range s.draft.Users {
		if u.ID == id && visible(sess, u.CompanyCode) {
			return i
		}
	}
	return -1
}

func (s *Store) userIndexIn(companyCode, id string) int {
	for i, u := range s.draft.Users {
		if u.ID == id && u.CompanyCode == companyCode {
			return i
		}
	}
	return -1
}

func (s *Store) usernameTaken(companyCode, username, excludeUserID string) bool {
	for _, u := range s.draft.Users {
		if u.CompanyCode == companyCode && u.Username == username && u.ID != excludeUserID {
			return true
		}
	}
	return false
}

func (s *Store) employeeIndex(sess auth.Session, id string) int {
	for i, emp := range s.draft.Employees {
		if emp.ID == id && visible(sess, emp.CompanyCode) {
			return i
		}
	}
	return -1
}

func (s *Store) employeeIndexIn(companyCode, id string) int {
	for i, emp := range s.draft.Employees {
		if emp.ID == id && emp.CompanyCode == companyCode {
			return i
		}
	}
	return -1
}

func (s *Store) locationIndex(sess auth.Session, id string) int {
	for i, loc := range s.draft.Locations {
		if loc.ID == id && visible(sess, loc.CompanyCode) {
			return i
		}
	}
	return -1
}

func (s *Store) jobTypeIndex(sess auth.Session, id string) int {
	for i, jt := range s.draft.JobTypes {
		if jt.ID == id && visible(sess, jt.CompanyCode) {
			return i
		}
	}
	return -1
}

func (s *Store) jobTypeIndexIn(companyCode, id string) int {
	for i, jt := range s.draft.JobTypes {
		if jt.ID == id && jt.CompanyCode == companyCode {
			return i
		}
	}
	return -1
}

func (s *Store) crewIndex(sess auth.Session, id string) int {
	for i, c := range s.draft.Crews {
		if c.ID == id && visible(sess, c.CompanyCode) {
			return i
		}
	}
	return -1
}

func (s *Store) crewIndexIn(companyCode, id string) int {
	for i, c := range s.draft.Crews {
		if c.ID == id && c.CompanyCode == companyCode {
			return i
		}
	}
	return -1
}

func (s *Store) crewMemberIndex(sess auth.Session, id string) int {
	for i, cm := range s.draft.CrewMembers {
		if cm.ID == id && visible(sess, cm.CompanyCode) {
			return i
		}
	}
	return -1
}

func (s *Store) shiftIndex(sess auth.Session, id string) int {
	for i, sh := range s.draft.Shifts {
		if sh.ID == id && visible(sess, sh.CompanyCode) {
			return i
		}
	}
	return -1
}

func (s *Store) requestIndex(id string) int {
	for i, r := range s.draft.Requests {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// dropShiftJobsFor removes every ShiftJob whose shift id is in ids.
func (s *Store) dropShiftJobsFor(ids map[string]bool) {
	if len(ids) == 0 {
		return
	}
	kept := s.draft.ShiftJobs[:0]
	for _, sj := range s.draft.ShiftJobs {
		if !ids[sj.ShiftID] {
			kept = append(kept, sj)
		}
	}
	s.draft.ShiftJobs = kept
}
