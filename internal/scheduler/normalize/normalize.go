// Package normalize converts arbitrary, possibly legacy-shaped persisted
// state into the canonical relational document. It never fails: rows
// that cannot satisfy referential integrity are repaired when the fix is
// unambiguous and dropped otherwise. Load survives corruption; dropped
// rows are the accepted cost on legacy imports.
package normalize

import (
	"regexp"
	"strings"
	"time"

	"github.com/gartstein/shiftstore/internal/scheduler/models"
	"github.com/google/uuid"
)

// Overridable for deterministic tests.
var (
	newID   = uuid.NewString
	timeNow = time.Now
)

var pinPattern = regexp.MustCompile(`^\d{4}$`)

// ValidPin reports whether a proposed PIN has the required 4-digit form.
func ValidPin(pin string) bool {
	return pinPattern.MatchString(pin)
}

// FromJSON decodes and normalizes a persisted document in one step.
func FromJSON(data []byte) models.Document {
	return Normalize(ParseDocument(data))
}

// Normalize produces a structurally valid canonical document from in.
// It is pure (in is not mutated) and idempotent: running it over its
// own output changes nothing.
func Normalize(in models.Document) models.Document {
	now := timeNow()
	var out models.Document

	// Companies: uppercase codes, first row per code wins.
	companyByCode := make(map[string]bool)
	for _, c := range in.Companies {
		c.CompanyCode = strings.ToUpper(strings.TrimSpace(c.CompanyCode))
		c.CompanyName = strings.TrimSpace(c.CompanyName)
		if c.CompanyCode == "" || c.CompanyName == "" || companyByCode[c.CompanyCode] {
			continue
		}
		stampRow(&c.ID, &c.CreatedAt, &c.UpdatedAt, now)
		companyByCode[c.CompanyCode] = true
		out.Companies = append(out.Companies, c)
	}

	// Users: lowercase usernames, unknown roles demoted to the least
	// privileged one, employee links only meaningful on employee rows.
	userSeen := make(map[string]bool)
	for _, u := range in.Users {
		u.CompanyCode = strings.ToUpper(strings.TrimSpace(u.CompanyCode))
		u.Username = strings.ToLower(strings.TrimSpace(u.Username))
		if u.CompanyCode == "" || u.Username == "" || u.PinHash == "" {
			continue
		}
		if !models.ValidRole(u.Role) {
			u.Role = models.RoleEmployee
		}
		if u.Role != models.RoleEmployee {
			u.EmployeeID = ""
		}
		key := u.CompanyCode + "\x00" + u.Username
		if userSeen[key] {
			continue
		}
		userSeen[key] = true
		stampRow(&u.ID, &u.CreatedAt, &u.UpdatedAt, now)
		out.Users = append(out.Users, u)
	}

	// Synthesize company records for tenants that only exist as user
	// rows. A lone tenant inherits the recorded settings name.
	out.Settings = models.Settings{
		CompanyName:  strings.TrimSpace(in.Settings.CompanyName),
		LastEditedAt: in.Settings.LastEditedAt,
	}
	tenantCodes := make(map[string]bool)
	for code := range companyByCode {
		if code != models.PlatformCompanyCode {
			tenantCodes[code] = true
		}
	}
	for _, u := range out.Users {
		if u.CompanyCode != models.PlatformCompanyCode {
			tenantCodes[u.CompanyCode] = true
		}
	}
	for _, u := range out.Users {
		code := u.CompanyCode
		if code == models.PlatformCompanyCode || companyByCode[code] {
			continue
		}
		name := code
		if len(tenantCodes) == 1 && out.Settings.CompanyName != "" {
			name = out.Settings.CompanyName
		}
		companyByCode[code] = true
		out.Companies = append(out.Companies, models.Company{
			ID:          newID(),
			CompanyCode: code,
			CompanyName: name,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	companyOK := func(code string) bool {
		return code == models.PlatformCompanyCode || companyByCode[code]
	}

	empByID := make(map[string]models.Employee)
	for _, e := range in.Employees {
		e.CompanyCode = strings.ToUpper(strings.TrimSpace(e.CompanyCode))
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" || !companyOK(e.CompanyCode) {
			continue
		}
		stampRow(&e.ID, &e.CreatedAt, &e.UpdatedAt, now)
		if _, dup := empByID[e.ID]; dup {
			continue
		}
		empByID[e.ID] = e
		out.Employees = append(out.Employees, e)
	}

	locByID := make(map[string]models.Location)
	for _, l := range in.Locations {
		l.CompanyCode = strings.ToUpper(strings.TrimSpace(l.CompanyCode))
		l.Name = strings.TrimSpace(l.Name)
		if l.Name == "" || !companyOK(l.CompanyCode) {
			continue
		}
		stampRow(&l.ID, &l.CreatedAt, &l.UpdatedAt, now)
		if _, dup := locByID[l.ID]; dup {
			continue
		}
		locByID[l.ID] = l
		out.Locations = append(out.Locations, l)
	}

	jobTypeByID := make(map[string]models.JobType)
	for _, jt := range in.JobTypes {
		jt.CompanyCode = strings.ToUpper(strings.TrimSpace(jt.CompanyCode))
		jt.Name = strings.TrimSpace(jt.Name)
		if jt.Name == "" || !companyOK(jt.CompanyCode) {
			continue
		}
		stampRow(&jt.ID, &jt.CreatedAt, &jt.UpdatedAt, now)
		if _, dup := jobTypeByID[jt.ID]; dup {
			continue
		}
		jobTypeByID[jt.ID] = jt
		out.JobTypes = append(out.JobTypes, jt)
	}

	crewByID := make(map[string]models.Crew)
	for _, c := range in.Crews {
		c.CompanyCode = strings.ToUpper(strings.TrimSpace(c.CompanyCode))
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" || !companyOK(c.CompanyCode) {
			continue
		}
		stampRow(&c.ID, &c.CreatedAt, &c.UpdatedAt, now)
		if _, dup := crewByID[c.ID]; dup {
			continue
		}
		crewByID[c.ID] = c
		out.Crews = append(out.Crews, c)
	}

	// Employee-role accounts whose employee disappeared keep the account
	// but lose the link.
	for i := range out.Users {
		if out.Users[i].EmployeeID == "" {
			continue
		}
		emp, ok := empByID[out.Users[i].EmployeeID]
		if !ok || emp.CompanyCode != out.Users[i].CompanyCode {
			out.Users[i].EmployeeID = ""
		}
	}

	// Crew membership: both ends must exist in one company.
	memberSeen := make(map[string]bool)
	for _, cm := range in.CrewMembers {
		crew, crewOK := crewByID[cm.CrewID]
		emp, empOK := empByID[cm.EmployeeID]
		if !crewOK || !empOK || crew.CompanyCode != emp.CompanyCode {
			continue
		}
		cm.CompanyCode = crew.CompanyCode
		key := cm.CompanyCode + "\x00" + cm.CrewID + "\x00" + cm.EmployeeID
		if memberSeen[key] {
			continue
		}
		memberSeen[key] = true
		if cm.ID == "" {
			cm.ID = newID()
		}
		if cm.CreatedAt.IsZero() {
			cm.CreatedAt = now
		}
		out.CrewMembers = append(out.CrewMembers, cm)
	}

	// Shifts: XOR assignee, valid window, location resolves, every
	// reference inside one company (inferred from the location when the
	// row does not carry a code).
	shiftByID := make(map[string]models.Shift)
	for _, s := range in.Shifts {
		s.CompanyCode = strings.ToUpper(strings.TrimSpace(s.CompanyCode))
		s.Date = strings.TrimSpace(s.Date)
		s.Start = strings.TrimSpace(s.Start)
		s.End = strings.TrimSpace(s.End)
		if s.Date == "" || s.Start == "" || s.End == "" || s.End <= s.Start {
			continue
		}
		if (s.EmpID == "") == (s.CrewID == "") {
			continue
		}
		loc, ok := locByID[s.LocID]
		if !ok {
			continue
		}
		if s.CompanyCode == "" {
			s.CompanyCode = loc.CompanyCode
		}
		if loc.CompanyCode != s.CompanyCode {
			continue
		}
		if s.EmpID != "" {
			emp, ok := empByID[s.EmpID]
			if !ok || emp.CompanyCode != s.CompanyCode {
				continue
			}
		}
		if s.CrewID != "" {
			crew, ok := crewByID[s.CrewID]
			if !ok || crew.CompanyCode != s.CompanyCode {
				continue
			}
		}
		stampRow(&s.ID, &s.CreatedAt, &s.UpdatedAt, now)
		if _, dup := shiftByID[s.ID]; dup {
			continue
		}
		shiftByID[s.ID] = s
		out.Shifts = append(out.Shifts, s)
	}

	shiftJobSeen := make(map[string]bool)
	for _, sj := range in.ShiftJobs {
		shift, shiftOK := shiftByID[sj.ShiftID]
		jobType, jobTypeOK := jobTypeByID[sj.JobTypeID]
		if !shiftOK || !jobTypeOK || jobType.CompanyCode != shift.CompanyCode {
			continue
		}
		sj.CompanyCode = shift.CompanyCode
		key := sj.CompanyCode + "\x00" + sj.ShiftID + "\x00" + sj.JobTypeID
		if shiftJobSeen[key] {
			continue
		}
		shiftJobSeen[key] = true
		if sj.ID == "" {
			sj.ID = newID()
		}
		if sj.CreatedAt.IsZero() {
			sj.CreatedAt = now
		}
		out.ShiftJobs = append(out.ShiftJobs, sj)
	}

	// Requests: unknown types are unrecoverable, unknown statuses fall
	// back to pending, malformed proposed PINs are blanked.
	for _, r := range in.Requests {
		if !models.ValidRequestType(r.Type) {
			continue
		}
		r.RequesterUserID = strings.TrimSpace(r.RequesterUserID)
		if r.RequesterUserID == "" {
			continue
		}
		if strings.TrimSpace(r.TargetUserID) == "" {
			r.TargetUserID = r.RequesterUserID
		}
		r.CompanyCode = strings.ToUpper(strings.TrimSpace(r.CompanyCode))
		if !models.ValidRequestStatus(r.Status) {
			r.Status = models.RequestPending
		}
		r.ProposedUsername = strings.ToLower(strings.TrimSpace(r.ProposedUsername))
		if r.ProposedPin != "" && !ValidPin(r.ProposedPin) {
			r.ProposedPin = ""
		}
		if r.ID == "" {
			r.ID = newID()
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = now
		}
		out.Requests = append(out.Requests, r)
	}

	return out
}

// stampRow fills a missing id and missing timestamps in place.
func stampRow(id *string, createdAt, updatedAt *time.Time, now time.Time) {
	if *id == "" {
		*id = newID()
	}
	if createdAt.IsZero() {
		*createdAt = now
	}
	if updatedAt.IsZero() {
		*updatedAt = *createdAt
	}
}
