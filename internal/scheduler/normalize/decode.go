package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/gartstein/shiftstore/internal/scheduler/models"
)

// Table aliases and row shapes that older persisted documents used.
// Each legacy shape is decoded explicitly here so the invariant pass in
// normalize.go only ever sees canonical records.
//
//   - "jobSites" was the original name of the locations table
//   - "crewAssignments" held flat {crew, employee} membership rows
//   - shifts carried a {targetKind, targetId} assignee pair
//   - shifts embedded a jobTypeIds array instead of shiftJobs rows

// ParseDocument leniently decodes a persisted document. Malformed input
// never fails: unreadable tables and rows decay to nothing and the
// result still has to pass the invariant checks in Normalize.
func ParseDocument(data []byte) models.Document {
	var root map[string]any
	if len(data) == 0 || json.Unmarshal(data, &root) != nil {
		return models.Document{}
	}

	var doc models.Document
	for _, row := range tableRows(root, "companies", "company") {
		doc.Companies = append(doc.Companies, models.Company{
			ID:          strField(row, "id"),
			CompanyCode: strField(row, "companyCode", "company_code", "code"),
			CompanyName: strField(row, "companyName", "company_name", "name"),
			IsDisabled:  boolField(row, false, "isDisabled", "disabled"),
			CreatedAt:   timeField(row, "createdAt"),
			UpdatedAt:   timeField(row, "updatedAt"),
		})
	}
	for _, row := range tableRows(root, "users", "accounts") {
		doc.Users = append(doc.Users, models.User{
			ID:          strField(row, "id"),
			CompanyCode: strField(row, "companyCode", "company_code"),
			Username:    strField(row, "username"),
			PinHash:     strField(row, "pinHash", "pin_hash"),
			Role:        models.Role(strField(row, "role")),
			EmployeeID:  strField(row, "employeeId", "employee_id"),
			Active:      boolField(row, true, "active"),
			CreatedAt:   timeField(row, "createdAt"),
			UpdatedAt:   timeField(row, "updatedAt"),
		})
	}
	for _, row := range tableRows(root, "employees") {
		doc.Employees = append(doc.Employees, models.Employee{
			ID:          strField(row, "id"),
			CompanyCode: strField(row, "companyCode", "company_code"),
			Name:        strField(row, "name"),
			Contact:     strField(row, "contact", "phone"),
			Active:      boolField(row, true, "active"),
			CreatedAt:   timeField(row, "createdAt"),
			UpdatedAt:   timeField(row, "updatedAt"),
		})
	}
	for _, row := range tableRows(root, "locations", "jobSites") {
		doc.Locations = append(doc.Locations, models.Location{
			ID:          strField(row, "id"),
			CompanyCode: strField(row, "companyCode", "company_code"),
			Name:        strField(row, "name"),
			Address:     strField(row, "address"),
			Active:      boolField(row, true, "active"),
			CreatedAt:   timeField(row, "createdAt"),
			UpdatedAt:   timeField(row, "updatedAt"),
		})
	}
	for _, row := range tableRows(root, "jobTypes") {
		doc.JobTypes = append(doc.JobTypes, models.JobType{
			ID:          strField(row, "id"),
			CompanyCode: strField(row, "companyCode", "company_code"),
			Name:        strField(row, "name"),
			Active:      boolField(row, true, "active"),
			CreatedAt:   timeField(row, "createdAt"),
			UpdatedAt:   timeField(row, "updatedAt"),
		})
	}
	for _, row := range tableRows(root, "crews") {
		doc.Crews = append(doc.Crews, models.Crew{
			ID:          strField(row, "id"),
			CompanyCode: strField(row, "companyCode", "company_code"),
			Name:        strField(row, "name"),
			Active:      boolField(row, true, "active"),
			CreatedAt:   timeField(row, "createdAt"),
			UpdatedAt:   timeField(row, "updatedAt"),
		})
	}
	for _, row := range tableRows(root, "crewMembers", "crewAssignments") {
		doc.CrewMembers = append(doc.CrewMembers, models.CrewMember{
			ID:          strField(row, "id"),
			CompanyCode: strField(row, "companyCode", "company_code"),
			CrewID:      strField(row, "crewId", "crew_id", "crew"),
			EmployeeID:  strField(row, "employeeId", "employee_id", "employee"),
			CreatedAt:   timeField(row, "createdAt"),
		})
	}
	for _, row := range tableRows(root, "shifts") {
		shift := models.Shift{
			ID:          strField(row, "id"),
			CompanyCode: strField(row, "companyCode", "company_code"),
			Date:        strField(row, "date"),
			Start:       strField(row, "start", "startTime"),
			End:         strField(row, "end", "endTime"),
			LocID:       strField(row, "locId", "loc_id", "locationId"),
			EmpID:       strField(row, "empId", "emp_id"),
			CrewID:      strField(row, "crewId", "crew_id"),
			Notes:       strField(row, "notes"),
			CreatedAt:   timeField(row, "createdAt"),
			UpdatedAt:   timeField(row, "updatedAt"),
		}
		// Legacy assignee pair. Only applied when the canonical fields
		// are absent so a half-migrated row cannot end up double-assigned.
		if shift.EmpID == "" && shift.CrewID == "" {
			targetID := strField(row, "targetId", "target_id")
			switch strings.ToLower(strField(row, "targetKind", "target_kind")) {
			case "employee", "emp":
				shift.EmpID = targetID
			case "crew":
				shift.CrewID = targetID
			}
		}
		// Legacy embedded job-type list becomes shiftJobs rows; the
		// shift needs an id now so the join rows can point at it.
		if ids := stringList(row, "jobTypeIds", "job_type_ids"); len(ids) > 0 {
			if shift.ID == "" {
				shift.ID = newID()
			}
			for _, jobTypeID := range ids {
				doc.ShiftJobs = append(doc.ShiftJobs, models.ShiftJob{
					ShiftID:   shift.ID,
					JobTypeID: jobTypeID,
				})
			}
		}
		doc.Shifts = append(doc.Shifts, shift)
	}
	for _, row := range tableRows(root, "shiftJobs") {
		doc.ShiftJobs = append(doc.ShiftJobs, models.ShiftJob{
			ID:          strField(row, "id"),
			CompanyCode: strField(row, "companyCode", "company_code"),
			ShiftID:     strField(row, "shiftId", "shift_id"),
			JobTypeID:   strField(row, "jobTypeId", "job_type_id"),
			CreatedAt:   timeField(row, "createdAt"),
		})
	}
	for _, row := range tableRows(root, "requests") {
		doc.Requests = append(doc.Requests, models.CredentialChangeRequest{
			ID:               strField(row, "id"),
			CompanyCode:      strField(row, "companyCode", "company_code"),
			Type:             models.RequestType(strField(row, "type")),
			Status:           models.RequestStatus(strField(row, "status")),
			RequesterUserID:  strField(row, "requesterUserId", "requester_user_id"),
			TargetUserID:     strField(row, "targetUserId", "target_user_id"),
			ProposedUsername: strField(row, "proposedUsername"),
			ProposedPin:      strField(row, "proposedPin"),
			DecisionNote:     strField(row, "decisionNote"),
			CreatedAt:        timeField(row, "createdAt"),
			HandledAt:        timeField(row, "handledAt"),
			HandledBy:        strField(row, "handledBy"),
		})
	}
	if settings, ok := root["settings"].(map[string]any); ok {
		doc.Settings = models.Settings{
			CompanyName:  strField(settings, "companyName", "company_name"),
			LastEditedAt: timeField(settings, "lastEditedAt"),
		}
	}
	return doc
}

// tableRows returns the first present alias of a table as object rows.
// Anything that is not an array of objects decays to nothing.
func tableRows(root map[string]any, names ...string) []map[string]any {
	for _, name := range names {
		raw, ok := root[name].([]any)
		if !ok {
			continue
		}
		rows := make([]map[string]any, 0, len(raw))
		for _, entry := range raw {
			if row, ok := entry.(map[string]any); ok {
				rows = append(rows, row)
			}
		}
		return rows
	}
	return nil
}

// strField returns the first present key coerced to a trimmed string.
// Numeric ids from older exports are stringified rather than dropped.
func strField(row map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := row[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func boolField(row map[string]any, def bool, keys ...string) bool {
	for _, key := range keys {
		if v, ok := row[key].(bool); ok {
			return v
		}
	}
	return def
}

// timeField accepts RFC 3339 strings and epoch-millisecond numbers.
func timeField(row map[string]any, keys ...string) time.Time {
	for _, key := range keys {
		switch v := row[key].(type) {
		case string:
			if t, err := time.Parse(time.RFC3339, strings.TrimSpace(v)); err == nil {
				return t
			}
		case float64:
			if v > 0 {
				return time.UnixMilli(int64(v)).UTC()
			}
		}
	}
	return time.Time{}
}

func stringList(row map[string]any, keys ...string) []string {
	for _, key := range keys {
		raw, ok := row[key].([]any)
		if !ok {
			continue
		}
		var out []string
		for _, entry := range raw {
			if s, ok := entry.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	}
	return nil
}
