package normalize

import (
	"testing"
	"time"

	"github.com/gartstein/shiftstore/internal/scheduler/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromJSONMalformedInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty input", nil},
		{"not json", []byte("definitely not json")},
		{"wrong top-level type", []byte(`[1, 2, 3]`)},
		{"tables with wrong types", []byte(`{"companies": 42, "users": "nope", "shifts": {"a": 1}}`)},
		{"rows with wrong types", []byte(`{"companies": [1, "two", null]}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := FromJSON(tt.data)
			assert.Empty(t, doc.Companies)
			assert.Empty(t, doc.Users)
			assert.Empty(t, doc.Shifts)
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	data := []byte(`{
		"companies": [
			{"companyCode": "acme", "companyName": "  Acme Inc  "},
			{"companyCode": "", "companyName": "No Code"},
			{"companyCode": "ACME", "companyName": "Duplicate"}
		],
		"users": [
			{"companyCode": "acme", "username": "BOB", "pinHash": "h1", "role": "manager", "employeeId": "e1"},
			{"companyCode": "zeta", "username": "jane", "pinHash": "h2", "role": "mystery_role"},
			{"companyCode": "acme", "username": "nohash"}
		],
		"employees": [
			{"id": "e1", "companyCode": "ACME", "name": "Jane"},
			{"companyCode": "ACME", "name": "   "}
		],
		"jobSites": [{"id": "l1", "companyCode": "ACME", "name": "Plant 7"}],
		"shifts": [
			{"date": "2024-01-08", "start": "09:00", "end": "17:00", "locId": "l1", "empId": "e1"}
		]
	}`)

	once := FromJSON(data)
	twice := Normalize(once)
	require.Equal(t, once, twice)

	thrice := Normalize(twice)
	require.Equal(t, twice, thrice)
}

func TestNormalizeCompanies(t *testing.T) {
	doc := Normalize(models.Document{
		Companies: []models.Company{
			{CompanyCode: " acme ", CompanyName: " Acme Inc "},
			{CompanyCode: "ACME", CompanyName: "Shadow"},
			{CompanyCode: "BETA", CompanyName: ""},
		},
	})
	require.Len(t, doc.Companies, 1)
	assert.Equal(t, "ACME", doc.Companies[0].CompanyCode)
	assert.Equal(t, "Acme Inc", doc.Companies[0].CompanyName)
	assert.NotEmpty(t, doc.Companies[0].ID)
	assert.False(t, doc.Companies[0].CreatedAt.IsZero())
}

func TestNormalizeUsers(t *testing.T) {
	doc := Normalize(models.Document{
		Companies: []models.Company{{CompanyCode: "ACME", CompanyName: "Acme"}},
		Users: []models.User{
			{CompanyCode: "acme", Username: " BOB ", PinHash: "h1", Role: "superuser", EmployeeID: "e9"},
			{CompanyCode: "ACME", Username: "bob", PinHash: "h2"},
			{CompanyCode: "ACME", Username: "", PinHash: "h3"},
			{CompanyCode: "ACME", Username: "carol", PinHash: ""},
		},
	})
	require.Len(t, doc.Users, 1)
	u := doc.Users[0]
	assert.Equal(t, "bob", u.Username)
	assert.Equal(t, "ACME", u.CompanyCode)
	// Unknown roles fall back to the least privileged one, and only
	// employee accounts keep an employee link.
	assert.Equal(t, models.RoleEmployee, u.Role)
	assert.Empty(t, u.EmployeeID, "employee link must drop when the employee does not exist")
}

func TestNormalizeInfersCompanies(t *testing.T) {
	t.Run("single tenant uses settings name", func(t *testing.T) {
		doc := Normalize(models.Document{
			Users: []models.User{
				{CompanyCode: "ACME", Username: "bob", PinHash: "h1", Role: models.RoleManager},
			},
			Settings: models.Settings{CompanyName: "Acme Janitorial"},
		})
		require.Len(t, doc.Companies, 1)
		assert.Equal(t, "ACME", doc.Companies[0].CompanyCode)
		assert.Equal(t, "Acme Janitorial", doc.Companies[0].CompanyName)
	})

	t.Run("multiple tenants fall back to the code", func(t *testing.T) {
		doc := Normalize(models.Document{
			Users: []models.User{
				{CompanyCode: "ACME", Username: "bob", PinHash: "h1", Role: models.RoleManager},
				{CompanyCode: "ZETA", Username: "jane", PinHash: "h2", Role: models.RoleManager},
			},
			Settings: models.Settings{CompanyName: "Acme Janitorial"},
		})
		require.Len(t, doc.Companies, 2)
		assert.Equal(t, "ACME", doc.Companies[0].CompanyName)
		assert.Equal(t, "ZETA", doc.Companies[1].CompanyName)
	})

	t.Run("platform users never synthesize a company", func(t *testing.T) {
		doc := Normalize(models.Document{
			Users: []models.User{
				{CompanyCode: models.PlatformCompanyCode, Username: "root", PinHash: "h1", Role: models.RolePlatformAdmin},
			},
		})
		assert.Empty(t, doc.Companies)
		require.Len(t, doc.Users, 1)
	})
}

func TestNormalizeShifts(t *testing.T) {
	base := models.Document{
		Companies: []models.Company{
			{CompanyCode: "ACME", CompanyName: "Acme"},
			{CompanyCode: "ZETA", CompanyName: "Zeta"},
		},
		Employees: []models.Employee{
			{ID: "e1", CompanyCode: "ACME", Name: "Jane", Active: true},
			{ID: "e2", CompanyCode: "ZETA", Name: "Ada", Active: true},
		},
		Crews: []models.Crew{{ID: "c1", CompanyCode: "ACME", Name: "Night", Active: true}},
		Locations: []models.Location{
			{ID: "l1", CompanyCode: "ACME", Name: "Plant 7", Active: true},
		},
	}

	tests := []struct {
		name  string
		shift models.Shift
		keep  bool
	}{
		{"valid employee shift", models.Shift{Date: "2024-01-08", Start: "09:00", End: "17:00", LocID: "l1", EmpID: "e1"}, true},
		{"valid crew shift", models.Shift{Date: "2024-01-08", Start: "09:00", End: "17:00", LocID: "l1", CrewID: "c1"}, true},
		{"both assignees", models.Shift{Date: "2024-01-08", Start: "09:00", End: "17:00", LocID: "l1", EmpID: "e1", CrewID: "c1"}, false},
		{"no assignee", models.Shift{Date: "2024-01-08", Start: "09:00", End: "17:00", LocID: "l1"}, false},
		{"end before start", models.Shift{Date: "2024-01-08", Start: "17:00", End: "09:00", LocID: "l1", EmpID: "e1"}, false},
		{"end equals start", models.Shift{Date: "2024-01-08", Start: "09:00", End: "09:00", LocID: "l1", EmpID: "e1"}, false},
		{"missing location", models.Shift{Date: "2024-01-08", Start: "09:00", End: "17:00", LocID: "nope", EmpID: "e1"}, false},
		{"missing date", models.Shift{Start: "09:00", End: "17:00", LocID: "l1", EmpID: "e1"}, false},
		{"cross-tenant employee", models.Shift{Date: "2024-01-08", Start: "09:00", End: "17:00", LocID: "l1", EmpID: "e2"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			in.Shifts = []models.Shift{tt.shift}
			out := Normalize(in)
			if !tt.keep {
				assert.Empty(t, out.Shifts)
				return
			}
			require.Len(t, out.Shifts, 1)
			// Company inferred from the location when absent.
			assert.Equal(t, "ACME", out.Shifts[0].CompanyCode)
		})
	}
}

func TestNormalizeShiftJobsDeduplicated(t *testing.T) {
	doc := Normalize(models.Document{
		Companies: []models.Company{{CompanyCode: "ACME", CompanyName: "Acme"}},
		Employees: []models.Employee{{ID: "e1", CompanyCode: "ACME", Name: "Jane", Active: true}},
		Locations: []models.Location{{ID: "l1", CompanyCode: "ACME", Name: "Plant 7", Active: true}},
		JobTypes: []models.JobType{
			{ID: "j1", CompanyCode: "ACME", Name: "Windows", Active: true},
			{ID: "j2", CompanyCode: "ACME", Name: "Floors", Active: true},
		},
		Shifts: []models.Shift{
			{ID: "s1", CompanyCode: "ACME", Date: "2024-01-08", Start: "09:00", End: "17:00", LocID: "l1", EmpID: "e1"},
		},
		ShiftJobs: []models.ShiftJob{
			{ShiftID: "s1", JobTypeID: "j1"},
			{ShiftID: "s1", JobTypeID: "j1"},
			{ShiftID: "s1", JobTypeID: "j2"},
			{ShiftID: "s1", JobTypeID: "unknown"},
			{ShiftID: "ghost", JobTypeID: "j1"},
		},
	})
	require.Len(t, doc.ShiftJobs, 2)
	assert.Equal(t, "j1", doc.ShiftJobs[0].JobTypeID)
	assert.Equal(t, "j2", doc.ShiftJobs[1].JobTypeID)
	assert.Equal(t, "ACME", doc.ShiftJobs[0].CompanyCode)
}

func TestNormalizeRequests(t *testing.T) {
	doc := Normalize(models.Document{
		Requests: []models.CredentialChangeRequest{
			{Type: "employee_change_credentials", Status: "wat", RequesterUserID: "u1", ProposedPin: "12345"},
			{Type: "bogus_type", RequesterUserID: "u2"},
			{Type: "manager_change_credentials", Status: "approved", RequesterUserID: "u3", TargetUserID: ""},
			{Type: "employee_change_credentials", RequesterUserID: ""},
		},
	})
	require.Len(t, doc.Requests, 2)

	first := doc.Requests[0]
	assert.Equal(t, models.RequestPending, first.Status, "unknown status falls back to pending")
	assert.Empty(t, first.ProposedPin, "malformed PIN is blanked")
	assert.Equal(t, "u1", first.TargetUserID, "missing target defaults to the requester")

	second := doc.Requests[1]
	assert.Equal(t, models.RequestApproved, second.Status)
	assert.Equal(t, "u3", second.TargetUserID)
}

func TestParseDocumentLegacyShapes(t *testing.T) {
	data := []byte(`{
		"companies": [{"companyCode": "ACME", "companyName": "Acme"}],
		"employees": [{"id": "e1", "companyCode": "ACME", "name": "Jane"}],
		"crews": [{"id": "c1", "companyCode": "ACME", "name": "Night"}],
		"jobSites": [{"id": "l1", "companyCode": "ACME", "name": "Plant 7"}],
		"jobTypes": [{"id": "j1", "companyCode": "ACME", "name": "Windows"}],
		"crewAssignments": [{"crew": "c1", "employee": "e1"}],
		"shifts": [
			{"date": "2024-01-08", "start": "09:00", "end": "17:00", "locId": "l1",
			 "targetKind": "employee", "targetId": "e1", "jobTypeIds": ["j1", "j1"]}
		]
	}`)

	doc := FromJSON(data)

	require.Len(t, doc.Locations, 1, "jobSites folds into locations")
	require.Len(t, doc.CrewMembers, 1, "crewAssignments folds into crewMembers")
	assert.Equal(t, "c1", doc.CrewMembers[0].CrewID)
	assert.Equal(t, "e1", doc.CrewMembers[0].EmployeeID)
	assert.Equal(t, "ACME", doc.CrewMembers[0].CompanyCode)

	require.Len(t, doc.Shifts, 1)
	assert.Equal(t, "e1", doc.Shifts[0].EmpID, "legacy targetKind/targetId maps to empId")
	assert.Empty(t, doc.Shifts[0].CrewID)

	require.Len(t, doc.ShiftJobs, 1, "embedded jobTypeIds become deduplicated shiftJobs rows")
	assert.Equal(t, doc.Shifts[0].ID, doc.ShiftJobs[0].ShiftID)
	assert.Equal(t, "j1", doc.ShiftJobs[0].JobTypeID)
}

func TestParseDocumentFieldCoercion(t *testing.T) {
	data := []byte(`{
		"companies": [{"companyCode": "ACME", "companyName": "Acme", "createdAt": "2024-01-01T00:00:00Z"}],
		"employees": [{"id": 41, "companyCode": "ACME", "name": "Jane", "createdAt": 1704067200000}]
	}`)

	doc := ParseDocument(data)
	require.Len(t, doc.Companies, 1)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), doc.Companies[0].CreatedAt)

	require.Len(t, doc.Employees, 1)
	assert.Equal(t, "41", doc.Employees[0].ID, "numeric ids are stringified")
	assert.Equal(t, 2024, doc.Employees[0].CreatedAt.Year(), "epoch millis parse")
}

func TestValidPin(t *testing.T) {
	assert.True(t, ValidPin("0412"))
	assert.False(t, ValidPin("123"))
	assert.False(t, ValidPin("12345"))
	assert.False(t, ValidPin("12a4"))
	assert.False(t, ValidPin(""))
}
