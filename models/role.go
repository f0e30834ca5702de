package models

import "github.com/google/uuid"

type Role string

const (
	AdministratorRole Role = "administrator"
	AssetManagerRole  Role = "asset_manager"
	TechnicianRole    Role = "technician"
	EmployeeRole      Role = "employee"
)

// SystemUserID is the seeded actor the preventive scheduler reports
// work orders under.
var SystemUserID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

func HasRole(roles []string, want ...Role) bool {
	for _, r := range roles {
		for _, w := range want {
			if Role(r) == w {
				return true
			}
		}
	}
	return false
}
