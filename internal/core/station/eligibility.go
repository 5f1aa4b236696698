package station

import "github.com/ogurasousui/health-office-scheduler/internal/core/employee"

// EligibilityMatrix はステーション種別ごとに配置可能な職種を定義します。
type EligibilityMatrix map[Type][]employee.Role

// DefaultEligibility は保健所の標準的な配置ルールです。
var DefaultEligibility = EligibilityMatrix{
	TypeCheckIn:      {employee.RoleAdminStaff, employee.RoleRecordsOfficer, employee.RoleNurse},
	TypeTriage:       {employee.RoleNurse, employee.RoleMidwife},
	TypeConsultation: {employee.RoleDoctor},
	TypeLaboratory:   {employee.RoleMedicalTechnologist},
	TypePharmacy:     {employee.RolePharmacist},
	TypeBilling:      {employee.RoleCashier, employee.RoleAdminStaff},
	TypeDocument:     {employee.RoleRecordsOfficer, employee.RoleAdminStaff},
}

// RolesFor は種別 t に配置可能な職種のコピーを返します。
func (m EligibilityMatrix) RolesFor(t Type) []employee.Role {
	roles := m[t]
	out := make([]employee.Role, len(roles))
	copy(out, roles)
	return out
}

// Permits は職種 role が種別 t のステーションに配置可能かを返します。
func (m EligibilityMatrix) Permits(t Type, role employee.Role) bool {
	for _, r := range m[t] {
		if r == role {
			return true
		}
	}
	return false
}
