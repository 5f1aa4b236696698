package employee

// Role は職員の職種を表します。
type Role string

const (
	RoleDoctor              Role = "doctor"
	RoleNurse               Role = "nurse"
	RoleMidwife             Role = "midwife"
	RolePharmacist          Role = "pharmacist"
	RoleMedicalTechnologist Role = "medical_technologist"
	RoleCashier             Role = "cashier"
	RoleRecordsOfficer      Role = "records_officer"
	RoleAdminStaff          Role = "admin_staff"
)

// Roles は既知の職種の一覧です。
var Roles = []Role{
	RoleDoctor,
	RoleNurse,
	RoleMidwife,
	RolePharmacist,
	RoleMedicalTechnologist,
	RoleCashier,
	RoleRecordsOfficer,
	RoleAdminStaff,
}

// IsValid は既知の職種かどうかを返します。
func (r Role) IsValid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Employee は職員エンティティです。スケジューラからは参照のみ行います。
type Employee struct {
	ID         int64
	FacilityID int64
	Name       string
	Role       Role
	Active     bool
}
