package assignment

import (
	"time"

	"github.com/ogurasousui/health-office-scheduler/internal/core/employee"
	"github.com/ogurasousui/health-office-scheduler/internal/core/station"
)

// Kind は配置の種類です。区間の扱いは終了日の有無で決まり、Kind は表示用のラベルです。
type Kind string

const (
	KindPermanent Kind = "permanent"
	KindTemporary Kind = "temporary"
)

// RemovalType は配置解除の方法です。
type RemovalType string

const (
	// RemovalEndAssignment は解除日の前日で配置を終了させます。
	RemovalEndAssignment RemovalType = "end_assignment"
	// RemovalDeactivate は配置レコードを無効化します。レコードは監査用に残ります。
	RemovalDeactivate RemovalType = "deactivate"
)

// SubjectKind は重複検査の対象です。
type SubjectKind string

const (
	SubjectEmployee SubjectKind = "employee"
	SubjectStation  SubjectKind = "station"
)

// Assignment は職員をステーションへ期間・勤務時間帯付きで割り当てるレコードです。
// EndDate による期間の終了と Active による無効化は独立した二つの軸です。
type Assignment struct {
	ID         int64
	EmployeeID int64
	StationID  int64
	StartDate  time.Time
	EndDate    *time.Time
	Shift      Shift
	Active     bool
	AssignedBy int64
	CreatedAt  time.Time

	// 参照時に結合される表示用の情報です。
	EmployeeName string
	StationName  string
}

// Range は配置の期間を返します。
func (a *Assignment) Range() DateRange {
	return DateRange{Start: a.StartDate, End: a.EndDate}
}

// Kind は終了日の有無から配置の種類を返します。
func (a *Assignment) Kind() Kind {
	if a.EndDate == nil {
		return KindPermanent
	}
	return KindTemporary
}

// ActiveOn は暦日 d に有効な配置かを返します。
func (a *Assignment) ActiveOn(d time.Time) bool {
	return a.Active && a.Range().Contains(d)
}

// State は配置のライフサイクル上の状態を asOf 時点で返します。
func (a *Assignment) State(asOf time.Time) State {
	switch {
	case !a.Active:
		return StateDeactivated
	case a.EndDate != nil && a.EndDate.Before(Day(asOf)):
		return StateEnded
	case a.EndDate == nil:
		return StateActivePermanent
	default:
		return StateActiveTemporary
	}
}

// State は配置の状態です。
type State string

const (
	StateActivePermanent State = "active_permanent"
	StateActiveTemporary State = "active_temporary"
	StateEnded           State = "ended"
	StateDeactivated     State = "deactivated"
)

// StationView はある日付時点のステーションと、その日に有効な配置・職員の組です。空席の場合 Assignment と Employee は nil です。
type StationView struct {
	Station    station.Station
	Assignment *Assignment
	Employee   *employee.Employee
}

// Vacant は空席かどうかを返します。
func (v *StationView) Vacant() bool {
	return v.Assignment == nil
}

// AuditAction は監査ログの操作種別です。
type AuditAction string

const (
	AuditAssigned        AuditAction = "assigned"
	AuditEnded           AuditAction = "ended"
	AuditDeactivated     AuditAction = "deactivated"
	AuditReassigned      AuditAction = "reassigned"
	AuditStationEnabled  AuditAction = "station_enabled"
	AuditStationDisabled AuditAction = "station_disabled"
)

// AuditEntry は配置操作の監査ログです。
type AuditEntry struct {
	ID            int64
	AssignmentID  *int64
	StationID     int64
	Action        AuditAction
	PerformedBy   int64
	EffectiveDate *time.Time
	CreatedAt     time.Time
}
