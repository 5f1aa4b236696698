package assignment

import (
	"errors"
	"fmt"

	"github.com/ogurasousui/health-office-scheduler/internal/core/employee"
	"github.com/ogurasousui/health-office-scheduler/internal/core/station"
)

var (
	// ErrValidation は入力が欠落・不正な場合に返却されます。詳細は ValidationError を参照します。
	ErrValidation = errors.New("assignment: invalid input")
	// ErrEmployeeAlreadyAssigned は職員側の期間重複で返却されます。
	ErrEmployeeAlreadyAssigned = errors.New("assignment: employee already assigned")
	// ErrStationAlreadyOccupied はステーション側の期間重複で返却されます。
	ErrStationAlreadyOccupied = errors.New("assignment: station already occupied")
	// ErrRoleMismatch は職種がステーション種別に適合しない場合に返却されます。
	ErrRoleMismatch = errors.New("assignment: employee role not eligible for station")
	// ErrNoActiveAssignment は解除対象の有効な配置がない場合に返却されます。
	ErrNoActiveAssignment = errors.New("assignment: no active assignment")
	// ErrNoCurrentAssignment は交代対象の現在の配置がない場合に返却されます。
	ErrNoCurrentAssignment = errors.New("assignment: no current assignment")
	// ErrInvalidRemovalDate は終了日が開始日より前になってしまう場合に返却されます。
	ErrInvalidRemovalDate = errors.New("assignment: removal date precedes assignment start")
	// ErrStationInactive は無効化されたステーションへ新たに配置しようとした場合に返却されます。
	ErrStationInactive = errors.New("assignment: station is inactive")
	// ErrEmployeeInactive は在籍していない職員を配置しようとした場合に返却されます。
	ErrEmployeeInactive = errors.New("assignment: employee is inactive")
	// ErrAssignmentNotFound はリポジトリで配置が見つからない場合に返却されます。
	ErrAssignmentNotFound = errors.New("assignment: not found")
	// ErrStorage は永続化層の予期しない失敗を表します。内部の詳細は含みません。
	ErrStorage = errors.New("assignment: storage failure")
)

// ValidationError は不正な入力項目を表します。
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("assignment: invalid %s: %s", e.Field, e.Reason)
}

// Is は ErrValidation との比較を可能にします。
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ConflictError は期間重複により配置できない場合のエラーです。
// Existing は衝突した既存の配置で、利用者向けメッセージの組み立てに使います。
// ストレージの排他制約で検出した場合は Existing が nil になります。
type ConflictError struct {
	Subject  SubjectKind
	Existing *Assignment
}

func (e *ConflictError) Error() string {
	if e.Existing == nil {
		if e.Subject == SubjectEmployee {
			return ErrEmployeeAlreadyAssigned.Error()
		}
		return ErrStationAlreadyOccupied.Error()
	}

	a := e.Existing
	if e.Subject == SubjectEmployee {
		return fmt.Sprintf("assignment: employee %d is already assigned to %s (station %d, shift %s, %s)",
			a.EmployeeID, displayName(a.StationName, "station"), a.StationID, a.Shift, a.Range())
	}
	return fmt.Sprintf("assignment: station %d is already occupied by %s (employee %d, shift %s, %s)",
		a.StationID, displayName(a.EmployeeName, "another employee"), a.EmployeeID, a.Shift, a.Range())
}

// Is は主体に応じた番兵エラーとの比較を可能にします。
func (e *ConflictError) Is(target error) bool {
	switch e.Subject {
	case SubjectEmployee:
		return target == ErrEmployeeAlreadyAssigned
	case SubjectStation:
		return target == ErrStationAlreadyOccupied
	default:
		return false
	}
}

func displayName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return fmt.Sprintf("%q", name)
}

// RoleMismatchError は職種とステーション種別の不適合を表します。
type RoleMismatchError struct {
	EmployeeID  int64
	Role        employee.Role
	StationType station.Type
}

func (e *RoleMismatchError) Error() string {
	return fmt.Sprintf("assignment: employee %d with role %s cannot staff a %s station", e.EmployeeID, e.Role, e.StationType)
}

// Is は ErrRoleMismatch との比較を可能にします。
func (e *RoleMismatchError) Is(target error) bool {
	return target == ErrRoleMismatch
}

// StorageError は永続化層の失敗を呼び出し元向けに一般化したものです。原因はログにのみ出力します。
type StorageError struct {
	Op    string
	cause error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("assignment: storage failure during %s", e.Op)
}

// Is は ErrStorage との比較を可能にします。
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// Cause はログ出力用に元のエラーを返します。
func (e *StorageError) Cause() error {
	return e.cause
}

// isDomainError は呼び出し元へそのまま返してよい既知のエラーかを判定します。
func isDomainError(err error) bool {
	for _, known := range []error{
		ErrValidation,
		ErrEmployeeAlreadyAssigned,
		ErrStationAlreadyOccupied,
		ErrRoleMismatch,
		ErrNoActiveAssignment,
		ErrNoCurrentAssignment,
		ErrInvalidRemovalDate,
		ErrStationInactive,
		ErrEmployeeInactive,
		ErrAssignmentNotFound,
		ErrStorage,
		station.ErrStationNotFound,
		station.ErrInvalidID,
		station.ErrInvalidType,
		employee.ErrEmployeeNotFound,
		employee.ErrInvalidID,
		employee.ErrInvalidFacilityID,
		employee.ErrInvalidRole,
	} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}
