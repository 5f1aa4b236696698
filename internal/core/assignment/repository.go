package assignment

import (
	"context"
	"time"

	"github.com/ogurasousui/health-office-scheduler/internal/core/employee"
	"github.com/ogurasousui/health-office-scheduler/internal/core/station"
)

// OverlapQuery は重複検査の条件です。
type OverlapQuery struct {
	Subject   SubjectKind
	SubjectID int64
	Range     DateRange
	// ExcludeAssignmentID が正の場合、その配置は検査対象から除外します。
	ExcludeAssignmentID int64
	// ExcludeStationID が正の場合、そのステーションの配置は検査対象から除外します。
	ExcludeStationID int64
}

// OverlapFinder は重複候補となる配置を取得します。
// 実装は少なくとも主体に一致する有効な配置のうち Range と重なるものを返す必要があります。
type OverlapFinder interface {
	FindOverlapping(ctx context.Context, q OverlapQuery) ([]*Assignment, error)
}

// Repository は配置の永続化の抽象です。
type Repository interface {
	OverlapFinder

	// LockStation はステーション行を排他ロックして返します。
	LockStation(ctx context.Context, id int64) (*station.Station, error)
	// LockEmployee は職員行を排他ロックして返します。
	LockEmployee(ctx context.Context, id int64) (*employee.Employee, error)
	// FindActiveAt はステーションで暦日 date に有効な配置を返します。存在しない場合は ErrAssignmentNotFound です。
	FindActiveAt(ctx context.Context, stationID int64, date time.Time) (*Assignment, error)
	Create(ctx context.Context, a *Assignment) (*Assignment, error)
	UpdateEndDate(ctx context.Context, id int64, end time.Time) (*Assignment, error)
	Deactivate(ctx context.Context, id int64) (*Assignment, error)
	AppendAudit(ctx context.Context, entry *AuditEntry) error
}

// QueryRepository は表示用の参照クエリの抽象です。
type QueryRepository interface {
	StationsAsOf(ctx context.Context, date time.Time) ([]*StationView, error)
	ListByStation(ctx context.Context, stationID int64) ([]*Assignment, error)
	ListActiveByEmployee(ctx context.Context, employeeID int64, from time.Time) ([]*Assignment, error)
}
