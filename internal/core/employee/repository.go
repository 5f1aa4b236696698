package employee

import "context"

// Repository は職員の参照用ストアの抽象です。
type Repository interface {
	FindByID(ctx context.Context, id int64) (*Employee, error)
	ListActiveByFacility(ctx context.Context, filter ListActiveFilter) ([]*Employee, error)
}

// ListActiveFilter は在籍中職員の一覧取得条件です。Roles が空の場合は職種で絞り込みません。
type ListActiveFilter struct {
	FacilityID int64
	Roles      []Role
}
