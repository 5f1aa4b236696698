package station

import "context"

// Repository はステーションの永続化を行うインターフェースです。
type Repository interface {
	FindByID(ctx context.Context, id int64) (*Station, error)
	List(ctx context.Context, filter ListStationsFilter) ([]*Station, error)
	UpdateActive(ctx context.Context, id int64, active bool) (*Station, error)
}

// ListStationsFilter は一覧取得時の検索条件を表します。
type ListStationsFilter struct {
	ActiveOnly bool
	Type       *Type
}
