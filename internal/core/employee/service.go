package employee

import (
	"context"
	"fmt"
)

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// UseCase は職員参照ユースケースの公開インターフェースです。
type UseCase interface {
	GetEmployee(ctx context.Context, id int64) (*Employee, error)
	ActiveEmployeesByFacility(ctx context.Context, facilityID int64, roles ...Role) ([]*Employee, error)
}

// Service は職員の参照ユースケースをまとめます。
type Service struct {
	repo Repository
	tx   TransactionManager
}

// NewService は Service を生成します。
func NewService(repo Repository, tx TransactionManager) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, tx: tx}
}

// GetEmployee は職員を取得します。
func (s *Service) GetEmployee(ctx context.Context, id int64) (*Employee, error) {
	if id <= 0 {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var result *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// ActiveEmployeesByFacility は施設に所属する在籍中の職員を返します。roles を指定した場合はその職種に絞り込みます。
func (s *Service) ActiveEmployeesByFacility(ctx context.Context, facilityID int64, roles ...Role) ([]*Employee, error) {
	if facilityID <= 0 {
		return nil, ErrInvalidFacilityID
	}
	for _, role := range roles {
		if !role.IsValid() {
			return nil, fmt.Errorf("%q: %w", role, ErrInvalidRole)
		}
	}

	var employees []*Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.ListActiveByFacility(txCtx, ListActiveFilter{FacilityID: facilityID, Roles: roles})
		if err != nil {
			return err
		}
		employees = found
		return nil
	}); err != nil {
		return nil, err
	}

	if employees == nil {
		employees = []*Employee{}
	}
	return employees, nil
}
