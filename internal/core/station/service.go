package station

import (
	"context"
	"fmt"

	"github.com/ogurasousui/health-office-scheduler/internal/core/employee"
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

// Registry はステーションの参照ユースケースを提供します。
type Registry interface {
	GetStation(ctx context.Context, id int64) (*Station, error)
	ListStations(ctx context.Context, in ListStationsInput) ([]*Station, error)
	EligibleRoles(t Type) ([]employee.Role, error)
}

// ListStationsInput は一覧取得時の入力です。
type ListStationsInput struct {
	ActiveOnly bool
	Type       *Type
}

// Service は Registry の実装です。
type Service struct {
	repo        Repository
	eligibility EligibilityMatrix
	tx          TransactionManager
}

// NewService は Service を生成します。eligibility が nil の場合は DefaultEligibility を利用します。
func NewService(repo Repository, eligibility EligibilityMatrix, tx TransactionManager) *Service {
	if eligibility == nil {
		eligibility = DefaultEligibility
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, eligibility: eligibility, tx: tx}
}

// GetStation はステーションを取得します。
func (s *Service) GetStation(ctx context.Context, id int64) (*Station, error) {
	if id <= 0 {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var result *Station
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

// ListStations はステーションの一覧を種別・番号順に返します。
func (s *Service) ListStations(ctx context.Context, in ListStationsInput) ([]*Station, error) {
	if in.Type != nil && !in.Type.IsValid() {
		return nil, ErrInvalidType
	}

	var stations []*Station
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.List(txCtx, ListStationsFilter{ActiveOnly: in.ActiveOnly, Type: in.Type})
		if err != nil {
			return err
		}
		stations = found
		return nil
	}); err != nil {
		return nil, err
	}

	if stations == nil {
		stations = []*Station{}
	}
	return stations, nil
}

// EligibleRoles は種別 t に配置可能な職種を返します。
func (s *Service) EligibleRoles(t Type) ([]employee.Role, error) {
	if !t.IsValid() {
		return nil, ErrInvalidType
	}
	return s.eligibility.RolesFor(t), nil
}
