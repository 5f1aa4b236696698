package assignment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ogurasousui/health-office-scheduler/internal/core/employee"
	"github.com/ogurasousui/health-office-scheduler/internal/core/station"
)

// QueryUseCase は表示用の参照ユースケースです。結果は表示・入力補助用であり、変更時には Service が必ず再検証します。
type QueryUseCase interface {
	StationsAsOf(ctx context.Context, date time.Time) ([]*StationView, error)
	StationHistory(ctx context.Context, stationID int64) ([]*Assignment, error)
	EmployeeSchedule(ctx context.Context, employeeID int64, from time.Time) ([]*Assignment, error)
	EligibleEmployees(ctx context.Context, in EligibleEmployeesInput) ([]*Candidate, error)
	ActiveEmployeesByFacility(ctx context.Context, facilityID int64) ([]*employee.Employee, error)
}

// EligibleEmployeesInput は配置候補の検索条件です。Date の時点で他に配置されているかを Candidate に付与します。
type EligibleEmployeesInput struct {
	FacilityID int64
	StationID  int64
	Date       time.Time
}

// Candidate は配置候補の職員と、指定日に有効な既存配置です。
type Candidate struct {
	Employee *employee.Employee
	Current  *Assignment
}

// Available は指定日に他の配置がないかを返します。
func (c *Candidate) Available() bool {
	return c.Current == nil
}

// QueryService は QueryUseCase の実装です。
type QueryService struct {
	repo      QueryRepository
	stations  station.Registry
	employees employee.UseCase
	tx        TransactionManager
	logger    *zap.Logger
}

const (
	opStationsAsOf              = "stations_as_of"
	opStationHistory            = "station_history"
	opEmployeeSchedule          = "employee_schedule"
	opEligibleEmployees         = "eligible_employees"
	opActiveEmployeesByFacility = "active_employees_by_facility"
)

// QueryOption は QueryService の任意設定です。
type QueryOption func(*QueryService)

// WithQueryLogger はロガーを設定します。
func WithQueryLogger(logger *zap.Logger) QueryOption {
	return func(s *QueryService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewQueryService は QueryService を生成します。
func NewQueryService(repo QueryRepository, stations station.Registry, employees employee.UseCase, tx TransactionManager, opts ...QueryOption) *QueryService {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	s := &QueryService{
		repo:      repo,
		stations:  stations,
		employees: employees,
		tx:        tx,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StationsAsOf は全ステーションと date に有効な配置を種別・番号順に返します。
func (s *QueryService) StationsAsOf(ctx context.Context, date time.Time) ([]*StationView, error) {
	if date.IsZero() {
		return nil, invalid("date", "is required")
	}

	var views []*StationView
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.StationsAsOf(txCtx, Day(date))
		if err != nil {
			return err
		}
		views = found
		return nil
	}); err != nil {
		return nil, s.fail(opStationsAsOf, err, zap.Time("date", Day(date)))
	}

	if views == nil {
		views = []*StationView{}
	}
	return views, nil
}

// StationHistory はステーションの全配置を終了・無効化済みも含めて新しい順に返します。
func (s *QueryService) StationHistory(ctx context.Context, stationID int64) ([]*Assignment, error) {
	if stationID <= 0 {
		return nil, invalid("station_id", "must be positive")
	}

	var history []*Assignment
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		if _, err := s.stations.GetStation(txCtx, stationID); err != nil {
			return err
		}
		found, err := s.repo.ListByStation(txCtx, stationID)
		if err != nil {
			return err
		}
		history = found
		return nil
	}); err != nil {
		return nil, s.fail(opStationHistory, err, zap.Int64("station_id", stationID))
	}

	if history == nil {
		history = []*Assignment{}
	}
	return history, nil
}

// EmployeeSchedule は from 以降に有効な職員の配置を開始日順に返します。
func (s *QueryService) EmployeeSchedule(ctx context.Context, employeeID int64, from time.Time) ([]*Assignment, error) {
	if employeeID <= 0 {
		return nil, invalid("employee_id", "must be positive")
	}
	if from.IsZero() {
		return nil, invalid("from", "is required")
	}

	var schedule []*Assignment
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		if _, err := s.employees.GetEmployee(txCtx, employeeID); err != nil {
			return err
		}
		found, err := s.repo.ListActiveByEmployee(txCtx, employeeID, Day(from))
		if err != nil {
			return err
		}
		schedule = found
		return nil
	}); err != nil {
		return nil, s.fail(opEmployeeSchedule, err, zap.Int64("employee_id", employeeID))
	}

	if schedule == nil {
		schedule = []*Assignment{}
	}
	return schedule, nil
}

// EligibleEmployees はステーション種別に配置可能な職種の在籍職員を返します。
func (s *QueryService) EligibleEmployees(ctx context.Context, in EligibleEmployeesInput) ([]*Candidate, error) {
	if in.StationID <= 0 {
		return nil, invalid("station_id", "must be positive")
	}
	if in.FacilityID <= 0 {
		return nil, invalid("facility_id", "must be positive")
	}

	var candidates []*Candidate
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		st, err := s.stations.GetStation(txCtx, in.StationID)
		if err != nil {
			return err
		}

		roles, err := s.stations.EligibleRoles(st.Type)
		if err != nil {
			return err
		}
		if len(roles) == 0 {
			candidates = []*Candidate{}
			return nil
		}

		employees, err := s.employees.ActiveEmployeesByFacility(txCtx, in.FacilityID, roles...)
		if err != nil {
			return err
		}

		candidates = make([]*Candidate, 0, len(employees))
		for _, emp := range employees {
			c := &Candidate{Employee: emp}
			if !in.Date.IsZero() {
				current, err := s.currentAssignment(txCtx, emp.ID, Day(in.Date))
				if err != nil {
					return err
				}
				c.Current = current
			}
			candidates = append(candidates, c)
		}
		return nil
	}); err != nil {
		return nil, s.fail(opEligibleEmployees, err,
			zap.Int64("facility_id", in.FacilityID),
			zap.Int64("station_id", in.StationID),
		)
	}

	return candidates, nil
}

// ActiveEmployeesByFacility は施設の在籍職員を返します。
func (s *QueryService) ActiveEmployeesByFacility(ctx context.Context, facilityID int64) ([]*employee.Employee, error) {
	employees, err := s.employees.ActiveEmployeesByFacility(ctx, facilityID)
	if err != nil {
		return nil, s.fail(opActiveEmployeesByFacility, err, zap.Int64("facility_id", facilityID))
	}
	return employees, nil
}

// fail は予期しないエラーをログへ出力して StorageError に変換します。既知のエラーはそのまま返します。
func (s *QueryService) fail(op string, err error, fields ...zap.Field) error {
	if isDomainError(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	s.logger.Error("assignment query failure", append(fields, zap.String("operation", op), zap.Error(err))...)
	return &StorageError{Op: op, cause: err}
}

func (s *QueryService) currentAssignment(ctx context.Context, employeeID int64, date time.Time) (*Assignment, error) {
	schedule, err := s.repo.ListActiveByEmployee(ctx, employeeID, date)
	if err != nil {
		return nil, err
	}
	for _, a := range schedule {
		if a.ActiveOn(date) {
			return a, nil
		}
	}
	return nil, nil
}
