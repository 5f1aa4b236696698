package assignment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ogurasousui/health-office-scheduler/internal/core/employee"
	"github.com/ogurasousui/health-office-scheduler/internal/core/station"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Recorder は操作結果の計測先です。
type Recorder interface {
	ObserveOperation(operation, result string, elapsed time.Duration)
	ObserveConflict(subject string)
}

type noopRecorder struct{}

func (noopRecorder) ObserveOperation(string, string, time.Duration) {}
func (noopRecorder) ObserveConflict(string)                         {}

const (
	opAssign        = "assign"
	opRemove        = "remove"
	opReassign      = "reassign"
	opToggleStation = "toggle_station"
)

// UseCase は配置変更ユースケースの公開インターフェースです。
type UseCase interface {
	Assign(ctx context.Context, in AssignInput) (*Assignment, error)
	Remove(ctx context.Context, in RemoveInput) (*Assignment, error)
	Reassign(ctx context.Context, in ReassignInput) (*ReassignResult, error)
	ToggleStation(ctx context.Context, in ToggleStationInput) (*station.Station, error)
}

// Service は配置の作成・解除・交代とステーションの有効化切り替えを調停します。
// 変更はすべて読み書きトランザクション内で行い、検査前にステーション行・職員行の順でロックを取得します。
type Service struct {
	repo        Repository
	stations    station.Repository
	detector    *Detector
	eligibility station.EligibilityMatrix
	clock       Clock
	tx          TransactionManager
	logger      *zap.Logger
	recorder    Recorder

	enforceRoles bool
	defaultShift Shift
}

// Option は Service の任意設定です。
type Option func(*Service)

// WithLogger はロガーを設定します。
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRecorder はメトリクスの記録先を設定します。
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithEligibility は職種適合表を差し替えます。
func WithEligibility(m station.EligibilityMatrix) Option {
	return func(s *Service) {
		if m != nil {
			s.eligibility = m
		}
	}
}

// WithRoleEnforcement は職種適合チェックの有無を設定します。既定は有効です。
func WithRoleEnforcement(enabled bool) Option {
	return func(s *Service) {
		s.enforceRoles = enabled
	}
}

// WithDefaultShift は勤務時間帯が省略された場合の既定値を設定します。
func WithDefaultShift(shift Shift) Option {
	return func(s *Service) {
		s.defaultShift = shift
	}
}

// NewService は Service を生成します。
func NewService(repo Repository, stations station.Repository, clock Clock, tx TransactionManager, opts ...Option) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	s := &Service{
		repo:         repo,
		stations:     stations,
		detector:     NewDetector(repo),
		eligibility:  station.DefaultEligibility,
		clock:        clock,
		tx:           tx,
		logger:       zap.NewNop(),
		recorder:     noopRecorder{},
		enforceRoles: true,
		defaultShift: Shift{Start: "08:00", End: "17:00"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AssignInput は配置作成時の入力です。
type AssignInput struct {
	EmployeeID int64
	StationID  int64
	StartDate  time.Time
	// Kind が空の場合は EndDate の有無から判定します。
	Kind       Kind
	EndDate    *time.Time
	ShiftStart string
	ShiftEnd   string
	AssignedBy int64
}

// RemoveInput は配置解除時の入力です。
type RemoveInput struct {
	StationID   int64
	RemovalDate time.Time
	Type        RemovalType
	PerformedBy int64
}

// ReassignInput は担当交代時の入力です。ShiftStart/ShiftEnd を省略すると元の配置の勤務時間帯を引き継ぎます。
type ReassignInput struct {
	StationID     int64
	NewEmployeeID int64
	ReassignDate  time.Time
	AssignedBy    int64
	ShiftStart    string
	ShiftEnd      string
}

// ReassignResult は交代で終了した配置と新しい配置の組です。
type ReassignResult struct {
	Ended   *Assignment
	Created *Assignment
}

// ToggleStationInput はステーションの有効・無効切り替えの入力です。
type ToggleStationInput struct {
	StationID   int64
	Active      bool
	PerformedBy int64
}

// Assign は職員をステーションへ配置します。
func (s *Service) Assign(ctx context.Context, in AssignInput) (created *Assignment, err error) {
	started := time.Now()
	defer func() {
		err = s.finish(opAssign, started, err,
			zap.Int64("employee_id", in.EmployeeID),
			zap.Int64("station_id", in.StationID),
		)
	}()

	if err := validateActor("assigned_by", in.AssignedBy); err != nil {
		return nil, err
	}
	if in.EmployeeID <= 0 {
		return nil, invalid("employee_id", "must be positive")
	}
	if in.StationID <= 0 {
		return nil, invalid("station_id", "must be positive")
	}
	if in.StartDate.IsZero() {
		return nil, invalid("start_date", "is required")
	}

	period, err := resolvePeriod(in.Kind, in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}

	shift, err := s.resolveShift(in.ShiftStart, in.ShiftEnd, s.defaultShift)
	if err != nil {
		return nil, err
	}

	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		st, emp, err := s.lockSubjects(txCtx, in.StationID, in.EmployeeID)
		if err != nil {
			return err
		}

		if err := s.checkEligibility(st, emp); err != nil {
			return err
		}

		if err := s.ensureNoConflict(txCtx, OverlapQuery{Subject: SubjectEmployee, SubjectID: emp.ID, Range: period}); err != nil {
			return err
		}
		if err := s.ensureNoConflict(txCtx, OverlapQuery{Subject: SubjectStation, SubjectID: st.ID, Range: period}); err != nil {
			return err
		}

		result, err := s.repo.Create(txCtx, &Assignment{
			EmployeeID: emp.ID,
			StationID:  st.ID,
			StartDate:  period.Start,
			EndDate:    period.End,
			Shift:      shift,
			Active:     true,
			AssignedBy: in.AssignedBy,
			CreatedAt:  s.clock.Now(),
		})
		if err != nil {
			return err
		}

		if err := s.audit(txCtx, result.StationID, &result.ID, AuditAssigned, in.AssignedBy, period.Start); err != nil {
			return err
		}

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	s.logger.Info("assignment created",
		zap.Int64("assignment_id", created.ID),
		zap.Int64("employee_id", created.EmployeeID),
		zap.Int64("station_id", created.StationID),
		zap.String("range", created.Range().String()),
		zap.String("shift", created.Shift.String()),
	)
	return created, nil
}

// Remove はステーションで removalDate に有効な配置を終了または無効化します。
func (s *Service) Remove(ctx context.Context, in RemoveInput) (updated *Assignment, err error) {
	started := time.Now()
	defer func() {
		err = s.finish(opRemove, started, err,
			zap.Int64("station_id", in.StationID),
			zap.String("removal_type", string(in.Type)),
		)
	}()

	if err := validateActor("performed_by", in.PerformedBy); err != nil {
		return nil, err
	}
	if in.StationID <= 0 {
		return nil, invalid("station_id", "must be positive")
	}
	if in.RemovalDate.IsZero() {
		return nil, invalid("removal_date", "is required")
	}
	if in.Type != RemovalEndAssignment && in.Type != RemovalDeactivate {
		return nil, invalid("removal_type", "must be end_assignment or deactivate")
	}

	removalDate := Day(in.RemovalDate)

	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.LockStation(txCtx, in.StationID); err != nil {
			return err
		}

		current, err := s.repo.FindActiveAt(txCtx, in.StationID, removalDate)
		if err != nil {
			if errors.Is(err, ErrAssignmentNotFound) {
				return ErrNoActiveAssignment
			}
			return err
		}

		var (
			result *Assignment
			action AuditAction
		)
		switch in.Type {
		case RemovalEndAssignment:
			end, err := closingDate(current, removalDate)
			if err != nil {
				return err
			}
			result, err = s.repo.UpdateEndDate(txCtx, current.ID, end)
			if err != nil {
				return err
			}
			action = AuditEnded
		case RemovalDeactivate:
			result, err = s.repo.Deactivate(txCtx, current.ID)
			if err != nil {
				return err
			}
			action = AuditDeactivated
		}

		if err := s.audit(txCtx, in.StationID, &result.ID, action, in.PerformedBy, removalDate); err != nil {
			return err
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	s.logger.Info("assignment removed",
		zap.Int64("assignment_id", updated.ID),
		zap.Int64("station_id", updated.StationID),
		zap.String("removal_type", string(in.Type)),
		zap.String("removal_date", removalDate.Format(DateLayout)),
		zap.Int64("performed_by", in.PerformedBy),
	)
	return updated, nil
}

// Reassign はステーションの現在の担当を reassignDate から別の職員へ交代させます。
// 元の配置は reassignDate の前日で終了し、新しい配置は元の終了日（無期限の場合は無期限）を引き継ぎます。
func (s *Service) Reassign(ctx context.Context, in ReassignInput) (result *ReassignResult, err error) {
	started := time.Now()
	defer func() {
		err = s.finish(opReassign, started, err,
			zap.Int64("station_id", in.StationID),
			zap.Int64("new_employee_id", in.NewEmployeeID),
		)
	}()

	if err := validateActor("assigned_by", in.AssignedBy); err != nil {
		return nil, err
	}
	if in.StationID <= 0 {
		return nil, invalid("station_id", "must be positive")
	}
	if in.NewEmployeeID <= 0 {
		return nil, invalid("new_employee_id", "must be positive")
	}
	if in.ReassignDate.IsZero() {
		return nil, invalid("reassign_date", "is required")
	}

	reassignDate := Day(in.ReassignDate)

	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		st, emp, err := s.lockSubjects(txCtx, in.StationID, in.NewEmployeeID)
		if err != nil {
			return err
		}

		current, err := s.repo.FindActiveAt(txCtx, st.ID, reassignDate)
		if err != nil {
			if errors.Is(err, ErrAssignmentNotFound) {
				return ErrNoCurrentAssignment
			}
			return err
		}
		if current.EmployeeID == emp.ID {
			return invalid("new_employee_id", "employee already occupies this station")
		}

		closeEnd, err := closingDate(current, reassignDate)
		if err != nil {
			return err
		}

		if err := s.checkEligibility(st, emp); err != nil {
			return err
		}

		shift := current.Shift
		if in.ShiftStart != "" || in.ShiftEnd != "" {
			shift, err = s.resolveShift(in.ShiftStart, in.ShiftEnd, current.Shift)
			if err != nil {
				return err
			}
		}

		period := DateRange{Start: reassignDate, End: cloneDate(current.EndDate)}

		if err := s.ensureNoConflict(txCtx, OverlapQuery{
			Subject:          SubjectEmployee,
			SubjectID:        emp.ID,
			Range:            period,
			ExcludeStationID: st.ID,
		}); err != nil {
			return err
		}
		if err := s.ensureNoConflict(txCtx, OverlapQuery{
			Subject:             SubjectStation,
			SubjectID:           st.ID,
			Range:               period,
			ExcludeAssignmentID: current.ID,
		}); err != nil {
			return err
		}

		ended, err := s.repo.UpdateEndDate(txCtx, current.ID, closeEnd)
		if err != nil {
			return err
		}

		created, err := s.repo.Create(txCtx, &Assignment{
			EmployeeID: emp.ID,
			StationID:  st.ID,
			StartDate:  period.Start,
			EndDate:    period.End,
			Shift:      shift,
			Active:     true,
			AssignedBy: in.AssignedBy,
			CreatedAt:  s.clock.Now(),
		})
		if err != nil {
			return err
		}

		if err := s.audit(txCtx, st.ID, &ended.ID, AuditEnded, in.AssignedBy, reassignDate); err != nil {
			return err
		}
		if err := s.audit(txCtx, st.ID, &created.ID, AuditReassigned, in.AssignedBy, reassignDate); err != nil {
			return err
		}

		result = &ReassignResult{Ended: ended, Created: created}
		return nil
	}); err != nil {
		return nil, err
	}

	s.logger.Info("station reassigned",
		zap.Int64("station_id", in.StationID),
		zap.Int64("previous_employee_id", result.Ended.EmployeeID),
		zap.Int64("new_employee_id", result.Created.EmployeeID),
		zap.String("reassign_date", reassignDate.Format(DateLayout)),
	)
	return result, nil
}

// ToggleStation はステーションの有効フラグを切り替えます。既存の配置には触れません。
func (s *Service) ToggleStation(ctx context.Context, in ToggleStationInput) (updated *station.Station, err error) {
	started := time.Now()
	defer func() {
		err = s.finish(opToggleStation, started, err, zap.Int64("station_id", in.StationID))
	}()

	if err := validateActor("performed_by", in.PerformedBy); err != nil {
		return nil, err
	}
	if in.StationID <= 0 {
		return nil, invalid("station_id", "must be positive")
	}

	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.stations.UpdateActive(txCtx, in.StationID, in.Active)
		if err != nil {
			return err
		}

		action := AuditStationDisabled
		if in.Active {
			action = AuditStationEnabled
		}
		if err := s.audit(txCtx, result.ID, nil, action, in.PerformedBy, time.Time{}); err != nil {
			return err
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	s.logger.Info("station toggled",
		zap.Int64("station_id", updated.ID),
		zap.Bool("active", updated.Active),
		zap.Int64("performed_by", in.PerformedBy),
	)
	return updated, nil
}

func (s *Service) lockSubjects(ctx context.Context, stationID, employeeID int64) (*station.Station, *employee.Employee, error) {
	st, err := s.repo.LockStation(ctx, stationID)
	if err != nil {
		return nil, nil, err
	}
	if !st.Active {
		return nil, nil, ErrStationInactive
	}

	emp, err := s.repo.LockEmployee(ctx, employeeID)
	if err != nil {
		return nil, nil, err
	}
	if !emp.Active {
		return nil, nil, ErrEmployeeInactive
	}
	return st, emp, nil
}

func (s *Service) checkEligibility(st *station.Station, emp *employee.Employee) error {
	if s.eligibility.Permits(st.Type, emp.Role) {
		return nil
	}
	if !s.enforceRoles {
		s.logger.Warn("role eligibility not enforced",
			zap.Int64("employee_id", emp.ID),
			zap.String("role", string(emp.Role)),
			zap.Int64("station_id", st.ID),
			zap.String("station_type", string(st.Type)),
		)
		return nil
	}
	return &RoleMismatchError{EmployeeID: emp.ID, Role: emp.Role, StationType: st.Type}
}

func (s *Service) ensureNoConflict(ctx context.Context, q OverlapQuery) error {
	existing, err := s.detector.FindOverlap(ctx, q)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	return &ConflictError{Subject: q.Subject, Existing: existing}
}

func (s *Service) resolveShift(start, end string, fallback Shift) (Shift, error) {
	if start == "" {
		start = fallback.Start
	}
	if end == "" {
		end = fallback.End
	}
	shift, err := ParseShift(start, end)
	if err != nil {
		return Shift{}, invalid("shift", err.Error())
	}
	return shift, nil
}

func (s *Service) audit(ctx context.Context, stationID int64, assignmentID *int64, action AuditAction, by int64, effective time.Time) error {
	entry := &AuditEntry{
		StationID:    stationID,
		AssignmentID: assignmentID,
		Action:       action,
		PerformedBy:  by,
		CreatedAt:    s.clock.Now(),
	}
	if !effective.IsZero() {
		d := Day(effective)
		entry.EffectiveDate = &d
	}
	return s.repo.AppendAudit(ctx, entry)
}

// finish は予期しないエラーをログへ出力して StorageError に変換し、結果を計測します。
func (s *Service) finish(op string, started time.Time, err error, fields ...zap.Field) error {
	if err != nil && !isDomainError(err) && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		s.logger.Error("assignment storage failure", append(fields, zap.String("operation", op), zap.Error(err))...)
		err = &StorageError{Op: op, cause: err}
	}

	var conflict *ConflictError
	if errors.As(err, &conflict) {
		s.recorder.ObserveConflict(string(conflict.Subject))
	}

	s.recorder.ObserveOperation(op, resultLabel(err), time.Since(started))
	return err
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrEmployeeAlreadyAssigned), errors.Is(err, ErrStationAlreadyOccupied):
		return "conflict"
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidRemovalDate), errors.Is(err, ErrRoleMismatch):
		return "rejected"
	case errors.Is(err, ErrNoActiveAssignment), errors.Is(err, ErrNoCurrentAssignment),
		errors.Is(err, station.ErrStationNotFound), errors.Is(err, employee.ErrEmployeeNotFound):
		return "not_found"
	case errors.Is(err, ErrStationInactive), errors.Is(err, ErrEmployeeInactive):
		return "inactive"
	case errors.Is(err, ErrStorage):
		return "storage_error"
	default:
		return "error"
	}
}

// resolvePeriod は種類と期間の組み合わせを検証します。
// permanent は終了日を持たず、temporary は開始日以降の終了日を必須とします。
func resolvePeriod(kind Kind, start time.Time, end *time.Time) (DateRange, error) {
	if kind == "" {
		kind = KindPermanent
		if end != nil {
			kind = KindTemporary
		}
	}

	period := NewDateRange(start, end)
	switch kind {
	case KindPermanent:
		if period.End != nil {
			return DateRange{}, invalid("end_date", "permanent assignments cannot have an end date")
		}
	case KindTemporary:
		if period.End == nil {
			return DateRange{}, invalid("end_date", "temporary assignments require an end date")
		}
		if !period.Valid() {
			return DateRange{}, invalid("end_date", "must be on or after start_date")
		}
	default:
		return DateRange{}, invalid("kind", "must be permanent or temporary")
	}
	return period, nil
}

// closingDate は date から配置を閉じる場合の終了日（date の前日）を返します。
func closingDate(a *Assignment, date time.Time) (time.Time, error) {
	end := Day(date).AddDate(0, 0, -1)
	if end.Before(Day(a.StartDate)) {
		return time.Time{}, ErrInvalidRemovalDate
	}
	return end, nil
}

func validateActor(field string, id int64) error {
	if id <= 0 {
		return invalid(field, "must identify the acting staff member")
	}
	return nil
}

func cloneDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
