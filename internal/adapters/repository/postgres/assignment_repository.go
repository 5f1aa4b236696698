package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ogurasousui/health-office-scheduler/internal/core/assignment"
	"github.com/ogurasousui/health-office-scheduler/internal/core/employee"
	"github.com/ogurasousui/health-office-scheduler/internal/core/station"
	pgdb "github.com/ogurasousui/health-office-scheduler/internal/platform/db/postgres"
)

const (
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	exclusionViolationCode  = "23P01"

	stationExclusionConstraint  = "station_assignments_station_excl"
	employeeExclusionConstraint = "station_assignments_employee_excl"
	dateRangeCheckConstraint    = "station_assignments_date_range_check"
	stationForeignKey           = "station_assignments_station_id_fkey"
	employeeForeignKey          = "station_assignments_employee_id_fkey"
)

const assignmentSelect = `
        SELECT a.id,
               a.employee_id,
               a.station_id,
               a.start_date,
               a.end_date,
               to_char(a.shift_start, 'HH24:MI'),
               to_char(a.shift_end, 'HH24:MI'),
               a.is_active,
               a.assigned_by,
               a.created_at,
               e.name,
               s.name`

const assignmentJoins = `
          JOIN employees e ON e.id = a.employee_id
          JOIN stations s ON s.id = a.station_id`

const assignmentReturning = `id, employee_id, station_id, start_date, end_date, shift_start, shift_end, is_active, assigned_by, created_at`

// AssignmentRepository は PostgreSQL を利用した配置永続化の実装です。
// 期間の重複はスキーマの排他制約でも防がれており、違反は配置の衝突エラーとして返します。
type AssignmentRepository struct {
	pool pgdb.Queryer
}

// NewAssignmentRepository は AssignmentRepository を生成します。
func NewAssignmentRepository(pool pgdb.Queryer) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// FindOverlapping は主体の有効な配置のうち q.Range と重なるものを開始日順で取得します。
func (r *AssignmentRepository) FindOverlapping(ctx context.Context, q assignment.OverlapQuery) ([]*assignment.Assignment, error) {
	var subjectColumn string
	switch q.Subject {
	case assignment.SubjectEmployee:
		subjectColumn = "a.employee_id"
	case assignment.SubjectStation:
		subjectColumn = "a.station_id"
	default:
		return nil, fmt.Errorf("postgres: unsupported overlap subject %q", q.Subject)
	}

	query := assignmentSelect + `
          FROM station_assignments a` + assignmentJoins + `
         WHERE ` + subjectColumn + ` = $1
           AND a.is_active
           AND ($3::date IS NULL OR a.start_date <= $3::date)
           AND (a.end_date IS NULL OR a.end_date >= $2)
           AND a.id <> $4
           AND a.station_id <> $5
         ORDER BY a.start_date, a.id
    `

	return r.queryAssignments(ctx, query,
		q.SubjectID,
		dateOnly(q.Range.Start),
		nullableDate(q.Range.End),
		q.ExcludeAssignmentID,
		q.ExcludeStationID,
	)
}

// LockStation はステーション行を FOR UPDATE で取得します。トランザクション内で呼び出す必要があります。
func (r *AssignmentRepository) LockStation(ctx context.Context, id int64) (*station.Station, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+stationColumns+`
          FROM stations s
         WHERE s.id = $1
           FOR UPDATE
    `, id)

	found, err := scanStation(row)
	if err != nil {
		return nil, translateStationPgError(err)
	}
	return found, nil
}

// LockEmployee は職員行を FOR UPDATE で取得します。トランザクション内で呼び出す必要があります。
func (r *AssignmentRepository) LockEmployee(ctx context.Context, id int64) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+employeeColumns+`
          FROM employees e
         WHERE e.id = $1
           FOR UPDATE
    `, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// FindActiveAt はステーションで date に有効な配置を取得し、行ロックします。
func (r *AssignmentRepository) FindActiveAt(ctx context.Context, stationID int64, date time.Time) (*assignment.Assignment, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, assignmentSelect+`
          FROM station_assignments a`+assignmentJoins+`
         WHERE a.station_id = $1
           AND a.is_active
           AND a.start_date <= $2
           AND (a.end_date IS NULL OR a.end_date >= $2)
         ORDER BY a.start_date DESC, a.id DESC
         LIMIT 1
           FOR UPDATE OF a
    `, stationID, dateOnly(date))

	found, err := scanAssignment(row)
	if err != nil {
		return nil, translateAssignmentPgError(err)
	}
	return found, nil
}

// Create は配置を登録します。
func (r *AssignmentRepository) Create(ctx context.Context, a *assignment.Assignment) (*assignment.Assignment, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        WITH a AS (
            INSERT INTO station_assignments (employee_id, station_id, start_date, end_date, shift_start, shift_end, is_active, assigned_by, created_at)
            VALUES ($1, $2, $3, $4, $5::time, $6::time, $7, $8, $9)
            RETURNING `+assignmentReturning+`
        )`+assignmentSelect+`
          FROM a`+assignmentJoins+`
    `,
		a.EmployeeID,
		a.StationID,
		dateOnly(a.StartDate),
		nullableDate(a.EndDate),
		a.Shift.Start,
		a.Shift.End,
		a.Active,
		a.AssignedBy,
		a.CreatedAt,
	)

	created, err := scanAssignment(row)
	if err != nil {
		return nil, translateAssignmentPgError(err)
	}
	return created, nil
}

// UpdateEndDate は配置の終了日を設定します。
func (r *AssignmentRepository) UpdateEndDate(ctx context.Context, id int64, end time.Time) (*assignment.Assignment, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        WITH a AS (
            UPDATE station_assignments
               SET end_date = $1
             WHERE id = $2
            RETURNING `+assignmentReturning+`
        )`+assignmentSelect+`
          FROM a`+assignmentJoins+`
    `, dateOnly(end), id)

	updated, err := scanAssignment(row)
	if err != nil {
		return nil, translateAssignmentPgError(err)
	}
	return updated, nil
}

// Deactivate は配置を無効化します。レコードは削除しません。
func (r *AssignmentRepository) Deactivate(ctx context.Context, id int64) (*assignment.Assignment, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        WITH a AS (
            UPDATE station_assignments
               SET is_active = FALSE
             WHERE id = $1
            RETURNING `+assignmentReturning+`
        )`+assignmentSelect+`
          FROM a`+assignmentJoins+`
    `, id)

	updated, err := scanAssignment(row)
	if err != nil {
		return nil, translateAssignmentPgError(err)
	}
	return updated, nil
}

// AppendAudit は監査ログを追記します。
func (r *AssignmentRepository) AppendAudit(ctx context.Context, entry *assignment.AuditEntry) error {
	var assignmentID any
	if entry.AssignmentID != nil {
		assignmentID = *entry.AssignmentID
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `
        INSERT INTO assignment_audit (assignment_id, station_id, action, performed_by, effective_date, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `,
		assignmentID,
		entry.StationID,
		string(entry.Action),
		entry.PerformedBy,
		nullableDate(entry.EffectiveDate),
		entry.CreatedAt,
	); err != nil {
		return translateAssignmentPgError(err)
	}
	return nil
}

// StationsAsOf は全ステーションに date 時点で有効な配置と職員を左外部結合して返します。
func (r *AssignmentRepository) StationsAsOf(ctx context.Context, date time.Time) ([]*assignment.StationView, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+stationColumns+`,
               a.id,
               a.employee_id,
               a.start_date,
               a.end_date,
               to_char(a.shift_start, 'HH24:MI'),
               to_char(a.shift_end, 'HH24:MI'),
               a.assigned_by,
               a.created_at,
               e.facility_id,
               e.name,
               e.role,
               e.is_active
          FROM stations s
          LEFT JOIN station_assignments a
            ON a.station_id = s.id
           AND a.is_active
           AND a.start_date <= $1
           AND (a.end_date IS NULL OR a.end_date >= $1)
          LEFT JOIN employees e ON e.id = a.employee_id
         ORDER BY s.type, s.number, s.id
    `, dateOnly(date))
	if err != nil {
		return nil, translateAssignmentPgError(err)
	}
	defer rows.Close()

	views := make([]*assignment.StationView, 0)
	for rows.Next() {
		view, err := scanStationView(rows)
		if err != nil {
			return nil, translateAssignmentPgError(err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, translateAssignmentPgError(err)
	}

	return views, nil
}

// ListByStation はステーションの全配置を新しい順に取得します。
func (r *AssignmentRepository) ListByStation(ctx context.Context, stationID int64) ([]*assignment.Assignment, error) {
	return r.queryAssignments(ctx, assignmentSelect+`
          FROM station_assignments a`+assignmentJoins+`
         WHERE a.station_id = $1
         ORDER BY a.start_date DESC, a.id DESC
    `, stationID)
}

// ListActiveByEmployee は from 以降に有効な職員の配置を開始日順に取得します。
func (r *AssignmentRepository) ListActiveByEmployee(ctx context.Context, employeeID int64, from time.Time) ([]*assignment.Assignment, error) {
	return r.queryAssignments(ctx, assignmentSelect+`
          FROM station_assignments a`+assignmentJoins+`
         WHERE a.employee_id = $1
           AND a.is_active
           AND (a.end_date IS NULL OR a.end_date >= $2)
         ORDER BY a.start_date, a.id
    `, employeeID, dateOnly(from))
}

func (r *AssignmentRepository) queryAssignments(ctx context.Context, query string, args ...any) ([]*assignment.Assignment, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translateAssignmentPgError(err)
	}
	defer rows.Close()

	assignments := make([]*assignment.Assignment, 0)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, translateAssignmentPgError(err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, translateAssignmentPgError(err)
	}

	return assignments, nil
}

func scanAssignment(row pgx.Row) (*assignment.Assignment, error) {
	var (
		id           int64
		employeeID   int64
		stationID    int64
		startDate    time.Time
		endDate      sql.NullTime
		shiftStart   string
		shiftEnd     string
		active       bool
		assignedBy   int64
		createdAt    time.Time
		employeeName string
		stationName  string
	)

	if err := row.Scan(
		&id,
		&employeeID,
		&stationID,
		&startDate,
		&endDate,
		&shiftStart,
		&shiftEnd,
		&active,
		&assignedBy,
		&createdAt,
		&employeeName,
		&stationName,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, assignment.ErrAssignmentNotFound
		}
		return nil, err
	}

	return &assignment.Assignment{
		ID:           id,
		EmployeeID:   employeeID,
		StationID:    stationID,
		StartDate:    assignment.Day(startDate),
		EndDate:      datePtr(endDate),
		Shift:        assignment.Shift{Start: shiftStart, End: shiftEnd},
		Active:       active,
		AssignedBy:   assignedBy,
		CreatedAt:    createdAt,
		EmployeeName: employeeName,
		StationName:  stationName,
	}, nil
}

func scanStationView(row pgx.Row) (*assignment.StationView, error) {
	var (
		stationID    int64
		stationName  string
		number       int
		kind         string
		serviceID    int64
		stationOn    bool
		created      time.Time
		updated      time.Time
		assignmentID sql.NullInt64
		employeeID   sql.NullInt64
		startDate    sql.NullTime
		endDate      sql.NullTime
		shiftStart   sql.NullString
		shiftEnd     sql.NullString
		assignedBy   sql.NullInt64
		assignedAt   sql.NullTime
		facilityID   sql.NullInt64
		employeeName sql.NullString
		role         sql.NullString
		employeeOn   sql.NullBool
	)

	if err := row.Scan(
		&stationID,
		&stationName,
		&number,
		&kind,
		&serviceID,
		&stationOn,
		&created,
		&updated,
		&assignmentID,
		&employeeID,
		&startDate,
		&endDate,
		&shiftStart,
		&shiftEnd,
		&assignedBy,
		&assignedAt,
		&facilityID,
		&employeeName,
		&role,
		&employeeOn,
	); err != nil {
		return nil, err
	}

	view := &assignment.StationView{
		Station: station.Station{
			ID:        stationID,
			Name:      stationName,
			Number:    number,
			Type:      station.Type(kind),
			ServiceID: serviceID,
			Active:    stationOn,
			CreatedAt: created,
			UpdatedAt: updated,
		},
	}
	if !assignmentID.Valid {
		return view, nil
	}

	view.Assignment = &assignment.Assignment{
		ID:           assignmentID.Int64,
		EmployeeID:   employeeID.Int64,
		StationID:    stationID,
		StartDate:    assignment.Day(startDate.Time),
		EndDate:      datePtr(endDate),
		Shift:        assignment.Shift{Start: shiftStart.String, End: shiftEnd.String},
		Active:       true,
		AssignedBy:   assignedBy.Int64,
		CreatedAt:    assignedAt.Time,
		EmployeeName: employeeName.String,
		StationName:  stationName,
	}
	view.Employee = &employee.Employee{
		ID:         employeeID.Int64,
		FacilityID: facilityID.Int64,
		Name:       employeeName.String,
		Role:       employee.Role(role.String),
		Active:     employeeOn.Bool,
	}
	return view, nil
}

func translateAssignmentPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return assignment.ErrAssignmentNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case exclusionViolationCode:
			switch pgErr.ConstraintName {
			case stationExclusionConstraint:
				return &assignment.ConflictError{Subject: assignment.SubjectStation}
			case employeeExclusionConstraint:
				return &assignment.ConflictError{Subject: assignment.SubjectEmployee}
			}
		case checkViolationCode:
			if pgErr.ConstraintName == dateRangeCheckConstraint {
				return fmt.Errorf("%w: end date precedes start date", assignment.ErrValidation)
			}
		case foreignKeyViolationCode:
			switch pgErr.ConstraintName {
			case stationForeignKey:
				return station.ErrStationNotFound
			case employeeForeignKey:
				return employee.ErrEmployeeNotFound
			}
		}
	}

	return err
}

func dateOnly(t time.Time) time.Time {
	return assignment.Day(t)
}

func nullableDate(value *time.Time) any {
	if value == nil {
		return nil
	}
	return dateOnly(*value)
}

func datePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	d := assignment.Day(value.Time.UTC())
	return &d
}
