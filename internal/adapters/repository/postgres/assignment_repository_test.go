package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/ogurasousui/health-office-scheduler/internal/core/assignment"
	"github.com/ogurasousui/health-office-scheduler/internal/core/employee"
	"github.com/ogurasousui/health-office-scheduler/internal/core/station"
)

var assignmentRowColumns = []string{
	"id", "employee_id", "station_id", "start_date", "end_date", "shift_start", "shift_end",
	"is_active", "assigned_by", "created_at", "employee_name", "station_name",
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTranslateAssignmentPgError(t *testing.T) {
	t.Parallel()

	stationExcl := &pgconn.PgError{Code: exclusionViolationCode, ConstraintName: stationExclusionConstraint}
	if !errors.Is(translateAssignmentPgError(stationExcl), assignment.ErrStationAlreadyOccupied) {
		t.Fatalf("expected station exclusion to map to ErrStationAlreadyOccupied")
	}

	employeeExcl := &pgconn.PgError{Code: exclusionViolationCode, ConstraintName: employeeExclusionConstraint}
	var conflict *assignment.ConflictError
	if err := translateAssignmentPgError(employeeExcl); !errors.As(err, &conflict) || conflict.Subject != assignment.SubjectEmployee {
		t.Fatalf("expected employee conflict, got %v", err)
	}

	check := &pgconn.PgError{Code: checkViolationCode, ConstraintName: dateRangeCheckConstraint}
	if !errors.Is(translateAssignmentPgError(check), assignment.ErrValidation) {
		t.Fatalf("expected date range check to map to ErrValidation")
	}

	fkStation := &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: stationForeignKey}
	if !errors.Is(translateAssignmentPgError(fkStation), station.ErrStationNotFound) {
		t.Fatalf("expected station fk to map to ErrStationNotFound")
	}

	fkEmployee := &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: employeeForeignKey}
	if !errors.Is(translateAssignmentPgError(fkEmployee), employee.ErrEmployeeNotFound) {
		t.Fatalf("expected employee fk to map to ErrEmployeeNotFound")
	}

	if !errors.Is(translateAssignmentPgError(pgx.ErrNoRows), assignment.ErrAssignmentNotFound) {
		t.Fatalf("expected no rows to map to ErrAssignmentNotFound")
	}

	unknown := &pgconn.PgError{Code: exclusionViolationCode, ConstraintName: "something_else"}
	if translateAssignmentPgError(unknown) != unknown {
		t.Fatalf("unknown constraint must be returned unchanged")
	}

	other := errors.New("other")
	if translateAssignmentPgError(other) != other {
		t.Fatalf("unexpected translation for generic error")
	}
}

func TestAssignmentRepository_FindOverlapping(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewAssignmentRepository(mock)
	now := time.Now().UTC()

	rows := pgxmock.NewRows(assignmentRowColumns).
		AddRow(int64(11), int64(5), int64(2), day(2025, 10, 1), nil, "08:00", "17:00", true, int64(1), now, "Maria Santos", "Triage 1")

	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.employee_id = $1")).
		WithArgs(int64(5), day(2025, 10, 15), nil, int64(0), int64(3)).
		WillReturnRows(rows)

	found, err := repo.FindOverlapping(context.Background(), assignment.OverlapQuery{
		Subject:          assignment.SubjectEmployee,
		SubjectID:        5,
		Range:            assignment.NewDateRange(time.Date(2025, 10, 15, 13, 0, 0, 0, time.UTC), nil),
		ExcludeStationID: 3,
	})
	if err != nil {
		t.Fatalf("FindOverlapping returned error: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected one candidate, got %d", len(found))
	}
	got := found[0]
	if got.EndDate != nil || got.StationName != "Triage 1" || got.Shift.String() != "08:00-17:00" {
		t.Fatalf("unexpected assignment %+v", got)
	}

	if _, err := repo.FindOverlapping(context.Background(), assignment.OverlapQuery{Subject: "facility"}); err == nil {
		t.Fatalf("expected error for unsupported subject")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAssignmentRepository_Create_ExclusionViolation(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewAssignmentRepository(mock)
	end := day(2025, 10, 31)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO station_assignments")).
		WithArgs(int64(7), int64(2), day(2025, 10, 1), end, "08:00", "17:00", true, int64(1), now).
		WillReturnError(&pgconn.PgError{Code: exclusionViolationCode, ConstraintName: stationExclusionConstraint})

	_, err = repo.Create(context.Background(), &assignment.Assignment{
		EmployeeID: 7,
		StationID:  2,
		StartDate:  day(2025, 10, 1),
		EndDate:    &end,
		Shift:      assignment.Shift{Start: "08:00", End: "17:00"},
		Active:     true,
		AssignedBy: 1,
		CreatedAt:  now,
	})
	if !errors.Is(err, assignment.ErrStationAlreadyOccupied) {
		t.Fatalf("expected ErrStationAlreadyOccupied, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAssignmentRepository_UpdateEndDate(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewAssignmentRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("SET end_date = $1")).
		WithArgs(day(2025, 10, 9), int64(11)).
		WillReturnRows(pgxmock.NewRows(assignmentRowColumns).
			AddRow(int64(11), int64(5), int64(2), day(2025, 10, 1), day(2025, 10, 9), "08:00", "17:00", true, int64(1), now, "Maria Santos", "Triage 1"))

	updated, err := repo.UpdateEndDate(context.Background(), 11, day(2025, 10, 9))
	if err != nil {
		t.Fatalf("UpdateEndDate returned error: %v", err)
	}
	if updated.EndDate == nil || !updated.EndDate.Equal(day(2025, 10, 9)) {
		t.Fatalf("unexpected end date %v", updated.EndDate)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAssignmentRepository_FindActiveAt_NotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE OF a")).
		WithArgs(int64(2), day(2025, 10, 10)).
		WillReturnError(pgx.ErrNoRows)

	_, err = NewAssignmentRepository(mock).FindActiveAt(context.Background(), 2, day(2025, 10, 10))
	if !errors.Is(err, assignment.ErrAssignmentNotFound) {
		t.Fatalf("expected ErrAssignmentNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAssignmentRepository_LockStation(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows(stationRowColumns).
			AddRow(int64(2), "Triage 1", 1, "triage", int64(20), true, now, now))

	st, err := NewAssignmentRepository(mock).LockStation(context.Background(), 2)
	if err != nil {
		t.Fatalf("LockStation returned error: %v", err)
	}
	if st.ID != 2 || !st.Active {
		t.Fatalf("unexpected station %+v", st)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAssignmentRepository_AppendAudit(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	id := int64(11)
	effective := day(2025, 10, 10)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO assignment_audit")).
		WithArgs(int64(11), int64(2), "reassigned", int64(1), effective, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO assignment_audit")).
		WithArgs(nil, int64(2), "station_disabled", int64(1), nil, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewAssignmentRepository(mock)
	if err := repo.AppendAudit(context.Background(), &assignment.AuditEntry{
		AssignmentID:  &id,
		StationID:     2,
		Action:        assignment.AuditReassigned,
		PerformedBy:   1,
		EffectiveDate: &effective,
		CreatedAt:     now,
	}); err != nil {
		t.Fatalf("AppendAudit returned error: %v", err)
	}
	if err := repo.AppendAudit(context.Background(), &assignment.AuditEntry{
		StationID:   2,
		Action:      assignment.AuditStationDisabled,
		PerformedBy: 1,
		CreatedAt:   now,
	}); err != nil {
		t.Fatalf("AppendAudit returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAssignmentRepository_StationsAsOf(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	columns := append(append([]string{}, stationRowColumns...),
		"assignment_id", "employee_id", "start_date", "end_date", "shift_start", "shift_end",
		"assigned_by", "assigned_at", "facility_id", "employee_name", "role", "employee_active")

	rows := pgxmock.NewRows(columns).
		AddRow(int64(1), "Check-in 1", 1, "check_in", int64(10), true, now, now,
			nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil).
		AddRow(int64(2), "Triage 1", 1, "triage", int64(20), true, now, now,
			int64(11), int64(5), day(2025, 10, 1), day(2025, 12, 31), "07:00", "15:00",
			int64(1), now, int64(1), "Maria Santos", "nurse", true)

	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN station_assignments a")).
		WithArgs(day(2025, 12, 31)).
		WillReturnRows(rows)

	views, err := NewAssignmentRepository(mock).StationsAsOf(context.Background(), time.Date(2025, 12, 31, 18, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("StationsAsOf returned error: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected two stations, got %d", len(views))
	}
	if !views[0].Vacant() || views[0].Employee != nil {
		t.Fatalf("expected first station to be vacant: %+v", views[0])
	}

	occupied := views[1]
	if occupied.Vacant() || occupied.Employee.Name != "Maria Santos" || occupied.Employee.Role != employee.RoleNurse {
		t.Fatalf("unexpected occupied view %+v", occupied)
	}
	if occupied.Assignment.Kind() != assignment.KindTemporary || occupied.Assignment.Shift.String() != "07:00-15:00" {
		t.Fatalf("unexpected assignment %+v", occupied.Assignment)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
