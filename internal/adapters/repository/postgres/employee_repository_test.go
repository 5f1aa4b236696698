package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/ogurasousui/health-office-scheduler/internal/core/employee"
)

var employeeRowColumns = []string{"id", "facility_id", "name", "role", "is_active"}

func TestScanEmployee_Success(t *testing.T) {
	t.Parallel()

	row := stubRow{scanFn: func(dest ...interface{}) error {
		if len(dest) != 5 {
			return errors.New("unexpected dest length")
		}
		*(dest[0].(*int64)) = 5
		*(dest[1].(*int64)) = 1
		*(dest[2].(*string)) = "Maria Santos"
		*(dest[3].(*string)) = "nurse"
		*(dest[4].(*bool)) = true
		return nil
	}}

	emp, err := scanEmployee(row)
	if err != nil {
		t.Fatalf("scanEmployee returned error: %v", err)
	}
	if emp.ID != 5 || emp.Role != employee.RoleNurse || !emp.Active {
		t.Fatalf("unexpected employee %+v", emp)
	}
}

func TestScanEmployee_NoRows(t *testing.T) {
	t.Parallel()

	row := stubRow{scanFn: func(dest ...interface{}) error {
		return pgx.ErrNoRows
	}}

	if _, err := scanEmployee(row); !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestEmployeeRepository_ListActiveByFacility_FiltersRoles(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewEmployeeRepository(mock)

	rows := pgxmock.NewRows(employeeRowColumns).
		AddRow(int64(6), int64(1), "Ana Reyes", "midwife", true).
		AddRow(int64(5), int64(1), "Maria Santos", "nurse", true)

	mock.ExpectQuery(regexp.QuoteMeta("e.role = ANY($2::text[])")).
		WithArgs(int64(1), []string{"nurse", "midwife"}).
		WillReturnRows(rows)

	employees, err := repo.ListActiveByFacility(context.Background(), employee.ListActiveFilter{
		FacilityID: 1,
		Roles:      []employee.Role{employee.RoleNurse, employee.RoleMidwife},
	})
	if err != nil {
		t.Fatalf("ListActiveByFacility returned error: %v", err)
	}
	if len(employees) != 2 || employees[0].Role != employee.RoleMidwife {
		t.Fatalf("unexpected employees %+v", employees)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_FindByID_NotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM employees e")).
		WithArgs(int64(42)).
		WillReturnError(pgx.ErrNoRows)

	if _, err := NewEmployeeRepository(mock).FindByID(context.Background(), 42); !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
