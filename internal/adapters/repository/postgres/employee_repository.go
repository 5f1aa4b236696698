package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/ogurasousui/health-office-scheduler/internal/core/employee"
	pgdb "github.com/ogurasousui/health-office-scheduler/internal/platform/db/postgres"
)

const employeeColumns = `e.id, e.facility_id, e.name, e.role, e.is_active`

// EmployeeRepository は PostgreSQL を利用した職員参照の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// FindByID は ID で職員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+employeeColumns+`
          FROM employees e
         WHERE e.id = $1
    `, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// ListActiveByFacility は施設の在籍職員を氏名順に取得します。
func (r *EmployeeRepository) ListActiveByFacility(ctx context.Context, filter employee.ListActiveFilter) ([]*employee.Employee, error) {
	roles := make([]string, 0, len(filter.Roles))
	for _, role := range filter.Roles {
		roles = append(roles, string(role))
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+employeeColumns+`
          FROM employees e
         WHERE e.facility_id = $1
           AND e.is_active
           AND (cardinality($2::text[]) = 0 OR e.role = ANY($2::text[]))
         ORDER BY e.name, e.id
    `, filter.FacilityID, roles)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, translateEmployeePgError(err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}

	return employees, nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		id         int64
		facilityID int64
		name       string
		role       string
		active     bool
	)

	if err := row.Scan(&id, &facilityID, &name, &role, &active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	return &employee.Employee{
		ID:         id,
		FacilityID: facilityID,
		Name:       name,
		Role:       employee.Role(role),
		Active:     active,
	}, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}
	return err
}
