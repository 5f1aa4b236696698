package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ogurasousui/health-office-scheduler/internal/core/station"
	pgdb "github.com/ogurasousui/health-office-scheduler/internal/platform/db/postgres"
)

const stationColumns = `s.id, s.name, s.number, s.type, s.service_id, s.is_active, s.created_at, s.updated_at`

// StationRepository は PostgreSQL を利用したステーション永続化の実装です。
type StationRepository struct {
	pool pgdb.Queryer
}

// NewStationRepository は StationRepository を生成します。
func NewStationRepository(pool pgdb.Queryer) *StationRepository {
	return &StationRepository{pool: pool}
}

// FindByID は ID でステーションを取得します。
func (r *StationRepository) FindByID(ctx context.Context, id int64) (*station.Station, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+stationColumns+`
          FROM stations s
         WHERE s.id = $1
    `, id)

	found, err := scanStation(row)
	if err != nil {
		return nil, translateStationPgError(err)
	}
	return found, nil
}

// List はステーションを種別・番号順に取得します。
func (r *StationRepository) List(ctx context.Context, filter station.ListStationsFilter) ([]*station.Station, error) {
	args := make([]any, 0, 1)
	conditions := make([]string, 0, 2)

	if filter.ActiveOnly {
		conditions = append(conditions, "s.is_active")
	}
	if filter.Type != nil {
		args = append(args, string(*filter.Type))
		conditions = append(conditions, "s.type = $"+strconv.Itoa(len(args)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := `
        SELECT ` + stationColumns + `
          FROM stations s` + whereClause + `
         ORDER BY s.type, s.number, s.id
    `

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translateStationPgError(err)
	}
	defer rows.Close()

	stations := make([]*station.Station, 0)
	for rows.Next() {
		st, err := scanStation(rows)
		if err != nil {
			return nil, translateStationPgError(err)
		}
		stations = append(stations, st)
	}
	if err := rows.Err(); err != nil {
		return nil, translateStationPgError(err)
	}

	return stations, nil
}

// UpdateActive はステーションの有効フラグを更新します。
func (r *StationRepository) UpdateActive(ctx context.Context, id int64, active bool) (*station.Station, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE stations s
           SET is_active = $1,
               updated_at = NOW()
         WHERE s.id = $2
        RETURNING `+stationColumns+`
    `, active, id)

	updated, err := scanStation(row)
	if err != nil {
		return nil, translateStationPgError(err)
	}
	return updated, nil
}

func scanStation(row pgx.Row) (*station.Station, error) {
	var (
		id        int64
		name      string
		number    int
		kind      string
		serviceID int64
		active    bool
		createdAt time.Time
		updatedAt time.Time
	)

	if err := row.Scan(&id, &name, &number, &kind, &serviceID, &active, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, station.ErrStationNotFound
		}
		return nil, err
	}

	return &station.Station{
		ID:        id,
		Name:      name,
		Number:    number,
		Type:      station.Type(kind),
		ServiceID: serviceID,
		Active:    active,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func translateStationPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return station.ErrStationNotFound
	}
	return err
}
