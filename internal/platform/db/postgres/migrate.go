package postgres

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// SeedsTable は seed の適用履歴テーブルです。スキーマのマイグレーション履歴とは別に管理します。
const SeedsTable = "schema_seeds"

// Migrator は golang-migrate によるディレクトリ単位のマイグレーションです。
type Migrator struct {
	m *migrate.Migrate
}

// NewMigrator は dir の SQL ファイルを dsn のデータベースへ適用する Migrator を生成します。
func NewMigrator(dir, dsn string) (*Migrator, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve path for %s: %w", dir, err)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(absDir), dsn)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return &Migrator{m: m}, nil
}

// NewSeeder は seed 用の Migrator を生成します。適用履歴は SeedsTable に記録します。
func NewSeeder(dir, dsn string) (*Migrator, error) {
	seedDSN, err := WithMigrationsTable(dsn, SeedsTable)
	if err != nil {
		return nil, err
	}
	return NewMigrator(dir, seedDSN)
}

// WithMigrationsTable は dsn に golang-migrate の履歴テーブル指定を追加します。
func WithMigrationsTable(dsn, table string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse dsn: %w", err)
	}
	q := u.Query()
	q.Set("x-migrations-table", table)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Up は未適用のマイグレーションをすべて適用します。
func (m *Migrator) Up() error {
	if err := m.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Down は適用済みのマイグレーションをすべて戻します。
func (m *Migrator) Down() error {
	if err := m.m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Drop はデータベース内のすべてのオブジェクトを削除します。
func (m *Migrator) Drop() error {
	return m.m.Drop()
}

// Version は現在のバージョンを返します。未適用の場合は applied が false です。
func (m *Migrator) Version() (version uint, dirty bool, applied bool, err error) {
	version, dirty, err = m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, err
	}
	return version, dirty, true, nil
}

// Close は接続を閉じます。
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.m.Close()
	return errors.Join(sourceErr, dbErr)
}
