// Package postgres backs the entity store contract with a single jsonb
// table. It exists for deployments without access to Google Cloud
// Datastore; the contract is identical, including transactional
// relationship mutations.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/tasknest/tasknest/internal/domain"
)

// Config carries the connection settings for the Postgres backend.
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

const schema = `
CREATE TABLE IF NOT EXISTS entities (
	kind       text   NOT NULL,
	id         bigint NOT NULL DEFAULT nextval('entities_id_seq'),
	properties jsonb  NOT NULL,
	PRIMARY KEY (kind, id)
)`

const sequence = `CREATE SEQUENCE IF NOT EXISTS entities_id_seq`

type Store struct {
	db *sql.DB
}

// New opens the database, verifies connectivity and ensures the entities
// table exists.
func New(ctx context.Context, cfg Config) (*Store, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, sequence); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure id sequence: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}
	return &Store{db: db}, nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (s *Store) Get(ctx context.Context, kind string, id int64) (domain.Entity, error) {
	return getEntity(ctx, s.db, kind, id)
}

func (s *Store) Put(ctx context.Context, e domain.Entity) error {
	return putEntity(ctx, s.db, e)
}

func (s *Store) Delete(ctx context.Context, kind string, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM entities WHERE kind = $1 AND id = $2`, kind, id)
	return err
}

func (s *Store) Query(ctx context.Context, kind string, filters []domain.Filter, limit, offset int) ([]domain.Entity, int, error) {
	where, args := buildWhere(kind, filters)

	var total int
	countQuery := `SELECT count(*) FROM entities ` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	pageQuery := `SELECT id, properties FROM entities ` + where + ` ORDER BY id`
	if limit > 0 {
		pageQuery += ` LIMIT ` + strconv.Itoa(limit)
	}
	if offset > 0 {
		pageQuery += ` OFFSET ` + strconv.Itoa(offset)
	}

	rows, err := s.db.QueryContext(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Entity
	for rows.Next() {
		var id int64
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, 0, err
		}
		e, err := decodeEntity(kind, id, raw)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

func (s *Store) RunInTransaction(ctx context.Context, fn func(tx domain.Ops) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&txOps{ctx: ctx, tx: sqlTx}); err != nil {
		sqlTx.Rollback()
		return err
	}
	return sqlTx.Commit()
}

func (s *Store) Close() error {
	return s.db.Close()
}

type txOps struct {
	ctx context.Context
	tx  *sql.Tx
}

func (x *txOps) Get(ctx context.Context, kind string, id int64) (domain.Entity, error) {
	return getEntity(ctx, x.tx, kind, id)
}

func (x *txOps) Put(ctx context.Context, e domain.Entity) error {
	return putEntity(ctx, x.tx, e)
}

func (x *txOps) Delete(ctx context.Context, kind string, id int64) error {
	_, err := x.tx.ExecContext(ctx, `DELETE FROM entities WHERE kind = $1 AND id = $2`, kind, id)
	return err
}

func getEntity(ctx context.Context, q querier, kind string, id int64) (domain.Entity, error) {
	var raw []byte
	err := q.QueryRowContext(ctx, `SELECT properties FROM entities WHERE kind = $1 AND id = $2`, kind, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, domain.ErrInvalidID
	}
	if err != nil {
		return nil, err
	}
	return decodeEntity(kind, id, raw)
}

func putEntity(ctx context.Context, q querier, e domain.Entity) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if e.EntityID() == 0 {
		var id int64
		err := q.QueryRowContext(ctx,
			`INSERT INTO entities (kind, properties) VALUES ($1, $2) RETURNING id`,
			e.EntityKind(), raw).Scan(&id)
		if err != nil {
			return err
		}
		e.SetEntityID(id)
		return nil
	}
	_, err = q.ExecContext(ctx,
		`INSERT INTO entities (kind, id, properties) VALUES ($1, $2, $3)
		 ON CONFLICT (kind, id) DO UPDATE SET properties = EXCLUDED.properties`,
		e.EntityKind(), e.EntityID(), raw)
	return err
}

func decodeEntity(kind string, id int64, raw []byte) (domain.Entity, error) {
	e := domain.NewEntity(kind)
	if e == nil {
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
	if err := json.Unmarshal(raw, e); err != nil {
		return nil, err
	}
	e.SetEntityID(id)
	return e, nil
}

// buildWhere renders equality filters against jsonb text projections.
// Values are passed as parameters; only the field names are interpolated,
// and those come from code, not callers.
func buildWhere(kind string, filters []domain.Filter) (string, []interface{}) {
	clauses := []string{`kind = $1`}
	args := []interface{}{kind}
	for _, f := range filters {
		args = append(args, filterArg(f.Value))
		clauses = append(clauses, fmt.Sprintf(`properties->>'%s' = $%d`, f.Field, len(args)))
	}
	return `WHERE ` + strings.Join(clauses, ` AND `), args
}

func filterArg(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
