// Package store provides SQLite-backed persistence for maint data.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/scbrown/maint/internal/model"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS customer (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS contract (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	customer_id  INTEGER NOT NULL,
	start_date   TEXT NOT NULL,
	end_date     TEXT NOT NULL,
	total_points INTEGER NOT NULL,
	FOREIGN KEY (customer_id) REFERENCES customer(id)
);
CREATE TABLE IF NOT EXISTS request (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	contract_id  INTEGER NOT NULL,
	description  TEXT NOT NULL,
	request_date TEXT NOT NULL,
	FOREIGN KEY (contract_id) REFERENCES contract(id)
);
CREATE TABLE IF NOT EXISTS work (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id  INTEGER NOT NULL,
	worker      TEXT NOT NULL,
	description TEXT NOT NULL,
	points_used INTEGER NOT NULL,
	work_date   TEXT NOT NULL,
	FOREIGN KEY (request_id) REFERENCES request(id)
);`

// SQLiteStore implements Store using a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
	// q is db, or the open transaction for a store handed out by InTx.
	q   querier
	log *zap.Logger
}

// querier is the subset of *sql.DB and *sql.Tx the store runs statements on.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Option configures a SQLiteStore.
type Option func(*options)

type options struct {
	log         *zap.Logger
	foreignKeys bool
}

// WithLogger sets the logger used for debug output. The default discards
// everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithForeignKeys turns on SQLite foreign key enforcement. Without it the
// declared references are advisory.
func WithForeignKeys(on bool) Option {
	return func(o *options) { o.foreignKeys = on }
}

// New opens (or creates) a SQLite database at dbPath.
// When dbPath does not exist yet it creates the parent directory and the
// schema. An existing database is opened as-is.
func New(dbPath string, opts ...Option) (*SQLiteStore, error) {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	fresh := dbPath == MemoryPath
	if !fresh {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			fresh = true
		} else if err != nil {
			return nil, fmt.Errorf("stat database: %w", err)
		}
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir %s: %w", dir, err)
		}
	}

	dsn := dbPath + "?_pragma=busy_timeout(5000)"
	if o.foreignKeys {
		dsn += "&_pragma=foreign_keys(1)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// One connection for the life of the process.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	s := &SQLiteStore{db: db, q: db, log: o.log}
	if fresh {
		if err := s.Init(context.Background()); err != nil {
			db.Close()
			return nil, err
		}
	}
	s.log.Debug("opened database",
		zap.String("path", dbPath),
		zap.Bool("fresh", fresh),
		zap.Bool("foreign_keys", o.foreignKeys))
	return s, nil
}

// Init creates the four tables. Running it against an initialized database
// is a no-op.
func (s *SQLiteStore) Init(ctx context.Context) error {
	if _, err := s.q.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	s.log.Debug("schema initialized")
	return nil
}

// Tables returns the names of the user tables in the database, sorted.
func (s *SQLiteStore) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// InTx runs fn against a store bound to a single transaction. The writes fn
// makes are committed when it returns nil and rolled back otherwise. fn must
// not close the store it is given. Nested calls join the outer transaction.
func (s *SQLiteStore) InTx(ctx context.Context, fn func(Store) error) error {
	if _, ok := s.q.(*sql.Tx); ok {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(&SQLiteStore{db: s.db, q: tx, log: s.log}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Debug("rollback failed", zap.Error(rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// exec runs a single-row mutation and returns the number of rows affected.
func (s *SQLiteStore) exec(ctx context.Context, op, table, query string, args ...any) (int64, error) {
	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", op, table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	s.log.Debug(op, zap.String("table", table), zap.Int64("rows", n))
	return n, nil
}

// list runs query and decodes every row.
func list[T any](ctx context.Context, s *SQLiteStore, table string, decode func(row) (T, error)) ([]T, error) {
	rows, err := s.q.QueryContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	return collect(rows, table, decode)
}

// get fetches the row of table with the given id.
func get[T any](ctx context.Context, s *SQLiteStore, table string, id int64, decode func(row) (T, error)) (T, error) {
	var zero T
	rows, err := s.q.QueryContext(ctx, "SELECT * FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return zero, fmt.Errorf("get %s: %w", table, err)
	}
	found, err := collect(rows, table, decode)
	if err != nil {
		return zero, err
	}
	if len(found) == 0 {
		return zero, notFound(table, id)
	}
	return found[0], nil
}

// AddCustomer inserts a customer.
func (s *SQLiteStore) AddCustomer(ctx context.Context, c model.Customer) (int64, error) {
	return s.exec(ctx, "insert", "customer",
		`INSERT INTO customer (name) VALUES (?)`, c.Name)
}

// GetCustomer returns the customer with the given id.
func (s *SQLiteStore) GetCustomer(ctx context.Context, id int64) (model.Customer, error) {
	return get(ctx, s, "customer", id, decodeCustomer)
}

// ListCustomers returns every customer in insertion order.
func (s *SQLiteStore) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	return list(ctx, s, "customer", decodeCustomer)
}

// SaveCustomer replaces the customer with c.ID.
func (s *SQLiteStore) SaveCustomer(ctx context.Context, c model.Customer) (int64, error) {
	return s.exec(ctx, "update", "customer",
		`UPDATE customer SET name = ? WHERE id = ?`, c.Name, c.ID)
}

// AddContract inserts a contract.
func (s *SQLiteStore) AddContract(ctx context.Context, c model.Contract) (int64, error) {
	return s.exec(ctx, "insert", "contract",
		`INSERT INTO contract (customer_id, start_date, end_date, total_points) VALUES (?, ?, ?, ?)`,
		c.CustomerID, c.StartDate.String(), c.EndDate.String(), c.TotalPoints)
}

// GetContract returns the contract with the given id.
func (s *SQLiteStore) GetContract(ctx context.Context, id int64) (model.Contract, error) {
	return get(ctx, s, "contract", id, decodeContract)
}

// ListContracts returns every contract in insertion order.
func (s *SQLiteStore) ListContracts(ctx context.Context) ([]model.Contract, error) {
	return list(ctx, s, "contract", decodeContract)
}

// SaveContract replaces the contract with c.ID.
func (s *SQLiteStore) SaveContract(ctx context.Context, c model.Contract) (int64, error) {
	return s.exec(ctx, "update", "contract",
		`UPDATE contract SET
			customer_id = ?,
			start_date = ?,
			end_date = ?,
			total_points = ?
		WHERE id = ?`,
		c.CustomerID, c.StartDate.String(), c.EndDate.String(), c.TotalPoints, c.ID)
}

// AddRequest inserts a request.
func (s *SQLiteStore) AddRequest(ctx context.Context, r model.Request) (int64, error) {
	return s.exec(ctx, "insert", "request",
		`INSERT INTO request (contract_id, description, request_date) VALUES (?, ?, ?)`,
		r.ContractID, r.Description, r.RequestDate.String())
}

// GetRequest returns the request with the given id.
func (s *SQLiteStore) GetRequest(ctx context.Context, id int64) (model.Request, error) {
	return get(ctx, s, "request", id, decodeRequest)
}

// ListRequests returns every request in insertion order.
func (s *SQLiteStore) ListRequests(ctx context.Context) ([]model.Request, error) {
	return list(ctx, s, "request", decodeRequest)
}

// SaveRequest replaces the request with r.ID.
func (s *SQLiteStore) SaveRequest(ctx context.Context, r model.Request) (int64, error) {
	return s.exec(ctx, "update", "request",
		`UPDATE request SET
			contract_id = ?,
			description = ?,
			request_date = ?
		WHERE id = ?`,
		r.ContractID, r.Description, r.RequestDate.String(), r.ID)
}

// AddWork inserts a work entry.
func (s *SQLiteStore) AddWork(ctx context.Context, w model.Work) (int64, error) {
	return s.exec(ctx, "insert", "work",
		`INSERT INTO work (request_id, worker, description, points_used, work_date) VALUES (?, ?, ?, ?, ?)`,
		w.RequestID, w.Worker, w.Description, w.PointsUsed, w.WorkDate.String())
}

// GetWork returns the work entry with the given id.
func (s *SQLiteStore) GetWork(ctx context.Context, id int64) (model.Work, error) {
	return get(ctx, s, "work", id, decodeWork)
}

// ListWork returns every work entry in insertion order.
func (s *SQLiteStore) ListWork(ctx context.Context) ([]model.Work, error) {
	return list(ctx, s, "work", decodeWork)
}

// SaveWork replaces the work entry with w.ID.
func (s *SQLiteStore) SaveWork(ctx context.Context, w model.Work) (int64, error) {
	return s.exec(ctx, "update", "work",
		`UPDATE work SET
			request_id = ?,
			worker = ?,
			description = ?,
			points_used = ?,
			work_date = ?
		WHERE id = ?`,
		w.RequestID, w.Worker, w.Description, w.PointsUsed, w.WorkDate.String(), w.ID)
}

// Workers returns the distinct worker names, sorted.
func (s *SQLiteStore) Workers(ctx context.Context) ([]string, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT DISTINCT worker FROM work ORDER BY worker`)
	if err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan worker: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
