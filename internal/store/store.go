package store

import (
	"context"
	"database/sql"
	errs "errors"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DaanHessen/stripe-guide/internal/payments"
)

var (
	ErrNoChange   = errs.New("no change")
	ErrMissingDSN = errs.New("missing DSN")
)

// DB wraps gorm.DB for repositories and exposes Close.
type DB struct {
	gorm *gorm.DB
	sql  *sql.DB
}

func (d *DB) Close() error   { return d.sql.Close() }
func (d *DB) Gorm() *gorm.DB { return d.gorm }

// Open connects to Postgres at dsn.
func Open(ctx context.Context, dsn string) (*DB, error) {
	if dsn == "" {
		return nil, ErrMissingDSN
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, wrap(err, "open postgres")
	}
	sdb, err := gdb.DB()
	if err != nil {
		return nil, wrap(err, "sql handle")
	}
	sdb.SetConnMaxLifetime(30 * time.Minute)
	sdb.SetMaxOpenConns(10)
	sdb.SetMaxIdleConns(5)
	if err := sdb.PingContext(ctx); err != nil {
		sdb.Close()
		return nil, wrap(err, "ping postgres")
	}
	return &DB{gorm: gdb, sql: sdb}, nil
}

// WithTx executes fn within a database transaction.
func (d *DB) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.gorm.WithContext(ctx).Transaction(fn)
}

const (
	defaultRecent = 20
	maxRecent     = 100
)

// PaymentRepo stores demo payment records. It satisfies payments.Recorder.
type PaymentRepo struct{ db *DB }

func NewPaymentRepo(db *DB) *PaymentRepo { return &PaymentRepo{db: db} }

var _ payments.Recorder = (*PaymentRepo)(nil)

func (r *PaymentRepo) Record(ctx context.Context, p payments.Record) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	return r.db.WithTx(ctx, func(tx *gorm.DB) error {
		err := tx.Exec(`INSERT INTO demo_payments(id, mode, stripe_id, amount, currency, url, created_at) VALUES (?,?,?,?,?,?,?)`,
			p.ID, string(p.Mode), p.StripeID, p.Amount, p.Currency, p.URL, p.CreatedAt).Error
		return wrap(err, "insert demo payment")
	})
}

// Recent returns up to limit records, newest first.
func (r *PaymentRepo) Recent(ctx context.Context, limit int) ([]payments.Record, error) {
	rows, err := r.db.gorm.WithContext(ctx).Raw(
		`SELECT id, mode, stripe_id, amount, currency, url, created_at FROM demo_payments ORDER BY created_at DESC LIMIT ?`,
		ClampLimit(limit),
	).Rows()
	if err != nil {
		return nil, wrap(err, "query demo payments")
	}
	defer rows.Close()
	var out []payments.Record
	for rows.Next() {
		var (
			p    payments.Record
			mode string
		)
		if err := rows.Scan(&p.ID, &mode, &p.StripeID, &p.Amount, &p.Currency, &p.URL, &p.CreatedAt); err != nil {
			return nil, wrap(err, "scan demo payment")
		}
		p.Mode = payments.Mode(mode)
		out = append(out, p)
	}
	return out, wrap(rows.Err(), "iterate demo payments")
}

// ClampLimit bounds a requested page size to (0, 100], defaulting to 20.
func ClampLimit(n int) int {
	switch {
	case n <= 0:
		return defaultRecent
	case n > maxRecent:
		return maxRecent
	default:
		return n
	}
}

// Helper error wrap
func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}
