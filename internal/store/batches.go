package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrBatchNotFound = errors.New("batch not found")

// Batch is a finished enrichment output kept for download until it expires.
type Batch struct {
	ID            string `json:"id"`
	Filename      string `json:"filename"`
	CompanyColumn string `json:"company_column"`
	Total         int    `json:"total"`
	EmailsFound   int    `json:"emails_found"`
	CreatedAt     string `json:"created_at"`
	CSV           []byte `json:"-"`
}

func SaveBatch(ctx context.Context, db *sql.DB, b Batch) error {
	if b.ID == "" {
		return errors.New("save batch: empty id")
	}
	if b.CreatedAt == "" {
		b.CreatedAt = now()
	}
	if b.CSV == nil {
		b.CSV = []byte{}
	}
	_, err := db.ExecContext(ctx, `
INSERT INTO batches(id, filename, company_column, total, emails_found, csv, created_at)
VALUES(?,?,?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET
  filename = excluded.filename,
  company_column = excluded.company_column,
  total = excluded.total,
  emails_found = excluded.emails_found,
  csv = excluded.csv,
  created_at = excluded.created_at;
`, b.ID, b.Filename, b.CompanyColumn, b.Total, b.EmailsFound, b.CSV, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("save batch %s: %w", b.ID, err)
	}
	return nil
}

// GetBatch loads a batch including its CSV output.
func GetBatch(ctx context.Context, db *sql.DB, id string) (Batch, error) {
	var b Batch
	err := db.QueryRowContext(ctx, `
SELECT id, filename, company_column, total, emails_found, csv, created_at
FROM batches
WHERE id = ?
LIMIT 1;`, id).Scan(&b.ID, &b.Filename, &b.CompanyColumn, &b.Total, &b.EmailsFound, &b.CSV, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return Batch{}, ErrBatchNotFound
	}
	if err != nil {
		return Batch{}, err
	}
	return b, nil
}

// ListBatches returns batch metadata, newest first, without CSV bodies.
func ListBatches(ctx context.Context, db *sql.DB, limit int) ([]Batch, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := db.QueryContext(ctx, `
SELECT id, filename, company_column, total, emails_found, created_at
FROM batches
ORDER BY created_at DESC, id
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Batch
	for rows.Next() {
		var b Batch
		if err := rows.Scan(&b.ID, &b.Filename, &b.CompanyColumn, &b.Total, &b.EmailsFound, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func CleanupOldBatches(ctx context.Context, db *sql.DB, maxAge time.Duration) (deleted int64, err error) {
	res, err := db.ExecContext(ctx, `DELETE FROM batches WHERE created_at < ?;`, cutoff(maxAge))
	if err != nil {
		return 0, fmt.Errorf("cleanup old batches: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// DeleteBatch removes one stored output. A missing id is ErrBatchNotFound.
func DeleteBatch(ctx context.Context, db *sql.DB, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM batches WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("delete batch %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBatchNotFound
	}
	return nil
}

func (d *DB) SaveBatch(ctx context.Context, b Batch) error {
	return SaveBatch(ctx, d.Pool, b)
}

func (d *DB) GetBatch(ctx context.Context, id string) (Batch, error) {
	return GetBatch(ctx, d.Pool, id)
}

func (d *DB) DeleteBatch(ctx context.Context, id string) error {
	return DeleteBatch(ctx, d.Pool, id)
}
