package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// GetCompanyWebsite returns the cached website for company, or "" if it is
// missing or older than maxAge. maxAge <= 0 means no expiry.
func GetCompanyWebsite(ctx context.Context, db *sql.DB, company string, maxAge time.Duration) (website, strategy string, err error) {
	company = normalizeCompanyKey(company)
	if company == "" {
		return "", "", nil
	}

	var fetchedAt string
	err = db.QueryRowContext(ctx,
		`SELECT website, strategy, fetched_at FROM company_websites WHERE company = ? LIMIT 1;`,
		company,
	).Scan(&website, &strategy, &fetchedAt)

	if err == sql.ErrNoRows {
		return "", "", nil
	}
	if err != nil {
		return "", "", err
	}
	if maxAge > 0 && fetchedAt < cutoff(maxAge) {
		return "", "", nil
	}
	return strings.TrimSpace(website), strategy, nil
}

func UpsertCompanyWebsite(ctx context.Context, db *sql.DB, company, website, strategy string) error {
	company = normalizeCompanyKey(company)
	website = strings.TrimSpace(website)

	if company == "" || website == "" {
		return nil
	}

	_, err := db.ExecContext(ctx, `
INSERT INTO company_websites(company, website, strategy, fetched_at)
VALUES(?,?,?,?)
ON CONFLICT(company) DO UPDATE SET
  website = excluded.website,
  strategy = excluded.strategy,
  fetched_at = excluded.fetched_at;
`, company, website, strategy, now())

	return err
}

// PurgeCompanyWebsites empties the resolution cache.
func PurgeCompanyWebsites(ctx context.Context, db *sql.DB) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM company_websites;`)
	if err != nil {
		return 0, fmt.Errorf("purge company websites: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func CleanupExpiredWebsites(ctx context.Context, db *sql.DB, maxAge time.Duration) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM company_websites WHERE fetched_at < ?;`, cutoff(maxAge))
	if err != nil {
		return 0, fmt.Errorf("cleanup company websites: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func normalizeCompanyKey(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ToLower(s)
	return s
}

// GetCompanyWebsite lets *DB serve as the resolver's website cache.
func (d *DB) GetCompanyWebsite(ctx context.Context, company string, maxAge time.Duration) (string, string, error) {
	return GetCompanyWebsite(ctx, d.Pool, company, maxAge)
}

func (d *DB) UpsertCompanyWebsite(ctx context.Context, company, website, strategy string) error {
	return UpsertCompanyWebsite(ctx, d.Pool, company, website, strategy)
}
