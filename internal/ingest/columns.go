package ingest

import (
	"errors"
	"fmt"
	"strings"

	"enrich-engine/internal/domain"
)

var ErrNoCompanyColumn = errors.New("no company column found")

// CompanyColumns are checked in order; the first present header is used.
var CompanyColumns = []string{
	"companyName",
	"shipToCompanyName",
	"company_name",
	"Company Name",
	"Company",
	"Name",
}

// DetectCompanyColumn returns the index and name of the company column.
func (t *Table) DetectCompanyColumn() (int, string, error) {
	for _, want := range CompanyColumns {
		for i, h := range t.Header {
			if h == want {
				return i, h, nil
			}
		}
	}
	return -1, "", fmt.Errorf("%w. Available: [%s]", ErrNoCompanyColumn, strings.Join(t.Header, ", "))
}

// Companies lists the rows to enrich. limit > 0 caps how many rows are
// considered; blank names within that window are skipped.
func (t *Table) Companies(col, limit int) []domain.CompanyInput {
	rows := t.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	var out []domain.CompanyInput
	for i, row := range rows {
		name := ""
		if col >= 0 && col < len(row) {
			name = strings.TrimSpace(row[col])
		}
		if name == "" {
			continue
		}
		out = append(out, domain.CompanyInput{Name: name, Row: i})
	}
	return out
}
