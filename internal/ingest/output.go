package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"

	"enrich-engine/internal/domain"
)

// OutputColumns are appended to every input row.
var OutputColumns = []string{"found_email", "email_source", "processed_company_name"}

const notAvailable = "N/A"

// WriteCSV writes the processed rows of t with the enrichment columns
// appended. results[i] belongs to inputs[i].
func WriteCSV(w io.Writer, t *Table, inputs []domain.CompanyInput, results []domain.EnrichmentResult) error {
	if len(inputs) != len(results) {
		return fmt.Errorf("write csv: %d inputs but %d results", len(inputs), len(results))
	}

	cw := csv.NewWriter(w)
	header := append(append([]string{}, t.Header...), OutputColumns...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, in := range inputs {
		res := results[i]
		row := make([]string, 0, len(header))
		if in.Row >= 0 && in.Row < len(t.Rows) {
			row = append(row, t.Rows[in.Row]...)
		} else {
			row = append(row, make([]string, len(t.Header))...)
		}

		email := res.FoundEmail
		if email == "" {
			email = domain.NotFound
		}
		source := res.EmailSource
		if source == "" {
			source = notAvailable
		}
		row = append(row, email, source, res.ProcessedCompanyName)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeCSV is WriteCSV into memory.
func EncodeCSV(t *Table, inputs []domain.CompanyInput, results []domain.EnrichmentResult) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t, inputs, results); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type Summary struct {
	TotalCompanies int     `json:"total_companies"`
	EmailsFound    int     `json:"emails_found"`
	SuccessRate    float64 `json:"success_rate"`
}

func Summarize(results []domain.EnrichmentResult) Summary {
	s := Summary{TotalCompanies: len(results)}
	for _, r := range results {
		if r.Found() {
			s.EmailsFound++
		}
	}
	s.SuccessRate = SuccessRate(s.EmailsFound, s.TotalCompanies)
	return s
}

// SuccessRate is found/total as a percentage rounded to one decimal.
func SuccessRate(found, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(found)/float64(total)*1000) / 10
}
