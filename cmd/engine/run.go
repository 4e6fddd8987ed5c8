package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"enrich-engine/internal/domain"
	"enrich-engine/internal/ingest"
	"enrich-engine/internal/scrape"
	"enrich-engine/internal/store"

	"github.com/spf13/cobra"
)

var runOpts struct {
	input   string
	output  string
	limit   int
	workers int
	verbose bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Enrich a CSV or XLSX file and write the results as CSV",
	Long: `Reads the company column of --input, looks up a contact email for every
row and writes the original columns plus found_email, email_source and
processed_company_name to --output.`,
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runOpts.input, "input", "i", "", "input .csv or .xlsx file")
	f.StringVarP(&runOpts.output, "output", "o", "", "output .csv file (default <input>_emails.csv)")
	f.IntVar(&runOpts.limit, "limit", 0, "process at most N rows (default enrich.max_companies)")
	f.IntVar(&runOpts.workers, "workers", 0, "concurrent companies (default enrich.workers)")
	f.BoolVarP(&runOpts.verbose, "verbose", "v", false, "log every lookup step")
	_ = runCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig(dataDirFlag)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("limit") {
		cfg.Enrich.MaxCompanies = runOpts.limit
	}
	if cmd.Flags().Changed("workers") {
		cfg.Enrich.Workers = runOpts.workers
	}

	in, err := os.Open(runOpts.input)
	if err != nil {
		return err
	}
	tbl, err := ingest.Read(runOpts.input, in)
	in.Close()
	if err != nil {
		return fmt.Errorf("read %s: %w", runOpts.input, err)
	}
	col, colName, err := tbl.DetectCompanyColumn()
	if err != nil {
		return err
	}
	inputs := tbl.Companies(col, cfg.Enrich.MaxCompanies)

	logger := log.New(io.Discard, "", 0)
	if runOpts.verbose {
		logger = log.Default()
	}

	var cache scrape.WebsiteCache
	if cfg.Cache.Enabled {
		db, err := store.OpenAndMigrate(filepath.Join(cfg.App.DataDir, dbFile))
		if err != nil {
			return err
		}
		defer db.Close()
		cache = db
	}
	eng := buildEngine(cfg, cache, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Processing %d companies from column %q...\n", len(inputs), colName)
	results, runErr := eng.runner.Run(ctx, inputs, nil)

	outPath := runOpts.output
	if outPath == "" {
		outPath = defaultOutputPath(runOpts.input)
	}
	if err := writeOutput(outPath, tbl, inputs, results); err != nil {
		return err
	}

	sum := ingest.Summarize(results)
	cmd.Printf("Total companies: %d\n", sum.TotalCompanies)
	cmd.Printf("Emails found:    %d\n", sum.EmailsFound)
	cmd.Printf("Success rate:    %.1f%%\n", sum.SuccessRate)
	cmd.Printf("Results:         %s\n", outPath)
	if runOpts.verbose {
		cmd.Printf("Hosts contacted: %d\n", eng.limiter.Hosts())
	}
	if runErr != nil {
		return fmt.Errorf("run interrupted: %w", runErr)
	}
	return nil
}

func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_emails.csv"
}

func writeOutput(path string, tbl *ingest.Table, inputs []domain.CompanyInput, results []domain.EnrichmentResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ingest.WriteCSV(f, tbl, inputs, results); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
