// Package main implements the import-waters CLI for loading water bodies
// into PostgreSQL.
//
// Usage:
//
//	go run ./cmd/tools/import-waters validate waters.yaml
//	go run ./cmd/tools/import-waters import waters.json.zst
//	go run ./cmd/tools/import-waters import --dry-run waters.yml
//
// Input files hold an array of records in JSON or YAML. A .zst suffix marks
// zstd compressed input. DATABASE_URL is read from the environment or a .env
// file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"fangindex/internal/config"
	"fangindex/internal/core"
	"fangindex/internal/db"
	"fangindex/internal/types"
)

// upserter is the part of the water body repository the importer writes to.
type upserter interface {
	Upsert(ctx context.Context, c types.WaterBodyCandidate) error
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:          "import-waters",
		Short:        "Validate and import water bodies",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	logger := func(cmd *cobra.Command) *slog.Logger {
		return core.NewJSONLogger(logLevel, cmd.ErrOrStderr())
	}
	root.AddCommand(newValidateCmd(logger), newImportCmd(logger))
	return root
}

func newValidateCmd(logger func(*cobra.Command) *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check an import file without touching the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := loadAndValidate(args[0], logger(cmd), cmd.OutOrStdout(), false)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d records valid\n", len(records))
			return nil
		},
	}
}

func newImportCmd(logger func(*cobra.Command) *slog.Logger) *cobra.Command {
	var (
		dryRun      bool
		skipInvalid bool
		databaseURL string
		timeout     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Upsert the records of an import file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger(cmd)
			records, err := loadAndValidate(args[0], log, cmd.OutOrStdout(), skipInvalid)
			if err != nil {
				return err
			}
			candidates := make([]types.WaterBodyCandidate, 0, len(records))
			for _, rec := range records {
				candidates = append(candidates, toCandidate(rec))
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "dry run: %d records would be imported\n", len(candidates))
				return nil
			}

			if err := godotenv.Load(); err != nil {
				log.Debug("no .env file loaded", "error", err)
			}
			if databaseURL == "" {
				databaseURL = os.Getenv("DATABASE_URL")
			}
			if databaseURL == "" {
				return errors.New("DATABASE_URL is not set")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			pool, err := db.NewPool(ctx, config.DatabaseConfig{
				URL:            config.SecretString(databaseURL),
				MaxConns:       2,
				AcquireTimeout: 5 * time.Second,
			})
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := db.EnsureSchema(ctx, pool); err != nil {
				return fmt.Errorf("applying schema: %w", err)
			}

			n, err := importCandidates(ctx, db.NewWaterBodyRepository(pool, log), candidates, log)
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d records\n", n, len(candidates))
			return err
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate and convert without writing")
	cmd.Flags().BoolVar(&skipInvalid, "skip-invalid", false, "import the valid records and report the rest")
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL URL (defaults to DATABASE_URL)")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall import timeout")
	return cmd
}

// loadAndValidate reads path and prints every invalid record to out. Any
// invalid record fails the call unless skipInvalid is set, in which case
// only the valid records are returned.
func loadAndValidate(path string, logger *slog.Logger, out io.Writer, skipInvalid bool) ([]waterRecord, error) {
	records, err := loadRecords(path)
	if err != nil {
		return nil, err
	}
	errs := validateRecords(core.NewValidator(logger), records)
	for _, err := range errs {
		fmt.Fprintln(out, err)
	}
	if len(errs) > 0 && !skipInvalid {
		return nil, fmt.Errorf("%d of %d records invalid", len(errs), len(records))
	}

	valid := dropInvalid(records, errs)
	logger.Info("records loaded", "path", path, "valid", len(valid), "skipped", len(records)-len(valid))
	return valid, nil
}

func dropInvalid(records []waterRecord, errs []error) []waterRecord {
	if len(errs) == 0 {
		return records
	}
	bad := make(map[int]bool, len(errs))
	for _, err := range errs {
		var re *RecordError
		if errors.As(err, &re) {
			bad[re.Index] = true
		}
	}
	valid := make([]waterRecord, 0, len(records)-len(bad))
	for i, rec := range records {
		if !bad[i] {
			valid = append(valid, rec)
		}
	}
	return valid
}

// importCandidates upserts candidates in order and stops at the first
// failure or cancellation. It returns how many were written.
func importCandidates(ctx context.Context, store upserter, candidates []types.WaterBodyCandidate, logger *slog.Logger) (int, error) {
	for i, c := range candidates {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := store.Upsert(ctx, c); err != nil {
			logger.Error("upsert failed", "id", c.ID, "name", c.Name, "error", err)
			return i, err
		}
		logger.Debug("water body upserted", "id", c.ID, "name", c.Name)
	}
	return len(candidates), nil
}
