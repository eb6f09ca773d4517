package refdata

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const defaultBatchSize = 1000

// LoadResult summarizes a batched CSV load.
type LoadResult struct {
	Inserted int64
	Skipped  int64
}

// rowInserter parses a single CSV row and inserts it within tx. A row it
// cannot parse yields an error before any statement runs, and the loader
// logs + skips that line.
type rowInserter func(ctx context.Context, tx pgx.Tx, fields []string) error

// LoadIPSF streams an IPSF CSV file into ipsf_data: skip the header row,
// insert in batches of 1000, commit at batch boundaries, and skip (log, not
// fail) any malformed line. Mirrors the batched-transaction CSV loader
// pattern used for hospital price-transparency files.
func (s *Store) LoadIPSF(ctx context.Context, r io.Reader, logger *zap.SugaredLogger) (LoadResult, error) {
	return s.loadCSV(ctx, r, logger, insertIPSFRow)
}

// LoadOPSF is the outpatient analogue of LoadIPSF.
func (s *Store) LoadOPSF(ctx context.Context, r io.Reader, logger *zap.SugaredLogger) (LoadResult, error) {
	return s.loadCSV(ctx, r, logger, insertOPSFRow)
}

// LoadZip9 loads a zip5,plus4,carrier,locality,effective_date,end_date CSV.
func (s *Store) LoadZip9(ctx context.Context, r io.Reader, logger *zap.SugaredLogger) (LoadResult, error) {
	return s.loadCSV(ctx, r, logger, insertZip9Row)
}

func (s *Store) loadCSV(ctx context.Context, r io.Reader, logger *zap.SugaredLogger, insert rowInserter) (LoadResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil && err != io.EOF {
		return LoadResult{}, fmt.Errorf("refdata: reading header: %w", err)
	}

	var result LoadResult
	batchCount := 0

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return result, fmt.Errorf("refdata: beginning transaction: %w", err)
	}

	lineNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		lineNum++
		if err != nil {
			result.Skipped++
			logger.Warnw("refdata: skipping malformed CSV line", "line", lineNum, "error", err)
			continue
		}

		if insertErr := insert(ctx, tx, record); insertErr != nil {
			result.Skipped++
			logger.Warnw("refdata: skipping malformed row", "line", lineNum, "error", insertErr)
			continue
		}

		result.Inserted++
		batchCount++

		if batchCount >= defaultBatchSize {
			if err := tx.Commit(ctx); err != nil {
				return result, fmt.Errorf("refdata: committing batch at line %d: %w", lineNum, err)
			}
			tx, err = s.pool.Begin(ctx)
			if err != nil {
				return result, fmt.Errorf("refdata: beginning new transaction: %w", err)
			}
			batchCount = 0
		}
	}

	if batchCount > 0 {
		if err := tx.Commit(ctx); err != nil {
			return result, fmt.Errorf("refdata: committing final batch: %w", err)
		}
	} else {
		_ = tx.Rollback(ctx)
	}

	return result, nil
}

func insertIPSFRow(ctx context.Context, tx pgx.Tx, f []string) error {
	if len(f) < 6 {
		return fmt.Errorf("expected at least 6 columns, got %d", len(f))
	}
	eff, err := time.Parse("2006-01-02", f[2])
	if err != nil {
		return fmt.Errorf("invalid effective_date: %w", err)
	}
	term := parseOptionalDate(f[3])
	wageIndex, _ := strconv.ParseFloat(f[4], 64)
	opCCR, _ := strconv.ParseFloat(f[5], 64)

	_, err = tx.Exec(ctx, `
		INSERT INTO ipsf_data (ccn, npi, effective_date, termination_date, wage_index, operating_cost_to_charge_ratio)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		f[0], f[1], eff, term, wageIndex, opCCR)
	return err
}

func insertOPSFRow(ctx context.Context, tx pgx.Tx, f []string) error {
	if len(f) < 6 {
		return fmt.Errorf("expected at least 6 columns, got %d", len(f))
	}
	eff, err := time.Parse("2006-01-02", f[2])
	if err != nil {
		return fmt.Errorf("invalid effective_date: %w", err)
	}
	term := parseOptionalDate(f[3])
	wageIndex, _ := strconv.ParseFloat(f[4], 64)
	ccr, _ := strconv.ParseFloat(f[5], 64)

	_, err = tx.Exec(ctx, `
		INSERT INTO opsf_data (ccn, npi, effective_date, termination_date, wage_index, cost_to_charge_ratio)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		f[0], f[1], eff, term, wageIndex, ccr)
	return err
}

func insertZip9Row(ctx context.Context, tx pgx.Tx, f []string) error {
	if len(f) < 6 {
		return fmt.Errorf("expected zip5,plus4,carrier,locality,effective_date,end_date, got %d columns", len(f))
	}
	eff, err := time.Parse("2006-01-02", f[4])
	if err != nil {
		return fmt.Errorf("invalid effective_date: %w", err)
	}
	term := parseOptionalDate(f[5])

	_, err = tx.Exec(ctx, `
		INSERT INTO zip9_data (zip5, plus4, carrier, locality, effective_date, termination_date)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		f[0], f[1], f[2], f[3], eff, term)
	return err
}

func parseOptionalDate(s string) *time.Time {
	if s == "" || s == "0" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
