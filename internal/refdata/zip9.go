package refdata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cms-pricing/orchestrator/internal/claimerr"
)

// Zip9Row is a materialized carrier/locality row keyed by ZIP5+plus4.
type Zip9Row struct {
	Zip5         string
	Plus4        string
	Carrier      string
	Locality     string
	Effective    time.Time
	Termination  time.Time
}

func (r Zip9Row) EffectiveDate() time.Time   { return r.Effective }
func (r Zip9Row) TerminationDate() time.Time { return r.Termination }

// FindZip9 resolves carrier/locality for zip5+plus4 as of asOf. The
// most-specific plus4 match wins; a blank plus4 is the fallback when no
// plus4-specific row is active.
func (s *Store) FindZip9(ctx context.Context, zip5, plus4 string, asOf time.Time) (Zip9Row, error) {
	if plus4 != "" {
		if row, err := s.findZip9(ctx, zip5, plus4, asOf); err == nil {
			return row, nil
		}
	}
	return s.findZip9(ctx, zip5, "", asOf)
}

func (s *Store) findZip9(ctx context.Context, zip5, plus4 string, asOf time.Time) (Zip9Row, error) {
	query := `
		SELECT zip5, plus4, carrier, locality, effective_date, termination_date
		FROM zip9_data
		WHERE zip5 = $1 AND plus4 = $2 AND effective_date <= $3
		  AND COALESCE(termination_date, $4) >= $3
		ORDER BY effective_date DESC
		LIMIT 1`

	var row Zip9Row
	var term sql.NullTime
	err := s.db.QueryRowContext(ctx, query, zip5, plus4, asOf, OpenTermination).Scan(
		&row.Zip5, &row.Plus4, &row.Carrier, &row.Locality, &row.Effective, &term,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Zip9Row{}, &claimerr.ReferenceNotFoundError{
			ResourceType: "zip9", Key: zip5 + plus4, AsOf: asOf.Format("2006-01-02"),
		}
	}
	if err != nil {
		return Zip9Row{}, fmt.Errorf("refdata: querying zip9: %w", err)
	}
	if term.Valid {
		row.Termination = term.Time
	}
	return row, nil
}
