package refdata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cms-pricing/orchestrator/internal/claimerr"
)

// ProviderRow is a materialized inpatient (IPSF) or outpatient (OPSF)
// provider row. Result is a plain value, never a live cursor, per the
// "materialized value" lookup contract.
type ProviderRow struct {
	CCN                         string
	NPI                         string
	Effective                   time.Time
	Termination                 time.Time
	WageIndex                   float64
	OperatingCostToChargeRatio  float64
	CapitalCostToChargeRatio    float64
	CostToChargeRatio           float64
	Extra                       map[string]any
}

func (r ProviderRow) EffectiveDate() time.Time   { return r.Effective }
func (r ProviderRow) TerminationDate() time.Time { return r.Termination }

// FindIPSF looks up the effective IPSF row for ccn as of asOf: the row with the
// greatest effective_date <= asOf and termination_date >= asOf (blank
// termination treated as the open sentinel).
func (s *Store) FindIPSF(ctx context.Context, ccn string, asOf time.Time) (ProviderRow, error) {
	return s.findProvider(ctx, "ipsf_data", "ccn", ccn, asOf)
}

// FindOPSF is the outpatient analogue of FindIPSF.
func (s *Store) FindOPSF(ctx context.Context, ccn string, asOf time.Time) (ProviderRow, error) {
	return s.findProvider(ctx, "opsf_data", "ccn", ccn, asOf)
}

// FindByCCNOrNPI first tries the full 6-char CCN, then falls back to a
// leading-zero-stripped "short CCN" match, and finally an NPI match,
// mirroring the two-tier provider-cache fallback of the original pricer.
func (s *Store) FindByCCNOrNPI(ctx context.Context, table, ccn, npi string, asOf time.Time) (ProviderRow, error) {
	row, err := s.findProvider(ctx, table, "ccn", ccn, asOf)
	if err == nil {
		return row, nil
	}

	shortCCN := strings.TrimLeft(ccn, "0")
	if shortCCN != "" && shortCCN != ccn {
		if row, err2 := s.findProvider(ctx, table, "ccn", shortCCN, asOf); err2 == nil {
			return row, nil
		}
	}

	if npi != "" {
		if row, err2 := s.findProvider(ctx, table, "npi", npi, asOf); err2 == nil {
			return row, nil
		}
	}

	return ProviderRow{}, err
}

func (s *Store) findProvider(ctx context.Context, table, keyColumn, key string, asOf time.Time) (ProviderRow, error) {
	query := fmt.Sprintf(`
		SELECT ccn, npi, effective_date, termination_date, wage_index,
		       COALESCE(operating_cost_to_charge_ratio, 0),
		       COALESCE(capital_cost_to_charge_ratio, 0),
		       COALESCE(cost_to_charge_ratio, 0)
		FROM %s
		WHERE %s = $1 AND effective_date <= $2
		  AND COALESCE(termination_date, $3) >= $2
		ORDER BY effective_date DESC
		LIMIT 1`, table, keyColumn)

	var row ProviderRow
	var term sql.NullTime
	err := s.db.QueryRowContext(ctx, query, key, asOf, OpenTermination).Scan(
		&row.CCN, &row.NPI, &row.Effective, &term,
		&row.WageIndex, &row.OperatingCostToChargeRatio, &row.CapitalCostToChargeRatio,
		&row.CostToChargeRatio,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ProviderRow{}, &claimerr.ReferenceNotFoundError{
			ResourceType: table, Key: key, AsOf: asOf.Format("2006-01-02"),
		}
	}
	if err != nil {
		return ProviderRow{}, fmt.Errorf("refdata: querying %s: %w", table, err)
	}
	if term.Valid {
		row.Termination = term.Time
	}
	return row, nil
}
