package refdata

// schemaStatements creates the two provider schema shapes (IPSF ~68
// columns, OPSF analogous outpatient layout) and the ZIP9 locality table,
// each with the composite indexes the lookup path depends on. Only the
// columns this module actually reads/writes are modeled explicitly; a
// single JSONB "extra" column is reserved for the remainder of IPSF's ~68
// columns. The CSV loader does not populate "extra".
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS ipsf_data (
		id BIGSERIAL PRIMARY KEY,
		ccn VARCHAR(6) NOT NULL,
		npi VARCHAR(13) NOT NULL,
		effective_date DATE NOT NULL,
		termination_date DATE,
		wage_index NUMERIC(10,4),
		operating_cost_to_charge_ratio NUMERIC(10,4),
		capital_cost_to_charge_ratio NUMERIC(10,4),
		cost_to_charge_ratio NUMERIC(10,4),
		extra JSONB
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ipsf_ccn_effective ON ipsf_data (ccn, effective_date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_ipsf_npi_effective ON ipsf_data (npi, effective_date DESC)`,

	`CREATE TABLE IF NOT EXISTS opsf_data (
		id BIGSERIAL PRIMARY KEY,
		ccn VARCHAR(6) NOT NULL,
		npi VARCHAR(13) NOT NULL,
		effective_date DATE NOT NULL,
		termination_date DATE,
		wage_index NUMERIC(10,4),
		operating_cost_to_charge_ratio NUMERIC(10,4),
		capital_cost_to_charge_ratio NUMERIC(10,4),
		cost_to_charge_ratio NUMERIC(10,4),
		extra JSONB
	)`,
	`CREATE INDEX IF NOT EXISTS idx_opsf_ccn_effective ON opsf_data (ccn, effective_date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_opsf_npi_effective ON opsf_data (npi, effective_date DESC)`,

	`CREATE TABLE IF NOT EXISTS zip9_data (
		id BIGSERIAL PRIMARY KEY,
		zip5 VARCHAR(5) NOT NULL,
		plus4 VARCHAR(4) NOT NULL DEFAULT '',
		carrier VARCHAR(10),
		locality VARCHAR(10),
		effective_date DATE NOT NULL,
		termination_date DATE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_zip9_zip_effective ON zip9_data (zip5, plus4, effective_date DESC)`,
}
