// Package modules implements the per-module clients that translate a Claim
// into a vendor engine request and the engine's response back into a typed
// output record. Every module shares the same narrow contract so the
// orchestrator can run them generically from the dependency graph.
package modules

import (
	"context"
	"time"

	"github.com/cms-pricing/orchestrator/internal/claim"
	"github.com/cms-pricing/orchestrator/internal/refdata"
)

// ProviderLookup is the narrow slice of refdata.Store the pricer modules
// need, so tests can substitute a fake without standing up a database.
type ProviderLookup interface {
	FindIPSF(ctx context.Context, ccn string, asOf time.Time) (refdata.ProviderRow, error)
	FindOPSF(ctx context.Context, ccn string, asOf time.Time) (refdata.ProviderRow, error)
	FindZip9(ctx context.Context, zip5, plus4 string, asOf time.Time) (refdata.Zip9Row, error)
}

// Module is the uniform contract every grouping/pricing component implements.
type Module interface {
	// Name is the lowercase key used in Claim.Modules and the dependency graph.
	Name() string
	// Dependencies lists the module names whose output this module requires
	// before it can run. Order does not matter; the orchestrator resolves it.
	Dependencies() []string
	// Validate checks module-specific structural requirements beyond what
	// Claim.Validate already covers, using only the claim itself.
	Validate(c *claim.Claim) error
	// Process runs the module against c, given the already-computed output
	// of every dependency named in Dependencies(), keyed by module name.
	// A dependency missing from upstream means it failed or was skipped;
	// callers are expected to have already turned that into an
	// UpstreamFailedError before invoking Process.
	Process(ctx context.Context, c *claim.Claim, upstream map[string]any) (any, error)
}
