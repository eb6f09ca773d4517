package version

import (
	"context"
	"fmt"

	"github.com/cms-pricing/orchestrator/internal/claim"
	"github.com/cms-pricing/orchestrator/internal/claimerr"
	"github.com/cms-pricing/orchestrator/internal/engine"
)

// Resolver loads an engine.Domain for a given engine name and version,
// returning an error if no bundle resolves (the probe used while walking
// the version sequence).
type Resolver interface {
	Resolve(ctx context.Context, engineName, ver string) (*engine.Domain, error)
}

// Dispatcher walks the version sequence for one engine, keeping the
// generations that actually resolved.
type Dispatcher struct {
	engineName string
	resolver   Resolver
	minVersion string
	// retainLast bounds how many resolved generations stay live at once
	// (pricers keep the last N fiscal years; 0 means keep every version
	// ever resolved, as DRG does).
	retainLast int

	domains []resolvedVersion
}

type resolvedVersion struct {
	version string
	domain  *engine.Domain
}

// NewDispatcher builds a Dispatcher that will probe versions starting at
// minVersion. retainLast of 0 means unbounded retention.
func NewDispatcher(engineName string, resolver Resolver, minVersion string, retainLast int) *Dispatcher {
	return &Dispatcher{engineName: engineName, resolver: resolver, minVersion: minVersion, retainLast: retainLast}
}

// LoadThrough walks versions from minVersion via NextVersion, probing each
// through the resolver, until the probe fails after the current end-version
// has been passed. currentEndVersion is the version the fiscal-year rule
// computes for "now"; once a candidate version exceeds it and a probe
// fails, loading stops.
func (d *Dispatcher) LoadThrough(ctx context.Context, currentEndVersion string) error {
	candidate := d.minVersion
	pastEnd := false

	for {
		dom, err := d.resolver.Resolve(ctx, d.engineName, candidate)
		if err == nil {
			d.retain(candidate, dom)
		} else if pastEnd {
			return nil
		}

		if candidate == currentEndVersion {
			pastEnd = true
		}

		next, err := NextVersion(candidate)
		if err != nil {
			return fmt.Errorf("version: walking %s sequence: %w", d.engineName, err)
		}
		candidate = next
	}
}

func (d *Dispatcher) retain(ver string, dom *engine.Domain) {
	d.domains = append(d.domains, resolvedVersion{version: ver, domain: dom})
	if d.retainLast > 0 && len(d.domains) > d.retainLast {
		d.domains = d.domains[len(d.domains)-d.retainLast:]
	}
}

// DomainFor returns the resolved Domain for an exact version string.
func (d *Dispatcher) DomainFor(ver string) (*engine.Domain, error) {
	for _, rv := range d.domains {
		if rv.version == ver {
			return rv.domain, nil
		}
	}
	return nil, &claimerr.VersionUnavailableError{Engine: d.engineName, AsOf: ver}
}

// DomainForClaim resolves the DRG version for a claim's thru_date and
// returns its Domain.
func (d *Dispatcher) DomainForClaim(c *claim.Claim) (*engine.Domain, error) {
	return d.DomainFor(DRGFiscalYearVersion(c.ThruDate))
}

// Versions returns every currently-retained version string, oldest first.
func (d *Dispatcher) Versions() []string {
	out := make([]string, len(d.domains))
	for i, rv := range d.domains {
		out[i] = rv.version
	}
	return out
}
