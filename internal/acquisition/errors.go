package acquisition

import (
	"fmt"
	"sync"

	"github.com/cms-pricing/orchestrator/internal/claimerr"
)

// FailureReason categorizes why a single artifact could not be acquired.
type FailureReason string

const (
	ReasonFetchFailed     FailureReason = "FETCH_FAILED"
	ReasonLicenseRejected FailureReason = "LICENSE_REJECTED"
	ReasonExtractFailed   FailureReason = "EXTRACT_FAILED"
	ReasonNoMatch         FailureReason = "NO_MATCH"
)

// ArtifactFailure records one failed artifact attempt with enough context
// to diagnose and retry it later.
type ArtifactFailure struct {
	Component string
	Artifact  string
	URL       string
	Reason    FailureReason
	Details   string
}

// ArtifactErrorCollector gathers per-artifact failures across an acquire()
// run instead of aborting on the first one, so independent artifacts keep
// being attempted.
type ArtifactErrorCollector struct {
	mu       sync.Mutex
	failures []ArtifactFailure
}

// NewArtifactErrorCollector creates an empty collector.
func NewArtifactErrorCollector() *ArtifactErrorCollector {
	return &ArtifactErrorCollector{}
}

// Add records one failed artifact acquisition.
func (c *ArtifactErrorCollector) Add(component, artifact, url string, reason FailureReason, details string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = append(c.failures, ArtifactFailure{
		Component: component, Artifact: artifact, URL: url, Reason: reason, Details: details,
	})
}

// Failures returns a copy of every collected failure.
func (c *ArtifactErrorCollector) Failures() []ArtifactFailure {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ArtifactFailure, len(c.failures))
	copy(out, c.failures)
	return out
}

// HasFailures reports whether any artifact failed.
func (c *ArtifactErrorCollector) HasFailures() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.failures) > 0
}

// ToAcquisitionErrors converts every collected failure into the typed
// acquisition error the rest of the system expects.
func (c *ArtifactErrorCollector) ToAcquisitionErrors() []*claimerr.AcquisitionError {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*claimerr.AcquisitionError, 0, len(c.failures))
	for _, f := range c.failures {
		out = append(out, &claimerr.AcquisitionError{
			Artifact: f.Artifact,
			URL:      f.URL,
			Cause:    fmt.Errorf("[%s] %s", f.Reason, f.Details),
		})
	}
	return out
}
