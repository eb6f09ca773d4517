package claimerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorMessage(t *testing.T) {
	err := NewValidationError("principal_diagnosis", "is required")
	assert.Equal(t, "principal_diagnosis: is required", err.Error())
}

func TestReferenceNotFoundErrorMessage(t *testing.T) {
	err := &ReferenceNotFoundError{ResourceType: "provider", Key: "123456", AsOf: "2026-01-01"}
	assert.Contains(t, err.Error(), "provider")
	assert.Contains(t, err.Error(), "123456")
}

func TestAcquisitionErrorUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := &AcquisitionError{Artifact: "ipsf.csv", URL: "https://example.test/ipsf.csv", Cause: cause}
	require.ErrorIs(t, err, cause)
}

func TestUpstreamFailedErrorUnwraps(t *testing.T) {
	cause := &EngineFaultError{Engine: "drg", Operation: "Process", Message: "boom"}
	err := &UpstreamFailedError{Module: "ipps", Upstream: "drg", Cause: cause}
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "ipps")
}
