package modules

import (
	"context"
	"testing"
	"time"

	"github.com/cms-pricing/orchestrator/internal/claim"
	"github.com/cms-pricing/orchestrator/internal/engine"
	"github.com/cms-pricing/orchestrator/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCEProcessPairsEditListsWithCodes(t *testing.T) {
	thru := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	c := &claim.Claim{
		ThruDate:           claim.NewDate(thru),
		PrincipalDiagnosis: claim.NewPrincipalDiagnosis("I509", claim.POAYes),
		SecondaryDiagnoses: []claim.DiagnosisCode{claim.NewSecondaryDiagnosis("E119", claim.POANo)},
		Procedures:         []claim.ProcedureCode{{Code: "0210"}},
	}
	ver := version.DRGFiscalYearVersion(c.ThruDate)

	dom, _ := domainWith("MCE", engine.Response{
		"dx_edit_lists": []any{[]any{float64(1)}, []any{}},
		"px_edit_lists": []any{[]any{float64(7), float64(9)}},
	})

	m := &MCE{Dispatcher: singleVersionDispatcher("mce", ver, dom)}
	require.NoError(t, m.Validate(c))

	out, err := m.Process(context.Background(), c, nil)
	require.NoError(t, err)

	mceOut := out.(claim.MCEOutput)
	require.Len(t, mceOut.DxEdits, 2)
	assert.Equal(t, "I509", mceOut.DxEdits[0].Code)
	assert.Equal(t, []int{1}, mceOut.DxEdits[0].EditList)
	assert.Equal(t, "E119", mceOut.DxEdits[1].Code)
	assert.Empty(t, mceOut.DxEdits[1].EditList)

	require.Len(t, mceOut.PxEdits, 1)
	assert.Equal(t, []int{7, 9}, mceOut.PxEdits[0].EditList)
}
