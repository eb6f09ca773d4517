package modules

import (
	"context"

	"github.com/cms-pricing/orchestrator/internal/claim"
	"github.com/cms-pricing/orchestrator/internal/claimerr"
	"github.com/cms-pricing/orchestrator/internal/engine"
	"github.com/cms-pricing/orchestrator/internal/version"
)

// MCE runs the Medicare Code Editor: a standalone per-code clinical edit
// pass that does not depend on and is not depended on by DRG grouping.
type MCE struct {
	Dispatcher *version.Dispatcher
}

func (m *MCE) Name() string { return "mce" }

func (m *MCE) Dependencies() []string { return nil }

func (m *MCE) Validate(c *claim.Claim) error {
	if c.PrincipalDiagnosis.Code == "" {
		return claimerr.NewValidationError("principal_diagnosis", "is required for code editing")
	}
	return nil
}

func (m *MCE) Process(ctx context.Context, c *claim.Claim, upstream map[string]any) (any, error) {
	dom, err := m.Dispatcher.DomainForClaim(c)
	if err != nil {
		return nil, err
	}

	dxCodes := append([]string{c.PrincipalDiagnosis.Code}, codesOf(c.SecondaryDiagnoses)...)
	pxCodes := make([]string, len(c.Procedures))
	for i, px := range c.Procedures {
		pxCodes[i] = px.Code
	}

	req := engine.Request{
		"sex":             engine.MarshalSex(c.Demographics.Sex),
		"diagnosis_codes": mapStrings(dxCodes, engine.MarshalDiagnosisCode),
		"procedure_codes": mapStrings(pxCodes, engine.MarshalDiagnosisCode),
	}
	setAgeFields(req, c)

	resp, err := dom.Process(ctx, "process", req)
	if err != nil {
		return nil, err
	}

	dxEditLists := extractNestedIntLists(dom, resp, "dx_edit_lists")
	pxEditLists := extractNestedIntLists(dom, resp, "px_edit_lists")

	out := claim.MCEOutput{}
	for i, code := range dxCodes {
		out.DxEdits = append(out.DxEdits, claim.DxCodeOutput{Code: code, EditList: editListAt(dxEditLists, i)})
	}
	for i, code := range pxCodes {
		out.PxEdits = append(out.PxEdits, claim.PxCodeOutput{Code: code, EditList: editListAt(pxEditLists, i)})
	}
	return out, nil
}

func codesOf(dx []claim.DiagnosisCode) []string {
	out := make([]string, len(dx))
	for i, d := range dx {
		out[i] = d.Code
	}
	return out
}

func mapStrings(in []string, f func(string) string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = f(s)
	}
	return out
}
