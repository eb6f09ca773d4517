package modules

import (
	"context"

	"github.com/cms-pricing/orchestrator/internal/claim"
	"github.com/cms-pricing/orchestrator/internal/claimerr"
	"github.com/cms-pricing/orchestrator/internal/engine"
	"github.com/cms-pricing/orchestrator/internal/version"
)

// IOCE runs the outpatient code editor over a claim's service lines,
// producing the claim- and line-level edit lists that OPPS, FQHC, and ESRD
// pricing all build on.
type IOCE struct {
	Dispatcher *version.Dispatcher
}

func (m *IOCE) Name() string { return "ioce" }

func (m *IOCE) Dependencies() []string { return nil }

func (m *IOCE) Validate(c *claim.Claim) error {
	if len(c.LineItems) == 0 {
		return claimerr.NewValidationError("line_items", "is required for outpatient code editing")
	}
	return nil
}

func (m *IOCE) Process(ctx context.Context, c *claim.Claim, upstream map[string]any) (any, error) {
	dom, err := m.Dispatcher.DomainForClaim(c)
	if err != nil {
		return nil, err
	}

	lines := make([]engine.Request, len(c.LineItems))
	for i, li := range c.LineItems {
		lines[i] = engine.Request{
			"line_number":  i + 1,
			"service_date": engine.MarshalDate(li.ServiceDate),
			"revenue_code": li.RevenueCode,
			"hcpcs":        li.HCPCS,
			"modifiers":    li.Modifiers,
			"units":        engine.MarshalUnits(li.Units),
			"charges":      engine.MarshalCharge(li.Charges),
		}
	}

	reasonForVisit := make([]string, 0, len(c.ReasonForVisit)+1)
	reasonForVisit = append(reasonForVisit, engine.MarshalDiagnosisCode(c.PrincipalDiagnosis.Code))
	for _, dx := range c.ReasonForVisit {
		reasonForVisit = append(reasonForVisit, engine.MarshalDiagnosisCode(dx.Code))
	}

	valueCodeAmounts := make([]string, len(c.ValueCodes))
	valueCodes := make([]string, len(c.ValueCodes))
	for i, vc := range c.ValueCodes {
		valueCodes[i] = vc.Code
		valueCodeAmounts[i] = engine.MarshalValueCodeAmount(vc.Amount)
	}

	req := engine.Request{
		"bill_type":           engine.MarshalBillType(c.BillType),
		"condition_codes":     c.ConditionCodes,
		"thru_date":           engine.MarshalDate(c.ThruDate),
		"sex":                 engine.MarshalSex(c.Demographics.Sex),
		"age":                 engine.MarshalAge(c.Demographics.AgeInYears),
		"patient_status":      engine.MarshalPatientStatus(c.Demographics.DischargeStatus),
		"principal_diagnosis": engine.MarshalDiagnosisCode(c.PrincipalDiagnosis.Code),
		"reason_for_visit":    reasonForVisit,
		"value_codes":         valueCodes,
		"value_code_amounts":  valueCodeAmounts,
		"lines":               lines,
	}

	resp, err := dom.Process(ctx, "process", req)
	if err != nil {
		return nil, err
	}

	return m.extractOutput(dom, resp, len(c.LineItems)), nil
}

func (m *IOCE) extractOutput(dom *engine.Domain, resp engine.Response, lineCount int) claim.IOCEOutput {
	out := claim.IOCEOutput{ClaimEditList: extractIntList(dom, resp, "claim_edit_list")}

	paymentMethods := extractStringList(dom, resp, "payment_methods")
	descriptions := extractStringList(dom, resp, "descriptions")
	flags := extractNestedStrings(dom, resp, "adjustment_flags")
	editLists := extractNestedIntLists(dom, resp, "line_edit_lists")
	serviceUnits := extractIntList(dom, resp, "service_units")

	out.Lines = make([]claim.IOCELineOutput, lineCount)
	for i := range out.Lines {
		out.Lines[i] = claim.IOCELineOutput{
			LineNumber:      i + 1,
			PaymentMethod:   stringAt(paymentMethods, i),
			Description:     stringAt(descriptions, i),
			AdjustmentFlags: nestedStringAt(flags, i),
			EditList:        editListAt(editLists, i),
			ServiceUnits:    intAt(serviceUnits, i),
		}
	}
	return out
}

func intAt(list []int, i int) int {
	if i < len(list) {
		return list[i]
	}
	return 0
}

func stringAt(list []string, i int) string {
	if i < len(list) {
		return list[i]
	}
	return ""
}
