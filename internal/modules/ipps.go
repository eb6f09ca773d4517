package modules

import (
	"context"

	"github.com/cms-pricing/orchestrator/internal/claim"
	"github.com/cms-pricing/orchestrator/internal/claimerr"
	"github.com/cms-pricing/orchestrator/internal/engine"
	"github.com/cms-pricing/orchestrator/internal/version"
)

// IPPS prices an inpatient claim under the acute-care prospective payment
// system, built from the billing provider's IPSF row and the DRG grouper's
// assigned weight.
type IPPS struct {
	Dispatcher *version.Dispatcher
	Providers  ProviderLookup
}

func (m *IPPS) Name() string { return "ipps" }

func (m *IPPS) Dependencies() []string { return []string{"drg"} }

func (m *IPPS) Validate(c *claim.Claim) error {
	if c.BillingProvider.OtherID == "" {
		return claimerr.NewValidationError("billing_provider.other_id", "is required for IPPS pricing")
	}
	if c.LengthOfStay-c.NonCoveredDays < 0 {
		return claimerr.NewValidationError("non_covered_days", "cannot exceed length of stay")
	}
	return nil
}

func (m *IPPS) Process(ctx context.Context, c *claim.Claim, upstream map[string]any) (any, error) {
	drgOut, ok := upstream["drg"].(claim.DRGOutput)
	if !ok {
		return nil, &claimerr.UpstreamFailedError{Module: "ipps", Upstream: "drg"}
	}

	dom, err := m.Dispatcher.DomainForClaim(c)
	if err != nil {
		return nil, err
	}

	row, err := m.Providers.FindIPSF(ctx, c.BillingProvider.OtherID, c.ThruDate.Time)
	if err != nil {
		return nil, err
	}

	req := engine.Request{
		"drg":              drgOut.FinalDRG,
		"relative_weight":  drgOut.RelativeWeight.Float64(),
		"initial_mdc":      drgOut.InitialMDC,
		"final_mdc":        drgOut.FinalMDC,
		"initial_severity": drgOut.InitialSeverity,
		"final_severity":   drgOut.FinalSeverity,
		"length_of_stay":   c.LengthOfStay,
		"non_covered_days": c.NonCoveredDays,
		"covered_days":     c.LengthOfStay - c.NonCoveredDays,
		"covered_charges":  sumCharges(c.LineItems).Charge(),
		"bill_type":        engine.MarshalBillType(c.BillType),
		"diagnosis_codes":  ippsDiagnosisList(c),
		"condition_codes":  c.ConditionCodes,
		"ndcs":             ndcsOf(c.LineItems),
	}
	applyProviderFields(req, row)

	resp, err := dom.Process(ctx, "process", req)
	if err != nil {
		return nil, err
	}

	return claim.IPPSOutput{PricerOutput: extractPricerOutput(dom, resp)}, nil
}

func sumCharges(lines []claim.LineItem) claim.Money {
	total := 0.0
	for _, li := range lines {
		total += li.Charges.Float64()
	}
	return claim.NewMoney(total)
}

// ippsDiagnosisList orders the claim's diagnoses principal, then admitting,
// then secondary, matching the pricer's expected diagnosis sequence.
func ippsDiagnosisList(c *claim.Claim) []string {
	codes := make([]string, 0, len(c.SecondaryDiagnoses)+2)
	codes = append(codes, engine.MarshalDiagnosisCode(c.PrincipalDiagnosis.Code))
	if c.AdmitDiagnosis != nil {
		codes = append(codes, engine.MarshalDiagnosisCode(c.AdmitDiagnosis.Code))
	}
	for _, dx := range c.SecondaryDiagnoses {
		codes = append(codes, engine.MarshalDiagnosisCode(dx.Code))
	}
	return codes
}

// ndcsOf collects the NDC and NDC-unit quantity of every line item that
// carries one, preserving line order.
func ndcsOf(lines []claim.LineItem) []engine.Request {
	ndcs := make([]engine.Request, 0, len(lines))
	for _, li := range lines {
		if li.NDC == "" {
			continue
		}
		ndcs = append(ndcs, engine.Request{
			"ndc":       li.NDC,
			"ndc_units": li.NDCUnits.Float64(),
		})
	}
	return ndcs
}
