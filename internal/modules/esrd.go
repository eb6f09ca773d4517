package modules

import (
	"context"
	"time"

	"github.com/cms-pricing/orchestrator/internal/claim"
	"github.com/cms-pricing/orchestrator/internal/claimerr"
	"github.com/cms-pricing/orchestrator/internal/engine"
	"github.com/cms-pricing/orchestrator/internal/version"
)

// esrdComorbidity is one diagnosis code's comorbidity category membership,
// windowed to the period the category assignment is in effect.
type esrdComorbidity struct {
	category  string
	effective time.Time
	end       time.Time
}

// esrdComorbidityTable maps a secondary-diagnosis code to the ESRD
// comorbidity category it contributes, restricted to the four categories
// the case-mix adjustment recognizes: MA (gastrointestinal tract and
// biliary), MC (myocardial infarction), MD (congestive heart failure), and
// ME (monoclonal gammopathy). The table is fixed by regulation rather than
// reference data, so it is carried as a literal rather than loaded from a CSV.
var esrdComorbidityTable = map[string]esrdComorbidity{
	"K2211":  {"MA", date(2020, 1, 1), date(2050, 1, 1)},
	"K250":   {"MA", date(2020, 1, 1), date(2050, 1, 1)},
	"K252":   {"MA", date(2020, 1, 1), date(2050, 1, 1)},
	"K254":   {"MA", date(2020, 1, 1), date(2050, 1, 1)},
	"K256":   {"MA", date(2020, 1, 1), date(2050, 1, 1)},
	"K260":   {"MA", date(2020, 1, 1), date(2050, 1, 1)},
	"K31811": {"MA", date(2020, 1, 1), date(2050, 1, 1)},
	"K5521":  {"MA", date(2020, 1, 1), date(2050, 1, 1)},
	"A1884":  {"MC", date(2020, 1, 1), date(2050, 1, 1)},
	"I300":   {"MC", date(2020, 1, 1), date(2050, 1, 1)},
	"I301":   {"MC", date(2020, 1, 1), date(2050, 1, 1)},
	"I308":   {"MC", date(2020, 1, 1), date(2050, 1, 1)},
	"I309":   {"MC", date(2020, 1, 1), date(2050, 1, 1)},
	"I32":    {"MC", date(2020, 1, 1), date(2050, 1, 1)},
	"M3212":  {"MC", date(2020, 1, 1), date(2050, 1, 1)},
	"D550":   {"MD", date(2020, 1, 1), date(2050, 1, 1)},
	"D551":   {"MD", date(2020, 1, 1), date(2050, 1, 1)},
	"D552":   {"MD", date(2020, 1, 1), date(2050, 1, 1)},
	"D560":   {"MD", date(2020, 1, 1), date(2050, 1, 1)},
	"D561":   {"MD", date(2020, 1, 1), date(2050, 1, 1)},
	"D570":   {"MD", date(2020, 1, 1), date(2050, 1, 1)},
	"D571":   {"MD", date(2020, 1, 1), date(2050, 1, 1)},
	"D580":   {"MD", date(2020, 1, 1), date(2050, 1, 1)},
	"D581":   {"MD", date(2020, 1, 1), date(2050, 1, 1)},
	"D460":   {"ME", date(2020, 1, 1), date(2050, 1, 1)},
	"D461":   {"ME", date(2020, 1, 1), date(2050, 1, 1)},
	"D464":   {"ME", date(2020, 1, 1), date(2050, 1, 1)},
	"D469":   {"ME", date(2020, 1, 1), date(2050, 1, 1)},
	"D471":   {"ME", date(2020, 1, 1), date(2050, 1, 1)},
	"D473":   {"ME", date(2020, 1, 1), date(2050, 1, 1)},
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ESRD prices an end-stage renal disease dialysis claim, combining the
// outpatient-edited lines with a static comorbidity category lookup.
type ESRD struct {
	Dispatcher *version.Dispatcher
	Providers  ProviderLookup
}

func (m *ESRD) Name() string { return "esrd" }

func (m *ESRD) Dependencies() []string { return []string{"ioce"} }

func (m *ESRD) Validate(c *claim.Claim) error {
	if c.BillingProvider.OtherID == "" {
		return claimerr.NewValidationError("billing_provider.other_id", "is required for ESRD pricing")
	}
	return nil
}

func (m *ESRD) Process(ctx context.Context, c *claim.Claim, upstream map[string]any) (any, error) {
	ioceOut, ok := upstream["ioce"].(claim.IOCEOutput)
	if !ok {
		return nil, &claimerr.UpstreamFailedError{Module: "esrd", Upstream: "ioce"}
	}

	dom, err := m.Dispatcher.DomainForClaim(c)
	if err != nil {
		return nil, err
	}

	row, err := m.Providers.FindOPSF(ctx, c.BillingProvider.OtherID, c.ThruDate.Time)
	if err != nil {
		return nil, err
	}

	categories := comorbidityCategories(c)

	req := engine.Request{
		"comorbidity_categories": categories,
		"lines":                  summarizeIOCELines(ioceOut.Lines),
		"claim_edit_list":        ioceOut.ClaimEditList,
	}
	applyProviderFields(req, row)

	resp, err := dom.Process(ctx, "process", req)
	if err != nil {
		return nil, err
	}

	return claim.ESRDOutput{
		PricerOutput:          extractPricerOutput(dom, resp),
		ComorbidityCategories: categories,
	}, nil
}

// comorbidityCategories returns the comorbidity categories contributed by
// the claim's secondary diagnoses, each qualifying iff the claim's from_date
// and thru_date both fall within the code's effective/end window (inclusive).
func comorbidityCategories(c *claim.Claim) []string {
	var categories []string
	for _, dx := range c.SecondaryDiagnoses {
		code := engine.MarshalDiagnosisCode(dx.Code)
		entry, ok := esrdComorbidityTable[code]
		if !ok {
			continue
		}
		if c.FromDate.Time.Before(entry.effective) || c.ThruDate.Time.After(entry.end) {
			continue
		}
		categories = append(categories, entry.category)
	}
	return categories
}
