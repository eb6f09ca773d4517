package claim

// DxCodeOutput carries a grouper's per-diagnosis-code edit/severity result.
type DxCodeOutput struct {
	Code     string `json:"code"`
	POA      POA    `json:"poa,omitempty"`
	Severity string `json:"severity,omitempty"`
	EditList []int  `json:"edit_list,omitempty"`
}

// PxCodeOutput carries a grouper's per-procedure-code edit result.
type PxCodeOutput struct {
	Code     string `json:"code"`
	EditList []int  `json:"edit_list,omitempty"`
}

// DRGOutput is the MS-DRG grouper's result for one claim.
type DRGOutput struct {
	DRGVersion          string         `json:"drg_version"`
	InitialDRG          string         `json:"initial_drg"`
	FinalDRG            string         `json:"final_drg"`
	InitialMDC          string         `json:"initial_mdc,omitempty"`
	FinalMDC            string         `json:"final_mdc,omitempty"`
	InitialSeverity     string         `json:"initial_severity,omitempty"`
	FinalSeverity       string         `json:"final_severity,omitempty"`
	HACStatus           string         `json:"hac_status,omitempty"`
	RelativeWeight      Money          `json:"relative_weight"`
	PrincipalDxOutput   DxCodeOutput   `json:"principal_dx_output"`
	SecondaryDxOutputs  []DxCodeOutput `json:"secondary_dx_outputs,omitempty"`
	ProcedureOutputs    []PxCodeOutput `json:"procedure_outputs,omitempty"`
}

// MCEOutput is the Medicare Code Editor's per-code edit result.
type MCEOutput struct {
	DxEdits []DxCodeOutput `json:"dx_edits,omitempty"`
	PxEdits []PxCodeOutput `json:"px_edits,omitempty"`
}

// IOCELineOutput is one enriched, edited service line from the outpatient editor.
type IOCELineOutput struct {
	LineNumber      int    `json:"line_number"`
	HCPCS           string `json:"hcpcs"`
	Description     string `json:"description,omitempty"`
	PaymentMethod   string `json:"payment_method,omitempty"`
	ServiceUnits    int    `json:"service_units"`
	AdjustmentFlags []string `json:"adjustment_flags,omitempty"`
	EditList        []int  `json:"edit_list,omitempty"`
}

// IOCEOutput is the outpatient code editor's result.
type IOCEOutput struct {
	ClaimEditList []int            `json:"claim_edit_list,omitempty"`
	Lines         []IOCELineOutput `json:"lines,omitempty"`
}

// HHAGOutput is the home-health grouper's result.
type HHAGOutput struct {
	HIPPSCode string `json:"hipps_code"`
	CaseMix   string `json:"case_mix,omitempty"`
}

// IRFGOutput is the inpatient-rehab grouper's result.
type IRFGOutput struct {
	CMG            string `json:"cmg"`
	TierComorbidity string `json:"tier_comorbidity,omitempty"`
}

// PricerOutput is the common shape every PPS pricer returns: a payment
// amount plus the adjustment components that produced it.
type PricerOutput struct {
	TotalPayment   Money             `json:"total_payment"`
	Components     map[string]Money  `json:"components,omitempty"`
	ReturnCode     string            `json:"return_code"`
}

type IPPSOutput struct{ PricerOutput }
type OPPSOutput struct {
	PricerOutput
	Lines []IOCELineOutput `json:"lines,omitempty"`
}
type IPFOutput struct{ PricerOutput }
type LTCHOutput struct{ PricerOutput }
type SNFOutput struct{ PricerOutput }
type HHAOutput struct{ PricerOutput }
type IRFOutput struct{ PricerOutput }
type HospiceOutput struct{ PricerOutput }
type ESRDOutput struct {
	PricerOutput
	ComorbidityCategories []string `json:"comorbidity_categories,omitempty"`
}
type FQHCOutput struct {
	PricerOutput
	Carrier  string `json:"carrier,omitempty"`
	Locality string `json:"locality,omitempty"`
}
