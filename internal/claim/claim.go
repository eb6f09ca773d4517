// Package claim defines the canonical data model exchanged with every
// module in the pricing pipeline.
package claim

// (no direct time import: all wire dates flow through the Date codec type)

// Role tags a DiagnosisCode's position on the claim.
type Role string

const (
	RolePrincipal Role = "principal"
	RoleSecondary Role = "secondary"
	RoleAdmit     Role = "admit"
	RoleUnknown   Role = "unknown"
)

// POA is the present-on-admission indicator. The closed set is
// {Y, N, W, U, "1", E, blank}.
type POA string

const (
	POAYes          POA = "Y"
	POANo           POA = "N"
	POAUnknown      POA = "W"
	POANotAvailable POA = "U"
	POAExempt       POA = "1"
	POAError        POA = "E"
	POABlank        POA = ""
)

var validPOA = map[POA]bool{
	POAYes: true, POANo: true, POAUnknown: true, POANotAvailable: true,
	POAExempt: true, POAError: true, POABlank: true,
}

// Valid reports whether p is a member of the closed POA set.
func (p POA) Valid() bool { return validPOA[p] }

// DiagnosisCode is a normalized ICD code with its POA indicator and role.
type DiagnosisCode struct {
	Code string `json:"code"`
	POA  POA    `json:"poa"`
	Role Role   `json:"role"`
}

// NewPrincipalDiagnosis builds a DiagnosisCode tagged as the claim's principal diagnosis.
func NewPrincipalDiagnosis(code string, poa POA) DiagnosisCode {
	return DiagnosisCode{Code: code, POA: poa, Role: RolePrincipal}
}

// NewSecondaryDiagnosis builds a DiagnosisCode tagged as a secondary diagnosis.
func NewSecondaryDiagnosis(code string, poa POA) DiagnosisCode {
	return DiagnosisCode{Code: code, POA: poa, Role: RoleSecondary}
}

// NewAdmitDiagnosis builds a DiagnosisCode tagged as the admitting diagnosis.
func NewAdmitDiagnosis(code string, poa POA) DiagnosisCode {
	return DiagnosisCode{Code: code, POA: poa, Role: RoleAdmit}
}

// ProcedureCode is an inpatient procedure with an optional modifier and date.
type ProcedureCode struct {
	Code     string     `json:"code"`
	Modifier string     `json:"modifier,omitempty"`
	Date     *Date `json:"date,omitempty"`
}

// ValueCode is a code/decimal-amount pair.
type ValueCode struct {
	Code   string `json:"code"`
	Amount Money  `json:"amount"`
}

// OccurrenceCode is a code with an associated date.
type OccurrenceCode struct {
	Code string    `json:"code"`
	Date Date `json:"date"`
}

// SpanCode is a code with a start/end date pair.
type SpanCode struct {
	Code  string    `json:"code"`
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// LineItem is a single service line on the claim.
type LineItem struct {
	ServiceDate         Date     `json:"service_date"`
	RevenueCode         string   `json:"revenue_code"`
	HCPCS               string   `json:"hcpcs"`
	Modifiers           []string `json:"modifiers,omitempty"`
	Units               int      `json:"units"`
	Charges             Money    `json:"charges"`
	NDC                 string   `json:"ndc,omitempty"`
	NDCUnits            Money    `json:"ndc_units,omitempty"`
	PlaceOfService      string   `json:"place_of_service,omitempty"`
	ServicingProviderID string   `json:"servicing_provider_id,omitempty"`
}

// Address is a mailing address with ZIP and ZIP+4.
type Address struct {
	Line1 string `json:"line1,omitempty"`
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`
	Zip5  string `json:"zip5"`
	Plus4 string `json:"plus4,omitempty"`
}

// Provider is a billing or servicing provider referenced by the claim.
// Provider is immutable within a single claim processing run; it is looked
// up against reference tables per-claim, never mutated in place.
type Provider struct {
	NPI          string  `json:"npi"`
	OtherID      string  `json:"other_id"` // 6-char CMS certification number (CCN)
	FacilityName string  `json:"facility_name,omitempty"`
	Address      Address `json:"address"`
	Carrier      string  `json:"carrier,omitempty"`
	Locality     string  `json:"locality,omitempty"`
}

// Demographics carries patient identity fields needed by grouping modules.
type Demographics struct {
	DateOfBirth     *Date    `json:"date_of_birth,omitempty"`
	Sex             string   `json:"sex,omitempty"`
	AgeInYears      int      `json:"age_in_years,omitempty"`
	DischargeStatus string   `json:"discharge_status"`
	DemoCodes       []string `json:"demo_codes,omitempty"`
}

// Claim is the aggregate root passed into the orchestrator.
type Claim struct {
	ID                 string           `json:"id"`
	AdmitDate          *Date            `json:"admit_date,omitempty"`
	FromDate           Date             `json:"from_date"`
	ThruDate           Date             `json:"thru_date"`
	ReceiptDate        *Date            `json:"receipt_date,omitempty"`
	LengthOfStay       int              `json:"length_of_stay"`
	NonCoveredDays     int              `json:"non_covered_days"`
	BillType           string           `json:"bill_type"`
	ConditionCodes     []string         `json:"condition_codes,omitempty"`
	ValueCodes         []ValueCode      `json:"value_codes,omitempty"`
	OccurrenceCodes    []OccurrenceCode `json:"occurrence_codes,omitempty"`
	SpanCodes          []SpanCode       `json:"span_codes,omitempty"`
	ReasonForVisit     []DiagnosisCode  `json:"reason_for_visit,omitempty"`
	PrincipalDiagnosis DiagnosisCode    `json:"principal_diagnosis"`
	AdmitDiagnosis     *DiagnosisCode   `json:"admit_diagnosis,omitempty"`
	SecondaryDiagnoses []DiagnosisCode  `json:"secondary_diagnoses,omitempty"`
	Procedures         []ProcedureCode  `json:"procedures,omitempty"`
	LineItems          []LineItem       `json:"line_items,omitempty"`
	BillingProvider    Provider         `json:"billing_provider"`
	ServicingProvider  *Provider        `json:"servicing_provider,omitempty"`
	Demographics       Demographics     `json:"demographics"`
	ICDConversion      bool             `json:"icd_conversion,omitempty"`
	IRFPAI             map[string]any   `json:"irf_pai,omitempty"`
	OASIS              map[string]any   `json:"oasis,omitempty"`
	Modules            []string         `json:"modules"`
	AdditionalData     map[string]any   `json:"additional_data,omitempty"`
}

// KnownModules is the closed set of module names accepted in Claim.Modules.
var KnownModules = map[string]bool{
	"drg": true, "mce": true, "ioce": true, "hhag": true, "irfg": true,
	"ipps": true, "opps": true, "ipf": true, "ltch": true, "snf": true,
	"hha": true, "irf": true, "hospice": true, "esrd": true, "fqhc": true,
}
