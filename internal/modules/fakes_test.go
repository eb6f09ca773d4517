package modules

import (
	"context"
	"time"

	"github.com/cms-pricing/orchestrator/internal/engine"
	"github.com/cms-pricing/orchestrator/internal/refdata"
	"github.com/cms-pricing/orchestrator/internal/version"
)

// fakeResolver resolves exactly one version to a pre-built Domain, used to
// give each module test a Dispatcher without probing real bundles.
type fakeResolver struct {
	ver string
	dom *engine.Domain
}

func (r *fakeResolver) Resolve(ctx context.Context, engineName, ver string) (*engine.Domain, error) {
	if ver == r.ver {
		return r.dom, nil
	}
	return nil, notFoundErr
}

// singleVersionDispatcher builds a Dispatcher that resolves only ver to dom,
// matching whatever DRGFiscalYearVersion computes for the test claim's
// thru_date.
func singleVersionDispatcher(engineName, ver string, dom *engine.Domain) *version.Dispatcher {
	d := version.NewDispatcher(engineName, &fakeResolver{ver: ver, dom: dom}, ver, 0)
	_ = d.LoadThrough(context.Background(), ver)
	return d
}

// fakeEngine is a scriptable engine.VendorEngine standing in for the
// opaque vendor engine, returning a fixed response or error and recording
// the last request it was given.
type fakeEngine struct {
	class   string
	resp    engine.Response
	err     error
	lastReq engine.Request
}

func (f *fakeEngine) ClassName() string { return f.class }

func (f *fakeEngine) Process(ctx context.Context, req engine.Request) (engine.Response, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func domainWith(class string, resp engine.Response) (*engine.Domain, *fakeEngine) {
	fe := &fakeEngine{class: class, resp: resp}
	return engine.NewDomain("/bundles/"+class, "test", fe, standardMethods()), fe
}

// standardMethods registers a MethodDescriptor for every field name any
// module test reads out of an engine Response, standing in for the
// per-version descriptor table a real resolved bundle would build.
func standardMethods() map[string]engine.MethodDescriptor {
	return map[string]engine.MethodDescriptor{
		"initial_drg":      engine.StringField("initial_drg"),
		"final_drg":        engine.StringField("final_drg"),
		"initial_mdc":      engine.StringField("initial_mdc"),
		"final_mdc":        engine.StringField("final_mdc"),
		"initial_severity": engine.StringField("initial_severity"),
		"final_severity":   engine.StringField("final_severity"),
		"hac_status":       engine.StringField("hac_status"),
		"relative_weight":  engine.DecimalField("relative_weight"),
		"return_code":      engine.StringField("return_code"),
		"total_payment":    engine.DecimalField("total_payment"),
		"hipps_code":       engine.StringField("hipps_code"),
		"case_mix":         engine.StringField("case_mix"),
		"cmg":              engine.StringField("cmg"),
		"tier_comorbidity": engine.StringField("tier_comorbidity"),
		"dx_edit_lists":    engine.ListField("dx_edit_lists"),
		"px_edit_lists":    engine.ListField("px_edit_lists"),
		"claim_edit_list":  engine.ListField("claim_edit_list"),
		"payment_methods":  engine.ListField("payment_methods"),
		"descriptions":     engine.ListField("descriptions"),
		"line_edit_lists":  engine.ListField("line_edit_lists"),
		"adjustment_flags": engine.ListField("adjustment_flags"),
		"service_units":    engine.ListField("service_units"),
	}
}

// fakeProviderLookup is a static ProviderLookup for modules tests.
type fakeProviderLookup struct {
	ipsf map[string]refdata.ProviderRow
	opsf map[string]refdata.ProviderRow
	zip9 map[string]refdata.Zip9Row
	err  error
}

func (f *fakeProviderLookup) FindIPSF(ctx context.Context, ccn string, asOf time.Time) (refdata.ProviderRow, error) {
	if f.err != nil {
		return refdata.ProviderRow{}, f.err
	}
	row, ok := f.ipsf[ccn]
	if !ok {
		return refdata.ProviderRow{}, notFoundErr
	}
	return row, nil
}

func (f *fakeProviderLookup) FindOPSF(ctx context.Context, ccn string, asOf time.Time) (refdata.ProviderRow, error) {
	if f.err != nil {
		return refdata.ProviderRow{}, f.err
	}
	row, ok := f.opsf[ccn]
	if !ok {
		return refdata.ProviderRow{}, notFoundErr
	}
	return row, nil
}

func (f *fakeProviderLookup) FindZip9(ctx context.Context, zip5, plus4 string, asOf time.Time) (refdata.Zip9Row, error) {
	if f.err != nil {
		return refdata.Zip9Row{}, f.err
	}
	row, ok := f.zip9[zip5+plus4]
	if !ok {
		return refdata.Zip9Row{}, notFoundErr
	}
	return row, nil
}

type staticResolveError struct{ msg string }

func (e *staticResolveError) Error() string { return e.msg }

var notFoundErr = &staticResolveError{msg: "not found"}
