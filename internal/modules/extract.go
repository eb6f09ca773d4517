package modules

import (
	"github.com/cms-pricing/orchestrator/internal/claim"
	"github.com/cms-pricing/orchestrator/internal/engine"
	"github.com/cms-pricing/orchestrator/internal/refdata"
)

func extractString(dom *engine.Domain, resp engine.Response, field string) string {
	s, _ := dom.Extract(resp, field).(string)
	return s
}

func extractMoney(dom *engine.Domain, resp engine.Response, field string) claim.Money {
	if v, ok := dom.Extract(resp, field).(float64); ok {
		return claim.NewMoney(v)
	}
	return claim.Money{}
}

func extractStringList(dom *engine.Domain, resp engine.Response, field string) []string {
	raw, ok := dom.Extract(resp, field).([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func extractIntList(dom *engine.Domain, resp engine.Response, field string) []int {
	raw, ok := dom.Extract(resp, field).([]any)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(raw))
	for _, v := range raw {
		switch n := v.(type) {
		case float64:
			out = append(out, int(n))
		case int:
			out = append(out, n)
		}
	}
	return out
}

// extractNestedIntLists decodes a per-code edit-list field: an outer list,
// one entry per input code, each entry itself a list of edit numbers.
func extractNestedIntLists(dom *engine.Domain, resp engine.Response, field string) [][]int {
	raw, ok := dom.Extract(resp, field).([]any)
	if !ok {
		return nil
	}
	out := make([][]int, len(raw))
	for i, entry := range raw {
		inner, ok := entry.([]any)
		if !ok {
			continue
		}
		codes := make([]int, 0, len(inner))
		for _, v := range inner {
			switch n := v.(type) {
			case float64:
				codes = append(codes, int(n))
			case int:
				codes = append(codes, n)
			}
		}
		out[i] = codes
	}
	return out
}

func editListAt(lists [][]int, i int) []int {
	if i < len(lists) {
		return lists[i]
	}
	return nil
}

// extractNestedStrings decodes a per-line field of string lists (e.g.
// adjustment flags), one entry per line.
func extractNestedStrings(dom *engine.Domain, resp engine.Response, field string) [][]string {
	raw, ok := dom.Extract(resp, field).([]any)
	if !ok {
		return nil
	}
	out := make([][]string, len(raw))
	for i, entry := range raw {
		inner, ok := entry.([]any)
		if !ok {
			continue
		}
		strs := make([]string, 0, len(inner))
		for _, v := range inner {
			if s, ok := v.(string); ok {
				strs = append(strs, s)
			}
		}
		out[i] = strs
	}
	return out
}

func nestedStringAt(lists [][]string, i int) []string {
	if i < len(lists) {
		return lists[i]
	}
	return nil
}

// pricerComponentFields lists the component amounts a pricer engine may
// return; only the ones actually present in a given response are kept.
var pricerComponentFields = []string{
	"operating_payment", "capital_payment", "outlier_payment",
	"dsh_adjustment", "ime_adjustment", "low_volume_adjustment",
}

// extractPricerOutput pulls the common payment/return-code/component shape
// every PPS pricer engine returns.
func extractPricerOutput(dom *engine.Domain, resp engine.Response) claim.PricerOutput {
	out := claim.PricerOutput{
		ReturnCode:   extractString(dom, resp, "return_code"),
		TotalPayment: extractMoney(dom, resp, "total_payment"),
	}
	components := map[string]claim.Money{}
	for _, key := range pricerComponentFields {
		if v, ok := dom.Extract(resp, key).(float64); ok {
			components[key] = claim.NewMoney(v)
		}
	}
	if len(components) > 0 {
		out.Components = components
	}
	return out
}

// applyProviderFields copies the wage-index/cost-to-charge-ratio fields a
// provider lookup resolved into a pricer request.
func applyProviderFields(req engine.Request, row refdata.ProviderRow) {
	req["ccn"] = engine.MarshalCCN(row.CCN)
	req["wage_index"] = row.WageIndex
	req["operating_ccr"] = row.OperatingCostToChargeRatio
	req["capital_ccr"] = row.CapitalCostToChargeRatio
	req["cost_to_charge_ratio"] = row.CostToChargeRatio
}
