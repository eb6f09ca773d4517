// Package orchestrator resolves the declared module dependency graph and
// runs each requested module in dependency order, skipping anything whose
// upstream failed.
package orchestrator

import (
	"fmt"
	"sort"
)

// Graph is a static, fixed dependency relationship between module names.
// IPPS, IPF, and LTCH all build on DRG's grouping; OPPS, FQHC, and ESRD all
// build on IOCE's code editing; IRF builds on IRFG, HHA on HHAG.
var Graph = map[string][]string{
	"drg":     nil,
	"mce":     nil,
	"ioce":    nil,
	"hhag":    nil,
	"irfg":    nil,
	"ipps":    {"drg"},
	"ipf":     {"drg"},
	"ltch":    {"drg"},
	"opps":    {"ioce"},
	"fqhc":    {"ioce"},
	"esrd":    {"ioce"},
	"irf":     {"irfg"},
	"hha":     {"hhag"},
	"snf":     nil,
	"hospice": nil,
}

// Plan orders a requested set of module names into dependency-respecting
// layers: layer 0 has no unresolved dependency within the plan, layer 1
// depends only on layer 0, and so on. Modules within the same layer have no
// ordering constraint between them and may run concurrently. A dependency
// the caller did not request is silently added to the plan, matching the
// "dependencies always run whether or not explicitly listed" rule: pricing
// a claim for "ipps" implicitly runs "drg" too.
func Plan(requested []string) ([][]string, error) {
	closure := closeOver(requested)

	inDegree := map[string]int{}
	dependents := map[string][]string{}
	for name := range closure {
		deps, ok := Graph[name]
		if !ok {
			return nil, fmt.Errorf("orchestrator: unknown module %q", name)
		}
		inDegree[name] = len(deps)
		for _, dep := range deps {
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var layers [][]string
	remaining := len(closure)
	for remaining > 0 {
		var layer []string
		for name := range closure {
			if inDegree[name] == 0 {
				layer = append(layer, name)
			}
		}
		if len(layer) == 0 {
			return nil, fmt.Errorf("orchestrator: dependency cycle detected among %v", keysOf(closure))
		}
		sort.Strings(layer)
		layers = append(layers, layer)

		for _, name := range layer {
			delete(closure, name)
			inDegree[name] = -1 // mark resolved, never re-selected
			for _, dep := range dependents[name] {
				inDegree[dep]--
			}
		}
		remaining -= len(layer)
	}
	return layers, nil
}

func closeOver(requested []string) map[string]bool {
	closure := map[string]bool{}
	var visit func(name string)
	visit = func(name string) {
		if closure[name] {
			return
		}
		closure[name] = true
		for _, dep := range Graph[name] {
			visit(dep)
		}
	}
	for _, name := range requested {
		visit(name)
	}
	return closure
}

func keysOf(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
