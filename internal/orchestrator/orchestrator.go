package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cms-pricing/orchestrator/internal/claim"
	"github.com/cms-pricing/orchestrator/internal/claimerr"
	"github.com/cms-pricing/orchestrator/internal/metrics"
	"github.com/cms-pricing/orchestrator/internal/modules"
	"go.uber.org/zap"
)

// defaultLayerConcurrency bounds how many modules within one dependency
// layer run at once for a single claim.
const defaultLayerConcurrency = 4

// AggregateOutput collects every module's result or failure for one claim.
type AggregateOutput struct {
	Results map[string]any
	Errors  map[string]error
}

// Orchestrator runs a claim's requested modules in dependency order,
// fanning out modules within the same layer and skipping anything whose
// upstream dependency failed.
type Orchestrator struct {
	Modules          map[string]modules.Module
	Logger           *zap.SugaredLogger
	LayerConcurrency int
	Metrics          *metrics.Registry
}

// New builds an Orchestrator over the given module registry.
func New(mods map[string]modules.Module, logger *zap.SugaredLogger) *Orchestrator {
	return &Orchestrator{Modules: mods, Logger: logger, LayerConcurrency: defaultLayerConcurrency}
}

// Process validates c, plans its requested modules into dependency layers,
// and runs each layer to completion before starting the next.
func (o *Orchestrator) Process(ctx context.Context, c *claim.Claim) (*AggregateOutput, error) {
	if err := c.Validate(); err != nil {
		if o.Metrics != nil {
			o.Metrics.RecordValidationError(err.Field)
		}
		return nil, err
	}

	if o.Metrics != nil {
		o.Metrics.IncrementActiveClaims()
		defer o.Metrics.DecrementActiveClaims()
	}

	layers, err := Plan(c.Modules)
	if err != nil {
		return nil, err
	}

	out := &AggregateOutput{Results: map[string]any{}, Errors: map[string]error{}}
	var mu sync.Mutex

	for _, layer := range layers {
		pool := newLayerPool(o.layerConcurrency())
		var wg sync.WaitGroup
		for _, name := range layer {
			name := name
			wg.Add(1)
			pool.run(func() {
				defer wg.Done()
				o.runModule(ctx, name, c, out, &mu)
			})
		}
		wg.Wait()
	}

	return out, nil
}

func (o *Orchestrator) layerConcurrency() int {
	if o.LayerConcurrency <= 0 {
		return defaultLayerConcurrency
	}
	return o.LayerConcurrency
}

func (o *Orchestrator) runModule(ctx context.Context, name string, c *claim.Claim, out *AggregateOutput, mu *sync.Mutex) {
	mod, ok := o.Modules[name]
	if !ok {
		mu.Lock()
		out.Errors[name] = fmt.Errorf("orchestrator: no client registered for module %q", name)
		mu.Unlock()
		return
	}

	upstream, upstreamErr := o.gatherUpstream(name, out, mu)
	if upstreamErr != nil {
		mu.Lock()
		out.Errors[name] = upstreamErr
		mu.Unlock()
		if o.Logger != nil {
			o.Logger.Warnw("module skipped: upstream failed", "module", name, "error", upstreamErr)
		}
		return
	}

	if err := mod.Validate(c); err != nil {
		mu.Lock()
		out.Errors[name] = err
		mu.Unlock()
		return
	}

	start := time.Now()
	result, err := mod.Process(ctx, c, upstream)

	if o.Metrics != nil {
		o.Metrics.RecordModule(name, time.Since(start).Seconds(), err)
	}

	mu.Lock()
	defer mu.Unlock()
	if err != nil {
		out.Errors[name] = err
		if o.Logger != nil {
			o.Logger.Errorw("module failed", "module", name, "error", err)
		}
		return
	}
	out.Results[name] = result
}

func (o *Orchestrator) gatherUpstream(name string, out *AggregateOutput, mu *sync.Mutex) (map[string]any, error) {
	mu.Lock()
	defer mu.Unlock()

	upstream := map[string]any{}
	for _, dep := range Graph[name] {
		if cause, failed := out.Errors[dep]; failed {
			return nil, &claimerr.UpstreamFailedError{Module: name, Upstream: dep, Cause: cause}
		}
		upstream[dep] = out.Results[dep]
	}
	return upstream, nil
}
