// Package engine isolates vendor pricing/grouping engines behind a narrow
// Go interface. The vendor engines themselves are opaque external
// collaborators (binary logic packages reached through whatever FFI
// mechanism a deployment chooses); this package only defines the contract
// a Domain uses to talk to one, plus the marshaling rules for crossing that
// boundary.
package engine

import (
	"context"

	"github.com/cms-pricing/orchestrator/internal/claimerr"
)

// Request is an ordered field-name/value payload built by a module client
// and handed to a VendorEngine's Process call.
type Request map[string]any

// Response is the field-name/value payload a VendorEngine returns.
type Response map[string]any

// VendorEngine is the narrow surface a Domain needs from a loaded vendor
// engine. In the original Java-hosted system this was a class resolved
// through a URL-scoped class loader; here it is whatever binding a
// deployment supplies (in-process library, subprocess, RPC stub — the
// binding itself is out of scope for this module).
type VendorEngine interface {
	// ClassName identifies the top-level engine class this instance was
	// resolved from, used in fault messages and descriptor lookups.
	ClassName() string
	// Process invokes the engine's entry point with a constructed request
	// and returns its raw output fields.
	Process(ctx context.Context, req Request) (Response, error)
}

// Domain is a single class-loading isolate: one engine version, addressed
// by the file path of the bundle it was resolved from, so that two
// versions of the same engine never share mutable state.
type Domain struct {
	BundlePath string
	Version    string
	Engine     VendorEngine
	Methods    map[string]MethodDescriptor
}

// NewDomain constructs a Domain for an already-resolved VendorEngine,
// keyed by the bundle path it was loaded from.
func NewDomain(bundlePath, version string, eng VendorEngine, methods map[string]MethodDescriptor) *Domain {
	return &Domain{BundlePath: bundlePath, Version: version, Engine: eng, Methods: methods}
}

// Process invokes the engine and normalizes any fault it throws into an
// EngineFaultError carrying the engine name, the operation, and the
// original message.
func (d *Domain) Process(ctx context.Context, operation string, req Request) (Response, error) {
	resp, err := d.Engine.Process(ctx, req)
	if err != nil {
		return nil, &claimerr.EngineFaultError{Engine: d.Engine.ClassName(), Operation: operation, Message: err.Error()}
	}
	return resp, nil
}

// Extract reads a field out of resp via its registered descriptor,
// tolerating a missing getter (the engine version never implemented it)
// and a returned nil (the field's value is simply absent) by returning the
// descriptor's documented default instead of erroring. Domain holds no
// per-call state, so Extract is safe to call concurrently for distinct
// Response values, matching the "engines are safe for concurrent
// invocation once configured" rule.
func (d *Domain) Extract(resp Response, field string) any {
	desc, ok := d.Methods[field]
	if !ok {
		return nil
	}
	v, present := desc.Extract(resp)
	if !present {
		return desc.Default
	}
	return v
}
