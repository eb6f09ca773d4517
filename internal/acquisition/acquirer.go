package acquisition

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Layout is the on-disk workspace acquisition populates and reads back
// from: downloads/ is scratch space removed at the end of a run, jars/
// holds library and grouper/editor artifacts, jars/pricers/ holds
// per-pricer bundles, data/ holds the reference database and CSVs.
type Layout struct {
	Root         string
	DownloadsDir string
	JarsDir      string
	PricersDir   string
	DataDir      string
}

// NewLayout derives the standard subdirectories under root.
func NewLayout(root string) Layout {
	return Layout{
		Root:         root,
		DownloadsDir: filepath.Join(root, "downloads"),
		JarsDir:      filepath.Join(root, "jars"),
		PricersDir:   filepath.Join(root, "jars", "pricers"),
		DataDir:      filepath.Join(root, "data"),
	}
}

func (l Layout) ensureDirs() error {
	for _, dir := range []string{l.DownloadsDir, l.JarsDir, l.PricersDir, l.DataDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("acquisition: creating %s: %w", dir, err)
		}
	}
	return nil
}

// destDirFor returns where a component's artifacts are installed.
func (l Layout) destDirFor(component string) string {
	if component == "pricers" {
		return l.PricersDir
	}
	return l.JarsDir
}

// Inventory reports, per component, which required artifacts are present.
type Inventory struct {
	Present map[string][]string
	Missing map[string][]ArtifactSpec
}

// Complete reports whether every registered artifact is present.
func (inv Inventory) Complete() bool {
	for _, missing := range inv.Missing {
		if len(missing) > 0 {
			return false
		}
	}
	return true
}

// Acquirer drives acquisition against one workspace. It is single-threaded
// per workspace: concurrent acquirers against the same directory are
// undefined and must be prevented by the caller.
type Acquirer struct {
	layout   Layout
	client   *ArtifactHTTPClient
	limiter  *RateLimiter
	pool     *GoroutinePool
	logger   *zap.SugaredLogger
	registry map[string][]ArtifactSpec
}

// NewAcquirer builds an acquirer rooted at workspaceDir using the static
// component registry and a conservative rate limit against vendor hosts.
func NewAcquirer(workspaceDir string, logger *zap.SugaredLogger) *Acquirer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Acquirer{
		layout:   NewLayout(workspaceDir),
		client:   NewArtifactHTTPClient(logger),
		limiter:  NewRateLimiter(500 * time.Millisecond),
		pool:     NewGoroutinePool(4),
		logger:   logger,
		registry: componentRegistry,
	}
}

// Inventory scans the installed directories and returns, per component,
// which required artifacts are present and which are still missing.
func (a *Acquirer) Inventory() Inventory {
	inv := Inventory{Present: map[string][]string{}, Missing: map[string][]ArtifactSpec{}}

	for component, specs := range a.registry {
		destDir := a.layout.destDirFor(component)
		entries, _ := os.ReadDir(destDir)

		var present []string
		var missing []ArtifactSpec
		for _, spec := range specs {
			found := false
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				if spec.Pattern.matches(e.Name()) {
					present = append(present, e.Name())
					found = true
					break
				}
			}
			if !found {
				missing = append(missing, spec)
			}
		}
		inv.Present[component] = present
		inv.Missing[component] = missing
	}
	return inv
}

// Missing returns the artifact specs still needed, keyed by component.
func (a *Acquirer) Missing() map[string][]ArtifactSpec {
	return a.Inventory().Missing
}

// Acquire fetches every missing artifact. When force is true, every
// registered artifact is re-fetched regardless of what's already present.
// Each artifact is attempted independently; failures are collected rather
// than aborting the run. The staging (downloads) directory is removed at
// the end regardless of outcome.
func (a *Acquirer) Acquire(ctx context.Context, force bool) (*ArtifactErrorCollector, error) {
	if err := a.layout.ensureDirs(); err != nil {
		return nil, err
	}
	defer os.RemoveAll(a.layout.DownloadsDir)

	collector := NewArtifactErrorCollector()

	var toFetch map[string][]ArtifactSpec
	if force {
		toFetch = a.registry
	} else {
		toFetch = a.Inventory().Missing
	}

	for component, specs := range toFetch {
		for _, spec := range specs {
			a.limiter.Wait()
			if err := a.acquireOne(ctx, component, spec, force); err != nil {
				a.logger.Warnw("acquisition: artifact failed", "component", component, "error", err)
				collector.Add(component, spec.Pattern.Name, specURL(spec), ReasonFetchFailed, err.Error())
			}
		}
	}

	return collector, nil
}

func specURL(spec ArtifactSpec) string {
	if spec.Source == SourceDirectURL {
		return spec.DirectURL
	}
	return spec.LandingPageURL
}

func (a *Acquirer) acquireOne(ctx context.Context, component string, spec ArtifactSpec, force bool) error {
	switch spec.Source {
	case SourceDirectURL:
		return a.acquireDirect(ctx, component, spec)
	case SourceVendorPage:
		return a.acquireVendorPage(ctx, component, spec, force)
	default:
		return fmt.Errorf("unknown artifact source %v", spec.Source)
	}
}

func (a *Acquirer) acquireDirect(ctx context.Context, component string, spec ArtifactSpec) error {
	body, err := a.client.FetchBytes(ctx, spec.DirectURL)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", spec.DirectURL, err)
	}
	destPath := filepath.Join(a.layout.destDirFor(component), spec.Pattern.Name)
	return os.WriteFile(destPath, body, 0o644)
}

// acquireVendorPage scrapes the landing page for the artifact link,
// follows it to the license-agreement form, submits the form, and
// extracts files matching spec.Pattern from the resulting ZIP.
func (a *Acquirer) acquireVendorPage(ctx context.Context, component string, spec ArtifactSpec, force bool) error {
	doc, err := a.client.FetchAndParseHTML(ctx, spec.LandingPageURL)
	if err != nil {
		return fmt.Errorf("fetching landing page %s: %w", spec.LandingPageURL, err)
	}

	linkHref, ok := findMatchingLink(doc, spec.LinkMatch)
	if !ok {
		return fmt.Errorf("no link matching %s on %s", spec.LinkMatch.String(), spec.LandingPageURL)
	}
	linkURL, err := resolveURL(spec.LandingPageURL, linkHref)
	if err != nil {
		return err
	}

	// The link may point directly at a ZIP, or at a license-agreement page.
	bundleBytes, err := a.resolveBundle(ctx, linkURL)
	if err != nil {
		return err
	}

	zipPath := filepath.Join(a.layout.DownloadsDir, fmt.Sprintf("%s.zip", component))
	if err := os.WriteFile(zipPath, bundleBytes, 0o644); err != nil {
		return fmt.Errorf("staging %s: %w", zipPath, err)
	}

	written, err := ExtractMatching(zipPath, a.layout.destDirFor(component), []Pattern{spec.Pattern}, force)
	if err != nil {
		return err
	}
	if len(written) == 0 {
		return fmt.Errorf("no files in %s matched %v", zipPath, spec.Pattern)
	}
	return nil
}

// resolveBundle follows linkURL. If it resolves straight to a ZIP, returns
// its bytes. Otherwise treats the response as a license-agreement page,
// extracts the agreement form's hidden fields and action target, submits
// it with agree=Yes, and returns the resulting download bytes.
func (a *Acquirer) resolveBundle(ctx context.Context, linkURL string) ([]byte, error) {
	doc, err := a.client.FetchAndParseHTML(ctx, linkURL)
	if err != nil {
		if _, isParse := err.(*ParseError); isParse {
			return a.client.FetchBytes(ctx, linkURL)
		}
		return nil, err
	}

	form := findLicenseForm(doc)
	if form == nil {
		return a.client.FetchBytes(ctx, linkURL)
	}

	action, _ := form.Attr("action")
	formURL, err := resolveURL(linkURL, action)
	if err != nil {
		return nil, err
	}

	values := formValues(form)
	values.Set("agree", "Yes")

	return a.client.PostForm(ctx, formURL, values)
}

// Close releases the HTTP client's pooled connections.
func (a *Acquirer) Close() error {
	return a.client.Close()
}

func resolveURL(base, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing base URL %s: %w", base, err)
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parsing link %s: %w", ref, err)
	}
	return baseURL.ResolveReference(refURL).String(), nil
}
