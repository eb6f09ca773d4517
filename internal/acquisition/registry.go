package acquisition

import "regexp"

// Source describes how a single missing artifact gets fetched.
type Source int

const (
	// SourceDirectURL fetches the artifact bytes from a fixed URL — library
	// JARs such as GFC, protobuf, and SLF4J.
	SourceDirectURL Source = iota
	// SourceVendorPage scrapes a landing page for a download link, follows
	// it to a license-agreement form, submits the form, and treats the
	// response as a ZIP bundle to extract from.
	SourceVendorPage
)

// ArtifactSpec names one artifact a component needs and how to get it.
type ArtifactSpec struct {
	Pattern Pattern
	Source  Source

	// DirectURL is set when Source == SourceDirectURL.
	DirectURL string

	// LandingPageURL is set when Source == SourceVendorPage: the page to
	// scrape for the download/license link.
	LandingPageURL string
	// LinkMatch selects the anchor on the landing page whose href or text
	// names the artifact bundle (e.g. "java-standalone", "java-source.zip").
	LinkMatch *regexp.Regexp
}

// componentRegistry is the static map of component name to the artifacts it
// requires. Component names mirror spec §4.3: slf4j, gfc, grpc, msdrg,
// ioce, pricers.
var componentRegistry = map[string][]ArtifactSpec{
	"slf4j": {
		{Pattern: Pattern{Name: "slf4j-api-2.0.9.jar"}, Source: SourceDirectURL,
			DirectURL: "https://repo1.maven.org/maven2/org/slf4j/slf4j-api/2.0.9/slf4j-api-2.0.9.jar"},
		{Pattern: Pattern{Name: "slf4j-simple-2.0.9.jar"}, Source: SourceDirectURL,
			DirectURL: "https://repo1.maven.org/maven2/org/slf4j/slf4j-simple/2.0.9/slf4j-simple-2.0.9.jar"},
	},
	"gfc": {
		{Pattern: Pattern{Name: "gfc-base-api-3.4.9.jar"}, Source: SourceDirectURL,
			DirectURL: "https://github.com/3mcloud/GFC-Grouper-Foundation-Classes/releases/download/v3.4.9/gfc-base-api-3.4.9.jar"},
	},
	"grpc": {
		{Pattern: Pattern{Name: "protobuf-java-3.22.2.jar"}, Source: SourceDirectURL,
			DirectURL: "https://repo1.maven.org/maven2/com/google/protobuf/protobuf-java/3.22.2/protobuf-java-3.22.2.jar"},
		{Pattern: Pattern{Name: "protobuf-java-3.21.7.jar"}, Source: SourceDirectURL,
			DirectURL: "https://repo1.maven.org/maven2/com/google/protobuf/protobuf-java/3.21.7/protobuf-java-3.21.7.jar"},
	},
	"msdrg": {
		{Pattern: Pattern{Regex: regexp.MustCompile(`(?i)msdrg.*\.jar$`)}, Source: SourceVendorPage,
			LandingPageURL: "https://www.cms.gov/medicare/payment/prospective-payment-systems/acute-inpatient-pps/ms-drg-classifications-and-software",
			LinkMatch:      regexp.MustCompile(`java-source\.zip`)},
	},
	"ioce": {
		{Pattern: Pattern{Regex: regexp.MustCompile(`(?i)ioce.*\.jar$`)}, Source: SourceVendorPage,
			LandingPageURL: "https://www.cms.gov/medicare/coding-billing/outpatient-code-editor-oce/quarterly-release-files",
			LinkMatch:      regexp.MustCompile(`(?i)java-standalone`)},
	},
	"pricers": {
		{Pattern: Pattern{Regex: regexp.MustCompile(`(?i)(ipps|opps|ipf|ltch|snf|hha|irf|hospice|esrd|fqhc).*\.jar$`)}, Source: SourceVendorPage,
			LandingPageURL: "https://www.cms.gov/medicare/payment/prospective-payment-systems/pricer-software",
			LinkMatch:      regexp.MustCompile(`(?i)pricer.*\.zip`)},
	},
}

// Registry exposes the static registry for callers that want to enumerate
// components without going through the acquirer.
func Registry() map[string][]ArtifactSpec {
	return componentRegistry
}
