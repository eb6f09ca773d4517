package acquisition

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInventoryReportsPresentAndMissing(t *testing.T) {
	root := t.TempDir()
	acq := NewAcquirer(root, zap.NewNop().Sugar())
	acq.registry = map[string][]ArtifactSpec{
		"slf4j": {
			{Pattern: Pattern{Name: "slf4j-api.jar"}, Source: SourceDirectURL, DirectURL: "https://example.invalid/slf4j-api.jar"},
		},
	}

	require.NoError(t, acq.layout.ensureDirs())
	require.NoError(t, os.WriteFile(filepath.Join(acq.layout.JarsDir, "slf4j-api.jar"), []byte("x"), 0o644))

	inv := acq.Inventory()
	assert.True(t, inv.Complete())
	assert.Equal(t, []string{"slf4j-api.jar"}, inv.Present["slf4j"])
	assert.Empty(t, inv.Missing["slf4j"])
}

func TestAcquireDirectURLWritesArtifact(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jar-contents"))
	}))
	defer server.Close()

	root := t.TempDir()
	acq := NewAcquirer(root, zap.NewNop().Sugar())
	acq.registry = map[string][]ArtifactSpec{
		"slf4j": {
			{Pattern: Pattern{Name: "slf4j-api.jar"}, Source: SourceDirectURL, DirectURL: server.URL},
		},
	}

	collector, err := acq.Acquire(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, collector.HasFailures())

	content, err := os.ReadFile(filepath.Join(root, "jars", "slf4j-api.jar"))
	require.NoError(t, err)
	assert.Equal(t, "jar-contents", string(content))

	inv := acq.Inventory()
	assert.True(t, inv.Complete())
}

func TestAcquireVendorPageFollowsLicenseForm(t *testing.T) {
	var innerZip bytes.Buffer
	zw := zip.NewWriter(&innerZip)
	entry, err := zw.Create("msdrg-grouper.jar")
	require.NoError(t, err)
	_, err = entry.Write([]byte("grouper-bytes"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	mux := http.NewServeMux()
	mux.HandleFunc("/landing", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><a href="/license">java-source.zip</a></body></html>`))
	})
	mux.HandleFunc("/license", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><form action="/download" method="post">
			<input type="hidden" name="token" value="abc123">
			<input type="checkbox" name="agree" value="Yes">
		</form></body></html>`))
	})
	mux.HandleFunc("/download", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "abc123", r.FormValue("token"))
		assert.Equal(t, "Yes", r.FormValue("agree"))
		w.Write(innerZip.Bytes())
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	root := t.TempDir()
	acq := NewAcquirer(root, zap.NewNop().Sugar())
	acq.registry = map[string][]ArtifactSpec{
		"msdrg": {
			{
				Pattern:        Pattern{Regex: regexp.MustCompile(`(?i)msdrg.*\.jar$`)},
				Source:         SourceVendorPage,
				LandingPageURL: server.URL + "/landing",
				LinkMatch:      regexp.MustCompile(`java-source\.zip`),
			},
		},
	}

	collector, err := acq.Acquire(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, collector.HasFailures(), "%+v", collector.Failures())

	content, err := os.ReadFile(filepath.Join(root, "jars", "msdrg-grouper.jar"))
	require.NoError(t, err)
	assert.Equal(t, "grouper-bytes", string(content))
}

func TestAcquireCollectsFailuresIndependently(t *testing.T) {
	goodServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer goodServer.Close()

	badServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer badServer.Close()

	root := t.TempDir()
	acq := NewAcquirer(root, zap.NewNop().Sugar())
	acq.registry = map[string][]ArtifactSpec{
		"good": {{Pattern: Pattern{Name: "good.jar"}, Source: SourceDirectURL, DirectURL: goodServer.URL}},
		"bad":  {{Pattern: Pattern{Name: "bad.jar"}, Source: SourceDirectURL, DirectURL: badServer.URL}},
	}

	collector, err := acq.Acquire(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, collector.HasFailures())
	assert.Len(t, collector.Failures(), 1)
	assert.Equal(t, "bad", collector.Failures()[0].Component)

	_, err = os.Stat(filepath.Join(root, "jars", "good.jar"))
	assert.NoError(t, err)
}
