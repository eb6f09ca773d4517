package acquisition

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
)

// Pattern matches exactly one filename or a set of filenames via regex.
// Exactly one of Name/Regex is set.
type Pattern struct {
	Name  string
	Regex *regexp.Regexp
}

func (p Pattern) matches(name string) bool {
	if p.Regex != nil {
		return p.Regex.MatchString(name)
	}
	return p.Name == name
}

// ExtractMatching recursively walks a ZIP archive (including ZIPs nested
// inside it), and for every entry whose base name matches one of patterns,
// writes the entry's bytes to destDir/<base name>. Entries already present
// in destDir are left untouched unless overwrite is true. Returns the base
// names that were actually written.
func ExtractMatching(zipPath, destDir string, patterns []Pattern, overwrite bool) ([]string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("acquisition: opening zip %s: %w", zipPath, err)
	}
	defer r.Close()

	return extractFromReader(&r.Reader, destDir, patterns, overwrite)
}

func extractFromReader(r *zip.Reader, destDir string, patterns []Pattern, overwrite bool) ([]string, error) {
	var written []string

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		base := filepath.Base(f.Name)

		if filepath.Ext(base) == ".zip" {
			nested, err := extractNestedZip(f, destDir, patterns, overwrite)
			if err != nil {
				return written, err
			}
			written = append(written, nested...)
			continue
		}

		if !matchesAny(base, patterns) {
			continue
		}

		destPath := filepath.Join(destDir, base)
		if !overwrite {
			if _, err := os.Stat(destPath); err == nil {
				continue
			}
		}

		if err := writeZipEntry(f, destPath); err != nil {
			return written, err
		}
		written = append(written, base)
	}

	return written, nil
}

func extractNestedZip(f *zip.File, destDir string, patterns []Pattern, overwrite bool) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("acquisition: opening nested zip %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("acquisition: reading nested zip %s: %w", f.Name, err)
	}

	nestedReader, err := zip.NewReader(readerAtFromBytes(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("acquisition: parsing nested zip %s: %w", f.Name, err)
	}

	return extractFromReader(nestedReader, destDir, patterns, overwrite)
}

func writeZipEntry(f *zip.File, destPath string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("acquisition: opening entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("acquisition: creating %s: %w", filepath.Dir(destPath), err)
	}

	out, err := os.OpenFile(destPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("acquisition: creating %s: %w", destPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("acquisition: writing %s: %w", destPath, err)
	}
	return nil
}

func matchesAny(name string, patterns []Pattern) bool {
	for _, p := range patterns {
		if p.matches(name) {
			return true
		}
	}
	return false
}

// bytesReaderAt adapts an in-memory byte slice to io.ReaderAt, needed by
// zip.NewReader for nested-archive bytes read entirely into memory.
type bytesReaderAt struct {
	data []byte
}

func (b *bytesReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func readerAtFromBytes(data []byte) io.ReaderAt {
	return &bytesReaderAt{data: data}
}
