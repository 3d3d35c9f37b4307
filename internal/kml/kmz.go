package kml

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// DownloadKMZ fetches a KMZ archive to destPath.
func DownloadKMZ(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download kmz: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s downloading kmz", resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("failed to create download dir: %w", err)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create kmz file: %w", err)
	}
	defer out.Close() // nolint:errcheck

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write kmz file: %w", err)
	}

	return nil
}

// ExtractKMZ unpacks doc.kml and the images/ directory from a KMZ archive
// into destDir. The main document must be present; images are optional.
func ExtractKMZ(kmzPath, destDir string) error {
	zr, err := zip.OpenReader(kmzPath)
	if err != nil {
		return fmt.Errorf("failed to open kmz archive: %w", err)
	}
	defer zr.Close() // nolint:errcheck

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("failed to create dest dir: %w", err)
	}

	foundDoc := false
	for _, f := range zr.File {
		name := filepath.ToSlash(f.Name)
		switch {
		case name == "doc.kml":
			foundDoc = true
		case strings.HasPrefix(name, "images/") && !f.FileInfo().IsDir():
		default:
			continue
		}

		if err := extractFile(f, destDir); err != nil {
			return err
		}
	}

	if !foundDoc {
		return fmt.Errorf("doc.kml missing from kmz archive")
	}

	return nil
}

func extractFile(f *zip.File, destDir string) error {
	// Entry names come from the archive; reject anything escaping destDir.
	rel := filepath.Clean(filepath.FromSlash(f.Name))
	if strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return fmt.Errorf("unsafe archive entry %q", f.Name)
	}

	dest := filepath.Join(destDir, rel)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create dir for %q: %w", f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %q: %w", f.Name, err)
	}
	defer rc.Close() // nolint:errcheck

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", dest, err)
	}
	defer out.Close() // nolint:errcheck

	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("failed to extract %q: %w", f.Name, err)
	}

	return nil
}
