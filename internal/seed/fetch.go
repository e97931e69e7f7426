package seed

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/webmediarec/backend/internal/logger"
)

const DefaultDatasetURL = "https://files.grouplens.org/datasets/movielens/ml-100k.zip"

// Fetch downloads and extracts the ml-100k archive under outDir, returning
// the extracted dataset directory. An already-present archive or extraction
// is reused unless force is set.
func Fetch(ctx context.Context, url, outDir string, force bool, log *logger.Logger) (string, error) {
	if url == "" {
		url = DefaultDatasetURL
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	zipPath := filepath.Join(outDir, "ml-100k.zip")
	extractDir := filepath.Join(outDir, "ml-100k")

	if force {
		_ = os.Remove(zipPath)
		_ = os.RemoveAll(extractDir)
	}

	if _, err := os.Stat(zipPath); os.IsNotExist(err) {
		log.Info("downloading dataset", "url", url)
		if err := download(ctx, url, zipPath); err != nil {
			return "", err
		}
	} else {
		log.Info("archive already present", "path", zipPath)
	}

	if entries, err := os.ReadDir(extractDir); err != nil || len(entries) == 0 {
		log.Info("extracting dataset", "dir", extractDir)
		if err := extract(zipPath, outDir); err != nil {
			return "", err
		}
	} else {
		log.Info("already extracted", "dir", extractDir)
	}
	return extractDir, nil
}

func download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: status %s", url, resp.Status)
	}

	tmp := dest + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, dest)
}

func extract(zipPath, outDir string) error {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer zr.Close()

	cleanOut := filepath.Clean(outDir)
	for _, f := range zr.File {
		dest := filepath.Join(cleanOut, f.Name)
		if !strings.HasPrefix(dest, cleanOut+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry escapes output dir: %s", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		if err := extractFile(f, dest); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
