package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ignite/creative-analytics/internal/storage"
)

// Default file names and name fragments searched for in the downloads dir.
const (
	CreativeSheetFileName = "AP _ Creative Sheet.xlsx"
)

var (
	metaSeedFragments     = []string{"Data 2.16.15", "PM.csv"}
	creativeSeedFragments = []string{"Creatives 3.58.44", "PM.csv"}
)

// Labels used in precondition failures.
const (
	LabelCreativeSheet = "Creative metadata file"
	LabelMetaSeed      = "Meta performance seed CSV"
)

// SourceConfig holds configured source paths. Empty paths are located in
// DownloadsDir.
type SourceConfig struct {
	CreativeSheetPath string
	MetaSeedPath      string
	CreativeSeedPath  string
	DownloadsDir      string
}

// SourceFiles are the resolved inputs of one sync.
type SourceFiles struct {
	CreativeSheetPath string `json:"creativeSheetPath"`
	MetaSeedPath      string `json:"metaSeedPath"`
	CreativeSeedPath  string `json:"creativeSeedPath"`
}

// Fetcher downloads a remote source to a local file.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (string, error)
}

// ResolveSources applies configured paths and falls back to searching the
// downloads dir. Paths that cannot be found are left empty.
func ResolveSources(cfg SourceConfig) SourceFiles {
	files := SourceFiles{
		CreativeSheetPath: cfg.CreativeSheetPath,
		MetaSeedPath:      cfg.MetaSeedPath,
		CreativeSeedPath:  cfg.CreativeSeedPath,
	}
	if files.CreativeSheetPath == "" && cfg.DownloadsDir != "" {
		files.CreativeSheetPath = filepath.Join(cfg.DownloadsDir, CreativeSheetFileName)
	}
	if files.MetaSeedPath == "" {
		files.MetaSeedPath = FindByFragments(cfg.DownloadsDir, metaSeedFragments...)
	}
	if files.CreativeSeedPath == "" {
		files.CreativeSeedPath = FindByFragments(cfg.DownloadsDir, creativeSeedFragments...)
	}
	return files
}

// FindByFragments returns the first file in dir (by name order) whose name
// contains every fragment, or "" when none does.
func FindByFragments(dir string, fragments ...string) string {
	if dir == "" {
		return ""
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		matched := true
		for _, f := range fragments {
			if !strings.Contains(name, f) {
				matched = false
				break
			}
		}
		if matched {
			return filepath.Join(dir, name)
		}
	}
	return ""
}

// RequireFile fails with ErrSourceMissing when path is empty or absent.
func RequireFile(path, label string) error {
	if path == "" {
		return fmt.Errorf("%w: %s not found at path: <empty>", ErrSourceMissing, label)
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s not found at path: %s", ErrSourceMissing, label, path)
	}
	return nil
}

// fileExists reports whether an optional source is usable.
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// localize downloads s3:// sources through fetcher. The returned cleanup
// removes the downloaded temp files.
func localize(ctx context.Context, files SourceFiles, fetcher Fetcher) (SourceFiles, func(), error) {
	var temps []string
	cleanup := func() {
		for _, p := range temps {
			os.Remove(p)
		}
	}

	fetch := func(p string) (string, error) {
		if !storage.IsS3URI(p) {
			return p, nil
		}
		if fetcher == nil {
			return "", fmt.Errorf("s3 source %s: object storage is not configured", p)
		}
		local, err := fetcher.Fetch(ctx, p)
		if err != nil {
			return "", err
		}
		temps = append(temps, local)
		return local, nil
	}

	local := files
	var err error
	if local.CreativeSheetPath, err = fetch(files.CreativeSheetPath); err != nil {
		cleanup()
		return files, func() {}, err
	}
	if local.MetaSeedPath, err = fetch(files.MetaSeedPath); err != nil {
		cleanup()
		return files, func() {}, err
	}
	if local.CreativeSeedPath, err = fetch(files.CreativeSeedPath); err != nil {
		cleanup()
		return files, func() {}, err
	}
	return local, cleanup, nil
}
