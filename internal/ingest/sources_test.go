package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	return p
}

func TestResolveSources(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "unrelated.csv")
	meta := touch(t, dir, "Meta Data 2.16.15 PM.csv")
	seed := touch(t, dir, "Creatives 3.58.44 PM.csv")

	t.Run("located in downloads dir", func(t *testing.T) {
		files := ResolveSources(SourceConfig{DownloadsDir: dir})
		assert.Equal(t, filepath.Join(dir, CreativeSheetFileName), files.CreativeSheetPath)
		assert.Equal(t, meta, files.MetaSeedPath)
		assert.Equal(t, seed, files.CreativeSeedPath)
	})

	t.Run("explicit paths win", func(t *testing.T) {
		files := ResolveSources(SourceConfig{
			CreativeSheetPath: "/x/sheet.xlsx",
			MetaSeedPath:      "s3://bucket/meta.csv",
			DownloadsDir:      dir,
		})
		assert.Equal(t, "/x/sheet.xlsx", files.CreativeSheetPath)
		assert.Equal(t, "s3://bucket/meta.csv", files.MetaSeedPath)
		assert.Equal(t, seed, files.CreativeSeedPath)
	})

	t.Run("nothing configured", func(t *testing.T) {
		files := ResolveSources(SourceConfig{})
		assert.Equal(t, SourceFiles{}, files)
	})
}

func TestFindByFragmentsRequiresAll(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Data 2.16.15 AM.csv")
	assert.Equal(t, "", FindByFragments(dir, "Data 2.16.15", "PM.csv"))
	assert.Equal(t, "", FindByFragments(filepath.Join(dir, "missing"), "PM.csv"))
}

func TestRequireFile(t *testing.T) {
	dir := t.TempDir()
	present := touch(t, dir, "sheet.xlsx")

	assert.NoError(t, RequireFile(present, LabelCreativeSheet))

	err := RequireFile("", LabelCreativeSheet)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceMissing))
	assert.Contains(t, err.Error(), "Creative metadata file not found at path: <empty>")

	missing := filepath.Join(dir, "nope.csv")
	err = RequireFile(missing, LabelMetaSeed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Meta performance seed CSV not found at path: "+missing)

	assert.Error(t, RequireFile(dir, LabelMetaSeed))
}

type stubFetcher struct {
	dir     string
	fetched []string
	err     error
}

func (f *stubFetcher) Fetch(_ context.Context, uri string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.fetched = append(f.fetched, uri)
	p := filepath.Join(f.dir, filepath.Base(uri))
	return p, os.WriteFile(p, []byte("x"), 0644)
}

func TestLocalize(t *testing.T) {
	dir := t.TempDir()
	fetcher := &stubFetcher{dir: dir}

	files := SourceFiles{
		CreativeSheetPath: "/local/sheet.xlsx",
		MetaSeedPath:      "s3://drops/meta.csv",
	}
	local, cleanup, err := localize(context.Background(), files, fetcher)
	require.NoError(t, err)

	assert.Equal(t, "/local/sheet.xlsx", local.CreativeSheetPath)
	assert.Equal(t, filepath.Join(dir, "meta.csv"), local.MetaSeedPath)
	assert.Equal(t, []string{"s3://drops/meta.csv"}, fetcher.fetched)
	assert.FileExists(t, local.MetaSeedPath)

	cleanup()
	assert.NoFileExists(t, local.MetaSeedPath)
}

func TestLocalizeWithoutFetcher(t *testing.T) {
	_, _, err := localize(context.Background(), SourceFiles{MetaSeedPath: "s3://drops/meta.csv"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "object storage is not configured")
}
