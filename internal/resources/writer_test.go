package resources

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localizedstringkit/lsk/internal/extraction"
	"github.com/localizedstringkit/lsk/internal/models"
)

const root = "/Strings"

func sampleResult() extraction.Result {
	hello := models.NewLocalizedString("Hello", "Greeting", "", "")
	goVerb := models.NewLocalizedString("Go", "Start", "Verb", "")
	info := models.NewLocalizedString("Another value", "Some comment", "", "info.bundle")
	strings := []models.LocalizedString{hello, goVerb}
	models.SortStrings(strings)

	plural := "%#@firstValue@ and %#@secondValue@"
	return extraction.Result{
		Strings: map[string][]models.LocalizedString{
			models.DefaultBundle: strings,
			"info.bundle":        {info},
		},
		Plurals: map[string][]models.PluralEntry{
			models.DefaultBundle: {models.NewPluralEntry(models.KeyFor(plural, ""), plural, []string{"firstValue", "secondValue"})},
		},
	}
}

func read(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func newTestWriter(fs afero.Fs) *Writer {
	log := &recordingLogger{}
	return NewWriter(fs, NewStringsGenerator(UTF8, log), log)
}

func TestWriterCreatesBundleResources(t *testing.T) {
	fs := afero.NewMemMapFs()
	result := sampleResult()

	require.NoError(t, newTestWriter(fs).Write(context.Background(), root, result))

	defaults := models.NewBundlePaths(root, "")
	info := models.NewBundlePaths(root, "info")

	assert.Equal(t, string(RenderListing(result.Strings[models.DefaultBundle])), read(t, fs, filepath.Join(root, "LocalizedStringKit.m")))
	assert.Equal(t, string(RenderListing(result.Strings["info.bundle"])), read(t, fs, filepath.Join(root, "info.m")))

	table := read(t, fs, filepath.Join(root, "LocalizedStringKit.bundle", "en.lproj", "LocalizedStringKit.strings"))
	assert.Contains(t, table, "/* Greeting */\n\"8b1a9953c4611296a827abf8c47804d7\" = \"Hello\";\n")
	assert.Contains(t, table, "\""+models.KeyFor("Go", "Verb")+"\" = \"Go\";")
	assert.Contains(t, read(t, fs, info.StringsPath("en", "LocalizedStringKit")), "= \"Another value\";")

	entries, err := LoadStringsDict(fs, defaults.StringsDictPath("en", "LocalizedStringKit"))
	require.NoError(t, err)
	assert.Equal(t, result.Plurals[models.DefaultBundle], entries)

	exists, err := afero.Exists(fs, info.StringsDictPath("en", "LocalizedStringKit"))
	require.NoError(t, err)
	assert.False(t, exists)

	snaps.MatchSnapshot(t,
		read(t, fs, defaults.ListingPath()),
		table,
		read(t, fs, defaults.StringsDictPath("en", "LocalizedStringKit")),
	)
}

func TestWriterIsIdempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	writer := newTestWriter(fs)
	result := sampleResult()

	first, err := writer.Plan(context.Background(), root, result)
	require.NoError(t, err)
	require.NoError(t, writer.Commit(context.Background(), first))

	second, err := writer.Plan(context.Background(), root, result)
	require.NoError(t, err)
	require.NoError(t, writer.Commit(context.Background(), second))

	assert.Equal(t, first, second)
	for _, file := range second {
		assert.Equal(t, string(file.Data), read(t, fs, file.Path))
	}
}

func TestWriterMergesTranslatedStringsDict(t *testing.T) {
	fs := afero.NewMemMapFs()
	result := sampleResult()
	path := models.NewBundlePaths(root, "").StringsDictPath("en", "LocalizedStringKit")

	incoming := result.Plurals[models.DefaultBundle][0]
	translated := incoming
	translated.Variables = []models.Variable{
		{Name: "firstValue", SpecType: models.PluralRuleSpecType, ValueType: "d", Categories: map[string]string{"one": "%d apple", "other": "%d apples"}},
		{Name: "secondValue", SpecType: models.PluralRuleSpecType, ValueType: "d", Categories: map[string]string{"other": "%d pears"}},
	}
	stale := models.NewPluralEntry("ffff", "%#@old@", []string{"old"})
	existing, err := EncodeStringsDict([]models.PluralEntry{translated, stale})
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, path, existing, 0644))

	require.NoError(t, newTestWriter(fs).Write(context.Background(), root, result))

	entries, err := LoadStringsDict(fs, path)
	require.NoError(t, err)
	assert.Equal(t, []models.PluralEntry{translated}, entries)
}

func TestWriterConflictLeavesTreeUntouched(t *testing.T) {
	fs := afero.NewMemMapFs()
	result := sampleResult()
	path := models.NewBundlePaths(root, "").StringsDictPath("en", "LocalizedStringKit")

	incoming := result.Plurals[models.DefaultBundle][0]
	tampered := models.NewPluralEntry(incoming.Key, "%#@firstValue@ or %#@secondValue@", []string{"firstValue", "secondValue"})
	existing, err := EncodeStringsDict([]models.PluralEntry{tampered})
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, path, existing, 0644))

	err = newTestWriter(fs).Write(context.Background(), root, result)

	assert.ErrorIs(t, err, &MergeConflictError{Field: ConflictValue})
	assert.Equal(t, string(existing), read(t, fs, path))
	listingExists, _ := afero.Exists(fs, filepath.Join(root, "LocalizedStringKit.m"))
	assert.False(t, listingExists)
}

type failingGenerator struct{}

func (failingGenerator) Generate([]byte) ([]byte, error) {
	return nil, errors.New("generator exploded")
}

func TestWriterGeneratorFailureWritesNothing(t *testing.T) {
	fs := afero.NewMemMapFs()

	err := NewWriter(fs, failingGenerator{}, &recordingLogger{}).Write(context.Background(), root, sampleResult())

	assert.ErrorContains(t, err, "generator exploded")
	exists, _ := afero.DirExists(fs, root)
	assert.False(t, exists)
}

func TestWriterReportsUnreadableStringsDict(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := models.NewBundlePaths(root, "").StringsDictPath("en", "LocalizedStringKit")
	require.NoError(t, afero.WriteFile(fs, path, []byte("<plist><array></plist"), 0644))

	err := newTestWriter(fs).Write(context.Background(), root, sampleResult())

	assert.ErrorContains(t, err, "failed to decode")
}

func TestWriterCommitReportsWriteFailures(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())

	err := newTestWriter(fs).Commit(context.Background(), []FileWrite{{Path: "/Strings/a.m", Data: []byte("x")}})

	assert.ErrorContains(t, err, "failed to write /Strings/a.m")
}

func TestWriterWritesEmptyDefaultListingForEmptyResult(t *testing.T) {
	fs := afero.NewMemMapFs()

	require.NoError(t, newTestWriter(fs).Write(context.Background(), root, extraction.Result{}))

	assert.Equal(t, "", read(t, fs, filepath.Join(root, "LocalizedStringKit.m")))
	exists, _ := afero.Exists(fs, filepath.Join(root, "LocalizedStringKit.bundle", "en.lproj", "LocalizedStringKit.strings"))
	assert.True(t, exists)
}
