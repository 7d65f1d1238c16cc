package lsk

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localizedstringkit/lsk/internal/logger"
	"github.com/localizedstringkit/lsk/internal/perf"
	"github.com/localizedstringkit/lsk/internal/resources"
)

const (
	srcRoot     = "/app/Sources"
	stringsRoot = "/app/Strings"
)

var (
	listingPath     = filepath.Join(stringsRoot, "LocalizedStringKit.m")
	tablePath       = filepath.Join(stringsRoot, "LocalizedStringKit.bundle", "en.lproj", "LocalizedStringKit.strings")
	stringsDictPath = filepath.Join(stringsRoot, "LocalizedStringKit.bundle", "en.lproj", "LocalizedStringKit.stringsdict")
)

type generateHarness struct {
	fs     afero.Fs
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newGenerateHarness(t *testing.T, sources map[string]string) *generateHarness {
	t.Helper()
	t.Setenv("LSK_TEST", "true")
	fs := afero.NewMemMapFs()
	for path, contents := range sources {
		require.NoError(t, afero.WriteFile(fs, filepath.Join(srcRoot, path), []byte(contents), 0644))
	}
	return &generateHarness{fs: fs, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
}

func (h *generateHarness) run(opts generateOptions) error {
	h.stdout.Reset()
	h.stderr.Reset()
	opts.Path = srcRoot
	opts.LocalizedStringKitPath = stringsRoot
	deps := generateDeps{fs: h.fs, logger: logger.New(h.stdout, h.stderr, opts.Quiet, opts.Debug)}
	return runGenerate(context.Background(), nil, opts, deps)
}

func (h *generateHarness) read(t *testing.T, path string) string {
	t.Helper()
	data, err := afero.ReadFile(h.fs, path)
	require.NoError(t, err)
	return string(data)
}

func (h *generateHarness) exists(path string) bool {
	exists, _ := afero.Exists(h.fs, path)
	return exists
}

const sampleSwift = `import Foundation

let title = Localized("Hello", "Greeting")
let verb = LocalizedWithKeyExtension("Go", "Start moving", "Verb")
let count = Localized("%#@files@ selected", "Selection summary")
`

const sampleObjC = `#import "Strings.h"

NSString *info = LocalizedWithBundle(@"About", @"About screen title", @"info");
`

func TestGenerateWritesResources(t *testing.T) {
	h := newGenerateHarness(t, map[string]string{"App.swift": sampleSwift, "Legacy/Info.m": sampleObjC})

	require.NoError(t, h.run(generateOptions{GenerateStringsdict: true}))

	assert.Contains(t, h.stdout.String(), "cmd.root.generated")
	assert.True(t, h.exists(filepath.Join(stringsRoot, "info.m")))
	assert.True(t, h.exists(filepath.Join(stringsRoot, "info.bundle", "en.lproj", "LocalizedStringKit.strings")))

	listing := h.read(t, listingPath)
	assert.Contains(t, listing, `@"Hello", @"Greeting"`)
	assert.NotContains(t, listing, "%#@files@")

	entries, err := resources.LoadStringsDict(h.fs, stringsDictPath)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "%#@files@ selected", entries[0].Value)

	snaps.MatchSnapshot(t, listing, h.read(t, tablePath), h.read(t, stringsDictPath))
}

func TestGenerateWithoutStringsdictKeepsPluralsInTable(t *testing.T) {
	h := newGenerateHarness(t, map[string]string{"App.swift": sampleSwift})

	require.NoError(t, h.run(generateOptions{}))

	assert.Contains(t, h.read(t, listingPath), "%#@files@ selected")
	assert.False(t, h.exists(stringsDictPath))
}

func TestCheckReportsPendingChanges(t *testing.T) {
	h := newGenerateHarness(t, map[string]string{"App.swift": sampleSwift})

	err := h.run(generateOptions{Check: true, Quiet: true})

	assert.ErrorIs(t, err, errChangesPending)
	assert.Contains(t, h.stdout.String(), "cmd.root.changes_pending")
	assert.False(t, h.exists(listingPath))
}

func TestCheckAfterGenerateIsClean(t *testing.T) {
	h := newGenerateHarness(t, map[string]string{"App.swift": sampleSwift})
	require.NoError(t, h.run(generateOptions{GenerateStringsdict: true}))

	require.NoError(t, h.run(generateOptions{Check: true, GenerateStringsdict: true}))
	assert.Contains(t, h.stdout.String(), "cmd.root.no_changes")
}

func TestGenerateSkipsUpToDateTreeUnlessForced(t *testing.T) {
	h := newGenerateHarness(t, map[string]string{"App.swift": sampleSwift})
	require.NoError(t, h.run(generateOptions{}))
	require.NoError(t, h.fs.Remove(tablePath))

	require.NoError(t, h.run(generateOptions{}))
	assert.Contains(t, h.stdout.String(), "cmd.root.up_to_date")
	assert.False(t, h.exists(tablePath))

	require.NoError(t, h.run(generateOptions{Force: true}))
	assert.True(t, h.exists(tablePath))
}

func TestGenerateRegeneratesAfterSourceEdit(t *testing.T) {
	h := newGenerateHarness(t, map[string]string{"App.swift": sampleSwift})
	require.NoError(t, h.run(generateOptions{}))

	require.NoError(t, afero.WriteFile(h.fs, filepath.Join(srcRoot, "App.swift"), []byte(`Localized("Goodbye", "Farewell")`), 0644))
	require.NoError(t, h.run(generateOptions{}))

	assert.Contains(t, h.stdout.String(), "cmd.root.generated")
	assert.Contains(t, h.read(t, listingPath), "Goodbye")
	assert.NotContains(t, h.read(t, listingPath), "Hello")
}

func TestGenerateHonoursExclusions(t *testing.T) {
	h := newGenerateHarness(t, map[string]string{
		"App.swift":         `Localized("Hello", "Greeting")`,
		"Pods/Vendor.swift": `Localized("Vendor", "Third party")`,
	})

	require.NoError(t, h.run(generateOptions{Exclude: []string{"Pods"}}))

	assert.NotContains(t, h.read(t, listingPath), "Vendor")
}

func TestGenerateReportsEveryInvalidCall(t *testing.T) {
	h := newGenerateHarness(t, map[string]string{
		"A.swift": "let a = Localized(name, \"c\")\nlet b = Localized(String(x), \"c\")\n",
		"B.m":     "Localized(title, @\"c\");\n",
	})

	err := h.run(generateOptions{})

	assert.ErrorIs(t, err, errInvalidCalls)
	output := h.stderr.String()
	assert.Contains(t, output, "cmd.root.invalid_calls")
	assert.Contains(t, output, filepath.Join(srcRoot, "A.swift"))
	assert.Contains(t, output, filepath.Join(srcRoot, "B.m"))
	assert.Contains(t, output, `    let a = Localized(name, "c")`)
	assert.Contains(t, output, `    let b = Localized(String(x), "c")`)
	assert.Contains(t, output, `    Localized(title, @"c");`)
	assert.False(t, h.exists(listingPath))
}

func TestGenerateRejectsUnknownEncoding(t *testing.T) {
	h := newGenerateHarness(t, map[string]string{"App.swift": sampleSwift})

	err := h.run(generateOptions{StringsEncoding: "latin-1"})

	assert.ErrorAs(t, err, new(*resources.UnknownEncodingError))
	assert.False(t, h.exists(listingPath))
}

func TestGenerateStrictModeFailsOnCommentConflict(t *testing.T) {
	h := newGenerateHarness(t, map[string]string{
		"App.swift": "Localized(\"Save\", \"Button\")\nLocalized(\"Save\", \"Menu item\")\n",
	})

	require.NoError(t, h.run(generateOptions{}))
	assert.Contains(t, h.stderr.String(), "warning: ")

	assert.Error(t, h.run(generateOptions{Strict: true, Force: true}))
}

func TestGenerateRecordsRunSpans(t *testing.T) {
	require.NoError(t, perf.Init(perf.Config{Enabled: true}))
	t.Cleanup(perf.Reset)
	h := newGenerateHarness(t, map[string]string{"App.swift": sampleSwift})

	require.NoError(t, h.run(generateOptions{}))

	spans, err := perf.GetSpans()
	require.NoError(t, err)
	for _, name := range []string{perf.RunSpanName, perf.StagePrefix + "discover", perf.StagePrefix + "extract", perf.StagePrefix + "compare", perf.StagePrefix + "render", perf.StagePrefix + "write"} {
		_, ok := perf.FindSpanByName(spans, name)
		assert.True(t, ok, "expected span %q", name)
	}
}
