package resources

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"howett.net/plist"

	"github.com/localizedstringkit/lsk/internal/models"
)

func translatedEntry() models.PluralEntry {
	entry := models.NewPluralEntry(models.KeyFor("%#@files@ selected", ""), "%#@files@ selected", []string{"files"})
	entry.Variables[0].ValueType = "d"
	entry.Variables[0].Categories = map[string]string{"one": "%d file", "other": "%d files"}
	entry.Variables[0].Extra = map[string]interface{}{"NSStringTranslatorNote": "keep"}
	return entry
}

func TestStringsDictRoundTrip(t *testing.T) {
	entries := []models.PluralEntry{
		translatedEntry(),
		models.NewPluralEntry("0000", "%#@a@ and %#@b@", []string{"b", "a"}),
	}

	data, err := EncodeStringsDict(entries)
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "<?xml"))
	assert.Contains(t, text, "<key>NSStringLocalizedFormatKey</key>")
	assert.Contains(t, text, "<string>NSStringPluralRuleType</string>")
	assert.Contains(t, text, "\t")

	decoded, err := DecodeStringsDict(data, "test.stringsdict")
	require.NoError(t, err)
	require.Len(t, decoded, 2)

	assert.Equal(t, "0000", decoded[0].Key)
	assert.Equal(t, []string{"a", "b"}, decoded[0].SortedVariableNames())
	assert.Equal(t, []models.Variable{
		{Name: "a", SpecType: models.PluralRuleSpecType},
		{Name: "b", SpecType: models.PluralRuleSpecType},
	}, decoded[0].Variables)

	files, ok := decoded[1].Variable("files")
	require.True(t, ok)
	assert.Equal(t, "d", files.ValueType)
	assert.Equal(t, map[string]string{"one": "%d file", "other": "%d files"}, files.Categories)
	assert.Equal(t, map[string]interface{}{"NSStringTranslatorNote": "keep"}, files.Extra)
}

func TestEncodeStringsDictIsStable(t *testing.T) {
	entries := []models.PluralEntry{translatedEntry(), models.NewPluralEntry("k", "%#@x@ %#@y@ %#@z@", []string{"z", "x", "y"})}

	first, err := EncodeStringsDict(entries)
	require.NoError(t, err)
	second, err := EncodeStringsDict(entries)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDecodeStringsDictReadsBinaryPlists(t *testing.T) {
	root := map[string]interface{}{
		"k": map[string]interface{}{
			models.LocalizedFormatKey: "%#@n@",
			"n": map[string]interface{}{models.FormatSpecTypeKey: models.PluralRuleSpecType, "other": "%d"},
		},
	}
	data, err := plist.Marshal(root, plist.BinaryFormat)
	require.NoError(t, err)

	entries, err := DecodeStringsDict(data, "bin.stringsdict")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "%#@n@", entries[0].Value)
	assert.Equal(t, map[string]string{"other": "%d"}, entries[0].Variables[0].Categories)
}

func TestDecodeStringsDictRejectsNonDictionaryEntries(t *testing.T) {
	data, err := plist.Marshal(map[string]interface{}{"k": "not a dict"}, plist.XMLFormat)
	require.NoError(t, err)

	_, err = DecodeStringsDict(data, "bad.stringsdict")
	assert.ErrorContains(t, err, "entry k in bad.stringsdict is not a dictionary")
}

func TestDecodeStringsDictRejectsGarbage(t *testing.T) {
	_, err := DecodeStringsDict([]byte("not a plist"), "junk.stringsdict")
	assert.ErrorContains(t, err, "failed to decode junk.stringsdict")
}

func TestLoadStringsDictMissingFile(t *testing.T) {
	_, err := LoadStringsDict(afero.NewMemMapFs(), "/missing.stringsdict")
	assert.ErrorContains(t, err, "failed to read /missing.stringsdict")
}
