package resources

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"howett.net/plist"

	"github.com/localizedstringkit/lsk/internal/models"
)

// LoadStringsDict reads a .stringsdict file in any plist format. Entries come
// back sorted by key.
func LoadStringsDict(fs afero.Fs, path string) ([]models.PluralEntry, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return DecodeStringsDict(data, path)
}

func DecodeStringsDict(data []byte, path string) ([]models.PluralEntry, error) {
	var root map[string]interface{}
	if _, err := plist.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}

	keys := make([]string, 0, len(root))
	for key := range root {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	entries := make([]models.PluralEntry, 0, len(keys))
	for _, key := range keys {
		dict, ok := root[key].(map[string]interface{})
		if !ok {
			return nil, errors.Errorf("entry %s in %s is not a dictionary", key, path)
		}
		entries = append(entries, models.PluralEntryFromDict(key, dict))
	}
	return entries, nil
}

// EncodeStringsDict renders entries as a tab-indented XML plist with keys in
// lexical order at every level.
func EncodeStringsDict(entries []models.PluralEntry) ([]byte, error) {
	root := make(map[string]interface{}, len(entries))
	for _, entry := range entries {
		root[entry.Key] = entry.Dict()
	}
	data, err := plist.MarshalIndent(root, plist.XMLFormat, "\t")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode stringsdict")
	}
	return append(data, '\n'), nil
}
