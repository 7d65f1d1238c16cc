package models

import (
	"crypto/md5" // #nosec G501 -- the runtime library looks strings up by MD5, not used for security.
	"encoding/hex"
	"fmt"
	"sort"
)

const (
	DefaultLanguage = "en"
	DefaultTable    = "LocalizedStringKit"
)

// LocalizedString is a single call site extracted from source code. Value,
// Comment and KeyExtension keep the escape sequences of the source literal.
// Key is derived from Value and KeyExtension only; Comment and Bundle never affect it.
type LocalizedString struct {
	Key          string
	Value        string
	Comment      string
	KeyExtension string
	Bundle       string
	Language     string
	Table        string
}

func NewLocalizedString(value string, comment string, keyExtension string, bundle string) LocalizedString {
	return LocalizedString{
		Key:          KeyFor(value, keyExtension),
		Value:        value,
		Comment:      comment,
		KeyExtension: keyExtension,
		Bundle:       bundle,
		Language:     DefaultLanguage,
		Table:        DefaultTable,
	}
}

// KeyFor returns the lowercase hex MD5 of value, or of value + ":" + keyExtension
// when an extension is present. Both are literal bodies as written in source;
// they are unescaped first because the runtime hashes the string it receives.
func KeyFor(value string, keyExtension string) string {
	hashInput := Unescape(value)
	if keyExtension != "" {
		hashInput += ":" + Unescape(keyExtension)
	}
	digest := md5.Sum([]byte(hashInput)) // #nosec G401
	return hex.EncodeToString(digest[:])
}

func (s LocalizedString) HasKeyExtension() bool {
	return s.KeyExtension != ""
}

// identity is the full visible tuple used for deduplication. Bundles compare
// by directory name, so "info" and "info.bundle" are the same bundle.
type identity struct {
	key, value, comment, keyExtension, bundle string
}

func (s LocalizedString) identity() identity {
	return identity{s.Key, s.Value, s.Comment, s.KeyExtension, BundleDirName(s.Bundle)}
}

// SameAs reports whether both strings carry the same key, value, comment,
// key extension and bundle.
func (s LocalizedString) SameAs(other LocalizedString) bool {
	return s.identity() == other.identity()
}

// NSLocalizedFormat renders the string as the Objective-C call used in the
// intermediate listing that feeds the string table generator.
func (s LocalizedString) NSLocalizedFormat() string {
	return fmt.Sprintf(
		`NSLocalizedStringWithDefaultValue(@"%s", @"%s", [NSBundle mainBundle], @"%s", @"%s");`,
		s.Key, s.Table, s.Value, s.Comment,
	)
}

// Dedupe drops repeated strings, keeping the first occurrence of every identity.
func Dedupe(strings []LocalizedString) []LocalizedString {
	seen := make(map[identity]struct{}, len(strings))
	result := make([]LocalizedString, 0, len(strings))
	for _, s := range strings {
		id := s.identity()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, s)
	}
	return result
}

// SortStrings orders strings by key, key extension and comment. The sort is
// stable so entries tying on all three keep their incoming order.
func SortStrings(strings []LocalizedString) {
	sort.SliceStable(strings, func(i, j int) bool {
		a, b := strings[i], strings[j]
		if a.Key != b.Key {
			return a.Key < b.Key
		}
		if a.KeyExtension != b.KeyExtension {
			return a.KeyExtension < b.KeyExtension
		}
		return a.Comment < b.Comment
	})
}
