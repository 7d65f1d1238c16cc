package resources

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

const noComment = "No comment provided by engineer."

type Encoding string

const (
	UTF8  Encoding = "utf-8"
	UTF16 Encoding = "utf-16"
)

func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return UTF8, nil
	case "utf-16", "utf16":
		return UTF16, nil
	}
	return "", &UnknownEncodingError{Name: name}
}

// TableGenerator turns an intermediate listing into the contents of a
// .strings table.
type TableGenerator interface {
	Generate(listing []byte) ([]byte, error)
}

type Logger interface {
	Debug(message string)
	Warn(message string)
}

// StringsGenerator is an in-process replacement for genstrings limited to the
// listing format this tool writes.
type StringsGenerator struct {
	Encoding Encoding
	Log      Logger
}

func NewStringsGenerator(encoding Encoding, log Logger) *StringsGenerator {
	return &StringsGenerator{Encoding: encoding, Log: log}
}

const objcLiteral = `@"((?:[^"\\\n]|\\.)*)"`

var listingLinePattern = regexp.MustCompile(
	`NSLocalizedStringWithDefaultValue\(\s*` + objcLiteral + `\s*,\s*` + objcLiteral +
		`\s*,\s*\[NSBundle mainBundle\]\s*,\s*` + objcLiteral + `\s*,\s*` + objcLiteral + `\s*\)`,
)

type tableEntry struct {
	key      string
	value    string
	comments []string
}

func (g *StringsGenerator) Generate(listing []byte) ([]byte, error) {
	entries, err := g.parse(listing)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	for i, entry := range entries {
		if i > 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(&buf, "/* %s */\n", strings.Join(entry.comments, "\n   "))
		fmt.Fprintf(&buf, "\"%s\" = \"%s\";\n", entry.key, entry.value)
	}

	return encode(buf.Bytes(), g.Encoding)
}

func (g *StringsGenerator) parse(listing []byte) ([]tableEntry, error) {
	byKey := make(map[string]*tableEntry)
	for number, line := range strings.Split(string(listing), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		match := listingLinePattern.FindStringSubmatch(line)
		if match == nil {
			return nil, fmt.Errorf("listing line %d is not a localized string call: %s", number+1, line)
		}
		key, value, comment := match[1], match[3], match[4]
		if comment == "" {
			comment = noComment
		}

		existing, ok := byKey[key]
		if !ok {
			byKey[key] = &tableEntry{key: key, value: value, comments: []string{comment}}
			continue
		}
		if existing.value != value {
			g.Log.Warn(fmt.Sprintf("Key %s has two values, keeping %q over %q", key, existing.value, value))
			continue
		}
		if !containsString(existing.comments, comment) {
			existing.comments = append(existing.comments, comment)
		}
	}

	entries := make([]tableEntry, 0, len(byKey))
	for _, entry := range byKey {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].key < entries[j].key
	})
	return entries, nil
}

func encode(text []byte, encoding Encoding) ([]byte, error) {
	switch encoding {
	case "", UTF8:
		return text, nil
	case UTF16:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes(text)
	}
	return nil, &UnknownEncodingError{Name: string(encoding)}
}

func containsString(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}
